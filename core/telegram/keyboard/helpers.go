package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn describes a convenience wrapper for inline button properties.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// InlineButtons builds an inline keyboard where each provided button is placed on its own row.
func InlineButtons(buttons []InlineBtn) *tele.ReplyMarkup {
	rows := make([][]InlineBtn, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []InlineBtn{b})
	}
	return InlineButtonsRows(rows...)
}

// InlineButtonsRows builds an inline keyboard from rows of InlineBtn.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = *markup.Data(btn.Text, btn.Unique, btn.Data).Inline()
		}
		inline[i] = r
	}
	markup.InlineKeyboard = inline
	return markup
}

// InlineButtonsNPerRow splits a flat list of buttons into rows with up to n buttons per row.
// If n <= 1, it behaves like InlineButtons (one per row).
func InlineButtonsNPerRow(buttons []InlineBtn, n int) *tele.ReplyMarkup {
	if n <= 1 {
		return InlineButtons(buttons)
	}
	var rows [][]InlineBtn
	for i := 0; i < len(buttons); i += n {
		end := i + n
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	return InlineButtonsRows(rows...)
}

// InlineButtonsTwoColumns lays buttons out in two vertical columns: the first
// half of the list forms the left column, the second half the right one.
// An odd trailing button occupies a full row.
func InlineButtonsTwoColumns(buttons []InlineBtn) *tele.ReplyMarkup {
	half := len(buttons) / 2
	var rows [][]InlineBtn
	for i := 0; i < half; i++ {
		row := []InlineBtn{buttons[i]}
		if i+half < len(buttons) {
			row = append(row, buttons[i+half])
		}
		rows = append(rows, row)
	}
	if half*2 < len(buttons) && half > 0 {
		rows = append(rows, []InlineBtn{buttons[len(buttons)-1]})
	}
	if len(rows) == 0 && len(buttons) > 0 {
		rows = append(rows, buttons)
	}
	return InlineButtonsRows(rows...)
}
