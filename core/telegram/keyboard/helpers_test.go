package keyboard

import "testing"

func btns(n int) []InlineBtn {
	out := make([]InlineBtn, n)
	for i := range out {
		out[i] = InlineBtn{Text: "b", Unique: "u"}
	}
	return out
}

func TestInlineButtonsTwoColumnsEven(t *testing.T) {
	m := InlineButtonsTwoColumns(btns(8))
	if len(m.InlineKeyboard) != 4 {
		t.Fatalf("rows = %d, want 4", len(m.InlineKeyboard))
	}
	for i, row := range m.InlineKeyboard {
		if len(row) != 2 {
			t.Errorf("row %d has %d buttons, want 2", i, len(row))
		}
	}
}

func TestInlineButtonsTwoColumnsOdd(t *testing.T) {
	m := InlineButtonsTwoColumns(btns(7))
	if len(m.InlineKeyboard) != 4 {
		t.Fatalf("rows = %d, want 4", len(m.InlineKeyboard))
	}
	last := m.InlineKeyboard[len(m.InlineKeyboard)-1]
	if len(last) != 1 {
		t.Errorf("trailing row has %d buttons, want 1", len(last))
	}
}

func TestInlineButtonsNPerRow(t *testing.T) {
	m := InlineButtonsNPerRow(btns(5), 2)
	if len(m.InlineKeyboard) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.InlineKeyboard))
	}
	if len(m.InlineKeyboard[2]) != 1 {
		t.Errorf("last row has %d buttons", len(m.InlineKeyboard[2]))
	}
}

func TestInlineButtonsDataEncoding(t *testing.T) {
	m := InlineButtonsRows([]InlineBtn{{Text: "Понедельник", Unique: "day", Data: "day_mon"}})
	btn := m.InlineKeyboard[0][0]
	if btn.Unique != "day" || btn.Data != "day_mon" {
		t.Errorf("button = %+v", btn)
	}
}
