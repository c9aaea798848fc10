package handlers

import (
	"errors"
	"fmt"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/planbot/core/telegram/helpers"
	"github.com/m3rciful/planbot/core/telegram/keyboard"
	"github.com/m3rciful/planbot/internal/schedule"
	"github.com/m3rciful/planbot/internal/session"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

const (
	msgPickDay      = "Выбери день недели:"
	msgActionDone   = "✅ Действие выполнено успешно."
	msgActionFailed = "❌ Не удалось выполнить действие"
)

// dayGridMarkup lays the seven days plus a back button out in two columns.
func dayGridMarkup(dayUnique, backUnique string) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(schedule.Days)+1)
	for _, d := range schedule.Days {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   d.Title(),
			Unique: dayUnique,
			Data:   d.Code(),
		})
	}
	buttons = append(buttons, keyboard.InlineBtn{Text: "⬅️ Назад", Unique: backUnique})
	return keyboard.InlineButtonsTwoColumns(buttons)
}

// Schedule shows the day picker.
func (h *Handlers) Schedule(c tele.Context) error {
	return editView(c, msgPickDay, dayGridMarkup(cbDay, cbMainBack))
}

// Day stores the selected day plus the menu message ID and renders the
// day's blocks with edit controls.
func (h *Handlers) Day(c tele.Context) error {
	ctx := buildCtx(c)
	user := c.Sender()

	day, ok := schedule.DayFromCode(callbacks.CallbackPayload(c))
	if !ok {
		return fmt.Errorf("handlers: bad day payload %q", callbacks.CallbackPayload(c))
	}
	if err := h.store.EnsureUser(ctx, user.ID, user.FirstName, user.LastName); err != nil {
		return err
	}
	if err := h.sessions.SetDay(ctx, user.ID, day, c.Callback().Message.ID); err != nil {
		return err
	}
	return h.renderDay(c, user.ID, day)
}

func (h *Handlers) renderDay(c tele.Context, userID int64, day schedule.Day) error {
	ctx := buildCtx(c)
	blocks, err := h.store.DayBlocks(ctx, userID, day)
	if err != nil {
		return err
	}
	return editView(c, formatDayText(day, blocks), dayActionsMarkup())
}

// sessionDay resolves the day currently selected by the user.
func (h *Handlers) sessionDay(c tele.Context) (schedule.Day, error) {
	st, err := h.sessions.State(buildCtx(c), c.Sender().ID)
	if err != nil {
		return "", err
	}
	if !st.Day.Valid() {
		return "", errors.New("handlers: no day selected")
	}
	return st.Day, nil
}

// BlockAddChoice shows the add submenu: new block or copy a whole day.
func (h *Handlers) BlockAddChoice(c tele.Context) error {
	day, err := h.sessionDay(c)
	if err != nil {
		return err
	}
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "➕ Добавить блок", Unique: cbBlockAdd},
			{Text: "📋 Копировать день", Unique: cbBlockCopy},
		},
		[]keyboard.InlineBtn{
			{Text: "⬅️ Назад", Unique: cbDay, Data: day.Code()},
		},
	)
	return tghelpers.EditMarkup(c, markup)
}

// BlockDeleteChoice shows the delete submenu: one block or the whole day.
func (h *Handlers) BlockDeleteChoice(c tele.Context) error {
	day, err := h.sessionDay(c)
	if err != nil {
		return err
	}
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "✖️ Удалить блок", Unique: cbBlockDelete},
			{Text: "🧹 Очистить день", Unique: cbDayClear},
		},
		[]keyboard.InlineBtn{
			{Text: "⬅️ Назад", Unique: cbDay, Data: day.Code()},
		},
	)
	return tghelpers.EditMarkup(c, markup)
}

// BlockCopy shows the source day picker for copying.
func (h *Handlers) BlockCopy(c tele.Context) error {
	return tghelpers.EditMarkup(c, dayGridMarkup(cbDayCopy, cbBlockAddChoice))
}

// DayCopy copies the picked source day into the currently selected day.
func (h *Handlers) DayCopy(c tele.Context) error {
	ctx := buildCtx(c)
	user := c.Sender()

	src, ok := schedule.DayFromCode(callbacks.CallbackPayload(c))
	if !ok {
		return fmt.Errorf("handlers: bad copy payload %q", callbacks.CallbackPayload(c))
	}
	dst, err := h.sessionDay(c)
	if err != nil {
		return err
	}

	copyErr := h.store.CopyDay(ctx, user.ID, src, dst)
	if copyErr != nil {
		logger.Warn(ctx, "handlers", "day.copy_failed",
			slog.Int64("user_id", user.ID),
			slog.String("day", string(dst)),
			slog.String("err", copyErr.Error()),
		)
	}
	h.reportOutcome(c, copyErr)
	return h.renderDay(c, user.ID, dst)
}

// DayClear removes every block from the selected day.
func (h *Handlers) DayClear(c tele.Context) error {
	ctx := buildCtx(c)
	user := c.Sender()

	day, err := h.sessionDay(c)
	if err != nil {
		return err
	}
	if err := h.store.ClearDay(ctx, user.ID, day); err != nil {
		return err
	}
	return h.renderDay(c, user.ID, day)
}

// BlockAdd starts the add-block dialog.
func (h *Handlers) BlockAdd(c tele.Context) error {
	return h.machine.Start(buildCtx(c), c.Sender().ID, c.Chat().ID, session.ActionAdd)
}

// BlockEdit starts the edit-block dialog.
func (h *Handlers) BlockEdit(c tele.Context) error {
	return h.machine.Start(buildCtx(c), c.Sender().ID, c.Chat().ID, session.ActionEdit)
}

// BlockDelete starts the delete-block dialog.
func (h *Handlers) BlockDelete(c tele.Context) error {
	return h.machine.Start(buildCtx(c), c.Sender().ID, c.Chat().ID, session.ActionDelete)
}

// reportOutcome flashes a short status message and schedules its removal.
func (h *Handlers) reportOutcome(c tele.Context, actionErr error) {
	ctx := buildCtx(c)
	user := c.Sender()
	chatID := c.Chat().ID

	outcome := msgActionDone
	if actionErr != nil {
		outcome = msgActionFailed
	}
	msgID, err := h.view.Prompt(ctx, chatID, outcome)
	if err != nil {
		logger.Warn(ctx, "handlers", "outcome.send_failed",
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
		return
	}
	h.tracker.Track(user.ID, chatID, msgID)
	h.tracker.Clear(ctx, user.ID, outcomeClearDelay)
}
