package handlers

import (
	"fmt"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/core/telegram/keyboard"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

const greetingTemplate = "Привет, %s. Я бот в котором можно составить личное расписание на любой день недели.\n\n" +
	"Для начала работы со мной нажми на кнопку ниже."

// Start handles /start: it registers the user, aborts any in-flight
// dialog and sends the greeting with the main menu entry button.
func (h *Handlers) Start(c tele.Context) error {
	ctx := buildCtx(c)
	user := c.Sender()

	if err := h.store.EnsureUser(ctx, user.ID, user.FirstName, user.LastName); err != nil {
		return err
	}
	if err := h.machine.Reset(ctx, user.ID); err != nil {
		logger.Warn(ctx, "handlers", "start.reset_failed",
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
	}

	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "Главное меню", Unique: cbMainNew},
	})
	msg, err := c.Bot().Send(c.Chat(), fmt.Sprintf(greetingTemplate, user.FirstName), markup)
	if err != nil {
		return err
	}
	// The greeting is wiped once the user opens the menu
	h.tracker.Track(user.ID, c.Chat().ID, msg.ID)
	return nil
}
