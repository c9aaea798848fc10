package handlers

import (
	"context"

	tg "github.com/m3rciful/planbot/core/telegram"
	tgcommands "github.com/m3rciful/planbot/core/telegram/commands"
	"github.com/m3rciful/planbot/internal/dialog"

	tele "gopkg.in/telebot.v4"
)

// Register wires commands and callback handlers into the registry.
func Register(reg *tg.Registry, h *Handlers) {
	reg.RegisterCommand("/start", tgcommands.Command{
		Description: "Перезапустить бота",
		Handler:     h.Start,
	})
	reg.RegisterCommand("/version", tgcommands.Command{
		Description: "Версия бота",
		Handler:     h.Version,
		AdminOnly:   true,
		Hidden:      true,
	})

	callbacks := map[string]tele.HandlerFunc{
		cbMainNew:           h.MainNew,
		cbMainBack:          h.MainBack,
		cbSchedule:          h.Schedule,
		cbTodolist:          h.Todolist,
		cbDay:               h.Day,
		cbDayCopy:           h.DayCopy,
		cbBlockAddChoice:    h.BlockAddChoice,
		cbBlockDeleteChoice: h.BlockDeleteChoice,
		cbBlockAdd:          h.BlockAdd,
		cbBlockEdit:         h.BlockEdit,
		cbBlockDelete:       h.BlockDelete,
		cbBlockCopy:         h.BlockCopy,
		cbDayClear:          h.DayClear,
	}
	for key, handler := range callbacks {
		_ = reg.RegisterCallback(key, handler)
	}
}

// DialogAdapter exposes the dialog machine to the text router.
type DialogAdapter struct {
	Machine *dialog.Machine
}

// InProgress reports whether the user is inside a dialog.
func (a DialogAdapter) InProgress(userID int64) bool {
	return a.Machine.InProgress(context.Background(), userID)
}

// HandleMessage feeds a text reply into the dialog machine.
func (a DialogAdapter) HandleMessage(c tele.Context) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}
	return a.Machine.HandleText(buildCtx(c), c.Sender().ID, c.Chat().ID, msg.ID, c.Text())
}
