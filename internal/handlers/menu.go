package handlers

import (
	"context"

	tghelpers "github.com/m3rciful/planbot/core/telegram/helpers"
	"github.com/m3rciful/planbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

const mainMenuCaption = "Главное меню."

func mainMenuMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "Расписание", Unique: cbSchedule},
		{Text: "Список дел", Unique: cbTodolist},
	})
}

// MainNew opens the main menu as a fresh message. Previously tracked
// messages (the greeting, leftovers of an aborted dialog) are wiped.
func (h *Handlers) MainNew(c tele.Context) error {
	ctx := buildCtx(c)
	user := c.Sender()
	if err := h.store.EnsureUser(ctx, user.ID, user.FirstName, user.LastName); err != nil {
		return err
	}
	h.tracker.Clear(ctx, user.ID, 0)

	markup := mainMenuMarkup()
	if h.menuImage != "" {
		photo := &tele.Photo{File: tele.FromDisk(h.menuImage), Caption: mainMenuCaption}
		if err := c.Send(photo, markup); err == nil {
			return nil
		}
		// Missing or unreadable image falls back to a plain message
	}
	return tghelpers.SendHTML(c, mainMenuCaption, markup)
}

// MainBack returns an existing menu message to the main menu screen.
func (h *Handlers) MainBack(c tele.Context) error {
	ctx := buildCtx(c)
	user := c.Sender()
	if err := h.store.EnsureUser(ctx, user.ID, user.FirstName, user.LastName); err != nil {
		return err
	}
	return editView(c, mainMenuCaption, mainMenuMarkup())
}

// Todolist shows the to-do list placeholder screen.
func (h *Handlers) Todolist(c tele.Context) error {
	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: "⬅️ Назад", Unique: cbMainBack},
	})
	return editView(c, "В разработке...", markup)
}

// editView updates the menu message in place: caption for the photo
// based menu, text when the menu fell back to a plain message.
func editView(c tele.Context, caption string, markup *tele.ReplyMarkup) error {
	if err := tghelpers.EditCaptionHTML(c, caption, markup); err == nil {
		return nil
	}
	return c.Edit(caption, &tele.SendOptions{ParseMode: tele.ModeHTML, ReplyMarkup: markup})
}

func buildCtx(c tele.Context) context.Context {
	return tghelpers.BuildContext(c)
}
