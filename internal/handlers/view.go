// Package handlers wires Telegram commands and callbacks to the
// schedule store and the dialog machine.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/m3rciful/planbot/core/telegram/format"
	"github.com/m3rciful/planbot/core/telegram/keyboard"
	"github.com/m3rciful/planbot/internal/schedule"

	tele "gopkg.in/telebot.v4"
)

var errNoBot = errors.New("handlers: bot not bound yet")

// View renders bot output that has to happen outside a tele.Context:
// dialog prompts, day view refreshes and tracked message deletion.
// The bot handle is bound once the transport is up.
type View struct {
	bot   atomic.Pointer[tele.Bot]
	store schedule.Store
}

// NewView creates a view over the schedule store.
func NewView(store schedule.Store) *View {
	return &View{store: store}
}

// Bind attaches the live bot. Called from the transport's start hook.
func (v *View) Bind(bot *tele.Bot) {
	v.bot.Store(bot)
}

func (v *View) botRef() (*tele.Bot, error) {
	b := v.bot.Load()
	if b == nil {
		return nil, errNoBot
	}
	return b, nil
}

// Prompt sends a plain text message and returns its message ID.
func (v *View) Prompt(_ context.Context, chatID int64, text string) (int, error) {
	b, err := v.botRef()
	if err != nil {
		return 0, err
	}
	msg, err := b.Send(tele.ChatID(chatID), text)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

// RefreshDay redraws the day view caption on the stored menu message.
func (v *View) RefreshDay(ctx context.Context, userID, chatID int64, messageID int, day schedule.Day) error {
	b, err := v.botRef()
	if err != nil {
		return err
	}
	blocks, err := v.store.DayBlocks(ctx, userID, day)
	if err != nil {
		return err
	}
	stored := tele.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	}
	_, err = b.EditCaption(stored, formatDayText(day, blocks), &tele.SendOptions{
		ParseMode:   tele.ModeHTML,
		ReplyMarkup: dayActionsMarkup(),
	})
	return err
}

// Delete removes a message; used by the tracker for dialog cleanup.
func (v *View) Delete(chatID int64, messageID int) error {
	b, err := v.botRef()
	if err != nil {
		return err
	}
	return b.Delete(tele.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	})
}

// formatDayText renders the schedule of one day as an HTML caption.
func formatDayText(day schedule.Day, blocks []schedule.Block) string {
	text := fmt.Sprintf("📅 <b>%s</b>:\n<pre>", day.Title())
	for i, b := range blocks {
		text += fmt.Sprintf("%d. %s\n⏰ %s – %s\n\n", i+1, format.EscapeHTML(b.Title), b.Start, b.End)
	}
	return text + "</pre>"
}

// dayActionsMarkup builds the edit controls shown under a day view.
func dayActionsMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "➕ Добавить", Unique: cbBlockAddChoice},
			{Text: "✏️ Редактировать", Unique: cbBlockEdit},
		},
		[]keyboard.InlineBtn{
			{Text: "✖️ Удалить", Unique: cbBlockDeleteChoice},
			{Text: "⬅️ Назад", Unique: cbSchedule},
		},
	)
}
