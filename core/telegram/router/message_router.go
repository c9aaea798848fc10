package router

import (
	"strings"
	"time"

	tg "github.com/m3rciful/planbot/core/telegram"
	"github.com/m3rciful/planbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Dialog defines the minimal interface for the dialog state machine.
type Dialog interface {
	InProgress(userID int64) bool
	HandleMessage(c tele.Context) error
}

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
	AdminID     int64
}

// TextRoutes builds the handler for text routing.
// Slash commands win over an in-flight dialog so /start always resets state;
// any other text goes to the dialog machine while a dialog is active.
func TextRoutes(dialog Dialog, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil && strings.HasPrefix(text, "/") {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				h := cmd.Handler
				if cmd.AdminOnly {
					h = middleware.AdminOnlyMiddleware(middleware.AdminOptions{AdminID: opts.AdminID})(h)
				}
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return h(c)
				})
			}
		}

		if dialog != nil && dialog.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "dialog", start, "", "", func() error {
				return dialog.HandleMessage(c)
			})
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
