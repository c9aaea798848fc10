package middleware

import (
	"github.com/m3rciful/planbot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// WhitelistOptions defines how the whitelist gate behaves.
type WhitelistOptions struct {
	// Allowed reports whether the user may interact with the bot.
	// A nil func admits everyone.
	Allowed  func(userID int64) bool
	OnReject tele.HandlerFunc
}

// WhitelistMiddleware silently drops updates from users outside the whitelist.
func WhitelistMiddleware(opts WhitelistOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Allowed == nil || opts.Allowed(user.ID) {
				return next(c)
			}
			logger.TG.Warn("access denied",
				slog.String("event", "tg.access_denied"),
				slog.Int64("user_id", user.ID),
			)
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
	}
}

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware ensures that only the admin user can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.AdminID != 0 && c.Sender().ID != opts.AdminID {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
