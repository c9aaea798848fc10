package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/m3rciful/planbot/core/config"
	"github.com/m3rciful/planbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// MiddlewareOptions tunes the default chain built by DefaultMiddlewares.
type MiddlewareOptions struct {
	// Allowed gates updates by user ID; nil admits everyone.
	Allowed   func(userID int64) bool
	OnLimited func(tele.Context) error
}

// DefaultMiddlewares builds the shared middleware chain for bots.
func DefaultMiddlewares(cfg *coreconfig.Config, opts MiddlewareOptions) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if opts.Allowed != nil {
		mws = append(mws, Middleware{
			Name: "whitelist",
			Use:  middleware.WhitelistMiddleware(middleware.WhitelistOptions{Allowed: opts.Allowed}),
		})
	}

	if cfg != nil {
		interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond
		if interval > 0 {
			ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
			for _, t := range cfg.RateLimit.ExcludeUpdates {
				ex[strings.ToLower(t)] = struct{}{}
			}
			rlOpts := middleware.RateLimitOptions{
				Interval: interval,
				Exclude:  ex,
			}
			if opts.OnLimited != nil {
				rlOpts.OnLimited = opts.OnLimited
			}
			mws = append(mws, Middleware{
				Name: "rate_limit",
				Use:  middleware.RateLimitMiddleware(rlOpts),
			})
		}
	}

	mws = append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)

	return mws
}
