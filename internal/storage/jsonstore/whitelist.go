package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/m3rciful/planbot/core/logger"
	"log/slog"
)

// LoadWhitelist reads a JSON array of user IDs and returns a lookup
// predicate. A missing file means the whitelist is disabled and the
// returned predicate is nil.
func LoadWhitelist(path string) (func(int64) bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Store.Info("whitelist disabled",
				slog.String("event", "store.whitelist_missing"),
				slog.String("path", path),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("jsonstore: read whitelist: %w", err)
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("jsonstore: parse whitelist: %w", err)
	}

	allowed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	logger.Store.Info("whitelist loaded",
		slog.String("event", "store.whitelist_loaded"),
		slog.Int("count", len(allowed)),
	)
	return func(userID int64) bool {
		_, ok := allowed[userID]
		return ok
	}, nil
}
