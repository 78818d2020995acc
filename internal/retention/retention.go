// Package retention drops completion logs that have scrolled out of the grid window.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/levelup/internal/logger"
	"github.com/julianstephens/levelup/internal/storage"
	"github.com/julianstephens/levelup/internal/utils"
)

type Policy struct {
	store storage.Provider
}

func NewPolicy(store storage.Provider) *Policy {
	return &Policy{store: store}
}

// Prune deletes every log dated before utils.RetentionCutoff(now) and returns
// how many were removed. Logs with malformed dates are kept.
func (p *Policy) Prune(ctx context.Context, now time.Time) (int, error) {
	logs, err := p.store.ListLogs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list logs: %w", err)
	}

	cutoff := utils.RetentionCutoff(now)
	var stale []string
	for _, entry := range logs {
		if !utils.ValidateKey(entry.Date) {
			logger.Warn("Skipping log with malformed date", "id", entry.ID, "date", entry.Date)
			continue
		}
		// Keys are zero-padded so lexical order is date order.
		if entry.Date < cutoff {
			stale = append(stale, entry.ID)
		}
	}

	if len(stale) == 0 {
		return 0, nil
	}

	n, err := p.store.DeleteLogsBatch(ctx, stale)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired logs: %w", err)
	}
	logger.Info("Pruned expired logs", "count", n, "cutoff", cutoff)
	return n, nil
}
