// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// EventPruner deletes event log entries.
type EventPruner interface {
	DeleteEventsBefore(ctx context.Context, t time.Time) (int64, error)
}

// PruneEvents returns a job function that deletes events older than
// retention.
func PruneEvents(events EventPruner, retention time.Duration, now func() time.Time, logger *slog.Logger) func(ctx context.Context) error {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context) error {
		cutoff := now().Add(-retention)
		n, err := events.DeleteEventsBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("pruning events: %w", err)
		}
		if n > 0 {
			logger.Info("pruned old events", "deleted", n, "before", cutoff.Format(time.RFC3339))
		}
		return nil
	}
}
