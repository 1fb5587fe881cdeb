// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// AutosaveConfig holds autosave timing.
type AutosaveConfig struct {
	// Interval is the quiet period. Edits within it are coalesced into a
	// single save.
	Interval time.Duration
	// MaxWait caps how long a continuous burst can postpone the save.
	// Zero disables the cap.
	MaxWait time.Duration
}

// DefaultAutosaveConfig returns the default autosave timing.
func DefaultAutosaveConfig() AutosaveConfig {
	return AutosaveConfig{
		Interval: 5 * time.Second,
		MaxWait:  30 * time.Second,
	}
}

// SaveFunc persists the current state.
type SaveFunc func(ctx context.Context) error

// Autosaver coalesces bursts of edits into one background save. A failed
// save is retried after the next quiet period.
type Autosaver struct {
	save   SaveFunc
	config AutosaveConfig
	logger *slog.Logger

	mu        sync.Mutex
	timer     *time.Timer
	pending   bool
	firstSeen time.Time
	stopped   bool

	saveMu sync.Mutex // one save at a time
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAutosaver creates an autosaver calling save after each quiet period.
func NewAutosaver(save SaveFunc, config AutosaveConfig, logger *slog.Logger) *Autosaver {
	if config.Interval <= 0 {
		config.Interval = DefaultAutosaveConfig().Interval
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Autosaver{
		save:   save,
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Schedule records an edit and (re)starts the quiet period.
func (a *Autosaver) Schedule() {
	now := time.Now()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}

	if a.pending {
		if a.config.MaxWait > 0 && now.Sub(a.firstSeen) >= a.config.MaxWait {
			a.fireLocked()
			return
		}
		a.timer.Reset(a.config.Interval)
		return
	}

	a.pending = true
	a.firstSeen = now
	if a.timer == nil {
		a.timer = time.AfterFunc(a.config.Interval, func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			if a.pending {
				a.fireLocked()
			}
		})
		return
	}
	a.timer.Reset(a.config.Interval)
}

// fireLocked starts the pending save. Must be called with mu held.
func (a *Autosaver) fireLocked() {
	a.timer.Stop()
	a.pending = false

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.run()
	}()
}

func (a *Autosaver) run() {
	a.saveMu.Lock()
	err := a.save(a.ctx)
	a.saveMu.Unlock()

	if err == nil {
		a.logger.Debug("autosave completed")
		return
	}
	a.logger.Warn("autosave failed, will retry", "error", err)
	a.Schedule()
}

// Cancel drops a pending save. An explicit save calls it so the debounced
// write does not repeat its work.
func (a *Autosaver) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending {
		a.timer.Stop()
		a.pending = false
	}
}

// Flush starts a pending save immediately.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending {
		a.fireLocked()
	}
}

// Pending reports whether a save is scheduled.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Lock blocks autosaves until Unlock so an explicit save cannot interleave
// with a background one.
func (a *Autosaver) Lock()   { a.saveMu.Lock() }
func (a *Autosaver) Unlock() { a.saveMu.Unlock() }

// Stop flushes any pending save, waits for running saves and disables
// further scheduling.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	if a.pending {
		a.fireLocked()
	}
	a.stopped = true
	a.mu.Unlock()

	a.wg.Wait()
	a.cancel()
}
