// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics records compile, save and materialization metrics.
// Components default to NoopRecorder; the server swaps in a
// PrometheusRecorder when metrics are enabled.
package metrics

import "time"

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// Recorder defines all metrics operations.
type Recorder interface {
	ObserveCompile(d time.Duration, blocks int)
	IncBlockPlaceholder(componentType, reason string)
	ObserveBundle(d time.Duration, documents int)
	ObserveSave(d time.Duration, success bool)
	IncMaterialize(result string, images int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveCompile(time.Duration, int)  {}
func (NoopRecorder) IncBlockPlaceholder(string, string) {}
func (NoopRecorder) ObserveBundle(time.Duration, int)   {}
func (NoopRecorder) ObserveSave(time.Duration, bool)    {}
func (NoopRecorder) IncMaterialize(string, int)         {}

func resultLabel(success bool) string {
	if success {
		return ResultSuccess
	}
	return ResultFailed
}
