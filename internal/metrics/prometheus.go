// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pagebuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	compileDuration prom.Histogram
	compileBlocks   prom.Histogram
	placeholders    *prom.CounterVec
	bundleDuration  prom.Histogram
	bundleDocuments prom.Histogram
	saveDuration    *prom.HistogramVec
	materialized    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the metrics on reg. A nil
// registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		compileDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Duration of single document compiles",
			Buckets:   prom.DefBuckets,
		}),
		compileBlocks: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_blocks",
			Help:      "Number of visible blocks per compiled document",
			Buckets:   prom.LinearBuckets(0, 5, 10),
		}),
		placeholders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "block_placeholders_total",
			Help:      "Blocks replaced by a placeholder, by type and reason",
		}, []string{"type", "reason"}),
		bundleDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "bundle_duration_seconds",
			Help:      "Duration of multi-page site bundling",
			Buckets:   prom.DefBuckets,
		}),
		bundleDocuments: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "bundle_documents",
			Help:      "Number of documents per bundle",
			Buckets:   prom.LinearBuckets(1, 2, 10),
		}),
		saveDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "save_duration_seconds",
			Help:      "Duration of page saves",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		materialized: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "materialized_images_total",
			Help:      "Inline images handled by the materialization pass",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.compileDuration, pr.compileBlocks, pr.placeholders,
		pr.bundleDuration, pr.bundleDocuments, pr.saveDuration, pr.materialized)
	return pr
}

func (p *PrometheusRecorder) ObserveCompile(d time.Duration, blocks int) {
	if p == nil {
		return
	}
	p.compileDuration.Observe(d.Seconds())
	p.compileBlocks.Observe(float64(blocks))
}

func (p *PrometheusRecorder) IncBlockPlaceholder(componentType, reason string) {
	if p == nil {
		return
	}
	p.placeholders.WithLabelValues(componentType, reason).Inc()
}

func (p *PrometheusRecorder) ObserveBundle(d time.Duration, documents int) {
	if p == nil {
		return
	}
	p.bundleDuration.Observe(d.Seconds())
	p.bundleDocuments.Observe(float64(documents))
}

func (p *PrometheusRecorder) ObserveSave(d time.Duration, success bool) {
	if p == nil {
		return
	}
	p.saveDuration.WithLabelValues(resultLabel(success)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncMaterialize(result string, images int) {
	if p == nil {
		return
	}
	p.materialized.WithLabelValues(result).Add(float64(images))
}

// HTTPHandler returns an http.Handler that serves the metrics of reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
