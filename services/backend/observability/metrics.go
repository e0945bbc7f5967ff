// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides metrics and instrumentation for the backend.
//
// # Description
//
// This package implements Prometheus metrics for monitoring the tracking
// backend. Metrics include:
//   - HTTP request counters (by path, method, status)
//   - Completion evaluation runs and the project transitions they caused
//   - Document persistence outcomes
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "antigravity"

// Subsystem for backend metrics
const backendSubsystem = "backend"

// BackendMetrics holds all Prometheus metrics for the tracking backend.
//
// # Description
//
// Provides counters for monitoring request traffic, completion evaluation
// activity, and document persistence. Initialize once at startup via
// InitMetrics().
//
// # Fields
//
//   - RequestsTotal: Counter of HTTP requests by path, method, and status
//   - EvaluationRunsTotal: Counter of completion evaluation passes
//   - CompletionTransitionsTotal: Counter of project status transitions
//   - DocumentSavesTotal: Counter of document save attempts by outcome
//
// # Thread Safety
//
// All operations are thread-safe.
type BackendMetrics struct {
	// RequestsTotal counts HTTP requests by path, method, and status code.
	// Labels: path (route template), method (GET, POST, ...), status
	RequestsTotal *prometheus.CounterVec

	// EvaluationRunsTotal counts completion evaluation passes.
	// Labels: updated (true, false)
	EvaluationRunsTotal *prometheus.CounterVec

	// CompletionTransitionsTotal counts projects whose status flipped during
	// an evaluation pass.
	// Labels: direction (completed, regressed)
	CompletionTransitionsTotal *prometheus.CounterVec

	// DocumentSavesTotal counts document save attempts.
	// Labels: outcome (success, error)
	DocumentSavesTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance of BackendMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *BackendMetrics

var initOnce sync.Once

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics on the default registry.
// Safe to call more than once: registration happens only on the first call,
// which keeps test packages that each build a service from double-registering.
//
// # Outputs
//
//   - *BackendMetrics: The initialized metrics instance.
//
// # Examples
//
//	func main() {
//	    observability.InitMetrics()
//	    // ... start server ...
//	}
func InitMetrics() *BackendMetrics {
	initOnce.Do(func() {
		DefaultMetrics = &BackendMetrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: backendSubsystem,
					Name:      "requests_total",
					Help:      "Total HTTP requests by path, method, and status",
				},
				[]string{"path", "method", "status"},
			),

			EvaluationRunsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: backendSubsystem,
					Name:      "evaluation_runs_total",
					Help:      "Total completion evaluation passes by whether they mutated the document",
				},
				[]string{"updated"},
			),

			CompletionTransitionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: backendSubsystem,
					Name:      "completion_transitions_total",
					Help:      "Total project completion status transitions by direction",
				},
				[]string{"direction"},
			),

			DocumentSavesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: backendSubsystem,
					Name:      "document_saves_total",
					Help:      "Total document save attempts by outcome",
				},
				[]string{"outcome"},
			),
		}
	})

	return DefaultMetrics
}

// =============================================================================
// Transition Directions
// =============================================================================

// Direction labels a project status transition for metrics.
type Direction string

const (
	// DirectionCompleted indicates a project that reached full progress.
	DirectionCompleted Direction = "completed"

	// DirectionRegressed indicates a completed project that fell back to
	// in-progress.
	DirectionRegressed Direction = "regressed"
)

// =============================================================================
// Helper Methods
// =============================================================================

// All helpers tolerate a nil receiver so callers never have to guard on
// whether InitMetrics ran.

// RecordRequest records a completed HTTP request.
//
// # Inputs
//
//   - path: The matched route template, or the raw path when unrouted.
//   - method: The HTTP method.
//   - status: The response status code, formatted by the caller.
func (m *BackendMetrics) RecordRequest(path, method, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(path, method, status).Inc()
}

// RecordEvaluation records one completion evaluation pass.
//
// # Inputs
//
//   - updated: Whether the pass mutated any project.
func (m *BackendMetrics) RecordEvaluation(updated bool) {
	if m == nil {
		return
	}
	label := "false"
	if updated {
		label = "true"
	}
	m.EvaluationRunsTotal.WithLabelValues(label).Inc()
}

// RecordTransitions records project status transitions from one pass.
//
// # Inputs
//
//   - direction: Which way the projects flipped.
//   - count: How many projects flipped that way.
func (m *BackendMetrics) RecordTransitions(direction Direction, count int) {
	if m == nil || count == 0 {
		return
	}
	m.CompletionTransitionsTotal.WithLabelValues(string(direction)).Add(float64(count))
}

// RecordSave records one document save attempt.
//
// # Inputs
//
//   - err: The save error, nil on success.
func (m *BackendMetrics) RecordSave(err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.DocumentSavesTotal.WithLabelValues(outcome).Inc()
}
