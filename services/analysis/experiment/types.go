// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package experiment

import (
	"context"
	"errors"
	"log/slog"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNotComposite is returned when composite analysis is invoked on
	// non-composite experiment data.
	ErrNotComposite = errors.New("analysis requires composite experiment data")

	// ErrNotLeaf is returned when trial records are added to a composite
	// container.
	ErrNotLeaf = errors.New("trial records belong to leaf experiment data")

	// ErrNoTrials is returned when analysis is attempted on a container
	// with no trial records.
	ErrNoTrials = errors.New("experiment data contains no trials")

	// ErrNoShots is returned when a trial's total measurement count is zero.
	ErrNoShots = errors.New("trial contains no measurement shots")

	// ErrInvalidDepth is returned for a circuit depth outside
	// [0, MaxDepth].
	ErrInvalidDepth = errors.New("circuit depth out of range")

	// ErrProbabilityLength is returned when the ideal probability vector
	// does not have 2^depth entries.
	ErrProbabilityLength = errors.New("ideal probability vector length does not match depth")

	// ErrNilAnalyzer is returned when a node has no analysis strategy.
	ErrNilAnalyzer = errors.New("analyzer must not be nil")

	// ErrNilData is returned when analysis is invoked with nil data.
	ErrNilData = errors.New("experiment data must not be nil")

	// ErrChildIndex is returned for an out-of-range child index.
	ErrChildIndex = errors.New("child index out of range")
)

// -----------------------------------------------------------------------------
// Diagnostics
// -----------------------------------------------------------------------------

// Severity classifies a diagnostic notice.
type Severity string

const (
	// SeverityInfo marks purely informational notices.
	SeverityInfo Severity = "info"

	// SeverityWarning marks notices the caller should review, such as a
	// degenerate statistic or an insufficient sample size. Warnings never
	// invalidate the accompanying result.
	SeverityWarning Severity = "warning"
)

// Diagnostic is an advisory notice produced during analysis.
//
// Description:
//
//	Diagnostics replace the global warning channel of older analysis
//	pipelines with an explicit collection returned alongside the primary
//	result, so a caller can deterministically inspect degenerate-statistic
//	and insufficient-sample notices.
type Diagnostic struct {
	// Code identifies the condition, e.g. "sigma_zero".
	Code string `json:"code"`

	// Severity is the notice severity.
	Severity Severity `json:"severity"`

	// Message is the human-readable description.
	Message string `json:"message"`
}

// -----------------------------------------------------------------------------
// Analysis Results
// -----------------------------------------------------------------------------

// AnalysisResult is one analysis result entry attached to a container.
type AnalysisResult struct {
	// Name is the analyzer that produced this entry.
	Name string `json:"name"`

	// Value is the analyzer-specific result record.
	Value any `json:"value"`

	// Diagnostics are the advisory notices produced alongside the result.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Figure is a rendered visual artifact produced by an injected Renderer.
// The analysis core never draws; it only forwards plot data.
type Figure struct {
	// Name identifies the figure, e.g. "qv_hop".
	Name string `json:"name"`

	// MIMEType is the encoding of Data, e.g. "image/svg+xml".
	MIMEType string `json:"mime_type"`

	// Data is the encoded figure.
	Data []byte `json:"data"`
}

// Renderer turns analyzer-specific plot data into a figure.
//
// Description:
//
//	Renderer is a capability a caller injects through Options. The core
//	never probes for plotting support; a nil Renderer simply means no
//	figure is produced. The payload type is analyzer-specific (the
//	quantum volume analyzer passes *qv.PlotData).
type Renderer interface {
	Render(ctx context.Context, plot any) (*Figure, error)
}

// -----------------------------------------------------------------------------
// Analyzer Capability
// -----------------------------------------------------------------------------

// Options configures a single analysis invocation.
type Options struct {
	// Renderer produces an optional figure. Nil means no figure.
	Renderer Renderer

	// Parallelism bounds concurrent per-trial and per-child work.
	// Values below 2 select the sequential reference path. Parallel
	// execution produces output identical to sequential: ordering is
	// part of the observable contract.
	Parallelism int

	// Logger overrides the analyzer's own logger for this invocation.
	// Nil keeps the analyzer's logger.
	Logger *slog.Logger
}

// Analyzer is the uniform analysis capability carried by each node type.
//
// Description:
//
//	Analyze consumes a container's collected data and returns exactly one
//	result entry plus an optional figure. Implementations must not mutate
//	the container; attachment is the node's responsibility so that the
//	recursive composite walk remains the only writer to child containers.
type Analyzer interface {
	// Name returns the analyzer identifier used on result entries.
	Name() string

	// Analyze runs the analysis. Fatal conditions return an error and no
	// partial result; advisory conditions surface on the entry's
	// Diagnostics.
	Analyze(ctx context.Context, data *ExperimentData, opts Options) (*AnalysisResult, *Figure, error)
}
