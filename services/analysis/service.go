// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package analysis provides the HTTP service for benchmark analysis.
//
// The service exposes endpoints for:
//   - Running quantum volume analysis on collected trial data
//   - Health checks
//
// Circuit execution, experiment storage, and figure rendering stay with
// external collaborators; this service only consumes already-collected
// records and returns result records.
package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/qvbench/services/analysis/experiment"
	"github.com/AleutianAI/qvbench/services/analysis/qv"
)

// ServiceConfig configures the analysis service.
type ServiceConfig struct {
	// MaxDepth is the largest accepted circuit depth.
	// Default: 16
	MaxDepth int

	// MaxTrials is the largest accepted trial count per request.
	// Default: 10000
	MaxTrials int

	// Parallelism bounds concurrent per-trial work when a request does
	// not set its own. Default: 1 (sequential)
	Parallelism int
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxDepth:    16,
		MaxTrials:   10000,
		Parallelism: 1,
	}
}

// Service runs benchmark analyses on behalf of HTTP and CLI callers.
//
// Thread Safety: Safe for concurrent use.
type Service struct {
	cfg    ServiceConfig
	logger *slog.Logger
}

// NewService creates the analysis service.
//
// Inputs:
//   - cfg: service limits. Zero fields fall back to defaults.
//   - logger: service logs. Nil means slog.Default().
func NewService(cfg ServiceConfig, logger *slog.Logger) *Service {
	def := DefaultServiceConfig()
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.MaxTrials <= 0 {
		cfg.MaxTrials = def.MaxTrials
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = def.Parallelism
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, logger: logger}
}

// AnalyzeQuantumVolume runs quantum volume analysis for one request.
//
// Description:
//
//	Builds a leaf experiment over qubits [0, depth), attaches the
//	request's trial records (validated at that boundary), and runs the
//	quantum volume analyzer. The result entry stays attached to the
//	container; the verdict and diagnostics are also returned directly.
//
// Outputs:
//   - *QuantumVolumeResponse: the verdict with diagnostics.
//   - error: invalid-input errors (wrapping the experiment sentinels)
//     or an analysis failure.
func (s *Service) AnalyzeQuantumVolume(ctx context.Context, req QuantumVolumeRequest) (*QuantumVolumeResponse, error) {
	if req.Depth > s.cfg.MaxDepth {
		return nil, fmt.Errorf("%w: depth %d exceeds limit %d",
			experiment.ErrInvalidDepth, req.Depth, s.cfg.MaxDepth)
	}
	if len(req.Trials) > s.cfg.MaxTrials {
		return nil, fmt.Errorf("%w: %d trials exceed limit %d",
			experiment.ErrNoTrials, len(req.Trials), s.cfg.MaxTrials)
	}

	qubits := make([]int, req.Depth)
	for i := range qubits {
		qubits[i] = i
	}
	node := experiment.NewLeafNode("qv_experiment", qubits, qv.NewAnalysis(s.logger))
	data := experiment.NewExperimentData(node)

	if err := data.AddTrials(req.Trials...); err != nil {
		return nil, err
	}

	parallelism := req.Parallelism
	if parallelism <= 0 {
		parallelism = s.cfg.Parallelism
	}
	opts := experiment.Options{
		Parallelism: parallelism,
		Logger:      s.logger,
	}
	if err := node.RunAnalysis(ctx, data, opts); err != nil {
		return nil, err
	}

	results := data.Results()
	entry := results[len(results)-1]
	result, ok := entry.Value.(*qv.Result)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T", entry.Value)
	}

	return &QuantumVolumeResponse{
		ExperimentID: data.ID(),
		Result:       result,
		Diagnostics:  entry.Diagnostics,
	}, nil
}
