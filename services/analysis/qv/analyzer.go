// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package qv

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/qvbench/services/analysis/experiment"
)

// AnalysisName is the result entry name for quantum volume analyses.
const AnalysisName = "qv_analysis"

// Analysis is the quantum volume experiment.Analyzer.
//
// Description:
//
//	Analysis validates the container's trials, derives each trial's
//	heavy-output probability (in parallel when Options.Parallelism > 1,
//	with trial-order output identical to the sequential path), runs the
//	estimator across all trials, and forwards plot data to the injected
//	renderer if one is present.
//
// Thread Safety: Safe for concurrent use; Analysis holds no mutable state.
type Analysis struct {
	logger *slog.Logger
}

// NewAnalysis creates the quantum volume analyzer.
//
// Inputs:
//   - logger: analysis logs. Nil means slog.Default().
func NewAnalysis(logger *slog.Logger) *Analysis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analysis{logger: logger}
}

// Name returns the analyzer identifier.
func (a *Analysis) Name() string { return AnalysisName }

// Analyze runs quantum volume analysis on the container's trials.
//
// Outputs:
//   - *experiment.AnalysisResult: one entry wrapping a *Result, with
//     estimator diagnostics attached.
//   - *experiment.Figure: the rendered figure, or nil without a renderer.
//   - error: invalid-input errors from trial validation, or a renderer
//     failure. Fatal conditions return no partial result.
func (a *Analysis) Analyze(ctx context.Context, data *experiment.ExperimentData, opts experiment.Options) (*experiment.AnalysisResult, *experiment.Figure, error) {
	if data == nil {
		return nil, nil, experiment.ErrNilData
	}
	logger := a.logger
	if opts.Logger != nil {
		logger = opts.Logger
	}
	start := time.Now()

	trials := data.Trials()
	if len(trials) == 0 {
		analysisTotal.WithLabelValues("invalid").Inc()
		return nil, nil, fmt.Errorf("%w: experiment %s", experiment.ErrNoTrials, data.ID())
	}

	// The experiment's depth; trials carry their own depth for the
	// per-trial heavy set, which in this benchmark is the same value.
	depth := len(data.PhysicalQubits())
	if depth == 0 {
		depth = trials[0].Metadata.Depth
	}

	hops, err := a.trialHOPs(ctx, trials, opts.Parallelism)
	if err != nil {
		analysisTotal.WithLabelValues("invalid").Inc()
		return nil, nil, err
	}

	result, diags, err := Estimate(hops, depth, len(trials))
	if err != nil {
		analysisTotal.WithLabelValues("invalid").Inc()
		return nil, nil, err
	}

	for _, d := range diags {
		logger.Warn("qv analysis diagnostic",
			"experiment_id", data.ID(), "code", d.Code, "message", d.Message)
	}

	var figure *experiment.Figure
	if opts.Renderer != nil {
		figure, err = opts.Renderer.Render(ctx, NewPlotData(result))
		if err != nil {
			analysisTotal.WithLabelValues("render_error").Inc()
			return nil, nil, fmt.Errorf("render qv figure: %w", err)
		}
	}

	outcome := "fail"
	if result.Success {
		outcome = "pass"
	}
	analysisTotal.WithLabelValues(outcome).Inc()
	analysisDuration.Observe(time.Since(start).Seconds())
	analysisTrials.Observe(float64(result.Trials))

	logger.Info("qv analysis complete",
		"experiment_id", data.ID(),
		"depth", result.Depth,
		"trials", result.Trials,
		"mean_hop", result.MeanHOP,
		"quantum_volume", result.QuantumVolume,
		"success", result.Success)

	return &experiment.AnalysisResult{
		Name:        AnalysisName,
		Value:       result,
		Diagnostics: diags,
	}, figure, nil
}

// trialHOPs computes every trial's heavy-output probability in trial
// order. Heavy sets are recomputed per trial from that trial's own
// metadata. The parallel path writes by trial index into a preallocated
// slice, so its output is identical to the sequential path.
func (a *Analysis) trialHOPs(ctx context.Context, trials []experiment.TrialRecord, parallelism int) ([]float64, error) {
	hops := make([]float64, len(trials))

	if parallelism > 1 {
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(parallelism)

		for i, trial := range trials {
			i, trial := i, trial // Capture loop variables
			g.Go(func() error {
				hop, err := trialHOP(trial)
				if err != nil {
					return fmt.Errorf("trial %d: %w", i, err)
				}
				hops[i] = hop
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return hops, nil
	}

	for i, trial := range trials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hop, err := trialHOP(trial)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		hops[i] = hop
	}
	return hops, nil
}

// trialHOP derives one trial's heavy set and measures its HOP.
func trialHOP(trial experiment.TrialRecord) (float64, error) {
	heavy, err := HeavyOutputs(trial.Metadata.IdealProbabilities, trial.Metadata.Depth)
	if err != nil {
		return 0, err
	}
	return HeavyOutputProbability(trial, heavy)
}
