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
	"fmt"
	"math"

	"github.com/AleutianAI/qvbench/services/analysis/experiment"
)

const (
	// hopThreshold is the heavy-output probability a random circuit must
	// beat on average: 2/3, per the quantum volume protocol.
	hopThreshold = 2.0 / 3.0

	// zTarget is the fixed two-sigma confidence target.
	zTarget = 2.0

	// minTrials is the minimum number of trials for a successful depth.
	minTrials = 100

	// sigmaEpsilon substitutes for a degenerate zero sigma so the z-value
	// division stays finite.
	sigmaEpsilon = 1e-10
)

// Diagnostic codes emitted by Estimate.
const (
	// DiagSigmaZero marks a degenerate zero standard deviation.
	DiagSigmaZero = "sigma_zero"

	// DiagInsufficientTrials marks a run below the 100-trial minimum.
	DiagInsufficientTrials = "insufficient_trials"
)

// Result is the aggregate quantum volume verdict for one depth.
// Created once per analysis run; immutable.
type Result struct {
	// QuantumVolume is 2^Depth on success, 1 otherwise.
	QuantumVolume uint64 `json:"quantum_volume"`

	// Success reports whether the depth passed the conjunctive gate:
	// mean HOP above threshold AND at least 100 trials.
	Success bool `json:"success"`

	// Confidence is the probability, under a normal approximation, that
	// the true heavy-output probability exceeds 2/3.
	Confidence float64 `json:"confidence"`

	// HeavyOutputProbabilities holds one HOP per trial, in trial order.
	HeavyOutputProbabilities []float64 `json:"heavy_output_probability"`

	// MeanHOP is the average heavy-output probability across trials.
	MeanHOP float64 `json:"mean_hop"`

	// Sigma is the binomial standard error of MeanHOP with the trial
	// count as sample size. Zero when every trial's HOP is 0 or 1.
	Sigma float64 `json:"sigma"`

	// Depth is the analyzed circuit depth.
	Depth int `json:"depth"`

	// Trials is the number of analyzed trials.
	Trials int `json:"trials"`
}

// HeavyOutputProbability computes the fraction of a trial's shots that
// landed on a heavy output.
//
// Inputs:
//   - trial: the measured trial record.
//   - heavy: the heavy-output set for the trial's depth.
//
// Outputs:
//   - float64: heavy-output probability in [0, 1].
//   - error: experiment.ErrNoShots if the trial has zero total shots.
//     The division is guarded; this never faults.
//
// Thread Safety: This function is stateless and safe for concurrent use.
func HeavyOutputProbability(trial experiment.TrialRecord, heavy map[string]struct{}) (float64, error) {
	var shots, heavyShots uint64
	for bits, count := range trial.Counts {
		shots += count
		if _, ok := heavy[bits]; ok {
			heavyShots += count
		}
	}
	if shots == 0 {
		return 0, experiment.ErrNoShots
	}
	return float64(heavyShots) / float64(shots), nil
}

// Estimate produces the statistical verdict for one depth.
//
// Description:
//
//	Computes the mean heavy-output probability and its binomial standard
//	error using the trial count as sample size, then applies the
//	two-sigma threshold 2/3 + 2σ and the 100-trial minimum. Both
//	conditions must hold for success; the reported quantum volume is
//	2^depth on success and 1 otherwise.
//
//	A zero sigma (every trial's HOP exactly 0 or 1) is substituted with
//	a small epsilon before the z-value division and reported as a
//	sigma_zero diagnostic. Fewer than 100 trials is reported as an
//	insufficient_trials diagnostic; the verdict is still computed.
//
// Inputs:
//   - heavyOutputProbs: per-trial HOPs, in trial order. Length must
//     equal trials.
//   - depth: circuit depth in [0, experiment.MaxDepth].
//   - trials: number of trials. Must be positive.
//
// Outputs:
//   - *Result: the populated verdict.
//   - []experiment.Diagnostic: advisory notices, possibly empty.
//   - error: experiment.ErrNoTrials or experiment.ErrInvalidDepth
//     (wrapped) on precondition violation.
//
// Thread Safety: This function is stateless and safe for concurrent use.
func Estimate(heavyOutputProbs []float64, depth, trials int) (*Result, []experiment.Diagnostic, error) {
	if trials <= 0 || len(heavyOutputProbs) != trials {
		return nil, nil, fmt.Errorf("%w: got %d probabilities for %d trials",
			experiment.ErrNoTrials, len(heavyOutputProbs), trials)
	}
	if depth < 0 || depth > experiment.MaxDepth {
		return nil, nil, fmt.Errorf("%w: got %d", experiment.ErrInvalidDepth, depth)
	}

	var diags []experiment.Diagnostic

	var sum float64
	for _, p := range heavyOutputProbs {
		sum += p
	}
	meanHOP := sum / float64(trials)
	sigmaHOP := math.Sqrt(meanHOP * (1 - meanHOP) / float64(trials))

	threshold := hopThreshold + zTarget*sigmaHOP

	// The z-value divides by sigma; substitute an epsilon for the
	// degenerate case instead of faulting.
	zSigma := sigmaHOP
	if zSigma == 0 {
		zSigma = sigmaEpsilon
		diags = append(diags, experiment.Diagnostic{
			Code:     DiagSigmaZero,
			Severity: experiment.SeverityWarning,
			Message:  "standard deviation sigma should not be zero",
		})
	}
	zValue := (meanHOP - hopThreshold) / zSigma
	confidence := 0.5 * (1 + math.Erf(zValue/math.Sqrt2))

	if trials < minTrials {
		diags = append(diags, experiment.Diagnostic{
			Code:     DiagInsufficientTrials,
			Severity: experiment.SeverityWarning,
			Message:  fmt.Sprintf("must use at least %d trials to consider quantum volume successful, got %d", minTrials, trials),
		})
	}

	quantumVolume := uint64(1)
	success := false
	if meanHOP > threshold && trials >= minTrials {
		quantumVolume = 1 << depth
		success = true
	}

	hops := make([]float64, len(heavyOutputProbs))
	copy(hops, heavyOutputProbs)

	return &Result{
		QuantumVolume:            quantumVolume,
		Success:                  success,
		Confidence:               confidence,
		HeavyOutputProbabilities: hops,
		MeanHOP:                  meanHOP,
		Sigma:                    sigmaHOP,
		Depth:                    depth,
		Trials:                   trials,
	}, diags, nil
}
