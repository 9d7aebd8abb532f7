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

import "math"

// PlotData is the renderer-agnostic payload for a quantum volume figure.
// The analysis core computes the arithmetic; an injected
// experiment.Renderer decides how (and whether) to draw it.
type PlotData struct {
	// Depth is the analyzed circuit depth, for the figure title.
	Depth int `json:"depth"`

	// Threshold is the 2/3 success line.
	Threshold float64 `json:"threshold"`

	// TrialHOP holds the individual per-trial heavy-output
	// probabilities, in trial order.
	TrialHOP []float64 `json:"trial_hop"`

	// CumulativeHOP holds the running mean HOP after each trial.
	CumulativeHOP []float64 `json:"cumulative_hop"`

	// TwoSigma holds the two-sigma band around each cumulative point,
	// using the trial prefix length as sample size.
	TwoSigma []float64 `json:"two_sigma"`
}

// NewPlotData computes the cumulative heavy-output probability curve and
// its two-sigma band for a result.
func NewPlotData(result *Result) *PlotData {
	n := len(result.HeavyOutputProbabilities)
	cumulative := make([]float64, n)
	twoSigma := make([]float64, n)

	var sum float64
	for i, p := range result.HeavyOutputProbabilities {
		sum += p
		c := sum / float64(i+1)
		cumulative[i] = c
		twoSigma[i] = 2 * math.Sqrt(c*(1-c)/float64(i+1))
	}

	trialHOP := make([]float64, n)
	copy(trialHOP, result.HeavyOutputProbabilities)

	return &PlotData{
		Depth:         result.Depth,
		Threshold:     hopThreshold,
		TrialHOP:      trialHOP,
		CumulativeHOP: cumulative,
		TwoSigma:      twoSigma,
	}
}
