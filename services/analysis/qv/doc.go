// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package qv implements quantum volume analysis over collected trial data.
//
// # Architecture
//
// The analysis is a two-stage pipeline over the trial records of one
// experiment at a fixed depth:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│                     QUANTUM VOLUME ANALYSIS                       │
//	├──────────────────────────────────────────────────────────────────┤
//	│                                                                   │
//	│  per trial:                                                       │
//	│    ideal probabilities ──► HeavyOutputs ──► heavy bitstring set   │
//	│    measured counts ──────► HeavyOutputProbability ──► HOP         │
//	│                                                                   │
//	│  across trials:                                                   │
//	│    HOP sequence ──► Estimate ──► Result + Diagnostics             │
//	│    • mean HOP, binomial sigma (n = trials)                        │
//	│    • threshold 2/3 + 2σ                                           │
//	│    • confidence via standard normal CDF                           │
//	│    • success gate: mean > threshold AND trials >= 100             │
//	│                                                                   │
//	└──────────────────────────────────────────────────────────────────┘
//
// A heavy output is a measured outcome whose ideal (noiseless-simulated)
// probability strictly exceeds the median over all 2^depth outcomes at
// the trial's depth. Values equal to the median are excluded, so a
// uniform distribution has an empty heavy set.
//
// # Statistical Methodology
//
// The estimator treats each trial's heavy-output probability as one
// Bernoulli-like observation, so the binomial standard error uses the
// trial count, not the total shot count, as the sample size. A depth
// passes when the mean heavy-output probability exceeds 2/3 by two
// standard errors and at least 100 trials were run; the reported
// quantum volume is then 2^depth, otherwise 1.
//
// Degenerate statistics (sigma exactly zero when every trial's HOP is
// 0 or 1) and insufficient sample sizes never fail the analysis: they
// surface as Diagnostic entries on the result.
//
// # Usage
//
//	analysis := qv.NewAnalysis(nil)
//	node := experiment.NewLeafNode("qv_experiment", []int{0, 1}, analysis)
//	data := experiment.NewExperimentData(node)
//	if err := data.AddTrials(trials...); err != nil {
//	    return err
//	}
//	if err := node.RunAnalysis(ctx, data, experiment.Options{}); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// All functions in this package are stateless and safe for concurrent
// use. Analysis is immutable after construction.
package qv
