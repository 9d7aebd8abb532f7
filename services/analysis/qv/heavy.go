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
	"sort"

	"github.com/AleutianAI/qvbench/services/analysis/experiment"
)

// HeavyOutputs derives the heavy-output set from an ideal distribution.
//
// Description:
//
//	Formats every outcome index in [0, 2^depth) as a zero-padded binary
//	string of width depth, computes the median of all 2^depth ideal
//	probabilities, and selects the strings whose probability is strictly
//	greater than the median. Ties are excluded: with an even-length
//	uniform distribution the heavy set is empty.
//
// Inputs:
//   - probabilities: ideal probabilities, one per outcome. Length must
//     be exactly 2^depth.
//   - depth: circuit depth. Must be in [0, experiment.MaxDepth].
//
// Outputs:
//   - map[string]struct{}: the heavy bitstrings.
//   - error: experiment.ErrInvalidDepth or experiment.ErrProbabilityLength
//     (wrapped) on precondition violation.
//
// Thread Safety: This function is stateless and safe for concurrent use.
func HeavyOutputs(probabilities []float64, depth int) (map[string]struct{}, error) {
	if depth < 0 || depth > experiment.MaxDepth {
		return nil, fmt.Errorf("%w: got %d", experiment.ErrInvalidDepth, depth)
	}
	if want := 1 << depth; len(probabilities) != want {
		return nil, fmt.Errorf("%w: got %d values for depth %d (want %d)",
			experiment.ErrProbabilityLength, len(probabilities), depth, want)
	}

	med := median(probabilities)

	heavy := make(map[string]struct{})
	for b, p := range probabilities {
		if p > med {
			heavy[fmt.Sprintf("%0*b", depth, b)] = struct{}{}
		}
	}
	return heavy, nil
}

// median returns the median of values: the middle order statistic for
// odd lengths, the mean of the two middle order statistics for even
// lengths. The input is not modified.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
