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
	"fmt"

	"github.com/go-playground/validator/v10"
)

// MaxDepth bounds the outcome space to something addressable; 2^30
// probability entries is already far past any practical benchmark.
const MaxDepth = 30

// validate checks struct tags on boundary inputs. Structural constraints
// that tags cannot express (vector length vs depth, zero shots) are
// enforced by TrialRecord.Validate.
var validate = validator.New(validator.WithRequiredStructEnabled())

// TrialMetadata describes the circuit behind one trial.
type TrialMetadata struct {
	// Depth is the circuit depth. The benchmark keeps depth constant
	// across all trials of one experiment, but each trial carries its own.
	Depth int `json:"depth"`

	// IdealProbabilities is the noiseless simulation result: 2^Depth
	// non-negative reals summing to 1, indexed by integer outcome.
	IdealProbabilities []float64 `json:"ideal_probabilities" validate:"required,dive,gte=0"`
}

// TrialRecord is one executed circuit's measured outcome. Records are
// produced by the external collaborator that runs circuits and are
// immutable once collected.
type TrialRecord struct {
	// Counts maps measured bitstrings to occurrence counts.
	Counts map[string]uint64 `json:"counts" validate:"required"`

	// Metadata carries the circuit depth and ideal simulation reference.
	Metadata TrialMetadata `json:"metadata" validate:"required"`
}

// Shots returns the total measurement count across all outcomes.
func (t TrialRecord) Shots() uint64 {
	var total uint64
	for _, c := range t.Counts {
		total += c
	}
	return total
}

// Validate rejects malformed trials at the boundary, before any
// statistics run.
//
// Outputs:
//   - error: nil for a well-formed trial; ErrInvalidDepth,
//     ErrProbabilityLength, or ErrNoShots (wrapped) otherwise.
func (t TrialRecord) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("trial record: %w", err)
	}
	if t.Metadata.Depth < 0 || t.Metadata.Depth > MaxDepth {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, t.Metadata.Depth)
	}
	if want := 1 << t.Metadata.Depth; len(t.Metadata.IdealProbabilities) != want {
		return fmt.Errorf("%w: got %d values for depth %d (want %d)",
			ErrProbabilityLength, len(t.Metadata.IdealProbabilities), t.Metadata.Depth, want)
	}
	if t.Shots() == 0 {
		return ErrNoShots
	}
	return nil
}
