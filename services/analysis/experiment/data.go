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
	"sync"

	"github.com/google/uuid"
)

// ExperimentData is the container for one node's measured trials and
// attached analysis results.
//
// Description:
//
//	For a composite node the container owns one child container per child
//	definition, created recursively at construction. The parent
//	exclusively owns its children; the recursive analysis call is the
//	only writer to a child's stored results.
//
// Thread Safety: Safe for concurrent use via read-write mutex.
type ExperimentData struct {
	mu sync.RWMutex

	id             string
	node           Node
	experimentType string
	physicalQubits []int

	trials   []TrialRecord
	children []*ExperimentData

	results []AnalysisResult
	figures []Figure
}

// NewExperimentData creates the container tree for a node.
//
// Description:
//
//	Assigns a fresh identifier and, for a CompositeNode, recursively
//	creates one child container per child definition in child order.
//
// Inputs:
//   - node: the experiment definition. Must not be nil.
//
// Outputs:
//   - *ExperimentData: the container. Nil only if node is nil.
func NewExperimentData(node Node) *ExperimentData {
	if node == nil {
		return nil
	}

	d := &ExperimentData{
		id:             uuid.NewString(),
		node:           node,
		experimentType: node.Type(),
		physicalQubits: node.PhysicalQubits(),
	}

	if comp, ok := node.(*CompositeNode); ok {
		d.children = make([]*ExperimentData, 0, comp.ChildCount())
		for i := 0; i < comp.ChildCount(); i++ {
			child, _ := comp.Component(i)
			d.children = append(d.children, NewExperimentData(child))
		}
	}
	return d
}

// ID returns the container's unique identifier.
func (d *ExperimentData) ID() string { return d.id }

// ExperimentType returns the experiment type label.
func (d *ExperimentData) ExperimentType() string { return d.experimentType }

// PhysicalQubits returns a copy of the physical qubit indices.
func (d *ExperimentData) PhysicalQubits() []int {
	qubits := make([]int, len(d.physicalQubits))
	copy(qubits, d.physicalQubits)
	return qubits
}

// Node returns the experiment definition this container belongs to.
func (d *ExperimentData) Node() Node { return d.node }

// IsComposite reports whether this container holds child containers.
func (d *ExperimentData) IsComposite() bool {
	_, ok := d.node.(*CompositeNode)
	return ok
}

// -----------------------------------------------------------------------------
// Trials
// -----------------------------------------------------------------------------

// AddTrials appends collected trial records to a leaf container.
//
// Description:
//
//	Every record is validated at this boundary: zero-shot trials and
//	probability vectors that do not match 2^depth are rejected before
//	any statistics run. On error nothing is appended.
//
// Outputs:
//   - error: ErrNotLeaf for composite containers, or the first trial's
//     validation error.
func (d *ExperimentData) AddTrials(trials ...TrialRecord) error {
	if d.IsComposite() {
		return fmt.Errorf("%w: %q is composite", ErrNotLeaf, d.experimentType)
	}
	for i, trial := range trials {
		if err := trial.Validate(); err != nil {
			return fmt.Errorf("trial %d: %w", i, err)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.trials = append(d.trials, trials...)
	return nil
}

// Trials returns a copy of the trial records in collection order.
func (d *ExperimentData) Trials() []TrialRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	trials := make([]TrialRecord, len(d.trials))
	copy(trials, d.trials)
	return trials
}

// TrialCount returns the number of collected trials.
func (d *ExperimentData) TrialCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.trials)
}

// -----------------------------------------------------------------------------
// Children
// -----------------------------------------------------------------------------

// ChildCount returns the number of immediate child containers.
func (d *ExperimentData) ChildCount() int { return len(d.children) }

// Child returns the child container at index i.
func (d *ExperimentData) Child(i int) (*ExperimentData, error) {
	if i < 0 || i >= len(d.children) {
		return nil, fmt.Errorf("%w: %d of %d", ErrChildIndex, i, len(d.children))
	}
	return d.children[i], nil
}

// -----------------------------------------------------------------------------
// Results
// -----------------------------------------------------------------------------

// attachResult records one analysis entry and its optional figure. Only
// Node.RunAnalysis attaches, keeping the recursive walk the single
// writer per container.
func (d *ExperimentData) attachResult(result AnalysisResult, figure *Figure) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.results = append(d.results, result)
	if figure != nil {
		d.figures = append(d.figures, *figure)
	}
}

// Results returns a copy of the attached analysis entries in attachment
// order.
func (d *ExperimentData) Results() []AnalysisResult {
	d.mu.RLock()
	defer d.mu.RUnlock()

	results := make([]AnalysisResult, len(d.results))
	copy(results, d.results)
	return results
}

// Figures returns a copy of the attached figures.
func (d *ExperimentData) Figures() []Figure {
	d.mu.RLock()
	defer d.mu.RUnlock()

	figures := make([]Figure, len(d.figures))
	copy(figures, d.figures)
	return figures
}
