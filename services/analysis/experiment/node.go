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
	"fmt"
)

// Node is one node of the experiment tree: either a LeafNode or a
// CompositeNode. Nodes are experiment definitions; measured data lives in
// the parallel ExperimentData container.
//
// RunAnalysis is polymorphic over the two variants, so a composite walk
// recurses transparently when a child is itself composite.
type Node interface {
	// Type returns the experiment type label, e.g. "qv_experiment".
	Type() string

	// PhysicalQubits returns the physical qubit indices this experiment
	// acts on.
	PhysicalQubits() []int

	// RunAnalysis runs this node's analysis strategy on the given
	// container and attaches the result entry (and optional figure) to it.
	// The attachment is the externally visible side effect; siblings'
	// containers are never touched.
	RunAnalysis(ctx context.Context, data *ExperimentData, opts Options) error
}

// -----------------------------------------------------------------------------
// Leaf
// -----------------------------------------------------------------------------

// LeafNode is a single circuit-level experiment definition.
type LeafNode struct {
	experimentType string
	physicalQubits []int
	analyzer       Analyzer
}

// NewLeafNode creates a leaf experiment definition.
//
// Inputs:
//   - experimentType: type label for the experiment.
//   - physicalQubits: physical qubit indices. The slice is copied.
//   - analyzer: the analysis strategy. Must not be nil.
func NewLeafNode(experimentType string, physicalQubits []int, analyzer Analyzer) *LeafNode {
	qubits := make([]int, len(physicalQubits))
	copy(qubits, physicalQubits)
	return &LeafNode{
		experimentType: experimentType,
		physicalQubits: qubits,
		analyzer:       analyzer,
	}
}

// Type returns the experiment type label.
func (n *LeafNode) Type() string { return n.experimentType }

// PhysicalQubits returns a copy of the physical qubit indices.
func (n *LeafNode) PhysicalQubits() []int {
	qubits := make([]int, len(n.physicalQubits))
	copy(qubits, n.physicalQubits)
	return qubits
}

// RunAnalysis runs the leaf's analyzer and attaches its result to data.
func (n *LeafNode) RunAnalysis(ctx context.Context, data *ExperimentData, opts Options) error {
	if n.analyzer == nil {
		return fmt.Errorf("%w: leaf %q", ErrNilAnalyzer, n.experimentType)
	}
	if data == nil {
		return fmt.Errorf("%w: leaf %q", ErrNilData, n.experimentType)
	}

	result, figure, err := n.analyzer.Analyze(ctx, data, opts)
	if err != nil {
		return err
	}
	data.attachResult(*result, figure)
	return nil
}

// -----------------------------------------------------------------------------
// Composite
// -----------------------------------------------------------------------------

// CompositeNode is an experiment defined as an ordered collection of
// sub-experiments, possibly themselves composite.
type CompositeNode struct {
	experimentType string
	children       []Node
	analyzer       Analyzer
}

// NewCompositeNode creates a composite experiment definition.
//
// Inputs:
//   - experimentType: type label, e.g. "batch_experiment".
//   - children: ordered child definitions. The slice is copied.
//   - analyzer: the composite analysis strategy (typically
//     composite.NewAnalysis). Must not be nil.
func NewCompositeNode(experimentType string, children []Node, analyzer Analyzer) *CompositeNode {
	nodes := make([]Node, len(children))
	copy(nodes, children)
	return &CompositeNode{
		experimentType: experimentType,
		children:       nodes,
		analyzer:       analyzer,
	}
}

// Type returns the experiment type label.
func (n *CompositeNode) Type() string { return n.experimentType }

// PhysicalQubits returns the ordered union of the children's physical
// qubits, first occurrence wins.
func (n *CompositeNode) PhysicalQubits() []int {
	seen := make(map[int]struct{})
	var qubits []int
	for _, child := range n.children {
		for _, q := range child.PhysicalQubits() {
			if _, ok := seen[q]; ok {
				continue
			}
			seen[q] = struct{}{}
			qubits = append(qubits, q)
		}
	}
	return qubits
}

// ChildCount returns the declared number of immediate children.
func (n *CompositeNode) ChildCount() int { return len(n.children) }

// Component returns the child definition at index i.
func (n *CompositeNode) Component(i int) (Node, error) {
	if i < 0 || i >= len(n.children) {
		return nil, fmt.Errorf("%w: %d of %d", ErrChildIndex, i, len(n.children))
	}
	return n.children[i], nil
}

// RunAnalysis runs the composite's analyzer and attaches its aggregate
// result to data. Child results are attached to the child containers by
// the analyzer's recursive walk.
func (n *CompositeNode) RunAnalysis(ctx context.Context, data *ExperimentData, opts Options) error {
	if n.analyzer == nil {
		return fmt.Errorf("%w: composite %q", ErrNilAnalyzer, n.experimentType)
	}
	if data == nil {
		return fmt.Errorf("%w: composite %q", ErrNilData, n.experimentType)
	}

	result, figure, err := n.analyzer.Analyze(ctx, data, opts)
	if err != nil {
		return err
	}
	data.attachResult(*result, figure)
	return nil
}
