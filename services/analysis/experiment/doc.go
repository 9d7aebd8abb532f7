// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package experiment defines the shared data model for benchmark analysis.
//
// # Architecture
//
// Experiments form a tree. A node is either a leaf (a single circuit-level
// experiment with its trial records) or a composite (an ordered sequence of
// child nodes). Each node has a parallel data container that collects the
// measured trials and, after analysis, the attached results:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                     Experiment Tree                          │
//	│                                                              │
//	│     CompositeNode ───────────► ExperimentData                │
//	│      ├── LeafNode ───────────►  ├── ExperimentData (trials)  │
//	│      ├── LeafNode ───────────►  ├── ExperimentData (trials)  │
//	│      └── CompositeNode ──────►  └── ExperimentData           │
//	│           └── LeafNode ──────►       └── ExperimentData      │
//	│                                                              │
//	└─────────────────────────────────────────────────────────────┘
//
// Ownership: a container exclusively owns its child containers. The
// recursive analysis call is the only writer to a child's stored results,
// so sibling analyses never alias each other's state.
//
// # Components
//
//   - Node: tagged variant over LeafNode and CompositeNode, each carrying
//     its own analysis strategy behind the Analyzer interface
//   - ExperimentData: container for trial records and analysis results
//   - TrialRecord: one executed circuit's measured outcome counts
//   - Diagnostic: advisory notices returned alongside results instead of
//     a global warning channel
//   - Renderer: optional capability a caller injects to turn plot data
//     into a figure; absence simply means no figure
//
// # Usage
//
// Building and analyzing a single quantum volume experiment:
//
//	node := experiment.NewLeafNode("qv_experiment", []int{0, 1}, qv.NewAnalysis(nil))
//	data := experiment.NewExperimentData(node)
//	if err := data.AddTrials(trials...); err != nil {
//	    return err
//	}
//	if err := node.RunAnalysis(ctx, data, experiment.Options{}); err != nil {
//	    return err
//	}
//	results := data.Results()
//
// # Thread Safety
//
// ExperimentData is safe for concurrent use. Nodes are immutable after
// construction and safe to share.
package experiment
