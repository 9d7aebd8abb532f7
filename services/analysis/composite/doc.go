// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package composite implements analysis dispatch over composite experiments.
//
// # Architecture
//
// A composite experiment is an ordered collection of sub-experiments,
// possibly themselves composite. The dispatcher walks the immediate
// children in index order, triggers each child's own analysis (recursing
// transparently into nested composites), and assembles an aggregate
// record of the children's identifying metadata:
//
//	┌────────────────────────────────────────────────────────────────┐
//	│                     COMPOSITE DISPATCH                          │
//	│                                                                 │
//	│   for each child i in [0, child_count):                        │
//	│     child definition ──► RunAnalysis(child data) ──► results    │
//	│                               │          attached to child data │
//	│     type label, id, qubits ───┴──► aggregate sequences          │
//	│                                                                 │
//	│   aggregate = {experiment_types, experiment_ids,                │
//	│                experiment_qubits}   (child order, no numerics)  │
//	└────────────────────────────────────────────────────────────────┘
//
// The aggregate never merges the children's numeric results; each
// child's own verdict lives on that child's data container.
//
// # Failure Semantics
//
// A failure in any child's analysis aborts the pass and propagates.
// There is no isolation between siblings and no partial aggregate.
//
// # Thread Safety
//
// Analysis is safe for concurrent use. With Options.Parallelism > 1
// children run under an errgroup; each child mutates only its own
// container, and a sequential merge in child-index order makes the
// aggregate identical to the sequential reference path.
package composite
