// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package composite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/qvbench/services/analysis/experiment"
)

var tracer = otel.Tracer("qvbench.composite")

// AnalysisName is the result entry name for composite analyses.
const AnalysisName = "composite_analysis"

// AggregateResult describes a composite node's immediate children,
// one entry per child in child order. All three sequences have exactly
// the node's declared child count. The children's numeric results are
// never merged here; they live on the child containers.
type AggregateResult struct {
	// ExperimentTypes holds the child experiment type labels.
	ExperimentTypes []string `json:"experiment_types"`

	// ExperimentIDs holds the child container identifiers.
	ExperimentIDs []string `json:"experiment_ids"`

	// ExperimentQubits holds the child physical qubit sequences.
	ExperimentQubits [][]int `json:"experiment_qubits"`
}

// Analysis is the composite experiment.Analyzer.
//
// Thread Safety: Safe for concurrent use; Analysis holds no mutable state.
type Analysis struct {
	logger *slog.Logger
}

// NewAnalysis creates the composite dispatcher.
//
// Inputs:
//   - logger: dispatch logs. Nil means slog.Default().
func NewAnalysis(logger *slog.Logger) *Analysis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analysis{logger: logger}
}

// Name returns the analyzer identifier.
func (a *Analysis) Name() string { return AnalysisName }

// Analyze dispatches analysis to every immediate child and assembles
// the aggregate metadata record.
//
// Description:
//
//	For child index i in ascending order, fetches the child definition
//	and its data container, invokes the child's own RunAnalysis (the
//	child's results attach to the child's container as a side effect),
//	and appends the child's type label, identifier, and physical qubits
//	to the aggregate sequences in child order.
//
// Outputs:
//   - *experiment.AnalysisResult: one entry wrapping *AggregateResult.
//   - *experiment.Figure: always nil; composite analysis has no figure.
//   - error: experiment.ErrNotComposite (wrapped) when data is not a
//     composite container, or the first child failure. On error no
//     partial aggregate is produced.
func (a *Analysis) Analyze(ctx context.Context, data *experiment.ExperimentData, opts experiment.Options) (*experiment.AnalysisResult, *experiment.Figure, error) {
	if data == nil {
		return nil, nil, experiment.ErrNilData
	}
	logger := a.logger
	if opts.Logger != nil {
		logger = opts.Logger
	}

	node, ok := data.Node().(*experiment.CompositeNode)
	if !ok {
		return nil, nil, fmt.Errorf("%w: got %q experiment data",
			experiment.ErrNotComposite, data.ExperimentType())
	}

	ctx, span := tracer.Start(ctx, "composite.Analyze", trace.WithAttributes(
		attribute.String("experiment.id", data.ID()),
		attribute.Int("experiment.children", node.ChildCount()),
	))
	defer span.End()
	start := time.Now()

	var err error
	if opts.Parallelism > 1 {
		err = a.dispatchParallel(ctx, node, data, opts)
	} else {
		err = a.dispatchSequential(ctx, node, data, opts)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "child analysis failed")
		return nil, nil, err
	}

	// Merge pass: child-index order is part of the observable contract,
	// identical for both dispatch paths.
	aggregate := &AggregateResult{
		ExperimentTypes:  make([]string, 0, node.ChildCount()),
		ExperimentIDs:    make([]string, 0, node.ChildCount()),
		ExperimentQubits: make([][]int, 0, node.ChildCount()),
	}
	for i := 0; i < node.ChildCount(); i++ {
		child, err := node.Component(i)
		if err != nil {
			return nil, nil, err
		}
		childData, err := data.Child(i)
		if err != nil {
			return nil, nil, err
		}
		aggregate.ExperimentTypes = append(aggregate.ExperimentTypes, childData.ExperimentType())
		aggregate.ExperimentIDs = append(aggregate.ExperimentIDs, childData.ID())
		aggregate.ExperimentQubits = append(aggregate.ExperimentQubits, child.PhysicalQubits())
	}

	dispatchDuration.Observe(time.Since(start).Seconds())
	logger.Info("composite analysis complete",
		"experiment_id", data.ID(), "children", node.ChildCount())

	return &experiment.AnalysisResult{
		Name:  AnalysisName,
		Value: aggregate,
	}, nil, nil
}

// dispatchSequential is the reference path: one linear pass over the
// children in index order, aborting on the first failure.
func (a *Analysis) dispatchSequential(ctx context.Context, node *experiment.CompositeNode, data *experiment.ExperimentData, opts experiment.Options) error {
	for i := 0; i < node.ChildCount(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.dispatchChild(ctx, node, data, i, opts); err != nil {
			return err
		}
	}
	return nil
}

// dispatchParallel runs the children under an errgroup. Each child
// mutates only its own container, so no cross-child synchronization is
// needed; a child failure cancels the remaining dispatches.
func (a *Analysis) dispatchParallel(ctx context.Context, node *experiment.CompositeNode, data *experiment.ExperimentData, opts experiment.Options) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)

	for i := 0; i < node.ChildCount(); i++ {
		i := i // Capture loop variable
		g.Go(func() error {
			return a.dispatchChild(gctx, node, data, i, opts)
		})
	}
	return g.Wait()
}

// dispatchChild invokes one child's own analysis inside a span.
func (a *Analysis) dispatchChild(ctx context.Context, node *experiment.CompositeNode, data *experiment.ExperimentData, i int, opts experiment.Options) error {
	child, err := node.Component(i)
	if err != nil {
		return err
	}
	childData, err := data.Child(i)
	if err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "composite.child")
	span.SetAttributes(
		attribute.Int("child.index", i),
		attribute.String("child.type", child.Type()),
	)
	defer span.End()

	if err := child.RunAnalysis(ctx, childData, opts); err != nil {
		childAnalysisTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis failed")
		return fmt.Errorf("child %d (%s): %w", i, child.Type(), err)
	}
	childAnalysisTotal.WithLabelValues("ok").Inc()
	return nil
}
