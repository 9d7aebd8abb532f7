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
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/AleutianAI/qvbench/services/analysis/experiment"
)

// stubAnalyzer counts invocations and returns a fixed entry, or fails.
type stubAnalyzer struct {
	name  string
	fail  error
	calls atomic.Int64
}

func (a *stubAnalyzer) Name() string { return a.name }

func (a *stubAnalyzer) Analyze(ctx context.Context, data *experiment.ExperimentData, opts experiment.Options) (*experiment.AnalysisResult, *experiment.Figure, error) {
	a.calls.Add(1)
	if a.fail != nil {
		return nil, nil, a.fail
	}
	return &experiment.AnalysisResult{Name: a.name, Value: a.name}, nil, nil
}

// threeChildTree builds a composite of three stub leaves and its
// container tree. Returned stubs are in child order.
func threeChildTree() (*experiment.CompositeNode, *experiment.ExperimentData, []*stubAnalyzer) {
	stubs := []*stubAnalyzer{
		{name: "analysis_a"},
		{name: "analysis_b"},
		{name: "analysis_c"},
	}
	node := experiment.NewCompositeNode("parallel_experiment", []experiment.Node{
		experiment.NewLeafNode("type_a", []int{0}, stubs[0]),
		experiment.NewLeafNode("type_b", []int{1}, stubs[1]),
		experiment.NewLeafNode("type_c", []int{2, 3}, stubs[2]),
	}, NewAnalysis(nil))
	return node, experiment.NewExperimentData(node), stubs
}

// -----------------------------------------------------------------------------
// Dispatch Tests
// -----------------------------------------------------------------------------

func TestAnalysis_Analyze(t *testing.T) {
	t.Run("aggregate follows child order", func(t *testing.T) {
		node, data, stubs := threeChildTree()

		if err := node.RunAnalysis(context.Background(), data, experiment.Options{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		results := data.Results()
		if len(results) != 1 {
			t.Fatalf("expected 1 root result, got %d", len(results))
		}
		aggregate, ok := results[0].Value.(*AggregateResult)
		if !ok {
			t.Fatalf("expected *AggregateResult, got %T", results[0].Value)
		}

		wantTypes := []string{"type_a", "type_b", "type_c"}
		for i, want := range wantTypes {
			if aggregate.ExperimentTypes[i] != want {
				t.Errorf("type[%d]: expected %q, got %q", i, want, aggregate.ExperimentTypes[i])
			}
		}

		wantQubits := [][]int{{0}, {1}, {2, 3}}
		for i, want := range wantQubits {
			got := aggregate.ExperimentQubits[i]
			if len(got) != len(want) {
				t.Fatalf("qubits[%d]: expected %v, got %v", i, want, got)
			}
			for j := range want {
				if got[j] != want[j] {
					t.Errorf("qubits[%d]: expected %v, got %v", i, want, got)
				}
			}
		}

		// Identifiers must match the child containers, in order.
		for i := range wantTypes {
			child, err := data.Child(i)
			if err != nil {
				t.Fatalf("child %d: %v", i, err)
			}
			if aggregate.ExperimentIDs[i] != child.ID() {
				t.Errorf("id[%d]: expected %q, got %q", i, child.ID(), aggregate.ExperimentIDs[i])
			}
		}

		// Each child analyzed exactly once, result on its own container.
		for i, stub := range stubs {
			if got := stub.calls.Load(); got != 1 {
				t.Errorf("child %d: expected 1 analyze call, got %d", i, got)
			}
			child, _ := data.Child(i)
			childResults := child.Results()
			if len(childResults) != 1 || childResults[0].Name != stub.name {
				t.Errorf("child %d: unexpected results %+v", i, childResults)
			}
		}
	})

	t.Run("leaf data rejected", func(t *testing.T) {
		leaf := experiment.NewLeafNode("type_a", []int{0}, &stubAnalyzer{name: "analysis_a"})
		data := experiment.NewExperimentData(leaf)

		_, _, err := NewAnalysis(nil).Analyze(context.Background(), data, experiment.Options{})
		if !errors.Is(err, experiment.ErrNotComposite) {
			t.Errorf("expected ErrNotComposite, got %v", err)
		}
	})

	t.Run("child failure aborts without aggregate", func(t *testing.T) {
		failure := errors.New("child analysis broke")
		stub := &stubAnalyzer{name: "analysis_b", fail: failure}
		node := experiment.NewCompositeNode("parallel_experiment", []experiment.Node{
			experiment.NewLeafNode("type_a", []int{0}, &stubAnalyzer{name: "analysis_a"}),
			experiment.NewLeafNode("type_b", []int{1}, stub),
		}, NewAnalysis(nil))
		data := experiment.NewExperimentData(node)

		err := node.RunAnalysis(context.Background(), data, experiment.Options{})
		if !errors.Is(err, failure) {
			t.Fatalf("expected child failure, got %v", err)
		}
		if len(data.Results()) != 0 {
			t.Error("expected no aggregate on child failure")
		}
	})

	t.Run("nested composite recurses", func(t *testing.T) {
		innerStub := &stubAnalyzer{name: "analysis_inner"}
		inner := experiment.NewCompositeNode("parallel_experiment", []experiment.Node{
			experiment.NewLeafNode("type_inner", []int{0}, innerStub),
		}, NewAnalysis(nil))
		outer := experiment.NewCompositeNode("batch_experiment", []experiment.Node{
			inner,
			experiment.NewLeafNode("type_b", []int{1}, &stubAnalyzer{name: "analysis_b"}),
		}, NewAnalysis(nil))
		data := experiment.NewExperimentData(outer)

		if err := outer.RunAnalysis(context.Background(), data, experiment.Options{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// The inner composite's own container carries its aggregate.
		innerData, _ := data.Child(0)
		innerResults := innerData.Results()
		if len(innerResults) != 1 {
			t.Fatalf("expected 1 inner result, got %d", len(innerResults))
		}
		if _, ok := innerResults[0].Value.(*AggregateResult); !ok {
			t.Errorf("expected inner aggregate, got %T", innerResults[0].Value)
		}

		// The grandchild leaf was reached through the recursion.
		if got := innerStub.calls.Load(); got != 1 {
			t.Errorf("expected 1 grandchild analyze call, got %d", got)
		}
		leafData, _ := innerData.Child(0)
		if len(leafData.Results()) != 1 {
			t.Errorf("expected 1 grandchild result, got %d", len(leafData.Results()))
		}
	})

	t.Run("parallel matches sequential", func(t *testing.T) {
		runDispatch := func(parallelism int) *AggregateResult {
			node, data, _ := threeChildTree()
			opts := experiment.Options{Parallelism: parallelism}
			if err := node.RunAnalysis(context.Background(), data, opts); err != nil {
				t.Fatalf("parallelism %d: %v", parallelism, err)
			}
			return data.Results()[0].Value.(*AggregateResult)
		}

		seq := runDispatch(1)
		par := runDispatch(3)

		if len(seq.ExperimentTypes) != len(par.ExperimentTypes) {
			t.Fatal("aggregate lengths differ")
		}
		for i := range seq.ExperimentTypes {
			if seq.ExperimentTypes[i] != par.ExperimentTypes[i] {
				t.Errorf("type[%d]: sequential %q, parallel %q",
					i, seq.ExperimentTypes[i], par.ExperimentTypes[i])
			}
		}
	})

	t.Run("composite has no figure", func(t *testing.T) {
		_, data, _ := threeChildTree()

		_, figure, err := NewAnalysis(nil).Analyze(context.Background(), data, experiment.Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if figure != nil {
			t.Error("expected nil figure for composite analysis")
		}
	})

	t.Run("options logger preferred", func(t *testing.T) {
		node, data, _ := threeChildTree()

		var buf bytes.Buffer
		opts := experiment.Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
		if err := node.RunAnalysis(context.Background(), data, opts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "composite analysis complete") {
			t.Error("expected dispatch logs on the injected logger")
		}
	})

	t.Run("nil data rejected", func(t *testing.T) {
		_, _, err := NewAnalysis(nil).Analyze(context.Background(), nil, experiment.Options{})
		if !errors.Is(err, experiment.ErrNilData) {
			t.Errorf("expected ErrNilData, got %v", err)
		}
	})
}
