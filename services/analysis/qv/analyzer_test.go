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
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/AleutianAI/qvbench/services/analysis/experiment"
)

// testTrial builds a depth-1 trial whose heavy set is {"1"} and whose
// HOP is heavyShots/(heavyShots+lightShots).
func testTrial(heavyShots, lightShots uint64) experiment.TrialRecord {
	return experiment.TrialRecord{
		Counts: map[string]uint64{"0": lightShots, "1": heavyShots},
		Metadata: experiment.TrialMetadata{
			Depth:              1,
			IdealProbabilities: []float64{0.2, 0.8},
		},
	}
}

// testData builds a leaf container with n copies of one trial.
func testData(t *testing.T, trial experiment.TrialRecord, n int) *experiment.ExperimentData {
	t.Helper()
	node := experiment.NewLeafNode("qv_experiment", []int{0}, NewAnalysis(nil))
	data := experiment.NewExperimentData(node)
	for i := 0; i < n; i++ {
		if err := data.AddTrials(trial); err != nil {
			t.Fatalf("add trial: %v", err)
		}
	}
	return data
}

// stubRenderer records render calls and returns a fixed figure.
type stubRenderer struct {
	calls int
	fail  bool
}

func (r *stubRenderer) Render(ctx context.Context, plot any) (*experiment.Figure, error) {
	r.calls++
	if r.fail {
		return nil, errors.New("render failed")
	}
	if _, ok := plot.(*PlotData); !ok {
		return nil, errors.New("unexpected plot payload type")
	}
	return &experiment.Figure{Name: "qv_hop", MIMEType: "image/svg+xml", Data: []byte("<svg/>")}, nil
}

// -----------------------------------------------------------------------------
// Analyzer Tests
// -----------------------------------------------------------------------------

func TestAnalysis_Analyze(t *testing.T) {
	t.Run("passing experiment", func(t *testing.T) {
		data := testData(t, testTrial(80, 20), 150)

		entry, figure, err := NewAnalysis(nil).Analyze(context.Background(), data, experiment.Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if figure != nil {
			t.Error("expected no figure without a renderer")
		}
		if entry.Name != AnalysisName {
			t.Errorf("expected entry name %q, got %q", AnalysisName, entry.Name)
		}

		result, ok := entry.Value.(*Result)
		if !ok {
			t.Fatalf("expected *Result, got %T", entry.Value)
		}
		if !result.Success {
			t.Error("expected success")
		}
		if result.QuantumVolume != 2 {
			t.Errorf("expected quantum volume 2, got %d", result.QuantumVolume)
		}
		if result.Depth != 1 {
			t.Errorf("expected depth 1, got %d", result.Depth)
		}
		if math.Abs(result.MeanHOP-0.8) > 1e-12 {
			t.Errorf("expected mean HOP 0.8, got %v", result.MeanHOP)
		}
	})

	t.Run("failing experiment", func(t *testing.T) {
		data := testData(t, testTrial(50, 50), 150)

		entry, _, err := NewAnalysis(nil).Analyze(context.Background(), data, experiment.Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		result := entry.Value.(*Result)
		if result.Success {
			t.Error("expected failure at mean HOP 0.5")
		}
		if result.QuantumVolume != 1 {
			t.Errorf("expected quantum volume 1, got %d", result.QuantumVolume)
		}
	})

	t.Run("diagnostics surface on the entry", func(t *testing.T) {
		data := testData(t, testTrial(80, 20), 10)

		entry, _, err := NewAnalysis(nil).Analyze(context.Background(), data, experiment.Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !hasDiag(entry.Diagnostics, DiagInsufficientTrials) {
			t.Errorf("expected insufficient_trials diagnostic, got %v", entry.Diagnostics)
		}
	})

	t.Run("no trials rejected", func(t *testing.T) {
		data := testData(t, testTrial(80, 20), 0)

		_, _, err := NewAnalysis(nil).Analyze(context.Background(), data, experiment.Options{})
		if !errors.Is(err, experiment.ErrNoTrials) {
			t.Errorf("expected ErrNoTrials, got %v", err)
		}
	})

	t.Run("renderer produces figure", func(t *testing.T) {
		data := testData(t, testTrial(80, 20), 120)
		renderer := &stubRenderer{}

		_, figure, err := NewAnalysis(nil).Analyze(context.Background(), data, experiment.Options{Renderer: renderer})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if renderer.calls != 1 {
			t.Errorf("expected 1 render call, got %d", renderer.calls)
		}
		if figure == nil || figure.Name != "qv_hop" {
			t.Errorf("expected qv_hop figure, got %+v", figure)
		}
	})

	t.Run("renderer failure is fatal", func(t *testing.T) {
		data := testData(t, testTrial(80, 20), 120)

		entry, _, err := NewAnalysis(nil).Analyze(context.Background(), data, experiment.Options{Renderer: &stubRenderer{fail: true}})
		if err == nil {
			t.Fatal("expected error from failing renderer")
		}
		if entry != nil {
			t.Error("expected no partial result on renderer failure")
		}
	})

	t.Run("parallel matches sequential", func(t *testing.T) {
		trials := []experiment.TrialRecord{
			testTrial(80, 20), testTrial(70, 30), testTrial(90, 10), testTrial(60, 40),
		}
		build := func() *experiment.ExperimentData {
			node := experiment.NewLeafNode("qv_experiment", []int{0}, NewAnalysis(nil))
			data := experiment.NewExperimentData(node)
			if err := data.AddTrials(trials...); err != nil {
				t.Fatalf("add trials: %v", err)
			}
			return data
		}

		seqEntry, _, err := NewAnalysis(nil).Analyze(context.Background(), build(), experiment.Options{})
		if err != nil {
			t.Fatalf("sequential: %v", err)
		}
		parEntry, _, err := NewAnalysis(nil).Analyze(context.Background(), build(), experiment.Options{Parallelism: 4})
		if err != nil {
			t.Fatalf("parallel: %v", err)
		}

		seq := seqEntry.Value.(*Result)
		par := parEntry.Value.(*Result)
		if len(seq.HeavyOutputProbabilities) != len(par.HeavyOutputProbabilities) {
			t.Fatal("probability counts differ")
		}
		for i := range seq.HeavyOutputProbabilities {
			if seq.HeavyOutputProbabilities[i] != par.HeavyOutputProbabilities[i] {
				t.Errorf("index %d: sequential %v, parallel %v",
					i, seq.HeavyOutputProbabilities[i], par.HeavyOutputProbabilities[i])
			}
		}
		if seq.MeanHOP != par.MeanHOP || seq.Sigma != par.Sigma || seq.Success != par.Success {
			t.Error("parallel verdict differs from sequential")
		}
	})

	t.Run("options logger preferred", func(t *testing.T) {
		data := testData(t, testTrial(80, 20), 120)

		var buf bytes.Buffer
		opts := experiment.Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
		if _, _, err := NewAnalysis(nil).Analyze(context.Background(), data, opts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "qv analysis complete") {
			t.Error("expected analysis logs on the injected logger")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		data := testData(t, testTrial(80, 20), 5)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := NewAnalysis(nil).Analyze(ctx, data, experiment.Options{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
