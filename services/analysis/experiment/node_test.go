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
	"errors"
	"testing"
)

func TestLeafNode(t *testing.T) {
	t.Run("qubits are copied", func(t *testing.T) {
		qubits := []int{0, 1}
		node := NewLeafNode("qv_experiment", qubits, &stubAnalyzer{name: "stub"})

		qubits[0] = 99
		if got := node.PhysicalQubits(); got[0] != 0 {
			t.Errorf("constructor aliased the caller's slice: %v", got)
		}

		got := node.PhysicalQubits()
		got[0] = 99
		if node.PhysicalQubits()[0] != 0 {
			t.Error("accessor returned an aliased slice")
		}
	})

	t.Run("nil analyzer rejected", func(t *testing.T) {
		node := NewLeafNode("qv_experiment", []int{0}, nil)
		data := &ExperimentData{node: node, experimentType: "qv_experiment"}

		err := node.RunAnalysis(context.Background(), data, Options{})
		if !errors.Is(err, ErrNilAnalyzer) {
			t.Errorf("expected ErrNilAnalyzer, got %v", err)
		}
	})

	t.Run("nil data rejected", func(t *testing.T) {
		node := NewLeafNode("qv_experiment", []int{0}, &stubAnalyzer{name: "stub"})
		err := node.RunAnalysis(context.Background(), nil, Options{})
		if !errors.Is(err, ErrNilData) {
			t.Errorf("expected ErrNilData, got %v", err)
		}
	})
}

func TestCompositeNode(t *testing.T) {
	newComposite := func() *CompositeNode {
		return NewCompositeNode("parallel_experiment", []Node{
			NewLeafNode("a", []int{0, 1}, &stubAnalyzer{name: "a"}),
			NewLeafNode("b", []int{1, 2}, &stubAnalyzer{name: "b"}),
		}, &stubAnalyzer{name: "composite"})
	}

	t.Run("qubit union preserves first occurrence order", func(t *testing.T) {
		node := newComposite()
		got := node.PhysicalQubits()
		want := []int{0, 1, 2}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	})

	t.Run("component access", func(t *testing.T) {
		node := newComposite()
		if node.ChildCount() != 2 {
			t.Fatalf("expected 2 children, got %d", node.ChildCount())
		}

		child, err := node.Component(1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if child.Type() != "b" {
			t.Errorf("expected child b, got %q", child.Type())
		}

		if _, err := node.Component(2); !errors.Is(err, ErrChildIndex) {
			t.Errorf("expected ErrChildIndex, got %v", err)
		}
	})

	t.Run("children slice is copied", func(t *testing.T) {
		children := []Node{NewLeafNode("a", []int{0}, &stubAnalyzer{name: "a"})}
		node := NewCompositeNode("parallel_experiment", children, &stubAnalyzer{name: "composite"})

		children[0] = NewLeafNode("replaced", []int{9}, &stubAnalyzer{name: "x"})
		child, _ := node.Component(0)
		if child.Type() != "a" {
			t.Error("constructor aliased the caller's children slice")
		}
	})
}
