// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/qvbench/services/analysis"
)

var (
	analyzeInput       string
	analyzeOutput      string
	analyzeParallelism int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze quantum volume trial data",
	Long: `Analyze collected quantum volume trial data from a JSON file.

The input file holds a request with the circuit depth and one record
per trial (measured bitstring counts plus the ideal output
probabilities from classical simulation):

  {
    "depth": 2,
    "trials": [
      {
        "counts": {"00": 12, "01": 488, "10": 320, "11": 180},
        "metadata": {
          "depth": 2,
          "ideal_probabilities": [0.05, 0.55, 0.3, 0.1]
        }
      }
    ]
  }

The verdict is written as JSON to stdout (or --output).`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "Path to the trial data JSON file (required)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "Write the verdict to this file instead of stdout")
	analyzeCmd.Flags().IntVar(&analyzeParallelism, "parallelism", 0, "Concurrent trial workers (overrides config)")
	analyzeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger, err := config.newLogger("cli")
	if err != nil {
		return err
	}
	defer logger.Close()
	slog.SetDefault(logger.Logger)

	raw, err := os.ReadFile(analyzeInput)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var req analysis.QuantumVolumeRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	if analyzeParallelism > 0 {
		req.Parallelism = analyzeParallelism
	}

	svc := analysis.NewService(config.serviceConfig(), logger.Logger)
	resp, err := svc.AnalyzeQuantumVolume(cmd.Context(), req)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}
	out = append(out, '\n')

	if analyzeOutput != "" {
		return os.WriteFile(analyzeOutput, out, 0o644)
	}
	_, err = os.Stdout.Write(out)
	return err
}
