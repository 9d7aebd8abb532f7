// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command qvbench analyzes quantum volume benchmark experiments.
//
// Usage:
//
//	# Analyze collected trial data
//	qvbench analyze --input trials.json
//
//	# Start the analysis API server
//	qvbench serve --listen :8080
//
// Example requests against the server:
//
//	# Health check
//	curl http://localhost:8080/v1/quantum/health
//
//	# Run quantum volume analysis
//	curl -X POST http://localhost:8080/v1/quantum/qv \
//	  -H "Content-Type: application/json" \
//	  -d @trials.json
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var config Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		config = DefaultCLIConfig()

		yamlFile, err := os.ReadFile(configPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
				// No config file is fine; defaults apply.
				return nil
			}
			return err
		}
		return yaml.Unmarshal(yamlFile, &config)
	}
}
