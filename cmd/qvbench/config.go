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
	"github.com/AleutianAI/qvbench/pkg/logging"
	"github.com/AleutianAI/qvbench/services/analysis"
)

// Config is the CLI configuration, loaded from config.yaml when present.
type Config struct {
	// Listen is the serve address, e.g. ":8080".
	Listen string `yaml:"listen"`

	// Parallelism bounds concurrent per-trial and per-child analysis
	// work. Values below 2 select the sequential path.
	Parallelism int `yaml:"parallelism"`

	// Service carries the analysis service limits.
	Service struct {
		MaxDepth  int `yaml:"max_depth"`
		MaxTrials int `yaml:"max_trials"`
	} `yaml:"service"`

	// Log configures structured logging.
	Log struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"log"`
}

// DefaultCLIConfig returns the configuration used without a config file.
func DefaultCLIConfig() Config {
	var cfg Config
	cfg.Listen = ":8080"
	cfg.Parallelism = 1
	cfg.Log.Level = "info"
	return cfg
}

// serviceConfig maps the CLI configuration onto the analysis service.
func (c Config) serviceConfig() analysis.ServiceConfig {
	svc := analysis.DefaultServiceConfig()
	if c.Service.MaxDepth > 0 {
		svc.MaxDepth = c.Service.MaxDepth
	}
	if c.Service.MaxTrials > 0 {
		svc.MaxTrials = c.Service.MaxTrials
	}
	if c.Parallelism > 0 {
		svc.Parallelism = c.Parallelism
	}
	return svc
}

// newLogger builds the CLI logger from the configuration.
func (c Config) newLogger(service string) (*logging.Logger, error) {
	return logging.New(logging.Config{
		Level:   logging.ParseLevel(c.Log.Level),
		LogDir:  c.Log.Dir,
		Service: service,
	})
}
