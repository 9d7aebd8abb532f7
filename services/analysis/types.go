// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analysis

import (
	"github.com/AleutianAI/qvbench/services/analysis/experiment"
	"github.com/AleutianAI/qvbench/services/analysis/qv"
)

// QuantumVolumeRequest is the payload for POST /v1/quantum/qv.
type QuantumVolumeRequest struct {
	// Depth is the circuit depth of the experiment.
	Depth int `json:"depth" binding:"required,gte=1"`

	// Trials holds the collected trial records, in trial order.
	Trials []experiment.TrialRecord `json:"trials" binding:"required,min=1"`

	// Parallelism optionally bounds concurrent per-trial work.
	Parallelism int `json:"parallelism,omitempty" binding:"omitempty,gte=1"`
}

// QuantumVolumeResponse wraps the analysis verdict and its diagnostics.
type QuantumVolumeResponse struct {
	// ExperimentID identifies the container created for this request.
	ExperimentID string `json:"experiment_id"`

	// Result is the quantum volume verdict.
	Result *qv.Result `json:"result"`

	// Diagnostics are advisory notices; the result is still complete.
	Diagnostics []experiment.Diagnostic `json:"diagnostics,omitempty"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
