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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/qvbench/services/analysis/experiment"
)

// ServiceVersion is the analysis service version.
const ServiceVersion = "0.1.0"

// Handlers contains the HTTP handlers for the analysis service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleQuantumVolume runs quantum volume analysis on posted trial data.
//
// POST /v1/quantum/qv
//
// Returns 200 with the verdict and diagnostics, 400 for malformed or
// invalid input, 500 for internal failures.
func (h *Handlers) HandleQuantumVolume(c *gin.Context) {
	var req QuantumVolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.svc.AnalyzeQuantumVolume(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if isInvalidInput(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleHealth reports service liveness.
//
// GET /v1/quantum/health
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "analysis",
		Version: ServiceVersion,
	})
}

// isInvalidInput reports whether err belongs to the invalid-input class
// rejected at the boundary.
func isInvalidInput(err error) bool {
	return errors.Is(err, experiment.ErrNoShots) ||
		errors.Is(err, experiment.ErrNoTrials) ||
		errors.Is(err, experiment.ErrInvalidDepth) ||
		errors.Is(err, experiment.ErrProbabilityLength) ||
		errors.Is(err, experiment.ErrNotLeaf)
}
