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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysisTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qvbench_qv_analysis_total",
		Help: "Number of quantum volume analyses by outcome",
	}, []string{"outcome"})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qvbench_qv_analysis_duration_seconds",
		Help:    "Time spent running one quantum volume analysis",
		Buckets: prometheus.DefBuckets,
	})

	analysisTrials = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qvbench_qv_analysis_trials",
		Help:    "Trial counts of analyzed experiments",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)
