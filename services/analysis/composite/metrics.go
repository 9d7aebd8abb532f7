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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	childAnalysisTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qvbench_composite_child_analysis_total",
		Help: "Number of child analyses dispatched by result",
	}, []string{"result"})

	dispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qvbench_composite_dispatch_duration_seconds",
		Help:    "Time spent dispatching one composite analysis",
		Buckets: prometheus.DefBuckets,
	})
)
