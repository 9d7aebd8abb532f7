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
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/qvbench/services/analysis"
)

var (
	serveListen string
	serveDebug  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analysis API server",
	Long: `Start the HTTP server exposing the quantum volume analysis API.

Endpoints:
  POST /v1/quantum/qv      Run quantum volume analysis on trial data
  GET  /v1/quantum/health  Health check
  GET  /metrics            Prometheus metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable request logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := config.newLogger("analysis")
	if err != nil {
		return err
	}
	defer logger.Close()
	slog.SetDefault(logger.Logger)

	svc := analysis.NewService(config.serviceConfig(), logger.Logger)
	handlers := analysis.NewHandlers(svc)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if serveDebug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	analysis.RegisterRoutes(v1, handlers)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down analysis server")
		os.Exit(0)
	}()

	addr := config.Listen
	if serveListen != "" {
		addr = serveListen
	}
	slog.Info("Starting analysis server", slog.String("address", addr))
	return router.Run(addr)
}
