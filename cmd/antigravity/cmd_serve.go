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
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AntigravityCloud/services/backend"
)

// runServe starts the tracking backend with the loaded configuration.
// Precedence, lowest to highest: config file, environment, flags.
func runServe(cmd *cobra.Command, args []string) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config
	envCfg, err := backend.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to read environment configuration: %v", err)
	}
	mergeConfig(&cfg, envCfg)
	if port != 0 {
		cfg.Port = port
	}

	svc, err := backend.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create backend: %v", err)
	}
	if err := svc.Run(); err != nil {
		log.Fatalf("Backend error: %v", err)
	}
}

// mergeConfig overlays the non-zero fields of src onto dst.
func mergeConfig(dst *backend.Config, src backend.Config) {
	if src.Port != 0 {
		dst.Port = src.Port
	}
	if src.StoreBackend != "" {
		dst.StoreBackend = src.StoreBackend
	}
	if src.DBPath != "" {
		dst.DBPath = src.DBPath
	}
	if src.BadgerDir != "" {
		dst.BadgerDir = src.BadgerDir
	}
	if src.OTelEndpoint != "" {
		dst.OTelEndpoint = src.OTelEndpoint
	}
	if src.GinMode != "" {
		dst.GinMode = src.GinMode
	}
}
