// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command backend starts the AntigravityCloud tracking backend HTTP server.
//
// This is the main entry point for the containerized backend service. It
// reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - ANTIGRAVITY_PORT: HTTP server port (default: 3000)
//   - ANTIGRAVITY_STORE: Document store backend - file, badger, memory (default: file)
//   - ANTIGRAVITY_DB_PATH: Document file for the file backend (default: database.json)
//   - ANTIGRAVITY_BADGER_DIR: Database directory for the badger backend
//   - ANTIGRAVITY_OTEL_ENDPOINT: OpenTelemetry collector (optional)
//
// # Usage
//
//	# Build
//	go build -o backend ./cmd/backend
//
//	# Run
//	./backend
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/AleutianAI/AntigravityCloud/services/backend"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Build configuration from environment variables
	cfg, err := backend.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	slog.Info("Starting tracking backend",
		"port", cfg.Port,
		"store", cfg.StoreBackend,
		"db_path", cfg.DBPath,
	)

	svc, err := backend.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create backend: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Backend error: %v", err)
	}
}
