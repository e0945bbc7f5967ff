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
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath string
	dbPath     string
	port       int

	rootCmd = &cobra.Command{
		Use:   "antigravity",
		Short: "A cli to manage the Antigravity Cloud tracking backend",
		Long: `Antigravity is a tool for running and administering the
				Antigravity Cloud project-tracking backend on your own infrastructure.`,
	}

	// --- Server ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the tracking backend HTTP server",
		Run:   runServe, // Defined in cmd_serve.go
	}

	// --- Database utilities ---
	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "Administer the tracking document database",
	}
	dbInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create an empty tracking document database",
		Run:   runDBInit, // Defined in cmd_db.go
	}
	dbEvaluateCmd = &cobra.Command{
		Use:   "evaluate",
		Short: "Run a completion evaluation pass over the database and print a summary",
		Run:   runDBEvaluate, // Defined in cmd_db.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml",
		"Path to the YAML configuration file")

	serveCmd.Flags().IntVar(&port, "port", 0, "HTTP server port (overrides config)")

	dbCmd.PersistentFlags().StringVar(&dbPath, "db", "",
		"Path to the document database file (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbEvaluateCmd)
}
