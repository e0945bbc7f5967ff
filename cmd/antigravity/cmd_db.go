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
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AntigravityCloud/services/backend/completion"
	"github.com/AleutianAI/AntigravityCloud/services/backend/projects"
	"github.com/AleutianAI/AntigravityCloud/services/backend/store"
)

// resolveDBPath applies the --db flag over the configured database location.
func resolveDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if config.DBPath != "" {
		return config.DBPath
	}
	return "database.json"
}

// runDBInit creates the document database, seeding it with all collections
// empty. Running it against an existing database is a no-op.
func runDBInit(cmd *cobra.Command, args []string) {
	path := resolveDBPath()
	st, err := store.NewFileStore(path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	fmt.Printf("Database ready at %s\n", st.Path())
}

// runDBEvaluate runs one completion evaluation pass against the database and
// prints the resulting status of every project.
func runDBEvaluate(cmd *cobra.Command, args []string) {
	path := resolveDBPath()
	st, err := store.NewFileStore(path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	svc := projects.NewService(st, completion.Evaluator{}, nil)
	summary, err := svc.Evaluate(context.Background())
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	fmt.Printf("Evaluated %d projects (updated: %t)\n", len(summary.Projects), summary.Updated)
	for _, p := range summary.Projects {
		status := "in progress"
		if p.Completed {
			status = "completed"
		}
		date := ""
		if p.CompletionDate != nil {
			date = *p.CompletionDate
		}
		fmt.Printf("  %-24s %-12s %s\n", p.Name, status, date)
	}
}
