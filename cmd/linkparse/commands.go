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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianParse/services/linkparse"
	"github.com/AleutianAI/AleutianParse/services/linkparse/engine"
)

var (
	dictPath     string
	randSeed     uint64
	minNulls     int
	maxNulls     int
	limit        int
	verbosity    int
	shuffle      bool
	batchWorkers int
	configPath   string

	rootCmd = &cobra.Command{
		Use:   "linkparse",
		Short: "A link grammar parser with null-count relaxation",
		Long: `Linkparse finds the linkages of a sentence under a link
grammar, relaxing the number of unlinked words only as far as the
sentence requires.`,
		SilenceUsage: true,
	}

	parseCmd = &cobra.Command{
		Use:   "parse [sentence...]",
		Short: "Parse one sentence and print its linkages",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runParse, // Defined in cmd_parse.go
	}

	batchCmd = &cobra.Command{
		Use:   "batch [file]",
		Short: "Parse a file of sentences, one per line, in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch, // Defined in cmd_batch.go
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the linkparse HTTP service",
		RunE:  runServe, // Defined in cmd_serve.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the linkparse version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("linkparse %s\n", linkparse.ServiceVersion)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dictPath, "dict", "",
		"path to a YAML dictionary (default: built-in grammar)")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 1,
		"log verbosity, 0 (quiet) to 9")

	parseCmd.Flags().Uint64Var(&randSeed, "seed", 0,
		"random seed; nonzero with --shuffle keeps extraction order")
	parseCmd.Flags().IntVar(&minNulls, "min-nulls", 0, "minimum null-link count")
	parseCmd.Flags().IntVar(&maxNulls, "max-nulls", 4, "maximum null-link count")
	parseCmd.Flags().IntVar(&limit, "limit", 100, "accepted linkage cap")
	parseCmd.Flags().BoolVar(&shuffle, "shuffle", false,
		"report linkages in extraction order instead of cost order")

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "parallel parse workers")
	batchCmd.Flags().IntVar(&maxNulls, "max-nulls", 4, "maximum null-link count")
	batchCmd.Flags().IntVar(&limit, "limit", 100, "accepted linkage cap")

	serveCmd.Flags().StringVar(&configPath, "config", "",
		"path to the service config YAML (default: built-in defaults)")

	rootCmd.AddCommand(parseCmd, batchCmd, serveCmd, versionCmd)
}

// loadDictionary resolves the --dict flag.
func loadDictionary() (*engine.Dictionary, error) {
	if dictPath == "" {
		return engine.DefaultDictionary(), nil
	}
	dict, err := engine.LoadDictionary(dictPath)
	if err != nil {
		return nil, fmt.Errorf("load dictionary %s: %w", dictPath, err)
	}
	return dict, nil
}
