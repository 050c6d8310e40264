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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianParse/pkg/logging"
	"github.com/AleutianAI/AleutianParse/services/linkparse/engine"
	"github.com/AleutianAI/AleutianParse/services/linkparse/parser"
)

// batchLine is one per-sentence outcome, reported in input order.
type batchLine struct {
	text string
	res  *parser.Result
	err  error
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.Config{
		Level:   logging.VerbosityLevel(verbosity),
		Service: "linkparse",
		Quiet:   verbosity <= 0,
	})
	defer logger.Close()

	dict, err := loadDictionary()
	if err != nil {
		return err
	}
	eng := engine.New(dict, engine.WithLogger(logger.Slog()))
	search, err := parser.NewSearch(eng, parser.WithLogger(logger.Slog()))
	if err != nil {
		return err
	}

	lines, err := readSentences(args[0])
	if err != nil {
		return err
	}

	results := make([]batchLine, len(lines))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(batchWorkers)
	for i, text := range lines {
		g.Go(func() error {
			results[i] = parseOne(ctx, eng, search, text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, line := range results {
		if line.err != nil {
			failed++
			fmt.Printf("ERROR  %q: %v\n", line.text, line.err)
			continue
		}
		fmt.Printf("%-6s %q: %d linkage(s), null count %d\n",
			verdict(line.res), line.text,
			line.res.NumValidLinkages, line.res.NullCount)
	}
	fmt.Printf("\n%d sentence(s), %d failed\n", len(lines), failed)
	return nil
}

func parseOne(ctx context.Context, eng *engine.Engine, search *parser.Search, text string) batchLine {
	line := batchLine{text: text}
	sent, err := eng.NewSentence(text, randSeed)
	if err != nil {
		line.err = err
		return line
	}

	opts := parser.DefaultOptions()
	opts.MaxNullCount = maxNulls
	opts.LinkageLimit = limit
	opts.Verbosity = verbosity

	line.res, line.err = search.Parse(ctx, sent, &opts)
	return line
}

func verdict(res *parser.Result) string {
	switch {
	case res.NumValidLinkages == 0:
		return "NONE"
	case res.NullCount > 0:
		return "NULLS"
	default:
		return "OK"
	}
}

func readSentences(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sentence file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, text)
	}
	return lines, scanner.Err()
}
