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
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianParse/pkg/logging"
	"github.com/AleutianAI/AleutianParse/services/linkparse/engine"
	"github.com/AleutianAI/AleutianParse/services/linkparse/parser"
)

func runParse(cmd *cobra.Command, args []string) error {
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

	text := strings.Join(args, " ")
	sent, err := eng.NewSentence(text, randSeed)
	if err != nil {
		return err
	}

	opts := parser.DefaultOptions()
	opts.MinNullCount = minNulls
	opts.MaxNullCount = maxNulls
	opts.LinkageLimit = limit
	opts.ShuffleLinkages = shuffle
	opts.Verbosity = verbosity

	res, err := search.Parse(cmd.Context(), sent, &opts)
	if err != nil {
		return err
	}

	printResult(sent, res)
	return nil
}

func printResult(sent *parser.Sentence, res *parser.Result) {
	switch {
	case res.NumValidLinkages == 0:
		fmt.Printf("No complete linkage found (tried up to %d null links)\n", res.NullCount)
	case res.NullCount == 0:
		fmt.Printf("Found %d linkage(s)\n", res.NumValidLinkages)
	default:
		fmt.Printf("Found %d linkage(s) at null count %d\n",
			res.NumValidLinkages, res.NullCount)
	}
	if res.CountOverflow {
		fmt.Println("Count overflow: the reported set is a random sample")
	}
	if res.ResourcesExhausted {
		fmt.Println("Search stopped early: resource budget exhausted")
	}

	for i, lkg := range res.Linkages {
		fmt.Printf("\nLinkage %d (cost %.2f):\n", i+1, lkg.Info.Cost)
		fmt.Printf("  %s\n", renderWords(sent, lkg))
		for _, lnk := range lkg.Links {
			fmt.Printf("    %d --%s-- %d\n", lnk.LeftWord, lnk.Label, lnk.RightWord)
		}
	}
}

// renderWords shows the linkage's word forms, bracketing null words.
func renderWords(sent *parser.Sentence, lkg *parser.Linkage) string {
	words := make([]string, 0, lkg.NumWords)
	for i := 0; i < lkg.NumWords; i++ {
		switch {
		case lkg.Chosen[i] != nil:
			words = append(words, lkg.Chosen[i].Word)
		case i < sent.Length():
			words = append(words, "["+sent.Word(i).Text+"]")
		}
	}
	return strings.Join(words, " ")
}
