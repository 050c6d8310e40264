// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command linkparse parses sentences with a link grammar, either from
// the command line or as an HTTP service.
//
// Usage:
//
//	linkparse parse "the cat saw a dog"
//	linkparse parse --max-nulls 2 --seed 42 "the cat slept xyzzy"
//	linkparse batch sentences.txt --workers 8
//	linkparse serve --config config.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
