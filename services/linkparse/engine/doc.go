// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine is the reference connector-grammar engine behind the
// parser package's collaborator interfaces.
//
// The grammar model is deliberately small. A dictionary maps each word
// to candidate disjuncts; a disjunct carries ordered left and right
// connector lists plus a cost. A link joins a right connector of word i
// to a same-labeled left connector of word j > i. Connector lists are
// ordered by distance (nearest partner first), which makes the planar
// matching for a fixed disjunct assignment deterministic: left
// connectors pop a stack of open right connectors, so counting reduces
// to enumerating disjunct assignments. Non-null words must form a
// single connected component.
//
// Enumeration is capped. Hitting the cap reports a negative histogram
// total, which the search layer treats as count overflow and answers
// with randomized sampling over the candidates that were enumerated.
//
// This engine exists to power the CLI, the HTTP service, and
// integration tests end to end. It is not a production grammar.
package engine
