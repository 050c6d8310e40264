// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package parser

import "sort"

// CompareByCost is the default cost model: linkages without
// post-processing violations rank first, then lower total cost, then
// more links (a better-connected parse breaks cost ties).
func CompareByCost(a, b *Linkage) int {
	aClean := a.Info.Violation == ""
	bClean := b.Info.Violation == ""
	if aClean != bClean {
		if aClean {
			return -1
		}
		return 1
	}
	switch {
	case a.Info.Cost < b.Info.Cost:
		return -1
	case a.Info.Cost > b.Info.Cost:
		return 1
	}
	return b.NumLinks() - a.NumLinks()
}

// sortLinkages orders the accepted set with the configured cost model.
// Skipped when the sentence carries a nonzero random state and either
// the options or the grammar ask for extraction-order presentation, and
// when there is nothing to sort.
func sortLinkages(sent *Sentence, opts *Options) {
	if sent.numLinkagesFound == 0 || sent.numValidLinkages == 0 {
		return
	}
	if sent.randState != 0 {
		if opts.ShuffleLinkages || (sent.dict != nil && sent.dict.ShuffleLinkages()) {
			return
		}
	}

	cmp := opts.costModel()
	slots := sent.linkages.slots[:sent.numValidLinkages]
	sort.SliceStable(slots, func(i, j int) bool {
		return cmp(&slots[i], &slots[j]) < 0
	})
}
