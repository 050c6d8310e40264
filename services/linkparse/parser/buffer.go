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

// LinkageBuffer is a fixed-capacity arena of candidate linkage slots.
// All slots belong to one allocation generation; a size change retires
// the whole buffer and allocates a new one.
//
// Slots carry a logically-occupied flag so valid linkages are never
// confused with recycled or never-filled trailing slots.
type LinkageBuffer struct {
	slots []Linkage
	freed bool
}

// NewLinkageBuffer allocates n zero-initialized slots for sentences of
// numWords words.
func NewLinkageBuffer(n, numWords int) *LinkageBuffer {
	b := &LinkageBuffer{slots: make([]Linkage, n)}
	for i := range b.slots {
		b.slots[i].init(numWords)
	}
	return b
}

// Len returns the slot count, zero after Free.
func (b *LinkageBuffer) Len() int {
	if b.freed {
		return 0
	}
	return len(b.slots)
}

// Slot returns the i-th slot. The pointer stays valid until Free.
func (b *LinkageBuffer) Slot(i int) *Linkage {
	return &b.slots[i]
}

// Occupied reports whether slot i holds an accepted linkage.
func (b *LinkageBuffer) Occupied(i int) bool {
	return !b.freed && b.slots[i].occupied
}

// markOccupied flags slot i as holding an accepted linkage.
func (b *LinkageBuffer) markOccupied(i int) {
	b.slots[i].occupied = true
}

// Free releases all slots and their owned sub-arrays. Freeing an
// already-freed buffer is a safe no-op.
func (b *LinkageBuffer) Free() {
	if b == nil || b.freed {
		return
	}
	for i := range b.slots {
		b.slots[i].Chosen = nil
		b.slots[i].Links = nil
		b.slots[i].occupied = false
	}
	b.slots = nil
	b.freed = true
}

// Freed reports whether Free has run.
func (b *LinkageBuffer) Freed() bool { return b.freed }
