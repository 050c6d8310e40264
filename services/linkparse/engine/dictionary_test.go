// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDictYAML = `
shuffle_linkages: true
words:
  x:
    - right: [A]
    - right: [A]
      cost: 1.5
  y:
    - left: [A]
unknown:
  - left: [A]
    cost: 3
`

func TestParseDictionary(t *testing.T) {
	d, err := ParseDictionary([]byte(sampleDictYAML))
	require.NoError(t, err)

	assert.True(t, d.ShuffleLinkages())
	assert.True(t, d.Has("x"))
	assert.False(t, d.Has("z"))

	xs := d.Lookup("x")
	require.Len(t, xs, 2)
	assert.Equal(t, "x", xs[0].Word)
	assert.Equal(t, 1.5, xs[1].Cost)
	require.Len(t, xs[0].Right, 1)
	assert.Equal(t, "A", xs[0].Right[0].Label)

	// Unknown words fall back to the unknown entries.
	zs := d.Lookup("z")
	require.Len(t, zs, 1)
	assert.Equal(t, "z", zs[0].Word)
	assert.Equal(t, 3.0, zs[0].Cost)
}

func TestParseDictionary_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "not yaml", yaml: "{{"},
		{name: "no words", yaml: "shuffle_linkages: false"},
		{name: "empty label", yaml: "words:\n  x:\n    - right: [\"\"]"},
		{name: "negative cost", yaml: "words:\n  x:\n    - cost: -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDictionary([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidDictionary)
		})
	}
}

func TestLoadDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDictYAML), 0o644))

	d, err := LoadDictionary(path)
	require.NoError(t, err)
	assert.True(t, d.Has("y"))

	_, err = LoadDictionary(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultDictionary(t *testing.T) {
	d := DefaultDictionary()
	assert.False(t, d.ShuffleLinkages())

	for _, w := range []string{"the", "cat", "saw", "slept"} {
		assert.True(t, d.Has(w), w)
	}
	assert.Nil(t, d.Lookup("xyzzy"), "no unknown-word entries by default")
}
