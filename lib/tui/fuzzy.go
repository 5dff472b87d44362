// Copyright 2026 The Atrium Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

func init() {
	// Select fzf's default bonus scheme. Matching is undefined until
	// the scheme is initialized.
	algo.Init("default")
}

// FuzzyResult holds the outcome of a fuzzy match: a relevance score
// (0 means no match) and the rune positions in the text that matched,
// for highlighting.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// FuzzyMatch runs fzf's V2 matcher over a single text. Matching is
// case-insensitive: both sides are lowercased before matching, so the
// returned positions index into the original text unchanged. An empty
// pattern scores zero. slab is an optional scratch allocation reused
// across calls in a filtering loop; nil allocates per call.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}

	lowered := util.ToChars([]byte(strings.ToLower(text)))
	loweredPattern := []rune(strings.ToLower(string(pattern)))

	result, positions := algo.FuzzyMatchV2(false, true, true, &lowered, loweredPattern, true, slab)
	if result.Start < 0 {
		return FuzzyResult{}
	}

	matched := FuzzyResult{Score: result.Score}
	if positions != nil {
		matched.Positions = *positions
	}
	return matched
}

// NewSlab allocates a scratch slab for FuzzyMatch sized for interactive
// filtering of short list rows.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}
