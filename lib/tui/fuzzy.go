// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of scoring one candidate string against
// a filter pattern.
type FuzzyResult struct {
	// Matched is true when every pattern rune appears in order.
	Matched bool

	// Score ranks matches; higher is better. Zero when not matched.
	Score int
}

// NewSlab allocates the scratch memory fzf's scorer reuses between
// calls. One slab per filtering pass; not safe for concurrent use.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// FuzzyMatch scores text against a pattern using fzf's V2 algorithm.
// Matching is case-insensitive; pass the pattern lowercased.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{Matched: true}
	}
	chars := util.ToChars([]byte(text))
	result, _ := algo.FuzzyMatchV2(false, true, true, &chars, pattern, false, slab)
	if result.Start < 0 {
		return FuzzyResult{}
	}
	return FuzzyResult{Matched: true, Score: result.Score}
}
