// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "testing"

func TestFuzzyMatchSubsequence(t *testing.T) {
	slab := NewSlab()
	result := FuzzyMatch("Shipping the redesign", []rune("shpred"), slab)
	if !result.Matched {
		t.Fatal("expected a match")
	}
	if result.Score <= 0 {
		t.Errorf("score = %d, want positive", result.Score)
	}
}

func TestFuzzyMatchRejectsOutOfOrder(t *testing.T) {
	slab := NewSlab()
	if FuzzyMatch("abc", []rune("cba"), slab).Matched {
		t.Error("out-of-order pattern must not match")
	}
}

func TestFuzzyMatchEmptyPatternMatchesEverything(t *testing.T) {
	slab := NewSlab()
	if !FuzzyMatch("anything", nil, slab).Matched {
		t.Error("empty pattern must match")
	}
}

func TestFuzzyMatchCaseInsensitive(t *testing.T) {
	slab := NewSlab()
	if !FuzzyMatch("Fathomline Studio", []rune("fathom"), slab).Matched {
		t.Error("lowercased pattern must match mixed-case text")
	}
}

func TestFuzzyMatchPrefersTighterMatch(t *testing.T) {
	slab := NewSlab()
	tight := FuzzyMatch("redesign", []rune("red"), slab)
	loose := FuzzyMatch("r-e-d spread out", []rune("red"), slab)
	if !tight.Matched || !loose.Matched {
		t.Fatal("both candidates should match")
	}
	if tight.Score <= loose.Score {
		t.Errorf("tight score %d should beat loose score %d", tight.Score, loose.Score)
	}
}
