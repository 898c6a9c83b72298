// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay paints overlay lines over a rendered view, starting at
// (anchorX, anchorY) in screen cells. The splice is ANSI-aware: escape
// sequences in the underlying view survive on both sides of the
// overlay, so the background keeps its styling around the modal.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}
	viewLines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlayLines[0])

	for index, overlayLine := range overlayLines {
		row := anchorY + index
		if row < 0 || row >= len(viewLines) {
			continue
		}
		viewLines[row] = spliceLine(viewLines[row], overlayLine, anchorX, overlayWidth)
	}
	return strings.Join(viewLines, "\n")
}

// spliceLine rebuilds one screen row as prefix + overlay + suffix,
// with SGR resets isolating the overlay from surrounding styling.
func spliceLine(viewLine, overlayLine string, anchorX, overlayWidth int) string {
	var row strings.Builder
	if anchorX > 0 {
		row.WriteString(ansi.Truncate(viewLine, anchorX, ""))
	}
	row.WriteString("\x1b[0m")
	row.WriteString(overlayLine)
	row.WriteString("\x1b[0m")

	suffixStart := anchorX + overlayWidth
	if suffixStart < ansi.StringWidth(viewLine) {
		row.WriteString(ansi.TruncateLeft(viewLine, suffixStart, ""))
	}
	return row.String()
}

// CenterAnchor returns the (x, y) anchor that centers a block of the
// given size on a screen of the given size, clamped to the top-left
// when the block does not fit.
func CenterAnchor(screenWidth, screenHeight, blockWidth, blockHeight int) (int, int) {
	x := (screenWidth - blockWidth) / 2
	if x < 0 {
		x = 0
	}
	y := (screenHeight - blockHeight) / 2
	if y < 0 {
		y = 0
	}
	return x, y
}
