// Copyright 2026 The Fathomline Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui holds the widgets shared by studioctl's terminal
// screens: the color theme, ANSI-aware overlay splicing for modals,
// a scrollbar, and fuzzy match scoring for list filters.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fathomline/studioctl/lib/studio"
)

// Theme defines the color palette for the admin console. All colors
// use lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Tab bar.
	TabActiveForeground   lipgloss.Color
	TabInactiveForeground lipgloss.Color

	// Feedback colors: errors, the post-submit confirmation, and the
	// loading indicator.
	ErrorText   lipgloss.Color
	SuccessText lipgloss.Color
	LoadingText lipgloss.Color

	// Accent for focused inputs and the filter prompt.
	AccentText lipgloss.Color

	// Role badges in the admins screen and the status bar.
	RoleAdmin      lipgloss.Color
	RoleSuperAdmin lipgloss.Color
}

// RoleColor returns the badge color for an admin role. Unknown roles
// render faint.
func (theme Theme) RoleColor(role studio.Role) lipgloss.Color {
	switch role {
	case studio.RoleAdmin:
		return theme.RoleAdmin
	case studio.RoleSuperAdmin:
		return theme.RoleSuperAdmin
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	TabActiveForeground:   lipgloss.Color("255"),
	TabInactiveForeground: lipgloss.Color("245"),

	ErrorText:   lipgloss.Color("196"), // bright red
	SuccessText: lipgloss.Color("114"), // green
	LoadingText: lipgloss.Color("220"), // amber

	AccentText: lipgloss.Color("75"), // blue

	RoleAdmin:      lipgloss.Color("75"),  // blue
	RoleSuperAdmin: lipgloss.Color("141"), // light purple
}
