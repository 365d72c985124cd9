/*************************************************************************
 * Copyright 2025 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package stylesheet

// this file holds the Sheet struct and the pre-created themes selectable
// from the settings file

import "github.com/charmbracelet/lipgloss"

// Sheet is the complete style table the views draw from.
type Sheet struct {
	FocusedBorder   lipgloss.Style
	UnfocusedBorder lipgloss.Style

	Title        lipgloss.Style
	ErrorText    lipgloss.Style
	WarnText     lipgloss.Style
	SuccessText  lipgloss.Style
	InfoText     lipgloss.Style
	DisabledText lipgloss.Style
	GhostText    lipgloss.Style

	PrimaryText   lipgloss.Style
	SecondaryText lipgloss.Style

	Keyword lipgloss.Style
	String  lipgloss.Style
	Number  lipgloss.Style
	Comment lipgloss.Style

	Selected lipgloss.Style
	TreePK   lipgloss.Style

	TableHeader lipgloss.Style
	TableEven   lipgloss.Style
	TableOdd    lipgloss.Style
	TableBorder lipgloss.Style
}

// Cur is the active sheet; swapped by Apply at startup.
var Cur = defaultSheet()

// Apply switches the active sheet by theme name. Unknown names keep the
// default and return false.
func Apply(theme string) bool {
	switch theme {
	case "", "default":
		Cur = defaultSheet()
	case "mono":
		Cur = monoSheet()
	default:
		return false
	}
	return true
}

func defaultSheet() Sheet {
	return Sheet{
		FocusedBorder: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(FocusedColor),
		UnfocusedBorder: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(UnfocusedColor),

		Title:        lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true),
		ErrorText:    lipgloss.NewStyle().Foreground(ErrorColor),
		WarnText:     lipgloss.NewStyle().Foreground(WarnColor),
		SuccessText:  lipgloss.NewStyle().Foreground(SuccessColor),
		InfoText:     lipgloss.NewStyle().Foreground(SecondaryColor),
		DisabledText: lipgloss.NewStyle().Faint(true),
		GhostText:    lipgloss.NewStyle().Foreground(GhostColor),

		PrimaryText:   lipgloss.NewStyle().Foreground(PrimaryColor),
		SecondaryText: lipgloss.NewStyle().Foreground(SecondaryColor),

		Keyword: lipgloss.NewStyle().Foreground(keywordColor).Bold(true),
		String:  lipgloss.NewStyle().Foreground(stringColor),
		Number:  lipgloss.NewStyle().Foreground(numberColor),
		Comment: lipgloss.NewStyle().Foreground(commentColor).Italic(true),

		Selected: lipgloss.NewStyle().Reverse(true),
		TreePK:   lipgloss.NewStyle().Foreground(AccentColor1),

		TableHeader: lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true).
			AlignHorizontal(lipgloss.Center),
		TableEven:   lipgloss.NewStyle().Padding(0, 1).Foreground(row1Color),
		TableOdd:    lipgloss.NewStyle().Padding(0, 1).Foreground(row2Color),
		TableBorder: lipgloss.NewStyle().Foreground(borderColor),
	}
}

func monoSheet() Sheet {
	plain := lipgloss.NewStyle()
	return Sheet{
		FocusedBorder:   plain.BorderStyle(lipgloss.NormalBorder()),
		UnfocusedBorder: plain.BorderStyle(lipgloss.HiddenBorder()),

		Title:        plain.Bold(true),
		ErrorText:    plain.Reverse(true),
		WarnText:     plain.Bold(true),
		SuccessText:  plain,
		InfoText:     plain,
		DisabledText: plain.Faint(true),
		GhostText:    plain.Faint(true),

		PrimaryText:   plain,
		SecondaryText: plain.Faint(true),

		Keyword: plain.Bold(true),
		String:  plain,
		Number:  plain,
		Comment: plain.Faint(true),

		Selected: plain.Reverse(true),
		TreePK:   plain.Bold(true),

		TableHeader: plain.Bold(true).AlignHorizontal(lipgloss.Center),
		TableEven:   plain.Padding(0, 1),
		TableOdd:    plain.Padding(0, 1).Faint(true),
		TableBorder: plain,
	}
}
