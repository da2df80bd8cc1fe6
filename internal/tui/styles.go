// Package tui holds the interactive terminal views: the garment calculator
// with smart-fill process rows and the benchmark browser.
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/zerodesign/internal/footprint"
)

// Palette.
const (
	ColorHeader   = lipgloss.Color("86")
	ColorBorder   = lipgloss.Color("240")
	ColorLabel    = lipgloss.Color("245")
	ColorValue    = lipgloss.Color("255")
	ColorMuted    = lipgloss.Color("241")
	ColorOK       = lipgloss.Color("42")
	ColorGood     = lipgloss.Color("114")
	ColorWarning  = lipgloss.Color("214")
	ColorCritical = lipgloss.Color("196")
	ColorSelected = lipgloss.Color("57")
	ColorSpinner  = lipgloss.Color("205")
)

//nolint:gochecknoglobals // Shared lipgloss styles, read-only after init.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle  = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	InfoStyle   = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	ErrorStyle  = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true)
	HelpStyle   = lipgloss.NewStyle().Foreground(ColorMuted)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeader).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorValue).
				Background(ColorSelected).
				Bold(true)
)

// ScoreColor maps a score tier to its display colour.
func ScoreColor(category footprint.ScoreCategory) lipgloss.Color {
	switch category {
	case footprint.CategoryExcellent:
		return ColorOK
	case footprint.CategoryGood:
		return ColorGood
	case footprint.CategoryFair:
		return ColorWarning
	default:
		return ColorCritical
	}
}

// RenderScore renders "87/100 Mükemmel" in the tier's colour.
func RenderScore(score int) string {
	s := footprint.Classify(score)
	return lipgloss.NewStyle().Foreground(ScoreColor(s.Category)).Bold(true).
		Render(fmt.Sprintf("%d/100 %s", score, s.Label))
}

// Key names shared by the models.
const (
	keyQuit   = "q"
	keyCtrlC  = "ctrl+c"
	keyEnter  = "enter"
	keyEsc    = "esc"
	keySlash  = "/"
	keyS      = "s"
	keyUp     = "up"
	keyDown   = "down"
	keyTab    = "tab"
	keyAdd    = "a"
	keyDelete = "d"
	keyQty    = "e"
	keyPlus   = "+"
	keyMinus  = "-"
)

// Default dimensions before the first WindowSizeMsg.
const (
	defaultWidth  = 100
	defaultHeight = 24
)

// ViewState is the screen a model is showing.
type ViewState int

// View states.
const (
	ViewStateList ViewState = iota
	ViewStateDetail
	ViewStateQuitting
	ViewStateError
)

// truncate shortens s to maxLen runes with a trailing ellipsis.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 { //nolint:mnd // Room for the ellipsis.
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
