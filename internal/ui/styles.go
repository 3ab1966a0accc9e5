package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alfredjeanlab/leadcommander/internal/model"
	"github.com/alfredjeanlab/leadcommander/internal/style"
)

// ANSI256 colors used by the CLI.
const (
	colorAccent    = lipgloss.Color("74")  // blue
	colorCmd       = lipgloss.Color("250") // light gray
	colorMuted     = lipgloss.Color("245") // medium gray
	colorHighlight = lipgloss.Color("236") // dark gray row background
	colorBadgeText = lipgloss.Color("232")
)

// Terminal fallbacks for the palette's tier colors.
var tierANSI = map[model.RiskTier]lipgloss.Color{
	model.TierLow:    lipgloss.Color("71"),
	model.TierMedium: lipgloss.Color("178"),
	model.TierHigh:   lipgloss.Color("167"),
}

var (
	accentStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	commandStyle   = lipgloss.NewStyle().Foreground(colorCmd)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	highlightStyle = lipgloss.NewStyle().Bold(true).Background(colorHighlight)
)

var noColor bool

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// Init disables color when stdout should not get it.
func Init() {
	if !ShouldUseColor() {
		ForceNoColor()
	}
}

func render(s lipgloss.Style, text string) string {
	if noColor {
		return text
	}
	return s.Render(text)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(accentStyle, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(mutedStyle, s) }

// RenderCommand returns s styled as a command name.
func RenderCommand(s string) string { return render(commandStyle, s) }

// tierColor resolves the terminal color of tier. Hex palette entries are
// used as-is; named colors map to the ANSI fallbacks.
func tierColor(p style.Palette, tier model.RiskTier) lipgloss.Color {
	if c := p.Color(tier); strings.HasPrefix(c, "#") {
		return lipgloss.Color(c)
	}
	if c, ok := tierANSI[tier]; ok {
		return c
	}
	return tierANSI[model.TierLow]
}

// RenderTier renders tier as a colored badge.
func RenderTier(p style.Palette, tier model.RiskTier) string {
	label := " " + string(tier) + " "
	if noColor {
		return label
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(colorBadgeText).
		Background(tierColor(p, tier)).
		Render(label)
}
