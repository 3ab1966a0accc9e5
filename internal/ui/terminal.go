package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor reports whether ANSI colors should be used on stdout.
// It honours NO_COLOR, CLICOLOR_FORCE and CLICOLOR before falling back to
// TTY detection.
func ShouldUseColor() bool {
	return colorFromEnv(os.Getenv, func() bool {
		return term.IsTerminal(int(os.Stdout.Fd()))
	})
}

// colorFromEnv holds the decision logic of ShouldUseColor.
func colorFromEnv(getenv func(string) string, isTTY func() bool) bool {
	// https://no-color.org: any non-empty value disables color.
	if getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(getenv("CLICOLOR")) == "0" {
		return false
	}
	return isTTY()
}

// TerminalWidth returns the width of stdout, or fallback when it is not a
// terminal.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
