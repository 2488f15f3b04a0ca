// Package render formats rankings and analyses for the terminal.
package render

import (
	"fmt"
	"strings"
)

// Theme is a set of ANSI styles. The zero-valued codes of Plain emit no
// escape sequences at all.
type Theme struct {
	Name     string
	Header   string
	Accent   string
	Positive string
	Negative string
	Muted    string
	Filled   string
	Empty    string
}

const reset = "\x1b[0m"

var (
	// Dark suits terminals with a dark background
	Dark = Theme{
		Name:     "dark",
		Header:   "\x1b[1;36m",
		Accent:   "\x1b[1;33m",
		Positive: "\x1b[32m",
		Negative: "\x1b[31m",
		Muted:    "\x1b[90m",
		Filled:   "█",
		Empty:    "░",
	}

	// Light suits terminals with a light background
	Light = Theme{
		Name:     "light",
		Header:   "\x1b[1;34m",
		Accent:   "\x1b[1;35m",
		Positive: "\x1b[32m",
		Negative: "\x1b[31m",
		Muted:    "\x1b[37m",
		Filled:   "█",
		Empty:    "░",
	}

	// Plain emits ASCII only, for pipes and logs
	Plain = Theme{
		Name:   "plain",
		Filled: "#",
		Empty:  ".",
	}
)

// ThemeByName returns the theme called name, case-insensitively
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dark":
		return Dark, nil
	case "light":
		return Light, nil
	case "plain":
		return Plain, nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q (want dark, light or plain)", name)
	}
}

func (t Theme) paint(style, s string) string {
	if style == "" {
		return s
	}
	return style + s + reset
}

// signed colours a value by its sign
func (t Theme) signed(v float64, s string) string {
	if v > 0 {
		return t.paint(t.Positive, s)
	}
	if v < 0 {
		return t.paint(t.Negative, s)
	}
	return s
}
