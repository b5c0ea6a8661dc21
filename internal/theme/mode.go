// Package theme tracks the site's dark/light display mode and produces the
// short tone played whenever it flips.
package theme

import (
	"fmt"
	"strings"
)

// Mode is the display mode.
type Mode int

const (
	Dark Mode = iota
	Light
)

// Default is the mode every page starts in.
const Default = Dark

// String returns "dark" or "light".
func (m Mode) String() string {
	if m == Light {
		return "light"
	}
	return "dark"
}

// ClassName is the document class that selects the palette.
func (m Mode) ClassName() string {
	return m.String() + "-mode"
}

// Toggled returns the other mode.
func (m Mode) Toggled() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// ParseMode parses "dark" or "light", ignoring case and surrounding space.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark":
		return Dark, nil
	case "light":
		return Light, nil
	default:
		return Default, fmt.Errorf("invalid theme mode %q: must be \"dark\" or \"light\"", s)
	}
}

// ModeOr parses s and falls back to def when it is not a valid mode.
func ModeOr(s string, def Mode) Mode {
	m, err := ParseMode(s)
	if err != nil {
		return def
	}
	return m
}
