// Package render synthesizes raw RGB video frames from per-instant
// visual state. Three interchangeable strategies are provided: a
// geometric shape-morphing renderer, a particle simulation, and a
// full-canvas psychedelic field.
package render

import (
	"vizbeat/logging"
)

// Mode selects one of the closed set of rendering strategies.
type Mode int

const (
	ModeGeometric Mode = iota
	ModeParticles
	ModePsychedelic
)

func (m Mode) String() string {
	switch m {
	case ModeGeometric:
		return "geometric"
	case ModeParticles:
		return "particles"
	case ModePsychedelic:
		return "psychedelic"
	default:
		return "unknown"
	}
}

// ParseMode maps a user-facing mode name to a Mode. Unknown names fall
// back deterministically to the geometric strategy rather than failing
// the render.
func ParseMode(name string) Mode {
	switch name {
	case "geometric":
		return ModeGeometric
	case "particles", "particle":
		return ModeParticles
	case "psychedelic":
		return ModePsychedelic
	default:
		logging.Warn("unknown visual mode, falling back to geometric", logging.Fields{
			"mode": name,
		})
		return ModeGeometric
	}
}

// Style holds the user-tunable knobs of the geometric strategy. Values
// originate from untrusted configuration and are clamped, not rejected.
type Style struct {
	BarCount      int     `json:"bar_count"`
	LineThickness float64 `json:"line_thickness"`
	GlowStrength  float64 `json:"glow_strength"`
	ColorMode     string  `json:"color_mode"`
}

// DefaultStyle returns the reference look.
func DefaultStyle() Style {
	return Style{
		BarCount:      64,
		LineThickness: 2.0,
		GlowStrength:  1.0,
		ColorMode:     "default",
	}
}

// Clamped returns a copy with out-of-range values pulled back to sane
// defaults.
func (s Style) Clamped() Style {
	if s.BarCount <= 0 {
		s.BarCount = DefaultStyle().BarCount
	}
	if s.BarCount > 256 {
		s.BarCount = 256
	}
	if s.LineThickness <= 0 {
		s.LineThickness = DefaultStyle().LineThickness
	}
	if s.LineThickness > 20 {
		s.LineThickness = 20
	}
	if s.GlowStrength < 0 {
		s.GlowStrength = 0
	}
	if s.GlowStrength > 4 {
		s.GlowStrength = 4
	}
	if s.ColorMode == "" {
		s.ColorMode = "default"
	}
	return s
}
