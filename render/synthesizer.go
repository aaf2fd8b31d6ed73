package render

import (
	"vizbeat/logging"
	"vizbeat/visual"
)

// Synthesizer maps visual state to rendered frames for one render job.
// The geometric and psychedelic strategies are pure and may synthesize
// frames concurrently; the particle strategy carries a simulator that
// must be advanced strictly in increasing time order by one caller.
type Synthesizer struct {
	mode   Mode
	width  int
	height int
	style  Style
	fps    float64
	sim    *ParticleSimulator
	logger logging.Logger
}

// NewSynthesizer creates a synthesizer for one job. Odd dimensions are
// bumped to even to keep downstream encoders happy. A particle
// simulator is created only for the particle mode.
func NewSynthesizer(mode Mode, width, height int, fps float64, style Style, seed int64) *Synthesizer {
	if width%2 != 0 {
		width++
	}
	if height%2 != 0 {
		height++
	}
	if fps <= 0 {
		fps = 30
	}

	s := &Synthesizer{
		mode:   mode,
		width:  width,
		height: height,
		style:  style.Clamped(),
		fps:    fps,
		logger: logging.WithFields(logging.Fields{
			"component": "synthesizer",
			"mode":      mode.String(),
		}),
	}
	if mode == ModeParticles {
		s.sim = NewParticleSimulator(width, height, seed)
	}
	return s
}

// Mode returns the active strategy.
func (s *Synthesizer) Mode() Mode { return s.mode }

// Width returns the (even) output width.
func (s *Synthesizer) Width() int { return s.width }

// Height returns the (even) output height.
func (s *Synthesizer) Height() int { return s.height }

// Stateful reports whether frames carry a sequential dependency and
// must be synthesized in order by a single caller.
func (s *Synthesizer) Stateful() bool { return s.mode == ModeParticles }

// Frame renders the frame for time t into a fresh canvas. For the
// particle mode this also advances the simulation by one timestep, so
// calls must come in increasing time order.
func (s *Synthesizer) Frame(state visual.State, t float64) *Canvas {
	c := NewCanvas(s.width, s.height)
	switch s.mode {
	case ModeParticles:
		s.sim.Step(state, 1/s.fps)
		s.sim.Render(c, state, t, s.style)
	case ModePsychedelic:
		Psychedelic(c, state, t, s.style)
	case ModeGeometric:
		Geometric(c, state, t, s.style)
	default:
		// Unknown modes fall back to geometric rather than failing
		// the whole render.
		s.logger.Warn("unsupported mode, rendering geometric")
		Geometric(c, state, t, s.style)
	}
	return c
}
