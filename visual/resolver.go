// Package visual turns a sparse feature timeline into a continuous
// per-instant visual state that parametrizes frame synthesis.
package visual

import (
	"vizbeat/timeline"
)

// BeatPulseWindow is the half-width in seconds of the triangular
// envelope around each beat. A beat contributes nothing outside it.
const BeatPulseWindow = 0.06

// State is the complete point-in-time value set driving a frame.
// Recomputed on every query and never persisted.
type State struct {
	Time           float64
	Bass           float64
	Mid            float64
	Treble         float64
	Energy         float64
	BeatPulse      float64
	CurrentSection timeline.SectionType
	LyricSentiment float64 // -1..1
	LyricEnergy    float64 // 0..1
}

// Resolver answers point-in-time queries against an immutable timeline.
// Resolve is pure and safe to call concurrently for different times.
type Resolver struct {
	tl *timeline.Timeline
}

// NewResolver creates a resolver over the given timeline. The timeline
// must be ordered (see Timeline.Validate) and must not be mutated while
// the resolver is in use.
func NewResolver(tl *timeline.Timeline) *Resolver {
	return &Resolver{tl: tl}
}

// Resolve computes the visual state at time t.
func (r *Resolver) Resolve(t float64) State {
	state := State{
		Time:           t,
		CurrentSection: timeline.SectionIntro,
	}

	state.Bass, state.Mid, state.Treble, state.Energy = r.interpolate(t)
	state.BeatPulse = r.beatPulse(t)

	for _, s := range r.tl.Sections {
		if s.Contains(t) {
			state.CurrentSection = s.Type
			break
		}
	}

	// Lyric affect falls back to zero sentiment with spectral energy
	// standing in for lyric energy when nothing is being sung.
	state.LyricEnergy = state.Energy
	for _, l := range r.tl.Lyrics {
		if l.Contains(t) {
			state.LyricSentiment = l.Sentiment
			state.LyricEnergy = l.Intensity
			break
		}
	}

	return state
}

// interpolate linearly interpolates the spectral bands at t, clamping
// to the first/last sample outside the covered range.
func (r *Resolver) interpolate(t float64) (bass, mid, treble, energy float64) {
	frames := r.tl.Frames
	if len(frames) == 0 {
		return 0, 0, 0, 0
	}
	if t <= frames[0].Time {
		f := frames[0]
		return f.Bass, f.Mid, f.Treble, f.Energy
	}
	if t >= frames[len(frames)-1].Time {
		f := frames[len(frames)-1]
		return f.Bass, f.Mid, f.Treble, f.Energy
	}

	// Binary search for the bracketing pair. A query exactly on a
	// sample boundary resolves to that sample.
	lo, hi := 0, len(frames)-1
	for hi-lo > 1 {
		m := (lo + hi) / 2
		if frames[m].Time <= t {
			lo = m
		} else {
			hi = m
		}
	}

	f0, f1 := frames[lo], frames[hi]
	alpha := 0.0
	if f1.Time > f0.Time {
		alpha = (t - f0.Time) / (f1.Time - f0.Time)
	}
	return f0.Bass + alpha*(f1.Bass-f0.Bass),
		f0.Mid + alpha*(f1.Mid-f0.Mid),
		f0.Treble + alpha*(f1.Treble-f0.Treble),
		f0.Energy + alpha*(f1.Energy-f0.Energy)
}

// beatPulse returns the maximum triangular beat contribution at t.
// Beats never stack additively; the strongest one wins.
func (r *Resolver) beatPulse(t float64) float64 {
	pulse := 0.0
	for _, b := range r.tl.Beats {
		dt := t - b.Time
		if dt < 0 {
			dt = -dt
		}
		if dt < BeatPulseWindow {
			strength := b.Strength * (1.0 - dt/BeatPulseWindow)
			if strength > pulse {
				pulse = strength
			}
		}
	}
	return pulse
}
