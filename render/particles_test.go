package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizbeat/timeline"
	"vizbeat/visual"
)

func loudState(t float64) visual.State {
	return visual.State{
		Time:           t,
		Bass:           0.9,
		Mid:            0.7,
		Treble:         0.8,
		Energy:         0.85,
		BeatPulse:      1.0,
		CurrentSection: timeline.SectionDrop,
	}
}

func TestParticleCountIsConstant(t *testing.T) {
	sim := NewParticleSimulator(320, 240, 7)
	require.Equal(t, ParticleCount, sim.Count())

	for i := 0; i < 200; i++ {
		sim.Step(loudState(float64(i)/30), 1.0/30)
	}
	assert.Equal(t, ParticleCount, sim.Count())
}

func TestParticlesStayOnCanvas(t *testing.T) {
	width, height := 320, 240
	sim := NewParticleSimulator(width, height, 7)

	for i := 0; i < 300; i++ {
		sim.Step(loudState(float64(i)/30), 1.0/30)
	}
	for i, p := range sim.particles {
		assert.GreaterOrEqual(t, p.X, 0.0, "particle %d x", i)
		assert.Less(t, p.X, float64(width), "particle %d x", i)
		assert.GreaterOrEqual(t, p.Y, 0.0, "particle %d y", i)
		assert.Less(t, p.Y, float64(height), "particle %d y", i)
	}
}

func TestParticleSimulationIsDeterministic(t *testing.T) {
	a := NewParticleSimulator(160, 120, 99)
	b := NewParticleSimulator(160, 120, 99)

	for i := 0; i < 60; i++ {
		state := loudState(float64(i) / 30)
		a.Step(state, 1.0/30)
		b.Step(state, 1.0/30)
	}
	assert.Equal(t, a.particles, b.particles)

	ca := NewCanvas(160, 120)
	cb := NewCanvas(160, 120)
	a.Render(ca, loudState(2), 2, DefaultStyle())
	b.Render(cb, loudState(2), 2, DefaultStyle())
	assert.Equal(t, ca.Pix, cb.Pix)
}

func TestParticleSeedsDiverge(t *testing.T) {
	a := NewParticleSimulator(160, 120, 1)
	b := NewParticleSimulator(160, 120, 2)
	assert.NotEqual(t, a.particles, b.particles)
}

func TestParticleLifeStaysPositive(t *testing.T) {
	sim := NewParticleSimulator(64, 64, 3)
	// Enough frames for every initial life value to decay through zero
	// at least once.
	for i := 0; i < 600; i++ {
		sim.Step(loudState(0), 1.0/30)
	}
	for i, p := range sim.particles {
		assert.Greater(t, p.Life, 0.0, "particle %d life", i)
		assert.LessOrEqual(t, p.Life, 1.0, "particle %d life", i)
	}
}

func TestWrap(t *testing.T) {
	assert.InDelta(t, 5, wrap(5, 10), 1e-12)
	assert.InDelta(t, 2, wrap(12, 10), 1e-12)
	assert.InDelta(t, 8, wrap(-2, 10), 1e-12)
	assert.InDelta(t, 0, wrap(10, 10), 1e-12)
	assert.Equal(t, 0.0, wrap(5, 0))
}

func TestSectionHueBands(t *testing.T) {
	assert.Equal(t, 0.0, sectionHue(timeline.SectionDrop))
	assert.Equal(t, 210.0, sectionHue(timeline.SectionIntro))
	assert.Equal(t, sectionHue(timeline.SectionIntro), sectionHue(timeline.SectionType("??")))
}
