package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizerBumpsOddDimensions(t *testing.T) {
	s := NewSynthesizer(ModeGeometric, 101, 75, 30, DefaultStyle(), 0)
	assert.Equal(t, 102, s.Width())
	assert.Equal(t, 76, s.Height())

	s = NewSynthesizer(ModeGeometric, 100, 76, 30, DefaultStyle(), 0)
	assert.Equal(t, 100, s.Width())
	assert.Equal(t, 76, s.Height())
}

func TestSynthesizerStateful(t *testing.T) {
	assert.False(t, NewSynthesizer(ModeGeometric, 64, 64, 30, DefaultStyle(), 0).Stateful())
	assert.False(t, NewSynthesizer(ModePsychedelic, 64, 64, 30, DefaultStyle(), 0).Stateful())
	assert.True(t, NewSynthesizer(ModeParticles, 64, 64, 30, DefaultStyle(), 0).Stateful())
}

func TestGeometricFrameIsDeterministic(t *testing.T) {
	s := NewSynthesizer(ModeGeometric, 128, 72, 30, DefaultStyle(), 0)
	state := loudState(3.5)
	a := s.Frame(state, 3.5)
	b := s.Frame(state, 3.5)
	require.NotNil(t, a)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestPsychedelicFrameIsDeterministic(t *testing.T) {
	s := NewSynthesizer(ModePsychedelic, 128, 72, 30, DefaultStyle(), 0)
	state := loudState(1.25)
	a := s.Frame(state, 1.25)
	b := s.Frame(state, 1.25)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestFrameIsNotBlank(t *testing.T) {
	for _, mode := range []Mode{ModeGeometric, ModeParticles, ModePsychedelic} {
		s := NewSynthesizer(mode, 128, 72, 30, DefaultStyle(), 1)
		frame := s.Frame(loudState(2), 2)
		nonZero := 0
		for _, b := range frame.Pix {
			if b != 0 {
				nonZero++
			}
		}
		assert.Greater(t, nonZero, 0, "mode %s rendered a black frame", mode)
	}
}

func TestUnknownModeRendersGeometric(t *testing.T) {
	unknown := NewSynthesizer(Mode(42), 128, 72, 30, DefaultStyle(), 0)
	geometric := NewSynthesizer(ModeGeometric, 128, 72, 30, DefaultStyle(), 0)
	state := loudState(1)
	assert.Equal(t, geometric.Frame(state, 1).Pix, unknown.Frame(state, 1).Pix)
}

func TestParticleFramesAdvance(t *testing.T) {
	s := NewSynthesizer(ModeParticles, 128, 72, 30, DefaultStyle(), 5)
	state := loudState(0)
	a := s.Frame(state, 0)
	b := s.Frame(state, 1.0/30)
	assert.NotEqual(t, a.Pix, b.Pix)
}
