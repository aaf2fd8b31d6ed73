package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clickTrack synthesizes a signal with a sharp burst every interval
// seconds over quiet noise-free silence.
func clickTrack(duration, interval float64, sampleRate int) []float64 {
	pcm := make([]float64, int(duration*float64(sampleRate)))
	for t := 0.0; t < duration; t += interval {
		start := int(t * float64(sampleRate))
		for i := 0; i < 64 && start+i < len(pcm); i++ {
			pcm[start+i] = 0.9 * math.Sin(float64(i)*0.8)
		}
	}
	return pcm
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	a := NewAnalyzer(nil)

	_, err := a.Analyze([]float64{0.1}, 0)
	assert.Error(t, err)

	_, err = a.Analyze(nil, 44100)
	assert.Error(t, err)
}

func TestAnalyzeShortSignal(t *testing.T) {
	a := NewAnalyzer(nil)
	tl, err := a.Analyze(make([]float64, 100), 44100)
	require.NoError(t, err)

	assert.InDelta(t, 100.0/44100.0, tl.Duration, 1e-9)
	assert.Empty(t, tl.Frames)
	assert.Empty(t, tl.Beats)
}

func TestAnalyzeProducesOrderedNormalizedFrames(t *testing.T) {
	a := NewAnalyzer(nil)
	pcm := clickTrack(4, 0.5, 8000)
	tl, err := a.Analyze(pcm, 8000)
	require.NoError(t, err)
	require.NotEmpty(t, tl.Frames)

	assert.InDelta(t, 4.0, tl.Duration, 1e-6)
	require.NoError(t, tl.Validate())

	for i, f := range tl.Frames {
		assert.GreaterOrEqual(t, f.Energy, 0.0, "frame %d", i)
		assert.LessOrEqual(t, f.Energy, 1.0, "frame %d", i)
		assert.LessOrEqual(t, f.Bass, 1.0, "frame %d", i)
		assert.LessOrEqual(t, f.Treble, 1.0, "frame %d", i)
	}
}

func TestAnalyzeDetectsClickBeats(t *testing.T) {
	a := NewAnalyzer(nil)
	tl, err := a.Analyze(clickTrack(10, 0.5, 8000), 8000)
	require.NoError(t, err)

	require.NotEmpty(t, tl.Beats)
	assert.GreaterOrEqual(t, len(tl.Beats), 5)

	prev := -1.0
	for i, b := range tl.Beats {
		assert.Greater(t, b.Time, prev, "beat %d out of order", i)
		assert.Greater(t, b.Strength, 0.0, "beat %d", i)
		assert.LessOrEqual(t, b.Strength, 1.0, "beat %d", i)
		prev = b.Time
	}
}

func TestAnalyzeTempoNearClickRate(t *testing.T) {
	a := NewAnalyzer(nil)
	// Clicks every 0.5s correspond to 120 BPM.
	tl, err := a.Analyze(clickTrack(10, 0.5, 8000), 8000)
	require.NoError(t, err)
	assert.InDelta(t, 120, tl.Tempo, 25)
}

func TestEstimateTempoDegenerateInput(t *testing.T) {
	assert.Equal(t, 120.0, estimateTempo(nil, 512, 8000))
	assert.Equal(t, 120.0, estimateTempo([]float64{1, 2}, 512, 8000))
	assert.Equal(t, 120.0, estimateTempo(make([]float64, 100), 512, 8000))
}

func TestMaxNormalize(t *testing.T) {
	x := []float64{1, 2, 4}
	maxNormalize(x)
	assert.Equal(t, []float64{0.25, 0.5, 1}, x)

	zeros := []float64{0, 0}
	maxNormalize(zeros)
	assert.Equal(t, []float64{0, 0}, zeros)

	maxNormalize(nil)
}

func TestHannWindowEndpoints(t *testing.T) {
	w := hannWindow(8)
	assert.InDelta(t, 0, w[0], 1e-12)
	assert.InDelta(t, 0, w[7], 1e-12)
	peak := 0.0
	for _, v := range w {
		if v > peak {
			peak = v
		}
	}
	assert.InDelta(t, 1, peak, 0.06)

	assert.Equal(t, []float64{1}, hannWindow(1))
}
