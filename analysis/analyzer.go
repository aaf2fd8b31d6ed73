// Package analysis produces a feature timeline from decoded mono PCM:
// per-frame spectral band energies, beat events with strengths, and a
// tempo estimate. The output feeds the segmenter and the renderer.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"vizbeat/logging"
	"vizbeat/timeline"
)

// Config holds analysis parameters.
type Config struct {
	WindowSize int `json:"window_size"`
	HopSize    int `json:"hop_size"`

	// Band edges in Hz.
	BassLow    float64 `json:"bass_low"`
	BassHigh   float64 `json:"bass_high"`
	MidHigh    float64 `json:"mid_high"`
	TrebleHigh float64 `json:"treble_high"`

	// Energy mix weights.
	BassWeight   float64 `json:"bass_weight"`
	MidWeight    float64 `json:"mid_weight"`
	TrebleWeight float64 `json:"treble_weight"`
}

// DefaultConfig returns the reference analysis parameters.
func DefaultConfig() *Config {
	return &Config{
		WindowSize:   2048,
		HopSize:      512,
		BassLow:      20,
		BassHigh:     250,
		MidHigh:      4000,
		TrebleHigh:   12000,
		BassWeight:   0.5,
		MidWeight:    0.3,
		TrebleWeight: 0.2,
	}
}

// Analyzer extracts a feature timeline from PCM audio.
type Analyzer struct {
	config *Config
	logger logging.Logger
}

// NewAnalyzer creates an analyzer. A nil config selects defaults.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Analyzer{
		config: config,
		logger: logging.WithFields(logging.Fields{"component": "analyzer"}),
	}
}

// Analyze computes the full feature timeline for a mono signal. A
// signal shorter than one STFT window yields a timeline with duration
// but no frames or beats, which downstream components treat as "no
// structure available".
func (a *Analyzer) Analyze(pcm []float64, sampleRate int) (*timeline.Timeline, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %d", sampleRate)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("empty signal")
	}

	duration := float64(len(pcm)) / float64(sampleRate)
	tl := &timeline.Timeline{Duration: duration}

	window := a.config.WindowSize
	hop := a.config.HopSize
	numFrames := (len(pcm)-window)/hop + 1
	if numFrames <= 0 {
		a.logger.Warn("signal shorter than one analysis window", logging.Fields{
			"samples": len(pcm),
			"window":  window,
		})
		return tl, nil
	}

	bass := make([]float64, numFrames)
	mid := make([]float64, numFrames)
	treble := make([]float64, numFrames)
	onset := make([]float64, numFrames)
	times := make([]float64, numFrames)

	hann := hannWindow(window)
	freqBins := window/2 + 1
	binHz := float64(sampleRate) / float64(window)
	buf := make([]float64, window)
	prevMag := make([]float64, freqBins)
	mags := make([]float64, freqBins)

	for f := 0; f < numFrames; f++ {
		start := f * hop
		copy(buf, pcm[start:start+window])
		for i := range buf {
			buf[i] *= hann[i]
		}

		spectrum := fft.FFTReal(buf)

		var bassSum, midSum, trebleSum, flux float64
		var bassN, midN, trebleN int
		for i := 0; i < freqBins; i++ {
			mag := cmplx.Abs(spectrum[i])
			mags[i] = mag

			freq := float64(i) * binHz
			switch {
			case freq >= a.config.BassLow && freq < a.config.BassHigh:
				bassSum += mag
				bassN++
			case freq >= a.config.BassHigh && freq < a.config.MidHigh:
				midSum += mag
				midN++
			case freq >= a.config.MidHigh && freq < a.config.TrebleHigh:
				trebleSum += mag
				trebleN++
			}

			// Positive spectral flux drives the onset envelope.
			if d := mag - prevMag[i]; d > 0 {
				flux += d
			}
		}
		copy(prevMag, mags)

		bass[f] = bandMean(bassSum, bassN)
		mid[f] = bandMean(midSum, midN)
		treble[f] = bandMean(trebleSum, trebleN)
		onset[f] = flux
		times[f] = (float64(start) + float64(window)/2) / float64(sampleRate)
	}

	maxNormalize(bass)
	maxNormalize(mid)
	maxNormalize(treble)

	energy := make([]float64, numFrames)
	for i := range energy {
		energy[i] = a.config.BassWeight*bass[i] +
			a.config.MidWeight*mid[i] +
			a.config.TrebleWeight*treble[i]
	}
	maxNormalize(energy)

	tl.Frames = make([]timeline.FrameFeature, numFrames)
	for i := range tl.Frames {
		tl.Frames[i] = timeline.FrameFeature{
			Time:   times[i],
			Bass:   bass[i],
			Mid:    mid[i],
			Treble: treble[i],
			Energy: energy[i],
		}
	}

	tl.Tempo = estimateTempo(onset, hop, sampleRate)
	tl.Beats = trackBeats(onset, times, tl.Tempo)

	a.logger.Debug("analysis complete", logging.Fields{
		"duration": duration,
		"frames":   numFrames,
		"beats":    len(tl.Beats),
		"bpm":      tl.Tempo,
	})

	return tl, nil
}

func bandMean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// maxNormalize scales x into 0..1 by its maximum, guarding against an
// all-zero signal.
func maxNormalize(x []float64) {
	if len(x) == 0 {
		return
	}
	max := floats.Max(x)
	if max <= 0 {
		return
	}
	for i := range x {
		x[i] /= max
	}
}

func hannWindow(size int) []float64 {
	w := make([]float64, size)
	if size == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return w
}

// estimateTempo finds the strongest periodicity of the onset envelope
// between 60 and 200 BPM via autocorrelation.
func estimateTempo(onset []float64, hop, sampleRate int) float64 {
	const defaultTempo = 120.0
	if len(onset) < 4 {
		return defaultTempo
	}

	frameRate := float64(sampleRate) / float64(hop)
	minLag := int(frameRate * 60 / 200) // 200 BPM
	maxLag := int(frameRate * 60 / 60)  // 60 BPM
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(onset) {
		maxLag = len(onset) - 1
	}
	if maxLag <= minLag {
		return defaultTempo
	}

	mean := stat.Mean(onset, nil)
	centered := make([]float64, len(onset))
	for i, v := range onset {
		centered[i] = v - mean
	}

	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		corr := 0.0
		for i := lag; i < len(centered); i++ {
			corr += centered[i] * centered[i-lag]
		}
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}
	if bestLag == 0 {
		return defaultTempo
	}
	return 60 * frameRate / float64(bestLag)
}

// trackBeats picks local onset maxima above an adaptive threshold,
// enforcing a minimum inter-beat gap derived from the tempo estimate.
// Strengths are normalized to the strongest onset.
func trackBeats(onset, times []float64, tempo float64) []timeline.BeatEvent {
	if len(onset) < 3 || tempo <= 0 {
		return nil
	}

	mean := stat.Mean(onset, nil)
	std := 0.0
	if len(onset) > 1 {
		std = stat.StdDev(onset, nil)
	}
	threshold := mean + 0.5*std

	maxOnset := floats.Max(onset)
	if maxOnset <= 0 {
		return nil
	}

	// Beats closer than 70% of a beat period are duplicates.
	minGap := 0.7 * 60 / tempo

	var beats []timeline.BeatEvent
	lastTime := math.Inf(-1)
	for i := 1; i < len(onset)-1; i++ {
		if onset[i] <= threshold || onset[i] < onset[i-1] || onset[i] < onset[i+1] {
			continue
		}
		if times[i]-lastTime < minGap {
			continue
		}
		beats = append(beats, timeline.BeatEvent{
			Time:     times[i],
			Strength: onset[i] / maxOnset,
		})
		lastTime = times[i]
	}
	return beats
}
