package timeline

import (
	"gonum.org/v1/gonum/stat"

	"vizbeat/logging"
)

// SegmenterConfig holds the heuristic thresholds for section detection.
// The values are empirically tuned; changing them changes which labels
// come out, not correctness.
type SegmenterConfig struct {
	SmoothingWindow   int     `json:"smoothing_window"`    // moving-average width over raw energy
	WindowCount       int     `json:"window_count"`        // classification windows across the track
	ThresholdStdDevs  float64 `json:"threshold_std_devs"`  // high/low = mean +/- this many sigma
	DropFactor        float64 `json:"drop_factor"`         // energy above high*factor is always a drop
	ChorusDensity     float64 `json:"chorus_density"`      // lyric density for chorus over drop
	QuietVerseDensity float64 `json:"quiet_verse_density"` // lyric density for verse in low energy
	MidVerseDensity   float64 `json:"mid_verse_density"`   // lyric density for verse in mid energy
	MinSectionSec     float64 `json:"min_section_sec"`     // minimum section length, prevents flicker
	FallbackEnergy    float64 `json:"fallback_energy"`     // energy for the repair intro section
}

// DefaultSegmenterConfig returns the reference thresholds.
func DefaultSegmenterConfig() *SegmenterConfig {
	return &SegmenterConfig{
		SmoothingWindow:   10,
		WindowCount:       20,
		ThresholdStdDevs:  0.5,
		DropFactor:        1.2,
		ChorusDensity:     0.5,
		QuietVerseDensity: 0.3,
		MidVerseDensity:   0.4,
		MinSectionSec:     2.0,
		FallbackEnergy:    0.3,
	}
}

// Segmenter derives a structural segmentation of a track from its
// energy curve and, when available, lyric density.
type Segmenter struct {
	config *SegmenterConfig
	logger logging.Logger
}

// NewSegmenter creates a segmenter. A nil config selects defaults.
func NewSegmenter(config *SegmenterConfig) *Segmenter {
	if config == nil {
		config = DefaultSegmenterConfig()
	}
	return &Segmenter{
		config: config,
		logger: logging.WithFields(logging.Fields{"component": "segmenter"}),
	}
}

// Segment partitions [0, duration] into an ordered, contiguous,
// non-overlapping cover of labeled sections. An empty feature list
// yields an empty result, meaning no structure is available. If
// duration is not positive it falls back to the last sample time.
func (s *Segmenter) Segment(frames []FrameFeature, lyrics []LyricSegment, duration float64) []Section {
	if len(frames) == 0 {
		return nil
	}
	if duration <= 0 {
		duration = frames[len(frames)-1].Time
	}

	energies := make([]float64, len(frames))
	times := make([]float64, len(frames))
	for i, f := range frames {
		energies[i] = f.Energy
		times[i] = f.Time
	}

	smooth := movingAverage(energies, s.config.SmoothingWindow)
	mean := stat.Mean(smooth, nil)
	std := 0.0
	if len(smooth) > 1 {
		std = stat.StdDev(smooth, nil)
	}
	high := mean + std*s.config.ThresholdStdDevs
	low := mean - std*s.config.ThresholdStdDevs

	density := lyricDensity(times, lyrics)

	windowSize := len(smooth) / s.config.WindowCount
	if windowSize < 1 {
		windowSize = 1
	}

	var sections []Section
	current := SectionIntro
	sectionStart := 0.0
	startIdx := 0

	for i := 0; i < len(smooth); i += windowSize {
		end := min(i+windowSize, len(smooth))
		windowEnergy := stat.Mean(smooth[i:end], nil)
		windowDensity := stat.Mean(density[i:end], nil)
		t := duration
		if i < len(times) {
			t = times[i]
		}

		label := s.classify(windowEnergy, windowDensity, high, low, i, len(smooth))
		if label != current && t-sectionStart >= s.config.MinSectionSec {
			sections = append(sections, s.closeSection(sectionStart, t, current, smooth[startIdx:i], lyrics))
			sectionStart = t
			startIdx = i
			current = label
		}
	}

	// Close the final open section at the track end.
	if sectionStart < duration || len(sections) == 0 {
		sections = append(sections, s.closeSection(sectionStart, duration, current, smooth[startIdx:], lyrics))
	}

	// Repair pass: the cover must start at zero even for pathological
	// inputs such as tracks shorter than one window.
	if sections[0].Start > 0 {
		sections = append([]Section{{
			Start:  0,
			End:    sections[0].Start,
			Type:   SectionIntro,
			Energy: s.config.FallbackEnergy,
		}}, sections...)
	}

	s.logger.Debug("segmentation complete", logging.Fields{
		"sections":  len(sections),
		"duration":  duration,
		"high":      high,
		"low":       low,
		"window_sz": windowSize,
	})

	return sections
}

// classify applies the ordered label rules; the first match wins.
func (s *Segmenter) classify(energy, density, high, low float64, idx, total int) SectionType {
	switch {
	case energy > high*s.config.DropFactor:
		return SectionDrop
	case energy > high && density > s.config.ChorusDensity:
		return SectionChorus
	case energy > high:
		return SectionDrop
	case energy < low && density > s.config.QuietVerseDensity:
		return SectionVerse
	case energy < low:
		if idx < total/4 {
			return SectionIntro
		}
		return SectionBridge
	case density > s.config.MidVerseDensity:
		return SectionVerse
	default:
		return SectionBridge
	}
}

// closeSection finalizes a span, recording its mean smoothed energy and
// the majority lyric emotion among segments starting inside it.
func (s *Segmenter) closeSection(start, end float64, label SectionType, smoothSpan []float64, lyrics []LyricSegment) Section {
	energy := 0.0
	if len(smoothSpan) > 0 {
		energy = stat.Mean(smoothSpan, nil)
	}
	return Section{
		Start:   start,
		End:     end,
		Type:    label,
		Energy:  energy,
		Emotion: majorityEmotion(lyrics, start, end),
	}
}

// majorityEmotion returns the most common emotion among lyric segments
// whose start lies within [start, end). Ties go to the emotion seen
// first. Empty when no lyrics fall in the span.
func majorityEmotion(lyrics []LyricSegment, start, end float64) string {
	if len(lyrics) == 0 {
		return ""
	}
	counts := make(map[string]int)
	var order []string
	for _, l := range lyrics {
		if l.Start >= start && l.Start < end {
			if _, seen := counts[l.Emotion]; !seen {
				order = append(order, l.Emotion)
			}
			counts[l.Emotion]++
		}
	}
	best := ""
	bestCount := 0
	for _, emotion := range order {
		if counts[emotion] > bestCount {
			best = emotion
			bestCount = counts[emotion]
		}
	}
	return best
}

// movingAverage smooths x with a centered window; edges are zero-padded
// so the divisor stays constant.
func movingAverage(x []float64, window int) []float64 {
	out := make([]float64, len(x))
	if window <= 1 {
		copy(out, x)
		return out
	}
	half := window / 2
	for i := range x {
		sum := 0.0
		for k := 0; k < window; k++ {
			j := i + k - half
			if j >= 0 && j < len(x) {
				sum += x[j]
			}
		}
		out[i] = sum / float64(window)
	}
	return out
}

// lyricDensity counts active lyric segments per sample time.
func lyricDensity(times []float64, lyrics []LyricSegment) []float64 {
	density := make([]float64, len(times))
	for _, l := range lyrics {
		for i, t := range times {
			if t >= l.Start && t < l.End {
				density[i]++
			}
		}
	}
	return density
}
