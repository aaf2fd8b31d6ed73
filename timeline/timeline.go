package timeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Validate checks the ordering preconditions the resolver and segmenter
// rely on. Loaders are the enforcement point; downstream components do
// not re-check.
func (tl *Timeline) Validate() error {
	if tl.Duration < 0 {
		return fmt.Errorf("negative duration: %f", tl.Duration)
	}
	for i, b := range tl.Beats {
		if b.Time < 0 {
			return fmt.Errorf("beat %d has negative time %f", i, b.Time)
		}
		if i > 0 && b.Time < tl.Beats[i-1].Time {
			return fmt.Errorf("beats not ordered at index %d", i)
		}
	}
	for i, f := range tl.Frames {
		if f.Time < 0 {
			return fmt.Errorf("frame %d has negative time %f", i, f.Time)
		}
		if i > 0 && f.Time <= tl.Frames[i-1].Time {
			return fmt.Errorf("frame times not strictly increasing at index %d", i)
		}
	}
	for i, l := range tl.Lyrics {
		if l.End < l.Start {
			return fmt.Errorf("lyric %d ends before it starts", i)
		}
		if i > 0 && l.Start < tl.Lyrics[i-1].Start {
			return fmt.Errorf("lyrics not ordered at index %d", i)
		}
	}
	return nil
}

// LyricDensity computes a per-sample count of lyric segments active at
// each frame time. Approximates how much singing is happening at each
// instant; segments contribute over [start, end).
func (tl *Timeline) LyricDensity() []float64 {
	density := make([]float64, len(tl.Frames))
	if len(tl.Lyrics) == 0 {
		return density
	}
	for _, l := range tl.Lyrics {
		for i, f := range tl.Frames {
			if f.Time >= l.Start && f.Time < l.End {
				density[i]++
			}
		}
	}
	return density
}

// Read decodes and validates a timeline from JSON.
func Read(r io.Reader) (*Timeline, error) {
	var tl Timeline
	if err := json.NewDecoder(r).Decode(&tl); err != nil {
		return nil, fmt.Errorf("failed to decode timeline: %w", err)
	}
	if err := tl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timeline: %w", err)
	}
	return &tl, nil
}

// Load reads a timeline document from a JSON file.
func Load(path string) (*Timeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open timeline file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Save writes the timeline as indented JSON.
func (tl *Timeline) Save(path string) error {
	data, err := json.MarshalIndent(tl, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode timeline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write timeline file: %w", err)
	}
	return nil
}
