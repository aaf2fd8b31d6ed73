package timeline

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTimeline() *Timeline {
	return &Timeline{
		AudioID:  "track-1",
		Duration: 12.5,
		Tempo:    128,
		Beats: []BeatEvent{
			{Time: 0.5, Strength: 0.9},
			{Time: 1.0, Strength: 0.7},
		},
		Frames: []FrameFeature{
			{Time: 0.0, Energy: 0.1},
			{Time: 0.5, Energy: 0.6},
			{Time: 1.0, Energy: 0.3},
		},
		Lyrics: []LyricSegment{
			{Start: 0.2, End: 0.8, Text: "hello", Emotion: EmotionChill},
		},
		Sections: []Section{
			{Start: 0, End: 12.5, Type: SectionVerse, Energy: 0.4},
		},
	}
}

func TestValidateAcceptsOrderedTimeline(t *testing.T) {
	assert.NoError(t, validTimeline().Validate())
}

func TestValidateRejectsDisorder(t *testing.T) {
	tl := validTimeline()
	tl.Beats[1].Time = 0.1
	assert.Error(t, tl.Validate())

	tl = validTimeline()
	tl.Frames[2].Time = tl.Frames[1].Time
	assert.Error(t, tl.Validate())

	tl = validTimeline()
	tl.Lyrics[0].End = 0.1
	assert.Error(t, tl.Validate())

	tl = validTimeline()
	tl.Duration = -1
	assert.Error(t, tl.Validate())
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	tl := validTimeline()
	require.NoError(t, tl.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tl, loaded)
}

func TestReadRejectsInvalidDocument(t *testing.T) {
	_, err := Read(strings.NewReader(`{"duration": -3}`))
	assert.Error(t, err)

	_, err = Read(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestLyricDensity(t *testing.T) {
	tl := validTimeline()
	density := tl.LyricDensity()
	require.Len(t, density, len(tl.Frames))
	assert.Equal(t, 0.0, density[0]) // t=0.0, before the segment
	assert.Equal(t, 1.0, density[1]) // t=0.5, inside [0.2, 0.8)
	assert.Equal(t, 0.0, density[2]) // t=1.0, after the segment

	empty := &Timeline{Frames: tl.Frames}
	for _, d := range empty.LyricDensity() {
		assert.Equal(t, 0.0, d)
	}
}

func TestSectionContains(t *testing.T) {
	s := Section{Start: 2, End: 4}
	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(3))
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(4.01))
	assert.False(t, s.Contains(1.99))
}
