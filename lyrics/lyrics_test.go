package lyrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizbeat/timeline"
)

const sampleLRC = `[ar:Test Artist]
[00:01.00]love and joy
[00:05.50]cry alone tonight

[00:08.25]we will rise
`

func TestParseLRC(t *testing.T) {
	segments, err := ParseLRC(strings.NewReader(sampleLRC), 30)
	require.NoError(t, err)
	require.Len(t, segments, 3)

	assert.InDelta(t, 1.0, segments[0].Start, 1e-9)
	assert.InDelta(t, 5.5, segments[0].End, 1e-9)
	assert.Equal(t, "love and joy", segments[0].Text)

	assert.InDelta(t, 5.5, segments[1].Start, 1e-9)
	assert.InDelta(t, 8.25, segments[1].End, 1e-9)

	// The final line runs a fixed span past its start.
	assert.InDelta(t, 8.25, segments[2].Start, 1e-9)
	assert.InDelta(t, 8.25+lastLineSpan, segments[2].End, 1e-9)
}

func TestParseLRCLastLineCappedAtDuration(t *testing.T) {
	segments, err := ParseLRC(strings.NewReader(sampleLRC), 10)
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.InDelta(t, 10.0, segments[2].End, 1e-9)
}

func TestParseLRCSkipsGarbage(t *testing.T) {
	input := "not a timestamp\n[xx:yy.zz]broken\n[00:02.00]real line\n"
	segments, err := ParseLRC(strings.NewReader(input), 60)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "real line", segments[0].Text)
}

func TestParseLRCEmptyInput(t *testing.T) {
	segments, err := ParseLRC(strings.NewReader(""), 60)
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestSentiment(t *testing.T) {
	assert.InDelta(t, 1.0, Sentiment("love and joy"), 1e-9)
	assert.InDelta(t, -1.0, Sentiment("cry in pain"), 1e-9)
	assert.Equal(t, 0.0, Sentiment("instrumental interlude"))
	assert.Equal(t, 0.0, Sentiment(""))

	mixed := Sentiment("love and pain")
	assert.InDelta(t, 0.0, mixed, 1e-9)
}

func TestEmotion(t *testing.T) {
	assert.Equal(t, timeline.EmotionHappy, Emotion("pure joy"))
	assert.Equal(t, timeline.EmotionSad, Emotion("tears and lonely nights"))
	assert.Equal(t, timeline.EmotionAngry, Emotion("rage inside"))
	assert.Equal(t, timeline.EmotionHopeful, Emotion("dream of a better day"))
	assert.Equal(t, timeline.EmotionChill, Emotion("drifting along"))
}

func TestIntensityBounds(t *testing.T) {
	assert.GreaterOrEqual(t, Intensity("", 0), 0.0)
	assert.LessOrEqual(t, Intensity(strings.Repeat("fire! ", 40), 1), 1.0)
	assert.Greater(t, Intensity("burn it down!", 0.5), Intensity("hm", 0))
}

func TestSummaryEmpty(t *testing.T) {
	s := Summary(nil)
	require.NotNil(t, s)
	assert.Equal(t, timeline.EmotionNeutral, s.OverallEmotion)
	assert.Equal(t, 0.5, s.Arousal)
	assert.Equal(t, 0.0, s.OverallSentiment)
}

func TestSummaryMajorityEmotion(t *testing.T) {
	segments := []timeline.LyricSegment{
		{Sentiment: 0.5, Emotion: timeline.EmotionHappy, Intensity: 0.4},
		{Sentiment: 0.7, Emotion: timeline.EmotionHappy, Intensity: 0.6},
		{Sentiment: -0.2, Emotion: timeline.EmotionSad, Intensity: 0.2},
	}
	s := Summary(segments)
	assert.Equal(t, timeline.EmotionHappy, s.OverallEmotion)
	assert.InDelta(t, (0.5+0.7-0.2)/3, s.OverallSentiment, 1e-9)
	assert.InDelta(t, (0.4+0.6+0.2)/3, s.Arousal, 1e-9)
	assert.Equal(t, s.OverallSentiment, s.Valence)
}

func TestSummaryTiesGoToFirstSeen(t *testing.T) {
	segments := []timeline.LyricSegment{
		{Emotion: timeline.EmotionSad},
		{Emotion: timeline.EmotionHappy},
	}
	assert.Equal(t, timeline.EmotionSad, Summary(segments).OverallEmotion)
}
