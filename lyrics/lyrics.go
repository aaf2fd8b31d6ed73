// Package lyrics parses timed lyric files and annotates segments with
// keyword-based sentiment, emotion and intensity. It stands in for an
// external transcription/NLP service when only an .lrc file is
// available; a render works fine with no lyrics at all.
package lyrics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"vizbeat/timeline"
)

// lastLineSpan caps how long the final lyric line stays active.
const lastLineSpan = 5.0

var lrcLine = regexp.MustCompile(`^\[(\d{2}):(\d{2})\.(\d{2})\](.+)$`)

// ParseLRC reads an .lrc stream ([mm:ss.xx]text lines) into ordered
// lyric segments. Each line's segment ends where the next one starts;
// the final line runs for lastLineSpan seconds, capped at duration.
// Unparseable lines are skipped.
func ParseLRC(r io.Reader, duration float64) ([]timeline.LyricSegment, error) {
	type entry struct {
		time float64
		text string
	}
	var entries []entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := lrcLine.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		centis, _ := strconv.Atoi(m[3])
		entries = append(entries, entry{
			time: float64(minutes)*60 + float64(seconds) + float64(centis)/100,
			text: strings.TrimSpace(m[4]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lrc: %w", err)
	}

	segments := make([]timeline.LyricSegment, 0, len(entries))
	for i, e := range entries {
		if e.text == "" {
			continue
		}
		end := e.time + lastLineSpan
		if i+1 < len(entries) {
			end = entries[i+1].time
		}
		if duration > 0 && end > duration {
			end = duration
		}
		if end < e.time {
			end = e.time
		}

		sentiment := Sentiment(e.text)
		segments = append(segments, timeline.LyricSegment{
			Start:     e.time,
			End:       end,
			Text:      e.text,
			Sentiment: sentiment,
			Emotion:   Emotion(e.text),
			Intensity: Intensity(e.text, sentiment),
		})
	}
	return segments, nil
}

// ParseLRCFile parses an .lrc file from disk.
func ParseLRCFile(path string, duration float64) ([]timeline.LyricSegment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lrc file: %w", err)
	}
	defer f.Close()
	return ParseLRC(f, duration)
}

var positiveWords = []string{
	"love", "happy", "joy", "great", "wonderful", "beautiful", "amazing", "good", "yes",
}

var negativeWords = []string{
	"hate", "sad", "pain", "bad", "terrible", "awful", "no", "never", "cry",
}

// Sentiment scores text from -1 (negative) to 1 (positive) by keyword
// balance. Texts with no matched keywords score 0.
func Sentiment(text string) float64 {
	lower := strings.ToLower(text)
	positive := 0
	negative := 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}
	if positive+negative == 0 {
		return 0
	}
	s := float64(positive-negative) / float64(positive+negative)
	if s < -1 {
		s = -1
	}
	if s > 1 {
		s = 1
	}
	return s
}

// Emotion classifies text into the closed emotion set by keyword.
func Emotion(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "happy", "joy", "smile", "laugh"):
		return timeline.EmotionHappy
	case containsAny(lower, "sad", "cry", "tear", "lonely"):
		return timeline.EmotionSad
	case containsAny(lower, "angry", "rage", "fury", "mad"):
		return timeline.EmotionAngry
	case containsAny(lower, "hope", "dream", "future"):
		return timeline.EmotionHopeful
	default:
		return timeline.EmotionChill
	}
}

var intensityWords = []string{"!", "fire", "burn", "explode", "crash", "bang"}

// Intensity estimates 0..1 delivery intensity from text length,
// sentiment magnitude and exclamatory keywords.
func Intensity(text string, sentiment float64) float64 {
	lengthFactor := float64(len(text)) / 50.0
	if lengthFactor > 1 {
		lengthFactor = 1
	}
	magnitude := sentiment
	if magnitude < 0 {
		magnitude = -magnitude
	}

	intensity := 0.3*lengthFactor + 0.7*magnitude
	if containsAny(strings.ToLower(text), intensityWords...) {
		intensity += 0.3
	}
	if intensity > 1 {
		intensity = 1
	}
	if intensity < 0 {
		intensity = 0
	}
	return intensity
}

// Summary rolls analyzed segments up into a track-level emotion
// summary: mean sentiment, majority emotion, mean intensity as arousal
// and sentiment as valence.
func Summary(segments []timeline.LyricSegment) *timeline.EmotionSummary {
	if len(segments) == 0 {
		return &timeline.EmotionSummary{
			OverallEmotion: timeline.EmotionNeutral,
			Arousal:        0.5,
		}
	}

	sentiments := make([]float64, len(segments))
	intensities := make([]float64, len(segments))
	counts := make(map[string]int)
	var order []string
	for i, s := range segments {
		sentiments[i] = s.Sentiment
		intensities[i] = s.Intensity
		if _, seen := counts[s.Emotion]; !seen {
			order = append(order, s.Emotion)
		}
		counts[s.Emotion]++
	}

	overall := timeline.EmotionNeutral
	best := 0
	for _, e := range order {
		if counts[e] > best {
			overall = e
			best = counts[e]
		}
	}

	sentiment := stat.Mean(sentiments, nil)
	return &timeline.EmotionSummary{
		OverallSentiment: sentiment,
		OverallEmotion:   overall,
		Arousal:          stat.Mean(intensities, nil),
		Valence:          sentiment,
	}
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
