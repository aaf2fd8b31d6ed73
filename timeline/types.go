package timeline

// SectionType labels a contiguous structural span of a track.
type SectionType string

const (
	SectionIntro  SectionType = "intro"
	SectionVerse  SectionType = "verse"
	SectionChorus SectionType = "chorus"
	SectionDrop   SectionType = "drop"
	SectionBridge SectionType = "bridge"
	SectionOutro  SectionType = "outro"
)

// Emotion labels form a closed set shared by lyric segments and sections.
const (
	EmotionHappy   = "happy"
	EmotionSad     = "sad"
	EmotionAngry   = "angry"
	EmotionHopeful = "hopeful"
	EmotionChill   = "chill"
	EmotionNeutral = "neutral"
)

// BeatEvent is a single detected beat. Produced once by the beat tracker,
// ordered by time, read-only thereafter.
type BeatEvent struct {
	Time     float64 `json:"time"`     // seconds
	Strength float64 `json:"strength"` // 0..1
}

// FrameFeature holds per-frame spectral band energies, ordered by strictly
// increasing time. Values are pre-normalized to 0..1.
type FrameFeature struct {
	Time   float64 `json:"time"` // seconds, center of frame
	Bass   float64 `json:"bass"`
	Mid    float64 `json:"mid"`
	Treble float64 `json:"treble"`
	Energy float64 `json:"energy"`
}

// LyricSegment is a transcribed lyric span with affect annotations.
// Segments are ordered by start and may overlap; consumers take the
// first match.
type LyricSegment struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Text      string  `json:"text"`
	Language  string  `json:"language,omitempty"`
	Sentiment float64 `json:"sentiment"` // -1..1
	Emotion   string  `json:"emotion"`
	Intensity float64 `json:"intensity"` // 0..1
}

// Section is a structural span of the track. Sections form an ordered,
// contiguous, non-overlapping cover of [0, duration].
type Section struct {
	Start   float64     `json:"start"`
	End     float64     `json:"end"`
	Type    SectionType `json:"type"`
	Energy  float64     `json:"energy"` // mean band energy over the span
	Emotion string      `json:"emotion,omitempty"`
}

// Contains reports whether t falls within the section span.
func (s Section) Contains(t float64) bool {
	return t >= s.Start && t <= s.End
}

// Contains reports whether t falls within the lyric span.
func (l LyricSegment) Contains(t float64) bool {
	return t >= l.Start && t <= l.End
}

// EmotionSummary is a track-level affect rollup.
type EmotionSummary struct {
	OverallSentiment float64 `json:"overall_sentiment"` // -1..1
	OverallEmotion   string  `json:"overall_emotion"`
	Arousal          float64 `json:"arousal"` // 0..1
	Valence          float64 `json:"valence"` // -1..1
}

// Timeline is the complete precomputed feature set for one track.
// It is immutable for the duration of a render job.
type Timeline struct {
	AudioID  string          `json:"audio_id,omitempty"`
	Duration float64         `json:"duration"` // seconds
	Tempo    float64         `json:"bpm,omitempty"`
	Beats    []BeatEvent     `json:"beats"`
	Frames   []FrameFeature  `json:"frames"`
	Lyrics   []LyricSegment  `json:"lyrics,omitempty"`
	Sections []Section       `json:"sections,omitempty"`
	Emotion  *EmotionSummary `json:"emotion_summary,omitempty"`
}
