// Package intent holds the script-intent data model shared by the LLM
// generator, the segmented synthesizer and the motion governor.
package intent

// SegmentIntent is one unit of narration: a span of text plus the
// prosody/emphasis hints the LLM attached to it.
type SegmentIntent struct {
	Text         string   `json:"text"`
	PauseAfterMs int      `json:"pause_after_ms"`
	Emphasis     []string `json:"emphasis"`
	SentenceEnd  bool     `json:"sentence_end"`
}

// ScriptIntent is the full structured response for one generation request.
type ScriptIntent struct {
	Segments []SegmentIntent `json:"segments"`
}

// FlattenText concatenates every segment's text into the plain string that
// gets sent to the synthesizer, shaping emphasis as it goes (first
// occurrence of each emphasis token, case-insensitive whole-word match, is
// upper-cased; later occurrences are left untouched).
func (s *ScriptIntent) FlattenText() string {
	var out []byte
	for i, seg := range s.Segments {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, []byte(ShapeEmphasis(seg.Text, seg.Emphasis))...)
	}
	return string(out)
}

// TimingSegment locates one SegmentIntent's synthesized audio in time.
type TimingSegment struct {
	Segment    SegmentIntent `json:"segment"`
	StartMs    int           `json:"start_ms"`
	EndMs      int           `json:"end_ms"`
	PauseEndMs int           `json:"pause_end_ms"`
}

// IntentTimingMap aligns every TimingSegment against the synthesized
// waveform's total duration, produced by the segmented synthesizer.
type IntentTimingMap struct {
	Segments   []TimingSegment `json:"segments"`
	DurationMs int             `json:"duration_ms"`
}

// IntentMask is a per-frame gating signal in [0,1.3] (script timing) or
// [0,1] (audio energy), sampled at FPS with one entry in Values per frame.
type IntentMask struct {
	Values []float64
	FPS    int
}
