package intent

// BuildIntentMask samples the timing map into a per-frame [0,1.3] gate at
// fps, for exactly frameCount frames. Frames inside a segment's speaking span
// are set to that segment's EmphasisFactor (1.0 without emphasis, at most 1.3
// with it); frames inside the segment's trailing pause are gated to 0.
func BuildIntentMask(m *IntentTimingMap, fps int, frameCount int) *IntentMask {
	values := make([]float64, frameCount)

	for _, seg := range m.Segments {
		startFrame := msToFrame(seg.StartMs, fps)
		endFrame := msToFrame(seg.EndMs, fps)
		pauseEndFrame := msToFrame(seg.PauseEndMs, fps)

		factor := EmphasisFactor(seg.Segment)
		for f := startFrame; f < endFrame && f < frameCount; f++ {
			if f < 0 {
				continue
			}
			values[f] = factor
		}
		for f := endFrame; f < pauseEndFrame && f < frameCount; f++ {
			if f < 0 {
				continue
			}
			values[f] = 0.0
		}
	}

	return &IntentMask{Values: values, FPS: fps}
}

// SentenceEndFrames returns the frame index of every segment flagged as a
// sentence end, at the given fps.
func (m *IntentTimingMap) SentenceEndFrames(fps int) []int {
	var frames []int
	for _, seg := range m.Segments {
		if seg.Segment.SentenceEnd {
			frames = append(frames, msToFrame(seg.EndMs, fps))
		}
	}
	return frames
}

func msToFrame(ms int, fps int) int {
	return ms * fps / 1000
}

// CombineMasks performs the AND-logic multiplicative fusion of the script
// timing mask and the audio RMS mask: a frame only passes if both signals
// agree it should. A nil mask acts as an all-pass (all 1.0) mask of the
// given length.
func CombineMasks(a, b *IntentMask, frameCount int) []float64 {
	out := make([]float64, frameCount)
	for i := 0; i < frameCount; i++ {
		av := 1.0
		if a != nil && i < len(a.Values) {
			av = a.Values[i]
		} else if a != nil && len(a.Values) > 0 {
			av = a.Values[len(a.Values)-1]
		}
		bv := 1.0
		if b != nil && i < len(b.Values) {
			bv = b.Values[i]
		} else if b != nil && len(b.Values) > 0 {
			bv = b.Values[len(b.Values)-1]
		}
		out[i] = av * bv
	}
	return out
}
