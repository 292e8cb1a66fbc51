package governor

import (
	"math"
	"sort"

	"github.com/normanking/personagen/internal/intent"
)

// BuildAudioMask computes a per-frame [0,1] gate from short-time RMS energy
// of pcm at sampleRate, hop = sampleRate/fps. Frames below
// max(1e-4, 1.5*P20(rms)) receive 0.05; frames at or above receive 1.0.
func BuildAudioMask(pcm []int16, sampleRate, fps, frameCount int) *intent.IntentMask {
	hop := sampleRate / fps
	if hop <= 0 {
		hop = 1
	}

	rms := make([]float64, frameCount)
	for t := 0; t < frameCount; t++ {
		start := t * hop
		end := start + hop
		if start >= len(pcm) {
			rms[t] = 0
			continue
		}
		if end > len(pcm) {
			end = len(pcm)
		}
		rms[t] = calculateRMS(pcm[start:end])
	}

	threshold := math.Max(1e-4, 1.5*percentile20(rms))

	values := make([]float64, frameCount)
	for t, r := range rms {
		if r < threshold {
			values[t] = 0.05
		} else {
			values[t] = 1.0
		}
	}

	return &intent.IntentMask{Values: values, FPS: fps}
}

// calculateRMS computes RMS energy of 16-bit PCM samples normalized to
// [-1, 1], mirroring the teacher's VAD energy computation.
func calculateRMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		normalized := float64(s) / 32768.0
		sum += normalized * normalized
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// percentile20 is the 20th percentile used for the audio-mask threshold.
func percentile20(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := 0.20 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
