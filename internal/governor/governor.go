// Package governor implements the Motion Governor (C5): a deterministic,
// pure function that constrains raw face-animation coefficients using the
// fused audio+script intent mask and a StyleProfile.
package governor

import (
	"math"

	"github.com/normanking/personagen/internal/coeffs"
	"github.com/normanking/personagen/internal/intent"
	"github.com/normanking/personagen/internal/style"
	"github.com/rs/zerolog"
)

const (
	exprSafetyEnvelope = 3.0
	compactGateBase    = 0.7
	compactGateSpan    = 0.25
)

// Governor runs govern(). It holds no mutable state: every call is pure in
// its inputs.
type Governor struct {
	logger zerolog.Logger
}

// New builds a Governor.
func New(logger zerolog.Logger) *Governor {
	return &Governor{logger: logger.With().Str("component", "governor").Logger()}
}

// Govern implements C5's contract. On any internal anomaly it logs a single
// warning and returns the input bundle unchanged — the governor never fails
// the pipeline.
func (g *Governor) Govern(bundle *coeffs.Bundle, pcm []int16, sampleRate int, timing *intent.IntentTimingMap, profile style.Profile) *coeffs.Bundle {
	if err := bundle.ValidateShape(); err != nil {
		g.logger.Warn().Err(err).Msg("governor no-op: invalid input shape")
		return bundle
	}
	if hasNaN(bundle) {
		g.logger.Warn().Msg("governor no-op: NaN in input coefficients")
		return bundle
	}

	out := bundle.Clone()
	frameCount := out.T()

	audioMask := BuildAudioMask(pcm, sampleRate, out.FPS, frameCount)
	scriptMask := intent.BuildIntentMask(timing, out.FPS, frameCount)
	fused := intent.CombineMasks(audioMask, scriptMask, frameCount)

	if out.IsCompact {
		g.governCompact(out, fused)
	} else {
		g.governExplicit(out, fused, audioMask.Values, scriptMask.Values, profile, timing)
	}

	if hasNaN(out) {
		g.logger.Warn().Msg("governor no-op: governed output contained NaN, returning input")
		return bundle
	}

	return out
}

// governCompact applies the scalar-gate-only formula for latent-mode
// bundles: the whole frame vector is treated as opaque.
func (g *Governor) governCompact(b *coeffs.Bundle, fused []float64) {
	for t := range b.Frames {
		gate := compactGateBase + compactGateSpan*clamp(fused[t], 0, 1)
		for d := range b.Frames[t] {
			b.Frames[t][d] *= gate
		}
	}
}

// governExplicit runs the full six-step (plus nod) pipeline for explicit-mode
// bundles.
func (g *Governor) governExplicit(b *coeffs.Bundle, fused, audioMask, scriptMask []float64, profile style.Profile, timing *intent.IntentTimingMap) {
	isLip := lipSet(b.LipChannels)
	isIdentity := identitySet(b.IdentityChannels)

	// Step 1: clamp.
	for t := range b.Frames {
		clampPose(b.Frames[t], b.PoseRange, profile.PoseMax)
		clampExpr(b.Frames[t], b.ExpRange, isLip, isIdentity)
	}

	// Step 3: intent gate (step 2, mask construction, already done by caller).
	for t := range b.Frames {
		m := fused[t]
		scaleRange(b.Frames[t], b.PoseRange, m)
		scaleExpr(b.Frames[t], b.ExpRange, m, isLip, isIdentity)
	}

	// Step 4: style scale.
	for t := range b.Frames {
		for k := 0; k < 3; k++ {
			idx := b.PoseRange.Start + k
			if idx < b.PoseRange.End {
				b.Frames[t][idx] *= profile.PoseScale[k]
			}
		}
		scaleExpr(b.Frames[t], b.ExpRange, profile.ExprStrength, isLip, isIdentity)
	}

	// Step 5: temporal smoothing (IIR), pose and expression only.
	alpha := 1 - profile.Smoothing
	smoothRange(b.Frames, b.PoseRange, alpha)
	smoothExpr(b.Frames, b.ExpRange, alpha, isLip, isIdentity)

	// Step 6: pause-frame override.
	for t := range b.Frames {
		if audioMask[t] == 0.05 && scriptMask[t] == 0.0 {
			scaleRange(b.Frames[t], b.PoseRange, 1-profile.StillnessOnPause)
			scaleExpr(b.Frames[t], b.ExpRange, 1-profile.StillnessExprOnPause, isLip, isIdentity)
		}
	}

	// Step 7: sentence-end nod, rate-limited globally.
	applyNods(b, timing, profile)

	// The emphasis gate (up to 1.3) and nods can push pose past PoseMax;
	// re-clamp so the ceilings hold on the output.
	for t := range b.Frames {
		clampPose(b.Frames[t], b.PoseRange, profile.PoseMax)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampPose(frame []float64, poseRange coeffs.Range, poseMax [3]float64) {
	for k := 0; k < 3; k++ {
		idx := poseRange.Start + k
		if idx >= poseRange.End || idx >= len(frame) {
			continue
		}
		frame[idx] = clamp(frame[idx], -poseMax[k], poseMax[k])
	}
}

func clampExpr(frame []float64, exprRange coeffs.Range, isLip, isIdentity map[int]bool) {
	for idx := exprRange.Start; idx < exprRange.End && idx < len(frame); idx++ {
		if isLip[idx] || isIdentity[idx] {
			continue
		}
		frame[idx] = clamp(frame[idx], -exprSafetyEnvelope, exprSafetyEnvelope)
	}
}

func scaleRange(frame []float64, r coeffs.Range, factor float64) {
	for idx := r.Start; idx < r.End && idx < len(frame); idx++ {
		frame[idx] *= factor
	}
}

func scaleExpr(frame []float64, exprRange coeffs.Range, factor float64, isLip, isIdentity map[int]bool) {
	for idx := exprRange.Start; idx < exprRange.End && idx < len(frame); idx++ {
		if isLip[idx] || isIdentity[idx] {
			continue
		}
		frame[idx] *= factor
	}
}

func smoothRange(frames [][]float64, r coeffs.Range, alpha float64) {
	if len(frames) == 0 {
		return
	}
	for idx := r.Start; idx < r.End && idx < len(frames[0]); idx++ {
		y := frames[0][idx]
		for t := 0; t < len(frames); t++ {
			y = alpha*frames[t][idx] + (1-alpha)*y
			frames[t][idx] = y
		}
	}
}

func smoothExpr(frames [][]float64, exprRange coeffs.Range, alpha float64, isLip, isIdentity map[int]bool) {
	if len(frames) == 0 {
		return
	}
	for idx := exprRange.Start; idx < exprRange.End && idx < len(frames[0]); idx++ {
		if isLip[idx] || isIdentity[idx] {
			continue
		}
		y := frames[0][idx]
		for t := 0; t < len(frames); t++ {
			y = alpha*frames[t][idx] + (1-alpha)*y
			frames[t][idx] = y
		}
	}
}

// applyNods adds nod_amplitude to the pitch channel (pose index 1) at each
// sentence-end boundary, rate-limited globally to nod_rate per second.
func applyNods(b *coeffs.Bundle, timing *intent.IntentTimingMap, profile style.Profile) {
	if profile.NodRate <= 0 {
		return
	}
	pitchIdx := b.PoseRange.Start + 1
	if pitchIdx >= b.PoseRange.End {
		return
	}

	minGapSec := 1.0 / profile.NodRate
	lastNodSec := math.Inf(-1)

	for _, frame := range timing.SentenceEndFrames(b.FPS) {
		if frame < 0 || frame >= len(b.Frames) {
			continue
		}
		nowSec := float64(frame) / float64(b.FPS)
		if nowSec-lastNodSec < minGapSec {
			continue
		}
		b.Frames[frame][pitchIdx] += profile.NodAmplitude
		lastNodSec = nowSec
	}
}

func lipSet(channels []int) map[int]bool {
	m := make(map[int]bool, len(channels))
	for _, c := range channels {
		m[c] = true
	}
	return m
}

func identitySet(channels []int) map[int]bool {
	return lipSet(channels)
}

func hasNaN(b *coeffs.Bundle) bool {
	for _, frame := range b.Frames {
		for _, v := range frame {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}
