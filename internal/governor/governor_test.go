package governor

import (
	"math"
	"testing"

	"github.com/normanking/personagen/internal/coeffs"
	"github.com/normanking/personagen/internal/intent"
	"github.com/normanking/personagen/internal/style"
	"github.com/rs/zerolog"
)

func makeExplicitBundle(t, d int, poseStart int) *coeffs.Bundle {
	frames := make([][]float64, t)
	for i := range frames {
		frame := make([]float64, d)
		frame[poseStart] = 0.5   // yaw
		frame[poseStart+1] = 0.3 // pitch
		frame[poseStart+2] = 0.1 // roll
		for k := poseStart + 3; k < d; k++ {
			frame[k] = 0.2
		}
		frames[i] = frame
	}
	return &coeffs.Bundle{
		Frames:      frames,
		FPS:         25,
		IsCompact:   false,
		ExpRange:    coeffs.Range{Start: 0, End: poseStart},
		PoseRange:   coeffs.Range{Start: poseStart, End: poseStart + 3},
		LipChannels: []int{0, 1},
	}
}

func flatTiming(durationMs int) *intent.IntentTimingMap {
	return &intent.IntentTimingMap{
		Segments: []intent.TimingSegment{
			{
				Segment:    intent.SegmentIntent{Text: "hello world"},
				StartMs:    0,
				EndMs:      durationMs,
				PauseEndMs: durationMs,
			},
		},
		DurationMs: durationMs,
	}
}

func silentPCM(n int) []int16 {
	return make([]int16, n)
}

func TestGovern_PreservesShape(t *testing.T) {
	b := makeExplicitBundle(50, 210, 200)
	timing := flatTiming(2000)
	pcm := silentPCM(48000)

	g := New(zerolog.Nop())
	out := g.Govern(b, pcm, 24000, timing, style.CalmTech)

	if out.T() != b.T() || out.D() != b.D() {
		t.Fatalf("shape changed: got (%d,%d), want (%d,%d)", out.T(), out.D(), b.T(), b.D())
	}
}

func TestGovern_LipChannelsBitExact(t *testing.T) {
	b := makeExplicitBundle(50, 210, 200)
	for i := range b.Frames {
		b.Frames[i][0] = 0.777
		b.Frames[i][1] = -0.444
	}
	timing := flatTiming(2000)
	pcm := silentPCM(48000)

	g := New(zerolog.Nop())
	out := g.Govern(b, pcm, 24000, timing, style.Energetic)

	for frameIdx := range out.Frames {
		if out.Frames[frameIdx][0] != 0.777 || out.Frames[frameIdx][1] != -0.444 {
			t.Fatalf("frame %d: lip channels mutated: %v, %v", frameIdx, out.Frames[frameIdx][0], out.Frames[frameIdx][1])
		}
	}
}

func TestGovern_PoseStaysWithinMax(t *testing.T) {
	b := makeExplicitBundle(50, 210, 200)
	// Push pose values far beyond the style's ceiling.
	for i := range b.Frames {
		b.Frames[i][200] = 5.0
		b.Frames[i][201] = -5.0
		b.Frames[i][202] = 3.0
	}
	timing := flatTiming(2000)
	pcm := make([]int16, 48000)
	for i := range pcm {
		pcm[i] = 10000 // constant level: every frame's RMS is below 1.5*P20, so the audio mask is 0.05 everywhere
	}

	g := New(zerolog.Nop())
	out := g.Govern(b, pcm, 24000, timing, style.CalmTech)

	for frameIdx, frame := range out.Frames {
		for k := 0; k < 3; k++ {
			v := frame[200+k]
			if math.Abs(v) > style.CalmTech.PoseMax[k]+1e-9 {
				t.Fatalf("frame %d axis %d: |%v| exceeds pose_max %v", frameIdx, k, v, style.CalmTech.PoseMax[k])
			}
		}
	}
}

func TestGovern_CompactModeAppliesScalarGateOnly(t *testing.T) {
	frames := make([][]float64, 10)
	for i := range frames {
		frame := make([]float64, 70)
		for d := range frame {
			frame[d] = 1.0
		}
		frames[i] = frame
	}
	b := &coeffs.Bundle{Frames: frames, FPS: 25, IsCompact: true}
	timing := flatTiming(400)
	pcm := make([]int16, 9600)
	for i := range pcm {
		pcm[i] = 10000
	}

	g := New(zerolog.Nop())
	out := g.Govern(b, pcm, 24000, timing, style.Lecturer)

	if out.D() != 70 {
		t.Fatalf("compact bundle shape changed: D=%d", out.D())
	}
	for _, frame := range out.Frames {
		for _, v := range frame {
			if v < 0.7-1e-9 || v > 0.95+1e-9 {
				t.Errorf("compact gated value %v outside [0.7, 0.95]", v)
			}
			if math.IsNaN(v) {
				t.Errorf("compact output contains NaN")
			}
		}
	}
}

func TestGovern_InvalidShapeIsNoOp(t *testing.T) {
	b := &coeffs.Bundle{Frames: [][]float64{{1, 2, 3}, {1, 2}}} // ragged
	timing := flatTiming(100)

	g := New(zerolog.Nop())
	out := g.Govern(b, []int16{0}, 24000, timing, style.CalmTech)

	if out != b {
		t.Errorf("expected governor to return the same input pointer on invalid shape")
	}
}

func TestGovern_PauseOverrideReducesPoseMagnitude(t *testing.T) {
	fps := 25
	totalFrames := 75 // 3 seconds
	b := makeExplicitBundle(totalFrames, 210, 200)

	// timing: speech [0,2s), pause [2s,3s)
	timing := &intent.IntentTimingMap{
		Segments: []intent.TimingSegment{
			{Segment: intent.SegmentIntent{Text: "hello"}, StartMs: 0, EndMs: 2000, PauseEndMs: 3000},
		},
		DurationMs: 3000,
	}

	pcm := make([]int16, 3*24000) // silence throughout -> audio mask 0.05 everywhere

	g := New(zerolog.Nop())
	out := g.Govern(b, pcm, 24000, timing, style.CalmTech)

	inputYaw := 0.5 * style.CalmTech.PoseScale[0] // after style scale, ignoring smoothing settle
	_ = inputYaw
	_ = fps

	for f := 50; f < 75 && f < len(out.Frames); f++ {
		yaw := math.Abs(out.Frames[f][200])
		if yaw > 0.5*style.CalmTech.PoseScale[0]*(1-style.CalmTech.StillnessOnPause)+1e-6 {
			t.Errorf("frame %d: pause-window yaw %v too large", f, yaw)
		}
	}
}
