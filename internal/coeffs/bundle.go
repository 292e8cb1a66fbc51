// Package coeffs defines CoefficientBundle, the raw per-frame motion table
// produced by the external face-animation model, and a thin HTTP adapter
// over that model's audio-to-coefficients stage.
package coeffs

import "fmt"

// Range is an inclusive-exclusive channel index range [Start, End) within an
// explicit-mode frame.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int { return r.End - r.Start }

// Bundle is a [T, D] table of per-frame coefficients with format metadata.
// IsCompact selects which governor path applies; the explicit-mode ranges
// are only meaningful when IsCompact is false.
type Bundle struct {
	Frames [][]float64 // Frames[t][d]
	FPS    int

	IsCompact bool

	// Explicit-mode layout. Caller-parameterised, never hard-coded against
	// any one face-animation model's channel split.
	ExpRange     Range
	PoseRange    Range // exactly 3 channels: yaw, pitch, roll
	LipChannels  []int // pass-through, bit-exact
	IdentityChannels []int // pass-through, bit-exact
}

// T returns the frame count.
func (b *Bundle) T() int { return len(b.Frames) }

// D returns the per-frame channel count, or 0 for an empty bundle.
func (b *Bundle) D() int {
	if len(b.Frames) == 0 {
		return 0
	}
	return len(b.Frames[0])
}

// Clone deep-copies the bundle's frame table so callers can mutate the copy
// without aliasing the original.
func (b *Bundle) Clone() *Bundle {
	frames := make([][]float64, len(b.Frames))
	for i, f := range b.Frames {
		frames[i] = append([]float64(nil), f...)
	}
	return &Bundle{
		Frames:           frames,
		FPS:              b.FPS,
		IsCompact:        b.IsCompact,
		ExpRange:         b.ExpRange,
		PoseRange:        b.PoseRange,
		LipChannels:      append([]int(nil), b.LipChannels...),
		IdentityChannels: append([]int(nil), b.IdentityChannels...),
	}
}

// ValidateShape checks the bundle is rectangular and, for explicit mode,
// that the declared ranges fit within D.
func (b *Bundle) ValidateShape() error {
	if len(b.Frames) == 0 {
		return fmt.Errorf("coefficient bundle has no frames")
	}
	d := len(b.Frames[0])
	for i, f := range b.Frames {
		if len(f) != d {
			return fmt.Errorf("frame %d has %d channels, want %d", i, len(f), d)
		}
	}
	if !b.IsCompact {
		if b.PoseRange.Len() != 3 {
			return fmt.Errorf("pose range must have exactly 3 channels, got %d", b.PoseRange.Len())
		}
		if b.ExpRange.End > d || b.PoseRange.End > d {
			return fmt.Errorf("declared ranges exceed channel count %d", d)
		}
	}
	return nil
}

// ClassifyCompact classifies a bundle as compact when its channel count is
// below the explicit-mode threshold (D < 200, per spec).
func ClassifyCompact(d int) bool {
	return d < 200
}
