package style

import (
	"fmt"
)

// Frame is one sampled video frame, described only by what pose estimation
// needs: its dimensions and a detector-agnostic handle to its pixels. The
// extractor never decodes video itself — decoding is an external concern
// per spec's Reference-video I/O interface; callers supply already-decoded
// frames via a FrameSource.
type Frame struct {
	Width, Height int
	Pixels        []byte // packed RGB, row-major
}

// FrameSource samples frames from a reference video, roughly one every 3-5
// frames until end of stream.
type FrameSource interface {
	SampleFrames(videoPath string) ([]Frame, float64 /* duration seconds */, error)
}

// PoseEstimator extracts (yaw, pitch, roll) in radians from one frame. ok is
// false when the estimator could not find a face in this frame.
type PoseEstimator interface {
	EstimatePose(f Frame) (yaw, pitch, roll float64, ok bool)
}

// LandmarkEstimator is the dense-landmark backend: yaw/pitch/roll computed
// from full facial landmark geometry. It wraps whatever external landmark
// detector is wired in; Detect is left to the caller to supply as a thin
// adapter function, matching C4/C6's "thin adapter" shape.
type LandmarkEstimator struct {
	Detect func(f Frame) (yaw, pitch, roll float64, ok bool)
}

func (e *LandmarkEstimator) EstimatePose(f Frame) (float64, float64, float64, bool) {
	if e.Detect == nil {
		return 0, 0, 0, false
	}
	return e.Detect(f)
}

// BoundingBoxEstimator is the fallback backend: yields yaw/pitch only (roll
// is always 0) from face-centroid displacement relative to frame size.
type BoundingBoxEstimator struct {
	DetectBox func(f Frame) (centerX, centerY float64, ok bool) // normalized [0,1]
}

func (e *BoundingBoxEstimator) EstimatePose(f Frame) (yaw, pitch, roll float64, ok bool) {
	if e.DetectBox == nil {
		return 0, 0, 0, false
	}
	cx, cy, found := e.DetectBox(f)
	if !found {
		return 0, 0, 0, false
	}
	// Displacement from frame center, scaled to a plausible radian range.
	yaw = (cx - 0.5) * 2 * 0.6
	pitch = (cy - 0.5) * 2 * 0.4
	return yaw, pitch, 0, true
}

// ErrInsufficientReferenceData is returned when fewer than 10 frames yield
// valid pose measurements.
var ErrInsufficientReferenceData = fmt.Errorf("insufficient reference data: fewer than 10 valid frames")

// Extractor builds a StyleProfile from a reference video.
type Extractor struct {
	Frames    FrameSource
	Primary   PoseEstimator
	Fallback  PoseEstimator
}

// NewExtractor builds an Extractor with a dense-landmark primary backend and
// a bounding-box fallback, selected per-frame.
func NewExtractor(frames FrameSource, primary, fallback PoseEstimator) *Extractor {
	return &Extractor{Frames: frames, Primary: primary, Fallback: fallback}
}

// BuildFromReference implements C7: build_style_from_reference.
func (e *Extractor) BuildFromReference(videoPath, name string) (*Profile, error) {
	frames, durationSec, err := e.Frames.SampleFrames(videoPath)
	if err != nil {
		return nil, fmt.Errorf("sample frames: %w", err)
	}

	var yaws, pitches, rolls []float64
	for _, f := range frames {
		yaw, pitch, roll, ok := e.Primary.EstimatePose(f)
		if !ok && e.Fallback != nil {
			yaw, pitch, roll, ok = e.Fallback.EstimatePose(f)
		}
		if !ok {
			continue
		}
		yaws = append(yaws, yaw)
		pitches = append(pitches, pitch)
		rolls = append(rolls, roll)
	}

	if len(yaws) < 10 {
		return nil, ErrInsufficientReferenceData
	}

	return computeProfile(name, yaws, pitches, rolls, durationSec), nil
}

func computeProfile(name string, yaws, pitches, rolls []float64, durationSec float64) *Profile {
	poseMax := [3]float64{
		percentile(absValues(yaws), 95),
		percentile(absValues(pitches), 95),
		percentile(absValues(rolls), 95),
	}

	stdYaw, stdPitch, stdRoll := stddev(yaws), stddev(pitches), stddev(rolls)

	poseScale := [3]float64{
		clamp01range(stdYaw/0.3*0.8, 0.3, 1.0),
		clamp01range(stdPitch/0.2*0.7, 0.3, 1.0),
		clamp01range(stdRoll/0.15*0.6, 0.3, 1.0),
	}

	e := stdYaw + stdPitch + stdRoll
	var smoothing, stillness, exprStrength float64
	switch {
	case e < 0.3:
		smoothing, stillness, exprStrength = 0.85, 0.90, 0.6
	case e < 0.6:
		smoothing, stillness, exprStrength = 0.70, 0.75, 0.8
	default:
		smoothing, stillness, exprStrength = 0.60, 0.60, 1.0
	}

	nodRate := 0.0
	if durationSec > 0 {
		nodRate = float64(signChanges(pitches)) / durationSec
	}
	nodAmplitude := stdPitch * 0.5

	return &Profile{
		Name:                 name,
		PoseMax:              poseMax,
		PoseScale:            poseScale,
		ExprStrength:         exprStrength,
		Smoothing:            smoothing,
		StillnessOnPause:     stillness,
		StillnessExprOnPause: stillness,
		NodRate:              nodRate,
		NodAmplitude:         nodAmplitude,
	}
}

func clamp01range(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
