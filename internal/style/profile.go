// Package style holds StyleProfile, the named motion recipe the governor
// consumes, its presets, and the reference-video extractor that derives new
// profiles.
package style

import "encoding/json"

// Profile is a named motion recipe. It is immutable after construction;
// extraction produces new instances rather than mutating existing ones.
type Profile struct {
	Name         string     `json:"name"`
	PoseMax      [3]float64 `json:"pose_max"`      // yaw, pitch, roll radian ceilings
	PoseScale    [3]float64 `json:"pose_scale"`     // yaw, pitch, roll amplitude scale, each in [0,1]
	ExprStrength float64    `json:"expr_strength"`

	Smoothing             float64 `json:"smoothing"` // IIR retention factor, [0,1)
	StillnessOnPause      float64 `json:"stillness_on_pause"`
	StillnessExprOnPause  float64 `json:"stillness_expr_on_pause"`

	NodRate      float64 `json:"nod_rate"` // nods/s, 0 disables
	NodAmplitude float64 `json:"nod_amplitude"`
}

// Presets, with the concrete values from the spec's preset table.
var (
	CalmTech = Profile{
		Name:                 "calm_tech",
		PoseMax:              [3]float64{0.35, 0.25, 0.20},
		PoseScale:            [3]float64{0.5, 0.4, 0.3},
		ExprStrength:         0.6,
		Smoothing:            0.80,
		StillnessOnPause:     0.90,
		StillnessExprOnPause: 0.90,
		NodRate:              0.0,
		NodAmplitude:         0.0,
	}

	Energetic = Profile{
		Name:                 "energetic",
		PoseMax:              [3]float64{0.55, 0.45, 0.35},
		PoseScale:            [3]float64{0.9, 0.8, 0.7},
		ExprStrength:         1.1,
		Smoothing:            0.60,
		StillnessOnPause:     0.60,
		StillnessExprOnPause: 0.60,
		NodRate:              0.5,
		NodAmplitude:         0.08,
	}

	Lecturer = Profile{
		Name:                 "lecturer",
		PoseMax:              [3]float64{0.45, 0.35, 0.25},
		PoseScale:            [3]float64{0.7, 0.6, 0.5},
		ExprStrength:         0.8,
		Smoothing:            0.70,
		StillnessOnPause:     0.75,
		StillnessExprOnPause: 0.75,
		NodRate:              0.3,
		NodAmplitude:         0.05,
	}
)

var presetsByName = map[string]Profile{
	"calm_tech": CalmTech,
	"energetic": Energetic,
	"lecturer":  Lecturer,
}

// Preset resolves a preset name to its Profile.
func Preset(name string) (Profile, bool) {
	p, ok := presetsByName[name]
	return p, ok
}

// Save serialises the profile to JSON.
func (p *Profile) Save() ([]byte, error) {
	return json.Marshal(p)
}

// Load deserialises a profile from JSON, the inverse of Save.
func Load(data []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
