package rules

import "math"

// Doctrine is a high-level fighting posture. Weights are 0.0–1.0; the
// compiler maps them to thresholds and priorities of a default rule set, and
// rule files gate individual rules on them.
type Doctrine struct {
	Name       string  `json:"name" yaml:"name"`
	Rationale  string  `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	Aggression float64 `json:"aggression" yaml:"aggression"`
	Caution    float64 `json:"caution" yaml:"caution"`
	Support    float64 `json:"support" yaml:"support"`
	Focus      float64 `json:"focus" yaml:"focus"`
}

// DefaultDoctrine returns a balanced baseline doctrine.
func DefaultDoctrine() Doctrine {
	return Doctrine{
		Name:       "Balanced",
		Rationale:  "Default balanced posture",
		Aggression: 0.5,
		Caution:    0.5,
		Support:    0.5,
		Focus:      0.5,
	}
}

// Validate clamps all weights to their valid ranges.
func (d *Doctrine) Validate() {
	d.Aggression = clamp(d.Aggression, 0, 1)
	d.Caution = clamp(d.Caution, 0, 1)
	d.Support = clamp(d.Support, 0, 1)
	d.Focus = clamp(d.Focus, 0, 1)
}

// lerp linearly interpolates between min and max by t (0–1), returning an int.
func lerp(min, max int, t float64) int {
	return min + int(math.Round(float64(max-min)*t))
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
