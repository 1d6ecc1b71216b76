package quantity

import "math"

// Band maps values below Threshold to Step.
type Band struct {
	Threshold float64 `yaml:"threshold"`
	Step      float64 `yaml:"step"`
}

// DefaultBands step by 0.25 below 10, by 0.5 below 100, and by 1 from 100 up.
var DefaultBands = []Band{
	{Threshold: 10, Step: 0.25},
	{Threshold: 100, Step: 0.5},
	{Threshold: math.Inf(1), Step: 1},
}

// stepFor scans bands in ascending threshold order and returns the step of
// the first band whose threshold exceeds v, or the last band's step.
func stepFor(bands []Band, v float64) float64 {
	for _, b := range bands {
		if v < b.Threshold {
			return b.Step
		}
	}
	return bands[len(bands)-1].Step
}
