package timeline

import (
	"fmt"
	"math"
)

// MinLabelSpacingPx is the narrowest a major tick label may be packed
// before the ruler promotes to the next step.
const MinLabelSpacingPx = 80.0

// niceSteps is the ladder of label intervals, seconds, from 10 ms up
// to one day. The ruler picks the smallest rung that keeps labels at
// least MinLabelSpacingPx apart and saturates at the top rung.
var niceSteps = []float64{
	0.01, 0.02, 0.05,
	0.1, 0.2, 0.5,
	1, 2, 5, 10, 15, 30,
	60, 120, 300, 600, 900, 1800,
	3600, 7200, 10800, 21600, 43200, 86400,
}

func majorStepFor(pps float64) float64 {
	minStep := MinLabelSpacingPx / pps
	for _, step := range niceSteps {
		if step >= minStep {
			return step
		}
	}
	return niceSteps[len(niceSteps)-1]
}

// minorStepFor subdivides a major step: tenths once steps reach a
// minute, fifths in the sub-minute range, halves below 100 ms.
func minorStepFor(major float64) float64 {
	switch {
	case major >= 60:
		return major / 10
	case major >= 0.1:
		return major / 5
	default:
		return major / 2
	}
}

// MajorTickStep returns the label interval at the current zoom.
func (s *State) MajorTickStep() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return majorStepFor(s.pixelsPerSecond())
}

// MinorTickStep returns the sub-tick interval at the current zoom.
func (s *State) MinorTickStep() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return minorStepFor(majorStepFor(s.pixelsPerSecond()))
}

// Tick is one ruler mark in viewport pixels. Only major ticks carry a
// label.
type Tick struct {
	Time  float64
	Px    float64
	Major bool
	Label string
}

// Ticks generates the ruler marks currently visible in the viewport.
func (s *State) Ticks() []Tick {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pps := s.pixelsPerSecond()
	major := majorStepFor(pps)
	minor := minorStepFor(major)
	ratio := int64(math.Round(major / minor))
	if ratio < 1 {
		ratio = 1
	}

	t0 := s.viewOffset / pps
	t1 := (s.viewOffset + s.viewWidth) / pps

	first := int64(math.Ceil(t0/minor - 1e-9))
	if first < 0 {
		first = 0
	}

	var out []Tick
	for i := first; float64(i)*minor <= t1+1e-9; i++ {
		t := float64(i) * minor
		tick := Tick{
			Time:  t,
			Px:    t*pps - s.viewOffset,
			Major: i%ratio == 0,
		}
		if tick.Major {
			tick.Label = formatTickLabel(t, major)
		}
		out = append(out, tick)
	}
	return out
}

// formatTickLabel renders a ruler label: h:mm:ss above the hour,
// m:ss down to one second, and m:ss.cc in the sub-second range.
func formatTickLabel(t, step float64) string {
	h := int(t) / 3600
	m := (int(t) % 3600) / 60
	sec := int(t) % 60

	switch {
	case step >= 3600 || h > 0:
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	case step >= 1:
		return fmt.Sprintf("%d:%02d", m, sec)
	default:
		centis := int(math.Round((t-math.Floor(t))*100)) % 100
		return fmt.Sprintf("%d:%02d.%02d", m, sec, centis)
	}
}
