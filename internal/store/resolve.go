package store

import "github.com/dronescope/playback/internal/model/core"

// Resolve returns the index of the latest sample whose Time is at or
// before t: the drone holds its last known pose between samples rather
// than anticipating the next one. Times before the first sample and
// empty inputs resolve to 0; times past the last sample clamp to the
// final index. With duplicate times the last of the run wins, keeping
// "latest at or before t" exact.
func Resolve(samples []core.Sample, t float64) int {
	n := len(samples)
	if n == 0 {
		return 0
	}
	if t >= samples[n-1].Time {
		return n - 1
	}
	if t < samples[0].Time {
		return 0
	}

	// Upper-bound search: lo converges on the first index with
	// Time > t. An equal hit keeps moving right, so a duplicate-time
	// run resolves to its last entry.
	lo, hi := 0, n-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if samples[mid].Time <= t {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return lo - 1
}
