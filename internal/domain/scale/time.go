package scale

import (
	"math"
	"sort"
	"time"
)

// Candidate tick intervals for time axes, smallest first. Every entry
// divides an hour, so ticks stay aligned to wall-clock boundaries.
var timeIntervals = []time.Duration{
	time.Second,
	5 * time.Second,
	15 * time.Second,
	30 * time.Second,
	time.Minute,
	5 * time.Minute,
	15 * time.Minute,
	30 * time.Minute,
	time.Hour,
}

// TimeInterval picks the tick interval in milliseconds for a span of unix
// milliseconds and a requested count, choosing the candidate whose ratio to
// the ideal step is closest. Spans finer than a second, or coarser than the
// largest candidate, fall back to a linear millisecond step (at least 1).
func TimeInterval(start, stop float64, count int) float64 {
	if count <= 0 {
		return math.NaN()
	}
	target := math.Abs(stop-start) / float64(count)
	i := sort.Search(len(timeIntervals), func(i int) bool {
		return float64(timeIntervals[i].Milliseconds()) > target
	})
	switch i {
	case len(timeIntervals):
		return math.Max(TickStep(start, stop, count), 1)
	case 0:
		return math.Max(TickStep(start, stop, count), 1)
	}
	lo := float64(timeIntervals[i-1].Milliseconds())
	hi := float64(timeIntervals[i].Milliseconds())
	if target/lo < hi/target {
		return lo
	}
	return hi
}

// TimeTicks returns tick values (unix milliseconds) inside [start, stop]
// aligned to the wall clock of loc.
func TimeTicks(start, stop float64, count int, loc *time.Location) []float64 {
	if math.IsNaN(start) || math.IsNaN(stop) || count <= 0 {
		return nil
	}
	if stop < start {
		start, stop = stop, start
	}
	if start == stop {
		return []float64{start}
	}
	if loc == nil {
		loc = time.Local
	}

	step := TimeInterval(start, stop, count)
	// Align on local wall time so minute steps follow the displayed clock.
	_, off := time.UnixMilli(int64(start)).In(loc).Zone()
	offset := float64(off) * 1000

	var out []float64
	for v := math.Ceil((start+offset)/step)*step - offset; v <= stop; v += step {
		out = append(out, v)
	}
	return out
}
