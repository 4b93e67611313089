// Package scale maps data values to pixel coordinates.
//
// Tick and nice computations follow the d3 algorithms so axes land on the
// same round values a browser rendering of the plot would use.
package scale

import (
	"math"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Linear is a continuous mapping from a domain interval onto a range interval.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear builds a scale for domain [d0, d1] onto range [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the domain endpoints.
func (s Linear) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the range endpoints.
func (s Linear) Range() (float64, float64) { return s.r0, s.r1 }

// Map translates v. A collapsed domain maps everything to the range midpoint;
// a NaN domain maps everything to NaN. Values outside the domain extrapolate.
func (s Linear) Map(v float64) float64 {
	var t float64
	switch span := s.d1 - s.d0; {
	case math.IsNaN(span):
		return math.NaN()
	case span == 0:
		t = 0.5
	default:
		t = (v - s.d0) / span
	}
	return s.r0 + t*(s.r1-s.r0)
}

// Nice widens the domain outward to round values for roughly count ticks.
func (s Linear) Nice(count int) Linear {
	start, stop := s.d0, s.d1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}
	if math.IsNaN(start) || math.IsNaN(stop) || start == stop {
		return s
	}

	// The domain only changes once the step converges.
	var prestep float64
	for iter := 0; iter < 10; iter++ {
		step := TickIncrement(start, stop, count)
		if step == prestep {
			if reversed {
				start, stop = stop, start
			}
			return Linear{d0: start, d1: stop, r0: s.r0, r1: s.r1}
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			return s
		}
		prestep = step
	}
	return s
}

// Ticks returns round values inside the domain, roughly count of them.
func (s Linear) Ticks(count int) []float64 {
	return Ticks(s.d0, s.d1, count)
}

// Extent returns the minimum and maximum of values. Any NaN, or an empty
// input, yields NaN for both ends.
func Extent(values []float64) (float64, float64) {
	if len(values) == 0 {
		return math.NaN(), math.NaN()
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if math.IsNaN(v) {
			return math.NaN(), math.NaN()
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

type tickSpec struct {
	i1, i2 float64
	inc    float64
}

func stepFor(start, stop float64, count float64) tickSpec {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}

	var ts tickSpec
	if power < 0 {
		inc := math.Pow(10, -power) / factor
		ts.i1 = math.Round(start * inc)
		ts.i2 = math.Round(stop * inc)
		if ts.i1/inc < start {
			ts.i1++
		}
		if ts.i2/inc > stop {
			ts.i2--
		}
		ts.inc = -inc
	} else {
		inc := math.Pow(10, power) * factor
		ts.i1 = math.Round(start / inc)
		ts.i2 = math.Round(stop / inc)
		if ts.i1*inc < start {
			ts.i1++
		}
		if ts.i2*inc > stop {
			ts.i2--
		}
		ts.inc = inc
	}
	if ts.i2 < ts.i1 && 0.5 <= count && count < 2 {
		return stepFor(start, stop, count*2)
	}
	return ts
}

// TickIncrement returns the tick step for [start, stop]. Negative values mean
// the inverse of the step (1/-inc) to avoid floating point error.
func TickIncrement(start, stop float64, count int) float64 {
	return stepFor(start, stop, float64(count)).inc
}

// TickStep returns the absolute tick step for the interval in either order.
func TickStep(start, stop float64, count int) float64 {
	reversed := stop < start
	var inc float64
	if reversed {
		inc = TickIncrement(stop, start, count)
	} else {
		inc = TickIncrement(start, stop, count)
	}
	if inc < 0 {
		inc = 1 / -inc
	}
	if reversed {
		return -inc
	}
	return inc
}

// Ticks returns round values in [start, stop], roughly count of them.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reversed := stop < start
	var ts tickSpec
	if reversed {
		ts = stepFor(stop, start, float64(count))
	} else {
		ts = stepFor(start, stop, float64(count))
	}
	if !(ts.i2 >= ts.i1) {
		return nil
	}

	n := int(ts.i2 - ts.i1 + 1)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		k := ts.i1 + float64(i)
		if reversed {
			k = ts.i2 - float64(i)
		}
		if ts.inc < 0 {
			out[i] = k / -ts.inc
		} else {
			out[i] = k * ts.inc
		}
	}
	return out
}
