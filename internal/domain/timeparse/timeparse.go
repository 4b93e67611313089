// Package timeparse converts "MM:SS" race times into time-of-day values that
// can be placed on a time axis.
package timeparse

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Layout is the tick and label layout for minute:second values.
const Layout = "04:05"

// partLimit bounds a single minute or second component. Beyond it the result
// is treated as an invalid time instead of overflowing.
const partLimit = 1e9

// Clock is a time-of-day anchored to a reference moment. Only the minute and
// second fields carry meaning; the date and hour are those of the reference.
type Clock struct {
	t  time.Time
	ok bool
}

// Parse reads s as "MM:SS" relative to ref.
//
// The string is split on ':' and the first two parts are used. Parts are
// trimmed, an empty part reads as zero and fractions truncate toward zero.
// Out-of-range values roll over into the next field. A missing or non-numeric
// part yields an invalid Clock; no error is reported.
func Parse(s string, ref time.Time) Clock {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return Clock{}
	}
	mm, ok := component(parts[0])
	if !ok {
		return Clock{}
	}
	ss, ok := component(parts[1])
	if !ok {
		return Clock{}
	}
	t := time.Date(ref.Year(), ref.Month(), ref.Day(), ref.Hour(), mm, ss, 0, ref.Location())
	return Clock{t: t, ok: true}
}

func component(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > partLimit {
		return 0, false
	}
	return int(math.Trunc(v)), true
}

// FromMillis builds a Clock from unix milliseconds. NaN gives an invalid Clock.
func FromMillis(ms float64, loc *time.Location) Clock {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return Clock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return Clock{t: time.UnixMilli(int64(math.Round(ms))).In(loc), ok: true}
}

// Valid reports whether both components parsed.
func (c Clock) Valid() bool { return c.ok }

// Minute returns the minute field, or NaN for an invalid Clock.
func (c Clock) Minute() float64 {
	if !c.ok {
		return math.NaN()
	}
	return float64(c.t.Minute())
}

// Second returns the second field, or NaN for an invalid Clock.
func (c Clock) Second() float64 {
	if !c.ok {
		return math.NaN()
	}
	return float64(c.t.Second())
}

// Millis returns unix milliseconds, or NaN for an invalid Clock.
func (c Clock) Millis() float64 {
	if !c.ok {
		return math.NaN()
	}
	return float64(c.t.UnixMilli())
}

// Time returns the underlying instant; the zero time when invalid.
func (c Clock) Time() time.Time {
	if !c.ok {
		return time.Time{}
	}
	return c.t
}

// Label formats the Clock as "MM:SS".
func (c Clock) Label() string {
	if !c.ok {
		return "NaN:NaN"
	}
	return c.t.Format(Layout)
}

// String returns RFC 3339, or "Invalid Date".
func (c Clock) String() string {
	if !c.ok {
		return "Invalid Date"
	}
	return c.t.Format(time.RFC3339)
}

// MarshalJSON encodes a valid Clock as an RFC 3339 string and an invalid one as null.
func (c Clock) MarshalJSON() ([]byte, error) {
	if !c.ok {
		return []byte("null"), nil
	}
	return json.Marshal(c.t.Format(time.RFC3339))
}
