// Package record defines the cyclist dataset entry and its render-ready
// enrichment.
package record

import (
	"math"
	"time"

	"github.com/okian/dopingplot/internal/domain/timeparse"
)

// Record is one timed performance as published in the upstream dataset.
type Record struct {
	Time        string `json:"Time"`
	Place       int    `json:"Place"`
	Seconds     int    `json:"Seconds"`
	Name        string `json:"Name"`
	Year        int    `json:"Year"`
	Nationality string `json:"Nationality"`
	Doping      string `json:"Doping"`
	URL         string `json:"URL"`
}

// HasDoping reports the category: a non-empty Doping note.
func (r Record) HasDoping() bool { return r.Doping != "" }

// Point is a Record with every derived value precomputed, so rendering never
// indexes into parallel slices.
type Point struct {
	Index  int             `json:"index"`
	Record Record          `json:"record"`
	Time   timeparse.Clock `json:"time"`
	Year   float64         `json:"year"`
	Doping bool            `json:"doping"`
}

// Valid reports whether both coordinates are usable on a scale.
func (p Point) Valid() bool {
	return p.Time.Valid() && p.Record.Year > 0 && !math.IsNaN(p.Year)
}

// Enrich derives one Point per record, in order. ref anchors parsed times.
func Enrich(records []Record, ref time.Time) []Point {
	points := make([]Point, len(records))
	for i, r := range records {
		points[i] = Point{
			Index:  i,
			Record: r,
			Time:   timeparse.Parse(r.Time, ref),
			Year:   float64(r.Year),
			Doping: r.HasDoping(),
		}
	}
	return points
}

// Partition splits points into usable and malformed ones and renumbers the
// usable ones so Index stays a position in the returned slice.
func Partition(points []Point) (valid, malformed []Point) {
	for _, p := range points {
		if p.Valid() {
			p.Index = len(valid)
			valid = append(valid, p)
			continue
		}
		malformed = append(malformed, p)
	}
	return valid, malformed
}
