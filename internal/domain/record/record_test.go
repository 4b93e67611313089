package record_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/dopingplot/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = `[
  {"Time":"36:50","Place":1,"Seconds":2210,"Name":"Marco Pantani","Year":1995,"Nationality":"ITA","Doping":"Alleged drug use during 1995 due to high hematocrit levels","URL":"https://en.wikipedia.org/wiki/Marco_Pantani#Alleged_drug_use"},
  {"Time":"37:15","Place":3,"Seconds":2235,"Name":"Marco Pantani","Year":1994,"Nationality":"ITA","Doping":"","URL":""}
]`

func TestEnrich(t *testing.T) {
	Convey("Given records decoded from the upstream shape", t, func() {
		var records []record.Record
		So(json.Unmarshal([]byte(sample), &records), ShouldBeNil)
		ref := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

		points := record.Enrich(records, ref)

		Convey("Then each point carries its own derived values", func() {
			So(len(points), ShouldEqual, 2)
			So(points[0].Index, ShouldEqual, 0)
			So(points[0].Year, ShouldEqual, 1995)
			So(points[0].Doping, ShouldBeTrue)
			So(points[0].Time.Label(), ShouldEqual, "36:50")
			So(points[1].Doping, ShouldBeFalse)
			So(points[1].Record.Seconds, ShouldEqual, 2235)
		})

		Convey("Then all points are valid", func() {
			valid, malformed := record.Partition(points)
			So(len(valid), ShouldEqual, 2)
			So(malformed, ShouldBeEmpty)
		})
	})
}

func TestPartition(t *testing.T) {
	Convey("Given a mix of good and malformed records", t, func() {
		ref := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
		points := record.Enrich([]record.Record{
			{Name: "a", Year: 1994, Time: "abc"},
			{Name: "b", Year: 1996, Time: "38:00"},
			{Name: "c", Year: 0, Time: "39:00"},
			{Name: "d", Year: 2001, Time: "39:30"},
		}, ref)

		valid, malformed := record.Partition(points)

		Convey("Then malformed time and missing year are split out", func() {
			So(len(malformed), ShouldEqual, 2)
			So(malformed[0].Record.Name, ShouldEqual, "a")
			So(malformed[1].Record.Name, ShouldEqual, "c")
		})

		Convey("Then valid points are renumbered in order", func() {
			So(len(valid), ShouldEqual, 2)
			So(valid[0].Record.Name, ShouldEqual, "b")
			So(valid[0].Index, ShouldEqual, 0)
			So(valid[1].Index, ShouldEqual, 1)
		})
	})
}
