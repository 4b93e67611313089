package plot

import (
	"math"
	"strconv"

	"github.com/okian/dopingplot/internal/domain/record"
	"github.com/okian/dopingplot/internal/domain/scale"
	"github.com/okian/dopingplot/internal/domain/timeparse"
	"github.com/okian/dopingplot/internal/domain/tooltip"
)

// Element ids and classes of the rendered surface.
const (
	IDContainer = "scatter-plot-container"
	IDSurface   = "scatter-plot"
	IDTooltip   = "tooltip"
	IDYAxis     = "y-axis"
	IDXAxis     = "x-axis"
	IDYTitle    = "yAxis-title"
	IDXTitle    = "xAxis-title"
	IDLegend    = "legend"
	ClassDot    = "dot"
)

// Legend geometry.
const (
	legendSwatch  = 10
	legendSpacing = 20
	legendLabelX  = 20
	// legendX is the legend's horizontal position as a share of plot width.
	legendX = 0.65
)

// Mark is one point on the surface.
type Mark struct {
	Point   record.Point
	CX, CY  float64
	R       float64
	Fill    string
	XValue  int
	YValue  string
	Tooltip string
}

// Tick is one axis graduation: the domain value, its pixel offset along the
// axis and its label.
type Tick struct {
	Value float64
	Pos   float64
	Label string
}

// Axis is a rendered axis. Length is the axis extent in pixels; (X, Y) is
// its translation inside the plot area.
type Axis struct {
	ID     string
	Ticks  []Tick
	Length float64
	X, Y   float64
}

// Title is an axis caption. Rotate is in degrees.
type Title struct {
	ID     string
	Text   string
	X, Y   float64
	Rotate float64
}

// LegendEntry is one category swatch.
type LegendEntry struct {
	Doping  bool
	Fill    string
	Label   string
	Size    float64
	SwatchY float64
	LabelX  float64
	LabelY  float64
}

// Legend positions the entries inside the plot area.
type Legend struct {
	X, Y    float64
	Entries []LegendEntry
}

// Plot is the complete, immutable render model.
type Plot struct {
	Context RenderContext
	X, Y    scale.Linear
	Marks   []Mark
	XAxis   Axis
	YAxis   Axis
	XTitle  Title
	YTitle  Title
	Legend  Legend
}

// Build derives scales from the full point set, then lays out everything.
func Build(rc RenderContext, points []record.Point) Plot {
	x, y := Scales(rc, points)
	return Plot{
		Context: rc,
		X:       x,
		Y:       y,
		Marks:   Marks(rc, x, y, points),
		XAxis:   XAxis(rc, x),
		YAxis:   YAxis(rc, y),
		XTitle:  Title{ID: IDXTitle, Text: "Years", X: rc.InnerWidth() / 2, Y: rc.InnerHeight() + 40},
		YTitle:  Title{ID: IDYTitle, Text: "Time in Minutes", X: -40, Y: rc.InnerHeight() / 2, Rotate: -90},
		Legend:  BuildLegend(rc),
	}
}

// Scales computes the year and time mappings. The year domain is widened to
// round values; the time domain is the exact extent, with the earliest time
// at the top.
func Scales(rc RenderContext, points []record.Point) (x, y scale.Linear) {
	years := make([]float64, len(points))
	times := make([]float64, len(points))
	for i, p := range points {
		years[i] = p.Year
		times[i] = p.Time.Millis()
	}

	x0, x1 := scale.Extent(years)
	x = scale.NewLinear(x0, x1, 0, rc.InnerWidth()).Nice(rc.XTicks)

	y0, y1 := scale.Extent(times)
	y = scale.NewLinear(y0, y1, 0, rc.InnerHeight())
	return x, y
}

// Marks lays out one mark per point.
func Marks(rc RenderContext, x, y scale.Linear, points []record.Point) []Mark {
	marks := make([]Mark, len(points))
	for i, p := range points {
		marks[i] = Mark{
			Point:   p,
			CX:      x.Map(p.Year),
			CY:      y.Map(p.Time.Millis()),
			R:       rc.DotRadius,
			Fill:    rc.Color(p.Doping),
			XValue:  p.Record.Year,
			YValue:  p.Time.String(),
			Tooltip: tooltip.Text(p.Record),
		}
	}
	return marks
}

// XAxis places integer-labelled year ticks along the bottom edge.
func XAxis(rc RenderContext, x scale.Linear) Axis {
	d0, d1 := x.Domain()
	values := scale.Ticks(d0, d1, rc.XTicks)
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Value: v, Pos: x.Map(v), Label: FormatYear(v)}
	}
	return Axis{ID: IDXAxis, Ticks: ticks, Length: rc.InnerWidth(), Y: rc.InnerHeight()}
}

// YAxis places "MM:SS" ticks along the left edge.
func YAxis(rc RenderContext, y scale.Linear) Axis {
	d0, d1 := y.Domain()
	values := scale.TimeTicks(d0, d1, rc.YTicks, rc.Location)
	ticks := make([]Tick, len(values))
	for i, v := range values {
		ticks[i] = Tick{Value: v, Pos: y.Map(v), Label: timeparse.FromMillis(v, rc.Location).Label()}
	}
	return Axis{ID: IDYAxis, Ticks: ticks, Length: rc.InnerHeight()}
}

// BuildLegend stacks one entry per category in the fixed domain order.
func BuildLegend(rc RenderContext) Legend {
	cats := rc.Categories()
	entries := make([]LegendEntry, len(cats))
	for i, c := range cats {
		entries[i] = LegendEntry{
			Doping:  c,
			Fill:    rc.Color(c),
			Label:   Label(c),
			Size:    legendSwatch,
			SwatchY: float64(legendSpacing * i),
			LabelX:  legendLabelX,
			LabelY:  float64(legendSpacing*i + legendSwatch),
		}
	}
	return Legend{X: rc.InnerWidth() * legendX, Y: rc.InnerHeight() / 2, Entries: entries}
}

// FormatYear renders a tick value as a plain integer without separators.
func FormatYear(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

// SurfaceWidth and SurfaceHeight are the outer drawing size.
func (p Plot) SurfaceWidth() float64  { return p.Context.Width }
func (p Plot) SurfaceHeight() float64 { return p.Context.Height }

// Partition counts marks per category.
func (p Plot) Partition() (doping, clean int) {
	for _, m := range p.Marks {
		if m.Point.Doping {
			doping++
		} else {
			clean++
		}
	}
	return doping, clean
}
