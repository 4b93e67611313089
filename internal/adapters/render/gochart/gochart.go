// Package gochart renders a plot through go-chart, producing PNG or SVG
// output without a browser.
package gochart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/okian/dopingplot/internal/domain/plot"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format selects the output encoding.
type Format string

// Supported formats.
const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ErrRender indicates that a chart could not be produced.
var ErrRender = errors.New("chart render failed")

// ErrUnsupportedFormat is returned for formats other than png and svg.
var ErrUnsupportedFormat = errors.New("unsupported chart format")

// Padding applied around a collapsed domain so the chart has a range.
const (
	yearPad = 1
	timePad = 1000
)

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// ParseFormat accepts "png" and "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatSVG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func dotStyle(hex string, r float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    r,
		DotColor:    drawing.ColorFromHex(strings.TrimPrefix(hex, "#")),
	}
}

// Chart converts p into a go-chart definition. Marks of each category form
// one dot-only series; categories without marks are left out because
// go-chart rejects empty series.
func Chart(p plot.Plot) (chart.Chart, error) {
	x0, x1 := p.X.Domain()
	y0, y1 := p.Y.Domain()
	if anyNaN(x0, x1, y0, y1) {
		return chart.Chart{}, fmt.Errorf("%w: domain is not a number", ErrRender)
	}
	if x0 == x1 {
		x0, x1 = x0-yearPad, x1+yearPad
	}
	if y0 == y1 {
		y0, y1 = y0-timePad, y1+timePad
	}

	var series []chart.Series
	for _, c := range p.Context.Categories() {
		var xs, ys []float64
		for _, m := range p.Marks {
			if m.Point.Doping != c {
				continue
			}
			xs = append(xs, m.Point.Year)
			ys = append(ys, m.Point.Time.Millis())
		}
		if len(xs) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    plot.Label(c),
			XValues: xs,
			YValues: ys,
			Style:   dotStyle(p.Context.Color(c), p.Context.DotRadius),
		})
	}
	if len(series) == 0 {
		return chart.Chart{}, fmt.Errorf("%w: no marks", ErrRender)
	}

	m := p.Context.Margin
	ch := chart.Chart{
		Width:  int(p.SurfaceWidth()),
		Height: int(p.SurfaceHeight()),
		Background: chart.Style{
			Padding: chart.Box{Top: int(m.Top), Left: int(m.Left), Right: int(m.Right), Bottom: int(m.Bottom)},
		},
		XAxis: chart.XAxis{
			Name:  p.XTitle.Text,
			Range: &chart.ContinuousRange{Min: x0, Max: x1},
			Ticks: ticks(p.XAxis, x0, x1),
		},
		YAxis: chart.YAxis{
			Name:      p.YTitle.Text,
			AxisType:  chart.YAxisPrimary,
			Range:     &chart.ContinuousRange{Min: y0, Max: y1, Descending: true},
			Ticks:     ticks(p.YAxis, y0, y1),
			NameStyle: chart.Style{TextRotationDegrees: 90},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch, nil
}

// Render writes p to w in format f.
func Render(w io.Writer, p plot.Plot, f Format) error {
	var provider chart.RendererProvider
	switch f {
	case FormatPNG:
		provider = chart.PNG
	case FormatSVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
	ch, err := Chart(p)
	if err != nil {
		return err
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// ticks keeps the axis labels that fall inside [lo, hi]. With fewer than two
// left, go-chart generates its own.
func ticks(a plot.Axis, lo, hi float64) []chart.Tick {
	out := make([]chart.Tick, 0, len(a.Ticks))
	for _, t := range a.Ticks {
		if t.Value < lo || t.Value > hi {
			continue
		}
		out = append(out, chart.Tick{Value: t.Value, Label: t.Label})
	}
	if len(out) < 2 {
		return nil
	}
	return out
}

func anyNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
