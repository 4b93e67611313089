// Package plot turns enriched records into a render-ready scatter plot:
// scales, marks, axes, titles and legend.
package plot

import (
	"time"
)

// Category colors, the first two entries of d3's category10 scheme.
const (
	ColorDoping   = "#1f77b4"
	ColorNoDoping = "#ff7f0e"
)

// Legend labels per category.
const (
	LabelDoping   = "Riders with doping allegations"
	LabelNoDoping = "No doping allegations"
)

// Margin is the space between the surface edge and the plot area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// RenderContext carries everything the builders need about the drawing
// surface. It is constructed once and passed explicitly.
type RenderContext struct {
	// Width and Height are the outer surface size.
	Width, Height float64
	Margin        Margin

	DotRadius float64
	YTicks    int
	XTicks    int

	// Location is used for time tick alignment and labels.
	Location *time.Location
}

// Option customizes a RenderContext.
type Option func(*RenderContext)

// WithDotRadius sets the mark radius.
func WithDotRadius(r float64) Option {
	return func(rc *RenderContext) {
		if r > 0 {
			rc.DotRadius = r
		}
	}
}

// WithYTicks sets the requested tick count on the time axis.
func WithYTicks(n int) Option {
	return func(rc *RenderContext) {
		if n > 0 {
			rc.YTicks = n
		}
	}
}

// WithLocation sets the time zone for time ticks.
func WithLocation(loc *time.Location) Option {
	return func(rc *RenderContext) {
		if loc != nil {
			rc.Location = loc
		}
	}
}

// NewRenderContext builds a context for an outer surface of width x height.
func NewRenderContext(width, height float64, m Margin, opts ...Option) RenderContext {
	rc := RenderContext{
		Width:     width,
		Height:    height,
		Margin:    m,
		DotRadius: 6,
		YTicks:    6,
		XTicks:    10,
		Location:  time.Local,
	}
	for _, opt := range opts {
		opt(&rc)
	}
	return rc
}

// DefaultRenderContext is the 800x400 surface with 20/20/20/50 margins.
func DefaultRenderContext(opts ...Option) RenderContext {
	return NewRenderContext(800, 400, Margin{Top: 20, Right: 20, Bottom: 20, Left: 50}, opts...)
}

// InnerWidth is the width of the plot area.
func (rc RenderContext) InnerWidth() float64 { return rc.Width - rc.Margin.Left - rc.Margin.Right }

// InnerHeight is the height of the plot area.
func (rc RenderContext) InnerHeight() float64 { return rc.Height - rc.Margin.Top - rc.Margin.Bottom }

// Categories is the fixed color domain order.
func (rc RenderContext) Categories() []bool { return []bool{true, false} }

// Color maps a category to its fill.
func (rc RenderContext) Color(doping bool) string {
	if doping {
		return ColorDoping
	}
	return ColorNoDoping
}

// Label is the legend text of a category.
func Label(doping bool) string {
	if doping {
		return LabelDoping
	}
	return LabelNoDoping
}
