// Package svg writes a plot as a standalone SVG document or as an HTML page
// with the hover script inlined.
package svg

import (
	"bufio"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"
	"sync"

	"github.com/okian/dopingplot/internal/domain/plot"
	"github.com/okian/dopingplot/internal/domain/tooltip"
)

// DefaultTitle heads the HTML page.
const DefaultTitle = "Doping in Professional Bicycle Racing"

// tickOffset aligns 1px strokes to the pixel grid.
const tickOffset = 0.5

var funcMap = template.FuncMap{
	"num":       formatNum,
	"translate": translate,
	"transform": transform,
	"crisp":     func(v float64) float64 { return v + tickOffset },
	"leftDomain": func(a plot.Axis) string {
		l := formatNum(a.Length + tickOffset)
		return "M-6,0.5H0.5V" + l + "H-6"
	},
	"bottomDomain": func(a plot.Axis) string {
		l := formatNum(a.Length + tickOffset)
		return "M0.5,6V0.5H" + l + "V6"
	},
}

var (
	tmpl     *template.Template
	tmplOnce sync.Once
)

func templates() *template.Template {
	tmplOnce.Do(func() {
		tmpl = template.Must(template.New("svg").Funcs(funcMap).Parse(tmplSurface + tmplPage))
	})
	return tmpl
}

// PageOption customizes WritePage.
type PageOption func(*page)

// WithTitle replaces the page heading.
func WithTitle(title string) PageOption {
	return func(p *page) { p.Title = title }
}

// WithTooltip sets the panel state rendered into the page.
func WithTooltip(s tooltip.State) PageOption {
	return func(p *page) { p.Tooltip = s }
}

// WithOffset sets the pointer offset the hover script applies.
func WithOffset(px float64) PageOption {
	return func(p *page) { p.Offset = px }
}

type page struct {
	Title       string
	ContainerID string
	SurfaceID   string
	TooltipID   string
	Offset      float64
	Tooltip     tooltip.State
	Plot        plot.Plot
}

// WriteSVG writes p as a standalone SVG document.
func WriteSVG(w io.Writer, p plot.Plot) error {
	return execute(w, "surface", page{Plot: p})
}

// WritePage writes p as an HTML page with a hidden tooltip panel and the
// hover script.
func WritePage(w io.Writer, p plot.Plot, opts ...PageOption) error {
	pg := page{
		Title:       DefaultTitle,
		ContainerID: plot.IDContainer,
		SurfaceID:   plot.IDSurface,
		TooltipID:   plot.IDTooltip,
		Tooltip:     tooltip.State{},
		Plot:        p,
	}
	for _, opt := range opts {
		opt(&pg)
	}
	return execute(w, "page", pg)
}

func execute(w io.Writer, name string, data page) error {
	bw := bufio.NewWriter(w)
	if err := templates().ExecuteTemplate(bw, name, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}
	return nil
}

// formatNum prints the shortest decimal form; non-finite values print as
// NaN so a broken domain stays visible in the output.
func formatNum(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func translate(x, y float64) string {
	return "translate(" + formatNum(x) + "," + formatNum(y) + ")"
}

func transform(x, y, rotate float64) string {
	s := translate(x, y)
	if rotate != 0 {
		s += " rotate(" + formatNum(rotate) + ")"
	}
	return s
}
