// Package tooltip formats hover text for a record and tracks the floating
// panel's visibility and position.
package tooltip

import (
	"strconv"

	"github.com/okian/dopingplot/internal/domain/record"
)

// HiddenClass is the CSS class carried by the panel while hidden.
const HiddenClass = "tooltip--hidden"

// Text builds the hover text for r. The doping note, when present, follows
// a line holding a single space.
func Text(r record.Record) string {
	s := r.Name + ": " + r.Nationality + "\n" +
		"Year: " + strconv.Itoa(r.Year) + ", Time: " + r.Time + " "
	if r.HasDoping() {
		s += "\n \n" + r.Doping
	}
	return s
}

// State is the full panel state after an event.
type State struct {
	Visible bool    `json:"visible"`
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Year    int     `json:"year,omitempty"`
	Text    string  `json:"text,omitempty"`
}

// Class returns the panel's CSS class list.
func (s State) Class() string {
	if s.Visible {
		return ""
	}
	return HiddenClass
}

// Controller turns pointer events into panel states. It holds no per-event
// state, so concurrent use is safe.
type Controller struct {
	offset float64
}

// NewController returns a Controller placing the panel offset pixels right
// of and below the pointer.
func NewController(offset float64) *Controller {
	return &Controller{offset: offset}
}

// Offset returns the pointer offset in pixels.
func (c *Controller) Offset() float64 { return c.offset }

// Enter handles pointer-enter on p's mark at page coordinates (x, y).
func (c *Controller) Enter(p record.Point, x, y float64) State {
	return State{
		Visible: true,
		Left:    x + c.offset,
		Top:     y + c.offset,
		Year:    p.Record.Year,
		Text:    Text(p.Record),
	}
}

// Leave handles pointer-leave. Only visibility changes; position and text
// stay as they were.
func (c *Controller) Leave(prev State) State {
	prev.Visible = false
	return prev
}

// Initial is the state before any pointer event.
func (c *Controller) Initial() State {
	return State{}
}
