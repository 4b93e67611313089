// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New(); Load layers a YAML file and env on top.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDataURL is the public cyclist dataset the plot was designed around.
const DefaultDataURL = "https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/cyclist-data.json"

// Malformed record policies.
const (
	PolicyPropagate = "propagate"
	PolicyReject    = "reject"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataURL is the dataset location: http(s) URL, file:// URL or a plain path.
	DataURL string `koanf:"data_url"`

	// FetchTimeoutMS bounds the single dataset request.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// Width and Height are the outer surface dimensions in pixels.
	Width  int `koanf:"width"`
	Height int `koanf:"height"`

	MarginTop    int `koanf:"margin_top"`
	MarginRight  int `koanf:"margin_right"`
	MarginBottom int `koanf:"margin_bottom"`
	MarginLeft   int `koanf:"margin_left"`

	// DotRadius is the radius of every mark.
	DotRadius float64 `koanf:"dot_radius"`

	// YTicks is the requested tick count on the time axis.
	YTicks int `koanf:"y_ticks"`

	// TooltipOffset is added to the pointer position on both axes.
	TooltipOffset int `koanf:"tooltip_offset"`

	// MalformedPolicy decides what happens to records whose time or year
	// cannot be parsed: "propagate" keeps them (NaN reaches the scale),
	// "reject" drops them at enrichment.
	MalformedPolicy string `koanf:"malformed_policy"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		DataURL:         DefaultDataURL,
		FetchTimeoutMS:  10_000,
		Width:           800,
		Height:          400,
		MarginTop:       20,
		MarginRight:     20,
		MarginBottom:    20,
		MarginLeft:      50,
		DotRadius:       6,
		YTicks:          6,
		TooltipOffset:   5,
		MalformedPolicy: PolicyPropagate,
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DataURL) == "":
		return fmt.Errorf("%w: data_url must not be empty", ErrInvalidConfig)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	case c.Width-c.MarginLeft-c.MarginRight <= 0:
		return fmt.Errorf("%w: width leaves no room for the plot", ErrInvalidConfig)
	case c.Height-c.MarginTop-c.MarginBottom <= 0:
		return fmt.Errorf("%w: height leaves no room for the plot", ErrInvalidConfig)
	case c.DotRadius <= 0:
		return fmt.Errorf("%w: dot_radius must be positive", ErrInvalidConfig)
	case c.YTicks <= 0:
		return fmt.Errorf("%w: y_ticks must be positive", ErrInvalidConfig)
	}
	switch c.MalformedPolicy {
	case PolicyPropagate, PolicyReject:
	default:
		return fmt.Errorf("%w: malformed_policy %q", ErrInvalidConfig, c.MalformedPolicy)
	}
	return nil
}
