// Package service loads the cyclist dataset once, builds the immutable plot
// model and serves renderings and tooltip states to the HTTP API.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/dopingplot/internal/adapters/render/gochart"
	"github.com/okian/dopingplot/internal/adapters/render/svg"
	"github.com/okian/dopingplot/internal/adapters/rendercache"
	"github.com/okian/dopingplot/internal/config"
	"github.com/okian/dopingplot/internal/domain/plot"
	"github.com/okian/dopingplot/internal/domain/record"
	"github.com/okian/dopingplot/internal/domain/tooltip"
	"github.com/okian/dopingplot/pkg/logger"
	"github.com/okian/dopingplot/pkg/metrics"
)

// Loader fetches the raw dataset.
type Loader interface {
	Load(ctx context.Context, location string) ([]record.Record, error)
}

// Kind names one rendering of the plot.
type Kind string

// Supported renderings.
const (
	KindPage      Kind = "page"
	KindSVG       Kind = "svg"
	KindPNG       Kind = "png"
	KindExportSVG Kind = "export_svg"
)

// ContentType returns the MIME type of k.
func (k Kind) ContentType() string {
	switch k {
	case KindPage:
		return "text/html; charset=utf-8"
	case KindPNG:
		return "image/png"
	default:
		return "image/svg+xml"
	}
}

// Service owns the plot model for the lifetime of the process.
type Service struct {
	mu sync.RWMutex

	// Core components
	loader   Loader
	tooltips *tooltip.Controller
	cache    rendercache.Cache

	// Configuration
	dataURL      string
	fetchTimeout time.Duration
	policy       string
	rc           plot.RenderContext
	now          func() time.Time

	// State
	started   bool
	startedAt time.Time
	points    []record.Point
	malformed []record.Point
	plot      plot.Plot

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLoader sets the dataset loader.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithDataURL sets the dataset location, a URL or a file path.
func WithDataURL(location string) Option {
	return func(s *Service) {
		if location != "" {
			s.dataURL = location
		}
	}
}

// WithFetchTimeout bounds the dataset request.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithMalformedPolicy selects how records with unusable values are handled:
// config.PolicyPropagate or config.PolicyReject.
func WithMalformedPolicy(policy string) Option {
	return func(s *Service) {
		if policy == config.PolicyPropagate || policy == config.PolicyReject {
			s.policy = policy
		}
	}
}

// WithRenderContext sets the drawing surface.
func WithRenderContext(rc plot.RenderContext) Option {
	return func(s *Service) {
		s.rc = rc
	}
}

// WithTooltipOffset sets the pointer offset of the tooltip panel in pixels.
func WithTooltipOffset(px float64) Option {
	return func(s *Service) {
		s.tooltips = tooltip.NewController(px)
	}
}

// WithCache replaces the rendering cache.
func WithCache(c rendercache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithClock sets the time source anchoring parsed times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataURL:      config.DefaultDataURL,
		fetchTimeout: 10 * time.Second,
		policy:       config.PolicyPropagate,
		rc:           plot.DefaultRenderContext(),
		tooltips:     tooltip.NewController(5),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = rendercache.New()
	}
	return s
}

// Start fetches the dataset and builds the plot. It returns the fetch or
// decode error unchanged in the chain; the service stays stopped then.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.loader == nil {
		return errors.New("start: no dataset loader configured")
	}

	s.logger.Info(ctx, "starting plot service...",
		logger.String("data_url", s.dataURL),
		logger.Duration("fetch_timeout", s.fetchTimeout),
		logger.String("malformed_policy", s.policy),
	)

	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	records, err := s.loader.Load(fctx, s.dataURL)
	cancel()
	if err != nil {
		s.logger.Error(ctx, "failed to load dataset", logger.Error(err))
		return fmt.Errorf("start: %w", err)
	}

	points := record.Enrich(records, s.now())
	var malformed []record.Point
	if s.policy == config.PolicyReject {
		points, malformed = record.Partition(points)
		for _, p := range malformed {
			s.logger.Warn(ctx, "dropping record",
				logger.Error(fmt.Errorf("%w: index %d", ErrMalformedRecord, p.Index)),
				logger.String("name", p.Record.Name),
				logger.String("time", p.Record.Time),
				logger.Int("year", p.Record.Year),
			)
		}
	} else {
		for _, p := range points {
			if !p.Valid() {
				malformed = append(malformed, p)
			}
		}
		if len(malformed) > 0 {
			s.logger.Warn(ctx, "malformed records reach the scales",
				logger.Int("count", len(malformed)),
			)
		}
	}
	metrics.RecordMalformed(s.policy, len(malformed))

	s.points = points
	s.malformed = malformed
	s.plot = plot.Build(s.rc, points)
	s.cache.Purge(ctx)

	doping, clean := s.plot.Partition()
	metrics.UpdateRecordsLoaded(len(points))
	metrics.UpdateMarks(doping, clean)

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "plot service started",
		logger.Int("records", len(records)),
		logger.Int("marks", len(s.plot.Marks)),
		logger.Int("doping", doping),
		logger.Int("clean", clean),
		logger.Int("malformed", len(malformed)),
	)
	return nil
}

// Stop releases the plot model.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping plot service...")
	s.cache.Purge(ctx)
	s.points = nil
	s.malformed = nil
	s.plot = plot.Plot{}
	s.started = false
	s.logger.Info(ctx, "plot service stopped")
}

// Plot returns the built model.
func (s *Service) Plot() (plot.Plot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return plot.Plot{}, ErrNotStarted
	}
	return s.plot, nil
}

// Points returns the enriched records in mark order.
func (s *Service) Points() ([]record.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	out := make([]record.Point, len(s.points))
	copy(out, s.points)
	return out, nil
}

// TooltipOffset returns the pointer offset of the tooltip panel.
func (s *Service) TooltipOffset() float64 {
	return s.tooltips.Offset()
}

// Tooltip returns the panel state after the pointer enters mark index at
// page coordinates (x, y).
func (s *Service) Tooltip(ctx context.Context, index int, x, y float64) (tooltip.State, error) {
	p, err := s.point(index)
	if err != nil {
		return tooltip.State{}, err
	}
	metrics.RecordTooltipEvent("enter")
	st := s.tooltips.Enter(p, x, y)
	s.log().Debug(ctx, "tooltip shown",
		logger.Int("index", index),
		logger.Int("year", st.Year),
	)
	return st, nil
}

// TooltipLeave returns the panel state after the pointer leaves mark index,
// having entered at (x, y).
func (s *Service) TooltipLeave(ctx context.Context, index int, x, y float64) (tooltip.State, error) {
	p, err := s.point(index)
	if err != nil {
		return tooltip.State{}, err
	}
	metrics.RecordTooltipEvent("leave")
	return s.tooltips.Leave(s.tooltips.Enter(p, x, y)), nil
}

func (s *Service) point(index int) (record.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return record.Point{}, ErrNotStarted
	}
	if index < 0 || index >= len(s.points) {
		return record.Point{}, fmt.Errorf("%w: index %d of %d", ErrPointNotFound, index, len(s.points))
	}
	return s.points[index], nil
}

// Render returns the plot encoded as k. Each kind is encoded once and then
// served from the cache.
func (s *Service) Render(ctx context.Context, k Kind) ([]byte, error) {
	p, err := s.Plot()
	if err != nil {
		return nil, err
	}

	var draw func(*bytes.Buffer) error
	switch k {
	case KindPage:
		draw = func(b *bytes.Buffer) error { return svg.WritePage(b, p, svg.WithOffset(s.TooltipOffset())) }
	case KindSVG:
		draw = func(b *bytes.Buffer) error { return svg.WriteSVG(b, p) }
	case KindPNG:
		draw = func(b *bytes.Buffer) error { return gochart.Render(b, p, gochart.FormatPNG) }
	case KindExportSVG:
		draw = func(b *bytes.Buffer) error { return gochart.Render(b, p, gochart.FormatSVG) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
	}

	out, hit, err := s.cache.GetOrRender(ctx, string(k), func(ctx context.Context) ([]byte, error) {
		start := time.Now()
		var buf bytes.Buffer
		if err := draw(&buf); err != nil {
			return nil, err
		}
		metrics.RecordRenderDuration(string(k), float64(time.Since(start).Milliseconds()))
		return buf.Bytes(), nil
	})
	if err != nil {
		metrics.RecordRenderError(string(k))
		s.log().Error(ctx, "render failed", logger.String("kind", string(k)), logger.Error(err))
		return nil, err
	}
	s.log().Debug(ctx, "rendered", logger.String("kind", string(k)), logger.Bool("cached", hit), logger.Int("bytes", len(out)))
	return out, nil
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"dataUrl":          s.dataURL,
		"malformedPolicy":  s.policy,
		"fetchTimeoutMs":   s.fetchTimeout.Milliseconds(),
		"cachedRenderings": s.cache.Size(),
	}
	if s.started {
		doping, clean := s.plot.Partition()
		x0, x1 := s.plot.X.Domain()
		stats["records"] = len(s.points)
		stats["malformed"] = len(s.malformed)
		stats["doping"] = doping
		stats["clean"] = clean
		stats["yearDomain"] = []string{plot.FormatYear(x0), plot.FormatYear(x1)}
		stats["startedAt"] = s.startedAt.Format(time.RFC3339)
	}
	return stats
}
