// Package source loads the cyclist dataset from an HTTP(S) URL or a local file.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/okian/dopingplot/internal/domain/record"
	"github.com/okian/dopingplot/pkg/logger"
	"github.com/okian/dopingplot/pkg/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	// maxBody caps how much of a response is read.
	maxBody = 16 << 20
)

// Loader fetches the dataset once per call.
type Loader struct {
	client *http.Client
	logger logger.Logger
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithLogger sets the logger used for failure reports.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// New constructs a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{client: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the records at location: an http(s) URL, a file:// URL or a
// filesystem path. A non-2xx response has its body logged (decoded as JSON
// when possible) and yields ErrFetch.
func (l *Loader) Load(ctx context.Context, location string) ([]record.Record, error) {
	start := time.Now()
	defer func() {
		metrics.RecordFetchDuration(float64(time.Since(start).Microseconds()) / 1000)
	}()

	u, err := url.Parse(location)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return l.fetch(ctx, location)
	}
	path := location
	if err == nil && u.Scheme == "file" {
		path = u.Path
	}
	return l.readFile(ctx, path)
}

func (l *Loader) fetch(ctx context.Context, location string) ([]record.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		metrics.RecordFetchError("transport")
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		metrics.RecordFetchError("transport")
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		metrics.RecordFetchError("transport")
		return nil, fmt.Errorf("%w: read body: %w", ErrFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordFetchError("status")
		l.log().Error(ctx, "dataset request failed",
			logger.String("url", location),
			logger.Int("status", resp.StatusCode),
			logger.Any("body", describeBody(body)),
		)
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	return l.decode(ctx, location, body)
}

func (l *Loader) readFile(ctx context.Context, path string) ([]record.Record, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		metrics.RecordFetchError("transport")
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return l.decode(ctx, path, body)
}

func (l *Loader) decode(ctx context.Context, location string, body []byte) ([]record.Record, error) {
	var records []record.Record
	if err := json.Unmarshal(body, &records); err != nil {
		metrics.RecordFetchError("decode")
		l.log().Error(ctx, "dataset decode failed",
			logger.String("location", location),
			logger.Any("body", describeBody(body)),
			logger.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	l.log().Debug(ctx, "dataset decoded",
		logger.String("location", location),
		logger.Int("records", len(records)),
	)
	return records, nil
}

func (l *Loader) log() logger.Logger {
	if l.logger == nil {
		return logger.Get()
	}
	return l.logger
}

// describeBody returns the decoded JSON value when body is JSON, otherwise
// the trimmed text.
func describeBody(body []byte) any {
	var v any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&v); err == nil {
		return v
	}
	return strings.TrimSpace(string(body))
}
