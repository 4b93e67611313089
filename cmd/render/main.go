// Command render fetches the dataset once and writes the plot to a file.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/dopingplot/internal/adapters/source"
	app "github.com/okian/dopingplot/internal/app"
	"github.com/okian/dopingplot/internal/config"
	"github.com/okian/dopingplot/pkg/logger"
)

// ErrUsage reports invalid command line arguments.
var ErrUsage = errors.New("usage")

type options struct {
	data   string
	out    string
	format string
}

func main() {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func parseArgs(args []string, cfg *config.Config) (options, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o := options{}
	fs.StringVar(&o.data, "data", cfg.DataURL, "dataset URL or file path")
	fs.StringVar(&o.out, "out", "", "output file; stdout when empty")
	fs.StringVar(&o.format, "format", "", "svg, html or png; inferred from -out when empty")
	if err := fs.Parse(args); err != nil {
		return o, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}
	if o.format == "" {
		o.format = strings.TrimPrefix(filepath.Ext(o.out), ".")
	}
	if o.format == "" {
		o.format = "svg"
	}
	return o, nil
}

func kindFor(format string) (app.Kind, error) {
	switch strings.ToLower(format) {
	case "svg":
		return app.KindSVG, nil
	case "html", "htm":
		return app.KindPage, nil
	case "png":
		return app.KindPNG, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", ErrUsage, format)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	o, err := parseArgs(args, cfg)
	if err != nil {
		return err
	}
	kind, err := kindFor(o.format)
	if err != nil {
		return err
	}

	lg := logger.Get()
	opts := append(app.OptionsFromConfig(cfg),
		app.WithDataURL(o.data),
		app.WithLoader(source.New(source.WithLogger(lg.Named("source")))),
		app.WithLogger(lg),
	)
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	out, err := svc.Render(ctx, kind)
	if err != nil {
		return err
	}
	if o.out == "" {
		_, err := io.Copy(stdout, bytes.NewReader(out))
		return err
	}
	if err := os.WriteFile(o.out, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", o.out, err)
	}
	lg.Info(ctx, "chart written", logger.String("path", o.out), logger.String("format", string(kind)), logger.Int("bytes", len(out)))
	return nil
}
