package service

import (
	"github.com/okian/dopingplot/internal/config"
	"github.com/okian/dopingplot/internal/domain/plot"
)

// RenderContext builds the drawing surface described by cfg.
func RenderContext(cfg *config.Config) plot.RenderContext {
	return plot.NewRenderContext(
		float64(cfg.Width),
		float64(cfg.Height),
		plot.Margin{
			Top:    float64(cfg.MarginTop),
			Right:  float64(cfg.MarginRight),
			Bottom: float64(cfg.MarginBottom),
			Left:   float64(cfg.MarginLeft),
		},
		plot.WithDotRadius(cfg.DotRadius),
		plot.WithYTicks(cfg.YTicks),
	)
}

// OptionsFromConfig maps cfg onto service options.
func OptionsFromConfig(cfg *config.Config) []Option {
	return []Option{
		WithDataURL(cfg.DataURL),
		WithFetchTimeout(cfg.FetchTimeout()),
		WithMalformedPolicy(cfg.MalformedPolicy),
		WithRenderContext(RenderContext(cfg)),
		WithTooltipOffset(float64(cfg.TooltipOffset)),
	}
}
