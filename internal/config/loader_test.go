package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/dopingplot/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DataURL, convey.ShouldEqual, config.DefaultDataURL)
				convey.So(cfg.FetchTimeoutMS, convey.ShouldEqual, 10_000)
				convey.So(cfg.MalformedPolicy, convey.ShouldEqual, "propagate")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DOPINGPLOT_ADDR", ":8080")
			_ = os.Setenv("DOPINGPLOT_DATA_URL", "testdata/cyclists.json")
			_ = os.Setenv("DOPINGPLOT_FETCH_TIMEOUT_MS", "2500")
			_ = os.Setenv("DOPINGPLOT_DOT_RADIUS", "4.5")
			_ = os.Setenv("DOPINGPLOT_MALFORMED_POLICY", "reject")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataURL, convey.ShouldEqual, "testdata/cyclists.json")
				convey.So(cfg.FetchTimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.DotRadius, convey.ShouldEqual, 4.5)
				convey.So(cfg.MalformedPolicy, convey.ShouldEqual, config.PolicyReject)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
width: 1000
height: 500
y_ticks: 8
tooltip_offset: 10
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DOPINGPLOT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.Width, convey.ShouldEqual, 1000)
				convey.So(cfg.Height, convey.ShouldEqual, 500)
				convey.So(cfg.YTicks, convey.ShouldEqual, 8)
				convey.So(cfg.TooltipOffset, convey.ShouldEqual, 10)
				convey.So(cfg.MarginLeft, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
width: 1000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DOPINGPLOT_CONFIG", tmpFile)
			_ = os.Setenv("DOPINGPLOT_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Width, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("DOPINGPLOT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("DOPINGPLOT_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("DOPINGPLOT_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown malformed policy", func() {
			_ = os.Setenv("DOPINGPLOT_MALFORMED_POLICY", "shrug")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("DOPINGPLOT_WIDTH", "wide")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"DOPINGPLOT_CONFIG",
		"DOPINGPLOT_ADDR",
		"DOPINGPLOT_DATA_URL",
		"DOPINGPLOT_FETCH_TIMEOUT_MS",
		"DOPINGPLOT_DOT_RADIUS",
		"DOPINGPLOT_MALFORMED_POLICY",
		"DOPINGPLOT_WIDTH",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "dopingplot-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
