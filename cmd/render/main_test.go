package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	app "github.com/okian/dopingplot/internal/app"
	"github.com/okian/dopingplot/internal/config"
	"github.com/okian/dopingplot/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var fixture = filepath.Join("..", "..", "internal", "adapters", "source", "testdata", "cyclists.json")

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestParseArgs(t *testing.T) {
	Convey("Given command line arguments", t, func() {
		cfg := config.New()

		Convey("When none are passed", func() {
			o, err := parseArgs(nil, cfg)

			Convey("Then defaults come from configuration", func() {
				So(err, ShouldBeNil)
				So(o.data, ShouldEqual, config.DefaultDataURL)
				So(o.format, ShouldEqual, "svg")
				So(o.out, ShouldEqual, "")
			})
		})

		Convey("When only the output file is given", func() {
			o, err := parseArgs([]string{"-out", "chart.png"}, cfg)

			Convey("Then the format follows the extension", func() {
				So(err, ShouldBeNil)
				So(o.format, ShouldEqual, "png")
			})
		})

		Convey("When flags are unknown or arguments are left over", func() {
			_, err1 := parseArgs([]string{"-bogus"}, cfg)
			_, err2 := parseArgs([]string{"extra"}, cfg)

			Convey("Then a usage error is returned", func() {
				So(errors.Is(err1, ErrUsage), ShouldBeTrue)
				So(errors.Is(err2, ErrUsage), ShouldBeTrue)
			})
		})
	})
}

func TestKindFor(t *testing.T) {
	Convey("Given format names", t, func() {
		k, err := kindFor("HTML")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, app.KindPage)

		k, _ = kindFor("png")
		So(k, ShouldEqual, app.KindPNG)

		_, err = kindFor("gif")
		So(errors.Is(err, ErrUsage), ShouldBeTrue)
	})
}

func TestRun(t *testing.T) {
	Convey("Given the dataset on disk", t, func() {
		ctx := context.Background()
		dir := t.TempDir()

		Convey("When rendering SVG to stdout", func() {
			var out bytes.Buffer
			err := run(ctx, []string{"-data", fixture}, &out)

			Convey("Then the document has one dot per record", func() {
				So(err, ShouldBeNil)
				So(strings.Count(out.String(), `class="dot"`), ShouldEqual, 10)
			})
		})

		Convey("When rendering PNG to a file", func() {
			path := filepath.Join(dir, "chart.png")
			err := run(ctx, []string{"-data", fixture, "-out", path}, &bytes.Buffer{})

			Convey("Then the file is a decodable image", func() {
				So(err, ShouldBeNil)
				f, err := os.Open(path)
				So(err, ShouldBeNil)
				defer f.Close()
				_, err = png.Decode(f)
				So(err, ShouldBeNil)
			})
		})

		Convey("When rendering the HTML page to a file", func() {
			path := filepath.Join(dir, "index.html")
			So(run(ctx, []string{"-data", fixture, "-out", path}, &bytes.Buffer{}), ShouldBeNil)

			body, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(body), ShouldContainSubstring, `id="scatter-plot-container"`)
		})

		Convey("When the dataset is missing", func() {
			err := run(ctx, []string{"-data", filepath.Join(dir, "nope.json")}, &bytes.Buffer{})

			So(err, ShouldNotBeNil)
		})
	})
}
