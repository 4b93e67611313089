package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/dopingplot/internal/adapters/http/api"
	service "github.com/okian/dopingplot/internal/app"
	"github.com/okian/dopingplot/internal/domain/record"
	"github.com/okian/dopingplot/internal/domain/tooltip"
	. "github.com/smartystreets/goconvey/convey"
)

var ref = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

// Mock implementations for testing
type mockDependencies struct {
	points    []record.Point
	err       error
	renderErr error
	rendered  []service.Kind
	offset    float64
}

func (m *mockDependencies) Points() ([]record.Point, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.points, nil
}

func (m *mockDependencies) point(index int) (record.Point, error) {
	if m.err != nil {
		return record.Point{}, m.err
	}
	if index < 0 || index >= len(m.points) {
		return record.Point{}, fmt.Errorf("%w: index %d", service.ErrPointNotFound, index)
	}
	return m.points[index], nil
}

func (m *mockDependencies) Tooltip(_ context.Context, index int, x, y float64) (tooltip.State, error) {
	p, err := m.point(index)
	if err != nil {
		return tooltip.State{}, err
	}
	return tooltip.NewController(m.offset).Enter(p, x, y), nil
}

func (m *mockDependencies) TooltipLeave(ctx context.Context, index int, x, y float64) (tooltip.State, error) {
	st, err := m.Tooltip(ctx, index, x, y)
	if err != nil {
		return st, err
	}
	return tooltip.NewController(m.offset).Leave(st), nil
}

func (m *mockDependencies) Render(_ context.Context, k service.Kind) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.renderErr != nil {
		return nil, m.renderErr
	}
	m.rendered = append(m.rendered, k)
	return []byte("rendered:" + string(k)), nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newDeps() *mockDependencies {
	return &mockDependencies{
		offset: 5,
		points: record.Enrich([]record.Record{
			{Time: "36:50", Name: "Marco Pantani", Year: 1995, Nationality: "ITA", Doping: "Alleged drug use during 1995 due to high hematocrit levels"},
			{Time: "39:15", Name: "Nairo Quintana", Year: 2015, Nationality: "COL"},
		}, ref),
	}
}

func newMux(deps *mockDependencies, stats map[string]interface{}) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, &mockStatsProvider{stats: stats}).Register(context.Background(), mux)
	return mux
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newDeps()
		mux := newMux(deps, map[string]interface{}{"started": true})

		Convey("When requesting each route", func() {
			Convey("Then health serves Prometheus metrics", func() {
				w := get(mux, "/healthz")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "dopingplot_")
			})

			Convey("Then stats serves the provider's map", func() {
				w := get(mux, "/stats")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"started":true`)
			})

			Convey("Then chart routes pick the matching rendering and content type", func() {
				cases := []struct {
					path string
					kind service.Kind
					ct   string
				}{
					{"/", service.KindPage, "text/html; charset=utf-8"},
					{"/chart.svg", service.KindSVG, "image/svg+xml"},
					{"/chart.png", service.KindPNG, "image/png"},
					{"/export.svg", service.KindExportSVG, "image/svg+xml"},
				}
				for _, c := range cases {
					w := get(mux, c.path)
					So(w.Code, ShouldEqual, http.StatusOK)
					So(w.Header().Get("Content-Type"), ShouldEqual, c.ct)
					So(w.Body.String(), ShouldEqual, "rendered:"+string(c.kind))
				}
				So(len(deps.rendered), ShouldEqual, len(cases))
			})

			Convey("Then unknown paths are not found", func() {
				w := get(mux, "/nope")
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})

			Convey("Then every response carries a request id", func() {
				w := get(mux, "/stats")
				So(len(w.Header().Get(api.RequestIDHeader)), ShouldEqual, 36)

				req := httptest.NewRequest(http.MethodGet, "/stats", nil)
				req.Header.Set(api.RequestIDHeader, "abc-123")
				w = httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})
	})
}

func TestChartHandler(t *testing.T) {
	Convey("Given a chart handler", t, func() {
		deps := newDeps()
		h := api.NewChartHandler(deps)

		Convey("When the request is a HEAD", func() {
			req := httptest.NewRequest(http.MethodHead, "/chart.svg", nil)
			w := httptest.NewRecorder()
			h.HandleSVG(w, req)

			Convey("Then headers are sent without a body", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Length"), ShouldEqual, "12")
				So(w.Body.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the method is POST", func() {
			req := httptest.NewRequest(http.MethodPost, "/chart.png", nil)
			w := httptest.NewRecorder()
			h.HandlePNG(w, req)

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the service is not started", func() {
			deps.err = service.ErrNotStarted
			w := httptest.NewRecorder()
			h.HandlePage(w, httptest.NewRequest(http.MethodGet, "/", nil))

			Convey("Then it is unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decodeError(w)["code"], ShouldEqual, "not_started")
			})
		})

		Convey("When rendering fails", func() {
			deps.renderErr = errors.New("chart render failed: domain is not a number")
			w := httptest.NewRecorder()
			h.HandleExportSVG(w, httptest.NewRequest(http.MethodGet, "/export.svg", nil))

			Convey("Then it is an internal error with the message", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "internal_error")
				So(body["message"], ShouldContainSubstring, "domain is not a number")
			})
		})
	})
}

func TestRecordsHandler(t *testing.T) {
	Convey("Given a records handler", t, func() {
		deps := newDeps()
		h := api.NewRecordsHandler(deps)

		Convey("When listing records", func() {
			w := httptest.NewRecorder()
			h.HandleGetRecords(w, httptest.NewRequest(http.MethodGet, "/api/records", nil))

			Convey("Then every enriched point is returned in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Count   int `json:"count"`
					Records []struct {
						Index  int             `json:"index"`
						Doping bool            `json:"doping"`
						Time   *string         `json:"time"`
						Record json.RawMessage `json:"record"`
					} `json:"records"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Count, ShouldEqual, 2)
				So(body.Records[0].Doping, ShouldBeTrue)
				So(body.Records[1].Index, ShouldEqual, 1)
				So(string(body.Records[1].Record), ShouldContainSubstring, `"Name":"Nairo Quintana"`)
			})
		})

		Convey("When the service is not started", func() {
			deps.err = service.ErrNotStarted
			w := httptest.NewRecorder()
			h.HandleGetRecords(w, httptest.NewRequest(http.MethodGet, "/api/records", nil))

			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestTooltipHandler(t *testing.T) {
	Convey("Given a tooltip handler", t, func() {
		deps := newDeps()
		h := api.NewTooltipHandler(deps)
		call := func(target string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.HandleGetTooltip(w, httptest.NewRequest(http.MethodGet, target, nil))
			return w
		}

		Convey("When the pointer enters a mark", func() {
			w := call("/api/tooltip/0?x=100&y=200")

			Convey("Then the visible panel state is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var st struct {
					Visible bool    `json:"visible"`
					Left    float64 `json:"left"`
					Top     float64 `json:"top"`
					Year    int     `json:"year"`
					Text    string  `json:"text"`
					Class   string  `json:"class"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &st), ShouldBeNil)
				So(st.Visible, ShouldBeTrue)
				So(st.Left, ShouldEqual, 105)
				So(st.Top, ShouldEqual, 205)
				So(st.Year, ShouldEqual, 1995)
				So(st.Class, ShouldEqual, "")
				So(strings.Split(st.Text, "\n"), ShouldHaveLength, 4)
			})
		})

		Convey("When the pointer leaves", func() {
			w := call("/api/tooltip/1?x=1&y=2&leave=1")

			Convey("Then the panel is hidden", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"visible":false`)
				So(w.Body.String(), ShouldContainSubstring, `"class":"tooltip--hidden"`)
			})
		})

		Convey("When the request is malformed", func() {
			for _, target := range []string{
				"/api/tooltip/",
				"/api/tooltip/abc",
				"/api/tooltip/0/extra",
				"/api/tooltip/0?x=left",
				"/api/tooltip/0?y=NaN",
			} {
				w := call(target)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			}
		})

		Convey("When the index is out of range", func() {
			w := call("/api/tooltip/7")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestStatsHandler(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		h := api.NewStatsHandler(&mockStatsProvider{stats: map[string]interface{}{"records": 35}})

		Convey("When handling GET", func() {
			w := httptest.NewRecorder()
			h.HandleStats(w, httptest.NewRequest(http.MethodGet, "/stats", nil))

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			So(w.Body.String(), ShouldContainSubstring, `"records":35`)
		})

		Convey("When handling POST", func() {
			w := httptest.NewRecorder()
			h.HandleStats(w, httptest.NewRequest(http.MethodPost, "/stats", nil))

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
