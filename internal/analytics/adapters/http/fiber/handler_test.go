package fiber_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"market-insights-service/internal/analytics/adapters/export"
	httpadapter "market-insights-service/internal/analytics/adapters/http/fiber"
	"market-insights-service/internal/analytics/core/domain"
	"market-insights-service/internal/analytics/core/usecase"

	"github.com/gofiber/fiber/v2"
)

// Fake usecase implementing the interface that handler depends on.
type fakeGetDashboardUseCase struct {
	ExecuteFn func(ctx context.Context, in usecase.GetDashboardInput) (*domain.Dashboard, error)
	lastInput usecase.GetDashboardInput
	called    bool
}

func (f *fakeGetDashboardUseCase) Execute(ctx context.Context, in usecase.GetDashboardInput) (*domain.Dashboard, error) {
	f.called = true
	f.lastInput = in
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, in)
	}
	return sampleDashboard(), nil
}

type fakeAvailability struct {
	r   *domain.DateRange
	err error
	loc *time.Location
}

func (f *fakeAvailability) AvailableRange(ctx context.Context, loc *time.Location) (*domain.DateRange, error) {
	f.loc = loc
	return f.r, f.err
}

func day(s string) time.Time {
	t, _ := time.Parse(domain.DateLayout, s)
	return t
}

func sampleDashboard() *domain.Dashboard {
	av := domain.DateRange{Start: day("2024-01-01"), End: day("2024-06-01")}
	return &domain.Dashboard{
		Preset:    usecase.Preset30Days,
		Dimension: domain.DimensionChannel,
		Range:     domain.DateRange{Start: day("2024-05-02"), End: day("2024-06-01")},
		Available: &av,
		Aggregation: domain.Aggregation{
			Dates:     []time.Time{day("2024-05-02"), day("2024-05-03")},
			Series:    []domain.CategorySeries{{Key: "as4", Values: []float64{2, 1}}},
			Breakdown: []domain.CategoryTotal{{Key: "as4", Total: 3}},
			Unknown:   1,
		},
		Selection: domain.Statistics{Count: 2, Total: 3, Average: 1.5, Median: 1.5, Min: 1, Max: 2, StandardDeviation: 0.5},
		Fetched:   5,
		Filtered:  3,
		Skipped:   2,
	}
}

func setupApp(t *testing.T, uc httpadapter.GetDashboardUseCase, av httpadapter.AvailabilityReader) *fiber.App {
	t.Helper()
	return setupAppWithDefaults(t, uc, av, httpadapter.Defaults{})
}

func setupAppWithDefaults(t *testing.T, uc httpadapter.GetDashboardUseCase, av httpadapter.AvailabilityReader, defaults httpadapter.Defaults) *fiber.App {
	t.Helper()
	app := fiber.New()
	httpadapter.NewDashboardHandler(uc, av, export.New(), defaults).Register(app)
	return app
}

func get(t *testing.T, app *fiber.App, path string, q url.Values) (*http.Response, []byte) {
	t.Helper()
	if q != nil {
		path += "?" + q.Encode()
	}
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	_ = resp.Body.Close()
	return resp, body
}

// ------------------------------------------------------------
// SUCCESS: defaults
// ------------------------------------------------------------

func TestGetDashboard_Defaults(t *testing.T) {
	uc := &fakeGetDashboardUseCase{}
	app := setupApp(t, uc, &fakeAvailability{})

	resp, body := get(t, app, "/dashboard", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", resp.StatusCode, string(body))
	}
	if uc.lastInput.Preset != usecase.Preset30Days || uc.lastInput.Dimension != domain.DimensionChannel {
		t.Fatalf("unexpected defaults: %+v", uc.lastInput)
	}
	if uc.lastInput.Custom != nil {
		t.Fatalf("expected no custom range")
	}

	var out httpadapter.DashboardResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Range.Start != "2024-05-02" || out.Range.End != "2024-06-01" {
		t.Fatalf("unexpected range: %+v", out.Range)
	}
	if out.Available == nil || out.Available.Start != "2024-01-01" {
		t.Fatalf("unexpected available: %+v", out.Available)
	}
	if len(out.Dates) != 2 || out.Series[0].Values[1] != 1 || out.Breakdown[0].Total != 3 {
		t.Fatalf("unexpected aggregation: %+v", out)
	}
	if out.Selection.StandardDeviation != 0.5 || out.Skipped != 2 || out.Unknown != 1 {
		t.Fatalf("unexpected stats/counters: %+v", out)
	}
}

func TestGetDashboard_ConfiguredDefaults(t *testing.T) {
	uc := &fakeGetDashboardUseCase{}
	app := setupAppWithDefaults(t, uc, &fakeAvailability{}, httpadapter.Defaults{
		Preset:    usecase.Preset90Days,
		Dimension: domain.DimensionProcessGroup,
	})

	resp, body := get(t, app, "/dashboard", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", resp.StatusCode, string(body))
	}
	if uc.lastInput.Preset != usecase.Preset90Days || uc.lastInput.Dimension != domain.DimensionProcessGroup {
		t.Fatalf("configured defaults not applied: %+v", uc.lastInput)
	}

	// explicit query params still win
	resp, _ = get(t, app, "/dashboard/export", url.Values{"format": {"csv"}, "preset": {"60days"}, "dimension": {"channel"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if uc.lastInput.Preset != usecase.Preset60Days || uc.lastInput.Dimension != domain.DimensionChannel {
		t.Fatalf("query params overridden: %+v", uc.lastInput)
	}
}

// ------------------------------------------------------------
// SUCCESS: custom range
// ------------------------------------------------------------

func TestGetDashboard_CustomRangeImpliesCustomPreset(t *testing.T) {
	uc := &fakeGetDashboardUseCase{}
	app := setupApp(t, uc, &fakeAvailability{})

	q := url.Values{}
	q.Set("from", "2024-03-01")
	q.Set("to", "2024-03-31")
	q.Set("dimension", "error_type")
	q.Set("metric", "response_time_ms")

	resp, body := get(t, app, "/dashboard", q)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", resp.StatusCode, string(body))
	}
	in := uc.lastInput
	if in.Preset != usecase.PresetCustom || in.Custom == nil {
		t.Fatalf("expected custom preset with range, got %+v", in)
	}
	if in.Custom.String() != "2024-03-01..2024-03-31" {
		t.Fatalf("unexpected custom range: %s", in.Custom)
	}
	if in.Dimension != "error_type" || in.Metric != "response_time_ms" {
		t.Fatalf("unexpected input: %+v", in)
	}
}

// ------------------------------------------------------------
// VALIDATION
// ------------------------------------------------------------

func TestGetDashboard_BadQuery(t *testing.T) {
	cases := []url.Values{
		{"from": {"2024-03-01"}},
		{"from": {"2024-03-01"}, "to": {"March"}},
	}

	for _, q := range cases {
		uc := &fakeGetDashboardUseCase{}
		app := setupApp(t, uc, &fakeAvailability{})

		resp, body := get(t, app, "/dashboard", q)

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%v: expected 400, got %d (body: %s)", q, resp.StatusCode, string(body))
		}
		if uc.called {
			t.Fatalf("%v: usecase should not be called", q)
		}
	}
}

func TestGetDashboard_UseCaseErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: \"weekly\"", usecase.ErrInvalidPreset), http.StatusBadRequest},
		{usecase.ErrInvalidDimension, http.StatusBadRequest},
		{usecase.ErrInvalidTimeRange, http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		uc := &fakeGetDashboardUseCase{
			ExecuteFn: func(ctx context.Context, in usecase.GetDashboardInput) (*domain.Dashboard, error) {
				return nil, tc.err
			},
		}
		app := setupApp(t, uc, &fakeAvailability{})

		resp, body := get(t, app, "/dashboard", nil)

		if resp.StatusCode != tc.status {
			t.Fatalf("%v: expected %d, got %d (body: %s)", tc.err, tc.status, resp.StatusCode, string(body))
		}
	}
}

// ------------------------------------------------------------
// EXPORT
// ------------------------------------------------------------

func TestExportDashboard_CSV(t *testing.T) {
	app := setupApp(t, &fakeGetDashboardUseCase{}, &fakeAvailability{})

	resp, body := get(t, app, "/dashboard/export", url.Values{"format": {"csv"}})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", resp.StatusCode, string(body))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), ".csv") {
		t.Fatalf("expected csv attachment, got %q", resp.Header.Get("Content-Disposition"))
	}
	if resp.Header.Get("X-Report-Id") == "" {
		t.Fatalf("expected report id header")
	}
	if !strings.HasPrefix(string(body), "date,as4,total\n2024-05-02,2,2\n") {
		t.Fatalf("unexpected csv body: %s", string(body))
	}
}

func TestExportDashboard_UnsupportedFormat(t *testing.T) {
	app := setupApp(t, &fakeGetDashboardUseCase{}, &fakeAvailability{})

	resp, body := get(t, app, "/dashboard/export", url.Values{"format": {"xlsx"}})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body: %s)", resp.StatusCode, string(body))
	}
}

// ------------------------------------------------------------
// AVAILABILITY
// ------------------------------------------------------------

func TestGetAvailability(t *testing.T) {
	r := domain.DateRange{Start: day("2024-01-01"), End: day("2024-06-01")}
	app := setupApp(t, &fakeGetDashboardUseCase{}, &fakeAvailability{r: &r})

	resp, body := get(t, app, "/availability", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", resp.StatusCode, string(body))
	}
	var out httpadapter.AvailabilityResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Empty || out.Range == nil || out.Range.End != "2024-06-01" {
		t.Fatalf("unexpected availability: %s", string(body))
	}
}

func TestGetAvailability_UsesConfiguredLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	av := &fakeAvailability{}
	app := setupAppWithDefaults(t, &fakeGetDashboardUseCase{}, av, httpadapter.Defaults{Location: berlin})

	resp, _ := get(t, app, "/availability", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if av.loc != berlin {
		t.Fatalf("expected availability in %s, got %v", berlin, av.loc)
	}
}

func TestGetAvailability_EmptyStore(t *testing.T) {
	app := setupApp(t, &fakeGetDashboardUseCase{}, &fakeAvailability{})

	resp, body := get(t, app, "/availability", nil)

	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"empty":true`) {
		t.Fatalf("unexpected response %d: %s", resp.StatusCode, string(body))
	}
}

func TestGetAvailability_Error(t *testing.T) {
	app := setupApp(t, &fakeGetDashboardUseCase{}, &fakeAvailability{err: errors.New("boom")})

	resp, _ := get(t, app, "/availability", nil)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}
