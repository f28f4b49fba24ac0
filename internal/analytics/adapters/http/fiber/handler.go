package fiber

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"market-insights-service/internal/analytics/adapters/export"
	"market-insights-service/internal/analytics/core/domain"
	"market-insights-service/internal/analytics/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type GetDashboardUseCase interface {
	Execute(ctx context.Context, in usecase.GetDashboardInput) (*domain.Dashboard, error)
}

type AvailabilityReader interface {
	AvailableRange(ctx context.Context, loc *time.Location) (*domain.DateRange, error)
}

type ReportExporter interface {
	Describe(format string, d *domain.Dashboard) (export.Meta, error)
	Write(w io.Writer, meta export.Meta, d *domain.Dashboard) error
}

// Defaults apply when a request leaves preset or dimension out. Zero
// values fall back to 30days, channel and UTC.
type Defaults struct {
	Preset    string
	Dimension string
	Location  *time.Location
}

type DashboardHandler struct {
	uc        GetDashboardUseCase
	available AvailabilityReader
	exporter  ReportExporter
	defaults  Defaults
}

func NewDashboardHandler(uc GetDashboardUseCase, available AvailabilityReader, exporter ReportExporter, defaults Defaults) *DashboardHandler {
	if defaults.Preset == "" {
		defaults.Preset = usecase.Preset30Days
	}
	if defaults.Dimension == "" {
		defaults.Dimension = domain.DimensionChannel
	}
	if defaults.Location == nil {
		defaults.Location = time.UTC
	}
	return &DashboardHandler{uc: uc, available: available, exporter: exporter, defaults: defaults}
}

// Register mounts the dashboard routes.
func (h *DashboardHandler) Register(r fiber.Router) {
	r.Get("/dashboard", h.GetDashboard)
	r.Get("/dashboard/export", h.ExportDashboard)
	r.Get("/availability", h.GetAvailability)
}

// parseInput reads preset, from, to, dimension and metric query params.
func (h *DashboardHandler) parseInput(c *fiber.Ctx) (usecase.GetDashboardInput, error) {
	in := usecase.GetDashboardInput{
		Preset:    c.Query("preset", ""),
		Dimension: c.Query("dimension", h.defaults.Dimension),
		Metric:    c.Query("metric", ""),
	}

	from := c.Query("from", "")
	to := c.Query("to", "")
	if from == "" && to == "" {
		if in.Preset == "" {
			in.Preset = h.defaults.Preset
		}
		return in, nil
	}
	if from == "" || to == "" {
		return in, errors.New("from and to must be given together")
	}

	r, err := domain.NewDateRange(from, to)
	if err != nil {
		return in, err
	}
	in.Custom = &r
	if in.Preset == "" {
		in.Preset = usecase.PresetCustom
	}
	return in, nil
}

func writeQueryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidPreset),
		errors.Is(err, usecase.ErrInvalidDimension),
		errors.Is(err, usecase.ErrInvalidTimeRange),
		errors.Is(err, export.ErrUnsupportedFormat):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

// GetDashboard godoc
// @Summary Dashboard series and statistics
// @Description Resolves the date window, groups records by day and dimension and computes selection and overall statistics
// @Tags Dashboard
// @Produce json
// @Param preset query string false "30days | 60days | 90days | custom; defaults to dashboard.default_preset"
// @Param from query string false "Custom range start (YYYY-MM-DD)"
// @Param to query string false "Custom range end (YYYY-MM-DD)"
// @Param dimension query string false "channel | process_group | market_role | error_type | error_class; defaults to dashboard.default_dimension"
// @Param metric query string false "Numeric value for statistics, e.g. response_time_ms"
// @Success 200 {object} DashboardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	in, err := h.parseInput(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	}

	d, err := h.uc.Execute(c.UserContext(), in)
	if err != nil {
		return writeQueryError(c, err)
	}

	return c.Status(http.StatusOK).JSON(toDashboardResponse(d))
}

// ExportDashboard godoc
// @Summary Export a dashboard
// @Description Same query as /dashboard, rendered as CSV, JSON, PDF or an HTML chart page
// @Tags Dashboard
// @Produce text/csv,application/json,application/pdf,text/html
// @Param format query string true "csv | json | pdf | html"
// @Param preset query string false "30days | 60days | 90days | custom; defaults to dashboard.default_preset"
// @Param from query string false "Custom range start (YYYY-MM-DD)"
// @Param to query string false "Custom range end (YYYY-MM-DD)"
// @Param dimension query string false "Grouping dimension; defaults to dashboard.default_dimension"
// @Param metric query string false "Numeric value for statistics"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /dashboard/export [get]
func (h *DashboardHandler) ExportDashboard(c *fiber.Ctx) error {
	in, err := h.parseInput(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	}

	d, err := h.uc.Execute(c.UserContext(), in)
	if err != nil {
		return writeQueryError(c, err)
	}

	meta, err := h.exporter.Describe(c.Query("format", ""), d)
	if err != nil {
		return writeQueryError(c, err)
	}

	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, meta, d); err != nil {
		return writeQueryError(c, err)
	}

	c.Attachment(meta.FileName)
	c.Set(fiber.HeaderContentType, meta.ContentType)
	c.Set("X-Report-Id", meta.ID)
	return c.Status(http.StatusOK).Send(buf.Bytes())
}

// GetAvailability godoc
// @Summary Available data window
// @Description First and last calendar day present in the record store
// @Tags Dashboard
// @Produce json
// @Success 200 {object} AvailabilityResponse
// @Failure 500 {object} ErrorResponse
// @Router /availability [get]
func (h *DashboardHandler) GetAvailability(c *fiber.Ctx) error {
	r, err := h.available.AvailableRange(c.UserContext(), h.defaults.Location)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	if r == nil {
		return c.Status(http.StatusOK).JSON(AvailabilityResponse{Empty: true})
	}

	rr := toRange(*r)
	return c.Status(http.StatusOK).JSON(AvailabilityResponse{Range: &rr})
}
