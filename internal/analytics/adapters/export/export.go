package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"market-insights-service/internal/analytics/core/domain"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

// Formats lists the supported export formats.
func Formats() []string {
	return []string{FormatCSV, FormatJSON, FormatPDF, FormatHTML}
}

// Meta describes one written report.
type Meta struct {
	ID          string
	Format      string
	ContentType string
	FileName    string
}

type Exporter struct {
	newID func() string
}

func New() *Exporter {
	return &Exporter{newID: func() string { return uuid.NewString() }}
}

// Describe validates format and assigns a report ID without writing.
func (e *Exporter) Describe(format string, d *domain.Dashboard) (Meta, error) {
	format = strings.ToLower(strings.TrimSpace(format))

	var ct string
	switch format {
	case FormatCSV:
		ct = "text/csv; charset=utf-8"
	case FormatJSON:
		ct = "application/json"
	case FormatPDF:
		ct = "application/pdf"
	case FormatHTML:
		ct = "text/html; charset=utf-8"
	default:
		return Meta{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	id := e.newID()
	name := fmt.Sprintf("%s_%s_%s_%s.%s",
		d.Dimension,
		d.Range.Start.Format("20060102"),
		d.Range.End.Format("20060102"),
		id[:8],
		format,
	)
	return Meta{ID: id, Format: format, ContentType: ct, FileName: name}, nil
}

// Write renders d to w in meta.Format.
func (e *Exporter) Write(w io.Writer, meta Meta, d *domain.Dashboard) error {
	switch meta.Format {
	case FormatCSV:
		return WriteCSV(w, d)
	case FormatJSON:
		return WriteJSON(w, NewReport(meta.ID, d))
	case FormatPDF:
		return WritePDF(w, meta.ID, d)
	case FormatHTML:
		return WriteHTML(w, d)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, meta.Format)
	}
}

// WriteFile writes the report into dir and returns its absolute path.
func (e *Exporter) WriteFile(dir, format string, d *domain.Dashboard) (string, Meta, error) {
	meta, err := e.Describe(format, d)
	if err != nil {
		return "", Meta{}, err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", Meta{}, fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, meta.FileName)
	f, err := os.Create(path)
	if err != nil {
		return "", Meta{}, err
	}

	if err := e.Write(f, meta, d); err != nil {
		f.Close()
		return "", Meta{}, err
	}
	if err := f.Close(); err != nil {
		return "", Meta{}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, meta, nil
	}
	return abs, meta, nil
}

func dateStrings(ds []time.Time) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Format(domain.DateLayout)
	}
	return out
}
