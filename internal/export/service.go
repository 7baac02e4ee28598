package export

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/config"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/logger"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/metrics"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/share"
)

var (
	ErrNothingToExport = errors.New("no items to export")
	ErrUnknownFormat   = errors.New("unknown export format")
)

type Store interface {
	InsertExportRun(run internal.ExportRun) error
}

type Renderer interface {
	PDF(ctx context.Context, markup string) ([]byte, error)
}

type Request struct {
	Format        internal.ExportFormat
	Warehouse     string
	ReferenceCode string
	// Sink is optional. The file stays in the output directory either way.
	Sink share.Sink
}

type Result struct {
	Path      string
	SharedVia string
	Run       internal.ExportRun
}

type Exporter struct {
	store     Store
	renderer  Renderer
	outDir    string
	landscape bool
	logoURI   string
	log       *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewExporter(store Store, renderer Renderer, cfg config.Config, log *slog.Logger, m *metrics.Metrics) (*Exporter, error) {
	if log == nil {
		log = logger.Discard()
	}
	e := &Exporter{
		store:     store,
		renderer:  renderer,
		outDir:    cfg.OutputDir,
		landscape: cfg.PDFLandscape,
		log:       log,
		metrics:   m,
		now:       time.Now,
	}
	if cfg.ReportLogoPath != "" {
		uri, err := LogoDataURI(cfg.ReportLogoPath)
		if err != nil {
			return nil, fmt.Errorf("report logo: %w", err)
		}
		e.logoURI = uri
	}
	return e, nil
}

// LogoDataURI reads an image file into a data: URI.
func LogoDataURI(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	kind := http.DetectContentType(raw)
	if !strings.HasPrefix(kind, "image/") {
		return "", fmt.Errorf("%s is %s, not an image", filepath.Base(path), kind)
	}
	return "data:" + kind + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

func Extension(format internal.ExportFormat) (string, error) {
	switch format {
	case internal.FormatPDF, internal.FormatHTML, internal.FormatXLSX:
		return string(format), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Export writes the session as a report file and optionally shares it. An
// empty session or a failed share leaves no file behind.
func (e *Exporter) Export(ctx context.Context, items []internal.ScannedItem, req Request) (res Result, err error) {
	defer func() { e.metrics.Export(string(req.Format), err) }()

	if len(items) == 0 {
		return Result{}, ErrNothingToExport
	}
	ext, err := Extension(req.Format)
	if err != nil {
		return Result{}, err
	}

	now := e.now()
	report := NewReport(req.Warehouse, req.ReferenceCode, items, now)
	report.LogoDataURI = e.logoURI

	content, err := e.render(ctx, req.Format, report)
	if err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return Result{}, err
	}
	path := filepath.Join(e.outDir, Filename(SafeFilename(req.Warehouse), now, ext))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return Result{}, err
	}

	res.Path = path
	if req.Sink != nil {
		via, err := req.Sink.Share(ctx, path, share.MimeType(path))
		if err != nil {
			if rmErr := os.Remove(path); rmErr != nil {
				e.log.Warn("export file not removed", "path", path, "error", rmErr)
			}
			return Result{}, fmt.Errorf("share %s: %w", filepath.Base(path), err)
		}
		res.SharedVia = via
	}

	res.Run = internal.ExportRun{
		TraceID:   uuid.NewString(),
		Format:    string(req.Format),
		Title:     report.Title,
		ItemCount: len(items),
		Path:      path,
		SharedVia: res.SharedVia,
		CreatedAt: now.UTC().Format(time.RFC3339),
	}
	if err := e.store.InsertExportRun(res.Run); err != nil {
		e.log.Warn("export history not recorded", "traceId", res.Run.TraceID, "error", err)
	}

	e.log.Info("report exported", "traceId", res.Run.TraceID, "format", req.Format, "items", len(items), "path", path, "sharedVia", res.SharedVia)
	return res, nil
}

func (e *Exporter) render(ctx context.Context, format internal.ExportFormat, report Report) ([]byte, error) {
	switch format {
	case internal.FormatHTML:
		markup, err := renderMarkup(report, e.landscape)
		return []byte(markup), err
	case internal.FormatPDF:
		if e.renderer == nil {
			return nil, errors.New("pdf export needs a renderer")
		}
		markup, err := renderMarkup(report, e.landscape)
		if err != nil {
			return nil, err
		}
		return e.renderer.PDF(ctx, markup)
	case internal.FormatXLSX:
		return sheetBytes(report)
	}
	return nil, ErrUnknownFormat
}
