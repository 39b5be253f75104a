// Package service orchestrates store reads into user-facing outcomes. It sits
// between the composition root and the storage/report packages so neither
// knows about the other.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mvalle/caderneta/internal/models"
	"github.com/mvalle/caderneta/internal/report"
	"github.com/mvalle/caderneta/internal/storage"
)

// ReportService builds the consolidated report and writes it to disk in every
// supported format.
type ReportService struct {
	store storage.Store
}

// NewReportService creates a report service backed by store.
func NewReportService(store storage.Store) *ReportService {
	return &ReportService{store: store}
}

// BuildDocument loads sales (all of them, or those inside period when it is
// non-nil) and aggregates them into a report document.
func (s *ReportService) BuildDocument(ctx context.Context, period *report.Period) (*report.Document, error) {
	var (
		sales []models.Sale
		err   error
	)
	if period != nil {
		sales, err = s.store.ListSalesByPeriod(ctx, period.From, period.To)
	} else {
		sales, err = s.store.ListSales(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return report.Build(sales), nil
}

// ExportAll writes the CSV, XLSX and HTML renditions of the report into
// outputDir, named RelatorioVendas_<date>.<ext>. Returns the written paths.
func (s *ReportService) ExportAll(ctx context.Context, outputDir string, period *report.Period) ([]string, error) {
	doc, err := s.BuildDocument(ctx, period)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := "RelatorioVendas_" + time.Now().Format("2006-01-02")
	writers := []struct {
		ext   string
		write func(f *os.File) error
	}{
		{"csv", func(f *os.File) error { return doc.WriteCSV(f) }},
		{"xlsx", func(f *os.File) error { return doc.WriteXLSX(f) }},
		{"html", func(f *os.File) error { return doc.WriteHTML(f) }},
	}

	paths := make([]string, 0, len(writers))
	for _, w := range writers {
		path := filepath.Join(outputDir, base+"."+w.ext)
		if err := writeFile(path, w.write); err != nil {
			return nil, err
		}
		slog.Info("Report written", "path", path, "sales", len(doc.Rows))
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
