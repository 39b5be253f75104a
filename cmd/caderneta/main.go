package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/mvalle/caderneta/internal/auth"
	"github.com/mvalle/caderneta/internal/config"
	"github.com/mvalle/caderneta/internal/legacy"
	"github.com/mvalle/caderneta/internal/report"
	"github.com/mvalle/caderneta/internal/service"
	"github.com/mvalle/caderneta/internal/storage/sqlite"
	"github.com/mvalle/caderneta/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level)

	ctx := context.Background()

	store, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	version, err := store.SchemaVersion()
	if err != nil {
		slog.Error("Failed to read schema version", "error", err)
		os.Exit(1)
	}
	slog.Info("Storage initialized", "database", cfg.DB.Path, "schema_version", version)

	// The legacy import is non-fatal: the flag stays unset on failure, so the
	// next start retries it in full.
	if cfg.Legacy.Dir != "" {
		kv, err := legacy.NewDirKV(cfg.Legacy.Dir)
		if err != nil {
			slog.Error("Failed to open legacy data", "dir", cfg.Legacy.Dir, "error", err)
		} else if err := legacy.NewImporter(kv, store).Run(ctx); err != nil {
			slog.Error("Legacy import failed, will retry on next start", "error", err)
		}
	}

	gate := auth.NewGate(store, cfg.Admin.Username)
	if cfg.Admin.Password != "" {
		if err := gate.EnsureUser(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			slog.Error("Failed to seed admin user", "error", err)
			os.Exit(1)
		}
	}

	period, err := reportPeriod(cfg)
	if err != nil {
		slog.Error("Invalid report period", "error", err)
		os.Exit(1)
	}

	reports := service.NewReportService(store)
	paths, err := reports.ExportAll(ctx, cfg.Report.OutputDir, period)
	if err != nil {
		slog.Error("Failed to export reports", "error", err)
		os.Exit(1)
	}
	slog.Info("Reports exported", "count", len(paths))
}

// reportPeriod parses REPORT_FROM/REPORT_TO. Both empty means no filter; a
// single bound is an error so a typo cannot silently widen the range.
func reportPeriod(cfg *config.Config) (*report.Period, error) {
	if cfg.Report.From == "" && cfg.Report.To == "" {
		return nil, nil
	}

	from, err := time.Parse("2006-01-02", cfg.Report.From)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse("2006-01-02", cfg.Report.To)
	if err != nil {
		return nil, err
	}
	period := report.NewPeriod(from, to)
	return &period, nil
}
