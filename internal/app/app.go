// Package app assembles the service graph shared by the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/config"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/repository/memory"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/repository/mongodb"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/repository/sheets"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/repository/sqlite"
	supabasestore "github.com/KanomTHX/flexi-furnish-hub-sub005/internal/repository/supabase"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/scheduler"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/receiving"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/reporting"
	supabaseclient "github.com/KanomTHX/flexi-furnish-hub-sub005/pkg/clients/supabase"
	whatsappclient "github.com/KanomTHX/flexi-furnish-hub-sub005/pkg/clients/whatsapp"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/pkg/logger"
)

// Store is the catalog and receipt backend.
type Store interface {
	receiving.Catalog
	receiving.Committer
	reporting.MovementSource
}

// Drafts is the draft backend, including purging for the scheduler.
type Drafts interface {
	receiving.DraftStore
	scheduler.DraftPurger
}

// App holds the wired services.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     Store
	Drafts    Drafts
	Receiving *receiving.Service
	Reporting *reporting.Service

	closers []func(context.Context) error
}

// New connects the configured backends and builds the services. Optional
// integrations (MongoDB, Google Sheets, WhatsApp) are skipped when unset.
func New(ctx context.Context, cfg *config.Config, base *zap.Logger) (*App, error) {
	if base == nil {
		base = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: base}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	var reportOpts []reporting.Option
	reportOpts = append(reportOpts, reporting.WithLocation(cfg.Reporting.Location()))

	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("init mongodb repository: %w", err)
		}
		a.closers = append(a.closers, mongoRepo.Close)
		a.Drafts = mongoRepo
		reportOpts = append(reportOpts, reporting.WithArchive(mongoRepo))
		base.Info("drafts and reports stored in mongodb", zap.String("db", cfg.MongoDB.DBName))
	} else {
		a.Drafts = memory.NewDraftRepository()
		base.Warn("mongodb not configured, drafts kept in memory")
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(base, "repo.sheets"))
		if err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("init sheets repository: %w", err)
		}
		reportOpts = append(reportOpts, reporting.WithLedger(sheetsRepo, cfg.Sheets.LedgerRange))
	}

	if cfg.WhatsApp.Enabled() {
		reportOpts = append(reportOpts, reporting.WithNotifier(whatsappclient.NewClient(cfg.WhatsApp), cfg.WhatsApp.ManagerID))
	}

	a.Receiving = receiving.NewService(a.Drafts, a.Store, a.Store, cfg.Receiving.VATRate, logger.Named(base, "svc.receiving"))
	a.Reporting = reporting.NewService(a.Store, logger.Named(base, "svc.reporting"), reportOpts...)
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config
	switch cfg.Store.Driver {
	case config.DriverSupabase:
		client := supabaseclient.NewClient(cfg.Supabase)
		a.Store = supabasestore.NewStore(client, logger.Named(a.Logger, "repo.supabase"))
		a.Logger.Info("using supabase store", zap.String("url", cfg.Supabase.URL))
	default:
		store, err := sqlite.Open(ctx, cfg.SQLite.DSN, logger.Named(a.Logger, "repo.sqlite"))
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return store.Close() })
		a.Store = store
		a.Logger.Info("using sqlite store")
	}
	return nil
}

// Close releases the backends in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
