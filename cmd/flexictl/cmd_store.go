package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/app"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/repository/sqlite"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/reporting"
)

// catalogFile is the import format of `flexictl catalog import`.
type catalogFile struct {
	Products  []models.Product  `json:"products"`
	Suppliers []models.Supplier `json:"suppliers"`
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var dsn string
	return withDSN(&cobra.Command{
		Use:   "migrate",
		Short: "Create the SQLite schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSQLite(cmd.Context(), opts, dsn)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}, &dsn)
}

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	catalog := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local product and supplier catalog",
	}

	var dsn, file string
	importCmd := withDSN(&cobra.Command{
		Use:   "import",
		Short: "Upsert products and suppliers from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			var data catalogFile
			if err := json.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			store, err := openSQLite(cmd.Context(), opts, dsn)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			now := time.Now()
			for _, p := range data.Products {
				if p.CreatedAt.IsZero() {
					p.CreatedAt = now
				}
				if err := store.UpsertProduct(ctx, p); err != nil {
					return err
				}
			}
			for _, s := range data.Suppliers {
				if s.CreatedAt.IsZero() {
					s.CreatedAt = now
				}
				if err := store.UpsertSupplier(ctx, s); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d products, %d suppliers\n", len(data.Products), len(data.Suppliers))
			return nil
		},
	}, &dsn)
	importCmd.Flags().StringVarP(&file, "file", "f", "", "catalog JSON file")
	_ = importCmd.MarkFlagRequired("file")

	catalog.AddCommand(importCmd)
	return catalog
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var date string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build and publish the daily receiving report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			day := time.Now().In(cfg.Reporting.Location())
			if date != "" {
				if day, err = time.ParseInLocation("2006-01-02", date, cfg.Reporting.Location()); err != nil {
					return fmt.Errorf("--date: %w", err)
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(context.Background()); err != nil {
					log.Warn("failed to close backends", zap.Error(err))
				}
			}()

			var report models.DailyReceivingReport
			if dryRun {
				report, err = a.Reporting.BuildDailyReport(ctx, day)
			} else {
				report, err = a.Reporting.RunDaily(ctx, day)
			}
			if err != nil && report.Date.IsZero() {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reporting.FormatReport(report))
			return err
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "report day (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the report without publishing it")
	return cmd
}

func withDSN(cmd *cobra.Command, dsn *string) *cobra.Command {
	cmd.Flags().StringVar(dsn, "dsn", "", "SQLite DSN (defaults to SQLITE_DSN)")
	return cmd
}

func openSQLite(ctx context.Context, opts *rootOptions, dsn string) (*sqlite.Store, error) {
	if dsn == "" {
		cfg, _, err := opts.load()
		if err != nil {
			return nil, err
		}
		dsn = cfg.SQLite.DSN
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return sqlite.Open(ctx, dsn, nil)
}
