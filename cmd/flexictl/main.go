// Command flexictl is the operator CLI for the receiving service.
package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/config"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/pkg/logger"
)

type rootOptions struct {
	envFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "flexictl",
		Short: "Operate the goods receiving backend",
		Long: `flexictl manages the goods receiving backend.

Available commands:
  migrate  - Create the SQLite schema
  catalog  - Import products and suppliers into SQLite
  report   - Build and publish the daily receiving report
  serials  - Preview serial numbers for a product code
  quote    - Compute a flat-rate installment plan`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "path to an env file (default .env)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newMigrateCmd(opts),
		newCatalogCmd(opts),
		newReportCmd(opts),
		newSerialsCmd(),
		newQuoteCmd(),
	)
	return root
}

// load reads configuration and builds a logger for commands that touch backends.
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.Log.Level
	if o.verbose {
		level = "debug"
	}
	log, err := logger.New(level, true)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
