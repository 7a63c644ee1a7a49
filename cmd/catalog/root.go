package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/and161185/perfume-catalog/internal/config"
)

// rootOpts holds the persistent flags shared by every subcommand.
type rootOpts struct {
	configPath string
	dsn        string
	redisAddr  string
	verbose    bool
	json       bool

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	o := &rootOpts{}
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Perfume catalog administration",
		Version:       fmt.Sprintf("%s (%s)", version, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if o.log != nil {
				_ = o.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "config file (default ./catalog.yaml when present)")
	pf.StringVar(&o.dsn, "dsn", "", "PostgreSQL DSN (overrides db.dsn)")
	pf.StringVar(&o.redisAddr, "redis", "", "redis address for the match cache (overrides redis.addr)")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&o.json, "json", false, "print results as JSON")

	root.AddCommand(
		newMigrateCmd(o),
		newConcentrationCmd(o),
		newNoteCmd(o),
		newPerfumeCmd(o),
		newUserCmd(o),
		newFavoriteCmd(o),
		newCommentCmd(o),
	)
	return root
}

// init loads configuration, applies flag overrides and builds the logger.
func (o *rootOpts) init(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dsn") {
		cfg.DB.DSN = o.dsn
	}
	if cmd.Flags().Changed("redis") {
		cfg.Redis.Addr = o.redisAddr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	o.cfg = cfg

	o.log, err = newLogger(cfg.Log.Level, o.verbose)
	return err
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func (o *rootOpts) out(cmd *cobra.Command) printer {
	return printer{w: cmd.OutOrStdout(), json: o.json}
}
