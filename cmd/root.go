package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/cedolino/internal/calendar"
	"github.com/Tiliavir/cedolino/internal/config"
	"github.com/Tiliavir/cedolino/internal/earnings"
	"github.com/Tiliavir/cedolino/internal/logger"
	"github.com/Tiliavir/cedolino/internal/settings"
	"github.com/Tiliavir/cedolino/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "cedolino",
	Short: "cedolino – CCNL timesheet and earnings calculator",
	Long: `cedolino records worked hours, travel, standby and fixed days and turns
them into the earnings of a CCNL pay slip: regular pay, overtime by time band,
travel, standby allowances, meal vouchers and a net estimate.
Data lives in ~/.cedolino/ (config.json, settings.yaml and the entries).`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute is the entry point called from main. Storage failures exit with
// status 2, every other error with status 1.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, storage.ErrStorage) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(outlookCmd)
}

// app bundles what a command needs: configuration, logger, the settings
// file and the entry store.
type app struct {
	cfg      config.Config
	log      *zap.Logger
	settings *settings.Store
	entries  storage.Store
	calc     *earnings.Calculator
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Env, cfg.LogLevel)
	entries, err := storage.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	log.Debug("opened store", zap.String("backend", cfg.Store), zap.String("dir", cfg.DataDir))
	return &app{
		cfg:      cfg,
		log:      log,
		settings: settings.NewStore(filepath.Join(cfg.DataDir, settings.FileName)),
		entries:  entries,
		calc:     earnings.NewCalculator(log),
	}, nil
}

func (a *app) Close() {
	if err := a.entries.Close(); err != nil {
		a.log.Warn("closing store", zap.Error(err))
	}
	_ = a.log.Sync()
}

// rules loads the settings and the holiday calendar for the given years.
func (a *app) rules(years ...int) (settings.Settings, calendar.Holidays, error) {
	s, err := a.settings.Load()
	if err != nil {
		return settings.Settings{}, nil, err
	}
	h, err := s.Calendar(years...)
	if err != nil {
		return settings.Settings{}, nil, err
	}
	return s, h, nil
}
