package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ajramos/themesync/internal/config"
	"github.com/ajramos/themesync/internal/loader"
	"github.com/ajramos/themesync/internal/logging"
	"github.com/ajramos/themesync/internal/registry"
	"github.com/ajramos/themesync/internal/services"
	"github.com/ajramos/themesync/internal/theme"
)

// app wires the engine for one CLI invocation
type app struct {
	cfg      *config.Config
	manager  *config.Manager
	themes   []string
	logger   *logging.Logger
	stores   *services.StoreManager
	registry *registry.Registry
	loader   *loader.Loader
	sync     *services.SyncServiceImpl
	facade   *services.ThemeServiceImpl

	out    io.Writer
	errOut io.Writer
}

func newApp(ctx context.Context, configPath string, out, errOut io.Writer) (*app, error) {
	manager := config.NewManager()
	if err := manager.LoadFromFile(configPath); err != nil {
		return nil, err
	}
	cfg := manager.GetConfig()

	logFile := cfg.LogFile
	if logFile == "" {
		logFile = config.DefaultLogPath()
	}
	logger, err := logging.New(logging.Options{File: logFile, Level: cfg.LogLevel, Stderr: errOut})
	if logger == nil {
		return nil, err
	}
	if err != nil {
		logger.Warn("could not open log file", "err", err)
	}

	defaultVariant, err := theme.ParseVariant(cfg.DefaultVariant)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("invalid default variant: %w", err)
	}

	dirs := manager.ThemesDirs()
	strategies, err := registry.StrategiesFor(cfg.Discovery, dirs)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	reg := registry.New(logger.Logger, strategies...)
	ld := loader.New(reg, logger.Logger)

	stores := services.NewStoreManager(cfg, logger.Logger)
	syncSvc := services.NewSyncService(stores, reg, ld, cfg.Section, logger.Logger)
	syncSvc.SetHistory(stores)
	facade := services.NewThemeService(stores, reg, ld, syncSvc, cfg.Section, defaultVariant, logger.Logger)
	stores.OnReady(facade.StoreReady)

	if _, err := stores.Open(ctx); err != nil {
		// The facade still resolves the default theme without a store
		logger.Error("settings store unavailable", "err", err)
	}

	return &app{
		cfg:      cfg,
		manager:  manager,
		themes:   dirs,
		logger:   logger,
		stores:   stores,
		registry: reg,
		loader:   ld,
		sync:     syncSvc,
		facade:   facade,
		out:      out,
		errOut:   errOut,
	}, nil
}

func (a *app) Close() error {
	return errors.Join(a.stores.Close(), a.logger.Close())
}

// run executes one command and returns the process exit code
func run(ctx context.Context, configPath string, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command '%s'\n\n", args[0])
		usage(stderr)
		return 2
	}

	if err := execute(ctx, cmd, configPath, args[1:], stdout, stderr); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "usage: %s %s\n", args[0], cmd.args)
			return 2
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, cmd command, configPath string, args []string, stdout, stderr io.Writer) error {
	if cmd.setup != nil {
		return cmd.setup(configPath, args, stdout)
	}

	a, err := newApp(ctx, configPath, stdout, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	return cmd.run(ctx, a, args)
}
