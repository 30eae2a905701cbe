package cli

import (
	"fmt"

	"go.uber.org/zap"

	"ab-tracker/internal/assign"
	"ab-tracker/internal/config"
	"ab-tracker/internal/events"
	"ab-tracker/internal/experiment"
	"ab-tracker/internal/export"
	"ab-tracker/internal/session"
	"ab-tracker/internal/storage"
	"ab-tracker/internal/tracker"
)

// app bundles the wired collaborators shared by the subcommands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *experiment.Registry
	store    storage.Store
	recorder *events.Recorder
	tracker  *tracker.Tracker
	sink     events.Sink
}

func newApp() (*app, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	registry, err := experiment.LoadCatalog(cfg.RegistryFilePath)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	recorder := events.NewRecorder(store, logger,
		events.WithBounds(cfg.EventCap, cfg.EventTruncateTo))
	sessions := session.NewManager(store, logger)
	assigner := assign.New(registry, store,
		assign.WithRecorder(recorder),
		assign.WithLogger(logger))
	trk := tracker.New(assigner, recorder, sessions,
		tracker.WithUserAgent(cfg.UserAgent),
		tracker.WithLogger(logger))

	var sink events.Sink = export.NewLogSink(logger)
	if cfg.ExportEndpoint != "" {
		sink = export.NewHTTPSink(cfg.ExportEndpoint, logger)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		store:    store,
		recorder: recorder,
		tracker:  trk,
		sink:     sink,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("store close failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil
	case config.BackendSQLite:
		return storage.NewSQLiteStore(cfg.StoreDBPath)
	default:
		return storage.NewFileStore(cfg.StoreFilePath)
	}
}
