package main

import (
	"context"
	"fmt"

	"process-report/internal/config"
	"process-report/internal/form"
	"process-report/internal/logger"
	"process-report/internal/pdf"
	"process-report/internal/service"
	"process-report/internal/storage"
)

// app holds the wired services shared by the commands.
type app struct {
	cfg      *config.Config
	history  *service.HistoryStore
	orch     *service.Orchestrator
	form     *form.Controller
	exporter *pdf.Exporter
	close    func()
}

func openStore(cfg *config.Config) (storage.Store, func(), error) {
	noop := func() {}
	switch cfg.Storage.Driver {
	case "", "file":
		s, err := storage.NewFileStore(cfg.Storage.Dir)
		return s, noop, err
	case "memory":
		return storage.NewMemoryStore(), noop, nil
	case "mysql":
		db, err := cfg.OpenGormDB()
		if err != nil {
			return nil, noop, err
		}
		s := storage.NewSQLStore(db)
		if err := s.Migrate(); err != nil {
			return nil, noop, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return s, closeDB, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// newApp wires storage and history. withAI also builds the generator; the
// history commands run without an API key.
func newApp(ctx context.Context, cfg *config.Config, withAI bool) (*app, error) {
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	history := service.NewHistoryStore(store)
	history.Load(ctx)

	var gen service.Generator
	if withAI {
		if gen, err = service.NewGenerator(ctx, cfg.AI); err != nil {
			closeStore()
			return nil, err
		}
		logger.Info("ai.ready", "provider", cfg.AI.Provider, "model", cfg.AI.Model)
	}
	orch := service.NewOrchestrator(gen, history)

	return &app{
		cfg:      cfg,
		history:  history,
		orch:     orch,
		form:     form.NewController(orch.Generating),
		exporter: pdf.NewExporter(pdf.NewFpdfSurface),
		close:    closeStore,
	}, nil
}
