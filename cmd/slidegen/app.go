package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/gnemet/SlideGen/internal/ai"
	"github.com/gnemet/SlideGen/internal/config"
	"github.com/gnemet/SlideGen/internal/database"
	"github.com/gnemet/SlideGen/internal/errs"
	"github.com/gnemet/SlideGen/internal/forge"
	"github.com/gnemet/SlideGen/internal/logger"
)

// newGenerator is swapped out in tests.
var newGenerator = ai.NewClient

// app holds what the commands share: configuration, logger, the Gemini
// client and the optional history store.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	gen    ai.Generator
	store  *database.Store
}

func loadApp(ctx context.Context, withAI bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger.Setup(cfg.Application.LogLevel, os.Stderr)}

	if withAI {
		gen, err := newGenerator(ctx, cfg.Gemini, a.logger)
		if err != nil {
			return nil, err
		}
		a.gen = gen
	}

	if cfg.Database.Enabled() {
		db, err := database.NewConnection(ctx, cfg.Database.GetConnectStr())
		if err != nil {
			a.logger.Warn("Run history disabled", "error", err)
		} else if err := database.EnsureSchema(ctx, db); err != nil {
			a.logger.Warn("Run history disabled", "error", err)
			db.Close()
		} else {
			a.store = database.NewStore(db)
		}
	}
	return a, nil
}

func (a *app) forge() *forge.Forge {
	var history forge.History
	if a.store != nil {
		history = a.store
	}
	return forge.New(a.cfg, a.gen, history, a.logger)
}

func (a *app) requireStore() error {
	if a.store == nil {
		return errs.Errorf(errs.Config, "open history", "no database configured (set database.url or DB_URL)")
	}
	return nil
}

func (a *app) Close() {
	if c, ok := a.gen.(io.Closer); ok {
		c.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}
