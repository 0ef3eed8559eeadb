package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kalambet/firmsfinder/internal/auth"
	"github.com/kalambet/firmsfinder/internal/config"
	"github.com/kalambet/firmsfinder/internal/directory"
	"github.com/kalambet/firmsfinder/internal/pages"
	"github.com/kalambet/firmsfinder/internal/routes"
	"github.com/kalambet/firmsfinder/internal/session"
	"github.com/kalambet/firmsfinder/internal/storage"
)

// app is everything a command needs, wired from config.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.Store
	sessions *session.Store
	client   *directory.Client
	auth     *auth.Service
	views    *pages.Views
}

var newApp = func(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return buildApp(ctx, cfg, config.NewTokenStore())
}

func buildApp(ctx context.Context, cfg config.Config, tokens *config.TokenStore) (*app, error) {
	logger := newLogger(cfg.Log.Level)

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	sessions := session.New(store.Record(storage.SessionKey), logger)
	sessions.Initialize(ctx)

	client := directory.New(cfg.API.BaseURL, cfg.APITimeout(),
		directory.WithTokenSource(tokens),
		directory.WithLogger(logger),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		sessions: sessions,
		client:   client,
		auth:     auth.NewService(client, sessions, tokens, logger),
		views: pages.NewViews(client, sessions, pages.Settings{
			FetchLimit:        cfg.Services.FetchLimit,
			PageSize:          cfg.Pager.PageSize,
			Window:            cfg.Pager.Window,
			HomeServicesLimit: cfg.Home.ServicesLimit,
			GroupCap:          cfg.Home.GroupCap,
		}),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
	}
}

// allow checks the route guard for path against the stored session.
func (a *app) allow(path string) error {
	d := routes.Resolve(path, a.sessions.State().Status())
	if d.Action == routes.Redirect && d.Target == "/login" {
		return errLoginRequired
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	logLevel := slog.LevelInfo
	if strings.EqualFold(level, "debug") {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
