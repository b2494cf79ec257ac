package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/twaincards-client/internal/api"
	"github.com/pribylovaa/twaincards-client/internal/clients"
	"github.com/pribylovaa/twaincards-client/internal/config"
	"github.com/pribylovaa/twaincards-client/internal/metrics"
	"github.com/pribylovaa/twaincards-client/internal/observability"
	"github.com/pribylovaa/twaincards-client/internal/token"
	"github.com/pribylovaa/twaincards-client/internal/token/store"
)

// app — собранный клиент: хранилище токена, HTTP-клиент, API и вывод.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	in      io.Reader
	out     io.Writer
	tokens  *token.Manager
	api     *api.API
	nav     *cliNavigator
	metrics *metrics.Metrics

	closers []func(context.Context) error
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger, reg prometheus.Registerer, in io.Reader, out io.Writer) (*app, error) {
	const op = "main.newApp"

	a := &app{cfg: cfg, log: log, in: in, out: out}

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.closers = append(a.closers, closeStore)
	a.tokens = token.New(st)

	tracer, shutdown, err := observability.Setup(ctx, cfg.Tracing)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.closers = append(a.closers, shutdown)

	a.metrics = metrics.New(reg)
	a.nav = newCLINavigator(out)

	cl, err := clients.New(a.tokens, clients.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.Timeouts.Request,
		UserAgent: cfg.API.UserAgent,
		Logger:    log,
		Metrics:   a.metrics,
		Tracer:    tracer,
		Navigator: a.nav,
		Sessions:  a.tokens,
	})
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a.api = api.New(cl, a.tokens)

	log.Debug("app_initialized",
		slog.String("api", cfg.API.BaseURL),
		slog.String("token_store", cfg.Token.Store),
	)

	return a, nil
}

// openStore выбирает хранилище токена по конфигу.
func openStore(ctx context.Context, cfg *config.Config) (token.Store, func(context.Context) error, error) {
	nop := func(context.Context) error { return nil }

	switch cfg.Token.Store {
	case config.StoreMemory:
		return store.NewMemory(), nop, nil

	case config.StoreRedis:
		r, err := store.NewRedis(ctx, cfg.Redis.URL, cfg.Redis.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return r, func(context.Context) error { return r.Close() }, nil

	default:
		path := cfg.Token.Path
		if path == "" {
			p, err := store.DefaultPath()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		return store.NewFile(path), nop, nil
	}
}

// close освобождает ресурсы в обратном порядке.
func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn("app_close_failed", slog.String("err", err.Error()))
		}
	}
	a.closers = nil
}
