package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pribylovaa/twaincards-client/internal/config"
	"github.com/pribylovaa/twaincards-client/internal/pkg/log"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	// .env необязателен: переменные окружения могут быть заданы снаружи.
	_ = godotenv.Load()

	var configPath, metricsAddr string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&metricsAddr, "metrics", "", "serve /metrics and /livez on this address while the command runs")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg := config.MustLoad(configPath)

	logger := setupLogger(cfg.Env)
	slog.SetDefault(logger)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()
	rootCtx = log.Into(rootCtx, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := newApp(rootCtx, cfg, logger, reg, os.Stdin, os.Stdout)
	if err != nil {
		logger.Error("app_init_failed", slog.String("err", err.Error()))
		fmt.Fprintln(os.Stderr, "twaincards:", err)
		os.Exit(1)
	}

	if metricsAddr == "" && cfg.Metrics.Enabled() {
		metricsAddr = cfg.Metrics.Addr()
	}
	stopOps := startOps(rootCtx, logger, metricsAddr, reg)

	code := 0
	if err := a.run(rootCtx, flag.Args()); err != nil {
		logger.Debug("command_failed", slog.String("err", err.Error()))
		fmt.Fprintln(os.Stderr, "twaincards:", err)
		code = 1
	}

	stopOps()
	a.close(context.WithoutCancel(rootCtx))
	rootCancel()

	os.Exit(code)
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: twaincards [--config path] [--metrics addr] <command> [args]

commands:
  login <username|email> <password>
  logout
  whoami
  status
  collections [page]
  study <collectionId> [--start-side front|back|random]
  stats [days]
`)
}

// Логи пишутся в stderr: stdout занят выводом команд.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	default:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
