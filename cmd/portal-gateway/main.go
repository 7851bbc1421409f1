package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/news-portal/internal/clients"
	"github.com/pribylovaa/news-portal/internal/config"
	gwhttp "github.com/pribylovaa/news-portal/internal/http"
	"github.com/pribylovaa/news-portal/internal/metrics"
	"github.com/pribylovaa/news-portal/internal/plan"
	"github.com/pribylovaa/news-portal/internal/session"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting portal-gateway", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	content, err := clients.New(*cfg, log)
	if err != nil {
		log.Error("clients_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if cerr := content.Close(); cerr != nil {
			log.Warn("clients_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	log.Info("clients_initialized", slog.String("content_addr", cfg.GRPC.ContentAddr))

	m := metrics.New(prometheus.DefaultRegisterer)

	registry := session.NewRegistry(content,
		plan.Sizes{
			Top:     cfg.Feeds.TopSize,
			Regular: cfg.Feeds.RegularSize,
			Search:  cfg.Feeds.SearchSize,
		},
		session.Config{
			TTL:             cfg.Sessions.TTL,
			Max:             cfg.Sessions.Max,
			JanitorInterval: cfg.Sessions.JanitorInterval,
			SettleTimeout:   cfg.Timeouts.Settle,
			ViewTimeout:     cfg.Timeouts.Views,
		},
		m, m.SessionsActive, log,
	)

	janitorDone := make(chan struct{})
	go func() {
		defer close(janitorDone)
		_ = registry.Run(rootCtx)
	}()

	// HTTP readiness/liveness/metrics
	probe := &metrics.Probe{}
	metricsAddr := cfg.Metrics.Addr()
	metricsSrv := &http.Server{
		Addr:              metricsAddr,
		Handler:           metrics.Mux(probe, prometheus.DefaultGatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("metrics_listen_start", slog.String("addr", metricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics_serve_failed", slog.String("err", err.Error()))
		}
	}()

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr: httpAddr,
		Handler: gwhttp.NewRouter(registry, gwhttp.Options{
			Logger:   log,
			Timeout:  cfg.Timeouts.Service,
			Settle:   cfg.Timeouts.Settle,
			BasePath: "/api",
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	probe.SetReady(true)
	log.Info("gateway_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	probe.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	// Реестр закрывает все сессии при отмене rootCtx.
	rootCancel()
	<-janitorDone

	_ = metricsSrv.Shutdown(shutdownCtx)

	log.Info("service_stopped")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
