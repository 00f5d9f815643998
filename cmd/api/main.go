package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/sakshisonawane10/Blast-Radius/internal/app"
	"github.com/sakshisonawane10/Blast-Radius/internal/application/session"
	"github.com/sakshisonawane10/Blast-Radius/internal/config"
	"github.com/sakshisonawane10/Blast-Radius/internal/infra/httpserver"
	"github.com/sakshisonawane10/Blast-Radius/internal/logging"
	"github.com/sakshisonawane10/Blast-Radius/internal/middleware"
	"github.com/sakshisonawane10/Blast-Radius/internal/render"
	"github.com/sakshisonawane10/Blast-Radius/internal/telemetry"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "blast-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// path config.yaml
	path, required := config.DefaultPath, false
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path, required = v, true
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "blast-api",
		ServiceVersion: version,
		TraceExporter:  cfg.Telemetry.TraceExporter,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure:   cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("telemetry init: %w", err)
	}

	diag, err := app.OpenDiagnostics(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer diag.Close()

	gen, model, err := app.NewGenerator(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := app.NewService(cfg, gen, model, diag, reg, log)
	sessions := session.NewRegistry(svc, cfg.Server.SessionIdle)

	pages, err := render.NewPages()
	if err != nil {
		return err
	}

	checkers := map[string]middleware.HealthChecker{
		"credential": middleware.CredentialChecker{Credential: cfg.Credential()},
	}
	deps := httpserver.Deps{
		Analyzer:    svc,
		Sessions:    sessions,
		Pages:       pages,
		Checkers:    checkers,
		Metrics:     middleware.NewHTTPMetrics(reg),
		APIKeys:     cfg.Auth.APIKeys,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      log,
	}
	if cfg.RateLimit.RPS > 0 {
		deps.Limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	if diag != nil {
		checkers["diagnostics"] = &middleware.DatabaseHealthChecker{DB: diag.DB}
		deps.Failures = diag.Recorder
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpserver.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", addr, "provider", cfg.AI.Provider, "model", model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return sessions.Run(gctx, time.Minute)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(sctx)
		if terr := shutdownTracing(sctx); terr != nil {
			log.Warn("tracing shutdown", "err", terr)
		}
		return err
	})

	return g.Wait()
}
