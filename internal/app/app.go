// Package app wires configuration into the assessment service and its
// optional diagnostics store. Both binaries build through it.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sakshisonawane10/Blast-Radius/internal/application"
	"github.com/sakshisonawane10/Blast-Radius/internal/application/assess"
	appdiag "github.com/sakshisonawane10/Blast-Radius/internal/application/diagnostics"
	"github.com/sakshisonawane10/Blast-Radius/internal/config"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/ai"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/diagnostics"
	"github.com/sakshisonawane10/Blast-Radius/internal/infra/ai/azure"
	"github.com/sakshisonawane10/Blast-Radius/internal/infra/ai/openai"
	mysqlp "github.com/sakshisonawane10/Blast-Radius/internal/infra/db/mysql"
	"github.com/sakshisonawane10/Blast-Radius/internal/infra/db/postgres"
	minioStore "github.com/sakshisonawane10/Blast-Radius/internal/infra/storage"
)

// NewGenerator returns the generator for cfg.AI.Provider and the model or
// deployment it will call.
func NewGenerator(cfg *config.Config) (ai.Generator, string, error) {
	credential := cfg.Credential()
	switch cfg.AI.Provider {
	case azure.Provider:
		c, err := azure.NewClient(cfg.AI.Azure.Endpoint, credential, cfg.AI.Azure.Deployment, cfg.AI.MaxTokens)
		if err != nil {
			return nil, "", err
		}
		return c, cfg.AI.Azure.Deployment, nil
	case openai.ProviderOpenAI, openai.ProviderGemini:
		c := openai.NewClient(openai.Options{
			Provider:  cfg.AI.Provider,
			APIKey:    credential,
			BaseURL:   cfg.AI.BaseURL,
			Model:     cfg.AI.Model,
			MaxTokens: cfg.AI.MaxTokens,
		})
		return c, c.DefaultModel(), nil
	default:
		return nil, "", fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}

// Diagnostics is the failure store. DB is nil when no driver is configured.
type Diagnostics struct {
	DB       *sql.DB
	Recorder *appdiag.Recorder
}

func (d *Diagnostics) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// OpenDiagnostics connects the configured database, migrates it and
// attaches the quarantine bucket when enabled. It returns nil, nil when
// diagnostics are off.
func OpenDiagnostics(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Diagnostics, error) {
	var (
		db   *sql.DB
		repo diagnostics.Repository
		err  error
	)
	switch cfg.Diagnostics.Driver {
	case "":
		if cfg.Quarantine.Enabled {
			log.Warn("quarantine is enabled but diagnostics.driver is empty; malformed payloads will not be kept")
		}
		return nil, nil
	case "mysql":
		if db, err = mysqlp.Connect(ctx, cfg.MySQLDSN()); err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		if err = mysqlp.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("mysql migrate: %w", err)
		}
		repo = mysqlp.NewFailureRepository(db)
	case "postgres":
		if db, err = postgres.Connect(ctx, cfg.PostgresDSN()); err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		if err = postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("postgres migrate: %w", err)
		}
		repo = postgres.NewFailureRepository(db)
	default:
		return nil, fmt.Errorf("unknown diagnostics driver %q", cfg.Diagnostics.Driver)
	}

	var quarantine diagnostics.Quarantine
	if q := cfg.Quarantine; q.Enabled {
		store, err := minioStore.New(ctx, q.Endpoint, q.Region, q.BucketName, q.AccessKey, q.SecretKey, q.UseSSL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("minio init: %w", err)
		}
		quarantine = store
	}

	return &Diagnostics{
		DB:       db,
		Recorder: appdiag.NewRecorder(repo, quarantine, application.SystemClock{}, log),
	}, nil
}

// NewService builds the assessment service. reg may be nil.
func NewService(cfg *config.Config, gen ai.Generator, model string, diag *Diagnostics, reg prometheus.Registerer, log *slog.Logger) *assess.Service {
	opts := assess.Options{
		Provider:   cfg.AI.Provider,
		Model:      model,
		Credential: cfg.Credential(),
		Timeout:    cfg.AI.Timeout,
		Logger:     log,
		Metrics:    assess.NewMetrics(reg),
	}
	if diag != nil {
		opts.Recorder = diag.Recorder
	}
	return assess.NewService(gen, opts)
}
