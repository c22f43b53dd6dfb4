package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	electionengine "univote/contexts/governance/election-engine"
	postgresadapter "univote/contexts/governance/election-engine/adapters/postgres"
	workerapp "univote/contexts/governance/election-engine/application/workers"
	"univote/internal/platform/config"
	"univote/internal/platform/db"
	"univote/internal/platform/httpserver"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server *httpserver.Server
	dbh    *db.Handle
	logger *slog.Logger
}

type WorkerApp struct {
	dbh           *db.Handle
	sweeper       workerapp.PhaseSweeper
	sweepInterval time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	dbh, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(dbh.DB, logger)
	if err := repo.Migrate(); err != nil {
		_ = dbh.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	module := buildModule(cfg, repo, logger)
	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server: server,
		dbh:    dbh,
		logger: logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	dbh, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(dbh.DB, logger)
	if err := repo.Migrate(); err != nil {
		_ = dbh.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	module := buildModule(cfg, repo, logger)
	return &WorkerApp{
		dbh:           dbh,
		sweeper:       module.Sweeper,
		sweepInterval: cfg.SweepInterval,
		logger:        logger,
	}, nil
}

func buildModule(cfg config.Config, repo *postgresadapter.Repository, logger *slog.Logger) electionengine.Module {
	return electionengine.NewModule(electionengine.Dependencies{
		Elections:    repo,
		Candidates:   repo,
		Tokens:       repo,
		Ballots:      repo,
		Grants:       repo,
		Rounds:       repo,
		Students:     repo,
		Clock:        postgresadapter.SystemClock{},
		IDGen:        postgresadapter.UUIDGenerator{},
		TokenTTL:     cfg.TokenTTL,
		RunoffWindow: cfg.RunoffWindow,
		Logger:       logger,
	})
}

func openDatabase(cfg config.Config) (*db.Handle, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver)) {
	case "", "postgres":
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return nil, fmt.Errorf("POSTGRES_DSN is required when DATABASE_DRIVER=postgres")
		}
		return db.ConnectPostgres(cfg.PostgresDSN)
	case "sqlite":
		return db.ConnectSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.dbh != nil {
		return a.dbh.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"sweep_interval", w.sweepInterval.String(),
	)

	for {
		if err := w.sweeper.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.dbh != nil {
		return w.dbh.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
