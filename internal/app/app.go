package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"teamboard/internal/config"
	"teamboard/internal/db"
	"teamboard/internal/docs"
	"teamboard/internal/events"
	"teamboard/internal/health"
	"teamboard/internal/logger"
	"teamboard/internal/project"
	"teamboard/internal/seed"
	"teamboard/internal/telemetry"
	"teamboard/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

const healthCheckInterval = 30 * time.Second

type App struct {
	config    *config.Config
	router    chi.Router
	server    *http.Server
	db        *bun.DB
	nats      *events.NATSPublisher
	telemetry *telemetry.Telemetry
	logger    *slog.Logger
}

func New(ctx context.Context) (*App, error) {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "git_commit", GitCommit, "build_time", BuildTime)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	tel, err := telemetry.Init(ctx, cfg.Telemetry.OTLPEndpoint, ServiceName, Version, cfg.Env, slogLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	database, err := db.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	app := &App{
		config:    cfg,
		db:        database,
		telemetry: tel,
		logger:    slogLogger,
	}

	if err := app.prepareSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}

	meter := otel.Meter(ServiceName)
	if err := tel.Metrics.Database.RegisterDB(database.DB, meter); err != nil {
		slogLogger.Warn("failed to register database pool metrics", "error", err)
	}

	dependencies := []string{"postgres"}
	publisher := events.Nop()
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, slogLogger)
		if err != nil {
			slogLogger.Warn("failed to initialize NATS publisher, change events disabled", "error", err)
		} else {
			app.nats = natsPublisher
			publisher = natsPublisher
			dependencies = append(dependencies, "nats")
		}
	} else {
		slogLogger.Info("no NATS url configured, change events disabled")
	}

	if err := tel.Metrics.Health.RegisterDependencies(meter, dependencies); err != nil {
		slogLogger.Warn("failed to register dependency metrics", "error", err)
	}

	projectRepo := project.NewRepository(database, tel.Metrics)
	projectService := project.NewService(projectRepo, publisher, tel.Metrics, slogLogger)

	userRepo := user.NewRepository(database, tel.Metrics)
	userService := user.NewService(userRepo, publisher, tel.Metrics, slogLogger)

	app.router = NewRouter(Routes{
		Health:   health.NewHandler(database),
		Projects: project.NewHandler(projectService, slogLogger),
		Users:    user.NewHandler(userService, slogLogger),
		Docs:     docs.NewHandler(docs.NewDocument(Version, cfg.Server.PublicURL)),
	}, cfg.Server.StaticDir, cfg.Server.CORSOrigins, slogLogger)

	slogLogger.Info("application initialized successfully")

	return app, nil
}

// prepareSchema drops the schema when a development reset is requested,
// creates missing tables and optionally inserts sample data.
func (a *App) prepareSchema(ctx context.Context) error {
	dbCfg := a.config.Database

	if dbCfg.ResetOnStart {
		if a.config.IsDevelopment() {
			if err := db.DropSchema(ctx, a.db); err != nil {
				return err
			}
		} else {
			a.logger.Warn("reset_on_start ignored outside development", "env", a.config.Env)
		}
	}

	if err := db.RunMigrations(ctx, a.db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if dbCfg.SeedSampleData {
		if _, err := seed.SampleData(ctx, a.db, a.logger); err != nil {
			return fmt.Errorf("failed to insert sample data: %w", err)
		}
	}
	return nil
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         a.config.Server.Addr(),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "addr", a.server.Addr)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartHealthChecks records dependency health until ctx is cancelled.
func (a *App) StartHealthChecks(ctx context.Context) {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	a.checkDependencies(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.checkDependencies(ctx)
		}
	}
}

func (a *App) checkDependencies(ctx context.Context) {
	hm := a.telemetry.Metrics.Health

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := a.db.PingContext(checkCtx)
	hm.RecordDependencyCheck(ctx, "postgres", time.Since(start), err)
	if err != nil {
		a.logger.Warn("dependency check failed", "dependency", "postgres", "error", err)
	}

	if a.nats != nil {
		start = time.Now()
		err = a.nats.HealthCheck(checkCtx)
		hm.RecordDependencyCheck(ctx, "nats", time.Since(start), err)
		if err != nil {
			a.logger.Warn("dependency check failed", "dependency", "nats", "error", err)
		}
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}
	if a.nats != nil {
		if err := a.nats.Close(); err != nil {
			errs = append(errs, fmt.Errorf("nats: %w", err))
		}
	}
	if err := a.telemetry.Shutdown(ctx, a.logger); err != nil {
		errs = append(errs, err)
	}
	db.Close(a.db)

	return errors.Join(errs...)
}
