package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/gamehub-backend/internal/data/db"
	apphttp "github.com/yungbote/gamehub-backend/internal/http"
	"github.com/yungbote/gamehub-backend/internal/observability"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *apphttp.Server
	Cfg      Config
	Repos    Repos
	Services Services

	closers      []func() error
	otelShutdown func(context.Context) error
	started      bool
}

func New(service Service) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	baseLog, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log := baseLog.With("app", string(service))

	log.Info("Loading environment variables...")
	cfg := LoadConfig(service, log)

	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(context.Background(), log, cfg.Otel)

	theDB, err := db.Open(cfg.DB, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	a.DB = theDB
	a.closers = append(a.closers, func() error {
		sqlDB, err := theDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	if err := migrate(service, theDB); err != nil {
		a.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	a.Repos = wireRepos(theDB, log)

	serviceset, err := wireServices(context.Background(), theDB, log, cfg, a.Repos)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Services = serviceset
	a.closers = append(a.closers, serviceset.closers...)

	if service == ServiceAccounts && cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := serviceset.Auth.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
			a.Close()
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}

	metrics := observability.NewMetrics(string(service))
	handlerset := wireHandlers(log, serviceset, metrics)
	middleware := wireMiddleware(log, serviceset)
	a.Server = apphttp.NewServer(wireRouter(cfg, log, metrics, handlerset, middleware, serviceset))
	return a, nil
}

func migrate(service Service, theDB *gorm.DB) error {
	switch service {
	case ServiceAssets:
		return db.AutoMigrateAssets(theDB)
	case ServiceAccounts:
		return db.AutoMigrateAccounts(theDB)
	case ServiceWorld:
		return db.AutoMigrateWorld(theDB)
	default:
		return fmt.Errorf("unknown service %q", service)
	}
}

func (a *App) Start() {
	if a == nil || a.started {
		return
	}
	a.started = true
	if a.Services.Sweeper != nil {
		a.Services.Sweeper.Start()
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "addr", a.Cfg.Addr())
	return a.Server.Run(a.Cfg.Addr())
}

// Shutdown drains in-flight requests and stops the sweeper.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	if a.Services.Sweeper != nil && a.started {
		a.Services.Sweeper.Stop()
	}
	if a.Server == nil {
		return nil
	}
	return a.Server.Shutdown(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("Close failed", "error", err)
		}
	}
	a.closers = nil
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.otelShutdown(ctx)
		cancel()
		a.otelShutdown = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
