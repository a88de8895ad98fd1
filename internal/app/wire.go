package app

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/gamehub-backend/internal/assetpolicy"
	"github.com/yungbote/gamehub-backend/internal/clients/assetdir"
	"github.com/yungbote/gamehub-backend/internal/clients/redis"
	"github.com/yungbote/gamehub-backend/internal/data/repos"
	apphttp "github.com/yungbote/gamehub-backend/internal/http"
	httpH "github.com/yungbote/gamehub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/gamehub-backend/internal/http/middleware"
	"github.com/yungbote/gamehub-backend/internal/observability"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
	"github.com/yungbote/gamehub-backend/internal/services"
)

type Repos struct {
	Asset      repos.AssetRepo
	Map        repos.MapRepo
	Grid       repos.GridRepo
	Teleporter repos.TeleporterRepo
	User       repos.UserRepo
	Avatar     repos.AvatarRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Asset:      repos.NewAssetRepo(db, log),
		Map:        repos.NewMapRepo(db, log),
		Grid:       repos.NewGridRepo(db, log),
		Teleporter: repos.NewTeleporterRepo(db, log),
		User:       repos.NewUserRepo(db, log),
		Avatar:     repos.NewAvatarRepo(db, log),
	}
}

// Services holds what one binary needs; fields another binary owns stay nil.
type Services struct {
	Policy        assetpolicy.Policy
	Asset         services.AssetService
	Sweeper       *services.OrphanSweeper
	StaticDir     string
	Authenticator services.Authenticator

	Auth   services.AuthService
	User   services.UserService
	Avatar services.AvatarService

	Map        services.MapService
	Grid       services.GridService
	Teleporter services.TeleporterService

	closers []func() error
}

func wireServices(ctx context.Context, db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	log.Info("Wiring services...")
	var out Services

	revocations, err := wireRevocations(log, cfg, &out)
	if err != nil {
		out.close(log)
		return Services{}, err
	}

	var tokens services.TokenService
	if strings.TrimSpace(cfg.JWTSecret) != "" {
		tokens, err = services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
		if err != nil {
			out.close(log)
			return Services{}, fmt.Errorf("init token service: %w", err)
		}
		out.Authenticator = services.NewTokenAuthenticator(tokens, revocations)
	}

	var directory services.AssetDirectory
	if cfg.Service != ServiceAssets && strings.TrimSpace(cfg.AssetServiceURL) != "" {
		client, err := assetdir.New(log, assetdir.Config{BaseURL: cfg.AssetServiceURL, Timeout: cfg.AssetServiceTimeout})
		if err != nil {
			out.close(log)
			return Services{}, fmt.Errorf("init asset directory client: %w", err)
		}
		directory = client
	}

	switch cfg.Service {
	case ServiceAssets:
		policy := assetpolicy.Default()
		if cfg.AssetPolicyFile != "" {
			policy, err = assetpolicy.Load(cfg.AssetPolicyFile)
			if err != nil {
				out.close(log)
				return Services{}, err
			}
		}
		out.Policy = policy

		sp, err := resolveStorageProvider(ctx, log, cfg)
		if err != nil {
			out.close(log)
			return Services{}, err
		}
		out.closers = append(out.closers, sp.Close)
		out.StaticDir = sp.StaticDir
		out.Asset = services.NewAssetService(db, log, r.Asset, sp.Store, policy, cfg.OrphanGrace)

		if cfg.OrphanSweepCron != "" {
			out.Sweeper, err = services.NewOrphanSweeper(log, out.Asset, cfg.OrphanSweepCron)
			if err != nil {
				out.close(log)
				return Services{}, err
			}
		}

	case ServiceAccounts:
		if tokens == nil {
			out.close(log)
			return Services{}, fmt.Errorf("JWT_SECRET is required for the accounts service")
		}
		out.Auth = services.NewAuthService(db, log, r.User, tokens, revocations)
		out.User = services.NewUserService(db, log, r.User, r.Avatar)
		out.Avatar = services.NewAvatarService(db, log, r.Avatar, directory)

	case ServiceWorld:
		out.Map = services.NewMapService(db, log, r.Map, directory)
		out.Grid = services.NewGridService(db, log, r.Grid)
		out.Teleporter = services.NewTeleporterService(db, log, r.Teleporter)

	default:
		out.close(log)
		return Services{}, fmt.Errorf("unknown service %q", cfg.Service)
	}
	return out, nil
}

func wireRevocations(log *logger.Logger, cfg Config, out *Services) (services.RevocationStore, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return services.NoopRevocationStore{}, nil
	}
	client, err := redis.NewClient(log, redis.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	out.closers = append(out.closers, client.Close)
	return services.NewRedisRevocationStore(client), nil
}

func (s *Services) close(log *logger.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Warn("Close failed", "error", err)
		}
	}
	s.closers = nil
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Asset      *httpH.AssetHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Avatar     *httpH.AvatarHandler
	Map        *httpH.MapHandler
	Grid       *httpH.GridHandler
	Teleporter *httpH.TeleporterHandler
}

func wireHandlers(log *logger.Logger, s Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	h := Handlers{Health: httpH.NewHealthHandler()}
	if s.Asset != nil {
		h.Asset = httpH.NewAssetHandler(log, s.Asset, metrics, s.Policy.Limit())
	}
	if s.Auth != nil {
		h.Auth = httpH.NewAuthHandler(s.Auth)
		h.User = httpH.NewUserHandler(s.User)
		h.Avatar = httpH.NewAvatarHandler(s.Avatar)
	}
	if s.Map != nil {
		h.Map = httpH.NewMapHandler(s.Map, s.Teleporter)
		h.Grid = httpH.NewGridHandler(s.Grid, s.Teleporter)
		h.Teleporter = httpH.NewTeleporterHandler(s.Teleporter)
	}
	return h
}

func wireMiddleware(log *logger.Logger, s Services) *httpMW.AuthMiddleware {
	if s.Authenticator == nil {
		log.Warn("JWT_SECRET not set; authenticated routes are disabled")
		return nil
	}
	return httpMW.NewAuthMiddleware(log, s.Authenticator)
}

func wireRouter(cfg Config, log *logger.Logger, metrics *observability.Metrics, h Handlers, mw *httpMW.AuthMiddleware, s Services) apphttp.RouterConfig {
	return apphttp.RouterConfig{
		Service:           string(cfg.Service),
		Log:               log,
		Metrics:           metrics,
		CORSOrigin:        cfg.CORSOrigin,
		AuthMiddleware:    mw,
		HealthHandler:     h.Health,
		AssetHandler:      h.Asset,
		UploadsDir:        s.StaticDir,
		AuthHandler:       h.Auth,
		UserHandler:       h.User,
		AvatarHandler:     h.Avatar,
		MapHandler:        h.Map,
		GridHandler:       h.Grid,
		TeleporterHandler: h.Teleporter,
	}
}
