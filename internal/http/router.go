package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/yungbote/gamehub-backend/internal/domain"
	httpH "github.com/yungbote/gamehub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/gamehub-backend/internal/http/middleware"
	"github.com/yungbote/gamehub-backend/internal/http/openapi"
	"github.com/yungbote/gamehub-backend/internal/observability"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

type RouterConfig struct {
	Service    string
	Log        *logger.Logger
	Metrics    *observability.Metrics
	CORSOrigin string

	AuthMiddleware *httpMW.AuthMiddleware
	HealthHandler  *httpH.HealthHandler

	// Assets
	AssetHandler *httpH.AssetHandler
	UploadsDir   string

	// Accounts
	AuthHandler   *httpH.AuthHandler
	UserHandler   *httpH.UserHandler
	AvatarHandler *httpH.AvatarHandler

	// World
	MapHandler        *httpH.MapHandler
	GridHandler       *httpH.GridHandler
	TeleporterHandler *httpH.TeleporterHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Service != "" {
		r.Use(otelgin.Middleware(cfg.Service))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigin))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}

	// Metrics
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// API description
	if doc := openapi.Document(cfg.Service); doc != nil {
		r.GET("/openapi.json", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", doc)
		})
		r.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/openapi.json")))
	}

	api := r.Group("/api")

	// Assets
	if cfg.AssetHandler != nil {
		assets := api.Group("/assets")
		upload := []gin.HandlerFunc{cfg.AssetHandler.Upload}
		if cfg.AuthMiddleware != nil {
			upload = append([]gin.HandlerFunc{cfg.AuthMiddleware.OptionalAuth()}, upload...)
			assets.POST("/sweep", cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireRole(types.RoleAdmin), cfg.AssetHandler.Sweep)
		}
		assets.POST("/:scope/:type/:category/upload", upload...)
		assets.GET("", cfg.AssetHandler.List)
		assets.GET("/:scope", cfg.AssetHandler.List)
		assets.GET("/:scope/:type", cfg.AssetHandler.List)
		assets.GET("/:scope/:type/:category", cfg.AssetHandler.List)
		assets.DELETE("/:scope/:type/:category/:filename", cfg.AssetHandler.Delete)
		if cfg.UploadsDir != "" {
			r.Static("/uploads", cfg.UploadsDir)
		}
	}

	// Auth (public)
	if cfg.AuthHandler != nil {
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}
	if cfg.AvatarHandler != nil {
		api.GET("/avatars", cfg.AvatarHandler.List)
		api.GET("/avatars/:id", cfg.AvatarHandler.Get)
	}

	if cfg.AuthMiddleware != nil {
		protected := api.Group("/")
		protected.Use(cfg.AuthMiddleware.RequireAuth())

		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}

		// Users
		if cfg.UserHandler != nil {
			protected.GET("/users/me", cfg.UserHandler.GetMe)
			protected.GET("/users/:id", cfg.UserHandler.Get)
			protected.PUT("/users/:id/avatar", cfg.UserHandler.UpdateAvatar)
		}

		// Avatars (admin)
		if cfg.AvatarHandler != nil {
			admin := protected.Group("/")
			admin.Use(cfg.AuthMiddleware.RequireRole(types.RoleAdmin))
			admin.POST("/avatars", cfg.AvatarHandler.Create)
			admin.DELETE("/avatars/:id", cfg.AvatarHandler.Delete)
		}
	}

	// Maps
	if cfg.MapHandler != nil {
		api.POST("/maps", cfg.MapHandler.Create)
		api.GET("/maps", cfg.MapHandler.List)
		api.GET("/maps/:id", cfg.MapHandler.Get)
		api.PUT("/maps/:id", cfg.MapHandler.Update)
		api.DELETE("/maps/:id", cfg.MapHandler.Delete)
		api.GET("/maps/:id/teleporters", cfg.MapHandler.ListTeleporters)
	}

	// Grids
	if cfg.GridHandler != nil {
		api.POST("/grids", cfg.GridHandler.Create)
		api.GET("/grids", cfg.GridHandler.List)
		api.GET("/grids/:id", cfg.GridHandler.Get)
		api.PUT("/grids/:id", cfg.GridHandler.Update)
		api.DELETE("/grids/:id", cfg.GridHandler.Delete)
		api.GET("/grids/:id/teleporters", cfg.GridHandler.ListTeleporters)
	}

	// Teleporters
	if cfg.TeleporterHandler != nil {
		api.POST("/teleporters", cfg.TeleporterHandler.Create)
		api.GET("/teleporters", cfg.TeleporterHandler.List)
		api.GET("/teleporters/:id", cfg.TeleporterHandler.Get)
		api.PUT("/teleporters/:id", cfg.TeleporterHandler.Update)
		api.DELETE("/teleporters/:id", cfg.TeleporterHandler.Delete)
	}

	return r
}
