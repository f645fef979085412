package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/olamidek/coursehub/internal/cache"
	"github.com/olamidek/coursehub/internal/config"
	"github.com/olamidek/coursehub/internal/http/handlers"
	"github.com/olamidek/coursehub/internal/http/middlewares"
	"github.com/olamidek/coursehub/internal/observability"
	"github.com/olamidek/coursehub/internal/storefront"
	"github.com/olamidek/coursehub/internal/whatsapp"
)

type RouterDeps struct {
	Cfg      config.Config
	Log      *slog.Logger
	Prom     *observability.Prom
	Metrics  http.Handler // promhttp handler for the metrics registry
	Hub      *storefront.Hub
	Provider handlers.SessionProvider
	Verifier middlewares.TokenVerifier
	Cache    *cache.Cache
	Notices  handlers.NoticeEnqueuer
	Links    whatsapp.Builder
	Pings    map[string]func() error
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("coursehub-api"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(deps.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware([]string{"http://localhost:5173", "http://localhost:3000"}))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// health + metrics
	health := handlers.NewHealthHandler(deps.Pings)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	authMw := middlewares.NewAuthMiddleware(deps.Verifier)

	// auth: tight per-IP rate limit on the credential surface
	authLimiter := middlewares.NewRateLimiter(10, time.Minute)

	authHandler := handlers.NewAuthHandler(deps.Provider, deps.Cfg)

	authGroup := r.Group("/auth")
	authGroup.Use(authLimiter.RateLimiterMiddleware(middlewares.KeyByIP))
	{
		authGroup.POST("/signup", authHandler.SignUp)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// catalog: public reads, personalized when a token is present
	catalogHandler := handlers.NewCatalogHandler(deps.Hub, deps.Cache)

	r.GET("/catalog", authMw.OptionalAuth(), catalogHandler.List)
	r.GET("/catalog/:id", authMw.OptionalAuth(), catalogHandler.GetByID)

	// view state: overlays work signed out too (the auth modal has to)
	stateHandler := handlers.NewStateHandler(deps.Hub)

	r.GET("/me/state", authMw.OptionalAuth(), stateHandler.State)
	r.POST("/me/overlay", authMw.OptionalAuth(), stateHandler.OpenOverlay)
	r.DELETE("/me/overlay", authMw.OptionalAuth(), stateHandler.CloseOverlay)

	// profile
	profileHandler := handlers.NewProfileHandler(deps.Hub)

	r.GET("/me", authMw.RequireAuth(), profileHandler.Me)
	r.PUT("/me/profile", authMw.RequireAuth(), profileHandler.Update)

	// purchases: optional auth so a signed-out attempt opens the auth overlay
	purchaseHandler := handlers.NewPurchaseHandler(deps.Hub, deps.Notices, deps.Links, deps.Log)

	r.POST("/purchases", authMw.OptionalAuth(), purchaseHandler.Confirm)

	// admin mutation surface
	adminHandler := handlers.NewAdminHandler(deps.Hub, deps.Cache)

	adminGroup := r.Group("/admin")
	adminGroup.Use(authMw.RequireAuth(), authMw.RequireAdmin())
	{
		adminGroup.POST("/products", adminHandler.CreateProduct)
		adminGroup.DELETE("/products/:id", adminHandler.DeleteProduct)
		adminGroup.POST("/products/restore", adminHandler.RestoreDefaults)
	}

	return r
}
