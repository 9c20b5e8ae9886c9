package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/realtyflow/api/internal/auth"
	"github.com/realtyflow/api/internal/cache"
	"github.com/realtyflow/api/internal/config"
	"github.com/realtyflow/api/internal/http/handlers"
	"github.com/realtyflow/api/internal/http/middlewares"
	"github.com/realtyflow/api/internal/observability"
	"github.com/realtyflow/api/internal/repo/postgres"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "realtyflow"

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers.RegisterValidators()

	r := gin.New()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())
	r.Use(prom.GinHandleMiddleware())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// listing cache: shared redis when configured, otherwise per-process
	var listCache cache.Store
	if cfg.RedisAddr != "" {
		listCache = cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, 30*time.Second)
	} else {
		listCache = cache.NewMemory(30 * time.Second)
	}

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	propertiesRepo := postgres.NewPropertiesRepo(pool, prom)
	sessionsRepo := postgres.NewSessionsRepo(pool, prom)

	sessions := auth.NewSessions(sessionsRepo, cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, sessions, cfg)
	propertiesHandler := handlers.NewPropertiesHandler(propertiesRepo, listCache, prom)

	authMw := middlewares.NewAuthMiddleware(sessions)
	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)

	// auth
	r.POST("/auth/register", loginLimiter.Middleware(middlewares.KeyByIP), authHandler.Register)
	r.POST("/auth/login", loginLimiter.Middleware(middlewares.KeyByIP), authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)
	r.GET("/auth/me", authMw.RequireAuth(), authHandler.Me)

	// public catalog
	r.GET("/properties", propertiesHandler.ListProperties)
	r.GET("/properties/:id", propertiesHandler.GetPropertyByID)

	// admin writes: role gate sits before any body validation
	admin := r.Group("/", authMw.RequireAuth())
	admin.POST("/properties", authMw.RequirePermission(auth.ActionCreateListing), propertiesHandler.CreateProperty)
	admin.PATCH("/properties/:id", authMw.RequirePermission(auth.ActionUpdateListing), propertiesHandler.UpdateProperty)
	admin.DELETE("/properties/:id", authMw.RequirePermission(auth.ActionDeleteListing), propertiesHandler.DeleteProperty)

	return r
}
