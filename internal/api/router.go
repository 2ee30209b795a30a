package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "github.com/appfounders/marketplace/docs"
	"github.com/appfounders/marketplace/internal/api/handler"
	"github.com/appfounders/marketplace/internal/api/middleware"
	"github.com/appfounders/marketplace/internal/core/domain"
	"github.com/appfounders/marketplace/internal/core/service"
	mongorepo "github.com/appfounders/marketplace/internal/infrastructure/db/mongo"
	redisstore "github.com/appfounders/marketplace/internal/infrastructure/db/redis"
	"github.com/appfounders/marketplace/internal/infrastructure/queue"
	"github.com/appfounders/marketplace/internal/pkg/config"
	"github.com/appfounders/marketplace/pkg/logger"
)

// Router bundles the HTTP server with the moderation dispatcher it feeds.
// The caller starts the dispatcher before serving.
type Router struct {
	Echo       *echo.Echo
	Dispatcher *queue.Dispatcher
}

// Policies for the protected routes.
var (
	testerOnly    = domain.RoutePolicy{RequiredRole: domain.RoleTester}
	developerOnly = domain.RoutePolicy{RequiredRole: domain.RoleDeveloper}
	adminOnly     = domain.RoutePolicy{RequiredRole: domain.RoleAdmin}

	readApp      = domain.RoutePolicy{RequiredRole: domain.RoleTester, ResourceType: service.ResourceApp, Action: domain.ActionRead}
	writeApp     = domain.RoutePolicy{RequiredRole: domain.RoleDeveloper, ResourceType: service.ResourceApp, Action: domain.ActionWrite}
	deleteApp    = domain.RoutePolicy{RequiredRole: domain.RoleDeveloper, ResourceType: service.ResourceApp, Action: domain.ActionDelete}
	deleteReview = domain.RoutePolicy{RequiredRole: domain.RoleTester, ResourceType: service.ResourceReview, Action: domain.ActionDelete}
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config) *Router {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(middleware.SecureHeaders(cfg.IsProduction()))
	e.Use(echoprometheus.NewMiddleware("appfounders"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	appRepo := mongorepo.NewAppRepository(db)
	reviewRepo := mongorepo.NewReviewRepository(db)
	moderationRepo := mongorepo.NewModerationRepository(db)
	revocations := redisstore.NewRevocationStore(rdb)
	dedup := redisstore.NewDedupChecker(rdb)

	tokens := service.NewSessionTokens(cfg.Session.Secret, cfg.Session.TTL)
	authService := service.NewAuthService(userRepo, tokens, revocations, log)
	appService := service.NewAppService(appRepo, log)
	reviewService := service.NewReviewService(appRepo, reviewRepo, log)
	moderationService := service.NewModerationService(appRepo, moderationRepo, dedup, log)
	dispatcher := queue.NewDispatcher(cfg.ModerationWorkers, moderationService, log)

	permissions := service.NewPermissionRegistry()
	permissions.Register(service.ResourceApp, service.AppOwnershipRule(appRepo))
	permissions.Register(service.ResourceReview, service.ReviewAuthorshipRule(reviewRepo))

	sessions := middleware.NewSessionResolver(middleware.SessionConfig{
		Tokens:      tokens,
		Identities:  userRepo,
		Revocations: revocations,
		Timeout:     cfg.Session.LookupTimeout,
		DevBypass:   !cfg.IsProduction(),
		Logger:      log,
	})
	gate := middleware.NewGate(sessions, permissions, log)

	authHandler := handler.NewAuthHandler(authService, cfg.Session.CookieSecure)
	appHandler := handler.NewAppHandler(appService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	moderationHandler := handler.NewModerationHandler(dispatcher)

	// --- Auth routes ---
	auth := e.Group("/auth")
	limited := middleware.RateLimitByIP(cfg.RateLimit.LoginPerMinute)
	auth.POST("/register", authHandler.Register, limited)
	auth.POST("/login", authHandler.Login, limited)
	auth.POST("/logout", gate.Protect(testerOnly, authHandler.Logout))
	auth.GET("/me", authHandler.Me, gate.Require(testerOnly))

	// --- Marketplace routes ---
	v1 := e.Group("/v1")
	v1.GET("/apps", appHandler.List)
	v1.POST("/apps", gate.Protect(developerOnly, appHandler.Submit))
	v1.GET("/apps/:id", gate.Protect(readApp, appHandler.Get))
	v1.PUT("/apps/:id", gate.Protect(writeApp, appHandler.Update))
	v1.DELETE("/apps/:id", gate.Protect(deleteApp, appHandler.Delete))
	v1.GET("/me/apps", gate.Protect(developerOnly, appHandler.ListMine))

	registerReviewRoutes(v1, gate, reviewHandler)

	// --- Admin routes ---
	admin := v1.Group("/admin")
	admin.POST("/moderation", gate.Protect(adminOnly, moderationHandler.Moderate))
	admin.POST("/moderation/batch", gate.Protect(adminOnly, moderationHandler.ModerateBatch))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(map[string]handler.DependencyCheck{
		"mongodb": func(ctx context.Context) error { return db.Client().Ping(ctx, readpref.Primary()) },
		"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	e.GET("/metrics", echoprometheus.NewHandler())
	if !cfg.IsProduction() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return &Router{Echo: e, Dispatcher: dispatcher}
}

// registerReviewRoutes mounts the review endpoints. Creating and listing run
// the app read rule on :id, so reviews of unpublished apps stay with the owner.
func registerReviewRoutes(g *echo.Group, gate *middleware.Gate, h *handler.ReviewHandler) {
	g.POST("/apps/:id/reviews", gate.Protect(readApp, h.Create))
	g.GET("/apps/:id/reviews", gate.Protect(readApp, h.List))
	g.DELETE("/reviews/:id", gate.Protect(deleteReview, h.Delete))
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
