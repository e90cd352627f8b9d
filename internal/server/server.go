package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"artfolio/internal/config"
	"artfolio/internal/middleware"
	"artfolio/internal/modules/admin"
	"artfolio/internal/modules/artwork"
	"artfolio/internal/modules/auth"
	"artfolio/internal/modules/commission"
	"artfolio/internal/modules/notification"
	"artfolio/internal/modules/order"
	"artfolio/internal/pkg/cache"
	"artfolio/internal/pkg/jwt"
	"artfolio/internal/pkg/metrics"
	"artfolio/internal/pkg/response"
	"artfolio/internal/repository"
	"artfolio/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps are the connections the server does not own. Redis is optional.
type Deps struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Storage storage.ObjectStorage
}

type Server struct {
	cfg        *config.Config
	db         *gorm.DB
	router     *gin.Engine
	httpServer *http.Server
	hub        *notification.Hub
	broker     *notification.RedisBroker
}

func New(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.DB == nil {
		return nil, errors.New("server: database is required")
	}
	if deps.Storage == nil {
		return nil, errors.New("server: object storage is required")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// repositories
	userRepo := repository.NewUserRepository(deps.DB)
	artworkRepo := repository.NewArtworkRepository(deps.DB)
	commissionRepo := repository.NewCommissionRepository(deps.DB)
	orderRepo := repository.NewOrderRepository(deps.DB)
	notificationRepo := repository.NewNotificationRepository(deps.DB)

	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	images := storage.NewImageStore(deps.Storage, cfg.Storage.MaxUploadSize)

	// notifications fan out through Redis when it is configured
	hub := notification.NewHub()
	var publisher notification.Publisher = notification.NewLocalPublisher(hub)
	var broker *notification.RedisBroker
	if deps.Redis != nil {
		broker = notification.NewRedisBroker(deps.Redis, hub)
		publisher = broker
	}

	// services
	notificationService := notification.NewService(notificationRepo, publisher)
	authService := auth.NewService(userRepo, jwtService)
	artworkService := artwork.NewService(artworkRepo, userRepo, images, notificationService)
	commissionService := commission.NewService(commissionRepo, userRepo, notificationService,
		cfg.Marketplace.CommissionBriefMinLength)
	orderService := order.NewService(orderRepo, artworkRepo, notificationService,
		cfg.Marketplace.OrderAllowDuplicates)
	adminService := admin.NewService(admin.Deps{
		Users:       userRepo,
		Artworks:    artworkService,
		Orders:      orderService,
		Commissions: commissionService,
		Stats: admin.RepositoryStats{
			Artworks:    artworkRepo,
			Orders:      orderRepo,
			Commissions: commissionRepo,
		},
		Cache:    cache.NewJSON(deps.Redis, "artfolio:"),
		StatsTTL: cfg.StatsCacheTTL,
	})

	// handlers
	authHandler := auth.NewHandler(authService)
	artworkHandler := artwork.NewHandler(artworkService, cfg.Storage.MaxUploadSize)
	commissionHandler := commission.NewHandler(commissionService)
	orderHandler := order.NewHandler(orderService)
	notificationHandler := notification.NewHandler(notificationService, hub, jwtService, cfg.CORSAllowedOrigins)
	adminHandler := admin.NewHandler(adminService)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.ErrorLogger(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/health", healthHandler(deps.DB))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.Storage.Driver == storage.DriverLocal {
		r.Static("/static", cfg.Storage.LocalDir)
	}

	api := r.Group("/api")
	notificationHandler.RegisterWebSocket(api)

	public := api.Group("")
	public.Use(middleware.OptionalAuth(jwtService), middleware.KnownUser(userRepo))
	{
		authHandler.RegisterPublicRoutes(public)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(jwtService), middleware.ActiveUser(userRepo))
	{
		authHandler.RegisterProtectedRoutes(protected)
		artworkHandler.RegisterRoutes(public, protected)
		commissionHandler.RegisterRoutes(protected)
		orderHandler.RegisterRoutes(protected)
		notificationHandler.RegisterRoutes(protected)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(middleware.AdminOnly())
		adminHandler.RegisterRoutes(adminGroup)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	return &Server{
		cfg:    cfg,
		db:     deps.DB,
		router: r,
		hub:    hub,
		broker: broker,
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then drains in-flight requests within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.broker != nil {
		go func() {
			if err := s.broker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				logrus.WithError(err).Error("notification subscriber stopped")
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", s.httpServer.Addr).Info("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer stop()

	s.hub.Close()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "UNAVAILABLE", "Database unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
