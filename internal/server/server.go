package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// Options are the optional parts of the server.
type Options struct {
	// MediaRoot is served under cfg.MediaURL when set.
	MediaRoot string
}

// Server represents the HTTP server
type Server struct {
	router  *gin.Engine
	http    *http.Server
	metrics *middleware.Metrics
}

// New builds the gin engine with middleware and every route.
func New(cfg *config.Config, db *gorm.DB, svc api.Services, opts Options) *Server {
	if !config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := middleware.NewMetrics()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		metrics.Middleware(),
		middleware.CORS(cfg.CORSOrigins),
	)

	api.RegisterRoutes(router, db, svc)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	if opts.MediaRoot != "" {
		router.Static(cfg.MediaURL, opts.MediaRoot)
	}

	return &Server{
		router:  router,
		metrics: metrics,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It never returns http.ErrServerClosed.
func (s *Server) Start() error {
	logger.Logger.Info().Str("addr", s.http.Addr).Msg("starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
