package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lost-woods/cardkit/src/api"
	"github.com/lost-woods/cardkit/src/config"
	"github.com/lost-woods/cardkit/src/rng"
	"github.com/lost-woods/cardkit/src/store"
)

type Server struct {
	port           string
	router         *gin.Engine
	r              io.Reader
	health         *rng.Health
	healthInterval time.Duration
	log            *zap.SugaredLogger
}

// New wires the deck store and routes. r should already be safe for
// concurrent use (see rng.NewLockedReader).
func New(c config.Config, r io.Reader, h *rng.Health, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"X-API-KEY", "Accept"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowAllOrigins:  true,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(api.CheckHeader("X-API-KEY", c.APIKey))

	decks := store.New(r, h, log, c.MaxDecks)
	handlers := api.NewHandlers(r, h, log, decks)
	router.GET("/cards", handlers.RandomCards)
	router.GET("/health", handlers.Health)

	g := router.Group("/decks")
	g.POST("", handlers.CreateDeck)
	g.GET("/:id", handlers.GetDeck)
	g.POST("/:id/draw", handlers.DrawCards)
	g.POST("/:id/shuffle", handlers.ShuffleDeck)
	g.POST("/:id/refill", handlers.RefillDeck)
	g.DELETE("/:id", handlers.DeleteDeck)

	return &Server{
		port:           c.Port,
		router:         router,
		r:              r,
		health:         h,
		healthInterval: c.HealthInterval,
		log:            log,
	}
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, monitoring RNG health in the background.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go rng.PeriodicHealthCheck(ctx, s.r, s.health, s.healthInterval, s.log)

	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Infow("listening", "port", s.port)

	select {
	case err := <-errc:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

func (s *Server) RunOrDie(ctx context.Context) {
	if err := s.Run(ctx); err != nil {
		s.log.Fatalw("server stopped", "error", err)
	}
}

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugw("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
