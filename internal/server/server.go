// Package server exposes the HTTP API: follow-up generation and review,
// waiting-thread listing, decisions, tasks, notifications, and push
// subscription lifecycle. Every response uses the
// {success, message?, ...payload} envelope.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kingcader/attache/internal/config"
	"github.com/kingcader/attache/internal/decision"
	"github.com/kingcader/attache/internal/followup"
	"github.com/kingcader/attache/internal/push"
	"github.com/kingcader/attache/internal/store"
	"github.com/kingcader/attache/internal/task"
	"go.uber.org/zap"
)

// Opts holds the services the server fronts.
type Opts struct {
	Store      *store.DB
	FollowUps  *followup.Service
	Decisions  *decision.Service
	Tasks      *task.Service
	Registry   *push.Registry
	Dispatcher *push.Dispatcher
	Config     config.ServerConfig
	Logger     *zap.Logger

	// Now is the clock used for day computations. Defaults to time.Now.
	Now func() time.Time
}

// Server routes HTTP requests to the domain services.
type Server struct {
	store      *store.DB
	followups  *followup.Service
	decisions  *decision.Service
	tasks      *task.Service
	registry   *push.Registry
	dispatcher *push.Dispatcher
	cfg        config.ServerConfig
	log        *zap.Logger
	now        func() time.Time
}

// New validates dependencies and builds a Server.
func New(opts Opts) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("server: store is required")
	}
	if opts.FollowUps == nil {
		return nil, fmt.Errorf("server: follow-up service is required")
	}
	if opts.Decisions == nil {
		return nil, fmt.Errorf("server: decision service is required")
	}
	if opts.Tasks == nil {
		return nil, fmt.Errorf("server: task service is required")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("server: push registry is required")
	}
	if opts.Dispatcher == nil {
		return nil, fmt.Errorf("server: push dispatcher is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		store:      opts.Store,
		followups:  opts.FollowUps,
		decisions:  opts.Decisions,
		tasks:      opts.Tasks,
		registry:   opts.Registry,
		dispatcher: opts.Dispatcher,
		cfg:        opts.Config,
		log:        log,
		now:        now,
	}, nil
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	s.registerRoutes(router)
	return router
}

// Start runs the server, blocking until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("http server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
