// Package server exposes the latest pipeline snapshot over a JSON API.
//
// Routes:
//
//	GET  /healthz
//	GET  /api/v1/relations/:view   paged column map of full, orders or delivery
//	GET  /api/v1/views             analytics section names
//	GET  /api/v1/views/:name       one analytics section
//	POST /api/v1/refresh           drop the cached snapshot and rebuild it
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orderetl/internal/analytics"
	"orderetl/internal/cache"
	"orderetl/internal/logging"
	"orderetl/internal/pipeline"
)

// Snapshot is one pipeline run as served by the API.
type Snapshot struct {
	RunID       string
	GeneratedAt time.Time
	Result      *pipeline.Result
	Report      *analytics.Report
}

// Loader produces a fresh snapshot.
type Loader func(ctx context.Context) (*Snapshot, error)

// Server memoizes the snapshot for a TTL and serves it.
type Server struct {
	memo   *cache.Memo[*Snapshot]
	log    *zap.Logger
	engine *gin.Engine
}

// New builds the server. The first request (or Warm) triggers a load.
func New(load Loader, ttl time.Duration, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		memo: cache.NewMemo(ttl, func(ctx context.Context) (*Snapshot, error) { return load(ctx) }),
		log:  log,
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.GinMiddleware(log))
	r.GET("/healthz", s.Health)
	v1 := r.Group("/api/v1")
	v1.GET("/relations/:view", s.GetRelation)
	v1.GET("/views", s.ListViews)
	v1.GET("/views/:name", s.GetView)
	v1.POST("/refresh", s.Refresh)
	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Warm seeds the cache with an already computed snapshot.
func (s *Server) Warm(ctx context.Context) error {
	_, err := s.memo.Get(ctx)
	return err
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
