// Package server exposes the timetable over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/auth"
	"github.com/javiermolinar/horario/internal/timetable"
)

// Options configures a Server.
type Options struct {
	Addr   string
	Days   []int // days exported when the request names none
	Gate   *auth.Gate
	Logger *zap.Logger
	Now    func() time.Time
}

// Server serves the timetable API.
type Server struct {
	svc    *timetable.Service
	opts   Options
	log    *zap.Logger
	engine *gin.Engine
}

// New creates a server over svc.
func New(svc *timetable.Service, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.Days) == 0 {
		opts.Days = []int{1, 2, 3, 4, 5}
	}
	registerValidators()

	s := &Server{svc: svc, opts: opts, log: opts.Logger}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/board", s.getBoard)
		api.GET("/schedule", s.getSchedule)
		api.GET("/registry", s.getRegistry)
		api.GET("/catalog", s.getCatalog)
		api.GET("/export.xlsx", s.getExport)

		admin := api.Group("")
		admin.Use(RequireAdmin(s.opts.Gate))
		{
			admin.PATCH("/entries/:id", s.patchEntry)
			admin.POST("/entries/:id/clear", s.clearEntry)
			admin.POST("/days", s.initializeDay)

			admin.POST("/registry/subjects", s.addSubject)
			admin.DELETE("/registry/subjects/:subject", s.removeSubject)
			admin.POST("/registry/subjects/:subject/teachers", s.addTeacher)
			admin.DELETE("/registry/subjects/:subject/teachers/:teacher", s.removeTeacher)
		}
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
