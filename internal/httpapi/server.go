// Package httpapi exposes the task engines over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/runoshun/taskman/internal/engine"
)

// Engines creates the engines behind each request.
// app.Container implements it.
type Engines interface {
	ListEngine(opts ...engine.ListOption) *engine.ListEngine
	DetailEngine() *engine.DetailEngine
	CreateEngine() *engine.CreateEngine
}

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// Server serves the task API.
type Server struct {
	echo    *echo.Echo
	engines Engines
	logger  *slog.Logger
}

// New creates a Server with every route registered.
func New(engines Engines, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Error("request failed", append(attrs, slog.String("error", v.Error.Error()))...)
				return nil
			}
			logger.Debug("request", attrs...)
			return nil
		},
	}))

	s := &Server{
		echo:    e,
		engines: engines,
		logger:  logger,
	}
	s.register()
	return s
}

func (s *Server) register() {
	s.echo.GET("/tasks", s.listTasks)
	s.echo.GET("/tasks/stream", s.streamTasks)
	s.echo.POST("/tasks", s.createTask)
	s.echo.GET("/tasks/:id", s.getTask)
	s.echo.PUT("/tasks/:id", s.updateTask)
	s.echo.DELETE("/tasks/:id", s.deleteTask)
	s.echo.POST("/tasks/:id/toggle-done", s.toggleDone)
	s.echo.POST("/tasks/:id/toggle-progress", s.toggleProgress)
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
