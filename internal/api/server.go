// Package api serves pointing solutions, satellite visibility and live
// alignment sessions over HTTP.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/catalog"
	"github.com/litescript/ls-satfinder/internal/guidance"
	"github.com/litescript/ls-satfinder/internal/logging"
	"github.com/litescript/ls-satfinder/internal/metrics"
	"github.com/litescript/ls-satfinder/internal/pointing"
	"github.com/litescript/ls-satfinder/internal/state"
	"github.com/litescript/ls-satfinder/internal/version"
)

const serviceName = "ls-satfinder"

// Deps are the collaborators the HTTP layer serves from. Catalog is
// required; a nil Session disables the session routes and a nil Metrics
// disables /metrics.
type Deps struct {
	Catalog *catalog.Catalog
	Session *state.Manager
	Metrics *metrics.Collector
	Log     *logging.Logger

	// Defaults applied when a request leaves them out.
	Pointing     pointing.Options
	Guidance     guidance.Options // session lock tolerances
	FrequencyGHz float64
	MinElevation float64
	RecordsDir   string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Server wraps the fiber application.
type Server struct {
	app  *fiber.App
	deps Deps
	log  *logging.Logger
}

// New builds the application and registers every route.
func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.RecordsDir == "" {
		deps.RecordsDir = "."
	}

	s := &Server{deps: deps, log: deps.Log.With("api")}
	s.app = fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Output: deps.Log.Writer(logging.LevelDebug),
		Format: "${status} ${method} ${path} ${latency}\n",
	}))
	s.app.Use(s.observe)

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":     "ok",
			"service":    serviceName,
			"version":    version.Version,
			"satellites": deps.Catalog.Len(),
			"session":    deps.Session != nil,
			"target_set": deps.Session != nil && deps.Session.HasTarget(),
		})
	})
	if deps.Metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	s.registerRoutes()

	return s
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", addr)
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}

// observe records request counts and latency by matched route.
func (s *Server) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = statusFor(err)
	}
	s.deps.Metrics.ObserveHTTP(c.Method(), c.Route().Path, status, time.Since(start))
	return err
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		s.log.Error("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, astro.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, catalog.ErrUnknownSatellite):
		return fiber.StatusNotFound
	case errors.Is(err, state.ErrNoTarget):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
