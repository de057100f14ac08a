// Package server exposes one cleaning robot over HTTP and websockets.
package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teslashibe/go-cleanbot/pkg/hub"
	"github.com/teslashibe/go-cleanbot/pkg/metrics"
	"github.com/teslashibe/go-cleanbot/pkg/robot"
)

// Server serialises HTTP commands onto a single robot.
type Server struct {
	app  *fiber.App
	port string

	// One command in flight at a time
	mu    sync.Mutex
	robot *robot.CleaningRobot

	events   *hub.Hub
	recorder *metrics.Recorder
	gatherer prometheus.Gatherer
	logger   *slog.Logger

	// OnReset runs after the robot is re-initialized, e.g. to reset a simulator.
	OnReset func()
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records command metrics and serves them from gatherer on /metrics.
func WithMetrics(recorder *metrics.Recorder, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.recorder = recorder
		s.gatherer = gatherer
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a server for r listening on port.
func New(r *robot.CleaningRobot, port string, opts ...Option) *Server {
	s := &Server{
		port:   port,
		robot:  r,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = hub.New("events", s.logger)

	app := fiber.New(fiber.Config{
		AppName:               "cleanbot",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/telemetry", s.handleTelemetry)
	api.Post("/command", s.handleCommand)
	api.Post("/commands", s.handleCommands)
	api.Post("/reset", s.handleReset)

	if s.gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.events.Serve))

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Events returns the event hub.
func (s *Server) Events() *hub.Hub {
	return s.events
}

// Start runs the event hub and serves HTTP. It blocks.
func (s *Server) Start() error {
	s.logger.Info("HTTP API listening", "addr", ":"+s.port)
	go s.events.Run()
	return s.app.Listen(":" + s.port)
}

// Shutdown stops the HTTP server and the hub.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.events.Stop()
	return s.app.ShutdownWithTimeout(timeout)
}
