package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-cleanbot/internal/log"
	"github.com/teslashibe/go-cleanbot/pkg/metrics"
	"github.com/teslashibe/go-cleanbot/pkg/server"
)

// serveCmd exposes the robot over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the robot over HTTP and websockets",
	Long: `Initialize the robot and serve the HTTP API.

Endpoints:
  POST /api/command   {"command":"f"}
  POST /api/commands  {"commands":"ffr"}
  GET  /api/status
  GET  /api/telemetry
  POST /api/reset
  GET  /metrics
  GET  /ws/events     (websocket)`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	b, err := buildBody(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.close(); err != nil {
			log.Warn("Failed to release hardware", "error", err)
		}
	}()
	b.robot.Initialize()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := server.New(b.robot, cfg.Server.Port,
		server.WithMetrics(metrics.NewRecorder(reg), reg),
		server.WithLogger(log.Component("server")),
	)
	srv.OnReset = b.reset

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down")
		if err := srv.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
			return err
		}
		return <-errCh
	}
}
