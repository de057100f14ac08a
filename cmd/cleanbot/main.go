// Command cleanbot drives a grid cleaning robot from the terminal or over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-cleanbot/internal/config"
	"github.com/teslashibe/go-cleanbot/internal/log"
)

var (
	// configPath is the optional YAML configuration file
	configPath string
	// logLevel overrides log.level when set
	logLevel string
	// version information
	version = "dev"
)

func main() {
	// Cancel on SIGINT/SIGTERM for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cleanbot",
	Short: "Control a grid cleaning robot",
	Long: `cleanbot interprets f (forward), l (turn left) and r (turn right)
commands for a cleaning robot, on real GPIO hardware or in a simulated world.

Every command prints the robot status: "(x,y,H)", "!(x,y,H)" when the battery
is low, or "(x,y,H)(ox,oy)" when an obstacle blocks the way.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadConfig reads configuration and installs the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	log.Init(cfg.Log.Level)
	return cfg, nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
