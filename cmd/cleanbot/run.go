package main

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-cleanbot/internal/log"
	"github.com/teslashibe/go-cleanbot/pkg/robot"
)

var runCommands string

// runCmd interprets commands locally
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Interpret commands from stdin or --commands",
	Long: `Initialize the robot at (0,0,N) and interpret commands.

Each input line may hold several commands; whitespace is ignored. An invalid
command is reported and the rest of its line skipped.

Examples:
  # One-shot
  cleanbot run --commands "ffrff"

  # Interactive
  cleanbot run`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runCommands, "commands", "", "commands to run instead of reading stdin")
}

func runRun(cmd *cobra.Command, args []string) error {
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
	printf(cmd, "%s\n", b.robot.Status())

	if runCommands != "" {
		return interpret(cmd, b.robot, runCommands)
	}

	ctx := cmd.Context()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "q" || line == "quit" {
			return nil
		}
		if err := interpret(cmd, b.robot, line); err != nil && !errors.Is(err, robot.ErrInvalidCommand) {
			return err
		}
	}
	return scanner.Err()
}

// interpret prints one status line per command.
func interpret(cmd *cobra.Command, r *robot.CleaningRobot, line string) error {
	reports, err := r.Run(line)
	for _, rep := range reports {
		printf(cmd, "%s\n", rep.Status)
	}
	if errors.Is(err, robot.ErrInvalidCommand) {
		printf(cmd, "error: %v\n", err)
	}
	return err
}
