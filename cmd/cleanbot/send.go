package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-cleanbot/internal/httpc"
	"github.com/teslashibe/go-cleanbot/pkg/server"
)

// serverURL is the base URL of a running cleanbot serve
var serverURL string

// sendCmd sends commands to a remote robot
var sendCmd = &cobra.Command{
	Use:   "send <commands>",
	Short: "Send commands to a running cleanbot server",
	Long: `Send a command sequence to a cleanbot server and print each status.

Examples:
  cleanbot send ffrf
  cleanbot send --server http://robot.local:8080 "f l f"`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	for _, c := range []*cobra.Command{sendCmd, watchCmd} {
		c.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "cleanbot server URL")
	}
}

func runSend(cmd *cobra.Command, args []string) error {
	url := strings.TrimRight(serverURL, "/") + "/api/commands"

	var resp server.CommandsResponse
	err := httpc.PostJSON(cmd.Context(), httpc.Client, url, server.CommandsRequest{Commands: args[0]}, &resp)

	for _, rep := range resp.Reports {
		printf(cmd, "%s\n", rep.Status)
	}

	var se *httpc.StatusError
	if errors.As(err, &se) && resp.Error != "" {
		printf(cmd, "error: %s\n", resp.Error)
	}
	return err
}
