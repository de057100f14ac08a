package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-cleanbot/pkg/server"
)

// watchCmd streams robot events
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream events from a running cleanbot server",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	url := strings.TrimRight(serverURL, "/") + "/ws/events"
	url = strings.Replace(url, "http", "ws", 1)

	conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), url, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", url, err)
	}
	defer conn.Close()

	// Unblock ReadMessage on shutdown
	go func() {
		<-cmd.Context().Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if cmd.Context().Err() != nil {
				return nil
			}
			return err
		}

		var ev server.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			printf(cmd, "%s\n", data)
			continue
		}
		printf(cmd, "%s\n", formatEvent(ev))
	}
}

// formatEvent renders one event as a single line.
func formatEvent(ev server.Event) string {
	ts := ev.Time.Format("15:04:05")
	switch ev.Type {
	case server.EventCommand:
		if ev.Report != nil {
			return fmt.Sprintf("%s %-3s %-12s %s", ts, ev.Report.Command, ev.Report.Outcome, ev.Report.Status)
		}
	case server.EventError:
		return fmt.Sprintf("%s error %s", ts, ev.Error)
	case server.EventReset:
		return fmt.Sprintf("%s reset", ts)
	}
	return fmt.Sprintf("%s %s", ts, ev.Type)
}
