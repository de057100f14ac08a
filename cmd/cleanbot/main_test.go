package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-cleanbot/internal/config"
	"github.com/teslashibe/go-cleanbot/internal/httpc"
	"github.com/teslashibe/go-cleanbot/pkg/robot"
	"github.com/teslashibe/go-cleanbot/pkg/server"
	"github.com/teslashibe/go-cleanbot/pkg/sim"
)

func TestBuildBody_Sim(t *testing.T) {
	cfg := config.Default()
	cfg.Sim.Charge = 30

	b, err := buildBody(cfg)
	require.NoError(t, err)
	require.NotNil(t, b.world)

	b.robot.Initialize()
	status, err := b.robot.Execute("f")
	require.NoError(t, err)
	assert.Equal(t, "(0,1,N)", status)

	b.reset()
	assert.Equal(t, robot.Position{}, b.world.Snapshot().Position)
	assert.NoError(t, b.close())
}

func TestBuildBody_WorldKeepsConfiguredDrain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte("obstacles:\n  - {x: 5, y: 5}\n"), 0o644))

	cfg := config.Default()
	cfg.Sim.World = path
	cfg.Sim.DrainPerMove = 3

	b, err := buildBody(cfg)
	require.NoError(t, err)

	b.robot.Initialize()
	_, err = b.robot.Execute("f")
	require.NoError(t, err)
	assert.Equal(t, 97, b.world.Snapshot().Charge)
}

func TestInterpret(t *testing.T) {
	r := robot.NewWithHardware(sim.NewWorld())
	r.Initialize()

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, interpret(cmd, r, "f r f"))
	assert.Equal(t, "(0,1,N)\n(0,1,E)\n(1,1,E)\n", out.String())

	out.Reset()
	err := interpret(cmd, r, "fxf")
	assert.ErrorIs(t, err, robot.ErrInvalidCommand)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "(2,1,E)", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "error:"))
}

func TestFormatEvent(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ev := server.Event{
		Time:   ts,
		Type:   server.EventCommand,
		Report: &robot.Report{Command: "f", Outcome: robot.OutcomeBlocked, Status: "(0,0,N)(0,1)"},
	}
	assert.Equal(t, "03:04:05 f   blocked      (0,0,N)(0,1)", formatEvent(ev))

	assert.Equal(t, "03:04:05 error boom", formatEvent(server.Event{Time: ts, Type: server.EventError, Error: "boom"}))
	assert.Equal(t, "03:04:05 reset", formatEvent(server.Event{Time: ts, Type: server.EventReset}))
}

func newSendCommand(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	return cmd
}

func TestRunSend(t *testing.T) {
	var got server.CommandsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/commands", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(server.CommandsResponse{
			Reports: []robot.Report{{Command: "f", Status: "(0,1,N)"}, {Command: "r", Status: "(0,1,E)"}},
			Trail:   "(0,1,N) (0,1,E)",
		})
	}))
	defer srv.Close()

	old := serverURL
	serverURL = srv.URL + "/"
	defer func() { serverURL = old }()

	var out bytes.Buffer
	require.NoError(t, runSend(newSendCommand(&out), []string{"f r"}))
	assert.Equal(t, "f r", got.Commands)
	assert.Equal(t, "(0,1,N)\n(0,1,E)\n", out.String())
}

func TestRunSend_PartialOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(server.CommandsResponse{
			Reports: []robot.Report{{Command: "f", Status: "(0,1,N)"}},
			Error:   `invalid command "x"`,
		})
	}))
	defer srv.Close()

	old := serverURL
	serverURL = srv.URL
	defer func() { serverURL = old }()

	var out bytes.Buffer
	err := runSend(newSendCommand(&out), []string{"fxf"})

	var se *httpc.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "(0,1,N)\nerror: invalid command \"x\"\n", out.String())
}
