package server

import (
	"errors"
	"time"
	"unicode"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/teslashibe/go-cleanbot/pkg/robot"
)

// Event types sent on /ws/events.
const (
	EventCommand = "command"
	EventError   = "error"
	EventReset   = "reset"
)

// Event is one entry of the websocket stream.
type Event struct {
	ID        string          `json:"id"`
	Time      time.Time       `json:"time"`
	Type      string          `json:"type"`
	Report    *robot.Report   `json:"report,omitempty"`
	Error     string          `json:"error,omitempty"`
	Telemetry robot.Telemetry `json:"telemetry"`
}

// CommandRequest is the body of POST /api/command.
type CommandRequest struct {
	Command string `json:"command"`
}

// CommandResponse is returned by POST /api/command.
type CommandResponse struct {
	ID string `json:"id"`
	robot.Report
}

// CommandsRequest is the body of POST /api/commands.
type CommandsRequest struct {
	Commands string `json:"commands"`
}

// CommandsResponse is returned by POST /api/commands.
type CommandsResponse struct {
	ID      string         `json:"id"`
	Reports []robot.Report `json:"reports"`
	Trail   string         `json:"trail"`
	Error   string         `json:"error,omitempty"`
}

// handleStatus returns the status string
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(fiber.Map{"status": s.robot.Status()})
}

// handleTelemetry returns the state snapshot
func (s *Server) handleTelemetry(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(s.robot.Telemetry())
}

// handleCommand executes one command token
func (s *Server) handleCommand(c *fiber.Ctx) error {
	var req CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	id := uuid.NewString()

	s.mu.Lock()
	rep, err := s.execute(id, req.Command)
	s.mu.Unlock()

	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"id": id, "error": err.Error()})
	}
	return c.JSON(CommandResponse{ID: id, Report: rep})
}

// handleCommands executes a sequence of tokens, stopping at the first error
func (s *Server) handleCommands(c *fiber.Ctx) error {
	var req CommandsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	resp := CommandsResponse{ID: uuid.NewString(), Reports: []robot.Report{}}
	status := fiber.StatusOK

	s.mu.Lock()
	for _, ch := range req.Commands {
		if unicode.IsSpace(ch) {
			continue
		}
		rep, err := s.execute(resp.ID, string(ch))
		if err != nil {
			resp.Error = err.Error()
			status = statusFor(err)
			break
		}
		resp.Reports = append(resp.Reports, rep)
	}
	s.mu.Unlock()

	resp.Trail = robot.Trail(resp.Reports)
	return c.Status(status).JSON(resp)
}

// handleReset re-initializes the robot at the origin
func (s *Server) handleReset(c *fiber.Ctx) error {
	s.mu.Lock()
	s.robot.Initialize()
	if s.OnReset != nil {
		s.OnReset()
	}
	tel := s.robot.Telemetry()
	status := s.robot.Status()
	s.mu.Unlock()

	s.publish(Event{ID: uuid.NewString(), Type: EventReset, Telemetry: tel})
	s.logger.Info("Robot reset", "status", status)
	return c.JSON(fiber.Map{"status": status})
}

// execute runs one token and fans the result out. Callers hold s.mu.
func (s *Server) execute(id, token string) (robot.Report, error) {
	start := time.Now()
	rep, err := s.robot.ExecuteReport(token)
	elapsed := time.Since(start)

	ev := Event{ID: id, Telemetry: s.robot.Telemetry()}
	if err != nil {
		s.logger.Warn("Command failed", "id", id, "command", token, "error", err)
		if s.recorder != nil {
			s.recorder.ObserveError(err)
		}
		ev.Type = EventError
		ev.Error = err.Error()
		s.publish(ev)
		return robot.Report{}, err
	}

	s.logger.Debug("Command executed", "id", id, "command", token, "status", rep.Status, "outcome", rep.Outcome)
	if s.recorder != nil {
		s.recorder.ObserveReport(rep, ev.Telemetry, elapsed)
	}
	ev.Type = EventCommand
	ev.Report = &rep
	s.publish(ev)
	return rep, nil
}

func (s *Server) publish(ev Event) {
	ev.Time = time.Now().UTC()
	if err := s.events.BroadcastJSON(ev); err != nil {
		s.logger.Error("Failed to encode event", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, robot.ErrInvalidCommand):
		return fiber.StatusBadRequest
	case errors.Is(err, robot.ErrNotInitialized):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
