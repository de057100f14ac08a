// Package metrics provides Prometheus instrumentation for the command interpreter.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/teslashibe/go-cleanbot/pkg/robot"
)

// Recorder records command outcomes and robot state.
type Recorder struct {
	commandsTotal   *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	charge          prometheus.Gauge
	cleaningOn      prometheus.Gauge
	rechargeOn      prometheus.Gauge
}

// NewRecorder registers the collectors with reg.
// Pass prometheus.DefaultRegisterer for the process-wide registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		commandsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cleanbot_commands_total",
				Help: "Total number of executed commands by command and outcome",
			},
			[]string{"command", "outcome"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cleanbot_command_errors_total",
				Help: "Total number of failed commands by error kind",
			},
			[]string{"kind"},
		),
		commandDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cleanbot_command_duration_seconds",
				Help:    "Wall time of one command including actuator dwell",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 15, 30, 60},
			},
			[]string{"command"},
		),
		charge: f.NewGauge(prometheus.GaugeOpts{
			Name: "cleanbot_battery_charge",
			Help: "Charge observed by the last command",
		}),
		cleaningOn: f.NewGauge(prometheus.GaugeOpts{
			Name: "cleanbot_cleaning_system_on",
			Help: "1 when the cleaning system was last switched on",
		}),
		rechargeOn: f.NewGauge(prometheus.GaugeOpts{
			Name: "cleanbot_recharge_led_on",
			Help: "1 when the recharge indicator was last switched on",
		}),
	}
}

// ObserveReport records one successful command.
func (r *Recorder) ObserveReport(rep robot.Report, tel robot.Telemetry, duration time.Duration) {
	cmd := CommandLabel(rep.Command)
	r.commandsTotal.WithLabelValues(cmd, string(rep.Outcome)).Inc()
	r.commandDuration.WithLabelValues(cmd).Observe(duration.Seconds())
	r.charge.Set(float64(rep.Charge))
	r.cleaningOn.Set(boolGauge(tel.CleaningSystemOn))
	r.rechargeOn.Set(boolGauge(tel.RechargeLEDOn))
}

// ObserveError records one failed command.
func (r *Recorder) ObserveError(err error) {
	r.errorsTotal.WithLabelValues(ErrorKind(err)).Inc()
}

// CommandLabel bounds the command label to the known tokens.
// A low battery reports any token as executed, so raw client input never
// becomes a label value.
func CommandLabel(token string) string {
	cmd, err := robot.ParseCommand(token)
	if err != nil {
		return "other"
	}
	return string(cmd)
}

// ErrorKind maps an Execute error to a metric label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, robot.ErrInvalidCommand):
		return "invalid_command"
	case errors.Is(err, robot.ErrNotInitialized):
		return "not_initialized"
	default:
		return "driver"
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
