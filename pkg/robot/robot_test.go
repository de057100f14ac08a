package robot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRobot(t *testing.T, charge int) (*CleaningRobot, *Mock) {
	t.Helper()
	mock := NewMock(charge)
	r := NewWithHardware(mock)
	r.Initialize()
	return r, mock
}

func place(t *testing.T, r *CleaningRobot, x, y int, h Heading) {
	t.Helper()
	require.NoError(t, r.Place(Position{X: x, Y: y}, h))
}

func TestInitialize(t *testing.T) {
	r := NewWithHardware(NewMock(100))
	r.Initialize()

	assert.Equal(t, Position{X: 0, Y: 0}, r.Position())
	assert.Equal(t, North, r.Heading())
	assert.Equal(t, "(0,0,N)", r.Status())
}

func TestInitialize_ResetsPose(t *testing.T) {
	r, _ := newTestRobot(t, 100)
	place(t, r, 5, -3, West)

	r.Initialize()
	assert.Equal(t, "(0,0,N)", r.Status())
}

func TestStatus(t *testing.T) {
	r, _ := newTestRobot(t, 100)
	place(t, r, 3, 2, East)
	assert.Equal(t, "(3,2,E)", r.Status())

	place(t, r, -4, -1, South)
	assert.Equal(t, "(-4,-1,S)", r.Status())
}

func TestPlace_InvalidHeading(t *testing.T) {
	r, _ := newTestRobot(t, 100)
	err := r.Place(Position{X: 1, Y: 1}, Heading("Q"))
	require.Error(t, err)
	assert.Equal(t, "(0,0,N)", r.Status())
}

func TestExecute_NotInitialized(t *testing.T) {
	mock := NewMock(100)
	r := NewWithHardware(mock)

	_, err := r.Execute("f")
	require.ErrorIs(t, err, ErrNotInitialized)
	assert.Empty(t, mock.Calls())
}

func TestExecute_ForwardEachHeading(t *testing.T) {
	tests := []struct {
		heading Heading
		want    string
	}{
		{North, "(1,2,N)"},
		{South, "(1,0,S)"},
		{East, "(2,1,E)"},
		{West, "(0,1,W)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.heading), func(t *testing.T) {
			r, _ := newTestRobot(t, 50)
			place(t, r, 1, 1, tt.heading)

			got, err := r.Execute("f")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, r.Status())
		})
	}
}

func TestExecute_ForwardActuatorOrder(t *testing.T) {
	r, mock := newTestRobot(t, 50)

	_, err := r.Execute("f")
	require.NoError(t, err)

	assert.Equal(t, []MockCall{
		{Method: CallChargeLeft},
		{Method: CallSetCleaningSystem, Arg: "true"},
		{Method: CallSetRechargeLED, Arg: "false"},
		{Method: CallChargeLeft},
		{Method: CallObstacleAhead},
		{Method: CallDriveForward},
		{Method: CallIlluminateUV},
	}, mock.Calls())
}

func TestExecute_ObstacleBlocks(t *testing.T) {
	r, mock := newTestRobot(t, 50)
	place(t, r, 1, 1, North)
	mock.SetObstacle(true)

	got, err := r.Execute("f")
	require.NoError(t, err)
	assert.Equal(t, "(1,1,N)(1,2)", got)
	assert.Equal(t, Position{X: 1, Y: 1}, r.Position())
	assert.Zero(t, mock.CallCount(CallDriveForward))
	assert.Zero(t, mock.CallCount(CallIlluminateUV))
}

func TestExecute_ObstacleBlockedCellEachHeading(t *testing.T) {
	tests := []struct {
		heading Heading
		want    string
	}{
		{North, "(0,0,N)(0,1)"},
		{South, "(0,0,S)(0,-1)"},
		{East, "(0,0,E)(1,0)"},
		{West, "(0,0,W)(-1,0)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.heading), func(t *testing.T) {
			r, mock := newTestRobot(t, 50)
			mock.SetObstacle(true)
			place(t, r, 0, 0, tt.heading)

			rep, err := r.ExecuteReport("f")
			require.NoError(t, err)
			assert.Equal(t, tt.want, rep.Status)
			assert.Equal(t, OutcomeBlocked, rep.Outcome)
			require.NotNil(t, rep.Obstacle)
			assert.Equal(t, Position{}.Ahead(tt.heading), *rep.Obstacle)
		})
	}
}

func TestExecute_LowBatteryShortCircuits(t *testing.T) {
	for _, token := range []string{"f", "l", "r"} {
		t.Run(token, func(t *testing.T) {
			r, mock := newTestRobot(t, 10)
			place(t, r, 1, 1, North)

			got, err := r.Execute(token)
			require.NoError(t, err)
			assert.Equal(t, "!(1,1,N)", got)
			assert.Equal(t, Position{X: 1, Y: 1}, r.Position())
			assert.Equal(t, North, r.Heading())

			assert.Equal(t, []MockCall{
				{Method: CallSetCleaningSystem, Arg: "false"},
				{Method: CallSetRechargeLED, Arg: "true"},
			}, mock.Actuations())
			assert.Zero(t, mock.CallCount(CallObstacleAhead))
		})
	}
}

func TestExecute_LowBatteryNegativeCharge(t *testing.T) {
	r, _ := newTestRobot(t, -5)

	got, err := r.Execute("f")
	require.NoError(t, err)
	assert.Equal(t, "!(0,0,N)", got)
}

func TestExecute_ReadsGaugeTwice(t *testing.T) {
	r, mock := newTestRobot(t, 100)

	readings := []int{50, 5}
	mock.ChargeLeftFunc = func() (int, error) {
		v := readings[0]
		readings = readings[1:]
		return v, nil
	}

	rep, err := r.ExecuteReport("f")
	require.NoError(t, err)
	assert.Equal(t, OutcomeLowBattery, rep.Outcome)
	assert.Equal(t, "!(0,0,N)", rep.Status)
	assert.Equal(t, 5, rep.Charge)
	assert.True(t, r.CleaningSystemOn(), "subsystems follow the first reading")
}

func TestExecute_TurnRight(t *testing.T) {
	r, mock := newTestRobot(t, 50)
	place(t, r, 1, 2, North)

	got, err := r.Execute("r")
	require.NoError(t, err)
	assert.Equal(t, "(1,2,E)", got)
	assert.Equal(t, 1, mock.CallCount(CallRotate))
	assert.Equal(t, MockCall{Method: CallRotate, Arg: "r"}, mock.Actuations()[2])
}

func TestExecute_TurnLeft(t *testing.T) {
	r, mock := newTestRobot(t, 50)
	place(t, r, 1, 2, East)

	got, err := r.Execute("l")
	require.NoError(t, err)
	assert.Equal(t, "(1,2,N)", got)
	assert.Equal(t, MockCall{Method: CallRotate, Arg: "l"}, mock.Actuations()[2])
}

func TestExecute_RotationClosure(t *testing.T) {
	for _, h := range []Heading{North, East, South, West} {
		for _, token := range []string{"l", "r"} {
			r, _ := newTestRobot(t, 50)
			place(t, r, 2, -7, h)
			before := r.Status()

			for i := 0; i < 4; i++ {
				_, err := r.Execute(token)
				require.NoError(t, err)
			}
			assert.Equal(t, before, r.Status(), "four %q turns from %s", token, h)
		}
	}
}

func TestExecute_RotationInverse(t *testing.T) {
	for _, h := range []Heading{North, East, South, West} {
		r, _ := newTestRobot(t, 50)
		place(t, r, 3, 3, h)

		_, err := r.Execute("r")
		require.NoError(t, err)
		_, err = r.Execute("l")
		require.NoError(t, err)
		assert.Equal(t, h, r.Heading())

		_, err = r.Execute("l")
		require.NoError(t, err)
		_, err = r.Execute("r")
		require.NoError(t, err)
		assert.Equal(t, h, r.Heading())
		assert.Equal(t, Position{X: 3, Y: 3}, r.Position())
	}
}

func TestExecute_InvalidCommand(t *testing.T) {
	r, mock := newTestRobot(t, 50)
	place(t, r, 4, 4, South)

	_, err := r.Execute("x")
	require.ErrorIs(t, err, ErrInvalidCommand)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "x", cmdErr.Command)

	assert.Equal(t, "(4,4,S)", r.Status())
	assert.Equal(t, []MockCall{
		{Method: CallSetCleaningSystem, Arg: "true"},
		{Method: CallSetRechargeLED, Arg: "false"},
	}, mock.Actuations())
	assert.Zero(t, mock.CallCount(CallObstacleAhead))
}

func TestExecute_InvalidMultiCharToken(t *testing.T) {
	r, _ := newTestRobot(t, 50)
	_, err := r.Execute("ff")
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestExecute_GaugeErrorPropagates(t *testing.T) {
	r, mock := newTestRobot(t, 50)
	boom := errors.New("i2c bus gone")
	mock.ChargeLeftFunc = func() (int, error) { return 0, boom }

	_, err := r.Execute("f")
	require.ErrorIs(t, err, boom)
	assert.Empty(t, mock.Actuations())
}

func TestExecute_ActuatorErrorPropagates(t *testing.T) {
	r, mock := newTestRobot(t, 50)
	boom := errors.New("motor stalled")
	mock.ActuateFunc = func(call MockCall) error {
		if call.Method == CallRotate {
			return boom
		}
		return nil
	}

	_, err := r.Execute("r")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, North, r.Heading())
}

func TestExecute_SensorErrorPropagates(t *testing.T) {
	r, mock := newTestRobot(t, 50)
	boom := errors.New("ir sensor unplugged")
	mock.ObstacleAheadFunc = func() (bool, error) { return false, boom }

	_, err := r.Execute("f")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, Position{}, r.Position())
}

func TestRun(t *testing.T) {
	r, _ := newTestRobot(t, 50)

	reports, err := r.Run("f f r f")
	require.NoError(t, err)
	require.Len(t, reports, 4)
	assert.Equal(t, "(0,1,N) (0,2,N) (0,2,E) (1,2,E)", Trail(reports))
	assert.Equal(t, OutcomeTurned, reports[2].Outcome)
}

func TestRun_StopsAtInvalid(t *testing.T) {
	r, _ := newTestRobot(t, 50)

	reports, err := r.Run("fxf")
	require.ErrorIs(t, err, ErrInvalidCommand)
	require.Len(t, reports, 1)
	assert.Equal(t, "(0,1,N)", r.Status())
}

func TestTelemetry(t *testing.T) {
	r, _ := newTestRobot(t, 8)
	_, err := r.Execute("f")
	require.NoError(t, err)

	tel := r.Telemetry()
	assert.True(t, tel.Initialized)
	assert.False(t, tel.CleaningSystemOn)
	assert.True(t, tel.RechargeLEDOn)
	assert.Equal(t, North, tel.Heading)
}
