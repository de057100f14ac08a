package robot

import (
	"strconv"
	"sync"
)

// Mock method names as recorded in MockCall.Method.
const (
	CallChargeLeft        = "ChargeLeft"
	CallObstacleAhead     = "ObstacleAhead"
	CallDriveForward      = "DriveForward"
	CallRotate            = "Rotate"
	CallSetCleaningSystem = "SetCleaningSystem"
	CallSetRechargeLED    = "SetRechargeLED"
	CallIlluminateUV      = "IlluminateUV"
)

// Mock implements Hardware for testing.
// Readings come from the function fields; every call is recorded.
type Mock struct {
	// ChargeLeftFunc is called when ChargeLeft is invoked.
	// If nil, returns 100.
	ChargeLeftFunc func() (int, error)

	// ObstacleAheadFunc is called when ObstacleAhead is invoked.
	// If nil, returns false.
	ObstacleAheadFunc func() (bool, error)

	// ActuateFunc is called for every actuator call after it is recorded.
	// If nil, actuators succeed.
	ActuateFunc func(call MockCall) error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method string
	Arg    string
}

// NewMock creates a mock reporting a fixed charge and no obstacle.
func NewMock(charge int) *Mock {
	m := &Mock{}
	m.SetCharge(charge)
	m.SetObstacle(false)
	return m
}

// SetCharge makes ChargeLeft report a fixed value.
func (m *Mock) SetCharge(charge int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChargeLeftFunc = func() (int, error) { return charge, nil }
}

// SetObstacle makes ObstacleAhead report a fixed value.
func (m *Mock) SetObstacle(present bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ObstacleAheadFunc = func() (bool, error) { return present, nil }
}

// ChargeLeft implements BatteryGauge.
func (m *Mock) ChargeLeft() (int, error) {
	m.record(CallChargeLeft, "")
	m.mu.Lock()
	f := m.ChargeLeftFunc
	m.mu.Unlock()
	if f == nil {
		return 100, nil
	}
	return f()
}

// ObstacleAhead implements ObstacleSensor.
func (m *Mock) ObstacleAhead() (bool, error) {
	m.record(CallObstacleAhead, "")
	m.mu.Lock()
	f := m.ObstacleAheadFunc
	m.mu.Unlock()
	if f == nil {
		return false, nil
	}
	return f()
}

// DriveForward implements WheelMotor.
func (m *Mock) DriveForward() error {
	return m.actuate(CallDriveForward, "")
}

// Rotate implements RotationMotor.
func (m *Mock) Rotate(dir Direction) error {
	return m.actuate(CallRotate, string(dir))
}

// SetCleaningSystem implements CleaningSystem.
func (m *Mock) SetCleaningSystem(on bool) error {
	return m.actuate(CallSetCleaningSystem, strconv.FormatBool(on))
}

// SetRechargeLED implements RechargeLED.
func (m *Mock) SetRechargeLED(on bool) error {
	return m.actuate(CallSetRechargeLED, strconv.FormatBool(on))
}

// IlluminateUV implements UVLight.
func (m *Mock) IlluminateUV() error {
	return m.actuate(CallIlluminateUV, "")
}

func (m *Mock) actuate(method, arg string) error {
	call := m.record(method, arg)
	m.mu.Lock()
	f := m.ActuateFunc
	m.mu.Unlock()
	if f != nil {
		return f(call)
	}
	return nil
}

// record adds a call to the tracking list.
func (m *Mock) record(method, arg string) MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := MockCall{Method: method, Arg: arg}
	m.calls = append(m.calls, call)
	return call
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// Actuations returns only the actuator calls, in order.
func (m *Mock) Actuations() []MockCall {
	var out []MockCall
	for _, c := range m.Calls() {
		if c.Method != CallChargeLeft && c.Method != CallObstacleAhead {
			out = append(out, c)
		}
	}
	return out
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
