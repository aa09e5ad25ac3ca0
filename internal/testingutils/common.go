package testingutils

import (
	"time"

	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/timer"
)

// MockHardware is a scriptable hardware.Hardware for unit tests.
// Time only advances when a test says so, either explicitly via Advance
// or implicitly via Delay, Sleep or AutoAdvanceMillis.
type MockHardware struct {
	MillisValue uint32
	MicrosValue uint32
	// added to the clock after every Millis() call, lets busy waits terminate
	AutoAdvanceMillis uint32

	MicroVolts int64
	MicroAmps  int64
	// voltage seen by the sense circuit while in low power mode
	LowPowerMicroVolts int64

	Mode            hardware.PowerMode
	PowerModeLog    []hardware.PowerMode
	WatchdogEnabled bool
	WatchdogResets  int
	Cause           hardware.ResetCause
	ResetRequested  bool
	Initialized     bool

	ToneActive    bool
	ToneFrequency int

	Levels     map[hardware.Pin]int
	Analog     map[hardware.Pin]int
	Modes      map[hardware.Pin]hardware.PinMode
	Interrupts map[hardware.Pin]timer.Callable

	// optional, overrides the level of a pin
	PinScript func(pin hardware.Pin, millis uint32) (level int, ok bool)
	// optional, called after every Sleep
	OnSleep  func(count int)
	SleepLog []time.Duration
	DelayLog []uint32
}

var _ hardware.Hardware = (*MockHardware)(nil)

func NewMockHardware() *MockHardware {
	return &MockHardware{
		Levels:     map[hardware.Pin]int{},
		Analog:     map[hardware.Pin]int{},
		Modes:      map[hardware.Pin]hardware.PinMode{},
		Interrupts: map[hardware.Pin]timer.Callable{},
	}
}

// Advance moves both clocks forward.
func (m *MockHardware) Advance(ms uint32) {
	m.MillisValue += ms
	m.MicrosValue += ms * 1000
}

// Push sets the level of a button to pushed.
func (m *MockHardware) Push(pin hardware.Pin) {
	m.Levels[pin] = hardware.ButtonPushed
}

// Release sets the level of a button to released.
func (m *MockHardware) Release(pin hardware.Pin) {
	m.Levels[pin] = hardware.ButtonReleased
}

// IsLEDOn reports whether the given LED pin is driven on.
func (m *MockHardware) IsLEDOn(pin hardware.Pin) bool {
	level, ok := m.Levels[pin]
	return ok && level == hardware.LEDOn
}

func (m *MockHardware) PinMode(pin hardware.Pin, mode hardware.PinMode) {
	m.Modes[pin] = mode
}

func (m *MockHardware) DigitalRead(pin hardware.Pin) int {
	if m.PinScript != nil {
		if level, ok := m.PinScript(pin, m.MillisValue); ok {
			return level
		}
	}
	level, ok := m.Levels[pin]
	if !ok {
		return hardware.High
	}
	return level
}

func (m *MockHardware) DigitalWrite(pin hardware.Pin, value int) {
	m.Levels[pin] = value
}

func (m *MockHardware) AnalogRead(pin hardware.Pin) int {
	return m.Analog[pin]
}

func (m *MockHardware) AnalogWrite(pin hardware.Pin, value int) {
	m.Analog[pin] = value
}

func (m *MockHardware) Millis() uint32 {
	now := m.MillisValue
	if m.AutoAdvanceMillis > 0 {
		m.Advance(m.AutoAdvanceMillis)
	}
	return now
}

func (m *MockHardware) Micros() uint32 {
	return m.MicrosValue
}

func (m *MockHardware) Delay(ms uint32) {
	m.DelayLog = append(m.DelayLog, ms)
	m.Advance(ms)
}

func (m *MockHardware) DelayMicroseconds(us uint32) {
	m.MicrosValue += us
}

func (m *MockHardware) ReadMicroVolts() int64 {
	if m.Mode == hardware.LowPowerMode {
		return m.LowPowerMicroVolts
	}
	return m.MicroVolts
}

func (m *MockHardware) ReadMicroAmps() int64 {
	if m.Mode == hardware.LowPowerMode {
		return 0
	}
	return m.MicroAmps
}

func (m *MockHardware) SetPowerMode(mode hardware.PowerMode) {
	m.Mode = mode
	m.PowerModeLog = append(m.PowerModeLog, mode)
}

func (m *MockHardware) PowerMode() hardware.PowerMode {
	return m.Mode
}

func (m *MockHardware) Sleep(d time.Duration) {
	m.SleepLog = append(m.SleepLog, d)
	if m.OnSleep != nil {
		m.OnSleep(len(m.SleepLog))
	}
}

func (m *MockHardware) WatchdogEnable(timeout time.Duration) {
	m.WatchdogEnabled = true
}

func (m *MockHardware) WatchdogDisable() {
	m.WatchdogEnabled = false
}

func (m *MockHardware) WatchdogReset() {
	m.WatchdogResets++
}

func (m *MockHardware) WatchdogStartup() hardware.ResetCause {
	m.WatchdogEnabled = false
	return m.Cause
}

func (m *MockHardware) StartTone(frequencyHz int, dutyCyclePercent int) {
	m.ToneActive = true
	m.ToneFrequency = frequencyHz
}

func (m *MockHardware) StopTone() {
	m.ToneActive = false
}

func (m *MockHardware) SetInterruptHandler(pin hardware.Pin, handler timer.Callable) {
	m.Interrupts[pin] = handler
}

// FireInterrupt invokes the handler installed for the given pin, if any.
func (m *MockHardware) FireInterrupt(pin hardware.Pin) {
	if handler, ok := m.Interrupts[pin]; ok {
		handler.Invoke()
	}
}

func (m *MockHardware) Initialize() {
	m.Initialized = true
	for _, pin := range hardware.LEDPins {
		m.Levels[pin] = hardware.LEDOff
	}
	for _, pin := range []hardware.Pin{hardware.PowerOnPin, hardware.PowerOffPin, hardware.FanUpPin, hardware.FanDownPin} {
		m.Levels[pin] = hardware.ButtonReleased
	}
}

func (m *MockHardware) Reset() {
	m.ResetRequested = true
}
