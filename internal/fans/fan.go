package fans

import (
	"sync/atomic"
	"time"

	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/timer"
	"github.com/markusressel/papr2go/internal/util"
)

type Fan interface {
	// Begin starts counting tachometer pulses.
	Begin()

	// GetRpm returns the current RPM value of this fan
	GetRpm() int
	GetRpmAvg() float64

	SetDutyCycle(dutyCycle int)
	GetDutyCycle() int
}

// Board is the subset of the hardware used by the fan.
type Board interface {
	hardware.Pins
	hardware.Interrupts
	timer.Clock
}

// PwmFan drives a 4-wire fan with a pwm signal and measures its speed by
// counting tachometer pulses. The tachometer emits two pulses per revolution.
type PwmFan struct {
	board          Board
	rpmPin         hardware.Pin
	pwmPin         hardware.Pin
	intervalMillis uint32

	// incremented from interrupt context
	halfRevs atomic.Uint32

	dutyCycle   int
	lastMillis  uint32
	lastReading int
	rpmWindow   *util.RollingWindow
}

var _ Fan = (*PwmFan)(nil)

func NewPwmFan(board Board, rpmPin hardware.Pin, pwmPin hardware.Pin, readingInterval time.Duration, rpmWindowSize int) *PwmFan {
	board.PinMode(pwmPin, hardware.Output)
	return &PwmFan{
		board:          board,
		rpmPin:         rpmPin,
		pwmPin:         pwmPin,
		intervalMillis: uint32(readingInterval.Milliseconds()),
		dutyCycle:      MaxDutyCycle,
		rpmWindow:      util.CreateRollingWindow(rpmWindowSize),
	}
}

func (f *PwmFan) Begin() {
	// enable the pull-up of the open collector tachometer output
	f.board.DigitalWrite(f.rpmPin, hardware.High)
	f.SetDutyCycle(f.dutyCycle)
	f.lastMillis = f.board.Millis()
	f.board.SetInterruptHandler(f.rpmPin, timer.CallableFunc(f.onPinChange))
}

func (f *PwmFan) onPinChange() {
	if f.board.DigitalRead(f.rpmPin) == hardware.Low {
		f.halfRevs.Add(1)
	}
}

// GetRpm recomputes the rpm from the pulses counted since the last
// computation, at most once per reading interval.
func (f *PwmFan) GetRpm() int {
	now := f.board.Millis()
	elapsed := now - f.lastMillis
	if elapsed > f.intervalMillis {
		halfRevs := f.halfRevs.Swap(0)
		correctionFactor := 1000.0 / float64(elapsed)
		f.lastReading = int(correctionFactor * float64(halfRevs) / 2 * 60)
		f.lastMillis = now
		f.rpmWindow.Append(float64(f.lastReading))
	}
	return f.lastReading
}

func (f *PwmFan) GetRpmAvg() float64 {
	return util.GetWindowAvg(f.rpmWindow)
}

func (f *PwmFan) SetDutyCycle(dutyCycle int) {
	f.dutyCycle = util.Clamp(dutyCycle, 0, MaxDutyCycle)
	f.board.AnalogWrite(f.pwmPin, f.dutyCycle*MaxPwmValue/MaxDutyCycle)
}

func (f *PwmFan) GetDutyCycle() int {
	return f.dutyCycle
}
