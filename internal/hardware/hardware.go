// Package hardware describes the capabilities the firmware needs from the board
// it runs on. The firmware only talks to the board through these interfaces,
// which allows running it against a simulated board or test doubles.
package hardware

import (
	"time"

	"github.com/markusressel/papr2go/internal/timer"
)

type Pin uint8

const (
	FanPWMPin Pin = iota
	FanEnablePin
	FanRPMPin
	BuzzerPin
	BatteryRedLEDPin
	BatteryYellowLEDPin
	BatteryGreenLEDPin
	ChargingLEDPin
	FanLowLEDPin
	FanMediumLEDPin
	FanHighLEDPin
	PowerOnPin
	PowerOffPin
	FanUpPin
	FanDownPin

	PinCount
)

var pinNames = [PinCount]string{
	"fan-pwm", "fan-enable", "fan-rpm", "buzzer",
	"led-red", "led-yellow", "led-green", "led-charging",
	"led-fan-low", "led-fan-medium", "led-fan-high",
	"power-on", "power-off", "fan-up", "fan-down",
}

func (p Pin) String() string {
	if p < PinCount {
		return pinNames[p]
	}
	return "unknown"
}

const (
	Low  = 0
	High = 1

	// buttons and LEDs are active low
	ButtonPushed   = Low
	ButtonReleased = High
	LEDOn          = Low
	LEDOff         = High
)

// LEDPins lists all LEDs of the device, in display order.
var LEDPins = []Pin{
	BatteryRedLEDPin, BatteryYellowLEDPin, BatteryGreenLEDPin, ChargingLEDPin,
	FanLowLEDPin, FanMediumLEDPin, FanHighLEDPin,
}

type PinMode int

const (
	Input PinMode = iota
	Output
	InputPullup
)

type PowerMode int

const (
	FullPowerMode PowerMode = iota
	// In low power mode the system clock is slowed down, the fan and LEDs
	// are unpowered and the battery is disconnected from the sense circuit.
	LowPowerMode
)

func (m PowerMode) String() string {
	if m == LowPowerMode {
		return "low"
	}
	return "full"
}

type ResetCause int

const (
	ResetPowerOn ResetCause = iota
	ResetWatchdog
	ResetManual
	ResetBrownOut
)

func (c ResetCause) String() string {
	switch c {
	case ResetWatchdog:
		return "Watchdog reset"
	case ResetManual:
		return "Manual reset"
	case ResetBrownOut:
		return "Brown-out reset"
	default:
		return "Power-on reset"
	}
}

type Pins interface {
	PinMode(pin Pin, mode PinMode)
	DigitalRead(pin Pin) int
	DigitalWrite(pin Pin, value int)
	AnalogRead(pin Pin) int
	AnalogWrite(pin Pin, value int)
}

type Clock interface {
	timer.Clock
	Micros() uint32
	Delay(ms uint32)
	DelayMicroseconds(us uint32)
}

type Sensors interface {
	// ReadMicroVolts returns the voltage at the sense circuit.
	ReadMicroVolts() int64
	// ReadMicroAmps returns the battery current, positive when charging.
	ReadMicroAmps() int64
}

type PowerModeController interface {
	SetPowerMode(mode PowerMode)
	PowerMode() PowerMode
	// Sleep powers the MCU down for the given duration. The clock
	// counters do not advance while the MCU is asleep.
	Sleep(d time.Duration)
}

type Watchdog interface {
	WatchdogEnable(timeout time.Duration)
	WatchdogDisable()
	WatchdogReset()
	// WatchdogStartup clears the reset flags and returns the cause of the last reset.
	WatchdogStartup() ResetCause
}

type Tone interface {
	StartTone(frequencyHz int, dutyCyclePercent int)
	StopTone()
}

type Interrupts interface {
	// SetInterruptHandler installs a pin change handler. Handlers run in
	// interrupt context and must only touch counters and flags.
	SetInterruptHandler(pin Pin, handler timer.Callable)
}

type Hardware interface {
	Pins
	Clock
	Sensors
	PowerModeController
	Watchdog
	Tone
	Interrupts

	// Initialize configures all pins and puts the peripherals into their default state.
	Initialize()
	// Reset performs a software reset of the MCU.
	Reset()
}
