// Package simulator provides a simulated PAPR board: battery, charger, fan,
// buttons, LEDs and buzzer, driven by virtual time. It allows running the
// firmware on a host machine.
package simulator

import (
	"math/rand"
	"time"

	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/timer"
	"github.com/markusressel/papr2go/internal/ui"
)

// current drawn by the parts of the system, in micro-amps
const (
	mcuMicroAmps       = 15_000
	lowPowerMicroAmps  = 1_000
	sleepMicroAmps     = 100
	ledMicroAmps       = 5_000
	buzzerMicroAmps    = 20_000
	fanIdleMicroAmps   = 60_000
	fanPercentMicroAmp = 12_000

	maxStep = 10 * time.Millisecond
)

// State is a snapshot of the physical state of the simulated board.
type State struct {
	Now             time.Duration      `json:"now"`
	ChargePercent   float64            `json:"chargePercent"`
	ChargerAttached bool               `json:"chargerAttached"`
	MicroAmps       int64              `json:"microAmps"`
	Rpm             float64            `json:"rpm"`
	FanFault        float64            `json:"fanFault"`
	PowerMode       hardware.PowerMode `json:"powerMode"`
	Tone            bool               `json:"tone"`
}

type Board struct {
	config configuration.SimulationConfig

	start time.Time
	// physical time since the start of the simulation
	now time.Duration
	// time the MCU counters have advanced, slower in low power mode
	mcuNanos     uint64
	clockDivider uint64
	mode         hardware.PowerMode
	asleep       bool
	advancing    bool

	levels   [hardware.PinCount]int
	analog   [hardware.PinCount]int
	modes    [hardware.PinCount]hardware.PinMode
	handlers [hardware.PinCount]timer.Callable

	toneActive    bool
	toneFrequency int

	watchdogEnabled bool
	watchdogTimeout time.Duration
	watchdogResetAt time.Duration

	cause        hardware.ResetCause
	resetPending bool

	battery  *batteryModel
	fan      *fanModel
	scenario *scenario
	random   *rand.Rand

	paceReal    time.Time
	paceVirtual time.Duration
}

var _ hardware.Hardware = (*Board)(nil)

func NewBoard(config configuration.Configuration) *Board {
	cause, err := ParseResetCause(config.Simulation.ResetCause)
	if err != nil {
		ui.Warning("%v, assuming power-on", err)
	}

	b := &Board{
		config:       config.Simulation,
		start:        time.Now(),
		clockDivider: uint64(max(config.Power.LowPowerClockDivider, 1)),
		mode:         hardware.FullPowerMode,
		cause:        cause,
		battery:      newBatteryModel(config.Battery, config.Simulation),
		fan:          newFanModel(config.Fan),
		scenario:     newScenario(config.Simulation.Scenario),
		random:       rand.New(rand.NewSource(config.Simulation.Seed)),
	}
	for pin := hardware.Pin(0); pin < hardware.PinCount; pin++ {
		b.levels[pin] = hardware.High
	}
	b.powerUp()
	b.scenario.apply(b)
	return b
}

// powerUp puts the board into the state it has after a reset. Inputs keep
// their level, a button may well be held during a reset.
func (b *Board) powerUp() {
	for pin := hardware.Pin(0); pin < hardware.PinCount; pin++ {
		b.analog[pin] = 0
		b.modes[pin] = hardware.Input
		b.handlers[pin] = nil
	}
	for _, pin := range hardware.LEDPins {
		b.levels[pin] = hardware.LEDOff
	}
	// the fan enable line has a pull-down
	b.levels[hardware.FanEnablePin] = hardware.Low
	b.mode = hardware.FullPowerMode
	b.toneActive = false
	b.watchdogEnabled = false
	b.paceReal = time.Time{}
}

// Now returns the virtual time since the start of the simulation.
func (b *Board) Now() time.Duration {
	return b.now
}

// Time returns the wall clock time of the simulation.
func (b *Board) Time() time.Time {
	return b.start.Add(b.now)
}

// Done reports whether the configured simulation duration has elapsed.
func (b *Board) Done() bool {
	return b.config.Duration > 0 && b.now >= b.config.Duration
}

func (b *Board) State() State {
	return State{
		Now:             b.now,
		ChargePercent:   b.battery.percent(),
		ChargerAttached: b.battery.chargerAttached,
		MicroAmps:       b.battery.microAmps(b.loadMicroAmps()),
		Rpm:             b.fan.rpm,
		FanFault:        b.fan.faultFactor,
		PowerMode:       b.mode,
		Tone:            b.toneActive,
	}
}

// EndLoop accounts for the time the firmware spends in one iteration of its
// main loop, apart from the time spent reading the hardware.
func (b *Board) EndLoop() {
	b.advance(b.config.LoopDuration)
}

// Pace blocks until real time has caught up with virtual time, scaled by
// the configured time scale.
func (b *Board) Pace() {
	if b.config.TimeScale <= 0 {
		return
	}
	if b.paceReal.IsZero() {
		b.paceReal = time.Now()
		b.paceVirtual = b.now
		return
	}
	due := time.Duration(float64(b.now-b.paceVirtual) / b.config.TimeScale)
	ahead := due - time.Since(b.paceReal)
	if ahead > time.Millisecond {
		time.Sleep(ahead)
	}
}

// TakeReset returns the cause of a pending reset, if any, and resets the
// board. The firmware must be restarted afterwards.
func (b *Board) TakeReset() (hardware.ResetCause, bool) {
	if !b.resetPending {
		return b.cause, false
	}
	b.resetPending = false
	b.powerUp()
	return b.cause, true
}

func (b *Board) requestReset(cause hardware.ResetCause) {
	if b.resetPending {
		return
	}
	ui.Debug("Reset requested: %s", cause)
	b.cause = cause
	b.resetPending = true
}

// tick accounts for the time a single hardware access takes.
func (b *Board) tick() {
	b.advance(b.config.ReadQuantum)
}

// advance moves the physical time forward, in steps small enough for the
// fan tachometer and the scenario to be reproduced faithfully.
func (b *Board) advance(d time.Duration) {
	// hardware accesses from within interrupt handlers
	if b.advancing {
		return
	}
	b.advancing = true
	defer func() { b.advancing = false }()

	for d > 0 {
		step := min(d, maxStep)
		if next := b.scenario.nextAt(); next > b.now && next-b.now < step {
			step = next - b.now
		}
		b.now += step
		d -= step

		b.battery.integrate(b.battery.microAmps(b.loadMicroAmps()), step)
		b.updateFan(step)
		if !b.asleep {
			mcuStep := uint64(step)
			if b.mode == hardware.LowPowerMode {
				mcuStep /= b.clockDivider
			}
			b.mcuNanos += mcuStep
		}
		b.scenario.apply(b)
		b.checkWatchdog()
	}
}

func (b *Board) advanceMcu(d time.Duration) {
	if b.mode == hardware.LowPowerMode {
		d *= time.Duration(b.clockDivider)
	}
	b.advance(d)
}

func (b *Board) updateFan(d time.Duration) {
	powered := !b.asleep && b.mode == hardware.FullPowerMode && b.levels[hardware.FanEnablePin] == hardware.High
	dutyCycle := float64(b.analog[hardware.FanPWMPin]) * 100 / 255
	pulses := b.fan.update(powered, dutyCycle, d)
	for i := 0; i < pulses; i++ {
		b.setPinLevel(hardware.FanRPMPin, hardware.Low)
		b.setPinLevel(hardware.FanRPMPin, hardware.High)
	}
}

func (b *Board) checkWatchdog() {
	if b.watchdogEnabled && b.now-b.watchdogResetAt > b.watchdogTimeout {
		b.watchdogEnabled = false
		b.requestReset(hardware.ResetWatchdog)
	}
}

func (b *Board) loadMicroAmps() int64 {
	if b.asleep {
		return sleepMicroAmps
	}
	if b.mode == hardware.LowPowerMode {
		return lowPowerMicroAmps
	}

	load := int64(mcuMicroAmps)
	if b.levels[hardware.FanEnablePin] == hardware.High {
		load += fanIdleMicroAmps + int64(b.analog[hardware.FanPWMPin]*100/255)*fanPercentMicroAmp
	}
	for _, pin := range hardware.LEDPins {
		if b.levels[pin] == hardware.LEDOn {
			load += ledMicroAmps
		}
	}
	if b.toneActive {
		load += buzzerMicroAmps
	}
	return load
}

// setPinLevel changes the level of an input from the outside and invokes
// the pin change handler.
func (b *Board) setPinLevel(pin hardware.Pin, level int) {
	if b.levels[pin] == level {
		return
	}
	b.levels[pin] = level
	if handler := b.handlers[pin]; handler != nil {
		handler.Invoke()
	}
}

func (b *Board) PinMode(pin hardware.Pin, mode hardware.PinMode) {
	b.modes[pin] = mode
	if pin == hardware.BuzzerPin && mode == hardware.Input {
		b.toneActive = false
	}
}

func (b *Board) DigitalRead(pin hardware.Pin) int {
	b.tick()
	return b.levels[pin]
}

func (b *Board) DigitalWrite(pin hardware.Pin, value int) {
	b.levels[pin] = value
}

func (b *Board) AnalogRead(pin hardware.Pin) int {
	b.tick()
	return b.analog[pin]
}

func (b *Board) AnalogWrite(pin hardware.Pin, value int) {
	b.analog[pin] = value
}

func (b *Board) Millis() uint32 {
	b.tick()
	return b.config.StartMillis + uint32(b.mcuNanos/uint64(time.Millisecond))
}

func (b *Board) Micros() uint32 {
	b.tick()
	return b.config.StartMicros + uint32(b.mcuNanos/uint64(time.Microsecond))
}

func (b *Board) Delay(ms uint32) {
	b.advanceMcu(time.Duration(ms) * time.Millisecond)
}

func (b *Board) DelayMicroseconds(us uint32) {
	b.advanceMcu(time.Duration(us) * time.Microsecond)
}

func (b *Board) ReadMicroVolts() int64 {
	b.tick()
	if b.mode == hardware.LowPowerMode {
		// the battery is disconnected from the sense circuit
		if b.battery.chargerAttached {
			return b.battery.chargerMilliVolts * 1000
		}
		return 0
	}
	return b.battery.terminalMicroVolts(b.battery.microAmps(b.loadMicroAmps()))
}

func (b *Board) ReadMicroAmps() int64 {
	b.tick()
	if b.mode == hardware.LowPowerMode {
		return 0
	}
	microAmps := b.battery.microAmps(b.loadMicroAmps())
	if noise := b.config.NoiseMilliAmps * 1000; noise > 0 {
		microAmps += b.random.Int63n(2*noise+1) - noise
	}
	return microAmps
}

func (b *Board) SetPowerMode(mode hardware.PowerMode) {
	b.mode = mode
}

func (b *Board) PowerMode() hardware.PowerMode {
	return b.mode
}

func (b *Board) Sleep(d time.Duration) {
	b.asleep = true
	b.advance(d)
	b.asleep = false
}

func (b *Board) WatchdogEnable(timeout time.Duration) {
	b.watchdogEnabled = true
	b.watchdogTimeout = timeout
	b.watchdogResetAt = b.now
}

func (b *Board) WatchdogDisable() {
	b.watchdogEnabled = false
}

func (b *Board) WatchdogReset() {
	b.watchdogResetAt = b.now
}

func (b *Board) WatchdogStartup() hardware.ResetCause {
	b.watchdogEnabled = false
	return b.cause
}

func (b *Board) StartTone(frequencyHz int, dutyCyclePercent int) {
	b.toneActive = dutyCyclePercent > 0 && b.modes[hardware.BuzzerPin] == hardware.Output
	b.toneFrequency = frequencyHz
}

func (b *Board) StopTone() {
	b.toneActive = false
}

func (b *Board) SetInterruptHandler(pin hardware.Pin, handler timer.Callable) {
	b.handlers[pin] = handler
}

func (b *Board) Initialize() {
	for _, pin := range hardware.LEDPins {
		b.modes[pin] = hardware.Output
		b.levels[pin] = hardware.LEDOff
	}
	for _, pin := range []hardware.Pin{hardware.PowerOnPin, hardware.PowerOffPin, hardware.FanUpPin, hardware.FanDownPin} {
		b.modes[pin] = hardware.InputPullup
	}
	b.modes[hardware.FanEnablePin] = hardware.Output
	b.levels[hardware.FanEnablePin] = hardware.Low
	b.modes[hardware.FanRPMPin] = hardware.InputPullup
	b.modes[hardware.BuzzerPin] = hardware.Output
	b.toneActive = false
}

func (b *Board) Reset() {
	b.requestReset(hardware.ResetManual)
}
