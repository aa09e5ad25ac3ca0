// Package controller implements the firmware of the respirator: the power
// state machine, the fan and battery indicators, the alerts and the buttons.
package controller

import (
	"context"
	"time"

	"github.com/markusressel/papr2go/internal/battery"
	"github.com/markusressel/papr2go/internal/buttons"
	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/fans"
	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/recorder"
	"github.com/markusressel/papr2go/internal/timer"
	"github.com/markusressel/papr2go/internal/ui"
)

const (
	fanEnabled  = hardware.High
	fanDisabled = hardware.Low

	startupFlashMillis       = 100
	watchdogResetFlashCount  = 5
	manualResetFlashCount    = 10
	redLEDBlinkPeriodMillis  = 1000
	redLEDThresholdPercent   = 40
	yellowLEDLowerPercent    = 15
	yellowLEDUpperPercent    = 97
	greenLEDThresholdPercent = 70
)

// StatusSink receives every status report emitted by the controller.
type StatusSink func(status Status)

type Controller interface {
	// Setup runs once after every reset.
	Setup()
	// Loop runs a single iteration of the main loop.
	Loop(ctx context.Context)
	// Status returns a snapshot of the current state.
	Status() Status
}

// Statistics counts notable events since the last reset.
type Statistics struct {
	StateChanges      int `json:"stateChanges"`
	BatteryAlerts     int `json:"batteryAlerts"`
	FanAlerts         int `json:"fanAlerts"`
	ChargeReminders   int `json:"chargeReminders"`
	Naps              int `json:"naps"`
	PowerOffWarnings  int `json:"powerOffWarnings"`
	CanceledPowerOffs int `json:"canceledPowerOffs"`
}

type PaprController struct {
	hw     hardware.Hardware
	config configuration.Configuration
	sink   StatusSink

	battery *battery.CoulombCounter
	fan     fans.Fan
	speeds  fans.SpeedTable

	state PowerState

	currentFanSpeed          fans.FanSpeed
	defaultFanSpeed          fans.FanSpeed
	lastFanSpeedChangeMillis uint32
	fanSpeedRecentlyChanged  bool
	currentAlert             Alert
	alertToggle              bool
	buzzerOn                 bool
	leds                     map[hardware.Pin]bool
	statistics               Statistics

	alertTimer     *timer.Timer
	beepTimer      *timer.Timer
	chargeReminder *timer.PeriodicCallback
	statusReport   *timer.PeriodicCallback

	powerOnButton  *buttons.PressDetector
	powerOffButton *buttons.PressDetector
	fanUpButton    *buttons.PressDetector
	fanDownButton  *buttons.PressDetector

	recorder *recorder.Recorder
}

var _ Controller = (*PaprController)(nil)

func NewController(hw hardware.Hardware, config configuration.Configuration, sink StatusSink) *PaprController {
	defaultSpeed, err := fans.ParseFanSpeed(config.Fan.DefaultSpeed)
	if err != nil {
		ui.Warning("Invalid default fan speed '%s', using %s", config.Fan.DefaultSpeed, fans.Low)
		defaultSpeed = fans.Low
	}

	c := &PaprController{
		hw:              hw,
		config:          config,
		sink:            sink,
		speeds:          fans.NewSpeedTable(config.Fan),
		state:           StateOff,
		currentFanSpeed: defaultSpeed,
		defaultFanSpeed: defaultSpeed,
		currentAlert:    AlertNone,
		leds:            map[hardware.Pin]bool{},
	}

	c.battery = battery.NewCoulombCounter(hw, config.Battery, config.Charging)
	c.fan = fans.NewPwmFan(hw, hardware.FanRPMPin, hardware.FanPWMPin, config.Fan.ReadingInterval, config.Fan.RpmRollingWindowSize)

	c.alertTimer = timer.NewTimer(hw, timer.CallableFunc(c.onToggleAlert))
	c.beepTimer = timer.NewTimer(hw, timer.CallableFunc(c.onBeepTimer))
	c.chargeReminder = timer.NewPeriodicCallback(hw, toMillis(config.Alerts.ChargeReminderInterval), timer.CallableFunc(c.onChargeReminder))
	c.statusReport = timer.NewPeriodicCallback(hw, toMillis(config.StatusReportInterval), timer.CallableFunc(c.onStatusReport))

	debounce := toMillis(config.Buttons.DebounceTime)
	c.powerOnButton = buttons.NewPressDetector(hw, hardware.PowerOnPin, debounce, timer.CallableFunc(c.onPowerOnPress))
	c.powerOffButton = buttons.NewPressDetector(hw, hardware.PowerOffPin, toMillis(config.Buttons.PowerOffDebounceTime), timer.CallableFunc(c.onPowerOffPress))
	c.fanUpButton = buttons.NewPressDetector(hw, hardware.FanUpPin, debounce, timer.CallableFunc(c.onFanUpPress))
	c.fanDownButton = buttons.NewPressDetector(hw, hardware.FanDownPin, debounce, timer.CallableFunc(c.onFanDownPress))

	if config.Recorder.Enabled {
		c.recorder = recorder.NewRecorder(hw, config.Recorder, func(report recorder.Report) {
			ui.Serial("%s", report)
		})
	}

	return c
}

func (c *PaprController) Setup() {
	cause := c.hw.WatchdogStartup()
	c.hw.Initialize()

	switch cause {
	case hardware.ResetWatchdog:
		c.flashAllLEDs(startupFlashMillis, watchdogResetFlashCount)
		c.state = StateOn
	case hardware.ResetManual:
		c.flashAllLEDs(startupFlashMillis, manualResetFlashCount)
		c.state = StateOn
	default:
		c.state = StateOff
	}
	ui.Info("%s", cause)

	c.fan.Begin()
	c.setFanSpeed(c.defaultFanSpeed)

	c.hw.WatchdogEnable(c.config.Power.WatchdogTimeout)

	// pressing power on, fan up and fan down at the same time resets the MCU
	c.hw.SetInterruptHandler(hardware.PowerOnPin, timer.CallableFunc(c.onPowerOnInterrupt))

	c.battery.InitializeCoulombCount()

	if c.battery.IsCharging() {
		c.state = c.state.WithCharging()
	}

	c.enterState(c.state)
	c.statusReport.Start()
}

func (c *PaprController) Loop(ctx context.Context) {
	c.hw.WatchdogReset()

	switch c.state {
	case StateOn:
		c.doAllUpdates()
		if c.battery.IsCharging() {
			c.enterState(StateOnCharging)
		}

	case StateOff:
		c.nap(ctx)
		c.battery.WakeUp()
		if c.recorder != nil {
			c.recorder.Reset()
		}

	case StateOnCharging:
		c.doAllUpdates()
		if !c.battery.IsCharging() {
			c.enterState(StateOn)
		}

	case StateOffCharging:
		c.battery.Update()
		c.updateBatteryLEDs()
		if !c.battery.IsCharging() {
			c.enterState(StateOff)
		}
		c.powerOnButton.Update()
		c.statusReport.Update()
	}
}

func (c *PaprController) doAllUpdates() {
	c.battery.Update()

	if c.currentAlert == AlertNone {
		c.checkForFanAlert()
	}
	if c.currentAlert != AlertFanRPM {
		c.updateFanLEDs()
	}

	c.checkForBatteryAlert()
	if c.currentAlert != AlertBatteryLow {
		c.updateBatteryLEDs()
	}

	c.fanUpButton.Update()
	c.fanDownButton.Update()
	c.powerOffButton.Update()

	c.alertTimer.Update()
	c.chargeReminder.Update()
	c.beepTimer.Update()
	c.statusReport.Update()

	if c.recorder != nil {
		c.recorder.Update(recorder.Sample{
			DutyCycle:    c.fan.GetDutyCycle(),
			Rpm:          c.fan.GetRpm(),
			MicroVolts:   c.hw.ReadMicroVolts(),
			MicroAmps:    c.hw.ReadMicroAmps(),
			PicoCoulombs: c.battery.PicoCoulombs(),
			Charging:     c.state == StateOnCharging,
			Tone:         c.buzzerOn,
		})
	}
}

func (c *PaprController) enterState(newState PowerState) {
	if newState != c.state {
		c.statistics.StateChanges++
	}
	ui.Serial("enter state %s", newState)
	c.state = newState

	if newState.IsOn() {
		c.battery.NotifySystemActive(true)
		c.hw.DigitalWrite(hardware.FanEnablePin, fanEnabled)
		c.setFanSpeed(c.currentFanSpeed)
		c.setBuzzer(false)
		if c.currentAlert != AlertFanRPM {
			c.updateFanLEDs()
		}
		if c.currentAlert != AlertBatteryLow {
			c.updateBatteryLEDs()
		}
	} else {
		c.battery.NotifySystemActive(false)
		c.hw.PinMode(hardware.BuzzerPin, hardware.Input)
		c.hw.StopTone()
		c.buzzerOn = false
		c.hw.DigitalWrite(hardware.FanEnablePin, fanDisabled)
		c.currentFanSpeed = c.defaultFanSpeed
		c.cancelAlert()
		c.chargeReminder.Stop()
		c.beepTimer.Cancel()
		c.allLEDsOff()
	}

	c.onStatusReport()
}

// nap sleeps in low power mode until either a charger is attached or the
// power on button is held long enough.
func (c *PaprController) nap(ctx context.Context) {
	c.statistics.Naps++
	c.hw.WatchdogDisable()
	c.hw.SetPowerMode(hardware.LowPowerMode)

	// the clock runs slower in low power mode
	holdMillis := toMillis(c.config.Buttons.PowerOnHoldTime) / uint32(max(c.config.Power.LowPowerClockDivider, 1))

	for {
		if ctx.Err() != nil {
			c.wake(c.state)
			return
		}

		c.hw.Sleep(c.config.Power.NapSleepDuration)

		if c.battery.IsCharging() {
			c.wake(StateOffCharging)
			return
		}

		wakeMillis := c.hw.Millis()
		for c.hw.DigitalRead(hardware.PowerOnPin) == hardware.ButtonPushed {
			if c.hw.Millis()-wakeMillis > holdMillis {
				c.wake(StateOn)
				// don't let the button press leak into the main loop
				for c.hw.DigitalRead(hardware.PowerOnPin) == hardware.ButtonPushed {
				}
				return
			}
		}
	}
}

func (c *PaprController) wake(newState PowerState) {
	c.hw.SetPowerMode(hardware.FullPowerMode)
	c.enterState(newState)
	c.hw.WatchdogEnable(c.config.Power.WatchdogTimeout)
}

func (c *PaprController) setFanSpeed(speed fans.FanSpeed) {
	c.currentFanSpeed = speed
	c.fan.SetDutyCycle(c.speeds.DutyCycle(speed))
	if c.currentAlert != AlertFanRPM {
		c.updateFanLEDs()
	}
	ui.Debug("Set fan speed %s", speed)
	c.lastFanSpeedChangeMillis = c.hw.Millis()
	c.fanSpeedRecentlyChanged = true
}

func (c *PaprController) setBuzzer(on bool) {
	if on {
		c.hw.PinMode(hardware.BuzzerPin, hardware.Output)
		c.hw.StartTone(c.config.Alerts.BuzzerFrequency, c.config.Alerts.BuzzerDutyCycle)
	} else {
		c.hw.StopTone()
	}
	c.buzzerOn = on
}

// State returns the current power state.
func (c *PaprController) State() PowerState {
	return c.state
}

// CurrentAlert returns the active alert, if any.
func (c *PaprController) CurrentAlert() Alert {
	return c.currentAlert
}

// FanSpeed returns the fan speed the user selected.
func (c *PaprController) FanSpeed() fans.FanSpeed {
	return c.currentFanSpeed
}

func toMillis(d time.Duration) uint32 {
	return uint32(d.Milliseconds())
}
