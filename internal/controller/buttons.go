package controller

import (
	"github.com/markusressel/papr2go/internal/battery"
	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/ui"
)

func (c *PaprController) isPushed(pin hardware.Pin) bool {
	return c.hw.DigitalRead(pin) == hardware.ButtonPushed
}

func (c *PaprController) onPowerOnInterrupt() {
	if c.isPushed(hardware.PowerOnPin) && c.isPushed(hardware.FanUpPin) && c.isPushed(hardware.FanDownPin) {
		c.hw.Reset()
	}
}

func (c *PaprController) onPowerOnPress() {
	if c.state == StateOffCharging {
		c.enterState(StateOnCharging)
	}
}

func (c *PaprController) onPowerOffPress() {
	switch c.state {
	case StateOn:
		if c.doPowerOffWarning() {
			c.enterState(StateOff)
		}
	case StateOnCharging:
		if c.doPowerOffWarning() {
			c.enterState(StateOffCharging)
		}
	}
}

// doPowerOffWarning lights all LEDs and sounds the buzzer for as long as the
// power off button is held. It returns true if the button was held long
// enough to turn the device off.
func (c *PaprController) doPowerOffWarning() bool {
	c.statistics.PowerOffWarnings++
	c.setLEDs(hardware.LEDPins, true)
	c.setBuzzer(true)

	holdMillis := toMillis(c.config.Buttons.PowerOffHoldTime)
	startMillis := c.hw.Millis()
	for c.isPushed(hardware.PowerOffPin) {
		if c.hw.Millis()-startMillis > holdMillis {
			c.allLEDsOff()
			c.setBuzzer(false)
			return true
		}
	}

	c.statistics.CanceledPowerOffs++
	c.allLEDsOff()
	c.setBuzzer(false)

	switch c.currentAlert {
	case AlertBatteryLow:
		c.updateFanLEDs()
	case AlertFanRPM:
		c.updateBatteryLEDs()
	default:
		c.updateFanLEDs()
		c.updateBatteryLEDs()
	}
	return false
}

func (c *PaprController) onFanUpPress() {
	if c.adjustChargeInstead(1) {
		return
	}
	c.setFanSpeed(c.currentFanSpeed.Increase())
}

func (c *PaprController) onFanDownPress() {
	if c.adjustChargeInstead(-1) {
		return
	}
	c.setFanSpeed(c.currentFanSpeed.Decrease())
}

// adjustChargeInstead moves the charge estimate by one step in the given
// direction, if the debug buttons are enabled and power on is held.
func (c *PaprController) adjustChargeInstead(direction int64) bool {
	if !c.config.Debug.ChargeAdjustButtons || !c.isPushed(hardware.PowerOnPin) {
		return false
	}
	step := int64(c.config.Debug.ChargeStepCoulombs * battery.PicoCoulombsPerCoulomb)
	c.battery.AdjustCharge(direction * step)
	ui.Debug("Charge adjusted to %d coulombs (%d%%)", c.battery.PicoCoulombs()/battery.PicoCoulombsPerCoulomb, c.battery.PercentFull())
	return true
}
