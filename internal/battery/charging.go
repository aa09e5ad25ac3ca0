package battery

import (
	"github.com/markusressel/papr2go/internal/hardware"
)

// IsCharging reports whether a charger is attached.
//
// In low power mode the battery is disconnected from the sense circuit, so
// any significant voltage must come from a charger. In full power mode the
// sign of the current is used: while the system is active it draws a known
// minimum, so a discharge smaller than that means the charger supplements
// the load. While it is inactive, the current alone may be inconclusive,
// in which case the voltage is checked in low power mode.
func (c *CoulombCounter) IsCharging() bool {
	if c.board.PowerMode() == hardware.LowPowerMode {
		return c.chargerVoltagePresent()
	}

	microAmps := c.board.ReadMicroAmps()
	if c.systemActive {
		return microAmps > c.detector.ActiveThresholdMilliAmps*microAmpsPerMilliAmp
	}

	if microAmps > c.detector.InactiveChargingMilliAmps*microAmpsPerMilliAmp {
		return true
	}
	if microAmps < c.detector.InactiveDischargingMilliAmps*microAmpsPerMilliAmp {
		return false
	}

	settleMillis := durationToMillis(c.detector.ModeSwitchSettleTime)
	c.board.SetPowerMode(hardware.LowPowerMode)
	c.board.Delay(settleMillis)
	charging := c.chargerVoltagePresent()
	c.board.SetPowerMode(hardware.FullPowerMode)
	c.board.Delay(settleMillis)
	return charging
}

func (c *CoulombCounter) chargerVoltagePresent() bool {
	return c.board.ReadMicroVolts() > c.detector.ChargerPresentMilliVolts*microVoltsPerMilliVolt
}
