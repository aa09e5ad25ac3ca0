// Package battery keeps track of the charge of the battery by integrating the
// current flowing into and out of it (coulomb counting), and detects whether a
// charger is attached.
package battery

import (
	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/util"
	"time"
)

const (
	PicoCoulombsPerCoulomb = 1_000_000_000_000
	microVoltsPerMilliVolt = 1000
	microAmpsPerMilliAmp   = 1000
)

// Board is the subset of the hardware used by the coulomb counter.
type Board interface {
	hardware.Clock
	hardware.Sensors
	hardware.PowerModeController
}

// ChargeState is a snapshot of the coulomb counter, for diagnostics.
type ChargeState struct {
	PicoCoulombs       int64   `json:"picoCoulombs"`
	PercentFull        int     `json:"percentFull"`
	SmoothedMicroVolts float64 `json:"smoothedMicroVolts"`
	MicroAmps          int64   `json:"microAmps"`
	FullChargePending  bool    `json:"fullChargePending"`
}

type CoulombCounter struct {
	board    Board
	config   configuration.BatteryConfig
	detector configuration.ChargingDetectorConfig

	capacityPicoCoulombs  int64
	minChargePicoCoulombs int64

	// charge currently held by the battery, always in [0, capacityPicoCoulombs]
	picoCoulombs     int64
	lastSampleMicros uint32
	lastMicroAmps    int64

	smoothedMicroVolts      float64
	referenceMicroVolts     float64
	lastVoltageChangeMillis uint32

	wasCharging       bool
	chargeStartMillis uint32

	fullChargePending      bool
	fullChargePendingSince uint32

	systemActive bool
}

func NewCoulombCounter(board Board, config configuration.BatteryConfig, detector configuration.ChargingDetectorConfig) *CoulombCounter {
	c := &CoulombCounter{
		board:                 board,
		config:                config,
		detector:              detector,
		capacityPicoCoulombs:  coulombsToPicoCoulombs(config.CapacityCoulombs),
		minChargePicoCoulombs: coulombsToPicoCoulombs(config.MinChargeCoulombs),
	}
	c.picoCoulombs = c.capacityPicoCoulombs / 2
	c.WakeUp()
	return c
}

func coulombsToPicoCoulombs(coulombs float64) int64 {
	return int64(coulombs * PicoCoulombsPerCoulomb)
}

// WakeUp resets all time based state. It must be called after the clock
// has been stopped or slowed down, e.g. after a nap, otherwise the time
// spent napping would be integrated as if the last current reading had
// persisted the whole time.
func (c *CoulombCounter) WakeUp() {
	nowMillis := c.board.Millis()
	c.lastSampleMicros = c.board.Micros()
	c.smoothedMicroVolts = float64(c.config.BaselineMilliVolts * microVoltsPerMilliVolt)
	c.referenceMicroVolts = 0
	c.lastVoltageChangeMillis = nowMillis
	c.chargeStartMillis = nowMillis
	c.wasCharging = false
	c.fullChargePending = false
}

// InitializeCoulombCount replaces the charge estimate with a rough estimate
// derived from the current battery voltage.
func (c *CoulombCounter) InitializeCoulombCount() {
	microVolts := c.board.ReadMicroVolts()
	if len(c.config.VoltageCurve) == 0 || microVolts <= 0 {
		c.picoCoulombs = c.capacityPicoCoulombs / 2
		return
	}

	milliVolts := float64(microVolts) / microVoltsPerMilliVolt
	percent := EstimatePercent(c.config.VoltageCurve, milliVolts)
	c.picoCoulombs = util.Clamp(int64(float64(c.capacityPicoCoulombs)*percent/100), 0, c.capacityPicoCoulombs)
}

// EstimatePercent returns a rough state of charge for the given battery voltage.
func EstimatePercent(curve configuration.VoltageCurve, milliVolts float64) float64 {
	return util.CalculateInterpolatedCurveValue(curve, util.InterpolationTypeLinear, milliVolts)
}

// Update integrates the current since the last call. It must be called
// frequently, and only in full power mode.
func (c *CoulombCounter) Update() {
	if c.board.PowerMode() != hardware.FullPowerMode {
		return
	}

	c.updateVoltage()
	c.updateTimers()

	// read time and current back to back
	nowMicros := c.board.Micros()
	microAmps := c.board.ReadMicroAmps()

	deltaMicros := nowMicros - c.lastSampleMicros
	c.lastSampleMicros = nowMicros
	c.lastMicroAmps = microAmps

	// µA * µs = pC
	c.picoCoulombs = util.Clamp(c.picoCoulombs+microAmps*int64(deltaMicros), 0, c.capacityPicoCoulombs)

	c.updateFullCharge(microAmps)
}

func (c *CoulombCounter) updateVoltage() {
	c.smoothedMicroVolts = util.UpdateSimpleMovingAvg(c.smoothedMicroVolts, c.config.VoltageSmoothingFactor, float64(c.board.ReadMicroVolts()))
}

func (c *CoulombCounter) updateTimers() {
	charging := c.IsCharging()
	if charging && !c.wasCharging {
		c.chargeStartMillis = c.board.Millis()
	}
	c.wasCharging = charging

	threshold := float64(c.config.VoltageChangeThresholdMilliVolts * microVoltsPerMilliVolt)
	diff := c.smoothedMicroVolts - c.referenceMicroVolts
	if diff >= threshold || -diff >= threshold {
		c.lastVoltageChangeMillis = c.board.Millis()
		c.referenceMicroVolts = c.smoothedMicroVolts
	}
}

// updateFullCharge commits the charge to full capacity once the battery
// has looked full for longer than the grace period.
func (c *CoulombCounter) updateFullCharge(microAmps int64) {
	nowMillis := c.board.Millis()
	winddown := durationToMillis(c.config.WinddownTime)

	looksFull := c.wasCharging &&
		nowMillis-c.chargeStartMillis > winddown &&
		nowMillis-c.lastVoltageChangeMillis > winddown &&
		microAmps >= 0 &&
		microAmps < c.config.FullChargeMilliAmps*microAmpsPerMilliAmp

	if !looksFull {
		c.fullChargePending = false
		return
	}

	if !c.fullChargePending {
		c.fullChargePending = true
		c.fullChargePendingSince = nowMillis
		return
	}

	if nowMillis-c.fullChargePendingSince > durationToMillis(c.config.FullChargeGracePeriod) {
		c.picoCoulombs = c.capacityPicoCoulombs
	}
}

// NotifySystemActive tells the charging detector whether the fan and the
// rest of the system are drawing power.
func (c *CoulombCounter) NotifySystemActive(active bool) {
	c.systemActive = active
}

// PercentFull returns the usable charge in percent. The minimum charge
// counts as empty, so values below zero are possible.
func (c *CoulombCounter) PercentFull() int {
	onePercent := (c.capacityPicoCoulombs - c.minChargePicoCoulombs) / 100
	if onePercent <= 0 {
		return 0
	}
	return int((c.picoCoulombs - c.minChargePicoCoulombs) / onePercent)
}

func (c *CoulombCounter) PicoCoulombs() int64 {
	return c.picoCoulombs
}

func (c *CoulombCounter) CapacityPicoCoulombs() int64 {
	return c.capacityPicoCoulombs
}

func (c *CoulombCounter) SmoothedMicroVolts() float64 {
	return c.smoothedMicroVolts
}

// AdjustCharge shifts the charge estimate, used for debugging only.
func (c *CoulombCounter) AdjustCharge(deltaPicoCoulombs int64) {
	c.picoCoulombs = util.Clamp(c.picoCoulombs+deltaPicoCoulombs, 0, c.capacityPicoCoulombs)
}

func (c *CoulombCounter) State() ChargeState {
	return ChargeState{
		PicoCoulombs:       c.picoCoulombs,
		PercentFull:        c.PercentFull(),
		SmoothedMicroVolts: c.smoothedMicroVolts,
		MicroAmps:          c.lastMicroAmps,
		FullChargePending:  c.fullChargePending,
	}
}

func durationToMillis(d time.Duration) uint32 {
	return uint32(d.Milliseconds())
}
