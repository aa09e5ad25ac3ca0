package battery

import (
	"math"
	"testing"
	"time"

	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/testingutils"
	"github.com/stretchr/testify/assert"
)

const (
	capacityPicoCoulombs = 12600 * PicoCoulombsPerCoulomb
	oneCoulomb           = PicoCoulombsPerCoulomb
)

func createBatteryConfig() configuration.BatteryConfig {
	return configuration.BatteryConfig{
		CapacityCoulombs:                 12600,
		MinChargeCoulombs:                630,
		FullChargeMilliAmps:              200,
		WinddownTime:                     5 * time.Minute,
		FullChargeGracePeriod:            5 * time.Second,
		VoltageChangeThresholdMilliVolts: 100,
		// no smoothing, the smoothed voltage follows the reading immediately
		VoltageSmoothingFactor: 1,
		BaselineMilliVolts:     20000,
		VoltageCurve: configuration.VoltageCurve{
			20000: 0,
			22000: 50,
			24000: 100,
		},
	}
}

func createDetectorConfig() configuration.ChargingDetectorConfig {
	return configuration.ChargingDetectorConfig{
		ChargerPresentMilliVolts:     10000,
		ActiveThresholdMilliAmps:     -10,
		InactiveChargingMilliAmps:    50,
		InactiveDischargingMilliAmps: -50,
		ModeSwitchSettleTime:         10 * time.Millisecond,
	}
}

func createCounter(hw *testingutils.MockHardware) *CoulombCounter {
	return NewCoulombCounter(hw, createBatteryConfig(), createDetectorConfig())
}

func TestNewCoulombCounter_StartsHalfFull(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()

	// WHEN
	c := createCounter(hw)

	// THEN
	assert.Equal(t, int64(capacityPicoCoulombs/2), c.PicoCoulombs())
	assert.Equal(t, int64(capacityPicoCoulombs), c.CapacityPicoCoulombs())
}

func TestUpdate_ZeroCurrentKeepsChargeConstant(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	hw.MicroVolts = 22_000_000
	c := createCounter(hw)
	before := c.PicoCoulombs()

	// WHEN
	for i := 0; i < 10000; i++ {
		hw.Advance(7)
		c.Update()
	}

	// THEN
	assert.Equal(t, before, c.PicoCoulombs())
}

func TestUpdate_IntegratesCurrent(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	hw.MicroVolts = 22_000_000
	hw.MicroAmps = -1_000_000
	c := createCounter(hw)
	c.NotifySystemActive(true)
	before := c.PicoCoulombs()

	// WHEN
	for i := 0; i < 100; i++ {
		hw.Advance(10)
		c.Update()
	}

	// THEN
	assert.Equal(t, before-oneCoulomb, c.PicoCoulombs())
}

func TestUpdate_MicrosWraparound(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	hw.MicroVolts = 22_000_000
	hw.MicroAmps = 1_000_000
	hw.MicrosValue = math.MaxUint32 - 499_999
	c := createCounter(hw)
	before := c.PicoCoulombs()

	// WHEN
	hw.MicrosValue = 500_000
	c.Update()

	// THEN
	assert.Equal(t, before+oneCoulomb, c.PicoCoulombs())
}

func TestUpdate_ClampsToCapacity(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	hw.MicroVolts = 25_000_000
	hw.MicroAmps = 3_000_000
	c := createCounter(hw)

	// WHEN
	for i := 0; i < 3000; i++ {
		hw.Advance(1000)
		c.Update()
	}

	// THEN
	assert.Equal(t, int64(capacityPicoCoulombs), c.PicoCoulombs())
	assert.Equal(t, 100, c.PercentFull())
}

func TestUpdate_ClampsToZero(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	hw.MicroVolts = 20_000_000
	hw.MicroAmps = -3_000_000
	c := createCounter(hw)
	c.NotifySystemActive(true)

	// WHEN
	for i := 0; i < 3000; i++ {
		hw.Advance(1000)
		c.Update()
	}

	// THEN
	assert.Equal(t, int64(0), c.PicoCoulombs())
	assert.Equal(t, -5, c.PercentFull())
}

func TestUpdate_IgnoredInLowPowerMode(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	hw.MicroAmps = -1_000_000
	c := createCounter(hw)
	before := c.PicoCoulombs()
	hw.SetPowerMode(hardware.LowPowerMode)

	// WHEN
	hw.Advance(10_000)
	c.Update()

	// THEN
	assert.Equal(t, before, c.PicoCoulombs())
}

func TestWakeUp_DoesNotIntegrateTimeAsleep(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	hw.MicroVolts = 22_000_000
	hw.MicroAmps = -1_000_000
	c := createCounter(hw)
	c.NotifySystemActive(true)
	c.Update()
	before := c.PicoCoulombs()

	// WHEN
	hw.Advance(3_600_000)
	c.WakeUp()
	c.Update()

	// THEN
	assert.Equal(t, before, c.PicoCoulombs())
}

func TestPercentFull(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	c := createCounter(hw)

	// THEN
	assert.Equal(t, 47, c.PercentFull())

	// WHEN
	c.AdjustCharge(-capacityPicoCoulombs)
	c.AdjustCharge(630 * oneCoulomb)

	// THEN
	assert.Equal(t, 0, c.PercentFull())

	// WHEN
	c.AdjustCharge(2 * capacityPicoCoulombs)

	// THEN
	assert.Equal(t, 100, c.PercentFull())
	assert.Equal(t, int64(capacityPicoCoulombs), c.PicoCoulombs())
}

func TestInitializeCoulombCount(t *testing.T) {
	tests := []struct {
		name       string
		microVolts int64
		curve      configuration.VoltageCurve
		expected   int64
	}{
		{name: "On the curve", microVolts: 23_000_000, curve: createBatteryConfig().VoltageCurve, expected: capacityPicoCoulombs * 3 / 4},
		{name: "Below the curve", microVolts: 15_000_000, curve: createBatteryConfig().VoltageCurve, expected: 0},
		{name: "Above the curve", microVolts: 26_000_000, curve: createBatteryConfig().VoltageCurve, expected: capacityPicoCoulombs},
		{name: "No reading", microVolts: 0, curve: createBatteryConfig().VoltageCurve, expected: capacityPicoCoulombs / 2},
		{name: "No curve", microVolts: 23_000_000, curve: configuration.VoltageCurve{}, expected: capacityPicoCoulombs / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			hw := testingutils.NewMockHardware()
			hw.MicroVolts = tt.microVolts
			config := createBatteryConfig()
			config.VoltageCurve = tt.curve
			c := NewCoulombCounter(hw, config, createDetectorConfig())
			c.AdjustCharge(-1234 * oneCoulomb)

			// WHEN
			c.InitializeCoulombCount()

			// THEN
			assert.Equal(t, tt.expected, c.PicoCoulombs())
		})
	}
}

// charges with a constant current until the counter commits to full charge,
// returns the number of seconds that took
func chargeUntilFull(hw *testingutils.MockHardware, c *CoulombCounter, limitSeconds int) int {
	for second := 1; second <= limitSeconds; second++ {
		hw.Advance(1000)
		c.Update()
		if c.PicoCoulombs() == c.CapacityPicoCoulombs() {
			return second
		}
	}
	return -1
}

func TestFullCharge_CommitsAfterWinddownAndGracePeriod(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	hw.MicroVolts = 25_200_000
	hw.MicroAmps = 100_000
	c := createCounter(hw)

	// WHEN
	seconds := chargeUntilFull(hw, c, 600)

	// THEN
	// the battery looks full from 302s on, the grace period is exceeded 6s later
	assert.Equal(t, 308, seconds)
	assert.Equal(t, 100, c.PercentFull())
}

func TestFullCharge_RequiresLowCurrent(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	hw.MicroVolts = 25_200_000
	hw.MicroAmps = 200_000
	c := createCounter(hw)
	c.AdjustCharge(-capacityPicoCoulombs / 4)

	// WHEN
	seconds := chargeUntilFull(hw, c, 900)

	// THEN
	assert.Equal(t, -1, seconds)
	assert.False(t, c.State().FullChargePending)
}

func TestFullCharge_LatchResetsWhenConditionBreaks(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	hw.MicroVolts = 25_200_000
	hw.MicroAmps = 100_000
	c := createCounter(hw)
	for i := 0; i < 304; i++ {
		hw.Advance(1000)
		c.Update()
	}
	assert.True(t, c.State().FullChargePending)

	// WHEN
	hw.MicroAmps = 500_000
	hw.Advance(1000)
	c.Update()

	// THEN
	assert.False(t, c.State().FullChargePending)

	// WHEN
	hw.MicroAmps = 100_000
	for i := 0; i < 5; i++ {
		hw.Advance(1000)
		c.Update()
	}

	// THEN
	assert.True(t, c.State().FullChargePending)
	assert.Less(t, c.PicoCoulombs(), c.CapacityPicoCoulombs())

	// WHEN
	hw.Advance(1000)
	c.Update()
	hw.Advance(1000)
	c.Update()

	// THEN
	assert.Equal(t, c.CapacityPicoCoulombs(), c.PicoCoulombs())
}

func TestFullCharge_VoltageChangeRestartsWinddown(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	hw.MicroVolts = 25_000_000
	hw.MicroAmps = 100_000
	c := createCounter(hw)
	for i := 0; i < 200; i++ {
		hw.Advance(1000)
		c.Update()
	}

	// WHEN
	hw.MicroVolts = 25_150_000
	seconds := chargeUntilFull(hw, c, 600)

	// THEN
	assert.Equal(t, 308, seconds)
}

func TestFullCharge_SmallVoltageDriftIgnored(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	hw.MicroVolts = 25_000_000
	hw.MicroAmps = 100_000
	c := createCounter(hw)
	for i := 0; i < 200; i++ {
		hw.Advance(1000)
		c.Update()
	}

	// WHEN
	hw.MicroVolts = 25_050_000
	seconds := chargeUntilFull(hw, c, 600)

	// THEN
	assert.Equal(t, 108, seconds)
}

func TestFullCharge_NotWhileDischarging(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	hw.MicroVolts = 25_200_000
	hw.MicroAmps = -5_000
	c := createCounter(hw)
	c.NotifySystemActive(true)

	// WHEN
	seconds := chargeUntilFull(hw, c, 900)

	// THEN
	assert.Equal(t, -1, seconds)
}
