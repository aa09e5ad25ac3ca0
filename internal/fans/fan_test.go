package fans

import (
	"testing"
	"time"

	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/testingutils"
	"github.com/stretchr/testify/assert"
)

func createSpeedTable() SpeedTable {
	return NewSpeedTable(configuration.FanConfig{
		DutyCycles:   []int{0, 50, 100},
		ExpectedRpm:  []int{7479, 16112, 22271},
		RpmTolerance: 0.05,
	})
}

// emits the given number of tachometer pulses, each with a falling and a rising edge
func emitPulses(hw *testingutils.MockHardware, pulses int) {
	for i := 0; i < pulses; i++ {
		hw.Levels[hardware.FanRPMPin] = hardware.Low
		hw.FireInterrupt(hardware.FanRPMPin)
		hw.Levels[hardware.FanRPMPin] = hardware.High
		hw.FireInterrupt(hardware.FanRPMPin)
	}
}

func TestFanSpeed_IncreaseDecreaseSaturate(t *testing.T) {
	assert.Equal(t, Medium, Low.Increase())
	assert.Equal(t, High, Medium.Increase())
	assert.Equal(t, High, High.Increase())
	assert.Equal(t, Medium, High.Decrease())
	assert.Equal(t, Low, Medium.Decrease())
	assert.Equal(t, Low, Low.Decrease())
}

func TestParseFanSpeed(t *testing.T) {
	// WHEN
	speed, err := ParseFanSpeed("Medium")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, Medium, speed)
	assert.Equal(t, "medium", speed.String())
	assert.Equal(t, "med", speed.ShortName())

	// WHEN
	_, err = ParseFanSpeed("turbo")

	// THEN
	assert.EqualError(t, err, "unsupported fan speed 'turbo', use one of: low | medium | high")
}

func TestSpeedTable(t *testing.T) {
	// GIVEN
	table := createSpeedTable()

	// THEN
	assert.Equal(t, 50, table.DutyCycle(Medium))
	assert.Equal(t, 22271, table.ExpectedRpm(High))
	lowest, highest := table.RpmRange(Low)
	assert.Equal(t, 7105, lowest)
	assert.Equal(t, 7852, highest)
	assert.True(t, table.IsRpmInRange(7479, Low))
	assert.True(t, table.IsRpmInRange(7200, Low))
	assert.False(t, table.IsRpmInRange(7000, Low))
	assert.False(t, table.IsRpmInRange(16112, Low))
	assert.True(t, table.IsRpmInRange(16112, Medium))
}

func TestPwmFan_SetDutyCycle(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	fan := NewPwmFan(hw, hardware.FanRPMPin, hardware.FanPWMPin, time.Second, 10)

	// WHEN
	fan.SetDutyCycle(50)

	// THEN
	assert.Equal(t, 50, fan.GetDutyCycle())
	assert.Equal(t, 127, hw.Analog[hardware.FanPWMPin])
	assert.Equal(t, hardware.Output, hw.Modes[hardware.FanPWMPin])

	// WHEN
	fan.SetDutyCycle(150)

	// THEN
	assert.Equal(t, 100, fan.GetDutyCycle())
	assert.Equal(t, 255, hw.Analog[hardware.FanPWMPin])
}

func TestPwmFan_GetRpm(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	fan := NewPwmFan(hw, hardware.FanRPMPin, hardware.FanPWMPin, time.Second, 10)
	fan.Begin()

	// WHEN
	// 250 pulses in 1.25s = 200 pulses/s = 100 revolutions/s
	emitPulses(hw, 250)
	hw.Advance(1250)
	rpm := fan.GetRpm()

	// THEN
	assert.Equal(t, 6000, rpm)
	assert.Equal(t, 6000.0, fan.GetRpmAvg())
}

func TestPwmFan_GetRpmKeepsReadingWithinInterval(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	fan := NewPwmFan(hw, hardware.FanRPMPin, hardware.FanPWMPin, time.Second, 10)
	fan.Begin()
	emitPulses(hw, 100)
	hw.Advance(1001)
	first := fan.GetRpm()

	// WHEN
	emitPulses(hw, 1000)
	hw.Advance(500)
	second := fan.GetRpm()

	// THEN
	assert.Equal(t, first, second)
}

func TestPwmFan_GetRpmAvg(t *testing.T) {
	// GIVEN
	hw := testingutils.NewMockHardware()
	fan := NewPwmFan(hw, hardware.FanRPMPin, hardware.FanPWMPin, time.Second, 10)
	fan.Begin()

	// THEN
	assert.Equal(t, 0.0, fan.GetRpmAvg())

	// WHEN
	emitPulses(hw, 100)
	hw.Advance(2000)
	fan.GetRpm()
	emitPulses(hw, 300)
	hw.Advance(2000)
	fan.GetRpm()

	// THEN
	assert.Equal(t, 3000.0, fan.GetRpmAvg())
}
