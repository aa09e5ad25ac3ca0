package fans

import (
	"fmt"
	"strings"

	"github.com/markusressel/papr2go/internal/configuration"
)

const (
	MaxDutyCycle = 100
	MaxPwmValue  = 255
)

type FanSpeed int

const (
	Low FanSpeed = iota
	Medium
	High
)

var fanSpeedNames = []string{"low", "medium", "high"}

func (s FanSpeed) String() string {
	if s < Low || s > High {
		return "unknown"
	}
	return fanSpeedNames[s]
}

// ShortName returns the abbreviation used on the diagnostic stream.
func (s FanSpeed) ShortName() string {
	switch s {
	case Low:
		return "lo"
	case Medium:
		return "med"
	case High:
		return "hi"
	}
	return "?"
}

// Increase returns the next higher speed, High stays High.
func (s FanSpeed) Increase() FanSpeed {
	if s >= High {
		return High
	}
	return s + 1
}

// Decrease returns the next lower speed, Low stays Low.
func (s FanSpeed) Decrease() FanSpeed {
	if s <= Low {
		return Low
	}
	return s - 1
}

func ParseFanSpeed(name string) (FanSpeed, error) {
	for idx, speedName := range fanSpeedNames {
		if strings.EqualFold(speedName, name) {
			return FanSpeed(idx), nil
		}
	}
	return Low, fmt.Errorf("unsupported fan speed '%s', use one of: %s", name, strings.Join(fanSpeedNames, " | "))
}

func (s FanSpeed) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *FanSpeed) UnmarshalText(text []byte) error {
	speed, err := ParseFanSpeed(string(text))
	if err != nil {
		return err
	}
	*s = speed
	return nil
}

// SpeedTable holds the calibration of the fan, per fan speed.
type SpeedTable struct {
	dutyCycles   []int
	expectedRpm  []int
	rpmTolerance float64
}

func NewSpeedTable(config configuration.FanConfig) SpeedTable {
	return SpeedTable{
		dutyCycles:   config.DutyCycles,
		expectedRpm:  config.ExpectedRpm,
		rpmTolerance: config.RpmTolerance,
	}
}

func (t SpeedTable) DutyCycle(speed FanSpeed) int {
	return t.dutyCycles[speed]
}

func (t SpeedTable) ExpectedRpm(speed FanSpeed) int {
	return t.expectedRpm[speed]
}

// RpmRange returns the lowest and highest acceptable rpm for the given speed.
func (t SpeedTable) RpmRange(speed FanSpeed) (lowest int, highest int) {
	expected := float64(t.ExpectedRpm(speed))
	return int(expected * (1 - t.rpmTolerance)), int(expected * (1 + t.rpmTolerance))
}

func (t SpeedTable) IsRpmInRange(rpm int, speed FanSpeed) bool {
	lowest, highest := t.RpmRange(speed)
	return rpm >= lowest && rpm <= highest
}
