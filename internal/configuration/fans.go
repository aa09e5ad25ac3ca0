package configuration

import "time"

type FanConfig struct {
	// duty cycle in percent, per fan speed (low, medium, high)
	DutyCycles []int `json:"dutyCycles"`
	// expected rpm, per fan speed (low, medium, high)
	ExpectedRpm  []int   `json:"expectedRpm"`
	RpmTolerance float64 `json:"rpmTolerance"`
	// time after a fan speed change during which rpm is not checked
	StabilizeTime        time.Duration `json:"stabilizeTime"`
	ReadingInterval      time.Duration `json:"readingInterval"`
	DefaultSpeed         string        `json:"defaultSpeed"`
	RpmRollingWindowSize int           `json:"rpmRollingWindowSize"`
}
