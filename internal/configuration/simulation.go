package configuration

import "time"

const (
	ResetCausePowerOn  = "power-on"
	ResetCauseWatchdog = "watchdog"
	ResetCauseManual   = "manual"
	ResetCauseBrownOut = "brown-out"

	ScenarioActionPress    = "press"
	ScenarioActionCharger  = "charger"
	ScenarioActionFanFault = "fan-fault"
	ScenarioActionCharge   = "set-charge"

	ButtonPowerOn  = "power-on"
	ButtonPowerOff = "power-off"
	ButtonFanUp    = "fan-up"
	ButtonFanDown  = "fan-down"
)

type SimulationConfig struct {
	// virtual seconds per real second, 0 runs as fast as possible
	TimeScale float64 `json:"timeScale"`
	// virtual time consumed by a single iteration of the firmware loop
	LoopDuration time.Duration `json:"loopDuration"`
	// virtual time consumed by a single clock read
	ReadQuantum time.Duration `json:"readQuantum"`
	Seed        int64         `json:"seed"`
	// stop after this much virtual time, 0 runs forever
	Duration time.Duration `json:"duration"`

	InitialChargePercent float64 `json:"initialChargePercent"`
	StartMillis          uint32  `json:"startMillis"`
	StartMicros          uint32  `json:"startMicros"`
	ResetCause           string  `json:"resetCause"`

	ChargerMilliVolts int64   `json:"chargerMilliVolts"`
	ChargeMilliAmps   int64   `json:"chargeMilliAmps"`
	TaperPercent      float64 `json:"taperPercent"`
	NoiseMilliAmps    int64   `json:"noiseMilliAmps"`

	Scenario []ScenarioEvent `json:"scenario"`
}

type ScenarioEvent struct {
	// virtual time since simulation start
	At     time.Duration `json:"at"`
	Action string        `json:"action"`
	// button name for "press"
	Button string `json:"button,omitempty"`
	// hold duration for "press"
	Duration time.Duration `json:"duration,omitempty"`
	// "charger": 0 = detach, anything else = attach
	// "fan-fault": rpm factor, 1 = healthy
	// "set-charge": state of charge in percent
	Value float64 `json:"value,omitempty"`
}
