package configuration

import "time"

// VoltageCurve maps a battery voltage in millivolts to a rough state of charge in percent.
type VoltageCurve map[int]float64

var DefaultVoltageCurve = VoltageCurve{
	19800: 0,
	21000: 10,
	22200: 25,
	23000: 50,
	23800: 75,
	24600: 95,
	25200: 100,
}

type BatteryConfig struct {
	CapacityCoulombs  float64 `json:"capacityCoulombs"`
	MinChargeCoulombs float64 `json:"minChargeCoulombs"`

	// Below this charging current a battery with an attached charger is considered full.
	FullChargeMilliAmps int64 `json:"fullChargeMilliAmps"`
	// Both the charge duration and the time since the last voltage change
	// must exceed this before the battery may be considered full.
	WinddownTime time.Duration `json:"winddownTime"`
	// The full charge conditions must hold for this long before the charge is committed.
	FullChargeGracePeriod time.Duration `json:"fullChargeGracePeriod"`

	VoltageChangeThresholdMilliVolts int64 `json:"voltageChangeThresholdMilliVolts"`
	VoltageSmoothingFactor           int   `json:"voltageSmoothingFactor"`
	BaselineMilliVolts               int64 `json:"baselineMilliVolts"`

	VoltageCurve VoltageCurve `json:"voltageCurve"`
}

type ChargingDetectorConfig struct {
	// In low power mode, a sensed voltage above this means a charger is attached.
	ChargerPresentMilliVolts int64 `json:"chargerPresentMilliVolts"`
	// While the system is active, a current above this (usually slightly negative)
	// means the charger supplements the load.
	ActiveThresholdMilliAmps int64 `json:"activeThresholdMilliAmps"`
	// While the system is inactive, currents above / below these thresholds are conclusive,
	// anything in between requires a voltage check in low power mode.
	InactiveChargingMilliAmps    int64         `json:"inactiveChargingMilliAmps"`
	InactiveDischargingMilliAmps int64         `json:"inactiveDischargingMilliAmps"`
	ModeSwitchSettleTime         time.Duration `json:"modeSwitchSettleTime"`
}
