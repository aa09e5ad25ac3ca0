package testingutils

import (
	"time"

	"github.com/markusressel/papr2go/internal/configuration"
)

// CreateConfig returns a complete configuration with the default values,
// for tests that run the firmware.
func CreateConfig() configuration.Configuration {
	return configuration.Configuration{
		DeviceId:             "test",
		StatusReportInterval: 10 * time.Second,
		StatusHistorySize:    10000,
		Battery: configuration.BatteryConfig{
			CapacityCoulombs:                 12600,
			MinChargeCoulombs:                630,
			FullChargeMilliAmps:              200,
			WinddownTime:                     5 * time.Minute,
			FullChargeGracePeriod:            5 * time.Second,
			VoltageChangeThresholdMilliVolts: 100,
			VoltageSmoothingFactor:           100,
			BaselineMilliVolts:               20000,
			VoltageCurve:                     configuration.DefaultVoltageCurve,
		},
		Charging: configuration.ChargingDetectorConfig{
			ChargerPresentMilliVolts:     10000,
			ActiveThresholdMilliAmps:     -10,
			InactiveChargingMilliAmps:    50,
			InactiveDischargingMilliAmps: -50,
			ModeSwitchSettleTime:         10 * time.Millisecond,
		},
		Fan: configuration.FanConfig{
			DutyCycles:           []int{0, 50, 100},
			ExpectedRpm:          []int{7479, 16112, 22271},
			RpmTolerance:         0.05,
			StabilizeTime:        6 * time.Second,
			ReadingInterval:      1 * time.Second,
			DefaultSpeed:         "low",
			RpmRollingWindowSize: 10,
		},
		Alerts: configuration.AlertConfig{
			UrgentBatteryPercent:   8,
			BatteryOn:              1 * time.Second,
			BatteryOff:             1 * time.Second,
			FanOn:                  200 * time.Millisecond,
			FanOff:                 200 * time.Millisecond,
			ChargeReminderPercent:  15,
			ChargeReminderInterval: 10 * time.Second,
			ChargeReminderBeep:     500 * time.Millisecond,
			BuzzerFrequency:        2500,
			BuzzerDutyCycle:        50,
		},
		Buttons: configuration.ButtonConfig{
			DebounceTime:         1 * time.Second,
			PowerOffDebounceTime: 50 * time.Millisecond,
			PowerOffHoldTime:     1 * time.Second,
			PowerOnHoldTime:      1 * time.Second,
		},
		Power: configuration.PowerConfig{
			NapSleepDuration:     1 * time.Second,
			LowPowerClockDivider: 8,
			WatchdogTimeout:      8 * time.Second,
		},
		Recorder: configuration.RecorderConfig{
			Interval:   5 * time.Second,
			WindowSize: 500,
		},
		Debug: configuration.DebugConfig{
			ChargeStepCoulombs: 1500,
		},
		Simulation: configuration.SimulationConfig{
			LoopDuration:         1 * time.Millisecond,
			ReadQuantum:          10 * time.Microsecond,
			Seed:                 1,
			InitialChargePercent: 50,
			ResetCause:           configuration.ResetCausePowerOn,
			ChargerMilliVolts:    26000,
			ChargeMilliAmps:      2600,
			TaperPercent:         90,
		},
	}
}
