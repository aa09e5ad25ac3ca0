package configuration

import (
	"errors"
	"fmt"
	"github.com/markusressel/papr2go/internal/ui"
	"github.com/markusressel/papr2go/internal/util"
	"golang.org/x/exp/slices"
	"strings"
)

var (
	fanSpeedNames    = []string{"low", "medium", "high"}
	resetCauses      = []string{ResetCausePowerOn, ResetCauseWatchdog, ResetCauseManual, ResetCauseBrownOut}
	scenarioActions  = []string{ScenarioActionPress, ScenarioActionCharger, ScenarioActionFanFault, ScenarioActionCharge}
	scenarioButtons  = []string{ButtonPowerOn, ButtonPowerOff, ButtonFanUp, ButtonFanDown}
	fanSpeedCount    = len(fanSpeedNames)
	maxPercent       = 100
	maxTcpPortNumber = 65535
)

// one percent of the usable charge must be at least one picocoulomb
const minUsableCoulombs = 1.0

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if len(config.DeviceId) <= 0 {
		return errors.New("deviceId must not be empty")
	}
	if config.StatusReportInterval <= 0 {
		return errors.New("statusReportInterval must be positive")
	}
	if config.StatusHistorySize < 0 {
		return errors.New("statusHistorySize must not be negative")
	}

	err := validateBattery(config)
	if err != nil {
		return err
	}
	err = validateChargingDetector(config)
	if err != nil {
		return err
	}
	err = validateFan(config)
	if err != nil {
		return err
	}
	err = validateAlerts(config)
	if err != nil {
		return err
	}
	err = validatePower(config)
	if err != nil {
		return err
	}
	err = validatePorts(config)
	if err != nil {
		return err
	}
	return validateSimulation(config)
}

func validateBattery(config *Configuration) error {
	battery := config.Battery
	if battery.CapacityCoulombs <= 0 {
		return errors.New(fmt.Sprintf("battery: capacity must be positive, was %v", battery.CapacityCoulombs))
	}
	if battery.MinChargeCoulombs < 0 || battery.MinChargeCoulombs >= battery.CapacityCoulombs {
		return errors.New(fmt.Sprintf("battery: minimum charge must be in [0, %v), was %v", battery.CapacityCoulombs, battery.MinChargeCoulombs))
	}
	if battery.CapacityCoulombs-battery.MinChargeCoulombs < minUsableCoulombs {
		return errors.New(fmt.Sprintf("battery: usable charge must be at least %v C, was %v", minUsableCoulombs, battery.CapacityCoulombs-battery.MinChargeCoulombs))
	}
	if battery.FullChargeMilliAmps <= 0 {
		return errors.New("battery: fullChargeMilliAmps must be positive")
	}
	if battery.VoltageSmoothingFactor < 1 {
		return errors.New(fmt.Sprintf("battery: voltageSmoothingFactor must be >= 1, was %d", battery.VoltageSmoothingFactor))
	}
	if battery.VoltageChangeThresholdMilliVolts <= 0 {
		return errors.New("battery: voltageChangeThresholdMilliVolts must be positive")
	}

	var lastPercent = -1.0
	for _, milliVolts := range util.SortedKeys(battery.VoltageCurve) {
		percent := battery.VoltageCurve[milliVolts]
		if percent < 0 || percent > float64(maxPercent) {
			return errors.New(fmt.Sprintf("battery: voltage curve value for %d mV out of range: %v", milliVolts, percent))
		}
		if percent <= lastPercent {
			return errors.New(fmt.Sprintf("battery: voltage curve must be strictly increasing, see %d mV", milliVolts))
		}
		lastPercent = percent
	}
	if len(battery.VoltageCurve) == 0 {
		ui.Warning("battery: no voltage curve configured, the initial charge estimate will always be 50%%")
	}

	return nil
}

func validateChargingDetector(config *Configuration) error {
	charging := config.Charging
	if charging.ChargerPresentMilliVolts <= 0 {
		return errors.New("charging: chargerPresentMilliVolts must be positive")
	}
	if charging.InactiveDischargingMilliAmps > charging.InactiveChargingMilliAmps {
		return errors.New(fmt.Sprintf("charging: inactiveDischargingMilliAmps (%d) must not exceed inactiveChargingMilliAmps (%d)",
			charging.InactiveDischargingMilliAmps, charging.InactiveChargingMilliAmps))
	}
	if charging.ModeSwitchSettleTime < 0 {
		return errors.New("charging: modeSwitchSettleTime must not be negative")
	}
	return nil
}

func validateFan(config *Configuration) error {
	fan := config.Fan
	if len(fan.DutyCycles) != fanSpeedCount {
		return errors.New(fmt.Sprintf("fan: expected %d duty cycles, got %d", fanSpeedCount, len(fan.DutyCycles)))
	}
	if len(fan.ExpectedRpm) != fanSpeedCount {
		return errors.New(fmt.Sprintf("fan: expected %d rpm values, got %d", fanSpeedCount, len(fan.ExpectedRpm)))
	}
	for idx, dutyCycle := range fan.DutyCycles {
		if dutyCycle < 0 || dutyCycle > maxPercent {
			return errors.New(fmt.Sprintf("fan: duty cycle for %s out of range: %d", fanSpeedNames[idx], dutyCycle))
		}
	}
	for idx, rpm := range fan.ExpectedRpm {
		if rpm <= 0 {
			return errors.New(fmt.Sprintf("fan: expected rpm for %s must be positive, was %d", fanSpeedNames[idx], rpm))
		}
	}
	if fan.RpmTolerance <= 0 || fan.RpmTolerance >= 1 {
		return errors.New(fmt.Sprintf("fan: rpmTolerance must be in (0, 1), was %v", fan.RpmTolerance))
	}
	if fan.ReadingInterval <= 0 {
		return errors.New("fan: readingInterval must be positive")
	}
	if fan.RpmRollingWindowSize < 1 {
		return errors.New("fan: rpmRollingWindowSize must be >= 1")
	}
	if !slices.Contains(fanSpeedNames, strings.ToLower(fan.DefaultSpeed)) {
		return errors.New(fmt.Sprintf("fan: unsupported default speed '%s', use one of: %s", fan.DefaultSpeed, strings.Join(fanSpeedNames, " | ")))
	}
	return nil
}

func validateAlerts(config *Configuration) error {
	alerts := config.Alerts
	if alerts.UrgentBatteryPercent < 0 || alerts.UrgentBatteryPercent > maxPercent {
		return errors.New(fmt.Sprintf("alerts: urgentBatteryPercent out of range: %d", alerts.UrgentBatteryPercent))
	}
	if alerts.ChargeReminderPercent < 0 || alerts.ChargeReminderPercent > maxPercent {
		return errors.New(fmt.Sprintf("alerts: chargeReminderPercent out of range: %d", alerts.ChargeReminderPercent))
	}
	if alerts.BatteryOn <= 0 || alerts.BatteryOff <= 0 || alerts.FanOn <= 0 || alerts.FanOff <= 0 {
		return errors.New("alerts: on/off durations must be positive")
	}
	if alerts.ChargeReminderInterval <= 0 {
		return errors.New("alerts: chargeReminderInterval must be positive")
	}
	if alerts.BuzzerDutyCycle < 0 || alerts.BuzzerDutyCycle > maxPercent {
		return errors.New(fmt.Sprintf("alerts: buzzerDutyCycle out of range: %d", alerts.BuzzerDutyCycle))
	}
	return nil
}

func validatePower(config *Configuration) error {
	power := config.Power
	if power.LowPowerClockDivider < 1 {
		return errors.New(fmt.Sprintf("power: lowPowerClockDivider must be >= 1, was %d", power.LowPowerClockDivider))
	}
	if power.NapSleepDuration <= 0 {
		return errors.New("power: napSleepDuration must be positive")
	}
	if power.WatchdogTimeout <= 0 {
		return errors.New("power: watchdogTimeout must be positive")
	}
	if config.Buttons.PowerOnHoldTime <= 0 || config.Buttons.PowerOffHoldTime <= 0 {
		return errors.New("buttons: hold times must be positive")
	}
	return nil
}

func validatePorts(config *Configuration) error {
	if config.Statistics.Enabled && (config.Statistics.Port <= 0 || config.Statistics.Port > maxTcpPortNumber) {
		return errors.New(fmt.Sprintf("statistics: invalid port %d", config.Statistics.Port))
	}
	if config.Api.Enabled && (config.Api.Port <= 0 || config.Api.Port > maxTcpPortNumber) {
		return errors.New(fmt.Sprintf("api: invalid port %d", config.Api.Port))
	}
	return nil
}

func validateSimulation(config *Configuration) error {
	simulation := config.Simulation
	if simulation.TimeScale < 0 {
		return errors.New("simulation: timeScale must not be negative")
	}
	if simulation.LoopDuration <= 0 || simulation.ReadQuantum <= 0 {
		return errors.New("simulation: loopDuration and readQuantum must be positive")
	}
	if simulation.InitialChargePercent < 0 || simulation.InitialChargePercent > float64(maxPercent) {
		return errors.New(fmt.Sprintf("simulation: initialChargePercent out of range: %v", simulation.InitialChargePercent))
	}
	if !slices.Contains(resetCauses, simulation.ResetCause) {
		return errors.New(fmt.Sprintf("simulation: unsupported reset cause '%s', use one of: %s", simulation.ResetCause, strings.Join(resetCauses, " | ")))
	}

	for idx, event := range simulation.Scenario {
		if event.At < 0 {
			return errors.New(fmt.Sprintf("scenario event %d: time must not be negative", idx))
		}
		if !slices.Contains(scenarioActions, event.Action) {
			return errors.New(fmt.Sprintf("scenario event %d: unsupported action '%s', use one of: %s", idx, event.Action, strings.Join(scenarioActions, " | ")))
		}
		switch event.Action {
		case ScenarioActionPress:
			if !util.ContainsString(scenarioButtons, event.Button) {
				return errors.New(fmt.Sprintf("scenario event %d: unsupported button '%s', use one of: %s", idx, event.Button, strings.Join(scenarioButtons, " | ")))
			}
			if event.Duration <= 0 {
				return errors.New(fmt.Sprintf("scenario event %d: press duration must be positive", idx))
			}
		case ScenarioActionFanFault:
			if event.Value < 0 {
				return errors.New(fmt.Sprintf("scenario event %d: fan fault factor must not be negative", idx))
			}
		case ScenarioActionCharge:
			if event.Value < 0 || event.Value > float64(maxPercent) {
				return errors.New(fmt.Sprintf("scenario event %d: charge percent out of range: %v", idx, event.Value))
			}
		}
	}
	return nil
}
