package configuration

import "time"

type AlertConfig struct {
	UrgentBatteryPercent int `json:"urgentBatteryPercent"`
	// Keep the battery alert active until the device is turned off,
	// instead of clearing it once a charger is attached.
	StickyBatteryLow bool `json:"stickyBatteryLow"`

	BatteryOn  time.Duration `json:"batteryOn"`
	BatteryOff time.Duration `json:"batteryOff"`
	FanOn      time.Duration `json:"fanOn"`
	FanOff     time.Duration `json:"fanOff"`

	ChargeReminderPercent  int           `json:"chargeReminderPercent"`
	ChargeReminderInterval time.Duration `json:"chargeReminderInterval"`
	ChargeReminderBeep     time.Duration `json:"chargeReminderBeep"`

	BuzzerFrequency int `json:"buzzerFrequency"`
	BuzzerDutyCycle int `json:"buzzerDutyCycle"`

	DesktopNotifications bool `json:"desktopNotifications"`
}

type ButtonConfig struct {
	DebounceTime         time.Duration `json:"debounceTime"`
	PowerOffDebounceTime time.Duration `json:"powerOffDebounceTime"`
	PowerOffHoldTime     time.Duration `json:"powerOffHoldTime"`
	PowerOnHoldTime      time.Duration `json:"powerOnHoldTime"`
}

type PowerConfig struct {
	NapSleepDuration     time.Duration `json:"napSleepDuration"`
	LowPowerClockDivider int           `json:"lowPowerClockDivider"`
	WatchdogTimeout      time.Duration `json:"watchdogTimeout"`
}

type RecorderConfig struct {
	Enabled    bool          `json:"enabled"`
	Interval   time.Duration `json:"interval"`
	WindowSize int           `json:"windowSize"`
}

type DebugConfig struct {
	// Fan up/down adjust the charge estimate while the power on button is held.
	ChargeAdjustButtons bool    `json:"chargeAdjustButtons"`
	ChargeStepCoulombs  float64 `json:"chargeStepCoulombs"`
}
