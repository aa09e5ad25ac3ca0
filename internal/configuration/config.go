package configuration

import (
	"github.com/markusressel/papr2go/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"os"
	"time"
)

type Configuration struct {
	DbPath   string `json:"dbPath"`
	DeviceId string `json:"deviceId"`

	// Interval between two status reports on the diagnostic stream.
	StatusReportInterval time.Duration `json:"statusReportInterval"`
	// Number of status reports kept in the history per device, 0 keeps all of them.
	StatusHistorySize int `json:"statusHistorySize"`

	Battery    BatteryConfig          `json:"battery"`
	Charging   ChargingDetectorConfig `json:"charging"`
	Fan        FanConfig              `json:"fan"`
	Alerts     AlertConfig            `json:"alerts"`
	Buttons    ButtonConfig           `json:"buttons"`
	Power      PowerConfig            `json:"power"`
	Recorder   RecorderConfig         `json:"recorder"`
	Debug      DebugConfig            `json:"debug"`
	Simulation SimulationConfig       `json:"simulation"`

	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("papr2go")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/papr2go/")
	}

	viper.SetEnvPrefix("papr2go")
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbpath", "/etc/papr2go/papr2go.db")
	viper.SetDefault("deviceId", "papr")
	viper.SetDefault("statusReportInterval", 10*time.Second)
	viper.SetDefault("statusHistorySize", 10000)

	viper.SetDefault("battery.capacityCoulombs", 12600)
	viper.SetDefault("battery.minChargeCoulombs", 630)
	viper.SetDefault("battery.fullChargeMilliAmps", 200)
	viper.SetDefault("battery.winddownTime", 5*time.Minute)
	viper.SetDefault("battery.fullChargeGracePeriod", 5*time.Second)
	viper.SetDefault("battery.voltageChangeThresholdMilliVolts", 100)
	viper.SetDefault("battery.voltageSmoothingFactor", 100)
	viper.SetDefault("battery.baselineMilliVolts", 20000)
	viper.SetDefault("battery.voltageCurve", DefaultVoltageCurve)

	viper.SetDefault("charging.chargerPresentMilliVolts", 10000)
	viper.SetDefault("charging.activeThresholdMilliAmps", -10)
	viper.SetDefault("charging.inactiveChargingMilliAmps", 50)
	viper.SetDefault("charging.inactiveDischargingMilliAmps", -50)
	viper.SetDefault("charging.modeSwitchSettleTime", 10*time.Millisecond)

	viper.SetDefault("fan.dutyCycles", []int{0, 50, 100})
	viper.SetDefault("fan.expectedRpm", []int{7479, 16112, 22271})
	viper.SetDefault("fan.rpmTolerance", 0.05)
	viper.SetDefault("fan.stabilizeTime", 6*time.Second)
	viper.SetDefault("fan.readingInterval", 1*time.Second)
	viper.SetDefault("fan.defaultSpeed", "low")
	viper.SetDefault("fan.rpmRollingWindowSize", 10)

	viper.SetDefault("alerts.urgentBatteryPercent", 8)
	viper.SetDefault("alerts.stickyBatteryLow", false)
	viper.SetDefault("alerts.batteryOn", 1*time.Second)
	viper.SetDefault("alerts.batteryOff", 1*time.Second)
	viper.SetDefault("alerts.fanOn", 200*time.Millisecond)
	viper.SetDefault("alerts.fanOff", 200*time.Millisecond)
	viper.SetDefault("alerts.chargeReminderPercent", 15)
	viper.SetDefault("alerts.chargeReminderInterval", 10*time.Second)
	viper.SetDefault("alerts.chargeReminderBeep", 500*time.Millisecond)
	viper.SetDefault("alerts.buzzerFrequency", 2500)
	viper.SetDefault("alerts.buzzerDutyCycle", 50)
	viper.SetDefault("alerts.desktopNotifications", false)

	viper.SetDefault("buttons.debounceTime", 1*time.Second)
	viper.SetDefault("buttons.powerOffDebounceTime", 50*time.Millisecond)
	viper.SetDefault("buttons.powerOffHoldTime", 1*time.Second)
	viper.SetDefault("buttons.powerOnHoldTime", 1*time.Second)

	viper.SetDefault("power.napSleepDuration", 1*time.Second)
	viper.SetDefault("power.lowPowerClockDivider", 8)
	viper.SetDefault("power.watchdogTimeout", 8*time.Second)

	viper.SetDefault("recorder.enabled", false)
	viper.SetDefault("recorder.interval", 5*time.Second)
	viper.SetDefault("recorder.windowSize", 500)

	viper.SetDefault("debug.chargeAdjustButtons", false)
	viper.SetDefault("debug.chargeStepCoulombs", 1500)

	viper.SetDefault("simulation.timeScale", 1.0)
	viper.SetDefault("simulation.loopDuration", 1*time.Millisecond)
	viper.SetDefault("simulation.readQuantum", 10*time.Microsecond)
	viper.SetDefault("simulation.seed", 1)
	viper.SetDefault("simulation.duration", time.Duration(0))
	viper.SetDefault("simulation.initialChargePercent", 50)
	viper.SetDefault("simulation.startMillis", 0)
	viper.SetDefault("simulation.startMicros", 0)
	viper.SetDefault("simulation.resetCause", ResetCausePowerOn)
	viper.SetDefault("simulation.chargerMilliVolts", 26000)
	viper.SetDefault("simulation.chargeMilliAmps", 2600)
	viper.SetDefault("simulation.taperPercent", 90)
	viper.SetDefault("simulation.noiseMilliAmps", 2)
	viper.SetDefault("simulation.scenario", []ScenarioEvent{})

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 8080)
}

// DetectConfigFile tries to read the configuration file and returns its path.
// Running without a configuration file is fine, all values have defaults.
func DetectConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			ui.Warning("No configuration file found, using defaults")
			return ""
		}
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

func LoadConfig() {
	// load default configuration values
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			voltageCurveHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}
