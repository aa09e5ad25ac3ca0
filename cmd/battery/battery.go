package battery

import (
	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/ui"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "battery",
	Short:            "Battery related commands",
	Long:             ``,
	TraverseChildren: true,
}

func loadConfig() configuration.BatteryConfig {
	configPath := configuration.DetectConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	err := configuration.Validate()
	if err != nil {
		ui.Fatal("%v", err)
	}
	return configuration.CurrentConfig.Battery
}
