package battery

import (
	"fmt"
	"strconv"

	"github.com/markusressel/papr2go/internal/battery"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <milliVolts>",
	Short: "Estimate the state of charge of a resting battery from its voltage",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		milliVolts, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid voltage '%s': %w", args[0], err)
		}

		config := loadConfig()
		percent := battery.EstimatePercent(config.VoltageCurve, milliVolts)
		coulombs := config.CapacityCoulombs * percent / 100

		fmt.Printf("%.1f%% (%.0f C)\n", percent, coulombs)
		return nil
	},
}

func init() {
	Command.AddCommand(estimateCmd)
}
