package fan

import (
	"bytes"
	"strconv"

	"github.com/markusressel/papr2go/cmd/global"
	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/fans"
	"github.com/markusressel/papr2go/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var speedsCmd = &cobra.Command{
	Use:   "speeds",
	Short: "Print the duty cycle and the accepted RPM band of every fan speed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		if err := configuration.Validate(); err != nil {
			return err
		}

		config := configuration.CurrentConfig.Fan
		speeds := fans.NewSpeedTable(config)

		var rows [][]string
		for _, speed := range []fans.FanSpeed{fans.Low, fans.Medium, fans.High} {
			lowest, highest := speeds.RpmRange(speed)
			isDefault := ""
			if speed.String() == config.DefaultSpeed {
				isDefault = "*"
			}
			rows = append(rows, []string{
				speed.String() + isDefault,
				strconv.Itoa(speeds.DutyCycle(speed)),
				strconv.Itoa(speeds.ExpectedRpm(speed)),
				strconv.Itoa(lowest),
				strconv.Itoa(highest),
			})
		}

		tab := table.Table{
			Headers: []string{"Speed", "Duty %", "Expected RPM", "Min RPM", "Max RPM"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		err := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if err != nil {
			return err
		}
		ui.Printfln("%s", buf.String())
		ui.Printfln("RPM readings outside of the band raise an alert once the fan had %s to settle.", config.StabilizeTime)
		return nil
	},
}

func init() {
	Command.AddCommand(speedsCmd)
}
