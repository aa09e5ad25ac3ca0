package battery

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/papr2go/cmd/global"
	"github.com/markusressel/papr2go/internal/battery"
	"github.com/markusressel/papr2go/internal/ui"
	"github.com/markusressel/papr2go/internal/util"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

const curveStepMilliVolts = 50

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the configured voltage curve of the battery",
	Run: func(cmd *cobra.Command, args []string) {
		config := loadConfig()
		voltages := util.SortedKeys(config.VoltageCurve)

		var rows [][]string
		for _, milliVolts := range voltages {
			rows = append(rows, []string{
				strconv.Itoa(milliVolts),
				fmt.Sprintf("%.0f%%", config.VoltageCurve[milliVolts]),
				fmt.Sprintf("%.0f", config.CapacityCoulombs*config.VoltageCurve[milliVolts]/100),
			})
		}
		tab := table.Table{
			Headers: []string{"mV", "Charge", "Coulombs"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		tableErr := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if tableErr != nil {
			panic(tableErr)
		}
		ui.Printfln("%s", buf.String())

		if len(voltages) < 2 {
			return
		}

		lowest, highest := voltages[0], voltages[len(voltages)-1]
		var values []float64
		for milliVolts := lowest; milliVolts <= highest; milliVolts += curveStepMilliVolts {
			values = append(values, battery.EstimatePercent(config.VoltageCurve, float64(milliVolts)))
		}

		caption := fmt.Sprintf("Charge %% / voltage (%d - %d mV)", lowest, highest)
		graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
		ui.Printfln("%s", graph)
	},
}

func init() {
	Command.AddCommand(curveCmd)
}
