package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/papr2go/cmd/global"
	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/controller"
	"github.com/markusressel/papr2go/internal/persistence"
	"github.com/markusressel/papr2go/internal/ui"
	"github.com/markusressel/papr2go/internal/util"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

const reportTimeFormat = "2006-01-02 15:04:05"

var (
	reportDeviceId   string
	reportLimit      int
	reportExportPath string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the recorded status reports of a device",
	Long:  `Prints the status history of a device as a table, followed by graphs of the charge and the fan speed.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		deviceId := reportDeviceId
		if deviceId == "" {
			deviceId = configuration.CurrentConfig.DeviceId
		}

		pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath, configuration.CurrentConfig.StatusHistorySize)
		reports, err := pers.LoadStatusReports(deviceId, reportLimit)
		if err != nil {
			return fmt.Errorf("unable to load status reports of %s: %w", deviceId, err)
		}

		if reportExportPath != "" {
			data, err := json.MarshalIndent(reports, "", "  ")
			if err != nil {
				return err
			}
			if err := util.WriteFileAtomic(reportExportPath, data); err != nil {
				return fmt.Errorf("unable to export status reports: %w", err)
			}
			ui.Success("Exported %d status reports to %s", len(reports), reportExportPath)
			return nil
		}

		ui.Printfln("> %s", deviceId)
		var buf bytes.Buffer
		if err := renderReport(&buf, reports, !global.NoColor); err != nil {
			return err
		}
		ui.Printfln("%s", buf.String())
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportDeviceId, "id", "i", "", "Device ID (default is the configured deviceId)")
	reportCmd.Flags().IntVarP(&reportLimit, "limit", "l", 50, "Number of most recent reports to show, 0 shows all")
	reportCmd.Flags().StringVarP(&reportExportPath, "export", "e", "", "Write the reports to this file as JSON instead of printing them")
	rootCmd.AddCommand(reportCmd)
}

func renderReport(w io.Writer, reports []controller.Status, color bool) error {
	if len(reports) == 0 {
		_, err := fmt.Fprintln(w, "No status reports yet...")
		return err
	}

	var rows [][]string
	charge := make([]float64, 0, len(reports))
	rpm := make([]float64, 0, len(reports))
	for _, report := range reports {
		rows = append(rows, []string{
			report.Timestamp.Format(reportTimeFormat),
			report.State.String(),
			report.Alert.String(),
			report.FanSpeed.String(),
			strconv.Itoa(report.Rpm),
			report.LEDString(),
			strconv.FormatInt(report.MilliVolts, 10),
			strconv.FormatInt(report.MilliAmps, 10),
			fmt.Sprintf("%d%%", report.PercentFull),
		})
		charge = append(charge, float64(report.PercentFull))
		rpm = append(rpm, float64(report.Rpm))
	}

	tab := table.Table{
		Headers: []string{"Time", "State", "Alert", "Fan", "RPM", "LEDs", "mV", "mA", "Charge"},
		Rows:    rows,
	}
	err := tab.WriteTable(w, &table.Config{
		ShowIndex:       false,
		Color:           color,
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

	// a graph needs at least two points
	if len(reports) < 2 {
		return nil
	}

	_, err = fmt.Fprintf(w, "\n%s\n\n%s\n",
		asciigraph.Plot(charge, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("Charge % / report")),
		asciigraph.Plot(rpm, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("RPM / report")),
	)
	return err
}
