package internal

import (
	"context"
	"testing"
	"time"

	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/controller"
	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/simulator"
	"github.com/markusressel/papr2go/internal/testingutils"
	"github.com/stretchr/testify/assert"
)

type firmwareRecorder struct {
	config      configuration.Configuration
	controllers int
	reports     []controller.Status
}

func (r *firmwareRecorder) newController(hw hardware.Hardware) controller.Controller {
	r.controllers++
	return controller.NewController(hw, r.config, func(status controller.Status) {
		r.reports = append(r.reports, status)
	})
}

func (r *firmwareRecorder) lastReport() controller.Status {
	return r.reports[len(r.reports)-1]
}

func TestRunFirmware_StaysOffWithoutInput(t *testing.T) {
	// GIVEN
	config := testingutils.CreateConfig()
	config.Simulation.Duration = 10 * time.Second
	board := simulator.NewBoard(config)
	r := &firmwareRecorder{config: config}

	// WHEN
	err := RunFirmware(context.Background(), board, r.newController)

	// THEN
	assert.NoError(t, err)
	assert.True(t, board.Done())
	assert.Equal(t, 1, r.controllers)
	assert.Equal(t, controller.StateOff, r.lastReport().State)
}

func TestRunFirmware_PowerOnPress_TurnsOn(t *testing.T) {
	// GIVEN
	config := testingutils.CreateConfig()
	config.Simulation.Duration = 12 * time.Second
	config.Simulation.Scenario = []configuration.ScenarioEvent{
		{At: 1 * time.Second, Action: configuration.ScenarioActionPress, Button: configuration.ButtonPowerOn, Duration: 2 * time.Second},
	}
	board := simulator.NewBoard(config)
	r := &firmwareRecorder{config: config}

	// WHEN
	err := RunFirmware(context.Background(), board, r.newController)

	// THEN
	assert.NoError(t, err)
	status := r.lastReport()
	assert.Equal(t, controller.StateOn, status.State)
	// the fan has been running long enough to be checked
	assert.Equal(t, controller.AlertNone, status.Alert)
	assert.InDelta(t, 7479, board.State().Rpm, 100)
}

func TestRunFirmware_FanFault_RaisesAlert(t *testing.T) {
	// GIVEN
	config := testingutils.CreateConfig()
	config.Simulation.Duration = 20 * time.Second
	config.Simulation.Scenario = []configuration.ScenarioEvent{
		{At: 1 * time.Second, Action: configuration.ScenarioActionPress, Button: configuration.ButtonPowerOn, Duration: 2 * time.Second},
		{At: 10 * time.Second, Action: configuration.ScenarioActionFanFault, Value: 0.5},
	}
	board := simulator.NewBoard(config)
	r := &firmwareRecorder{config: config}

	// WHEN
	err := RunFirmware(context.Background(), board, r.newController)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, controller.AlertFanRPM, r.lastReport().Alert)
}

func TestRunFirmware_ResetCombination_RestartsOn(t *testing.T) {
	// GIVEN
	config := testingutils.CreateConfig()
	config.Simulation.Duration = 10 * time.Second
	config.Simulation.Scenario = []configuration.ScenarioEvent{
		{At: 1 * time.Second, Action: configuration.ScenarioActionPress, Button: configuration.ButtonPowerOn, Duration: 2 * time.Second},
		{At: 5 * time.Second, Action: configuration.ScenarioActionPress, Button: configuration.ButtonFanUp, Duration: 500 * time.Millisecond},
		{At: 5 * time.Second, Action: configuration.ScenarioActionPress, Button: configuration.ButtonFanDown, Duration: 500 * time.Millisecond},
		{At: 5200 * time.Millisecond, Action: configuration.ScenarioActionPress, Button: configuration.ButtonPowerOn, Duration: 200 * time.Millisecond},
	}
	board := simulator.NewBoard(config)
	r := &firmwareRecorder{config: config}

	// WHEN
	err := RunFirmware(context.Background(), board, r.newController)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 2, r.controllers)
	assert.Equal(t, controller.StateOn, r.lastReport().State)
}

func TestRunFirmware_ContextCanceled_Stops(t *testing.T) {
	// GIVEN
	config := testingutils.CreateConfig()
	board := simulator.NewBoard(config)
	r := &firmwareRecorder{config: config}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// WHEN
	err := RunFirmware(ctx, board, r.newController)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 1, r.controllers)
}
