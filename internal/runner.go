package internal

import (
	"context"
	"time"

	"github.com/markusressel/papr2go/internal/controller"
	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/ui"
)

// FirmwareBoard is a board the firmware can be run on from a host machine.
type FirmwareBoard interface {
	hardware.Hardware

	// EndLoop is called after every iteration of the main loop.
	EndLoop()
	// Pace throttles the caller to the speed the board is supposed to run at.
	Pace()
	// Now returns the time the board has been running for.
	Now() time.Duration
	// Done reports whether the board has been running for long enough.
	Done() bool
	// TakeReset returns the cause of a pending reset and clears it.
	TakeReset() (hardware.ResetCause, bool)
}

// ControllerFactory creates the firmware for the given hardware. It is
// called again after every reset, since all state is lost on a reset.
type ControllerFactory func(hw hardware.Hardware) controller.Controller

// RunFirmware runs the firmware on the given board until the context is
// canceled or the board is done.
func RunFirmware(ctx context.Context, board FirmwareBoard, newController ControllerFactory) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// the firmware may sleep forever, stop it once the board is done
	hw := &stoppableBoard{FirmwareBoard: board, stop: cancel}

	firmware := newController(hw)
	firmware.Setup()
	resets := 0

	for {
		if ctx.Err() != nil || board.Done() {
			ui.Info("Firmware stopped after %s (%d resets)", board.Now(), resets)
			return nil
		}

		firmware.Loop(ctx)
		board.EndLoop()
		board.Pace()

		if cause, ok := board.TakeReset(); ok {
			resets++
			ui.Warning("Firmware reset: %s", cause)
			firmware = newController(hw)
			firmware.Setup()
		}
	}
}

type stoppableBoard struct {
	FirmwareBoard
	stop context.CancelFunc
}

func (b *stoppableBoard) Sleep(d time.Duration) {
	b.FirmwareBoard.Sleep(d)
	if b.Done() {
		b.stop()
	}
}
