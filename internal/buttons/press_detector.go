package buttons

import (
	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/timer"
)

// PinReader is the subset of the board used by a PressDetector.
type PinReader interface {
	timer.Clock
	DigitalRead(pin hardware.Pin) int
}

// PressDetector invokes its callback once the button has been pushed
// continuously for the required time. Holding the button longer does not
// invoke the callback again; it has to be released first.
type PressDetector struct {
	board          PinReader
	pin            hardware.Pin
	requiredMillis uint32
	callback       timer.Callable

	pushed     bool
	pushMillis uint32
	invoked    bool
}

func NewPressDetector(board PinReader, pin hardware.Pin, requiredMillis uint32, callback timer.Callable) *PressDetector {
	return &PressDetector{
		board:          board,
		pin:            pin,
		requiredMillis: requiredMillis,
		callback:       callback,
	}
}

func (d *PressDetector) Update() {
	now := d.board.Millis()
	if d.board.DigitalRead(d.pin) != hardware.ButtonPushed {
		d.pushed = false
		return
	}

	if !d.pushed {
		d.pushed = true
		d.invoked = false
		d.pushMillis = now
	}

	if !d.invoked && now-d.pushMillis >= d.requiredMillis {
		d.invoked = true
		d.callback.Invoke()
	}
}

// State returns whether the button was pushed during the last Update.
func (d *PressDetector) State() bool {
	return d.pushed
}
