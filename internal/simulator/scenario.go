package simulator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/ui"
)

var buttonPins = map[string]hardware.Pin{
	configuration.ButtonPowerOn:  hardware.PowerOnPin,
	configuration.ButtonPowerOff: hardware.PowerOffPin,
	configuration.ButtonFanUp:    hardware.FanUpPin,
	configuration.ButtonFanDown:  hardware.FanDownPin,
}

// ParseButton returns the pin of the button with the given name.
func ParseButton(name string) (hardware.Pin, error) {
	pin, ok := buttonPins[name]
	if !ok {
		return 0, fmt.Errorf("unknown button: %s", name)
	}
	return pin, nil
}

var resetCauses = map[string]hardware.ResetCause{
	configuration.ResetCausePowerOn:  hardware.ResetPowerOn,
	configuration.ResetCauseWatchdog: hardware.ResetWatchdog,
	configuration.ResetCauseManual:   hardware.ResetManual,
	configuration.ResetCauseBrownOut: hardware.ResetBrownOut,
}

func ParseResetCause(name string) (hardware.ResetCause, error) {
	cause, ok := resetCauses[name]
	if !ok {
		return hardware.ResetPowerOn, fmt.Errorf("unknown reset cause: %s", name)
	}
	return cause, nil
}

type release struct {
	at  time.Duration
	pin hardware.Pin
}

// scenario applies the configured events to the board as virtual time passes.
type scenario struct {
	events   []configuration.ScenarioEvent
	next     int
	releases []release
}

func newScenario(events []configuration.ScenarioEvent) *scenario {
	sorted := make([]configuration.ScenarioEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].At < sorted[j].At
	})
	return &scenario{events: sorted}
}

// nextAt returns the time of the next pending event or button release.
func (s *scenario) nextAt() time.Duration {
	next := time.Duration(math.MaxInt64)
	if s.next < len(s.events) {
		next = s.events[s.next].At
	}
	for _, r := range s.releases {
		next = min(next, r.at)
	}
	return next
}

func (s *scenario) apply(b *Board) {
	for s.next < len(s.events) && s.events[s.next].At <= b.now {
		event := s.events[s.next]
		s.next++
		s.applyEvent(b, event)
	}

	remaining := s.releases[:0]
	for _, r := range s.releases {
		if r.at <= b.now {
			b.setPinLevel(r.pin, hardware.ButtonReleased)
		} else {
			remaining = append(remaining, r)
		}
	}
	s.releases = remaining
}

func (s *scenario) applyEvent(b *Board, event configuration.ScenarioEvent) {
	ui.Debug("Scenario at %s: %s %s %v", event.At, event.Action, event.Button, event.Value)

	switch event.Action {
	case configuration.ScenarioActionPress:
		pin, err := ParseButton(event.Button)
		if err != nil {
			ui.Warning("Ignoring scenario event: %v", err)
			return
		}
		b.setPinLevel(pin, hardware.ButtonPushed)
		s.releases = append(s.releases, release{at: event.At + event.Duration, pin: pin})
	case configuration.ScenarioActionCharger:
		b.battery.chargerAttached = event.Value != 0
	case configuration.ScenarioActionFanFault:
		b.fan.faultFactor = event.Value
	case configuration.ScenarioActionCharge:
		b.battery.setPercent(event.Value)
	default:
		ui.Warning("Ignoring unknown scenario action: %s", event.Action)
	}
}
