package controller

import (
	"fmt"
	"strings"
)

type PowerState int

const (
	StateOff PowerState = iota
	StateOn
	StateOffCharging
	StateOnCharging
)

var powerStateNames = []string{"Off", "On", "Off Charging", "On Charging"}

func (s PowerState) String() string {
	if s < StateOff || s > StateOnCharging {
		return "Unknown"
	}
	return powerStateNames[s]
}

// IsOn reports whether the fan is supposed to be running in this state.
func (s PowerState) IsOn() bool {
	return s == StateOn || s == StateOnCharging
}

// WithCharging returns the charging variant of this state.
func (s PowerState) WithCharging() PowerState {
	switch s {
	case StateOff:
		return StateOffCharging
	case StateOn:
		return StateOnCharging
	}
	return s
}

func (s PowerState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *PowerState) UnmarshalText(text []byte) error {
	for idx, name := range powerStateNames {
		if strings.EqualFold(name, string(text)) {
			*s = PowerState(idx)
			return nil
		}
	}
	return fmt.Errorf("unknown power state: %s", text)
}

type Alert int

const (
	AlertNone Alert = iota
	AlertBatteryLow
	AlertFanRPM
)

var alertNames = []string{"None", "BatteryLow", "FanRPM"}

func (a Alert) String() string {
	if a < AlertNone || a > AlertFanRPM {
		return "Unknown"
	}
	return alertNames[a]
}

func (a Alert) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Alert) UnmarshalText(text []byte) error {
	for idx, name := range alertNames {
		if strings.EqualFold(name, string(text)) {
			*a = Alert(idx)
			return nil
		}
	}
	return fmt.Errorf("unknown alert: %s", text)
}
