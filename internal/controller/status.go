package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/markusressel/papr2go/internal/battery"
	"github.com/markusressel/papr2go/internal/fans"
	"github.com/markusressel/papr2go/internal/hardware"
	"github.com/markusressel/papr2go/internal/ui"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	// StatusMap holds the latest status of every device, by device id.
	StatusMap = cmap.New[Status]()
)

// indicator letters of the LEDs, in the order of hardware.LEDPins
var ledNames = []string{"red", "yellow", "green", "amber", "blue", "blue", "blue"}

const statusLineFormat = "Fan,%s,Buzzer,%s,Alert,%s,Charging,%s,LEDs,%s,%s,%s,%s,%s,%s,%s,milliVolts,%d,milliAmps,%d,Coulombs,%d,charge,%d%%"

// Status is a status report of the firmware.
type Status struct {
	DeviceId string `json:"deviceId"`
	// set by the receiver of the report
	Timestamp time.Time `json:"timestamp"`
	Millis    uint32    `json:"millis"`

	State    PowerState    `json:"state"`
	Alert    Alert         `json:"alert"`
	FanSpeed fans.FanSpeed `json:"fanSpeed"`

	DutyCycle   int     `json:"dutyCycle"`
	Rpm         int     `json:"rpm"`
	ExpectedRpm int     `json:"expectedRpm"`
	RpmAvg      float64 `json:"rpmAvg"`

	Buzzer   bool   `json:"buzzer"`
	Charging bool   `json:"charging"`
	LEDs     []bool `json:"leds"`

	MilliVolts  int64               `json:"milliVolts"`
	MilliAmps   int64               `json:"milliAmps"`
	Coulombs    int64               `json:"coulombs"`
	PercentFull int                 `json:"percentFull"`
	Battery     battery.ChargeState `json:"battery"`

	Statistics Statistics `json:"statistics"`
}

// Line renders the status as a single line of the diagnostic stream.
func (s Status) Line() string {
	leds := make([]any, len(ledNames))
	for idx, name := range ledNames {
		if idx < len(s.LEDs) && s.LEDs[idx] {
			leds[idx] = name
		} else {
			leds[idx] = "---"
		}
	}

	args := []any{s.FanSpeed.ShortName(), onOff(s.Buzzer), s.Alert, yesNo(s.Charging)}
	args = append(args, leds...)
	args = append(args, s.MilliVolts, s.MilliAmps, s.Coulombs, s.PercentFull)
	return fmt.Sprintf(statusLineFormat, args...)
}

// LEDString renders the LEDs in a compact form, e.g. "R-G-L--".
func (s Status) LEDString() string {
	var sb strings.Builder
	for idx, on := range s.LEDs {
		if on {
			sb.WriteString(strings.ToUpper(ledNames[idx][:1]))
		} else {
			sb.WriteString("-")
		}
	}
	return sb.String()
}

func (c *PaprController) Status() Status {
	leds := make([]bool, len(hardware.LEDPins))
	for idx, pin := range hardware.LEDPins {
		leds[idx] = c.leds[pin]
	}

	return Status{
		DeviceId:    c.config.DeviceId,
		Millis:      c.hw.Millis(),
		State:       c.state,
		Alert:       c.currentAlert,
		FanSpeed:    c.currentFanSpeed,
		DutyCycle:   c.fan.GetDutyCycle(),
		Rpm:         c.fan.GetRpm(),
		ExpectedRpm: c.speeds.ExpectedRpm(c.currentFanSpeed),
		RpmAvg:      c.fan.GetRpmAvg(),
		Buzzer:      c.buzzerOn,
		Charging:    c.state == StateOnCharging || c.state == StateOffCharging,
		LEDs:        leds,
		MilliVolts:  c.hw.ReadMicroVolts() / 1000,
		MilliAmps:   c.hw.ReadMicroAmps() / 1000,
		Coulombs:    c.battery.PicoCoulombs() / battery.PicoCoulombsPerCoulomb,
		PercentFull: c.battery.PercentFull(),
		Battery:     c.battery.State(),
		Statistics:  c.statistics,
	}
}

func (c *PaprController) onStatusReport() {
	status := c.Status()
	ui.Serial("%s", status.Line())
	if c.sink != nil {
		c.sink(status)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
