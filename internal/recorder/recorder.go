// Package recorder captures samples of the battery and fan and periodically
// summarizes them as min/avg/max on the diagnostic stream.
package recorder

import (
	"fmt"

	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/timer"
	"github.com/markusressel/papr2go/internal/ui"
	"github.com/markusressel/papr2go/internal/util"
)

type Sample struct {
	DutyCycle    int
	Rpm          int
	MicroVolts   int64
	MicroAmps    int64
	PicoCoulombs int64
	Charging     bool
	Tone         bool
}

// Summary is the min/avg/max of a single channel over one sample period.
type Summary struct {
	Lowest  float64 `json:"lowest"`
	Average float64 `json:"average"`
	Highest float64 `json:"highest"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%.0f|%.0f|%.0f", s.Lowest, s.Average, s.Highest)
}

type Report struct {
	// number of samples the summaries cover, the latest of the period
	Samples    int     `json:"samples"`
	MicroVolts Summary `json:"microVolts"`
	MicroAmps  Summary `json:"microAmps"`
	Rpm        Summary `json:"rpm"`
	// the values of the last sample of the period
	Last Sample `json:"last"`
}

func (r Report) String() string {
	return fmt.Sprintf("Duty %d  uVOLTS %s  uAMPS %s  CHARGE %s  PICOCOUL %d  RPM %s  TONE %s  SAMPLES %d",
		r.Last.DutyCycle, r.MicroVolts, r.MicroAmps, yesNo(r.Last.Charging), r.Last.PicoCoulombs, r.Rpm, onOff(r.Last.Tone), r.Samples)
}

type Recorder struct {
	clock          timer.Clock
	intervalMillis uint32
	windowSize     int
	onReport       func(Report)

	periodStartMillis uint32
	skipReport        bool
	samples           int
	last              Sample

	voltage *util.RollingWindow
	current *util.RollingWindow
	rpm     *util.RollingWindow
}

// NewRecorder creates a recorder that hands a Report to onReport at the end
// of every sample period. When onReport is nil, reports are printed as debug output.
func NewRecorder(clock timer.Clock, config configuration.RecorderConfig, onReport func(Report)) *Recorder {
	if onReport == nil {
		onReport = func(report Report) {
			ui.Debug("%s", report)
		}
	}
	r := &Recorder{
		clock:          clock,
		intervalMillis: uint32(config.Interval.Milliseconds()),
		windowSize:     config.WindowSize,
		onReport:       onReport,
	}
	r.beginSamplePeriod()
	return r
}

func (r *Recorder) beginSamplePeriod() {
	r.periodStartMillis = r.clock.Millis()
	r.skipReport = false
	r.samples = 0
	r.voltage = util.CreateRollingWindow(r.windowSize)
	r.current = util.CreateRollingWindow(r.windowSize)
	r.rpm = util.CreateRollingWindow(r.windowSize)
}

// Reset starts a new sample period and drops the report of the current one.
// Call this on startup, or when waking up from a nap.
func (r *Recorder) Reset() {
	r.beginSamplePeriod()
	r.skipReport = true
}

// Update records a sample, and emits the report when the sample period is over.
func (r *Recorder) Update(sample Sample) {
	if r.clock.Millis()-r.periodStartMillis > r.intervalMillis {
		if !r.skipReport && r.samples > 0 {
			r.onReport(r.report())
		}
		r.beginSamplePeriod()
	}

	r.samples++
	r.last = sample
	r.voltage.Append(float64(sample.MicroVolts))
	r.current.Append(float64(sample.MicroAmps))
	r.rpm.Append(float64(sample.Rpm))
}

func (r *Recorder) report() Report {
	return Report{
		Samples:    util.GetWindowCount(r.voltage),
		MicroVolts: summarize(r.voltage),
		MicroAmps:  summarize(r.current),
		Rpm:        summarize(r.rpm),
		Last:       r.last,
	}
}

func summarize(window *util.RollingWindow) Summary {
	return Summary{
		Lowest:  util.GetWindowMin(window),
		Average: util.GetWindowAvg(window),
		Highest: util.GetWindowMax(window),
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
