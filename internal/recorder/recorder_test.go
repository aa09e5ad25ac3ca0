package recorder

import (
	"testing"
	"time"

	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/stretchr/testify/assert"
)

type mockClock struct {
	millis uint32
}

func (c *mockClock) Millis() uint32 {
	return c.millis
}

func createRecorder(clock *mockClock, reports *[]Report) *Recorder {
	config := configuration.RecorderConfig{
		Enabled:    true,
		Interval:   5 * time.Second,
		WindowSize: 100,
	}
	return NewRecorder(clock, config, func(report Report) {
		*reports = append(*reports, report)
	})
}

func TestRecorder_ReportsMinAvgMax(t *testing.T) {
	// GIVEN
	clock := &mockClock{}
	var reports []Report
	r := createRecorder(clock, &reports)

	// WHEN
	r.Update(Sample{MicroVolts: 24_000_000, MicroAmps: -100_000, Rpm: 7000, DutyCycle: 0})
	clock.millis = 1000
	r.Update(Sample{MicroVolts: 24_200_000, MicroAmps: -300_000, Rpm: 8000, DutyCycle: 0, Charging: true})
	clock.millis = 5001
	r.Update(Sample{MicroVolts: 1, MicroAmps: 1, Rpm: 1})

	// THEN
	assert.Len(t, reports, 1)
	report := reports[0]
	assert.Equal(t, 2, report.Samples)
	assert.Equal(t, Summary{Lowest: 24_000_000, Average: 24_100_000, Highest: 24_200_000}, report.MicroVolts)
	assert.Equal(t, Summary{Lowest: -300_000, Average: -200_000, Highest: -100_000}, report.MicroAmps)
	assert.Equal(t, Summary{Lowest: 7000, Average: 7500, Highest: 8000}, report.Rpm)
	assert.True(t, report.Last.Charging)
	assert.Equal(t, "Duty 0  uVOLTS 24000000|24100000|24200000  uAMPS -300000|-200000|-100000  CHARGE yes  PICOCOUL 0  RPM 7000|7500|8000  TONE off  SAMPLES 2", report.String())
}

func TestRecorder_ResetSkipsReport(t *testing.T) {
	// GIVEN
	clock := &mockClock{}
	var reports []Report
	r := createRecorder(clock, &reports)
	r.Update(Sample{Rpm: 7000})

	// WHEN
	r.Reset()
	clock.millis = 6000
	r.Update(Sample{Rpm: 7000})

	// THEN
	assert.Empty(t, reports)

	// WHEN
	clock.millis = 12000
	r.Update(Sample{Rpm: 7000})

	// THEN
	assert.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].Samples)
}

func TestRecorder_SummarizesLatestSamplesOnly(t *testing.T) {
	// GIVEN
	clock := &mockClock{}
	var reports []Report
	r := NewRecorder(clock, configuration.RecorderConfig{
		Enabled:    true,
		Interval:   5 * time.Second,
		WindowSize: 3,
	}, func(report Report) {
		reports = append(reports, report)
	})

	// WHEN
	for i := 1; i <= 5; i++ {
		clock.millis = uint32(i * 100)
		r.Update(Sample{Rpm: i * 1000})
	}
	clock.millis = 5101
	r.Update(Sample{})

	// THEN
	assert.Len(t, reports, 1)
	assert.Equal(t, 3, reports[0].Samples)
	assert.Equal(t, Summary{Lowest: 3000, Average: 4000, Highest: 5000}, reports[0].Rpm)
}

func TestRecorder_SingleSample_NoEmptySlots(t *testing.T) {
	// GIVEN
	clock := &mockClock{}
	var reports []Report
	r := createRecorder(clock, &reports)

	// WHEN
	r.Update(Sample{MicroVolts: 24_000_000, Rpm: 7479})
	clock.millis = 5001
	r.Update(Sample{})

	// THEN
	assert.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].Samples)
	assert.Equal(t, Summary{Lowest: 24_000_000, Average: 24_000_000, Highest: 24_000_000}, reports[0].MicroVolts)
	assert.Equal(t, Summary{Lowest: 7479, Average: 7479, Highest: 7479}, reports[0].Rpm)
}
