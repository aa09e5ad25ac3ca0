package simulator

import (
	"time"

	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/util"
)

const (
	picoCoulombsPerCoulomb = 1_000_000_000_000
	// resolution of the inverted voltage curve, in 1/100 percent
	curveResolution = 100
	// internal resistance of the battery pack (100 mΩ)
	microVoltsPerMilliAmp = 100
)

// batteryModel is a battery pack with a CC/CV charger that can be attached.
// While the charger is attached it also supplies the load of the system.
type batteryModel struct {
	capacityPicoCoulombs int64
	picoCoulombs         int64

	// state of charge in 1/100 percent -> open circuit millivolts
	voltageCurve map[int]float64

	chargerAttached   bool
	chargerMilliVolts int64
	chargeMilliAmps   int64
	taperPercent      float64
}

func newBatteryModel(battery configuration.BatteryConfig, sim configuration.SimulationConfig) *batteryModel {
	m := &batteryModel{
		capacityPicoCoulombs: int64(battery.CapacityCoulombs * picoCoulombsPerCoulomb),
		voltageCurve:         util.InvertCurve(battery.VoltageCurve, curveResolution),
		chargerMilliVolts:    sim.ChargerMilliVolts,
		chargeMilliAmps:      sim.ChargeMilliAmps,
		taperPercent:         sim.TaperPercent,
	}
	m.setPercent(sim.InitialChargePercent)
	return m
}

func (m *batteryModel) setPercent(percent float64) {
	percent = util.Clamp(percent, 0, 100)
	m.picoCoulombs = int64(float64(m.capacityPicoCoulombs) * percent / 100)
}

func (m *batteryModel) percent() float64 {
	return float64(m.picoCoulombs) * 100 / float64(m.capacityPicoCoulombs)
}

// chargerMicroAmps is the current the charger pushes into the battery:
// constant current up to the taper point, then falling linearly to zero.
func (m *batteryModel) chargerMicroAmps() int64 {
	if !m.chargerAttached {
		return 0
	}
	percent := m.percent()
	microAmps := float64(m.chargeMilliAmps * 1000)
	if percent > m.taperPercent && m.taperPercent < 100 {
		microAmps *= (100 - percent) / (100 - m.taperPercent)
	}
	return int64(max(microAmps, 0))
}

// microAmps returns the current flowing into the battery, given the load
// of the system.
func (m *batteryModel) microAmps(loadMicroAmps int64) int64 {
	if m.chargerAttached {
		return m.chargerMicroAmps()
	}
	return -loadMicroAmps
}

func (m *batteryModel) integrate(microAmps int64, d time.Duration) {
	m.picoCoulombs = util.Clamp(m.picoCoulombs+microAmps*d.Microseconds(), 0, m.capacityPicoCoulombs)
}

func (m *batteryModel) openCircuitMicroVolts() int64 {
	if len(m.voltageCurve) == 0 {
		return 0
	}
	milliVolts := util.CalculateInterpolatedCurveValue(m.voltageCurve, util.InterpolationTypeLinear, m.percent()*curveResolution)
	return int64(milliVolts * 1000)
}

// terminalMicroVolts is the voltage at the battery terminals, which rises
// above the open circuit voltage while charging and sags under load.
func (m *batteryModel) terminalMicroVolts(microAmps int64) int64 {
	return m.openCircuitMicroVolts() + microAmps/1000*microVoltsPerMilliAmp
}
