package simulator

import (
	"math"
	"time"

	"github.com/markusressel/papr2go/internal/configuration"
	"github.com/markusressel/papr2go/internal/util"
)

const fanTimeConstant = 800 * time.Millisecond

// fanModel is a 4-wire fan whose speed follows the pwm duty cycle with a
// first order lag. Its tachometer emits two pulses per revolution.
type fanModel struct {
	// duty cycle percent -> rpm
	curve map[int]float64

	rpm         float64
	faultFactor float64
	// progress towards the next tachometer pulse, in half revolutions
	halfRevs float64
}

func newFanModel(config configuration.FanConfig) *fanModel {
	curve := map[int]float64{}
	for idx, dutyCycle := range config.DutyCycles {
		if idx < len(config.ExpectedRpm) {
			curve[dutyCycle] = float64(config.ExpectedRpm[idx])
		}
	}
	return &fanModel{
		curve:       curve,
		faultFactor: 1,
	}
}

func (f *fanModel) targetRpm(powered bool, dutyCycle float64) float64 {
	if !powered || len(f.curve) == 0 {
		return 0
	}
	return util.CalculateInterpolatedCurveValue(f.curve, util.InterpolationTypeLinear, dutyCycle) * f.faultFactor
}

// update advances the fan by d and returns the number of tachometer pulses
// emitted in that time.
func (f *fanModel) update(powered bool, dutyCycle float64, d time.Duration) int {
	target := f.targetRpm(powered, dutyCycle)
	f.rpm += (target - f.rpm) * (1 - math.Exp(-float64(d)/float64(fanTimeConstant)))

	f.halfRevs += f.rpm / 60 * 2 * d.Seconds()
	pulses := int(f.halfRevs)
	f.halfRevs -= float64(pulses)
	return pulses
}
