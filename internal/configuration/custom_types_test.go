package configuration

import (
	"reflect"
	"testing"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
)

func TestVoltageCurveHookFunc(t *testing.T) {
	type TestConfig struct {
		Curve VoltageCurve  `mapstructure:"curve"`
		Delay time.Duration `mapstructure:"delay"`
	}

	tests := []struct {
		name     string
		inputMap map[string]interface{}
		expected VoltageCurve
	}{
		{
			name: "String keys from yaml",
			inputMap: map[string]interface{}{
				"curve": map[string]interface{}{"20000": 0, "24000": 100.0},
				"delay": "10ms",
			},
			expected: VoltageCurve{20000: 0, 24000: 100},
		},
		{
			name: "Interface keys",
			inputMap: map[string]interface{}{
				"curve": map[interface{}]interface{}{20000: "0", 22000: 50},
				"delay": "10ms",
			},
			expected: VoltageCurve{20000: 0, 22000: 50},
		},
		{
			name: "Typed defaults",
			inputMap: map[string]interface{}{
				"curve": map[int]float64{21000: 10},
				"delay": "10ms",
			},
			expected: VoltageCurve{21000: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg TestConfig

			decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				DecodeHook: mapstructure.ComposeDecodeHookFunc(
					voltageCurveHookFunc(),
					mapstructure.StringToTimeDurationHookFunc(),
				),
				Result: &cfg,
			})
			assert.NoError(t, err)

			err = decoder.Decode(tt.inputMap)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Curve)
			assert.Equal(t, 10*time.Millisecond, cfg.Delay)
		})
	}
}

func TestVoltageCurveHookFunc_InvalidKey(t *testing.T) {
	// GIVEN
	hook := voltageCurveHookFunc()
	data := map[string]interface{}{"abc": 1}

	// WHEN
	_, err := hook(reflect.TypeOf(data), reflect.TypeOf(VoltageCurve{}), data)

	// THEN
	assert.Error(t, err)
}

func TestVoltageCurveHookFunc_SkipsUnrelatedTypes(t *testing.T) {
	// GIVEN
	hook := voltageCurveHookFunc()
	data := "some string"

	// WHEN
	res, err := hook(reflect.TypeOf("string"), reflect.TypeOf(123), data)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, data, res)
}
