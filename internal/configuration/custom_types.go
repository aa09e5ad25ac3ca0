package configuration

import (
	"fmt"
	"github.com/mitchellh/mapstructure"
	"reflect"
	"strconv"
)

// voltageCurveHookFunc returns a mapstructure decode hook that converts the
// map types produced by the yaml decoder (string or interface{} keys) into a VoltageCurve.
func voltageCurveHookFunc() mapstructure.DecodeHookFuncType {
	curveType := reflect.TypeOf(VoltageCurve{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != curveType {
			return data, nil
		}
		return parseVoltageCurve(data)
	}
}

// parseVoltageCurve converts various map types into a VoltageCurve.
func parseVoltageCurve(data interface{}) (VoltageCurve, error) {
	result := VoltageCurve{}
	switch v := data.(type) {
	case VoltageCurve:
		return v, nil
	case map[int]float64:
		return v, nil
	case map[interface{}]interface{}:
		for k, val := range v {
			key, err := anyToInt(k)
			if err != nil {
				return nil, fmt.Errorf("invalid key %v: %w", k, err)
			}
			value, err := anyToFloat(val)
			if err != nil {
				return nil, fmt.Errorf("invalid value %v: %w", val, err)
			}
			result[key] = value
		}
	case map[string]interface{}:
		for k, val := range v {
			key, err := anyToInt(k)
			if err != nil {
				return nil, fmt.Errorf("invalid key %q: %w", k, err)
			}
			value, err := anyToFloat(val)
			if err != nil {
				return nil, fmt.Errorf("invalid value %v: %w", val, err)
			}
			result[key] = value
		}
	default:
		return nil, fmt.Errorf("unsupported voltage curve type %T", data)
	}
	return result, nil
}

// anyToInt converts numeric and string values to int.
func anyToInt(v interface{}) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as int: %w", val, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}

// anyToFloat converts numeric and string values to float64.
func anyToFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case float64:
		return val, nil
	case string:
		n, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as float: %w", val, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float", v)
	}
}
