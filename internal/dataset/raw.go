package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Raw is one dataset record before normalization. Decoding is permissive:
// a field with an unexpected shape becomes its zero value instead of failing
// the whole load.
type Raw struct {
	CCA3       string
	Code       string
	Name       string
	Capital    string
	Region     string
	Population int64
	Flag       string
}

// UnmarshalJSON accepts the restcountries shape ({"name":{"common":..}},
// capital as an array) as well as flat records ({"name":..,"code":..}).
func (r *Raw) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// Not an object: keep the zero record, normalization drops it.
		*r = Raw{}
		return nil
	}

	*r = Raw{
		CCA3:       looseString(fields["cca3"]),
		Code:       looseString(fields["code"]),
		Name:       looseName(fields["name"]),
		Capital:    looseString(fields["capital"]),
		Region:     looseString(fields["region"]),
		Population: looseInt(fields["population"]),
		Flag:       looseString(fields["flag"]),
	}
	return nil
}

func decodeAny(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// looseName reads a plain string or an object carrying a "common" field
func looseName(raw json.RawMessage) string {
	switch v := decodeAny(raw).(type) {
	case map[string]any:
		if common, ok := v["common"].(string); ok {
			return common
		}
		return ""
	default:
		return stringOf(v)
	}
}

// looseString reads a string, a number, or the first element of an array
func looseString(raw json.RawMessage) string {
	v := decodeAny(raw)
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return ""
		}
		v = arr[0]
	}
	return stringOf(v)
}

func stringOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// looseInt reads a non-negative integer from a number or numeric string
func looseInt(raw json.RawMessage) int64 {
	var f float64
	switch v := decodeAny(raw).(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}
