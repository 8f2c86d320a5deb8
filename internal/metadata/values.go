package metadata

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind names the JSON type a cell value is saved as.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
	KindBool   ValueKind = "bool"
	KindNull   ValueKind = "null"
)

// ValueKinds lists the kinds accepted by ParseValueAs.
func ValueKinds() []ValueKind {
	return []ValueKind{KindString, KindNumber, KindBool, KindNull}
}

// KindOf reports the kind of a decoded cell value. Anything that is not a
// number, boolean or null is treated as a string.
func KindOf(v any) ValueKind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64, int, int64:
		return KindNumber
	default:
		return KindString
	}
}

// ParseValueAs converts input into a value of the given kind. Strings are
// kept byte for byte. Numbers must be finite.
func ParseValueAs(input string, kind ValueKind) (any, error) {
	switch kind {
	case KindString:
		return input, nil
	case KindNull:
		return nil, nil
	case KindNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%q is not a finite number", input)
		}
		return f, nil
	case KindBool:
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(input)))
		if err != nil {
			return nil, fmt.Errorf("%q is not true or false", input)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown value type %q", kind)
	}
}

// EditValue converts edited text for a cell currently holding current.
// Number and boolean cells keep their type when the text still parses as
// one, and become null when cleared. Every other cell saves the text exactly
// as entered; an empty edit of a null cell stays null.
func EditValue(input string, current any) any {
	kind := KindOf(current)
	switch kind {
	case KindNumber, KindBool:
		if strings.TrimSpace(input) == "" {
			return nil
		}
		if v, err := ParseValueAs(input, kind); err == nil {
			return v
		}
		return input
	case KindNull:
		if input == "" {
			return nil
		}
		return input
	default:
		return input
	}
}

// IsFinite reports whether v can be encoded as JSON. Only float values can
// fail.
func IsFinite(v any) bool {
	switch f := v.(type) {
	case float64:
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	case float32:
		return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
	default:
		return true
	}
}

// FormatValue renders a cell value for display.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}
