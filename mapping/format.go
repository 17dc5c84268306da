package mapping

import (
	"math"
	"strconv"
	"strings"
)

// FormatLabel converts a mapping key to its display label: underscores become
// spaces and the result is upper-cased.
//
//	FormatLabel("cpu_usage") // "CPU USAGE"
func FormatLabel(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "_", " "))
}

// FormatNumber renders f in the shortest form that round-trips.
//
// Magnitudes in [1e-6, 1e21) use plain decimal notation, everything else uses
// an exponent without zero padding ("1e+21", "1.5e-7"). Negative zero renders
// as "0".
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}
