// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/builduction/pkg/constants"
)

// fixedNotationLimit is the magnitude from which decimal fixed-point output
// falls back to the plain value.
const fixedNotationLimit = 1e21

// ToFixed rounds val to the given number of decimal places by formatting the
// exact binary value in fixed-point notation and parsing it back. Exact ties
// are resolved away from zero. Values of magnitude 1e21 or more, and
// non-finite values, are returned unchanged.
func ToFixed(val float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	abs := math.Abs(val)
	if abs >= fixedNotationLimit {
		return val
	}

	var rounded float64
	if isDecimalTie(abs, decimals) {
		rounded = roundTieUp(abs, decimals)
	} else {
		rounded, _ = strconv.ParseFloat(strconv.FormatFloat(abs, 'f', decimals, 64), 64)
	}

	if val < 0 {
		return -rounded
	}
	return rounded
}

// isDecimalTie reports whether abs lies exactly halfway between two
// neighbouring values with the given number of decimals. That only happens
// for dyadic values with exactly decimals+1 fractional binary digits.
func isDecimalTie(abs float64, decimals int) bool {
	scaled := math.Ldexp(abs, decimals+1)
	if math.IsInf(scaled, 0) || scaled != math.Trunc(scaled) {
		return false
	}
	return math.Mod(scaled, 2) == 1
}

// roundTieUp rounds a non-negative tie to the upper neighbour. The tie has
// exactly decimals+1 fractional digits ending in 5, so the text form is exact.
func roundTieUp(abs float64, decimals int) float64 {
	text := strconv.FormatFloat(abs, 'f', decimals+1, 64)
	digits := []byte(text[:len(text)-1])

	i := len(digits) - 1
	for ; i >= 0; i-- {
		if digits[i] == '.' {
			continue
		}
		if digits[i] == '9' {
			digits[i] = '0'
			continue
		}
		digits[i]++
		break
	}
	if i < 0 {
		digits = append([]byte{'1'}, digits...)
	}

	rounded, _ := strconv.ParseFloat(strings.TrimSuffix(string(digits), "."), 64)
	return rounded
}

// Truncate drops the fractional part of val, rounding toward zero.
func Truncate(val float64) float64 {
	return math.Trunc(val)
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * percentage / constants.PercentageMultiplier
}
