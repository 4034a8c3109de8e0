package arcwelder

import (
	"math"
	"strconv"
)

// zeroTolerance is the default epsilon for raw floating point comparisons
// that have no configured tolerance of their own.
const zeroTolerance = 0.000005

// Format renders value in the fixed-point form used for gcode fields:
// exactly precision digits after the decimal point, no exponent, no
// trailing-zero trimming. precision 0 yields no decimal point at all. A
// signed negative zero renders as plain zero, keeping the minus-sign count
// in step with the length oracle's value < 0 test.
func Format(value float64, precision int) string {
	if value == 0 {
		value = 0
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

// DigitCount returns the number of digits Format would produce for value at
// the given precision, excluding any sign and the decimal point, without
// building the string. The whole part contributes at least one digit (the
// leading zero of values below one), the fraction contributes exactly
// precision digits.
func DigitCount(value float64, precision int) int {
	scale := math.Pow(10, float64(precision))
	whole := math.Floor(math.Round(math.Abs(value)*scale) / scale)
	digits := 1
	for whole >= 10 {
		whole = math.Floor(whole / 10)
		digits++
	}
	return digits + precision
}

// isZero reports whether v is within tolerance of zero.
func isZero(v, tolerance float64) bool {
	return math.Abs(v) < tolerance
}

// isEqual reports whether a and b are within tolerance of each other.
func isEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

// withinPercent reports whether got deviates from want by at most pct
// percent, relative to want.
func withinPercent(got, want, pct float64) bool {
	if want == 0 {
		return false
	}
	return math.Abs((got-want)/want) <= pct/100
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
