package book

import "math"

// scaleFactor returns 10^decimals as the fixed-point multiplier for one axis.
func scaleFactor(decimals int) (float64, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return 0, ErrTooManyDecimals
	}
	return math.Pow(10, float64(decimals)), nil
}

// quantize converts a decimal value into its fixed-point integer key by
// scaling and truncating toward zero. Truncation (rather than rounding) keeps
// repeated application of identical inputs idempotent. NaN and infinities
// quantize to zero, which the update path treats as a deletion; finite values
// beyond the int64 range clamp so the conversion stays defined.
func quantize(value, factor float64) int64 {
	scaled := value * factor
	switch {
	case math.IsNaN(scaled) || math.IsInf(scaled, 0):
		return 0
	case scaled >= math.MaxInt64:
		return math.MaxInt64
	case scaled <= math.MinInt64:
		return math.MinInt64
	}
	return int64(scaled)
}
