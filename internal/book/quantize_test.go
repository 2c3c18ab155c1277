package book

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleFactor(t *testing.T) {
	for decimals := 0; decimals <= MaxDecimals; decimals++ {
		factor, err := scaleFactor(decimals)
		assert.NoError(t, err)
		assert.Equal(t, math.Pow(10, float64(decimals)), factor)
	}

	_, err := scaleFactor(MaxDecimals + 1)
	assert.ErrorIs(t, err, ErrTooManyDecimals)
}

func TestQuantize_Truncates(t *testing.T) {
	// Truncation, not rounding: .9 of a tick still floors.
	assert.Equal(t, int64(10), quantize(1.09, 10))
	assert.Equal(t, int64(123), quantize(1.239, 100))
	assert.Equal(t, int64(0), quantize(0.009, 100))
}

func TestQuantize_Deterministic(t *testing.T) {
	for i := 0; i < 1000; i++ {
		assert.Equal(t, quantize(100.005, 100), quantize(100.005, 100))
	}
}

func TestQuantize_NonFinite(t *testing.T) {
	// Non-finite inputs quantize to zero so they fall under the
	// non-positive deletion rule rather than resting as depth.
	assert.Equal(t, int64(0), quantize(math.NaN(), 100))
	assert.Equal(t, int64(0), quantize(math.Inf(1), 100))
	assert.Equal(t, int64(0), quantize(math.Inf(-1), 100))
}

func TestQuantize_ClampsFiniteOverflow(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), quantize(1e30, 100))
	assert.Equal(t, int64(math.MinInt64), quantize(-1e30, 100))
}
