package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundDecimal(t *testing.T) {
	assert.Equal(t, 3.14, RoundDecimal(3.14159, 2))
	assert.Equal(t, 0.6667, RoundDecimal(2.0/3.0, 4))
	assert.Equal(t, 1.0, RoundDecimal(0.99999, 3))
}

func TestSafeRatio(t *testing.T) {
	assert.Equal(t, 0.5, SafeRatio(1, 2))
	assert.Equal(t, 0.0, SafeRatio(1, 0))
}

func TestHarmonicMean(t *testing.T) {
	assert.InDelta(t, 2.0/3.0, HarmonicMean(1, 0.5), 1e-9)
	assert.Equal(t, 0.0, HarmonicMean(0, 0))
	assert.Equal(t, 0.0, HarmonicMean(1, 0))
}
