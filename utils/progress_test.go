package utils

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEstimateRemaining(t *testing.T) {
	assert.Equal(t, 0.0, estimateRemaining(10*time.Second, 100, 100))
	assert.Equal(t, 0.0, estimateRemaining(10*time.Second, 120, 100))
	assert.Equal(t, 30.0, estimateRemaining(10*time.Second, 25, 100))
	assert.Equal(t, 0.0, estimateRemaining(-time.Second, 25, 100))
}

func TestEstimateRemainingBeforeFirstRecord(t *testing.T) {
	eta := estimateRemaining(2*time.Second, 0, 50)
	assert.False(t, math.IsInf(eta, 0))
	assert.False(t, math.IsNaN(eta))
	assert.Equal(t, 100.0, eta)
}

func TestEstimateSecondsRemainingIsFinite(t *testing.T) {
	eta := EstimateSecondsRemaining(time.Now().Add(-time.Minute), 0, 10)
	assert.False(t, math.IsInf(eta, 0))
	assert.Greater(t, eta, 0.0)
}

func TestFormatProgressBar(t *testing.T) {
	opts := BarOptions{Prefix: "Progress: ", Suffix: "Estimation: 10:15", Decimals: 1, Length: 10}

	line := FormatProgressBar(25, 100, opts)
	assert.Equal(t, "\rProgress:  |██--------| 25.0% Estimation: 10:15\r", line)
	assert.False(t, strings.HasSuffix(line, "\n"))
}

func TestFormatProgressBarCompletesWithNewline(t *testing.T) {
	opts := BarOptions{Decimals: 2, Length: 4, Fill: "#"}

	line := FormatProgressBar(8, 8, opts)
	assert.Equal(t, "\r |####| 100.00% \r\n", line)
}

func TestFormatProgressBarClampsOverflow(t *testing.T) {
	opts := BarOptions{Length: 5}

	line := FormatProgressBar(12, 10, opts)
	assert.Contains(t, line, "|█████|")
	assert.Contains(t, line, "120%")
}
