package gps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGPSDataValidLine(t *testing.T) {
	pos, err := parseGPSData("37.7749,-122.4194,500.0")
	require.NoError(t, err)
	assert.Equal(t, 37.7749, pos.Latitude)
	assert.Equal(t, -122.4194, pos.Longitude)
	assert.Equal(t, 500.0, pos.Altitude)
}

func TestParseGPSDataTrimsWhitespace(t *testing.T) {
	pos, err := parseGPSData(" 1.0 , 2.0 , 3.0 \n")
	require.NoError(t, err)
	assert.Equal(t, 1.0, pos.Latitude)
	assert.Equal(t, 2.0, pos.Longitude)
	assert.Equal(t, 3.0, pos.Altitude)
}

func TestParseGPSDataWrongFieldCount(t *testing.T) {
	_, err := parseGPSData("1.0,2.0")
	assert.Error(t, err)
}

func TestParseGPSDataNonNumeric(t *testing.T) {
	_, err := parseGPSData("a,b,c")
	assert.Error(t, err)
}
