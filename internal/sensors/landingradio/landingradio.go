// Package landingradio implements the landing radio (ILS) component: it
// consumes deviation readings from the landing feed and converts them
// into an absolute position relative to SFO runway 28L's threshold.
// Grounded on original_source/src/components/landing_radio.c's
// parse_ils_data ("%lf,%lf,%lf,%d,%d,%d": lateral deviation, vertical
// deviation, distance-to-threshold, then localizer/glideslope validity
// flags and a marker-beacon flag) and ils_deviations_to_position.
package landingradio

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/blacksheeep/airplane-sim/internal/bus"
	"github.com/blacksheeep/airplane-sim/internal/messages"
	"github.com/blacksheeep/airplane-sim/internal/sensors"
)

// SFO runway 28L threshold constants, matching landing_radio.c's
// hardcoded reference point.
const (
	ThresholdLatitude  = 37.6188
	ThresholdLongitude = -122.3754
	ThresholdAltitude  = 13.0 // feet
	RunwayHeading      = 283.0
)

type ilsReading struct {
	lateralDeviation  float64
	verticalDeviation float64
	distance          float64
	localizerValid    bool
	glideslopeValid   bool
	signalValid       bool // sixth field, the marker-beacon flag; valid() ignores it
}

func (r ilsReading) valid() bool {
	return r.localizerValid && r.glideslopeValid
}

// LandingRadio consumes ILS deviation lines and republishes derived
// positions as POSITION_UPDATE from ComponentLandingRadio.
type LandingRadio struct {
	feed      *sensors.Feed
	threshold messages.Position
}

// New constructs a LandingRadio component dialing addr over client.
func New(addr string, client *bus.Client, logger zerolog.Logger) *LandingRadio {
	l := &LandingRadio{threshold: messages.Position{
		Latitude:  ThresholdLatitude,
		Longitude: ThresholdLongitude,
		Altitude:  ThresholdAltitude,
	}}
	l.feed = &sensors.Feed{
		Addr:   addr,
		Self:   messages.ComponentLandingRadio,
		Client: client,
		Logger: logger.With().Str("component", "landing-radio").Logger(),
		Handle: func(line string) { l.handleLine(client, line) },
	}
	return l
}

// Run blocks until ctx is cancelled.
func (l *LandingRadio) Run(ctx context.Context) error {
	return l.feed.Run(ctx)
}

func (l *LandingRadio) handleLine(client *bus.Client, line string) {
	reading, err := parseILSData(line)
	if err != nil {
		l.feed.Logger.Warn().Err(err).Str("line", line).Msg("failed to parse ils data")
		return
	}

	var pos messages.Position
	if reading.valid() {
		pos = ilsDeviationsToPosition(reading)
	} else {
		// An invalid reading still publishes the runway threshold position
		// unchanged rather than suppressing the update — a quirk of the
		// original preserved deliberately.
		pos = l.threshold
	}

	msg := messages.NewPositionUpdate(messages.ComponentLandingRadio, messages.ComponentFlightController, pos)
	if err := client.Publish(msg); err != nil {
		l.feed.Logger.Warn().Err(err).Msg("failed to publish position update")
	}
}

// parseILSData parses a "lateral,vertical,distance,locValid,gsValid,marker"
// line, mirroring parse_ils_data's sscanf format exactly.
func parseILSData(line string) (ilsReading, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 6 {
		return ilsReading{}, fmt.Errorf("landingradio: expected 6 comma-separated fields, got %d", len(fields))
	}

	lateral, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return ilsReading{}, fmt.Errorf("landingradio: parse lateral deviation: %w", err)
	}
	vertical, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return ilsReading{}, fmt.Errorf("landingradio: parse vertical deviation: %w", err)
	}
	distance, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return ilsReading{}, fmt.Errorf("landingradio: parse distance: %w", err)
	}
	locValid, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return ilsReading{}, fmt.Errorf("landingradio: parse localizer valid flag: %w", err)
	}
	gsValid, err := strconv.Atoi(strings.TrimSpace(fields[4]))
	if err != nil {
		return ilsReading{}, fmt.Errorf("landingradio: parse glideslope valid flag: %w", err)
	}
	sigValid, err := strconv.Atoi(strings.TrimSpace(fields[5]))
	if err != nil {
		return ilsReading{}, fmt.Errorf("landingradio: parse marker flag: %w", err)
	}

	return ilsReading{
		lateralDeviation:  lateral,
		verticalDeviation: vertical,
		distance:          distance,
		localizerValid:    locValid != 0,
		glideslopeValid:   gsValid != 0,
		signalValid:       sigValid != 0,
	}, nil
}

// ilsDeviationsToPosition converts a valid ILS reading into an absolute
// position by walking back along the runway centerline from the
// threshold by distance, then offsetting laterally/vertically by the
// deviation readings — a flat-earth local approximation, matching the
// original's simplified (non-geodesic) ils_deviations_to_position.
func ilsDeviationsToPosition(r ilsReading) messages.Position {
	const feetPerDegreeLat = 364000.0
	const feetPerDegreeLon = 288200.0 // approx at SFO's latitude

	headingRad := RunwayHeading * (math.Pi / 180.0)
	dLat := (r.distance * math.Cos(headingRad)) / feetPerDegreeLat
	dLon := (r.distance * math.Sin(headingRad)) / feetPerDegreeLon

	lateralLat := (r.lateralDeviation * math.Sin(headingRad)) / feetPerDegreeLat
	lateralLon := (r.lateralDeviation * math.Cos(headingRad)) / feetPerDegreeLon

	return messages.Position{
		Latitude:  ThresholdLatitude + dLat + lateralLat,
		Longitude: ThresholdLongitude + dLon + lateralLon,
		Altitude:  ThresholdAltitude + r.verticalDeviation,
	}
}
