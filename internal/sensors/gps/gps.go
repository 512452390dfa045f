// Package gps implements the GPS component: a thin consumer of a
// line-oriented feed carrying "lat,lon,alt" triples, publishing each as a
// POSITION_UPDATE. Grounded on
// original_source/src/components/gps_receiver.c's parse_gps_data, which
// scans the identical "%lf,%lf,%lf" format.
package gps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/blacksheeep/airplane-sim/internal/bus"
	"github.com/blacksheeep/airplane-sim/internal/messages"
	"github.com/blacksheeep/airplane-sim/internal/sensors"
)

// GPS consumes a TCP feed of "lat,lon,alt" lines and republishes each as a
// POSITION_UPDATE from ComponentGPS.
type GPS struct {
	feed *sensors.Feed
}

// New constructs a GPS component dialing addr over client.
func New(addr string, client *bus.Client, logger zerolog.Logger) *GPS {
	g := &GPS{}
	g.feed = &sensors.Feed{
		Addr:   addr,
		Self:   messages.ComponentGPS,
		Client: client,
		Logger: logger.With().Str("component", "gps").Logger(),
		Handle: func(line string) { g.handleLine(client, line) },
	}
	return g
}

// Run blocks until ctx is cancelled.
func (g *GPS) Run(ctx context.Context) error {
	return g.feed.Run(ctx)
}

func (g *GPS) handleLine(client *bus.Client, line string) {
	pos, err := parseGPSData(line)
	if err != nil {
		g.feed.Logger.Warn().Err(err).Str("line", line).Msg("failed to parse gps data")
		return
	}

	msg := messages.NewPositionUpdate(messages.ComponentGPS, messages.ComponentFlightController, pos)
	if err := client.Publish(msg); err != nil {
		g.feed.Logger.Warn().Err(err).Msg("failed to publish position update")
	}
}

// parseGPSData parses a "lat,lon,alt" line, mirroring
// parse_gps_data's sscanf(line, "%lf,%lf,%lf", ...) format exactly.
func parseGPSData(line string) (messages.Position, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 3 {
		return messages.Position{}, fmt.Errorf("gps: expected 3 comma-separated fields, got %d", len(fields))
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return messages.Position{}, fmt.Errorf("gps: parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return messages.Position{}, fmt.Errorf("gps: parse longitude: %w", err)
	}
	alt, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return messages.Position{}, fmt.Errorf("gps: parse altitude: %w", err)
	}

	return messages.Position{Latitude: lat, Longitude: lon, Altitude: alt}, nil
}
