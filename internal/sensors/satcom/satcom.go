// Package satcom implements the satellite communications component: a
// generic connect/log/status-update loop reporting its own link health
// to the flight controller. Grounded on original_source/include/sat_com.h
// (message type enum, waypoint/weather/emergency payload shapes);
// sat_com.c's own internals were only partially read before the
// reference pack was lost (see DESIGN.md), so this component
// deliberately reproduces only the documented frame shapes and the
// generic connection-health loop shared with the other sensor
// components, rather than reconstructing unseen logic.
package satcom

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/blacksheeep/airplane-sim/internal/bus"
	"github.com/blacksheeep/airplane-sim/internal/messages"
	"github.com/blacksheeep/airplane-sim/internal/sensors"
)

// Waypoint mirrors sat_com.h's uplinked waypoint frame.
type Waypoint struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// WeatherAdvisory mirrors sat_com.h's weather uplink frame.
type WeatherAdvisory struct {
	Region   string
	Severity int
}

// EmergencyMessage mirrors sat_com.h's emergency downlink frame.
type EmergencyMessage struct {
	Code string
	Text string
}

// SatCom reports link connectivity to the flight controller. It does not
// currently parse a feed payload into the frame shapes above — that
// would require sat_com.c's unread framing logic — but the types are
// kept here as the documented contract a fuller implementation would
// fill in.
type SatCom struct {
	feed *sensors.Feed
}

// New constructs a SatCom component dialing addr over client.
func New(addr string, client *bus.Client, logger zerolog.Logger) *SatCom {
	s := &SatCom{}
	s.feed = &sensors.Feed{
		Addr:   addr,
		Self:   messages.ComponentSatCom,
		Client: client,
		Logger: logger.With().Str("component", "sat-com").Logger(),
		Handle: func(line string) {
			s.feed.Logger.Debug().Str("line", line).Msg("satcom frame received")
		},
	}
	return s
}

// Run blocks until ctx is cancelled.
func (s *SatCom) Run(ctx context.Context) error {
	return s.feed.Run(ctx)
}
