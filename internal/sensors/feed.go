// Package sensors holds the shared plumbing used by the feed-driven sensor
// components (gps, landingradio, satcom): dial a line-oriented TCP
// feed, retry on failure, and publish SYSTEM_STATUS transitions to the
// bus. Grounded on original_source/src/components/gps_receiver.c's
// non-blocking-socket-plus-1s-retry loop, generalized since
// landing_radio.c and the partially-read sat_com.c follow the same shape.
package sensors

import (
	"bufio"
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/blacksheeep/airplane-sim/internal/bus"
	"github.com/blacksheeep/airplane-sim/internal/messages"
)

// RetryInterval is how long a feed waits before redialing after a failed
// or dropped connection.
const RetryInterval = 1 * time.Second

// StatusInterval is how often a connected feed re-announces SYSTEM_STATUS
// even without a state change, so the flight controller's 10s staleness
// window (flightstate.Extended.Valid) never lapses while the feed is
// healthy.
const StatusInterval = 2 * time.Second

// LineHandler processes one line read from a feed connection.
type LineHandler func(line string)

// Feed dials addr repeatedly, handing each line read to handle, and
// reports connected/disconnected transitions as SYSTEM_STATUS messages
// from self.
type Feed struct {
	Addr   string
	Self   messages.ComponentID
	Client *bus.Client
	Logger zerolog.Logger
	Handle LineHandler
}

// Run blocks until ctx is cancelled, dialing and redialing Addr.
func (f *Feed) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, err := net.Dial("tcp", f.Addr)
		if err != nil {
			f.Logger.Warn().Err(err).Str("addr", f.Addr).Msg("feed dial failed, retrying")
			f.publishStatus(false)
			if !sleepCtx(ctx, RetryInterval) {
				return ctx.Err()
			}
			continue
		}

		f.publishStatus(true)
		f.readLoop(ctx, conn)
		conn.Close()
		f.publishStatus(false)

		if !sleepCtx(ctx, RetryInterval) {
			return ctx.Err()
		}
	}
}

func (f *Feed) readLoop(ctx context.Context, conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	lastStatus := time.Now()

	for {
		if ctx.Err() != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(RetryInterval))

		if !scanner.Scan() {
			if netErr, ok := scanner.Err().(net.Error); ok && netErr.Timeout() {
				if time.Since(lastStatus) >= StatusInterval {
					f.publishStatus(true)
					lastStatus = time.Now()
				}
				continue
			}
			return
		}

		f.Handle(scanner.Text())
	}
}

func (f *Feed) publishStatus(connected bool) {
	msg := messages.NewSystemStatus(f.Self, messages.ComponentFlightController, connected)
	if err := f.Client.Publish(msg); err != nil {
		f.Logger.Warn().Err(err).Msg("failed to publish system status")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
