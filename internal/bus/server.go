package bus

import (
	"errors"
	"net"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/blacksheeep/airplane-sim/internal/messages"
)

// DefaultSocketPath is the deterministic Unix domain socket path every
// component dials to reach the bus, analogous to the original's fixed
// shared-memory key.
func DefaultSocketPath() string {
	return os.TempDir() + "/airplane_sim_bus.sock"
}

// Server hosts a segment and accepts client connections over a Unix
// domain socket. The flight controller process owns the one Server in
// the simulator; every component process, including the flight
// controller's own in-process autopilot-facing code paths, talks to it
// through a Client.
type Server struct {
	seg      *segment
	listener net.Listener
	path     string
	logger   zerolog.Logger

	wg sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewServer creates the bus's backing segment (init) and starts accepting
// connections at path. Passing an empty path uses DefaultSocketPath.
func NewServer(path string, logger zerolog.Logger) (*Server, error) {
	if path == "" {
		path = DefaultSocketPath()
	}

	_ = os.Remove(path)

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}

	s := &Server{
		seg:      newSegment(logger),
		listener: listener,
		path:     path,
		logger:   logger.With().Str("component", "bus-server").Logger(),
	}

	s.wg.Add(1)
	go s.acceptLoop()

	s.logger.Info().Str("path", path).Str("segment_id", s.seg.segmentID).Msg("bus initialized")
	return s, nil
}

// SegmentID returns the bus's identifier, matching the original's
// bus_get_segment_id accessor.
func (s *Server) SegmentID() string {
	return s.seg.segmentID
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			s.logger.Warn().Err(err).Msg("accept failed")
			return
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	c := newCodec(conn)
	for {
		var req request
		if err := c.readValue(&req); err != nil {
			return
		}

		resp := s.dispatch(req)
		if err := c.writeValue(&resp); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(req request) response {
	switch req.Op {
	case opSubscribe:
		err := s.seg.subscribe(req.Subscriber, req.MsgType)
		return response{OK: err == nil, ErrText: errText(err)}

	case opPublish:
		err := s.seg.publish(req.Message)
		return response{OK: err == nil, ErrText: errText(err)}

	case opRead:
		msg, found := s.seg.readMessage(req.Subscriber)
		return response{OK: true, Found: found, Message: msg}

	case opAttach:
		s.seg.attach()
		return response{OK: true}

	case opDetach:
		lastRef := s.seg.detach()
		return response{OK: true, Found: lastRef}

	case opSegmentID:
		return response{OK: true, ID: s.seg.segmentID}

	default:
		return response{OK: false, ErrText: errors.New("bus: unknown opcode").Error()}
	}
}

// Close stops accepting connections, waits for in-flight handlers to
// finish, and removes the socket file. The caller (the supervisor, during
// shutdown) is responsible for ensuring every component has detached
// first, matching the original's bus_destroy, which only actually frees
// the segment once the reference count reaches zero.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.listener.Close()
	s.wg.Wait()
	_ = os.Remove(s.path)

	count, _, _ := s.seg.snapshotCounts()
	s.logger.Info().Int("messages_remaining", count).Msg("bus shut down")
	return err
}

// KnownComponents lists every ComponentID the bus expects to see dial in
// over the lifetime of a simulation run.
var KnownComponents = []messages.ComponentID{
	messages.ComponentFlightController,
	messages.ComponentAutopilot,
	messages.ComponentGPS,
	messages.ComponentINS,
	messages.ComponentLandingRadio,
	messages.ComponentSatCom,
}
