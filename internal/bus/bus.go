// Package bus implements the simulator's inter-process message bus: a
// bounded, topic-subscribed, mutually-excluded queue. The original ran
// this as a System-V shared-memory segment guarded by a named POSIX
// semaphore so independently fork()ed processes could map the identical
// memory; Go has no fork() and nothing in the reference pack exercised
// raw shared memory from Go, so this port keeps real OS processes (for
// genuine fault isolation) but has them reach the bus over a Unix domain
// socket instead of mapped memory. The struct that owns the ring buffer
// and subscription table is guarded by a single sync.Mutex held for the
// full duration of every operation, the same "one mutex, full critical
// section" discipline the named semaphore enforced in the original.
package bus

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blacksheeep/airplane-sim/internal/messages"
)

const (
	// MaxBusMessages is the ring buffer's fixed capacity.
	MaxBusMessages = 100
	// MaxSubscribers bounds the global subscription table.
	MaxSubscribers = 10
	// MessageTimeout is how long a message may sit unread before
	// prune_expired discards it.
	MessageTimeout = 5 * time.Second
)

// Sentinel errors mirroring the original's ErrorCode taxonomy (§7).
var (
	ErrResourceUnavailable = errors.New("bus: resource unavailable")
	ErrQueueFull           = errors.New("bus: queue full")
	ErrNoSlot              = errors.New("bus: no free subscription slot")
	ErrNilBus              = errors.New("bus: nil bus")
)

type subscription struct {
	subscriber messages.ComponentID
	msgType    messages.MessageType
	active     bool
}

type queueEntry struct {
	message  messages.Message
	enqueued time.Time
}

// segment is the bus's control block: ring buffer, subscription table,
// mutex, and reference count. It is the process-local analogue of the
// original's shared-memory Bus struct; in this port exactly one process
// (the flight controller / supervisor) holds one, and every other
// component process reaches it indirectly through a *Client dialed
// against the Server that wraps it.
type segment struct {
	mu sync.Mutex

	queue    [MaxBusMessages]queueEntry
	readIdx  int
	writeIdx int
	count    int

	subs [MaxSubscribers]subscription

	refCount  int
	segmentID string

	logger zerolog.Logger
}

func newSegment(logger zerolog.Logger) *segment {
	return &segment{
		segmentID: uuid.NewString(),
		refCount:  1,
		logger:    logger.With().Str("component", "bus").Logger(),
	}
}

// subscribe places an entry in the first inactive slot. Duplicate
// (subscriber, msgType) pairs are permitted — they don't cause duplicate
// delivery, since a message is removed from the queue the first time any
// matching subscription reads it.
func (s *segment) subscribe(subscriber messages.ComponentID, msgType messages.MessageType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.subs {
		if !s.subs[i].active {
			s.subs[i] = subscription{subscriber: subscriber, msgType: msgType, active: true}
			s.logger.Debug().
				Str("subscriber", subscriber.String()).
				Str("type", msgType.String()).
				Int("slot", i).
				Msg("subscription added")
			return nil
		}
	}
	return ErrNoSlot
}

// publish appends a message to the ring buffer, or returns ErrQueueFull if
// the buffer is at capacity. It never overwrites an existing slot.
func (s *segment) publish(msg messages.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count >= MaxBusMessages {
		s.logger.Warn().Int("count", s.count).Msg("queue full, dropping publish")
		return ErrQueueFull
	}

	s.queue[s.writeIdx] = queueEntry{message: msg, enqueued: time.Now()}
	s.writeIdx = (s.writeIdx + 1) % MaxBusMessages
	s.count++
	return nil
}

// pruneExpired discards messages older than MessageTimeout from the head
// of the ring. Caller must hold s.mu.
func (s *segment) pruneExpired(now time.Time) int {
	pruned := 0
	for s.count > 0 && now.Sub(s.queue[s.readIdx].enqueued) > MessageTimeout {
		s.queue[s.readIdx] = queueEntry{}
		s.readIdx = (s.readIdx + 1) % MaxBusMessages
		s.count--
		pruned++
	}
	return pruned
}

// readMessage scans the ring starting at readIdx for the first message
// whose type matches any active subscription for subscriber. On a match,
// it compacts the queue by advancing readIdx past the match — which, per
// the original's legacy behaviour (preserved deliberately, see
// DESIGN.md/spec.md §9), drops every message that was scanned-over but
// did not match, not just the matched one.
func (s *segment) readMessage(subscriber messages.ComponentID) (messages.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.count > MaxBusMessages/2 {
		if n := s.pruneExpired(now); n > 0 {
			s.logger.Debug().Int("pruned", n).Msg("pruned expired messages")
		}
	}

	if s.count == 0 {
		return messages.Message{}, false
	}

	current := s.readIdx
	checked := 0
	for checked < s.count {
		entry := s.queue[current]
		if s.matches(subscriber, entry.message.Header.Type) {
			s.readIdx = (current + 1) % MaxBusMessages
			s.count--
			return entry.message, true
		}
		current = (current + 1) % MaxBusMessages
		checked++
	}

	return messages.Message{}, false
}

func (s *segment) matches(subscriber messages.ComponentID, msgType messages.MessageType) bool {
	for _, sub := range s.subs {
		if sub.active && sub.subscriber == subscriber && sub.msgType == msgType {
			return true
		}
	}
	return false
}

func (s *segment) attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refCount++
	s.logger.Debug().Int("ref_count", s.refCount).Msg("attached")
}

// detach decrements the reference count and reports whether this was the
// last reference (the caller is then responsible for destroying the
// segment's externally-visible resources, e.g. the socket file).
func (s *segment) detach() (lastRef bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refCount--
	s.logger.Debug().Int("ref_count", s.refCount).Msg("detached")
	return s.refCount <= 0
}

func (s *segment) snapshotCounts() (count, readIdx, writeIdx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count, s.readIdx, s.writeIdx
}
