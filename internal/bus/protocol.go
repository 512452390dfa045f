package bus

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"net"

	"github.com/blacksheeep/airplane-sim/internal/messages"
)

// opcode selects which segment operation a request performs.
type opcode int

const (
	opSubscribe opcode = iota
	opPublish
	opRead
	opAttach
	opDetach
	opSegmentID
)

// request is the single wire envelope for every client->server call. Only
// the fields relevant to Op are populated.
type request struct {
	Op         opcode
	Subscriber messages.ComponentID
	MsgType    messages.MessageType
	Message    messages.Message
}

// response is the single wire envelope for every server->client reply.
type response struct {
	OK      bool
	ErrText string
	Message messages.Message
	Found   bool
	ID      string
}

// codec wraps a net.Conn with length-framed gob encode/decode, the same
// "frame then gob" wire shape used for the bus's request/response pairs.
type codec struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
}

func newCodec(conn net.Conn) *codec {
	return &codec{conn: conn, r: bufio.NewReader(conn), w: bufio.NewWriter(conn)}
}

func (c *codec) writeValue(v interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}

	var lenBuf [4]byte
	putUint32(lenBuf[:], uint32(buf.Len()))
	if _, err := c.w.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := c.w.Write(buf.Bytes()); err != nil {
		return err
	}
	return c.w.Flush()
}

func (c *codec) readValue(v interface{}) error {
	var lenBuf [4]byte
	if _, err := io.ReadFull(c.r, lenBuf[:]); err != nil {
		return err
	}
	n := getUint32(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return err
	}
	return gob.NewDecoder(bytes.NewReader(buf)).Decode(v)
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func errFromText(text string) error {
	if text == "" {
		return nil
	}
	for _, candidate := range []error{ErrResourceUnavailable, ErrQueueFull, ErrNoSlot, ErrNilBus} {
		if candidate.Error() == text {
			return candidate
		}
	}
	return fmt.Errorf("bus: %s", text)
}
