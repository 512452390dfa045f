package bus

import (
	"fmt"
	"net"
	"sync"

	"github.com/blacksheeep/airplane-sim/internal/messages"
)

// Client is a component process's handle onto the bus Server. Every
// exported method corresponds 1:1 to an operation named in spec.md
// Module A: Attach/Detach/Subscribe/Publish/ReadMessage/SegmentID.
type Client struct {
	self messages.ComponentID

	mu sync.Mutex
	c  *codec
	conn net.Conn
}

// Attach dials the bus at path (DefaultSocketPath if empty) and registers
// self's presence, incrementing the segment's reference count.
func Attach(path string, self messages.ComponentID) (*Client, error) {
	if !self.Valid() {
		return nil, messages.ErrInvalidComponent
	}
	if path == "" {
		path = DefaultSocketPath()
	}

	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("bus: attach %s: %w", self, err)
	}

	client := &Client{self: self, c: newCodec(conn), conn: conn}
	if _, err := client.call(request{Op: opAttach}); err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

// Detach decrements the reference count and closes the client's
// connection. It reports whether this was the last reference, mirroring
// the original's bus_detach cleanup signal.
func (cl *Client) Detach() (lastRef bool, err error) {
	resp, err := cl.call(request{Op: opDetach})
	closeErr := cl.conn.Close()
	if err != nil {
		return false, err
	}
	if closeErr != nil {
		return resp.Found, closeErr
	}
	return resp.Found, nil
}

// Subscribe registers self's interest in msgType.
func (cl *Client) Subscribe(msgType messages.MessageType) error {
	_, err := cl.call(request{Op: opSubscribe, Subscriber: cl.self, MsgType: msgType})
	return err
}

// Publish appends msg to the bus queue.
func (cl *Client) Publish(msg messages.Message) error {
	_, err := cl.call(request{Op: opPublish, Message: msg})
	return err
}

// ReadMessage returns the next queued message matching one of self's
// subscriptions, or found=false if none is currently available.
func (cl *Client) ReadMessage() (msg messages.Message, found bool, err error) {
	resp, err := cl.call(request{Op: opRead, Subscriber: cl.self})
	if err != nil {
		return messages.Message{}, false, err
	}
	return resp.Message, resp.Found, nil
}

// SegmentID returns the bus's identifier.
func (cl *Client) SegmentID() (string, error) {
	resp, err := cl.call(request{Op: opSegmentID})
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (cl *Client) call(req request) (response, error) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if err := cl.c.writeValue(&req); err != nil {
		return response{}, fmt.Errorf("bus: send: %w", err)
	}

	var resp response
	if err := cl.c.readValue(&resp); err != nil {
		return response{}, fmt.Errorf("bus: receive: %w", err)
	}
	if !resp.OK {
		return resp, errFromText(resp.ErrText)
	}
	return resp, nil
}
