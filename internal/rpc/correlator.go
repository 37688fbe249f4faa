// Package rpc implements request/reply correlation over the realm socket.
// Requests go out with a generated id; replies come back on the same socket
// tagged with that id. Every Call resolves, either with the matched reply
// or with a synthesized failure, so callers never block forever.
package rpc

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is how long a Call waits before giving up on the realm.
const DefaultTimeout = 15 * time.Second

// Reply is a settled realm response. Status 1 means success; anything else
// carries a Message. Raw holds the full reply body for callers that need
// payload fields beyond status.
type Reply struct {
	Status  int             `json:"status"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// Sender pushes an outbound request frame. The server layer implements it
// over the realm websocket.
type Sender interface {
	SendRequest(id, name string, data interface{}) error
}

// Correlator matches outbound requests to inbound replies by id.
type Correlator struct {
	mu      sync.Mutex
	sender  Sender
	pending map[string]chan Reply

	timeout time.Duration
	newID   func() string
}

// Option customizes a Correlator.
type Option func(*Correlator)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Correlator) { c.timeout = d }
}

// WithIDGenerator overrides request id generation, for deterministic tests.
func WithIDGenerator(gen func() string) Option {
	return func(c *Correlator) { c.newID = gen }
}

func NewCorrelator(opts ...Option) *Correlator {
	c := &Correlator{
		pending: map[string]chan Reply{},
		timeout: DefaultTimeout,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach binds the live realm connection. Replaces any previous sender.
func (c *Correlator) Attach(s Sender) {
	c.mu.Lock()
	c.sender = s
	c.mu.Unlock()
}

// Detach drops the sender and fails every in-flight call immediately.
func (c *Correlator) Detach() {
	c.mu.Lock()
	c.sender = nil
	pending := c.pending
	c.pending = map[string]chan Reply{}
	c.mu.Unlock()

	for _, ch := range pending {
		ch <- Reply{Status: 0, Message: "Not connected to realm"}
	}
}

// Connected reports whether a sender is attached.
func (c *Correlator) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sender != nil
}

// Call sends a request and blocks for the reply. Without a sender it fails
// fast, without starting a timer. On timeout the pending slot is abandoned
// and a late reply is dropped.
func (c *Correlator) Call(name string, data interface{}) Reply {
	c.mu.Lock()
	sender := c.sender
	if sender == nil {
		c.mu.Unlock()
		return Reply{Status: 0, Message: "Not connected to realm"}
	}
	id := c.newID()
	ch := make(chan Reply, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	if err := sender.SendRequest(id, name, data); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return Reply{Status: 0, Message: "Not connected to realm"}
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case reply := <-ch:
		return reply
	case <-timer.C:
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return Reply{Status: 0, Message: "Request timeout"}
	}
}

// Resolve settles the call waiting on id with the reply body. Returns false
// when no call is waiting, which covers late replies after a timeout and
// ids this correlator never issued.
func (c *Correlator) Resolve(id string, body json.RawMessage) bool {
	c.mu.Lock()
	ch, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}

	reply := Reply{Raw: body}
	var head struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &head) == nil {
		reply.Status = head.Status
		reply.Message = head.Message
	}

	ch <- reply
	return true
}

// PendingCount reports in-flight calls.
func (c *Correlator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
