package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type recordingSender struct {
	mu     sync.Mutex
	frames []sentFrame
	err    error
}

type sentFrame struct {
	id   string
	name string
}

func (s *recordingSender) SendRequest(id, name string, data interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, sentFrame{id: id, name: name})
	return nil
}

func (s *recordingSender) last() sentFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames[len(s.frames)-1]
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("req-%d", n)
	}
}

func TestCallFailsFastWithoutSender(t *testing.T) {
	c := NewCorrelator()

	start := time.Now()
	reply := c.Call("GS_InitRequest", nil)

	if reply.Status != 0 || reply.Message != "Not connected to realm" {
		t.Errorf("reply = %+v, want not-connected failure", reply)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Error("disconnected call waited instead of failing fast")
	}
	if c.PendingCount() != 0 {
		t.Error("failed call left a pending slot")
	}
}

func TestCallResolvedByMatchingReply(t *testing.T) {
	sender := &recordingSender{}
	c := NewCorrelator(WithIDGenerator(seqIDs()))
	c.Attach(sender)

	done := make(chan Reply, 1)
	go func() { done <- c.Call("GS_VerifySignatureRequest", map[string]string{"data": "evolution"}) }()

	var frame sentFrame
	for {
		sender.mu.Lock()
		n := len(sender.frames)
		sender.mu.Unlock()
		if n > 0 {
			frame = sender.last()
			break
		}
		time.Sleep(time.Millisecond)
	}

	if frame.name != "GS_VerifySignatureRequest" {
		t.Fatalf("sent %q", frame.name)
	}
	if !c.Resolve(frame.id, json.RawMessage(`{"status":1,"verified":true}`)) {
		t.Fatal("resolve rejected a live id")
	}

	reply := <-done
	if reply.Status != 1 {
		t.Errorf("status = %d, want 1", reply.Status)
	}
	var body struct {
		Verified bool `json:"verified"`
	}
	if err := json.Unmarshal(reply.Raw, &body); err != nil || !body.Verified {
		t.Errorf("raw body not preserved: %s", reply.Raw)
	}
}

func TestCallTimesOut(t *testing.T) {
	sender := &recordingSender{}
	c := NewCorrelator(WithTimeout(20 * time.Millisecond))
	c.Attach(sender)

	reply := c.Call("GS_ConfirmUserRequest", nil)

	if reply.Status != 0 || reply.Message != "Request timeout" {
		t.Errorf("reply = %+v, want timeout failure", reply)
	}
	if c.PendingCount() != 0 {
		t.Error("timed out call left a pending slot")
	}
}

func TestLateReplyDropped(t *testing.T) {
	sender := &recordingSender{}
	c := NewCorrelator(WithTimeout(10*time.Millisecond), WithIDGenerator(seqIDs()))
	c.Attach(sender)

	c.Call("GS_ConfirmUserRequest", nil)

	if c.Resolve(sender.last().id, json.RawMessage(`{"status":1}`)) {
		t.Error("reply accepted after the call timed out")
	}
}

func TestResolveUnknownID(t *testing.T) {
	c := NewCorrelator()
	if c.Resolve("never-issued", json.RawMessage(`{"status":1}`)) {
		t.Error("unknown id resolved")
	}
}

func TestSendErrorFailsCall(t *testing.T) {
	sender := &recordingSender{err: errors.New("broken pipe")}
	c := NewCorrelator()
	c.Attach(sender)

	reply := c.Call("GS_InitRequest", nil)

	if reply.Status != 0 || reply.Message != "Not connected to realm" {
		t.Errorf("reply = %+v, want not-connected failure", reply)
	}
	if c.PendingCount() != 0 {
		t.Error("failed send left a pending slot")
	}
}

func TestDetachFailsInFlightCalls(t *testing.T) {
	sender := &recordingSender{}
	c := NewCorrelator()
	c.Attach(sender)

	const calls = 3
	done := make(chan Reply, calls)
	for i := 0; i < calls; i++ {
		go func() { done <- c.Call("GS_ConfirmUserRequest", nil) }()
	}
	for c.PendingCount() < calls {
		time.Sleep(time.Millisecond)
	}

	c.Detach()

	for i := 0; i < calls; i++ {
		reply := <-done
		if reply.Status != 0 || reply.Message != "Not connected to realm" {
			t.Errorf("reply = %+v, want not-connected failure", reply)
		}
	}
	if c.Connected() {
		t.Error("still reported connected after detach")
	}
}
