package game

import (
	"strconv"
	"strings"
)

// queuedEvent is one pending broadcast tuple. Args are formatted at publish
// time so the flush is a pure join.
type queuedEvent struct {
	name string
	args []string
}

// formatArg renders an event argument the way the clients expect: bools as
// true/false words, floats without a trailing zero fraction.
func formatArg(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}

func formatArgs(args []interface{}) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = formatArg(a)
	}
	return out
}

// encodeEventBatch compiles tuples into the Events wire payload: a JSON
// array of ["Name","arg:arg:arg"] pairs built by string concatenation.
func encodeEventBatch(events []queuedEvent) []byte {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range events {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`["`)
		b.WriteString(e.name)
		b.WriteString(`","`)
		b.WriteString(strings.Join(e.args, ":"))
		b.WriteString(`"]`)
	}
	b.WriteByte(']')
	return []byte(b.String())
}

// sanitizeText strips colons from free text so it cannot corrupt the
// positional arg encoding.
func sanitizeText(msg string) string {
	return strings.ReplaceAll(msg, ":", "")
}

func (s *Sim) publishLocked(name string, args ...interface{}) {
	s.eventQueue = append(s.eventQueue, queuedEvent{name: name, args: formatArgs(args)})
}

// Publish queues a broadcast event for the next flush.
func (s *Sim) Publish(name string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(name, args...)
}

// hot event types are only written to the round audit log when the
// sampling window allows it.
func isHotEvent(name string) bool {
	return name == "OnUpdatePlayer" || name == "OnSpawnPowerup"
}

func (s *Sim) flushEventsLocked() {
	if len(s.eventQueue) == 0 {
		return
	}

	recordDetailed := s.auditLimiter.Allow()

	for _, e := range s.eventQueue {
		if isHotEvent(e.name) && !recordDetailed {
			continue
		}
		s.round.Events = append(s.round.Events, RoundEvent{Type: "emitAll", Name: e.name, Args: e.args})
	}

	payload := encodeEventBatch(s.eventQueue)
	if s.emitter != nil {
		s.emitter.Broadcast(payload)
	}
	s.eventQueue = s.eventQueue[:0]
}

// FlushEvents drains the queue into one broadcast frame.
func (s *Sim) FlushEvents() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushEventsLocked()
}

// emitDirectLocked sends one event to a single session, bypassing the
// queue. Direct emits are always audited.
func (s *Sim) emitDirectLocked(clientID, name string, args ...interface{}) {
	e := queuedEvent{name: name, args: formatArgs(args)}
	s.round.Events = append(s.round.Events, RoundEvent{Type: "emitDirect", Player: clientID, Name: e.name, Args: e.args})
	if s.emitter != nil {
		s.emitter.Send(clientID, encodeEventBatch([]queuedEvent{e}))
	}
}

// EmitDirect sends one event to one session.
func (s *Sim) EmitDirect(clientID, name string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitDirectLocked(clientID, name, args...)
}
