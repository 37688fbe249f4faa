package game

import (
	"testing"
	"time"
)

func TestFormatArg(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{"hello", "hello"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{int64(-7), "-7"},
		{1.5, "1.5"},
		{3.0, "3"},
		{nil, ""},
	}
	for _, c := range cases {
		if got := formatArg(c.in); got != c.want {
			t.Errorf("formatArg(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEncodeEventBatch(t *testing.T) {
	batch := []queuedEvent{
		{name: "OnBroadcast", args: []string{"hello", "0"}},
		{name: "OnLoaded", args: []string{"1"}},
	}
	got := string(encodeEventBatch(batch))
	want := `[["OnBroadcast","hello:0"],["OnLoaded","1"]]`
	if got != want {
		t.Errorf("encodeEventBatch = %s, want %s", got, want)
	}
}

func TestSanitizeTextStripsArgSeparator(t *testing.T) {
	if got := sanitizeText("watch: out"); got != "watch out" {
		t.Errorf("sanitizeText = %q", got)
	}
}

// Hot events skip the audit log outside the sampling window; everything
// else is always recorded.
func TestFlushAuditSamplesHotEvents(t *testing.T) {
	env := newTestEnv(t)
	s := env.sim

	s.Publish("OnUpdatePlayer", "a")
	s.Publish("OnBroadcast", "kept", 0)
	s.FlushEvents()

	s.Publish("OnUpdatePlayer", "b")
	s.FlushEvents()

	s.mu.Lock()
	defer s.mu.Unlock()
	var hot, cold int
	for _, e := range s.round.Events {
		switch e.Name {
		case "OnUpdatePlayer":
			hot++
		case "OnBroadcast":
			cold++
		}
	}
	if hot != 1 {
		t.Errorf("audited %d OnUpdatePlayer events inside one sampling window, want 1", hot)
	}
	if cold != 1 {
		t.Errorf("audited %d OnBroadcast events, want 1", cold)
	}
}

func TestFlushAuditWindowReopens(t *testing.T) {
	env := newTestEnv(t)
	s := env.sim

	s.Publish("OnUpdatePlayer", "a")
	s.FlushEvents()
	time.Sleep(600 * time.Millisecond) // audit limiter runs on wall time
	s.Publish("OnUpdatePlayer", "b")
	s.FlushEvents()

	s.mu.Lock()
	defer s.mu.Unlock()
	hot := 0
	for _, e := range s.round.Events {
		if e.Name == "OnUpdatePlayer" {
			hot++
		}
	}
	if hot != 2 {
		t.Errorf("audited %d OnUpdatePlayer events across two windows, want 2", hot)
	}
}

func TestEmitDirectBypassesQueue(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("solo", playerSpawnPoints[0])

	env.sim.EmitDirect(p.ID, "OnLoaded", 1)

	env.em.mu.Lock()
	frames := env.em.sends[p.ID]
	env.em.mu.Unlock()
	if len(frames) != 1 {
		t.Fatalf("got %d direct frames, want 1", len(frames))
	}
	if got := string(frames[0]); got != `[["OnLoaded","1"]]` {
		t.Errorf("direct frame = %s", got)
	}

	env.sim.mu.Lock()
	defer env.sim.mu.Unlock()
	if len(env.sim.eventQueue) != 0 {
		t.Error("direct emit left something in the broadcast queue")
	}
	if len(env.sim.round.Events) == 0 || env.sim.round.Events[len(env.sim.round.Events)-1].Type != "emitDirect" {
		t.Error("direct emit not audited")
	}
}
