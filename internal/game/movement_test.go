package game

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func TestMoveTowards(t *testing.T) {
	got := MoveTowards(mgl64.Vec2{0, 0}, mgl64.Vec2{10, 0}, 3)
	if got.X() != 3 || got.Y() != 0 {
		t.Errorf("partial step = %v, want {3 0}", got)
	}

	got = MoveTowards(mgl64.Vec2{0, 0}, mgl64.Vec2{1, 0}, 5)
	if got.X() != 1 || got.Y() != 0 {
		t.Errorf("snap to target = %v, want {1 0}", got)
	}

	got = MoveTowards(mgl64.Vec2{2, 2}, mgl64.Vec2{2, 2}, 1)
	if got.X() != 2 || got.Y() != 2 {
		t.Errorf("already at target = %v, want {2 2}", got)
	}
}

func TestNormalizeFloat(t *testing.T) {
	if got := normalizeFloat(1.23456, 2); got != 1.23 {
		t.Errorf("normalizeFloat(1.23456, 2) = %v", got)
	}
	if got := normalizeFloat(-0.00004, 4); got != 0 {
		t.Errorf("normalizeFloat(-0.00004, 4) = %v", got)
	}
}

func TestMovementClampsToMapBoundary(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("runner", mgl64.Vec2{mapBoundary.MaxX - 0.1, -8})
	p.ClientTarget = mgl64.Vec2{mapBoundary.MaxX + 50, -8}
	p.ClientPosition = p.Position

	s := env.sim
	s.mu.Lock()
	s.advanceMovementLocked(1)
	s.mu.Unlock()

	if p.Position.X() != mapBoundary.MaxX {
		t.Errorf("x = %v, want clamped to %v", p.Position.X(), mapBoundary.MaxX)
	}
	if p.Log.OutOfBounds != 1 {
		t.Errorf("OutOfBounds = %d, want 1", p.Log.OutOfBounds)
	}
}

// A server/client position gap above two units phases the player rather
// than punishing latency.
func TestMovementPhasesOnClientGap(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("laggy", mgl64.Vec2{-8, -8})
	p.ClientPosition = mgl64.Vec2{-12, -8}
	p.ClientTarget = p.ClientPosition

	s := env.sim
	s.mu.Lock()
	s.advanceMovementLocked(0.04)
	s.mu.Unlock()

	if !p.PhasedUntil.After(env.clock.Now()) {
		t.Error("player not phased after a 4 unit gap")
	}
	if p.Log.ClientDistanceProblem != 1 {
		t.Errorf("ClientDistanceProblem = %d, want 1", p.Log.ClientDistanceProblem)
	}
}

func TestMovementIslandCollisionHalvesSpeed(t *testing.T) {
	env := newTestEnv(t)
	env.sim.mapData = []MapObject{
		{Name: "Island1", Colliders: []MapCollider{{Min: [2]float64{-10, -10}, Max: [2]float64{-6, -6}}}},
	}
	p := env.addAlivePlayer("sailor", mgl64.Vec2{-8, -8})
	p.ClientPosition = p.Position
	p.ClientTarget = p.Position

	s := env.sim
	s.mu.Lock()
	s.advanceMovementLocked(0.04)
	s.mu.Unlock()

	if p.OverrideSpeed == nil || *p.OverrideSpeed != 0.5 {
		t.Error("island collision did not apply the half speed override")
	}
	if p.Log.Collided != 1 {
		t.Errorf("Collided = %d, want 1", p.Log.Collided)
	}
	if !p.PhasedUntil.After(env.clock.Now()) {
		t.Error("player not phased while overlapping an island")
	}
}

func TestMovementStickyIslandStrandsPlayer(t *testing.T) {
	env := newTestEnv(t)
	env.sim.cfg.StickyIslands = true
	env.sim.mapData = []MapObject{
		{Name: "Island1", Colliders: []MapCollider{{Min: [2]float64{-10, -10}, Max: [2]float64{-6, -6}}}},
	}
	p := env.addAlivePlayer("stranded", mgl64.Vec2{-8, -8})
	p.ClientPosition = p.Position
	p.ClientTarget = p.Position

	s := env.sim
	s.mu.Lock()
	s.advanceMovementLocked(0.04)
	s.mu.Unlock()

	if !p.IsStuck {
		t.Error("player not stuck on a sticky island")
	}
	if p.Log.Stuck != 1 {
		t.Errorf("Stuck = %d, want 1", p.Log.Stuck)
	}
}

func TestLevel2GateOpensAndCloses(t *testing.T) {
	env := newTestEnv(t)
	s := env.sim

	players := make([]*Player, 0, s.cfg.PlayersRequiredForLevel2)
	for i := 0; i < s.cfg.PlayersRequiredForLevel2; i++ {
		players = append(players, env.addAlivePlayer("d", mgl64.Vec2{-8, -8}))
	}

	s.mu.Lock()
	s.updateLevel2GateLocked()
	open := s.cfg.Level2Open
	s.mu.Unlock()
	if !open {
		t.Fatal("gate closed with enough players alive")
	}
	env.sim.FlushEvents()
	if !env.em.sawBroadcast("OnOpenLevel2") {
		t.Error("no OnOpenLevel2 broadcast")
	}

	// Population must drop well below the open threshold before the wall
	// comes back up.
	s.mu.Lock()
	for _, p := range players[8:] {
		p.IsDead = true
	}
	s.updateLevel2GateLocked()
	open = s.cfg.Level2Open
	s.mu.Unlock()
	if !open {
		t.Fatal("gate flapped shut just below the open threshold")
	}

	s.mu.Lock()
	for _, p := range players {
		p.IsDead = true
	}
	s.updateLevel2GateLocked()
	open = s.cfg.Level2Open
	s.mu.Unlock()
	if open {
		t.Fatal("gate still open with nobody alive")
	}
	env.sim.FlushEvents()
	if !env.em.sawBroadcast("OnCloseLevel2") {
		t.Error("no OnCloseLevel2 broadcast")
	}
}

func TestReportPositionActivatesJoiningPlayer(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("joiner", mgl64.Vec2{-8, -8})
	p.IsDead = true
	p.IsJoining = true

	env.clock.Advance(100 * time.Millisecond)
	env.sim.ReportPosition(p.ID, -8, -8, -8, -8, float64(env.clock.Now().UnixMilli()))

	env.sim.mu.Lock()
	defer env.sim.mu.Unlock()
	if p.IsDead || p.IsJoining {
		t.Error("player not activated by the first position report")
	}
	if p.InvincibleUntil != env.clock.Now().Unix()+int64(env.sim.cfg.ImmunitySeconds) {
		t.Errorf("InvincibleUntil = %d, want spawn immunity applied", p.InvincibleUntil)
	}
}

func TestReportPositionRejectsOutOfBounds(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("cheater", mgl64.Vec2{-8, -8})

	env.clock.Advance(100 * time.Millisecond)
	env.sim.ReportPosition(p.ID, mapBoundary.MaxX+10, -8, -8, -8, float64(env.clock.Now().UnixMilli()))

	env.sim.mu.Lock()
	defer env.sim.mu.Unlock()
	if p.ClientPosition.X() != -8 {
		t.Errorf("out of bounds report accepted: %v", p.ClientPosition)
	}
}

func TestReportPositionThrottledByForcedLatency(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("spammer", mgl64.Vec2{-8, -8})

	env.sim.ReportPosition(p.ID, -9, -8, -9, -8, float64(env.clock.Now().UnixMilli()))

	env.sim.mu.Lock()
	defer env.sim.mu.Unlock()
	if p.ClientPosition.X() == -9 {
		t.Error("report inside the latency window accepted")
	}
}
