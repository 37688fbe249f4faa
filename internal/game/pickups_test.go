package game

import (
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSyncSpritesTracksActivePlayers(t *testing.T) {
	env := newTestEnv(t)
	env.addAlivePlayer("a", mgl64.Vec2{-8, -8})
	env.addAlivePlayer("b", mgl64.Vec2{-9, -8})

	s := env.sim
	s.mu.Lock()
	s.syncSpritesLocked()
	want := s.cfg.SpritesStartCount + 2*s.cfg.SpritesPerPlayerCount
	got := len(s.powerups)
	s.mu.Unlock()
	if got != want {
		t.Fatalf("sprite pool = %d, want %d", got, want)
	}

	s.mu.Lock()
	for _, c := range s.clients {
		c.IsDead = true
	}
	s.syncSpritesLocked()
	got = len(s.powerups)
	want = s.cfg.SpritesStartCount
	s.mu.Unlock()
	if got != want {
		t.Errorf("sprite pool = %d after deaths, want %d", got, want)
	}
}

func TestSpritePickupGrantsXPAndRespawns(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("eater", mgl64.Vec2{-8, -8})

	s := env.sim
	s.mu.Lock()
	sprite := &Powerup{ID: s.newID(), Type: 0, Scale: 1, Position: p.Position}
	s.powerups = append(s.powerups, sprite)
	s.powerupLookup[sprite.ID] = sprite
	xpBefore := p.XP
	s.detectPickupsLocked()
	s.mu.Unlock()

	if p.Powerups != 1 {
		t.Errorf("powerups = %d, want 1", p.Powerups)
	}
	wantXP := xpBefore + s.Settings().PowerupXp0*s.Settings().SpriteXpMultiplier
	if p.XP != wantXP {
		t.Errorf("xp = %v, want %v", p.XP, wantXP)
	}
	if want := s.Settings().PointsPerPowerup; p.Points != want {
		t.Errorf("points = %v, want %v", p.Points, want)
	}

	s.mu.Lock()
	_, stillThere := s.powerupLookup[sprite.ID]
	poolSize := len(s.powerups)
	s.mu.Unlock()
	if stillThere {
		t.Error("claimed sprite not removed")
	}
	if poolSize != 1 {
		t.Errorf("pool = %d, want the claimed sprite replaced", poolSize)
	}
}

func TestPhasedPlayerCannotPickUp(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("ghost", mgl64.Vec2{-8, -8})
	p.IsPhased = true

	s := env.sim
	s.mu.Lock()
	sprite := &Powerup{ID: s.newID(), Type: 0, Scale: 1, Position: p.Position}
	s.powerups = append(s.powerups, sprite)
	s.powerupLookup[sprite.ID] = sprite
	s.detectPickupsLocked()
	s.mu.Unlock()

	if p.Powerups != 0 {
		t.Error("phased player claimed a sprite")
	}
}

func TestMaturedOrbClaim(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("scavenger", mgl64.Vec2{-8, -8})

	s := env.sim
	s.mu.Lock()
	orb := &Orb{ID: s.newID(), Type: orbSpriteType, Points: 30, Scale: 30,
		EnabledAt: s.nowMillis() - 1, Position: p.Position}
	s.orbs = append(s.orbs, orb)
	s.orbLookup[orb.ID] = orb
	s.detectPickupsLocked()
	s.mu.Unlock()

	if p.Orbs != 1 {
		t.Errorf("orbs = %d, want 1", p.Orbs)
	}
	if want := 30 + s.Settings().PointsPerOrb; p.Points != want {
		t.Errorf("points = %v, want %v", p.Points, want)
	}
	env.sim.FlushEvents()
	if !env.em.sawBroadcast("OnBroadcast") {
		t.Error("no orb steal broadcast")
	}
}

func TestImmatureOrbIgnored(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("early", mgl64.Vec2{-8, -8})

	s := env.sim
	s.mu.Lock()
	orb := &Orb{ID: s.newID(), Type: orbSpriteType, Points: 30, Scale: 30,
		EnabledAt: s.nowMillis() + 5000, Position: p.Position}
	s.orbs = append(s.orbs, orb)
	s.orbLookup[orb.ID] = orb
	s.detectPickupsLocked()
	remaining := len(s.orbs)
	s.mu.Unlock()

	if p.Orbs != 0 {
		t.Error("immature orb claimed")
	}
	if remaining != 1 {
		t.Error("immature orb removed from the field")
	}
}

func TestRewardClaim(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("winner", mgl64.Vec2{-8, -8})

	s := env.sim
	s.mu.Lock()
	s.currentReward = &Reward{
		ID:             s.newID(),
		Type:           "rune",
		RewardItemName: "zod",
		Quantity:       1,
		Position:       rewardPos{X: p.Position.X(), Y: p.Position.Y()},
		EnabledAt:      s.nowMillis() - 1,
	}
	s.detectPickupsLocked()
	claimed := s.currentReward == nil
	last := s.lastReward
	s.mu.Unlock()

	if p.Rewards != 1 {
		t.Errorf("rewards = %d, want 1", p.Rewards)
	}
	if want := s.Settings().PointsPerReward; p.Points != want {
		t.Errorf("points = %v, want %v", p.Points, want)
	}
	if len(p.Pickups) != 1 {
		t.Errorf("pickups = %d, want the reward recorded", len(p.Pickups))
	}
	if !claimed {
		t.Error("reward still on the field after the claim")
	}
	if last == nil || last.Winner != p.Name {
		t.Error("reward winner not recorded")
	}
}

func TestRandomizeSpriteXpPermutesValues(t *testing.T) {
	env := newTestEnv(t)

	s := env.sim
	s.mu.Lock()
	s.randomizeSpriteXpLocked()
	got := []float64{s.cfg.PowerupXp0, s.cfg.PowerupXp1, s.cfg.PowerupXp2, s.cfg.PowerupXp3}
	s.mu.Unlock()

	sort.Float64s(got)
	want := []float64{2, 4, 8, 16}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sprite xp values = %v, want a permutation of %v", got, want)
		}
	}
}

func TestSpriteJuiceSideEffectsClamp(t *testing.T) {
	env := newTestEnv(t)
	env.sim.cfg.GameMode = "Sprite Juice"
	p := env.addAlivePlayer("juiced", mgl64.Vec2{-8, -8})

	s := env.sim
	s.mu.Lock()
	for i := 0; i < 100; i++ {
		s.applySpriteSideEffectsLocked(p, 2)
	}
	s.mu.Unlock()

	if p.BaseSpeed != 0.25 {
		t.Errorf("base speed = %v, want clamped at 0.25", p.BaseSpeed)
	}
}
