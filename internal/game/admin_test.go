package game

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSetConfigAppliesKnownKeys(t *testing.T) {
	env := newTestEnv(t)

	applied := env.sim.SetConfig(map[string]interface{}{
		"baseSpeed": "4",
		"antifeed1": "false",
		"bogusKey":  "1",
	})

	if len(applied) != 2 {
		t.Fatalf("applied = %v, want the two known keys", applied)
	}

	s := env.sim
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.BaseSpeed != 4 || s.base.BaseSpeed != 4 || s.roundBase.BaseSpeed != 4 {
		t.Error("baseSpeed not written through to all three config layers")
	}
	if s.cfg.Antifeed1 {
		t.Error("antifeed1 not coerced and applied")
	}
}

func TestSetConfigRewardTransitionRepublishesRoundInfo(t *testing.T) {
	env := newTestEnv(t)

	env.sim.SetConfig(map[string]interface{}{"rewardWinnerAmount": "3"})
	env.sim.FlushEvents()

	if !env.em.sawBroadcast("OnSetRoundInfo") {
		t.Error("round info not republished when rewards became claimable")
	}
}

func TestSetMaintenanceBlocksJoins(t *testing.T) {
	env := newTestEnv(t)
	env.sim.usernames = fakeResolver{name: "Hero"}
	scriptAuth(env, testAddress, true)

	env.sim.SetMaintenance(true)
	env.sim.FlushEvents()

	if !env.sim.Settings().IsMaintenance {
		t.Error("maintenance flag not set")
	}
	if !env.em.sawBroadcast("OnMaintenance") {
		t.Error("no OnMaintenance broadcast")
	}

	env.sim.Connect("c1", "h1")
	env.sim.SetInfo("c1", validPack())
	env.sim.mu.Lock()
	_, connected := env.sim.lookup["c1"]
	env.sim.mu.Unlock()
	if connected {
		t.Error("join accepted during maintenance")
	}
}

func TestStartBattleRoyaleCountdown(t *testing.T) {
	env := newTestEnv(t)

	env.sim.StartBattleRoyale()
	env.sim.FlushEvents()

	if env.sim.Settings().IsBattleRoyale {
		t.Fatal("mode flipped before the countdown finished")
	}

	env.clock.Advance(3 * time.Second)
	env.sim.FlushEvents()

	if !env.sim.Settings().IsBattleRoyale {
		t.Error("mode not live after the countdown")
	}

	env.sim.StopBattleRoyale()
	if env.sim.Settings().IsBattleRoyale {
		t.Error("mode still live after stop")
	}
}

func TestPauseRoundHoldsRollover(t *testing.T) {
	env := newTestEnv(t)
	env.sim.armRoundTimer()
	roundBefore := env.sim.Settings().RoundID

	env.sim.PauseRound()
	env.clock.Advance(time.Duration(env.sim.Settings().RoundLoopSeconds+5) * time.Second)

	if got := env.sim.Settings().RoundID; got != roundBefore {
		t.Errorf("round rolled to %d while paused", got)
	}
	if !env.sim.Settings().IsRoundPaused {
		t.Error("pause flag not set")
	}
}

func TestStartRoundForcesMode(t *testing.T) {
	env := newTestEnv(t)
	env.sim.PauseRound()

	env.sim.StartRound("Deathmatch")

	cfg := env.sim.Settings()
	if cfg.GameMode != "Deathmatch" {
		t.Errorf("game mode = %q, want Deathmatch", cfg.GameMode)
	}
	if cfg.IsRoundPaused {
		t.Error("round still paused after a forced start")
	}
}

func TestGodPartyToggleClearsInvincibility(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("mortal", mgl64.Vec2{-8, -8})

	env.sim.StartGodParty()
	if !env.sim.Settings().IsGodParty {
		t.Fatal("god party not started")
	}

	p.IsInvincible = true
	env.sim.StopGodParty()

	if env.sim.Settings().IsGodParty {
		t.Error("god party still running")
	}
	if p.IsInvincible {
		t.Error("lingering invincibility after the party ended")
	}
}

func TestBattleDifficultyAdjustAndReset(t *testing.T) {
	env := newTestEnv(t)
	before := env.sim.Settings()

	env.sim.MakeBattleHarder()

	cfg := env.sim.Settings()
	if cfg.DecayPower != before.DecayPower+2 {
		t.Errorf("decayPower = %v, want %v", cfg.DecayPower, before.DecayPower+2)
	}
	if cfg.BaseSpeed != before.BaseSpeed+1 {
		t.Errorf("baseSpeed = %v, want %v", cfg.BaseSpeed, before.BaseSpeed+1)
	}
	if cfg.DynamicDecayPower {
		t.Error("manual difficulty left dynamic decay on")
	}

	env.sim.ResetBattleDifficulty()

	cfg = env.sim.Settings()
	if cfg.DecayPower != 1.4 || cfg.BaseSpeed != 3 || !cfg.DynamicDecayPower {
		t.Error("difficulty not restored to the baseline")
	}
}

func TestMessageUserTargetsOneSession(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("target", mgl64.Vec2{-8, -8})
	env.addAlivePlayer("bystander", mgl64.Vec2{-9, -8})

	if !env.sim.MessageUser(p.Address, "hello: there") {
		t.Fatal("known address not found")
	}
	if env.sim.MessageUser("0xunknown", "hi") {
		t.Error("unknown address reported delivered")
	}

	env.em.mu.Lock()
	frames := len(env.em.sends[p.ID])
	env.em.mu.Unlock()
	if frames != 1 {
		t.Errorf("target got %d frames, want 1", frames)
	}
}

func TestChangeUserAppliesFields(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("subject", mgl64.Vec2{-8, -8})

	ok := env.sim.ChangeUser(p.Address, map[string]interface{}{
		"name":  "Renamed",
		"isMod": true,
		"xp":    "75",
	})
	if !ok {
		t.Fatal("known address not found")
	}
	if p.Name != "Renamed" || !p.IsMod || p.XP != 75 {
		t.Errorf("fields not applied: name=%q mod=%v xp=%v", p.Name, p.IsMod, p.XP)
	}
}

func TestKickUserDisconnects(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("kicked", mgl64.Vec2{-8, -8})

	if !env.sim.KickUser(p.Address) {
		t.Fatal("known address not found")
	}
	if !p.IsDisconnected {
		t.Error("kicked player still connected")
	}
	if env.sim.KickUser(p.Address) {
		t.Error("kick reported for an already removed address")
	}
}

func TestInfoSnapshotCounts(t *testing.T) {
	env := newTestEnv(t)
	env.addAlivePlayer("a", mgl64.Vec2{-8, -8})
	b := env.addAlivePlayer("b", mgl64.Vec2{-9, -8})
	env.sim.Spectate(b.ID)

	env.sim.ApplyInit("gs-1", 7)
	info := env.sim.Info()

	if info.ID != "gs-1" {
		t.Errorf("server id = %q", info.ID)
	}
	if info.Round.ID != 7 {
		t.Errorf("round id = %d, want 7", info.Round.ID)
	}
	if info.ClientCount != 2 {
		t.Errorf("clients = %d, want 2", info.ClientCount)
	}
	if info.PlayerCount != 1 {
		t.Errorf("players = %d, want 1 with one spectating", info.PlayerCount)
	}
	if info.SpectatorCount != 1 {
		t.Errorf("spectators = %d, want 1", info.SpectatorCount)
	}
}

func TestSetPlayerCharacterRecomputesSpeed(t *testing.T) {
	env := newTestEnv(t)
	p := env.addAlivePlayer("geared", mgl64.Vec2{-8, -8})
	before := p.Speed

	ok := env.sim.SetPlayerCharacter(p.Address, Character{Meta: map[int]float64{
		MetaEvolutionMovementSpeedIncrease: 20,
	}})
	if !ok {
		t.Fatal("known address not found")
	}
	if p.Speed <= before {
		t.Errorf("speed = %v, want raised above %v by the equipment bonus", p.Speed, before)
	}
	if env.sim.SetPlayerCharacter("0xunknown", Character{}) {
		t.Error("unknown address reported updated")
	}
}
