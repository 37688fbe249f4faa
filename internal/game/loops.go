package game

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// fastLoop is the main tick: movement and collisions, kill and pickup
// adjudication, decay and evolution, the per-player state broadcast and
// the queue flush.
func (s *Sim) fastLoop() {
	defer func() {
		if r := recover(); r != nil {
			s.fatalTick(r)
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dt := now.Sub(s.lastFastTick).Seconds()

	s.advanceMovementLocked(dt)

	if !s.cfg.IsRoundPaused {
		s.detectKillsLocked()
		s.detectPickupsLocked()
	}

	currentTime := now.Unix()

	for _, p := range append([]*Player{}, s.clients...) {
		if p.IsDisconnected || p.IsDead || p.IsSpectating || p.IsJoining {
			continue
		}

		isInvincible := s.cfg.IsGodParty || p.IsSpectating || p.IsGod || p.IsInvincible ||
			p.InvincibleUntil > currentTime
		isPhased := p.IsPhased || !now.After(p.PhasedUntil)

		if p.IsPhased && now.After(p.PhasedUntil) {
			p.PhasedUntil = time.Time{}
			p.IsPhased = false
		}

		p.Speed = s.clientSpeedLocked(p)

		if !s.cfg.IsRoundPaused && s.cfg.GameMode != "Pandamonium" {
			s.applyDecayLocked(p, isInvincible, currentTime)
		}

		p.Latency = now.Sub(p.LastReportedTime).Seconds() * 1000 / 2
		if math.IsNaN(p.Latency) {
			p.Latency = 0
		}

		if s.cfg.GameMode == "Pandamonium" && isPanda(p.Address) {
			p.Avatar = 2
		}

		invincibleFlag := "0"
		if isInvincible {
			invincibleFlag = "1"
		}
		stuckFlag := "0"
		if p.IsStuck {
			stuckFlag = "1"
		}
		phasedFlag := "0"
		if isPhased && !isInvincible {
			phasedFlag = "1"
		}

		s.publishLocked("OnUpdatePlayer",
			p.ID,
			p.effectiveSpeed(),
			p.effectiveCameraSize(),
			p.Position.X(),
			p.Position.Y(),
			p.Position.X(),
			p.Position.Y(),
			math.Floor(p.XP),
			now.UnixMilli(),
			math.Round(p.Latency),
			invincibleFlag,
			stuckFlag,
			phasedFlag,
		)
	}

	s.flushEventsLocked()

	if s.cfg.GameMode == "Hayai" {
		// Ambient speed creep: +5 base speed spread over five minutes of
		// ticks, scaled down to a quarter.
		timeStep := 5 * 60 * (s.cfg.FastLoopSeconds * 1000)
		speedMultiplier := 0.25

		s.cfg.BaseSpeed += normalizeFloat(5*speedMultiplier/timeStep, 2)
		s.cfg.CheckPositionDistance += normalizeFloat(6*speedMultiplier/timeStep, 2)
		s.cfg.CheckInterval += normalizeFloat(3*speedMultiplier/timeStep, 2)
	}

	if s.cfg.IsBattleRoyale {
		var alive []*Player
		for _, c := range s.clients {
			if !c.IsGod && !c.IsSpectating && !c.IsDead {
				alive = append(alive, c)
			}
		}
		if len(alive) == 1 {
			s.publishLocked("OnBroadcast",
				fmt.Sprintf("%s is the last dragon standing", sanitizeText(alive[0].Name)), 3)

			s.base.IsBattleRoyale = false
			s.cfg.IsBattleRoyale = false
			s.base.IsGodParty = true
			s.cfg.IsGodParty = true
		}
	}

	s.lastFastTick = now
}

// applyDecayLocked drains xp each tick and resolves the evolve/regress
// transitions at the 0 and 100 bounds.
func (s *Sim) applyDecayLocked(p *Player, isInvincible bool, currentTime int64) {
	decay := 0.0
	if !s.cfg.NoDecay {
		avatarDecay := s.avatarDecayPowerLocked(p.Avatar)
		if avatarDecay == 0 {
			avatarDecay = 1
		}
		decayBonus := 1 + (p.Character.Meta[MetaEnergyDecayIncrease]-p.Character.Meta[MetaEnergyDecayDecrease])/100
		decay = float64(p.Avatar+1) / (1 / s.cfg.FastLoopSeconds) *
			(avatarDecay * s.cfg.DecayPower) * decayBonus
	}

	if p.XP > 100 {
		if decay > 0 {
			if p.Avatar < s.cfg.MaxEvolves-1 {
				s.evolveLocked(p)
			} else {
				p.XP = 100
			}
		} else {
			if p.Avatar >= s.cfg.MaxEvolves-1 {
				p.XP = 100
			} else {
				s.evolveLocked(p)
			}
		}
		return
	}

	if !isInvincible {
		p.XP -= decay * p.DecayPower
	}

	if p.XP > 0 {
		return
	}
	p.XP = 0

	if decay > 0 {
		if p.Avatar == 0 {
			isNew := p.JoinedAt >= currentTime-int64(s.cfg.ImmunitySeconds)
			if !s.cfg.NoBoot && !isInvincible && !isNew && !s.cfg.IsGodParty {
				p.Log.RanOutOfHealth++
				s.disconnectPlayerLocked(p, "starved", false)
			}
		} else {
			s.regressLocked(p)
		}
	} else {
		if p.Avatar == 0 {
			p.XP = 0
		} else {
			s.regressLocked(p)
		}
	}
}

func (s *Sim) evolveLocked(p *Player) {
	p.XP -= 100
	p.Avatar = clampInt(p.Avatar+s.cfg.AvatarDirection, 0, s.cfg.MaxEvolves-1)
	p.Evolves++
	p.Points += s.cfg.PointsPerEvolve

	if s.cfg.Leadercap && p.Name == s.lastLeaderName {
		p.Speed = p.Speed * 0.8
	}
	s.publishLocked("OnUpdateEvolution", p.ID, p.Avatar, p.Speed)
}

func (s *Sim) regressLocked(p *Player) {
	p.XP = 100
	p.Avatar = clampInt(p.Avatar-s.cfg.AvatarDirection, 0, s.cfg.MaxEvolves-1)

	if s.cfg.Leadercap && p.Name == s.lastLeaderName {
		p.Speed = p.Speed * 0.8
	}
	s.publishLocked("OnUpdateRegression", p.ID, p.Avatar, p.Speed)
}

func (s *Sim) avatarDecayPowerLocked(avatar int) float64 {
	switch avatar {
	case 1:
		return s.cfg.AvatarDecayPower1
	case 2:
		return s.cfg.AvatarDecayPower2
	}
	return s.cfg.AvatarDecayPower0
}

// slowLoop rescales the per-avatar decay by how many players sit at the
// top tier, so a table full of max evolves drains faster.
func (s *Sim) slowLoop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cfg.DynamicDecayPower {
		return
	}

	maxEvolved := 0
	for _, p := range s.clients {
		if p.IsDead || p.IsSpectating {
			continue
		}
		if p.Avatar == s.cfg.MaxEvolves-1 {
			maxEvolved++
		}
	}

	boost := float64(maxEvolved) * s.cfg.DecayPowerPerMaxEvolvedPlayers
	s.cfg.AvatarDecayPower0 = s.roundBase.AvatarDecayPower0 + boost*0.33
	s.cfg.AvatarDecayPower1 = s.roundBase.AvatarDecayPower1 + boost*0.66
	s.cfg.AvatarDecayPower2 = s.roundBase.AvatarDecayPower1 + boost*1
}

// sendLeaderboard broadcasts the current top ten.
func (s *Sim) sendLeaderboard() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.publishLocked("OnClearLeaderboard")

	board := append([]*Player{}, s.round.Players...)
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Points > board[j].Points
	})
	if len(board) > 10 {
		board = board[:10]
	}

	for j, p := range board {
		latency := "-"
		if !p.IsDead {
			latency = formatArg(math.Round(p.Latency))
		}
		killScore := 1.0
		if r, ok := s.ranks[p.Address]; ok && r.Kills > 0 {
			killScore = float64(r.Kills) / 5
		}
		s.publishLocked("OnUpdateBestKiller",
			p.Name, j, p.Points, p.Kills, p.Deaths, p.Powerups,
			p.Evolves, p.Rewards, latency, killScore)
	}

	s.flushEventsLocked()
}

// checkConnections drops sessions that stopped reporting.
func (s *Sim) checkConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.NoBoot || s.cfg.IsRoundPaused {
		return
	}

	cutoff := s.now().Add(-time.Duration(s.cfg.DisconnectPlayerSeconds * float64(time.Second)))

	for _, p := range append([]*Player{}, s.clients...) {
		if p.IsSpectating || p.IsGod || p.IsMod || p.IsRealm {
			continue
		}
		if !p.LastReportedTime.After(cutoff) {
			p.Log.TimeoutDisconnect++
			s.disconnectPlayerLocked(p, "timed out", false)
		}
	}
}

// spectateLocked flips a player into the free-roam camera.
func (s *Sim) spectateLocked(p *Player) {
	if s.cfg.IsMaintenance && !p.IsMod {
		return
	}
	if p.IsSpectating {
		return
	}

	spectateSpeed := 7.0
	spectateCamera := 8.0

	p.IsSpectating = true
	p.IsInvincible = true
	p.Points = 0
	p.XP = 0
	p.Avatar = s.cfg.StartAvatar
	p.Speed = spectateSpeed
	p.OverrideSpeed = &spectateSpeed
	p.CameraSize = spectateCamera
	p.OverrideCameraSize = &spectateCamera
	p.Log.Spectating++

	s.syncSpritesLocked()

	s.publishLocked("OnSpectate", p.ID, p.Speed, p.CameraSize)
}

// Spectate handles the client Spectate message.
func (s *Sim) Spectate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.lookup[id]; ok {
		s.spectateLocked(p)
	}
}
