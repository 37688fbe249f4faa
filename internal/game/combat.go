package game

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// detectKillsLocked runs the pairwise touch scan. Slice order is the
// tie-break: the first touching pair found resolves first.
func (s *Sim) detectKillsLocked() {
	now := s.now()
	currentTime := now.Unix()

	// Touch range for the kill check is the base tier distance for every
	// avatar; only pickups widen with evolution.
	touch := s.cfg.AvatarTouchDistance0 * 2

	for i := 0; i < len(s.clients); i++ {
		p1 := s.clients[i]
		p1Invincible := p1.IsInvincible || p1.InvincibleUntil > currentTime
		if p1.IsSpectating || p1.IsDead || p1Invincible {
			continue
		}

		for j := 0; j < len(s.clients); j++ {
			p2 := s.clients[j]
			if p1.ID == p2.ID {
				continue
			}
			p2Invincible := p2.IsInvincible || p2.InvincibleUntil > currentTime
			if p2.IsDead || p2.IsSpectating || p2Invincible {
				continue
			}
			if p2.Avatar == p1.Avatar {
				continue
			}

			pos1 := p1.Position
			if p1.IsPhased && p1.PhasedPosition != nil {
				pos1 = *p1.PhasedPosition
			}
			pos2 := p2.Position
			if p2.IsPhased && p2.PhasedPosition != nil {
				pos2 = *p2.PhasedPosition
			}

			if Distance(pos1, pos2) > touch {
				continue
			}

			if p2.Avatar > p1.Avatar {
				s.registerKillLocked(p2, p1)
			} else {
				s.registerKillLocked(p1, p2)
			}
			break
		}
	}
}

// registerKillLocked resolves winner touching loser: feeding heuristics
// first, then scoring, the death orb and the loser's disconnect.
func (s *Sim) registerKillLocked(winner, loser *Player) {
	now := s.now()

	if s.cfg.IsGodParty {
		return
	}
	if winner.IsInvincible || loser.IsInvincible {
		return
	}
	if winner.IsGod || loser.IsGod {
		return
	}

	if s.cfg.GameMode != "Pandamonium" || !isPanda(winner.Address) {
		if s.cfg.PreventBadKills && (winner.IsPhased || now.Before(winner.PhasedUntil)) {
			return
		}

		totalKills := winner.countKillsOf(loser.Hash)

		notReallyTrying := false
		if s.cfg.Antifeed1 {
			notReallyTrying = (totalKills >= 2 && loser.Kills < 2 && loser.Rewards <= 1) ||
				(totalKills >= 2 && loser.Kills < 2 && loser.Powerups <= 100)
		}

		tooManyKills := false
		if s.cfg.Antifeed2 {
			alive := 0
			for _, c := range s.clients {
				if !c.IsDead {
					alive++
				}
			}
			tooManyKills = len(s.clients) > 2 && totalKills >= 5 && alive > 0 &&
				float64(totalKills) > float64(len(winner.Log.Kills))/float64(alive)
		}

		killingThemselves := s.cfg.Antifeed3 && winner.Hash == loser.Hash

		// Self-kills over a shared network are recorded but never block.
		allowKill := !notReallyTrying && !tooManyKills

		if notReallyTrying {
			loser.Log.NotReallyTrying++
		}
		if tooManyKills {
			loser.Log.TooManyKills++
		}
		if killingThemselves {
			loser.Log.KillingThemselves++
		}

		if s.cfg.PreventBadKills && !allowKill {
			loser.PhasedUntil = now.Add(2 * time.Second)
			return
		}
	}

	if s.cfg.GameMode == "Pandamonium" && !isPanda(winner.Address) {
		return
	}

	winner.Kills++
	winner.Points += s.cfg.PointsPerKill * float64(loser.Avatar+1)
	winner.Log.Kills = append(winner.Log.Kills, loser.Hash)

	orbOnDeathPercent := 0.0
	if s.cfg.OrbOnDeathPercent > 0 {
		orbOnDeathPercent = s.cfg.OrbOnDeathPercent
		if s.cfg.Leadercap && loser.Name == s.lastLeaderName {
			orbOnDeathPercent = 50
		}
	}
	orbPoints := math.Floor(loser.Points * (orbOnDeathPercent / 100))

	loser.Deaths++
	loser.Points = math.Floor(loser.Points * ((100 - orbOnDeathPercent) / 100))
	loser.IsDead = true
	loser.Log.Deaths = append(loser.Log.Deaths, winner.Hash)

	if winner.Points < 0 {
		winner.Points = 0
	}
	if loser.Points < 0 {
		loser.Points = 0
	}

	if n := len(winner.Log.Deaths); n > 0 && winner.Log.Deaths[n-1] == loser.Hash {
		winner.Log.Revenge++
	}

	s.publishLocked("OnGameOver", loser.ID, winner.ID)

	s.disconnectPlayerLocked(loser, "got killed", false)

	orb := &Orb{
		ID:        s.newID(),
		Type:      orbSpriteType,
		Points:    orbPoints,
		Scale:     orbPoints,
		EnabledAt: now.UnixMilli() + int64(s.cfg.OrbTimeoutSeconds*1000),
		Position:  mgl64.Vec2{loser.Position.X(), loser.Position.Y()},
	}

	currentRound := s.cfg.RoundID

	if s.cfg.OrbOnDeathPercent > 0 && !s.roundEndingSoonLocked(s.cfg.OrbCutoffSeconds) {
		s.sched.After(time.Duration(s.cfg.OrbTimeoutSeconds*float64(time.Second)), func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			// Dropped when the round rolled over before the orb matured.
			if s.cfg.RoundID != currentRound {
				return
			}
			s.orbs = append(s.orbs, orb)
			s.orbLookup[orb.ID] = orb
			s.publishLocked("OnSpawnPowerUp", orb.ID, orb.Type, orb.Position.X(), orb.Position.Y(), orb.Scale)
		})
	}
}
