package game

import "time"

// advanceMovementLocked steps every live player toward its reported target,
// clamps to the map boundary and resolves geometry collisions. dt is the
// elapsed time since the previous fast tick in seconds.
func (s *Sim) advanceMovementLocked(dt float64) {
	now := s.now()

	for _, p := range append([]*Player{}, s.clients...) {
		if p.IsDead || p.IsSpectating || p.IsJoining {
			continue
		}

		if !isFinite(p.Position.X(), p.Position.Y(), p.Speed) {
			p.Log.SpeedProblem++
			s.disconnectPlayerLocked(p, "speed problem", false)
			continue
		}

		// A server/client gap above 2 units phases the player out of
		// combat rather than punishing what is usually plain latency.
		if Distance(p.Position, p.ClientPosition) > 2 {
			p.PhasedUntil = now.Add(2 * time.Second)
			p.Log.Phases++
			p.Log.ClientDistanceProblem++
		}

		pos := MoveTowards(p.Position, p.ClientTarget, p.effectiveSpeed()*dt)

		outOfBounds := false
		if pos.X() > mapBoundary.MaxX {
			pos[0] = mapBoundary.MaxX
			outOfBounds = true
		}
		if pos.X() < mapBoundary.MinX {
			pos[0] = mapBoundary.MinX
			outOfBounds = true
		}
		if pos.Y() > mapBoundary.MaxY {
			pos[1] = mapBoundary.MaxY
			outOfBounds = true
		}
		if pos.Y() < mapBoundary.MinY {
			pos[1] = mapBoundary.MinY
			outOfBounds = true
		}
		if outOfBounds {
			p.Log.OutOfBounds++
		}

		collided := false
		stuck := false
		for _, obj := range s.mapData {
			for _, c := range obj.Colliders {
				if !colliderContains(obj, c, pos, s.cfg.Level2Open) {
					continue
				}
				switch classifyCollision(obj.Name, s.cfg.StickyIslands) {
				case collisionStuck:
					stuck = true
				case collisionSoft:
					collided = true
				}
			}
			if stuck || collided {
				break
			}
		}

		if p.IsGod {
			stuck = false
			collided = false
		}

		p.IsStuck = false

		halfSpeed := 0.5
		switch {
		case collided:
			p.Position = pos
			p.Target = p.ClientTarget
			p.PhasedUntil = now.Add(2 * time.Second)
			if p.PhasedPosition == nil {
				phased := pos
				p.PhasedPosition = &phased
			}
			p.Log.Phases++
			p.Log.Collided++
			p.OverrideSpeed = &halfSpeed
		case stuck:
			p.Target = p.ClientTarget
			p.PhasedUntil = now.Add(2 * time.Second)
			p.Log.Phases++
			p.Log.Stuck++
			p.OverrideSpeed = &halfSpeed
			if s.cfg.StickyIslands {
				p.IsStuck = true
			}
		default:
			p.Position = pos
			p.Target = p.ClientTarget
			p.OverrideSpeed = nil
		}

		p.Log.Positions++
	}

	s.updateLevel2GateLocked()
}

// updateLevel2GateLocked opens the second level once enough dragons are
// alive and closes it again only after the population drops well below the
// open threshold, so the wall does not flap around the boundary.
func (s *Sim) updateLevel2GateLocked() {
	if !s.cfg.Level2Allowed {
		return
	}

	alive := s.aliveCountLocked()

	if s.cfg.Level2Forced || alive >= s.cfg.PlayersRequiredForLevel2 {
		if !s.cfg.Level2Open {
			s.base.Level2Open = true
			s.cfg.Level2Open = true

			s.publishLocked("OnBroadcast", "Wall going down...", 0)

			s.sched.After(2*time.Second, func() {
				s.mu.Lock()
				defer s.mu.Unlock()
				s.base.SpritesStartCount = spritesStartCountLevel2
				s.cfg.SpritesStartCount = spritesStartCountLevel2
				s.clearSpritesLocked()
				s.spawnSpritesLocked(s.cfg.SpritesStartCount)
			})

			s.publishLocked("OnOpenLevel2")
		}
	}

	if !s.cfg.Level2Forced && alive < s.cfg.PlayersRequiredForLevel2-level2CloseGap {
		if s.cfg.Level2Open {
			s.base.Level2Open = false
			s.cfg.Level2Open = false

			s.publishLocked("OnBroadcast", "Wall going up...", 0)

			s.base.SpritesStartCount = spritesStartCountLevel1
			s.cfg.SpritesStartCount = spritesStartCountLevel1
			s.clearSpritesLocked()
			s.spawnSpritesLocked(s.cfg.SpritesStartCount)

			s.sched.After(2*time.Second, func() {
				s.mu.Lock()
				defer s.mu.Unlock()
				for _, p := range s.round.Players {
					s.resetPlayerLocked(p)
				}
			})

			s.publishLocked("OnCloseLevel2")
		}
	}
}

// resetPlayerLocked sends a player back to a base spawn point at tier zero.
func (s *Sim) resetPlayerLocked(p *Player) {
	spawn := s.randomSpawnPointLocked()
	p.Position = spawn
	p.Target = spawn
	p.ClientPosition = spawn
	p.ClientTarget = spawn
	p.Avatar = 0
	p.XP = 50
}

// ReportPosition handles an UpdateMyself message: activates a joining
// player and records the client's reported position and target.
func (s *Sim) ReportPosition(id string, posX, posY, targetX, targetY float64, reportedTime float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.lookup[id]
	if !ok {
		return
	}
	if p.IsDead && !p.IsJoining {
		return
	}
	if p.IsSpectating {
		return
	}

	if s.cfg.IsMaintenance && !p.IsMod {
		s.emitDirectLocked(p.ID, "OnMaintenance", true)
		s.disconnectPlayerLocked(p, "maintenance", false)
		return
	}

	now := s.now()

	// The report throttle doubles as a crude latency floor.
	if now.Sub(p.LastUpdate) < time.Duration(s.cfg.ForcedLatency)*time.Millisecond {
		return
	}

	if p.IsJoining {
		p.IsDead = false
		p.IsJoining = false
		p.JoinedAt = now.Unix()
		p.InvincibleUntil = p.JoinedAt + int64(s.cfg.ImmunitySeconds)

		if s.cfg.IsBattleRoyale {
			s.emitDirectLocked(p.ID, "OnBroadcast", "Spectate until the round is over", 0)
			s.spectateLocked(p)
			return
		}

		s.addToRoundPlayersLocked(p)

		s.publishLocked("OnSpawnPlayer", p.ID, p.Name, p.Speed, p.Avatar,
			p.Position.X(), p.Position.Y(), p.Position.X(), p.Position.Y())

		if s.cfg.IsRoundPaused {
			s.emitDirectLocked(p.ID, "OnRoundPaused")
			return
		}
	}

	if !isFinite(posX, posY, targetX, targetY) {
		return
	}
	if posX < mapBoundary.MinX || posX > mapBoundary.MaxX {
		return
	}
	if posY < mapBoundary.MinY || posY > mapBoundary.MaxY {
		return
	}

	if s.cfg.AnticheatDisconnectPositionJumps &&
		Distance(p.Position, [2]float64{posX, posY}) > 5 {
		p.Log.PositionJump++
		s.disconnectPlayerLocked(p, "position jumped", false)
		return
	}

	p.ClientPosition = [2]float64{normalizeFloat(posX, 4), normalizeFloat(posY, 4)}
	p.ClientTarget = [2]float64{normalizeFloat(targetX, 4), normalizeFloat(targetY, 4)}
	p.LastReportedTime = time.UnixMilli(int64(reportedTime))
	p.LastUpdate = now
}

func (s *Sim) addToRoundPlayersLocked(p *Player) {
	if p.Address == "" || p.Name == "" {
		return
	}
	filtered := s.round.Players[:0]
	for _, r := range s.round.Players {
		if r.Address != p.Address {
			filtered = append(filtered, r)
		}
	}
	s.round.Players = append(filtered, p)
}
