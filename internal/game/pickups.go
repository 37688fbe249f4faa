package game

import (
	"encoding/json"
	"fmt"
	"log"
	"time"
)

func (s *Sim) spawnSpritesLocked(amount int) {
	for i := 0; i < amount; i++ {
		sprite := &Powerup{
			ID:       s.newID(),
			Type:     s.rng.Intn(4),
			Scale:    1,
			Position: s.unobstructedPositionLocked(),
		}
		s.powerups = append(s.powerups, sprite)
		s.powerupLookup[sprite.ID] = sprite

		s.publishLocked("OnSpawnPowerUp", sprite.ID, sprite.Type,
			sprite.Position.X(), sprite.Position.Y(), sprite.Scale)
	}
	s.cfg.SpritesTotal = len(s.powerups)
}

func (s *Sim) clearSpritesLocked() {
	s.powerups = s.powerups[:0]
	for id := range s.powerupLookup {
		delete(s.powerupLookup, id)
	}
}

func (s *Sim) removeSpriteLocked(id string) {
	delete(s.powerupLookup, id)
	for i, p := range s.powerups {
		if p.ID == id {
			s.powerups = append(s.powerups[:i], s.powerups[i+1:]...)
			break
		}
	}
}

func (s *Sim) removeOrbLocked(id string) {
	delete(s.orbLookup, id)
	for i, o := range s.orbs {
		if o.ID == id {
			s.orbs = append(s.orbs[:i], s.orbs[i+1:]...)
			break
		}
	}
}

// syncSpritesLocked settles the sprite pool at start count plus one per
// active player, despawning the tail or topping up as needed.
func (s *Sim) syncSpritesLocked() {
	playerCount := s.activePlayerCountLocked()
	target := s.cfg.SpritesStartCount + playerCount*s.cfg.SpritesPerPlayerCount

	if len(s.powerups) > target {
		removed := s.powerups[target:]
		s.powerups = s.powerups[:target]
		for _, p := range removed {
			delete(s.powerupLookup, p.ID)
			s.publishLocked("OnUpdatePickup", "null", p.ID, 0)
		}
		s.cfg.SpritesTotal = target
	} else if target > len(s.powerups) {
		s.spawnSpritesLocked(target - len(s.powerups))
	}
}

// randomizeSpriteXpLocked shuffles which sprite type is worth which xp so
// no round rewards memorizing the colors.
func (s *Sim) randomizeSpriteXpLocked() {
	values := []float64{2, 4, 8, 16}
	s.rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	s.cfg.PowerupXp0 = values[0]
	s.cfg.PowerupXp1 = values[1]
	s.cfg.PowerupXp2 = values[2]
	s.cfg.PowerupXp3 = values[3]
}

func (s *Sim) powerupXpLocked(spriteType int) float64 {
	switch spriteType {
	case 1:
		return s.cfg.PowerupXp1
	case 2:
		return s.cfg.PowerupXp2
	case 3:
		return s.cfg.PowerupXp3
	}
	return s.cfg.PowerupXp0
}

// detectPickupsLocked claims sprites, matured orbs and the current reward
// for any player in touch range.
func (s *Sim) detectPickupsLocked() {
	now := s.now()
	nowMillis := now.UnixMilli()

	for _, p := range s.clients {
		if p.IsDead || p.IsSpectating {
			continue
		}
		if p.IsPhased || now.Before(p.PhasedUntil) {
			continue
		}

		touchDistance := s.cfg.PickupDistance + s.touchDistanceLocked(p.Avatar)

		for _, sprite := range append([]*Powerup{}, s.powerups...) {
			if Distance(p.Position, sprite.Position) > touchDistance {
				continue
			}

			if s.cfg.GameMode == "Hayai" {
				p.BaseSpeed -= 0.001
				if p.BaseSpeed <= 0.5 {
					p.BaseSpeed = 0.5
				}
			}

			value := s.powerupXpLocked(sprite.Type)
			s.applySpriteSideEffectsLocked(p, sprite.Type)

			p.Powerups++
			p.Points += s.cfg.PointsPerPowerup
			p.XP += value * s.cfg.SpriteXpMultiplier

			s.publishLocked("OnUpdatePickup", p.ID, sprite.ID, value)

			s.removeSpriteLocked(sprite.ID)
			s.spawnSpritesLocked(1)
		}

		isNew := p.JoinedAt >= now.Unix()-int64(s.cfg.ImmunitySeconds) || p.IsInvincible
		if isNew {
			continue
		}

		for _, orb := range append([]*Orb{}, s.orbs...) {
			if nowMillis < orb.EnabledAt {
				continue
			}
			if Distance(p.Position, orb.Position) > touchDistance {
				continue
			}

			p.Orbs++
			p.Points += orb.Points
			p.Points += s.cfg.PointsPerOrb

			s.publishLocked("OnUpdatePickup", p.ID, orb.ID, 0)
			s.removeOrbLocked(orb.ID)

			s.publishLocked("OnBroadcast",
				fmt.Sprintf("%s stole an orb (%s)", sanitizeText(p.Name), formatArg(orb.Points)), 0)
		}

		if reward := s.currentReward; reward != nil {
			if nowMillis >= reward.EnabledAt &&
				Distance(p.Position, reward.vec()) <= touchDistance {
				s.claimRewardLocked(p, reward)
				s.removeRewardLocked()
			}
		}
	}
}

// Per-mode sprite side effects, with their clamps.
func (s *Sim) applySpriteSideEffectsLocked(p *Player, spriteType int) {
	switch s.cfg.GameMode {
	case "Sprite Juice":
		switch spriteType {
		case 0:
			p.InvincibleUntil = s.now().Unix() + 2
		case 1:
			p.BaseSpeed += 0.05 * 2
			p.DecayPower -= 0.1 * 2
		case 2:
			p.BaseSpeed -= 0.05 * 2
		case 3:
			p.DecayPower += 0.1 * 2
		}
		if p.BaseSpeed < 0.25 {
			p.BaseSpeed = 0.25
		}
		if p.BaseSpeed > 2 {
			p.BaseSpeed = 2
		}
		if p.DecayPower < 0.5 {
			p.DecayPower = 0.5
		}
		if p.DecayPower > 2 {
			p.DecayPower = 8
		}
	case "Marco Polo":
		switch spriteType {
		case 0:
			p.CameraSize += 0.05
		case 1:
			p.CameraSize += 0.01
		case 2:
			p.CameraSize -= 0.01
		case 3:
			p.CameraSize -= 0.05
		}
		if p.CameraSize < 1.5 {
			p.CameraSize = 1.5
		}
		if p.CameraSize > 6 {
			p.CameraSize = 6
		}
	}
}

func (s *Sim) claimRewardLocked(p *Player, reward *Reward) {
	if reward == nil {
		return
	}
	if s.cfg.AnticheatSameRewardBlock && s.lastReward != nil && s.lastReward.Winner == p.Name {
		return
	}

	// The authority claim call stays disabled; rewards settle with the
	// round save.
	reward.Winner = p.Name

	s.publishLocked("OnUpdateReward", p.ID, reward.ID)

	p.Rewards++
	p.Points += s.cfg.PointsPerReward
	p.Pickups = append(p.Pickups, *reward)

	s.lastReward = reward
	s.currentReward = nil
}

func (s *Sim) removeRewardLocked() {
	if s.currentReward == nil {
		return
	}
	s.publishLocked("OnUpdateReward", "null", s.currentReward.ID)
	s.currentReward = nil
}

// spawnRewardLoop asks the authority for a drop when none is on the field.
func (s *Sim) spawnRewardLoop() {
	s.mu.Lock()
	if s.currentReward != nil {
		s.mu.Unlock()
		return
	}
	s.removeRewardLocked()
	s.mu.Unlock()

	res := s.realm.Call("GS_GetRandomRewardRequest", nil)
	if res.Status != 1 {
		return
	}

	var payload struct {
		Reward *Reward `json:"reward"`
	}
	if err := json.Unmarshal(res.Raw, &payload); err != nil || payload.Reward == nil {
		if err != nil {
			log.Printf("bad reward payload: %v", err)
		}
		return
	}
	reward := *payload.Reward

	s.mu.Lock()
	if reward.Type != "rune" {
		s.publishLocked("OnBroadcast",
			fmt.Sprintf("Powerful Energy Detected - %s", sanitizeText(reward.RewardItemName)), 3)
	}
	s.mu.Unlock()

	s.sched.After(3*time.Second, func() {
		s.mu.Lock()
		placed := reward
		s.currentReward = &placed
		s.publishLocked("OnSpawnReward", placed.ID, placed.RewardItemType,
			placed.RewardItemName, placed.Quantity, placed.Position.X, placed.Position.Y)
		s.mu.Unlock()

		s.sched.After(30*time.Second, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.currentReward == nil || s.currentReward.ID != reward.ID {
				return
			}
			s.removeRewardLocked()
		})
	})
}
