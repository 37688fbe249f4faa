package game

import (
	"fmt"
	"log"
	"sort"
	"time"
)

// ApplyInit stores the identity the authority assigned at startup.
func (s *Sim) ApplyInit(serverID string, roundID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base.ServerID = serverID
	s.roundBase.ServerID = serverID
	s.cfg.ServerID = serverID
	if roundID > 0 {
		s.base.RoundID = roundID
		s.roundBase.RoundID = roundID
		s.cfg.RoundID = roundID
	}
	log.Printf("initialized as server %s, round %d", serverID, s.cfg.RoundID)
}

// SetConfig applies admin overrides. Values land in the persistent config
// so they survive round composition, and in the live config so they take
// effect immediately. Returns the keys that were accepted.
func (s *Sim) SetConfig(values map[string]interface{}) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rewardsWereZero := s.cfg.RewardWinnerAmount == 0

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	applied := []string{}
	for _, key := range keys {
		v := values[key]
		if raw, ok := v.(string); ok {
			v = CoerceSettingValue(raw)
		}
		if !ApplySetting(&s.cfg, key, v) {
			continue
		}
		ApplySetting(&s.base, key, v)
		ApplySetting(&s.roundBase, key, v)
		applied = append(applied, key)
		s.publishLocked("OnBroadcast", fmt.Sprintf("%s = %s", key, formatArg(SettingValue(s.cfg, key))), 0)
	}

	if rewardsWereZero && s.cfg.RewardWinnerAmount > 0 {
		s.publishLocked("OnSetRoundInfo", s.roundInfoStringLocked())
	}

	return applied
}

// SharedConfig reports the client-visible settings as an ordered key list.
func (s *Sim) SharedConfig() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]interface{}{}
	for _, key := range sharedSettingKeys {
		out[key] = SettingValue(s.cfg, key)
	}
	return out
}

// SetMaintenance toggles maintenance mode. Entering it keeps current
// players connected but refuses new joins until lifted.
func (s *Sim) SetMaintenance(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base.IsMaintenance = on
	s.roundBase.IsMaintenance = on
	s.cfg.IsMaintenance = on
	s.publishLocked("OnMaintenance", on)
}

// StartBattleRoyale counts down over broadcast, then flips the mode live.
func (s *Sim) StartBattleRoyale() {
	s.mu.Lock()
	s.publishLocked("OnBroadcast", "Battle Royale in 3", 1)
	s.mu.Unlock()

	s.sched.After(1*time.Second, func() {
		s.mu.Lock()
		s.publishLocked("OnBroadcast", "Battle Royale in 2", 1)
		s.mu.Unlock()
	})
	s.sched.After(2*time.Second, func() {
		s.mu.Lock()
		s.publishLocked("OnBroadcast", "Battle Royale in 1", 1)
		s.mu.Unlock()
	})
	s.sched.After(3*time.Second, func() {
		s.mu.Lock()
		s.base.IsBattleRoyale = true
		s.cfg.IsBattleRoyale = true
		s.publishLocked("OnBroadcast", "Battle Royale Started", 3)
		s.publishLocked("OnBroadcast", "Last one standing wins!", 3)
		s.mu.Unlock()
	})
}

func (s *Sim) StopBattleRoyale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base.IsBattleRoyale = false
	s.cfg.IsBattleRoyale = false
	s.publishLocked("OnBroadcast", "Battle Royale Stopped", 0)
}

// PauseRound freezes kills, pickups and decay, and holds the rollover.
func (s *Sim) PauseRound() {
	s.sched.Cancel("round")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base.IsRoundPaused = true
	s.cfg.IsRoundPaused = true
	s.publishLocked("OnRoundPaused")
}

// StartRound forces an immediate rollover into the named game mode.
func (s *Sim) StartRound(gameMode string) {
	s.sched.Cancel("round")
	s.mu.Lock()
	if s.cfg.IsRoundPaused {
		s.base.IsRoundPaused = false
		s.cfg.IsRoundPaused = false
	}
	s.mu.Unlock()

	var preset *Preset
	if found, ok := FindPreset(gameMode); ok {
		preset = &found
	}
	s.ResetRound(preset)
}

func (s *Sim) EnableForceLevel2() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base.Level2Forced = true
	s.cfg.Level2Forced = true
}

func (s *Sim) DisableForceLevel2() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base.Level2Forced = false
	s.cfg.Level2Forced = false
}

func (s *Sim) StartGodParty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base.IsGodParty = true
	s.cfg.IsGodParty = true
	s.publishLocked("OnBroadcast", "God Party Started", 0)
}

func (s *Sim) StopGodParty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base.IsGodParty = false
	s.cfg.IsGodParty = false
	for _, c := range s.clients {
		c.IsInvincible = false
	}
	s.publishLocked("OnBroadcast", "God Party Stopped", 2)
}

func (s *Sim) StartRuneRoyale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base.IsRuneRoyale = true
	s.cfg.IsRuneRoyale = true
	s.publishLocked("OnBroadcast", "Rune Royale Started", 0)
}

func (s *Sim) PauseRuneRoyale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked("OnBroadcast", "Rune Royale Paused", 2)
}

func (s *Sim) UnpauseRuneRoyale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked("OnBroadcast", "Rune Royale Unpaused", 2)
}

func (s *Sim) StopRuneRoyale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base.IsRuneRoyale = false
	s.cfg.IsRuneRoyale = false
	s.publishLocked("OnBroadcast", "Rune Royale Stopped", 2)
}

// makeBattleAdjust shifts the live difficulty knobs by one step in either
// direction. Dynamic decay goes manual the moment an admin touches it.
func (s *Sim) makeBattleAdjust(direction float64, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.base.DynamicDecayPower = false
	s.cfg.DynamicDecayPower = false

	s.cfg.DecayPower += 2 * direction
	s.cfg.BaseSpeed += 1 * direction
	s.cfg.CheckPositionDistance += 1 * direction
	s.cfg.CheckInterval += 1 * direction
	s.cfg.SpritesStartCount -= int(10 * direction)

	s.publishLocked("OnSetPositionMonitor", fmt.Sprintf("%d:%d:%d",
		int(s.cfg.CheckPositionDistance+0.5), int(s.cfg.CheckInterval+0.5), int(s.cfg.ResetInterval+0.5)))
	s.publishLocked("OnBroadcast", label, 2)
	s.syncSpritesLocked()
}

func (s *Sim) MakeBattleHarder() { s.makeBattleAdjust(1, "Difficulty Increased!") }

func (s *Sim) MakeBattleEasier() { s.makeBattleAdjust(-1, "Difficulty Decreased!") }

func (s *Sim) ResetBattleDifficulty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.base.DynamicDecayPower = true
	s.cfg.DynamicDecayPower = true

	s.cfg.DecayPower = 1.4
	s.cfg.BaseSpeed = 3
	s.cfg.CheckPositionDistance = 2
	s.cfg.CheckInterval = 1
	s.cfg.SpritesStartCount = 50

	s.publishLocked("OnSetPositionMonitor", fmt.Sprintf("%d:%d:%d",
		int(s.cfg.CheckPositionDistance+0.5), int(s.cfg.CheckInterval+0.5), int(s.cfg.ResetInterval+0.5)))
	s.publishLocked("OnBroadcast", "Difficulty Reset!", 2)
	s.syncSpritesLocked()
}

// MessageUser delivers a private broadcast to one address.
func (s *Sim) MessageUser(address, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findByAddressLocked(address)
	if p == nil {
		return false
	}
	s.emitDirectLocked(p.ID, "OnBroadcast", sanitizeText(message), 0)
	return true
}

// ChangeUser patches a connected player's fields by name.
func (s *Sim) ChangeUser(address string, fields map[string]interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findByAddressLocked(address)
	if p == nil {
		return false
	}
	for key, raw := range fields {
		if str, ok := raw.(string); ok {
			raw = CoerceSettingValue(str)
		}
		switch key {
		case "name":
			if v, ok := raw.(string); ok {
				p.Name = v
			}
		case "isMod":
			if v, ok := raw.(bool); ok {
				p.IsMod = v
			}
		case "isBanned":
			if v, ok := raw.(bool); ok {
				p.IsBanned = v
			}
		case "isInvincible":
			if v, ok := raw.(bool); ok {
				p.IsInvincible = v
			}
		case "isGod":
			if v, ok := raw.(bool); ok {
				p.IsGod = v
			}
		case "xp":
			if v, ok := raw.(float64); ok {
				p.XP = v
			}
		case "points":
			if v, ok := raw.(float64); ok {
				p.Points = v
			}
		case "avatar":
			if v, ok := raw.(float64); ok {
				p.Avatar = int(v)
			}
		case "baseSpeed":
			if v, ok := raw.(float64); ok {
				p.BaseSpeed = v
			}
		case "decayPower":
			if v, ok := raw.(float64); ok {
				p.DecayPower = v
			}
		case "overrideSpeed":
			if v, ok := raw.(float64); ok {
				speed := v
				p.OverrideSpeed = &speed
			}
		case "overrideCameraSize":
			if v, ok := raw.(float64); ok {
				camera := v
				p.OverrideCameraSize = &camera
			}
		}
	}
	return true
}

// Broadcast sends an admin message to every session.
func (s *Sim) Broadcast(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked("OnBroadcast", sanitizeText(message), 0)
}

// KickUser drops the session bound to an address.
func (s *Sim) KickUser(address string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findByAddressLocked(address)
	if p == nil {
		return false
	}
	s.disconnectPlayerLocked(p, "kicked", false)
	return true
}

// Info is the operational snapshot served to the authority.
type Info struct {
	ID                 string    `json:"id"`
	Version            string    `json:"version"`
	Round              RoundInfo `json:"round"`
	ClientCount        int       `json:"clientCount"`
	PlayerCount        int       `json:"playerCount"`
	SpectatorCount     int       `json:"spectatorCount"`
	RecentPlayersCount int       `json:"recentPlayersCount"`
	SpritesCount       int       `json:"spritesCount"`
	ConnectedPlayers   []string  `json:"connectedPlayers"`
	RewardItemAmount   float64   `json:"rewardItemAmount"`
	RewardWinnerAmount float64   `json:"rewardWinnerAmount"`
	GameMode           string    `json:"gameMode"`
	Orbs               []*Orb    `json:"orbs"`
	CurrentReward      *Reward   `json:"currentReward"`
}

type RoundInfo struct {
	ID        int   `json:"id"`
	StartedAt int64 `json:"startedAt"`
}

func (s *Sim) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	spectators := 0
	names := []string{}
	for _, c := range s.clients {
		if c.IsSpectating {
			spectators++
		}
		if !c.IsDisconnected {
			names = append(names, c.Name)
		}
	}

	return Info{
		ID:                 s.cfg.ServerID,
		Version:            ServerVersion,
		Round:              RoundInfo{ID: s.cfg.RoundID, StartedAt: s.round.StartedAt},
		ClientCount:        len(s.clients),
		PlayerCount:        s.aliveCountLocked(),
		SpectatorCount:     spectators,
		RecentPlayersCount: len(s.round.Players),
		SpritesCount:       len(s.powerups),
		ConnectedPlayers:   names,
		RewardItemAmount:   s.cfg.RewardItemAmount,
		RewardWinnerAmount: s.cfg.RewardWinnerAmount,
		GameMode:           s.cfg.GameMode,
		Orbs:               s.orbs,
		CurrentReward:      s.currentReward,
	}
}

// SetPlayerCharacter merges an equipment stat block pushed by the
// authority into a connected player.
func (s *Sim) SetPlayerCharacter(address string, character Character) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findByAddressLocked(address)
	if p == nil {
		return false
	}
	if p.Character.Meta == nil {
		p.Character = defaultCharacter()
	}
	for key, value := range character.Meta {
		p.Character.Meta[key] = value
	}
	p.Speed = s.clientSpeedLocked(p)
	if bonus := p.Character.Meta[MetaEvolutionMovementSpeedIncrease]; bonus > 0 {
		s.emitDirectLocked(p.ID, "OnBroadcast", fmt.Sprintf("%s%% Increased Speed", formatArg(bonus)), 0)
	}
	return true
}
