package game

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

func (s *Sim) weightedPresetLocked(candidates []Preset) Preset {
	total := 0.0
	for _, p := range candidates {
		total += p.Weight
	}
	draw := s.rng.Float64() * total
	acc := 0.0
	for _, p := range candidates {
		acc += p.Weight
		if acc > draw {
			return p
		}
	}
	return candidates[len(candidates)-1]
}

// randomRoundPresetLocked redraws over the non-omitted presets until the
// mode changes, then composes the new round config.
func (s *Sim) randomRoundPresetLocked() {
	gameMode := s.cfg.GameMode

	var filtered []Preset
	for _, p := range GamePresets {
		if !p.IsOmit {
			filtered = append(filtered, p)
		}
	}

	for s.cfg.GameMode == gameMode {
		s.preset = s.weightedPresetLocked(filtered)
		s.roundBase = ComposeSettings(s.base, s.preset)
		s.cfg = s.roundBase
	}
}

func (s *Sim) roundInfoStringLocked() string {
	parts := []string{formatArg(s.roundTimerLocked())}
	parts = append(parts, RoundInfoValues(s.cfg)...)
	parts = append(parts, GameModeGuide(s.cfg, s.preset)...)
	return strings.Join(parts, ":")
}

// calcRoundRewards asks the authority to size the next round's rewards
// from the current player set. Called without the sim lock held.
func (s *Sim) calcRoundRewards() {
	s.mu.Lock()
	clients := append([]*Player{}, s.clients...)
	s.mu.Unlock()

	res := s.realm.Call("GS_ConfigureRequest", map[string]interface{}{"clients": clients})
	if len(res.Raw) == 0 {
		return
	}

	var payload struct {
		Data *struct {
			RewardWinnerAmount float64 `json:"rewardWinnerAmount"`
			RewardItemAmount   float64 `json:"rewardItemAmount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(res.Raw, &payload); err != nil || payload.Data == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wasZero := s.cfg.RewardWinnerAmount == 0

	s.base.RewardWinnerAmount = payload.Data.RewardWinnerAmount
	s.cfg.RewardWinnerAmount = payload.Data.RewardWinnerAmount
	s.base.RewardItemAmount = payload.Data.RewardItemAmount
	s.cfg.RewardItemAmount = payload.Data.RewardItemAmount

	if wasZero && payload.Data.RewardWinnerAmount != 0 {
		s.publishLocked("OnSetRoundInfo", s.roundInfoStringLocked())
	}
}

// ResetRound settles the finished round with the authority and starts the
// next one. A nil preset means a weighted redraw; an explicit preset comes
// from an admin StartRound.
func (s *Sim) ResetRound(preset *Preset) {
	s.mu.Lock()

	if s.cfg.GameMode == "Pandamonium" {
		s.mu.Unlock()
		s.armRoundTimer()
		return
	}

	observerCount := 0
	if s.observers != nil {
		observerCount = s.observers.ConnectedObservers()
	}
	if observerCount == 0 {
		s.publishLocked("OnBroadcast", "Realm not connected. Contact support.", 0)
		s.mu.Unlock()
		s.armRoundTimer()
		return
	}

	now := s.now()
	s.round.EndedAt = now.Unix()

	staleCutoff := now.Add(-7 * time.Second)

	var winners []*Player
	for _, p := range s.round.Players {
		if !p.LastUpdate.Before(staleCutoff) {
			winners = append(winners, p)
		}
	}
	sort.SliceStable(winners, func(i, j int) bool {
		return winners[i].Points > winners[j].Points
	})
	if len(winners) > 10 {
		winners = winners[:10]
	}

	if len(winners) > 0 {
		s.lastLeaderName = winners[0].Name
		log.Printf("round leader: %s (%s)", winners[0].Name, winners[0].Address)

		if winners[0].Address != "" {
			s.publishLocked("OnRoundWinner", winners[0].Name)
		}

		if s.cfg.IsBattleRoyale {
			top := winners
			if len(top) > 5 {
				top = top[:5]
			}
			names := make([]string, len(top))
			for i, w := range top {
				names[i] = sanitizeText(w.Name)
			}
			s.publishLocked("OnBroadcast",
				fmt.Sprintf("Top 5 - %s", strings.Join(names, ", ")), 0)
		}
	}

	savePayload := map[string]interface{}{
		"startedAt": s.round.StartedAt,
		"endedAt":   s.round.EndedAt,
		"players":   s.round.Players,
		"winners":   winners,
	}
	calcRewards := s.cfg.CalcRoundRewards
	s.mu.Unlock()

	// Fire and forget: a failed save zeroes the reward pool and warns
	// the room once the grace period passes.
	go func() {
		res := s.realm.Call("GS_SaveRoundRequest", savePayload)
		if res.Status == 1 {
			return
		}
		s.mu.Lock()
		s.base.RewardWinnerAmount = 0
		s.cfg.RewardWinnerAmount = 0
		s.base.RewardItemAmount = 0
		s.cfg.RewardItemAmount = 0
		s.mu.Unlock()

		s.sched.After(30*time.Second, func() {
			s.Publish("OnBroadcast", "Maintanence", 3)
		})
	}()

	if calcRewards {
		s.calcRoundRewards()
	}

	s.mu.Lock()
	s.startNextRoundLocked(preset)
	s.mu.Unlock()

	s.armRoundTimer()
}

func (s *Sim) startNextRoundLocked(preset *Preset) {
	if preset != nil {
		s.preset = *preset
		s.roundBase = ComposeSettings(s.base, s.preset)
		s.cfg = s.roundBase
	} else {
		s.randomRoundPresetLocked()
	}

	s.base.RoundID++
	s.cfg.RoundID = s.base.RoundID

	now := s.now()
	s.round = newRound(now.Unix())

	for _, c := range s.clients {
		rank, ok := s.ranks[c.Address]
		if !ok {
			rank = &rankEntry{}
			s.ranks[c.Address] = rank
		}
		rank.Kills += c.Kills

		c.JoinedRoundAt = now
		c.Points = 0
		c.Kills = 0
		c.Deaths = 0
		c.Evolves = 0
		c.Rewards = 0
		c.Orbs = 0
		c.Powerups = 0
		c.BaseSpeed = 1
		c.DecayPower = 1
		c.Pickups = []Reward{}
		c.XP = 50
		c.Avatar = s.cfg.StartAvatar
		c.Speed = s.clientSpeedLocked(c)
		c.CameraSize = c.effectiveCameraSize()
		c.resetLog()
		c.GameMode = s.cfg.GameMode

		if s.cfg.GameMode == "Pandamonium" && isPanda(c.Address) {
			c.Avatar = 2
			s.publishLocked("OnUpdateEvolution", c.ID, c.Avatar, c.Speed)
		} else {
			s.publishLocked("OnUpdateRegression", c.ID, c.Avatar, c.Speed)
		}

		if c.IsDead || c.IsSpectating {
			continue
		}

		c.StartedRoundAt = now.Unix()
		s.round.Players = append(s.round.Players, c)
	}

	for _, orb := range s.orbs {
		s.publishLocked("OnUpdatePickup", "null", orb.ID, 0)
	}
	s.orbs = s.orbs[:0]
	for id := range s.orbLookup {
		delete(s.orbLookup, id)
	}

	s.randomizeSpriteXpLocked()
	s.syncSpritesLocked()

	s.publishLocked("OnSetRoundInfo", s.roundInfoStringLocked())
	s.publishLocked("OnClearLeaderboard")
	s.publishLocked("OnBroadcast",
		fmt.Sprintf("Game Mode - %s (Round %d)", s.cfg.GameMode, s.cfg.RoundID), 0)

	if s.cfg.HideMap {
		s.publishLocked("OnHideMinimap")
		s.publishLocked("OnBroadcast", "Minimap hidden in this mode!", 2)
	} else {
		s.publishLocked("OnShowMinimap")
	}

	if s.cfg.PeriodicReboots && s.rebootAfterRound {
		s.publishLocked("OnMaintenance", true)
		s.sched.After(3*time.Second, func() {
			if s.exit != nil {
				s.exit(0)
			}
		})
	}

	if s.cfg.PeriodicReboots && s.announceReboot {
		s.publishLocked("OnBroadcast", "Restarting server at end of this round.", 1)
		s.rebootAfterRound = true
	}
}

// AnnounceReboot arms a restart at the end of the next full round.
func (s *Sim) AnnounceReboot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announceReboot = true
}
