package game

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

// UsernameResolver maps a wallet address to a display name. The server
// layer backs it with the public profile API.
type UsernameResolver interface {
	Lookup(address string) (string, error)
}

// SetInfoPack is the identity payload a client sends after loading.
type SetInfoPack struct {
	Name      string `json:"name"`
	Network   string `json:"network"`
	Address   string `json:"address"`
	Device    string `json:"device"`
	Signature string `json:"signature"`
	Version   string `json:"version"`
}

// Connect registers a fresh session. Returns false when the session was
// rejected outright (duplicate network hash).
func (s *Sim) Connect(id, hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	spawn := s.randomSpawnPointLocked()

	p := &Player{
		ID:               id,
		Name:             fmt.Sprintf("Unknown%d", s.rng.Intn(999)),
		Hash:             hash,
		Position:         spawn,
		Target:           spawn,
		ClientPosition:   spawn,
		ClientTarget:     spawn,
		XP:               50,
		IsDead:           true,
		IsInvincible:     s.cfg.IsGodParty,
		CameraSize:       s.cfg.CameraSize,
		Speed:            s.cfg.BaseSpeed * s.cfg.AvatarSpeedMultiplier0,
		BaseSpeed:        1,
		DecayPower:       1,
		Pickups:          []Reward{},
		LastReportedTime: s.now(),
		PhasedUntil:      s.now(),
		JoinedRoundAt:    s.now(),
		GameMode:         s.cfg.GameMode,
		Character:        defaultCharacter(),
		Log:              newPlayerLog(),
	}

	log.Printf("user connected from hash %s", hash)

	if hash != "" {
		for _, c := range s.clients {
			if c.Hash == p.Hash && c.ID != p.ID {
				p.Log.SameNetworkDisconnect++
				s.clients = append(s.clients, p)
				s.lookup[p.ID] = p
				s.disconnectPlayerLocked(p, "same network", false)
				return false
			}
		}
	}

	s.lookup[p.ID] = p
	if len(s.lookup) == 1 {
		p.IsMasterClient = true
	}

	filtered := s.clients[:0]
	for _, c := range s.clients {
		if c.Hash != p.Hash {
			filtered = append(filtered, c)
		}
	}
	s.clients = append(filtered, p)

	return true
}

// Load answers the client's initial handshake.
func (s *Sim) Load(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.lookup[id]; ok {
		log.Printf("load %s", p.Hash)
		s.emitDirectLocked(p.ID, "OnLoaded", 1)
	}
}

func (s *Sim) normalizeAddress(address string) string {
	if address == "" {
		return ""
	}
	res := s.realm.Call("GS_NormalizeAddressRequest", map[string]string{"address": address})
	var payload struct {
		Address string `json:"address"`
	}
	if len(res.Raw) == 0 || json.Unmarshal(res.Raw, &payload) != nil {
		return ""
	}
	return payload.Address
}

func (s *Sim) isValidSignature(data, hash, address string) bool {
	if address == "" {
		return false
	}
	if len(address) != 42 || !strings.HasPrefix(address, "0x") {
		return false
	}
	res := s.realm.Call("GS_VerifySignatureRequest", map[string]interface{}{
		"signature": map[string]string{"data": data, "hash": hash, "address": address},
	})
	var payload struct {
		Verified bool `json:"verified"`
	}
	if len(res.Raw) == 0 || json.Unmarshal(res.Raw, &payload) != nil {
		return false
	}
	return payload.Verified
}

// IsValidAdminRequest verifies an admin signature with the authority.
func (s *Sim) IsValidAdminRequest(signatureAddress, signatureHash, data string) bool {
	if signatureAddress == "" {
		return false
	}
	if len(signatureAddress) != 42 || !strings.HasPrefix(signatureAddress, "0x") {
		return false
	}
	res := s.realm.Call("GS_VerifyAdminSignatureRequest", map[string]interface{}{
		"signature": map[string]string{"data": data, "hash": signatureHash, "address": signatureAddress},
	})
	return res.Status == 1
}

func (s *Sim) resolveUsername(address string) string {
	s.mu.Lock()
	name := s.addressToUsername[address]
	resolver := s.usernames
	s.mu.Unlock()

	if name != "" && !strings.HasPrefix(name, "Guest") {
		return name
	}
	if resolver == nil {
		return fmt.Sprintf("Guest%d", s.rng.Intn(999))
	}
	resolved, err := resolver.Lookup(address)
	if err != nil || resolved == "" {
		resolved = fmt.Sprintf("Guest%d", s.rng.Intn(999))
	}
	s.mu.Lock()
	s.addressToUsername[address] = resolved
	s.mu.Unlock()
	return resolved
}

// SetInfo authenticates a session: address normalization and signature
// verification against the authority, then identity assignment and
// round-session inheritance.
func (s *Sim) SetInfo(id string, pack SetInfoPack) {
	s.mu.Lock()
	p, ok := s.lookup[id]
	if !ok {
		s.mu.Unlock()
		return
	}

	if pack.Signature == "" || pack.Network == "" || pack.Device == "" || pack.Address == "" {
		p.Log.SigninProblem++
		s.disconnectPlayerLocked(p, "signin problem", false)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	address := s.normalizeAddress(pack.Address)

	if !s.isValidSignature("evolution", strings.TrimSpace(pack.Signature), address) {
		s.mu.Lock()
		p.Log.SignatureProblem++
		s.disconnectPlayerLocked(p, "signature problem", false)
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	if p.IsBanned {
		s.emitDirectLocked(p.ID, "OnBanned", true)
		s.disconnectPlayerLocked(p, "banned", false)
		s.mu.Unlock()
		return
	}
	if s.cfg.IsMaintenance && !p.IsMod {
		p.Log.MaintenanceJoin++
		s.emitDirectLocked(p.ID, "OnMaintenance", true)
		s.disconnectPlayerLocked(p, "maintenance", false)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	name := s.resolveUsername(address)
	if name == "" {
		s.mu.Lock()
		p.Log.UsernameProblem++
		s.disconnectPlayerLocked(p, "no name", false)
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if isGodName(name) {
		p.IsGod = true
		camera := 12.0
		p.OverrideCameraSize = &camera
	}

	log.Printf("user %s with address %s with hash %s", name, address, p.Hash)

	if p.Name == name && p.Address == address {
		return
	}

	p.Name = name
	p.Address = address
	p.Network = pack.Network
	p.Device = pack.Device

	for _, recent := range s.round.Players {
		if recent.Address != address || recent.ID == p.ID {
			continue
		}
		if s.now().Sub(recent.LastUpdate) < 3*time.Second {
			p.Log.RecentJoinProblem++
			s.disconnectPlayerLocked(p, "joined too soon", true)
			return
		}

		p.Pickups = recent.Pickups
		p.Kills = recent.Kills
		p.Deaths = recent.Deaths
		p.Points = recent.Points
		p.Evolves = recent.Evolves
		p.Powerups = recent.Powerups
		p.Rewards = recent.Rewards
		p.LastUpdate = recent.LastUpdate
		p.Log = recent.Log
		p.JoinedRoundAt = recent.JoinedRoundAt
		p.Character = recent.Character

		p.Log.Connects++
		break
	}

	s.publishLocked("OnSetInfo", p.ID, p.Name, p.Network, p.Address, p.Device)

	if s.cfg.LogConnections {
		log.Printf("connected hash=%s address=%s name=%s", p.Hash, p.Address, p.Name)
	}
}

// JoinRoom admits an authenticated session into the round after the
// authority confirms the user, then replays the world snapshot to it.
func (s *Sim) JoinRoom(id string) {
	s.mu.Lock()
	p, ok := s.lookup[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	address := p.Address
	s.mu.Unlock()

	log.Printf("join room %s %s", id, address)

	confirm := s.realm.Call("GS_ConfirmUserRequest", map[string]string{"address": address})
	if confirm.Status != 1 {
		s.mu.Lock()
		p.Log.FailedRealmCheck++
		s.disconnectPlayerLocked(p, "failed realm check", false)
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, recent := range s.round.Players {
		if recent.Address == p.Address && recent.ID != p.ID &&
			now.Sub(recent.LastUpdate) < 3*time.Second {
			p.Log.ConnectedTooSoon++
			s.disconnectPlayerLocked(p, "connected too soon", false)
			return
		}
	}

	if s.cfg.IsMaintenance && !p.IsMod {
		s.emitDirectLocked(p.ID, "OnMaintenance", true)
		s.disconnectPlayerLocked(p, "maintenance", false)
		return
	}

	p.IsJoining = true
	p.Avatar = s.cfg.StartAvatar
	p.Speed = s.clientSpeedLocked(p)

	if s.cfg.GameMode == "Pandamonium" && isPanda(p.Address) {
		p.Avatar = 2
		s.emitDirectLocked(p.ID, "OnUpdateEvolution", p.ID, p.Avatar, p.Speed)
	}

	log.Printf("player %s logged, %d total", p.ID, len(s.lookup))

	roundTimer := s.roundTimerLocked()
	s.emitDirectLocked(p.ID, "OnSetPositionMonitor", fmt.Sprintf("%d:%d:%d",
		int(s.cfg.CheckPositionDistance+0.5), int(s.cfg.CheckInterval+0.5), int(s.cfg.ResetInterval+0.5)))
	s.emitDirectLocked(p.ID, "OnJoinGame", p.ID, p.Name, p.Avatar, p.IsMasterClient,
		roundTimer, p.Position.X(), p.Position.Y())

	if s.observers != nil && s.observers.ConnectedObservers() == 0 {
		s.emitDirectLocked(p.ID, "OnBroadcast", "Realm not connected. Contact support.", 0)
		s.disconnectPlayerLocked(p, "realm not connected", false)
		return
	}

	if !s.cfg.IsRoundPaused {
		s.emitDirectLocked(p.ID, "OnSetRoundInfo", s.roundInfoStringLocked())
		s.emitDirectLocked(p.ID, "OnBroadcast",
			fmt.Sprintf("Game Mode - %s (Round %d)", s.cfg.GameMode, s.cfg.RoundID), 0)
	}

	s.syncSpritesLocked()

	if s.cfg.HideMap {
		s.emitDirectLocked(p.ID, "OnHideMinimap")
		s.emitDirectLocked(p.ID, "OnBroadcast", "Minimap hidden in this mode!", 2)
	}

	if s.cfg.Level2Open {
		s.emitDirectLocked(p.ID, "OnOpenLevel2")
		s.emitDirectLocked(p.ID, "OnBroadcast", "Wall going down!", 0)
	} else {
		s.emitDirectLocked(p.ID, "OnCloseLevel2")
	}

	if bonus := p.Character.Meta[MetaEvolutionMovementSpeedIncrease]; bonus > 0 {
		s.emitDirectLocked(p.ID, "OnBroadcast", fmt.Sprintf("%s%% Increased Speed", formatArg(bonus)), 0)
	}

	for _, c := range s.clients {
		if c.ID == p.ID {
			continue
		}
		if c.IsDisconnected || c.IsDead || c.IsSpectating || c.IsJoining {
			continue
		}
		s.emitDirectLocked(p.ID, "OnSpawnPlayer", c.ID, c.Name, c.Speed, c.Avatar,
			c.Position.X(), c.Position.Y(), c.Position.X(), c.Position.Y())
	}

	for _, sprite := range s.powerups {
		s.emitDirectLocked(p.ID, "OnSpawnPowerUp", sprite.ID, sprite.Type,
			sprite.Position.X(), sprite.Position.Y(), sprite.Scale)
	}

	for _, orb := range s.orbs {
		s.emitDirectLocked(p.ID, "OnSpawnPowerUp", orb.ID, orb.Type,
			orb.Position.X(), orb.Position.Y(), orb.Scale)
	}

	if s.currentReward != nil {
		r := s.currentReward
		s.emitDirectLocked(p.ID, "OnSpawnReward", r.ID, r.RewardItemType,
			r.RewardItemName, r.Quantity, r.Position.X, r.Position.Y)
	}

	p.LastUpdate = s.now()
}
