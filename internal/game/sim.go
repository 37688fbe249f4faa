package game

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/arken-engineering/evolution-realm/internal/rpc"
)

// Emitter delivers encoded Events frames to sessions. The server layer
// implements it over websockets; tests implement it in memory.
type Emitter interface {
	Broadcast(payload []byte)
	Send(clientID string, payload []byte)
	Close(clientID string)
}

// RealmClient issues request/reply calls to the connected authority.
type RealmClient interface {
	Call(name string, data interface{}) rpc.Reply
	Connected() bool
}

// ObserverRegistry reports how many authority observer connections are
// still alive.
type ObserverRegistry interface {
	ConnectedObservers() int
}

type rankEntry struct {
	Kills int
}

// Sim is the authoritative game state. A single mutex guards everything;
// methods with the Locked suffix expect it held.
type Sim struct {
	mu        sync.Mutex
	clock     Clock
	sched     *Scheduler
	emitter   Emitter
	realm     RealmClient
	observers ObserverRegistry
	usernames UsernameResolver
	rng       *rand.Rand

	mapData []MapObject

	base      Settings // persists across rounds, admin writes land here
	roundBase Settings // base+preset composed at round start
	cfg       Settings // live, mutated during the round
	preset    Preset

	clients       []*Player
	lookup        map[string]*Player
	powerups      []*Powerup
	powerupLookup map[string]*Powerup
	orbs          []*Orb
	orbLookup     map[string]*Orb
	currentReward *Reward
	lastReward    *Reward

	round          *Round
	lastLeaderName string
	ranks          map[string]*rankEntry

	addressToUsername map[string]string

	eventQueue   []queuedEvent
	auditLimiter *rate.Limiter

	lastFastTick time.Time

	announceReboot   bool
	rebootAfterRound bool
	exit             func(code int)
}

// SimDeps carries the collaborators a Sim needs. Zero-value fields get
// production defaults.
type SimDeps struct {
	Clock     Clock
	Emitter   Emitter
	Realm     RealmClient
	Observers ObserverRegistry
	Usernames UsernameResolver
	MapData   []MapObject
	Settings  *Settings
	Seed      int64
	Exit      func(code int)
}

func NewSim(deps SimDeps) *Sim {
	clock := deps.Clock
	if clock == nil {
		clock = RealClock()
	}
	base := DefaultSettings()
	if deps.Settings != nil {
		base = *deps.Settings
	}
	seed := deps.Seed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	s := &Sim{
		clock:             clock,
		sched:             NewScheduler(clock),
		emitter:           deps.Emitter,
		realm:             deps.Realm,
		observers:         deps.Observers,
		usernames:         deps.Usernames,
		rng:               rand.New(rand.NewSource(seed)),
		mapData:           deps.MapData,
		base:              base,
		lookup:            map[string]*Player{},
		powerupLookup:     map[string]*Powerup{},
		orbLookup:         map[string]*Orb{},
		ranks:             map[string]*rankEntry{},
		addressToUsername: map[string]string{},
		auditLimiter:      rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		exit:              deps.Exit,
	}
	s.preset = GamePresets[s.rng.Intn(len(GamePresets))]
	s.roundBase = ComposeSettings(s.base, s.preset)
	s.cfg = s.roundBase
	s.round = newRound(clock.Now().Unix())
	s.lastFastTick = clock.Now()
	return s
}

func (s *Sim) now() time.Time { return s.clock.Now() }

func (s *Sim) nowMillis() int64 { return s.clock.Now().UnixMilli() }

// Settings returns a copy of the live config.
func (s *Sim) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Start seeds the playfield and arms every loop. Call once.
func (s *Sim) Start() {
	s.mu.Lock()
	s.randomRoundPresetLocked()
	s.clearSpritesLocked()
	s.spawnSpritesLocked(s.cfg.SpritesStartCount)
	s.mu.Unlock()

	cfgSeconds := func(read func(Settings) float64) func() time.Duration {
		return func() time.Duration {
			s.mu.Lock()
			defer s.mu.Unlock()
			return time.Duration(read(s.cfg) * float64(time.Second))
		}
	}

	s.sched.Repeat("fast", cfgSeconds(func(c Settings) float64 { return c.FastLoopSeconds }), s.fastLoop)
	s.sched.Repeat("slow", cfgSeconds(func(c Settings) float64 { return c.SlowLoopSeconds }), s.slowLoop)
	s.sched.Repeat("leaderboard", cfgSeconds(func(c Settings) float64 { return c.SendUpdateLoopSeconds }), s.sendLeaderboard)
	s.sched.Repeat("reward", cfgSeconds(func(c Settings) float64 { return c.RewardSpawnLoopSeconds }), s.spawnRewardLoop)
	s.sched.Repeat("connection", cfgSeconds(func(c Settings) float64 { return c.CheckConnectionLoopSeconds }), s.checkConnections)
	s.armRoundTimer()
	s.sched.Schedule("observers", 30*time.Second, s.monitorObservers)
}

func (s *Sim) armRoundTimer() {
	s.mu.Lock()
	d := time.Duration(s.cfg.RoundLoopSeconds * float64(time.Second))
	s.mu.Unlock()
	s.sched.Schedule("round", d, func() { s.ResetRound(nil) })
}

// PauseRoundTimer stops the pending round rollover.
func (s *Sim) PauseRoundTimer() { s.sched.Cancel("round") }

func (s *Sim) aliveCountLocked() int {
	n := 0
	for _, c := range s.clients {
		if !c.IsDead && !c.IsSpectating {
			n++
		}
	}
	return n
}

func (s *Sim) activePlayerCountLocked() int {
	n := 0
	for _, c := range s.clients {
		if !c.IsDead && !c.IsSpectating && !c.IsGod {
			n++
		}
	}
	return n
}

func (s *Sim) findByAddressLocked(address string) *Player {
	for _, c := range s.clients {
		if c.Address == address {
			return c
		}
	}
	return nil
}

// clientSpeed folds the avatar multiplier, per-round speed modifiers and
// equipment bonus into one movement speed.
func (s *Sim) clientSpeedLocked(p *Player) float64 {
	if p.OverrideSpeed != nil {
		return *p.OverrideSpeed
	}
	mult := s.cfg.AvatarSpeedMultiplier0
	switch p.Avatar {
	case 1:
		mult = s.cfg.AvatarSpeedMultiplier1
	case 2:
		mult = s.cfg.AvatarSpeedMultiplier2
	}
	bonus := 1 + p.Character.Meta[MetaEvolutionMovementSpeedIncrease]/100
	return normalizeFloat(s.cfg.BaseSpeed*mult*p.BaseSpeed*bonus, 2)
}

func (s *Sim) touchDistanceLocked(avatar int) float64 {
	switch avatar {
	case 1:
		return s.cfg.AvatarTouchDistance1
	case 2:
		return s.cfg.AvatarTouchDistance2
	}
	return s.cfg.AvatarTouchDistance0
}

func (s *Sim) roundTimerLocked() int64 {
	return s.round.StartedAt + int64(s.cfg.RoundLoopSeconds) - s.now().Unix()
}

func (s *Sim) roundEndingSoonLocked(sec float64) bool {
	return float64(s.roundTimerLocked()) < sec
}

func (s *Sim) randomSpawnPointLocked() mgl64.Vec2 {
	return playerSpawnPoints[s.rng.Intn(len(playerSpawnPoints))]
}

func (s *Sim) randomPositionLocked(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

// unobstructedPositionLocked draws spawn positions until one misses every
// collider. The spawn area widens while level 2 is open.
func (s *Sim) unobstructedPositionLocked() mgl64.Vec2 {
	b := spawnBoundary1
	if s.cfg.Level2Open {
		b = spawnBoundary2
	}
	for {
		pos := mgl64.Vec2{
			s.randomPositionLocked(b.MinX, b.MaxX),
			s.randomPositionLocked(b.MinY, b.MaxY),
		}
		collided := false
		for _, obj := range s.mapData {
			for _, c := range obj.Colliders {
				if colliderContains(obj, c, pos, s.cfg.Level2Open) {
					collided = true
					break
				}
			}
			if collided {
				break
			}
		}
		if !collided {
			return pos
		}
	}
}

func (s *Sim) newID() string { return uuid.NewString() }

// monitorObservers disconnects everyone while no authority observer is
// attached; the game cannot settle rounds without one.
func (s *Sim) monitorObservers() {
	s.mu.Lock()
	count := 0
	if s.observers != nil {
		count = s.observers.ConnectedObservers()
	}
	if count == 0 {
		s.publishLocked("OnBroadcast", "Realm not connected. Contact support.", 0)
		s.disconnectAllLocked("realm not connected")
	}
	s.mu.Unlock()

	s.sched.Schedule("observers", 5*time.Second, s.monitorObservers)
}

func (s *Sim) disconnectAllLocked(reason string) {
	if len(s.clients) == 0 {
		return
	}
	log.Printf("disconnecting all players (%s)", reason)
	for _, c := range append([]*Player{}, s.clients...) {
		s.disconnectPlayerLocked(c, reason, false)
	}
}

// DisconnectPlayer removes a session on behalf of the transport layer.
func (s *Sim) DisconnectPlayer(id, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.lookup[id]; ok {
		p.Log.ClientDisconnected++
		s.disconnectPlayerLocked(p, reason, false)
	}
}

func (s *Sim) disconnectPlayerLocked(p *Player, reason string, immediate bool) {
	if p.IsRealm {
		return
	}

	filtered := s.clients[:0]
	for _, c := range s.clients {
		if c.ID != p.ID {
			filtered = append(filtered, c)
		}
	}
	s.clients = filtered

	if s.cfg.GameMode == "Pandamonium" {
		alive := 0
		for _, c := range s.clients {
			if !c.IsDead && !c.IsDisconnected && !c.IsSpectating && !isPanda(c.Address) {
				alive++
			}
		}
		s.publishLocked("OnBroadcast", fmt.Sprintf("%d alive", alive), 0)
	}

	if p.IsDisconnected {
		return
	}

	log.Printf("disconnecting (%s) %s %s", reason, p.ID, p.Name)

	delete(s.lookup, p.ID)

	p.IsDisconnected = true
	p.IsDead = true
	p.JoinedAt = 0
	p.Latency = 0

	delay := time.Second
	if immediate {
		delay = 0
	}
	id := p.ID
	s.sched.After(delay, func() {
		s.mu.Lock()
		s.publishLocked("OnUserDisconnected", id)
		s.syncSpritesLocked()
		s.flushEventsLocked()
		s.mu.Unlock()
		if s.emitter != nil {
			s.emitter.Close(id)
		}
	})
}

// fatalTick mirrors the catch-all around the fast loop: state is assumed
// poisoned, everyone is dropped and the process exits.
func (s *Sim) fatalTick(err interface{}) {
	log.Printf("fast loop failure: %v", err)
	s.mu.Lock()
	s.disconnectAllLocked("fatal loop error")
	s.mu.Unlock()
	s.sched.After(2*time.Second, func() {
		if s.exit != nil {
			s.exit(1)
		}
	})
}
