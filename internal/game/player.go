package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Character meta keys, set by the authority per equipped item.
const (
	MetaEvolutionMovementSpeedIncrease = 1030
	MetaEnergyDecayDecrease            = 1104
	MetaEnergyDecayIncrease            = 1105
)

// Character is the equipment-derived stat block the authority pushes for a
// player. Meta values are percentages keyed by attribute id.
type Character struct {
	Meta map[int]float64 `json:"meta"`
}

func defaultCharacter() Character {
	return Character{Meta: map[int]float64{
		MetaEvolutionMovementSpeedIncrease: 0,
		MetaEnergyDecayDecrease:            0,
		MetaEnergyDecayIncrease:            0,
	}}
}

// PlayerLog counts everything suspicious or notable a session did. It is
// shipped to the authority with the round record.
type PlayerLog struct {
	Kills                 []string `json:"kills"`
	Deaths                []string `json:"deaths"`
	Revenge               int      `json:"revenge"`
	ResetPosition         int      `json:"resetPosition"`
	Phases                int      `json:"phases"`
	Stuck                 int      `json:"stuck"`
	Collided              int      `json:"collided"`
	TimeoutDisconnect     int      `json:"timeoutDisconnect"`
	SpeedProblem          int      `json:"speedProblem"`
	ClientDistanceProblem int      `json:"clientDistanceProblem"`
	OutOfBounds           int      `json:"outOfBounds"`
	RanOutOfHealth        int      `json:"ranOutOfHealth"`
	NotReallyTrying       int      `json:"notReallyTrying"`
	TooManyKills          int      `json:"tooManyKills"`
	KillingThemselves     int      `json:"killingThemselves"`
	SameNetworkDisconnect int      `json:"sameNetworkDisconnect"`
	ConnectedTooSoon      int      `json:"connectedTooSoon"`
	ClientDisconnected    int      `json:"clientDisconnected"`
	PositionJump          int      `json:"positionJump"`
	Pauses                int      `json:"pauses"`
	Connects              int      `json:"connects"`
	Positions             int      `json:"positions"`
	Spectating            int      `json:"spectating"`
	RecentJoinProblem     int      `json:"recentJoinProblem"`
	UsernameProblem       int      `json:"usernameProblem"`
	MaintenanceJoin       int      `json:"maintenanceJoin"`
	SignatureProblem      int      `json:"signatureProblem"`
	SigninProblem         int      `json:"signinProblem"`
	VersionProblem        int      `json:"versionProblem"`
	FailedRealmCheck      int      `json:"failedRealmCheck"`
}

func newPlayerLog() *PlayerLog {
	return &PlayerLog{Kills: []string{}, Deaths: []string{}}
}

// Player is one connected session and its round-scoped score state.
// Everything here is guarded by the owning Sim's mutex.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Network string `json:"network"`
	Device  string `json:"device"`
	Hash    string `json:"hash"`

	Position       mgl64.Vec2  `json:"position"`
	Target         mgl64.Vec2  `json:"target"`
	ClientPosition mgl64.Vec2  `json:"clientPosition"`
	ClientTarget   mgl64.Vec2  `json:"clientTarget"`
	PhasedPosition *mgl64.Vec2 `json:"-"`

	XP      float64 `json:"xp"`
	Avatar  int     `json:"avatar"`
	Points  float64 `json:"points"`
	Kills   int     `json:"kills"`
	Deaths  int     `json:"deaths"`
	Evolves int     `json:"evolves"`

	Powerups int      `json:"powerups"`
	Rewards  int      `json:"rewards"`
	Orbs     int      `json:"orbs"`
	Pickups  []Reward `json:"pickups"`
	Latency  float64  `json:"latency"`

	IsMod          bool `json:"isMod"`
	IsBanned       bool `json:"isBanned"`
	IsMasterClient bool `json:"isMasterClient"`
	IsDisconnected bool `json:"isDisconnected"`
	IsDead         bool `json:"isDead"`
	IsJoining      bool `json:"isJoining"`
	IsSpectating   bool `json:"isSpectating"`
	IsStuck        bool `json:"isStuck"`
	IsGod          bool `json:"isGod"`
	IsRealm        bool `json:"isRealm"`
	IsInvincible   bool `json:"isInvincible"`
	IsPhased       bool `json:"isPhased"`

	Speed              float64  `json:"speed"`
	OverrideSpeed      *float64 `json:"overrideSpeed"`
	CameraSize         float64  `json:"cameraSize"`
	OverrideCameraSize *float64 `json:"overrideCameraSize"`
	BaseSpeed          float64  `json:"baseSpeed"`
	DecayPower         float64  `json:"decayPower"`

	JoinedAt         int64     `json:"joinedAt"`         // unix seconds, zero until activated
	InvincibleUntil  int64     `json:"invincibleUntil"`  // unix seconds
	PhasedUntil      time.Time `json:"-"`
	LastReportedTime time.Time `json:"-"`
	LastUpdate       time.Time `json:"-"`
	JoinedRoundAt    time.Time `json:"-"`
	StartedRoundAt   int64     `json:"startedRoundAt"`

	GameMode  string     `json:"gameMode"`
	Character Character  `json:"character"`
	Log       *PlayerLog `json:"log"`
}

func (p *Player) resetLog() {
	p.Log = newPlayerLog()
}

// effectiveSpeed is the speed sent to clients and used for movement this
// tick: the collision override when phased against an island, otherwise the
// computed per-avatar speed.
func (p *Player) effectiveSpeed() float64 {
	if p.OverrideSpeed != nil {
		return *p.OverrideSpeed
	}
	return p.Speed
}

func (p *Player) effectiveCameraSize() float64 {
	if p.OverrideCameraSize != nil {
		return *p.OverrideCameraSize
	}
	return p.CameraSize
}

func (p *Player) countKillsOf(hash string) int {
	n := 0
	for _, h := range p.Log.Kills {
		if h == hash {
			n++
		}
	}
	return n
}
