package game

import "github.com/go-gl/mathgl/mgl64"

// Powerup is a consumable sprite. Type 0-3 picks the xp table entry.
type Powerup struct {
	ID       string
	Type     int
	Scale    float64
	Position mgl64.Vec2
}

// Orb carries a slice of a dead player's points. It only becomes claimable
// at EnabledAt.
type Orb struct {
	ID        string
	Type      int
	Points    float64
	Scale     float64
	EnabledAt int64 // unix millis
	Position  mgl64.Vec2
}

const orbSpriteType = 4

// Reward is the single item drop the authority hands out between rounds of
// sprite spawns. Winner is filled on claim.
type Reward struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	RewardItemType int       `json:"rewardItemType"`
	RewardItemName string    `json:"rewardItemName"`
	Quantity       float64   `json:"quantity"`
	Position       rewardPos `json:"position"`
	EnabledAt      int64     `json:"enabledAt"`
	Winner         string    `json:"winner,omitempty"`
}

type rewardPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (r Reward) vec() mgl64.Vec2 { return mgl64.Vec2{r.Position.X, r.Position.Y} }

// RoundEvent is one audit record of an emitted event.
type RoundEvent struct {
	Type   string   `json:"type"`
	Player string   `json:"player,omitempty"`
	Name   string   `json:"name"`
	Args   []string `json:"args"`
}

// Round is the in-progress round record shipped to the authority on save.
type Round struct {
	StartedAt int64         `json:"startedAt"` // unix seconds
	EndedAt   int64         `json:"endedAt"`
	Players   []*Player     `json:"players"`
	Events    []RoundEvent  `json:"events"`
	States    []interface{} `json:"states"`
}

func newRound(startedAt int64) *Round {
	return &Round{
		StartedAt: startedAt,
		Players:   []*Player{},
		Events:    []RoundEvent{},
		States:    []interface{}{},
	}
}
