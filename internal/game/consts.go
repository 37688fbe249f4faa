package game

import "github.com/go-gl/mathgl/mgl64"

const ServerVersion = "1.6.3"

// World extents. The playfield is a fixed Unity scene; positions outside
// mapBoundary are clamped server-side no matter what the client reports.
type boundary struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

var (
	mapBoundary = boundary{MinX: -38, MaxX: 2, MinY: -20, MaxY: 2}

	// Sprite spawn areas. The second one is only reachable while the
	// level 2 wall is down.
	spawnBoundary1 = boundary{MinX: -17, MaxX: 0, MinY: -13, MaxY: -4}
	spawnBoundary2 = boundary{MinX: -37, MaxX: 0, MinY: -13, MaxY: -2}
)

var playerSpawnPoints = []mgl64.Vec2{
	{-4.14, -11.66},
	{-11.14, -8.55},
	{-12.27, -14.24},
	{-7.08, -12.75},
	{-7.32, -15.29},
}

// Opening level 2 shifts the divider colliders down by this much.
const level2DividerShift = 25

// Alive-player hysteresis gap between opening and closing level 2.
const level2CloseGap = 7

const (
	spritesStartCountLevel2 = 200
	spritesStartCountLevel1 = 50
)

// Addresses that play as the panda during Pandamonium rounds.
var pandaAddresses = []string{
	"0x150F24A67d5541ee1F8aBce2b69046e25d64619c",
	"0x3551691499D740790C4511CDBD1D64b2f146f6Bd",
	"0x1a367CA7bD311F279F1dfAfF1e60c4d797Faa6eb",
	"0x82b644E1B2164F5B81B3e7F7518DdE8E515A419d",
	"0xeb3fCb993dDe8a2Cd081FbE36238E4d64C286AC0",
}

// Usernames that spawn as gods with a wide camera.
var godNames = []string{"Testman", "join"}

func isPanda(address string) bool {
	for _, a := range pandaAddresses {
		if a == address {
			return true
		}
	}
	return false
}

func isGodName(name string) bool {
	for _, n := range godNames {
		if n == name {
			return true
		}
	}
	return false
}
