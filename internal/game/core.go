package game

import (
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// MoveTowards steps current toward target by at most maxDelta, snapping to
// target once within range.
func MoveTowards(current, target mgl64.Vec2, maxDelta float64) mgl64.Vec2 {
	d := target.Sub(current)
	mag := d.Len()
	if mag <= maxDelta || mag == 0 {
		return target
	}
	return current.Add(d.Mul(maxDelta / mag))
}

func Distance(a, b mgl64.Vec2) float64 {
	return math.Hypot(a.X()-b.X(), a.Y()-b.Y())
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeFloat rounds to a fixed number of decimals so position math stays
// stable against accumulated float drift.
func normalizeFloat(f float64, decimals int) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', decimals, 64), 64)
	if err != nil {
		return f
	}
	return v
}

func isFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
