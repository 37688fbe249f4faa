package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// MapObject mirrors one entry of the exported scene geometry. Field names
// match the Unity export.
type MapObject struct {
	Name      string        `json:"Name"`
	Colliders []MapCollider `json:"Colliders"`
}

type MapCollider struct {
	Min [2]float64 `json:"Min"`
	Max [2]float64 `json:"Max"`
}

// LoadMapData reads the level geometry asset.
func LoadMapData(path string) ([]MapObject, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read map data %q: %w", cleanPath, err)
	}
	var objects []MapObject
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("parse map data %q: %w", cleanPath, err)
	}
	return objects, nil
}

// colliderContains reports whether pos is inside the collider, shifting the
// level 2 divider down while the wall is open.
func colliderContains(obj MapObject, c MapCollider, pos mgl64.Vec2, level2Open bool) bool {
	minX, maxX := c.Min[0], c.Max[0]
	minY, maxY := c.Min[1], c.Max[1]
	if level2Open && obj.Name == "Level2Divider" {
		minY -= level2DividerShift
		maxY -= level2DividerShift
	}
	return pos.X() >= minX && pos.X() <= maxX && pos.Y() >= minY && pos.Y() <= maxY
}

// collisionKind classifies geometry by name prefix.
type collisionKind int

const (
	collisionNone collisionKind = iota
	collisionStuck
	collisionSoft
)

func classifyCollision(name string, stickyIslands bool) collisionKind {
	switch {
	case strings.HasPrefix(name, "Land"):
		return collisionStuck
	case strings.HasPrefix(name, "Island"):
		if stickyIslands {
			return collisionStuck
		}
		return collisionSoft
	case strings.HasPrefix(name, "Collider"):
		return collisionStuck
	case strings.HasPrefix(name, "Level2Divider"):
		return collisionStuck
	}
	return collisionNone
}
