package server

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// inboundMessage is the envelope every socket frame uses. Requests carry an
// id so the reply can be correlated; fire-and-forget events leave it empty.
type inboundMessage struct {
	ID   string          `json:"id,omitempty"`
	Name string          `json:"name"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outboundFrame struct {
	ID   string      `json:"id,omitempty"`
	Name string      `json:"name"`
	Data interface{} `json:"data,omitempty"`
}

type setInfoDTO struct {
	Name      string `json:"name"`
	Network   string `json:"network"`
	Address   string `json:"address"`
	Device    string `json:"device"`
	Signature string `json:"signature"`
	Version   string `json:"version"`
}

type updateMyselfDTO struct {
	Position string  `json:"position"`
	Target   string  `json:"target"`
	Time     float64 `json:"time"`
}

type signedRequestDTO struct {
	Signature struct {
		Address string `json:"address"`
		Hash    string `json:"hash"`
		Data    string `json:"data"`
	} `json:"signature"`
}

type setConfigDTO struct {
	signedRequestDTO
	Config map[string]interface{} `json:"config"`
}

type targetUserDTO struct {
	signedRequestDTO
	Target  string                 `json:"target"`
	Message string                 `json:"message"`
	Config  map[string]interface{} `json:"config"`
}

type broadcastDTO struct {
	signedRequestDTO
	Message string `json:"message"`
}

type startRoundDTO struct {
	signedRequestDTO
	GameMode string `json:"gameMode"`
}

// parseCoord splits an "x:y" pair. Some clients format floats with a comma
// decimal separator depending on locale, so commas become dots first.
func parseCoord(raw string) (x, y float64, err error) {
	raw = strings.ReplaceAll(raw, ",", ".")
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad coord %q", raw)
	}
	x, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad coord %q: %w", raw, err)
	}
	y, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad coord %q: %w", raw, err)
	}
	return x, y, nil
}
