package main

import (
	"flag"

	"github.com/arken-engineering/evolution-realm/internal/server"
)

func main() {
	addr := flag.String("addr", "", "address to listen on (e.g., 127.0.0.1:4010)")
	configPath := flag.String("config", "configs/server.json", "path to server config JSON")
	mapPath := flag.String("map", "", "override path to map collider JSON")
	profileAPI := flag.String("profile-api", "", "override profile API base URL")
	gameMode := flag.String("game-mode", "", "override starting game mode")
	baseSpeed := flag.Float64("base-speed", 0, "override base movement speed")
	roundSeconds := flag.Float64("round-seconds", 0, "override round length in seconds")
	maintenance := flag.Bool("maintenance", false, "start in maintenance mode")
	flag.Parse()

	cfg := server.DefaultAppConfig()
	cfg.ConfigPath = *configPath

	var overrides server.AppOverrides
	overrides.Game = map[string]interface{}{}

	if *addr != "" {
		overrides.Addr = addr
	}
	if *mapPath != "" {
		overrides.MapPath = mapPath
	}
	if *profileAPI != "" {
		overrides.ProfileAPI = profileAPI
	}
	if *gameMode != "" {
		overrides.Game["gameMode"] = *gameMode
	}
	if *baseSpeed > 0 {
		overrides.Game["baseSpeed"] = *baseSpeed
	}
	if *roundSeconds > 0 {
		overrides.Game["roundLoopSeconds"] = *roundSeconds
	}
	if *maintenance {
		overrides.Game["isMaintenance"] = true
	}

	cfg.Overrides = overrides

	server.StartApp(cfg)
}
