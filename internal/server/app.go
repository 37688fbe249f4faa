package server

import (
	"log"
	"os"

	"github.com/arken-engineering/evolution-realm/internal/game"
	"github.com/arken-engineering/evolution-realm/internal/rpc"
)

type AppConfig struct {
	ConfigPath string
	Overrides  AppOverrides
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		ConfigPath: "configs/server.json",
	}
}

func resolveConfig(cfg AppConfig) resolvedConfig {
	resolved := defaultResolvedConfig()
	loaded, err := loadConfigFromFile(cfg.ConfigPath, resolved)
	if err != nil {
		log.Printf("config: %v (using defaults)", err)
	} else {
		resolved = loaded
	}
	resolved, err = applyOverrides(resolved, cfg.Overrides)
	if err != nil {
		log.Fatalf("overrides: %v", err)
	}
	return resolved
}

func StartApp(cfg AppConfig) {
	resolved := resolveConfig(cfg)

	mapData, err := game.LoadMapData(resolved.MapPath)
	if err != nil {
		log.Fatalf("map data: %v", err)
	}
	log.Printf("loaded %d map objects from %s", len(mapData), resolved.MapPath)

	correlator := rpc.NewCorrelator()
	hub := NewHub()

	sim := game.NewSim(game.SimDeps{
		Emitter:   hub,
		Realm:     correlator,
		Observers: hub,
		Usernames: newProfileResolver(resolved.ProfileAPI),
		MapData:   mapData,
		Settings:  &resolved.Settings,
		Exit:      os.Exit,
	})
	hub.SetSim(sim)
	sim.Start()

	log.Printf("starting game server %s on %s (mode %s, round %d)",
		game.ServerVersion, resolved.Addr, resolved.Settings.GameMode, resolved.Settings.RoundID)
	startServer(hub, correlator, resolved.Addr)
}
