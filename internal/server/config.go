package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/arken-engineering/evolution-realm/internal/game"
)

type fileConfig struct {
	Addr       *string                `json:"addr"`
	MapPath    *string                `json:"mapPath"`
	ProfileAPI *string                `json:"profileApi"`
	Game       map[string]interface{} `json:"game"`
}

// AppOverrides are optional command-line overrides layered on top of the
// config file.
type AppOverrides struct {
	Addr       *string
	MapPath    *string
	ProfileAPI *string
	Game       map[string]interface{}
}

type resolvedConfig struct {
	Addr       string
	MapPath    string
	ProfileAPI string
	Settings   game.Settings
}

func defaultResolvedConfig() resolvedConfig {
	return resolvedConfig{
		Addr:       ":4010",
		MapPath:    "data/map.json",
		ProfileAPI: "https://rune-api.binzy.workers.dev",
		Settings:   game.DefaultSettings(),
	}
}

func applyGameOverrides(settings *game.Settings, overrides map[string]interface{}) error {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		v := overrides[key]
		if raw, ok := v.(string); ok {
			v = game.CoerceSettingValue(raw)
		}
		if !game.ApplySetting(settings, key, v) {
			return fmt.Errorf("unknown game setting %q", key)
		}
	}
	return nil
}

func mergeFileConfig(base resolvedConfig, cfg fileConfig) (resolvedConfig, error) {
	if cfg.Addr != nil {
		base.Addr = *cfg.Addr
	}
	if cfg.MapPath != nil {
		base.MapPath = *cfg.MapPath
	}
	if cfg.ProfileAPI != nil {
		base.ProfileAPI = *cfg.ProfileAPI
	}
	if err := applyGameOverrides(&base.Settings, cfg.Game); err != nil {
		return base, err
	}
	return base, nil
}

func loadConfigFromFile(path string, base resolvedConfig) (resolvedConfig, error) {
	if path == "" {
		return base, nil
	}
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, fmt.Errorf("read config %q: %w", cleanPath, err)
	}
	var cfg fileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse config %q: %w", cleanPath, err)
	}
	merged, err := mergeFileConfig(base, cfg)
	if err != nil {
		return merged, fmt.Errorf("config %q: %w", cleanPath, err)
	}
	return merged, nil
}

func applyOverrides(base resolvedConfig, overrides AppOverrides) (resolvedConfig, error) {
	if overrides.Addr != nil {
		base.Addr = *overrides.Addr
	}
	if overrides.MapPath != nil {
		base.MapPath = *overrides.MapPath
	}
	if overrides.ProfileAPI != nil {
		base.ProfileAPI = *overrides.ProfileAPI
	}
	if err := applyGameOverrides(&base.Settings, overrides.Game); err != nil {
		return base, err
	}
	return base, nil
}
