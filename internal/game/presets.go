package game

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }
func iptr(v int) *int         { return &v }

// GamePresets is the round mode catalog. The weighted draw at round reset
// skips entries marked IsOmit; those only run when an admin asks for them
// by name.
var GamePresets = []Preset{
	{
		GameMode:         "Standard",
		Weight:           20,
		Leadercap:        bptr(true),
		PointsPerEvolve:  fptr(1),
		PointsPerPowerup: fptr(1),
		PointsPerKill:    fptr(20),
		PointsPerReward:  fptr(5),
	},
	{
		GameMode:          "Lets Be Friends",
		Weight:            2,
		Leadercap:         bptr(true),
		PointsPerKill:     fptr(-200),
		OrbOnDeathPercent: fptr(0),
		Antifeed1:         bptr(false),
		Antifeed2:         bptr(false),
		CalcRoundRewards:  bptr(false),
		PreventBadKills:   bptr(false),
		Guide: []string{
			"Game Mode - Lets Be Friends",
			"-200 Points Per Kill",
			"No Death Orbs",
		},
	},
	{
		GameMode:          "Indiana Jones",
		Weight:            30,
		Leadercap:         bptr(true),
		PointsPerEvolve:   fptr(0),
		PointsPerPowerup:  fptr(0),
		PointsPerKill:     fptr(1),
		PointsPerReward:   fptr(100),
		PointsPerOrb:      fptr(1),
		BaseSpeed:         fptr(4),
		CameraSize:        fptr(2.5),
		HideMap:           bptr(true),
		OrbOnDeathPercent: fptr(0),
		Guide: []string{
			"Game Mode - Indiana Jones",
			"+100 Points Per Treasure Found",
		},
	},
	{
		GameMode:         "Mix Game 1",
		Weight:           1,
		IsOmit:           true,
		Leadercap:        bptr(true),
		PointsPerEvolve:  fptr(1),
		PointsPerPowerup: fptr(1),
		PointsPerKill:    fptr(1),
		PointsPerReward:  fptr(50),
		PointsPerOrb:     fptr(1),
	},
	{
		GameMode:        "Mix Game 2",
		Weight:          1,
		IsOmit:          true,
		Leadercap:       bptr(true),
		PointsPerEvolve: fptr(10),
		PointsPerKill:   fptr(200),
		PointsPerReward: fptr(20),
	},
	{
		GameMode:          "Deathmatch",
		Weight:            50,
		Leadercap:         bptr(true),
		PointsPerKill:     fptr(200),
		OrbOnDeathPercent: fptr(0),
		PointsPerEvolve:   fptr(0),
		PointsPerPowerup:  fptr(0),
		PointsPerReward:   fptr(1),
		PointsPerOrb:      fptr(0),
		BaseSpeed:         fptr(3.5),
		Antifeed1:         bptr(false),
		Guide: []string{
			"Game Mode - Deathmatch",
			"+300 Points Per Kill (Per Evolve)",
			"No Death Orbs",
			"Faster Decay",
		},
	},
	{
		GameMode:          "Evolution",
		Weight:            1,
		Leadercap:         bptr(true),
		PointsPerKill:     fptr(0),
		PointsPerEvolve:   fptr(1),
		PointsPerPowerup:  fptr(0),
		PointsPerReward:   fptr(0),
		PointsPerOrb:      fptr(0),
		OrbOnDeathPercent: fptr(0),
		Guide: []string{
			"Game Mode - Evolution",
			"+1 Points Per Evolution",
		},
	},
	{
		GameMode:         "Classic Evolution",
		Weight:           10,
		Leadercap:        bptr(true),
		PointsPerEvolve:  fptr(10),
		PointsPerPowerup: fptr(0),
		PointsPerReward:  fptr(0),
		PointsPerOrb:     fptr(0),
		Guide: []string{
			"Game Mode - Evolution",
			"+10 Points Per Evolution",
		},
	},
	{
		GameMode:          "Orb Master",
		Weight:            10,
		Leadercap:         bptr(true),
		OrbTimeoutSeconds: fptr(3),
		PointsPerOrb:      fptr(300),
		PointsPerEvolve:   fptr(0),
		PointsPerReward:   fptr(0),
		PointsPerPowerup:  fptr(1),
		PointsPerKill:     fptr(0),
		OrbCutoffSeconds:  fptr(0),
		Guide: []string{
			"Game Mode - Orb Master",
			"+200 Points Per Orb Pickup",
			"No Points Per Kill, Evolve, etc.",
			"Orbs Last Until End of Round",
		},
	},
	{
		GameMode:               "Sprite Leader",
		Weight:                 10,
		Leadercap:              bptr(true),
		SpritesPerPlayerCount:  iptr(40),
		AvatarDecayPower0:      fptr(2),
		AvatarDecayPower1:      fptr(2 * (7.0 / 1.4)),
		AvatarDecayPower2:      fptr(2 * (7.0 / 1.4)),
		AvatarSpeedMultiplier0: fptr(1.2),
		AvatarSpeedMultiplier1: fptr(1),
		AvatarSpeedMultiplier2: fptr(0.85),
		PointsPerEvolve:        fptr(0),
		PointsPerPowerup:       fptr(1),
		PointsPerReward:        fptr(0),
		PointsPerKill:          fptr(0),
		PointsPerOrb:           fptr(0),
		ImmunitySeconds:        fptr(2),
		OrbOnDeathPercent:      fptr(0),
		Guide: []string{
			"Game Mode - Sprite Leader",
			"+3 Sprites Per Player",
			"No Points Per Kill, Evolve, etc.",
			"No Orbs",
			"Faster Decay",
			"Longer Immunity",
		},
	},
	{
		GameMode:                       "Fast Drake",
		Weight:                         40,
		Leadercap:                      bptr(true),
		AvatarDecayPower0:              fptr(1),
		AvatarDecayPower1:              fptr(1),
		AvatarDecayPower2:              fptr(1),
		AvatarSpeedMultiplier2:         fptr(1.5),
		DecayPower:                     fptr(0.3),
		DecayPowerPerMaxEvolvedPlayers: fptr(25),
		ImmunitySeconds:                fptr(10),
		OrbOnDeathPercent:              fptr(0),
		SpritesPerPlayerCount:          iptr(20),
		Level2Forced:                   bptr(true),
		Guide: []string{
			"Game Mode - Fast Drake",
			"+50% Speed as Black Drake",
			"Faster Decay",
			"Longer Immunity",
		},
	},
	{
		GameMode:      "Bird Eye",
		Weight:        10,
		Leadercap:     bptr(true),
		CameraSize:    fptr(6),
		BaseSpeed:     fptr(3.5),
		DecayPower:    fptr(2.8),
		PointsPerKill: fptr(500),
		Level2Forced:  bptr(true),
		Guide: []string{
			"Game Mode - Bird Eye",
			"Faster Movement",
			"Faster Decay",
		},
	},
	{
		GameMode:               "Friendly Reverse",
		Weight:                 10,
		Leadercap:              bptr(true),
		PointsPerKill:          fptr(-200),
		OrbOnDeathPercent:      fptr(0),
		Antifeed1:              bptr(false),
		Antifeed2:              bptr(false),
		PointsPerEvolve:        fptr(25),
		AvatarSpeedMultiplier0: fptr(1),
		AvatarSpeedMultiplier1: fptr(1),
		AvatarSpeedMultiplier2: fptr(1),
		DecayPower:             fptr(-3),
		DynamicDecayPower:      bptr(false),
		AvatarDecayPower0:      fptr(4),
		AvatarDecayPower1:      fptr(3),
		AvatarDecayPower2:      fptr(2),
		SpriteXpMultiplier:     fptr(-1),
		SpritesPerPlayerCount:  iptr(10),
		PreventBadKills:        bptr(false),
		Guide: []string{
			"Game Mode - Friendly Reverse",
			"-200 Points Per Kill (Per Evolve)",
			"+25 Points Per Evolve",
			"Reverse Evolution",
			"No Orbs",
		},
	},
	{
		GameMode:                       "Reverse Evolve",
		Weight:                         1,
		Leadercap:                      bptr(true),
		StartAvatar:                    iptr(2),
		DecayPower:                     fptr(-1),
		Antifeed1:                      bptr(false),
		Antifeed2:                      bptr(false),
		DynamicDecayPower:              bptr(false),
		DecayPowerPerMaxEvolvedPlayers: fptr(2),
		AvatarDecayPower0:              fptr(4),
		AvatarDecayPower1:              fptr(3),
		AvatarDecayPower2:              fptr(2),
		SpriteXpMultiplier:             fptr(-2),
		Guide: []string{
			"Game Mode - Reverse Evolve",
			"Evolution is reversed",
		},
	},
	{
		GameMode:               "Classic Marco Polo",
		Weight:                 30,
		Leadercap:              bptr(true),
		CameraSize:             fptr(2),
		BaseSpeed:              fptr(2.5),
		DecayPower:             fptr(1.4),
		AvatarSpeedMultiplier0: fptr(1),
		AvatarSpeedMultiplier1: fptr(1),
		AvatarSpeedMultiplier2: fptr(1),
		HideMap:                bptr(true),
		Guide: []string{
			"Game Mode - Classic Marco Polo",
			"Zoomed in + no map",
			"Faster Decay",
		},
	},
	{
		GameMode:               "Marco Polo",
		Weight:                 20,
		Leadercap:              bptr(true),
		CameraSize:             fptr(2),
		BaseSpeed:              fptr(2.5),
		DecayPower:             fptr(1.4),
		AvatarSpeedMultiplier0: fptr(1),
		AvatarSpeedMultiplier1: fptr(1),
		AvatarSpeedMultiplier2: fptr(1),
		PointsPerReward:        fptr(20),
		HideMap:                bptr(true),
		Level2Forced:           bptr(true),
		Guide: []string{
			"Game Mode - Marco Polo",
			"Zoomed in + no map",
			"Sprites Change Camera",
		},
	},
	{
		GameMode:       "Sticky Mode",
		Weight:         1,
		IsOmit:         true,
		Leadercap:      bptr(true),
		StickyIslands:  bptr(true),
		ColliderBuffer: fptr(0),
		PointsPerKill:  fptr(50),
		PointsPerOrb:   fptr(100),
		Guide: []string{
			"Game Mode - Sticky Mode",
			"Sticky islands",
		},
	},
	{
		GameMode:                       "Sprite Juice",
		Weight:                         1,
		Leadercap:                      bptr(true),
		SpritesStartCount:              iptr(25),
		SpritesTotal:                   iptr(25),
		DecayPowerPerMaxEvolvedPlayers: fptr(2),
		Guide: []string{
			"Game Mode - Sprite Juice",
			"Purple - Increase Decay",
			"Pink - Decrease Speed",
			"Yellow - Increase Speed",
			"Blue - Shield",
		},
	},
	{
		GameMode:               "Pandamonium",
		Weight:                 2,
		IsOmit:                 true,
		IsBattleRoyale:         bptr(true),
		AvatarSpeedMultiplier0: fptr(1),
		AvatarSpeedMultiplier1: fptr(1),
		AvatarSpeedMultiplier2: fptr(1),
		Guide: []string{
			"Game Mode - Pandamonium",
			"Beware the Panda",
		},
	},
	{
		GameMode:     "Hayai",
		Weight:       2,
		IsOmit:       true,
		Leadercap:    bptr(true),
		Level2Forced: bptr(true),
		DecayPower:   fptr(3.6),
		Guide: []string{
			"Game Mode - Hayai",
			"You feel energy growing around you...",
		},
	},
	{
		GameMode:  "Storm Cuddle",
		Weight:    10,
		IsOmit:    true,
		Fortnight: true,
		Leadercap: bptr(true),
	},
}

// FindPreset returns the preset for a mode name, or false when unknown.
func FindPreset(gameMode string) (Preset, bool) {
	for _, p := range GamePresets {
		if p.GameMode == gameMode {
			return p, true
		}
	}
	return Preset{}, false
}

// GameModeGuide is what scrolls past players at round start.
func GameModeGuide(s Settings, preset Preset) []string {
	if len(preset.Guide) > 0 {
		return preset.Guide
	}
	return []string{
		"Game Mode - " + s.GameMode,
		"1. Eat sprites to stay alive",
		"2. Avoid bigger dragons",
		"3. Eat smaller dragons",
	}
}
