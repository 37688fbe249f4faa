package game

import (
	"sort"
	"strconv"
)

// Settings is the composed round configuration. Base fields persist across
// rounds, shared fields are what clients are told about at round start, and
// preset overrides sit on top of both for the duration of one round.
type Settings struct {
	ServerID        string  `json:"id"`
	RoundID         int     `json:"roundId"`
	DamagePerTouch  float64 `json:"damagePerTouch"`
	PeriodicReboots bool    `json:"periodicReboots"`
	StartAvatar     int     `json:"startAvatar"`

	SpriteXpMultiplier             float64 `json:"spriteXpMultiplier"`
	ForcedLatency                  float64 `json:"forcedLatency"`
	IsRoundPaused                  bool    `json:"isRoundPaused"`
	Level2Forced                   bool    `json:"level2forced"`
	Level2Allowed                  bool    `json:"level2allowed"`
	Level2Open                     bool    `json:"level2open"`
	Level3Open                     bool    `json:"level3open"`
	HideMap                        bool    `json:"hideMap"`
	DynamicDecayPower              bool    `json:"dynamicDecayPower"`
	DecayPowerPerMaxEvolvedPlayers float64 `json:"decayPowerPerMaxEvolvedPlayers"`
	PickupCheckPositionDistance    float64 `json:"pickupCheckPositionDistance"`
	PlayersRequiredForLevel2       int     `json:"playersRequiredForLevel2"`
	PreventBadKills                bool    `json:"preventBadKills"`
	ColliderBuffer                 float64 `json:"colliderBuffer"`
	StickyIslands                  bool    `json:"stickyIslands"`
	Antifeed2                      bool    `json:"antifeed2"`
	Antifeed3                      bool    `json:"antifeed3"`
	Antifeed4                      bool    `json:"antifeed4"`
	IsBattleRoyale                 bool    `json:"isBattleRoyale"`
	IsGodParty                     bool    `json:"isGodParty"`
	IsRuneRoyale                   bool    `json:"isRuneRoyale"`
	AvatarDirection                int     `json:"avatarDirection"`
	CalcRoundRewards               bool    `json:"calcRoundRewards"`
	FlushEventQueueSeconds         float64 `json:"flushEventQueueSeconds"`
	LogConnections                 bool    `json:"logConnections"`

	AnticheatEnabled                 bool `json:"anticheatEnabled"`
	AnticheatSameRewardBlock         bool `json:"anticheatSameRewardBlock"`
	AnticheatDisconnectPositionJumps bool `json:"anticheatDisconnectPositionJumps"`

	Antifeed1                  bool    `json:"antifeed1"`
	AvatarDecayPower0          float64 `json:"avatarDecayPower0"`
	AvatarDecayPower1          float64 `json:"avatarDecayPower1"`
	AvatarDecayPower2          float64 `json:"avatarDecayPower2"`
	AvatarTouchDistance0       float64 `json:"avatarTouchDistance0"`
	AvatarTouchDistance1       float64 `json:"avatarTouchDistance1"`
	AvatarTouchDistance2       float64 `json:"avatarTouchDistance2"`
	AvatarSpeedMultiplier0     float64 `json:"avatarSpeedMultiplier0"`
	AvatarSpeedMultiplier1     float64 `json:"avatarSpeedMultiplier1"`
	AvatarSpeedMultiplier2     float64 `json:"avatarSpeedMultiplier2"`
	BaseSpeed                  float64 `json:"baseSpeed"`
	CameraSize                 float64 `json:"cameraSize"`
	CheckConnectionLoopSeconds float64 `json:"checkConnectionLoopSeconds"`
	CheckInterval              float64 `json:"checkInterval"`
	CheckPositionDistance      float64 `json:"checkPositionDistance"`
	ClaimingRewards            bool    `json:"claimingRewards"`
	DecayPower                 float64 `json:"decayPower"`
	DisconnectPlayerSeconds    float64 `json:"disconnectPlayerSeconds"`
	DisconnectPositionJumps    bool    `json:"disconnectPositionJumps"`
	FastestLoopSeconds         float64 `json:"fastestLoopSeconds"`
	FastLoopSeconds            float64 `json:"fastLoopSeconds"`
	GameMode                   string  `json:"gameMode"`
	ImmunitySeconds            float64 `json:"immunitySeconds"`
	IsMaintenance              bool    `json:"isMaintenance"`
	Leadercap                  bool    `json:"leadercap"`
	MaxEvolves                 int     `json:"maxEvolves"`
	NoBoot                     bool    `json:"noBoot"`
	NoDecay                    bool    `json:"noDecay"`
	OrbCutoffSeconds           float64 `json:"orbCutoffSeconds"`
	OrbOnDeathPercent          float64 `json:"orbOnDeathPercent"`
	OrbTimeoutSeconds          float64 `json:"orbTimeoutSeconds"`
	PickupDistance             float64 `json:"pickupDistance"`
	PointsPerEvolve            float64 `json:"pointsPerEvolve"`
	PointsPerKill              float64 `json:"pointsPerKill"`
	PointsPerOrb               float64 `json:"pointsPerOrb"`
	PointsPerPowerup           float64 `json:"pointsPerPowerup"`
	PointsPerReward            float64 `json:"pointsPerReward"`
	PowerupXp0                 float64 `json:"powerupXp0"`
	PowerupXp1                 float64 `json:"powerupXp1"`
	PowerupXp2                 float64 `json:"powerupXp2"`
	PowerupXp3                 float64 `json:"powerupXp3"`
	ResetInterval              float64 `json:"resetInterval"`
	RewardItemAmount           float64 `json:"rewardItemAmount"`
	RewardItemName             string  `json:"rewardItemName"`
	RewardItemType             int     `json:"rewardItemType"`
	RewardSpawnLoopSeconds     float64 `json:"rewardSpawnLoopSeconds"`
	RewardWinnerAmount         float64 `json:"rewardWinnerAmount"`
	RewardWinnerName           string  `json:"rewardWinnerName"`
	RoundLoopSeconds           float64 `json:"roundLoopSeconds"`
	SendUpdateLoopSeconds      float64 `json:"sendUpdateLoopSeconds"`
	SlowLoopSeconds            float64 `json:"slowLoopSeconds"`
	SpritesPerPlayerCount      int     `json:"spritesPerPlayerCount"`
	SpritesStartCount          int     `json:"spritesStartCount"`
	SpritesTotal               int     `json:"spritesTotal"`
}

func DefaultSettings() Settings {
	return Settings{
		RoundID:                        1,
		DamagePerTouch:                 2,
		StartAvatar:                    0,
		SpriteXpMultiplier:             1,
		ForcedLatency:                  20,
		Level2Allowed:                  true,
		DynamicDecayPower:              true,
		DecayPowerPerMaxEvolvedPlayers: 0.6,
		PickupCheckPositionDistance:    1,
		PlayersRequiredForLevel2:       15,
		ColliderBuffer:                 0.05,
		Antifeed2:                      true,
		Antifeed4:                      true,
		AvatarDirection:                1,
		CalcRoundRewards:               true,
		FlushEventQueueSeconds:         0.02,

		Antifeed1:                  true,
		AvatarDecayPower0:          1.5,
		AvatarDecayPower1:          2.5,
		AvatarDecayPower2:          3,
		AvatarTouchDistance0:       0.25 * 0.7,
		AvatarTouchDistance1:       0.45 * 0.7,
		AvatarTouchDistance2:       0.65 * 0.7,
		AvatarSpeedMultiplier0:     1,
		AvatarSpeedMultiplier1:     1,
		AvatarSpeedMultiplier2:     0.85,
		BaseSpeed:                  3,
		CameraSize:                 3,
		CheckConnectionLoopSeconds: 2,
		CheckInterval:              1,
		CheckPositionDistance:      2,
		DecayPower:                 2,
		DisconnectPlayerSeconds:    30,
		DisconnectPositionJumps:    true,
		FastestLoopSeconds:         0.02,
		FastLoopSeconds:            0.04,
		GameMode:                   "Standard",
		ImmunitySeconds:            5,
		MaxEvolves:                 3,
		OrbCutoffSeconds:           60,
		OrbOnDeathPercent:          25,
		OrbTimeoutSeconds:          10,
		PickupDistance:             0.3,
		PointsPerEvolve:            1,
		PointsPerKill:              20,
		PointsPerOrb:               1,
		PointsPerPowerup:           1,
		PointsPerReward:            5,
		PowerupXp0:                 2,
		PowerupXp1:                 4,
		PowerupXp2:                 8,
		PowerupXp3:                 16,
		ResetInterval:              3.1,
		RewardItemName:             "?",
		RewardSpawnLoopSeconds:     3 * 60 / 20,
		RewardWinnerName:           "ZOD",
		RoundLoopSeconds:           5 * 60,
		SendUpdateLoopSeconds:      3,
		SlowLoopSeconds:            1,
		SpritesPerPlayerCount:      1,
		SpritesStartCount:          50,
		SpritesTotal:               50,
	}
}

// Preset describes one game mode. Non-nil override fields replace the
// matching Settings field for the round the preset is drawn for.
type Preset struct {
	GameMode  string
	Weight    float64
	IsOmit    bool
	Fortnight bool
	Guide     []string

	Leadercap                      *bool
	PointsPerEvolve                *float64
	PointsPerPowerup               *float64
	PointsPerKill                  *float64
	PointsPerReward                *float64
	PointsPerOrb                   *float64
	OrbOnDeathPercent              *float64
	OrbTimeoutSeconds              *float64
	OrbCutoffSeconds               *float64
	Antifeed1                      *bool
	Antifeed2                      *bool
	CalcRoundRewards               *bool
	PreventBadKills                *bool
	BaseSpeed                      *float64
	CameraSize                     *float64
	HideMap                        *bool
	SpritesPerPlayerCount          *int
	SpritesStartCount              *int
	SpritesTotal                   *int
	AvatarDecayPower0              *float64
	AvatarDecayPower1              *float64
	AvatarDecayPower2              *float64
	AvatarSpeedMultiplier0         *float64
	AvatarSpeedMultiplier1         *float64
	AvatarSpeedMultiplier2         *float64
	ImmunitySeconds                *float64
	DecayPower                     *float64
	DecayPowerPerMaxEvolvedPlayers *float64
	DynamicDecayPower              *bool
	Level2Forced                   *bool
	StickyIslands                  *bool
	ColliderBuffer                 *float64
	StartAvatar                    *int
	SpriteXpMultiplier             *float64
	IsBattleRoyale                 *bool
}

func (p Preset) apply(base Settings) Settings {
	base.GameMode = p.GameMode
	if p.Leadercap != nil {
		base.Leadercap = *p.Leadercap
	}
	if p.PointsPerEvolve != nil {
		base.PointsPerEvolve = *p.PointsPerEvolve
	}
	if p.PointsPerPowerup != nil {
		base.PointsPerPowerup = *p.PointsPerPowerup
	}
	if p.PointsPerKill != nil {
		base.PointsPerKill = *p.PointsPerKill
	}
	if p.PointsPerReward != nil {
		base.PointsPerReward = *p.PointsPerReward
	}
	if p.PointsPerOrb != nil {
		base.PointsPerOrb = *p.PointsPerOrb
	}
	if p.OrbOnDeathPercent != nil {
		base.OrbOnDeathPercent = *p.OrbOnDeathPercent
	}
	if p.OrbTimeoutSeconds != nil {
		base.OrbTimeoutSeconds = *p.OrbTimeoutSeconds
	}
	if p.OrbCutoffSeconds != nil {
		base.OrbCutoffSeconds = *p.OrbCutoffSeconds
	}
	if p.Antifeed1 != nil {
		base.Antifeed1 = *p.Antifeed1
	}
	if p.Antifeed2 != nil {
		base.Antifeed2 = *p.Antifeed2
	}
	if p.CalcRoundRewards != nil {
		base.CalcRoundRewards = *p.CalcRoundRewards
	}
	if p.PreventBadKills != nil {
		base.PreventBadKills = *p.PreventBadKills
	}
	if p.BaseSpeed != nil {
		base.BaseSpeed = *p.BaseSpeed
	}
	if p.CameraSize != nil {
		base.CameraSize = *p.CameraSize
	}
	if p.HideMap != nil {
		base.HideMap = *p.HideMap
	}
	if p.SpritesPerPlayerCount != nil {
		base.SpritesPerPlayerCount = *p.SpritesPerPlayerCount
	}
	if p.SpritesStartCount != nil {
		base.SpritesStartCount = *p.SpritesStartCount
	}
	if p.SpritesTotal != nil {
		base.SpritesTotal = *p.SpritesTotal
	}
	if p.AvatarDecayPower0 != nil {
		base.AvatarDecayPower0 = *p.AvatarDecayPower0
	}
	if p.AvatarDecayPower1 != nil {
		base.AvatarDecayPower1 = *p.AvatarDecayPower1
	}
	if p.AvatarDecayPower2 != nil {
		base.AvatarDecayPower2 = *p.AvatarDecayPower2
	}
	if p.AvatarSpeedMultiplier0 != nil {
		base.AvatarSpeedMultiplier0 = *p.AvatarSpeedMultiplier0
	}
	if p.AvatarSpeedMultiplier1 != nil {
		base.AvatarSpeedMultiplier1 = *p.AvatarSpeedMultiplier1
	}
	if p.AvatarSpeedMultiplier2 != nil {
		base.AvatarSpeedMultiplier2 = *p.AvatarSpeedMultiplier2
	}
	if p.ImmunitySeconds != nil {
		base.ImmunitySeconds = *p.ImmunitySeconds
	}
	if p.DecayPower != nil {
		base.DecayPower = *p.DecayPower
	}
	if p.DecayPowerPerMaxEvolvedPlayers != nil {
		base.DecayPowerPerMaxEvolvedPlayers = *p.DecayPowerPerMaxEvolvedPlayers
	}
	if p.DynamicDecayPower != nil {
		base.DynamicDecayPower = *p.DynamicDecayPower
	}
	if p.Level2Forced != nil {
		base.Level2Forced = *p.Level2Forced
	}
	if p.StickyIslands != nil {
		base.StickyIslands = *p.StickyIslands
	}
	if p.ColliderBuffer != nil {
		base.ColliderBuffer = *p.ColliderBuffer
	}
	if p.StartAvatar != nil {
		base.StartAvatar = *p.StartAvatar
	}
	if p.SpriteXpMultiplier != nil {
		base.SpriteXpMultiplier = *p.SpriteXpMultiplier
	}
	if p.IsBattleRoyale != nil {
		base.IsBattleRoyale = *p.IsBattleRoyale
	}
	return base
}

// ComposeSettings layers a preset over the persistent base settings.
func ComposeSettings(base Settings, preset Preset) Settings {
	return preset.apply(base)
}

// CoerceSettingValue maps an admin-supplied string to the value it means:
// "true"/"false" become bools, numbers become float64, anything else stays
// a string.
func CoerceSettingValue(raw string) interface{} {
	if raw == "true" {
		return true
	}
	if raw == "false" {
		return false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func settingBool(v interface{}) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func settingFloat(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func settingInt(v interface{}) (int, bool) {
	f, ok := v.(float64)
	return int(f), ok
}

func settingString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// ApplySetting writes a coerced value into s by its wire key. Returns false
// for unknown keys or mismatched value kinds.
func ApplySetting(s *Settings, key string, v interface{}) bool {
	ok := false
	switch key {
	case "roundId":
		s.RoundID, ok = settingInt(v)
	case "damagePerTouch":
		s.DamagePerTouch, ok = settingFloat(v)
	case "periodicReboots":
		s.PeriodicReboots, ok = settingBool(v)
	case "startAvatar":
		s.StartAvatar, ok = settingInt(v)
	case "spriteXpMultiplier":
		s.SpriteXpMultiplier, ok = settingFloat(v)
	case "forcedLatency":
		s.ForcedLatency, ok = settingFloat(v)
	case "isRoundPaused":
		s.IsRoundPaused, ok = settingBool(v)
	case "level2forced":
		s.Level2Forced, ok = settingBool(v)
	case "level2allowed":
		s.Level2Allowed, ok = settingBool(v)
	case "level2open":
		s.Level2Open, ok = settingBool(v)
	case "level3open":
		s.Level3Open, ok = settingBool(v)
	case "hideMap":
		s.HideMap, ok = settingBool(v)
	case "dynamicDecayPower":
		s.DynamicDecayPower, ok = settingBool(v)
	case "decayPowerPerMaxEvolvedPlayers":
		s.DecayPowerPerMaxEvolvedPlayers, ok = settingFloat(v)
	case "pickupCheckPositionDistance":
		s.PickupCheckPositionDistance, ok = settingFloat(v)
	case "playersRequiredForLevel2":
		s.PlayersRequiredForLevel2, ok = settingInt(v)
	case "preventBadKills":
		s.PreventBadKills, ok = settingBool(v)
	case "colliderBuffer":
		s.ColliderBuffer, ok = settingFloat(v)
	case "stickyIslands":
		s.StickyIslands, ok = settingBool(v)
	case "antifeed1":
		s.Antifeed1, ok = settingBool(v)
	case "antifeed2":
		s.Antifeed2, ok = settingBool(v)
	case "antifeed3":
		s.Antifeed3, ok = settingBool(v)
	case "antifeed4":
		s.Antifeed4, ok = settingBool(v)
	case "isBattleRoyale":
		s.IsBattleRoyale, ok = settingBool(v)
	case "isGodParty":
		s.IsGodParty, ok = settingBool(v)
	case "isRuneRoyale":
		s.IsRuneRoyale, ok = settingBool(v)
	case "avatarDirection":
		s.AvatarDirection, ok = settingInt(v)
	case "calcRoundRewards":
		s.CalcRoundRewards, ok = settingBool(v)
	case "flushEventQueueSeconds":
		s.FlushEventQueueSeconds, ok = settingFloat(v)
	case "logConnections":
		s.LogConnections, ok = settingBool(v)
	case "anticheatEnabled":
		s.AnticheatEnabled, ok = settingBool(v)
	case "anticheatSameRewardBlock":
		s.AnticheatSameRewardBlock, ok = settingBool(v)
	case "anticheatDisconnectPositionJumps":
		s.AnticheatDisconnectPositionJumps, ok = settingBool(v)
	case "fastestLoopSeconds":
		s.FastestLoopSeconds, ok = settingFloat(v)
	case "fastLoopSeconds":
		s.FastLoopSeconds, ok = settingFloat(v)
	case "avatarDecayPower0":
		s.AvatarDecayPower0, ok = settingFloat(v)
	case "avatarDecayPower1":
		s.AvatarDecayPower1, ok = settingFloat(v)
	case "avatarDecayPower2":
		s.AvatarDecayPower2, ok = settingFloat(v)
	case "avatarTouchDistance0":
		s.AvatarTouchDistance0, ok = settingFloat(v)
	case "avatarTouchDistance1":
		s.AvatarTouchDistance1, ok = settingFloat(v)
	case "avatarTouchDistance2":
		s.AvatarTouchDistance2, ok = settingFloat(v)
	case "avatarSpeedMultiplier0":
		s.AvatarSpeedMultiplier0, ok = settingFloat(v)
	case "avatarSpeedMultiplier1":
		s.AvatarSpeedMultiplier1, ok = settingFloat(v)
	case "avatarSpeedMultiplier2":
		s.AvatarSpeedMultiplier2, ok = settingFloat(v)
	case "baseSpeed":
		s.BaseSpeed, ok = settingFloat(v)
	case "cameraSize":
		s.CameraSize, ok = settingFloat(v)
	case "checkConnectionLoopSeconds":
		s.CheckConnectionLoopSeconds, ok = settingFloat(v)
	case "checkInterval":
		s.CheckInterval, ok = settingFloat(v)
	case "checkPositionDistance":
		s.CheckPositionDistance, ok = settingFloat(v)
	case "claimingRewards":
		s.ClaimingRewards, ok = settingBool(v)
	case "decayPower":
		s.DecayPower, ok = settingFloat(v)
	case "disconnectPlayerSeconds":
		s.DisconnectPlayerSeconds, ok = settingFloat(v)
	case "disconnectPositionJumps":
		s.DisconnectPositionJumps, ok = settingBool(v)
	case "gameMode":
		s.GameMode, ok = settingString(v)
	case "immunitySeconds":
		s.ImmunitySeconds, ok = settingFloat(v)
	case "isMaintenance":
		s.IsMaintenance, ok = settingBool(v)
	case "leadercap":
		s.Leadercap, ok = settingBool(v)
	case "maxEvolves":
		s.MaxEvolves, ok = settingInt(v)
	case "noBoot":
		s.NoBoot, ok = settingBool(v)
	case "noDecay":
		s.NoDecay, ok = settingBool(v)
	case "orbCutoffSeconds":
		s.OrbCutoffSeconds, ok = settingFloat(v)
	case "orbOnDeathPercent":
		s.OrbOnDeathPercent, ok = settingFloat(v)
	case "orbTimeoutSeconds":
		s.OrbTimeoutSeconds, ok = settingFloat(v)
	case "pickupDistance":
		s.PickupDistance, ok = settingFloat(v)
	case "pointsPerEvolve":
		s.PointsPerEvolve, ok = settingFloat(v)
	case "pointsPerKill":
		s.PointsPerKill, ok = settingFloat(v)
	case "pointsPerOrb":
		s.PointsPerOrb, ok = settingFloat(v)
	case "pointsPerPowerup":
		s.PointsPerPowerup, ok = settingFloat(v)
	case "pointsPerReward":
		s.PointsPerReward, ok = settingFloat(v)
	case "powerupXp0":
		s.PowerupXp0, ok = settingFloat(v)
	case "powerupXp1":
		s.PowerupXp1, ok = settingFloat(v)
	case "powerupXp2":
		s.PowerupXp2, ok = settingFloat(v)
	case "powerupXp3":
		s.PowerupXp3, ok = settingFloat(v)
	case "resetInterval":
		s.ResetInterval, ok = settingFloat(v)
	case "rewardItemAmount":
		s.RewardItemAmount, ok = settingFloat(v)
	case "rewardItemName":
		s.RewardItemName, ok = settingString(v)
	case "rewardItemType":
		s.RewardItemType, ok = settingInt(v)
	case "rewardSpawnLoopSeconds":
		s.RewardSpawnLoopSeconds, ok = settingFloat(v)
	case "rewardWinnerAmount":
		s.RewardWinnerAmount, ok = settingFloat(v)
	case "rewardWinnerName":
		s.RewardWinnerName, ok = settingString(v)
	case "roundLoopSeconds":
		s.RoundLoopSeconds, ok = settingFloat(v)
	case "sendUpdateLoopSeconds":
		s.SendUpdateLoopSeconds, ok = settingFloat(v)
	case "slowLoopSeconds":
		s.SlowLoopSeconds, ok = settingFloat(v)
	case "spritesPerPlayerCount":
		s.SpritesPerPlayerCount, ok = settingInt(v)
	case "spritesStartCount":
		s.SpritesStartCount, ok = settingInt(v)
	case "spritesTotal":
		s.SpritesTotal, ok = settingInt(v)
	}
	return ok
}

// sharedSettingKeys are the keys serialized into OnSetRoundInfo, in sorted
// order so the client can index into them positionally.
var sharedSettingKeys = func() []string {
	keys := []string{
		"antifeed1",
		"avatarDecayPower0", "avatarDecayPower1", "avatarDecayPower2",
		"avatarTouchDistance0", "avatarTouchDistance1", "avatarTouchDistance2",
		"avatarSpeedMultiplier0", "avatarSpeedMultiplier1", "avatarSpeedMultiplier2",
		"baseSpeed", "cameraSize", "checkConnectionLoopSeconds", "checkInterval",
		"checkPositionDistance", "claimingRewards", "decayPower",
		"disconnectPlayerSeconds", "disconnectPositionJumps",
		"fastestLoopSeconds", "fastLoopSeconds", "gameMode", "immunitySeconds",
		"isMaintenance", "leadercap", "maxEvolves", "noBoot", "noDecay",
		"orbCutoffSeconds", "orbOnDeathPercent", "orbTimeoutSeconds",
		"pickupDistance", "pointsPerEvolve", "pointsPerKill", "pointsPerOrb",
		"pointsPerPowerup", "pointsPerReward",
		"powerupXp0", "powerupXp1", "powerupXp2", "powerupXp3",
		"resetInterval", "rewardItemAmount", "rewardItemName", "rewardItemType",
		"rewardSpawnLoopSeconds", "rewardWinnerAmount", "rewardWinnerName",
		"roundLoopSeconds", "sendUpdateLoopSeconds", "slowLoopSeconds",
		"spritesPerPlayerCount", "spritesStartCount", "spritesTotal",
	}
	sort.Strings(keys)
	return keys
}()

// SettingValue reads a Settings field by its wire key.
func SettingValue(s Settings, key string) interface{} {
	switch key {
	case "antifeed1":
		return s.Antifeed1
	case "avatarDecayPower0":
		return s.AvatarDecayPower0
	case "avatarDecayPower1":
		return s.AvatarDecayPower1
	case "avatarDecayPower2":
		return s.AvatarDecayPower2
	case "avatarTouchDistance0":
		return s.AvatarTouchDistance0
	case "avatarTouchDistance1":
		return s.AvatarTouchDistance1
	case "avatarTouchDistance2":
		return s.AvatarTouchDistance2
	case "avatarSpeedMultiplier0":
		return s.AvatarSpeedMultiplier0
	case "avatarSpeedMultiplier1":
		return s.AvatarSpeedMultiplier1
	case "avatarSpeedMultiplier2":
		return s.AvatarSpeedMultiplier2
	case "baseSpeed":
		return s.BaseSpeed
	case "cameraSize":
		return s.CameraSize
	case "checkConnectionLoopSeconds":
		return s.CheckConnectionLoopSeconds
	case "checkInterval":
		return s.CheckInterval
	case "checkPositionDistance":
		return s.CheckPositionDistance
	case "claimingRewards":
		return s.ClaimingRewards
	case "decayPower":
		return s.DecayPower
	case "disconnectPlayerSeconds":
		return s.DisconnectPlayerSeconds
	case "disconnectPositionJumps":
		return s.DisconnectPositionJumps
	case "fastestLoopSeconds":
		return s.FastestLoopSeconds
	case "fastLoopSeconds":
		return s.FastLoopSeconds
	case "gameMode":
		return s.GameMode
	case "immunitySeconds":
		return s.ImmunitySeconds
	case "isMaintenance":
		return s.IsMaintenance
	case "leadercap":
		return s.Leadercap
	case "maxEvolves":
		return s.MaxEvolves
	case "noBoot":
		return s.NoBoot
	case "noDecay":
		return s.NoDecay
	case "orbCutoffSeconds":
		return s.OrbCutoffSeconds
	case "orbOnDeathPercent":
		return s.OrbOnDeathPercent
	case "orbTimeoutSeconds":
		return s.OrbTimeoutSeconds
	case "pickupDistance":
		return s.PickupDistance
	case "pointsPerEvolve":
		return s.PointsPerEvolve
	case "pointsPerKill":
		return s.PointsPerKill
	case "pointsPerOrb":
		return s.PointsPerOrb
	case "pointsPerPowerup":
		return s.PointsPerPowerup
	case "pointsPerReward":
		return s.PointsPerReward
	case "powerupXp0":
		return s.PowerupXp0
	case "powerupXp1":
		return s.PowerupXp1
	case "powerupXp2":
		return s.PowerupXp2
	case "powerupXp3":
		return s.PowerupXp3
	case "resetInterval":
		return s.ResetInterval
	case "rewardItemAmount":
		return s.RewardItemAmount
	case "rewardItemName":
		return s.RewardItemName
	case "rewardItemType":
		return s.RewardItemType
	case "rewardSpawnLoopSeconds":
		return s.RewardSpawnLoopSeconds
	case "rewardWinnerAmount":
		return s.RewardWinnerAmount
	case "rewardWinnerName":
		return s.RewardWinnerName
	case "roundLoopSeconds":
		return s.RoundLoopSeconds
	case "sendUpdateLoopSeconds":
		return s.SendUpdateLoopSeconds
	case "slowLoopSeconds":
		return s.SlowLoopSeconds
	case "spritesPerPlayerCount":
		return s.SpritesPerPlayerCount
	case "spritesStartCount":
		return s.SpritesStartCount
	case "spritesTotal":
		return s.SpritesTotal
	}
	return nil
}

// RoundInfoValues serializes the shared settings in key order for the
// OnSetRoundInfo broadcast.
func RoundInfoValues(s Settings) []string {
	out := make([]string, 0, len(sharedSettingKeys))
	for _, key := range sharedSettingKeys {
		out = append(out, formatArg(SettingValue(s, key)))
	}
	return out
}
