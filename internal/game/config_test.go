package game

import "testing"

func TestCoerceSettingValue(t *testing.T) {
	cases := []struct {
		raw  string
		want interface{}
	}{
		{"true", true},
		{"false", false},
		{"1.4", 1.4},
		{"300", 300.0},
		{"-2", -2.0},
		{"Sprite Juice", "Sprite Juice"},
	}
	for _, c := range cases {
		if got := CoerceSettingValue(c.raw); got != c.want {
			t.Errorf("CoerceSettingValue(%q) = %v (%T), want %v (%T)", c.raw, got, got, c.want, c.want)
		}
	}
}

func TestApplySettingRoundTrip(t *testing.T) {
	s := DefaultSettings()

	if !ApplySetting(&s, "decayPower", 1.8) {
		t.Fatal("decayPower rejected")
	}
	if s.DecayPower != 1.8 {
		t.Errorf("DecayPower = %v, want 1.8", s.DecayPower)
	}
	if got := SettingValue(s, "decayPower"); got != 1.8 {
		t.Errorf("SettingValue(decayPower) = %v, want 1.8", got)
	}

	if !ApplySetting(&s, "antifeed1", false) {
		t.Fatal("antifeed1 rejected")
	}
	if s.Antifeed1 {
		t.Error("Antifeed1 still set")
	}

	if !ApplySetting(&s, "gameMode", "Deathmatch") {
		t.Fatal("gameMode rejected")
	}
	if s.GameMode != "Deathmatch" {
		t.Errorf("GameMode = %q", s.GameMode)
	}
}

func TestApplySettingRejectsUnknownKeyAndWrongKind(t *testing.T) {
	s := DefaultSettings()
	if ApplySetting(&s, "noSuchKey", 1.0) {
		t.Error("unknown key accepted")
	}
	if ApplySetting(&s, "decayPower", "fast") {
		t.Error("string accepted for a float setting")
	}
}

// Preset overrides replace base fields for the round; untouched fields keep
// their base values.
func TestComposeSettingsLayersPresetOverBase(t *testing.T) {
	base := DefaultSettings()
	base.BaseSpeed = 4
	base.RoundLoopSeconds = 120

	preset, ok := FindPreset("Sprite Juice")
	if !ok {
		t.Fatal("Sprite Juice preset missing")
	}
	composed := ComposeSettings(base, preset)

	if composed.GameMode != "Sprite Juice" {
		t.Errorf("GameMode = %q, want Sprite Juice", composed.GameMode)
	}
	if composed.RoundLoopSeconds != 120 {
		t.Errorf("RoundLoopSeconds = %v, base value not preserved", composed.RoundLoopSeconds)
	}
}

func TestFindPreset(t *testing.T) {
	if _, ok := FindPreset("Standard"); !ok {
		t.Error("Standard preset not found")
	}
	if _, ok := FindPreset("No Such Mode"); ok {
		t.Error("unknown mode resolved to a preset")
	}
}

func TestRoundInfoValuesFollowKeyOrder(t *testing.T) {
	s := DefaultSettings()
	values := RoundInfoValues(s)
	if len(values) != len(sharedSettingKeys) {
		t.Fatalf("got %d values for %d shared keys", len(values), len(sharedSettingKeys))
	}
	for i, key := range sharedSettingKeys {
		if want := formatArg(SettingValue(s, key)); values[i] != want {
			t.Errorf("values[%d] (%s) = %q, want %q", i, key, values[i], want)
		}
	}
}
