package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomz197/beetles/internal/difficulty"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("BEETLES_TEST_INT", "42")
	t.Setenv("BEETLES_TEST_BAD", "forty")
	t.Setenv("BEETLES_TEST_DUR", "1500ms")

	if got := GetEnvInt("BEETLES_TEST_INT", 1); got != 42 {
		t.Fatalf("GetEnvInt = %d, want 42", got)
	}
	if got := GetEnvInt("BEETLES_TEST_BAD", 7); got != 7 {
		t.Fatalf("GetEnvInt(bad) = %d, want fallback 7", got)
	}
	if got := GetEnvDuration("BEETLES_TEST_DUR", time.Second); got != 1500*time.Millisecond {
		t.Fatalf("GetEnvDuration = %v, want 1.5s", got)
	}
	if got := GetEnv("BEETLES_TEST_UNSET", "fb"); got != "fb" {
		t.Fatalf("GetEnv(unset) = %q, want fb", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("BEETLES_TEST_DOTENV=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BEETLES_TEST_DOTENV", "")
	os.Unsetenv("BEETLES_TEST_DOTENV")

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("BEETLES_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("BEETLES_TEST_DOTENV = %q, want from-file", got)
	}
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `
[tiers.easy]
game_speed = 1
max_beetles = 4
round_duration = 30
bonus_interval = 10

[tiers.hard]
game_speed = 10
max_beetles = 0
round_duration = 45
bonus_interval = 20
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	table, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if got := table[difficulty.TierEasy]; got.MaxBeetles != 4 || got.RoundDuration != 30 {
		t.Fatalf("easy = %+v", got)
	}
	if got := table[difficulty.TierHard].MaxBeetles; got != 1 {
		t.Fatalf("hard cap = %d, want normalized 1", got)
	}
	if got := table[difficulty.TierMedium].MaxBeetles; got != 20 {
		t.Fatalf("medium cap = %d, want built-in 20", got)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	table, err := LoadSettings(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadSettings(missing): %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("table has %d tiers, want 3", len(table))
	}
}

func TestLoadSettingsRejectsUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	os.WriteFile(path, []byte("[tiers.nightmare]\ngame_speed = 20\n"), 0o600)
	if _, err := LoadSettings(path); err == nil {
		t.Fatal("LoadSettings accepted an unknown tier")
	}

	os.WriteFile(path, []byte("[tiers.easy]\nbeetle_colour = \"red\"\n"), 0o600)
	if _, err := LoadSettings(path); err == nil {
		t.Fatal("LoadSettings accepted an unknown key")
	}
}
