package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"

	"github.com/tomz197/beetles/internal/difficulty"
)

// settingsFile is the on-disk shape of the difficulty settings:
//
//	[tiers.easy]
//	game_speed = 2
//	max_beetles = 10
//	round_duration = 120
//	bonus_interval = 15
type settingsFile struct {
	Tiers map[string]difficulty.Settings `toml:"tiers"`
}

// LoadSettings reads the tier table from a TOML file, layered over the
// built-in presets. A missing file yields the presets unchanged.
func LoadSettings(path string) (difficulty.Table, error) {
	table := difficulty.DefaultTable()
	if path == "" {
		return table, nil
	}

	var f settingsFile
	md, err := toml.DecodeFile(path, &f)
	if errors.Is(err, fs.ErrNotExist) {
		return table, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("settings %s: unknown key %s", path, undecoded[0])
	}

	for name, s := range f.Tiers {
		tier, err := difficulty.ParseTier(name)
		if err != nil {
			return nil, fmt.Errorf("settings %s: %w", path, err)
		}
		table[tier] = s.Normalize()
	}
	return table, nil
}
