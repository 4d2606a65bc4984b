package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a named seeding profile. Presets ship as YAML so demo
// environments can be tuned without recompiling.
type Preset struct {
	Name       string `yaml:"name"`
	Users      int    `yaml:"users"`
	Posts      int    `yaml:"posts"`
	DMThreads  int    `yaml:"dm_threads"`
	SkipBcrypt bool   `yaml:"skip_bcrypt"`
	MaxDays    int    `yaml:"max_days"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// builtinPresets are used when no preset file is supplied.
var builtinPresets = []Preset{
	{Name: "minimal", Users: 5, Posts: 10, DMThreads: 2, MaxDays: 7},
	{Name: "demo", Users: 25, Posts: 100, DMThreads: 15, MaxDays: 30},
	{Name: "mega", Users: 200, Posts: 1500, DMThreads: 100, SkipBcrypt: true, MaxDays: 180},
}

// LoadPresets reads presets from a YAML file, falling back to the
// built-in set when path is empty.
func LoadPresets(path string) ([]Preset, error) {
	if path == "" {
		return builtinPresets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset file: %w", err)
	}

	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing preset file: %w", err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("preset file %q defines no presets", path)
	}
	return file.Presets, nil
}

// FindPreset returns the preset with the given name.
func FindPreset(presets []Preset, name string) (Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q", name)
}

// Apply runs the full seeding pipeline for a preset.
func Apply(s *Seeder, p Preset) error {
	users, err := s.SeedSocialMesh(p.Users)
	if err != nil {
		return err
	}
	if _, err := s.SeedEngagement(users, p.Posts); err != nil {
		return err
	}
	return s.SeedConversations(users, p.DMThreads)
}
