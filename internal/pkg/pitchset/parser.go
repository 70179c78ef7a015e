package pitchset

import (
	"bytes"
	"fmt"

	"github.com/gethiox/notepitch/internal/pkg/pitch"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type TOMLSetFile struct {
	Sets []struct {
		Name       string   `toml:"name"`
		Pitches    []string `toml:"pitches"`
		Steps      int      `toml:"steps"`
		Semitones  int      `toml:"semitones"`
		Enharmonic bool     `toml:"enharmonic"`
	} `toml:"set"`
}

type YamlSetFile struct {
	Sets []struct {
		Name       string   `yaml:"name"`
		Pitches    []string `yaml:"pitches"`
		Steps      int      `yaml:"steps"`
		Semitones  int      `yaml:"semitones"`
		Enharmonic bool     `yaml:"enharmonic"`
	} `yaml:"sets"`
}

type rawSet struct {
	name       string
	pitches    []string
	steps      int
	semitones  int
	enharmonic bool
}

// ParseData parses TOML set definitions.
func ParseData(data []byte) ([]Set, error) {
	cfg := TOMLSetFile{}

	d := toml.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()

	err := d.Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing toml failed: %w", err)
	}

	var raw = make([]rawSet, 0, len(cfg.Sets))
	for _, s := range cfg.Sets {
		raw = append(raw, rawSet{
			name:       s.Name,
			pitches:    s.Pitches,
			steps:      s.Steps,
			semitones:  s.Semitones,
			enharmonic: s.Enharmonic,
		})
	}
	return buildSets(raw)
}

// ParseYAMLData parses YAML set definitions.
func ParseYAMLData(data []byte) ([]Set, error) {
	cfg := YamlSetFile{}

	d := yaml.NewDecoder(bytes.NewReader(data))
	d.KnownFields(true)

	err := d.Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing yaml failed: %w", err)
	}

	var raw = make([]rawSet, 0, len(cfg.Sets))
	for _, s := range cfg.Sets {
		raw = append(raw, rawSet{
			name:       s.Name,
			pitches:    s.Pitches,
			steps:      s.Steps,
			semitones:  s.Semitones,
			enharmonic: s.Enharmonic,
		})
	}
	return buildSets(raw)
}

func buildSets(raw []rawSet) ([]Set, error) {
	var sets = make([]Set, 0, len(raw))
	var names = make(map[string]bool, len(raw))

	for i, r := range raw {
		if r.name == "" {
			return nil, fmt.Errorf("set #%d: name not set", i+1)
		}
		if names[r.name] {
			return nil, fmt.Errorf("[%s] set defined more than once", r.name)
		}
		names[r.name] = true

		if r.steps > pitch.MaxTransposeFactor || r.steps < -pitch.MaxTransposeFactor {
			return nil, fmt.Errorf("[%s] %w: %d", r.name, pitch.ErrTransposeFactor, r.steps)
		}

		var pitches = make([]pitch.Pitch, 0, len(r.pitches))
		for _, s := range r.pitches {
			p, err := pitch.ParsePitch(s)
			if err != nil {
				return nil, fmt.Errorf("[%s] failed to parse pitch: %w", r.name, err)
			}
			pitches = append(pitches, p)
		}

		sets = append(sets, Set{
			Name:       r.name,
			Pitches:    pitches,
			Steps:      r.steps,
			Semitones:  r.semitones,
			Enharmonic: r.enharmonic,
		})
	}
	return sets, nil
}
