package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gethiox/notepitch/internal/pkg/logger"
	"github.com/go-ini/ini"
)

type NotePitch struct {
	LogLevel int
	Color    bool
	Glyphs   bool
}

type Sets struct {
	Root string
}

type NotePitchConfig struct {
	NotePitch NotePitch
	Sets      Sets
}

func DefaultConfig() NotePitchConfig {
	return NotePitchConfig{
		NotePitch: NotePitch{
			LogLevel: logger.WarningLvl,
			Color:    true,
		},
		Sets: Sets{
			Root: "./notepitch-config/sets",
		},
	}
}

// LoadNotePitchConfig reads ini config, relative sets root is resolved against
// directory of the config file.
func LoadNotePitchConfig(path string) (NotePitchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return NotePitchConfig{}, fmt.Errorf("reading config failed: %w", err)
	}

	c, err := ParseNotePitchConfig(data)
	if err != nil {
		return NotePitchConfig{}, fmt.Errorf("%s: %w", path, err)
	}

	if !filepath.IsAbs(c.Sets.Root) {
		c.Sets.Root = filepath.Join(filepath.Dir(path), c.Sets.Root)
	}
	return c, nil
}

func ParseNotePitchConfig(data []byte) (NotePitchConfig, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return NotePitchConfig{}, fmt.Errorf("parsing ini failed: %w", err)
	}

	c := DefaultConfig()

	// [notepitch]
	notePitch := cfg.Section("notepitch")
	if notePitch.HasKey("log_level") {
		i, err := notePitch.Key("log_level").Int()
		if err != nil {
			return NotePitchConfig{}, fmt.Errorf("[notepitch] log_level: %w", err)
		}
		c.NotePitch.LogLevel = i
	}
	if notePitch.HasKey("color") {
		b, err := notePitch.Key("color").Bool()
		if err != nil {
			return NotePitchConfig{}, fmt.Errorf("[notepitch] color: %w", err)
		}
		c.NotePitch.Color = b
	}
	if notePitch.HasKey("glyphs") {
		b, err := notePitch.Key("glyphs").Bool()
		if err != nil {
			return NotePitchConfig{}, fmt.Errorf("[notepitch] glyphs: %w", err)
		}
		c.NotePitch.Glyphs = b
	}

	// [sets]
	sets := cfg.Section("sets")
	if sets.HasKey("root") {
		root := sets.Key("root").String()
		if root == "" {
			return NotePitchConfig{}, fmt.Errorf("[sets] root: empty value")
		}
		c.Sets.Root = root
	}

	return c, nil
}
