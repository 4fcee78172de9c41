// Package config loads battle tuning from battle.yaml in the content
// directory. Missing files and missing keys fall back to defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/engine/present"
)

// FileName is the config file looked up in a content directory.
const FileName = "battle.yaml"

// Config is the battle configuration.
type Config struct {
	Seed             int64         `yaml:"seed"` // 0 = time-derived
	TextSpeed        float64       `yaml:"text_speed"`
	PagePause        float64       `yaml:"page_pause"`
	HPAnim           float64       `yaml:"hp_anim"`
	FaintAnim        float64       `yaml:"faint_anim"`
	Tick             time.Duration `yaml:"tick"`
	ActiveSlots      int           `yaml:"active_slots"`
	ForfeitGrantsExp bool          `yaml:"forfeit_grants_exp"`
	ExpMultiplier    float64       `yaml:"exp_multiplier"`
	LogLevel         string        `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	t := present.DefaultTiming()
	return Config{
		TextSpeed:     t.CharsPerSecond,
		PagePause:     t.PagePause,
		HPAnim:        t.HPAnim,
		FaintAnim:     t.FaintAnim,
		Tick:          50 * time.Millisecond,
		ActiveSlots:   1,
		ExpMultiplier: 7,
		LogLevel:      "warn",
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDir loads FileName from a content directory.
func LoadDir(dir string) (Config, error) {
	return Load(filepath.Join(dir, FileName))
}

// Validate rejects out-of-range values.
func (c Config) Validate() error {
	var problems []string
	if c.TextSpeed < 0 {
		problems = append(problems, "text_speed must not be negative")
	}
	if c.PagePause < 0 || c.HPAnim < 0 || c.FaintAnim < 0 {
		problems = append(problems, "animation timings must not be negative")
	}
	if c.Tick <= 0 || c.Tick > time.Second {
		problems = append(problems, fmt.Sprintf("tick %s out of range (0, 1s]", c.Tick))
	}
	if c.ActiveSlots < 1 || c.ActiveSlots > 3 {
		problems = append(problems, fmt.Sprintf("active_slots %d out of range 1-3", c.ActiveSlots))
	}
	if c.ExpMultiplier <= 0 {
		problems = append(problems, "exp_multiplier must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("log_level %q unknown", c.LogLevel))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.WarnLevel
	}
	return lvl
}

// Timing returns presentation pacing for a timed gate.
func (c Config) Timing() present.Timing {
	t := present.DefaultTiming()
	t.CharsPerSecond = c.TextSpeed
	t.PagePause = c.PagePause
	t.HPAnim = c.HPAnim
	t.FaintAnim = c.FaintAnim
	return t
}

// Options returns battle options. A zero seed is replaced with one derived
// from now.
func (c Config) Options(now time.Time) engine.Options {
	seed := c.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	return engine.Options{
		Seed:             seed,
		ActiveSlots:      c.ActiveSlots,
		ExpMultiplier:    c.ExpMultiplier,
		ForfeitGrantsExp: c.ForfeitGrantsExp,
	}
}
