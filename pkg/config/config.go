// Package config loads sv settings from a YAML file, SV_* environment
// variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/model"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/sheet"
)

// EnvPrefix is prepended to every environment override, e.g.
// SV_SHEET_DIRECTION.
const EnvPrefix = "SV"

// DefaultFileName is looked up in the working directory when no path is given
const DefaultFileName = "sv.yaml"

var (
	// ErrInvalidDirection is returned for an unknown sheet.direction
	ErrInvalidDirection = errors.New("invalid sheet direction")
	// ErrNoStickyPoints is returned when sheet.sticky_points is empty
	ErrNoStickyPoints = errors.New("at least one sticky point is required")
)

// Config is the full sv configuration
type Config struct {
	Sheet     SheetConfig     `mapstructure:"sheet" yaml:"sheet"`
	Gesture   GestureConfig   `mapstructure:"gesture" yaml:"gesture"`
	Animation AnimationConfig `mapstructure:"animation" yaml:"animation"`
	Content   ContentConfig   `mapstructure:"content" yaml:"content"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// SheetConfig describes the sheet itself
type SheetConfig struct {
	Direction       string    `mapstructure:"direction" yaml:"direction"`
	StickyPoints    []float64 `mapstructure:"sticky_points" yaml:"sticky_points"`
	MinPoint        float64   `mapstructure:"min_point" yaml:"min_point"`
	InitialStep     int       `mapstructure:"initial_step" yaml:"initial_step"`
	ForceBackToZero bool      `mapstructure:"force_back_to_zero" yaml:"force_back_to_zero"`
	AnimateEntrance bool      `mapstructure:"animate_entrance" yaml:"animate_entrance"`
	Frozen          bool      `mapstructure:"frozen" yaml:"frozen"`
}

// GestureConfig tunes drag interpretation
type GestureConfig struct {
	SpeedThreshold float64       `mapstructure:"speed_threshold" yaml:"speed_threshold"`
	FlickDebounce  time.Duration `mapstructure:"flick_debounce" yaml:"flick_debounce"`
}

// AnimationConfig holds transition timings
type AnimationConfig struct {
	Entrance   time.Duration `mapstructure:"entrance" yaml:"entrance"`
	Transition time.Duration `mapstructure:"transition" yaml:"transition"`
	FPS        int           `mapstructure:"fps" yaml:"fps"`
}

// ContentConfig points at the markdown shown inside the sheet
type ContentConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Watch bool   `mapstructure:"watch" yaml:"watch"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// Default returns the built-in configuration
func Default() Config {
	so := sheet.DefaultOptions()
	return Config{
		Sheet: SheetConfig{
			Direction:       so.Direction.String(),
			StickyPoints:    so.StickyPoints,
			MinPoint:        so.MinPoint,
			InitialStep:     0,
			ForceBackToZero: so.ForceBackToZero,
			AnimateEntrance: so.AnimateEntrance,
		},
		Gesture: GestureConfig{
			SpeedThreshold: so.SpeedThreshold,
			FlickDebounce:  so.FlickDebounce,
		},
		Animation: AnimationConfig{
			Entrance:   so.EntranceDuration,
			Transition: so.TransitionDuration,
			FPS:        60,
		},
		Content: ContentConfig{
			Watch: true,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// SetDefaults registers every default key on v so that env overrides work
// for keys missing from the file.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("sheet.direction", d.Sheet.Direction)
	v.SetDefault("sheet.sticky_points", d.Sheet.StickyPoints)
	v.SetDefault("sheet.min_point", d.Sheet.MinPoint)
	v.SetDefault("sheet.initial_step", d.Sheet.InitialStep)
	v.SetDefault("sheet.force_back_to_zero", d.Sheet.ForceBackToZero)
	v.SetDefault("sheet.animate_entrance", d.Sheet.AnimateEntrance)
	v.SetDefault("sheet.frozen", d.Sheet.Frozen)
	v.SetDefault("gesture.speed_threshold", d.Gesture.SpeedThreshold)
	v.SetDefault("gesture.flick_debounce", d.Gesture.FlickDebounce)
	v.SetDefault("animation.entrance", d.Animation.Entrance)
	v.SetDefault("animation.transition", d.Animation.Transition)
	v.SetDefault("animation.fps", d.Animation.FPS)
	v.SetDefault("content.file", d.Content.File)
	v.SetDefault("content.watch", d.Content.Watch)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age", d.Log.MaxAge)
	v.SetDefault("log.compress", d.Log.Compress)
}

// NewViper returns a viper instance with defaults and env binding set up.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (or ./sv.yaml when path is empty) into a validated Config.
// A missing default file is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	v := NewViper()
	if err := ReadInto(v, path); err != nil {
		return Config{}, err
	}
	return FromViper(v)
}

// ReadInto points v at path and reads it
func ReadInto(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(strings.TrimSuffix(DefaultFileName, filepath.Ext(DefaultFileName)))
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// FromViper decodes and validates the settings held by v
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be clamped into something sensible.
// Out-of-range sticky points and steps are left for the sheet to clamp.
func (c Config) Validate() error {
	if _, err := model.ParseDirection(c.Sheet.Direction); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, c.Sheet.Direction)
	}
	if len(c.Sheet.StickyPoints) == 0 {
		return ErrNoStickyPoints
	}
	if c.Animation.FPS < 0 {
		return fmt.Errorf("animation.fps must not be negative, got %d", c.Animation.FPS)
	}
	return nil
}

// Direction returns the parsed sheet direction
func (c Config) Direction() model.Direction {
	d, _ := model.ParseDirection(c.Sheet.Direction)
	return d
}

// FrameInterval is the animation tick period derived from FPS
func (c Config) FrameInterval() time.Duration {
	fps := c.Animation.FPS
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// SheetOptions converts the config into sheet options. Animator, scheduler
// and logger are left for the host to fill in.
func (c Config) SheetOptions() sheet.Options {
	return sheet.Options{
		StickyPoints:       c.Sheet.StickyPoints,
		MinPoint:           c.Sheet.MinPoint,
		Direction:          c.Direction(),
		InitialStep:        c.Sheet.InitialStep,
		ForceBackToZero:    c.Sheet.ForceBackToZero,
		AnimateEntrance:    c.Sheet.AnimateEntrance,
		Frozen:             c.Sheet.Frozen,
		SpeedThreshold:     c.Gesture.SpeedThreshold,
		FlickDebounce:      c.Gesture.FlickDebounce,
		EntranceDuration:   c.Animation.Entrance,
		TransitionDuration: c.Animation.Transition,
	}
}

// WriteDefault writes the default configuration as YAML to path. An
// existing file is only replaced when overwrite is true.
func WriteDefault(path string, overwrite bool) error {
	return Write(path, Default(), overwrite)
}

// Write validates cfg and writes it as YAML to path.
func Write(path string, cfg Config, overwrite bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML. Durations are written in Go syntax ("500ms")
// so the file reads back through viper unchanged.
func Marshal(cfg Config) ([]byte, error) {
	node := map[string]any{
		"sheet": cfg.Sheet,
		"gesture": map[string]any{
			"speed_threshold": cfg.Gesture.SpeedThreshold,
			"flick_debounce":  cfg.Gesture.FlickDebounce.String(),
		},
		"animation": map[string]any{
			"entrance":   cfg.Animation.Entrance.String(),
			"transition": cfg.Animation.Transition.String(),
			"fps":        cfg.Animation.FPS,
		},
		"content": cfg.Content,
		"log":     cfg.Log,
	}
	data, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// ParsePoints parses a comma separated list of sticky points such as
// "0.2, 0.5, 0.8".
func ParsePoints(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("sticky point %q: %w", field, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, ErrNoStickyPoints
	}
	return out, nil
}
