// Package config loads roadmap settings from defaults, an optional
// roadmap.yaml, ROADMAP_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the complete roadmap configuration.
type Config struct {
	StartYear         int           `mapstructure:"start_year"`
	UnscheduledOffset int           `mapstructure:"unscheduled_offset"`
	Chart             ChartConfig   `mapstructure:"chart"`
	Output            OutputConfig  `mapstructure:"output"`
	Watch             WatchConfig   `mapstructure:"watch"`
	DBPath            string        `mapstructure:"db_path"`
	Log               LoggingConfig `mapstructure:"log"`
}

// ChartConfig controls drawing.
type ChartConfig struct {
	// Scale is the size in pixels of one grid unit (a milestone box side).
	Scale  int `mapstructure:"scale"`
	Margin int `mapstructure:"margin"`
	// Palette colors milestones by sequence number, wrapping around.
	Palette []string `mapstructure:"palette"`
	// Axis is "relative" (Q0, Q1, ...) or "calendar" (2017 Q1, ...).
	Axis         string `mapstructure:"axis"`
	TooltipWidth int    `mapstructure:"tooltip_width"`
	FontSize     int    `mapstructure:"font_size"`
	Title        string `mapstructure:"title"`
}

// OutputConfig controls output files.
type OutputConfig struct {
	Prefix string `mapstructure:"prefix"`
	PNG    bool   `mapstructure:"png"`
}

// WatchConfig controls --watch mode.
type WatchConfig struct {
	DebounceMs int `mapstructure:"debounce_ms"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Debounce returns the watch debounce as a time.Duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StartYear:         2017,
		UnscheduledOffset: 12,
		Chart: ChartConfig{
			Scale:        40,
			Margin:       48,
			Palette:      []string{"blue", "green", "red", "black", "orange"},
			Axis:         "relative",
			TooltipWidth: 40,
			FontSize:     11,
			Title:        "Milestones",
		},
		Output: OutputConfig{
			Prefix: "milestones",
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
		DBPath: defaultDBPath(),
		Log: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".roadmap", "roadmap.db")
	}
	return filepath.Join(home, ".roadmap", "roadmap.db")
}

// ConfigDir returns the user config directory for roadmap.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "roadmap")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".roadmap"
	}
	return filepath.Join(home, ".config", "roadmap")
}

// New returns a viper instance with defaults, config search paths and the
// ROADMAP_ environment prefix registered.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigName("roadmap")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(ConfigDir())

	v.SetEnvPrefix("ROADMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("start_year", d.StartYear)
	v.SetDefault("unscheduled_offset", d.UnscheduledOffset)

	v.SetDefault("chart.scale", d.Chart.Scale)
	v.SetDefault("chart.margin", d.Chart.Margin)
	v.SetDefault("chart.palette", d.Chart.Palette)
	v.SetDefault("chart.axis", d.Chart.Axis)
	v.SetDefault("chart.tooltip_width", d.Chart.TooltipWidth)
	v.SetDefault("chart.font_size", d.Chart.FontSize)
	v.SetDefault("chart.title", d.Chart.Title)

	v.SetDefault("output.prefix", d.Output.Prefix)
	v.SetDefault("output.png", d.Output.PNG)

	v.SetDefault("watch.debounce_ms", d.Watch.DebounceMs)
	v.SetDefault("db_path", d.DBPath)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// ReadFile reads an explicit config file, or searches the default paths
// when path is empty. A missing file in the default paths is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
		return nil
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// BindFlags binds each flag named in keys to its config key, e.g.
// "start-year" to start_year. Flags not defined on fs are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", flag, err)
		}
	}
	return nil
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}
