package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/raykavin/sonify/pkg/core"
	"github.com/raykavin/sonify/pkg/scale"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

const (
	envPrefix          = "SONIFY"
	defaultStoragePath = "./sonify.db"
	defaultAddress     = "localhost:8080"
)

// Log backends
const (
	backendZerolog = "zerolog"
	backendLogrus  = "logrus"
)

// Config is the file and environment configuration of the CLI
type Config struct {
	Title              string   `mapstructure:"title"`
	Speeds             []string `mapstructure:"speeds"`
	SpeedIndex         int      `mapstructure:"speed_index"`
	NoteLength         string   `mapstructure:"note_length"`
	AnnounceLabelFirst bool     `mapstructure:"announce_label_first"`
	Live               bool     `mapstructure:"live"`
	Hierarchy          bool     `mapstructure:"hierarchy"`
	StoragePath        string   `mapstructure:"storage_path"`
	Address            string   `mapstructure:"address"`
	LogLevel           string   `mapstructure:"log_level"`
	LogBackend         string   `mapstructure:"log_backend"`

	Axes struct {
		X  *core.AxisOverride `mapstructure:"x"`
		Y  *core.AxisOverride `mapstructure:"y"`
		Y2 *core.AxisOverride `mapstructure:"y2"`
	} `mapstructure:"axes"`
}

// LoadConfig reads the optional configuration file and SONIFY_* environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("speeds", lo.Map(scale.DefaultSpeeds, func(d time.Duration, _ int) string {
		return d.String()
	}))
	v.SetDefault("speed_index", scale.DefaultSpeedIndex)
	v.SetDefault("note_length", scale.NoteLength.String())
	v.SetDefault("storage_path", defaultStoragePath)
	v.SetDefault("address", defaultAddress)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_backend", backendZerolog)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

// Settings converts the configuration into engine settings
func (c *Config) Settings() (core.Settings, error) {
	speeds := make([]time.Duration, 0, len(c.Speeds))
	for _, raw := range c.Speeds {
		speed, err := str2duration.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return core.Settings{}, fmt.Errorf("invalid speed %q: %w", raw, err)
		}
		if speed <= 0 {
			return core.Settings{}, fmt.Errorf("invalid speed %q: must be positive", raw)
		}
		speeds = append(speeds, speed)
	}

	return core.Settings{
		Title:                   c.Title,
		X:                       c.Axes.X,
		Y:                       c.Axes.Y,
		Y2:                      c.Axes.Y2,
		Speeds:                  speeds,
		SpeedIndex:              c.SpeedIndex,
		Live:                    c.Live,
		Hierarchy:               c.Hierarchy,
		AnnouncePointLabelFirst: c.AnnounceLabelFirst,
	}, nil
}

// Note returns the configured note length
func (c *Config) Note() (time.Duration, error) {
	note, err := str2duration.ParseDuration(c.NoteLength)
	if err != nil {
		return 0, fmt.Errorf("invalid note length %q: %w", c.NoteLength, err)
	}
	return note, nil
}
