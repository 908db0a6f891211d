// Package config loads the counter settings from an optional file, COUNTER_*
// environment variables and built-in defaults, in increasing order of precedence
// defaults < file < environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/1gm/counter/hotkeys"
	"github.com/1gm/counter/internal/log"
	"github.com/1gm/counter/overlay"
	"github.com/1gm/counter/prefs"
	"github.com/spf13/viper"
)

const (
	BackendFile     = "file"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

type Config struct {
	Log      Log      `mapstructure:"log"`
	HTTP     HTTP     `mapstructure:"http"`
	Prefs    Prefs    `mapstructure:"prefs"`
	Feedback Feedback `mapstructure:"feedback"`
	Hotkeys  Hotkeys  `mapstructure:"hotkeys"`
	Overlay  Overlay  `mapstructure:"overlay"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File receives the logs instead of stderr when set.
	File          string `mapstructure:"file"`
	OmitTimestamp bool   `mapstructure:"omit_timestamp"`
}

type HTTP struct {
	// Addr is the listen address of the page; empty disables the web view.
	Addr         string        `mapstructure:"addr"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type Prefs struct {
	Backend string `mapstructure:"backend"`
	// Name is the preference collection, Key the entry holding the value.
	Name     string `mapstructure:"name"`
	Key      string `mapstructure:"key"`
	Autosave bool   `mapstructure:"autosave"`
	// Dir is used by the file backend.
	Dir string `mapstructure:"dir"`
	// Table and Region are used by the dynamodb backend.
	Table  string `mapstructure:"table"`
	Region string `mapstructure:"region"`
}

type Feedback struct {
	Sound     Sound     `mapstructure:"sound"`
	Vibration Vibration `mapstructure:"vibration"`
}

type Sound struct {
	Enabled       bool   `mapstructure:"enabled"`
	IncrementFile string `mapstructure:"increment_file"`
	DecrementFile string `mapstructure:"decrement_file"`
	// MediaVolume out of MaxMediaVolume scales every sound.
	MediaVolume    int `mapstructure:"media_volume"`
	MaxMediaVolume int `mapstructure:"max_media_volume"`
}

type Vibration struct {
	Enabled   bool          `mapstructure:"enabled"`
	Increment time.Duration `mapstructure:"increment"`
	Decrement time.Duration `mapstructure:"decrement"`
}

type Hotkeys struct {
	Enabled   bool   `mapstructure:"enabled"`
	Increment string `mapstructure:"increment"`
	Decrement string `mapstructure:"decrement"`
}

type Overlay struct {
	// File is where the label is mirrored; empty disables the overlay.
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.omit_timestamp", false)

	v.SetDefault("http.addr", ":8081")
	v.SetDefault("http.write_timeout", 3*time.Second)

	v.SetDefault("prefs.backend", BackendFile)
	v.SetDefault("prefs.name", prefs.DefaultName)
	v.SetDefault("prefs.key", prefs.DefaultKey)
	v.SetDefault("prefs.autosave", false)
	v.SetDefault("prefs.dir", defaultPrefsDir())
	v.SetDefault("prefs.table", "")
	v.SetDefault("prefs.region", "")

	v.SetDefault("feedback.sound.enabled", true)
	v.SetDefault("feedback.sound.increment_file", "")
	v.SetDefault("feedback.sound.decrement_file", "")
	v.SetDefault("feedback.sound.media_volume", 10)
	v.SetDefault("feedback.sound.max_media_volume", 15)
	v.SetDefault("feedback.vibration.enabled", true)
	v.SetDefault("feedback.vibration.increment", 40*time.Millisecond)
	v.SetDefault("feedback.vibration.decrement", 60*time.Millisecond)

	v.SetDefault("hotkeys.enabled", false)
	v.SetDefault("hotkeys.increment", "Ctrl+Numpad0")
	v.SetDefault("hotkeys.decrement", "Ctrl+Numpad1")

	v.SetDefault("overlay.file", "")
	v.SetDefault("overlay.format", overlay.DefaultFormat)
}

func defaultPrefsDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "counter")
	}
	return "."
}

// Load reads filename, when given, and applies environment overrides such as
// COUNTER_PREFS_BACKEND=memory. The result is validated.
func Load(filename string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("counter")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("error parsing config: %s", err)
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	if err := log.Validate(c.Log.Level, c.Log.Format); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	switch c.Prefs.Backend {
	case BackendFile:
		if c.Prefs.Dir == "" {
			return errors.New("prefs.dir is required by the file backend")
		}
	case BackendDynamoDB:
		if c.Prefs.Table == "" {
			return errors.New("prefs.table is required by the dynamodb backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown prefs backend %q", c.Prefs.Backend)
	}

	if c.Feedback.Sound.MediaVolume < 0 || c.Feedback.Sound.MaxMediaVolume < 0 {
		return errors.New("media volumes cannot be negative")
	}
	if c.Feedback.Vibration.Increment < 0 || c.Feedback.Vibration.Decrement < 0 {
		return errors.New("vibration durations cannot be negative")
	}

	if c.Hotkeys.Enabled {
		if _, err := hotkeys.Parse(c.Hotkeys.Increment, nil); err != nil {
			return err
		}
		if _, err := hotkeys.Parse(c.Hotkeys.Decrement, nil); err != nil {
			return err
		}
	}

	if c.Overlay.File != "" {
		if err := overlay.ValidateFormat(c.Overlay.Format); err != nil {
			return err
		}
	}

	if c.HTTP.Addr == "" && !c.Hotkeys.Enabled {
		return errors.New("either http.addr or hotkeys must be configured to change the counter")
	}
	return nil
}
