package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" toml:"storage"`
	Fetch   FetchConfig   `mapstructure:"fetch" toml:"fetch"`
	UI      UIConfig      `mapstructure:"ui" toml:"ui"`
	Log     LogConfig     `mapstructure:"log" toml:"log"`
}

// StorageConfig selects the preferences backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver" toml:"driver"`
	Path   string `mapstructure:"path" toml:"path"`
}

// FetchConfig configures where stories come from.
type FetchConfig struct {
	Source       string        `mapstructure:"source" toml:"source"`
	File         string        `mapstructure:"file" toml:"file"`
	Delay        time.Duration `mapstructure:"delay" toml:"delay"`
	Fail         bool          `mapstructure:"fail" toml:"fail"`
	AllowRefetch bool          `mapstructure:"allow_refetch" toml:"allow_refetch"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme         string `mapstructure:"theme" toml:"theme"`
	SearchKey     string `mapstructure:"search_key" toml:"search_key"`
	DefaultSearch string `mapstructure:"default_search" toml:"default_search"`
}

// LogConfig controls the zerolog output. An empty File means stderr for
// one-shot commands and a file in the user cache dir for the TUI.
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

// DefaultPath returns ~/.config/stories/config.toml.
func DefaultPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".config", "stories", "config.toml")
	}
	return ""
}

// Load reads configuration from file and env. path overrides $STORIES_CONFIG;
// a missing file is not an error. Env var overrides use prefix STORIES_.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("storage.driver", "json")
	v.SetDefault("storage.path", "")
	v.SetDefault("fetch.source", "seed")
	v.SetDefault("fetch.file", "")
	v.SetDefault("fetch.delay", 2*time.Second)
	v.SetDefault("fetch.fail", false)
	v.SetDefault("fetch.allow_refetch", false)
	v.SetDefault("ui.theme", "classic")
	v.SetDefault("ui.search_key", "search")
	v.SetDefault("ui.default_search", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("STORIES_CONFIG")
	}
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	v.SetEnvPrefix("STORIES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// read config file if present; an explicitly named file must exist
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values no component understands.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "json", "sqlite", "memory":
	default:
		return fmt.Errorf("config: storage.driver %q: want json, sqlite or memory", c.Storage.Driver)
	}
	switch c.Fetch.Source {
	case "seed":
	case "file":
		if c.Fetch.File == "" {
			return fmt.Errorf("config: fetch.file is required when fetch.source is file")
		}
	default:
		return fmt.Errorf("config: fetch.source %q: want seed or file", c.Fetch.Source)
	}
	if c.Fetch.Delay < 0 {
		return fmt.Errorf("config: fetch.delay must not be negative")
	}
	if c.UI.SearchKey == "" {
		return fmt.Errorf("config: ui.search_key must not be empty")
	}
	return nil
}

// fileConfig mirrors Config but uses strings for durations to make TOML friendly.
type fileConfig struct {
	Storage StorageConfig `toml:"storage"`
	Fetch   struct {
		Source       string `toml:"source"`
		File         string `toml:"file"`
		Delay        string `toml:"delay"`
		Fail         bool   `toml:"fail"`
		AllowRefetch bool   `toml:"allow_refetch"`
	} `toml:"fetch"`
	UI  UIConfig  `toml:"ui"`
	Log LogConfig `toml:"log"`
}

// TOML renders c in the config file format.
func (c Config) TOML() ([]byte, error) {
	var fc fileConfig
	fc.Storage = c.Storage
	fc.Fetch.Source = c.Fetch.Source
	fc.Fetch.File = c.Fetch.File
	fc.Fetch.Delay = c.Fetch.Delay.String()
	fc.Fetch.Fail = c.Fetch.Fail
	fc.Fetch.AllowRefetch = c.Fetch.AllowRefetch
	fc.UI = c.UI
	fc.Log = c.Log

	b, err := toml.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("toml marshal: %w", err)
	}
	return b, nil
}
