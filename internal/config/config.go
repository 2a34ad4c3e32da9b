// Package config loads the runtime configuration: built-in defaults, an
// optional YAML file, UNSTABLE_* environment variables and command line flags,
// in increasing order of precedence.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
	Store   StoreConfig   `mapstructure:"store"`
	UI      UIConfig      `mapstructure:"ui"`
}

// GameConfig holds the paths used by a session.
type GameConfig struct {
	DeckPath string `mapstructure:"deck_path" env:"UNSTABLE_DECK"`
	SavesDir string `mapstructure:"saves_dir" env:"UNSTABLE_SAVES_DIR"`
	LogFile  string `mapstructure:"log_file" env:"UNSTABLE_LOG_FILE"`
}

// LoggingConfig configures the diagnostic logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" env:"UNSTABLE_LOG_LEVEL"`
	Format string `mapstructure:"format" env:"UNSTABLE_LOG_FORMAT"`
}

// StoreConfig selects the saved game registry.
type StoreConfig struct {
	Driver      string `mapstructure:"driver" env:"UNSTABLE_STORE_DRIVER"`
	SQLitePath  string `mapstructure:"sqlite_path" env:"UNSTABLE_SQLITE_PATH"`
	PostgresDSN string `mapstructure:"postgres_dsn" env:"UNSTABLE_POSTGRES_DSN"`
}

// UIConfig tunes the terminal output.
type UIConfig struct {
	Color  bool `mapstructure:"color" env:"UNSTABLE_COLOR"`
	Banner bool `mapstructure:"banner" env:"UNSTABLE_BANNER"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"deck":      "game.deck_path",
	"saves-dir": "game.saves_dir",
	"log-file":  "game.log_file",
	"log-level": "logging.level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.deck_path", "assets/deck.txt")
	v.SetDefault("game.saves_dir", "saves")
	v.SetDefault("game.log_file", "log.txt")
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "saves/registry.db")
	v.SetDefault("store.postgres_dsn", "")
	v.SetDefault("ui.color", true)
	v.SetDefault("ui.banner", true)
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML configuration file")
	fs.String("deck", "assets/deck.txt", "card template file")
	fs.String("saves-dir", "saves", "directory holding save files")
	fs.String("log-file", "log.txt", "in-game action log")
	fs.String("log-level", "warn", "diagnostic log level (debug, info, warn, error)")
}

// Load builds the configuration. path may be empty, in which case only
// defaults, environment and flags apply. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	// Flags set explicitly on the command line win over the environment.
	if flags != nil {
		for name, key := range flagKeys {
			if flags.Changed(name) {
				cfg.set(key, v.GetString(key))
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) set(key, value string) {
	switch key {
	case "game.deck_path":
		c.Game.DeckPath = value
	case "game.saves_dir":
		c.Game.SavesDir = value
	case "game.log_file":
		c.Game.LogFile = value
	case "logging.level":
		c.Logging.Level = value
	}
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Game.DeckPath == "" {
		return fmt.Errorf("game.deck_path is required")
	}
	if c.Game.SavesDir == "" {
		return fmt.Errorf("game.saves_dir is required")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	return nil
}
