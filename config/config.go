// Package config loads settings from an optional file, CONNECT4_* environment
// variables and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"connect4/bots"
)

const EnvPrefix = "CONNECT4"

const (
	ModeGUI   = "gui"
	ModeTerm  = "term"
	ModeArena = "arena"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	AIDepth       int    `mapstructure:"ai_depth"`
	AIDelayMs     int    `mapstructure:"ai_delay_ms"`
	AIFirst       bool   `mapstructure:"ai_first"`
	Bot           string `mapstructure:"bot"`
	SquareSize    int    `mapstructure:"square_size"`
	LogLevel      string `mapstructure:"log_level"`
	Mode          string `mapstructure:"mode"`
	ArenaGames    int    `mapstructure:"arena_games"`
	ArenaWorkers  int    `mapstructure:"arena_workers"`
	ArenaOpponent string `mapstructure:"arena_opponent"`
}

func (c *Config) AIDelay() time.Duration {
	return time.Duration(c.AIDelayMs) * time.Millisecond
}

var defaults = map[string]any{
	"ai_depth":       5,
	"ai_delay_ms":    500,
	"ai_first":       false,
	"bot":            bots.MinimaxName,
	"square_size":    100,
	"log_level":      "info",
	"mode":           ModeGUI,
	"arena_games":    20,
	"arena_workers":  4,
	"arena_opponent": bots.RandomName,
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"depth":       "ai_depth",
	"delay":       "ai_delay_ms",
	"bot-first":   "ai_first",
	"bot":         "bot",
	"square-size": "square_size",
	"log-level":   "log_level",
	"mode":        "mode",
	"games":       "arena_games",
	"workers":     "arena_workers",
	"opponent":    "arena_opponent",
}

// Flags declares every command line flag Load understands, plus --config.
func Flags() *pflag.FlagSet {
	set := pflag.NewFlagSet("connect4", pflag.ContinueOnError)
	set.String("config", "", "path to a config file (.env, .yaml, .json, .toml)")
	set.Int("depth", defaults["ai_depth"].(int), "search depth of the minimax bot")
	set.Int("delay", defaults["ai_delay_ms"].(int), "pause before each bot move, in milliseconds")
	set.Bool("bot-first", defaults["ai_first"].(bool), "let the bot open the game")
	set.String("bot", defaults["bot"].(string), "opponent: "+botChoices())
	set.Int("square-size", defaults["square_size"].(int), "cell size of the desktop window in pixels")
	set.String("log-level", defaults["log_level"].(string), "debug, info, warn or error")
	set.String("mode", defaults["mode"].(string), "gui, term or arena")
	set.Int("games", defaults["arena_games"].(int), "arena: number of games")
	set.Int("workers", defaults["arena_workers"].(int), "arena: games played at once")
	set.String("opponent", defaults["arena_opponent"].(string), "arena: bot playing against --bot")
	return set
}

// Load reads path when it exists. An empty path or a missing file leaves the
// defaults in place. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Bot = strings.ToLower(strings.TrimSpace(cfg.Bot))
	cfg.ArenaOpponent = strings.ToLower(strings.TrimSpace(cfg.ArenaOpponent))
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func botChoices() string {
	return strings.Join(bots.Names(), ", ")
}

func knownBot(name string) bool {
	_, err := bots.Lookup(name)
	return err == nil
}

func (c *Config) Validate() error {
	switch {
	case c.AIDepth < 1:
		return fmt.Errorf("%w: ai_depth must be at least 1, got %d", ErrInvalid, c.AIDepth)
	case c.AIDelayMs < 0:
		return fmt.Errorf("%w: ai_delay_ms must not be negative, got %d", ErrInvalid, c.AIDelayMs)
	case !knownBot(c.Bot):
		return fmt.Errorf("%w: unknown bot %q", ErrInvalid, c.Bot)
	case !knownBot(c.ArenaOpponent):
		return fmt.Errorf("%w: unknown arena opponent %q", ErrInvalid, c.ArenaOpponent)
	case c.SquareSize < 20:
		return fmt.Errorf("%w: square_size must be at least 20, got %d", ErrInvalid, c.SquareSize)
	case c.Mode != ModeGUI && c.Mode != ModeTerm && c.Mode != ModeArena:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, c.Mode)
	case c.ArenaGames < 1:
		return fmt.Errorf("%w: arena_games must be at least 1, got %d", ErrInvalid, c.ArenaGames)
	case c.ArenaWorkers < 1:
		return fmt.Errorf("%w: arena_workers must be at least 1, got %d", ErrInvalid, c.ArenaWorkers)
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	return nil
}
