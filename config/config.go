// Package config loads engine and host settings from a JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/CharaWein/chessGo/engine"
	"github.com/rs/zerolog"
)

type Config struct {
	TurnBudgetMs      int    `json:"turn_budget_ms"`
	MaxDepth          int    `json:"max_depth"`
	CachePolicy       string `json:"cache_policy"`
	CacheCapacity     int    `json:"cache_capacity"`
	RepetitionZero    bool   `json:"repetition_zero"`
	MobilityWithMopUp bool   `json:"mobility_with_mopup"`
	RememberAllBest   bool   `json:"remember_all_best"`
	// Seed drives tie breaking between equal moves; 0 picks one from the
	// clock.
	Seed     int64  `json:"seed"`
	LogLevel string `json:"log_level"`
}

func Default() Config {
	return Config{
		TurnBudgetMs: int(engine.DefaultTurnBudget / time.Millisecond),
		CachePolicy:  engine.CacheOff.String(),
		LogLevel:     zerolog.InfoLevel.String(),
	}
}

// Load reads path over the defaults. An empty path, or one that does not
// exist, gives the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TurnBudgetMs <= 0 {
		return fmt.Errorf("turn_budget_ms must be positive, got %d", c.TurnBudgetMs)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.CacheCapacity < 0 {
		return fmt.Errorf("cache_capacity must not be negative, got %d", c.CacheCapacity)
	}
	if _, err := engine.ParseCachePolicy(c.CachePolicy); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func (c Config) TurnBudget() time.Duration {
	return time.Duration(c.TurnBudgetMs) * time.Millisecond
}

// Engine converts the settings to an engine.Config. Call Validate first;
// an unknown cache policy falls back to CacheOff.
func (c Config) Engine() engine.Config {
	policy, _ := engine.ParseCachePolicy(c.CachePolicy)
	return engine.Config{
		TurnBudget:      c.TurnBudget(),
		MaxDepth:        c.MaxDepth,
		Cache:           policy,
		CacheCapacity:   c.CacheCapacity,
		RepetitionZero:  c.RepetitionZero,
		RememberAllBest: c.RememberAllBest,
	}
}

// Evaluator is the evaluator selected by the settings.
func (c Config) Evaluator() engine.DefaultEvaluator {
	return engine.DefaultEvaluator{MobilityWithMopUp: c.MobilityWithMopUp}
}

// Level is the parsed log level, info when unset or invalid.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// EffectiveSeed returns Seed, or a clock based seed when Seed is 0.
func (c Config) EffectiveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
