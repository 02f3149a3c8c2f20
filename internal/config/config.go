// Package config loads engine and server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Engine holds the tunables of the combat core.
type Engine struct {
	StartingHP       int           `env:"CARDCLASH_STARTING_HP" envDefault:"20"`
	StartingHandSize int           `env:"CARDCLASH_STARTING_HAND" envDefault:"3"`
	MaxPlaysPerTurn  int           `env:"CARDCLASH_MAX_PLAYS" envDefault:"1"`
	ThinkDelay       time.Duration `env:"CARDCLASH_THINK_DELAY" envDefault:"1500ms"`
	EmptyHandDelay   time.Duration `env:"CARDCLASH_EMPTY_HAND_DELAY" envDefault:"1s"`
	ExplodeDamage    int           `env:"CARDCLASH_EXPLODE_DAMAGE" envDefault:"1"`
	BerserkGain      int           `env:"CARDCLASH_BERSERK_GAIN" envDefault:"1"`
	MaxTurns         int           `env:"CARDCLASH_MAX_TURNS" envDefault:"200"`
	Seed             uint64        `env:"CARDCLASH_SEED" envDefault:"0"`

	Timing Timing `envPrefix:"CARDCLASH_TIMING_"`
}

// Timing holds the durations attached to critical animation descriptors.
// The engine waits this long before its next step; the presentation layer
// may ignore them.
type Timing struct {
	Draw       time.Duration `env:"DRAW" envDefault:"300ms"`
	Move       time.Duration `env:"MOVE" envDefault:"300ms"`
	Attack     time.Duration `env:"ATTACK" envDefault:"400ms"`
	Projectile time.Duration `env:"PROJECTILE" envDefault:"300ms"`
	Slide      time.Duration `env:"SLIDE" envDefault:"200ms"`
	Explosion  time.Duration `env:"EXPLOSION" envDefault:"300ms"`
	Pacing     time.Duration `env:"PACING" envDefault:"500ms"`
	Shake      time.Duration `env:"SHAKE" envDefault:"150ms"`
}

// Server holds settings for the network, web and MCP adapters.
type Server struct {
	Addr       string        `env:"CARDCLASH_ADDR" envDefault:":8080"`
	CatalogDir string        `env:"CARDCLASH_CATALOG_DIR" envDefault:"data/catalog"`
	DecksFile  string        `env:"CARDCLASH_DECKS_FILE" envDefault:"data/decks.yaml"`
	RedisAddr  string        `env:"CARDCLASH_REDIS_ADDR"`
	ReplayTTL  time.Duration `env:"CARDCLASH_REPLAY_TTL" envDefault:"168h"`
}

// DefaultEngine returns the engine settings used when nothing is configured.
func DefaultEngine() Engine {
	return Engine{
		StartingHP:       20,
		StartingHandSize: 3,
		MaxPlaysPerTurn:  1,
		ThinkDelay:       1500 * time.Millisecond,
		EmptyHandDelay:   time.Second,
		ExplodeDamage:    1,
		BerserkGain:      1,
		MaxTurns:         200,
		Timing:           DefaultTiming(),
	}
}

// DefaultTiming returns the default animation durations.
func DefaultTiming() Timing {
	return Timing{
		Draw:       300 * time.Millisecond,
		Move:       300 * time.Millisecond,
		Attack:     400 * time.Millisecond,
		Projectile: 300 * time.Millisecond,
		Slide:      200 * time.Millisecond,
		Explosion:  300 * time.Millisecond,
		Pacing:     500 * time.Millisecond,
		Shake:      150 * time.Millisecond,
	}
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEngine reads Engine settings from the environment.
func LoadEngine() (Engine, error) {
	var cfg Engine
	if err := ParseEnv(&cfg); err != nil {
		return Engine{}, err
	}
	if cfg.MaxPlaysPerTurn < 1 {
		return Engine{}, fmt.Errorf("CARDCLASH_MAX_PLAYS must be >= 1, got %d", cfg.MaxPlaysPerTurn)
	}
	return cfg, nil
}

// LoadServer reads Server settings from the environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	return cfg, nil
}
