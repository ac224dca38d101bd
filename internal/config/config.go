package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/procrastination/internal/ai"
	"github.com/peterkuimelis/procrastination/internal/game"
	"github.com/peterkuimelis/procrastination/internal/log"
)

// Seat kinds.
const (
	SeatHuman = "human"
	SeatAI    = "ai"
)

// Seat describes who sits in one player position.
type Seat struct {
	Kind string `yaml:"kind"`
	Tier string `yaml:"tier,omitempty"`
}

// Settings are the scalar match settings. Each can be overridden by a
// PROCRASTINATION_* environment variable.
type Settings struct {
	Players       int    `yaml:"players" env:"PROCRASTINATION_PLAYERS"`
	StartingHours int    `yaml:"starting_hours" env:"PROCRASTINATION_STARTING_HOURS"`
	MaxRounds     int    `yaml:"max_rounds" env:"PROCRASTINATION_MAX_ROUNDS"`
	VictoryHours  int    `yaml:"victory_hours" env:"PROCRASTINATION_VICTORY_HOURS"`
	Seed          int64  `yaml:"seed" env:"PROCRASTINATION_SEED"`
	DeckFile      string `yaml:"deck_file" env:"PROCRASTINATION_DECK_FILE"`
	DeckNumber    int    `yaml:"deck_number" env:"PROCRASTINATION_DECK_NUMBER"`

	// AITier is the tier of AI seats that do not name one.
	AITier string `yaml:"ai_tier" env:"PROCRASTINATION_AI_TIER"`
}

// Config is the match configuration: a YAML file overlaid with environment
// overrides.
type Config struct {
	Settings `yaml:",inline"`
	Seats    []Seat `yaml:"seats"`
}

// Default returns the built-in configuration: four players, seat 1 human.
func Default() Config {
	return Config{Settings: Settings{
		Players:       4,
		StartingHours: game.DefaultStartingHours,
		MaxRounds:     game.DefaultMaxRounds,
		AITier:        ai.TierEasy.String(),
	}}
}

// Load reads the YAML file at path (skipped when empty), applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	return load(path, env.Options{})
}

func load(path string, opts env.Options) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config YAML: %w", err)
		}
	}
	if err := env.ParseWithOptions(&cfg.Settings, opts); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks player count, seat kinds and tier names.
func (c Config) Validate() error {
	if c.Players < game.MinPlayers || c.Players > game.MaxPlayers {
		return fmt.Errorf("%w: %d players (need %d-%d)", game.ErrInvalidConfig, c.Players, game.MinPlayers, game.MaxPlayers)
	}
	if len(c.Seats) > c.Players {
		return fmt.Errorf("%w: %d seats for %d players", game.ErrInvalidConfig, len(c.Seats), c.Players)
	}
	if _, err := ai.ParseTier(c.AITier); err != nil {
		return fmt.Errorf("%w: %v", game.ErrInvalidConfig, err)
	}
	for i, s := range c.Seats {
		switch strings.ToLower(s.Kind) {
		case SeatHuman:
		case SeatAI, "":
			if _, err := ai.ParseTier(s.Tier); err != nil {
				return fmt.Errorf("%w: seat %d: %v", game.ErrInvalidConfig, i+1, err)
			}
		default:
			return fmt.Errorf("%w: seat %d: unknown kind %q", game.ErrInvalidConfig, i+1, s.Kind)
		}
	}
	return nil
}

// SeatAt returns the seat for player i. Unlisted seats default to a human in
// seat 1 and AI players at AITier everywhere else.
func (c Config) SeatAt(i int) Seat {
	if i < len(c.Seats) {
		s := c.Seats[i]
		s.Kind = strings.ToLower(s.Kind)
		if s.Kind == "" {
			s.Kind = SeatAI
		}
		if s.Kind == SeatAI && s.Tier == "" {
			s.Tier = c.AITier
		}
		return s
	}
	if i == 0 {
		return Seat{Kind: SeatHuman}
	}
	return Seat{Kind: SeatAI, Tier: c.AITier}
}

// Tier returns the AI tier of seat i.
func (c Config) Tier(i int) ai.Tier {
	t, _ := ai.ParseTier(c.SeatAt(i).Tier)
	return t
}

// Deck returns the configured deck and its name.
func (c Config) Deck() (string, []game.CardID, error) {
	if c.DeckFile == "" {
		return game.StandardDeckName, game.StandardDeck(), nil
	}
	n := c.DeckNumber
	if n == 0 {
		n = 1
	}
	return game.DeckByNumber(c.DeckFile, n)
}

// MatchConfig converts the configuration into engine settings.
func (c Config) MatchConfig(logger log.EventLogger) (game.MatchConfig, error) {
	_, deck, err := c.Deck()
	if err != nil {
		return game.MatchConfig{}, err
	}
	return game.MatchConfig{
		Players:       c.Players,
		StartingHours: c.StartingHours,
		MaxRounds:     c.MaxRounds,
		VictoryHours:  c.VictoryHours,
		Deck:          deck,
		Logger:        logger,
		Seed:          c.Seed,
	}, nil
}
