package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/peterkuimelis/procrastination/internal/ai"
	"github.com/peterkuimelis/procrastination/internal/config"
	"github.com/peterkuimelis/procrastination/internal/game"
	"github.com/peterkuimelis/procrastination/internal/log"
)

// Simulation plays AI-only matches back to back.
type Simulation struct {
	Config config.Config
	Tiers  []ai.Tier // one per seat
	Games  int
	Log    zerolog.Logger
	Events io.Writer // optional; receives every event as text
}

// Report summarizes a simulation run.
type Report struct {
	Tiers    []ai.Tier
	Games    int
	Wins     []int
	Hours    []int // summed final balances
	Outcomes map[game.Outcome]int
	Rounds   int // summed rounds played
}

// Run plays the configured number of matches. Match i uses seed Config.Seed+i,
// or a time-based seed when Config.Seed is zero.
func (s *Simulation) Run(ctx context.Context) (*Report, error) {
	n := len(s.Tiers)
	if n != s.Config.Players {
		return nil, fmt.Errorf("%w: %d tiers for %d players", game.ErrInvalidConfig, n, s.Config.Players)
	}
	base := s.Config.Seed
	if base == 0 {
		base = time.Now().UnixNano()
	}

	r := &Report{
		Tiers:    s.Tiers,
		Wins:     make([]int, n),
		Hours:    make([]int, n),
		Outcomes: make(map[game.Outcome]int),
	}
	for g := 0; g < s.Games; g++ {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		seed := base + int64(g)
		state, err := s.play(ctx, seed)
		if err != nil {
			return r, fmt.Errorf("game %d (seed %d): %w", g+1, seed, err)
		}

		r.Games++
		r.Rounds += state.Round
		r.Outcomes[state.Outcome]++
		if state.Winner >= 0 {
			r.Wins[state.Winner]++
		}
		for i, p := range state.Players {
			r.Hours[i] += p.Hours
		}
		s.Log.Debug().Int("game", g+1).Int64("seed", seed).Str("outcome", state.Outcome.String()).Int("winner", state.Winner).Msg(state.Result)
	}
	return r, nil
}

func (s *Simulation) play(ctx context.Context, seed int64) (*game.GameState, error) {
	cfg := s.Config
	cfg.Seed = seed

	var logger log.EventLogger = log.NewMemoryLogger()
	if s.Events != nil {
		logger = log.NewTextLogger(s.Events)
	}
	mc, err := cfg.MatchConfig(logger)
	if err != nil {
		return nil, err
	}
	m, err := game.NewMatch(mc)
	if err != nil {
		return nil, err
	}

	controllers := make([]game.PlayerController, len(s.Tiers))
	for i, t := range s.Tiers {
		controllers[i] = ai.NewAgent(t, rand.New(rand.NewSource(seed*31+int64(i))))
	}
	table, err := game.NewTable(m, controllers...)
	if err != nil {
		return nil, err
	}
	if _, err := table.Run(ctx); err != nil {
		return nil, err
	}
	return m.State(), nil
}

// Print writes the per-seat table and outcome counts.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "%d games\n\n", r.Games)
	fmt.Fprintf(w, "%-5s %-10s %6s %7s %10s\n", "Seat", "Tier", "Wins", "Win%", "Avg hours")
	for i, t := range r.Tiers {
		fmt.Fprintf(w, "%-5s %-10s %6d %6.1f%% %10.1f\n", log.PlayerName(i), t, r.Wins[i], pct(r.Wins[i], r.Games), avg(r.Hours[i], r.Games))
	}
	fmt.Fprintln(w)
	for _, o := range []game.Outcome{game.OutcomeWinner, game.OutcomeAllOut, game.OutcomeTimeout} {
		if c := r.Outcomes[o]; c > 0 {
			fmt.Fprintf(w, "%-10s %d\n", o, c)
		}
	}
	fmt.Fprintf(w, "Avg rounds %.1f\n", avg(r.Rounds, r.Games))
}

func pct(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return 100 * float64(n) / float64(of)
}

func avg(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) / float64(of)
}
