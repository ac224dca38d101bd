package game

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/procrastination/internal/log"
)

// PlayerController is the interface that human (terminal, WebSocket), AI and
// MCP players implement.
type PlayerController interface {
	// ChooseAction presents the legal actions and waits for the player to pick one.
	ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error)

	// Notify sends a game event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// DefaultMaxSteps bounds a single Run; a match that never ends is a bug.
const DefaultMaxSteps = 100000

// Table seats one controller per player and drives a match to completion.
type Table struct {
	Match       *Match
	Controllers []PlayerController
	MaxSteps    int
}

// NewTable seats the controllers in player order.
func NewTable(m *Match, controllers ...PlayerController) (*Table, error) {
	if len(controllers) != m.State().NumPlayers() {
		return nil, fmt.Errorf("%w: %d controllers for %d players", ErrInvalidConfig, len(controllers), m.State().NumPlayers())
	}
	return &Table{Match: m, Controllers: controllers, MaxSteps: DefaultMaxSteps}, nil
}

// Run executes the match loop. Returns the winner, or -1 for a timeout or a
// match in which everyone ran out of hours.
func (t *Table) Run(ctx context.Context) (int, error) {
	m := t.Match
	gs := m.State()

	for steps := 0; !gs.Over; steps++ {
		if err := ctx.Err(); err != nil {
			return -1, err
		}
		if t.MaxSteps > 0 && steps >= t.MaxSteps {
			return -1, fmt.Errorf("match did not finish after %d steps", steps)
		}

		seat := gs.CurrentPlayer
		if gs.Pending != nil {
			seat = gs.Pending.Defender
		} else if gs.Phase() == PhaseTurnComplete {
			res, err := m.AdvanceTurn()
			if err != nil {
				return gs.Winner, err
			}
			if err := t.broadcast(ctx, res.Events); err != nil {
				return gs.Winner, err
			}
			continue
		}

		actions := m.LegalActions(seat)
		if len(actions) == 0 {
			return gs.Winner, fmt.Errorf("P%d has no legal actions in %s", seat+1, gs.Phase())
		}
		action, err := t.Controllers[seat].ChooseAction(ctx, gs, actions)
		if err != nil {
			return gs.Winner, fmt.Errorf("P%d choose action: %w", seat+1, err)
		}
		res, err := m.Execute(action)
		if err != nil {
			return gs.Winner, fmt.Errorf("P%d %s: %w", seat+1, action, err)
		}
		if err := t.broadcast(ctx, res.Events); err != nil {
			return gs.Winner, err
		}
	}

	return gs.Winner, nil
}

func (t *Table) broadcast(ctx context.Context, events []log.GameEvent) error {
	for _, e := range events {
		for i, c := range t.Controllers {
			if err := c.Notify(ctx, e); err != nil {
				return fmt.Errorf("notify P%d: %w", i+1, err)
			}
		}
	}
	return nil
}
