package game

import (
	"context"
	"errors"
	"testing"

	"github.com/peterkuimelis/procrastination/internal/log"
)

// ScriptedController is a PlayerController that follows a predefined script of actions.
// Used in tests to deterministically drive the game.
type ScriptedController struct {
	t       *testing.T
	name    string
	actions []ScriptedAction
	pos     int
}

type ScriptedAction struct {
	// Match by ActionType: picks the first action of this type
	Type ActionType
	// Optional: match by card name as well
	CardName string
	// Optional: match by target player (-1 = any)
	Target int
}

func NewScriptedController(t *testing.T, name string) *ScriptedController {
	return &ScriptedController{t: t, name: name}
}

func (sc *ScriptedController) AddAction(actionType ActionType, cardName string) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: actionType, CardName: cardName, Target: -1})
	return sc
}

func (sc *ScriptedController) AddWeapon(cardName string, target int) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: ActionPlayWeapon, CardName: cardName, Target: target})
	return sc
}

func (sc *ScriptedController) ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error) {
	// Peek at next scripted action; only consume it if it matches an available action.
	if sc.pos < len(sc.actions) {
		scripted := sc.actions[sc.pos]
		for _, a := range actions {
			if a.Type != scripted.Type {
				continue
			}
			if scripted.CardName != "" && Get(a.CardID).Name != scripted.CardName {
				continue
			}
			if scripted.Target >= 0 && a.Target != scripted.Target {
				continue
			}
			sc.pos++
			return a, nil
		}
	}

	// Default priority: Draw > Accept > Discard > EndTurn > first action
	for _, want := range []ActionType{ActionDraw, ActionAccept, ActionDiscardHand, ActionEndTurn} {
		for _, a := range actions {
			if a.Type == want {
				return a, nil
			}
		}
	}
	return actions[0], nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

// --- Test helpers ---

// makeDeck repeats one card n times.
func makeDeck(id CardID, n int) []CardID {
	deck := make([]CardID, n)
	for i := range deck {
		deck[i] = id
	}
	return deck
}

// newTestMatch creates an unshuffled match whose deck holds only On the Clock,
// so no alert is ever drawn unless a test puts one on the pile.
func newTestMatch(t *testing.T, players int) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	m, err := NewMatch(MatchConfig{
		Players:   players,
		Deck:      makeDeck(CardOnTheClock, 60),
		Logger:    logger,
		Seed:      1,
		NoShuffle: true,
	})
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return m, logger
}

// give puts a card into a player's hand.
func give(m *Match, player int, id CardID) HeldCard {
	c := HeldCard{ID: m.gs.NextID(), Def: Get(id)}
	m.gs.Players[player].Hand = append(m.gs.Players[player].Hand, c)
	return c
}

// place puts a card straight into a player's slot.
func place(gs *GameState, player int, id CardID, slot int) *CardInstance {
	ci := NewCardInstance(gs.NextID(), Get(id), player, slot)
	gs.Players[player].Slots[slot] = ci
	return ci
}

// stack puts a card on top of the draw pile.
func stack(m *Match, id CardID) HeldCard {
	c := HeldCard{ID: m.gs.NextID(), Def: Get(id)}
	m.gs.DrawPile.Push(c)
	return c
}

// must wraps a (*Result, error) call: must(t)(m.AdvanceTurn()).
func must(t *testing.T) func(*Result, error) *Result {
	t.Helper()
	return func(res *Result, err error) *Result {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return res
	}
}

func mustDraw(t *testing.T, m *Match, player int) {
	t.Helper()
	must(t)(m.Draw(player, SourceDeck))
}

// passTurn draws, discards the first hand card and advances.
func passTurn(t *testing.T, m *Match) {
	t.Helper()
	p := m.gs.CurrentPlayer
	if !m.gs.HasDrawn {
		mustDraw(t, m, p)
	}
	if !m.gs.HasPlayed {
		must(t)(m.DiscardHand(p, m.gs.Players[p].Hand[0].ID))
	}
	must(t)(m.AdvanceTurn())
}

func expectErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

// runTable runs a table to completion and returns the logger for inspection.
func runTable(t *testing.T, cfg MatchConfig, controllers ...PlayerController) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	cfg.NoShuffle = true // deterministic tests
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	m, err := NewMatch(cfg)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	table, err := NewTable(m, controllers...)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	winner, err := table.Run(context.Background())
	if err != nil {
		t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
		t.Fatalf("Table error: %v", err)
	}

	t.Logf("Match result: winner=%d (%s)", winner, m.gs.Result)
	t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
	return m, logger
}
