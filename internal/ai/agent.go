package ai

import (
	"context"
	"errors"
	"math/rand"

	"github.com/peterkuimelis/procrastination/internal/game"
	"github.com/peterkuimelis/procrastination/internal/log"
)

// cashInScore is what an expert gives to discarding an expired but protected
// card that still holds positive hours.
const cashInScore = 6.0

// Agent is a computer player. It implements game.PlayerController by turning
// its Policy's decisions into one legal action at a time: the draw decision
// first, then the best-scoring play, then a discard as the fallback.
type Agent struct {
	Policy *Policy
}

// NewAgent creates an agent playing at tier.
func NewAgent(tier Tier, rng *rand.Rand) *Agent {
	return &Agent{Policy: NewPolicy(tier, rng)}
}

// ChooseAction implements game.PlayerController.
func (a *Agent) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	if err := ctx.Err(); err != nil {
		return game.Action{}, err
	}
	if len(actions) == 0 {
		return game.Action{}, errors.New("no legal actions")
	}
	self := actions[0].Player

	switch {
	case hasType(actions, game.ActionExcuse):
		return a.respond(actions), nil
	case hasType(actions, game.ActionDraw), hasType(actions, game.ActionDrawDiscard):
		return a.draw(state, self, actions), nil
	case hasType(actions, game.ActionEndTurn):
		act, _ := findType(actions, game.ActionEndTurn)
		return act, nil
	}
	return a.play(state, self, actions), nil
}

// Notify implements game.PlayerController. The agent reads everything it
// needs from the state it is handed.
func (a *Agent) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

func (a *Agent) respond(actions []game.Action) game.Action {
	want := game.ActionAccept
	if a.Policy.ShouldExcuse() {
		want = game.ActionExcuse
	}
	act, _ := findType(actions, want)
	return act
}

func (a *Agent) draw(state *game.GameState, self int, actions []game.Action) game.Action {
	deck, fromDeck := findType(actions, game.ActionDraw)
	discard, fromDiscard := findType(actions, game.ActionDrawDiscard)
	switch {
	case fromDeck && fromDiscard:
		p := state.Players[self]
		plays, hours := handMix(p)
		if a.Policy.ChooseDrawSource(p.HandCount(), plays, hours) {
			return deck
		}
		return discard
	case fromDeck:
		return deck
	case fromDiscard:
		return discard
	}
	return actions[0]
}

func (a *Agent) play(state *game.GameState, self int, actions []game.Action) game.Action {
	target := a.Policy.SelectWeaponTarget(threats(state), self)
	aimed := make(map[game.CardID]bool)
	for _, act := range actions {
		if act.Type == game.ActionPlayWeapon && act.Target == target {
			aimed[act.CardID] = true
		}
	}

	var best game.Action
	bestScore, found := 0.0, false
	for _, act := range actions {
		if act.Type == game.ActionPlayWeapon && aimed[act.CardID] && act.Target != target {
			continue
		}
		score, ok := a.score(state, act)
		if !ok {
			continue
		}
		// ties keep the earlier action, so easy agents play the first valid card
		if !found || score > bestScore {
			best, bestScore, found = act, score, true
		}
	}

	if found && bestScore > 0 {
		if best.Type == game.ActionDiscardPlayed {
			return best
		}
		if !a.Policy.ShouldDiscard(game.Get(best.CardID).Category, true) {
			return best
		}
		for _, act := range actions {
			if act.Type == game.ActionDiscardHand && act.Card == best.Card {
				return act
			}
		}
		return best
	}
	return a.fallback(state, actions)
}

// score rates one candidate action. ok is false for actions the agent does
// not consider plays.
func (a *Agent) score(state *game.GameState, act game.Action) (float64, bool) {
	def := game.Get(act.CardID)
	switch act.Type {
	case game.ActionPlayCard:
		return a.Policy.EvaluatePlay(game.CategoryPlay, true, false), true

	case game.ActionPlayWeapon:
		tp := state.Players[act.Target]
		if def.ID == game.CardScammer && tp.Hours == 0 {
			return 0, false
		}
		occupied := def.IsPlayWeapon() && tp.Slots[act.Slot] != nil
		return a.Policy.EvaluatePlay(game.CategoryWeapon, false, occupied), true

	case game.ActionUseHelper:
		onCard := def.ID != game.CardNewbie
		return a.Policy.EvaluatePlay(game.CategoryHelper, true, onCard), true

	case game.ActionDiscardPlayed:
		if a.Policy.Tier < TierExpert {
			return 0, false
		}
		ci := state.Instance(act.Card)
		if ci != nil && ci.ExpiredProtected() && ci.FinalHourValue() > 0 {
			return cashInScore, true
		}
	}
	return 0, false
}

// fallback discards the hand card the agent values least, or cashes in the
// most valuable played card when the hand is empty.
func (a *Agent) fallback(state *game.GameState, actions []game.Action) game.Action {
	var pick game.Action
	lowest, found := 0.0, false
	for _, act := range actions {
		if act.Type != game.ActionDiscardHand {
			continue
		}
		v := a.keepValue(game.Get(act.CardID))
		if !found || v < lowest {
			pick, lowest, found = act, v, true
		}
	}
	if found {
		return pick
	}

	highest := -1
	for _, act := range actions {
		if act.Type != game.ActionDiscardPlayed {
			continue
		}
		if ci := state.Instance(act.Card); ci != nil && ci.FinalHourValue() > highest {
			pick, highest, found = act, ci.FinalHourValue(), true
		}
	}
	if found {
		return pick
	}

	if act, ok := findType(actions, game.ActionSkip); ok {
		return act
	}
	return actions[0]
}

// keepValue is how much the agent wants to hold on to a card.
func (a *Agent) keepValue(def *game.CardDef) float64 {
	switch {
	case def.ID == game.CardExcused:
		return 4
	case def.IsPlay() && def.ImmediateHours < 0:
		return 3 * a.Policy.RiskTolerance
	case def.IsPlay():
		return 3
	case def.IsWeapon():
		return 1 + a.Policy.Aggressiveness
	default:
		return 1
	}
}

func handMix(p *game.Player) (plays, hours int) {
	for _, c := range p.Hand {
		if c.Def.IsPlay() {
			plays++
		} else {
			hours++
		}
	}
	return plays, hours
}

func threats(state *game.GameState) []int {
	out := make([]int, state.NumPlayers())
	for i, p := range state.Players {
		out[i] = p.InPlayCount()
	}
	return out
}

func hasType(actions []game.Action, t game.ActionType) bool {
	_, ok := findType(actions, t)
	return ok
}

func findType(actions []game.Action, t game.ActionType) (game.Action, bool) {
	for _, act := range actions {
		if act.Type == t {
			return act, true
		}
	}
	return game.Action{}, false
}
