package game

import (
	"github.com/peterkuimelis/procrastination/internal/log"
)

// RoundReport records everything the round processor did in one round.
type RoundReport struct {
	Round       int
	Ticks       []RoundTick
	Shares      []RoundShare
	Settlements []Settlement
	Voided      []*CardInstance
	// Removed lists every instance taken out of play this round, in removal order.
	Removed     []*CardInstance
	HourChanges []HourChange
}

type RoundTick struct {
	Player int
	Card   log.CardState
	Gained int
}

type RoundShare struct {
	Player int
	Linked int
	Card   log.CardState
	Gained int
}

type Settlement struct {
	Player int
	Card   log.CardState
	Final  int
}

type HourChange struct {
	Player int
	Old    int
	New    int
}

// GainedBy sums the tick and shared gains of a player's cards this round.
func (r *RoundReport) GainedBy(player int) int {
	total := 0
	for _, t := range r.Ticks {
		if t.Player == player {
			total += t.Gained
		}
	}
	for _, s := range r.Shares {
		if s.Player == player {
			total += s.Gained
		}
	}
	return total
}

// ProcessRound advances the round counter and runs the four round passes over
// every player's cards: tick, sharing, expiration, linked voiding. Settlements
// collect in each ledger's PendingRoundHours and are applied to the balances
// only after the last pass. emit may be nil.
func ProcessRound(gs *GameState, emit func(log.GameEvent)) *RoundReport {
	if emit == nil {
		emit = func(log.GameEvent) {}
	}
	gs.Round++
	report := &RoundReport{Round: gs.Round}

	// Pass 1: tick
	gained := make(map[int]int)
	for _, p := range gs.Players {
		for _, ci := range p.InPlay() {
			if ci.ShouldAutoDiscard() {
				continue
			}
			g := ci.ProcessRound()
			gained[ci.ID] = g
			report.Ticks = append(report.Ticks, RoundTick{Player: p.Index, Card: ci.State(), Gained: g})
			if g != 0 {
				emit(log.NewCardTickEvent(p.Index, ci.Def.Name, g, ci.State()))
			}
			if ci.HasExpired {
				emit(log.NewExpireEvent(p.Index, ci.Def.Name, ci.State()))
			}
		}
	}

	// Pass 2: sharing
	for _, p := range gs.Players {
		for _, ci := range p.InPlay() {
			if !ci.Def.HasSharingMechanic() || ci.LinkedPlayer < 0 || ci.LinkedPlayer >= gs.NumPlayers() {
				continue
			}
			if _, ticked := gained[ci.ID]; !ticked || ci.ExpiredProtected() {
				continue
			}
			// base per-round rate of each in-step card, not its actual gain
			shared := 0
			for _, linked := range gs.Players[ci.LinkedPlayer].InPlay() {
				if _, ticked := gained[linked.ID]; ticked && linked.RoundsInPlay == ci.RoundsInPlay {
					shared += linked.Def.HoursPerRound
				}
			}
			if shared > 0 {
				ci.CurrentHourValue += shared
				report.Shares = append(report.Shares, RoundShare{Player: p.Index, Linked: ci.LinkedPlayer, Card: ci.State(), Gained: shared})
				emit(log.NewShareEvent(p.Index, ci.LinkedPlayer, ci.Def.Name, shared, ci.State()))
			}
		}
	}

	// Pass 3: expiration
	for _, p := range gs.Players {
		for _, ci := range p.InPlay() {
			if !ci.ShouldAutoDiscard() {
				continue
			}
			final := ci.FinalHourValue()
			p.PendingRoundHours += final
			p.removeFromPlay(ci)
			report.Settlements = append(report.Settlements, Settlement{Player: p.Index, Card: ci.State(), Final: final})
			report.Removed = append(report.Removed, ci)
			emit(log.NewSettleEvent(p.Index, ci.Def.Name, final, ci.State()))
		}
	}

	// Pass 4: void sharing cards whose linked card is gone or expired
	for _, p := range gs.Players {
		for _, ci := range p.InPlay() {
			if !ci.Def.HasSharingMechanic() || ci.LinkedCard == 0 {
				continue
			}
			linked := gs.Instance(ci.LinkedCard)
			if linked != nil && linked.Owner == ci.LinkedPlayer && !linked.HasExpired {
				continue
			}
			ci.ForceExpire()
			ci.CurrentHourValue = 0
			p.removeFromPlay(ci)
			report.Voided = append(report.Voided, ci)
			report.Removed = append(report.Removed, ci)
			emit(log.NewVoidEvent(p.Index, ci.Def.Name))
		}
	}

	// Apply settlements
	for _, p := range gs.Players {
		if p.PendingRoundHours == 0 {
			continue
		}
		old, updated := p.AdjustHours(p.PendingRoundHours)
		p.PendingRoundHours = 0
		report.HourChanges = append(report.HourChanges, HourChange{Player: p.Index, Old: old, New: updated})
		emit(log.NewHourChangeEvent(p.Index, old, updated, "round settlement"))
	}

	gs.LastReport = report
	return report
}
