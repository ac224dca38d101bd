package game

import (
	"fmt"

	"github.com/peterkuimelis/procrastination/internal/log"
)

// LegalActions returns every action player may take right now. It is empty
// for anyone who is not expected to act.
func (m *Match) LegalActions(player int) []Action {
	gs := m.gs
	if gs.Over || player < 0 || player >= gs.NumPlayers() {
		return nil
	}

	if pw := gs.Pending; pw != nil {
		if player != pw.Defender {
			return nil
		}
		return []Action{
			{Type: ActionExcuse, Player: player, CardID: CardExcused, Target: pw.Attacker,
				Desc: fmt.Sprintf("Excused: cancel %s's %s", log.PlayerName(pw.Attacker), pw.Card.Def.Name)},
			{Type: ActionAccept, Player: player, CardID: pw.Card.Def.ID, Target: pw.Attacker,
				Desc: fmt.Sprintf("Accept %s's %s", log.PlayerName(pw.Attacker), pw.Card.Def.Name)},
		}
	}
	if player != gs.CurrentPlayer {
		return nil
	}

	switch gs.Phase() {
	case PhaseAwaitingDraw:
		return m.drawActions(player)
	case PhaseAwaitingPlay:
		return m.playActions(player)
	default:
		return []Action{{Type: ActionEndTurn, Player: player, Desc: "End Turn"}}
	}
}

func (m *Match) drawActions(player int) []Action {
	gs := m.gs
	var actions []Action
	if gs.CanDraw() {
		actions = append(actions, Action{Type: ActionDraw, Player: player, Desc: "Draw from the draw pile"})
	}
	if gs.CanDrawFromDiscard() {
		top, _ := gs.DiscardPile.Top()
		actions = append(actions, Action{Type: ActionDrawDiscard, Player: player, Card: top.ID, CardID: top.Def.ID,
			Desc: fmt.Sprintf("Take %s from the discard pile", top.Def.Name)})
	}
	if gs.CanSkip() {
		actions = append(actions, Action{Type: ActionSkip, Player: player, Desc: "Skip Turn"})
	}
	return actions
}

func (m *Match) playActions(player int) []Action {
	gs := m.gs
	p := gs.Players[player]

	var actions []Action
	seen := make(map[string]bool)
	add := func(a Action) {
		// identical copies in hand produce identical choices
		key := fmt.Sprintf("%d/%d/%d/%d/%d", a.Type, a.CardID, a.Target, a.Slot, a.Selection)
		if a.Type == ActionDiscardPlayed {
			key = fmt.Sprintf("%d/%d", a.Type, a.Card)
		}
		if seen[key] {
			return
		}
		seen[key] = true
		actions = append(actions, a)
	}

	for _, c := range p.Hand {
		def := c.Def
		switch {
		case def.IsPlay():
			for _, slot := range p.FreeSlots() {
				add(Action{Type: ActionPlayCard, Player: player, Card: c.ID, CardID: def.ID, Slot: slot,
					Desc: fmt.Sprintf("Play %s to slot %d", def.Name, slot+1)})
			}

		case def.IsWeapon():
			for _, t := range gs.Players {
				if t.Index == player {
					continue
				}
				for _, a := range m.weaponActions(player, c, t) {
					add(a)
				}
			}

		case def.IsHelper():
			switch def.ID {
			case CardExtension, CardNepotism:
				for _, ci := range p.InPlay() {
					if def.ID == CardNepotism && ci.ProtectedByNepotism {
						continue
					}
					if def.ID == CardExtension && ci.ExpiresAfter() == 0 {
						continue
					}
					add(Action{Type: ActionUseHelper, Player: player, Card: c.ID, CardID: def.ID, Selection: ci.ID, Slot: ci.Slot,
						Desc: fmt.Sprintf("Use %s on %s (slot %d)", def.Name, ci.Def.Name, ci.Slot+1)})
				}
			case CardNewbie:
				add(Action{Type: ActionUseHelper, Player: player, Card: c.ID, CardID: def.ID,
					Desc: fmt.Sprintf("Use %s: new hand", def.Name)})
			}
		}
	}

	for _, c := range p.Hand {
		add(Action{Type: ActionDiscardHand, Player: player, Card: c.ID, CardID: c.Def.ID,
			Desc: fmt.Sprintf("Discard %s", c.Def.Name)})
	}
	for _, ci := range p.InPlay() {
		add(Action{Type: ActionDiscardPlayed, Player: player, Card: ci.ID, CardID: ci.Def.ID, Slot: ci.Slot,
			Desc: fmt.Sprintf("Discard played %s (slot %d, keeps %d)", ci.Def.Name, ci.Slot+1, ci.FinalHourValue())})
	}
	if gs.CanSkip() {
		add(Action{Type: ActionSkip, Player: player, Desc: "Skip Turn"})
	}
	return actions
}

func (m *Match) weaponActions(player int, c HeldCard, t *Player) []Action {
	def := c.Def
	name := log.PlayerName(t.Index)
	base := Action{Type: ActionPlayWeapon, Player: player, Card: c.ID, CardID: def.ID, Target: t.Index}

	var actions []Action
	switch {
	case def.IsPlayWeapon():
		slots := t.FreeSlots()
		forced := len(slots) == 0
		if forced {
			slots = []int{0, 1, 2}
		}
		for _, slot := range slots {
			a := base
			a.Slot = slot
			if forced {
				a.Desc = fmt.Sprintf("%s on %s, replacing %s (slot %d)", def.Name, name, t.Slots[slot].Def.Name, slot+1)
			} else {
				a.Desc = fmt.Sprintf("%s on %s (slot %d)", def.Name, name, slot+1)
			}
			actions = append(actions, a)
		}

	case def.ID == CardTardy || def.ID == CardDeadline:
		for _, ci := range t.InPlay() {
			a := base
			a.Slot = ci.Slot
			a.Selection = ci.ID
			a.Desc = fmt.Sprintf("%s on %s's %s (slot %d)", def.Name, name, ci.Def.Name, ci.Slot+1)
			actions = append(actions, a)
		}

	case def.ID == CardForeignExchange:
		if len(t.Hand) > 0 && len(m.gs.Players[player].Hand) > 1 {
			a := base
			a.Desc = fmt.Sprintf("%s with %s", def.Name, name)
			actions = append(actions, a)
		}

	default:
		a := base
		a.Desc = fmt.Sprintf("%s on %s", def.Name, name)
		actions = append(actions, a)
	}
	return actions
}

// Execute dispatches an action to the matching command.
func (m *Match) Execute(a Action) (*Result, error) {
	switch a.Type {
	case ActionDraw:
		return m.Draw(a.Player, SourceDeck)
	case ActionDrawDiscard:
		return m.Draw(a.Player, SourceDiscard)
	case ActionPlayCard:
		return m.PlayCard(a.Player, a.Card, a.Slot)
	case ActionPlayWeapon:
		return m.PlayWeapon(a.Player, a.Card, a.Target, a.Slot)
	case ActionUseHelper:
		return m.UseHelper(a.Player, a.Card, a.Selection)
	case ActionDiscardHand:
		return m.DiscardHand(a.Player, a.Card)
	case ActionDiscardPlayed:
		return m.DiscardPlayed(a.Player, a.Card)
	case ActionSkip:
		return m.SkipTurn(a.Player)
	case ActionEndTurn:
		return m.AdvanceTurn()
	case ActionExcuse:
		return m.RespondToWeapon(a.Player, true)
	case ActionAccept:
		return m.RespondToWeapon(a.Player, false)
	default:
		return nil, fmt.Errorf("%w: unknown action type %d", ErrInvalidTarget, a.Type)
	}
}
