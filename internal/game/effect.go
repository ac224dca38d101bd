package game

import (
	"fmt"

	"github.com/peterkuimelis/procrastination/internal/log"
)

// --- Weapons ---

// PlayWeapon plays a weapon from the attacker's hand against target. For
// play-weapons slot is where the weapon lands in the target's play area; for
// Tardy and Deadline it picks the target's card. If the target holds Excused
// the weapon waits for RespondToWeapon and the result is ResultPending.
func (m *Match) PlayWeapon(attacker, cardID, target, slot int) (*Result, error) {
	if err := m.guardPlay(attacker); err != nil {
		return nil, err
	}
	c, err := m.handCard(attacker, cardID)
	if err != nil {
		return nil, err
	}
	if !c.Def.IsWeapon() {
		return nil, fmt.Errorf("%w: %s is not a weapon", ErrInvalidTarget, c.Def.Name)
	}
	if err := m.checkPlayer(target); err != nil {
		return nil, err
	}
	if target == attacker {
		return nil, fmt.Errorf("%w: %s must target another player", ErrInvalidTarget, c.Def.Name)
	}

	tp := m.gs.Players[target]
	switch {
	case c.Def.IsPlayWeapon():
		if slot < 0 || slot >= MaxCardsInPlay {
			return nil, fmt.Errorf("%w: slot %d out of range", ErrInvalidTarget, slot)
		}
		if tp.FreeSlot() >= 0 && tp.Slots[slot] != nil {
			return nil, fmt.Errorf("%w: slot %d occupied", ErrInvalidTarget, slot)
		}
	case c.Def.ID == CardTardy || c.Def.ID == CardDeadline:
		if tp.InPlayCount() == 0 {
			m.begin()
			m.emit(log.NewNoTargetEvent(attacker, c.Def.Name, fmt.Sprintf("%s has no cards in play", log.PlayerName(target))))
			return m.finish(ResultNoTarget), nil
		}
		if slot < 0 || slot >= MaxCardsInPlay || tp.Slots[slot] == nil {
			return nil, fmt.Errorf("%w: no card in %s's slot %d", ErrInvalidTarget, log.PlayerName(target), slot)
		}
	}

	m.begin()
	m.gs.Players[attacker].RemoveFromHand(c.ID)
	m.gs.HasPlayed = true

	if tp.HasInHand(CardExcused) {
		m.gs.Pending = &PendingWeapon{Attacker: attacker, Defender: target, Card: c, Slot: slot}
		m.emit(log.NewDefendEvent(attacker, target, c.Def.Name))
		return m.finish(ResultPending), nil
	}
	code := m.resolveWeapon(attacker, target, c, slot)
	return m.finish(code), nil
}

// RespondToWeapon answers a pending weapon. With excuse the defender spends an
// Excused and both cards go to the discard pile; otherwise the weapon resolves.
func (m *Match) RespondToWeapon(defender int, excuse bool) (*Result, error) {
	gs := m.gs
	if gs.Over {
		return nil, ErrGameOver
	}
	pw := gs.Pending
	if pw == nil || pw.Defender != defender {
		return nil, fmt.Errorf("%w: no weapon waiting on P%d", ErrIllegalPhase, defender+1)
	}

	m.begin()
	gs.Pending = nil
	if excuse {
		dp := gs.Players[defender]
		for _, h := range dp.Hand {
			if h.Def.ID == CardExcused {
				dp.RemoveFromHand(h.ID)
				gs.DiscardPile.Push(h)
				break
			}
		}
		gs.DiscardPile.Push(pw.Card)
		m.emit(log.NewDeflectEvent(pw.Attacker, defender, pw.Card.Def.Name))
		return m.finish(ResultDeflected), nil
	}
	code := m.resolveWeapon(pw.Attacker, defender, pw.Card, pw.Slot)
	return m.finish(code), nil
}

// resolveWeapon commits a weapon whose card has already left the attacker's hand.
func (m *Match) resolveWeapon(attacker, target int, c HeldCard, slot int) ResultCode {
	gs := m.gs
	tp := gs.Players[target]
	ap := gs.Players[attacker]

	if c.Def.IsPlayWeapon() {
		if tp.FreeSlot() >= 0 && tp.Slots[slot] != nil {
			slot = tp.FreeSlot()
		}
		m.placePlayWeapon(attacker, target, c, slot)
		return ResultOK
	}

	defer gs.DiscardPile.Push(c)
	switch c.Def.ID {
	case CardTardy:
		ci := tp.Slots[slot]
		if ci == nil {
			m.emit(log.NewNoTargetEvent(attacker, c.Def.Name, "card left play"))
			return ResultNoTarget
		}
		ci.AddRound()
		m.emit(log.NewWeaponEvent(attacker, target, c.Def.Name, fmt.Sprintf("%s is now at round %d", ci.Def.Name, ci.RoundsInPlay)))
		if ci.HasExpired {
			m.emit(log.NewExpireEvent(target, ci.Def.Name, ci.State()))
		}

	case CardDeadline:
		ci := tp.Slots[slot]
		if ci == nil {
			m.emit(log.NewNoTargetEvent(attacker, c.Def.Name, "card left play"))
			return ResultNoTarget
		}
		ci.ForceExpire()
		final := ci.FinalHourValue()
		m.emit(log.NewWeaponEvent(attacker, target, c.Def.Name, fmt.Sprintf("%s expires", ci.Def.Name)))
		tp.removeFromPlay(ci)
		m.emit(log.NewSettleEvent(target, ci.Def.Name, final, ci.State()))
		m.adjustHours(target, final, ci.Def.Name)
		m.leavePlay(ci)

	case CardScammer:
		if tp.Hours <= 0 {
			m.emit(log.NewNoTargetEvent(attacker, c.Def.Name, fmt.Sprintf("%s has no hours", log.PlayerName(target))))
			return ResultNoTarget
		}
		m.emit(log.NewWeaponEvent(attacker, target, c.Def.Name, "steals 1 hour"))
		m.adjustHours(target, -1, c.Def.Name)
		m.adjustHours(attacker, 1, c.Def.Name)

	case CardQuit:
		if len(tp.Hand) == 0 {
			m.emit(log.NewNoTargetEvent(attacker, c.Def.Name, fmt.Sprintf("%s has an empty hand", log.PlayerName(target))))
			return ResultNoTarget
		}
		lost := tp.Hand[m.rng.Intn(len(tp.Hand))]
		tp.RemoveFromHand(lost.ID)
		gs.DiscardPile.Push(lost)
		m.emit(log.NewWeaponEvent(attacker, target, c.Def.Name, "random card discarded"))
		m.emit(log.NewDiscardEvent(target, lost.Def.Name))

	case CardForeignExchange:
		if len(tp.Hand) == 0 || len(ap.Hand) == 0 {
			m.emit(log.NewNoTargetEvent(attacker, c.Def.Name, "both hands need a card"))
			return ResultNoTarget
		}
		ai := m.rng.Intn(len(ap.Hand))
		ti := m.rng.Intn(len(tp.Hand))
		ap.Hand[ai], tp.Hand[ti] = tp.Hand[ti], ap.Hand[ai]
		m.emit(log.NewWeaponEvent(attacker, target, c.Def.Name, "one card traded each way"))
	}
	return ResultOK
}

// placePlayWeapon puts a play-weapon into the target's slot. A full play area
// loses the card in that slot first, settled as a manual discard.
func (m *Match) placePlayWeapon(attacker, target int, c HeldCard, slot int) {
	tp := m.gs.Players[target]
	if old := tp.Slots[slot]; old != nil {
		m.discardFromPlay(old, "forced out by "+c.Def.Name)
	}
	ci := NewCardInstance(m.gs.NextID(), c.Def, target, slot)
	ci.Attacker = attacker
	tp.Slots[slot] = ci
	m.emit(log.NewWeaponEvent(attacker, target, c.Def.Name, fmt.Sprintf("placed in slot %d", slot+1)))

	imm := c.Def.ImmediateHours
	if c.Def.HasParasiteMechanic() {
		m.adjustHours(attacker, imm, c.Def.Name)
		m.adjustHours(target, -imm, c.Def.Name)
		return
	}
	m.adjustHours(target, imm, c.Def.Name)
}

// --- Helpers ---

// UseHelper uses a helper card as the turn's play. Extension and Nepotism take
// the instance ID of one of the player's own cards in selection. With nothing
// in play they report ResultNoTarget and the card stays in hand.
func (m *Match) UseHelper(player, cardID, selection int) (*Result, error) {
	if err := m.guardPlay(player); err != nil {
		return nil, err
	}
	c, err := m.handCard(player, cardID)
	if err != nil {
		return nil, err
	}
	if !c.Def.IsHelper() {
		return nil, fmt.Errorf("%w: %s is not a helper", ErrInvalidTarget, c.Def.Name)
	}
	p := m.gs.Players[player]

	switch c.Def.ID {
	case CardExcused:
		return nil, fmt.Errorf("%w: Excused only answers a weapon", ErrInvalidTarget)

	case CardExtension, CardNepotism:
		if p.InPlayCount() == 0 {
			m.begin()
			m.emit(log.NewNoTargetEvent(player, c.Def.Name, "no cards in play"))
			return m.finish(ResultNoTarget), nil
		}
		ci := p.FindInPlay(selection)
		if ci == nil {
			return nil, fmt.Errorf("%w: card #%d not in P%d's play area", ErrInvalidTarget, selection, player+1)
		}

		m.begin()
		p.RemoveFromHand(c.ID)
		if c.Def.ID == CardExtension {
			ci.ExtendExpiration(ExtensionRounds)
			m.emit(log.NewHelperEvent(player, c.Def.Name, fmt.Sprintf("%s gets %d more rounds", ci.Def.Name, ExtensionRounds)))
		} else {
			ci.ProtectedByNepotism = true
			m.emit(log.NewHelperEvent(player, c.Def.Name, fmt.Sprintf("%s is protected", ci.Def.Name)))
		}
		m.gs.DiscardPile.Push(c)

	case CardNewbie:
		m.begin()
		p.RemoveFromHand(c.ID)
		m.emit(log.NewHelperEvent(player, c.Def.Name, fmt.Sprintf("discards %d cards and draws a new hand", len(p.Hand))))
		m.discardHand(player)
		m.refillHand(player)
		m.gs.DiscardPile.Push(c)
	}

	m.gs.HasPlayed = true
	return m.finish(ResultOK), nil
}

// discardHand moves the whole hand to the discard pile.
func (m *Match) discardHand(player int) {
	p := m.gs.Players[player]
	for _, h := range p.Hand {
		m.gs.DiscardPile.Push(h)
		m.emit(log.NewDiscardEvent(player, h.Def.Name))
	}
	p.Hand = nil
}

// refillHand draws until the hand holds HandSize cards, resolving any alerts
// drawn on the way.
func (m *Match) refillHand(player int) {
	if m.refilling {
		return
	}
	m.refilling = true
	defer func() { m.refilling = false }()

	p := m.gs.Players[player]
	for attempts := 0; p.HandCount() < HandSize && m.gs.CanDraw() && attempts < 4*HandSize; attempts++ {
		c, _ := m.drawFromPile()
		if c.Def.IsAlert() {
			m.resolveAlert(player, c)
			continue
		}
		p.Hand = append(p.Hand, c)
		m.emit(log.NewDrawEvent(player, c.Def.Name, SourceDeck.String()))
	}
}

// --- Alerts ---

// resolveAlert applies an alert the instant it is drawn and discards it.
func (m *Match) resolveAlert(player int, c HeldCard) {
	gs := m.gs
	gs.DiscardPile.Push(c)

	switch c.Def.ID {
	case CardAmnesia:
		m.emit(log.NewAlertEvent(player, c.Def.Name, "all cards in play reset"))
		for _, p := range gs.Players {
			for _, ci := range p.InPlay() {
				ci.Reset()
			}
		}

	case CardFired:
		m.emit(log.NewAlertEvent(player, c.Def.Name, fmt.Sprintf("all of %s's cards expire", log.PlayerName(player))))
		m.settleAll(gs.Players[player])

	case CardRecession:
		m.emit(log.NewAlertEvent(player, c.Def.Name, "all cards of all players expire"))
		for _, p := range gs.Players {
			m.settleAll(p)
		}

	case CardPerformanceReview:
		m.emit(log.NewAlertEvent(player, c.Def.Name, fmt.Sprintf("%s discards the hand and redraws", log.PlayerName(player))))
		m.discardHand(player)
		m.refillHand(player)
	}
}

// settleAll force-expires and removes every card a player has in play,
// crediting each final hour value.
func (m *Match) settleAll(p *Player) {
	for _, ci := range p.InPlay() {
		ci.ForceExpire()
		final := ci.FinalHourValue()
		p.removeFromPlay(ci)
		m.emit(log.NewSettleEvent(p.Index, ci.Def.Name, final, ci.State()))
		m.adjustHours(p.Index, final, ci.Def.Name)
		m.leavePlay(ci)
	}
}
