package game

import (
	"errors"
	"testing"

	"github.com/peterkuimelis/procrastination/internal/log"
)

func TestNewMatchValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  MatchConfig
	}{
		{"one player", MatchConfig{Players: 1}},
		{"seven players", MatchConfig{Players: 7}},
		{"zero players", MatchConfig{}},
		{"negative hours", MatchConfig{Players: 2, StartingHours: -1}},
		{"deck too small", MatchConfig{Players: 4, Deck: makeDeck(CardOnTheClock, 10)}},
		{"only alerts", MatchConfig{Players: 2, Deck: makeDeck(CardAmnesia, 40)}},
		{"unknown card", MatchConfig{Players: 2, Deck: append(makeDeck(CardOnTheClock, 20), CardID(99))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMatch(tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNewMatchDefaults(t *testing.T) {
	m, err := NewMatch(MatchConfig{Players: 4, Seed: 7})
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	gs := m.State()
	if gs.MaxRounds != DefaultMaxRounds || gs.Round != 0 || gs.Turn != 1 || gs.CurrentPlayer != 0 {
		t.Fatalf("unexpected start state: round %d/%d turn %d player %d", gs.Round, gs.MaxRounds, gs.Turn, gs.CurrentPlayer)
	}
	total := gs.DrawPile.Len() + gs.DiscardPile.Len()
	for _, p := range gs.Players {
		if p.Hours != DefaultStartingHours {
			t.Errorf("P%d hours = %d, want %d", p.Index+1, p.Hours, DefaultStartingHours)
		}
		if p.HandCount() != HandSize {
			t.Errorf("P%d hand = %d, want %d", p.Index+1, p.HandCount(), HandSize)
		}
		for _, c := range p.Hand {
			if c.Def.IsAlert() {
				t.Errorf("P%d was dealt alert %s", p.Index+1, c.Def.Name)
			}
		}
		total += p.HandCount()
	}
	if total != 80 {
		t.Errorf("cards in match = %d, want 80", total)
	}
	if gs.Phase() != PhaseAwaitingDraw {
		t.Errorf("phase = %s, want Draw", gs.Phase())
	}
}

func TestScammerStealsOneHour(t *testing.T) {
	m, _ := newTestMatch(t, 4)
	scammer := give(m, 0, CardScammer)
	mustDraw(t, m, 0)

	res := must(t)(m.PlayWeapon(0, scammer.ID, 1, 0))
	if res.Code != ResultOK {
		t.Fatalf("code = %s, want ok", res.Code)
	}
	if got := m.gs.Players[0].Hours; got != 101 {
		t.Errorf("P1 hours = %d, want 101", got)
	}
	if got := m.gs.Players[1].Hours; got != 99 {
		t.Errorf("P2 hours = %d, want 99", got)
	}
	if top, _ := m.gs.DiscardPile.Top(); top.ID != scammer.ID {
		t.Error("Scammer should be discarded after use")
	}
}

func TestScammerOnEmptyBalanceIsNoop(t *testing.T) {
	m, logger := newTestMatch(t, 4)
	m.gs.Players[1].Hours = 0
	scammer := give(m, 0, CardScammer)
	mustDraw(t, m, 0)

	res := must(t)(m.PlayWeapon(0, scammer.ID, 1, 0))
	if res.Code != ResultNoTarget {
		t.Fatalf("code = %s, want no target", res.Code)
	}
	if m.gs.Players[0].Hours != 100 || m.gs.Players[1].Hours != 0 {
		t.Errorf("balances changed: %d / %d", m.gs.Players[0].Hours, m.gs.Players[1].Hours)
	}
	if len(logger.EventsOfType(log.EventNoTarget)) != 1 {
		t.Error("expected a no-target event")
	}
}

func TestTurnGuards(t *testing.T) {
	m, _ := newTestMatch(t, 3)
	hand := m.gs.Players[0].Hand

	_, err := m.Draw(1, SourceDeck)
	expectErr(t, err, ErrIllegalPhase)

	_, err = m.PlayCard(0, hand[0].ID, 0)
	expectErr(t, err, ErrIllegalPhase)

	_, err = m.AdvanceTurn()
	expectErr(t, err, ErrIllegalPhase)

	mustDraw(t, m, 0)
	_, err = m.Draw(0, SourceDeck)
	expectErr(t, err, ErrIllegalPhase)

	_, err = m.PlayCard(0, 9999, 0)
	expectErr(t, err, ErrInvalidTarget)

	must(t)(m.PlayCard(0, hand[0].ID, 0))
	_, err = m.DiscardHand(0, m.gs.Players[0].Hand[0].ID)
	expectErr(t, err, ErrIllegalPhase)

	if m.gs.Phase() != PhaseTurnComplete {
		t.Fatalf("phase = %s, want Done", m.gs.Phase())
	}
	must(t)(m.AdvanceTurn())
	if m.gs.CurrentPlayer != 1 || m.gs.Turn != 2 {
		t.Errorf("after advance: player %d turn %d", m.gs.CurrentPlayer, m.gs.Turn)
	}
}

func TestRefusedCommandLeavesStateAlone(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	mustDraw(t, m, 0)
	p := m.gs.Players[0]
	place(m.gs, 0, CardOnTheClock, 1)
	handBefore := p.HandCount()

	_, err := m.PlayCard(0, p.Hand[0].ID, 1)
	expectErr(t, err, ErrInvalidTarget)
	_, err = m.PlayCard(0, p.Hand[0].ID, 3)
	expectErr(t, err, ErrInvalidTarget)

	if p.HandCount() != handBefore || m.gs.HasPlayed {
		t.Error("refused play changed the match")
	}
}

func TestSlotLimit(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	mustDraw(t, m, 0)
	for slot := 0; slot < MaxCardsInPlay; slot++ {
		place(m.gs, 0, CardOnTheClock, slot)
	}
	_, err := m.PlayCard(0, m.gs.Players[0].Hand[0].ID, 0)
	expectErr(t, err, ErrInvalidTarget)
}

func TestPlayCardAppliesImmediateHours(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	risky := give(m, 0, CardRisky)
	mustDraw(t, m, 0)

	must(t)(m.PlayCard(0, risky.ID, 2))
	ci := m.gs.Players[0].Slots[2]
	if ci == nil || ci.Def.ID != CardRisky {
		t.Fatal("Risky should be in slot 3")
	}
	if ci.ID == risky.ID {
		t.Error("a card entering play should get a fresh instance ID")
	}
	if m.gs.Players[0].Hours != 95 {
		t.Errorf("hours = %d, want 95", m.gs.Players[0].Hours)
	}
	if ci.CurrentHourValue != -5 {
		t.Errorf("card value = %d, want -5", ci.CurrentHourValue)
	}
}

func TestSharingLinksToNextPlayer(t *testing.T) {
	m, _ := newTestMatch(t, 3)
	first := place(m.gs, 1, CardOnTheClock, 2)
	share := give(m, 0, CardSharingIsCaring)
	mustDraw(t, m, 0)

	must(t)(m.PlayCard(0, share.ID, 0))
	ci := m.gs.Players[0].Slots[0]
	if ci.LinkedPlayer != 1 || ci.LinkedCard != first.ID {
		t.Errorf("linked to P%d card #%d, want P2 card #%d", ci.LinkedPlayer+1, ci.LinkedCard, first.ID)
	}
}

func TestSharingVoidedWhenLinkedCardIsReplayed(t *testing.T) {
	m, _ := newTestMatch(t, 3)
	target := place(m.gs, 1, CardOnTheClock, 0)
	share := give(m, 0, CardSharingIsCaring)

	mustDraw(t, m, 0)
	must(t)(m.PlayCard(0, share.ID, 0))
	must(t)(m.AdvanceTurn())

	mustDraw(t, m, 1)
	must(t)(m.DiscardPlayed(1, target.ID))
	must(t)(m.AdvanceTurn())

	must(t)(m.Draw(2, SourceDiscard))
	hand := m.gs.Players[2].Hand
	replayed := hand[len(hand)-1]
	if replayed.ID != target.ID {
		t.Fatalf("expected P3 to take #%d from the discard pile, got #%d", target.ID, replayed.ID)
	}
	must(t)(m.PlayCard(2, replayed.ID, 0))
	if ci := m.gs.Players[2].Slots[0]; ci.ID == target.ID {
		t.Errorf("replayed card kept instance ID #%d", ci.ID)
	}
	must(t)(m.AdvanceTurn())

	if m.gs.Round != 1 {
		t.Fatalf("round = %d, want 1", m.gs.Round)
	}
	if m.gs.Players[0].Slots[0] != nil {
		t.Error("sharing card should be voided once its linked card left play")
	}
}

func TestRoundRunsWhenTurnWraps(t *testing.T) {
	m, logger := newTestMatch(t, 2)
	ci := place(m.gs, 1, CardOnTheClock, 0)

	passTurn(t, m)
	if m.gs.Round != 0 {
		t.Fatalf("round advanced mid-rotation")
	}
	passTurn(t, m)
	if m.gs.Round != 1 || m.gs.CurrentPlayer != 0 || m.gs.Turn != 3 {
		t.Fatalf("after wrap: round %d player %d turn %d", m.gs.Round, m.gs.CurrentPlayer, m.gs.Turn)
	}
	if ci.RoundsInPlay != 1 || ci.CurrentHourValue != 1 {
		t.Errorf("card after round: %s", ci)
	}
	if len(logger.EventsOfType(log.EventNewRound)) != 1 {
		t.Error("expected one new round event")
	}
}

func TestDownsizingRollsToNextPlayer(t *testing.T) {
	m, logger := newTestMatch(t, 3)
	ds := give(m, 0, CardDownsizing)
	mustDraw(t, m, 0)

	must(t)(m.PlayWeapon(0, ds.ID, 1, 0))
	p2 := m.gs.Players[1]
	if p2.Slots[0] == nil || p2.Slots[0].Def.ID != CardDownsizing || p2.Slots[0].Attacker != 0 {
		t.Fatalf("Downsizing not placed on P2: %v", p2.Slots[0])
	}
	if p2.Hours != 96 {
		t.Errorf("P2 hours = %d, want 96", p2.Hours)
	}

	must(t)(m.AdvanceTurn())
	mustDraw(t, m, 1)
	must(t)(m.DiscardPlayed(1, p2.Slots[0].ID))

	p3 := m.gs.Players[2]
	if p2.Slots[0] != nil {
		t.Error("Downsizing should have left P2")
	}
	rolled := p3.Slots[0]
	if rolled == nil || rolled.Def.ID != CardDownsizing {
		t.Fatalf("Downsizing did not roll to P3")
	}
	if rolled.Attacker != 0 {
		t.Errorf("rolled attacker = P%d, want P1", rolled.Attacker+1)
	}
	if rolled.RoundsInPlay != 0 || rolled.CurrentHourValue != -4 {
		t.Errorf("rolled copy should be fresh: %s", rolled)
	}
	if p3.Hours != 96 {
		t.Errorf("P3 hours = %d, want 96", p3.Hours)
	}
	if len(logger.EventsOfType(log.EventRoll)) != 1 {
		t.Error("expected one roll event")
	}
}

func TestDeadlineRollsDownsizing(t *testing.T) {
	m, _ := newTestMatch(t, 3)
	ci := place(m.gs, 1, CardDownsizing, 1)
	ci.Attacker = 2
	deadline := give(m, 0, CardDeadline)
	mustDraw(t, m, 0)

	must(t)(m.PlayWeapon(0, deadline.ID, 1, 1))
	if m.gs.Players[1].Slots[1] != nil {
		t.Fatal("Deadline should remove the card")
	}
	// Expired with a negative value: the loss passes on.
	if m.gs.Players[1].Hours != 96 {
		t.Errorf("P2 hours = %d, want 96", m.gs.Players[1].Hours)
	}
	rolled := m.gs.Players[2].Slots[0]
	if rolled == nil || rolled.Def.ID != CardDownsizing || rolled.Attacker != 2 {
		t.Fatalf("Downsizing should roll to P3 keeping attacker P3, got %v", rolled)
	}
}

func TestPlayWeaponForcedDiscard(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	for slot := 0; slot < MaxCardsInPlay; slot++ {
		place(m.gs, 1, CardOnTheClock, slot)
	}
	m.gs.Players[1].Slots[1].CurrentHourValue = 3
	sm := give(m, 0, CardStockMarket)
	mustDraw(t, m, 0)

	must(t)(m.PlayWeapon(0, sm.ID, 1, 1))
	p2 := m.gs.Players[1]
	if p2.Slots[1].Def.ID != CardStockMarket {
		t.Fatalf("slot 2 holds %s, want Stock Market", p2.Slots[1].Def.Name)
	}
	// +3 from the forced discard, -4 from Stock Market
	if p2.Hours != 99 {
		t.Errorf("P2 hours = %d, want 99", p2.Hours)
	}
}

func TestPlayWeaponRejectsOccupiedSlotWhenFreeExists(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	place(m.gs, 1, CardOnTheClock, 0)
	sm := give(m, 0, CardStockMarket)
	mustDraw(t, m, 0)

	_, err := m.PlayWeapon(0, sm.ID, 1, 0)
	expectErr(t, err, ErrInvalidTarget)
	_, err = m.PlayWeapon(0, sm.ID, 0, 1)
	expectErr(t, err, ErrInvalidTarget)
	_, err = m.PlayWeapon(0, sm.ID, 5, 1)
	expectErr(t, err, ErrInvalidTarget)
}

func TestParasiteTransfersHours(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	parasite := give(m, 0, CardParasite)
	mustDraw(t, m, 0)

	must(t)(m.PlayWeapon(0, parasite.ID, 1, 0))
	if m.gs.Players[0].Hours != 104 || m.gs.Players[1].Hours != 96 {
		t.Errorf("hours = %d / %d, want 104 / 96", m.gs.Players[0].Hours, m.gs.Players[1].Hours)
	}
	if ci := m.gs.Players[1].Slots[0]; ci.Attacker != 0 || ci.Owner != 1 {
		t.Errorf("parasite owner P%d attacker P%d", ci.Owner+1, ci.Attacker+1)
	}
}

func TestTardyAndQuit(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	target := place(m.gs, 1, CardOnTheClock, 2)
	tardy := give(m, 0, CardTardy)
	mustDraw(t, m, 0)
	must(t)(m.PlayWeapon(0, tardy.ID, 1, 2))
	if target.RoundsInPlay != 1 || target.CurrentHourValue != 0 {
		t.Errorf("Tardy: %s", target)
	}
	must(t)(m.AdvanceTurn())
	passTurn(t, m)

	quit := give(m, 0, CardQuit)
	before := m.gs.Players[1].HandCount()
	mustDraw(t, m, 0)
	must(t)(m.PlayWeapon(0, quit.ID, 1, 0))
	if m.gs.Players[1].HandCount() != before-1 {
		t.Errorf("Quit: P2 hand %d, want %d", m.gs.Players[1].HandCount(), before-1)
	}
}

func TestTardyWithNothingInPlay(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	tardy := give(m, 0, CardTardy)
	mustDraw(t, m, 0)

	res := must(t)(m.PlayWeapon(0, tardy.ID, 1, 0))
	if res.Code != ResultNoTarget {
		t.Fatalf("code = %s, want no target", res.Code)
	}
	if _, ok := m.gs.Players[0].FindInHand(tardy.ID); !ok || m.gs.HasPlayed {
		t.Error("Tardy with no target should stay in hand and not count as the play")
	}
}

func TestForeignExchange(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	m.gs.Players[1].Hand = nil
	marker := give(m, 1, CardNewbie)
	fx := give(m, 0, CardForeignExchange)
	mustDraw(t, m, 0)

	must(t)(m.PlayWeapon(0, fx.ID, 1, 0))
	if _, ok := m.gs.Players[0].FindInHand(marker.ID); !ok {
		t.Error("P1 should have received P2's only card")
	}
	if m.gs.Players[1].HandCount() != 1 || m.gs.Players[1].Hand[0].Def.ID != CardOnTheClock {
		t.Error("P2 should hold one of P1's cards")
	}
}

func TestExcusedDeflectsWeapon(t *testing.T) {
	m, logger := newTestMatch(t, 2)
	excused := give(m, 1, CardExcused)
	scammer := give(m, 0, CardScammer)
	mustDraw(t, m, 0)

	res := must(t)(m.PlayWeapon(0, scammer.ID, 1, 0))
	if res.Code != ResultPending {
		t.Fatalf("code = %s, want pending", res.Code)
	}
	if m.LegalActions(0) != nil {
		t.Error("attacker should have no actions while the defender decides")
	}
	acts := m.LegalActions(1)
	if len(acts) != 2 || acts[0].Type != ActionExcuse || acts[1].Type != ActionAccept {
		t.Fatalf("defender actions = %v", acts)
	}
	_, err := m.AdvanceTurn()
	expectErr(t, err, ErrIllegalPhase)
	_, err = m.RespondToWeapon(0, true)
	expectErr(t, err, ErrIllegalPhase)

	res = must(t)(m.RespondToWeapon(1, true))
	if res.Code != ResultDeflected {
		t.Fatalf("code = %s, want deflected", res.Code)
	}
	if m.gs.Players[0].Hours != 100 || m.gs.Players[1].Hours != 100 {
		t.Error("deflected weapon changed balances")
	}
	if _, ok := m.gs.Players[1].FindInHand(excused.ID); ok {
		t.Error("Excused should be spent")
	}
	n := m.gs.DiscardPile.Len()
	if m.gs.DiscardPile.Cards[n-1].ID != scammer.ID || m.gs.DiscardPile.Cards[n-2].ID != excused.ID {
		t.Error("both cards should be on the discard pile")
	}
	if len(logger.EventsOfType(log.EventDeflect)) != 1 {
		t.Error("expected a deflect event")
	}
	must(t)(m.AdvanceTurn())
}

func TestExcusedDeclined(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	give(m, 1, CardExcused)
	scammer := give(m, 0, CardScammer)
	mustDraw(t, m, 0)
	must(t)(m.PlayWeapon(0, scammer.ID, 1, 0))

	res := must(t)(m.Execute(Action{Type: ActionAccept, Player: 1}))
	if res.Code != ResultOK {
		t.Fatalf("code = %s", res.Code)
	}
	if m.gs.Players[0].Hours != 101 || m.gs.Players[1].Hours != 99 {
		t.Errorf("hours = %d / %d", m.gs.Players[0].Hours, m.gs.Players[1].Hours)
	}
	if !m.gs.Players[1].HasInHand(CardExcused) {
		t.Error("declining should keep Excused")
	}
}

func TestExtensionAndNepotism(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	ext := give(m, 0, CardExtension)
	mustDraw(t, m, 0)

	res := must(t)(m.UseHelper(0, ext.ID, 0))
	if res.Code != ResultNoTarget {
		t.Fatalf("code = %s, want no target", res.Code)
	}
	if m.gs.HasPlayed {
		t.Fatal("a helper with no target must not count as the play")
	}

	ci := place(m.gs, 0, CardOnTheClock, 0)
	_, err := m.UseHelper(0, ext.ID, 12345)
	expectErr(t, err, ErrInvalidTarget)
	must(t)(m.UseHelper(0, ext.ID, ci.ID))
	if ci.ExpiresAfter() != 10 {
		t.Errorf("ExpiresAfter = %d, want 10", ci.ExpiresAfter())
	}
	must(t)(m.AdvanceTurn())
	passTurn(t, m)

	nep := give(m, 0, CardNepotism)
	mustDraw(t, m, 0)
	must(t)(m.UseHelper(0, nep.ID, ci.ID))
	if !ci.ProtectedByNepotism {
		t.Error("Nepotism should protect the card")
	}

	excused := give(m, 0, CardExcused)
	m.gs.HasPlayed = false
	_, err = m.UseHelper(0, excused.ID, 0)
	expectErr(t, err, ErrInvalidTarget)
}

func TestNewbieReplacesHand(t *testing.T) {
	m, logger := newTestMatch(t, 2)
	mustDraw(t, m, 0)
	newbie := give(m, 0, CardNewbie)
	handBefore := m.gs.Players[0].HandCount() - 1

	must(t)(m.UseHelper(0, newbie.ID, 0))
	p := m.gs.Players[0]
	if p.HandCount() != HandSize {
		t.Errorf("hand = %d, want %d", p.HandCount(), HandSize)
	}
	if p.HasInHand(CardNewbie) {
		t.Error("Newbie should be discarded")
	}
	if top, _ := m.gs.DiscardPile.Top(); top.ID != newbie.ID {
		t.Error("Newbie should be the last card discarded")
	}
	if n := len(logger.EventsOfType(log.EventDiscard)); n != handBefore {
		t.Errorf("discard events = %d, want %d (Newbie itself excluded)", n, handBefore)
	}
}

func TestDrawFromDiscard(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	amnesia := HeldCard{ID: m.gs.NextID(), Def: Get(CardAmnesia)}
	m.gs.DiscardPile.Push(amnesia)
	_, err := m.Draw(0, SourceDiscard)
	expectErr(t, err, ErrInvalidTarget)

	extra := HeldCard{ID: m.gs.NextID(), Def: Get(CardProfessional)}
	m.gs.DiscardPile.Push(extra)
	must(t)(m.Draw(0, SourceDiscard))
	if _, ok := m.gs.Players[0].FindInHand(extra.ID); !ok {
		t.Error("card from the discard pile should be in hand")
	}
	if m.gs.Phase() != PhaseAwaitingPlay {
		t.Errorf("phase = %s", m.gs.Phase())
	}
}

func TestDrawReshufflesDiscard(t *testing.T) {
	m, logger := newTestMatch(t, 2)
	for _, c := range m.gs.DrawPile.Cards {
		m.gs.DiscardPile.Push(c)
	}
	m.gs.DrawPile.Cards = nil

	mustDraw(t, m, 0)
	if len(logger.EventsOfType(log.EventReshuffle)) != 1 {
		t.Fatal("expected a reshuffle")
	}
	if m.gs.DiscardPile.Len() != 0 {
		t.Error("discard pile should be empty after reshuffle")
	}
}

func TestSkipOnlyWhenNothingToDo(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	_, err := m.SkipTurn(0)
	expectErr(t, err, ErrIllegalPhase)

	m.gs.DrawPile.Cards = nil
	m.gs.DiscardPile.Cards = nil
	acts := m.LegalActions(0)
	if len(acts) != 1 || acts[0].Type != ActionSkip {
		t.Fatalf("actions = %v, want only skip", acts)
	}
	must(t)(m.SkipTurn(0))
	if m.gs.Phase() != PhaseTurnComplete {
		t.Errorf("phase = %s", m.gs.Phase())
	}
}

func TestFiredSettlesDrawingPlayer(t *testing.T) {
	m, logger := newTestMatch(t, 2)
	good := place(m.gs, 0, CardOnTheClock, 0)
	good.CurrentHourValue = 3
	bad := place(m.gs, 0, CardStockMarket, 1)
	bad.Attacker = 1
	other := place(m.gs, 1, CardOnTheClock, 0)
	stack(m, CardFired)

	mustDraw(t, m, 0)
	if m.gs.Players[0].Hours != 99 {
		t.Errorf("hours = %d, want 99 (+3 -4)", m.gs.Players[0].Hours)
	}
	if m.gs.Players[0].InPlayCount() != 0 {
		t.Error("Fired should clear the drawing player's cards")
	}
	if m.gs.Players[1].Slots[0] != other {
		t.Error("Fired must not touch other players")
	}
	if m.gs.HasDrawn {
		t.Error("drawing an alert must not complete the draw")
	}
	if top, _ := m.gs.DiscardPile.Top(); top.Def.ID != CardStockMarket {
		t.Errorf("discard top = %s, want the last settled card", top.Def.Name)
	}
	if len(logger.EventsOfType(log.EventAlert)) != 1 {
		t.Error("expected an alert event")
	}
}

func TestRecessionAndAmnesia(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	a := place(m.gs, 0, CardRisky, 0)
	a.RoundsInPlay = 4
	a.CurrentHourValue = -1
	b := place(m.gs, 1, CardOnTheClock, 0)
	b.RoundsInPlay = 2
	b.CurrentHourValue = 2

	stack(m, CardAmnesia)
	mustDraw(t, m, 0)
	if a.RoundsInPlay != 0 || a.CurrentHourValue != -5 || b.RoundsInPlay != 0 || b.CurrentHourValue != 0 {
		t.Fatalf("Amnesia: %s / %s", a, b)
	}

	b.CurrentHourValue = 2
	stack(m, CardRecession)
	mustDraw(t, m, 0)
	if m.gs.Players[0].InPlayCount()+m.gs.Players[1].InPlayCount() != 0 {
		t.Fatal("Recession should clear every play area")
	}
	if m.gs.Players[0].Hours != 95 || m.gs.Players[1].Hours != 102 {
		t.Errorf("hours = %d / %d, want 95 / 102", m.gs.Players[0].Hours, m.gs.Players[1].Hours)
	}
}

func TestPerformanceReviewRedraws(t *testing.T) {
	m, _ := newTestMatch(t, 2)
	old := append([]HeldCard(nil), m.gs.Players[0].Hand...)
	stack(m, CardPerformanceReview)

	mustDraw(t, m, 0)
	p := m.gs.Players[0]
	if p.HandCount() != HandSize {
		t.Fatalf("hand = %d, want %d", p.HandCount(), HandSize)
	}
	for _, c := range old {
		if _, ok := p.FindInHand(c.ID); ok {
			t.Errorf("card #%d survived the review", c.ID)
		}
	}
	mustDraw(t, m, 0)
	if p.HandCount() != HandSize+1 {
		t.Errorf("hand after the real draw = %d", p.HandCount())
	}
}

func TestLastOneStandingWins(t *testing.T) {
	m, logger := newTestMatch(t, 2)
	m.gs.Players[1].Hours = 0
	passTurn(t, m)

	if !m.Over() || m.gs.Winner != 0 || m.gs.Outcome != OutcomeWinner {
		t.Fatalf("over=%v winner=%d outcome=%s", m.Over(), m.gs.Winner, m.gs.Outcome)
	}
	if len(logger.EventsOfType(log.EventWin)) != 1 {
		t.Error("expected a win event")
	}
	_, err := m.Draw(1, SourceDeck)
	expectErr(t, err, ErrGameOver)
	_, err = m.AdvanceTurn()
	expectErr(t, err, ErrGameOver)
	if m.LegalActions(1) != nil {
		t.Error("no actions after the match is over")
	}
}

func TestVictoryThreshold(t *testing.T) {
	logger := log.NewMemoryLogger()
	m, err := NewMatch(MatchConfig{Players: 3, VictoryHours: 150, Deck: makeDeck(CardOnTheClock, 40), NoShuffle: true, Seed: 1, Logger: logger})
	if err != nil {
		t.Fatal(err)
	}
	m.gs.Players[1].Hours = 150
	m.gs.Players[2].Hours = 160
	passTurn(t, m)

	if m.gs.Winner != 1 {
		t.Errorf("winner = P%d, want P2 (first in index order)", m.gs.Winner+1)
	}
}

func TestRoundLimitEndsMatch(t *testing.T) {
	logger := log.NewMemoryLogger()
	m, err := NewMatch(MatchConfig{Players: 2, MaxRounds: 1, Deck: makeDeck(CardOnTheClock, 40), NoShuffle: true, Seed: 1, Logger: logger})
	if err != nil {
		t.Fatal(err)
	}
	passTurn(t, m)
	passTurn(t, m)

	if !m.Over() || m.gs.Outcome != OutcomeTimeout || m.gs.Winner != -1 {
		t.Fatalf("over=%v outcome=%s winner=%d", m.Over(), m.gs.Outcome, m.gs.Winner)
	}
	if len(logger.EventsOfType(log.EventRoundLimit)) != 1 {
		t.Error("expected a round limit event")
	}
}

func TestCommandEventsAreReturned(t *testing.T) {
	m, logger := newTestMatch(t, 2)
	before := len(logger.Events())
	res := must(t)(m.Draw(0, SourceDeck))
	if len(res.Events) != 1 || res.Events[0].Type != log.EventDraw {
		t.Fatalf("events = %+v", res.Events)
	}
	if len(logger.Events()) != before+1 {
		t.Error("returned events should also reach the logger")
	}
	if e := res.Events[0]; e.Turn != 1 || e.Round != 0 || e.Player != 0 {
		t.Errorf("event stamp = turn %d round %d player %d", e.Turn, e.Round, e.Player)
	}
}
