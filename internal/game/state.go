package game

import (
	"fmt"
	"math/rand"
)

const (
	DefaultStartingHours = 100
	DefaultMaxRounds     = 25
	HandSize             = 5
	MaxCardsInPlay       = 3
	MinPlayers           = 2
	MaxPlayers           = 6
)

// Player is one seat's ledger: hand, cards in play and hour balance.
type Player struct {
	Index int
	Hours int
	Hand  []HeldCard
	Slots [MaxCardsInPlay]*CardInstance

	// PendingRoundHours collects settlements during a round; applied and cleared
	// once all round passes are done.
	PendingRoundHours int
}

// HandCount returns the number of cards in hand.
func (p *Player) HandCount() int {
	return len(p.Hand)
}

// FindInHand returns the held card with the given ID.
func (p *Player) FindInHand(id int) (HeldCard, bool) {
	for _, c := range p.Hand {
		if c.ID == id {
			return c, true
		}
	}
	return HeldCard{}, false
}

// HasInHand reports whether a card with the given catalog id is in hand.
func (p *Player) HasInHand(id CardID) bool {
	for _, c := range p.Hand {
		if c.Def.ID == id {
			return true
		}
	}
	return false
}

// RemoveFromHand removes a card from the hand by ID.
func (p *Player) RemoveFromHand(id int) (HeldCard, bool) {
	for i, c := range p.Hand {
		if c.ID == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return HeldCard{}, false
}

// InPlay returns the non-empty slots in slot order.
func (p *Player) InPlay() []*CardInstance {
	var result []*CardInstance
	for _, ci := range p.Slots {
		if ci != nil {
			result = append(result, ci)
		}
	}
	return result
}

// InPlayCount returns the number of cards in play.
func (p *Player) InPlayCount() int {
	n := 0
	for _, ci := range p.Slots {
		if ci != nil {
			n++
		}
	}
	return n
}

// FreeSlot returns the index of the first empty slot, or -1.
func (p *Player) FreeSlot() int {
	for i, ci := range p.Slots {
		if ci == nil {
			return i
		}
	}
	return -1
}

// FreeSlots returns all empty slot indices.
func (p *Player) FreeSlots() []int {
	var slots []int
	for i, ci := range p.Slots {
		if ci == nil {
			slots = append(slots, i)
		}
	}
	return slots
}

// FindInPlay returns the in-play instance with the given ID.
func (p *Player) FindInPlay(id int) *CardInstance {
	for _, ci := range p.Slots {
		if ci != nil && ci.ID == id {
			return ci
		}
	}
	return nil
}

func (p *Player) removeFromPlay(ci *CardInstance) {
	if ci.Slot >= 0 && ci.Slot < MaxCardsInPlay && p.Slots[ci.Slot] == ci {
		p.Slots[ci.Slot] = nil
	}
}

// AdjustHours changes the balance by delta, clamping at zero. Returns the old
// and new balance.
func (p *Player) AdjustHours(delta int) (int, int) {
	old := p.Hours
	p.Hours += delta
	if p.Hours < 0 {
		p.Hours = 0
	}
	return old, p.Hours
}

// --- Card piles ---

// Pile is an ordered stack of held cards; the top is the last element.
type Pile struct {
	Cards []HeldCard
}

func (p *Pile) Len() int { return len(p.Cards) }

func (p *Pile) Push(c HeldCard) {
	p.Cards = append(p.Cards, c)
}

// Pop removes and returns the top card.
func (p *Pile) Pop() (HeldCard, bool) {
	if len(p.Cards) == 0 {
		return HeldCard{}, false
	}
	c := p.Cards[len(p.Cards)-1]
	p.Cards = p.Cards[:len(p.Cards)-1]
	return c, true
}

// Top returns the top card without removing it.
func (p *Pile) Top() (HeldCard, bool) {
	if len(p.Cards) == 0 {
		return HeldCard{}, false
	}
	return p.Cards[len(p.Cards)-1], true
}

// Shuffle randomizes the pile order.
func (p *Pile) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(p.Cards), func(i, j int) {
		p.Cards[i], p.Cards[j] = p.Cards[j], p.Cards[i]
	})
}

// --- GameState ---

// GameState holds the complete state of a match.
type GameState struct {
	Players []*Player

	// Round state
	Round     int // completed rounds, starts at 0
	MaxRounds int

	// Turn state
	Turn          int // 1-based turn counter
	CurrentPlayer int
	HasDrawn      bool
	HasPlayed     bool

	VictoryHours int // 0 = no absolute target

	DrawPile    Pile
	DiscardPile Pile

	// Weapon waiting on the defender's Excused decision.
	Pending *PendingWeapon

	// Rolling weapons waiting to be re-played.
	Rolls []PendingRoll

	LastReport *RoundReport

	// ID counter for cards
	nextID int

	// Game result
	Winner  int // -1 while no winner
	Over    bool
	Outcome Outcome
	Result  string
}

// PendingWeapon is a weapon committed against a defender who holds Excused.
type PendingWeapon struct {
	Attacker  int
	Defender  int
	Card      HeldCard
	Slot      int
	Selection int
}

// PendingRoll is a rolling weapon that left play and must be re-played on the
// player after From.
type PendingRoll struct {
	Def      *CardDef
	ID       int
	From     int
	Attacker int
}

// NewGameState creates a fresh match state with players seated and balances set.
func NewGameState(players, startingHours, maxRounds int) *GameState {
	gs := &GameState{
		MaxRounds: maxRounds,
		Winner:    -1,
	}
	for i := 0; i < players; i++ {
		gs.Players = append(gs.Players, &Player{Index: i, Hours: startingHours})
	}
	return gs
}

// NextID generates a unique card ID.
func (gs *GameState) NextID() int {
	gs.nextID++
	return gs.nextID
}

// NumPlayers returns the number of seats.
func (gs *GameState) NumPlayers() int {
	return len(gs.Players)
}

// NextPlayer returns the seat after p in turn order.
func (gs *GameState) NextPlayer(p int) int {
	return (p + 1) % len(gs.Players)
}

// Current returns the Player whose turn it is.
func (gs *GameState) Current() *Player {
	return gs.Players[gs.CurrentPlayer]
}

// Phase derives the current player's sub-phase from the turn flags.
func (gs *GameState) Phase() TurnPhase {
	switch {
	case !gs.HasDrawn:
		return PhaseAwaitingDraw
	case !gs.HasPlayed:
		return PhaseAwaitingPlay
	default:
		return PhaseTurnComplete
	}
}

// HasReachedRoundLimit reports whether the round cap has been reached.
func (gs *GameState) HasReachedRoundLimit() bool {
	return gs.MaxRounds > 0 && gs.Round >= gs.MaxRounds
}

// CanDraw reports whether any card could be drawn from the draw pile.
func (gs *GameState) CanDraw() bool {
	return gs.DrawPile.Len() > 0 || gs.DiscardPile.Len() > 0
}

// CanDrawFromDiscard reports whether the top of the discard pile may be taken.
func (gs *GameState) CanDrawFromDiscard() bool {
	top, ok := gs.DiscardPile.Top()
	return ok && !top.Def.IsAlert()
}

// CanSkip reports whether the current player has no legal way to finish the turn.
func (gs *GameState) CanSkip() bool {
	if gs.Over || gs.Pending != nil {
		return false
	}
	switch gs.Phase() {
	case PhaseAwaitingDraw:
		return !gs.CanDraw()
	case PhaseAwaitingPlay:
		p := gs.Current()
		return p.HandCount() == 0 && p.InPlayCount() == 0
	default:
		return false
	}
}

// Instance finds an in-play instance by ID across all players.
func (gs *GameState) Instance(id int) *CardInstance {
	for _, p := range gs.Players {
		if ci := p.FindInPlay(id); ci != nil {
			return ci
		}
	}
	return nil
}

// CheckVictory evaluates the victory rules. Returns true if the match is over.
func (gs *GameState) CheckVictory() bool {
	if gs.Over {
		return true
	}

	standing := -1
	positive := 0
	for _, p := range gs.Players {
		if p.Hours > 0 {
			positive++
			standing = p.Index
		}
	}

	switch {
	case positive == 1:
		gs.declareWinner(standing, "last one standing")
		return true
	case positive == 0:
		gs.Over = true
		gs.Winner = -1
		gs.Outcome = OutcomeAllOut
		gs.Result = "No winner: every player is out of hours"
		return true
	}

	if gs.VictoryHours > 0 {
		for _, p := range gs.Players {
			if p.Hours >= gs.VictoryHours {
				gs.declareWinner(p.Index, fmt.Sprintf("reached %d hours", gs.VictoryHours))
				return true
			}
		}
	}
	return false
}

func (gs *GameState) declareWinner(p int, reason string) {
	gs.Over = true
	gs.Winner = p
	gs.Outcome = OutcomeWinner
	gs.Result = fmt.Sprintf("P%d wins: %s", p+1, reason)
}

// ResetTurnFlags resets per-turn tracking for a new turn.
func (gs *GameState) ResetTurnFlags() {
	gs.HasDrawn = false
	gs.HasPlayed = false
}
