package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/peterkuimelis/procrastination/internal/log"
)

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	Players       int
	StartingHours int // 0 = DefaultStartingHours
	MaxRounds     int // 0 = DefaultMaxRounds
	VictoryHours  int // 0 = no absolute target
	Deck          []CardID
	Logger        log.EventLogger
	Seed          int64 // RNG seed (0 for random)
	NoShuffle     bool  // skip deck shuffle (for deterministic tests)
}

// Match is the turn controller for one board. It owns the game state and is
// the only thing that mutates it.
type Match struct {
	gs     *GameState
	Logger log.EventLogger
	rng    *rand.Rand

	seq       int
	events    []log.GameEvent
	refilling bool
	announced bool
}

// NewMatch validates the config, builds the draw pile, deals opening hands and
// starts turn 1 for player 0.
func NewMatch(cfg MatchConfig) (*Match, error) {
	if cfg.Players < MinPlayers || cfg.Players > MaxPlayers {
		return nil, fmt.Errorf("%w: %d players (need %d-%d)", ErrInvalidConfig, cfg.Players, MinPlayers, MaxPlayers)
	}
	if cfg.StartingHours < 0 || cfg.MaxRounds < 0 || cfg.VictoryHours < 0 {
		return nil, fmt.Errorf("%w: negative hours or rounds", ErrInvalidConfig)
	}
	if cfg.StartingHours == 0 {
		cfg.StartingHours = DefaultStartingHours
	}
	if cfg.MaxRounds == 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	deck := cfg.Deck
	if deck == nil {
		deck = StandardDeck()
	}
	playable := 0
	for _, id := range deck {
		def := Get(id)
		if def == nil {
			return nil, fmt.Errorf("%w: unknown card id %d in deck", ErrInvalidConfig, id)
		}
		if !def.IsAlert() {
			playable++
		}
	}
	if playable < cfg.Players*HandSize {
		return nil, fmt.Errorf("%w: deck has %d non-alert cards, need at least %d", ErrInvalidConfig, playable, cfg.Players*HandSize)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gs := NewGameState(cfg.Players, cfg.StartingHours, cfg.MaxRounds)
	gs.VictoryHours = cfg.VictoryHours
	m := &Match{
		gs:     gs,
		Logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}

	for _, id := range deck {
		gs.DrawPile.Push(HeldCard{ID: gs.NextID(), Def: Get(id)})
	}
	if !cfg.NoShuffle {
		gs.DrawPile.Shuffle(m.rng)
	}

	gs.Turn = 1
	m.emit(log.NewGameEvent(cfg.Players, cfg.StartingHours, cfg.MaxRounds))

	// Opening hands: alerts are buried in the discard pile and replaced.
	for i := 0; i < HandSize; i++ {
		for _, p := range gs.Players {
			for {
				c, ok := gs.DrawPile.Pop()
				if !ok {
					return nil, fmt.Errorf("%w: deck ran out while dealing", ErrInvalidConfig)
				}
				if c.Def.IsAlert() {
					gs.DiscardPile.Push(c)
					continue
				}
				p.Hand = append(p.Hand, c)
				break
			}
		}
	}

	m.emit(log.NewTurnEvent(gs.Turn, gs.CurrentPlayer))
	m.events = nil
	return m, nil
}

// State returns the match state. Callers must treat it as read-only.
func (m *Match) State() *GameState {
	return m.gs
}

// Over reports whether the match has ended.
func (m *Match) Over() bool {
	return m.gs.Over
}

// --- Event plumbing ---

func (m *Match) emit(e log.GameEvent) {
	m.seq++
	e.Seq = m.seq
	e.Round = m.gs.Round
	e.Turn = m.gs.Turn
	e.Phase = m.gs.Phase().String()
	m.Logger.Log(e)
	m.events = append(m.events, e)
}

func (m *Match) begin() {
	m.events = nil
}

func (m *Match) finish(code ResultCode) *Result {
	m.drainRolls()
	res := &Result{Code: code, Events: m.events}
	m.events = nil
	return res
}

// --- Guards ---

func (m *Match) checkPlayer(p int) error {
	if p < 0 || p >= m.gs.NumPlayers() {
		return fmt.Errorf("%w: player %d out of range", ErrInvalidTarget, p)
	}
	return nil
}

// guardTurn refuses commands from anyone but the current player, or while the
// match is over or a weapon awaits its defender.
func (m *Match) guardTurn(player int) error {
	if m.gs.Over {
		return ErrGameOver
	}
	if err := m.checkPlayer(player); err != nil {
		return err
	}
	if m.gs.Pending != nil {
		return fmt.Errorf("%w: waiting on P%d to answer %s", ErrIllegalPhase, m.gs.Pending.Defender+1, m.gs.Pending.Card.Def.Name)
	}
	if player != m.gs.CurrentPlayer {
		return fmt.Errorf("%w: not P%d's turn", ErrIllegalPhase, player+1)
	}
	return nil
}

func (m *Match) guardPlay(player int) error {
	if err := m.guardTurn(player); err != nil {
		return err
	}
	switch m.gs.Phase() {
	case PhaseAwaitingDraw:
		return fmt.Errorf("%w: draw before playing", ErrIllegalPhase)
	case PhaseTurnComplete:
		return fmt.Errorf("%w: already played this turn", ErrIllegalPhase)
	}
	return nil
}

func (m *Match) handCard(player, id int) (HeldCard, error) {
	c, ok := m.gs.Players[player].FindInHand(id)
	if !ok {
		return HeldCard{}, fmt.Errorf("%w: card #%d not in P%d's hand", ErrInvalidTarget, id, player+1)
	}
	return c, nil
}

// --- Commands ---

// Draw draws one card for the current player. An alert resolves at once and
// the player still has to draw.
func (m *Match) Draw(player int, source DrawSource) (*Result, error) {
	if err := m.guardTurn(player); err != nil {
		return nil, err
	}
	gs := m.gs
	if gs.HasDrawn {
		return nil, fmt.Errorf("%w: already drew this turn", ErrIllegalPhase)
	}

	m.begin()
	p := gs.Players[player]
	switch source {
	case SourceDiscard:
		if !gs.CanDrawFromDiscard() {
			return nil, fmt.Errorf("%w: discard pile top cannot be drawn", ErrInvalidTarget)
		}
		c, _ := gs.DiscardPile.Pop()
		p.Hand = append(p.Hand, c)
		gs.HasDrawn = true
		m.emit(log.NewDrawEvent(player, c.Def.Name, source.String()))
	default:
		if !gs.CanDraw() {
			return nil, fmt.Errorf("%w: no cards left to draw", ErrInvalidTarget)
		}
		c, _ := m.drawFromPile()
		if c.Def.IsAlert() {
			m.resolveAlert(player, c)
			return m.finish(ResultOK), nil
		}
		p.Hand = append(p.Hand, c)
		gs.HasDrawn = true
		m.emit(log.NewDrawEvent(player, c.Def.Name, source.String()))
	}
	return m.finish(ResultOK), nil
}

// drawFromPile pops the draw pile, shuffling the discard pile back in when empty.
func (m *Match) drawFromPile() (HeldCard, bool) {
	gs := m.gs
	if gs.DrawPile.Len() == 0 && gs.DiscardPile.Len() > 0 {
		n := gs.DiscardPile.Len()
		gs.DrawPile.Cards = append(gs.DrawPile.Cards, gs.DiscardPile.Cards...)
		gs.DiscardPile.Cards = nil
		gs.DrawPile.Shuffle(m.rng)
		m.emit(log.NewReshuffleEvent(n))
	}
	return gs.DrawPile.Pop()
}

// PlayCard moves a play card from the hand into an empty slot.
func (m *Match) PlayCard(player, cardID, slot int) (*Result, error) {
	if err := m.guardPlay(player); err != nil {
		return nil, err
	}
	c, err := m.handCard(player, cardID)
	if err != nil {
		return nil, err
	}
	if !c.Def.IsPlay() {
		return nil, fmt.Errorf("%w: %s is not a play card", ErrInvalidTarget, c.Def.Name)
	}
	p := m.gs.Players[player]
	if p.FreeSlot() < 0 {
		return nil, fmt.Errorf("%w: slot limit reached", ErrInvalidTarget)
	}
	if slot < 0 || slot >= MaxCardsInPlay {
		return nil, fmt.Errorf("%w: slot %d out of range", ErrInvalidTarget, slot)
	}
	if p.Slots[slot] != nil {
		return nil, fmt.Errorf("%w: slot %d occupied", ErrInvalidTarget, slot)
	}

	m.begin()
	p.RemoveFromHand(c.ID)
	ci := NewCardInstance(m.gs.NextID(), c.Def, player, slot)
	if c.Def.HasSharingMechanic() {
		ci.LinkedPlayer = m.gs.NextPlayer(player)
		if linked := m.gs.Players[ci.LinkedPlayer].InPlay(); len(linked) > 0 {
			ci.LinkedCard = linked[0].ID
		}
	}
	p.Slots[slot] = ci
	m.emit(log.NewPlayEvent(player, c.Def.Name, slot))
	if c.Def.ImmediateHours != 0 {
		m.adjustHours(player, c.Def.ImmediateHours, c.Def.Name)
	}
	m.gs.HasPlayed = true
	return m.finish(ResultOK), nil
}

// DiscardHand discards a card from the hand as the turn's play.
func (m *Match) DiscardHand(player, cardID int) (*Result, error) {
	if err := m.guardPlay(player); err != nil {
		return nil, err
	}
	c, err := m.handCard(player, cardID)
	if err != nil {
		return nil, err
	}

	m.begin()
	m.gs.Players[player].RemoveFromHand(c.ID)
	m.gs.DiscardPile.Push(c)
	m.emit(log.NewDiscardEvent(player, c.Def.Name))
	m.gs.HasPlayed = true
	return m.finish(ResultOK), nil
}

// DiscardPlayed removes one of the player's own cards from play, crediting its
// final hour value, as the turn's play.
func (m *Match) DiscardPlayed(player, instanceID int) (*Result, error) {
	if err := m.guardPlay(player); err != nil {
		return nil, err
	}
	ci := m.gs.Players[player].FindInPlay(instanceID)
	if ci == nil {
		return nil, fmt.Errorf("%w: card #%d not in P%d's play area", ErrInvalidTarget, instanceID, player+1)
	}

	m.begin()
	m.discardFromPlay(ci, "discarded")
	m.gs.HasPlayed = true
	return m.finish(ResultOK), nil
}

// SkipTurn consumes both sub-phases when the player has no legal way to act.
func (m *Match) SkipTurn(player int) (*Result, error) {
	if err := m.guardTurn(player); err != nil {
		return nil, err
	}
	if !m.gs.CanSkip() {
		return nil, fmt.Errorf("%w: turn cannot be skipped", ErrIllegalPhase)
	}

	m.begin()
	m.gs.HasDrawn = true
	m.gs.HasPlayed = true
	m.emit(log.NewSkipEvent(player))
	return m.finish(ResultOK), nil
}

// AdvanceTurn passes the turn to the next player once the current one has
// drawn and played. Wrapping back to player 0 runs the round processor.
// Victory is evaluated after the turn advance and after the round.
func (m *Match) AdvanceTurn() (*Result, error) {
	gs := m.gs
	if gs.Over {
		return nil, ErrGameOver
	}
	if gs.Pending != nil {
		return nil, fmt.Errorf("%w: waiting on P%d", ErrIllegalPhase, gs.Pending.Defender+1)
	}
	if gs.Phase() != PhaseTurnComplete {
		return nil, fmt.Errorf("%w: turn not complete (%s)", ErrIllegalPhase, gs.Phase())
	}

	m.begin()
	gs.CurrentPlayer = gs.NextPlayer(gs.CurrentPlayer)
	gs.ResetTurnFlags()
	gs.Turn++

	if gs.CurrentPlayer == 0 {
		m.advanceRound()
	}
	m.drainRolls()

	if !m.checkVictory() {
		m.emit(log.NewTurnEvent(gs.Turn, gs.CurrentPlayer))
	}
	return m.finish(ResultOK), nil
}

func (m *Match) advanceRound() {
	gs := m.gs
	m.emit(log.NewRoundEvent(gs.Round + 1))
	report := ProcessRound(gs, m.emit)
	for _, ci := range report.Removed {
		m.leavePlay(ci)
	}
}

// checkVictory evaluates the victory rules and the round cap, announcing the
// result once. Returns true if the match is over.
func (m *Match) checkVictory() bool {
	gs := m.gs
	if !gs.Over && !gs.CheckVictory() && gs.HasReachedRoundLimit() {
		gs.Over = true
		gs.Winner = -1
		gs.Outcome = OutcomeTimeout
		gs.Result = fmt.Sprintf("Round limit reached (%d rounds)", gs.MaxRounds)
	}
	if !gs.Over {
		return false
	}
	if !m.announced {
		m.announced = true
		switch gs.Outcome {
		case OutcomeWinner:
			m.emit(log.NewWinEvent(gs.Winner, gs.Result))
		case OutcomeTimeout:
			m.emit(log.NewRoundLimitEvent(gs.Round))
		default:
			m.emit(log.GameEvent{Player: -1, Type: log.EventWin, Details: gs.Result})
		}
	}
	return true
}

// --- Shared mutations ---

func (m *Match) adjustHours(player, delta int, reason string) {
	if delta == 0 {
		return
	}
	old, updated := m.gs.Players[player].AdjustHours(delta)
	m.emit(log.NewHourChangeEvent(player, old, updated, reason))
}

// discardFromPlay takes a card out of play outside the round processor,
// crediting its final hour value to the owner.
func (m *Match) discardFromPlay(ci *CardInstance, reason string) {
	final := ci.FinalHourValue()
	m.gs.Players[ci.Owner].removeFromPlay(ci)
	m.emit(log.NewDiscardPlayedEvent(ci.Owner, ci.Def.Name, final, reason))
	m.adjustHours(ci.Owner, final, ci.Def.Name)
	m.leavePlay(ci)
}

// leavePlay sends a removed card to the discard pile, or queues it to roll on
// if it is a rolling weapon.
func (m *Match) leavePlay(ci *CardInstance) {
	if ci.Def.IsRollingWeapon() {
		attacker := ci.Attacker
		if attacker < 0 {
			attacker = ci.Owner
		}
		m.gs.Rolls = append(m.gs.Rolls, PendingRoll{Def: ci.Def, ID: ci.ID, From: ci.Owner, Attacker: attacker})
		return
	}
	m.gs.DiscardPile.Push(HeldCard{ID: ci.ID, Def: ci.Def})
}

// drainRolls re-plays queued rolling weapons onto the next player, one hop at
// a time. Hops that knock another rolling weapon out of play queue it too; the
// hop count per drain is capped and anything left waits for the next command.
func (m *Match) drainRolls() {
	gs := m.gs
	limit := gs.NumPlayers()*MaxCardsInPlay + 1
	for hops := 0; len(gs.Rolls) > 0 && hops < limit && !gs.Over; hops++ {
		r := gs.Rolls[0]
		gs.Rolls = gs.Rolls[1:]
		to := gs.NextPlayer(r.From)
		m.emit(log.NewRollEvent(r.From, to, r.Attacker, r.Def.Name))
		slot := gs.Players[to].FreeSlot()
		if slot < 0 {
			slot = 0
		}
		m.placePlayWeapon(r.Attacker, to, HeldCard{ID: gs.NextID(), Def: r.Def}, slot)
	}
}
