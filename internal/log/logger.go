package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// PlayerName returns "P1", "P2", ... for display.
func PlayerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "        "
	}
	// Pad phase to 8 chars for alignment
	for len(phase) < 8 {
		phase += " "
	}

	return fmt.Sprintf("R%-2d T%-3d %s| %s", e.Round, e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func signed(n int) string {
	if n >= 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

// --- Helper constructors for common events ---
//
// Round, Turn and Phase are stamped by the match when the event is emitted.

func NewGameEvent(players, startingHours, maxRounds int) GameEvent {
	return GameEvent{
		Type:    EventNewGame,
		Player:  -1,
		Details: fmt.Sprintf("New game: %d players, %d hours each, %d round cap", players, startingHours, maxRounds),
	}
}

func NewTurnEvent(turn int, player int) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, PlayerName(player)),
	}
}

func NewRoundEvent(round int) GameEvent {
	return GameEvent{
		Player:  -1,
		Type:    EventNewRound,
		Details: fmt.Sprintf("========== ROUND %d ==========", round),
	}
}

func NewDrawEvent(player int, cardName, source string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws %s from the %s", PlayerName(player), cardName, source),
	}
}

func NewAlertEvent(player int, cardName, effect string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventAlert,
		Card:    cardName,
		Details: fmt.Sprintf("ALERT! %s draws %s: %s", PlayerName(player), cardName, effect),
	}
}

func NewPlayEvent(player int, cardName string, slot int) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventPlay,
		Card:    cardName,
		Details: fmt.Sprintf("%s plays %s to slot %d", PlayerName(player), cardName, slot+1),
	}
}

func NewWeaponEvent(attacker, target int, cardName, effect string) GameEvent {
	return GameEvent{
		Player:  attacker,
		Type:    EventWeapon,
		Card:    cardName,
		Details: fmt.Sprintf("%s uses %s on %s: %s", PlayerName(attacker), cardName, PlayerName(target), effect),
	}
}

func NewHelperEvent(player int, cardName, effect string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventHelper,
		Card:    cardName,
		Details: fmt.Sprintf("%s uses %s: %s", PlayerName(player), cardName, effect),
	}
}

func NewDiscardEvent(player int, cardName string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventDiscard,
		Card:    cardName,
		Details: fmt.Sprintf("%s discards %s", PlayerName(player), cardName),
	}
}

func NewDiscardPlayedEvent(player int, cardName string, final int, reason string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventDiscardPlayed,
		Card:    cardName,
		Delta:   final,
		Details: fmt.Sprintf("%s removes %s from play (%s, final hours %s)", PlayerName(player), cardName, reason, signed(final)),
	}
}

func NewHourChangeEvent(player int, oldHours, newHours int, reason string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventHourChange,
		Delta:   newHours - oldHours,
		Details: fmt.Sprintf("%s hours: %d → %d (%s)", PlayerName(player), oldHours, newHours, reason),
	}
}

func NewCardTickEvent(player int, cardName string, gained int, state CardState) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventCardTick,
		Card:    cardName,
		Delta:   gained,
		State:   &state,
		Details: fmt.Sprintf("%s's %s %s (value %d, round %d)", PlayerName(player), cardName, signed(gained), state.HourValue, state.RoundsInPlay),
	}
}

func NewShareEvent(player, linked int, cardName string, gained int, state CardState) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventShare,
		Card:    cardName,
		Delta:   gained,
		State:   &state,
		Details: fmt.Sprintf("%s's %s shares %s from %s", PlayerName(player), cardName, signed(gained), PlayerName(linked)),
	}
}

func NewExpireEvent(player int, cardName string, state CardState) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventExpire,
		Card:    cardName,
		State:   &state,
		Details: fmt.Sprintf("%s's %s expires", PlayerName(player), cardName),
	}
}

func NewVoidEvent(player int, cardName string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventVoid,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s is voided: linked card is gone", PlayerName(player), cardName),
	}
}

func NewSettleEvent(player int, cardName string, final int, state CardState) GameEvent {
	verb := "keeps"
	if final < 0 {
		verb = "loses"
	}
	amount := final
	if amount < 0 {
		amount = -amount
	}
	return GameEvent{
		Player:  player,
		Type:    EventSettle,
		Card:    cardName,
		Delta:   final,
		State:   &state,
		Details: fmt.Sprintf("%s %s %d hours from %s", PlayerName(player), verb, amount, cardName),
	}
}

func NewRollEvent(from, to, attacker int, cardName string) GameEvent {
	return GameEvent{
		Player:  to,
		Type:    EventRoll,
		Card:    cardName,
		Details: fmt.Sprintf("%s rolls from %s to %s (attacker %s)", cardName, PlayerName(from), PlayerName(to), PlayerName(attacker)),
	}
}

func NewDefendEvent(attacker, defender int, cardName string) GameEvent {
	return GameEvent{
		Player:  defender,
		Type:    EventDefend,
		Card:    cardName,
		Details: fmt.Sprintf("%s may answer %s's %s with Excused", PlayerName(defender), PlayerName(attacker), cardName),
	}
}

func NewDeflectEvent(attacker, defender int, cardName string) GameEvent {
	return GameEvent{
		Player:  defender,
		Type:    EventDeflect,
		Card:    cardName,
		Details: fmt.Sprintf("%s is Excused from %s's %s", PlayerName(defender), PlayerName(attacker), cardName),
	}
}

func NewNoTargetEvent(player int, cardName, reason string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventNoTarget,
		Card:    cardName,
		Details: fmt.Sprintf("%s: %s has no effect (%s)", PlayerName(player), cardName, reason),
	}
}

func NewSkipEvent(player int) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventSkip,
		Details: fmt.Sprintf("%s skips the turn", PlayerName(player)),
	}
}

func NewReshuffleEvent(cards int) GameEvent {
	return GameEvent{
		Player:  -1,
		Type:    EventReshuffle,
		Details: fmt.Sprintf("Discard pile (%d cards) shuffled into the draw pile", cards),
	}
}

func NewWinEvent(winner int, reason string) GameEvent {
	return GameEvent{
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", PlayerName(winner), reason),
	}
}

func NewRoundLimitEvent(round int) GameEvent {
	return GameEvent{
		Player:  -1,
		Type:    EventRoundLimit,
		Details: fmt.Sprintf("Round limit reached after round %d, no winner", round),
	}
}
