package game

import (
	"fmt"

	"github.com/peterkuimelis/procrastination/internal/log"
)

// --- Enums ---

type Category int

const (
	CategoryPlay Category = iota
	CategoryWeapon
	CategoryHelper
	CategoryAlert
)

func (c Category) String() string {
	switch c {
	case CategoryPlay:
		return "Play"
	case CategoryWeapon:
		return "Weapon"
	case CategoryHelper:
		return "Helper"
	case CategoryAlert:
		return "Alert"
	default:
		return "Unknown"
	}
}

// Mechanic selects the per-round hour-gain rule and any special handling of a card.
type Mechanic int

const (
	MechanicDefault Mechanic = iota
	MechanicProfessional
	MechanicRisky
	MechanicAlternating
	MechanicSharing
	MechanicParasite
	MechanicRolling
)

func (m Mechanic) String() string {
	switch m {
	case MechanicProfessional:
		return "professional-bonus"
	case MechanicRisky:
		return "risky-bonus"
	case MechanicAlternating:
		return "alternating"
	case MechanicSharing:
		return "sharing"
	case MechanicParasite:
		return "parasite"
	case MechanicRolling:
		return "rolling"
	default:
		return "default"
	}
}

// TurnPhase is the sub-phase of the current player's turn.
type TurnPhase int

const (
	PhaseAwaitingDraw TurnPhase = iota
	PhaseAwaitingPlay
	PhaseTurnComplete
)

func (p TurnPhase) String() string {
	switch p {
	case PhaseAwaitingDraw:
		return "Draw"
	case PhaseAwaitingPlay:
		return "Play"
	case PhaseTurnComplete:
		return "Done"
	default:
		return "None"
	}
}

// DrawSource picks where a draw comes from.
type DrawSource int

const (
	SourceDeck DrawSource = iota
	SourceDiscard
)

func (s DrawSource) String() string {
	if s == SourceDiscard {
		return "discard pile"
	}
	return "draw pile"
}

// Outcome describes how a match ended.
type Outcome int

const (
	OutcomeNone    Outcome = iota
	OutcomeWinner          // one player won
	OutcomeTimeout         // round cap reached without a winner
	OutcomeAllOut          // every player ran out of hours
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWinner:
		return "winner"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeAllOut:
		return "all out"
	default:
		return "in progress"
	}
}

// --- Action types ---

type ActionType int

const (
	ActionDraw ActionType = iota
	ActionDrawDiscard
	ActionPlayCard
	ActionPlayWeapon
	ActionUseHelper
	ActionDiscardHand
	ActionDiscardPlayed
	ActionSkip
	ActionEndTurn
	ActionExcuse // defender answers a pending weapon with Excused
	ActionAccept // defender lets a pending weapon resolve
)

func (a ActionType) String() string {
	switch a {
	case ActionDraw:
		return "Draw"
	case ActionDrawDiscard:
		return "Draw From Discard"
	case ActionPlayCard:
		return "Play Card"
	case ActionPlayWeapon:
		return "Play Weapon"
	case ActionUseHelper:
		return "Use Helper"
	case ActionDiscardHand:
		return "Discard"
	case ActionDiscardPlayed:
		return "Discard Played"
	case ActionSkip:
		return "Skip Turn"
	case ActionEndTurn:
		return "End Turn"
	case ActionExcuse:
		return "Excuse"
	case ActionAccept:
		return "Accept"
	default:
		return "Unknown"
	}
}

// Action represents a player command with all necessary details.
type Action struct {
	Type      ActionType
	Player    int
	Card      int // held card ID (hand) or instance ID (in play)
	CardID    CardID
	Target    int // target player for weapons
	Slot      int // slot index for plays and slot-targeted weapons
	Selection int // instance ID chosen by a helper or an instance-targeted weapon
	Desc      string
}

func (a Action) String() string {
	if a.Desc != "" {
		return a.Desc
	}
	return a.Type.String()
}

// --- Command results ---

type ResultCode int

const (
	ResultOK        ResultCode = iota
	ResultNoTarget             // nothing to act on; no state changed beyond what the event says
	ResultPending              // weapon waiting on the defender's Excused decision
	ResultDeflected            // weapon cancelled by Excused
)

func (r ResultCode) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultNoTarget:
		return "no target"
	case ResultPending:
		return "pending"
	case ResultDeflected:
		return "deflected"
	default:
		return "unknown"
	}
}

// Result is returned by every accepted command: the outcome code and the
// state-change events emitted while executing it.
type Result struct {
	Code   ResultCode
	Events []log.GameEvent
}

// HeldCard is a card outside of play (deck, hand or discard pile). The ID is
// stable for the card's whole life and carries over to its in-play instance.
type HeldCard struct {
	ID  int
	Def *CardDef
}

func (h HeldCard) String() string {
	if h.Def == nil {
		return "(none)"
	}
	return fmt.Sprintf("%s #%d", h.Def.Name, h.ID)
}
