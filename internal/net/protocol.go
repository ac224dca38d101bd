package net

import "github.com/peterkuimelis/procrastination/internal/log"

// Message types for the JSON protocol over TCP.
const (
	MsgWelcome      = "welcome"
	MsgNotify       = "notify"
	MsgChooseAction = "choose_action"
	MsgGameOver     = "game_over"

	MsgJoin   = "join"
	MsgAction = "action"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "welcome"
	Seat    int    `json:"seat,omitempty"`
	Players int    `json:"players,omitempty"`
	Match   string `json:"match,omitempty"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_action"
	Actions []ActionView `json:"actions,omitempty"`
	State   *StateView   `json:"state,omitempty"`

	// For "game_over"
	Winner int    `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a game event as sent to clients.
type EventView struct {
	Seq     int            `json:"seq"`
	Round   int            `json:"round"`
	Turn    int            `json:"turn"`
	Phase   string         `json:"phase"`
	Player  int            `json:"player"`
	Type    string         `json:"type"`
	Card    string         `json:"card,omitempty"`
	Delta   int            `json:"delta,omitempty"`
	Details string         `json:"details"`
	State   *log.CardState `json:"state,omitempty"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Desc  string `json:"desc"`
}

// CardView describes a card in a hand or on the discard pile.
type CardView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// SlotView describes one play slot.
type SlotView struct {
	Empty        bool   `json:"empty,omitempty"`
	ID           int    `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	Category     string `json:"category,omitempty"`
	HourValue    int    `json:"hour_value"`
	RoundsInPlay int    `json:"rounds_in_play"`
	RoundsLeft   int    `json:"rounds_left"` // -1 when the card never expires
	Protected    bool   `json:"protected,omitempty"`
	Expired      bool   `json:"expired,omitempty"`
	Attacker     int    `json:"attacker"` // -1 unless played as a weapon
	LinkedPlayer int    `json:"linked_player"`
}

// PlayerView shows one player's side of the board.
type PlayerView struct {
	Index     int         `json:"index"`
	Name      string      `json:"name"`
	Hours     int         `json:"hours"`
	HandCount int         `json:"hand_count"`
	Hand      []CardView  `json:"hand,omitempty"` // only for the viewing player
	Slots     [3]SlotView `json:"slots"`
}

// PendingView is a weapon waiting on the defender's answer.
type PendingView struct {
	Attacker int    `json:"attacker"`
	Defender int    `json:"defender"`
	Card     string `json:"card"`
}

// StateView is the match state from one player's perspective.
type StateView struct {
	You           int          `json:"you"`
	Players       []PlayerView `json:"players"`
	Round         int          `json:"round"`
	MaxRounds     int          `json:"max_rounds"`
	VictoryHours  int          `json:"victory_hours,omitempty"`
	Turn          int          `json:"turn"`
	Phase         string       `json:"phase"`
	CurrentPlayer int          `json:"current_player"`
	IsYourTurn    bool         `json:"is_your_turn"`
	DrawPile      int          `json:"draw_pile"`
	DiscardPile   int          `json:"discard_pile"`
	DiscardTop    *CardView    `json:"discard_top,omitempty"`
	Pending       *PendingView `json:"pending,omitempty"`
	Over          bool         `json:"over,omitempty"`
	Winner        int          `json:"winner"`
	Result        string       `json:"result,omitempty"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "action"
	Index int `json:"index,omitempty"`

	// For "join" (initial handshake)
	Name string `json:"name,omitempty"`
}
