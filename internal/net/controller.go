package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/peterkuimelis/procrastination/internal/game"
	"github.com/peterkuimelis/procrastination/internal/log"
)

// NetworkController implements game.PlayerController over a TCP connection.
type NetworkController struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player int
	mu     sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, player int) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
	}
}

// BuildStateView creates a StateView from the perspective of the given
// player. Other players' hands are reduced to a count.
func BuildStateView(state *game.GameState, player int) *StateView {
	sv := &StateView{
		You:           player,
		Round:         state.Round,
		MaxRounds:     state.MaxRounds,
		VictoryHours:  state.VictoryHours,
		Turn:          state.Turn,
		Phase:         state.Phase().String(),
		CurrentPlayer: state.CurrentPlayer,
		IsYourTurn:    state.CurrentPlayer == player,
		DrawPile:      state.DrawPile.Len(),
		DiscardPile:   state.DiscardPile.Len(),
		Over:          state.Over,
		Winner:        state.Winner,
		Result:        state.Result,
	}
	if top, ok := state.DiscardPile.Top(); ok {
		cv := HeldCardView(top)
		sv.DiscardTop = &cv
	}
	if pw := state.Pending; pw != nil {
		sv.Pending = &PendingView{Attacker: pw.Attacker, Defender: pw.Defender, Card: pw.Card.Def.Name}
	}

	for _, p := range state.Players {
		pv := PlayerView{
			Index:     p.Index,
			Name:      log.PlayerName(p.Index),
			Hours:     p.Hours,
			HandCount: p.HandCount(),
		}
		if p.Index == player {
			for _, c := range p.Hand {
				pv.Hand = append(pv.Hand, HeldCardView(c))
			}
		}
		for i, ci := range p.Slots {
			pv.Slots[i] = InstanceView(ci)
		}
		sv.Players = append(sv.Players, pv)
	}
	return sv
}

// HeldCardView creates a CardView for a card outside of play.
func HeldCardView(c game.HeldCard) CardView {
	return CardView{
		ID:          c.ID,
		Name:        c.Def.Name,
		Category:    c.Def.Category.String(),
		Description: c.Def.Description,
	}
}

// InstanceView creates a SlotView for an in-play card, or an empty slot.
func InstanceView(ci *game.CardInstance) SlotView {
	if ci == nil {
		return SlotView{Empty: true, Attacker: -1, LinkedPlayer: -1}
	}
	return SlotView{
		ID:           ci.ID,
		Name:         ci.Def.Name,
		Category:     ci.Def.Category.String(),
		HourValue:    ci.CurrentHourValue,
		RoundsInPlay: ci.RoundsInPlay,
		RoundsLeft:   ci.RoundsUntilExpiry(),
		Protected:    ci.ProtectedByNepotism,
		Expired:      ci.HasExpired,
		Attacker:     ci.Attacker,
		LinkedPlayer: ci.LinkedPlayer,
	}
}

// EventViewOf converts a game event for the wire.
func EventViewOf(e log.GameEvent) EventView {
	return EventView{
		Seq:     e.Seq,
		Round:   e.Round,
		Turn:    e.Turn,
		Phase:   e.Phase,
		Player:  e.Player,
		Type:    e.Type.String(),
		Card:    e.Card,
		Delta:   e.Delta,
		Details: e.Details,
		State:   e.State,
	}
}

// ActionViews numbers the legal actions for presentation.
func ActionViews(actions []game.Action) []ActionView {
	views := make([]ActionView, 0, len(actions))
	for i, a := range actions {
		views = append(views, ActionView{Index: i, Type: a.Type.String(), Desc: a.String()})
	}
	return views
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ChooseAction implements game.PlayerController.
func (nc *NetworkController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type:    MsgChooseAction,
		Actions: ActionViews(actions),
		State:   BuildStateView(state, nc.player),
	}
	if err := nc.send(msg); err != nil {
		return game.Action{}, fmt.Errorf("send choose_action: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return game.Action{}, fmt.Errorf("recv action: %w", err)
	}

	if resp.Index < 0 || resp.Index >= len(actions) {
		return actions[0], nil // fallback to first action
	}
	return actions[resp.Index], nil
}

// SendWelcome tells the client which seat it has.
func (nc *NetworkController) SendWelcome(players int) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: MsgWelcome, Seat: nc.player, Players: players})
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(winner int, result string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: MsgGameOver, Winner: winner, Result: result})
}

// Notify implements game.PlayerController.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	ev := EventViewOf(event)
	return nc.send(ServerMessage{Type: MsgNotify, Event: &ev})
}
