package net

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"

	"github.com/peterkuimelis/procrastination/internal/game"
	"github.com/peterkuimelis/procrastination/internal/log"
)

func newMatch(t *testing.T) *game.Match {
	t.Helper()
	deck := make([]game.CardID, 40)
	for i := range deck {
		deck[i] = game.CardOnTheClock
	}
	m, err := game.NewMatch(game.MatchConfig{Players: 3, Deck: deck, NoShuffle: true, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestBuildStateViewHidesOtherHands(t *testing.T) {
	m := newMatch(t)
	gs := m.State()
	gs.Players[2].Slots[1] = game.NewCardInstance(gs.NextID(), game.Get(game.CardProfessional), 2, 1)

	sv := BuildStateView(gs, 1)
	if sv.You != 1 || sv.IsYourTurn || sv.CurrentPlayer != 0 {
		t.Fatalf("view header = %+v", sv)
	}
	if len(sv.Players) != 3 {
		t.Fatalf("players = %d", len(sv.Players))
	}
	if len(sv.Players[1].Hand) != 5 || len(sv.Players[0].Hand) != 0 || sv.Players[0].HandCount != 5 {
		t.Errorf("hands: you %d, P1 %d (count %d)", len(sv.Players[1].Hand), len(sv.Players[0].Hand), sv.Players[0].HandCount)
	}

	slot := sv.Players[2].Slots[1]
	if slot.Empty || slot.Name != "Professional" || slot.RoundsLeft != 9 || slot.Attacker != -1 {
		t.Errorf("slot view = %+v", slot)
	}
	if !sv.Players[2].Slots[0].Empty {
		t.Error("slot 1 should be empty")
	}
	if sv.Phase != "Draw" || sv.Winner != -1 {
		t.Errorf("phase %q winner %d", sv.Phase, sv.Winner)
	}
}

func TestNetworkControllerChooseAction(t *testing.T) {
	m := newMatch(t)
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()
	nc := NewNetworkController(server, 0)

	actions := []game.Action{
		{Type: game.ActionDraw, Desc: "Draw from the draw pile"},
		{Type: game.ActionSkip, Desc: "Skip Turn"},
	}

	go func() {
		dec := json.NewDecoder(client)
		enc := json.NewEncoder(client)
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return
		}
		_ = enc.Encode(ClientMessage{Type: MsgAction, Index: len(msg.Actions) - 1})
		if err := dec.Decode(&msg); err != nil {
			return
		}
		_ = enc.Encode(ClientMessage{Type: MsgAction, Index: 9})
	}()

	got, err := nc.ChooseAction(context.Background(), m.State(), actions)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != game.ActionSkip {
		t.Errorf("chose %s, want Skip Turn", got)
	}

	got, err = nc.ChooseAction(context.Background(), m.State(), actions)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != game.ActionDraw {
		t.Errorf("out-of-range index should fall back to the first action, got %s", got)
	}
}

func TestClientREPL(t *testing.T) {
	m := newMatch(t)
	server, conn := net.Pipe()
	defer server.Close()

	var out bytes.Buffer
	c := &Client{conn: conn, seat: -1, in: strings.NewReader("7\n2\n"), out: &out}

	done := make(chan error, 1)
	go func() { done <- c.RunREPL(context.Background()) }()

	enc := json.NewEncoder(server)
	dec := json.NewDecoder(server)

	if err := enc.Encode(ServerMessage{Type: MsgWelcome, Seat: 0, Players: 3}); err != nil {
		t.Fatal(err)
	}
	ev := EventViewOf(log.NewSkipEvent(1))
	if err := enc.Encode(ServerMessage{Type: MsgNotify, Event: &ev}); err != nil {
		t.Fatal(err)
	}
	actions := ActionViews(m.LegalActions(0))
	actions = append(actions, ActionView{Index: len(actions), Desc: "Second choice"})
	if err := enc.Encode(ServerMessage{Type: MsgChooseAction, Actions: actions, State: BuildStateView(m.State(), 0)}); err != nil {
		t.Fatal(err)
	}
	var reply ClientMessage
	if err := dec.Decode(&reply); err != nil {
		t.Fatal(err)
	}
	if reply.Type != MsgAction || reply.Index != 1 {
		t.Errorf("reply = %+v, want index 1", reply)
	}
	if err := enc.Encode(ServerMessage{Type: MsgGameOver, Winner: 0, Result: "P1 wins: last one standing"}); err != nil {
		t.Fatal(err)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	text := out.String()
	for _, want := range []string{"You are P1 of 3 players", "P2 skips", "Enter a number between 1 and 2", "P1 wins"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if c.seat != 0 {
		t.Errorf("seat = %d, want 0", c.seat)
	}
}
