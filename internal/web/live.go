package web

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/peterkuimelis/procrastination/internal/ai"
	"github.com/peterkuimelis/procrastination/internal/game"
	"github.com/peterkuimelis/procrastination/internal/log"
	pnet "github.com/peterkuimelis/procrastination/internal/net"
)

// recentEvents bounds the event tail kept for spectators.
const recentEvents = 50

// MatchSummary is a browser-hosted match in the /api/matches list.
type MatchSummary struct {
	ID      string    `json:"id"`
	Players int       `json:"players"`
	Round   int       `json:"round"`
	Over    bool      `json:"over"`
	Result  string    `json:"result,omitempty"`
	Started time.Time `json:"started"`
}

// MatchDetail is the spectator view served by /api/matches/{id}.
type MatchDetail struct {
	MatchSummary
	State  *pnet.StateView  `json:"state,omitempty"`
	Events []pnet.EventView `json:"events"`
}

// liveMatch tracks a running match for spectators. Snapshots are taken on
// the table goroutine whenever a seat is asked to act.
type liveMatch struct {
	id      string
	players int
	started time.Time

	mu     sync.Mutex
	view   *pnet.StateView
	events []pnet.EventView
}

func newLiveMatch(id string, players int) *liveMatch {
	return &liveMatch{id: id, players: players, started: time.Now()}
}

func (m *liveMatch) snapshot(state *game.GameState) {
	view := pnet.BuildStateView(state, -1)
	m.mu.Lock()
	m.view = view
	m.mu.Unlock()
}

func (m *liveMatch) record(event log.GameEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, pnet.EventViewOf(event))
	if len(m.events) > recentEvents {
		m.events = m.events[len(m.events)-recentEvents:]
	}
}

func (m *liveMatch) summary() MatchSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summaryLocked()
}

func (m *liveMatch) summaryLocked() MatchSummary {
	ms := MatchSummary{ID: m.id, Players: m.players, Started: m.started}
	if m.view != nil {
		ms.Round = m.view.Round
		ms.Over = m.view.Over
		ms.Result = m.view.Result
	}
	return ms
}

func (m *liveMatch) detail() MatchDetail {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]pnet.EventView, len(m.events))
	copy(events, m.events)
	return MatchDetail{MatchSummary: m.summaryLocked(), State: m.view, Events: events}
}

// observer wraps a seat's controller so the live match sees every decision
// point. Only one seat records events, since every seat is notified of all.
type observer struct {
	game.PlayerController
	live   *liveMatch
	record bool
}

func (o *observer) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	o.live.snapshot(state)
	return o.PlayerController.ChooseAction(ctx, state, actions)
}

func (o *observer) Notify(ctx context.Context, event log.GameEvent) error {
	if o.record {
		o.live.record(event)
	}
	return o.PlayerController.Notify(ctx, event)
}

// wsController implements game.PlayerController over a browser WebSocket,
// speaking the same messages as the TCP protocol.
type wsController struct {
	conn   *websocket.Conn
	player int
}

func (c *wsController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	msg := pnet.ServerMessage{
		Type:    pnet.MsgChooseAction,
		Actions: pnet.ActionViews(actions),
		State:   pnet.BuildStateView(state, c.player),
	}
	if err := wsjson.Write(ctx, c.conn, msg); err != nil {
		return game.Action{}, fmt.Errorf("send choose_action: %w", err)
	}

	var resp pnet.ClientMessage
	if err := wsjson.Read(ctx, c.conn, &resp); err != nil {
		return game.Action{}, fmt.Errorf("recv action: %w", err)
	}
	if resp.Index < 0 || resp.Index >= len(actions) {
		return actions[0], nil
	}
	return actions[resp.Index], nil
}

func (c *wsController) Notify(ctx context.Context, event log.GameEvent) error {
	ev := pnet.EventViewOf(event)
	return wsjson.Write(ctx, c.conn, pnet.ServerMessage{Type: pnet.MsgNotify, Event: &ev})
}

// hostMatch runs a match on this server with the browser in seat 0 and AI
// players in every other seat.
func (s *Server) hostMatch(ctx context.Context, conn *websocket.Conn, req wsRequest) error {
	cfg := s.cfg
	cfg.Seats = nil
	if req.Players > 0 {
		cfg.Players = req.Players
	}
	if req.MaxRounds > 0 {
		cfg.MaxRounds = req.MaxRounds
	}
	if req.AITier != "" {
		cfg.AITier = req.AITier
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}
	if req.DeckNumber > 0 {
		if s.decksFile == "" {
			return fmt.Errorf("deck %d requested but no decks file is configured", req.DeckNumber)
		}
		cfg.DeckFile, cfg.DeckNumber = s.decksFile, req.DeckNumber
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	mc, err := cfg.MatchConfig(log.NewMemoryLogger())
	if err != nil {
		return err
	}
	match, err := game.NewMatch(mc)
	if err != nil {
		return err
	}

	live := newLiveMatch(uuid.NewString(), cfg.Players)
	controllers := make([]game.PlayerController, cfg.Players)
	for i := range controllers {
		var pc game.PlayerController
		if i == 0 {
			pc = &wsController{conn: conn, player: 0}
		} else {
			pc = ai.NewAgent(cfg.Tier(i), rand.New(rand.NewSource(cfg.Seed+int64(i))))
		}
		controllers[i] = &observer{PlayerController: pc, live: live, record: i == 0}
	}
	table, err := game.NewTable(match, controllers...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.matches[live.id] = live
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.matches, live.id)
		s.mu.Unlock()
	}()

	welcome := pnet.ServerMessage{Type: pnet.MsgWelcome, Seat: 0, Players: cfg.Players, Match: live.id}
	if err := wsjson.Write(ctx, conn, welcome); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}
	s.log.Info().Str("match", live.id).Int("players", cfg.Players).Str("tier", cfg.AITier).Int64("seed", cfg.Seed).Msg("browser match started")

	winner, err := table.Run(ctx)
	state := match.State()
	live.snapshot(state)
	if err != nil {
		return err
	}
	s.log.Info().Str("match", live.id).Int("winner", winner).Str("result", state.Result).Msg("browser match over")

	return wsjson.Write(ctx, conn, pnet.ServerMessage{Type: pnet.MsgGameOver, Winner: winner, Result: state.Result})
}
