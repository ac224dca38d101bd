package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/procrastination/internal/ai"
	"github.com/peterkuimelis/procrastination/internal/config"
	"github.com/peterkuimelis/procrastination/internal/game"
	"github.com/peterkuimelis/procrastination/internal/log"
	pnet "github.com/peterkuimelis/procrastination/internal/net"

	stdnet "net"
)

// DecisionType identifies what kind of decision the game engine is waiting for.
type DecisionType string

const (
	DecisionChooseAction DecisionType = "choose_action"
	DecisionGameOver     DecisionType = "game_over"
)

// PendingDecision represents a decision the game engine is waiting for.
type PendingDecision struct {
	Type    DecisionType      `json:"type"`
	Player  int               `json:"player"`
	State   *pnet.StateView   `json:"state"`
	Actions []pnet.ActionView `json:"actions,omitempty"`
}

// ActionResponse is sent back from the take_action tool to the controller.
type ActionResponse struct {
	Index int
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	SessionID string           `json:"session_id"`
	Events    []pnet.EventView `json:"events"`
	State     *pnet.StateView  `json:"state,omitempty"`
	Pending   *PendingView     `json:"pending,omitempty"`
	GameOver  bool             `json:"game_over"`
	Winner    int              `json:"winner,omitempty"`
	Result    string           `json:"result,omitempty"`
	Port      string           `json:"port,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type      DecisionType      `json:"type"`
	ForPlayer string            `json:"for_player"`
	Actions   []pnet.ActionView `json:"actions,omitempty"`
}

// SessionOptions configures a new session.
type SessionOptions struct {
	Config      config.Config
	AgentPlayer int    // seat played through the MCP tools
	Port        string // TCP port for human seats; unused without them
}

// GameSession holds the state of a single MCP game session.
type GameSession struct {
	ID          string
	match       *game.Match
	agentCtrl   *MCPController
	agentPlayer int
	humanCtrls  []*pnet.NetworkController
	port        string

	listener stdnet.Listener
	conns    []stdnet.Conn
	cancel   context.CancelFunc

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []pnet.EventView
	gameOver bool
	winner   int
	result   string
}

// NewGameSession creates a new game session. Seats the config explicitly
// marks human are filled by players connecting with `procrastination join`;
// the call blocks until all of them are in. Every other seat except the
// agent's is an AI.
func NewGameSession(opts SessionOptions) (*GameSession, error) {
	cfg := opts.Config
	if opts.AgentPlayer < 0 || opts.AgentPlayer >= cfg.Players {
		return nil, fmt.Errorf("agent player %d out of range for %d players", opts.AgentPlayer, cfg.Players)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &GameSession{
		ID:          uuid.NewString(),
		agentPlayer: opts.AgentPlayer,
		port:        opts.Port,
		pendingCh:   make(chan *PendingDecision, 1),
		winner:      -1,
		cancel:      cancel,
	}
	sess.agentCtrl = NewMCPController(opts.AgentPlayer, sess)

	controllers := make([]game.PlayerController, cfg.Players)
	controllers[opts.AgentPlayer] = sess.agentCtrl
	for i := range controllers {
		if i == opts.AgentPlayer {
			continue
		}
		if i >= len(cfg.Seats) || cfg.Seats[i].Kind != config.SeatHuman {
			controllers[i] = ai.NewAgent(cfg.Tier(i), rand.New(rand.NewSource(cfg.Seed+int64(i))))
			continue
		}
		nc, err := sess.acceptHuman(i, cfg.Players)
		if err != nil {
			sess.Close()
			return nil, err
		}
		controllers[i] = nc
	}

	mc, err := cfg.MatchConfig(log.NewMemoryLogger())
	if err != nil {
		sess.Close()
		return nil, err
	}
	sess.match, err = game.NewMatch(mc)
	if err != nil {
		sess.Close()
		return nil, err
	}
	table, err := game.NewTable(sess.match, controllers...)
	if err != nil {
		sess.Close()
		return nil, err
	}

	go sess.run(ctx, table)
	return sess, nil
}

// acceptHuman waits for one `procrastination join` on the session port.
func (s *GameSession) acceptHuman(seat, players int) (*pnet.NetworkController, error) {
	if s.listener == nil {
		ln, err := stdnet.Listen("tcp", ":"+s.port)
		if err != nil {
			return nil, fmt.Errorf("listen on port %s: %w", s.port, err)
		}
		s.listener = ln
	}
	conn, err := s.listener.Accept()
	if err != nil {
		return nil, fmt.Errorf("accept: %w", err)
	}
	s.conns = append(s.conns, conn)

	var join pnet.ClientMessage
	if err := json.NewDecoder(conn).Decode(&join); err != nil {
		return nil, fmt.Errorf("read join message: %w", err)
	}
	nc := pnet.NewNetworkController(conn, seat)
	if err := nc.SendWelcome(players); err != nil {
		return nil, fmt.Errorf("welcome P%d: %w", seat+1, err)
	}
	s.humanCtrls = append(s.humanCtrls, nc)
	return nc, nil
}

func (s *GameSession) run(ctx context.Context, table *game.Table) {
	winner, err := table.Run(ctx)
	state := s.match.State()
	result := state.Result
	if err != nil {
		result = fmt.Sprintf("error: %v", err)
	}

	for _, nc := range s.humanCtrls {
		_ = nc.SendGameOver(winner, result)
	}
	s.closeConns()

	s.mu.Lock()
	s.gameOver = true
	s.winner = winner
	s.result = result
	s.mu.Unlock()

	final := &PendingDecision{
		Type:   DecisionGameOver,
		Player: winner,
		State:  pnet.BuildStateView(state, s.agentPlayer),
	}
	select {
	case s.pendingCh <- final:
	case <-ctx.Done():
	}
}

// Close stops the match and releases network resources.
func (s *GameSession) Close() {
	s.cancel()
	s.closeConns()
}

func (s *GameSession) closeConns() {
	for _, c := range s.conns {
		c.Close()
	}
	if s.listener != nil {
		s.listener.Close()
	}
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev pnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []pnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []pnet.EventView{}
	}
	return events
}

// waitForPending blocks until the next decision arrives from the game engine,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.currentPending = pending

	resp := &ToolResponse{
		SessionID: s.ID,
		Events:    s.drainEvents(),
		State:     pending.State,
	}

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = s.winner
		resp.Result = s.result
		s.mu.Unlock()
		return resp, nil
	}

	resp.Pending = &PendingView{
		Type:      pending.Type,
		ForPlayer: s.playerLabel(pending.Player),
		Actions:   pending.Actions,
	}
	return resp, nil
}

// respond hands the agent's choice to the waiting controller.
func (s *GameSession) respond(ctx context.Context, index int) error {
	select {
	case s.agentCtrl.responseCh <- ActionResponse{Index: index}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// playerLabel returns "agent" or the player name for the given index.
func (s *GameSession) playerLabel(player int) string {
	if player == s.agentPlayer {
		return "agent"
	}
	return log.PlayerName(player)
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
