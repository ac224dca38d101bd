package mcp

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/procrastination/internal/ai"
	"github.com/peterkuimelis/procrastination/internal/config"
	"github.com/peterkuimelis/procrastination/internal/game"
	pnet "github.com/peterkuimelis/procrastination/internal/net"
)

var (
	sessionMu sync.Mutex

	// activeSession is the singleton game session (one per stdio process).
	activeSession *GameSession

	// baseConfig is the match configuration new games start from, set by main.
	baseConfig = config.Default()

	// port is the TCP port for human player connections, set by main.
	port string
)

// SetConfig sets the configuration new games start from.
func SetConfig(cfg config.Config) {
	baseConfig = cfg
}

// SetPort sets the TCP port for human player connections.
func SetPort(p string) {
	port = p
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(takeActionTool(), handleTakeAction)
	s.AddTool(getGameStateTool(), handleGetGameState)
	s.AddTool(listCardsTool(), handleListCards)
	s.AddTool(quitGameTool(), handleQuitGame)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new Procrastination match. Returns the initial game state and first pending decision. "+
			"Seats other than yours are AI players unless the server config marks them human; human players connect "+
			"via `procrastination join --addr localhost:<port>` and this call blocks until they do."),
		mcp.WithNumber("players", mcp.Description("Number of players, 2-6 (default from config)")),
		mcp.WithNumber("agent_player", mcp.Description("Your seat, 0-based (default 0 = goes first)")),
		mcp.WithString("ai_tier", mcp.Description("Difficulty of AI seats: easy, medium, expert or nightmare")),
		mcp.WithNumber("max_rounds", mcp.Description("Round limit (default 25)")),
		mcp.WithNumber("victory_hours", mcp.Description("Hours that win outright; 0 = last one standing only")),
		mcp.WithNumber("seed", mcp.Description("RNG seed for a reproducible match; 0 = random")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Choose an action from the pending action list. Use this when the pending decision type is 'choose_action'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the action to take from the actions list")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

func listCardsTool() mcp.Tool {
	return mcp.NewTool("list_cards",
		mcp.WithDescription("List every card in the catalog with its category, hour values, expiry and rules text. Read-only."),
	)
}

func quitGameTool() mcp.Tool {
	return mcp.NewTool("quit_game",
		mcp.WithDescription("Abandon the running match so a new one can be started."),
	)
}

// --- Tool handlers ---

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if activeSession != nil {
		return mcp.NewToolResultError("A game is already running. Only one game at a time is supported."), nil
	}

	cfg := baseConfig
	cfg.Players = request.GetInt("players", cfg.Players)
	cfg.MaxRounds = request.GetInt("max_rounds", cfg.MaxRounds)
	cfg.VictoryHours = request.GetInt("victory_hours", cfg.VictoryHours)
	cfg.Seed = int64(request.GetInt("seed", int(cfg.Seed)))
	if tier := request.GetString("ai_tier", ""); tier != "" {
		if _, err := ai.ParseTier(tier); err != nil {
			return mcp.NewToolResultErrorf("Invalid ai_tier: %v", err), nil
		}
		cfg.AITier = tier
	}
	if err := cfg.Validate(); err != nil {
		return mcp.NewToolResultErrorf("Invalid game settings: %v", err), nil
	}

	agentPlayer := request.GetInt("agent_player", 0)
	if agentPlayer < 0 || agentPlayer >= cfg.Players {
		return mcp.NewToolResultErrorf("agent_player must be 0-%d", cfg.Players-1), nil
	}

	sess, err := NewGameSession(SessionOptions{Config: cfg, AgentPlayer: agentPlayer, Port: port})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	activeSession = sess

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	if resp.GameOver {
		activeSession = nil
	}
	resp.Port = port

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	sess := activeSession
	pending := sess.currentPending
	if pending == nil {
		return mcp.NewToolResultError("No pending decision."), nil
	}
	if pending.Player != sess.agentPlayer {
		return mcp.NewToolResultError("Waiting for another player to respond."), nil
	}
	if pending.Type != DecisionChooseAction {
		return mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not 'choose_action'.", pending.Type), nil
	}

	index := request.GetInt("index", -1)
	if index < 0 || index >= len(pending.Actions) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, len(pending.Actions)-1), nil
	}

	if err := sess.respond(ctx, index); err != nil {
		return mcp.NewToolResultErrorf("Error submitting action: %v", err), nil
	}

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err), nil
	}

	if resp.GameOver {
		activeSession = nil
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	sess := activeSession
	events := sess.drainEvents()

	sess.mu.Lock()
	gameOver := sess.gameOver
	winner := sess.winner
	result := sess.result
	sess.mu.Unlock()

	resp := &ToolResponse{
		SessionID: sess.ID,
		Events:    events,
		GameOver:  gameOver,
		Winner:    winner,
		Result:    result,
	}

	if pending := sess.currentPending; pending != nil {
		resp.State = pending.State
	}
	if !gameOver && sess.currentPending != nil {
		resp.Pending = &PendingView{
			Type:      sess.currentPending.Type,
			ForPlayer: sess.playerLabel(sess.currentPending.Player),
			Actions:   sess.currentPending.Actions,
		}
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// cardInfo is the list_cards view of one catalog entry.
type cardInfo struct {
	pnet.CardView
	Mechanic       string `json:"mechanic"`
	HoursPerRound  int    `json:"hours_per_round"`
	ImmediateHours int    `json:"immediate_hours"`
	ExpiresAfter   int    `json:"expires_after_rounds"`
}

func handleListCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var cards []cardInfo
	for _, d := range game.AllCards() {
		cards = append(cards, cardInfo{
			CardView:       pnet.CardView{ID: int(d.ID), Name: d.Name, Category: d.Category.String(), Description: d.Description},
			Mechanic:       d.Mechanic.String(),
			HoursPerRound:  d.HoursPerRound,
			ImmediateHours: d.ImmediateHours,
			ExpiresAfter:   d.ExpiresAfterRounds,
		})
	}
	data, err := json.Marshal(cards)
	if err != nil {
		return mcp.NewToolResultErrorf("marshal error: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleQuitGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running."), nil
	}
	activeSession.Close()
	activeSession = nil
	return mcp.NewToolResultText(`{"quit": true}`), nil
}
