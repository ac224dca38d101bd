package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/peterkuimelis/procrastination/internal/config"
	"github.com/peterkuimelis/procrastination/internal/game"
	pnet "github.com/peterkuimelis/procrastination/internal/net"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Mechanic       string `json:"mechanic,omitempty"`
	HoursPerRound  int    `json:"hoursPerRound,omitempty"`
	ImmediateHours int    `json:"immediateHours,omitempty"`
	ExpiresAfter   int    `json:"expiresAfterRounds,omitempty"`
	Description    string `json:"description"`
}

// Options configures a Server.
type Options struct {
	Config    config.Config // base settings for matches hosted in the browser
	DecksFile string        // optional YAML deck list
	Log       zerolog.Logger
}

// Server is the procrastination web UI server.
type Server struct {
	cfg       config.Config
	decksFile string
	log       zerolog.Logger
	r         *chi.Mux

	mu      sync.Mutex
	matches map[string]*liveMatch
}

// NewServer creates a new web server.
func NewServer(opts Options) *Server {
	s := &Server{
		cfg:       opts.Config,
		decksFile: opts.DecksFile,
		log:       opts.Log,
		r:         chi.NewRouter(),
		matches:   make(map[string]*liveMatch),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)
		r.Get("/cards", s.handleCards)
		r.Get("/decks", s.handleDecks)
		r.Get("/matches", s.handleMatches)
		r.Get("/matches/{id}", s.handleMatch)
	})

	s.r.Get("/ws", s.handleWebSocket)
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var cards []CardInfo
	for _, d := range game.AllCards() {
		cards = append(cards, CardInfo{
			ID:             int(d.ID),
			Name:           d.Name,
			Category:       d.Category.String(),
			Mechanic:       d.Mechanic.String(),
			HoursPerRound:  d.HoursPerRound,
			ImmediateHours: d.ImmediateHours,
			ExpiresAfter:   d.ExpiresAfterRounds,
			Description:    d.Description,
		})
	}
	_ = json.NewEncoder(w).Encode(cards)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.deckInfos()
	if err != nil {
		s.log.Error().Err(err).Str("file", s.decksFile).Msg("read decks")
		http.Error(w, `{"error":"could not read decks file"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(decks)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := make([]MatchSummary, 0, len(s.matches))
	for _, m := range s.matches {
		list = append(list, m.summary())
	}
	s.mu.Unlock()
	_ = json.NewEncoder(w).Encode(list)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	m, ok := s.matches[id]
	s.mu.Unlock()
	if !ok {
		http.Error(w, `{"error":"match not found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(m.detail())
}

// wsRequest is the first message a browser sends on /ws.
type wsRequest struct {
	Type string `json:"type"` // "connect" joins a TCP host, "new" starts a match here

	Addr string `json:"addr,omitempty"`
	Name string `json:"name,omitempty"`

	Players    int    `json:"players,omitempty"`
	AITier     string `json:"ai_tier,omitempty"`
	DeckNumber int    `json:"deck_number,omitempty"`
	MaxRounds  int    `json:"max_rounds,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket accept")
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	var req wsRequest
	if err := wsjson.Read(ctx, wsConn, &req); err != nil {
		s.log.Warn().Err(err).Msg("websocket read request")
		return
	}

	switch req.Type {
	case "connect":
		s.proxy(ctx, wsConn, req)
	case "new":
		if err := s.hostMatch(ctx, wsConn, req); err != nil {
			s.log.Warn().Err(err).Msg("browser match")
			sendError(ctx, wsConn, err.Error())
			wsConn.Close(websocket.StatusInternalError, "match failed")
			return
		}
		wsConn.Close(websocket.StatusNormalClosure, "game ended")
	default:
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect or new message")
	}
}

func sendError(ctx context.Context, conn *websocket.Conn, text string) {
	_ = wsjson.Write(ctx, conn, map[string]string{"type": "error", "result": text})
}

// proxy relays between the browser and a `procrastination host` TCP server.
func (s *Server) proxy(ctx context.Context, wsConn *websocket.Conn, req wsRequest) {
	tcpConn, err := net.Dial("tcp", req.Addr)
	if err != nil {
		sendError(ctx, wsConn, fmt.Sprintf("Could not connect to game server at %s: %v", req.Addr, err))
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	if err := json.NewEncoder(tcpConn).Encode(pnet.ClientMessage{Type: pnet.MsgJoin, Name: req.Name}); err != nil {
		s.log.Warn().Err(err).Str("addr", req.Addr).Msg("tcp write join")
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if err != io.EOF {
					s.log.Debug().Err(err).Msg("tcp read")
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				s.log.Debug().Err(err).Msg("websocket write")
				return
			}
		}
	}()

	// WebSocket → TCP
	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				s.log.Debug().Err(err).Msg("tcp write")
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}
