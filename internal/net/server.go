package net

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/peterkuimelis/procrastination/internal/ai"
	"github.com/peterkuimelis/procrastination/internal/config"
	"github.com/peterkuimelis/procrastination/internal/game"
	"github.com/peterkuimelis/procrastination/internal/log"
)

// Server hosts a match. The host plays seat 1 in the local terminal when it
// is a human seat, remote humans join over TCP and the remaining seats are
// AI agents.
type Server struct {
	Config config.Config
	Port   string
	Log    zerolog.Logger
}

// Run starts the server, waits for every remote human seat to join, then runs
// the match.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.Config
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		cfg.Seed = seed
	}

	var remote []int
	for i := 1; i < cfg.Players; i++ {
		if cfg.SeatAt(i).Kind == config.SeatHuman {
			remote = append(remote, i)
		}
	}

	controllers := make([]game.PlayerController, cfg.Players)
	var netCtrls []*NetworkController

	if len(remote) > 0 {
		ln, err := net.Listen("tcp", ":"+s.Port)
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		defer ln.Close()

		for _, seat := range remote {
			s.Log.Info().Str("port", s.Port).Int("seat", seat+1).Msg("waiting for player")
			conn, name, err := accept(ln)
			if err != nil {
				return err
			}
			defer conn.Close()
			s.Log.Info().Str("remote", conn.RemoteAddr().String()).Str("name", name).Int("seat", seat+1).Msg("player joined")

			nc := NewNetworkController(conn, seat)
			if err := nc.SendWelcome(cfg.Players); err != nil {
				return fmt.Errorf("welcome P%d: %w", seat+1, err)
			}
			controllers[seat] = nc
			netCtrls = append(netCtrls, nc)
		}
	}

	// The host's terminal talks to its controller through an in-memory pipe.
	var hostConn net.Conn
	if cfg.SeatAt(0).Kind == config.SeatHuman {
		var serverSide net.Conn
		hostConn, serverSide = net.Pipe()
		defer hostConn.Close()
		nc := NewNetworkController(serverSide, 0)
		controllers[0] = nc
		netCtrls = append(netCtrls, nc)
	}

	for i := range controllers {
		if controllers[i] == nil {
			controllers[i] = ai.NewAgent(cfg.Tier(i), rand.New(rand.NewSource(seed+int64(i))))
			s.Log.Debug().Int("seat", i+1).Str("tier", cfg.Tier(i).String()).Msg("AI seat")
		}
	}

	mc, err := cfg.MatchConfig(log.NewMemoryLogger())
	if err != nil {
		return fmt.Errorf("match config: %w", err)
	}
	m, err := game.NewMatch(mc)
	if err != nil {
		return err
	}
	table, err := game.NewTable(m, controllers...)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	if hostConn != nil {
		go func() {
			client := NewClient(hostConn, 0)
			errCh <- client.RunREPL(ctx)
		}()
	}

	go func() {
		winner, err := table.Run(ctx)
		if err != nil {
			errCh <- fmt.Errorf("match error: %w", err)
			return
		}
		state := m.State()
		s.Log.Info().Int("winner", winner).Str("outcome", state.Outcome.String()).Int("round", state.Round).Msg(state.Result)
		for _, nc := range netCtrls {
			_ = nc.SendGameOver(winner, state.Result)
		}
		errCh <- nil
	}()

	return <-errCh
}

// accept waits for one client and reads its join message.
func accept(ln net.Listener) (net.Conn, string, error) {
	conn, err := ln.Accept()
	if err != nil {
		return nil, "", fmt.Errorf("accept: %w", err)
	}
	var join ClientMessage
	if err := json.NewDecoder(conn).Decode(&join); err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("read join message: %w", err)
	}
	if join.Type != MsgJoin {
		conn.Close()
		return nil, "", fmt.Errorf("expected join message, got %q", join.Type)
	}
	return conn, join.Name, nil
}
