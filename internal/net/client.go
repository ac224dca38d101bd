package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/peterkuimelis/procrastination/internal/log"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	seat int
	in   io.Reader
	out  io.Writer
}

// NewClient creates a terminal client for seat on conn, reading choices from
// stdin and printing to stdout.
func NewClient(conn net.Conn, seat int) *Client {
	return &Client{conn: conn, seat: seat, in: os.Stdin, out: os.Stdout}
}

// Connect connects to a server, sends the join message, and runs the REPL.
func Connect(ctx context.Context, addr, name string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: MsgJoin, Name: name}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for game to start...")

	client := NewClient(conn, -1)
	return client.RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)
	reader := bufio.NewReader(c.in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgWelcome:
			c.seat = msg.Seat
			fmt.Fprintf(c.out, "You are %s of %d players.\n", log.PlayerName(msg.Seat), msg.Players)

		case MsgNotify:
			c.renderEvent(msg.Event)

		case MsgChooseAction:
			c.renderState(msg.State)
			c.renderActions(msg.Actions)
			idx, err := c.readChoice(reader, len(msg.Actions))
			if err != nil {
				return err
			}
			if err := enc.Encode(ClientMessage{Type: MsgAction, Index: idx}); err != nil {
				return fmt.Errorf("send action: %w", err)
			}

		case MsgGameOver:
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "          GAME OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	fmt.Fprintf(c.out, "R%-2d T%-3d %-8s| %s\n", ev.Round, ev.Turn, ev.Phase, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╔══════════════════════════════════════════════════════╗")
	for _, p := range sv.Players {
		marker := " "
		if p.Index == sv.CurrentPlayer {
			marker = "▶"
		}
		who := p.Name
		if p.Index == sv.You {
			who += " (you)"
		}
		fmt.Fprintf(c.out, "║ %s %-9s Hours: %-4d Hand: %d  ", marker, who, p.Hours, p.HandCount)
		for _, s := range p.Slots {
			fmt.Fprintf(c.out, "%s ", formatSlot(s))
		}
		fmt.Fprintln(c.out)
	}
	fmt.Fprintln(c.out, "║──────────────────────────────────────────────────────")
	discard := "empty"
	if sv.DiscardTop != nil {
		discard = sv.DiscardTop.Name
	}
	fmt.Fprintf(c.out, "║ Draw pile: %d  Discard: %d (top: %s)\n", sv.DrawPile, sv.DiscardPile, discard)
	fmt.Fprintln(c.out, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Round %d/%d | Turn %d | %s", sv.Round, sv.MaxRounds, sv.Turn, sv.Phase)
	switch {
	case sv.Pending != nil && sv.Pending.Defender == sv.You:
		turnInfo += fmt.Sprintf(" | %s played %s on you", log.PlayerName(sv.Pending.Attacker), sv.Pending.Card)
	case sv.IsYourTurn:
		turnInfo += " | Your turn"
	default:
		turnInfo += fmt.Sprintf(" | %s's turn", log.PlayerName(sv.CurrentPlayer))
	}
	fmt.Fprintln(c.out, turnInfo)

	if sv.You >= 0 && sv.You < len(sv.Players) {
		if hand := sv.Players[sv.You].Hand; len(hand) > 0 {
			fmt.Fprintf(c.out, "\nHand: ")
			for i, card := range hand {
				fmt.Fprintf(c.out, "[%d] %s  ", i+1, card.Name)
			}
			fmt.Fprintln(c.out)
		}
	}
}

func formatSlot(s SlotView) string {
	if s.Empty {
		return "[ ]"
	}
	flags := ""
	if s.Protected {
		flags += "*"
	}
	if s.Expired {
		flags += "!"
	}
	if s.RoundsLeft < 0 {
		return fmt.Sprintf("[%s %+d%s]", s.Name, s.HourValue, flags)
	}
	return fmt.Sprintf("[%s %+d %dr%s]", s.Name, s.HourValue, s.RoundsLeft, flags)
}

func (c *Client) renderActions(actions []ActionView) {
	fmt.Fprintln(c.out, "\nActions:")
	for _, a := range actions {
		fmt.Fprintf(c.out, "  %d) %s\n", a.Index+1, a.Desc)
	}
}

func (c *Client) readChoice(reader *bufio.Reader, count int) (int, error) {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= 1 && n <= count {
			return n - 1, nil // convert to 0-indexed
		}
		if err != nil {
			return 0, fmt.Errorf("read choice: %w", err)
		}
		fmt.Fprintf(c.out, "Enter a number between 1 and %d\n", count)
	}
}
