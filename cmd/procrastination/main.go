package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/peterkuimelis/procrastination/internal/ai"
	"github.com/peterkuimelis/procrastination/internal/config"
	pnet "github.com/peterkuimelis/procrastination/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	_ = godotenv.Load()
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "host":
		err = runHost(ctx, logger, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	case "sim":
		err = runSim(ctx, logger, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger()
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  procrastination host [--config FILE] [--players N] [--tier T] [--port P] [--deck N] [--decks FILE]")
	fmt.Println("  procrastination join [--addr ADDR] [--name NAME]")
	fmt.Println("  procrastination sim  [--config FILE] [--players N] [--tiers T1,T2,..] [--games N] [--seed S] [-v]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Start a game server and play as P1; other seats are AI or remote humans")
	fmt.Println("  join    Connect to a game server and play a remote human seat")
	fmt.Println("  sim     Run AI-only matches and report how each seat fared")
}

// matchFlags are the settings shared by host and sim. Zero values leave the
// loaded configuration alone.
type matchFlags struct {
	configFile *string
	players    *int
	rounds     *int
	victory    *int
	seed       *int64
	deck       *int
	decksFile  *string
}

func addMatchFlags(fs *flag.FlagSet) matchFlags {
	return matchFlags{
		configFile: fs.String("config", "", "path to a YAML config file"),
		players:    fs.Int("players", 0, "number of players (2-6)"),
		rounds:     fs.Int("rounds", 0, "round limit"),
		victory:    fs.Int("victory", 0, "hours that win outright"),
		seed:       fs.Int64("seed", 0, "RNG seed (0 = random)"),
		deck:       fs.Int("deck", 0, "deck number from the decks file"),
		decksFile:  fs.String("decks", "", "path to decks file (empty = standard deck)"),
	}
}

func (f matchFlags) load() (config.Config, error) {
	cfg, err := config.Load(*f.configFile)
	if err != nil {
		return cfg, err
	}
	if *f.players > 0 {
		cfg.Players = *f.players
	}
	if *f.rounds > 0 {
		cfg.MaxRounds = *f.rounds
	}
	if *f.victory > 0 {
		cfg.VictoryHours = *f.victory
	}
	if *f.seed != 0 {
		cfg.Seed = *f.seed
	}
	if *f.decksFile != "" {
		cfg.DeckFile = *f.decksFile
	}
	if *f.deck > 0 {
		cfg.DeckNumber = *f.deck
	}
	return cfg, cfg.Validate()
}

func runHost(ctx context.Context, logger zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	mf := addMatchFlags(fs)
	tier := fs.String("tier", "", "AI difficulty: easy, medium, expert or nightmare")
	port := fs.String("port", "9000", "TCP port to listen on")
	fs.Parse(args)

	cfg, err := mf.load()
	if err != nil {
		return err
	}
	if *tier != "" {
		if _, err := ai.ParseTier(*tier); err != nil {
			return err
		}
		cfg.AITier = *tier
	}

	srv := &pnet.Server{Config: cfg, Port: *port, Log: logger}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	name := fs.String("name", os.Getenv("USER"), "name shown to the host")
	fs.Parse(args)

	return pnet.Connect(ctx, *addr, *name)
}

func runSim(ctx context.Context, logger zerolog.Logger, args []string) error {
	fs := flag.NewFlagSet("sim", flag.ExitOnError)
	mf := addMatchFlags(fs)
	tiers := fs.String("tiers", "", "comma-separated AI tier per seat (default: config)")
	games := fs.Int("games", 100, "number of matches to play")
	verbose := fs.Bool("v", false, "print every event of every match")
	fs.Parse(args)

	cfg, err := mf.load()
	if err != nil {
		return err
	}

	seats := make([]ai.Tier, cfg.Players)
	for i := range seats {
		seats[i] = cfg.Tier(i)
		if cfg.SeatAt(i).Kind != config.SeatAI {
			seats[i], _ = ai.ParseTier(cfg.AITier)
		}
	}
	if *tiers != "" {
		names := strings.Split(*tiers, ",")
		if len(names) != cfg.Players {
			return fmt.Errorf("--tiers lists %d seats for %d players", len(names), cfg.Players)
		}
		for i, n := range names {
			if seats[i], err = ai.ParseTier(strings.TrimSpace(n)); err != nil {
				return err
			}
		}
	}

	var out io.Writer
	if *verbose {
		out = os.Stdout
	}
	sim := &Simulation{Config: cfg, Tiers: seats, Games: *games, Log: logger, Events: out}
	report, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	report.Print(os.Stdout)
	return nil
}
