package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/peterkuimelis/procrastination/internal/config"
	"github.com/peterkuimelis/procrastination/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	configFile := flag.String("config", "", "path to a YAML config file")
	decksFile := flag.String("decks", "decks.yaml", "path to decks YAML file (empty = standard deck only)")
	flag.Parse()

	_ = godotenv.Load()
	lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if *decksFile != "" {
		if _, err := os.Stat(*decksFile); err != nil {
			logger.Warn().Err(err).Msg("decks file unavailable, serving the standard deck only")
			*decksFile = ""
		}
	}

	srv := web.NewServer(web.Options{Config: cfg, DecksFile: *decksFile, Log: logger})

	addr := fmt.Sprintf(":%d", *port)
	logger.Info().Str("url", fmt.Sprintf("http://localhost:%d", *port)).Msg("procrastination web UI listening")
	if err := srv.ListenAndServe(addr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
