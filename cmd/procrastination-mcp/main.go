package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/peterkuimelis/procrastination/internal/config"
	pmcp "github.com/peterkuimelis/procrastination/internal/mcp"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	port := flag.String("port", "9999", "TCP port for human player connections")
	flag.Parse()

	_ = godotenv.Load()
	// stdout carries the MCP protocol, so logs go to stderr.
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		logger = logger.Level(lvl)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	pmcp.SetConfig(cfg)
	pmcp.SetPort(*port)

	s := server.NewMCPServer("procrastination", "1.0.0")
	pmcp.RegisterTools(s)

	logger.Info().Int("players", cfg.Players).Str("tier", cfg.AITier).Str("port", *port).Msg("serving MCP on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Fatal().Err(err).Msg("mcp server exited")
	}
}
