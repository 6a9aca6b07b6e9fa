package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/cofre-dev/cofre/internal/commands"
)

func main() {
	// Optional .env for COFRE_BACKEND / COFRE_DATA_DIR overrides.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("COFRE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
