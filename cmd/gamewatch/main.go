// Command gamewatch follows one game on a live graph store and prints the
// re-aggregated game context whenever the game's actor roster or any watched
// actor or card changes.
//
//	STORE_BACKEND=surreal gamewatch <game-id>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/forgeboard/gamegraph"
	"github.com/forgeboard/gamegraph/internal/config"
	"github.com/forgeboard/gamegraph/internal/subscribe"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <game-id>\n", os.Args[0])
		os.Exit(2)
	}
	gameID := os.Args[1]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := gamegraph.Open(ctx, cfg, logger)
	if err != nil {
		slog.Error("failed to open graph client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = client.Close() }()

	slog.Info("connected",
		slog.String("backend", cfg.Store.Backend),
		slog.String("game_id", gameID),
	)

	printContext := func() {
		gc, ok := client.Context.GetGameContext(ctx, gameID)
		if !ok {
			slog.Warn("game not found", slog.String("game_id", gameID))
			return
		}
		out, err := json.MarshalIndent(gc, "", "  ")
		if err != nil {
			slog.Error("failed to render context", slog.String("error", err.Error()))
			return
		}
		fmt.Println(string(out))
	}

	printContext()

	cancel, err := client.Subscribe.WatchGameActors(ctx, gameID, func(ev subscribe.GameActorEvent) {
		slog.Info("game changed", slog.String("actor_id", ev.ActorID))
		printContext()
	})
	if err != nil {
		slog.Error("failed to watch game", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cancel()
}
