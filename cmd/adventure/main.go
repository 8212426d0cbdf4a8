// Package main provides the console adventure interpreter: a single
// local session played over stdin/stdout.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/saltmarsh/adventure/internal/config"
	"github.com/saltmarsh/adventure/internal/frontend/console"
	"github.com/saltmarsh/adventure/internal/game/engine"
	"github.com/saltmarsh/adventure/internal/game/state"
	"github.com/saltmarsh/adventure/internal/game/world"
	"github.com/saltmarsh/adventure/internal/observability"
	"github.com/saltmarsh/adventure/internal/scripting"
	"github.com/saltmarsh/adventure/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	gamePath := flag.String("game", "", "path to game YAML (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *gamePath != "" {
		cfg.Game.ContentPath = *gamePath
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	loadStart := time.Now()
	game, err := world.LoadGameFromFile(cfg.Game.ContentPath)
	if err != nil {
		logger.Fatal("loading game", zap.Error(err))
	}
	logger.Info("game loaded",
		zap.String("title", game.Title),
		zap.String("path", cfg.Game.ContentPath),
		zap.Int("rooms", len(game.Rooms)),
		zap.Int("items", len(game.Items)),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	st := state.New(game, cfg.Game.HistorySize)
	opts := []engine.Option{engine.WithLogger(logger)}

	scriptDir := cfg.Game.ScriptDir
	if game.ScriptDir != "" {
		scriptDir = game.ScriptDir
	}
	if scriptDir != "" {
		hooks := scripting.NewManager(cfg.Scripting.InstructionLimit, cfg.Scripting.CallTimeout, logger)
		hooks.SetFlag = func(name string, value bool) { st.SetFlag(name, value) }
		hooks.GetFlag = st.FlagTruthy
		hooks.GiveItem = st.AddToInventory
		if err := hooks.LoadDir(scriptDir); err != nil {
			logger.Fatal("loading scripts", zap.Error(err))
		}
		defer hooks.Close()
		opts = append(opts, engine.WithHooks(hooks))
	}

	eng := engine.New(game, st, opts...)

	ctx := context.Background()

	var saves console.SaveStore
	if cfg.Database.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		saves = postgres.NewSaveRepository(pool.DB(), game.Title)
	}

	runner := console.New(eng, os.Stdin, os.Stdout, saves, logger)
	if err := runner.Run(ctx); err != nil {
		logger.Fatal("session failed", zap.Error(err))
	}
}
