// Package main provides the multi-session adventure server. Each
// Telnet connection plays its own independent copy of the game.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/saltmarsh/adventure/internal/config"
	"github.com/saltmarsh/adventure/internal/frontend/telnet"
	"github.com/saltmarsh/adventure/internal/game/engine"
	"github.com/saltmarsh/adventure/internal/game/state"
	"github.com/saltmarsh/adventure/internal/game/world"
	"github.com/saltmarsh/adventure/internal/observability"
	"github.com/saltmarsh/adventure/internal/scripting"
	"github.com/saltmarsh/adventure/internal/server"
	"github.com/saltmarsh/adventure/internal/storage/postgres"
)

func main() {
	start := time.Now()

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

	logger.Info("starting adventure server",
		zap.String("telnet_addr", cfg.Telnet.Addr()),
	)

	game, err := world.LoadGameFromFile(cfg.Game.ContentPath)
	if err != nil {
		logger.Fatal("loading game", zap.Error(err))
	}
	logger.Info("game loaded",
		zap.String("title", game.Title),
		zap.Int("rooms", len(game.Rooms)),
		zap.Int("items", len(game.Items)),
		zap.Int("characters", len(game.Characters)),
	)

	scriptDir := cfg.Game.ScriptDir
	if game.ScriptDir != "" {
		scriptDir = game.ScriptDir
	}

	// Each session runs its own engine, state, and script VM.
	factory := func(sessionID string) (*engine.Engine, error) {
		st := state.New(game, cfg.Game.HistorySize)
		opts := []engine.Option{
			engine.WithLogger(logger.With(zap.String("session_id", sessionID))),
		}
		if scriptDir != "" {
			hooks := scripting.NewManager(cfg.Scripting.InstructionLimit, cfg.Scripting.CallTimeout, logger)
			hooks.SetFlag = func(name string, value bool) { st.SetFlag(name, value) }
			hooks.GetFlag = st.FlagTruthy
			hooks.GiveItem = st.AddToInventory
			if err := hooks.LoadDir(scriptDir); err != nil {
				return nil, err
			}
			opts = append(opts, engine.WithHooks(hooks))
		}
		return engine.New(game, st, opts...), nil
	}

	ctx := context.Background()

	var saves telnet.SaveStore
	var pool *postgres.Pool
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err = postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		saves = postgres.NewSaveRepository(pool.DB(), game.Title)
	}

	handler := telnet.NewGameHandler(factory, saves, logger)
	acceptor := telnet.NewAcceptor(cfg.Telnet, handler, logger)

	lifecycle := server.NewLifecycle(logger)
	if pool != nil {
		lifecycle.Add("postgres", &server.FuncService{
			StartFn: func() error { return nil },
			StopFn:  pool.Close,
		})
	}
	lifecycle.Add("telnet", &server.FuncService{
		StartFn: acceptor.ListenAndServe,
		StopFn:  acceptor.Stop,
	})

	logger.Info("server ready", zap.Duration("startup", time.Since(start)))
	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
