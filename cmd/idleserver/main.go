// Package main provides the idle server binary: one game session served to
// browser clients over HTTP and websockets, optionally persisted to
// PostgreSQL.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/idlequest/internal/config"
	"github.com/cory-johannsen/idlequest/internal/frontend/ws"
	"github.com/cory-johannsen/idlequest/internal/game/combat"
	"github.com/cory-johannsen/idlequest/internal/game/dice"
	"github.com/cory-johannsen/idlequest/internal/gameserver"
	"github.com/cory-johannsen/idlequest/internal/observability"
	"github.com/cory-johannsen/idlequest/internal/server"
	"github.com/cory-johannsen/idlequest/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "idleserver")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := dice.NewCryptoSource()
	if cfg.Game.Seed != 0 {
		src = dice.NewSeededSource(cfg.Game.Seed)
		logger.Info("using seeded dice", zap.Uint64("seed", cfg.Game.Seed))
	}
	roller := dice.NewLoggedRoller(src, observability.Subsystem(logger, "dice"))

	contentStart := time.Now()
	content, err := gameserver.LoadDefaultContent()
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("zones", content.Zones.Len()),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	hub := ws.NewHub(observability.Subsystem(logger, "ws"))
	sink := gameserver.MultiSink{hub, gameserver.NewLogSink(observability.Subsystem(logger, "events"))}

	game, err := gameserver.NewGame(gameserver.Config{
		Rules:         cfg.Game.Rules(),
		Tuning:        cfg.Game.Tuning(),
		StartingSpeed: cfg.Game.StartingSpeed,
		MaxSpeed:      cfg.Game.MaxSpeed,
		AutoRest:      cfg.Game.AutoRest,
	}, content, combat.NewTimerScheduler(), roller, sink, observability.Subsystem(logger, "game"))
	if err != nil {
		logger.Fatal("creating game", zap.Error(err))
	}

	var (
		health    ws.HealthFunc
		autosaver *gameserver.Autosaver
	)
	if cfg.Game.Persistence {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		if err := pool.Ready(ctx); err != nil {
			logger.Fatal("checking save schema", zap.Error(err))
		}
		health = func(ctx context.Context) error {
			if err := pool.Health(ctx, 2*time.Second); err != nil {
				return err
			}
			return pool.Ready(ctx)
		}

		autosaver = gameserver.NewAutosaver(game, postgres.NewSaveRepository(pool.DB()),
			cfg.Game.SaveSlot, cfg.Game.AutosaveInterval, observability.Subsystem(logger, "autosave"))
		loaded, err := autosaver.Load(ctx)
		if err != nil {
			logger.Fatal("loading save", zap.String("slot", cfg.Game.SaveSlot), zap.Error(err))
		}
		if !loaded {
			logger.Info("no save found, starting a new game", zap.String("slot", cfg.Game.SaveSlot))
		}
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           ws.NewRouter(hub, game, health, observability.Subsystem(logger, "http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}
	lifecycle := server.NewLifecycle(logger, shutdownTimeout)

	lifecycle.Add("hub", &server.FuncService{
		StartFn: func(ctx context.Context) error {
			hub.Run(ctx, game)
			return nil
		},
	})
	lifecycle.Add("game", &server.FuncService{
		StartFn: func(ctx context.Context) error {
			game.Start()
			<-ctx.Done()
			return nil
		},
		StopFn: func(context.Context) error {
			game.Stop()
			return nil
		},
	})
	if autosaver != nil {
		done := make(chan struct{})
		lifecycle.Add("autosave", &server.FuncService{
			StartFn: func(ctx context.Context) error {
				defer close(done)
				autosaver.Run(ctx)
				return nil
			},
			StopFn: func(ctx context.Context) error {
				select {
				case <-done:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
		})
	}
	lifecycle.Add("http", &server.FuncService{
		StartFn: func(context.Context) error {
			logger.Info("http listening", zap.String("addr", httpServer.Addr))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		StopFn: httpServer.Shutdown,
	})

	logger.Info("idle server initialized", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("idle server exited with error", zap.Error(err))
	}
}
