// Package main provides the Yahtzee Telnet table server. Each client that
// connects sets up a hot-seat game and plays it to the end.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/yahtzee/internal/config"
	"github.com/cory-johannsen/yahtzee/internal/frontend/handlers"
	"github.com/cory-johannsen/yahtzee/internal/frontend/telnet"
	"github.com/cory-johannsen/yahtzee/internal/game/session"
	"github.com/cory-johannsen/yahtzee/internal/observability"
	"github.com/cory-johannsen/yahtzee/internal/server"
	"github.com/cory-johannsen/yahtzee/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting yahtzee table server",
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.Int("max_players", cfg.Game.MaxPlayers),
		zap.Bool("record_results", cfg.Game.RecordResults),
	)

	ctx := context.Background()
	lifecycle := server.NewLifecycle(logger)

	var results handlers.ResultStore
	if cfg.Game.RecordResults {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		results = postgres.NewResultRepository(pool.DB())

		healthStop := make(chan struct{})
		lifecycle.Add("postgres-health", &server.FuncService{
			StartFn: func() error {
				ticker := time.NewTicker(30 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-healthStop:
						return nil
					case <-ticker.C:
						if err := pool.Health(ctx, 5*time.Second); err != nil {
							logger.Warn("database health check failed", zap.Error(err))
						}
					}
				}
			},
			StopFn: func() { close(healthStop) },
		})
		lifecycle.OnShutdown("postgres", pool.Close)
	}

	tables := session.NewManager(logger)
	tableHandler := handlers.NewTableHandler(tables, results, cfg, logger)
	acceptor := telnet.NewAcceptor(cfg.Telnet, tableHandler, logger)

	lifecycle.Add("telnet", &server.FuncService{
		StartFn: acceptor.ListenAndServe,
		StopFn: func() {
			logger.Info("closing open tables", zap.Int("tables", tables.Count()))
			tables.LogOpen("table interrupted by shutdown")
			acceptor.Stop()
		},
	})

	logger.Info("table server initialized", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
