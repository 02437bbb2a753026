package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lost-woods/cardkit/src/config"
	"github.com/lost-woods/cardkit/src/rng"
	"github.com/lost-woods/cardkit/src/server"
)

func main() {
	zapLogger, _ := zap.NewProduction()
	defer func() { _ = zapLogger.Sync() }()
	log := zapLogger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var (
		source io.Reader
		health *rng.Health
	)
	switch cfg.RNGSource {
	case config.SourceSerial:
		source, health, err = rng.NewSerialRNG(cfg.Serial())
	default:
		source, health, err = rng.NewPRNG()
	}
	if err != nil {
		log.Fatalw("RNG failed its initial health check", "source", cfg.RNGSource, "error", err)
	}
	log.Infow("RNG ready", "source", cfg.RNGSource)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.New(cfg, rng.NewLockedReader(source), health, log).RunOrDie(ctx)
}
