package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/config"
	"github.com/gdugdh24/sitter-presence-backend/internal/infrastructure/container"
	"github.com/gdugdh24/sitter-presence-backend/internal/infrastructure/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	lg := logger.New(&cfg.Logging, cfg.Server.Env)

	app, err := container.NewContainer(context.Background(), cfg, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer func() {
		if err := app.Close(); err != nil {
			lg.Error().Err(err).Msg("error closing application")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Server.Start(); err != nil {
			lg.Error().Err(err).Msg("server error")
			quit <- syscall.SIGTERM
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Msg("server shutdown error")
		return
	}

	lg.Info().Msg("server exited properly")
}
