package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rubenatello/dignov2/internal/config"
	"github.com/rubenatello/dignov2/internal/db"
	"github.com/rubenatello/dignov2/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.GinMode == "debug" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := db.Init(cfg.DatabaseURL, cfg.DatabasePath); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	if err := db.EnsureSuperuser(db.DB, cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure superuser")
	}

	r := router.SetupRouter(db.DB, cfg, log)

	log.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
