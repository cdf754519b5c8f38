package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/lac-hong-legacy/engage_api/services"
	"github.com/lac-hong-legacy/engage_api/shared"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using process environment")
	}

	if level, err := logrus.ParseLevel(shared.GetEnv("LOG_LEVEL", "info")); err == nil {
		logrus.SetLevel(level)
	}

	var dbSvc context.Service = &services.SqliteService{}
	if shared.GetEnv("DB_DRIVER", "sqlite") == "postgres" {
		dbSvc = &services.PostgresService{}
	}

	ctx, err := context.NewCtx(
		dbSvc,
		&services.RedisService{},
		&services.MinIOService{},
		&services.MonitoringService{},

		&services.StoreService{},
		&services.CatalogService{},
		&services.ParticipantService{},
		&services.GamificationService{},
		&services.ProgressService{},
		&services.SessionService{},
		&services.EventService{},
		&services.VideoRunService{},
		&services.ExportService{},
		&services.RateLimitService{},
		&services.EngagementService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build service context")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service context stopped")
		return
	}
}
