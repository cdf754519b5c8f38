package services

import (
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	database   string
	maxRetries int
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.database = shared.GetEnv("DATABASE_URL", "")
	if ds.database == "" {
		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			shared.GetEnv("DB_HOST", "localhost"),
			shared.GetEnv("DB_USER", "postgres"),
			shared.GetEnv("DB_PASSWORD", "postgres"),
			shared.GetEnv("DB_NAME", "engage_api"),
			shared.GetEnv("DB_PORT", "5432"),
			shared.GetEnv("DB_SSLMODE", "disable"),
			shared.GetEnv("DB_TIMEZONE", "UTC"),
		)
	}
	ds.maxRetries = connectAttempts(shared.GetEnvInt("DB_CONNECT_RETRIES", 10))

	return ds.DefaultService.Configure(ctx)
}

// connectAttempts makes sure Start tries to connect at least once.
func connectAttempts(configured int) int {
	if configured < 1 {
		return 1
	}
	return configured
}

func (ds *PostgresService) Start() (err error) {
	retryDelay := time.Second

	for attempt := 1; attempt <= ds.maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, ds.maxRetries)

		ds.db, err = gorm.Open(postgres.Open(ds.database), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})
		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					log.Println("Successfully connected to database")
					break
				}
			} else {
				err = dbErr
			}
		}

		if attempt == ds.maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", ds.maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	if err = ds.db.AutoMigrate(model.All()...); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *PostgresService) Shutdown() {
	if ds.db == nil {
		return
	}
	if sqlDB, err := ds.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
