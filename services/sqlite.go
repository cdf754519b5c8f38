package services

import (
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type SqliteService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const SQLITE_SVC = "sqlite_svc"

// Id returns Service ID
func (ds SqliteService) Id() string {
	return SQLITE_SVC
}

// Db Access to raw SqliteService db
func (ds SqliteService) Db() *gorm.DB {
	return ds.db
}

// Configure the service
func (ds *SqliteService) Configure(ctx *context.Context) error {
	ds.database = shared.GetEnv("DB_DATABASE", "engage.db")

	return ds.DefaultService.Configure(ctx)
}

// dsn turns on WAL and a 5s busy timeout for file databases.
func (ds *SqliteService) dsn() string {
	if ds.database == ":memory:" || strings.Contains(ds.database, "?") {
		return ds.database
	}
	return ds.database + "?_journal_mode=WAL&_busy_timeout=5000"
}

// Start opens the database and migrates the study tables.
func (ds *SqliteService) Start() (err error) {
	ds.db, err = gorm.Open(sqlite.Open(ds.dsn()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return err
	}

	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)

	err = ds.db.AutoMigrate(model.All()...)
	if err != nil {
		log.WithError(err).WithField("database", ds.database).Error("Failed to migrate database")
		return err
	}

	log.WithField("database", ds.database).Info("Database connected and migrated successfully")
	return nil
}

func (ds *SqliteService) Shutdown() {
	if ds.db == nil {
		return
	}
	if sqlDB, err := ds.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
