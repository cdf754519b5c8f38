package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/lac-hong-legacy/engage_api/seed/seeders"
	"github.com/lac-hong-legacy/engage_api/shared"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType    = flag.String("type", "all", "Type of seeding: all, participants, catalog")
		rosterPath  = flag.String("roster", "roster.yaml", "Participant roster YAML")
		catalogPath = flag.String("catalog", shared.GetEnv("UNIT_CATALOG_PATH", "catalog.yaml"), "Unit catalog YAML")
		dbPath      = flag.String("db", "", "Database path or DSN (overrides DB_DATABASE / DATABASE_URL)")
		help        = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	if *seedType == "catalog" {
		if err := seeders.CheckCatalog(*catalogPath); err != nil {
			log.Fatalf("Catalog check failed: %v", err)
		}
		return
	}

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(ctx, *rosterPath, *catalogPath); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "participants":
		log.Println("Seeding participants only...")
		if err := mainSeeder.SeedParticipantsOnly(ctx, *rosterPath); err != nil {
			log.Fatalf("Failed to seed participants: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'participants', or 'catalog'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func openDB(override string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	if shared.GetEnv("DB_DRIVER", "sqlite") == "postgres" {
		dsn := override
		if dsn == "" {
			dsn = shared.GetEnv("DATABASE_URL", "")
		}
		log.Println("Connecting to postgres")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	path := override
	if path == "" {
		path = shared.GetEnv("DB_DATABASE", "engage.db")
	}
	log.Printf("Connected to database: %s", path)
	return gorm.Open(sqlite.Open(path), cfg)
}

func showHelp() {
	log.Println(`
Database Seeding Tool for the engagement study

Usage: go run ./seed [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, participants, catalog
  -roster string
        Participant roster YAML (default "roster.yaml")
  -catalog string
        Unit catalog YAML (default UNIT_CATALOG_PATH or "catalog.yaml")
  -db string
        Database path or DSN
  -help
        Show this help message

Roster format:
  participants:
    - id: p-001
      condition: gamified
      day_number: 1

Environment Variables:
  DB_DRIVER    - sqlite (default) or postgres
  DB_DATABASE  - sqlite database path (default: engage.db)
  DATABASE_URL - postgres DSN
`)
}
