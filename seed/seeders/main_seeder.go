package seeders

import (
	"context"
	"log"

	"github.com/lac-hong-legacy/engage_api/model"
	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll migrates the schema, checks the unit catalog and enrolls the roster.
func (s *MainSeeder) SeedAll(ctx context.Context, rosterPath, catalogPath string) error {
	log.Println("Starting database seeding...")

	if err := s.db.AutoMigrate(model.All()...); err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	if err := CheckCatalog(catalogPath); err != nil {
		log.Printf("Catalog check failed: %v", err)
		return err
	}

	if err := s.SeedParticipantsOnly(ctx, rosterPath); err != nil {
		log.Printf("Participant seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedParticipantsOnly enrolls the roster without touching the catalog.
func (s *MainSeeder) SeedParticipantsOnly(ctx context.Context, rosterPath string) error {
	if err := s.db.AutoMigrate(&model.Participant{}); err != nil {
		return err
	}
	return NewParticipantSeeder(s.db).SeedFromFile(ctx, rosterPath)
}
