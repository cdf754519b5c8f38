package seeders

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/services"
	"github.com/lac-hong-legacy/engage_api/services/repositories"
	"github.com/lac-hong-legacy/engage_api/shared"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type rosterEntry struct {
	ID        string `yaml:"id"`
	Condition string `yaml:"condition"`
	DayNumber int    `yaml:"day_number"`
}

type rosterFile struct {
	Participants []rosterEntry `yaml:"participants"`
}

type ParticipantSeeder struct {
	repo *repositories.ParticipantRepository
}

func NewParticipantSeeder(db *gorm.DB) *ParticipantSeeder {
	return &ParticipantSeeder{repo: repositories.NewParticipantRepository(db)}
}

// ParseRoster reads a YAML roster. Missing conditions default to gamified and
// missing day numbers to day one.
func ParseRoster(raw []byte) ([]model.Participant, error) {
	var file rosterFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	seen := map[string]bool{}
	participants := make([]model.Participant, 0, len(file.Participants))
	for i, e := range file.Participants {
		if e.ID == "" {
			return nil, fmt.Errorf("roster entry %d has no id", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("participant %q listed twice", e.ID)
		}
		seen[e.ID] = true

		if e.Condition == "" {
			e.Condition = shared.ConditionGamified
		}
		if !shared.IsValidCondition(e.Condition) {
			return nil, fmt.Errorf("participant %q has unknown condition %q", e.ID, e.Condition)
		}
		if e.DayNumber < 1 {
			e.DayNumber = 1
		}

		participants = append(participants, model.Participant{
			ID:         e.ID,
			Condition:  e.Condition,
			DayNumber:  e.DayNumber,
			EnrolledAt: time.Now().UTC(),
		})
	}
	return participants, nil
}

func (s *ParticipantSeeder) SeedFromFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read roster: %w", err)
	}
	participants, err := ParseRoster(raw)
	if err != nil {
		return err
	}
	return s.Seed(ctx, participants)
}

func (s *ParticipantSeeder) Seed(ctx context.Context, participants []model.Participant) error {
	for i := range participants {
		if err := s.repo.UpsertParticipant(ctx, &participants[i]); err != nil {
			return err
		}
	}
	log.Printf("Enrolled %d participants", len(participants))
	return nil
}

// CheckCatalog verifies the unit catalog parses into a usable unlock chain.
func CheckCatalog(path string) error {
	units, err := services.LoadCatalogFile(path)
	if err != nil {
		return err
	}
	if _, err := services.NewCatalogService(units); err != nil {
		return err
	}
	log.Printf("Unit catalog %s holds %d units", path, len(units))
	return nil
}
