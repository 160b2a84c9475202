package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/internal/config"
	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/db"
)

var validate = validator.New()

// RegisterApplicantInput is the raw registration form
type RegisterApplicantInput struct {
	Name          string `validate:"required,max=200"`
	Contact       string `validate:"max=200"`
	HouseholdSize int    `validate:"min=0,max=50"`
	Occupation    string `validate:"required"`
	Age           *int   `validate:"omitempty,min=0,max=120"`
	HasInternet   bool
	HasDevice     bool
}

// RegisterStore defines the database operations needed to register an applicant
type RegisterStore interface {
	RankingStore
	InsertApplicant(ctx context.Context, applicant *db.Applicant) error
}

// RegisterApplicantResult is the stored applicant with their score and position after re-ranking
type RegisterApplicantResult struct {
	Applicant model.Applicant
	Score     float64
	Position  int
	Total     int
}

// RegisterApplicant validates the form, stores the applicant and recomputes the ranking
func RegisterApplicant(
	ctx context.Context,
	store RegisterStore,
	cfg *config.Config,
	logger *zap.Logger,
	input RegisterApplicantInput,
	now time.Time,
) (*RegisterApplicantResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Contact = strings.TrimSpace(input.Contact)

	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}

	occupation := model.ParseOccupation(input.Occupation)
	if !occupation.IsValid() {
		return nil, fmt.Errorf("invalid registration: unknown occupation %q", input.Occupation)
	}

	applicant := model.Applicant{
		ID:            uuid.New().String(),
		Name:          input.Name,
		Contact:       input.Contact,
		HouseholdSize: input.HouseholdSize,
		Occupation:    occupation,
		Age:           input.Age,
		HasInternet:   input.HasInternet,
		HasDevice:     input.HasDevice,
		RegisteredAt:  now,
	}

	logger.Debug("Registering applicant", zap.String("id", applicant.ID), zap.String("name", applicant.Name))

	row := toApplicantRow(applicant)
	if err := store.InsertApplicant(ctx, &row); err != nil {
		return nil, fmt.Errorf("failed to insert applicant: %w", err)
	}

	ranking, _, err := rankPopulation(ctx, store, cfg, logger)
	if err != nil {
		return nil, err
	}

	result := &RegisterApplicantResult{
		Applicant: applicant,
		Position:  ranking.Position(applicant.ID),
		Total:     len(ranking.Entries),
	}
	if result.Position > 0 {
		result.Score = ranking.Entries[result.Position-1].Score
	}

	logger.Info("Applicant registered",
		zap.String("id", applicant.ID),
		zap.Float64("score", result.Score),
		zap.Int("position", result.Position))

	return result, nil
}
