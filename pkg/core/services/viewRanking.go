package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/internal/config"
	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/core/scoring"
	"github.com/jakechorley/device-loans/pkg/db"
)

// RankingStore defines the database operations needed to rank the population
type RankingStore interface {
	GetApplicants(ctx context.Context) ([]db.Applicant, error)
	GetAssignments(ctx context.Context) ([]db.Assignment, error)
	WeightReader
}

// ViewRankingResult is the scored population plus the subset still waiting for a device
type ViewRankingResult struct {
	Ranking *scoring.Ranking
	Pending []scoring.Entry
	// States holds the current assignment state of applicants outside the queue
	States map[string]model.AssignmentState
}

// ViewRanking scores every applicant under the live weights
func ViewRanking(ctx context.Context, store RankingStore, cfg *config.Config, logger *zap.Logger) (*ViewRankingResult, error) {
	logger.Debug("Starting viewRanking")

	ranking, assignments, err := rankPopulation(ctx, store, cfg, logger)
	if err != nil {
		return nil, err
	}

	exclude := queueExclusions(assignments)
	states := make(map[string]model.AssignmentState, len(exclude))
	for _, a := range assignments {
		if exclude[a.ApplicantID] {
			states[a.ApplicantID] = a.State
		}
	}

	pending := ranking.Pending(exclude)
	logger.Debug("ViewRanking completed",
		zap.Int("applicants", len(ranking.Entries)),
		zap.Int("pending", len(pending)),
		zap.Int("weights_version", ranking.WeightsVersion))

	return &ViewRankingResult{Ranking: ranking, Pending: pending, States: states}, nil
}

// rankPopulation loads applicants, assignments and live weights and recomputes every score
func rankPopulation(ctx context.Context, store RankingStore, cfg *config.Config, logger *zap.Logger) (*scoring.Ranking, []model.Assignment, error) {
	live, err := loadLiveWeights(ctx, store, cfg.DefaultWeights)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Loaded live weights", zap.Int("version", live.Version), zap.Any("weights", live.Weights))

	applicantRows, err := store.GetApplicants(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch applicants: %w", err)
	}

	assignmentRows, err := store.GetAssignments(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	return scoring.Rank(toApplicants(applicantRows), live), toAssignments(assignmentRows), nil
}
