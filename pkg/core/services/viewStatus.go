package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/internal/config"
	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/db"
)

// StatusStore defines the database operations needed for the status summary
type StatusStore interface {
	RankingStore
	GetResources(ctx context.Context) ([]db.Resource, error)
}

// StatusResult summarises the pool, the queue and the assignments
type StatusResult struct {
	Applicants         int
	Pending            int
	ResourcesAvailable int
	ResourcesAssigned  int
	Assignments        map[model.AssignmentState]int
	WeightsVersion     int
}

// ViewStatus counts applicants, devices and assignments by state
func ViewStatus(ctx context.Context, store StatusStore, cfg *config.Config, logger *zap.Logger) (*StatusResult, error) {
	ranking, assignments, err := rankPopulation(ctx, store, cfg, logger)
	if err != nil {
		return nil, err
	}

	resourceRows, err := store.GetResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resources: %w", err)
	}

	result := &StatusResult{
		Applicants:     len(ranking.Entries),
		Pending:        len(ranking.Pending(queueExclusions(assignments))),
		Assignments:    make(map[model.AssignmentState]int),
		WeightsVersion: ranking.WeightsVersion,
	}

	for _, r := range toResources(resourceRows) {
		switch r.State {
		case model.ResourceAvailable:
			result.ResourcesAvailable++
		case model.ResourceAssigned:
			result.ResourcesAssigned++
		}
	}

	for _, a := range assignments {
		result.Assignments[a.State]++
	}

	logger.Debug("ViewStatus completed",
		zap.Int("applicants", result.Applicants),
		zap.Int("pending", result.Pending),
		zap.Int("available", result.ResourcesAvailable))

	return result, nil
}
