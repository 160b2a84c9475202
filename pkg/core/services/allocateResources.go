package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/internal/config"
	"github.com/jakechorley/device-loans/pkg/core/allocator"
	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/db"
)

// AllocateStore defines the database operations needed to run an allocation
type AllocateStore interface {
	RankingStore
	GetResources(ctx context.Context) ([]db.Resource, error)
	InTx(ctx context.Context, fn func(db.Store) error) error
}

// AllocateResourcesResult is the plan and whether it was written
type AllocateResourcesResult struct {
	Plan           *allocator.Plan
	WeightsVersion int
	DryRun         bool
	Applicants     map[string]model.Applicant
}

// AllocateResources pairs the top of the pending queue with available devices and books
// appointment dates from start, DailyCapacity per date. The resource updates and the
// assignment inserts are written in one transaction. With dryRun nothing is written.
func AllocateResources(
	ctx context.Context,
	store AllocateStore,
	cfg *config.Config,
	logger *zap.Logger,
	start time.Time,
	dryRun bool,
	now time.Time,
) (*AllocateResourcesResult, error) {
	logger.Debug("Starting allocation",
		zap.Time("start", start),
		zap.Int("daily_capacity", cfg.DailyCapacity),
		zap.Bool("dry_run", dryRun))

	ranking, assignments, err := rankPopulation(ctx, store, cfg, logger)
	if err != nil {
		return nil, err
	}

	resourceRows, err := store.GetResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resources: %w", err)
	}

	calendar, err := buildCalendar(cfg, start)
	if err != nil {
		return nil, err
	}

	pending := ranking.Pending(queueExclusions(assignments))
	logger.Debug("Pending queue built", zap.Int("pending", len(pending)), zap.Int("resources", len(resourceRows)))

	plan, err := allocator.Allocate(allocator.Request{
		Resources:     toResources(resourceRows),
		Ranked:        pending,
		DailyCapacity: cfg.DailyCapacity,
		Calendar:      calendar,
		Now:           now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to plan allocation: %w", err)
	}

	if !plan.Valid() {
		var msgs []string
		for _, ve := range plan.ValidationErrors {
			msgs = append(msgs, fmt.Sprintf("[%s] %s", ve.Rule, ve.Description))
		}
		return nil, fmt.Errorf("allocation plan failed validation: %s", strings.Join(msgs, "; "))
	}

	applicants := make(map[string]model.Applicant, len(plan.Assignments))
	for _, e := range pending {
		applicants[e.Applicant.ID] = e.Applicant
	}

	result := &AllocateResourcesResult{
		Plan:           plan,
		WeightsVersion: ranking.WeightsVersion,
		DryRun:         dryRun,
		Applicants:     applicants,
	}

	if plan.Outcome != allocator.OutcomeAllocated {
		logger.Info("Nothing to allocate", zap.String("outcome", string(plan.Outcome)),
			zap.Int("available", plan.AvailableCount), zap.Int("pending", plan.PendingCount))
		return result, nil
	}

	if dryRun {
		logger.Info("Dry run, allocation not written", zap.Int("assignments", len(plan.Assignments)))
		return result, nil
	}

	rows := make([]db.Assignment, len(plan.Assignments))
	for i, a := range plan.Assignments {
		rows[i] = toAssignmentRow(a)
	}

	err = store.InTx(ctx, func(tx db.Store) error {
		if err := tx.SetResourceState(ctx, plan.ResourceIDs, string(model.ResourceAvailable), string(model.ResourceAssigned)); err != nil {
			return fmt.Errorf("failed to reserve resources: %w", err)
		}
		if err := tx.InsertAssignments(ctx, rows); err != nil {
			return fmt.Errorf("failed to insert assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Allocation written",
		zap.Int("assignments", len(plan.Assignments)),
		zap.Int("cohorts", len(plan.Cohorts)),
		zap.Int("weights_version", ranking.WeightsVersion))

	return result, nil
}

func buildCalendar(cfg *config.Config, start time.Time) (allocator.Calendar, error) {
	if cfg.AppointmentRRule == "" {
		return allocator.NewDailyCalendar(start), nil
	}
	calendar, err := allocator.NewRRuleCalendar(cfg.AppointmentRRule, start)
	if err != nil {
		return nil, err
	}
	return calendar, nil
}
