package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/db"
)

// AssignmentsStore defines the database operations needed to list assignments
type AssignmentsStore interface {
	GetApplicants(ctx context.Context) ([]db.Applicant, error)
	GetResources(ctx context.Context) ([]db.Resource, error)
	GetAssignments(ctx context.Context) ([]db.Assignment, error)
}

// AssignmentView is an assignment joined with the names an operator recognises
type AssignmentView struct {
	Assignment    model.Assignment
	ApplicantName string
	Contact       string
	ResourceLabel string
}

// ListAssignments returns assignments ordered by appointment date, optionally only those in states
func ListAssignments(ctx context.Context, store AssignmentsStore, logger *zap.Logger, states ...model.AssignmentState) ([]AssignmentView, error) {
	assignmentRows, err := store.GetAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	applicantRows, err := store.GetApplicants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applicants: %w", err)
	}

	resourceRows, err := store.GetResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resources: %w", err)
	}

	applicants := make(map[string]db.Applicant, len(applicantRows))
	for _, a := range applicantRows {
		applicants[a.ID] = a
	}
	labels := make(map[string]string, len(resourceRows))
	for _, r := range resourceRows {
		labels[r.ID] = r.Label
	}

	wanted := make(map[model.AssignmentState]bool, len(states))
	for _, s := range states {
		wanted[s] = true
	}

	var views []AssignmentView
	for _, a := range toAssignments(assignmentRows) {
		if len(wanted) > 0 && !wanted[a.State] {
			continue
		}
		applicant := applicants[a.ApplicantID]
		views = append(views, AssignmentView{
			Assignment:    a,
			ApplicantName: applicant.Name,
			Contact:       applicant.Contact,
			ResourceLabel: labels[a.ResourceID],
		})
	}

	logger.Debug("ListAssignments completed", zap.Int("count", len(views)))
	return views, nil
}
