package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/core/weights"
	"github.com/jakechorley/device-loans/pkg/db"
)

func toApplicant(row db.Applicant) model.Applicant {
	return model.Applicant{
		ID:            row.ID,
		Name:          row.Name,
		Contact:       row.Contact,
		HouseholdSize: row.HouseholdSize,
		Occupation:    model.ParseOccupation(row.Occupation),
		Age:           row.Age,
		HasInternet:   row.HasInternet,
		HasDevice:     row.HasDevice,
		RegisteredAt:  row.RegisteredAt,
	}
}

func toApplicants(rows []db.Applicant) []model.Applicant {
	applicants := make([]model.Applicant, len(rows))
	for i, row := range rows {
		applicants[i] = toApplicant(row)
	}
	return applicants
}

func toApplicantRow(a model.Applicant) db.Applicant {
	return db.Applicant{
		ID:            a.ID,
		Name:          a.Name,
		Contact:       a.Contact,
		HouseholdSize: a.HouseholdSize,
		Occupation:    string(a.Occupation),
		Age:           a.Age,
		HasInternet:   a.HasInternet,
		HasDevice:     a.HasDevice,
		RegisteredAt:  a.RegisteredAt,
	}
}

// toResource keeps unrecognised states verbatim so the allocator never treats them as available
func toResource(row db.Resource) model.Resource {
	state, ok := model.ParseResourceState(row.State)
	if !ok {
		state = model.ResourceState(row.State)
	}
	return model.Resource{ID: row.ID, Label: row.Label, State: state, CreatedAt: row.CreatedAt}
}

func toResources(rows []db.Resource) []model.Resource {
	resources := make([]model.Resource, len(rows))
	for i, row := range rows {
		resources[i] = toResource(row)
	}
	return resources
}

func toResourceRow(r model.Resource) db.Resource {
	return db.Resource{ID: r.ID, Label: r.Label, State: string(r.State), CreatedAt: r.CreatedAt}
}

func toAssignment(row db.Assignment) model.Assignment {
	state, ok := model.ParseAssignmentState(row.State)
	if !ok {
		state = model.AssignmentState(row.State)
	}
	return model.Assignment{
		ID:              row.ID,
		ApplicantID:     row.ApplicantID,
		ResourceID:      row.ResourceID,
		ScoreSnapshot:   row.ScoreSnapshot,
		AppointmentDate: row.AppointmentDate,
		FailureCount:    row.FailureCount,
		State:           state,
		CreatedAt:       row.CreatedAt,
		DeliveredAt:     row.DeliveredAt,
	}
}

func toAssignments(rows []db.Assignment) []model.Assignment {
	assignments := make([]model.Assignment, len(rows))
	for i, row := range rows {
		assignments[i] = toAssignment(row)
	}
	return assignments
}

func toAssignmentRow(a model.Assignment) db.Assignment {
	return db.Assignment{
		ID:              a.ID,
		ApplicantID:     a.ApplicantID,
		ResourceID:      a.ResourceID,
		ScoreSnapshot:   a.ScoreSnapshot,
		AppointmentDate: a.AppointmentDate,
		FailureCount:    a.FailureCount,
		State:           string(a.State),
		CreatedAt:       a.CreatedAt,
		DeliveredAt:     a.DeliveredAt,
	}
}

func toWeights(row db.WeightConfig) weights.GlobalWeights {
	return weights.GlobalWeights{
		Occupation: row.Occupation,
		Internet:   row.Internet,
		Device:     row.Device,
		Age:        row.Age,
	}
}

func toWeightRow(name string, version int, cfg weights.Config) *db.WeightConfig {
	return &db.WeightConfig{
		Name:       name,
		Version:    version,
		Occupation: cfg.Weights.Occupation,
		Internet:   cfg.Weights.Internet,
		Device:     cfg.Weights.Device,
		Age:        cfg.Weights.Age,
		UpdatedAt:  cfg.UpdatedAt,
	}
}

// queueExclusions returns the applicants that already hold a device or an appointment.
// Only removed assignments let an applicant back into the queue, and those rows are deleted.
func queueExclusions(assignments []model.Assignment) map[string]bool {
	exclude := make(map[string]bool)
	for _, a := range assignments {
		if a.State != model.AssignmentRemoved {
			exclude[a.ApplicantID] = true
		}
	}
	return exclude
}

// WeightReader reads committed and draft weight rows
type WeightReader interface {
	GetWeightConfig(ctx context.Context, name string) (*db.WeightConfig, error)
}

// loadLiveWeights returns the committed weights, or version 0 of defaults if nothing was committed
func loadLiveWeights(ctx context.Context, store WeightReader, defaults weights.GlobalWeights) (weights.Config, error) {
	row, err := store.GetWeightConfig(ctx, db.WeightConfigLive)
	if errors.Is(err, db.ErrNotFound) {
		return weights.InitialConfig(defaults), nil
	}
	if err != nil {
		return weights.Config{}, fmt.Errorf("failed to fetch live weights: %w", err)
	}

	return weights.Config{Version: row.Version, Weights: toWeights(*row), UpdatedAt: row.UpdatedAt}, nil
}
