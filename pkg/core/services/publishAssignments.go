package services

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/internal/config"
	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/db"
)

// AssignmentsHeader is the header row of the published assignments tab
var AssignmentsHeader = []string{
	"assignment_id", "applicant", "contact", "resource", "appointment_date", "state", "failure_count", "score",
}

// AssignmentPublisher writes rows to a spreadsheet tab, updating rows whose first column already exists
type AssignmentPublisher interface {
	UpsertRows(spreadsheetID, tab string, header []string, rows [][]string) (updated int, appended int, err error)
}

// PublishStore defines the database operations needed to publish assignments
type PublishStore interface {
	AssignmentsStore
	GetRemovals(ctx context.Context) ([]db.ApplicantRemoval, error)
}

// PublishAssignmentsResult reports how many rows changed on the sheet
type PublishAssignmentsResult struct {
	Updated  int
	Appended int
}

// PublishAssignments mirrors every assignment to the assignments tab of the configured spreadsheet.
// Assignments deleted by a removal are published with the removed state so their rows are updated.
func PublishAssignments(
	ctx context.Context,
	store PublishStore,
	publisher AssignmentPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) (*PublishAssignmentsResult, error) {
	if !cfg.Sheets.Enabled() {
		return nil, fmt.Errorf("no spreadsheet configured (set sheets.spreadsheet_id)")
	}

	views, err := ListAssignments(ctx, store, logger)
	if err != nil {
		return nil, err
	}

	removals, err := store.GetRemovals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch removals: %w", err)
	}

	resourceRows, err := store.GetResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resources: %w", err)
	}
	labels := make(map[string]string, len(resourceRows))
	for _, r := range resourceRows {
		labels[r.ID] = r.Label
	}

	rows := make([][]string, 0, len(views)+len(removals))
	for _, v := range views {
		rows = append(rows, assignmentRow(
			v.Assignment.ID, v.ApplicantName, v.Contact, v.ResourceLabel, v.Assignment.AppointmentDate,
			v.Assignment.State, v.Assignment.FailureCount, v.Assignment.ScoreSnapshot))
	}
	for _, r := range removals {
		rows = append(rows, assignmentRow(
			r.AssignmentID, r.ApplicantName, r.Contact, labels[r.ResourceID], r.AppointmentDate,
			model.AssignmentRemoved, r.FailureCount, r.ScoreSnapshot))
	}

	updated, appended, err := publisher.UpsertRows(cfg.Sheets.SpreadsheetID, cfg.Sheets.AssignmentsTab, AssignmentsHeader, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to publish assignments: %w", err)
	}

	logger.Info("Assignments published",
		zap.String("tab", cfg.Sheets.AssignmentsTab),
		zap.Int("updated", updated),
		zap.Int("appended", appended))

	return &PublishAssignmentsResult{Updated: updated, Appended: appended}, nil
}

func assignmentRow(id, applicant, contact, resource, date string, state model.AssignmentState, failures int, score float64) []string {
	return []string{
		id,
		applicant,
		contact,
		resource,
		date,
		string(state),
		strconv.Itoa(failures),
		strconv.FormatFloat(score, 'f', -1, 64),
	}
}
