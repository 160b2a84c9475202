package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/device-loans/pkg/db"
)

// GetRemovals retrieves every removal record, oldest first
func (d *DB) GetRemovals(ctx context.Context) ([]db.ApplicantRemoval, error) {
	rows, err := d.q.Query(ctx, `
		SELECT applicant_id, assignment_id, applicant_name, contact, resource_id,
		       appointment_date, failure_count, score_snapshot, removed_at
		FROM applicant_removal
		ORDER BY removed_at, applicant_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query removals: %w", err)
	}
	defer rows.Close()

	var removals []db.ApplicantRemoval
	for rows.Next() {
		var r db.ApplicantRemoval
		if err := rows.Scan(&r.ApplicantID, &r.AssignmentID, &r.ApplicantName, &r.Contact, &r.ResourceID,
			&r.AppointmentDate, &r.FailureCount, &r.ScoreSnapshot, &r.RemovedAt); err != nil {
			return nil, fmt.Errorf("failed to scan removal: %w", err)
		}
		removals = append(removals, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating removals: %w", err)
	}

	return removals, nil
}

// InsertRemoval records a removed applicant. A second record for the same applicant is ErrConflict.
func (d *DB) InsertRemoval(ctx context.Context, r *db.ApplicantRemoval) error {
	_, err := d.q.Exec(ctx, `
		INSERT INTO applicant_removal (applicant_id, assignment_id, applicant_name, contact, resource_id,
		                               appointment_date, failure_count, score_snapshot, removed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.ApplicantID, r.AssignmentID, r.ApplicantName, r.Contact, r.ResourceID,
		r.AppointmentDate, r.FailureCount, r.ScoreSnapshot, r.RemovedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert removal: %w", mapWriteError(err))
	}
	return nil
}
