package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/device-loans/pkg/db"
)

const assignmentSelect = `
	SELECT id, applicant_id, resource_id, score_snapshot, appointment_date, failure_count, state, created_at, delivered_at
	FROM assignment
`

func scanAssignment(row pgx.Row) (db.Assignment, error) {
	var a db.Assignment
	err := row.Scan(&a.ID, &a.ApplicantID, &a.ResourceID, &a.ScoreSnapshot, &a.AppointmentDate,
		&a.FailureCount, &a.State, &a.CreatedAt, &a.DeliveredAt)
	return a, err
}

// GetAssignments retrieves all assignment records
func (d *DB) GetAssignments(ctx context.Context) ([]db.Assignment, error) {
	rows, err := d.q.Query(ctx, assignmentSelect+` ORDER BY appointment_date, score_snapshot DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// GetAssignment retrieves a single assignment by id
func (d *DB) GetAssignment(ctx context.Context, id string) (*db.Assignment, error) {
	a, err := scanAssignment(d.q.QueryRow(ctx, assignmentSelect+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("assignment %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &a, nil
}

// InsertAssignments bulk inserts assignment records with COPY
func (d *DB) InsertAssignments(ctx context.Context, assignments []db.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	columns := []string{
		"id", "applicant_id", "resource_id", "score_snapshot", "appointment_date",
		"failure_count", "state", "created_at", "delivered_at",
	}
	_, err := d.q.CopyFrom(ctx, pgx.Identifier{"assignment"}, columns,
		pgx.CopyFromSlice(len(assignments), func(i int) ([]any, error) {
			a := assignments[i]
			return []any{a.ID, a.ApplicantID, a.ResourceID, a.ScoreSnapshot, a.AppointmentDate,
				a.FailureCount, a.State, a.CreatedAt.UTC(), a.DeliveredAt}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to copy assignments: %w", mapWriteError(err))
	}
	return nil
}

// UpdateAssignment writes the mutable columns of an assignment. The score snapshot is never updated.
func (d *DB) UpdateAssignment(ctx context.Context, a *db.Assignment, expectedState string, expectedFailures int) error {
	tag, err := d.q.Exec(ctx, `
		UPDATE assignment
		SET state = $2, failure_count = $3, appointment_date = $4, delivered_at = $5
		WHERE id = $1 AND state = $6 AND failure_count = $7
	`, a.ID, a.State, a.FailureCount, a.AppointmentDate, a.DeliveredAt, expectedState, expectedFailures)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", mapWriteError(err))
	}
	return expectRows(tag, 1, "assignment "+a.ID)
}

// DeleteAssignment removes an assignment that is still in expectedState
func (d *DB) DeleteAssignment(ctx context.Context, id string, expectedState string) error {
	tag, err := d.q.Exec(ctx, `DELETE FROM assignment WHERE id = $1 AND state = $2`, id, expectedState)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return expectRows(tag, 1, "assignment "+id)
}
