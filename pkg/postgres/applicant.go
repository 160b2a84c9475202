package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/device-loans/pkg/db"
)

var applicantColumns = []string{
	"id", "name", "contact", "household_size", "occupation", "age", "has_internet", "has_device", "registered_at",
}

// GetApplicants retrieves all applicant records
func (d *DB) GetApplicants(ctx context.Context) ([]db.Applicant, error) {
	rows, err := d.q.Query(ctx, `
		SELECT id, name, contact, household_size, occupation, age, has_internet, has_device, registered_at
		FROM applicant
		ORDER BY registered_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applicants: %w", err)
	}
	defer rows.Close()

	var applicants []db.Applicant
	for rows.Next() {
		var a db.Applicant
		if err := rows.Scan(&a.ID, &a.Name, &a.Contact, &a.HouseholdSize, &a.Occupation, &a.Age,
			&a.HasInternet, &a.HasDevice, &a.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan applicant: %w", err)
		}
		applicants = append(applicants, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applicants: %w", err)
	}

	return applicants, nil
}

// GetApplicant retrieves one applicant by ID
func (d *DB) GetApplicant(ctx context.Context, id string) (*db.Applicant, error) {
	var a db.Applicant
	err := d.q.QueryRow(ctx, `
		SELECT id, name, contact, household_size, occupation, age, has_internet, has_device, registered_at
		FROM applicant
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Name, &a.Contact, &a.HouseholdSize, &a.Occupation, &a.Age,
		&a.HasInternet, &a.HasDevice, &a.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("applicant %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query applicant: %w", err)
	}
	return &a, nil
}

// InsertApplicant inserts a new applicant record
func (d *DB) InsertApplicant(ctx context.Context, a *db.Applicant) error {
	_, err := d.q.Exec(ctx, `
		INSERT INTO applicant (id, name, contact, household_size, occupation, age, has_internet, has_device, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.Name, a.Contact, a.HouseholdSize, a.Occupation, a.Age, a.HasInternet, a.HasDevice, a.RegisteredAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert applicant: %w", mapWriteError(err))
	}
	return nil
}

// InsertApplicants bulk inserts applicant records with COPY
func (d *DB) InsertApplicants(ctx context.Context, applicants []db.Applicant) error {
	if len(applicants) == 0 {
		return nil
	}

	_, err := d.q.CopyFrom(ctx, pgx.Identifier{"applicant"}, applicantColumns,
		pgx.CopyFromSlice(len(applicants), func(i int) ([]any, error) {
			a := applicants[i]
			return []any{a.ID, a.Name, a.Contact, a.HouseholdSize, a.Occupation, a.Age,
				a.HasInternet, a.HasDevice, a.RegisteredAt.UTC()}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to copy applicants: %w", mapWriteError(err))
	}
	return nil
}

// DeleteApplicant removes an applicant record
func (d *DB) DeleteApplicant(ctx context.Context, id string) error {
	tag, err := d.q.Exec(ctx, `DELETE FROM applicant WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete applicant: %w", mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("applicant %s: %w", id, db.ErrNotFound)
	}
	return nil
}
