package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/device-loans/pkg/db"
)

// GetWeightConfig retrieves the named weight row ("live" or "draft")
func (d *DB) GetWeightConfig(ctx context.Context, name string) (*db.WeightConfig, error) {
	var w db.WeightConfig
	err := d.q.QueryRow(ctx, `
		SELECT name, version, occupation, internet, device, age, updated_at
		FROM weight_config
		WHERE name = $1
	`, name).Scan(&w.Name, &w.Version, &w.Occupation, &w.Internet, &w.Device, &w.Age, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("weight config %s: %w", name, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weight config: %w", err)
	}
	return &w, nil
}

// UpsertWeightConfig inserts or replaces the named weight row
func (d *DB) UpsertWeightConfig(ctx context.Context, w *db.WeightConfig) error {
	_, err := d.q.Exec(ctx, `
		INSERT INTO weight_config (name, version, occupation, internet, device, age, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE SET
			version = EXCLUDED.version,
			occupation = EXCLUDED.occupation,
			internet = EXCLUDED.internet,
			device = EXCLUDED.device,
			age = EXCLUDED.age,
			updated_at = EXCLUDED.updated_at
	`, w.Name, w.Version, w.Occupation, w.Internet, w.Device, w.Age, w.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert weight config: %w", err)
	}
	return nil
}
