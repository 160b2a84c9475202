package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/device-loans/pkg/db"
)

// GetResources retrieves all resource records
func (d *DB) GetResources(ctx context.Context) ([]db.Resource, error) {
	rows, err := d.q.Query(ctx, `
		SELECT id, label, state, created_at
		FROM resource
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer rows.Close()

	var resources []db.Resource
	for rows.Next() {
		var r db.Resource
		if err := rows.Scan(&r.ID, &r.Label, &r.State, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resources: %w", err)
	}

	return resources, nil
}

// InsertResources bulk inserts resource records with COPY
func (d *DB) InsertResources(ctx context.Context, resources []db.Resource) error {
	if len(resources) == 0 {
		return nil
	}

	_, err := d.q.CopyFrom(ctx, pgx.Identifier{"resource"}, []string{"id", "label", "state", "created_at"},
		pgx.CopyFromSlice(len(resources), func(i int) ([]any, error) {
			r := resources[i]
			return []any{r.ID, r.Label, r.State, r.CreatedAt.UTC()}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to copy resources: %w", mapWriteError(err))
	}
	return nil
}

// SetResourceState moves resources from one state to another. Every id must match.
func (d *DB) SetResourceState(ctx context.Context, ids []string, from, to string) error {
	if len(ids) == 0 {
		return nil
	}

	tag, err := d.q.Exec(ctx, `
		UPDATE resource SET state = $3 WHERE id = ANY($1) AND state = $2
	`, ids, from, to)
	if err != nil {
		return fmt.Errorf("failed to update resource state: %w", err)
	}
	return expectRows(tag, int64(len(ids)), fmt.Sprintf("resource %s -> %s", from, to))
}
