package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/db"
)

// AddResources adds available devices to the pool, one per label
func AddResources(ctx context.Context, store db.ResourceStore, logger *zap.Logger, labels []string, now time.Time) ([]model.Resource, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("at least one resource label is required")
	}

	resources := make([]model.Resource, len(labels))
	rows := make([]db.Resource, len(labels))
	for i, label := range labels {
		resources[i] = model.Resource{
			ID:        uuid.New().String(),
			Label:     label,
			State:     model.ResourceAvailable,
			CreatedAt: now,
		}
		rows[i] = toResourceRow(resources[i])
	}

	if err := store.InsertResources(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to insert resources: %w", err)
	}

	logger.Info("Resources added", zap.Int("count", len(resources)))
	return resources, nil
}

// ResourceLabels builds count sequential labels such as tablet-001
func ResourceLabels(prefix string, start, count int) []string {
	labels := make([]string, count)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s-%03d", prefix, start+i)
	}
	return labels
}
