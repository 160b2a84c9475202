package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/internal/config"
	"github.com/jakechorley/device-loans/pkg/core/weights"
	"github.com/jakechorley/device-loans/pkg/db"
)

// WeightsStore defines the database operations needed to edit weights
type WeightsStore interface {
	WeightReader
	UpsertWeightConfig(ctx context.Context, cfg *db.WeightConfig) error
	InTx(ctx context.Context, fn func(db.Store) error) error
}

// WeightsResult shows the committed weights next to the pending draft
type WeightsResult struct {
	Live  weights.Config
	Draft weights.GlobalWeights
	Dirty bool
}

// CommitWeightsResult is the outcome of a commit. Changed is false when the draft matched live.
type CommitWeightsResult struct {
	Live    weights.Config
	Changed bool
}

// loadEditor restores the editor from the live and draft rows
func loadEditor(ctx context.Context, store WeightReader, defaults weights.GlobalWeights) (*weights.Editor, error) {
	live, err := loadLiveWeights(ctx, store, defaults)
	if err != nil {
		return nil, err
	}

	draft, err := store.GetWeightConfig(ctx, db.WeightConfigDraft)
	if errors.Is(err, db.ErrNotFound) {
		return weights.NewEditor(live), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draft weights: %w", err)
	}

	return weights.ResumeEditor(live, toWeights(*draft)), nil
}

func weightsResult(editor *weights.Editor) *WeightsResult {
	return &WeightsResult{Live: editor.Live(), Draft: editor.Draft(), Dirty: editor.Dirty()}
}

func saveDraft(ctx context.Context, store WeightsStore, editor *weights.Editor, now time.Time) error {
	draft := weights.Config{Weights: editor.Draft(), UpdatedAt: now}
	if err := store.UpsertWeightConfig(ctx, toWeightRow(db.WeightConfigDraft, editor.Live().Version, draft)); err != nil {
		return fmt.Errorf("failed to save draft weights: %w", err)
	}
	return nil
}

// ViewWeights returns the live weights and the current draft
func ViewWeights(ctx context.Context, store WeightReader, cfg *config.Config, logger *zap.Logger) (*WeightsResult, error) {
	editor, err := loadEditor(ctx, store, cfg.DefaultWeights)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded weights", zap.Int("version", editor.Live().Version), zap.Bool("dirty", editor.Dirty()))
	return weightsResult(editor), nil
}

// SetDraftWeight changes one attribute on the draft. Scores do not change until the draft is committed.
func SetDraftWeight(
	ctx context.Context,
	store WeightsStore,
	cfg *config.Config,
	logger *zap.Logger,
	attribute string,
	value int,
	now time.Time,
) (*WeightsResult, error) {
	attr, err := weights.ParseAttribute(attribute)
	if err != nil {
		return nil, err
	}

	editor, err := loadEditor(ctx, store, cfg.DefaultWeights)
	if err != nil {
		return nil, err
	}

	if err := editor.Set(attr, value); err != nil {
		return nil, fmt.Errorf("failed to set weight: %w", err)
	}

	if err := saveDraft(ctx, store, editor, now); err != nil {
		return nil, err
	}

	logger.Info("Draft weight updated", zap.String("attribute", string(attr)), zap.Int("value", value))
	return weightsResult(editor), nil
}

// CommitWeights promotes the draft to live, bumping the version
func CommitWeights(ctx context.Context, store WeightsStore, cfg *config.Config, logger *zap.Logger, now time.Time) (*CommitWeightsResult, error) {
	editor, err := loadEditor(ctx, store, cfg.DefaultWeights)
	if err != nil {
		return nil, err
	}

	live, changed, err := editor.Commit(now)
	if err != nil {
		return nil, fmt.Errorf("failed to commit weights: %w", err)
	}

	if !changed {
		logger.Info("No draft changes to commit", zap.Int("version", live.Version))
		return &CommitWeightsResult{Live: live}, nil
	}

	err = store.InTx(ctx, func(tx db.Store) error {
		if err := tx.UpsertWeightConfig(ctx, toWeightRow(db.WeightConfigLive, live.Version, live)); err != nil {
			return fmt.Errorf("failed to save live weights: %w", err)
		}
		return saveDraft(ctx, tx, editor, now)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Weights committed", zap.Int("version", live.Version), zap.Any("weights", live.Weights))
	return &CommitWeightsResult{Live: live, Changed: true}, nil
}

// DiscardWeights resets the draft to the live weights
func DiscardWeights(ctx context.Context, store WeightsStore, cfg *config.Config, logger *zap.Logger, now time.Time) (*WeightsResult, error) {
	editor, err := loadEditor(ctx, store, cfg.DefaultWeights)
	if err != nil {
		return nil, err
	}

	editor.Discard()
	if err := saveDraft(ctx, store, editor, now); err != nil {
		return nil, err
	}

	logger.Info("Draft weights discarded", zap.Int("version", editor.Live().Version))
	return weightsResult(editor), nil
}
