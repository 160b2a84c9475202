package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/internal/config"
	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/db"
)

// ApplicantSource lists applicants from the registration spreadsheet
type ApplicantSource interface {
	ListApplicants(spreadsheetID, tab string) ([]model.Applicant, error)
}

// ImportStore defines the database operations needed to import applicants
type ImportStore interface {
	RankingStore
	InsertApplicants(ctx context.Context, applicants []db.Applicant) error
	GetRemovals(ctx context.Context) ([]db.ApplicantRemoval, error)
}

// ImportApplicantsResult summarises an import
type ImportApplicantsResult struct {
	Imported []model.Applicant
	// Skipped counts rows already in the database or without a name
	Skipped int
	// Removed counts rows of applicants removed for repeated no-shows
	Removed int
	Total   int
}

// sheetRowNamespace scopes the IDs derived for sheet rows that carry none
var sheetRowNamespace = uuid.MustParse("5b1f3c1e-8f0a-4d7c-9a4e-2f6b7d9c0e11")

// sheetRowID derives a stable ID from the row's name, contact and registration date,
// so the same ID-less row maps to the same applicant on every import.
func sheetRowID(a model.Applicant) string {
	registered := ""
	if !a.RegisteredAt.IsZero() {
		registered = a.RegisteredAt.UTC().Format(time.RFC3339)
	}
	key := strings.Join([]string{
		strings.ToLower(strings.Join(strings.Fields(a.Name), " ")),
		strings.ToLower(strings.TrimSpace(a.Contact)),
		registered,
	}, "|")
	return uuid.NewSHA1(sheetRowNamespace, []byte(key)).String()
}

// ImportApplicants copies new applicants from the registration sheet in one bulk insert.
// Rows whose ID is already stored or belongs to a removed applicant are skipped. Rows
// without an ID get one derived from their contents, so the import can be re-run safely.
func ImportApplicants(
	ctx context.Context,
	store ImportStore,
	source ApplicantSource,
	cfg *config.Config,
	logger *zap.Logger,
	now time.Time,
) (*ImportApplicantsResult, error) {
	if !cfg.Sheets.Enabled() {
		return nil, fmt.Errorf("no spreadsheet configured (set sheets.spreadsheet_id)")
	}

	logger.Debug("Fetching applicants from sheet",
		zap.String("spreadsheet_id", cfg.Sheets.SpreadsheetID),
		zap.String("tab", cfg.Sheets.ApplicantsTab))

	sheetApplicants, err := source.ListApplicants(cfg.Sheets.SpreadsheetID, cfg.Sheets.ApplicantsTab)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants from sheet: %w", err)
	}

	existingRows, err := store.GetApplicants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applicants: %w", err)
	}

	removalRows, err := store.GetRemovals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch removals: %w", err)
	}

	seen := make(map[string]bool, len(existingRows))
	for _, row := range existingRows {
		seen[row.ID] = true
	}
	removed := make(map[string]bool, len(removalRows))
	for _, row := range removalRows {
		removed[row.ApplicantID] = true
	}

	result := &ImportApplicantsResult{}
	var rows []db.Applicant
	for _, a := range sheetApplicants {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			result.Skipped++
			continue
		}
		if a.ID == "" {
			a.ID = sheetRowID(a)
		}
		if removed[a.ID] {
			result.Removed++
			continue
		}
		if seen[a.ID] {
			result.Skipped++
			continue
		}
		if a.RegisteredAt.IsZero() {
			a.RegisteredAt = now
		}
		seen[a.ID] = true

		result.Imported = append(result.Imported, a)
		rows = append(rows, toApplicantRow(a))
	}

	if err := store.InsertApplicants(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to insert applicants: %w", err)
	}

	ranking, _, err := rankPopulation(ctx, store, cfg, logger)
	if err != nil {
		return nil, err
	}
	result.Total = len(ranking.Entries)

	logger.Info("Applicants imported",
		zap.Int("imported", len(result.Imported)),
		zap.Int("skipped", result.Skipped),
		zap.Int("removed", result.Removed),
		zap.Int("population", result.Total))

	return result, nil
}
