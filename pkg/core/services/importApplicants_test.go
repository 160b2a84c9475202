package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/device-loans/internal/config"
	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/db"
)

type mockApplicantSource struct {
	applicants []model.Applicant
	err        error
	gotSheet   string
	gotTab     string
}

func (m *mockApplicantSource) ListApplicants(spreadsheetID, tab string) ([]model.Applicant, error) {
	m.gotSheet, m.gotTab = spreadsheetID, tab
	return m.applicants, m.err
}

func sheetsConfig() *config.Config {
	cfg := testConfig()
	cfg.Sheets.SpreadsheetID = "sheet-1"
	cfg.Sheets.ServiceAccountFile = "sa.json"
	return cfg
}

func TestImportApplicants_InsertsOnlyNewRows(t *testing.T) {
	store := newMemStore()
	store.addApplicant("existing", "student", intPtr(20), false, false, t0)
	source := &mockApplicantSource{applicants: []model.Applicant{
		{ID: "existing", Name: "Already here"},
		{ID: "sheet-2", Name: "Marta", Occupation: model.OccupationRetired, Age: intPtr(66), RegisteredAt: t0},
		{Name: "No id", Occupation: model.OccupationWorker},
		{ID: "sheet-4", Name: "   "},
	}}

	result, err := ImportApplicants(context.Background(), store, source, sheetsConfig(), logger, t0)
	require.NoError(t, err)

	assert.Equal(t, "sheet-1", source.gotSheet)
	assert.Equal(t, "applicants", source.gotTab)
	require.Len(t, result.Imported, 2)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 3, result.Total)

	assert.Equal(t, "retired", store.applicants["sheet-2"].Occupation)
	generated := result.Imported[1]
	assert.NotEmpty(t, generated.ID)
	assert.Equal(t, t0, store.applicants[generated.ID].RegisteredAt)
}

func TestImportApplicants_RerunIsIdempotent(t *testing.T) {
	store := newMemStore()
	source := &mockApplicantSource{applicants: []model.Applicant{{ID: "s1", Name: "Ana"}, {ID: "s2", Name: "Luis"}}}

	_, err := ImportApplicants(context.Background(), store, source, sheetsConfig(), logger, t0)
	require.NoError(t, err)
	result, err := ImportApplicants(context.Background(), store, source, sheetsConfig(), logger, t0)
	require.NoError(t, err)

	assert.Empty(t, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, store.applicants, 2)
}

func TestImportApplicants_RowsWithoutIDAreImportedOnce(t *testing.T) {
	store := newMemStore()
	source := &mockApplicantSource{applicants: []model.Applicant{
		{Name: "Ana", Contact: "555-0101", Occupation: model.OccupationStudent},
	}}

	first, err := ImportApplicants(context.Background(), store, source, sheetsConfig(), logger, t0)
	require.NoError(t, err)
	require.Len(t, first.Imported, 1)

	for i := 0; i < 2; i++ {
		result, err := ImportApplicants(context.Background(), store, source, sheetsConfig(), logger, t0.Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, result.Imported)
		assert.Equal(t, 1, result.Skipped)
	}

	assert.Len(t, store.applicants, 1)
	assert.Contains(t, store.applicants, first.Imported[0].ID)
}

func TestSheetRowID(t *testing.T) {
	ana := model.Applicant{Name: "Ana  María", Contact: "555-0101"}

	assert.Equal(t, sheetRowID(ana), sheetRowID(model.Applicant{Name: " ana maría ", Contact: "555-0101 "}))
	assert.NotEqual(t, sheetRowID(ana), sheetRowID(model.Applicant{Name: "Ana María", Contact: "555-0102"}))
	assert.NotEqual(t, sheetRowID(ana), sheetRowID(model.Applicant{Name: "Ana María", Contact: "555-0101", RegisteredAt: t0}))
}

func TestImportApplicants_RemovedApplicantIsNotReimported(t *testing.T) {
	store := newMemStore()
	seedAssignment(store, "assigned", 0)

	_, err := MarkAbsent(context.Background(), store, testConfig(), logger, "asg-1", monday)
	require.NoError(t, err)
	_, err = MarkAbsent(context.Background(), store, testConfig(), logger, "asg-1", monday)
	require.NoError(t, err)

	source := &mockApplicantSource{applicants: []model.Applicant{
		{ID: "student", Name: "Applicant student", Occupation: model.OccupationStudent},
		{ID: "new", Name: "Luis", Occupation: model.OccupationWorker},
	}}
	result, err := ImportApplicants(context.Background(), store, source, sheetsConfig(), logger, monday)
	require.NoError(t, err)

	require.Len(t, result.Imported, 1)
	assert.Equal(t, "new", result.Imported[0].ID)
	assert.Equal(t, 1, result.Removed)
	assert.NotContains(t, store.applicants, "student")

	ranking, err := ViewRanking(context.Background(), store, testConfig(), logger)
	require.NoError(t, err)
	for _, e := range ranking.Pending {
		assert.NotEqual(t, "student", e.Applicant.ID)
	}
}

func TestImportApplicants_RemovedRowWithoutIDIsNotReimported(t *testing.T) {
	store := newMemStore()
	row := model.Applicant{Name: "Ana", Contact: "555-0101"}
	store.removals[sheetRowID(row)] = db.ApplicantRemoval{ApplicantID: sheetRowID(row)}

	result, err := ImportApplicants(context.Background(), store, &mockApplicantSource{applicants: []model.Applicant{row}}, sheetsConfig(), logger, t0)
	require.NoError(t, err)

	assert.Empty(t, result.Imported)
	assert.Equal(t, 1, result.Removed)
	assert.Empty(t, store.applicants)
}

func TestImportApplicants_RequiresSpreadsheet(t *testing.T) {
	_, err := ImportApplicants(context.Background(), newMemStore(), &mockApplicantSource{}, testConfig(), logger, t0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no spreadsheet configured")
}

func TestImportApplicants_SourceError(t *testing.T) {
	store := newMemStore()
	source := &mockApplicantSource{err: errors.New("quota exceeded")}

	_, err := ImportApplicants(context.Background(), store, source, sheetsConfig(), logger, t0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.NotContains(t, store.calls, "InsertApplicants")
}
