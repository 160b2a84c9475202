package weights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/device-loans/pkg/core/model"
)

func intPtr(i int) *int { return &i }

func TestAgePoints(t *testing.T) {
	tests := []struct {
		age      *int
		expected int
	}{
		{intPtr(0), 10},
		{intPtr(5), 10},
		{intPtr(6), 9},
		{intPtr(10), 9},
		{intPtr(11), 7},
		{intPtr(17), 7},
		{intPtr(18), 5},
		{intPtr(30), 5},
		{intPtr(31), 4},
		{intPtr(59), 4},
		{intPtr(60), 8},
		{intPtr(95), 8},
		{nil, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, AgePoints(tt.age))
	}
}

func TestOccupationPoints(t *testing.T) {
	assert.Equal(t, 10, OccupationPoints(model.OccupationStudent))
	assert.Equal(t, 8, OccupationPoints(model.OccupationTeacher))
	assert.Equal(t, 6, OccupationPoints(model.OccupationWorker))
	assert.Equal(t, 5, OccupationPoints(model.OccupationUnemployed))
	assert.Equal(t, 7, OccupationPoints(model.OccupationRetired))
	assert.Equal(t, 3, OccupationPoints(model.OccupationOther))
	assert.Equal(t, 0, OccupationPoints(model.OccupationUnknown))
}

func TestFlagPoints(t *testing.T) {
	assert.Equal(t, 1, InternetPoints(false))
	assert.Equal(t, 0, InternetPoints(true))
	assert.Equal(t, 1, DevicePoints(false))
	assert.Equal(t, 0, DevicePoints(true))
}

func TestGlobalWeights_Validate(t *testing.T) {
	assert.NoError(t, DefaultGlobalWeights.Validate())

	err := DefaultGlobalWeights.With(AttributeAge, 0).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "age")

	err = DefaultGlobalWeights.With(AttributeOccupation, 11).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "occupation")
}

func TestParseAttribute(t *testing.T) {
	attr, err := ParseAttribute("edad")
	require.NoError(t, err)
	assert.Equal(t, AttributeAge, attr)

	attr, err = ParseAttribute("Internet")
	require.NoError(t, err)
	assert.Equal(t, AttributeInternet, attr)

	_, err = ParseAttribute("height")
	assert.Error(t, err)
}

func TestEditor_DraftDoesNotTouchLive(t *testing.T) {
	editor := NewEditor(InitialConfig(DefaultGlobalWeights))

	require.NoError(t, editor.Set(AttributeOccupation, 9))

	assert.True(t, editor.Dirty())
	assert.Equal(t, 9, editor.Draft().Occupation)
	assert.Equal(t, 4, editor.Live().Weights.Occupation)
	assert.Equal(t, 0, editor.Live().Version)
}

func TestEditor_SetRejectsOutOfRange(t *testing.T) {
	editor := NewEditor(InitialConfig(DefaultGlobalWeights))

	err := editor.Set(AttributeDevice, 12)
	require.Error(t, err)
	assert.Equal(t, DefaultGlobalWeights, editor.Draft())
	assert.False(t, editor.Dirty())
}

func TestEditor_Commit(t *testing.T) {
	editor := NewEditor(InitialConfig(DefaultGlobalWeights))
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, editor.Set(AttributeAge, 7))
	live, changed, err := editor.Commit(now)
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Equal(t, 1, live.Version)
	assert.Equal(t, 7, live.Weights.Age)
	assert.Equal(t, now, live.UpdatedAt)
	assert.False(t, editor.Dirty())
}

func TestEditor_CommitWithoutChangesKeepsVersion(t *testing.T) {
	start := Config{Version: 3, Weights: DefaultGlobalWeights}
	editor := NewEditor(start)

	live, changed, err := editor.Commit(time.Now())
	require.NoError(t, err)

	assert.False(t, changed)
	assert.Equal(t, start, live)
}

func TestEditor_Discard(t *testing.T) {
	editor := NewEditor(InitialConfig(DefaultGlobalWeights))

	require.NoError(t, editor.Set(AttributeInternet, 1))
	require.NoError(t, editor.Set(AttributeDevice, 10))
	editor.Discard()

	assert.False(t, editor.Dirty())
	assert.Equal(t, DefaultGlobalWeights, editor.Draft())
}

func TestResumeEditor_InvalidDraftFailsCommit(t *testing.T) {
	bad := DefaultGlobalWeights.With(AttributeAge, 0)
	editor := ResumeEditor(InitialConfig(DefaultGlobalWeights), bad)

	live, changed, err := editor.Commit(time.Now())
	require.Error(t, err)
	assert.False(t, changed)
	assert.Equal(t, DefaultGlobalWeights, live.Weights)
}
