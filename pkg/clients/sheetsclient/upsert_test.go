package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var header = []string{"assignment_id", "applicant", "state"}

func TestPlanUpsert_EmptySheetGetsHeader(t *testing.T) {
	updates, appends := planUpsert("assignments", nil, header, [][]string{{"a1", "Ana", "assigned"}})

	assert.Empty(t, updates)
	require.Len(t, appends, 2)
	assert.Equal(t, []interface{}{"assignment_id", "applicant", "state"}, appends[0])
	assert.Equal(t, []interface{}{"a1", "Ana", "assigned"}, appends[1])
}

func TestPlanUpsert_UpdatesExistingKeysAndAppendsNew(t *testing.T) {
	existing := [][]interface{}{
		{"assignment_id", "applicant", "state"},
		{"a1", "Ana", "assigned"},
		{},
		{"a2", "Luis", "assigned"},
	}
	rows := [][]string{
		{"a2", "Luis", "absent_1"},
		{"a3", "Marta", "assigned"},
		{"a1", "Ana", "delivered"},
	}

	updates, appends := planUpsert("Asignaciones 2025", existing, header, rows)

	require.Len(t, updates, 2)
	assert.Equal(t, "'Asignaciones 2025'!A4", updates[0].Range)
	assert.Equal(t, [][]interface{}{{"a2", "Luis", "absent_1"}}, updates[0].Values)
	assert.Equal(t, "'Asignaciones 2025'!A2", updates[1].Range)

	require.Len(t, appends, 1)
	assert.Equal(t, []interface{}{"a3", "Marta", "assigned"}, appends[0])
}

func TestQuoteTab(t *testing.T) {
	assert.Equal(t, "'Bob''s tab'", quoteTab("Bob's tab"))
}
