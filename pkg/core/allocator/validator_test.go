package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/device-loans/pkg/core/model"
)

func rulesOf(errs []ValidationError) []string {
	rules := make([]string, len(errs))
	for i, e := range errs {
		rules[i] = e.Rule
	}
	return rules
}

func TestValidatePlan_ValidPlan(t *testing.T) {
	req := Request{
		Resources:     makeResources(2, model.ResourceAvailable),
		DailyCapacity: 2,
	}
	plan := &Plan{
		AvailableCount: 2,
		PendingCount:   2,
		Assignments: []model.Assignment{
			{ApplicantID: "app-1", ResourceID: "res-1", AppointmentDate: "2025-03-03"},
			{ApplicantID: "app-2", ResourceID: "res-2", AppointmentDate: "2025-03-03"},
		},
	}

	assert.Empty(t, ValidatePlan(plan, req))
}

func TestValidatePlan_DetectsBrokenInvariants(t *testing.T) {
	req := Request{
		Resources: []model.Resource{
			{ID: "res-1", State: model.ResourceAvailable},
			{ID: "res-2", State: model.ResourceAssigned},
		},
		DailyCapacity: 1,
	}
	plan := &Plan{
		AvailableCount: 1,
		PendingCount:   3,
		Assignments: []model.Assignment{
			{ApplicantID: "app-1", ResourceID: "res-1", AppointmentDate: "2025-03-03"},
			{ApplicantID: "app-1", ResourceID: "res-1", AppointmentDate: "2025-03-03"},
			{ApplicantID: "app-2", ResourceID: "res-2", AppointmentDate: "2025-03-04"},
		},
	}

	errs := ValidatePlan(plan, req)
	require.NotEmpty(t, errs)

	rules := rulesOf(errs)
	assert.Contains(t, rules, RuleBatchSize)
	assert.Contains(t, rules, RuleUniqueResource)
	assert.Contains(t, rules, RuleUniqueApplicant)
	assert.Contains(t, rules, RuleDailyCapacity)
	assert.Contains(t, rules, RuleResourceAvailable)
}

func TestValidatePlan_CapacityReportedOncePerDate(t *testing.T) {
	req := Request{
		Resources:     makeResources(4, model.ResourceAvailable),
		DailyCapacity: 1,
	}
	plan := &Plan{
		AvailableCount: 4,
		PendingCount:   4,
		Assignments: []model.Assignment{
			{ApplicantID: "app-1", ResourceID: "res-1", AppointmentDate: "2025-03-03"},
			{ApplicantID: "app-2", ResourceID: "res-2", AppointmentDate: "2025-03-03"},
			{ApplicantID: "app-3", ResourceID: "res-3", AppointmentDate: "2025-03-03"},
		},
	}

	errs := ValidatePlan(plan, req)
	require.Len(t, errs, 1)
	assert.Equal(t, RuleDailyCapacity, errs[0].Rule)
	assert.Equal(t, 1, errs[0].AssignmentIndex)
}
