package allocator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/core/scoring"
)

// Allocate pairs the i-th ranked applicant with the i-th available resource for
// i < min(available, pending), placing each block of DailyCapacity appointments on
// the next calendar date. It only plans; writing the plan is the caller's job.
func Allocate(req Request) (*Plan, error) {
	if req.DailyCapacity < 1 {
		return nil, fmt.Errorf("daily capacity must be at least 1, got %d", req.DailyCapacity)
	}
	if req.Calendar == nil {
		return nil, fmt.Errorf("calendar is required")
	}

	newID := req.NewID
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}

	available := availableResources(req.Resources)
	pending := uniqueApplicants(req.Ranked)

	plan := &Plan{
		Assignments:      []model.Assignment{},
		ResourceIDs:      []string{},
		Cohorts:          []Cohort{},
		ValidationErrors: []ValidationError{},
		AvailableCount:   len(available),
		PendingCount:     len(pending),
	}

	if len(available) == 0 {
		plan.Outcome = OutcomeNoResources
		return plan, nil
	}
	if len(pending) == 0 {
		plan.Outcome = OutcomeNoApplicants
		return plan, nil
	}

	n := min(len(available), len(pending))
	for i := 0; i < n; i++ {
		cohort := i / req.DailyCapacity

		// Dates only change at cohort boundaries
		if len(plan.Cohorts) <= cohort {
			date, err := req.Calendar.Date(cohort)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve appointment date for cohort %d: %w", cohort, err)
			}
			plan.Cohorts = append(plan.Cohorts, Cohort{Date: date.Format(model.DateLayout)})
		}

		entry := pending[i]
		resource := available[i]

		plan.Assignments = append(plan.Assignments, model.Assignment{
			ID:              newID(),
			ApplicantID:     entry.Applicant.ID,
			ResourceID:      resource.ID,
			ScoreSnapshot:   entry.Score,
			AppointmentDate: plan.Cohorts[cohort].Date,
			FailureCount:    0,
			State:           model.AssignmentAssigned,
			CreatedAt:       req.Now,
		})
		plan.ResourceIDs = append(plan.ResourceIDs, resource.ID)
		plan.Cohorts[cohort].Count++
	}

	plan.Outcome = OutcomeAllocated
	plan.ValidationErrors = ValidatePlan(plan, req)

	return plan, nil
}

// availableResources keeps resources in the available state, dropping duplicate IDs
func availableResources(resources []model.Resource) []model.Resource {
	seen := make(map[string]bool, len(resources))
	available := make([]model.Resource, 0, len(resources))
	for _, r := range resources {
		if r.State != model.ResourceAvailable || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		available = append(available, r)
	}
	return available
}

// uniqueApplicants drops repeated applicants, keeping their best-ranked entry
func uniqueApplicants(ranked []scoring.Entry) []scoring.Entry {
	seen := make(map[string]bool, len(ranked))
	unique := make([]scoring.Entry, 0, len(ranked))
	for _, e := range ranked {
		if seen[e.Applicant.ID] {
			continue
		}
		seen[e.Applicant.ID] = true
		unique = append(unique, e)
	}
	return unique
}
