package allocator

import (
	"fmt"

	"github.com/jakechorley/device-loans/pkg/core/model"
)

// Validation rule names
const (
	RuleResourceAvailable = "ResourceAvailable"
	RuleUniqueResource    = "UniqueResource"
	RuleUniqueApplicant   = "UniqueApplicant"
	RuleDailyCapacity     = "DailyCapacity"
	RuleBatchSize         = "BatchSize"
)

// ValidatePlan re-checks a plan against the request it came from.
// A plan with errors must not be written.
func ValidatePlan(plan *Plan, req Request) []ValidationError {
	errs := []ValidationError{}

	states := make(map[string]model.ResourceState, len(req.Resources))
	for _, r := range req.Resources {
		states[r.ID] = r.State
	}

	expected := min(plan.AvailableCount, plan.PendingCount)
	if len(plan.Assignments) > expected {
		errs = append(errs, ValidationError{
			AssignmentIndex: -1,
			Rule:            RuleBatchSize,
			Description:     fmt.Sprintf("planned %d assignments but only %d can be made", len(plan.Assignments), expected),
		})
	}

	resources := make(map[string]bool)
	applicants := make(map[string]bool)
	perDate := make(map[string]int)

	for i, a := range plan.Assignments {
		if states[a.ResourceID] != model.ResourceAvailable {
			errs = append(errs, ValidationError{
				AssignmentIndex: i,
				Date:            a.AppointmentDate,
				Rule:            RuleResourceAvailable,
				Description:     fmt.Sprintf("resource %s is not available", a.ResourceID),
			})
		}

		if resources[a.ResourceID] {
			errs = append(errs, ValidationError{
				AssignmentIndex: i,
				Date:            a.AppointmentDate,
				Rule:            RuleUniqueResource,
				Description:     fmt.Sprintf("resource %s assigned more than once", a.ResourceID),
			})
		}
		resources[a.ResourceID] = true

		if applicants[a.ApplicantID] {
			errs = append(errs, ValidationError{
				AssignmentIndex: i,
				Date:            a.AppointmentDate,
				Rule:            RuleUniqueApplicant,
				Description:     fmt.Sprintf("applicant %s assigned more than once", a.ApplicantID),
			})
		}
		applicants[a.ApplicantID] = true

		perDate[a.AppointmentDate]++
		if perDate[a.AppointmentDate] == req.DailyCapacity+1 {
			errs = append(errs, ValidationError{
				AssignmentIndex: i,
				Date:            a.AppointmentDate,
				Rule:            RuleDailyCapacity,
				Description:     fmt.Sprintf("more than %d appointments on %s", req.DailyCapacity, a.AppointmentDate),
			})
		}
	}

	return errs
}
