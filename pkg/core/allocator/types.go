package allocator

import (
	"time"

	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/core/scoring"
)

// Outcome summarises what an allocation run did
type Outcome string

const (
	// OutcomeAllocated means at least one assignment was planned
	OutcomeAllocated Outcome = "allocated"

	// OutcomeNoResources means there was nothing available to hand out. Not an error.
	OutcomeNoResources Outcome = "no_resources"

	// OutcomeNoApplicants means nobody was waiting. Not an error.
	OutcomeNoApplicants Outcome = "no_applicants"
)

// Request contains everything needed to plan one batch
type Request struct {
	// Resources to draw from. Only resources in the available state are used.
	Resources []model.Resource

	// Ranked pending applicants, best first. Applicants that already hold an
	// active assignment must not be included.
	Ranked []scoring.Entry

	// DailyCapacity is the maximum number of appointments per calendar date
	DailyCapacity int

	// Calendar supplies the date for each cohort of DailyCapacity appointments
	Calendar Calendar

	// Now stamps CreatedAt on the new assignments
	Now time.Time

	// NewID generates assignment IDs. Defaults to random UUIDs.
	NewID func() string
}

// Cohort is the set of assignments sharing one appointment date
type Cohort struct {
	Date  string
	Count int
}

// Plan is the result of an allocation run. Nothing has been written yet.
type Plan struct {
	Outcome Outcome

	// Assignments in rank order
	Assignments []model.Assignment

	// ResourceIDs that move from available to assigned, aligned with Assignments
	ResourceIDs []string

	// Cohorts in date order
	Cohorts []Cohort

	// AvailableCount and PendingCount are the pool sizes the plan was drawn from
	AvailableCount int
	PendingCount   int

	// ValidationErrors found when checking the plan against its request
	ValidationErrors []ValidationError
}

// Valid reports whether the plan passed validation
func (p *Plan) Valid() bool {
	return len(p.ValidationErrors) == 0
}

// ValidationError describes a broken allocation invariant
type ValidationError struct {
	AssignmentIndex int
	Date            string
	Rule            string
	Description     string
}
