package db

import "time"

// Weight config row names
const (
	WeightConfigLive  = "live"
	WeightConfigDraft = "draft"
)

// Applicant is a row of the applicant table
type Applicant struct {
	ID            string
	Name          string
	Contact       string
	HouseholdSize int
	Occupation    string
	Age           *int
	HasInternet   bool
	HasDevice     bool
	RegisteredAt  time.Time
}

// Resource is a row of the resource table
type Resource struct {
	ID        string
	Label     string
	State     string
	CreatedAt time.Time
}

// Assignment is a row of the assignment table
type Assignment struct {
	ID              string
	ApplicantID     string
	ResourceID      string
	ScoreSnapshot   float64
	AppointmentDate string
	FailureCount    int
	State           string
	CreatedAt       time.Time
	DeliveredAt     *time.Time
}

// WeightConfig is a row of the weight_config table. Name is "live" or "draft".
type WeightConfig struct {
	Name       string
	Version    int
	Occupation int
	Internet   int
	Device     int
	Age        int
	UpdatedAt  time.Time
}

// ApplicantRemoval is a row of the applicant_removal table. It records an applicant removed
// after a second no-show, with the final state of their assignment. The applicant and
// assignment rows themselves are deleted.
type ApplicantRemoval struct {
	ApplicantID     string
	AssignmentID    string
	ApplicantName   string
	Contact         string
	ResourceID      string
	AppointmentDate string
	FailureCount    int
	ScoreSnapshot   float64
	RemovedAt       time.Time
}
