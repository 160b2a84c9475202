package db

import "context"

// ApplicantStore defines the interface for applicant database operations
type ApplicantStore interface {
	GetApplicants(ctx context.Context) ([]Applicant, error)
	GetApplicant(ctx context.Context, id string) (*Applicant, error)
	InsertApplicant(ctx context.Context, applicant *Applicant) error
	InsertApplicants(ctx context.Context, applicants []Applicant) error
	DeleteApplicant(ctx context.Context, id string) error
}

// ResourceStore defines the interface for resource database operations
type ResourceStore interface {
	GetResources(ctx context.Context) ([]Resource, error)
	InsertResources(ctx context.Context, resources []Resource) error
	// SetResourceState moves every listed resource from one state to another.
	// It returns ErrConflict unless all of them were in the from state.
	SetResourceState(ctx context.Context, ids []string, from, to string) error
}

// AssignmentStore defines the interface for assignment database operations
type AssignmentStore interface {
	GetAssignments(ctx context.Context) ([]Assignment, error)
	GetAssignment(ctx context.Context, id string) (*Assignment, error)
	InsertAssignments(ctx context.Context, assignments []Assignment) error
	// UpdateAssignment writes state, failure count, appointment date and delivery time.
	// The row must still hold expectedState and expectedFailures, otherwise ErrConflict.
	UpdateAssignment(ctx context.Context, assignment *Assignment, expectedState string, expectedFailures int) error
	DeleteAssignment(ctx context.Context, id string, expectedState string) error
}

// WeightStore defines the interface for weight configuration operations
type WeightStore interface {
	GetWeightConfig(ctx context.Context, name string) (*WeightConfig, error)
	UpsertWeightConfig(ctx context.Context, cfg *WeightConfig) error
}

// RemovalStore keeps the record of applicants removed for repeated no-shows
type RemovalStore interface {
	GetRemovals(ctx context.Context) ([]ApplicantRemoval, error)
	InsertRemoval(ctx context.Context, removal *ApplicantRemoval) error
}

// Store defines the interface for all database operations.
// InTx runs fn against a transactional Store; any error rolls everything back.
type Store interface {
	ApplicantStore
	ResourceStore
	AssignmentStore
	WeightStore
	RemovalStore
	InTx(ctx context.Context, fn func(Store) error) error
}
