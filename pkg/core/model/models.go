package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the persisted format of appointment dates
const DateLayout = "2006-01-02"

type Occupation string

const (
	OccupationStudent    Occupation = "student"
	OccupationTeacher    Occupation = "teacher"
	OccupationWorker     Occupation = "worker"
	OccupationUnemployed Occupation = "unemployed"
	OccupationRetired    Occupation = "retired"
	OccupationOther      Occupation = "other"

	// OccupationUnknown is any value outside the closed set. It scores zero.
	OccupationUnknown Occupation = ""
)

// Occupations lists the recognised occupations in display order
var Occupations = []Occupation{
	OccupationStudent,
	OccupationTeacher,
	OccupationWorker,
	OccupationUnemployed,
	OccupationRetired,
	OccupationOther,
}

var occupationAliases = map[string]Occupation{
	"student":     OccupationStudent,
	"estudiante":  OccupationStudent,
	"teacher":     OccupationTeacher,
	"docente":     OccupationTeacher,
	"worker":      OccupationWorker,
	"trabajador":  OccupationWorker,
	"unemployed":  OccupationUnemployed,
	"desempleado": OccupationUnemployed,
	"retired":     OccupationRetired,
	"jubilado":    OccupationRetired,
	"other":       OccupationOther,
	"otro":        OccupationOther,
}

// ParseOccupation normalises an occupation from its English or legacy Spanish spelling.
// Unrecognised values map to OccupationUnknown.
func ParseOccupation(s string) Occupation {
	if occ, ok := occupationAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return occ
	}
	return OccupationUnknown
}

func (o Occupation) IsValid() bool {
	for _, occ := range Occupations {
		if o == occ {
			return true
		}
	}
	return false
}

// ParseFlag normalises a binary attribute. 1, true, yes and sí are true; anything else,
// including empty or non-numeric input, is false.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "si", "sí", "x":
		return true
	}
	return false
}

// ParseAge returns nil when the value is missing or not a whole number
func ParseAge(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	age, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < math.MinInt32 || f > math.MaxInt32 {
			return nil
		}
		age = int(f)
	}
	return &age
}

// Applicant is a person waiting for a device
type Applicant struct {
	ID            string
	Name          string
	Contact       string
	HouseholdSize int
	Occupation    Occupation
	Age           *int // nil when unknown
	HasInternet   bool
	HasDevice     bool
	RegisteredAt  time.Time
}

type ResourceState string

const (
	ResourceAvailable ResourceState = "available"
	ResourceAssigned  ResourceState = "assigned"
)

// ParseResourceState accepts both current and legacy spellings
func ParseResourceState(s string) (ResourceState, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available", "disponible":
		return ResourceAvailable, true
	case "assigned", "asignado":
		return ResourceAssigned, true
	}
	return "", false
}

// Resource is a single loanable device
type Resource struct {
	ID        string
	Label     string
	State     ResourceState
	CreatedAt time.Time
}

type AssignmentState string

const (
	AssignmentAssigned  AssignmentState = "assigned"
	AssignmentAbsent1   AssignmentState = "absent_1"
	AssignmentDelivered AssignmentState = "delivered"
	AssignmentRemoved   AssignmentState = "removed"
)

// ParseAssignmentState accepts both current and legacy spellings
func ParseAssignmentState(s string) (AssignmentState, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assigned", "asignado":
		return AssignmentAssigned, true
	case "absent_1", "ausente_1":
		return AssignmentAbsent1, true
	case "delivered", "entregado":
		return AssignmentDelivered, true
	case "removed", "eliminado":
		return AssignmentRemoved, true
	}
	return "", false
}

// IsActive reports whether the assignment still holds its resource for an upcoming appointment
func (s AssignmentState) IsActive() bool {
	return s == AssignmentAssigned || s == AssignmentAbsent1
}

func (s AssignmentState) IsTerminal() bool {
	return s == AssignmentDelivered || s == AssignmentRemoved
}

// Assignment binds one applicant to one resource for an appointment date
type Assignment struct {
	ID              string
	ApplicantID     string
	ResourceID      string
	ScoreSnapshot   float64
	AppointmentDate string // DateLayout
	FailureCount    int
	State           AssignmentState
	CreatedAt       time.Time
	DeliveredAt     *time.Time
}
