// Package attendance advances an assignment through delivery and no-show outcomes.
//
// The machine is pure: it takes the current assignment and returns a Transition
// describing the new state and the side effects the caller must apply in one
// transaction (resource release, assignment and applicant removal).
package attendance

import (
	"errors"
	"fmt"
	"time"

	"github.com/jakechorley/device-loans/pkg/core/model"
)

// ErrIllegalTransition is returned for any transition not in the table below
var ErrIllegalTransition = errors.New("illegal assignment transition")

// MaxStrikes is the number of no-shows that removes an applicant
const MaxStrikes = 2

var legalTransitions = map[model.AssignmentState][]model.AssignmentState{
	model.AssignmentAssigned: {model.AssignmentDelivered, model.AssignmentAbsent1},
	model.AssignmentAbsent1:  {model.AssignmentDelivered, model.AssignmentRemoved},
}

// CanTransition reports whether from -> to is allowed. Terminal states have no exits.
func CanTransition(from, to model.AssignmentState) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Policy holds the decisions the attendance rules leave to the operator
type Policy struct {
	// ReleaseOnDelivery returns a delivered device to the available pool.
	// When false the device stays assigned to the applicant it was delivered to.
	ReleaseOnDelivery bool
}

// Transition is the outcome of applying an event to an assignment
type Transition struct {
	From model.AssignmentState
	To   model.AssignmentState

	// Assignment is the assignment after the event. For a removal it carries the
	// final state but the record itself must be deleted.
	Assignment model.Assignment

	// PreviousAppointmentDate is set when the appointment was rescheduled
	PreviousAppointmentDate string

	ReleaseResource  bool
	DeleteAssignment bool
	RemoveApplicant  bool
}

// Machine applies attendance events under a policy
type Machine struct {
	policy Policy
}

func NewMachine(policy Policy) *Machine {
	return &Machine{policy: policy}
}

// Deliver marks the device as handed over. Valid from assigned or absent_1.
func (m *Machine) Deliver(a model.Assignment, now time.Time) (Transition, error) {
	if err := checkTransition(a, model.AssignmentDelivered); err != nil {
		return Transition{}, err
	}

	next := a
	next.State = model.AssignmentDelivered
	delivered := now
	next.DeliveredAt = &delivered

	return Transition{
		From:            a.State,
		To:              next.State,
		Assignment:      next,
		ReleaseResource: m.policy.ReleaseOnDelivery,
	}, nil
}

// MarkAbsent records a no-show. The first strike reschedules to the day after the
// current appointment and keeps the device reserved. The second strike removes
// the applicant and releases the device.
func (m *Machine) MarkAbsent(a model.Assignment, now time.Time) (Transition, error) {
	if !a.State.IsActive() {
		return Transition{}, fmt.Errorf("%w: cannot mark %s assignment %s as absent", ErrIllegalTransition, a.State, a.ID)
	}

	if a.FailureCount+1 >= MaxStrikes {
		if err := checkTransition(a, model.AssignmentRemoved); err != nil {
			return Transition{}, err
		}

		next := a
		next.FailureCount = a.FailureCount + 1
		next.State = model.AssignmentRemoved

		return Transition{
			From:             a.State,
			To:               next.State,
			Assignment:       next,
			ReleaseResource:  true,
			DeleteAssignment: true,
			RemoveApplicant:  true,
		}, nil
	}

	if err := checkTransition(a, model.AssignmentAbsent1); err != nil {
		return Transition{}, err
	}

	next := a
	next.FailureCount = a.FailureCount + 1
	next.State = model.AssignmentAbsent1
	next.AppointmentDate = NextAppointmentDate(a.AppointmentDate, now)

	return Transition{
		From:                    a.State,
		To:                      next.State,
		Assignment:              next,
		PreviousAppointmentDate: a.AppointmentDate,
	}, nil
}

// NextAppointmentDate is the day after current. If current cannot be parsed the
// day after now is used instead.
func NextAppointmentDate(current string, now time.Time) string {
	base, err := time.Parse(model.DateLayout, current)
	if err != nil {
		base = now
	}
	return base.AddDate(0, 0, 1).Format(model.DateLayout)
}

func checkTransition(a model.Assignment, to model.AssignmentState) error {
	if !CanTransition(a.State, to) {
		return fmt.Errorf("%w: %s -> %s for assignment %s", ErrIllegalTransition, a.State, to, a.ID)
	}
	return nil
}
