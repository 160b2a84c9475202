package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/internal/config"
	"github.com/jakechorley/device-loans/pkg/core/attendance"
	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/db"
)

// AttendanceStore defines the database operations needed to record attendance
type AttendanceStore interface {
	GetAssignment(ctx context.Context, id string) (*db.Assignment, error)
	InTx(ctx context.Context, fn func(db.Store) error) error
}

// MarkDelivered records that the applicant collected their device
func MarkDelivered(
	ctx context.Context,
	store AttendanceStore,
	cfg *config.Config,
	logger *zap.Logger,
	assignmentID string,
	now time.Time,
) (*attendance.Transition, error) {
	return recordAttendance(ctx, store, cfg, logger, assignmentID, now, func(m *attendance.Machine, a model.Assignment) (attendance.Transition, error) {
		return m.Deliver(a, now)
	})
}

// MarkAbsent records a no-show. The first one reschedules, the second removes the applicant
// and returns the device to the pool.
func MarkAbsent(
	ctx context.Context,
	store AttendanceStore,
	cfg *config.Config,
	logger *zap.Logger,
	assignmentID string,
	now time.Time,
) (*attendance.Transition, error) {
	return recordAttendance(ctx, store, cfg, logger, assignmentID, now, func(m *attendance.Machine, a model.Assignment) (attendance.Transition, error) {
		return m.MarkAbsent(a, now)
	})
}

type attendanceEvent func(m *attendance.Machine, a model.Assignment) (attendance.Transition, error)

func recordAttendance(
	ctx context.Context,
	store AttendanceStore,
	cfg *config.Config,
	logger *zap.Logger,
	assignmentID string,
	now time.Time,
	event attendanceEvent,
) (*attendance.Transition, error) {
	row, err := store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignment: %w", err)
	}
	current := toAssignment(*row)

	machine := attendance.NewMachine(attendance.Policy{ReleaseOnDelivery: cfg.ReleaseOnDelivery})
	tr, err := event(machine, current)
	if err != nil {
		return nil, err
	}

	logger.Debug("Applying attendance transition",
		zap.String("assignment_id", current.ID),
		zap.String("from", string(tr.From)),
		zap.String("to", string(tr.To)),
		zap.Bool("release_resource", tr.ReleaseResource),
		zap.Bool("remove_applicant", tr.RemoveApplicant))

	if err := store.InTx(ctx, func(tx db.Store) error {
		return applyTransition(ctx, tx, current, tr, now)
	}); err != nil {
		return nil, err
	}

	logger.Info("Attendance recorded",
		zap.String("assignment_id", current.ID),
		zap.String("state", string(tr.To)),
		zap.Int("failure_count", tr.Assignment.FailureCount),
		zap.String("appointment_date", tr.Assignment.AppointmentDate))

	return &tr, nil
}

// applyTransition writes every effect of tr. Each write is conditional on the state that was read.
// A removed applicant is recorded before their rows are deleted so they cannot be imported again.
func applyTransition(ctx context.Context, tx db.Store, current model.Assignment, tr attendance.Transition, now time.Time) error {
	if tr.DeleteAssignment {
		if err := tx.DeleteAssignment(ctx, current.ID, string(current.State)); err != nil {
			return fmt.Errorf("failed to delete assignment: %w", err)
		}
	} else {
		row := toAssignmentRow(tr.Assignment)
		if err := tx.UpdateAssignment(ctx, &row, string(current.State), current.FailureCount); err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}
	}

	if tr.ReleaseResource {
		if err := tx.SetResourceState(ctx, []string{current.ResourceID}, string(model.ResourceAssigned), string(model.ResourceAvailable)); err != nil {
			return fmt.Errorf("failed to release resource: %w", err)
		}
	}

	if tr.RemoveApplicant {
		applicant, err := tx.GetApplicant(ctx, current.ApplicantID)
		if err != nil {
			return fmt.Errorf("failed to fetch applicant: %w", err)
		}

		if err := tx.InsertRemoval(ctx, &db.ApplicantRemoval{
			ApplicantID:     current.ApplicantID,
			AssignmentID:    current.ID,
			ApplicantName:   applicant.Name,
			Contact:         applicant.Contact,
			ResourceID:      current.ResourceID,
			AppointmentDate: tr.Assignment.AppointmentDate,
			FailureCount:    tr.Assignment.FailureCount,
			ScoreSnapshot:   current.ScoreSnapshot,
			RemovedAt:       now,
		}); err != nil {
			return fmt.Errorf("failed to record removal: %w", err)
		}

		if err := tx.DeleteApplicant(ctx, current.ApplicantID); err != nil {
			return fmt.Errorf("failed to remove applicant: %w", err)
		}
	}

	return nil
}
