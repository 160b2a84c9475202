package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jakechorley/device-loans/pkg/db"
)

// memStore is an in-memory db.Store. InTx snapshots the tables and restores them when fn fails.
type memStore struct {
	applicants  map[string]db.Applicant
	resources   map[string]db.Resource
	assignments map[string]db.Assignment
	weights     map[string]db.WeightConfig
	removals    map[string]db.ApplicantRemoval

	// failOn makes the named method return the error
	failOn map[string]error
	calls  []string
	txs    int
}

var errInjected = errors.New("injected failure")

func newMemStore() *memStore {
	return &memStore{
		applicants:  map[string]db.Applicant{},
		resources:   map[string]db.Resource{},
		assignments: map[string]db.Assignment{},
		weights:     map[string]db.WeightConfig{},
		removals:    map[string]db.ApplicantRemoval{},
		failOn:      map[string]error{},
	}
}

var _ db.Store = (*memStore)(nil)

func (m *memStore) call(name string) error {
	m.calls = append(m.calls, name)
	return m.failOn[name]
}

func (m *memStore) addApplicant(id string, occupation string, age *int, internet, device bool, registered time.Time) {
	m.applicants[id] = db.Applicant{
		ID: id, Name: "Applicant " + id, Occupation: occupation, Age: age,
		HasInternet: internet, HasDevice: device, RegisteredAt: registered,
	}
}

func (m *memStore) addResources(state string, ids ...string) {
	for _, id := range ids {
		m.resources[id] = db.Resource{ID: id, Label: "label-" + id, State: state}
	}
}

func (m *memStore) GetApplicants(ctx context.Context) ([]db.Applicant, error) {
	if err := m.call("GetApplicants"); err != nil {
		return nil, err
	}
	var out []db.Applicant
	for _, a := range m.applicants {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetApplicant(ctx context.Context, id string) (*db.Applicant, error) {
	if err := m.call("GetApplicant"); err != nil {
		return nil, err
	}
	a, ok := m.applicants[id]
	if !ok {
		return nil, fmt.Errorf("applicant %s: %w", id, db.ErrNotFound)
	}
	return &a, nil
}

func (m *memStore) InsertApplicant(ctx context.Context, a *db.Applicant) error {
	if err := m.call("InsertApplicant"); err != nil {
		return err
	}
	if _, ok := m.applicants[a.ID]; ok {
		return db.ErrConflict
	}
	m.applicants[a.ID] = *a
	return nil
}

func (m *memStore) InsertApplicants(ctx context.Context, applicants []db.Applicant) error {
	if err := m.call("InsertApplicants"); err != nil {
		return err
	}
	for _, a := range applicants {
		m.applicants[a.ID] = a
	}
	return nil
}

func (m *memStore) DeleteApplicant(ctx context.Context, id string) error {
	if err := m.call("DeleteApplicant"); err != nil {
		return err
	}
	if _, ok := m.applicants[id]; !ok {
		return fmt.Errorf("applicant %s: %w", id, db.ErrNotFound)
	}
	delete(m.applicants, id)
	return nil
}

func (m *memStore) GetResources(ctx context.Context) ([]db.Resource, error) {
	if err := m.call("GetResources"); err != nil {
		return nil, err
	}
	var out []db.Resource
	for _, r := range m.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) InsertResources(ctx context.Context, resources []db.Resource) error {
	if err := m.call("InsertResources"); err != nil {
		return err
	}
	for _, r := range resources {
		m.resources[r.ID] = r
	}
	return nil
}

func (m *memStore) SetResourceState(ctx context.Context, ids []string, from, to string) error {
	if err := m.call("SetResourceState"); err != nil {
		return err
	}
	for _, id := range ids {
		r, ok := m.resources[id]
		if !ok || r.State != from {
			return fmt.Errorf("%w: resource %s", db.ErrConflict, id)
		}
		r.State = to
		m.resources[id] = r
	}
	return nil
}

func (m *memStore) GetAssignments(ctx context.Context) ([]db.Assignment, error) {
	if err := m.call("GetAssignments"); err != nil {
		return nil, err
	}
	var out []db.Assignment
	for _, a := range m.assignments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate < out[j].AppointmentDate
		}
		return out[i].ScoreSnapshot > out[j].ScoreSnapshot
	})
	return out, nil
}

func (m *memStore) GetAssignment(ctx context.Context, id string) (*db.Assignment, error) {
	if err := m.call("GetAssignment"); err != nil {
		return nil, err
	}
	a, ok := m.assignments[id]
	if !ok {
		return nil, fmt.Errorf("assignment %s: %w", id, db.ErrNotFound)
	}
	return &a, nil
}

func (m *memStore) InsertAssignments(ctx context.Context, assignments []db.Assignment) error {
	if err := m.call("InsertAssignments"); err != nil {
		return err
	}
	for _, a := range assignments {
		m.assignments[a.ID] = a
	}
	return nil
}

func (m *memStore) UpdateAssignment(ctx context.Context, a *db.Assignment, expectedState string, expectedFailures int) error {
	if err := m.call("UpdateAssignment"); err != nil {
		return err
	}
	current, ok := m.assignments[a.ID]
	if !ok || current.State != expectedState || current.FailureCount != expectedFailures {
		return fmt.Errorf("%w: assignment %s", db.ErrConflict, a.ID)
	}
	current.State = a.State
	current.FailureCount = a.FailureCount
	current.AppointmentDate = a.AppointmentDate
	current.DeliveredAt = a.DeliveredAt
	m.assignments[a.ID] = current
	return nil
}

func (m *memStore) DeleteAssignment(ctx context.Context, id string, expectedState string) error {
	if err := m.call("DeleteAssignment"); err != nil {
		return err
	}
	current, ok := m.assignments[id]
	if !ok || current.State != expectedState {
		return fmt.Errorf("%w: assignment %s", db.ErrConflict, id)
	}
	delete(m.assignments, id)
	return nil
}

func (m *memStore) GetWeightConfig(ctx context.Context, name string) (*db.WeightConfig, error) {
	if err := m.call("GetWeightConfig"); err != nil {
		return nil, err
	}
	w, ok := m.weights[name]
	if !ok {
		return nil, fmt.Errorf("weight config %s: %w", name, db.ErrNotFound)
	}
	return &w, nil
}

func (m *memStore) UpsertWeightConfig(ctx context.Context, w *db.WeightConfig) error {
	if err := m.call("UpsertWeightConfig"); err != nil {
		return err
	}
	m.weights[w.Name] = *w
	return nil
}

func (m *memStore) GetRemovals(ctx context.Context) ([]db.ApplicantRemoval, error) {
	if err := m.call("GetRemovals"); err != nil {
		return nil, err
	}
	var out []db.ApplicantRemoval
	for _, r := range m.removals {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApplicantID < out[j].ApplicantID })
	return out, nil
}

func (m *memStore) InsertRemoval(ctx context.Context, r *db.ApplicantRemoval) error {
	if err := m.call("InsertRemoval"); err != nil {
		return err
	}
	if _, ok := m.removals[r.ApplicantID]; ok {
		return fmt.Errorf("%w: removal %s", db.ErrConflict, r.ApplicantID)
	}
	m.removals[r.ApplicantID] = *r
	return nil
}

func (m *memStore) InTx(ctx context.Context, fn func(db.Store) error) error {
	m.txs++
	snapshot := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

type memSnapshot struct {
	applicants  map[string]db.Applicant
	resources   map[string]db.Resource
	assignments map[string]db.Assignment
	weights     map[string]db.WeightConfig
	removals    map[string]db.ApplicantRemoval
}

func (m *memStore) snapshot() memSnapshot {
	return memSnapshot{
		applicants:  copyMap(m.applicants),
		resources:   copyMap(m.resources),
		assignments: copyMap(m.assignments),
		weights:     copyMap(m.weights),
		removals:    copyMap(m.removals),
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.applicants = s.applicants
	m.resources = s.resources
	m.assignments = s.assignments
	m.weights = s.weights
	m.removals = s.removals
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
