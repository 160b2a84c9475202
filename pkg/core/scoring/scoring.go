// Package scoring computes applicant priority from the rubric and orders the population.
package scoring

import (
	"sort"

	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/core/weights"
)

// Terms holds the weighted contribution of each rubric attribute
type Terms struct {
	Occupation float64
	Internet   float64
	Device     float64
	Age        float64
}

// Total sums the terms
func (t Terms) Total() float64 {
	return t.Occupation + t.Internet + t.Device + t.Age
}

// Breakdown returns the weighted contribution of each attribute.
// Unknown occupation or age contribute zero rather than failing.
func Breakdown(a model.Applicant, w weights.GlobalWeights) Terms {
	return Terms{
		Occupation: float64(weights.OccupationPoints(a.Occupation) * w.Occupation),
		Internet:   float64(weights.InternetPoints(a.HasInternet) * w.Internet),
		Device:     float64(weights.DevicePoints(a.HasDevice) * w.Device),
		Age:        float64(weights.AgePoints(a.Age) * w.Age),
	}
}

// Score is the applicant's priority under the given weights
func Score(a model.Applicant, w weights.GlobalWeights) float64 {
	return Breakdown(a, w).Total()
}

// Entry is one scored applicant in a ranking
type Entry struct {
	Applicant model.Applicant
	Score     float64
	Terms     Terms
	Position  int // 1-based
}

// Ranking is the whole population scored under a single committed weight config
type Ranking struct {
	WeightsVersion int
	Entries        []Entry

	positions map[string]int
}

// Rank scores every applicant and orders them by score descending,
// then earliest registration, then ID so the order is fully deterministic.
func Rank(applicants []model.Applicant, cfg weights.Config) *Ranking {
	entries := make([]Entry, len(applicants))
	for i, a := range applicants {
		terms := Breakdown(a, cfg.Weights)
		entries[i] = Entry{Applicant: a, Score: terms.Total(), Terms: terms}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})

	positions := make(map[string]int, len(entries))
	for i := range entries {
		entries[i].Position = i + 1
		positions[entries[i].Applicant.ID] = i + 1
	}

	return &Ranking{
		WeightsVersion: cfg.Version,
		Entries:        entries,
		positions:      positions,
	}
}

// Less orders entries for ranking
func Less(a, b Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.Applicant.RegisteredAt.Equal(b.Applicant.RegisteredAt) {
		return a.Applicant.RegisteredAt.Before(b.Applicant.RegisteredAt)
	}
	return a.Applicant.ID < b.Applicant.ID
}

// Position returns the 1-based rank of an applicant, or 0 if not present
func (r *Ranking) Position(applicantID string) int {
	return r.positions[applicantID]
}

// Pending returns the ranked entries whose applicant is not in exclude, preserving order
func (r *Ranking) Pending(exclude map[string]bool) []Entry {
	pending := make([]Entry, 0, len(r.Entries))
	for _, e := range r.Entries {
		if exclude[e.Applicant.ID] {
			continue
		}
		pending = append(pending, e)
	}
	return pending
}
