package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/internal/config"
)

var (
	t0     = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	logger = zap.NewNop()
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.DatabaseURL = "postgres://localhost/test"
	cfg.DailyCapacity = 2
	return cfg
}

func intPtr(v int) *int {
	return &v
}

// seedPopulation adds five applicants scoring 64, 61, 56, 40 and 24 under the default weights
func seedPopulation(store *memStore) {
	store.addApplicant("student", "student", intPtr(20), false, false, t0)
	store.addApplicant("retired", "jubilado", intPtr(70), false, false, t0.Add(time.Minute))
	store.addApplicant("teacher", "teacher", intPtr(30), false, false, t0.Add(2*time.Minute))
	store.addApplicant("worker", "worker", intPtr(40), true, false, t0.Add(3*time.Minute))
	store.addApplicant("other", "other", intPtr(50), true, true, t0.Add(4*time.Minute))
}
