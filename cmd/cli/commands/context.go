package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/internal/config"
	"github.com/jakechorley/device-loans/pkg/clients/sheetsclient"
	"github.com/jakechorley/device-loans/pkg/db"
	"github.com/jakechorley/device-loans/pkg/metrics"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env          string
	Cfg          *config.Config
	SheetsClient *sheetsclient.Client
	Database     db.Store
	Metrics      *metrics.Recorder
	Logger       *zap.Logger
	Ctx          context.Context
	Now          func() time.Time
}

// Sheets returns the Sheets client, connecting on first use
func (app *AppContext) Sheets() (*sheetsclient.Client, error) {
	if app.SheetsClient != nil {
		return app.SheetsClient, nil
	}
	if !app.Cfg.Sheets.Enabled() {
		return nil, fmt.Errorf("no spreadsheet configured (set sheets.spreadsheet_id in %s)", config.FileName(app.Env))
	}

	app.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.Ctx, app.Cfg.Sheets.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.SheetsClient = client
	return client, nil
}

// parseDate accepts YYYY-MM-DD or "today"/"" for now
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" || s == "today" {
		return now, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD, got %q", s)
	}
	return d, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
