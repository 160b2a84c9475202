package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/device-loans/pkg/core/services"
)

// PublishAssignmentsCmd creates the publishAssignments command
func PublishAssignmentsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishAssignments",
		Short: "Mirror assignments to the spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Sheets()
			if err != nil {
				return err
			}

			result, err := services.PublishAssignments(app.Ctx, app.Database, client, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Published to tab %q: %d rows updated, %d appended\n",
				app.Cfg.Sheets.AssignmentsTab, result.Updated, result.Appended)
			return nil
		},
	}
}
