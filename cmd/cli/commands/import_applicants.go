package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/device-loans/pkg/core/services"
)

// ImportApplicantsCmd creates the importApplicants command
func ImportApplicantsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importApplicants",
		Short: "Import new applicants from the registration spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Sheets()
			if err != nil {
				return err
			}

			result, err := services.ImportApplicants(app.Ctx, app.Database, client, app.Cfg, app.Logger, app.Now())
			if err != nil {
				return err
			}
			app.Metrics.ApplicantsRegistered(len(result.Imported))

			fmt.Printf("\n✓ Imported %d applicants (%d skipped, %d previously removed, %d in total)\n\n",
				len(result.Imported), result.Skipped, result.Removed, result.Total)
			for _, a := range result.Imported {
				fmt.Printf("  + %s (%s)\n", a.Name, a.ID)
			}
			return nil
		},
	}
}
