package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/device-loans/pkg/core/services"
)

// ViewRankingCmd creates the viewRanking command
func ViewRankingCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewRanking",
		Short: "Show applicants ordered by score under the live weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")

			result, err := services.ViewRanking(app.Ctx, app.Database, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nRanking (weights v%d): %d pending of %d applicants\n\n",
				result.Ranking.WeightsVersion, len(result.Pending), len(result.Ranking.Entries))

			if all {
				printRankingTable(result.Ranking.Entries, result.States)
			} else {
				printRankingTable(result.Pending, nil)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Include applicants who already hold an assignment")

	return cmd
}
