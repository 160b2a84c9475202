package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/core/services"
)

// RefreshPoolMetrics sets the pool gauges from the current database state
func RefreshPoolMetrics(app *AppContext) error {
	status, err := services.ViewStatus(app.Ctx, app.Database, app.Cfg, app.Logger)
	if err != nil {
		return err
	}
	app.Metrics.SetPool(status.ResourcesAvailable, status.ResourcesAssigned, status.Pending)
	return nil
}

// ViewStatusCmd creates the viewStatus command
func ViewStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewStatus",
		Short: "Summarise the queue, the device pool and assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := services.ViewStatus(app.Ctx, app.Database, app.Cfg, app.Logger)
			if err != nil {
				return err
			}
			app.Metrics.SetPool(status.ResourcesAvailable, status.ResourcesAssigned, status.Pending)

			fmt.Printf("\nApplicants:  %d (%d waiting)\n", status.Applicants, status.Pending)
			fmt.Printf("Devices:     %d available, %d assigned\n", status.ResourcesAvailable, status.ResourcesAssigned)
			fmt.Printf("Weights:     v%d\n", status.WeightsVersion)
			fmt.Println("Assignments:")
			for _, state := range []model.AssignmentState{
				model.AssignmentAssigned,
				model.AssignmentAbsent1,
				model.AssignmentDelivered,
			} {
				fmt.Printf("  %s%-10s%s %d\n", stateColor(state), state, colorReset, status.Assignments[state])
			}
			fmt.Println()
			return nil
		},
	}
}
