package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/device-loans/pkg/core/allocator"
	"github.com/jakechorley/device-loans/pkg/core/services"
)

// AllocateCmd creates the allocate command
func AllocateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Assign available devices to the top of the queue and book appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startFlag, _ := cmd.Flags().GetString("start")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			now := app.Now()
			start, err := parseDate(startFlag, now)
			if err != nil {
				return err
			}

			result, err := services.AllocateResources(app.Ctx, app.Database, app.Cfg, app.Logger, start, dryRun, now)
			if err != nil {
				return err
			}

			plan := result.Plan
			switch plan.Outcome {
			case allocator.OutcomeNoResources:
				fmt.Printf("\nNo devices available. %d applicants waiting.\n", plan.PendingCount)
				return nil
			case allocator.OutcomeNoApplicants:
				fmt.Printf("\nNobody waiting. %d devices available.\n", plan.AvailableCount)
				return nil
			}

			if !dryRun {
				app.Metrics.AllocationCompleted(len(plan.Assignments))
			}

			if dryRun {
				fmt.Printf("\nDry run (weights v%d): would assign %d devices\n\n", result.WeightsVersion, len(plan.Assignments))
			} else {
				fmt.Printf("\n✓ Assigned %d devices (weights v%d)\n\n", len(plan.Assignments), result.WeightsVersion)
			}

			for _, c := range plan.Cohorts {
				fmt.Printf("%s (%d)\n", c.Date, c.Count)
				for i, a := range plan.Assignments {
					if a.AppointmentDate != c.Date {
						continue
					}
					applicant := result.Applicants[a.ApplicantID]
					fmt.Printf("  %-24s score %-6g device %s\n", truncate(applicant.Name, 24), a.ScoreSnapshot, plan.ResourceIDs[i])
				}
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("start", "today", "First appointment date (YYYY-MM-DD)")
	cmd.Flags().Bool("dry-run", false, "Show the plan without writing it")

	return cmd
}
