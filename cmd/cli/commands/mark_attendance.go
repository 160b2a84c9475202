package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/core/services"
	"github.com/jakechorley/device-loans/pkg/metrics"
)

// MarkDeliveredCmd creates the markDelivered command
func MarkDeliveredCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "markDelivered <assignment-id>",
		Short: "Record that an applicant collected their device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := services.MarkDelivered(app.Ctx, app.Database, app.Cfg, app.Logger, args[0], app.Now())
			if err != nil {
				return err
			}
			app.Metrics.Delivered()

			fmt.Printf("\n✓ Assignment %s delivered\n", tr.Assignment.ID)
			if tr.ReleaseResource {
				fmt.Println("Device returned to the available pool.")
			}
			return nil
		},
	}
}

// MarkAbsentCmd creates the markAbsent command
func MarkAbsentCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "markAbsent <assignment-id>",
		Short: "Record a no-show; the second one removes the applicant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := services.MarkAbsent(app.Ctx, app.Database, app.Cfg, app.Logger, args[0], app.Now())
			if err != nil {
				return err
			}

			if tr.To == model.AssignmentRemoved {
				app.Metrics.Absent(metrics.AbsenceRemoved)
				fmt.Printf("\n%s✗ Second no-show for assignment %s%s\n", colorRed, tr.Assignment.ID, colorReset)
				fmt.Println("Applicant removed and device returned to the available pool.")
				return nil
			}

			app.Metrics.Absent(metrics.AbsenceRescheduled)
			fmt.Printf("\n%s! First no-show for assignment %s%s\n", colorYellow, tr.Assignment.ID, colorReset)
			fmt.Printf("Rescheduled from %s to %s.\n", tr.PreviousAppointmentDate, tr.Assignment.AppointmentDate)
			return nil
		},
	}
}
