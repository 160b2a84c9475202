package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/core/services"
)

// parseStates turns a comma separated list into assignment states
func parseStates(s string) ([]model.AssignmentState, error) {
	if s == "" {
		return nil, nil
	}

	var states []model.AssignmentState
	for _, part := range strings.Split(s, ",") {
		state, ok := model.ParseAssignmentState(strings.TrimSpace(part))
		if !ok {
			return nil, fmt.Errorf("unknown assignment state %q", part)
		}
		states = append(states, state)
	}
	return states, nil
}

// ListAssignmentsCmd creates the listAssignments command
func ListAssignmentsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listAssignments",
		Short: "List assignments by appointment date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stateFlag, _ := cmd.Flags().GetString("state")
			states, err := parseStates(stateFlag)
			if err != nil {
				return err
			}

			views, err := services.ListAssignments(app.Ctx, app.Database, app.Logger, states...)
			if err != nil {
				return err
			}

			if len(views) == 0 {
				fmt.Println("\nNo assignments.")
				return nil
			}

			fmt.Printf("\n%-36s  %-10s  %-24s  %-16s  %-12s  %s\n", "ID", "DATE", "APPLICANT", "CONTACT", "DEVICE", "STATE")
			fmt.Println(strings.Repeat("-", 120))
			for _, v := range views {
				a := v.Assignment
				fmt.Printf("%-36s  %-10s  %-24s  %-16s  %-12s  %s%s%s\n",
					a.ID,
					a.AppointmentDate,
					truncate(v.ApplicantName, 24),
					truncate(v.Contact, 16),
					truncate(v.ResourceLabel, 12),
					stateColor(a.State), a.State, colorReset)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("state", "assigned,absent_1", "Comma separated states to show (empty for all)")

	return cmd
}
