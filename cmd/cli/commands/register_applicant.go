package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/device-loans/pkg/core/model"
	"github.com/jakechorley/device-loans/pkg/core/services"
)

// RegisterApplicantCmd creates the registerApplicant command
func RegisterApplicantCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registerApplicant <name>",
		Short: "Register an applicant and show their score and position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			occupation, _ := cmd.Flags().GetString("occupation")
			age, _ := cmd.Flags().GetString("age")
			contact, _ := cmd.Flags().GetString("contact")
			household, _ := cmd.Flags().GetInt("household")
			internet, _ := cmd.Flags().GetBool("internet")
			device, _ := cmd.Flags().GetBool("device")

			result, err := services.RegisterApplicant(app.Ctx, app.Database, app.Cfg, app.Logger, services.RegisterApplicantInput{
				Name:          args[0],
				Contact:       contact,
				HouseholdSize: household,
				Occupation:    occupation,
				Age:           model.ParseAge(age),
				HasInternet:   internet,
				HasDevice:     device,
			}, app.Now())
			if err != nil {
				return err
			}
			app.Metrics.ApplicantsRegistered(1)

			fmt.Printf("\n✓ Applicant registered\n\n")
			fmt.Printf("ID:       %s\n", result.Applicant.ID)
			fmt.Printf("Name:     %s\n", result.Applicant.Name)
			fmt.Printf("Score:    %g\n", result.Score)
			fmt.Printf("Position: %d of %d\n\n", result.Position, result.Total)
			return nil
		},
	}

	occupations := make([]string, len(model.Occupations))
	for i, o := range model.Occupations {
		occupations[i] = string(o)
	}

	cmd.Flags().String("occupation", "", "One of: "+strings.Join(occupations, ", "))
	cmd.Flags().String("age", "", "Age in years (leave empty if unknown)")
	cmd.Flags().String("contact", "", "Phone or email")
	cmd.Flags().Int("household", 0, "People in the household")
	cmd.Flags().Bool("internet", false, "Has internet access at home")
	cmd.Flags().Bool("device", false, "Already owns a suitable device")
	_ = cmd.MarkFlagRequired("occupation")

	return cmd
}
