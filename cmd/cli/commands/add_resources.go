package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/device-loans/pkg/core/services"
)

// AddResourcesCmd creates the addResources command
func AddResourcesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addResources [label...]",
		Short: "Add devices to the available pool",
		Long: `Add devices to the available pool.

Pass explicit labels, or use --count to generate sequential labels from --prefix.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			prefix, _ := cmd.Flags().GetString("prefix")
			first, _ := cmd.Flags().GetInt("first")

			labels := args
			if len(labels) == 0 {
				if count < 1 {
					return fmt.Errorf("pass labels or --count")
				}
				labels = services.ResourceLabels(prefix, first, count)
			}

			resources, err := services.AddResources(app.Ctx, app.Database, app.Logger, labels, app.Now())
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Added %d devices\n\n", len(resources))
			for _, r := range resources {
				fmt.Printf("  %s  %s\n", r.ID, r.Label)
			}
			return nil
		},
	}

	cmd.Flags().Int("count", 0, "Number of devices to generate labels for")
	cmd.Flags().String("prefix", "device", "Label prefix for generated devices")
	cmd.Flags().Int("first", 1, "Number of the first generated label")

	return cmd
}
