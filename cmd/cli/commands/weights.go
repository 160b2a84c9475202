package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakechorley/device-loans/pkg/core/services"
)

func printWeights(result *services.WeightsResult) {
	fmt.Printf("\nLive  (v%d): %s\n", result.Live.Version, formatWeights(result.Live.Weights, result.Live.Weights))
	if result.Dirty {
		fmt.Printf("Draft      : %s\n", formatWeights(result.Draft, result.Live.Weights))
		fmt.Println("Uncommitted changes marked with *. Run commitWeights to apply them.")
	} else {
		fmt.Println("No uncommitted changes.")
	}
	fmt.Println()
}

// ViewWeightsCmd creates the viewWeights command
func ViewWeightsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewWeights",
		Short: "Show the live weights and any uncommitted draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.ViewWeights(app.Ctx, app.Database, app.Cfg, app.Logger)
			if err != nil {
				return err
			}
			printWeights(result)
			return nil
		},
	}
}

// SetWeightCmd creates the setWeight command
func SetWeightCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setWeight <occupation|internet|device|age> <1-10>",
		Short: "Change one weight on the draft",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("weight must be a whole number, got %q", args[1])
			}

			result, err := services.SetDraftWeight(app.Ctx, app.Database, app.Cfg, app.Logger, args[0], value, app.Now())
			if err != nil {
				return err
			}
			printWeights(result)
			return nil
		},
	}
}

// CommitWeightsCmd creates the commitWeights command
func CommitWeightsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "commitWeights",
		Short: "Apply the draft weights and show the new ranking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.CommitWeights(app.Ctx, app.Database, app.Cfg, app.Logger, app.Now())
			if err != nil {
				return err
			}

			if !result.Changed {
				fmt.Printf("\nNothing to commit. Live weights remain v%d.\n", result.Live.Version)
				return nil
			}

			fmt.Printf("\n✓ Weights v%d committed: %s\n", result.Live.Version, formatWeights(result.Live.Weights, result.Live.Weights))

			ranking, err := services.ViewRanking(app.Ctx, app.Database, app.Cfg, app.Logger)
			if err != nil {
				return err
			}
			fmt.Printf("\nQueue under v%d:\n\n", ranking.Ranking.WeightsVersion)
			printRankingTable(ranking.Pending, nil)
			fmt.Println()
			return nil
		},
	}
}

// DiscardWeightsCmd creates the discardWeights command
func DiscardWeightsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "discardWeights",
		Short: "Drop the draft and go back to the live weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.DiscardWeights(app.Ctx, app.Database, app.Cfg, app.Logger, app.Now())
			if err != nil {
				return err
			}
			fmt.Println("\n✓ Draft discarded")
			printWeights(result)
			return nil
		},
	}
}
