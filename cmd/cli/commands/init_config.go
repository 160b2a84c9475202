package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/device-loans/internal/config"
)

// SkipInitAnnotation marks commands that run without a database connection
const SkipInitAnnotation = "skipInit"

// InitConfigCmd creates the initConfig command
func InitConfigCmd(env *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "initConfig",
		Short:       "Write a starter config file for the environment",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{SkipInitAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseURL, _ := cmd.Flags().GetString("database-url")

			cfg := config.Default()
			cfg.DatabaseURL = databaseURL

			path := config.FileName(*env)
			if err := config.Write(path, cfg); err != nil {
				return err
			}

			fmt.Printf("\n✓ Wrote %s\n", path)
			fmt.Println("Edit database_url and the sheets section before running other commands.")
			return nil
		},
	}

	cmd.Flags().String("database-url", "postgres://localhost:5432/device_loans", "Postgres connection string")

	return cmd
}
