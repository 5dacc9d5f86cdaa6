package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bizbook/internal/repos"
)

// NewSchemaCommand prints the DDL used at startup, for running migrations by hand.
func NewSchemaCommand(root *RootOptions) *cobra.Command {
	var driver string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if driver == "" {
				cfg, err := root.load()
				if err != nil {
					return err
				}
				driver = cfg.DBDriver
			}
			ddl, err := repos.Schema(driver)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ddl)
			return nil
		},
	}

	cmd.Flags().StringVar(&driver, "driver", "", "sqlite or postgres (default from config)")

	return cmd
}
