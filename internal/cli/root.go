package cli

import (
	"github.com/spf13/cobra"

	"bizbook/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
}

// load reads the YAML file from --config, falling back to CONFIG_FILE.
func (o *RootOptions) load() (config.Config, error) {
	if o.ConfigFile != "" {
		return config.LoadFrom(o.ConfigFile)
	}
	return config.Load()
}

// NewRootCommand creates the root command for the bizbook CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "bizbook",
		Short:         "bizbook - small business booking backend",
		Long:          "Serves the business site API: services, bookings, contact messages and the admin surface.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file (overrides CONFIG_FILE)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewAdminCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))

	return cmd
}
