package commands

import (
	"github.com/spf13/cobra"

	"github.com/profitcalc/profitcalc/internal/buildinfo"
	"github.com/profitcalc/profitcalc/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "profitcalc",
		Short:   "Profit summary from a deposit/withdrawal ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", config.FileName, "config file")

	rootCmd.AddCommand(newCalculateCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

// loadConfig resolves the configuration named by --config. The default file
// is optional; an explicitly named one must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Resolve(path, !cmd.Flags().Changed("config"))
}
