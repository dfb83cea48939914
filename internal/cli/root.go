package cli

import (
	"github.com/klokku/spendpace/internal/config"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "./config/application.yaml"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "spendpace",
	Short: "Spending insights and budget pacing",
	Long: `spendpace aggregates transactions into day, week, month and year periods and
checks budgets against a linear spending pace.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to the YAML configuration file")
}

// Execute runs the command selected by the process arguments.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (config.Application, error) {
	return config.Load(configPath)
}
