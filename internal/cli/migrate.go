package cli

import (
	"github.com/klokku/spendpace/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Int("down", 0, "Roll back the given number of migrations instead of migrating up")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	steps, _ := cmd.Flags().GetInt("down")
	if steps > 0 {
		if err := database.Rollback(cfg.Database, steps); err != nil {
			return err
		}
		log.Infof("Rolled back %d migration(s)", steps)
		return nil
	}
	return database.Migrate(cfg.Database)
}
