package cmd

import (
	"github.com/spf13/cobra"

	"go-farmlink/config"
	"go-farmlink/logger"
)

func init() {
	RootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("migrate")

		db, err := config.ConnectDB(ctx, conf.Database)
		if err != nil {
			return
		}
		defer db.Close()

		err = config.Migrate(ctx, db, log)
		if err != nil {
			return
		}
		log.Info("Migrations applied")
		return
	},
}
