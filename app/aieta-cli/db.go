package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yoockh/aieta/config"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMongo(cmd.Context(), func(db *mongo.Database) error {
			if err := config.EnsureMongoIndexes(cmd.Context(), db); err != nil {
				return err
			}
			cmd.Println("Indexes ensured.")
			return nil
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run the PostgreSQL migrations for answer logs and coding submissions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := config.NewPostgres(cfg)
		if err != nil {
			return err
		}
		if db == nil {
			return errors.New("POSTGRES_URI is not set")
		}
		if err := config.AutoMigrate(db); err != nil {
			return err
		}
		cmd.Println("Migrations applied.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd, migrateCmd)
}
