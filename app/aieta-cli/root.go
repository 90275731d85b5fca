package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yoockh/aieta/config"
	"github.com/yoockh/aieta/internal/logger"
)

var (
	cfg *config.App
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "aieta-cli",
	Short:         "Maintenance tasks for the interview backend",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
		log = logger.New(cfg.LogLevel)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("aieta version %s\n", config.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// withMongo connects, runs fn against the configured database and disconnects.
func withMongo(ctx context.Context, fn func(db *mongo.Database) error) error {
	mc, err := config.NewMongo(ctx, cfg)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	return fn(mc.Database(cfg.MongoDB))
}
