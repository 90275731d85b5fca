package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	mongorepo "github.com/yoockh/aieta/internal/repositories/mongo"
	"github.com/yoockh/aieta/internal/services"
)

var reportXLSX bool

var reportCmd = &cobra.Command{
	Use:   "report <candidate-id>",
	Short: "Render the interview report for a candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMongo(cmd.Context(), func(db *mongo.Database) error {
			svc := services.NewReportService(mongorepo.NewLegacyRepo(db), cfg.ReportsDir, nil, log)

			build := svc.Build
			if reportXLSX {
				build = svc.ExportXLSX
			}
			path, err := build(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Println(path)
			return nil
		})
	},
}

var cleanupAge time.Duration

var cleanupCmd = &cobra.Command{
	Use:   "cleanup-reports",
	Short: "Delete generated report files older than a given age",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc := services.NewReportService(nil, cfg.ReportsDir, nil, log)
		n, err := svc.CleanupOld(cleanupAge)
		if err != nil {
			return err
		}
		cmd.Printf("Removed %d report file(s).\n", n)
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&reportXLSX, "xlsx", false, "export a spreadsheet instead of HTML")
	cleanupCmd.Flags().DurationVar(&cleanupAge, "older-than", 7*24*time.Hour, "minimum file age to delete")
	rootCmd.AddCommand(reportCmd, cleanupCmd)
}
