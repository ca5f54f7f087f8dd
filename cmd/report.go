package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pyama86/incident-dashboard/handler"
	"github.com/spf13/cobra"
)

var (
	reportFormat string
	reportFilter string
	reportLogs   int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a one-shot report of health, statistics, history and execution logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportFormat != "markdown" && reportFormat != "html" {
			return fmt.Errorf("unsupported format %q", reportFormat)
		}
		return handler.Report(context.Background(), configPath, handler.ReportOptions{
			HTML:     reportFormat == "html",
			Filter:   reportFilter,
			LogLimit: reportLogs,
		}, os.Stdout)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "markdown", "output format (markdown or html)")
	reportCmd.Flags().StringVar(&reportFilter, "filter", "", "only include history matching this text")
	reportCmd.Flags().IntVar(&reportLogs, "logs", 20, "number of execution logs to include")
	rootCmd.AddCommand(reportCmd)
}
