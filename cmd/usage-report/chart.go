package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"utility_dashboard/internal/chart"
)

var chartOutDir string

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the dashboard charts as PNG files",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().StringVar(&chartOutDir, "out", "charts", "directory to write PNG files to")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	_, logger, s, err := setup()
	if err != nil {
		return err
	}

	images, err := chart.NewRenderer().RenderAll(cmd.Context(), chart.Data{Table: s.Table(), Summary: s.Summary()})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(chartOutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, name := range chart.Names() {
		path := filepath.Join(chartOutDir, name+".png")
		if err := os.WriteFile(path, images[name], 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logger.Info("wrote chart", "path", path)
	}
	return nil
}
