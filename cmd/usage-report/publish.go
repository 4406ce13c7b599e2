package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"utility_dashboard/internal/publisher"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the monthly cost overview to MQTT",
	Long:  `Publishes one retained message per month of the range on <topic_prefix>/<yyyy-mm>/cost.`,
	RunE:  runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, logger, s, err := setup()
	if err != nil {
		return err
	}

	pub, err := publisher.New(cfg.MQTT, logger)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	n, err := pub.PublishOverview(cmd.Context(), s.Sidebar().Months)
	if err != nil {
		return fmt.Errorf("published %d months before failing: %w", n, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Published %d months\n", n)
	return nil
}
