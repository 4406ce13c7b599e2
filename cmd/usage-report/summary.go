package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"utility_dashboard/internal/model"
	"utility_dashboard/internal/session"
	"utility_dashboard/internal/summary"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print month totals, comparisons and breakdowns",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	_, _, s, err := setup()
	if err != nil {
		return err
	}
	return printSummary(cmd.OutOrStdout(), s.State(), s.Summary())
}

func printSummary(out io.Writer, state session.State, sum session.Summary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Tímabil:\t%s\t(%d dagar)\n", state.Range, state.Days)
	fmt.Fprintf(w, "Síðasti mánuður (%s):\t%s\n", sum.Sidebar.LastMonth.Label, summary.FormatKr(sum.Sidebar.LastMonth.Totals.Total))
	fmt.Fprintf(w, "Núverandi mánuður (%s):\t%s\n", sum.Sidebar.CurrentMonth.Label, summary.FormatKr(sum.Sidebar.CurrentMonth.Totals.Total))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Mánuður\tSamtals\tRafmagn\tHeitt vatn\tBreyting")
	for _, m := range sum.Sidebar.Months {
		change := "-"
		if m.HasPrior {
			change = summary.FormatChange(m.Change.Total)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.Label,
			summary.FormatKr(m.Totals.Total),
			summary.FormatKr(m.Totals.Electricity),
			summary.FormatKr(m.Totals.Water),
			change)
	}
	fmt.Fprintln(w)

	for _, c := range []summary.Comparison{sum.Electricity, sum.Water} {
		info := model.UtilityCatalog[c.Utility]
		fmt.Fprintf(w, "%s:\tsamtals %s\tmeðaltal %s\thverfi %s\thúsagerð %s\n", info.Name,
			summary.FormatKr(c.PeriodTotal),
			summary.FormatKr(c.Average),
			summary.FormatKr(c.Neighbourhood),
			summary.FormatKr(c.HomeType))
	}
	fmt.Fprintln(w)

	for _, b := range []summary.Breakdown{sum.Energy, sum.HotWater} {
		info := model.UtilityCatalog[b.Utility]
		fmt.Fprintf(w, "%s eftir flokkum\t\t%s\n", info.UsageName, summary.FormatKr(b.Total))
		for _, it := range b.Items {
			fmt.Fprintf(w, "  %s\t%.2f %s\t%s\n", it.Label, it.Usage, info.Unit, summary.FormatKr(it.Cost))
		}
	}

	return w.Flush()
}
