package summary

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatKr renders an amount in whole krónur, e.g. "12,345 kr.".
func FormatKr(v float64) string {
	return humanize.Comma(int64(math.Round(v))) + " kr."
}

// FormatChange renders a percent change with a direction arrow.
func FormatChange(pct float64) string {
	switch {
	case pct > 0:
		return fmt.Sprintf("↑ %.1f%%", pct)
	case pct < 0:
		return fmt.Sprintf("↓ %.1f%%", -pct)
	default:
		return "0%"
	}
}
