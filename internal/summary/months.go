// Package summary derives month totals, month-over-month changes, usage
// comparisons and category breakdowns from a usage table.
package summary

import (
	"sort"
	"time"

	"utility_dashboard/internal/aggregate"
	"utility_dashboard/internal/calendar"
	"utility_dashboard/internal/model"
)

// MonthToDate sums the rows of year/month up to and including day. A month
// with no rows yields zero totals.
func MonthToDate(records []model.DailyRecord, year int, month time.Month, day int) model.Totals {
	return totalsWhere(records, func(d time.Time) bool {
		return d.Year() == year && d.Month() == month && d.Day() <= day
	})
}

// MonthTotals sums every row of year/month.
func MonthTotals(records []model.DailyRecord, year int, month time.Month) model.Totals {
	return totalsWhere(records, func(d time.Time) bool {
		return d.Year() == year && d.Month() == month
	})
}

// CurrentMonth sums the rows of now's month up to now.
func CurrentMonth(records []model.DailyRecord, now time.Time) model.Totals {
	return MonthToDate(records, now.Year(), now.Month(), now.Day())
}

// LastFullMonth sums the calendar month before now's month.
func LastFullMonth(records []model.DailyRecord, now time.Time) model.Totals {
	m := calendar.LastFullMonth(now)
	return MonthTotals(records, m.Year(), m.Month())
}

// PreviousMonth sums the month before the last full month.
func PreviousMonth(records []model.DailyRecord, now time.Time) model.Totals {
	m := calendar.PreviousMonth(calendar.LastFullMonth(now))
	return MonthTotals(records, m.Year(), m.Month())
}

func totalsWhere(records []model.DailyRecord, keep func(time.Time) bool) model.Totals {
	var t model.Totals
	for _, r := range records {
		if !keep(r.Date) {
			continue
		}
		t.Electricity += r.ElecTotal
		t.Water += r.WaterTotal
	}
	t.Total = t.Electricity + t.Water
	return t
}

// MonthTotal is one row of the monthly rollup.
type MonthTotal struct {
	Month  time.Time    `json:"month"`
	Label  string       `json:"label"`
	Totals model.Totals `json:"totals"`
}

// Monthly rolls records up by calendar month in ascending order.
func Monthly(records []model.DailyRecord) []MonthTotal {
	rows := aggregate.Monthly(records)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	out := make([]MonthTotal, len(rows))
	for i, r := range rows {
		out[i] = MonthTotal{
			Month: r.Date,
			Label: calendar.FormatMonth(r.Date),
			Totals: model.Totals{
				Total:       r.ElecTotal + r.WaterTotal,
				Electricity: r.ElecTotal,
				Water:       r.WaterTotal,
			},
		}
	}
	return out
}

// Change holds percent changes against a prior month.
type Change struct {
	Total       float64 `json:"total"`
	Electricity float64 `json:"electricity"`
	Water       float64 `json:"water"`
}

// MonthOverview is a monthly rollup row paired with its change against the
// month listed after it.
type MonthOverview struct {
	MonthTotal
	Change   Change `json:"change"`
	HasPrior bool   `json:"has_prior"`
}

// MonthlyOverview lists months newest first. Each month is compared with the
// next older month present in the table; the oldest has no prior.
func MonthlyOverview(records []model.DailyRecord) []MonthOverview {
	months := Monthly(records)
	out := make([]MonthOverview, 0, len(months))

	for i := len(months) - 1; i >= 0; i-- {
		row := MonthOverview{MonthTotal: months[i]}
		if i > 0 {
			cur, prev := months[i].Totals, months[i-1].Totals
			row.HasPrior = true
			row.Change = Change{
				Total:       PercentChange(cur.Total, prev.Total),
				Electricity: PercentChange(cur.Electricity, prev.Electricity),
				Water:       PercentChange(cur.Water, prev.Water),
			}
		}
		out = append(out, row)
	}
	return out
}

// PercentChange returns the change from previous to current in percent, or 0
// when previous is 0.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current/previous - 1) * 100
}
