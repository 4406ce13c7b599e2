package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utility_dashboard/internal/calendar"
	"utility_dashboard/internal/generator"
	"utility_dashboard/internal/model"
)

func makeDays(start, end time.Time) []model.DailyRecord {
	var records []model.DailyRecord
	for i, d := range calendar.Days(start, end) {
		v := float64(i + 1)
		records = append(records, model.DailyRecord{
			Date:             d,
			ElecUsage:        v,
			WaterUsage:       v / 10,
			Energy:           map[string]float64{"energy_other": v / 2},
			CostFixed:        100,
			CostEqualization: 200.0 / float64(calendar.DaysInMonth(d)),
			ElecUsageCost:    v * 7,
			ElecTax:          v * 0.7,
			ElecTotal:        100 + v*7.7,
			WaterUsageCost:   v * 15,
			WaterTax:         v * 1.5,
			WaterTotal:       100 + v*16.5,
		})
	}
	return records
}

func TestAggregate_Daily(t *testing.T) {
	records := makeDays(calendar.Date(2024, time.March, 1), calendar.Date(2024, time.March, 3))
	out := Aggregate(records, model.GrainDaily)
	assert.Equal(t, records, out)

	out[0].Energy["energy_other"] = 99
	assert.Equal(t, 0.5, records[0].Energy["energy_other"])
}

func TestAggregate_WeeklyAcrossMonths(t *testing.T) {
	// 2025-01-28 is a Tuesday in ISO week 5; Feb 3 starts week 6.
	records := makeDays(calendar.Date(2025, time.January, 28), calendar.Date(2025, time.February, 6))
	out := Weekly(records)
	require.Len(t, out, 2)

	assert.Equal(t, calendar.Date(2025, time.January, 28), out[0].Date)
	assert.Equal(t, calendar.Date(2025, time.February, 3), out[1].Date)

	// Days 1..6 then 7..10
	assert.InDelta(t, 21.0, out[0].ElecUsage, 1e-9)
	assert.InDelta(t, 34.0, out[1].ElecUsage, 1e-9)
	assert.InDelta(t, 600.0, out[0].CostFixed, 1e-9)
	assert.InDelta(t, 4*200.0/31+2*200.0/28, out[0].CostEqualization, 1e-9)
}

func TestAggregate_WeeklyYearBoundary(t *testing.T) {
	// 2024-12-30 .. 2025-01-05 is ISO week 1 of 2025.
	records := makeDays(calendar.Date(2024, time.December, 28), calendar.Date(2025, time.January, 6))
	out := Weekly(records)
	require.Len(t, out, 3)
	assert.Equal(t, calendar.Date(2024, time.December, 28), out[0].Date)
	assert.Equal(t, calendar.Date(2024, time.December, 30), out[1].Date)
	assert.Equal(t, calendar.Date(2025, time.January, 6), out[2].Date)
}

func TestAggregate_Monthly(t *testing.T) {
	records := makeDays(calendar.Date(2025, time.January, 28), calendar.Date(2025, time.February, 6))
	out := Monthly(records)
	require.Len(t, out, 2)

	assert.Equal(t, calendar.Date(2025, time.January, 1), out[0].Date)
	assert.Equal(t, calendar.Date(2025, time.February, 1), out[1].Date)
	assert.InDelta(t, 1.0+2+3+4, out[0].ElecUsage, 1e-9)
	assert.InDelta(t, 5.0+6+7+8+9+10, out[1].ElecUsage, 1e-9)
	assert.InDelta(t, 6*200.0/28, out[1].CostEqualization, 1e-9)
}

func TestAggregate_PreservesSums(t *testing.T) {
	records := makeDays(calendar.Date(2024, time.November, 12), calendar.Date(2025, time.February, 20))
	want := model.DailyRecord{}
	for _, r := range records {
		want.Add(r)
	}

	for _, grain := range []model.Grain{model.GrainDaily, model.GrainWeekly, model.GrainMonthly} {
		t.Run(string(grain), func(t *testing.T) {
			got := model.DailyRecord{}
			for _, r := range Aggregate(records, grain) {
				got.Add(r)
			}
			assert.InDelta(t, want.ElecUsage, got.ElecUsage, 1e-6)
			assert.InDelta(t, want.WaterUsage, got.WaterUsage, 1e-6)
			assert.InDelta(t, want.ElecTotal, got.ElecTotal, 1e-6)
			assert.InDelta(t, want.WaterTotal, got.WaterTotal, 1e-6)
			assert.InDelta(t, want.CostEqualization, got.CostEqualization, 1e-6)
			assert.InDelta(t, want.Energy["energy_other"], got.Energy["energy_other"], 1e-6)
		})
	}
}

func TestAggregate_GeneratedCostIdentity(t *testing.T) {
	g := generator.New(generator.NewRand(5), nil)
	prefs := model.Preferences{HasEV: true, HasHotTub: true, HotTubType: model.HotTubGeothermal}
	records := g.Generate(calendar.Date(2024, time.January, 10), calendar.Date(2024, time.April, 20), prefs)
	require.Len(t, records, 102)

	elecTotals := map[model.Grain]float64{}
	for _, grain := range []model.Grain{model.GrainDaily, model.GrainWeekly, model.GrainMonthly} {
		t.Run(string(grain), func(t *testing.T) {
			rows := Aggregate(records, grain)
			require.NotEmpty(t, rows)
			for _, r := range rows {
				base := r.CostFixed + r.CostEqualization
				for _, u := range []model.Utility{model.UtilityElectricity, model.UtilityWater} {
					c := r.Charges(u)
					assert.InDelta(t, base+c.UsageCost+c.Tax, c.Total, 1e-6, "%s %s", u, r.Date.Format(time.DateOnly))
				}
				elecTotals[grain] += r.ElecTotal
			}
		})
	}

	assert.InDelta(t, elecTotals[model.GrainDaily], elecTotals[model.GrainWeekly], 1e-6)
	assert.InDelta(t, elecTotals[model.GrainDaily], elecTotals[model.GrainMonthly], 1e-6)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Weekly(nil))
	assert.Empty(t, Monthly(nil))
	assert.Empty(t, Aggregate(nil, model.GrainDaily))
}
