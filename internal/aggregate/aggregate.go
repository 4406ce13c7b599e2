// Package aggregate rolls daily usage rows up into weekly and monthly buckets.
package aggregate

import (
	"time"

	"utility_dashboard/internal/calendar"
	"utility_dashboard/internal/model"
)

// Aggregate groups records by grain and sums every numeric column. Buckets
// keep the order of their first appearance. A weekly bucket is dated by the
// first day it contains; a monthly bucket by the 1st of its month. Daily
// returns a copy of records. The input is never modified.
func Aggregate(records []model.DailyRecord, grain model.Grain) []model.DailyRecord {
	switch grain {
	case model.GrainWeekly:
		return group(records, func(d time.Time) any { return calendar.ISOWeekKey(d) }, firstDate)
	case model.GrainMonthly:
		return group(records, func(d time.Time) any { return calendar.MonthKeyOf(d) }, calendar.StartOfMonth)
	default:
		out := make([]model.DailyRecord, len(records))
		for i, r := range records {
			out[i] = r.Clone()
		}
		return out
	}
}

// Weekly is Aggregate with GrainWeekly.
func Weekly(records []model.DailyRecord) []model.DailyRecord {
	return Aggregate(records, model.GrainWeekly)
}

// Monthly is Aggregate with GrainMonthly.
func Monthly(records []model.DailyRecord) []model.DailyRecord {
	return Aggregate(records, model.GrainMonthly)
}

func firstDate(d time.Time) time.Time { return d }

func group(records []model.DailyRecord, key func(time.Time) any, date func(time.Time) time.Time) []model.DailyRecord {
	out := []model.DailyRecord{}
	index := make(map[any]int)

	for _, r := range records {
		k := key(r.Date)
		i, ok := index[k]
		if !ok {
			bucket := model.DailyRecord{Date: date(r.Date), Energy: map[string]float64{}}
			out = append(out, bucket)
			i = len(out) - 1
			index[k] = i
		}
		out[i].Add(r)
	}

	return out
}
