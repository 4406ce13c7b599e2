package model

import (
	"fmt"
	"time"
)

// Utility selects one of the two metered services.
type Utility string

const (
	UtilityElectricity Utility = "elec"
	UtilityWater       Utility = "water"
)

// UtilityInfo holds display name and unit for a utility.
type UtilityInfo struct {
	Name      string
	Unit      string
	UsageName string
}

// UtilityCatalog maps every Utility to its display name and unit.
var UtilityCatalog = map[Utility]UtilityInfo{
	UtilityElectricity: {Name: "Rafmagn", Unit: "kWh", UsageName: "Rafmagnsnotkun"},
	UtilityWater:       {Name: "Heitt vatn", Unit: "m³", UsageName: "Heitavatnsnotkun"},
}

// Charges is the layered cost of one utility for one row.
type Charges struct {
	UsageCost float64 `json:"usage_cost"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
}

// DailyRecord is one row of the usage table. After aggregation a row covers
// a week or a month and every numeric column holds the bucket's sum.
type DailyRecord struct {
	Date       time.Time `json:"date"`
	ElecUsage  float64   `json:"elec_usage"`
	WaterUsage float64   `json:"water_usage"`

	// Energy holds the per-category breakdown keyed by category name.
	Energy map[string]float64 `json:"energy"`

	CostFixed        float64 `json:"cost_fixed"`
	CostEqualization float64 `json:"cost_equalization"`

	ElecUsageCost  float64 `json:"elec_usage_cost"`
	ElecTax        float64 `json:"elec_tax"`
	ElecTotal      float64 `json:"elec_total"`
	WaterUsageCost float64 `json:"water_usage_cost"`
	WaterTax       float64 `json:"water_tax"`
	WaterTotal     float64 `json:"water_total"`
}

// Usage returns the metered quantity for u.
func (r DailyRecord) Usage(u Utility) float64 {
	if u == UtilityWater {
		return r.WaterUsage
	}
	return r.ElecUsage
}

// Charges returns the cost columns for u.
func (r DailyRecord) Charges(u Utility) Charges {
	if u == UtilityWater {
		return Charges{UsageCost: r.WaterUsageCost, Tax: r.WaterTax, Total: r.WaterTotal}
	}
	return Charges{UsageCost: r.ElecUsageCost, Tax: r.ElecTax, Total: r.ElecTotal}
}

// SetCharges overwrites the cost columns for u.
func (r *DailyRecord) SetCharges(u Utility, c Charges) {
	if u == UtilityWater {
		r.WaterUsageCost, r.WaterTax, r.WaterTotal = c.UsageCost, c.Tax, c.Total
		return
	}
	r.ElecUsageCost, r.ElecTax, r.ElecTotal = c.UsageCost, c.Tax, c.Total
}

// Total is the combined electricity and water cost.
func (r DailyRecord) Total() float64 {
	return r.ElecTotal + r.WaterTotal
}

// EnergyTotal sums the category breakdown.
func (r DailyRecord) EnergyTotal() float64 {
	var sum float64
	for _, v := range r.Energy {
		sum += v
	}
	return sum
}

// Clone returns a deep copy of the record.
func (r DailyRecord) Clone() DailyRecord {
	c := r
	if r.Energy != nil {
		c.Energy = make(map[string]float64, len(r.Energy))
		for k, v := range r.Energy {
			c.Energy[k] = v
		}
	}
	return c
}

// Add sums every numeric column of o into r, including every category present
// in either record. The date is left untouched.
func (r *DailyRecord) Add(o DailyRecord) {
	r.ElecUsage += o.ElecUsage
	r.WaterUsage += o.WaterUsage
	r.CostFixed += o.CostFixed
	r.CostEqualization += o.CostEqualization
	r.ElecUsageCost += o.ElecUsageCost
	r.ElecTax += o.ElecTax
	r.ElecTotal += o.ElecTotal
	r.WaterUsageCost += o.WaterUsageCost
	r.WaterTax += o.WaterTax
	r.WaterTotal += o.WaterTotal

	if len(o.Energy) > 0 && r.Energy == nil {
		r.Energy = make(map[string]float64, len(o.Energy))
	}
	for k, v := range o.Energy {
		r.Energy[k] += v
	}
}

// Totals is a (total, electricity, water) cost triple.
type Totals struct {
	Total       float64 `json:"total"`
	Electricity float64 `json:"electricity"`
	Water       float64 `json:"water"`
}

// TotalsOf sums electricity and water totals over records.
func TotalsOf(records []DailyRecord) Totals {
	var t Totals
	for _, r := range records {
		t.Electricity += r.ElecTotal
		t.Water += r.WaterTotal
	}
	t.Total = t.Electricity + t.Water
	return t
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate rejects ranges whose start is after their end.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return &ValidationError{Field: "range", Message: "start and end dates are required"}
	}
	if r.Start.After(r.End) {
		return &ValidationError{
			Field:   "range",
			Value:   r.String(),
			Message: "start date must not be after end date",
		}
	}
	return nil
}

// Contains reports whether the calendar day t lies inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}

// DateLayout is the wire and display format for calendar dates.
const DateLayout = "2006-01-02"
