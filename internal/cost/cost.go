// Package cost turns usage quantities into layered charges: a flat daily fee,
// a monthly equalization charge spread over the days of the month, usage
// cost and tax on the usage cost.
package cost

import (
	"time"

	"utility_dashboard/internal/calendar"
	"utility_dashboard/internal/model"
)

// Tariff holds unit prices and fixed charges in kr.
type Tariff struct {
	DailyFixed          float64 `yaml:"daily_fixed"`
	MonthlyEqualization float64 `yaml:"monthly_equalization"`
	ElectricityUnit     float64 `yaml:"electricity_unit"` // kr/kWh
	WaterUnit           float64 `yaml:"water_unit"`       // kr/m³
	TaxRate             float64 `yaml:"tax_rate"`
}

func DefaultTariff() Tariff {
	return Tariff{
		DailyFixed:          100,
		MonthlyEqualization: 200,
		ElectricityUnit:     7,
		WaterUnit:           150,
		TaxRate:             0.10,
	}
}

// UnitPrice returns the price per unit of u.
func (t Tariff) UnitPrice(u model.Utility) float64 {
	if u == model.UtilityWater {
		return t.WaterUnit
	}
	return t.ElectricityUnit
}

// Equalization returns the share of the monthly equalization charge that
// falls on the calendar day d.
func (t Tariff) Equalization(d time.Time) float64 {
	return t.MonthlyEqualization / float64(calendar.DaysInMonth(d))
}

// Validate rejects negative prices and tax rates outside [0, 1].
func (t Tariff) Validate() error {
	switch {
	case t.DailyFixed < 0:
		return &model.ConfigError{Field: "tariff.daily_fixed", Message: "must not be negative"}
	case t.MonthlyEqualization < 0:
		return &model.ConfigError{Field: "tariff.monthly_equalization", Message: "must not be negative"}
	case t.ElectricityUnit < 0:
		return &model.ConfigError{Field: "tariff.electricity_unit", Message: "must not be negative"}
	case t.WaterUnit < 0:
		return &model.ConfigError{Field: "tariff.water_unit", Message: "must not be negative"}
	case t.TaxRate < 0 || t.TaxRate > 1:
		return &model.ConfigError{Field: "tariff.tax_rate", Message: "must be between 0 and 1"}
	}
	return nil
}

// Charge computes the layered charges for one row. Tax applies to the usage
// cost only.
func Charge(usage, unitPrice, taxRate, fixed, equalization float64) model.Charges {
	usageCost := usage * unitPrice
	tax := usageCost * taxRate
	return model.Charges{
		UsageCost: usageCost,
		Tax:       tax,
		Total:     fixed + equalization + usageCost + tax,
	}
}

// ApplyFixed returns a copy of records with cost_fixed and cost_equalization
// set for each day.
func (t Tariff) ApplyFixed(records []model.DailyRecord) []model.DailyRecord {
	out := make([]model.DailyRecord, len(records))
	for i, r := range records {
		r.CostFixed = t.DailyFixed
		r.CostEqualization = t.Equalization(r.Date)
		out[i] = r
	}
	return out
}

// ApplyCosts returns a copy of records with the usage cost, tax and total
// columns for u overwritten. cost_fixed and cost_equalization must already be
// set.
func ApplyCosts(records []model.DailyRecord, u model.Utility, unitPrice, taxRate float64) []model.DailyRecord {
	out := make([]model.DailyRecord, len(records))
	for i, r := range records {
		r.SetCharges(u, Charge(r.Usage(u), unitPrice, taxRate, r.CostFixed, r.CostEqualization))
		out[i] = r
	}
	return out
}

// Apply sets fixed charges and the cost columns of both utilities.
func (t Tariff) Apply(records []model.DailyRecord) []model.DailyRecord {
	out := t.ApplyFixed(records)
	out = ApplyCosts(out, model.UtilityElectricity, t.ElectricityUnit, t.TaxRate)
	return ApplyCosts(out, model.UtilityWater, t.WaterUnit, t.TaxRate)
}
