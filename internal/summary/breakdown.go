package summary

import (
	"sort"

	"utility_dashboard/internal/category"
	"utility_dashboard/internal/cost"
	"utility_dashboard/internal/model"
)

// Item is one category of a usage breakdown.
type Item struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Usage float64 `json:"usage"`
	Cost  float64 `json:"cost"`
}

// Breakdown is a category breakdown sorted by cost, highest first.
type Breakdown struct {
	Utility model.Utility `json:"utility"`
	Items   []Item        `json:"items"`
	Total   float64       `json:"total"`
}

// EnergyBreakdown sums each energy category over records and prices it at
// the electricity unit price including tax. Categories with no usage are
// left out.
func EnergyBreakdown(records []model.DailyRecord, catalog category.Catalog, tariff cost.Tariff) Breakdown {
	usage := make(map[string]float64, len(catalog))
	for _, r := range records {
		for name, v := range r.Energy {
			usage[name] += v
		}
	}

	price := tariff.UnitPrice(model.UtilityElectricity) * (1 + tariff.TaxRate)
	b := Breakdown{Utility: model.UtilityElectricity}
	for _, c := range catalog {
		v := usage[c.Name]
		if v <= 0 {
			continue
		}
		b.add(Item{Name: c.Name, Label: c.Label, Usage: v, Cost: v * price})
	}
	b.sortByCost()
	return b
}

// WaterBreakdown apportions the hot water used over records across the water
// categories active under prefs, in proportion to their configured totals.
func WaterBreakdown(records []model.DailyRecord, catalog category.Catalog, prefs model.Preferences, tariff cost.Tariff) Breakdown {
	var used float64
	for _, r := range records {
		used += r.WaterUsage
	}

	b := Breakdown{Utility: model.UtilityWater}
	active := catalog.Active(prefs)
	weight := active.Total()
	if used <= 0 || weight <= 0 {
		return b
	}

	price := tariff.UnitPrice(model.UtilityWater) * (1 + tariff.TaxRate)
	for _, c := range active {
		v := used * c.Total / weight
		if v <= 0 {
			continue
		}
		b.add(Item{Name: c.Name, Label: c.Label, Usage: v, Cost: v * price})
	}
	b.sortByCost()
	return b
}

func (b *Breakdown) add(it Item) {
	b.Items = append(b.Items, it)
	b.Total += it.Cost
}

func (b *Breakdown) sortByCost() {
	sort.SliceStable(b.Items, func(i, j int) bool { return b.Items[i].Cost > b.Items[j].Cost })
}
