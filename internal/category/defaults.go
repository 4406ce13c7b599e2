package category

import "utility_dashboard/internal/model"

// Energy category names referenced outside the catalog.
const (
	EnergyEV      = "energy_ev"
	EnergyHotTub  = "energy_hot_tub"
	EnergyHeating = "energy_heating"
	WaterHotTub   = "water_hot_tub"
)

// DefaultEnergy is the electricity breakdown in kWh over a reporting period.
func DefaultEnergy() Catalog {
	e := model.UtilityElectricity
	return Catalog{
		{Name: EnergyEV, Label: "Rafbíll", Utility: e, Total: 266, Gate: GateEV},
		{Name: EnergyHotTub, Label: "Heitur pottur", Utility: e, Total: 213, Gate: GateElectricHotTub},
		{Name: "energy_refrigerator", Label: "Ísskápur", Utility: e, Total: 40, Season: SeasonCooling},
		{Name: "energy_freezer", Label: "Frystir", Utility: e, Total: 53, Season: SeasonCooling},
		{Name: "energy_cooker", Label: "Helluborð", Utility: e, Total: 32},
		{Name: "energy_dishwasher", Label: "Uppþvottavél", Utility: e, Total: 26},
		{Name: "energy_washing_machine", Label: "Þvottavél", Utility: e, Total: 21},
		{Name: "energy_dryer", Label: "Þurrkari", Utility: e, Total: 66},
		{Name: "energy_lighting", Label: "Lýsing", Utility: e, Total: 26},
		{Name: EnergyHeating, Label: "Ofn", Utility: e, Total: 80, Season: SeasonHeating},
		{Name: "energy_other", Label: "Annað", Utility: e, Total: 53},
	}
}

// DefaultWater is the hot water breakdown in m³ over a reporting period.
func DefaultWater() Catalog {
	w := model.UtilityWater
	return Catalog{
		{Name: WaterHotTub, Label: "Heitur pottur", Utility: w, Total: 180, Gate: GateGeothermalHotTub},
		{Name: "water_shower", Label: "Sturta", Utility: w, Total: 150},
		{Name: "water_radiators", Label: "Ofnar", Utility: w, Total: 120},
		{Name: "water_faucets", Label: "Kranar", Utility: w, Total: 60},
		{Name: "water_dishwasher", Label: "Uppþvottavél", Utility: w, Total: 30},
		{Name: "water_washing_machine", Label: "Þvottavél", Utility: w, Total: 24},
		{Name: "water_floor_heating", Label: "Gólfhiti", Utility: w, Total: 36},
	}
}
