// Package category defines the named sub-components of household usage and
// their configured totals over a reporting period.
package category

import (
	"time"

	"utility_dashboard/internal/model"
)

// Season selects the seasonal shaping applied to a category's daily values.
type Season string

const (
	SeasonNone    Season = "none"
	SeasonHeating Season = "heating" // follows the electricity seasonal factor
	SeasonCooling Season = "cooling" // boosted in summer
)

// Gate ties a category to a preference flag.
type Gate string

const (
	GateNone             Gate = "none"
	GateEV               Gate = "ev"
	GateElectricHotTub   Gate = "electric_hot_tub"
	GateGeothermalHotTub Gate = "geothermal_hot_tub"
)

// Open reports whether the gate admits the category under p.
func (g Gate) Open(p model.Preferences) bool {
	switch g {
	case GateEV:
		return p.HasEV
	case GateElectricHotTub:
		return p.ElectricHotTub()
	case GateGeothermalHotTub:
		return p.GeothermalHotTub()
	default:
		return true
	}
}

// Descriptor describes one category.
type Descriptor struct {
	Name    string        `yaml:"name" json:"name"`
	Label   string        `yaml:"label" json:"label"`
	Utility model.Utility `yaml:"utility" json:"utility"`
	Total   float64       `yaml:"total" json:"total"`
	Season  Season        `yaml:"season,omitempty" json:"season,omitempty"`
	Gate    Gate          `yaml:"gate,omitempty" json:"gate,omitempty"`
}

// Gated reports whether the category depends on a preference flag.
func (d Descriptor) Gated() bool {
	return d.Gate != "" && d.Gate != GateNone
}

// Catalog is an ordered list of category descriptors.
type Catalog []Descriptor

// Active returns the descriptors whose gate is open under p.
func (c Catalog) Active(p model.Preferences) Catalog {
	active := make(Catalog, 0, len(c))
	for _, d := range c {
		if d.Gate.Open(p) {
			active = append(active, d)
		}
	}
	return active
}

// Total sums every configured total, active or not.
func (c Catalog) Total() float64 {
	var sum float64
	for _, d := range c {
		sum += d.Total
	}
	return sum
}

// ActiveTotal sums the configured totals of the categories active under p.
func (c Catalog) ActiveTotal(p model.Preferences) float64 {
	return c.Active(p).Total()
}

// Names returns category names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, d := range c {
		names[i] = d.Name
	}
	return names
}

// Lookup finds a descriptor by name.
func (c Catalog) Lookup(name string) (Descriptor, bool) {
	for _, d := range c {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Validate rejects empty names, duplicates and negative totals.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c))
	for _, d := range c {
		if d.Name == "" {
			return &model.ConfigError{Field: "categories", Message: "category name is required"}
		}
		if seen[d.Name] {
			return &model.ConfigError{Field: "categories", Message: "duplicate category " + d.Name}
		}
		seen[d.Name] = true
		if d.Total < 0 {
			return &model.ConfigError{Field: "categories", Message: "negative total for " + d.Name}
		}
	}
	return nil
}

// SeasonFactors holds the month multipliers used by the generator.
type SeasonFactors struct {
	ElecWinter    float64 `yaml:"elec_winter"`
	ElecShoulder  float64 `yaml:"elec_shoulder"`
	WaterWinter   float64 `yaml:"water_winter"`
	WaterShoulder float64 `yaml:"water_shoulder"`
	SummerCool    float64 `yaml:"summer_cooling"`
}

// DefaultSeasonFactors returns the illustrative Icelandic seasonal shape.
func DefaultSeasonFactors() SeasonFactors {
	return SeasonFactors{
		ElecWinter:    1.5,
		ElecShoulder:  1.2,
		WaterWinter:   1.3,
		WaterShoulder: 1.1,
		SummerCool:    1.2,
	}
}

func isWinter(m time.Month) bool {
	return m == time.December || m == time.January || m == time.February
}

func isShoulder(m time.Month) bool {
	return m == time.March || m == time.April || m == time.October || m == time.November
}

func isSummer(m time.Month) bool {
	return m == time.June || m == time.July || m == time.August
}

// Electricity returns the electricity multiplier for month m.
func (f SeasonFactors) Electricity(m time.Month) float64 {
	switch {
	case isWinter(m):
		return f.ElecWinter
	case isShoulder(m):
		return f.ElecShoulder
	default:
		return 1.0
	}
}

// Water returns the hot water multiplier for month m.
func (f SeasonFactors) Water(m time.Month) float64 {
	switch {
	case isWinter(m):
		return f.WaterWinter
	case isShoulder(m):
		return f.WaterShoulder
	default:
		return 1.0
	}
}

// Category returns the multiplier for a category with the given season in month m.
func (f SeasonFactors) Category(s Season, m time.Month) float64 {
	switch s {
	case SeasonHeating:
		return f.Electricity(m)
	case SeasonCooling:
		if isSummer(m) {
			return f.SummerCool
		}
		return 1.0
	default:
		return 1.0
	}
}
