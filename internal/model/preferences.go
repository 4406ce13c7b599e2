package model

import "fmt"

// HotTubType selects how a hot tub is heated.
type HotTubType string

const (
	HotTubGeothermal HotTubType = "geothermal"
	HotTubElectric   HotTubType = "electric"
)

// Preferences are the appliance toggles owned by the UI session.
type Preferences struct {
	HasHotTub   bool       `json:"has_hot_tub"`
	HotTubType  HotTubType `json:"hot_tub_type"`
	HasEV       bool       `json:"has_ev"`
	HasHeatPump bool       `json:"has_heat_pump"`
}

// DefaultPreferences matches a household with no optional loads.
func DefaultPreferences() Preferences {
	return Preferences{HotTubType: HotTubGeothermal}
}

// ElectricHotTub reports whether an electrically heated hot tub is present.
func (p Preferences) ElectricHotTub() bool {
	return p.HasHotTub && p.HotTubType == HotTubElectric
}

// GeothermalHotTub reports whether a hot tub heated by geothermal water is present.
func (p Preferences) GeothermalHotTub() bool {
	return p.HasHotTub && p.hotTubType() == HotTubGeothermal
}

// hotTubType defaults an unset type to geothermal.
func (p Preferences) hotTubType() HotTubType {
	if p.HotTubType == "" {
		return HotTubGeothermal
	}
	return p.HotTubType
}

// Normalize fills in the default hot tub type.
func (p Preferences) Normalize() Preferences {
	p.HotTubType = p.hotTubType()
	return p
}

// Validate rejects unknown hot tub types.
func (p Preferences) Validate() error {
	switch p.hotTubType() {
	case HotTubGeothermal, HotTubElectric:
		return nil
	default:
		return &ValidationError{
			Field:   "hot_tub_type",
			Value:   string(p.HotTubType),
			Message: fmt.Sprintf("must be %q or %q", HotTubGeothermal, HotTubElectric),
		}
	}
}

// Grain is the time-bucket resolution of an aggregated table.
type Grain string

const (
	GrainDaily   Grain = "daily"
	GrainWeekly  Grain = "weekly"
	GrainMonthly Grain = "monthly"
)

// GrainLabels holds the UI labels for each grain.
var GrainLabels = map[Grain]string{
	GrainDaily:   "Daglegt",
	GrainWeekly:  "Vikulegt",
	GrainMonthly: "Mánaðarlegt",
}

// ParseGrain validates a grain name.
func ParseGrain(s string) (Grain, error) {
	g := Grain(s)
	if _, ok := GrainLabels[g]; !ok {
		return "", &ValidationError{Field: "grain", Value: s, Message: "must be daily, weekly or monthly"}
	}
	return g, nil
}
