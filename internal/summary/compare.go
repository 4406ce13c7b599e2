package summary

import (
	"math"

	"utility_dashboard/internal/model"
)

// Reference households are modelled as fixed ratios of the user's own mean.
const (
	NeighbourhoodRatio = 1.15
	HomeTypeRatio      = 0.9
)

// Comparison sets the period cost of one utility against reference averages.
type Comparison struct {
	Utility         model.Utility `json:"utility"`
	PeriodTotal     float64       `json:"period_total"`
	Average         float64       `json:"average"`
	Neighbourhood   float64       `json:"neighbourhood"`
	HomeType        float64       `json:"home_type"`
	VsNeighbourhood float64       `json:"vs_neighbourhood"`
	VsHomeType      float64       `json:"vs_home_type"`
}

// Compare summarizes u's total cost over records. Average is per row, so it
// follows the grain of the table passed in.
func Compare(records []model.DailyRecord, u model.Utility) Comparison {
	c := Comparison{Utility: u}
	if len(records) == 0 {
		return c
	}

	for _, r := range records {
		c.PeriodTotal += r.Charges(u).Total
	}
	c.Average = c.PeriodTotal / float64(len(records))
	c.Neighbourhood = c.Average * NeighbourhoodRatio
	c.HomeType = c.Average * HomeTypeRatio
	c.VsNeighbourhood = PercentChange(c.Average, c.Neighbourhood)
	c.VsHomeType = PercentChange(c.Average, c.HomeType)
	return c
}

// Zone is a traffic-light band of a cost chart.
type Zone string

const (
	ZoneGreen  Zone = "green"
	ZoneYellow Zone = "yellow"
	ZoneRed    Zone = "red"
)

// Band boundaries as fractions of the chart's y range.
const (
	greenFraction  = 0.55
	yellowFraction = 0.8
	headroom       = 1.1
)

// Bands are the traffic-light boundaries of a cost chart.
type Bands struct {
	Max       float64 `json:"max"`
	GreenMax  float64 `json:"green_max"`
	YellowMax float64 `json:"yellow_max"`
}

// Zones derives the bands for u from the largest row total, with 10 %
// headroom and a y range of at least 1.
func Zones(records []model.DailyRecord, u model.Utility) Bands {
	var peak float64
	for _, r := range records {
		peak = math.Max(peak, r.Charges(u).Total)
	}
	top := math.Max(peak*headroom, 1)
	return Bands{
		Max:       top,
		GreenMax:  top * greenFraction,
		YellowMax: top * yellowFraction,
	}
}

// Classify returns the zone v falls into.
func (b Bands) Classify(v float64) Zone {
	switch {
	case v <= b.GreenMax:
		return ZoneGreen
	case v <= b.YellowMax:
		return ZoneYellow
	default:
		return ZoneRed
	}
}
