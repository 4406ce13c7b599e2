package ws

import (
	"encoding/json"

	"utility_dashboard/internal/model"
	"utility_dashboard/internal/session"
	"utility_dashboard/internal/summary"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client -> Server messages

type SetRangePayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type PreferencesPayload struct {
	HasHotTub   bool   `json:"has_hot_tub"`
	HotTubType  string `json:"hot_tub_type"`
	HasEV       bool   `json:"has_ev"`
	HasHeatPump bool   `json:"has_heat_pump"`
}

type SetGrainPayload struct {
	Grain string `json:"grain"`
}

// Server -> Client messages

type SessionStatePayload struct {
	Start       string             `json:"start"`
	End         string             `json:"end"`
	Preferences PreferencesPayload `json:"preferences"`
	Grain       string             `json:"grain"`
	GrainLabel  string             `json:"grain_label"`
	Days        int                `json:"days"`
}

type RecordPayload struct {
	Date             string             `json:"date"`
	ElecUsage        float64            `json:"elec_usage"`
	WaterUsage       float64            `json:"water_usage"`
	Energy           map[string]float64 `json:"energy"`
	CostFixed        float64            `json:"cost_fixed"`
	CostEqualization float64            `json:"cost_equalization"`
	ElecUsageCost    float64            `json:"elec_usage_cost"`
	ElecTax          float64            `json:"elec_tax"`
	ElecTotal        float64            `json:"elec_total"`
	WaterUsageCost   float64            `json:"water_usage_cost"`
	WaterTax         float64            `json:"water_tax"`
	WaterTotal       float64            `json:"water_total"`
}

type TablePayload struct {
	Grain   string          `json:"grain"`
	Records []RecordPayload `json:"records"`
}

type MonthCardPayload struct {
	Month       string  `json:"month"`
	Label       string  `json:"label"`
	Total       float64 `json:"total"`
	Electricity float64 `json:"electricity"`
	Water       float64 `json:"water"`
	TotalText   string  `json:"total_text"`
}

type ChangeTextPayload struct {
	Total       string `json:"total"`
	Electricity string `json:"electricity"`
	Water       string `json:"water"`
}

type MonthOverviewPayload struct {
	MonthCardPayload
	HasPrior   bool              `json:"has_prior"`
	Change     summary.Change    `json:"change"`
	ChangeText ChangeTextPayload `json:"change_text"`
}

type SidebarPayload struct {
	LastMonth    MonthCardPayload       `json:"last_month"`
	CurrentMonth MonthCardPayload       `json:"current_month"`
	Months       []MonthOverviewPayload `json:"months"`
}

type SummaryPayload struct {
	Sidebar          SidebarPayload     `json:"sidebar"`
	Electricity      summary.Comparison `json:"electricity"`
	Water            summary.Comparison `json:"water"`
	ElectricityZones summary.Bands      `json:"electricity_zones"`
	WaterZones       summary.Bands      `json:"water_zones"`
	Energy           summary.Breakdown  `json:"energy"`
	HotWater         summary.Breakdown  `json:"hot_water"`
}

type ErrorPayload struct {
	Request string `json:"request"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Message type constants
const (
	// Client -> Server
	TypeRangeSet       = "range:set"
	TypePreferencesSet = "preferences:set"
	TypeGrainSet       = "grain:set"
	TypeSessionRefresh = "session:refresh"

	// Server -> Client
	TypeSessionState  = "session:state"
	TypeTableUpdate   = "table:update"
	TypeSummaryUpdate = "summary:update"
	TypeError         = "error"
)

const monthLayout = "2006-01"

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

func (p PreferencesPayload) Preferences() model.Preferences {
	return model.Preferences{
		HasHotTub:   p.HasHotTub,
		HotTubType:  model.HotTubType(p.HotTubType),
		HasEV:       p.HasEV,
		HasHeatPump: p.HasHeatPump,
	}
}

func PreferencesFromModel(p model.Preferences) PreferencesPayload {
	return PreferencesPayload{
		HasHotTub:   p.HasHotTub,
		HotTubType:  string(p.HotTubType),
		HasEV:       p.HasEV,
		HasHeatPump: p.HasHeatPump,
	}
}

func StateFromSession(s session.State) SessionStatePayload {
	p := SessionStatePayload{
		Preferences: PreferencesFromModel(s.Preferences),
		Grain:       string(s.Grain),
		GrainLabel:  model.GrainLabels[s.Grain],
		Days:        s.Days,
	}
	if !s.Range.Start.IsZero() {
		p.Start = s.Range.Start.Format(model.DateLayout)
		p.End = s.Range.End.Format(model.DateLayout)
	}
	return p
}

func RecordFromModel(r model.DailyRecord) RecordPayload {
	return RecordPayload{
		Date:             r.Date.Format(model.DateLayout),
		ElecUsage:        r.ElecUsage,
		WaterUsage:       r.WaterUsage,
		Energy:           r.Energy,
		CostFixed:        r.CostFixed,
		CostEqualization: r.CostEqualization,
		ElecUsageCost:    r.ElecUsageCost,
		ElecTax:          r.ElecTax,
		ElecTotal:        r.ElecTotal,
		WaterUsageCost:   r.WaterUsageCost,
		WaterTax:         r.WaterTax,
		WaterTotal:       r.WaterTotal,
	}
}

func TableFromSession(t session.Table) TablePayload {
	records := make([]RecordPayload, len(t.Records))
	for i, r := range t.Records {
		records[i] = RecordFromModel(r)
	}
	return TablePayload{Grain: string(t.Grain), Records: records}
}

func monthCard(c session.MonthCard) MonthCardPayload {
	return MonthCardPayload{
		Month:       c.Month.Format(monthLayout),
		Label:       c.Label,
		Total:       c.Totals.Total,
		Electricity: c.Totals.Electricity,
		Water:       c.Totals.Water,
		TotalText:   summary.FormatKr(c.Totals.Total),
	}
}

func monthOverview(m summary.MonthOverview) MonthOverviewPayload {
	p := MonthOverviewPayload{
		MonthCardPayload: monthCard(session.MonthCard{Month: m.Month, Label: m.Label, Totals: m.Totals}),
		HasPrior:         m.HasPrior,
		Change:           m.Change,
	}
	if m.HasPrior {
		p.ChangeText = ChangeTextPayload{
			Total:       summary.FormatChange(m.Change.Total),
			Electricity: summary.FormatChange(m.Change.Electricity),
			Water:       summary.FormatChange(m.Change.Water),
		}
	}
	return p
}

func SummaryFromSession(s session.Summary) SummaryPayload {
	months := make([]MonthOverviewPayload, len(s.Sidebar.Months))
	for i, m := range s.Sidebar.Months {
		months[i] = monthOverview(m)
	}
	return SummaryPayload{
		Sidebar: SidebarPayload{
			LastMonth:    monthCard(s.Sidebar.LastMonth),
			CurrentMonth: monthCard(s.Sidebar.CurrentMonth),
			Months:       months,
		},
		Electricity:      s.Electricity,
		Water:            s.Water,
		ElectricityZones: s.ElectricityZones,
		WaterZones:       s.WaterZones,
		Energy:           s.Energy,
		HotWater:         s.HotWater,
	}
}
