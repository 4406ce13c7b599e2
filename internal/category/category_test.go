package category

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utility_dashboard/internal/model"
)

func TestDefaultEnergy_Totals(t *testing.T) {
	c := DefaultEnergy()
	require.NoError(t, c.Validate())
	assert.InDelta(t, 876.0, c.Total(), 1e-9)

	none := model.DefaultPreferences()
	assert.InDelta(t, 876.0-266-213, c.ActiveTotal(none), 1e-9)

	ev := model.Preferences{HasEV: true}
	assert.InDelta(t, 876.0-213, c.ActiveTotal(ev), 1e-9)

	all := model.Preferences{HasEV: true, HasHotTub: true, HotTubType: model.HotTubElectric}
	assert.InDelta(t, 876.0, c.ActiveTotal(all), 1e-9)
}

func TestDefaultWater_Totals(t *testing.T) {
	c := DefaultWater()
	require.NoError(t, c.Validate())
	assert.InDelta(t, 600.0, c.Total(), 1e-9)

	geo := model.Preferences{HasHotTub: true, HotTubType: model.HotTubGeothermal}
	assert.Len(t, c.Active(geo), 7)
	assert.Len(t, c.Active(model.DefaultPreferences()), 6)
}

func TestGate_Open(t *testing.T) {
	tests := []struct {
		name string
		gate Gate
		pref model.Preferences
		want bool
	}{
		{"none always open", GateNone, model.Preferences{}, true},
		{"empty gate open", "", model.Preferences{}, true},
		{"ev closed", GateEV, model.Preferences{}, false},
		{"ev open", GateEV, model.Preferences{HasEV: true}, true},
		{"electric tub needs type", GateElectricHotTub, model.Preferences{HasHotTub: true}, false},
		{"electric tub open", GateElectricHotTub, model.Preferences{HasHotTub: true, HotTubType: model.HotTubElectric}, true},
		{"geothermal tub default type", GateGeothermalHotTub, model.Preferences{HasHotTub: true}, true},
		{"geothermal tub without tub", GateGeothermalHotTub, model.Preferences{HotTubType: model.HotTubGeothermal}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.gate.Open(tt.pref))
		})
	}
}

func TestCatalog_Lookup(t *testing.T) {
	c := DefaultEnergy()
	d, ok := c.Lookup(EnergyHeating)
	require.True(t, ok)
	assert.Equal(t, SeasonHeating, d.Season)
	assert.False(t, d.Gated())

	d, ok = c.Lookup(EnergyEV)
	require.True(t, ok)
	assert.True(t, d.Gated())

	_, ok = c.Lookup("energy_sauna")
	assert.False(t, ok)
	assert.Equal(t, EnergyEV, c.Names()[0])
}

func TestCatalog_Validate(t *testing.T) {
	assert.Error(t, Catalog{{Name: ""}}.Validate())
	assert.Error(t, Catalog{{Name: "a", Total: 1}, {Name: "a", Total: 2}}.Validate())
	assert.Error(t, Catalog{{Name: "a", Total: -1}}.Validate())
}

func TestSeasonFactors(t *testing.T) {
	f := DefaultSeasonFactors()

	assert.Equal(t, 1.5, f.Electricity(time.February))
	assert.Equal(t, 1.2, f.Electricity(time.October))
	assert.Equal(t, 1.0, f.Electricity(time.July))

	assert.Equal(t, 1.3, f.Water(time.December))
	assert.Equal(t, 1.1, f.Water(time.April))
	assert.Equal(t, 1.0, f.Water(time.May))

	assert.Equal(t, 1.5, f.Category(SeasonHeating, time.January))
	assert.Equal(t, 1.2, f.Category(SeasonCooling, time.July))
	assert.Equal(t, 1.0, f.Category(SeasonCooling, time.January))
	assert.Equal(t, 1.0, f.Category(SeasonNone, time.January))
}
