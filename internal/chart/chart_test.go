package chart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utility_dashboard/internal/aggregate"
	"utility_dashboard/internal/calendar"
	"utility_dashboard/internal/category"
	"utility_dashboard/internal/generator"
	"utility_dashboard/internal/model"
	"utility_dashboard/internal/session"
	"utility_dashboard/internal/summary"
)

var pngMagic = []byte("\x89PNG")

func testData(t *testing.T, grain model.Grain) Data {
	t.Helper()
	gen := generator.New(generator.NewRand(generator.DefaultSeed), nil)
	prefs := model.DefaultPreferences()
	daily := gen.Generate(calendar.Date(2025, 1, 1), calendar.Date(2025, 2, 28), prefs)
	shown := aggregate.Aggregate(daily, grain)

	return Data{
		Table: session.Table{Grain: grain, Records: shown},
		Summary: session.Summary{
			Electricity: summary.Compare(shown, model.UtilityElectricity),
			Water:       summary.Compare(shown, model.UtilityWater),
			Energy:      summary.EnergyBreakdown(daily, gen.Catalog(), gen.Tariff()),
			HotWater:    summary.WaterBreakdown(daily, category.DefaultWater(), prefs, gen.Tariff()),
		},
	}
}

func TestRender_EachChartIsPNG(t *testing.T) {
	r := NewRenderer()
	d := testData(t, model.GrainWeekly)

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			buf, err := r.Render(name, d)
			require.NoError(t, err)
			require.Greater(t, len(buf), len(pngMagic))
			assert.Equal(t, pngMagic, buf[:len(pngMagic)])
		})
	}
}

func TestRender_UnknownChart(t *testing.T) {
	_, err := NewRenderer().Render("pie", testData(t, model.GrainDaily))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown chart")
}

func TestRender_EmptyTable(t *testing.T) {
	_, err := NewRenderer().Render(ElectricityCost, Data{})
	assert.Error(t, err)

	_, err = NewRenderer().Render(EnergyBreakdown, Data{})
	assert.Error(t, err)
}

func TestRenderAll(t *testing.T) {
	out, err := NewRenderer().RenderAll(context.Background(), testData(t, model.GrainMonthly))
	require.NoError(t, err)
	assert.Len(t, out, len(Names()))
	for _, name := range Names() {
		assert.NotEmpty(t, out[name], name)
	}
}

func TestRenderAll_FailsOnEmptyData(t *testing.T) {
	out, err := NewRenderer().RenderAll(context.Background(), Data{})
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestLabels(t *testing.T) {
	rows := []model.DailyRecord{{Date: calendar.Date(2025, 1, 27)}, {Date: calendar.Date(2025, 2, 1)}}

	tests := []struct {
		grain model.Grain
		want  []string
	}{
		{model.GrainDaily, []string{"27. jan", "1. feb"}},
		{model.GrainWeekly, []string{"v05 2025", "v05 2025"}},
		{model.GrainMonthly, []string{"jan 2025", "feb 2025"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.grain), func(t *testing.T) {
			assert.Equal(t, tt.want, Labels(session.Table{Grain: tt.grain, Records: rows}))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(WaterBreakdown))
	assert.False(t, Valid("water"))
}
