// Package chart renders the dashboard charts as PNG images.
package chart

import (
	"context"
	"fmt"
	"slices"
	"sync"

	charts "github.com/vicanso/go-charts/v2"
	"golang.org/x/sync/errgroup"

	"utility_dashboard/internal/calendar"
	"utility_dashboard/internal/model"
	"utility_dashboard/internal/session"
	"utility_dashboard/internal/summary"
)

// Chart names, also used as file and URL stems.
const (
	ElectricityCost    = "electricity-cost"
	WaterCost          = "water-cost"
	ElectricityCompare = "electricity-compare"
	WaterCompare       = "water-compare"
	EnergyBreakdown    = "energy-breakdown"
	WaterBreakdown     = "water-breakdown"
)

// Names lists every chart Render knows.
func Names() []string {
	return []string{
		ElectricityCost,
		WaterCost,
		ElectricityCompare,
		WaterCompare,
		EnergyBreakdown,
		WaterBreakdown,
	}
}

// Data is the input of every chart: the table as shown and its summary.
type Data struct {
	Table   session.Table
	Summary session.Summary
}

// Renderer holds the shared look of the charts.
type Renderer struct {
	theme  string
	width  int
	height int
}

func NewRenderer() *Renderer {
	return &Renderer{
		theme:  "light",
		width:  1200,
		height: 400,
	}
}

// Render draws the chart called name.
func (r *Renderer) Render(name string, d Data) ([]byte, error) {
	switch name {
	case ElectricityCost:
		return r.costChart(d.Table, model.UtilityElectricity)
	case WaterCost:
		return r.costChart(d.Table, model.UtilityWater)
	case ElectricityCompare:
		return r.compareChart(d.Table, d.Summary.Electricity)
	case WaterCompare:
		return r.compareChart(d.Table, d.Summary.Water)
	case EnergyBreakdown:
		return r.breakdownChart("Orkunotkun eftir flokkum", d.Summary.Energy)
	case WaterBreakdown:
		return r.breakdownChart("Heitavatnsnotkun eftir flokkum", d.Summary.HotWater)
	default:
		return nil, fmt.Errorf("unknown chart %q", name)
	}
}

// RenderAll draws every chart concurrently. The first failure cancels the
// rest.
func (r *Renderer) RenderAll(ctx context.Context, d Data) (map[string][]byte, error) {
	var mu sync.Mutex
	out := make(map[string][]byte, len(Names()))

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range Names() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := r.Render(name, d)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", name, err)
			}
			mu.Lock()
			out[name] = buf
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// costChart draws one bar series per cost layer.
func (r *Renderer) costChart(t session.Table, u model.Utility) ([]byte, error) {
	if len(t.Records) == 0 {
		return nil, fmt.Errorf("no rows to chart")
	}

	fixed := make([]float64, len(t.Records))
	equalization := make([]float64, len(t.Records))
	usage := make([]float64, len(t.Records))
	tax := make([]float64, len(t.Records))
	for i, rec := range t.Records {
		c := rec.Charges(u)
		fixed[i] = rec.CostFixed
		equalization[i] = rec.CostEqualization
		usage[i] = c.UsageCost
		tax[i] = c.Tax
	}

	info := model.UtilityCatalog[u]
	p, err := charts.BarRender(
		[][]float64{fixed, equalization, usage, tax},
		r.common(info.Name+" kostnaður (kr)", Labels(t), []string{"Fast gjald", "Jöfnunargjald", "Notkun", "Skattur"})...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render cost chart: %w", err)
	}
	return encode(p)
}

func (r *Renderer) compareChart(t session.Table, c summary.Comparison) ([]byte, error) {
	if len(t.Records) == 0 {
		return nil, fmt.Errorf("no rows to chart")
	}

	own := make([]float64, len(t.Records))
	neighbourhood := make([]float64, len(t.Records))
	homeType := make([]float64, len(t.Records))
	for i, rec := range t.Records {
		own[i] = rec.Charges(c.Utility).Total
		neighbourhood[i] = c.Neighbourhood
		homeType[i] = c.HomeType
	}

	info := model.UtilityCatalog[c.Utility]
	p, err := charts.LineRender(
		[][]float64{own, neighbourhood, homeType},
		r.common(info.Name+": samanburður (kr)", Labels(t), []string{"Þín notkun", "Meðaltal hverfis", "Meðaltal húsagerðar"})...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render comparison chart: %w", err)
	}
	return encode(p)
}

func (r *Renderer) breakdownChart(title string, b summary.Breakdown) ([]byte, error) {
	if len(b.Items) == 0 {
		return nil, fmt.Errorf("no categories to chart")
	}

	labels := make([]string, len(b.Items))
	costs := make([]float64, len(b.Items))
	for i, it := range b.Items {
		labels[i] = it.Label
		costs[i] = it.Cost
	}

	p, err := charts.BarRender([][]float64{costs}, r.common(title+" (kr)", labels, nil)...)
	if err != nil {
		return nil, fmt.Errorf("failed to render breakdown chart: %w", err)
	}
	return encode(p)
}

func (r *Renderer) common(title string, xLabels, legend []string) []charts.OptionFunc {
	opts := []charts.OptionFunc{
		charts.PNGTypeOption(),
		charts.TitleTextOptionFunc(title),
		charts.XAxisDataOptionFunc(xLabels),
		charts.ThemeOptionFunc(r.theme),
		charts.WidthOptionFunc(r.width),
		charts.HeightOptionFunc(r.height),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	}
	if len(legend) > 0 {
		opts = append(opts, charts.LegendLabelsOptionFunc(legend, charts.PositionRight))
	}
	return opts
}

func encode(p *charts.Painter) ([]byte, error) {
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// Labels returns x-axis labels for the rows of t: day and month for daily
// rows, ISO week for weekly rows, short month and year for monthly rows.
func Labels(t session.Table) []string {
	labels := make([]string, len(t.Records))
	for i, rec := range t.Records {
		switch t.Grain {
		case model.GrainWeekly:
			k := calendar.ISOWeekKey(rec.Date)
			labels[i] = fmt.Sprintf("v%02d %d", k.Week, k.Year)
		case model.GrainMonthly:
			labels[i] = fmt.Sprintf("%s %d", calendar.MonthShort(rec.Date.Month()), rec.Date.Year())
		default:
			labels[i] = fmt.Sprintf("%d. %s", rec.Date.Day(), calendar.MonthShort(rec.Date.Month()))
		}
	}
	return labels
}

// Valid reports whether name is a known chart.
func Valid(name string) bool {
	return slices.Contains(Names(), name)
}
