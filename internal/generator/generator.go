// Package generator synthesizes plausible daily electricity and hot water
// usage for a date range, broken down into named energy categories whose sum
// over the range reproduces the configured totals.
package generator

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"utility_dashboard/internal/calendar"
	"utility_dashboard/internal/category"
	"utility_dashboard/internal/cost"
	"utility_dashboard/internal/model"
)

// DefaultSeed seeds the random source when none is supplied.
const DefaultSeed uint64 = 42

// NormalizeMode selects how category columns are rescaled to their totals.
type NormalizeMode string

const (
	// NormalizeGlobal rescales every category cell by one factor so the grand
	// total over the range equals the sum of the active configured totals.
	NormalizeGlobal NormalizeMode = "global"
	// NormalizePerCategory rescales each active category to its own total.
	NormalizePerCategory NormalizeMode = "per_category"
)

// ParseNormalizeMode validates a mode name. The empty string selects global.
func ParseNormalizeMode(s string) (NormalizeMode, error) {
	switch NormalizeMode(s) {
	case "", NormalizeGlobal:
		return NormalizeGlobal, nil
	case NormalizePerCategory:
		return NormalizePerCategory, nil
	default:
		return "", fmt.Errorf("unknown normalize mode %q", s)
	}
}

// Adjustments are flat per-day load changes driven by preferences. EV and
// electric hot tub load enter electricity through their category columns
// only.
type Adjustments struct {
	GeothermalHotTubDailyM3  float64 `yaml:"geothermal_hot_tub_daily_m3"`
	HeatPumpElecReductionKWh float64 `yaml:"heat_pump_elec_reduction_kwh"`
	HeatPumpWaterReductionM3 float64 `yaml:"heat_pump_water_reduction_m3"`
}

// DefaultAdjustments returns the stock per-day preference deltas.
func DefaultAdjustments() Adjustments {
	return Adjustments{
		GeothermalHotTubDailyM3:  0.2,
		HeatPumpElecReductionKWh: 3.0,
		HeatPumpWaterReductionM3: 0.05,
	}
}

// Elec returns the flat daily electricity delta for p.
func (a Adjustments) Elec(p model.Preferences) float64 {
	if p.HasHeatPump {
		return -a.HeatPumpElecReductionKWh
	}
	return 0
}

// Water returns the flat daily hot water delta for p.
func (a Adjustments) Water(p model.Preferences) float64 {
	var delta float64
	if p.GeothermalHotTub() {
		delta += a.GeothermalHotTubDailyM3
	}
	if p.HasHeatPump {
		delta -= a.HeatPumpWaterReductionM3
	}
	return delta
}

// Distribution parameterizes the random draws.
type Distribution struct {
	ElecMean     float64 `yaml:"elec_mean"`
	ElecStdDev   float64 `yaml:"elec_stddev"`
	WaterMean    float64 `yaml:"water_mean"`
	WaterStdDev  float64 `yaml:"water_stddev"`
	VariationMin float64 `yaml:"variation_min"`
	VariationMax float64 `yaml:"variation_max"`
}

// DefaultDistribution returns the stock draw parameters.
func DefaultDistribution() Distribution {
	return Distribution{
		ElecMean:     15,
		ElecStdDev:   3,
		WaterMean:    0.3,
		WaterStdDev:  0.05,
		VariationMin: 0.8,
		VariationMax: 1.2,
	}
}

// Generator produces daily usage tables. It is safe for concurrent use, but
// its output depends on call order because every cache miss consumes the
// shared random source.
type Generator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	cache   *SeriesCache
	catalog category.Catalog
	seasons category.SeasonFactors
	adjust  Adjustments
	dist    Distribution
	tariff  cost.Tariff
	mode    NormalizeMode
}

// Option configures a Generator.
type Option func(*Generator)

func WithCatalog(c category.Catalog) Option {
	return func(g *Generator) { g.catalog = c }
}

func WithSeasons(f category.SeasonFactors) Option {
	return func(g *Generator) { g.seasons = f }
}

func WithAdjustments(a Adjustments) Option {
	return func(g *Generator) { g.adjust = a }
}

func WithDistribution(d Distribution) Option {
	return func(g *Generator) { g.dist = d }
}

func WithTariff(t cost.Tariff) Option {
	return func(g *Generator) { g.tariff = t }
}

func WithNormalizeMode(m NormalizeMode) Option {
	return func(g *Generator) { g.mode = m }
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// New creates a generator. A nil rng is replaced by one seeded with
// DefaultSeed and a nil cache by an empty one.
func New(rng *rand.Rand, cache *SeriesCache, opts ...Option) *Generator {
	if rng == nil {
		rng = NewRand(DefaultSeed)
	}
	if cache == nil {
		cache = NewSeriesCache()
	}
	g := &Generator{
		rng:     rng,
		cache:   cache,
		catalog: category.DefaultEnergy(),
		seasons: category.DefaultSeasonFactors(),
		adjust:  DefaultAdjustments(),
		dist:    DefaultDistribution(),
		tariff:  cost.DefaultTariff(),
		mode:    NormalizeGlobal,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Catalog returns the energy categories the generator fills.
func (g *Generator) Catalog() category.Catalog {
	return g.catalog
}

// Tariff returns the tariff applied to generated rows.
func (g *Generator) Tariff() cost.Tariff {
	return g.tariff
}

// Cache returns the base series cache.
func (g *Generator) Cache() *SeriesCache {
	return g.cache
}

// Series returns a copy of the base series for [start, end], drawing it if
// the cache holds a different range.
func (g *Generator) Series(start, end time.Time) *BaseSeries {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.series(calendar.Days(start, end)).Clone()
}

// Generate builds the daily table for [start, end] under prefs. The caller is
// responsible for rejecting start > end; such a range yields an empty table.
func (g *Generator) Generate(start, end time.Time, prefs model.Preferences) []model.DailyRecord {
	days := calendar.Days(start, end)
	if len(days) == 0 {
		return []model.DailyRecord{}
	}

	g.mu.Lock()
	base := g.series(days)
	g.mu.Unlock()

	energy := g.categoryColumns(days, base, prefs)
	elecDelta := g.adjust.Elec(prefs)
	waterDelta := g.adjust.Water(prefs)

	records := make([]model.DailyRecord, len(days))
	for i, d := range days {
		row := make(map[string]float64, len(g.catalog))
		var categorySum float64
		for _, c := range g.catalog {
			v := energy[c.Name][i]
			row[c.Name] = v
			categorySum += v
		}

		records[i] = model.DailyRecord{
			Date:       d,
			ElecUsage:  clampZero(base.Elec[i] + elecDelta + categorySum),
			WaterUsage: clampZero(base.Water[i] + waterDelta),
			Energy:     row,
		}
	}

	return g.tariff.Apply(records)
}

// series returns the cached base series for days or draws a new one.
// Must be called with mu held.
func (g *Generator) series(days []time.Time) *BaseSeries {
	if len(days) == 0 {
		return &BaseSeries{Variations: map[string][]float64{}}
	}
	key := KeyOf(days[0], days[len(days)-1])
	if s, ok := g.cache.Get(key); ok && s.Len() == len(days) {
		return s
	}

	s := &BaseSeries{
		Key:        key,
		Elec:       make([]float64, len(days)),
		Water:      make([]float64, len(days)),
		Variations: make(map[string][]float64, len(g.catalog)),
	}
	for i, d := range days {
		s.Elec[i] = g.normal(g.dist.ElecMean, g.dist.ElecStdDev) * g.seasons.Electricity(d.Month())
	}
	for i, d := range days {
		s.Water[i] = g.normal(g.dist.WaterMean, g.dist.WaterStdDev) * g.seasons.Water(d.Month())
	}
	for _, c := range g.catalog {
		v := make([]float64, len(days))
		for i := range v {
			v[i] = g.uniform(g.dist.VariationMin, g.dist.VariationMax)
		}
		s.Variations[c.Name] = v
	}

	g.cache.Put(s)
	return s
}

// categoryColumns computes the normalized per-day value of every category.
// Inactive categories are all zeros.
func (g *Generator) categoryColumns(days []time.Time, base *BaseSeries, prefs model.Preferences) map[string][]float64 {
	n := float64(len(days))
	cols := make(map[string][]float64, len(g.catalog))

	for _, c := range g.catalog {
		col := make([]float64, len(days))
		cols[c.Name] = col
		if !c.Gate.Open(prefs) {
			continue
		}
		daily := c.Total / n
		variation := base.Variations[c.Name]
		for i, d := range days {
			col[i] = daily * variation[i] * g.seasons.Category(c.Season, d.Month())
		}
	}

	switch g.mode {
	case NormalizePerCategory:
		for _, c := range g.catalog.Active(prefs) {
			rescale(cols[c.Name], c.Total, sum(cols[c.Name]))
		}
	default:
		var achieved float64
		for _, c := range g.catalog {
			achieved += sum(cols[c.Name])
		}
		if achieved > 0 {
			factor := g.catalog.ActiveTotal(prefs) / achieved
			for _, c := range g.catalog {
				scale(cols[c.Name], factor)
			}
		}
	}

	return cols
}

func (g *Generator) normal(mean, stddev float64) float64 {
	return mean + stddev*g.rng.NormFloat64()
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}

func rescale(col []float64, target, achieved float64) {
	if achieved <= 0 {
		return
	}
	scale(col, target/achieved)
}

func scale(col []float64, factor float64) {
	for i := range col {
		col[i] *= factor
	}
}

func sum(col []float64) float64 {
	var s float64
	for _, v := range col {
		s += v
	}
	return s
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
