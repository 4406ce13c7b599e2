// Package session owns the state of one interactive dashboard session: the
// selected date range, preferences and grain, plus the tables derived from
// them. Every change is pushed to a Callback.
package session

import (
	"fmt"
	"sync"
	"time"

	"utility_dashboard/internal/aggregate"
	"utility_dashboard/internal/calendar"
	"utility_dashboard/internal/category"
	"utility_dashboard/internal/generator"
	"utility_dashboard/internal/logging"
	"utility_dashboard/internal/model"
	"utility_dashboard/internal/store"
	"utility_dashboard/internal/summary"
)

// State is the session's current selection.
type State struct {
	Range       model.DateRange   `json:"range"`
	Preferences model.Preferences `json:"preferences"`
	Grain       model.Grain       `json:"grain"`
	Days        int               `json:"days"`
}

// Table is the usage table at the selected grain.
type Table struct {
	Grain   model.Grain         `json:"grain"`
	Records []model.DailyRecord `json:"records"`
}

// MonthCard is a labelled month total shown in the sidebar.
type MonthCard struct {
	Month  time.Time    `json:"month"`
	Label  string       `json:"label"`
	Totals model.Totals `json:"totals"`
}

// Sidebar holds the month summaries of the session.
type Sidebar struct {
	LastMonth    MonthCard               `json:"last_month"`
	CurrentMonth MonthCard               `json:"current_month"`
	Months       []summary.MonthOverview `json:"months"`
}

// Summary is everything derived from the current tables besides the table
// itself.
type Summary struct {
	Sidebar          Sidebar            `json:"sidebar"`
	Electricity      summary.Comparison `json:"electricity"`
	Water            summary.Comparison `json:"water"`
	ElectricityZones summary.Bands      `json:"electricity_zones"`
	WaterZones       summary.Bands      `json:"water_zones"`
	Energy           summary.Breakdown  `json:"energy"`
	HotWater         summary.Breakdown  `json:"hot_water"`
}

// Callback receives session events.
type Callback interface {
	OnState(state State)
	OnTable(table Table)
	OnSummary(summary Summary)
}

// Session is safe for concurrent use. Operations are serialized; callbacks
// run after the lock is released.
type Session struct {
	mu       sync.Mutex
	gen      *generator.Generator
	fallback *generator.Generator
	store    *store.Store
	callback Callback
	logger   *logging.Logger
	water    category.Catalog
	now      func() time.Time

	rng   model.DateRange
	prefs model.Preferences
	grain model.Grain
	daily []model.DailyRecord
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the session's notion of today.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithLogger(l *logging.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithFallbackGenerator sets the generator used to synthesize the last full
// month when the selected range does not cover it. It must not share its
// series cache with the main generator.
func WithFallbackGenerator(g *generator.Generator) Option {
	return func(s *Session) { s.fallback = g }
}

// WithWaterCatalog sets the water categories used for the hot water breakdown.
func WithWaterCatalog(c category.Catalog) Option {
	return func(s *Session) { s.water = c }
}

// nopCallback discards events for sessions driven without a client, such as
// the report command.
type nopCallback struct{}

func (nopCallback) OnState(State)     {}
func (nopCallback) OnTable(Table)     {}
func (nopCallback) OnSummary(Summary) {}

// New creates a session. A nil callback discards events.
func New(gen *generator.Generator, st *store.Store, cb Callback, opts ...Option) *Session {
	if cb == nil {
		cb = nopCallback{}
	}
	s := &Session{
		gen:      gen,
		store:    st,
		callback: cb,
		logger:   logging.Discard(),
		water:    category.DefaultWater(),
		now:      time.Now,
		prefs:    model.DefaultPreferences(),
		grain:    model.GrainDaily,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fallback == nil {
		s.fallback = generator.New(nil, nil,
			generator.WithCatalog(gen.Catalog()),
			generator.WithTariff(gen.Tariff()),
		)
	}
	s.logger = s.logger.WithComponent("session")
	return s
}

// DefaultRange runs from the first day of the last full month to today.
func DefaultRange(now time.Time) model.DateRange {
	return model.DateRange{
		Start: calendar.LastFullMonth(now),
		End:   calendar.Day(now),
	}
}

// Init selects the default range and broadcasts the initial state.
func (s *Session) Init() error {
	return s.SetRange(DefaultRange(s.now()))
}

// State returns the current selection.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		Range:       s.rng,
		Preferences: s.prefs,
		Grain:       s.grain,
		Days:        len(s.daily),
	}
}

// validateRange rejects empty, inverted and future ranges.
func (s *Session) validateRange(r model.DateRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	today := calendar.Day(s.now())
	if calendar.Day(r.End).After(today) {
		return &model.ValidationError{
			Field:   "range",
			Value:   r.String(),
			Message: fmt.Sprintf("end date must not be after %s", today.Format(model.DateLayout)),
		}
	}
	return nil
}

// SetRange selects a new date range and regenerates the daily table. An
// invalid range is rejected and leaves the session unchanged.
func (s *Session) SetRange(r model.DateRange) error {
	if err := s.validateRange(r); err != nil {
		return err
	}
	r = model.DateRange{Start: calendar.Day(r.Start), End: calendar.Day(r.End)}

	s.mu.Lock()
	if r != s.rng {
		evicted := s.store.Retain(r)
		s.gen.Cache().Invalidate()
		s.logger.Debug("range changed", "range", r.String(), "evicted_tables", evicted)
	}
	s.rng = r
	s.refreshLocked()
	s.mu.Unlock()

	s.broadcastAll()
	return nil
}

// SetPreferences changes the preference flags. The base series of the
// current range is reused.
func (s *Session) SetPreferences(p model.Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.prefs = p.Normalize()
	if !s.rng.Start.IsZero() {
		s.refreshLocked()
	}
	s.mu.Unlock()

	s.broadcastAll()
	return nil
}

// SetGrain changes the aggregation grain. The daily table is not touched.
func (s *Session) SetGrain(g model.Grain) error {
	g, err := model.ParseGrain(string(g))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.grain = g
	s.mu.Unlock()

	s.broadcastState()
	s.broadcastTable()
	s.broadcastSummary()
	return nil
}

// Refresh re-sends the current state, table and summary.
func (s *Session) Refresh() {
	s.broadcastAll()
}

// refreshLocked loads or generates the daily table for the current range
// and preferences. Must be called with mu held.
func (s *Session) refreshLocked() {
	start := time.Now()
	if records, ok := s.store.Get(s.rng, s.prefs); ok {
		s.daily = records
		s.logger.LogGeneration(s.rng.String(), len(records), true, time.Since(start))
		return
	}

	records := s.gen.Generate(s.rng.Start, s.rng.End, s.prefs)
	s.store.Put(s.rng, s.prefs, records)
	s.daily = records
	s.logger.LogGeneration(s.rng.String(), len(records), false, time.Since(start))
}

// Daily returns a copy of the daily table.
func (s *Session) Daily() []model.DailyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecords(s.daily)
}

// Table returns the table at the selected grain.
func (s *Session) Table() Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Table{Grain: s.grain, Records: aggregate.Aggregate(s.daily, s.grain)}
}

// Sidebar computes the month summaries. The last full month comes from the
// daily table when it has rows for it, otherwise from a table generated for
// that month alone.
func (s *Session) Sidebar() Sidebar {
	s.mu.Lock()
	daily := s.daily
	prefs := s.prefs
	rng := s.rng
	now := s.now()
	s.mu.Unlock()

	last := calendar.LastFullMonth(now)
	var lastTotals model.Totals
	if covered := s.store.RecordsInRange(rng, prefs, last, calendar.NextMonth(last)); len(covered) > 0 {
		lastTotals = model.TotalsOf(covered)
	} else {
		start, end := calendar.MonthRange(last)
		lastTotals = summary.LastFullMonth(s.fallback.Generate(start, end, prefs), now)
	}

	return Sidebar{
		LastMonth: MonthCard{
			Month:  last,
			Label:  calendar.FormatMonthTitle(last),
			Totals: lastTotals,
		},
		CurrentMonth: MonthCard{
			Month:  calendar.StartOfMonth(now),
			Label:  calendar.FormatMonthTitle(now),
			Totals: summary.CurrentMonth(daily, now),
		},
		Months: summary.MonthlyOverview(daily),
	}
}

// Summary computes the sidebar, comparisons and breakdowns.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	daily := s.daily
	grain := s.grain
	prefs := s.prefs
	s.mu.Unlock()

	shown := aggregate.Aggregate(daily, grain)
	tariff := s.gen.Tariff()

	return Summary{
		Sidebar:          s.Sidebar(),
		Electricity:      summary.Compare(shown, model.UtilityElectricity),
		Water:            summary.Compare(shown, model.UtilityWater),
		ElectricityZones: summary.Zones(shown, model.UtilityElectricity),
		WaterZones:       summary.Zones(shown, model.UtilityWater),
		Energy:           summary.EnergyBreakdown(daily, s.gen.Catalog(), tariff),
		HotWater:         summary.WaterBreakdown(daily, s.water, prefs, tariff),
	}
}

func (s *Session) broadcastAll() {
	s.broadcastState()
	s.broadcastTable()
	s.broadcastSummary()
}

func (s *Session) broadcastState() {
	s.callback.OnState(s.State())
}

func (s *Session) broadcastTable() {
	s.callback.OnTable(s.Table())
}

func (s *Session) broadcastSummary() {
	s.callback.OnSummary(s.Summary())
}

func cloneRecords(records []model.DailyRecord) []model.DailyRecord {
	out := make([]model.DailyRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
