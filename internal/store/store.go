package store

import (
	"sort"
	"sync"
	"time"

	"utility_dashboard/internal/calendar"
	"utility_dashboard/internal/model"
)

// Key identifies one generated table.
type Key struct {
	Start time.Time
	End   time.Time
	Prefs model.Preferences
}

// KeyOf builds a key from a range and preferences, truncating the bounds to
// calendar days and filling in preference defaults.
func KeyOf(r model.DateRange, p model.Preferences) Key {
	return Key{Start: calendar.Day(r.Start), End: calendar.Day(r.End), Prefs: p.Normalize()}
}

// Range returns the key's date range.
func (k Key) Range() model.DateRange {
	return model.DateRange{Start: k.Start, End: k.End}
}

// Store holds generated daily tables in memory, one per (range, preferences).
type Store struct {
	mu     sync.RWMutex
	tables map[Key][]model.DailyRecord // sorted by date
}

func New() *Store {
	return &Store{
		tables: make(map[Key][]model.DailyRecord),
	}
}

// Put stores a copy of records under (r, p), sorted by date.
func (s *Store) Put(r model.DateRange, p model.Preferences, records []model.DailyRecord) {
	table := cloneRecords(records)
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Date.Before(table[j].Date)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[KeyOf(r, p)] = table
}

// Get returns a copy of the table stored under (r, p).
func (s *Store) Get(r model.DateRange, p model.Preferences) ([]model.DailyRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.tables[KeyOf(r, p)]
	if !ok {
		return nil, false
	}
	return cloneRecords(table), true
}

// Len returns the number of stored tables.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}

// Keys returns the keys of all stored tables, ordered by range then
// preferences.
func (s *Store) Keys() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]Key, 0, len(s.tables))
	for k := range s.tables {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		return prefsLess(a.Prefs, b.Prefs)
	})
	return keys
}

// Evict drops every table generated for r and returns how many were removed.
func (s *Store) Evict(r model.DateRange) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end := calendar.Day(r.Start), calendar.Day(r.End)
	removed := 0
	for k := range s.tables {
		if k.Start.Equal(start) && k.End.Equal(end) {
			delete(s.tables, k)
			removed++
		}
	}
	return removed
}

// Retain drops every table not generated for r and returns how many were
// removed.
func (s *Store) Retain(r model.DateRange) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end := calendar.Day(r.Start), calendar.Day(r.End)
	removed := 0
	for k := range s.tables {
		if !k.Start.Equal(start) || !k.End.Equal(end) {
			delete(s.tables, k)
			removed++
		}
	}
	return removed
}

// RecordCount returns the number of rows of the table under (r, p).
func (s *Store) RecordCount(r model.DateRange, p model.Preferences) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[KeyOf(r, p)])
}

// TimeRange returns the first and last dates present in the table under (r, p).
func (s *Store) TimeRange(r model.DateRange, p model.Preferences) (model.DateRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table := s.tables[KeyOf(r, p)]
	if len(table) == 0 {
		return model.DateRange{}, false
	}

	return model.DateRange{
		Start: table[0].Date,
		End:   table[len(table)-1].Date,
	}, true
}

// RecordsInRange returns rows of the table under (r, p) dated between start
// (inclusive) and end (exclusive).
func (s *Store) RecordsInRange(r model.DateRange, p model.Preferences, start, end time.Time) []model.DailyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.tables[KeyOf(r, p)]
	if len(all) == 0 {
		return nil
	}

	startIdx := sort.Search(len(all), func(i int) bool {
		return !all[i].Date.Before(start)
	})
	endIdx := sort.Search(len(all), func(i int) bool {
		return !all[i].Date.Before(end)
	})

	if startIdx >= endIdx {
		return nil
	}
	return cloneRecords(all[startIdx:endIdx])
}

func cloneRecords(records []model.DailyRecord) []model.DailyRecord {
	out := make([]model.DailyRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

func prefsLess(a, b model.Preferences) bool {
	if a.HasHotTub != b.HasHotTub {
		return !a.HasHotTub
	}
	if a.HotTubType != b.HotTubType {
		return a.HotTubType < b.HotTubType
	}
	if a.HasEV != b.HasEV {
		return !a.HasEV
	}
	return !a.HasHeatPump && b.HasHeatPump
}
