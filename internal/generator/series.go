package generator

import (
	"sync"
	"time"

	"utility_dashboard/internal/calendar"
)

// RangeKey identifies a generated date range.
type RangeKey struct {
	Start time.Time
	End   time.Time
}

// KeyOf builds the cache key for [start, end], truncated to calendar days.
func KeyOf(start, end time.Time) RangeKey {
	return RangeKey{Start: calendar.Day(start), End: calendar.Day(end)}
}

func (k RangeKey) String() string {
	return k.Start.Format("2006-01-02") + "_" + k.End.Format("2006-01-02")
}

// BaseSeries is the random part of a generated range: daily base usage and
// the per-category daily variation multipliers. It is drawn once per range and
// reused while only preferences change.
type BaseSeries struct {
	Key        RangeKey
	Elec       []float64
	Water      []float64
	Variations map[string][]float64
}

// Len returns the number of days covered.
func (s *BaseSeries) Len() int {
	return len(s.Elec)
}

// Clone returns a deep copy.
func (s *BaseSeries) Clone() *BaseSeries {
	c := &BaseSeries{
		Key:        s.Key,
		Elec:       append([]float64(nil), s.Elec...),
		Water:      append([]float64(nil), s.Water...),
		Variations: make(map[string][]float64, len(s.Variations)),
	}
	for k, v := range s.Variations {
		c.Variations[k] = append([]float64(nil), v...)
	}
	return c
}

// SeriesCache holds the base series of a single range. Looking up a different
// range drops the cached entry.
type SeriesCache struct {
	mu     sync.Mutex
	series *BaseSeries
}

func NewSeriesCache() *SeriesCache {
	return &SeriesCache{}
}

// Get returns the cached series for key. A miss on a different key
// invalidates the cache.
func (c *SeriesCache) Get(key RangeKey) (*BaseSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.series == nil {
		return nil, false
	}
	if c.series.Key != key {
		c.series = nil
		return nil, false
	}
	return c.series, true
}

// Put replaces the cached series.
func (c *SeriesCache) Put(s *BaseSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = s
}

// Invalidate drops the cached series.
func (c *SeriesCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = nil
}

// Key returns the key of the cached series, if any.
func (c *SeriesCache) Key() (RangeKey, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.series == nil {
		return RangeKey{}, false
	}
	return c.series.Key, true
}
