package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"utility_dashboard/internal/calendar"
)

func TestSeriesCache(t *testing.T) {
	c := NewSeriesCache()
	jan := KeyOf(calendar.Date(2024, time.January, 1), calendar.Date(2024, time.January, 31))
	feb := KeyOf(calendar.Date(2024, time.February, 1), calendar.Date(2024, time.February, 29))

	_, ok := c.Get(jan)
	assert.False(t, ok)

	c.Put(&BaseSeries{Key: jan, Elec: []float64{1}, Water: []float64{2}})
	s, ok := c.Get(jan)
	assert.True(t, ok)
	assert.Equal(t, 1, s.Len())

	// A different key drops the entry.
	_, ok = c.Get(feb)
	assert.False(t, ok)
	_, ok = c.Key()
	assert.False(t, ok)

	c.Put(&BaseSeries{Key: feb})
	c.Invalidate()
	_, ok = c.Get(feb)
	assert.False(t, ok)
}

func TestKeyOf_TruncatesToDay(t *testing.T) {
	a := KeyOf(time.Date(2024, 3, 1, 13, 45, 0, 0, time.UTC), time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC))
	b := KeyOf(calendar.Date(2024, time.March, 1), calendar.Date(2024, time.March, 5))
	assert.Equal(t, b, a)
	assert.Equal(t, "2024-03-01_2024-03-05", a.String())
}

func TestBaseSeries_Clone(t *testing.T) {
	s := &BaseSeries{Elec: []float64{1}, Water: []float64{2}, Variations: map[string][]float64{"a": {3}}}
	c := s.Clone()
	c.Elec[0] = 9
	c.Variations["a"][0] = 9
	assert.Equal(t, 1.0, s.Elec[0])
	assert.Equal(t, 3.0, s.Variations["a"][0])
}
