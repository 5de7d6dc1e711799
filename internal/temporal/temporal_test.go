package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/citenet/internal/network/networktest"
)

func TestMonthlyHistogram(t *testing.T) {
	now := time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC)
	g := networktest.New().
		Papers("P", "a", "b", "c", "d", "e").
		CiteAt("a", "P", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)).
		CiteAt("b", "P", time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)).
		CiteAt("c", "P", time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)).
		CiteAt("d", "P", time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)).
		Cite("e", "P").
		Graph()

	series := MonthlyHistogram(g, "P", now)
	require.Len(t, series, 4)
	assert.Equal(t, []int{2, 0, 1, 0}, Counts(series))
	assert.Equal(t, networktest.Month(2024, time.January), series[0].Month)
	assert.Equal(t, networktest.Month(2024, time.April), series[3].Month)

	empty := MonthlyHistogram(g, "a", now)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestVelocityFor(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	counts := make([]int, 12)
	for i := range counts {
		counts[i] = 2
	}
	g := networktest.New().
		Paper("P", 2022).
		CitedMonthly("P", networktest.Month(2023, time.July), counts).
		Graph()

	v := VelocityFor(g, "P", now)
	assert.Equal(t, 24, v.TotalCitations)
	assert.Equal(t, 29, v.MonthsSincePublication)
	assert.InDelta(t, 24.0/29.0, v.Overall, 1e-12)
	assert.Equal(t, 24, v.RecentCitations)
	assert.InDelta(t, 2.0, v.Recent, 1e-12)
	assert.InDelta(t, 2.0-24.0/29.0, v.Acceleration, 1e-12)
	assert.Equal(t, TrendAccelerating, v.Trend)
	assert.Len(t, v.Monthly, 12)
}

func TestVelocityFor_UnknownYear(t *testing.T) {
	now := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	g := networktest.New().
		Paper("Q", 0).
		CitedMonthly("Q", networktest.Month(2024, time.January), []int{3}).
		Graph()

	v := VelocityFor(g, "Q", now)
	assert.Equal(t, 2, v.MonthsSincePublication)
	assert.InDelta(t, 1.5, v.Overall, 1e-12)
	assert.InDelta(t, 0.25, v.Recent, 1e-12)
	assert.Equal(t, TrendDecelerating, v.Trend)
	assert.Equal(t, []int{3, 0, 0}, Counts(v.Monthly))
}

func TestVelocityFor_NoCitations(t *testing.T) {
	g := networktest.New().Papers("Z").Graph()
	v := VelocityFor(g, "Z", time.Now())
	assert.Zero(t, v.TotalCitations)
	assert.Zero(t, v.Overall)
	assert.Zero(t, v.Acceleration)
	assert.Equal(t, TrendStable, v.Trend)
}

func TestDetectBursts(t *testing.T) {
	tests := []struct {
		name        string
		counts      []int
		baseline    float64
		bursts      []Burst
		active      bool
		probability float64
	}{
		{
			name:     "two month spike is not a burst",
			counts:   []int{1, 1, 1, 8, 8, 1, 1},
			baseline: 1,
			bursts:   []Burst{},
			// Trailing six months average 20/6.
			probability: 1,
		},
		{
			name:        "three month burst",
			counts:      []int{1, 1, 8, 8, 8, 1, 1},
			baseline:    1,
			bursts:      []Burst{{Start: 2, End: 4, Duration: 3, Peak: 8, Intensity: 8}},
			probability: 1,
		},
		{
			name:        "active burst",
			counts:      []int{1, 1, 1, 1, 5, 6, 7},
			baseline:    1,
			bursts:      []Burst{{Start: 4, End: 6, Duration: 3, Peak: 7, Intensity: 7}},
			active:      true,
			probability: 1,
		},
		{
			name:        "flat series",
			counts:      []int{2, 2, 2, 2, 2, 2},
			baseline:    2,
			bursts:      []Burst{},
			probability: 0,
		},
		{
			name:        "partial probability",
			counts:      []int{1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2},
			baseline:    1,
			bursts:      []Burst{},
			probability: 0.5,
		},
		{
			name:        "zero median floored at one",
			counts:      []int{0, 0, 0, 0, 3, 3, 3, 0},
			baseline:    1,
			bursts:      []Burst{{Start: 4, End: 6, Duration: 3, Peak: 3, Intensity: 3}},
			probability: 0.25,
		},
		{
			name:     "empty",
			counts:   nil,
			baseline: 1,
			bursts:   []Burst{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DetectBursts(tt.counts)
			assert.Equal(t, tt.baseline, r.Baseline)
			assert.Equal(t, 2*tt.baseline, r.Threshold)
			assert.Equal(t, tt.bursts, r.Bursts)
			assert.Equal(t, tt.active, r.Active())
			if tt.active {
				assert.Equal(t, tt.bursts[len(tt.bursts)-1], *r.Current)
			}
			assert.InDelta(t, tt.probability, r.Probability, 1e-12)
		})
	}
}

func TestBurstsFor(t *testing.T) {
	now := time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)
	g := networktest.New().
		Paper("P", 2023).
		CitedMonthly("P", networktest.Month(2024, time.January), []int{1, 1, 8, 8, 8, 1, 1}).
		Graph()

	r := BurstsFor(g, "P", now)
	require.Len(t, r.Bursts, 1)
	b := r.Bursts[0]
	assert.Equal(t, 3, b.Duration)
	assert.Equal(t, 8.0, b.Intensity)
	assert.Equal(t, networktest.Month(2024, time.March), b.StartMonth)
	assert.Equal(t, networktest.Month(2024, time.May), b.EndMonth)
	assert.False(t, r.Active())
}

func TestAgingOf_HalfLife(t *testing.T) {
	const y = 2010
	a := AgingOf(y, map[int]int{y: 0, y + 1: 10, y + 2: 0}, y+3)
	assert.Equal(t, 1, a.HalfLife)
	assert.Equal(t, 3, a.Age)
	assert.Equal(t, []int{0, 10, 0, 0}, a.Yearly)
	assert.Equal(t, 1, a.PeakYear)
	assert.Equal(t, PatternImmediate, a.Pattern)
	assert.Equal(t, PhaseDeclining, a.Phase)
}

func TestAgingOf_Pattern(t *testing.T) {
	tests := []struct {
		name    string
		byYear  map[int]int
		refYear int
		want    string
	}{
		{"immediate", map[int]int{2001: 10, 2005: 2}, 2010, PatternImmediate},
		{"delayed", map[int]int{2001: 1, 2007: 10}, 2010, PatternDelayed},
		{"classic", map[int]int{2003: 5, 2004: 10, 2010: 1}, 2020, PatternClassic},
		{"sustained", map[int]int{2004: 10, 2008: 9}, 2010, PatternSustained},
		{"uncited", map[int]int{}, 2010, PatternUncited},
		{"only future citations", map[int]int{2011: 4}, 2010, PatternUncited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgingOf(2000, tt.byYear, tt.refYear).Pattern)
		})
	}
}

func TestAgingOf_Phase(t *testing.T) {
	tests := []struct {
		name   string
		byYear map[int]int
		want   string
	}{
		{"dormant", map[int]int{2000: 10}, PhaseDormant},
		{"uncited", map[int]int{}, PhaseDormant},
		{"peak", map[int]int{2003: 10, 2004: 10, 2005: 10}, PhasePeak},
		{"rising", map[int]int{2004: 2, 2005: 10}, PhaseRising},
		{"declining", map[int]int{2003: 10, 2004: 3, 2005: 2}, PhaseDeclining},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgingOf(2000, tt.byYear, 2005).Phase)
		})
	}
}

func TestAgingOf_Bounds(t *testing.T) {
	a := AgingOf(2000, map[int]int{1999: 2, 2011: 5}, 2010)
	assert.Equal(t, 2, a.Yearly[0])
	assert.Equal(t, 2, a.TotalCitations)
	assert.Len(t, a.Yearly, 11)

	future := AgingOf(2030, map[int]int{2024: 1}, 2024)
	assert.Zero(t, future.Age)
	assert.Equal(t, []int{1}, future.Yearly)
}

func TestAgingFor(t *testing.T) {
	now := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	g := networktest.New().
		Paper("P", 2022).
		Paper("U", 0).
		CitedMonthly("P", networktest.Month(2023, time.January), []int{4}).
		Graph()

	a, ok := AgingFor(g, "P", now)
	require.True(t, ok)
	assert.Equal(t, []int{0, 4, 0}, a.Yearly)
	assert.Equal(t, 1, a.HalfLife)

	_, ok = AgingFor(g, "U", now)
	assert.False(t, ok)
	_, ok = AgingFor(g, "missing", now)
	assert.False(t, ok)
}
