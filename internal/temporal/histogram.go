// Package temporal derives per-paper citation time series: monthly
// histograms, citation velocity, burst detection and aging.
package temporal

import (
	"time"

	"github.com/matsen/citenet/internal/network"
)

// MonthCount is the number of citations received in one calendar month.
type MonthCount struct {
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

// monthStart truncates t to midnight UTC on the first of its month.
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthsBetween counts whole calendar months from a to b.
func monthsBetween(a, b time.Time) int {
	a, b = a.UTC(), b.UTC()
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// timesUpTo returns the incoming citation timestamps of id not after now.
func timesUpTo(g *network.Graph, id string, now time.Time) []time.Time {
	times := g.IncomingTimes(id)
	n := 0
	for n < len(times) && !times[n].After(now) {
		n++
	}
	return times[:n]
}

// MonthlyHistogram buckets the timestamped citations of id by calendar month,
// from the month of the first citation through the month of now, with empty
// months zero-filled. Citations after now are ignored. It returns an empty
// slice if id has no timestamped citations.
func MonthlyHistogram(g *network.Graph, id string, now time.Time) []MonthCount {
	return histogram(timesUpTo(g, id, now), now)
}

func histogram(times []time.Time, now time.Time) []MonthCount {
	if len(times) == 0 {
		return []MonthCount{}
	}
	first := monthStart(times[0])
	months := monthsBetween(first, now) + 1
	out := make([]MonthCount, months)
	for i := range out {
		out[i].Month = first.AddDate(0, i, 0)
	}
	for _, t := range times {
		out[monthsBetween(first, t)].Count++
	}
	return out
}

// Counts extracts the counts of a histogram.
func Counts(series []MonthCount) []int {
	out := make([]int, len(series))
	for i, m := range series {
		out[i] = m.Count
	}
	return out
}
