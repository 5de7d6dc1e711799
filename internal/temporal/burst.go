package temporal

import (
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/matsen/citenet/internal/network"
)

const (
	// burstFactor is the multiple of the baseline a month must exceed.
	burstFactor = 2.0
	// minBurstMonths is the shortest run of bursting months reported.
	minBurstMonths = 3
	// probabilityWindow is the number of trailing months averaged for the
	// burst probability.
	probabilityWindow = 6
)

// Burst is a run of consecutive months above the burst threshold. Start and
// End are inclusive indexes into the analysed series.
type Burst struct {
	Start      int       `json:"start"`
	End        int       `json:"end"`
	StartMonth time.Time `json:"start_month,omitzero"`
	EndMonth   time.Time `json:"end_month,omitzero"`
	Duration   int       `json:"duration"`
	Peak       int       `json:"peak"`
	Intensity  float64   `json:"intensity"`
}

// BurstReport is the outcome of burst detection over one series.
type BurstReport struct {
	Baseline    float64 `json:"baseline"`
	Threshold   float64 `json:"threshold"`
	Bursts      []Burst `json:"bursts"`
	Current     *Burst  `json:"current,omitempty"`
	Probability float64 `json:"probability"`
}

// Active reports whether a burst reaches the final month of the series.
func (r BurstReport) Active() bool { return r.Current != nil }

// DetectBursts scans monthly counts for bursts. The baseline is the median
// count, floored at 1. A month bursts when its count exceeds twice the
// baseline, and only runs of at least three bursting months are reported.
// Bursts lists every qualifying run in order; a run that reaches the last
// month is also returned as Current. Probability is the clamped ratio
// (avg6/baseline - 1) / 2 over the trailing six months.
func DetectBursts(counts []int) BurstReport {
	r := BurstReport{Baseline: 1, Bursts: []Burst{}}
	if len(counts) > 0 {
		sorted := make([]float64, len(counts))
		for i, c := range counts {
			sorted[i] = float64(c)
		}
		slices.Sort(sorted)
		r.Baseline = max(1, stat.Quantile(0.5, stat.Empirical, sorted, nil))
	}
	r.Threshold = burstFactor * r.Baseline

	start := -1
	closeRun := func(end int) {
		if start < 0 {
			return
		}
		if end-start+1 >= minBurstMonths {
			b := Burst{Start: start, End: end, Duration: end - start + 1}
			for _, c := range counts[start : end+1] {
				b.Peak = max(b.Peak, c)
			}
			b.Intensity = float64(b.Peak) / r.Baseline
			r.Bursts = append(r.Bursts, b)
			if end == len(counts)-1 {
				current := b
				r.Current = &current
			}
		}
		start = -1
	}
	for i, c := range counts {
		if float64(c) > r.Threshold {
			if start < 0 {
				start = i
			}
			continue
		}
		closeRun(i - 1)
	}
	closeRun(len(counts) - 1)

	r.Probability = probability(counts, r.Baseline)
	return r
}

func probability(counts []int, baseline float64) float64 {
	if len(counts) == 0 {
		return 0
	}
	window := counts[max(0, len(counts)-probabilityWindow):]
	sum := 0
	for _, c := range window {
		sum += c
	}
	avg := float64(sum) / float64(len(window))
	p := (avg/baseline - 1) / 2
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// BurstsFor runs DetectBursts over the monthly histogram of id as of now and
// labels each burst with its calendar months.
func BurstsFor(g *network.Graph, id string, now time.Time) BurstReport {
	series := MonthlyHistogram(g, id, now)
	r := DetectBursts(Counts(series))
	for i := range r.Bursts {
		r.Bursts[i].StartMonth = series[r.Bursts[i].Start].Month
		r.Bursts[i].EndMonth = series[r.Bursts[i].End].Month
	}
	if r.Current != nil {
		r.Current.StartMonth = series[r.Current.Start].Month
		r.Current.EndMonth = series[r.Current.End].Month
	}
	return r
}
