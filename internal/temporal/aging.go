package temporal

import (
	"time"

	"github.com/matsen/citenet/internal/network"
)

// Aging patterns.
const (
	PatternImmediate = "immediate"
	PatternDelayed   = "delayed"
	PatternClassic   = "classic"
	PatternSustained = "sustained"
	PatternUncited   = "uncited"
)

// Lifecycle phases.
const (
	PhaseRising    = "rising"
	PhasePeak      = "peak"
	PhaseDeclining = "declining"
	PhaseDormant   = "dormant"
)

const (
	immediatePeakYears = 2
	delayedPeakYears   = 5
	classicHalfLife    = 0.3
	phaseWindowYears   = 3
	peakShare          = 0.8
	dormantShare       = 0.2
)

// Aging describes how a paper's citations are spread over its lifetime.
// Yearly is indexed by years since publication.
type Aging struct {
	PublicationYear int     `json:"publication_year"`
	Age             int     `json:"age"`
	Yearly          []int   `json:"yearly"`
	TotalCitations  int     `json:"total_citations"`
	HalfLife        int     `json:"half_life"`
	PeakYear        int     `json:"peak_year"`
	PeakCitations   int     `json:"peak_citations"`
	RecentAverage   float64 `json:"recent_average"`
	Pattern         string  `json:"pattern"`
	Phase           string  `json:"phase"`
}

// AgingOf classifies a paper published in pubYear given citation counts keyed
// by calendar year, as of refYear. Counts after refYear are ignored and counts
// before publication are folded into year 0.
//
// The half-life is the first year since publication at which cumulative
// citations reach half the total. The pattern is uncited when there are no
// citations, immediate when citations peak within two years, delayed when
// they peak after five, classic when the half-life is under 30% of the
// paper's age and sustained otherwise. The
// phase compares the trailing three-year average against the peak year:
// dormant below 20% of the peak, peak from 80% unless the latest year is a
// new high, otherwise rising while the peak is the latest year and declining
// after it.
func AgingOf(pubYear int, byYear map[int]int, refYear int) Aging {
	age := max(0, refYear-pubYear)
	a := Aging{
		PublicationYear: pubYear,
		Age:             age,
		Yearly:          make([]int, age+1),
	}
	for year, n := range byYear {
		if year > refYear || n <= 0 {
			continue
		}
		a.Yearly[max(0, year-pubYear)] += n
		a.TotalCitations += n
	}

	for i, n := range a.Yearly {
		if n > a.PeakCitations {
			a.PeakYear, a.PeakCitations = i, n
		}
	}

	if a.TotalCitations > 0 {
		cumulative := 0
		for i, n := range a.Yearly {
			cumulative += n
			if 2*cumulative >= a.TotalCitations {
				a.HalfLife = i
				break
			}
		}
	}

	window := a.Yearly[max(0, age-phaseWindowYears+1):]
	sum := 0
	for _, n := range window {
		sum += n
	}
	a.RecentAverage = float64(sum) / float64(len(window))

	a.Pattern = pattern(a)
	a.Phase = phase(a)
	return a
}

func pattern(a Aging) string {
	switch {
	case a.TotalCitations == 0:
		return PatternUncited
	case a.PeakYear <= immediatePeakYears:
		return PatternImmediate
	case a.PeakYear > delayedPeakYears:
		return PatternDelayed
	case float64(a.HalfLife) < classicHalfLife*float64(a.Age):
		return PatternClassic
	default:
		return PatternSustained
	}
}

func phase(a Aging) string {
	peak := float64(a.PeakCitations)
	if a.TotalCitations == 0 || a.RecentAverage < dormantShare*peak {
		return PhaseDormant
	}
	latest := a.Yearly[a.Age]
	newHigh := latest == a.PeakCitations && (a.Age == 0 || latest > a.Yearly[a.Age-1])
	switch {
	case newHigh:
		return PhaseRising
	case a.RecentAverage >= peakShare*peak:
		return PhasePeak
	case latest == a.PeakCitations:
		return PhaseRising
	default:
		return PhaseDeclining
	}
}

// AgingFor bins the timestamped citations of id by calendar year and
// classifies them as of now. It returns false when the publication year of
// id is unknown.
func AgingFor(g *network.Graph, id string, now time.Time) (Aging, bool) {
	p, ok := g.Paper(id)
	if !ok || !p.HasYear() {
		return Aging{}, false
	}
	byYear := make(map[int]int)
	for _, t := range timesUpTo(g, id, now) {
		byYear[t.Year()]++
	}
	return AgingOf(p.PublicationYear, byYear, now.UTC().Year()), true
}
