package community

import (
	"time"

	"github.com/matsen/citenet/internal/network"
)

// Growth and citation-trend labels.
const (
	GrowthEmerging  = "emerging"
	GrowthDeclining = "declining"
	GrowthStable    = "stable"

	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Classification thresholds and the window compared, in years.
const (
	windowYears = 3

	emergingRatio  = 1.5
	decliningRatio = 0.5
	increaseRatio  = 1.2
	decreaseRatio  = 0.8
)

// Dynamics describes how a community changes over time.
type Dynamics struct {
	CommunityID     int         `json:"community_id"`
	PapersByYear    map[int]int `json:"papers_by_year"`
	RecentAverage   float64     `json:"recent_average"`
	PriorAverage    float64     `json:"prior_average"`
	Growth          string      `json:"growth"`
	RecentCitations int         `json:"recent_citations"`
	OlderCitations  int         `json:"older_citations"`
	CitationTrend   string      `json:"citation_trend"`
}

// AnalyzeDynamics classifies each community's growth by comparing yearly
// paper counts in the last three years (up to refYear) with the three years
// before, and its citation trend by doing the same for citations received.
// Members with no publication year still contribute their citations.
// Citations are dated by their timestamp, falling back to the citing paper's
// publication year; undated ones are skipped. refYear <= 0 means this year.
func AnalyzeDynamics(g *network.Graph, res Result, refYear int) []Dynamics {
	if refYear <= 0 {
		refYear = time.Now().Year()
	}
	recentFrom := refYear - windowYears + 1
	priorFrom := recentFrom - windowYears

	out := make([]Dynamics, 0, len(res.Communities))
	for _, c := range res.Communities {
		d := Dynamics{CommunityID: c.ID, PapersByYear: make(map[int]int)}

		recent, prior := 0, 0
		for _, id := range c.Members {
			if p, ok := g.Paper(id); ok && p.HasYear() {
				y := p.PublicationYear
				d.PapersByYear[y]++
				switch {
				case y >= recentFrom && y <= refYear:
					recent++
				case y >= priorFrom && y < recentFrom:
					prior++
				}
			}

			for _, cit := range g.Incoming(id) {
				year := 0
				if cit.CreatedAt != nil {
					year = cit.CreatedAt.Year()
				} else if citing, ok := g.Paper(cit.CitingID); ok {
					year = citing.PublicationYear
				}
				switch {
				case year == 0:
				case year >= recentFrom && year <= refYear:
					d.RecentCitations++
				case year >= priorFrom && year < recentFrom:
					d.OlderCitations++
				}
			}
		}

		d.RecentAverage = float64(recent) / windowYears
		d.PriorAverage = float64(prior) / windowYears
		d.Growth = classify(d.RecentAverage, d.PriorAverage, emergingRatio, decliningRatio,
			GrowthEmerging, GrowthDeclining, GrowthStable)
		d.CitationTrend = classify(float64(d.RecentCitations), float64(d.OlderCitations),
			increaseRatio, decreaseRatio, TrendIncreasing, TrendDecreasing, TrendStable)
		out = append(out, d)
	}
	return out
}

// classify compares recent against prior. With no prior activity any recent
// activity counts as growth.
func classify(recent, prior, upRatio, downRatio float64, up, down, flat string) string {
	if prior == 0 {
		if recent > 0 {
			return up
		}
		return flat
	}
	switch {
	case recent > upRatio*prior:
		return up
	case recent < downRatio*prior:
		return down
	default:
		return flat
	}
}
