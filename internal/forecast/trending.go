package forecast

import (
	"sort"
	"time"

	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/temporal"
)

// Candidate pool defaults.
const (
	DefaultWindow       = 90 * 24 * time.Hour
	DefaultMinCitations = 2
)

// CandidatePool returns, sorted, the papers with more than minCitations
// timestamped citations in the window ending at now.
func CandidatePool(g *network.Graph, now time.Time, window time.Duration, minCitations int) []string {
	if window <= 0 {
		window = DefaultWindow
	}
	from := now.Add(-window)
	pool := []string{}
	for _, id := range g.NodeIDs() {
		n := 0
		for _, t := range g.IncomingTimes(id) {
			if t.After(from) && !t.After(now) {
				n++
			}
		}
		if n > minCitations {
			pool = append(pool, id)
		}
	}
	return pool
}

// TrendingPaper is one ranked candidate.
type TrendingPaper struct {
	ID             string  `json:"id"`
	Title          string  `json:"title,omitempty"`
	Score          float64 `json:"score"`
	RecentVelocity float64 `json:"recent_velocity"`
	Acceleration   float64 `json:"acceleration"`
	Bursting       bool    `json:"bursting"`
	BurstIntensity float64 `json:"burst_intensity"`
}

// Trending ranks candidates by recent velocity + 10·max(0, acceleration),
// plus 5·intensity while a burst is active, descending. topN <= 0 keeps
// every candidate. Unknown ids are skipped.
func Trending(g *network.Graph, candidates []string, now time.Time, topN int) []TrendingPaper {
	out := make([]TrendingPaper, 0, len(candidates))
	for _, id := range candidates {
		p, ok := g.Paper(id)
		if !ok {
			continue
		}
		v := temporal.VelocityFor(g, id, now)
		b := temporal.BurstsFor(g, id, now)
		tp := TrendingPaper{
			ID:             id,
			Title:          p.Title,
			RecentVelocity: v.Recent,
			Acceleration:   v.Acceleration,
		}
		tp.Score = v.Recent + 10*max(0, v.Acceleration)
		if b.Current != nil {
			tp.Bursting = true
			tp.BurstIntensity = b.Current.Intensity
			tp.Score += 5 * b.Current.Intensity
		}
		out = append(out, tp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
