package temporal

import (
	"time"

	"github.com/matsen/citenet/internal/network"
)

// Velocity trend labels.
const (
	TrendAccelerating = "accelerating"
	TrendDecelerating = "decelerating"
	TrendStable       = "stable"
)

// accelerationThreshold separates the trend labels.
const accelerationThreshold = 0.5

// recentMonths is the trailing window used for the recent velocity.
const recentMonths = 12

// Velocity summarises how fast a paper is being cited.
type Velocity struct {
	PaperID                string       `json:"paper_id"`
	TotalCitations         int          `json:"total_citations"`
	MonthsSincePublication int          `json:"months_since_publication"`
	Overall                float64      `json:"overall_velocity"`
	RecentCitations        int          `json:"recent_citations"`
	Recent                 float64      `json:"recent_velocity"`
	Acceleration           float64      `json:"acceleration"`
	Trend                  string       `json:"trend"`
	Monthly                []MonthCount `json:"monthly"`
}

// VelocityFor computes the citation velocity of id as of now. Only
// timestamped citations count. Months since publication are measured from
// January of the publication year, or from the first citation when the year
// is unknown.
func VelocityFor(g *network.Graph, id string, now time.Time) Velocity {
	times := timesUpTo(g, id, now)
	v := Velocity{
		PaperID:        id,
		TotalCitations: len(times),
		Monthly:        histogram(times, now),
	}

	var origin time.Time
	if p, ok := g.Paper(id); ok && p.HasYear() {
		origin = time.Date(p.PublicationYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	} else if len(times) > 0 {
		origin = monthStart(times[0])
	}
	if !origin.IsZero() {
		v.MonthsSincePublication = max(0, monthsBetween(origin, now))
	}

	cutoff := now.AddDate(0, -recentMonths, 0)
	for _, t := range times {
		if t.After(cutoff) {
			v.RecentCitations++
		}
	}

	v.Overall = float64(v.TotalCitations) / float64(max(1, v.MonthsSincePublication))
	v.Recent = float64(v.RecentCitations) / recentMonths
	v.Acceleration = v.Recent - v.Overall
	v.Trend = trend(v.Acceleration)
	return v
}

func trend(acceleration float64) string {
	switch {
	case acceleration > accelerationThreshold:
		return TrendAccelerating
	case acceleration < -accelerationThreshold:
		return TrendDecelerating
	default:
		return TrendStable
	}
}
