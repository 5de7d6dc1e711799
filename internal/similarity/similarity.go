// Package similarity measures how related two papers are through the
// citation graph: co-citation (cited together) and bibliographic coupling
// (citing the same references).
package similarity

import (
	"sort"

	"github.com/matsen/citenet/internal/network"
)

// Weights of the combined similarity.
const (
	CoCitationWeight = 0.6
	CouplingWeight   = 0.4
)

// Measure is an overlap between two id sets.
type Measure struct {
	Shared   int     `json:"shared"`
	Strength float64 `json:"strength"` // |A∩B| / min(|A|,|B|)
	Jaccard  float64 `json:"jaccard"`  // |A∩B| / |A∪B|
}

// CoCitation compares the sets of papers citing a and b.
func CoCitation(g *network.Graph, a, b string) Measure {
	return overlap(g.CitedBy(a), g.CitedBy(b))
}

// Coupling compares the reference lists of a and b.
func Coupling(g *network.Graph, a, b string) Measure {
	return overlap(g.References(a), g.References(b))
}

// Combined blends co-citation and coupling strength 60/40.
func Combined(g *network.Graph, a, b string) float64 {
	return CoCitationWeight*CoCitation(g, a, b).Strength + CouplingWeight*Coupling(g, a, b).Strength
}

// overlap computes set overlap for two id lists without duplicates.
func overlap(a, b []string) Measure {
	if len(a) == 0 || len(b) == 0 {
		return Measure{}
	}
	inA := make(map[string]bool, len(a))
	for _, id := range a {
		inA[id] = true
	}
	shared := 0
	for _, id := range b {
		if inA[id] {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return Measure{
		Shared:   shared,
		Strength: float64(shared) / float64(min(len(a), len(b))),
		Jaccard:  float64(shared) / float64(union),
	}
}

// Match is a paper related to a query paper.
type Match struct {
	ID         string  `json:"id"`
	Title      string  `json:"title,omitempty"`
	Score      float64 `json:"score"`
	CoCitation Measure `json:"co_citation"`
	Coupling   Measure `json:"coupling"`
}

// FindSimilarByCoCitation ranks every other paper by co-citation strength.
func FindSimilarByCoCitation(g *network.Graph, id string, limit int) []Match {
	return rank(g, id, limit, func(m Match) float64 { return m.CoCitation.Strength })
}

// FindSimilarByCoupling ranks every other paper by coupling strength.
func FindSimilarByCoupling(g *network.Graph, id string, limit int) []Match {
	return rank(g, id, limit, func(m Match) float64 { return m.Coupling.Strength })
}

// FindRelated ranks every other paper by combined similarity.
func FindRelated(g *network.Graph, id string, limit int) []Match {
	return rank(g, id, limit, func(m Match) float64 {
		return CoCitationWeight*m.CoCitation.Strength + CouplingWeight*m.Coupling.Strength
	})
}

// rank scores id against every other node, drops zero scores and sorts by
// score, then Jaccard, then id. A limit <= 0 returns all matches.
func rank(g *network.Graph, id string, limit int, score func(Match) float64) []Match {
	if !g.Has(id) {
		return []Match{}
	}

	matches := []Match{}
	for _, other := range g.NodeIDs() {
		if other == id {
			continue
		}
		m := Match{
			ID:         other,
			CoCitation: CoCitation(g, id, other),
			Coupling:   Coupling(g, id, other),
		}
		m.Score = score(m)
		if m.Score <= 0 {
			continue
		}
		if p, ok := g.Paper(other); ok {
			m.Title = p.Title
		}
		matches = append(matches, m)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		ji := matches[i].CoCitation.Jaccard + matches[i].Coupling.Jaccard
		jj := matches[j].CoCitation.Jaccard + matches[j].Coupling.Jaccard
		if ji != jj {
			return ji > jj
		}
		return matches[i].ID < matches[j].ID
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
