// Package centrality computes degree-based centrality measures per paper.
package centrality

import (
	"sort"

	"github.com/matsen/citenet/internal/network"
)

// Measures holds the centrality values of one paper.
type Measures struct {
	ID                    string  `json:"id"`
	InDegree              int     `json:"in_degree"`
	OutDegree             int     `json:"out_degree"`
	TotalDegree           int     `json:"total_degree"`
	ClusteringCoefficient float64 `json:"clustering_coefficient"`
	NormalizedInDegree    float64 `json:"normalized_in_degree"`
}

// Compute returns the measures for every paper in g, keyed by id.
func Compute(g *network.Graph) map[string]Measures {
	n := g.Len()
	out := make(map[string]Measures, n)
	for _, id := range g.NodeIDs() {
		in, outDeg := g.InDegree(id), g.OutDegree(id)
		m := Measures{
			ID:                    id,
			InDegree:              in,
			OutDegree:             outDeg,
			TotalDegree:           in + outDeg,
			ClusteringCoefficient: ClusteringCoefficient(g, id),
		}
		if n > 1 {
			m.NormalizedInDegree = float64(in) / float64(n-1)
		}
		out[id] = m
	}
	return out
}

// ClusteringCoefficient returns the fraction of neighbour pairs of id that are
// themselves connected, treating citations as undirected. Papers with fewer
// than two neighbours score 0.
func ClusteringCoefficient(g *network.Graph, id string) float64 {
	neighbors := g.Neighbors(id)
	k := len(neighbors)
	if k < 2 {
		return 0
	}

	links := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if g.Connected(neighbors[i], neighbors[j]) {
				links++
			}
		}
	}
	possible := k * (k - 1) / 2
	return float64(links) / float64(possible)
}

// Top returns up to limit measures ordered by in-degree, highest first.
// Ties are broken by id. A limit <= 0 returns all.
func Top(measures map[string]Measures, limit int) []Measures {
	ranked := make([]Measures, 0, len(measures))
	for _, m := range measures {
		ranked = append(ranked, m)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].InDegree != ranked[j].InDegree {
			return ranked[i].InDegree > ranked[j].InDegree
		}
		return ranked[i].ID < ranked[j].ID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
