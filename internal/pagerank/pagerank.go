// Package pagerank implements power-iteration PageRank over a citation graph.
//
// By default the rank held by papers that cite nothing (dangling nodes) is not
// redistributed, so total rank mass can shrink below 1. Set
// Options.RedistributeDangling to spread it uniformly instead.
package pagerank

import (
	"math"
	"sort"

	"github.com/matsen/citenet/internal/network"
)

// Defaults.
const (
	DefaultDamping       = 0.85
	DefaultMaxIterations = 30
	DefaultTolerance     = 1e-4
)

// Options configures a PageRank run.
type Options struct {
	Damping              float64
	MaxIterations        int
	Tolerance            float64
	RedistributeDangling bool

	// Initial warm-starts the iteration. Missing ids start at 1/n.
	Initial map[string]float64
}

// DefaultOptions returns the standard parameters.
func DefaultOptions() Options {
	return Options{
		Damping:       DefaultDamping,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
}

// normalized fills zero or out-of-range values with defaults.
func (o Options) normalized() Options {
	if o.Damping <= 0 || o.Damping >= 1 {
		o.Damping = DefaultDamping
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}

// Result is the outcome of a PageRank run.
type Result struct {
	Ranks      map[string]float64 `json:"ranks"`
	Iterations int                `json:"iterations"`
	Converged  bool               `json:"converged"`
	MaxDelta   float64            `json:"max_delta"`
}

// Ranks returns the PageRank of every paper in g.
func Ranks(g *network.Graph, opts Options) map[string]float64 {
	return Run(g, opts).Ranks
}

// Run iterates until the largest per-node change drops below the tolerance or
// the iteration cap is reached. An empty graph yields an empty map.
func Run(g *network.Graph, opts Options) Result {
	opts = opts.normalized()
	ids := g.NodeIDs()
	n := len(ids)
	if n == 0 {
		return Result{Ranks: map[string]float64{}, Converged: true}
	}

	nf := float64(n)
	rank := make(map[string]float64, n)
	for _, id := range ids {
		if v, ok := opts.Initial[id]; ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			rank[id] = v
		} else {
			rank[id] = 1 / nf
		}
	}

	inbound := make(map[string][]string, n)
	outDegree := make(map[string]int, n)
	for _, id := range ids {
		inbound[id] = g.CitedBy(id)
		outDegree[id] = g.OutDegree(id)
	}

	res := Result{}
	next := make(map[string]float64, n)
	for iter := 1; iter <= opts.MaxIterations; iter++ {
		danglingShare := 0.0
		if opts.RedistributeDangling {
			for _, id := range ids {
				if outDegree[id] == 0 {
					danglingShare += rank[id]
				}
			}
			danglingShare = opts.Damping * danglingShare / nf
		}

		maxDelta := 0.0
		for _, id := range ids {
			sum := 0.0
			for _, src := range inbound[id] {
				if out := outDegree[src]; out > 0 {
					sum += rank[src] / float64(out)
				}
			}
			v := (1-opts.Damping)/nf + opts.Damping*sum + danglingShare
			next[id] = v
			maxDelta = max(maxDelta, math.Abs(v-rank[id]))
		}

		rank, next = next, rank
		res.Iterations = iter
		res.MaxDelta = maxDelta
		if maxDelta < opts.Tolerance {
			res.Converged = true
			break
		}
	}

	res.Ranks = rank
	return res
}

// Entry is one ranked paper.
type Entry struct {
	ID   string  `json:"id"`
	Rank float64 `json:"pagerank"`
}

// Sorted returns the ranks ordered highest first, ties by id.
// A limit <= 0 returns all entries.
func Sorted(ranks map[string]float64, limit int) []Entry {
	entries := make([]Entry, 0, len(ranks))
	for id, r := range ranks {
		entries = append(entries, Entry{ID: id, Rank: r})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rank != entries[j].Rank {
			return entries[i].Rank > entries[j].Rank
		}
		return entries[i].ID < entries[j].ID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
