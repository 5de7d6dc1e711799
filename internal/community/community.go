// Package community partitions a citation graph into communities by
// Louvain modularity optimisation and summarises each community.
package community

import (
	"math"
	"math/rand/v2"
	"sort"

	louvain "gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matsen/citenet/internal/network"
)

// DefaultSeed makes partitions reproducible across runs.
const DefaultSeed uint64 = 1

// Options configures detection.
type Options struct {
	Seed       uint64
	Resolution float64
}

// DefaultOptions returns seed DefaultSeed and resolution 1.
func DefaultOptions() Options {
	return Options{Seed: DefaultSeed, Resolution: 1}
}

// Community summarises one detected community.
type Community struct {
	ID            int      `json:"id"`
	Size          int      `json:"size"`
	Members       []string `json:"members"`
	InternalEdges int      `json:"internal_edges"`
	Density       float64  `json:"density"`
	AverageDegree float64  `json:"average_degree"`
	Keywords      []string `json:"keywords"`
}

// Result is a partition of the graph.
type Result struct {
	Assignment  map[string]int `json:"assignment"`
	Communities []Community    `json:"communities"`
	Modularity  float64        `json:"modularity"`
	StandardQ   float64        `json:"standard_q"`
}

// Members returns the member ids of community id, or nil.
func (r Result) Members(id int) []string {
	if id < 0 || id >= len(r.Communities) {
		return nil
	}
	return r.Communities[id].Members
}

// Detect partitions g over its undirected projection. Papers without any
// citation form singleton communities. Community ids are assigned by size,
// largest first, ties broken by smallest member id.
func Detect(g *network.Graph, opts Options) Result {
	if opts.Resolution <= 0 {
		opts.Resolution = 1
	}
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}

	ids := g.NodeIDs()
	if len(ids) == 0 {
		return Result{Assignment: map[string]int{}, Communities: []Community{}}
	}

	index := make(map[string]int64, len(ids))
	ug := simple.NewUndirectedGraph()
	for i, id := range ids {
		index[id] = int64(i)
		ug.AddNode(simple.Node(int64(i)))
	}
	pairs := g.UndirectedEdges()
	for _, p := range pairs {
		ug.SetEdge(simple.Edge{F: simple.Node(index[p.A]), T: simple.Node(index[p.B])})
	}

	var groups [][]string
	var standardQ float64
	if len(pairs) == 0 {
		for _, id := range ids {
			groups = append(groups, []string{id})
		}
	} else {
		src := rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)
		reduced := louvain.Modularize(ug, opts.Resolution, src)
		comms := reduced.Communities()
		for _, c := range comms {
			members := make([]string, 0, len(c))
			for _, n := range c {
				members = append(members, ids[n.ID()])
			}
			groups = append(groups, members)
		}
		standardQ = finite(louvain.Q(ug, comms, opts.Resolution))
	}

	groups = orderGroups(groups)
	assignment := assign(groups)
	communities := make([]Community, 0, len(groups))
	for cid, members := range groups {
		communities = append(communities, summarize(g, pairs, cid, members))
	}
	return Result{
		Assignment:  assignment,
		Communities: communities,
		Modularity:  Modularity(g, assignment),
		StandardQ:   standardQ,
	}
}

// orderGroups sorts members inside each group and the groups by size desc,
// then by first member. It sorts in place and returns groups.
func orderGroups(groups [][]string) [][]string {
	for _, members := range groups {
		sort.Strings(members)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) > len(groups[j])
		}
		return groups[i][0] < groups[j][0]
	})
	return groups
}

func assign(groups [][]string) map[string]int {
	assignment := make(map[string]int)
	for cid, members := range groups {
		for _, id := range members {
			assignment[id] = cid
		}
	}
	return assignment
}

// summarize computes size, density, average degree and keywords.
func summarize(g *network.Graph, pairs []network.UndirectedPair, id int, members []string) Community {
	inside := make(map[string]bool, len(members))
	titles := make([]string, 0, len(members))
	for _, m := range members {
		inside[m] = true
		if p, ok := g.Paper(m); ok {
			titles = append(titles, p.Title)
		}
	}

	internal := 0
	for _, p := range pairs {
		if inside[p.A] && inside[p.B] {
			internal++
		}
	}

	n := len(members)
	c := Community{
		ID:            id,
		Size:          n,
		Members:       members,
		InternalEdges: internal,
		Keywords:      Keywords(titles, MaxKeywords),
	}
	if n > 1 {
		c.Density = float64(internal) / (float64(n) * float64(n-1) / 2)
	}
	if n > 0 {
		c.AverageDegree = 2 * float64(internal) / float64(n)
	}
	return c
}

// Modularity scores a partition of g's undirected projection as
// Σ over edges inside one community of (1 - ki·kj/2m) / 2m, where ki and kj
// are undirected degrees and m the number of undirected edges. It is 0 for
// a graph without edges.
func Modularity(g *network.Graph, assignment map[string]int) float64 {
	pairs := g.UndirectedEdges()
	if len(pairs) == 0 {
		return 0
	}

	degree := make(map[string]int)
	for _, p := range pairs {
		degree[p.A]++
		degree[p.B]++
	}

	twoM := 2 * float64(len(pairs))
	q := 0.0
	for _, p := range pairs {
		ca, okA := assignment[p.A]
		cb, okB := assignment[p.B]
		if !okA || !okB || ca != cb {
			continue
		}
		q += 1 - float64(degree[p.A])*float64(degree[p.B])/twoM
	}
	return finite(q / twoM)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
