package network

import (
	"cmp"
	"slices"
	"sort"
	"time"

	"github.com/matsen/citenet/internal/citation"
	"github.com/matsen/citenet/internal/paper"
)

// DropStats counts citations excluded while building a Graph.
type DropStats struct {
	Dangling   int `json:"dangling"`
	SelfLoops  int `json:"self_loops"`
	Duplicates int `json:"duplicates"`
}

// Total returns the number of dropped citations.
func (d DropStats) Total() int {
	return d.Dangling + d.SelfLoops + d.Duplicates
}

// Graph is an immutable directed citation graph.
type Graph struct {
	ids       []string // sorted
	papers    map[string]paper.Paper
	citations []citation.Citation
	edges     map[citation.Key]bool

	citedBy    map[string][]string // node -> sorted ids of papers citing it
	references map[string][]string // node -> sorted ids of papers it cites
	incoming   map[string][]int    // node -> indexes into citations
	outgoing   map[string][]int

	dropped DropStats
}

// Build constructs a Graph from a snapshot. Citations whose endpoints are not
// both present, self-citations and repeated (citing, cited) pairs are skipped.
func Build(s *Snapshot) *Graph {
	g := &Graph{
		papers:     make(map[string]paper.Paper),
		edges:      make(map[citation.Key]bool),
		citedBy:    make(map[string][]string),
		references: make(map[string][]string),
		incoming:   make(map[string][]int),
		outgoing:   make(map[string][]int),
	}
	if s == nil {
		return g
	}

	for _, p := range s.Papers {
		if _, ok := g.papers[p.ID]; ok {
			continue
		}
		g.papers[p.ID] = p
		g.ids = append(g.ids, p.ID)
	}
	sort.Strings(g.ids)

	for _, c := range s.Citations {
		_, citingOK := g.papers[c.CitingID]
		_, citedOK := g.papers[c.CitedID]
		switch {
		case !citingOK || !citedOK:
			g.dropped.Dangling++
			continue
		case c.CitingID == c.CitedID:
			g.dropped.SelfLoops++
			continue
		case g.edges[c.Key()]:
			g.dropped.Duplicates++
			continue
		}

		idx := len(g.citations)
		g.citations = append(g.citations, c)
		g.edges[c.Key()] = true
		g.citedBy[c.CitedID] = append(g.citedBy[c.CitedID], c.CitingID)
		g.references[c.CitingID] = append(g.references[c.CitingID], c.CitedID)
		g.incoming[c.CitedID] = append(g.incoming[c.CitedID], idx)
		g.outgoing[c.CitingID] = append(g.outgoing[c.CitingID], idx)
	}

	for _, ids := range g.citedBy {
		sort.Strings(ids)
	}
	for _, ids := range g.references {
		sort.Strings(ids)
	}
	return g
}

// Len returns the number of papers.
func (g *Graph) Len() int { return len(g.ids) }

// EdgeCount returns the number of kept citations.
func (g *Graph) EdgeCount() int { return len(g.citations) }

// Dropped reports how many input citations were excluded.
func (g *Graph) Dropped() DropStats { return g.dropped }

// NodeIDs returns all paper ids in ascending order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.ids) }

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.papers[id]
	return ok
}

// Paper returns the paper record for id.
func (g *Graph) Paper(id string) (paper.Paper, bool) {
	p, ok := g.papers[id]
	return p, ok
}

// Citations returns the kept citations in input order.
func (g *Graph) Citations() []citation.Citation { return slices.Clone(g.citations) }

// HasCitation reports whether citing cites cited.
func (g *Graph) HasCitation(citing, cited string) bool {
	return g.edges[citation.Key{CitingID: citing, CitedID: cited}]
}

// Connected reports whether a and b are joined by a citation in either direction.
func (g *Graph) Connected(a, b string) bool {
	return g.HasCitation(a, b) || g.HasCitation(b, a)
}

// InDegree returns the number of papers citing id.
func (g *Graph) InDegree(id string) int { return len(g.citedBy[id]) }

// OutDegree returns the number of papers id cites.
func (g *Graph) OutDegree(id string) int { return len(g.references[id]) }

// CitedBy returns the sorted ids of papers citing id.
func (g *Graph) CitedBy(id string) []string { return slices.Clone(g.citedBy[id]) }

// References returns the sorted ids of papers id cites.
func (g *Graph) References(id string) []string { return slices.Clone(g.references[id]) }

// Incoming returns the citations pointing at id.
func (g *Graph) Incoming(id string) []citation.Citation {
	return g.collect(g.incoming[id])
}

// Outgoing returns the citations made by id.
func (g *Graph) Outgoing(id string) []citation.Citation {
	return g.collect(g.outgoing[id])
}

func (g *Graph) collect(idxs []int) []citation.Citation {
	out := make([]citation.Citation, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, g.citations[i])
	}
	return out
}

// Neighbors returns the sorted ids of papers linked to id in either direction.
func (g *Graph) Neighbors(id string) []string {
	set := make(map[string]bool, len(g.citedBy[id])+len(g.references[id]))
	for _, n := range g.citedBy[id] {
		set[n] = true
	}
	for _, n := range g.references[id] {
		set[n] = true
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// IncomingTimes returns the sorted timestamps of citations pointing at id.
// Citations without a timestamp are omitted.
func (g *Graph) IncomingTimes(id string) []time.Time {
	var times []time.Time
	for _, i := range g.incoming[id] {
		if ts := g.citations[i].CreatedAt; ts != nil {
			times = append(times, ts.UTC())
		}
	}
	slices.SortFunc(times, func(a, b time.Time) int { return a.Compare(b) })
	return times
}

// UndirectedPair is an unordered node pair with A < B.
type UndirectedPair struct {
	A, B string
}

// UndirectedEdges returns each connected pair exactly once, sorted.
func (g *Graph) UndirectedEdges() []UndirectedPair {
	seen := make(map[UndirectedPair]bool, len(g.citations))
	var pairs []UndirectedPair
	for _, c := range g.citations {
		p := UndirectedPair{A: c.CitingID, B: c.CitedID}
		if p.B < p.A {
			p.A, p.B = p.B, p.A
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, func(x, y UndirectedPair) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return pairs
}

// Subgraph returns the graph induced by ids: those papers and the citations
// running between them. Unknown ids are ignored.
func (g *Graph) Subgraph(ids []string) *Graph {
	keep := make(map[string]bool, len(ids))
	snap := &Snapshot{}
	for _, id := range ids {
		p, ok := g.papers[id]
		if !ok || keep[id] {
			continue
		}
		keep[id] = true
		snap.Papers = append(snap.Papers, p)
	}
	for _, c := range g.citations {
		if keep[c.CitingID] && keep[c.CitedID] {
			snap.Citations = append(snap.Citations, c)
		}
	}
	return Build(snap)
}
