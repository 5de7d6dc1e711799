package viz

import (
	"github.com/matsen/citenet/internal/analytics"
	"github.com/matsen/citenet/internal/network"
)

// Node diameters in pixels.
const (
	MinNodeSize = 20.0
	MaxNodeSize = 60.0
)

// palette colours communities by id; ids past the end wrap around.
var palette = []string{
	"#4A90D9", "#E8923A", "#27AE60", "#9B59B6", "#E74C3C",
	"#1ABC9C", "#F1C40F", "#34495E", "#D35400", "#7F8C8D",
}

// CommunityColor returns the display colour for a community id.
func CommunityColor(id int) string {
	if id < 0 {
		return "#BDC3C7"
	}
	return palette[id%len(palette)]
}

// BuildGraph turns an analysis report and the graph it was computed from into
// renderable data. Node size scales linearly with PageRank between
// MinNodeSize and MaxNodeSize; colour follows community. Citations whose
// endpoints are not in the report are skipped.
func BuildGraph(report *analytics.Report, g *network.Graph) *GraphData {
	data := &GraphData{Nodes: []Node{}, Edges: []Edge{}}
	if report == nil || len(report.Nodes) == 0 {
		return data
	}

	leaders, bridges := leaderSets(report)
	keywords := make(map[int][]string, len(report.Communities))
	for _, c := range report.Communities {
		keywords[c.ID] = c.Keywords
	}

	lo, hi := report.Nodes[0].PageRank, report.Nodes[0].PageRank
	for _, n := range report.Nodes {
		lo = min(lo, n.PageRank)
		hi = max(hi, n.PageRank)
	}

	present := make(map[string]bool, len(report.Nodes))
	for _, n := range report.Nodes {
		present[n.ID] = true
		data.Nodes = append(data.Nodes, Node{
			ID:        n.ID,
			Label:     n.ID,
			Title:     n.Title,
			Year:      n.Year,
			Keywords:  keywords[n.Community],
			Citations: n.InDegree,
			PageRank:  n.PageRank,
			Size:      nodeSize(n.PageRank, lo, hi),
			Community: n.Community,
			Color:     CommunityColor(n.Community),
			Leader:    leaders[n.ID],
			Bridge:    bridges[n.ID],
		})
	}

	if g == nil {
		return data
	}
	for _, c := range g.Citations() {
		if !present[c.CitingID] || !present[c.CitedID] {
			continue
		}
		data.Edges = append(data.Edges, Edge{
			Source:      c.CitingID,
			Target:      c.CitedID,
			Influential: c.IsInfluential,
			Context:     c.Context,
		})
	}
	return data
}

// leaderSets returns the ids listed as community leaders and, among them,
// the ones flagged as bridges.
func leaderSets(report *analytics.Report) (leaders, bridges map[string]bool) {
	leaders = make(map[string]bool)
	bridges = make(map[string]bool)
	for _, cl := range report.Leaders {
		for _, l := range cl.Leaders {
			leaders[l.ID] = true
			if l.IsBridge {
				bridges[l.ID] = true
			}
		}
	}
	return leaders, bridges
}

func nodeSize(pr, lo, hi float64) float64 {
	if hi <= lo {
		return (MinNodeSize + MaxNodeSize) / 2
	}
	return MinNodeSize + (pr-lo)/(hi-lo)*(MaxNodeSize-MinNodeSize)
}
