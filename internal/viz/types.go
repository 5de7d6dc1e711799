// Package viz renders an analysed citation network for the browser.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents a paper in the graph.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Tooltip fields
	Title     string   `json:"title,omitempty"`
	Year      int      `json:"year,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	Citations int      `json:"citations"`

	// Styling
	PageRank  float64 `json:"pagerank"`
	Size      float64 `json:"size"`
	Community int     `json:"community"`
	Color     string  `json:"color"`
	Leader    bool    `json:"leader,omitempty"`
	Bridge    bool    `json:"bridge,omitempty"`
}

// Edge is a citation from Source (citing) to Target (cited).
type Edge struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Influential bool   `json:"influential,omitempty"`
	Context     string `json:"context,omitempty"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
