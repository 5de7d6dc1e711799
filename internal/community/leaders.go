package community

import (
	"sort"

	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/pagerank"
)

// BridgeThreshold is the bridge score at or above which a paper is flagged
// as boundary-spanning.
const BridgeThreshold = 0.5

// Leader is a paper ranked within its community.
type Leader struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title,omitempty"`
	PageRank             float64 `json:"pagerank"`
	InCommunityCitations int     `json:"in_community_citations"`
	ExternalConnections  int     `json:"external_connections"`
	TotalConnections     int     `json:"total_connections"`
	BridgeScore          float64 `json:"bridge_score"`
	IsBridge             bool    `json:"is_bridge"`
}

// CommunityLeaders lists the top members of one community.
type CommunityLeaders struct {
	CommunityID int      `json:"community_id"`
	Leaders     []Leader `json:"leaders"`
}

// Leaders ranks the members of every community by PageRank computed over the
// community's induced subgraph. It also reports in-community citation counts
// and bridge scores, the fraction of a member's citations (in either
// direction) that cross the community boundary. A topN <= 0 keeps everyone.
func Leaders(g *network.Graph, res Result, topN int, opts pagerank.Options) []CommunityLeaders {
	out := make([]CommunityLeaders, 0, len(res.Communities))
	for _, c := range res.Communities {
		sub := g.Subgraph(c.Members)
		ranks := pagerank.Ranks(sub, opts)

		leaders := make([]Leader, 0, len(c.Members))
		for _, id := range c.Members {
			l := Leader{
				ID:                   id,
				PageRank:             ranks[id],
				InCommunityCitations: sub.InDegree(id),
			}
			if p, ok := g.Paper(id); ok {
				l.Title = p.Title
			}
			l.ExternalConnections, l.TotalConnections = connections(g, res.Assignment, id)
			if l.TotalConnections > 0 {
				l.BridgeScore = float64(l.ExternalConnections) / float64(l.TotalConnections)
			}
			l.IsBridge = l.BridgeScore >= BridgeThreshold
			leaders = append(leaders, l)
		}

		sort.Slice(leaders, func(i, j int) bool {
			if leaders[i].PageRank != leaders[j].PageRank {
				return leaders[i].PageRank > leaders[j].PageRank
			}
			if leaders[i].InCommunityCitations != leaders[j].InCommunityCitations {
				return leaders[i].InCommunityCitations > leaders[j].InCommunityCitations
			}
			return leaders[i].ID < leaders[j].ID
		})
		if topN > 0 && len(leaders) > topN {
			leaders = leaders[:topN]
		}
		out = append(out, CommunityLeaders{CommunityID: c.ID, Leaders: leaders})
	}
	return out
}

// connections counts id's citations in both directions and how many of them
// reach a paper in a different community.
func connections(g *network.Graph, assignment map[string]int, id string) (external, total int) {
	home := assignment[id]
	count := func(others []string) {
		for _, o := range others {
			total++
			if c, ok := assignment[o]; !ok || c != home {
				external++
			}
		}
	}
	count(g.CitedBy(id))
	count(g.References(id))
	return external, total
}
