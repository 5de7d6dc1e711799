// Package scoring computes a bounded multi-factor relevance score for a
// single citation edge.
package scoring

import (
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/matsen/citenet/internal/citation"
	"github.com/matsen/citenet/internal/network"
)

// Component weights. They sum to 1.0.
const (
	WeightContent   = 0.30
	WeightNetwork   = 0.25
	WeightContext   = 0.20
	WeightTemporal  = 0.15
	WeightFrequency = 0.05
	WeightDepth     = 0.05
)

const (
	// decayConstant gives exp(-age/decayConstant) a half-life of ten years.
	decayConstant = 14.427

	contextLengthSaturation = 500.0
	depthStep               = 0.3
	depthFloor              = 0.3
)

// Breakdown holds the six component scores, each in [0,1].
type Breakdown struct {
	Content   float64 `json:"content_relevance"`
	Network   float64 `json:"network_importance"`
	Context   float64 `json:"context_quality"`
	Temporal  float64 `json:"temporal_relevance"`
	Frequency float64 `json:"citation_frequency"`
	Depth     float64 `json:"depth_penalty"`
}

// Weighted returns the weighted sum of the components.
func (b Breakdown) Weighted() float64 {
	return b.Content*WeightContent +
		b.Network*WeightNetwork +
		b.Context*WeightContext +
		b.Temporal*WeightTemporal +
		b.Frequency*WeightFrequency +
		b.Depth*WeightDepth
}

// Result is the score of one citation.
type Result struct {
	CitingID   string    `json:"citing_paper_id"`
	CitedID    string    `json:"cited_paper_id"`
	TotalScore float64   `json:"total_score"`
	Breakdown  Breakdown `json:"breakdown"`
}

// Score rates citation c against graph g. refYear is the year ages are
// measured from; values <= 0 mean the current year.
func Score(c citation.Citation, g *network.Graph, refYear int) Result {
	if refYear <= 0 {
		refYear = time.Now().Year()
	}

	b := Breakdown{
		Content:   clamp01(c.Relevance()),
		Network:   NetworkImportance(g.InDegree(c.CitedID)),
		Context:   ContextQuality(c.Context, c.IsInfluential),
		Frequency: CitationFrequency(c.Context),
		Depth:     DepthPenalty(c.Depth),
	}
	if p, ok := g.Paper(c.CitedID); ok {
		if age, known := p.Age(refYear); known {
			b.Temporal = TemporalRelevance(age)
		}
	}

	return Result{
		CitingID:   c.CitingID,
		CitedID:    c.CitedID,
		TotalScore: clamp01(b.Weighted()),
		Breakdown:  b,
	}
}

// ScoreAll scores every citation and returns the results sorted by total
// score, highest first. Ties keep input order.
func ScoreAll(citations []citation.Citation, g *network.Graph, refYear int) []Result {
	results := make([]Result, 0, len(citations))
	for _, c := range citations {
		results = append(results, Score(c, g, refYear))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})
	return results
}

// NetworkImportance damps in-degree logarithmically: min(log10(n+1)/2, 1).
func NetworkImportance(inDegree int) float64 {
	if inDegree <= 0 {
		return 0
	}
	return min(math.Log10(float64(inDegree)+1)/2, 1)
}

// TemporalRelevance decays exponentially with age in years.
func TemporalRelevance(age int) float64 {
	if age < 0 {
		age = 0
	}
	return clamp01(math.Exp(-float64(age) / decayConstant))
}

// CitationFrequency uses context length as a proxy for depth of discussion.
func CitationFrequency(context string) float64 {
	return min(float64(utf8.RuneCountInString(context))/contextLengthSaturation, 1)
}

// DepthPenalty favours direct citations: max(1 - 0.3*depth, 0.3).
func DepthPenalty(depth int) float64 {
	if depth < 0 {
		depth = 0
	}
	return max(1-float64(depth)*depthStep, depthFloor)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
