package scoring

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matsen/citenet/internal/citation"
	"github.com/matsen/citenet/internal/network/networktest"
)

func ptr(f float64) *float64 { return &f }

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightContent + WeightNetwork + WeightContext + WeightTemporal + WeightFrequency + WeightDepth
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestNetworkImportance(t *testing.T) {
	tests := []struct {
		inDegree int
		want     float64
	}{
		{0, 0},
		{9, 0.5},
		{99, 1.0},
		{10000, 1.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NetworkImportance(tt.inDegree), 1e-9, "inDegree=%d", tt.inDegree)
	}
}

func TestTemporalRelevance_HalfLife(t *testing.T) {
	assert.InDelta(t, 1.0, TemporalRelevance(0), 1e-12)
	assert.InDelta(t, 0.5, TemporalRelevance(10), 1e-3)
	assert.InDelta(t, 1.0, TemporalRelevance(-3), 1e-12)
}

func TestDepthPenalty(t *testing.T) {
	tests := []struct {
		depth int
		want  float64
	}{
		{0, 1.0},
		{1, 0.7},
		{2, 0.4},
		{3, 0.3},
		{10, 0.3},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, DepthPenalty(tt.depth), 1e-9, "depth=%d", tt.depth)
	}
}

func TestCitationFrequency(t *testing.T) {
	assert.Equal(t, 0.0, CitationFrequency(""))
	assert.InDelta(t, 0.5, CitationFrequency(strings.Repeat("x", 250)), 1e-9)
	assert.Equal(t, 1.0, CitationFrequency(strings.Repeat("x", 900)))
}

func TestContextQuality(t *testing.T) {
	tests := []struct {
		name        string
		context     string
		influential bool
		want        float64
	}{
		{name: "empty is neutral", context: "", want: 0.5},
		{name: "no keywords", context: "as described earlier", want: 0.5},
		{name: "one positive", context: "the seminal work of", want: 0.6},
		{name: "repeated keyword counts once", context: "novel, novel, novel", want: 0.6},
		{name: "one negative", context: "however this result", want: 0.4},
		{name: "methodology", context: "we use their method and dataset", want: 0.7},
		{name: "methodology capped", context: "method approach framework algorithm technique", want: 0.8},
		{
			name:    "positive capped and clamped",
			context: "seminal pioneering landmark influential important significant novel method dataset",
			want:    1.0,
		},
		{
			name:    "negative floor",
			context: "however limitation flawed fails incorrect inconsistent questionable",
			want:    0.0,
		},
		{name: "keyword inside a word", context: "a small tweak to the remodel", want: 0.5},
		{name: "plural keyword", context: "their methods and models", want: 0.7},
		{name: "phrase", context: "this builds on earlier work", want: 0.6},
		{name: "negative phrase", context: "the model does not scale", want: 0.5},
		{name: "hyphenated keyword", context: "a state-of-the-art result", want: 0.6},
		{name: "influential floor", context: "however limitation", influential: true, want: 0.8},
		{name: "influential empty", context: "", influential: true, want: 0.8},
		{name: "influential keeps higher", context: "seminal landmark novel", influential: true, want: 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ContextQuality(tt.context, tt.influential), 1e-9)
		})
	}
}

func TestScore_Breakdown(t *testing.T) {
	g := networktest.New().
		Paper("cited", 2010).
		Paper("citing", 2020).
		Paper("other", 2021).
		Cite("other", "cited").
		Graph()

	c := citation.Citation{
		CitingID:       "citing",
		CitedID:        "cited",
		RelevanceScore: ptr(0.9),
		Context:        "the seminal method",
		Depth:          1,
	}
	r := Score(c, g, 2020)

	assert.Equal(t, "citing", r.CitingID)
	assert.Equal(t, "cited", r.CitedID)
	assert.InDelta(t, 0.9, r.Breakdown.Content, 1e-9)
	// in-degree is counted from the graph, not from the scored citation
	assert.InDelta(t, math.Log10(2)/2, r.Breakdown.Network, 1e-9)
	assert.InDelta(t, 0.7, r.Breakdown.Context, 1e-9)
	assert.InDelta(t, math.Exp(-10/14.427), r.Breakdown.Temporal, 1e-9)
	assert.InDelta(t, 18.0/500, r.Breakdown.Frequency, 1e-9)
	assert.InDelta(t, 0.7, r.Breakdown.Depth, 1e-9)
	assert.InDelta(t, r.Breakdown.Weighted(), r.TotalScore, 1e-12)
}

func TestScore_MissingFieldsDegradeGracefully(t *testing.T) {
	g := networktest.New().Papers("a", "b").Graph()
	r := Score(citation.Citation{CitingID: "a", CitedID: "b"}, g, 2024)

	assert.Equal(t, 0.0, r.Breakdown.Content)
	assert.Equal(t, 0.0, r.Breakdown.Temporal, "unknown year scores 0")
	assert.Equal(t, 0.5, r.Breakdown.Context)
	assert.Equal(t, 1.0, r.Breakdown.Depth)
}

func TestScore_DanglingCitedPaper(t *testing.T) {
	g := networktest.New().Papers("a").Graph()
	r := Score(citation.Citation{CitingID: "a", CitedID: "ghost"}, g, 2024)
	assert.GreaterOrEqual(t, r.TotalScore, 0.0)
	assert.LessOrEqual(t, r.TotalScore, 1.0)
}

func TestScore_BoundedAndMonotonicInRelevance(t *testing.T) {
	b := networktest.New().Paper("cited", 2023).Paper("citing", 2024)
	for i := 0; i < 150; i++ {
		id := "p" + strings.Repeat("x", i)
		b.Paper(id, 2024).Cite(id, "cited")
	}
	g := b.Graph()

	contexts := []string{"", "seminal landmark novel method", "however flawed", strings.Repeat("long ", 200)}
	for _, ctx := range contexts {
		for depth := 0; depth < 4; depth++ {
			prev := -1.0
			for rel := 0.0; rel <= 1.0; rel += 0.1 {
				c := citation.Citation{
					CitingID:       "citing",
					CitedID:        "cited",
					Context:        ctx,
					Depth:          depth,
					RelevanceScore: ptr(rel),
					IsInfluential:  depth%2 == 0,
				}
				score := Score(c, g, 2024).TotalScore
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 1.0)
				assert.GreaterOrEqual(t, score, prev, "score must not decrease as relevance grows")
				prev = score
			}
		}
	}
}

func TestScoreAll_SortedDescending(t *testing.T) {
	g := networktest.New().Papers("a", "b", "c").Graph()
	citations := []citation.Citation{
		{CitingID: "a", CitedID: "b", RelevanceScore: ptr(0.1)},
		{CitingID: "a", CitedID: "c", RelevanceScore: ptr(0.9)},
	}

	results := ScoreAll(citations, g, 2024)
	assert.Len(t, results, 2)
	assert.Equal(t, "c", results[0].CitedID)
	assert.GreaterOrEqual(t, results[0].TotalScore, results[1].TotalScore)
	assert.Empty(t, ScoreAll(nil, g, 2024))
}
