package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/matsen/citenet/internal/citation"
	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/network/networktest"
)

var now = time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC)

// corpus is two small clusters joined by one citation, plus a dangling
// citation and a paper with a monthly citation history.
func corpus() *network.Graph {
	relevance := 0.9
	return networktest.New().
		Titled("a1", "Graph neural networks", 2019).
		Titled("a2", "Graph attention networks", 2020).
		Titled("a3", "Message passing networks", 2021).
		Titled("b1", "Protein folding", 2015).
		Titled("b2", "Protein structure prediction", 2018).
		Titled("b3", "Protein design", 2022).
		Cite("a2", "a1").
		Cite("a3", "a1").
		Cite("a3", "a2").
		Cite("b2", "b1").
		Cite("b3", "b1").
		Cite("b3", "b2").
		With(citation.Citation{CitingID: "a3", CitedID: "b1", RelevanceScore: &relevance, IsInfluential: true}).
		Cite("a1", "ghost").
		CitedMonthly("a1", networktest.Month(2023, time.July), []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 6, 6, 6}).
		Graph()
}

func TestNewEngine_NilLogger(t *testing.T) {
	e := NewEngine(DefaultOptions(), nil)
	require.NotNil(t, e)
	assert.Equal(t, DefaultLeaders, e.Options().Leaders)
}

func TestAnalyze(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := NewEngine(DefaultOptions(), zap.New(core))
	g := corpus()

	r, err := e.Analyze(context.Background(), g, now)
	require.NoError(t, err)

	_, err = uuid.Parse(r.RunID)
	assert.NoError(t, err)
	assert.Equal(t, g.Len(), r.Papers)
	assert.Equal(t, g.EdgeCount(), r.Citations)
	assert.Equal(t, 1, r.Dropped.Dangling)
	assert.Len(t, r.Nodes, g.Len())
	for i := 1; i < len(r.Nodes); i++ {
		assert.GreaterOrEqual(t, r.Nodes[i-1].PageRank, r.Nodes[i].PageRank)
	}
	assert.Equal(t, "a1", r.Nodes[0].ID)
	assert.NotEmpty(t, r.Communities)
	assert.Len(t, r.Leaders, len(r.Communities))
	assert.Len(t, r.Dynamics, len(r.Communities))
	assert.Equal(t, now, r.GeneratedAt)

	assert.Equal(t, 1, logs.FilterMessage("citations dropped while building graph").Len())
	done := logs.FilterMessage("analysis complete").All()
	require.Len(t, done, 1)
	assert.Equal(t, r.RunID, done[0].ContextMap()["run_id"])
}

func TestAnalyze_Empty(t *testing.T) {
	e := NewEngine(DefaultOptions(), zap.NewNop())
	r, err := e.Analyze(context.Background(), networktest.New().Graph(), now)
	require.NoError(t, err)
	assert.Empty(t, r.Nodes)
	assert.Empty(t, r.Communities)
	assert.Zero(t, r.Modularity)
}

func TestAnalyze_RepeatedWithSameContext(t *testing.T) {
	e := NewEngine(DefaultOptions(), nil)
	ctx := context.Background()
	g := networktest.New().Papers("A", "B").Cite("A", "B").Graph()

	for range 2 {
		r, err := e.Analyze(ctx, g, now)
		require.NoError(t, err)
		assert.Equal(t, 2, r.Papers)
		assert.Equal(t, 1, r.Citations)
		assert.Len(t, r.Leaders, len(r.Communities))
	}
	assert.NoError(t, ctx.Err())
}

func TestAnalyze_Canceled(t *testing.T) {
	e := NewEngine(DefaultOptions(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Analyze(ctx, corpus(), now)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInsight(t *testing.T) {
	e := NewEngine(DefaultOptions(), zap.NewNop())
	g := corpus()

	in, err := e.Insight(g, "a1", now)
	require.NoError(t, err)
	assert.Equal(t, "Graph neural networks", in.Title)
	assert.Greater(t, in.PageRank, 0.0)
	assert.True(t, in.Bursts.Active())
	require.NotNil(t, in.Aging)
	assert.Equal(t, 5, in.Aging.Age)
	assert.False(t, in.Forecast.InsufficientData)
	assert.Len(t, in.Forecast.Predictions, DefaultOptions().MonthsAhead)
	assert.GreaterOrEqual(t, in.Impact.Score, 0.0)
	assert.LessOrEqual(t, in.Impact.Score, 100.0)

	quiet, err := e.Insight(g, "b3", now)
	require.NoError(t, err)
	assert.True(t, quiet.Forecast.InsufficientData)
	assert.Zero(t, quiet.Forecast.Confidence)

	_, err = e.Insight(g, "missing", now)
	assert.ErrorIs(t, err, ErrUnknownPaper)
}

func TestInsight_UnknownYear(t *testing.T) {
	e := NewEngine(DefaultOptions(), zap.NewNop())
	g := networktest.New().Papers("X", "Y").Cite("Y", "X").Graph()

	in, err := e.Insight(g, "X", now)
	require.NoError(t, err)
	assert.Nil(t, in.Aging)
	assert.Equal(t, 50.0, in.Impact.Freshness)
}

func TestRateReferences(t *testing.T) {
	e := NewEngine(DefaultOptions(), zap.NewNop())
	g := corpus()

	rated, err := e.RateReferences(g, "a3", now)
	require.NoError(t, err)
	require.Len(t, rated, 3)
	assert.Equal(t, "b1", rated[0].CitedID)
	for i := 1; i < len(rated); i++ {
		assert.GreaterOrEqual(t, rated[i-1].TotalScore, rated[i].TotalScore)
	}

	_, err = e.RateReferences(g, "missing", now)
	assert.ErrorIs(t, err, ErrUnknownPaper)

	assert.Len(t, e.ScoreCitations(g, now), g.EdgeCount())
}

func TestSimilar(t *testing.T) {
	e := NewEngine(DefaultOptions(), zap.NewNop())
	g := corpus()

	for _, mode := range []string{ModeCoCitation, ModeCoupling, ModeCombined, ""} {
		_, err := e.Similar(g, "a1", mode)
		assert.NoError(t, err, mode)
	}

	// a1 and a2 are both cited by a3.
	matches, err := e.Similar(g, "a1", ModeCoCitation)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "a2", matches[0].ID)

	_, err = e.Similar(g, "a1", "bogus")
	assert.ErrorIs(t, err, ErrUnknownMode)
	_, err = e.Similar(g, "missing", ModeCombined)
	assert.ErrorIs(t, err, ErrUnknownPaper)
}

func TestTrending(t *testing.T) {
	e := NewEngine(DefaultOptions(), zap.NewNop())
	trending := e.Trending(corpus(), now)
	require.NotEmpty(t, trending)
	assert.Equal(t, "a1", trending[0].ID)
	assert.True(t, trending[0].Bursting)
}
