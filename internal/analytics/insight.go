package analytics

import (
	"time"

	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/forecast"
	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/pagerank"
	"github.com/matsen/citenet/internal/scoring"
	"github.com/matsen/citenet/internal/temporal"
)

// Insight gathers the temporal analyses of one paper.
type Insight struct {
	PaperID  string               `json:"paper_id"`
	Title    string               `json:"title,omitempty"`
	PageRank float64              `json:"pagerank"`
	Velocity temporal.Velocity    `json:"velocity"`
	Bursts   temporal.BurstReport `json:"bursts"`
	Aging    *temporal.Aging      `json:"aging,omitempty"`
	Forecast forecast.Forecast    `json:"forecast"`
	Impact   forecast.Impact      `json:"impact"`
}

// Insight computes velocity, bursts, aging, a forecast and the impact
// potential of id as of now. Aging is omitted when the publication year is
// unknown.
func (e *Engine) Insight(g *network.Graph, id string, now time.Time) (*Insight, error) {
	p, ok := g.Paper(id)
	if !ok {
		return nil, ErrUnknownPaper
	}

	in := &Insight{
		PaperID:  id,
		Title:    p.Title,
		PageRank: pagerank.Ranks(g, e.opts.PageRank)[id],
		Velocity: temporal.VelocityFor(g, id, now),
		Bursts:   temporal.BurstsFor(g, id, now),
		Forecast: forecast.PredictFor(g, id, now, e.opts.MonthsAhead),
	}
	if a, ok := temporal.AgingFor(g, id, now); ok {
		in.Aging = &a
	}
	age, known := p.Age(e.refYear(now))
	in.Impact = forecast.ImpactPotential(forecast.InputsFrom(in.Velocity, in.Bursts, in.PageRank, age, known))

	e.logger.Debug("paper insight",
		zap.String("paper_id", id),
		zap.Float64("impact", in.Impact.Score),
		zap.Bool("insufficient_data", in.Forecast.InsufficientData))
	return in, nil
}

// RateReferences scores the outgoing citations of citingID, best first.
func (e *Engine) RateReferences(g *network.Graph, citingID string, now time.Time) ([]scoring.Result, error) {
	if !g.Has(citingID) {
		return nil, ErrUnknownPaper
	}
	return scoring.ScoreAll(g.Outgoing(citingID), g, e.refYear(now)), nil
}

// ScoreCitations scores every citation in g, best first.
func (e *Engine) ScoreCitations(g *network.Graph, now time.Time) []scoring.Result {
	return scoring.ScoreAll(g.Citations(), g, e.refYear(now))
}
