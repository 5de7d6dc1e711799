// Package analytics composes the graph analyses into request-level
// operations over one network snapshot.
package analytics

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/community"
	"github.com/matsen/citenet/internal/forecast"
	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/pagerank"
	"github.com/matsen/citenet/internal/similarity"
)

var (
	// ErrUnknownPaper is returned when an operation names a paper that is
	// not in the graph.
	ErrUnknownPaper = errors.New("paper not found")
	// ErrUnknownMode is returned for an unrecognised similarity mode.
	ErrUnknownMode = errors.New("unknown similarity mode")
)

// Similarity modes accepted by Engine.Similar.
const (
	ModeCoCitation = "cocitation"
	ModeCoupling   = "coupling"
	ModeCombined   = "combined"
)

// Default limits.
const (
	DefaultLeaders         = 5
	DefaultSimilarityLimit = 10
	DefaultTrendingLimit   = 10
)

// Options are the tunable analysis parameters.
type Options struct {
	PageRank             pagerank.Options
	Community            community.Options
	Leaders              int
	SimilarityLimit      int
	MonthsAhead          int
	TrendingWindow       time.Duration
	TrendingMinCitations int
	TrendingLimit        int

	// ReferenceYear fixes the year used for age-dependent scores. Zero means
	// the year of the analysis time.
	ReferenceYear int
}

// DefaultOptions returns the standard parameters.
func DefaultOptions() Options {
	return Options{
		PageRank:             pagerank.DefaultOptions(),
		Community:            community.DefaultOptions(),
		Leaders:              DefaultLeaders,
		SimilarityLimit:      DefaultSimilarityLimit,
		MonthsAhead:          forecast.DefaultMonthsAhead,
		TrendingWindow:       forecast.DefaultWindow,
		TrendingMinCitations: forecast.DefaultMinCitations,
		TrendingLimit:        DefaultTrendingLimit,
	}
}

// Engine runs analyses with fixed options. It holds no per-request state and
// is safe for concurrent use.
type Engine struct {
	opts   Options
	logger *zap.Logger
}

// NewEngine returns an engine. A nil logger disables logging.
func NewEngine(opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{opts: opts, logger: logger}
}

// Options returns the engine's options.
func (e *Engine) Options() Options { return e.opts }

func (e *Engine) refYear(now time.Time) int {
	if e.opts.ReferenceYear > 0 {
		return e.opts.ReferenceYear
	}
	return now.Year()
}

// Similar ranks papers related to id by the given mode.
func (e *Engine) Similar(g *network.Graph, id, mode string) ([]similarity.Match, error) {
	if !g.Has(id) {
		return nil, ErrUnknownPaper
	}
	limit := e.opts.SimilarityLimit
	switch mode {
	case ModeCoCitation:
		return similarity.FindSimilarByCoCitation(g, id, limit), nil
	case ModeCoupling:
		return similarity.FindSimilarByCoupling(g, id, limit), nil
	case ModeCombined, "":
		return similarity.FindRelated(g, id, limit), nil
	default:
		return nil, ErrUnknownMode
	}
}

// Trending ranks the papers with enough recent citations.
func (e *Engine) Trending(g *network.Graph, now time.Time) []forecast.TrendingPaper {
	pool := forecast.CandidatePool(g, now, e.opts.TrendingWindow, e.opts.TrendingMinCitations)
	e.logger.Debug("trending candidates", zap.Int("candidates", len(pool)))
	return forecast.Trending(g, pool, now, e.opts.TrendingLimit)
}
