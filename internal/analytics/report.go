package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/matsen/citenet/internal/centrality"
	"github.com/matsen/citenet/internal/community"
	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/pagerank"
)

// NodeMetrics collects the per-paper results of an analysis.
type NodeMetrics struct {
	centrality.Measures
	Title     string  `json:"title,omitempty"`
	Year      int     `json:"publication_year,omitempty"`
	PageRank  float64 `json:"pagerank"`
	Community int     `json:"community"`
}

// Report is the outcome of a whole-network analysis.
type Report struct {
	RunID       string                       `json:"run_id"`
	GeneratedAt time.Time                    `json:"generated_at"`
	Papers      int                          `json:"papers"`
	Citations   int                          `json:"citations"`
	Dropped     network.DropStats            `json:"dropped"`
	Iterations  int                          `json:"pagerank_iterations"`
	Converged   bool                         `json:"pagerank_converged"`
	Nodes       []NodeMetrics                `json:"nodes"`
	Modularity  float64                      `json:"modularity"`
	StandardQ   float64                      `json:"standard_q"`
	Communities []community.Community        `json:"communities"`
	Leaders     []community.CommunityLeaders `json:"leaders"`
	Dynamics    []community.Dynamics         `json:"dynamics"`
}

// Analyze computes centrality, PageRank and communities concurrently, then
// community leaders and dynamics. Nodes are ordered by PageRank descending.
// It returns only context errors.
func (e *Engine) Analyze(ctx context.Context, g *network.Graph, now time.Time) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := e.logger.With(zap.String("run_id", runID))

	if d := g.Dropped(); d.Total() > 0 {
		log.Warn("citations dropped while building graph",
			zap.Int("dangling", d.Dangling),
			zap.Int("self_loops", d.SelfLoops),
			zap.Int("duplicates", d.Duplicates))
	}

	var (
		measures map[string]centrality.Measures
		ranks    pagerank.Result
		parts    community.Result
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		measures = centrality.Compute(g)
		return gctx.Err()
	})
	eg.Go(func() error {
		ranks = pagerank.Run(g, e.opts.PageRank)
		return gctx.Err()
	})
	eg.Go(func() error {
		parts = community.Detect(g, e.opts.Community)
		return gctx.Err()
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("analyzing network: %w", err)
	}
	if !ranks.Converged {
		log.Info("pagerank hit iteration cap",
			zap.Int("iterations", ranks.Iterations),
			zap.Float64("max_delta", ranks.MaxDelta))
	}

	leaders := community.Leaders(g, parts, e.opts.Leaders, e.opts.PageRank)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ranking community leaders: %w", err)
	}
	dynamics := community.AnalyzeDynamics(g, parts, e.refYear(now))

	nodes := make([]NodeMetrics, 0, g.Len())
	for _, id := range g.NodeIDs() {
		p, _ := g.Paper(id)
		nodes = append(nodes, NodeMetrics{
			Measures:  measures[id],
			Title:     p.Title,
			Year:      p.PublicationYear,
			PageRank:  ranks.Ranks[id],
			Community: parts.Assignment[id],
		})
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].PageRank > nodes[j].PageRank
	})

	log.Debug("analysis complete",
		zap.Int("papers", g.Len()),
		zap.Int("citations", g.EdgeCount()),
		zap.Int("communities", len(parts.Communities)),
		zap.Duration("elapsed", time.Since(start)))

	return &Report{
		RunID:       runID,
		GeneratedAt: now.UTC(),
		Papers:      g.Len(),
		Citations:   g.EdgeCount(),
		Dropped:     g.Dropped(),
		Iterations:  ranks.Iterations,
		Converged:   ranks.Converged,
		Nodes:       nodes,
		Modularity:  parts.Modularity,
		StandardQ:   parts.StandardQ,
		Communities: parts.Communities,
		Leaders:     leaders,
		Dynamics:    dynamics,
	}, nil
}
