package storage

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/citation"
	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/paper"
)

// LoadSnapshot returns every cached paper and citation.
func (d *DB) LoadSnapshot() (*network.Snapshot, error) {
	papers, err := d.ListPapers(0)
	if err != nil {
		return nil, err
	}
	citations, err := d.GetAllCitations()
	if err != nil {
		return nil, err
	}
	return network.NewSnapshot(papers, citations)
}

// LoadNeighborhood returns the papers within depth citation hops of id, in
// either direction, and the citations among them. Depth 0 yields the paper
// alone.
func (d *DB) LoadNeighborhood(id string, depth int) (*network.Snapshot, error) {
	root, err := d.GetPaper(id)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{id: true}
	frontier := []string{id}
	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, cur := range frontier {
			out, err := d.GetCitationsByCiting(cur)
			if err != nil {
				return nil, err
			}
			in, err := d.GetCitationsByCited(cur)
			if err != nil {
				return nil, err
			}
			for _, c := range out {
				if !seen[c.CitedID] {
					seen[c.CitedID] = true
					next = append(next, c.CitedID)
				}
			}
			for _, c := range in {
				if !seen[c.CitingID] {
					seen[c.CitingID] = true
					next = append(next, c.CitingID)
				}
			}
		}
		frontier = next
	}

	ids := make([]string, 0, len(seen))
	for pid := range seen {
		ids = append(ids, pid)
	}
	sort.Strings(ids)

	papers := []paper.Paper{*root}
	present := map[string]bool{id: true}
	for _, pid := range ids {
		if pid == id {
			continue
		}
		p, err := d.GetPaper(pid)
		if errors.Is(err, ErrPaperNotFound) {
			// Orphaned citation endpoint; the graph drops it anyway.
			continue
		}
		if err != nil {
			return nil, err
		}
		papers = append(papers, *p)
		present[pid] = true
	}

	// Citations among the collected papers, each read once from its citing side.
	var kept []citation.Citation
	for _, pid := range ids {
		if !present[pid] {
			continue
		}
		out, err := d.GetCitationsByCiting(pid)
		if err != nil {
			return nil, err
		}
		for _, c := range out {
			if present[c.CitedID] {
				kept = append(kept, c)
			}
		}
	}

	d.logger.Debug("loaded neighborhood",
		zap.String("paper_id", id),
		zap.Int("depth", depth),
		zap.Int("papers", len(papers)),
		zap.Int("citations", len(kept)))

	snap, err := network.NewSnapshot(papers, kept)
	if err != nil {
		return nil, fmt.Errorf("building neighborhood snapshot: %w", err)
	}
	return snap, nil
}

// Stats summarises the cache contents.
type Stats struct {
	Papers          int `json:"papers"`
	PapersWithYear  int `json:"papers_with_year"`
	Citations       int `json:"citations"`
	Timestamped     int `json:"timestamped_citations"`
	Influential     int `json:"influential_citations"`
	OrphanCitations int `json:"orphan_citations"`
}

// Stats counts papers and citations in the cache.
func (d *DB) Stats() (Stats, error) {
	var s Stats
	err := d.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM papers),
			(SELECT COUNT(*) FROM papers WHERE pub_year > 0),
			(SELECT COUNT(*) FROM citations),
			(SELECT COUNT(*) FROM citations WHERE created_at IS NOT NULL),
			(SELECT COUNT(*) FROM citations WHERE is_influential != 0),
			(SELECT COUNT(*) FROM citations c
				WHERE NOT EXISTS (SELECT 1 FROM papers p WHERE p.id = c.citing_id)
				   OR NOT EXISTS (SELECT 1 FROM papers p WHERE p.id = c.cited_id))
	`).Scan(&s.Papers, &s.PapersWithYear, &s.Citations, &s.Timestamped, &s.Influential, &s.OrphanCitations)
	if err != nil {
		return Stats{}, fmt.Errorf("computing stats: %w", err)
	}
	return s, nil
}
