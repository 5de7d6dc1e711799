// Package networktest provides builders for citation graphs used in tests.
package networktest

import (
	"strconv"
	"time"

	"github.com/matsen/citenet/internal/citation"
	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/paper"
)

// Builder accumulates papers and citations for a test graph.
type Builder struct {
	papers    []paper.Paper
	citations []citation.Citation
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// Paper adds a paper with the given id and publication year (0 = unknown).
// The title defaults to the id.
func (b *Builder) Paper(id string, year int) *Builder {
	return b.Titled(id, id, year)
}

// Titled adds a paper with an explicit title.
func (b *Builder) Titled(id, title string, year int) *Builder {
	b.papers = append(b.papers, paper.Paper{ID: id, Title: title, PublicationYear: year})
	return b
}

// Papers adds several papers with unknown publication year.
func (b *Builder) Papers(ids ...string) *Builder {
	for _, id := range ids {
		b.Paper(id, 0)
	}
	return b
}

// Cite adds an untimed citation citing -> cited.
func (b *Builder) Cite(citing, cited string) *Builder {
	b.citations = append(b.citations, citation.Citation{CitingID: citing, CitedID: cited})
	return b
}

// CiteAt adds a citation stamped with the given time.
func (b *Builder) CiteAt(citing, cited string, at time.Time) *Builder {
	ts := at
	b.citations = append(b.citations, citation.Citation{CitingID: citing, CitedID: cited, CreatedAt: &ts})
	return b
}

// With adds a fully specified citation.
func (b *Builder) With(c citation.Citation) *Builder {
	b.citations = append(b.citations, c)
	return b
}

// Snapshot returns the accumulated records as a snapshot.
func (b *Builder) Snapshot() *network.Snapshot {
	return &network.Snapshot{Papers: b.papers, Citations: b.citations}
}

// Graph builds the graph.
func (b *Builder) Graph() *network.Graph {
	return network.Build(b.Snapshot())
}

// Month returns midnight UTC on the first of the given month.
func Month(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// CitedMonthly adds citations to target following counts, one entry per
// month starting at start. Citing papers are created on the fly with ids
// "<target>-c<n>".
func (b *Builder) CitedMonthly(target string, start time.Time, counts []int) *Builder {
	n := 0
	for i, count := range counts {
		at := start.AddDate(0, i, 0)
		for j := 0; j < count; j++ {
			n++
			id := target + "-c" + strconv.Itoa(n)
			b.Paper(id, at.Year())
			b.CiteAt(id, target, at.AddDate(0, 0, j%27))
		}
	}
	return b
}
