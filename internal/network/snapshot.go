// Package network holds the in-memory citation graph that every analytics
// module consumes. A Graph is built once per analysis call from a Snapshot and
// is read-only afterwards, so it may be shared freely between goroutines.
package network

import (
	"errors"
	"fmt"

	"github.com/matsen/citenet/internal/citation"
	"github.com/matsen/citenet/internal/paper"
)

// Snapshot errors.
var (
	ErrEmptyPaperID   = errors.New("paper id is required")
	ErrDuplicatePaper = errors.New("duplicate paper id")
)

// Snapshot is a point-in-time set of papers and the citations between them,
// as handed over by the persistence layer.
type Snapshot struct {
	Papers    []paper.Paper       `json:"nodes"`
	Citations []citation.Citation `json:"edges"`
}

// NewSnapshot validates field presence and returns a snapshot.
// Papers must carry unique, non-empty ids. Citations are accepted as-is;
// dangling, duplicate and self citations are dropped later by Build.
func NewSnapshot(papers []paper.Paper, citations []citation.Citation) (*Snapshot, error) {
	seen := make(map[string]bool, len(papers))
	for i, p := range papers {
		if p.ID == "" {
			return nil, fmt.Errorf("paper at index %d: %w", i, ErrEmptyPaperID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePaper, p.ID)
		}
		seen[p.ID] = true
	}
	return &Snapshot{Papers: papers, Citations: citations}, nil
}

// IsEmpty returns true if the snapshot has no papers.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || len(s.Papers) == 0
}

// FromRecords validates the records and builds a Graph in one step.
func FromRecords(papers []paper.Paper, citations []citation.Citation) (*Graph, error) {
	snap, err := NewSnapshot(papers, citations)
	if err != nil {
		return nil, err
	}
	return Build(snap), nil
}
