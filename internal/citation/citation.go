// Package citation defines the directed citation edge between two papers.
package citation

import (
	"errors"
	"time"
)

// Citation represents a directed "citing paper cites cited paper" relationship.
type Citation struct {
	// Identity: (CitingID, CitedID) pair
	CitingID string `json:"citing_paper_id"`
	CitedID  string `json:"cited_paper_id"`

	// Context is the sentence or passage surrounding the citation, if known.
	Context string `json:"citation_context,omitempty"`

	// RelevanceScore is a prior external rating in [0,1]; nil when not rated.
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
	IsInfluential  bool     `json:"is_influential,omitempty"`

	// Depth is 0 for direct citations and >0 for transitively discovered ones.
	Depth int `json:"citation_depth"`

	// CreatedAt is required for temporal analysis; nil records only count
	// toward static metrics.
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Validation errors.
var (
	ErrEmptyCitingID  = errors.New("citing_paper_id is required")
	ErrEmptyCitedID   = errors.New("cited_paper_id is required")
	ErrSelfCitation   = errors.New("citing_paper_id and cited_paper_id cannot be the same")
	ErrNegativeDepth  = errors.New("citation_depth must not be negative")
	ErrRelevanceRange = errors.New("relevance_score must be within [0,1]")
)

// ValidateForCreate validates a citation for creation.
// Returns an error if any required field is missing or invalid.
func (c *Citation) ValidateForCreate() error {
	if c.CitingID == "" {
		return ErrEmptyCitingID
	}
	if c.CitedID == "" {
		return ErrEmptyCitedID
	}
	if c.CitingID == c.CitedID {
		return ErrSelfCitation
	}
	if c.Depth < 0 {
		return ErrNegativeDepth
	}
	if c.RelevanceScore != nil && (*c.RelevanceScore < 0 || *c.RelevanceScore > 1) {
		return ErrRelevanceRange
	}
	return nil
}

// SetCreatedAt stamps the citation with the current time if not already set.
func (c *Citation) SetCreatedAt() {
	if c.CreatedAt == nil {
		now := time.Now().UTC()
		c.CreatedAt = &now
	}
}

// Relevance returns the external relevance score, or 0 when absent.
func (c *Citation) Relevance() float64 {
	if c.RelevanceScore == nil {
		return 0
	}
	return *c.RelevanceScore
}

// Key returns the unique identity of this citation.
func (c *Citation) Key() Key {
	return Key{CitingID: c.CitingID, CitedID: c.CitedID}
}

// Key represents the unique identity of a citation.
type Key struct {
	CitingID string
	CitedID  string
}

// OrphanInfo describes a citation with one or both endpoints missing.
type OrphanInfo struct {
	CitingID string `json:"citing_paper_id"`
	CitedID  string `json:"cited_paper_id"`
	Reason   string `json:"reason"` // "missing_citing", "missing_cited", or "missing_both"
}

// DetectOrphans finds citations that reference papers not in the valid ID set.
// Returns orphaned citations with their reasons and the list of valid citations.
func DetectOrphans(citations []Citation, validIDs map[string]bool) (orphaned []OrphanInfo, valid []Citation) {
	for _, c := range citations {
		citingOK := validIDs[c.CitingID]
		citedOK := validIDs[c.CitedID]

		if citingOK && citedOK {
			valid = append(valid, c)
			continue
		}

		info := OrphanInfo{CitingID: c.CitingID, CitedID: c.CitedID}
		switch {
		case !citingOK && !citedOK:
			info.Reason = "missing_both"
		case !citingOK:
			info.Reason = "missing_citing"
		default:
			info.Reason = "missing_cited"
		}
		orphaned = append(orphaned, info)
	}
	return orphaned, valid
}

// FindDuplicates finds citations that appear more than once in the list.
// Returns a map of Key to count for keys that appear more than once.
func FindDuplicates(citations []Citation) map[Key]int {
	counts := make(map[Key]int)
	for _, c := range citations {
		counts[c.Key()]++
	}

	duplicates := make(map[Key]int)
	for key, count := range counts {
		if count > 1 {
			duplicates[key] = count
		}
	}
	return duplicates
}
