package storage

import (
	"github.com/matsen/citenet/internal/citation"
)

// ReadAllCitations reads all citations from a JSONL file.
// Returns an error if any citation fails structural validation (fail-fast).
func ReadAllCitations(path string) ([]citation.Citation, error) {
	return readJSONL(path, "citation", (*citation.Citation).ValidateForCreate)
}

// AppendCitation adds a citation to the end of a JSONL file.
func AppendCitation(path string, c citation.Citation) error {
	return appendJSONL(path, "citation", c)
}

// WriteAllCitations writes all citations to a JSONL file, replacing existing content.
func WriteAllCitations(path string, citations []citation.Citation) error {
	return writeAllJSONL(path, "citation", citations)
}

// FindCitationInSlice searches for a citation by its key in an in-memory slice.
// Returns the index and true if found, -1 and false otherwise.
func FindCitationInSlice(citations []citation.Citation, key citation.Key) (int, bool) {
	for i, c := range citations {
		if c.CitingID == key.CitingID && c.CitedID == key.CitedID {
			return i, true
		}
	}
	return -1, false
}

// UpsertCitationInSlice adds or updates a citation in an in-memory slice.
// An update keeps the original timestamp when the new record has none; an
// added citation is stamped with the current time if unset.
// Returns the updated slice and true if the citation was updated, false if added.
func UpsertCitationInSlice(citations []citation.Citation, c citation.Citation) ([]citation.Citation, bool) {
	idx, found := FindCitationInSlice(citations, c.Key())
	if found {
		if c.CreatedAt == nil {
			c.CreatedAt = citations[idx].CreatedAt
		}
		citations[idx] = c
		return citations, true
	}
	c.SetCreatedAt()
	return append(citations, c), false
}
