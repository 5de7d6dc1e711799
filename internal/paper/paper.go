// Package paper defines the paper node record consumed by the analytics engine.
package paper

import (
	"errors"
	"strings"
)

// Paper represents an academic paper in a citation network.
type Paper struct {
	// Identity
	ID string `json:"id"` // Stable opaque key (citekey, DOI, or database id)

	// Metadata
	Title    string `json:"title"`
	Authors  string `json:"authors,omitempty"` // Free text, e.g. "Ada Lovelace, Charles Babbage"
	Abstract string `json:"abstract,omitempty"`
	FullText string `json:"full_text,omitempty"`

	// PublicationYear is 0 when unknown.
	PublicationYear int `json:"publication_year,omitempty"`
}

// Validation errors.
var (
	ErrEmptyID    = errors.New("id is required")
	ErrEmptyTitle = errors.New("title is required")
	ErrBadYear    = errors.New("publication_year must not be negative")
)

// ValidateForCreate validates a paper for creation.
func (p *Paper) ValidateForCreate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.PublicationYear < 0 {
		return ErrBadYear
	}
	return nil
}

// HasYear reports whether the publication year is known.
func (p *Paper) HasYear() bool {
	return p.PublicationYear > 0
}

// Age returns the number of whole years between publication and refYear.
// The second value is false when the publication year is unknown.
// Papers dated after refYear have age 0.
func (p *Paper) Age(refYear int) (int, bool) {
	if !p.HasYear() {
		return 0, false
	}
	age := refYear - p.PublicationYear
	if age < 0 {
		age = 0
	}
	return age, true
}

// Text returns the best available body text: full text, then abstract.
func (p *Paper) Text() string {
	if p.FullText != "" {
		return p.FullText
	}
	return p.Abstract
}
