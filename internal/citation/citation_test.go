package citation

import (
	"testing"
	"time"
)

func ptr(f float64) *float64 { return &f }

func TestCitation_ValidateForCreate(t *testing.T) {
	tests := []struct {
		name     string
		citation Citation
		wantErr  error
	}{
		{
			name:     "valid citation",
			citation: Citation{CitingID: "Smith2024", CitedID: "Jones2023"},
			wantErr:  nil,
		},
		{
			name:     "valid with relevance bounds",
			citation: Citation{CitingID: "Smith2024", CitedID: "Jones2023", RelevanceScore: ptr(1)},
			wantErr:  nil,
		},
		{
			name:     "empty citing id",
			citation: Citation{CitedID: "Jones2023"},
			wantErr:  ErrEmptyCitingID,
		},
		{
			name:     "empty cited id",
			citation: Citation{CitingID: "Smith2024"},
			wantErr:  ErrEmptyCitedID,
		},
		{
			name:     "self citation",
			citation: Citation{CitingID: "Smith2024", CitedID: "Smith2024"},
			wantErr:  ErrSelfCitation,
		},
		{
			name:     "negative depth",
			citation: Citation{CitingID: "Smith2024", CitedID: "Jones2023", Depth: -1},
			wantErr:  ErrNegativeDepth,
		},
		{
			name:     "relevance above one",
			citation: Citation{CitingID: "Smith2024", CitedID: "Jones2023", RelevanceScore: ptr(1.5)},
			wantErr:  ErrRelevanceRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.citation.ValidateForCreate()
			if err != tt.wantErr {
				t.Errorf("ValidateForCreate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCitation_SetCreatedAt(t *testing.T) {
	c := Citation{CitingID: "A", CitedID: "B"}
	c.SetCreatedAt()
	if c.CreatedAt == nil {
		t.Fatal("SetCreatedAt() left CreatedAt nil")
	}

	fixed := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c2 := Citation{CitingID: "A", CitedID: "B", CreatedAt: &fixed}
	c2.SetCreatedAt()
	if !c2.CreatedAt.Equal(fixed) {
		t.Errorf("SetCreatedAt() overwrote existing timestamp: %v", c2.CreatedAt)
	}
}

func TestCitation_Relevance(t *testing.T) {
	c := Citation{}
	if got := c.Relevance(); got != 0 {
		t.Errorf("Relevance() = %v, want 0", got)
	}
	c.RelevanceScore = ptr(0.7)
	if got := c.Relevance(); got != 0.7 {
		t.Errorf("Relevance() = %v, want 0.7", got)
	}
}

func TestDetectOrphans(t *testing.T) {
	validIDs := map[string]bool{"A": true, "B": true}
	citations := []Citation{
		{CitingID: "A", CitedID: "B"},
		{CitingID: "X", CitedID: "B"},
		{CitingID: "A", CitedID: "Y"},
		{CitingID: "X", CitedID: "Y"},
	}

	orphaned, valid := DetectOrphans(citations, validIDs)
	if len(valid) != 1 {
		t.Fatalf("expected 1 valid citation, got %d", len(valid))
	}
	if len(orphaned) != 3 {
		t.Fatalf("expected 3 orphans, got %d", len(orphaned))
	}

	wantReasons := []string{"missing_citing", "missing_cited", "missing_both"}
	for i, want := range wantReasons {
		if orphaned[i].Reason != want {
			t.Errorf("orphan %d reason = %q, want %q", i, orphaned[i].Reason, want)
		}
	}
}

func TestFindDuplicates(t *testing.T) {
	citations := []Citation{
		{CitingID: "A", CitedID: "B"},
		{CitingID: "A", CitedID: "B", Context: "again"},
		{CitingID: "B", CitedID: "A"},
	}

	dups := FindDuplicates(citations)
	if len(dups) != 1 {
		t.Fatalf("expected 1 duplicate key, got %d", len(dups))
	}
	if dups[Key{CitingID: "A", CitedID: "B"}] != 2 {
		t.Errorf("expected A->B count 2, got %v", dups)
	}
}
