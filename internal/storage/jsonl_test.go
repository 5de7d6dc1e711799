package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/citenet/internal/paper"
)

func TestReadAllPapers_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.jsonl")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	papers, err := ReadAllPapers(path)
	if err != nil {
		t.Fatalf("ReadAllPapers() error = %v", err)
	}
	if len(papers) != 0 {
		t.Errorf("ReadAllPapers() returned %d papers, want 0", len(papers))
	}
}

func TestReadAllPapers_NonExistentFile(t *testing.T) {
	papers, err := ReadAllPapers("/nonexistent/path/papers.jsonl")
	if err != nil {
		t.Fatalf("ReadAllPapers() error = %v (should return nil for nonexistent file)", err)
	}
	if len(papers) != 0 {
		t.Errorf("ReadAllPapers() returned %v, want empty", papers)
	}
}

func TestReadAllPapers_MultipleWithEmptyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.jsonl")
	content := `{"id":"A2026","title":"Paper A","authors":"Ann A","publication_year":2026}

{"id":"B2025","title":"Paper B","publication_year":2025}
{"id":"C","title":"Paper C"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	papers, err := ReadAllPapers(path)
	if err != nil {
		t.Fatalf("ReadAllPapers() error = %v", err)
	}
	if len(papers) != 3 {
		t.Fatalf("ReadAllPapers() returned %d papers, want 3", len(papers))
	}
	if papers[0].ID != "A2026" || papers[1].ID != "B2025" || papers[2].ID != "C" {
		t.Errorf("ReadAllPapers() returned papers in wrong order: %v, %v, %v", papers[0].ID, papers[1].ID, papers[2].ID)
	}
	if papers[0].Authors != "Ann A" {
		t.Errorf("Authors = %q, want Ann A", papers[0].Authors)
	}
	if papers[2].HasYear() {
		t.Errorf("paper C should have unknown year, got %d", papers[2].PublicationYear)
	}
}

func TestReadAllPapers_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		line    string
	}{
		{"bad json", "{\"id\":\"A\",\"title\":\"A\"}\nnot json\n", nil, "line 2"},
		{"missing title", `{"id":"A"}`, paper.ErrEmptyTitle, "line 1"},
		{"missing id", `{"title":"A"}`, paper.ErrEmptyID, "line 1"},
		{"negative year", `{"id":"A","title":"A","publication_year":-1}`, paper.ErrBadYear, "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "papers.jsonl")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := ReadAllPapers(path)
			if err == nil {
				t.Fatal("ReadAllPapers() should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Errorf("error %q should mention %s", err, tt.line)
			}
		})
	}
}

func TestWriteAndAppendPapers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.jsonl")

	papers := []paper.Paper{
		{ID: "A", Title: "Alpha", PublicationYear: 2020},
		{ID: "B", Title: "Beta", Abstract: "About beta"},
	}
	if err := WriteAllPapers(path, papers); err != nil {
		t.Fatalf("WriteAllPapers() error = %v", err)
	}
	if err := AppendPaper(path, paper.Paper{ID: "C", Title: "Gamma"}); err != nil {
		t.Fatalf("AppendPaper() error = %v", err)
	}

	got, err := ReadAllPapers(path)
	if err != nil {
		t.Fatalf("ReadAllPapers() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d papers, want 3", len(got))
	}
	if got[0] != papers[0] || got[1] != papers[1] {
		t.Errorf("round trip mismatch: %+v", got[:2])
	}
	if got[2].ID != "C" {
		t.Errorf("appended paper ID = %q, want C", got[2].ID)
	}

	// WriteAll replaces content.
	if err := WriteAllPapers(path, papers[:1]); err != nil {
		t.Fatal(err)
	}
	got, _ = ReadAllPapers(path)
	if len(got) != 1 {
		t.Errorf("after rewrite got %d papers, want 1", len(got))
	}
}

func TestUpsertPaperInSlice(t *testing.T) {
	papers := []paper.Paper{{ID: "A", Title: "Old"}}

	papers, updated := UpsertPaperInSlice(papers, paper.Paper{ID: "A", Title: "New"})
	if !updated {
		t.Error("expected update for existing ID")
	}
	if len(papers) != 1 || papers[0].Title != "New" {
		t.Errorf("papers = %+v, want single updated paper", papers)
	}

	papers, updated = UpsertPaperInSlice(papers, paper.Paper{ID: "B", Title: "B"})
	if updated {
		t.Error("expected add for new ID")
	}
	if idx, found := FindPaperByID(papers, "B"); !found || idx != 1 {
		t.Errorf("FindPaperByID(B) = %d, %v; want 1, true", idx, found)
	}
	if _, found := FindPaperByID(papers, "Z"); found {
		t.Error("FindPaperByID(Z) should not be found")
	}
}
