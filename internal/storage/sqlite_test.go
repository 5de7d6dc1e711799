package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/matsen/citenet/internal/citation"
	"github.com/matsen/citenet/internal/paper"
)

func ptr[T any](v T) *T { return &v }

// setupTestDB writes the given records to JSONL and rebuilds a fresh cache from them.
func setupTestDB(t *testing.T, papers []paper.Paper, citations []citation.Citation) (*DB, RebuildStats) {
	t.Helper()
	tmpDir := t.TempDir()
	papersPath := filepath.Join(tmpDir, "papers.jsonl")
	citationsPath := filepath.Join(tmpDir, "citations.jsonl")

	if err := WriteAllPapers(papersPath, papers); err != nil {
		t.Fatalf("WriteAllPapers() error = %v", err)
	}
	if err := WriteAllCitations(citationsPath, citations); err != nil {
		t.Fatalf("WriteAllCitations() error = %v", err)
	}

	db, err := OpenDB(filepath.Join(tmpDir, "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stats, err := db.RebuildFromJSONL(papersPath, citationsPath)
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	return db, stats
}

var testPapers = []paper.Paper{
	{ID: "Smith2020", Title: "Phylogenetic inference at scale", Authors: "Jane Smith", Abstract: "Fast tree search", PublicationYear: 2020},
	{ID: "Jones2021", Title: "Bayesian phylogenetics", Authors: "Bob Jones", PublicationYear: 2021},
	{ID: "Lee2022", Title: "Protein language models", Authors: "Ann Lee", Abstract: "Transformers for proteins"},
}

func TestRebuildFromJSONL(t *testing.T) {
	created := time.Date(2023, 3, 4, 5, 6, 7, 8, time.UTC)
	db, stats := setupTestDB(t, testPapers, []citation.Citation{
		{CitingID: "Jones2021", CitedID: "Smith2020", Context: "extends", RelevanceScore: ptr(0.75), IsInfluential: true, CreatedAt: &created},
		{CitingID: "Lee2022", CitedID: "Smith2020", Depth: 1},
	})

	if stats.Papers != 3 || stats.Citations != 2 || stats.Orphans != 0 {
		t.Errorf("stats = %+v, want 3 papers, 2 citations, 0 orphans", stats)
	}

	count, err := db.CountPapers()
	if err != nil || count != 3 {
		t.Errorf("CountPapers() = %d, %v; want 3", count, err)
	}
	count, err = db.CountCitations()
	if err != nil || count != 2 {
		t.Errorf("CountCitations() = %d, %v; want 2", count, err)
	}

	refs, err := db.GetCitationsByCiting("Jones2021")
	if err != nil {
		t.Fatalf("GetCitationsByCiting() error = %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("got %d references, want 1", len(refs))
	}
	got := refs[0]
	if got.CitedID != "Smith2020" || got.Context != "extends" || !got.IsInfluential {
		t.Errorf("citation = %+v", got)
	}
	if got.RelevanceScore == nil || *got.RelevanceScore != 0.75 {
		t.Errorf("RelevanceScore = %v, want 0.75", got.RelevanceScore)
	}
	if got.CreatedAt == nil || !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}

	citers, err := db.GetCitationsByCited("Smith2020")
	if err != nil {
		t.Fatalf("GetCitationsByCited() error = %v", err)
	}
	if len(citers) != 2 {
		t.Errorf("got %d citers, want 2", len(citers))
	}
	for _, c := range citers {
		if c.CitingID == "Lee2022" && (c.CreatedAt != nil || c.RelevanceScore != nil || c.Depth != 1) {
			t.Errorf("Lee2022 citation = %+v, want untimed unrated depth 1", c)
		}
	}
}

func TestRebuildFromJSONL_ReplacesPreviousContent(t *testing.T) {
	db, _ := setupTestDB(t, testPapers, nil)

	tmpDir := t.TempDir()
	papersPath := filepath.Join(tmpDir, "papers.jsonl")
	if err := WriteAllPapers(papersPath, testPapers[:1]); err != nil {
		t.Fatal(err)
	}
	if _, err := db.RebuildFromJSONL(papersPath, filepath.Join(tmpDir, "missing.jsonl")); err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}

	count, _ := db.CountPapers()
	if count != 1 {
		t.Errorf("CountPapers() = %d after rebuild, want 1", count)
	}
	results, _ := db.SearchPapers("Bayesian", 10)
	if len(results) != 0 {
		t.Errorf("search index still holds removed paper: %v", results)
	}
}

func TestRebuildFromJSONL_InconsistentRecords(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	tmpDir := t.TempDir()
	papersPath := filepath.Join(tmpDir, "papers.jsonl")
	citationsPath := filepath.Join(tmpDir, "citations.jsonl")

	papers := append([]paper.Paper{}, testPapers...)
	papers = append(papers, paper.Paper{ID: "Smith2020", Title: "Phylogenetic inference at scale, revised", PublicationYear: 2020})
	if err := WriteAllPapers(papersPath, papers); err != nil {
		t.Fatal(err)
	}
	citations := []citation.Citation{
		{CitingID: "Jones2021", CitedID: "Smith2020"},
		{CitingID: "Jones2021", CitedID: "Smith2020", Context: "again"},
		{CitingID: "Lee2022", CitedID: "Ghost1999"},
	}
	if err := WriteAllCitations(citationsPath, citations); err != nil {
		t.Fatal(err)
	}

	db, err := OpenDB(filepath.Join(tmpDir, "test.db"), zap.New(core))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	defer db.Close()

	stats, err := db.RebuildFromJSONL(papersPath, citationsPath)
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}

	want := RebuildStats{Papers: 3, Citations: 3, Orphans: 1, DuplicatePapers: 1, DuplicateCitations: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
	if logs.FilterMessage("rebuild found inconsistent records").Len() != 1 {
		t.Errorf("expected one inconsistency warning, got %v", logs.All())
	}

	p, err := db.GetPaper("Smith2020")
	if err != nil {
		t.Fatalf("GetPaper() error = %v", err)
	}
	if p.Title != "Phylogenetic inference at scale, revised" {
		t.Errorf("later duplicate should win, got title %q", p.Title)
	}

	// Orphans stay in the cache; the graph layer drops them.
	count, _ := db.CountCitations()
	if count != 2 {
		t.Errorf("CountCitations() = %d, want 2", count)
	}
	refs, _ := db.GetCitationsByCiting("Jones2021")
	if len(refs) != 1 || refs[0].Context != "again" {
		t.Errorf("later duplicate citation should win, got %+v", refs)
	}
}

func TestGetPaper(t *testing.T) {
	db, _ := setupTestDB(t, testPapers, nil)

	p, err := db.GetPaper("Lee2022")
	if err != nil {
		t.Fatalf("GetPaper() error = %v", err)
	}
	if *p != testPapers[2] {
		t.Errorf("GetPaper() = %+v, want %+v", *p, testPapers[2])
	}

	_, err = db.GetPaper("Nobody")
	if !errors.Is(err, ErrPaperNotFound) {
		t.Errorf("GetPaper(Nobody) error = %v, want ErrPaperNotFound", err)
	}
}

func TestSearchPapers(t *testing.T) {
	db, _ := setupTestDB(t, testPapers, nil)

	tests := []struct {
		query string
		want  []string
	}{
		{"phylogenetic", []string{"Smith2020"}},
		{"phylogenetics", []string{"Jones2021"}},
		{"proteins", []string{"Lee2022"}},
		{"Smith", []string{"Smith2020"}},
		{"", nil},
		{"tree-search", []string{"Smith2020"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results, err := db.SearchPapers(tt.query, 10)
			if err != nil {
				t.Fatalf("SearchPapers(%q) error = %v", tt.query, err)
			}
			var ids []string
			for _, p := range results {
				ids = append(ids, p.ID)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("SearchPapers(%q) = %v, want %v", tt.query, ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Errorf("SearchPapers(%q)[%d] = %s, want %s", tt.query, i, ids[i], tt.want[i])
				}
			}
		})
	}
}

func TestListPapers(t *testing.T) {
	db, _ := setupTestDB(t, testPapers, nil)

	all, err := db.ListPapers(0)
	if err != nil {
		t.Fatalf("ListPapers() error = %v", err)
	}
	if len(all) != 3 || all[0].ID != "Jones2021" {
		t.Errorf("ListPapers(0) should return all papers ordered by id, got %v", all)
	}

	limited, _ := db.ListPapers(2)
	if len(limited) != 2 {
		t.Errorf("ListPapers(2) returned %d papers", len(limited))
	}
}

func TestInsertCitation(t *testing.T) {
	db, _ := setupTestDB(t, testPapers, nil)

	if err := db.InsertCitation(citation.Citation{CitingID: "Lee2022", CitedID: "Jones2021"}); err != nil {
		t.Fatalf("InsertCitation() error = %v", err)
	}
	if err := db.InsertCitation(citation.Citation{CitingID: "Lee2022", CitedID: "Jones2021", IsInfluential: true}); err != nil {
		t.Fatalf("InsertCitation() replace error = %v", err)
	}

	all, err := db.GetAllCitations()
	if err != nil {
		t.Fatalf("GetAllCitations() error = %v", err)
	}
	if len(all) != 1 || !all[0].IsInfluential {
		t.Errorf("GetAllCitations() = %+v, want one replaced citation", all)
	}
}

func TestPrepareFTSQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  ", ""},
		{"phylogenetics", "phylogenetics"},
		{"tree-search", `"tree-search"`},
		{`say "hi"`, `"say ""hi"""`},
	}
	for _, tt := range tests {
		if got := prepareFTSQuery(tt.in); got != tt.want {
			t.Errorf("prepareFTSQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
