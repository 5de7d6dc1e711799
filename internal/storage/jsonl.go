// Package storage handles data persistence in JSONL and SQLite formats.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matsen/citenet/internal/paper"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
// This constant is shared across all JSONL file readers.
const MaxJSONLLineCapacity = 1024 * 1024

// readJSONL decodes one record per non-empty line of path, validating each
// as it goes. A missing file yields no records.
func readJSONL[T any](path, kind string, validate func(*T) error) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Empty file returns empty slice
		}
		return nil, fmt.Errorf("opening %s file: %w", kind, err)
	}
	defer f.Close()

	var records []T
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var rec T
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}

		// Fail fast: validate structure before adding to collection
		if err := validate(&rec); err != nil {
			return nil, fmt.Errorf("invalid %s at line %d: %w", kind, lineNum, err)
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s file: %w", kind, err)
	}

	return records, nil
}

// writeJSONLLine marshals v to JSON and writes it as a JSONL line.
func writeJSONLLine(w io.Writer, kind string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", kind, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", kind, err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}
	return nil
}

func appendJSONL(path, kind string, v any) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s file for append: %w", kind, err)
	}
	defer f.Close()

	return writeJSONLLine(f, kind, v)
}

func writeAllJSONL[T any](path, kind string, records []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s file: %w", kind, err)
	}
	defer f.Close()

	for _, rec := range records {
		if err := writeJSONLLine(f, kind, rec); err != nil {
			return err
		}
	}

	return nil
}

// ReadAllPapers reads all papers from a JSONL file.
// Returns an error if any paper fails validation (fail-fast).
func ReadAllPapers(path string) ([]paper.Paper, error) {
	return readJSONL(path, "paper", (*paper.Paper).ValidateForCreate)
}

// AppendPaper adds a paper to the end of a JSONL file.
func AppendPaper(path string, p paper.Paper) error {
	return appendJSONL(path, "paper", p)
}

// WriteAllPapers writes all papers to a JSONL file, replacing existing content.
func WriteAllPapers(path string, papers []paper.Paper) error {
	return writeAllJSONL(path, "paper", papers)
}

// FindPaperByID searches for a paper by ID.
func FindPaperByID(papers []paper.Paper, id string) (int, bool) {
	for i, p := range papers {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// UpsertPaperInSlice adds or replaces a paper by ID.
// Returns the updated slice and true if an existing paper was replaced.
func UpsertPaperInSlice(papers []paper.Paper, p paper.Paper) ([]paper.Paper, bool) {
	if idx, found := FindPaperByID(papers, p.ID); found {
		papers[idx] = p
		return papers, true
	}
	return append(papers, p), false
}
