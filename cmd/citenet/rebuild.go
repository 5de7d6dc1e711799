package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/config"
	"github.com/matsen/citenet/internal/storage"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(statsCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query layer from source data",
	Long: `Rebuild the SQLite query database from the papers and citations JSONL files.

Use this after pulling changes from git or if the database becomes corrupted.
Citations whose papers are missing are kept and reported as orphans.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status string `json:"status"`
	storage.RebuildStats
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	stats, err := db.RebuildFromJSONL(config.PapersPath(repoRoot), config.CitationsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt query database with %d papers and %d citations\n", stats.Papers, stats.Citations)
		if stats.Orphans > 0 {
			fmt.Printf("  %d orphan citations (missing papers)\n", stats.Orphans)
		}
		if stats.DuplicatePapers > 0 || stats.DuplicateCitations > 0 {
			fmt.Printf("  %d duplicate papers, %d duplicate citations (later records win)\n",
				stats.DuplicatePapers, stats.DuplicateCitations)
		}
	} else {
		outputJSON(RebuildResult{Status: "rebuilt", RebuildStats: stats})
	}
	return nil
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the cached network",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	stats, err := db.Stats()
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Papers:      %d (%d with year)\n", stats.Papers, stats.PapersWithYear)
		fmt.Printf("Citations:   %d (%d timestamped, %d influential)\n",
			stats.Citations, stats.Timestamped, stats.Influential)
		fmt.Printf("Orphans:     %d\n", stats.OrphanCitations)
	} else {
		outputJSON(stats)
	}
	return nil
}
