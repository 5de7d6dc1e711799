package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/config"
	"github.com/matsen/citenet/internal/paper"
	"github.com/matsen/citenet/internal/storage"
)

// DefaultSearchLimit bounds paper search results.
const DefaultSearchLimit = 50

func init() {
	rootCmd.AddCommand(paperCmd)

	paperAddCmd.Flags().String("id", "", "Paper ID (required)")
	paperAddCmd.Flags().String("title", "", "Title (required)")
	paperAddCmd.Flags().String("authors", "", "Authors as free text")
	paperAddCmd.Flags().String("abstract", "", "Abstract")
	paperAddCmd.Flags().Int("year", 0, "Publication year (0 if unknown)")
	paperAddCmd.MarkFlagRequired("id")
	paperAddCmd.MarkFlagRequired("title")
	paperCmd.AddCommand(paperAddCmd)

	paperCmd.AddCommand(paperGetCmd)

	paperSearchCmd.Flags().IntP("limit", "n", DefaultSearchLimit, "Maximum results")
	paperCmd.AddCommand(paperSearchCmd)
}

var paperCmd = &cobra.Command{
	Use:   "paper",
	Short: "Manage papers",
	Long:  `Commands for adding, showing and searching papers.`,
}

// PaperAddResult is the response for the paper add command.
type PaperAddResult struct {
	Action string      `json:"action"` // "added" or "updated"
	Paper  paper.Paper `json:"paper"`
}

var paperAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a paper",
	Args:  cobra.NoArgs,
	RunE:  runPaperAdd,
}

func runPaperAdd(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	p := paper.Paper{}
	p.ID, _ = cmd.Flags().GetString("id")
	p.Title, _ = cmd.Flags().GetString("title")
	p.Authors, _ = cmd.Flags().GetString("authors")
	p.Abstract, _ = cmd.Flags().GetString("abstract")
	p.PublicationYear, _ = cmd.Flags().GetInt("year")

	if err := p.ValidateForCreate(); err != nil {
		exitWithError(ExitDataError, "invalid paper: %v", err)
	}

	papersPath := config.PapersPath(repoRoot)
	papers, err := storage.ReadAllPapers(papersPath)
	if err != nil {
		exitWithError(ExitDataError, "reading papers: %v", err)
	}

	papers, updated := storage.UpsertPaperInSlice(papers, p)
	if updated {
		err = storage.WriteAllPapers(papersPath, papers)
	} else {
		err = storage.AppendPaper(papersPath, p)
	}
	if err != nil {
		exitWithError(ExitDataError, "writing papers: %v", err)
	}

	rebuildCache(repoRoot)

	action := "added"
	if updated {
		action = "updated"
	}
	if humanOutput {
		if updated {
			fmt.Printf("Updated paper: %s\n", p.ID)
		} else {
			fmt.Printf("Added paper: %s\n", p.ID)
		}
	} else {
		outputJSON(PaperAddResult{Action: action, Paper: p})
	}
	return nil
}

var paperGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaperGet,
}

func runPaperGet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	p, err := db.GetPaper(args[0])
	if errors.Is(err, storage.ErrPaperNotFound) {
		exitWithError(ExitNotFound, "%v", err)
	}
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("%s\n", p.ID)
		fmt.Printf("  %s\n", wrapText(p.Title, TextWrapWidth, "  "))
		if p.Authors != "" {
			fmt.Printf("  Authors: %s\n", p.Authors)
		}
		fmt.Printf("  Year: %s\n", formatYear(p.PublicationYear))
		if p.Abstract != "" {
			fmt.Printf("\n  %s\n", wrapText(p.Abstract, TextWrapWidth, "  "))
		}
	} else {
		outputJSON(p)
	}
	return nil
}

var paperSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over titles, abstracts and authors",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaperSearch,
}

func runPaperSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	papers, err := db.SearchPapers(args[0], limit)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if papers == nil {
		papers = []paper.Paper{}
	}

	if humanOutput {
		if len(papers) == 0 {
			fmt.Println("No papers found")
		}
		for _, p := range papers {
			fmt.Printf("%-20s %-6s %s\n", p.ID, formatYear(p.PublicationYear), truncateString(p.Title, ListTitleMaxLen))
		}
	} else {
		outputJSON(papers)
	}
	return nil
}

// rebuildCache refreshes the query database after a JSONL write.
func rebuildCache(repoRoot string) {
	db := mustOpenDatabase(repoRoot)
	defer db.Close()
	if _, err := db.RebuildFromJSONL(config.PapersPath(repoRoot), config.CitationsPath(repoRoot)); err != nil {
		exitWithError(ExitDataError, "updating index: %v", err)
	}
}
