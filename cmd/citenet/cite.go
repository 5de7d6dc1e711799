package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/citation"
	"github.com/matsen/citenet/internal/config"
	"github.com/matsen/citenet/internal/storage"
)

func init() {
	rootCmd.AddCommand(citeCmd)

	citeAddCmd.Flags().String("from", "", "Citing paper ID (required)")
	citeAddCmd.Flags().String("to", "", "Cited paper ID (required)")
	citeAddCmd.Flags().String("context", "", "Sentence surrounding the citation")
	citeAddCmd.Flags().Float64("relevance", -1, "Prior relevance score in [0,1]")
	citeAddCmd.Flags().Bool("influential", false, "Mark the citation as influential")
	citeAddCmd.Flags().Int("citation-depth", 0, "Discovery depth (0 for direct citations)")
	citeAddCmd.Flags().String("at", "", "Citation time (RFC3339 or YYYY-MM-DD; default now)")
	citeAddCmd.MarkFlagRequired("from")
	citeAddCmd.MarkFlagRequired("to")
	citeCmd.AddCommand(citeAddCmd)

	citeListCmd.Flags().Bool("incoming", false, "List papers citing this one (default: its references)")
	citeCmd.AddCommand(citeListCmd)
}

var citeCmd = &cobra.Command{
	Use:   "cite",
	Short: "Manage citations",
	Long:  `Commands for managing directed citations between papers.`,
}

// CiteAddResult is the response for the cite add command.
type CiteAddResult struct {
	Action   string            `json:"action"` // "added" or "updated"
	Citation citation.Citation `json:"citation"`
}

var citeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a citation",
	Long: `Record that one paper cites another.

Both papers must already exist. Re-adding a pair updates it in place and keeps
its original timestamp unless --at is given.`,
	Args: cobra.NoArgs,
	RunE: runCiteAdd,
}

func runCiteAdd(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	c := citation.Citation{}
	c.CitingID, _ = cmd.Flags().GetString("from")
	c.CitedID, _ = cmd.Flags().GetString("to")
	c.Context, _ = cmd.Flags().GetString("context")
	c.IsInfluential, _ = cmd.Flags().GetBool("influential")
	c.Depth, _ = cmd.Flags().GetInt("citation-depth")
	if cmd.Flags().Changed("relevance") {
		r, _ := cmd.Flags().GetFloat64("relevance")
		c.RelevanceScore = &r
	}
	if at, _ := cmd.Flags().GetString("at"); at != "" {
		t, _, err := parseTime(at)
		if err != nil {
			exitWithError(ExitError, "invalid --at %v", err)
		}
		t = t.UTC()
		c.CreatedAt = &t
	}

	if err := c.ValidateForCreate(); err != nil {
		exitWithError(ExitDataError, "invalid citation: %v", err)
	}

	papers, err := storage.ReadAllPapers(config.PapersPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading papers: %v", err)
	}
	for _, id := range []string{c.CitingID, c.CitedID} {
		if _, found := storage.FindPaperByID(papers, id); !found {
			exitWithError(ExitNotFound, "paper not found: %s", id)
		}
	}

	citationsPath := config.CitationsPath(repoRoot)
	citations, err := storage.ReadAllCitations(citationsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading citations: %v", err)
	}

	citations, updated := storage.UpsertCitationInSlice(citations, c)
	idx, _ := storage.FindCitationInSlice(citations, c.Key())
	c = citations[idx]

	if err := storage.WriteAllCitations(citationsPath, citations); err != nil {
		exitWithError(ExitDataError, "writing citations: %v", err)
	}

	db := mustOpenDatabase(repoRoot)
	defer db.Close()
	if err := db.InsertCitation(c); err != nil {
		exitWithError(ExitDataError, "updating index: %v", err)
	}

	action := "added"
	if updated {
		action = "updated"
	}
	if humanOutput {
		if updated {
			fmt.Printf("Updated citation: %s -> %s\n", c.CitingID, c.CitedID)
		} else {
			fmt.Printf("Added citation: %s -> %s\n", c.CitingID, c.CitedID)
		}
	} else {
		outputJSON(CiteAddResult{Action: action, Citation: c})
	}
	return nil
}

var citeListCmd = &cobra.Command{
	Use:   "list <paper-id>",
	Short: "List the references or citers of a paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runCiteList,
}

func runCiteList(cmd *cobra.Command, args []string) error {
	incoming, _ := cmd.Flags().GetBool("incoming")

	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	var (
		citations []citation.Citation
		err       error
	)
	if incoming {
		citations, err = db.GetCitationsByCited(args[0])
	} else {
		citations, err = db.GetCitationsByCiting(args[0])
	}
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if citations == nil {
		citations = []citation.Citation{}
	}

	if humanOutput {
		if len(citations) == 0 {
			fmt.Println("No citations found")
		}
		for _, c := range citations {
			marker := " "
			if c.IsInfluential {
				marker = "*"
			}
			fmt.Printf("%s %s -> %s\n", marker, c.CitingID, c.CitedID)
			if c.Context != "" {
				fmt.Printf("    %s\n", wrapText(c.Context, TextWrapWidth, "    "))
			}
		}
	} else {
		outputJSON(citations)
	}
	return nil
}
