package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/analytics"
)

func init() {
	similarCmd.Flags().StringP("mode", "m", analytics.ModeCombined, "Similarity: cocitation, coupling, or combined")
	rootCmd.AddCommand(similarCmd)
}

var similarCmd = &cobra.Command{
	Use:   "similar <paper-id>",
	Short: "Find papers similar to a paper",
	Long: `Rank papers by co-citation (cited together), bibliographic coupling
(shared references), or the average of both.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func runSimilar(cmd *cobra.Command, args []string) error {
	mode, _ := cmd.Flags().GetString("mode")
	id := args[0]

	s := mustOpenSession()
	matches, err := s.engine.Similar(s.graph, id, mode)
	switch {
	case errors.Is(err, analytics.ErrUnknownPaper):
		exitWithError(ExitNotFound, "paper not found: %s", id)
	case errors.Is(err, analytics.ErrUnknownMode):
		exitWithError(ExitError, "%v %q: must be cocitation, coupling, or combined", err, mode)
	case err != nil:
		exitWithError(ExitError, "%v", err)
	}

	if !humanOutput {
		outputJSON(matches)
		return nil
	}

	if len(matches) == 0 {
		fmt.Printf("No papers similar to %s\n", id)
	}
	for i, m := range matches {
		fmt.Printf("%d. [%.2f] %s\n", i+1, m.Score, m.ID)
		if m.Title != "" {
			fmt.Printf("   %s\n", truncateString(m.Title, DetailTitleMaxLen))
		}
		fmt.Printf("   co-cited %d, shared references %d\n\n", m.CoCitation.Shared, m.Coupling.Shared)
	}
	return nil
}
