package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/scoring"
)

func init() {
	scoreCmd.Flags().StringP("citing", "c", "", "Only rate the references of this paper")
	scoreCmd.Flags().IntP("limit", "n", 0, "Maximum citations to list (0 for all)")
	rootCmd.AddCommand(scoreCmd)
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score citation quality",
	Long: `Score citations by content relevance, network importance, context
quality, temporal relevance, citation frequency and depth penalty.

With --citing, rate the references of one paper (auto-rated references).`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	citing, _ := cmd.Flags().GetString("citing")
	limit, _ := cmd.Flags().GetInt("limit")

	s := mustOpenSession()

	var results []scoring.Result
	if citing != "" {
		s.mustHavePaper(citing)
		results, _ = s.engine.RateReferences(s.graph, citing, s.now)
	} else {
		results = s.engine.ScoreCitations(s.graph, s.now)
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []scoring.Result{}
	}

	if !humanOutput {
		outputJSON(results)
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No citations to score")
	}
	for _, r := range results {
		b := r.Breakdown
		fmt.Printf("%.3f  %s -> %s\n", r.TotalScore, r.CitingID, r.CitedID)
		fmt.Printf("       content %.2f  network %.2f  context %.2f  temporal %.2f  frequency %.2f  depth %.2f\n",
			b.Content, b.Network, b.Context, b.Temporal, b.Frequency, b.Depth)
	}
	return nil
}
