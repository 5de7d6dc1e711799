package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(trendingCmd)
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List trending papers",
	Long: `Rank papers cited often within the trending window by recent velocity,
acceleration and burst intensity.

Window, minimum citations and limit come from the trending section of config.yml.`,
	Args: cobra.NoArgs,
	RunE: runTrending,
}

func runTrending(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()
	papers := s.engine.Trending(s.graph, s.now)

	if !humanOutput {
		outputJSON(papers)
		return nil
	}

	if len(papers) == 0 {
		fmt.Println("No trending papers")
	}
	for i, p := range papers {
		burst := ""
		if p.Bursting {
			burst = fmt.Sprintf("  bursting x%.1f", p.BurstIntensity)
		}
		fmt.Printf("%-3d %-20s score %.2f  velocity %.2f/mo  accel %+.2f%s\n",
			i+1, p.ID, p.Score, p.RecentVelocity, p.Acceleration, burst)
		if p.Title != "" {
			fmt.Printf("    %s\n", truncateString(p.Title, DetailTitleMaxLen))
		}
	}
	return nil
}
