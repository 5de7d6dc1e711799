package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/analytics"
	"github.com/matsen/citenet/internal/community"
)

func init() {
	analyzeCmd.Flags().IntP("limit", "n", 20, "Papers to list in human output (0 for all)")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(communitiesCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse the whole network",
	Long: `Compute centrality, PageRank and communities for every paper, then
community leaders and growth dynamics.

Use --paper and --depth to analyse the neighbourhood of one paper only.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

// mustAnalyze runs a full analysis, cancelled on interrupt, exits on error.
func mustAnalyze(s session) *analytics.Report {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := s.engine.Analyze(ctx, s.graph, s.now)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return report
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	s := mustOpenSession()
	report := mustAnalyze(s)

	if !humanOutput {
		outputJSON(report)
		return nil
	}

	fmt.Printf("Run %s at %s\n", report.RunID, report.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Printf("%d papers, %d citations", report.Papers, report.Citations)
	if d := report.Dropped.Total(); d > 0 {
		fmt.Printf(" (%d dropped)", d)
	}
	fmt.Println()
	converged := "converged"
	if !report.Converged {
		converged = "did not converge"
	}
	fmt.Printf("PageRank %s after %d iterations\n", converged, report.Iterations)
	fmt.Printf("%d communities, modularity %.3f\n\n", len(report.Communities), report.Modularity)

	fmt.Printf("%-4s %-20s %-9s %-4s %-4s %s\n", "#", "ID", "PageRank", "In", "Comm", "Title")
	for i, n := range report.Nodes {
		if limit > 0 && i >= limit {
			fmt.Printf("... %d more\n", len(report.Nodes)-limit)
			break
		}
		fmt.Printf("%-4d %-20s %-9.4f %-4d %-4d %s\n", i+1, n.ID, n.PageRank, n.InDegree, n.Community,
			truncateString(n.Title, ListTitleMaxLen))
	}
	return nil
}

var communitiesCmd = &cobra.Command{
	Use:   "communities",
	Short: "Detect research communities",
	Long: `Partition the network into communities with Louvain modularity
optimisation and report each community's keywords, leaders and growth.`,
	Args: cobra.NoArgs,
	RunE: runCommunities,
}

// CommunityView joins a community with its leaders and dynamics.
type CommunityView struct {
	community.Community
	Leaders  []community.Leader `json:"leaders"`
	Dynamics community.Dynamics `json:"dynamics"`
}

// CommunitiesResult is the response for the communities command.
type CommunitiesResult struct {
	Modularity  float64         `json:"modularity"`
	StandardQ   float64         `json:"standard_q"`
	Communities []CommunityView `json:"communities"`
}

func runCommunities(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()
	report := mustAnalyze(s)

	result := CommunitiesResult{
		Modularity:  report.Modularity,
		StandardQ:   report.StandardQ,
		Communities: communityViews(report),
	}

	if !humanOutput {
		outputJSON(result)
		return nil
	}

	fmt.Printf("%d communities, modularity %.3f (Newman Q %.3f)\n",
		len(result.Communities), result.Modularity, result.StandardQ)
	for _, c := range result.Communities {
		fmt.Printf("\n[%d] %d papers, density %.2f, %s, citations %s\n",
			c.ID, c.Size, c.Density, c.Dynamics.Growth, c.Dynamics.CitationTrend)
		if len(c.Keywords) > 0 {
			fmt.Printf("  Keywords: %s\n", formatIDList(c.Keywords))
		}
		for _, l := range c.Leaders {
			bridge := ""
			if l.IsBridge {
				bridge = " (bridge)"
			}
			fmt.Printf("  %-20s %.4f %s%s\n", l.ID, l.PageRank, truncateString(l.Title, ListTitleMaxLen), bridge)
		}
	}
	return nil
}

// communityViews pairs each community with its leaders and dynamics by id.
func communityViews(report *analytics.Report) []CommunityView {
	leaders := make(map[int][]community.Leader, len(report.Leaders))
	for _, cl := range report.Leaders {
		leaders[cl.CommunityID] = cl.Leaders
	}
	dynamics := make(map[int]community.Dynamics, len(report.Dynamics))
	for _, d := range report.Dynamics {
		dynamics[d.CommunityID] = d
	}

	views := make([]CommunityView, 0, len(report.Communities))
	for _, c := range report.Communities {
		l := leaders[c.ID]
		if l == nil {
			l = []community.Leader{}
		}
		views = append(views, CommunityView{Community: c, Leaders: l, Dynamics: dynamics[c.ID]})
	}
	return views
}
