package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/viz"
)

var vizOutput string
var vizLayout string
var vizTitle string

func init() {
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().StringVar(&vizLayout, "layout", "force", "Layout algorithm: force, circle, or grid")
	vizCmd.Flags().StringVar(&vizTitle, "title", "", "Page title")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Generate citation network visualization",
	Long: `Generate an interactive HTML visualization of the citation network.

Nodes are sized by PageRank and coloured by community. Community leaders have
a dark border and bridge papers are drawn as diamonds. Influential citations
are drawn in red.

Examples:
  # Generate HTML to stdout
  citenet viz > network.html

  # Generate to file
  citenet viz --output network.html

  # Neighbourhood of one paper with a circular layout
  citenet viz --paper Smith2020 --depth 1 --layout circle -o smith.html`,
	Args: cobra.NoArgs,
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()
	report := mustAnalyze(s)

	opts := viz.DefaultOptions()
	opts.Layout = vizLayout
	if vizTitle != "" {
		opts.Title = vizTitle
	}
	html, err := viz.GenerateHTML(viz.BuildGraph(report, s.graph), opts)
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}

	if vizOutput == "" {
		fmt.Print(html)
		return nil
	}
	if err := os.WriteFile(vizOutput, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		fmt.Printf("Visualization written to %s\n", vizOutput)
	} else {
		outputJSON(StatusResponse{Status: "written", Path: vizOutput})
	}
	return nil
}
