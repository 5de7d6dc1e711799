package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/analytics"
	"github.com/matsen/citenet/internal/forecast"
	"github.com/matsen/citenet/internal/temporal"
)

func init() {
	forecastCmd.Flags().Int("months", 0, "Months to forecast (default from config)")

	for _, c := range []*cobra.Command{velocityCmd, burstsCmd, agingCmd, forecastCmd, impactCmd, insightCmd} {
		rootCmd.AddCommand(c)
	}
}

var velocityCmd = &cobra.Command{
	Use:   "velocity <paper-id>",
	Short: "Citation velocity and acceleration",
	Long: `Report citations per month since publication, over the last 12 months,
and the acceleration between the two.`,
	Args: cobra.ExactArgs(1),
	RunE: runVelocity,
}

func runVelocity(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()
	s.mustHavePaper(args[0])
	v := temporal.VelocityFor(s.graph, args[0], s.now)

	if !humanOutput {
		outputJSON(v)
		return nil
	}
	printVelocity(v)
	return nil
}

func printVelocity(v temporal.Velocity) {
	fmt.Printf("Citations:  %d over %d months\n", v.TotalCitations, v.MonthsSincePublication)
	fmt.Printf("Velocity:   %.2f/month overall, %.2f/month recent (%d in last 12 months)\n",
		v.Overall, v.Recent, v.RecentCitations)
	fmt.Printf("Trend:      %s (acceleration %+.2f)\n", v.Trend, v.Acceleration)
}

var burstsCmd = &cobra.Command{
	Use:   "bursts <paper-id>",
	Short: "Detect citation bursts",
	Long: `Find runs of at least three months with more than twice the median
monthly citation count, and estimate the chance of an ongoing burst.`,
	Args: cobra.ExactArgs(1),
	RunE: runBursts,
}

func runBursts(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()
	s.mustHavePaper(args[0])
	r := temporal.BurstsFor(s.graph, args[0], s.now)

	if !humanOutput {
		outputJSON(r)
		return nil
	}
	printBursts(r)
	return nil
}

func printBursts(r temporal.BurstReport) {
	fmt.Printf("Baseline %.1f/month, threshold %.1f, burst probability %.0f%%\n",
		r.Baseline, r.Threshold, r.Probability*100)
	if len(r.Bursts) == 0 {
		fmt.Println("No bursts")
	}
	for _, b := range r.Bursts {
		active := ""
		if r.Current != nil && r.Current.Start == b.Start {
			active = "  (ongoing)"
		}
		fmt.Printf("  %s to %s: %d months, peak %d, intensity %.1fx%s\n",
			formatMonth(b.StartMonth), formatMonth(b.EndMonth), b.Duration, b.Peak, b.Intensity, active)
	}
}

var agingCmd = &cobra.Command{
	Use:   "aging <paper-id>",
	Short: "Citation aging curve",
	Long: `Report citations per year since publication with the citation
half-life, peak year, aging pattern and current phase.`,
	Args: cobra.ExactArgs(1),
	RunE: runAging,
}

func runAging(cmd *cobra.Command, args []string) error {
	s := mustOpenSession()
	s.mustHavePaper(args[0])
	a, ok := temporal.AgingFor(s.graph, args[0], s.now)
	if !ok {
		exitWithError(ExitDataError, "publication year of %s is unknown", args[0])
	}

	if !humanOutput {
		outputJSON(a)
		return nil
	}
	printAging(a)
	return nil
}

func printAging(a temporal.Aging) {
	fmt.Printf("Published %d, age %d, %d citations\n", a.PublicationYear, a.Age, a.TotalCitations)
	fmt.Printf("Half-life %d years, peak %d years after publication (%d citations)\n", a.HalfLife, a.PeakYear, a.PeakCitations)
	fmt.Printf("Pattern %s, phase %s\n", a.Pattern, a.Phase)
	years := make([]string, len(a.Yearly))
	for i, n := range a.Yearly {
		years[i] = fmt.Sprintf("%d:%d", a.PublicationYear+i, n)
	}
	fmt.Printf("By year: %s\n", strings.Join(years, " "))
}

var forecastCmd = &cobra.Command{
	Use:   "forecast <paper-id>",
	Short: "Forecast monthly citations",
	Long: `Fit a linear trend to the monthly citation history and project it
forward with 95% bands. At least six months of history are required.`,
	Args: cobra.ExactArgs(1),
	RunE: runForecast,
}

func runForecast(cmd *cobra.Command, args []string) error {
	months, _ := cmd.Flags().GetInt("months")

	s := mustOpenSession()
	s.mustHavePaper(args[0])
	if months <= 0 {
		months = s.engine.Options().MonthsAhead
	}
	f := forecast.PredictFor(s.graph, args[0], s.now, months)

	if !humanOutput {
		outputJSON(f)
		return nil
	}
	printForecast(f)
	return nil
}

func printForecast(f forecast.Forecast) {
	if f.InsufficientData {
		fmt.Printf("Insufficient data: %d months of history, need %d\n", f.Months, forecast.MinMonths)
		return
	}
	fmt.Printf("Trend %s (%+.2f/month), R² %.2f, confidence %.0f%%\n",
		f.Trend, f.Slope, f.RSquared, f.Confidence*100)
	for _, p := range f.Predictions {
		fmt.Printf("  %s  %6.1f  [%.1f, %.1f]\n", formatMonth(p.Month), p.Predicted, p.Lower, p.Upper)
	}
	fmt.Printf("Projected total: %.0f\n", f.ProjectedTotal)
}

var impactCmd = &cobra.Command{
	Use:   "impact <paper-id>",
	Short: "Estimate impact potential",
	Long:  `Combine velocity, burst, network and freshness signals into a 0-100 impact score.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runImpact,
}

func runImpact(cmd *cobra.Command, args []string) error {
	in := mustInsight(args[0])

	if !humanOutput {
		outputJSON(in.Impact)
		return nil
	}
	printImpact(in.Impact)
	return nil
}

func printImpact(im forecast.Impact) {
	fmt.Printf("Impact %.1f (%s)\n", im.Score, im.Level)
	fmt.Printf("  velocity %.1f  burst %.1f  network %.1f  freshness %.1f\n",
		im.Velocity, im.Burst, im.Network, im.Freshness)
}

var insightCmd = &cobra.Command{
	Use:   "insight <paper-id>",
	Short: "All temporal analyses for one paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runInsight,
}

func runInsight(cmd *cobra.Command, args []string) error {
	in := mustInsight(args[0])

	if !humanOutput {
		outputJSON(in)
		return nil
	}

	fmt.Printf("%s  PageRank %.4f\n", in.PaperID, in.PageRank)
	if in.Title != "" {
		fmt.Printf("%s\n", wrapText(in.Title, TextWrapWidth, ""))
	}
	fmt.Println()
	printVelocity(in.Velocity)
	fmt.Println()
	printBursts(in.Bursts)
	if in.Aging != nil {
		fmt.Println()
		printAging(*in.Aging)
	}
	fmt.Println()
	printForecast(in.Forecast)
	fmt.Println()
	printImpact(in.Impact)
	return nil
}

// mustInsight computes the insight for id, exits if the paper is unknown.
func mustInsight(id string) *analytics.Insight {
	s := mustOpenSession()
	in, err := s.engine.Insight(s.graph, id, s.now)
	if err != nil {
		exitWithError(ExitNotFound, "paper not found: %s", id)
	}
	return in
}
