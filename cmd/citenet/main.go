// Package main provides the citenet CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/analytics"
	"github.com/matsen/citenet/internal/config"
	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// Persistent flags
var (
	humanOutput bool
	asOf        string
	logLevel    string
	scopePaper  string
	scopeDepth  int
)

// logger is built once per invocation in PersistentPreRunE.
var logger = zap.NewNop()

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citenet",
	Short: "Citation network analytics",
	Long: `citenet analyses a citation network of papers.

Core features:
  - Citation quality scoring and auto-rated references
  - Centrality, PageRank, similarity and community detection
  - Citation velocity, burst detection, aging curves and forecasts
  - Impact potential and trending papers
  - Interactive HTML visualization

Data is stored in git-versionable JSONL with ephemeral SQLite for queries.
All commands output JSON by default for AI agent integration.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	pf.StringVar(&asOf, "as-of", "", "Analysis time (RFC3339 or YYYY-MM-DD; default now)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (env "+LogLevelEnv+")")
	pf.StringVar(&scopePaper, "paper", "", "Restrict analysis to the neighbourhood of this paper")
	pf.IntVar(&scopeDepth, "depth", 2, "Citation hops to include with --paper")
	rootCmd.Version = Version
}

// setup loads .env files and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	l, err := newLogger(resolveLogLevel(logLevel))
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// getStartingDirectory returns the directory to start searching for a repository.
// Checks global config nexus_path first, then current working directory.
func getStartingDirectory() (string, int) {
	root, err := config.ValidateNexusPath()
	switch {
	case err == nil:
		return root, 0
	case errors.Is(err, config.ErrNexusPathNotExist):
		return "", outputError(ExitConfigError, "%v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.FindRepository(start)
	if err != nil {
		// Show helpful message if no global config exists
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return repoRoot
}

// mustOpenDatabase opens the SQLite database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(repoRoot), logger)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustLoadGraph reads the network from the cache, scoped to the --paper
// neighbourhood when given, exits on error.
func mustLoadGraph(db *storage.DB) *network.Graph {
	var (
		snap *network.Snapshot
		err  error
	)
	if scopePaper != "" {
		if scopeDepth < 0 {
			exitWithError(ExitError, "invalid --depth %d: must not be negative", scopeDepth)
		}
		snap, err = db.LoadNeighborhood(scopePaper, scopeDepth)
	} else {
		snap, err = db.LoadSnapshot()
	}
	if errors.Is(err, storage.ErrPaperNotFound) {
		exitWithError(ExitNotFound, "%v", err)
	}
	if err != nil {
		exitWithError(ExitDataError, "loading network: %v", err)
	}
	return network.Build(snap)
}

// session is what an analysis command needs: the configured engine, the
// graph and the analysis time.
type session struct {
	engine *analytics.Engine
	graph  *network.Graph
	now    time.Time
}

// mustOpenSession loads config, graph and analysis time, exits on error.
func mustOpenSession() session {
	now, err := parseAsOf(asOf, time.Now())
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	return session{
		engine: analytics.NewEngine(cfg.EngineOptions(), logger),
		graph:  mustLoadGraph(db),
		now:    now,
	}
}

// mustHavePaper exits with ExitNotFound unless id is in the graph.
func (s session) mustHavePaper(id string) {
	if !s.graph.Has(id) {
		exitWithError(ExitNotFound, "paper not found: %s", id)
	}
}
