// Package config handles repository configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matsen/citenet/internal/analytics"
	"github.com/matsen/citenet/internal/community"
	"github.com/matsen/citenet/internal/forecast"
	"github.com/matsen/citenet/internal/pagerank"
)

const (
	RepoDir       = ".citenet"
	ConfigFile    = "config.yml"
	PapersFile    = "papers.jsonl"
	CitationsFile = "citations.jsonl"
	CacheDir      = "cache"
	DBFile        = "citations.db"
)

// ErrNotRepository is returned when no .citenet directory is found.
var ErrNotRepository = errors.New("not in a citenet repository (no .citenet directory found)")

// Config holds the analysis parameters stored in .citenet/config.yml.
type Config struct {
	PageRank   PageRankConfig   `yaml:"pagerank"`
	Community  CommunityConfig  `yaml:"community"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Forecast   ForecastConfig   `yaml:"forecast"`
	Trending   TrendingConfig   `yaml:"trending"`
	Scoring    ScoringConfig    `yaml:"scoring"`
}

type PageRankConfig struct {
	Damping              float64 `yaml:"damping"`
	MaxIterations        int     `yaml:"max_iterations"`
	Tolerance            float64 `yaml:"tolerance"`
	RedistributeDangling bool    `yaml:"redistribute_dangling"`
}

type CommunityConfig struct {
	Seed    uint64 `yaml:"seed"`
	Leaders int    `yaml:"leaders"`
}

type SimilarityConfig struct {
	Limit int `yaml:"limit"`
}

type ForecastConfig struct {
	MonthsAhead int `yaml:"months_ahead"`
}

type TrendingConfig struct {
	WindowDays   int `yaml:"window_days"`
	MinCitations int `yaml:"min_citations"`
	Limit        int `yaml:"limit"`
}

// ScoringConfig pins the reference year; 0 means the current year.
type ScoringConfig struct {
	ReferenceYear int `yaml:"reference_year"`
}

// Defaults returns the configuration written by init.
func Defaults() *Config {
	return &Config{
		PageRank: PageRankConfig{
			Damping:       pagerank.DefaultDamping,
			MaxIterations: pagerank.DefaultMaxIterations,
			Tolerance:     pagerank.DefaultTolerance,
		},
		Community:  CommunityConfig{Seed: community.DefaultSeed, Leaders: analytics.DefaultLeaders},
		Similarity: SimilarityConfig{Limit: analytics.DefaultSimilarityLimit},
		Forecast:   ForecastConfig{MonthsAhead: forecast.DefaultMonthsAhead},
		Trending: TrendingConfig{
			WindowDays:   int(forecast.DefaultWindow / (24 * time.Hour)),
			MinCitations: forecast.DefaultMinCitations,
			Limit:        analytics.DefaultTrendingLimit,
		},
	}
}

// RepoPath returns the path to the .citenet directory from a root path.
func RepoPath(root string) string {
	return filepath.Join(root, RepoDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, RepoDir, ConfigFile)
}

// PapersPath returns the path to papers.jsonl from a root path.
func PapersPath(root string) string {
	return filepath.Join(root, RepoDir, PapersFile)
}

// CitationsPath returns the path to citations.jsonl from a root path.
func CitationsPath(root string) string {
	return filepath.Join(root, RepoDir, CitationsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, RepoDir, CacheDir)
}

// DBPath returns the path to citations.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, RepoDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a citenet repository.
func IsRepository(root string) bool {
	info, err := os.Stat(RepoPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a citenet repository.
// Returns the repository root path or ErrNotRepository.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotRepository
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root. Keys
// missing from the file keep their defaults, and a missing file yields the
// defaults.
func Load(root string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate rejects out-of-range parameters.
func (c *Config) Validate() error {
	switch {
	case c.PageRank.Damping <= 0 || c.PageRank.Damping >= 1:
		return fmt.Errorf("invalid pagerank.damping: %v (must be in (0, 1))", c.PageRank.Damping)
	case c.PageRank.MaxIterations <= 0:
		return fmt.Errorf("invalid pagerank.max_iterations: %d (must be positive)", c.PageRank.MaxIterations)
	case c.PageRank.Tolerance <= 0:
		return fmt.Errorf("invalid pagerank.tolerance: %v (must be positive)", c.PageRank.Tolerance)
	case c.Community.Leaders < 0:
		return fmt.Errorf("invalid community.leaders: %d", c.Community.Leaders)
	case c.Similarity.Limit < 0:
		return fmt.Errorf("invalid similarity.limit: %d", c.Similarity.Limit)
	case c.Forecast.MonthsAhead <= 0:
		return fmt.Errorf("invalid forecast.months_ahead: %d (must be positive)", c.Forecast.MonthsAhead)
	case c.Trending.WindowDays <= 0:
		return fmt.Errorf("invalid trending.window_days: %d (must be positive)", c.Trending.WindowDays)
	case c.Trending.MinCitations < 0:
		return fmt.Errorf("invalid trending.min_citations: %d", c.Trending.MinCitations)
	case c.Trending.Limit < 0:
		return fmt.Errorf("invalid trending.limit: %d", c.Trending.Limit)
	case c.Scoring.ReferenceYear < 0:
		return fmt.Errorf("invalid scoring.reference_year: %d", c.Scoring.ReferenceYear)
	}
	return nil
}

// EngineOptions converts the configuration to analysis options.
func (c *Config) EngineOptions() analytics.Options {
	opts := analytics.DefaultOptions()
	opts.PageRank = pagerank.Options{
		Damping:              c.PageRank.Damping,
		MaxIterations:        c.PageRank.MaxIterations,
		Tolerance:            c.PageRank.Tolerance,
		RedistributeDangling: c.PageRank.RedistributeDangling,
	}
	opts.Community.Seed = c.Community.Seed
	opts.Leaders = c.Community.Leaders
	opts.SimilarityLimit = c.Similarity.Limit
	opts.MonthsAhead = c.Forecast.MonthsAhead
	opts.TrendingWindow = time.Duration(c.Trending.WindowDays) * 24 * time.Hour
	opts.TrendingMinCitations = c.Trending.MinCitations
	opts.TrendingLimit = c.Trending.Limit
	opts.ReferenceYear = c.Scoring.ReferenceYear
	return opts
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
