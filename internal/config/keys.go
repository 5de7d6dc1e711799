package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrUnknownKey is returned by Get and Set for keys that do not exist.
var ErrUnknownKey = errors.New("unknown config key")

type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func intField(p func(c *Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*p(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*p(c) = n
			return nil
		},
	}
}

func floatField(p func(c *Config) *float64) field {
	return field{
		get: func(c *Config) string { return strconv.FormatFloat(*p(c), 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			*p(c) = f
			return nil
		},
	}
}

var fields = map[string]field{
	"pagerank.damping":        floatField(func(c *Config) *float64 { return &c.PageRank.Damping }),
	"pagerank.max_iterations": intField(func(c *Config) *int { return &c.PageRank.MaxIterations }),
	"pagerank.tolerance":      floatField(func(c *Config) *float64 { return &c.PageRank.Tolerance }),
	"pagerank.redistribute_dangling": {
		get: func(c *Config) string { return strconv.FormatBool(c.PageRank.RedistributeDangling) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			c.PageRank.RedistributeDangling = b
			return nil
		},
	},
	"community.seed": {
		get: func(c *Config) string { return strconv.FormatUint(c.Community.Seed, 10) },
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return err
			}
			c.Community.Seed = n
			return nil
		},
	},
	"community.leaders":      intField(func(c *Config) *int { return &c.Community.Leaders }),
	"similarity.limit":       intField(func(c *Config) *int { return &c.Similarity.Limit }),
	"forecast.months_ahead":  intField(func(c *Config) *int { return &c.Forecast.MonthsAhead }),
	"trending.window_days":   intField(func(c *Config) *int { return &c.Trending.WindowDays }),
	"trending.min_citations": intField(func(c *Config) *int { return &c.Trending.MinCitations }),
	"trending.limit":         intField(func(c *Config) *int { return &c.Trending.Limit }),
	"scoring.reference_year": intField(func(c *Config) *int { return &c.Scoring.ReferenceYear }),
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted key such as "pagerank.damping".
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(c), nil
}

// Set parses value into the dotted key and validates the result. The config
// is left unchanged on error.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	next := *c
	if err := f.set(&next, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
