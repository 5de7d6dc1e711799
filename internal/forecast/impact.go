package forecast

import (
	"math"

	"github.com/matsen/citenet/internal/temporal"
)

// Impact sub-score weights.
const (
	WeightVelocity  = 0.30
	WeightBurst     = 0.25
	WeightNetwork   = 0.30
	WeightFreshness = 0.15
)

const (
	// referencePageRank maps to a full network score.
	referencePageRank = 0.1
	// freshnessDecay is the number of points lost per year of age.
	freshnessDecay = 10
	// unknownFreshness is used when the publication year is unknown.
	unknownFreshness = 50
)

// Impact levels.
const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// Inputs are the per-paper signals combined into an impact score.
type Inputs struct {
	RecentVelocity   float64
	Acceleration     float64
	BurstProbability float64
	BurstActive      bool
	BurstIntensity   float64
	PageRank         float64
	Age              int
	YearKnown        bool
}

// InputsFrom gathers impact inputs from temporal analyses. age is ignored
// unless yearKnown.
func InputsFrom(v temporal.Velocity, b temporal.BurstReport, pagerank float64, age int, yearKnown bool) Inputs {
	in := Inputs{
		RecentVelocity:   v.Recent,
		Acceleration:     v.Acceleration,
		BurstProbability: b.Probability,
		PageRank:         pagerank,
		Age:              age,
		YearKnown:        yearKnown,
	}
	if b.Current != nil {
		in.BurstActive = true
		in.BurstIntensity = b.Current.Intensity
	}
	return in
}

// Impact is a 0-100 composite of four sub-scores, each also on 0-100.
type Impact struct {
	Score     float64 `json:"score"`
	Level     string  `json:"level"`
	Velocity  float64 `json:"velocity_score"`
	Burst     float64 `json:"burst_score"`
	Network   float64 `json:"network_score"`
	Freshness float64 `json:"freshness_score"`
}

// ImpactPotential scores in. Velocity rewards recent citations per month and
// positive acceleration. Burst takes the larger of the burst probability and
// the intensity of an active burst. Network scales PageRank against 0.1.
// Freshness loses ten points per year of age and is 50 for an unknown year.
func ImpactPotential(in Inputs) Impact {
	imp := Impact{
		Velocity: score(in.RecentVelocity*10 + max(0, in.Acceleration)*20),
		Network:  score(in.PageRank / referencePageRank * 100),
	}

	burst := in.BurstProbability * 100
	if in.BurstActive {
		burst = max(burst, min(100, in.BurstIntensity*25))
	}
	imp.Burst = score(burst)

	if in.YearKnown {
		imp.Freshness = score(100 - freshnessDecay*float64(max(0, in.Age)))
	} else {
		imp.Freshness = unknownFreshness
	}

	imp.Score = score(WeightVelocity*imp.Velocity +
		WeightBurst*imp.Burst +
		WeightNetwork*imp.Network +
		WeightFreshness*imp.Freshness)
	imp.Level = level(imp.Score)
	return imp
}

func level(s float64) string {
	switch {
	case s >= 70:
		return LevelHigh
	case s >= 40:
		return LevelMedium
	default:
		return LevelLow
	}
}

// score clamps v to [0,100], mapping NaN to 0.
func score(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(100, max(0, v))
}
