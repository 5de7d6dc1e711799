// Package forecast projects citation counts forward by linear regression and
// scores a paper's impact potential.
package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/matsen/citenet/internal/network"
	"github.com/matsen/citenet/internal/temporal"
)

const (
	// MinMonths is the shortest history a forecast is made from.
	MinMonths = 6
	// DefaultMonthsAhead is used when no horizon is given.
	DefaultMonthsAhead = 6
	// fullConfidenceMonths is the history length at which confidence stops
	// being discounted.
	fullConfidenceMonths = 24
	// z95 is the two-sided 95% normal quantile.
	z95 = 1.96
	// trendSlope is the monthly slope separating the trend labels.
	trendSlope = 0.1
)

// Forecast trend labels.
const (
	TrendGrowing   = "growing"
	TrendDeclining = "declining"
	TrendFlat      = "flat"
)

// Model is an ordinary least squares line through a monthly series, with x
// the month index and y the count.
type Model struct {
	Months     int     `json:"months"`
	Slope      float64 `json:"slope"`
	Intercept  float64 `json:"intercept"`
	RSquared   float64 `json:"r_squared"`
	Sigma      float64 `json:"residual_std_dev"`
	Confidence float64 `json:"confidence"`
}

// Prediction is one projected month. Offset counts months after the last
// observed one.
type Prediction struct {
	Offset    int       `json:"offset"`
	Month     time.Time `json:"month,omitzero"`
	Predicted float64   `json:"predicted"`
	Lower     float64   `json:"lower"`
	Upper     float64   `json:"upper"`
}

// Forecast is a fitted model and its projection.
type Forecast struct {
	Model
	InsufficientData bool         `json:"insufficient_data"`
	Predictions      []Prediction `json:"predictions"`
	ProjectedTotal   float64      `json:"projected_total"`
	Trend            string       `json:"trend"`
}

// Fit regresses counts on their index. R² is 0 when undefined, sigma is the
// residual standard deviation with n-2 degrees of freedom (1 when undefined)
// and confidence is R²·min(1, n/24).
func Fit(counts []int) Model {
	n := len(counts)
	m := Model{Months: n, Sigma: 1}
	if n < 2 {
		return m
	}

	x := make([]float64, n)
	y := make([]float64, n)
	for i, c := range counts {
		x[i] = float64(i)
		y[i] = float64(c)
	}
	m.Intercept, m.Slope = stat.LinearRegression(x, y, nil, false)
	m.Intercept, m.Slope = finite(m.Intercept, 0), finite(m.Slope, 0)
	m.RSquared = min(1, max(0, finite(stat.RSquared(x, y, nil, m.Intercept, m.Slope), 0)))

	if n > 2 {
		ss := 0.0
		for i := range x {
			r := y[i] - (m.Intercept + m.Slope*x[i])
			ss += r * r
		}
		m.Sigma = finite(math.Sqrt(ss/float64(n-2)), 1)
	}
	m.Confidence = m.RSquared * min(1, float64(n)/fullConfidenceMonths)
	return m
}

// Predict fits counts and projects monthsAhead months past the series with a
// 95% band of ±1.96σ. Values are floored at 0. With fewer than MinMonths
// counts it returns InsufficientData, zero confidence and no predictions.
func Predict(counts []int, monthsAhead int) Forecast {
	if monthsAhead <= 0 {
		monthsAhead = DefaultMonthsAhead
	}
	if len(counts) < MinMonths {
		return Forecast{
			Model:            Model{Months: len(counts)},
			InsufficientData: true,
			Predictions:      []Prediction{},
			Trend:            TrendFlat,
		}
	}

	m := Fit(counts)
	f := Forecast{Model: m, Predictions: make([]Prediction, 0, monthsAhead), Trend: trend(m.Slope)}
	last := float64(len(counts) - 1)
	band := z95 * m.Sigma
	for k := 1; k <= monthsAhead; k++ {
		yhat := m.Intercept + m.Slope*(last+float64(k))
		p := Prediction{
			Offset:    k,
			Predicted: max(0, yhat),
			Lower:     max(0, yhat-band),
			Upper:     max(0, yhat+band),
		}
		f.ProjectedTotal += p.Predicted
		f.Predictions = append(f.Predictions, p)
	}
	return f
}

// PredictFor forecasts the monthly citations of id as of now and labels the
// predicted months.
func PredictFor(g *network.Graph, id string, now time.Time, monthsAhead int) Forecast {
	series := temporal.MonthlyHistogram(g, id, now)
	f := Predict(temporal.Counts(series), monthsAhead)
	if len(series) > 0 {
		last := series[len(series)-1].Month
		for i := range f.Predictions {
			f.Predictions[i].Month = last.AddDate(0, f.Predictions[i].Offset, 0)
		}
	}
	return f
}

func trend(slope float64) string {
	switch {
	case slope > trendSlope:
		return TrendGrowing
	case slope < -trendSlope:
		return TrendDeclining
	default:
		return TrendFlat
	}
}

func finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
