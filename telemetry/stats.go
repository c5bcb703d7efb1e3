package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SolveSummary aggregates the solves of one reporting window.
type SolveSummary struct {
	WindowStart int `csv:"window_start"` // first solve number in the window
	WindowEnd   int `csv:"window_end"`   // last solve number in the window
	Solves      int `csv:"solves"`

	// Outcome counts
	Converged     int `csv:"converged"`
	MaxIterations int `csv:"max_iterations"`
	Degenerate    int `csv:"degenerate"`
	Cancelled     int `csv:"cancelled"`

	// Iterations per solve
	IterMean float64 `csv:"iter_mean"`
	IterStd  float64 `csv:"iter_std"`
	IterP50  float64 `csv:"iter_p50"`
	IterP90  float64 `csv:"iter_p90"`

	// Final distance to goal
	ErrorMean float64 `csv:"error_mean"`
	ErrorP50  float64 `csv:"error_p50"`
	ErrorP90  float64 `csv:"error_p90"`
	ErrorMax  float64 `csv:"error_max"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeStats calculates the population mean and standard deviation plus
// percentiles of values. values is not modified.
func ComputeStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s SolveSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStart),
		slog.Int("window_end", s.WindowEnd),
		slog.Int("solves", s.Solves),
		slog.Int("converged", s.Converged),
		slog.Int("max_iterations", s.MaxIterations),
		slog.Int("degenerate", s.Degenerate),
		slog.Int("cancelled", s.Cancelled),
		slog.Float64("iter_mean", s.IterMean),
		slog.Float64("iter_std", s.IterStd),
		slog.Float64("iter_p50", s.IterP50),
		slog.Float64("iter_p90", s.IterP90),
		slog.Float64("error_mean", s.ErrorMean),
		slog.Float64("error_p50", s.ErrorP50),
		slog.Float64("error_p90", s.ErrorP90),
		slog.Float64("error_max", s.ErrorMax),
	)
}

// LogStats logs the summary using slog.
func (s SolveSummary) LogStats() {
	slog.Info("solves", "summary", s)
}
