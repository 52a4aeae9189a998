package indicator

import (
	"math"

	"github.com/tickerlens/tickerlens/internal/types"
)

// Indicator is a technical indicator computed over a full price series.
// Compute returns one column per output field, index-aligned with the input
// bars; positions with insufficient history hold math.NaN().
type Indicator interface {
	// Name returns the name of the indicator.
	Name() types.IndicatorType
	// Config configures the indicator parameters.
	Config(params ...any) error
	// Columns returns the output column names in output order.
	Columns() []string
	// Compute calculates the indicator columns for the series.
	Compute(series types.PriceSeries) ([]types.IndicatorColumn, error)
}

// nanSlice returns a slice of length n filled with NaN.
func nanSlice(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = math.NaN()
	}

	return values
}

// smaSeries computes a simple moving average over closes with the given
// window. Position i is defined iff i >= window-1; a window larger than the
// series yields an all-NaN result, not an error.
func smaSeries(closes []float64, window int) []float64 {
	values := nanSlice(len(closes))
	if window > len(closes) {
		return values
	}

	var sum float64

	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}

		if i >= window-1 {
			values[i] = sum / float64(window)
		}
	}

	return values
}

// emaSeries computes an exponential moving average over closes with the given
// period. The seed at position period-1 is the simple mean of the first
// period closes; afterwards EMA[i] = close[i]*alpha + EMA[i-1]*(1-alpha) with
// alpha = 2/(period+1). The first period-1 positions are NaN.
func emaSeries(closes []float64, period int) []float64 {
	values := nanSlice(len(closes))
	if period > len(closes) {
		return values
	}

	var sum float64
	for i := 0; i < period; i++ {
		sum += closes[i]
	}

	ema := sum / float64(period)
	values[period-1] = ema

	alpha := 2.0 / float64(period+1)
	for i := period; i < len(closes); i++ {
		ema = closes[i]*alpha + ema*(1-alpha)
		values[i] = ema
	}

	return values
}
