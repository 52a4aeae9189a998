package indicator

import (
	"math"

	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

// Bollinger Bands column names.
const (
	ColumnBBUpper  = "bb_upper"
	ColumnBBMiddle = "bb_middle"
	ColumnBBLower  = "bb_lower"
)

// BollingerBands implements the Indicator interface for Bollinger Bands.
type BollingerBands struct {
	window int     // Number of periods for the moving average
	stdDev float64 // Number of standard deviations
}

// NewBollingerBands creates a new Bollinger Bands indicator with default configuration.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		window: 20,  // Default window
		stdDev: 2.0, // Default standard deviation multiplier
	}
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config configures the Bollinger Bands indicator. Expected parameters: window (int), stdDev (float64).
func (bb *BollingerBands) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: window (int), stdDev (float64)")
	}

	window, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for window parameter, expected int")
	}

	if window <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "window must be a positive integer, got %d", window)
	}

	stdDev, ok := params[1].(float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for stdDev parameter, expected float64")
	}

	if stdDev <= 0 {
		return errors.Newf(errors.ErrCodeInvalidStdDevMultiplier, "stdDev must be a positive number, got %f", stdDev)
	}

	bb.window = window
	bb.stdDev = stdDev

	return nil
}

// Columns returns the output column names.
func (bb *BollingerBands) Columns() []string {
	return []string{ColumnBBUpper, ColumnBBMiddle, ColumnBBLower}
}

// Compute calculates the three bands. The middle band is the simple moving
// average over the window; the band width is stdDev times the population
// standard deviation over the same window. The first window-1 positions are
// NaN.
func (bb *BollingerBands) Compute(series types.PriceSeries) ([]types.IndicatorColumn, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	closes := series.Closes()
	n := len(closes)

	middle := smaSeries(closes, bb.window)
	upper := nanSlice(n)
	lower := nanSlice(n)

	for i := bb.window - 1; i < n; i++ {
		var squaredDiffSum float64

		for j := i - bb.window + 1; j <= i; j++ {
			diff := closes[j] - middle[i]
			squaredDiffSum += diff * diff
		}

		width := bb.stdDev * math.Sqrt(squaredDiffSum/float64(bb.window))
		upper[i] = middle[i] + width
		lower[i] = middle[i] - width
	}

	return []types.IndicatorColumn{
		{Name: ColumnBBUpper, Values: upper},
		{Name: ColumnBBMiddle, Values: middle},
		{Name: ColumnBBLower, Values: lower},
	}, nil
}
