package indicator

import (
	"fmt"

	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

// RSI represents the Relative Strength Index indicator.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	r.period = period

	return nil
}

// Columns returns the output column names.
func (r *RSI) Columns() []string {
	return []string{fmt.Sprintf("rsi_%d", r.period)}
}

// Compute calculates the RSI column using Wilder's smoothing: the first
// average gain/loss is a simple mean over the first period deltas, and each
// subsequent average is (prior*(period-1) + current) / period. The first
// period positions are NaN.
func (r *RSI) Compute(series types.PriceSeries) ([]types.IndicatorColumn, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	closes := series.Closes()
	values := nanSlice(len(closes))

	if len(closes) > r.period {
		gains := make([]float64, len(closes))
		losses := make([]float64, len(closes))

		for i := 1; i < len(closes); i++ {
			change := closes[i] - closes[i-1]
			if change > 0 {
				gains[i] = change
			} else {
				losses[i] = -change
			}
		}

		var avgGain, avgLoss float64
		for i := 1; i <= r.period; i++ {
			avgGain += gains[i]
			avgLoss += losses[i]
		}

		avgGain /= float64(r.period)
		avgLoss /= float64(r.period)
		values[r.period] = rsiFromAverages(avgGain, avgLoss)

		for i := r.period + 1; i < len(closes); i++ {
			avgGain = (avgGain*float64(r.period-1) + gains[i]) / float64(r.period)
			avgLoss = (avgLoss*float64(r.period-1) + losses[i]) / float64(r.period)
			values[i] = rsiFromAverages(avgGain, avgLoss)
		}
	}

	return []types.IndicatorColumn{
		{Name: r.Columns()[0], Values: values},
	}, nil
}

// rsiFromAverages converts smoothed averages into the bounded [0,100] value.
// A zero average loss means a perfect uptrend; the explicit branch avoids a
// division by zero.
func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs)
}
