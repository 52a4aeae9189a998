package indicator

import (
	"fmt"

	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

// EMA indicator implements Exponential Moving Average calculation.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &EMA{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: period (int).
func (e *EMA) Config(params ...any) error {
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

	e.period = period

	return nil
}

// Columns returns the output column names.
func (e *EMA) Columns() []string {
	return []string{fmt.Sprintf("ema_%d", e.period)}
}

// Compute calculates the exponential moving average column for the series.
func (e *EMA) Compute(series types.PriceSeries) ([]types.IndicatorColumn, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	return []types.IndicatorColumn{
		{Name: e.Columns()[0], Values: emaSeries(series.Closes(), e.period)},
	}, nil
}
