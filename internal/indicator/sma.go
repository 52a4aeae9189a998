package indicator

import (
	"fmt"

	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

// SMA indicator implements Simple Moving Average calculation.
type SMA struct {
	window int
}

// NewSMA creates a new SMA indicator with default configuration.
func NewSMA() Indicator {
	return &SMA{
		window: 20, // Default window
	}
}

// Name returns the name of the indicator.
func (s *SMA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// Config configures the SMA indicator. Expected parameters: window (int).
func (s *SMA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: window (int)")
	}

	window, ok := params[0].(int)
	if !ok {
		// Allow float64 so windows can come straight out of parsed config.
		windowFloat, ok := params[0].(float64)
		if !ok {
			return errors.New(errors.ErrCodeInvalidType, "invalid type for window parameter, expected int or float64")
		}

		window = int(windowFloat)
		if float64(window) != windowFloat {
			return errors.Newf(errors.ErrCodeInvalidType, "window must be a whole number, got %v", windowFloat)
		}
	}

	if window <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "window must be a positive integer, got %d", window)
	}

	s.window = window

	return nil
}

// Columns returns the output column names.
func (s *SMA) Columns() []string {
	return []string{fmt.Sprintf("sma_%d", s.window)}
}

// Compute calculates the simple moving average column for the series.
// A window larger than the series produces an all-NaN column, not an error.
func (s *SMA) Compute(series types.PriceSeries) ([]types.IndicatorColumn, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	return []types.IndicatorColumn{
		{Name: s.Columns()[0], Values: smaSeries(series.Closes(), s.window)},
	}, nil
}
