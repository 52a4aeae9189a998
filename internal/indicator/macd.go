package indicator

import (
	"math"

	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

// MACD column names. The signal stage makes the column set fixed regardless
// of the configured periods, which keeps BI column bindings stable.
const (
	ColumnMACD          = "macd"
	ColumnMACDSignal    = "macd_signal"
	ColumnMACDHistogram = "macd_histogram"
)

// MACD represents the Moving Average Convergence Divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() Indicator {
	return &MACD{
		fastPeriod:   12, // Default fast period
		slowPeriod:   26, // Default slow period
		signalPeriod: 9,  // Default signal period
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config configures the MACD indicator. Expected parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 3 parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int)")
	}

	fastPeriod, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for fastPeriod parameter, expected int")
	}

	if fastPeriod <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "fastPeriod must be a positive integer, got %d", fastPeriod)
	}

	slowPeriod, ok := params[1].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for slowPeriod parameter, expected int")
	}

	if slowPeriod <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "slowPeriod must be a positive integer, got %d", slowPeriod)
	}

	signalPeriod, ok := params[2].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for signalPeriod parameter, expected int")
	}

	if signalPeriod <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "signalPeriod must be a positive integer, got %d", signalPeriod)
	}

	m.fastPeriod = fastPeriod
	m.slowPeriod = slowPeriod
	m.signalPeriod = signalPeriod

	return nil
}

// Columns returns the output column names.
func (m *MACD) Columns() []string {
	return []string{ColumnMACD, ColumnMACDSignal, ColumnMACDHistogram}
}

// Compute calculates the MACD line, signal line, and histogram. The MACD line
// is defined from index slowPeriod-1; the signal line is an EMA of the defined
// MACD segment and becomes defined signalPeriod-1 positions later; the
// histogram is MACD minus signal wherever both are defined.
func (m *MACD) Compute(series types.PriceSeries) ([]types.IndicatorColumn, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	closes := series.Closes()
	n := len(closes)

	fast := emaSeries(closes, m.fastPeriod)
	slow := emaSeries(closes, m.slowPeriod)

	macd := nanSlice(n)
	for i := range macd {
		if !math.IsNaN(fast[i]) && !math.IsNaN(slow[i]) {
			macd[i] = fast[i] - slow[i]
		}
	}

	signal := m.signalLine(macd)

	histogram := nanSlice(n)
	for i := range histogram {
		if !math.IsNaN(macd[i]) && !math.IsNaN(signal[i]) {
			histogram[i] = macd[i] - signal[i]
		}
	}

	return []types.IndicatorColumn{
		{Name: ColumnMACD, Values: macd},
		{Name: ColumnMACDSignal, Values: signal},
		{Name: ColumnMACDHistogram, Values: histogram},
	}, nil
}

// signalLine applies the EMA recurrence to the defined segment of the MACD
// line. The seed is the simple mean of the first signalPeriod defined values.
func (m *MACD) signalLine(macd []float64) []float64 {
	values := nanSlice(len(macd))

	start := -1

	for i, v := range macd {
		if !math.IsNaN(v) {
			start = i

			break
		}
	}

	if start < 0 || len(macd)-start < m.signalPeriod {
		return values
	}

	var sum float64
	for i := start; i < start+m.signalPeriod; i++ {
		sum += macd[i]
	}

	ema := sum / float64(m.signalPeriod)
	values[start+m.signalPeriod-1] = ema

	alpha := 2.0 / float64(m.signalPeriod+1)
	for i := start + m.signalPeriod; i < len(macd); i++ {
		ema = macd[i]*alpha + ema*(1-alpha)
		values[i] = ema
	}

	return values
}
