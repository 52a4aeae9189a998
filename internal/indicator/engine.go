package indicator

import (
	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

// Engine computes an IndicatorTable from a PriceSeries. It owns no state
// beyond its configured indicators, so the same engine can be shared across
// symbols and runs: the output is a pure function of the input series.
type Engine struct {
	indicators []Indicator
}

// NewEngine creates an engine that computes the given indicators in order.
func NewEngine(indicators ...Indicator) *Engine {
	return &Engine{indicators: indicators}
}

// NewDefaultEngine creates an engine with the standard column set: SMA 20 and
// 50, EMA 20, RSI 14, MACD 12/26/9, and Bollinger Bands 20/2.
func NewDefaultEngine() *Engine {
	sma50 := NewSMA()
	// Default-constructed indicators cannot fail Config on a positive window.
	_ = sma50.Config(50)

	return NewEngine(
		NewSMA(),
		sma50,
		NewEMA(),
		NewRSI(),
		NewMACD(),
		NewBollingerBands(),
	)
}

// Indicators returns the configured indicators in computation order.
func (e *Engine) Indicators() []Indicator {
	return e.indicators
}

// Compute validates the series once and runs every configured indicator.
// On malformed input it returns the indicator error as-is and never a
// partially filled table.
func (e *Engine) Compute(series types.PriceSeries) (types.IndicatorTable, error) {
	if err := series.Validate(); err != nil {
		return types.IndicatorTable{}, err
	}

	table := types.IndicatorTable{
		Symbol:  series.Symbol,
		Bars:    series.Bars,
		Columns: make([]types.IndicatorColumn, 0, len(e.indicators)),
	}

	seen := make(map[string]struct{})

	for _, ind := range e.indicators {
		columns, err := ind.Compute(series)
		if err != nil {
			return types.IndicatorTable{}, errors.Wrapf(errors.ErrCodeIndicatorCalculation, err,
				"failed to compute %s for %q", ind.Name(), series.Symbol)
		}

		for _, col := range columns {
			if _, exists := seen[col.Name]; exists {
				return types.IndicatorTable{}, errors.Newf(errors.ErrCodeDuplicateColumn,
					"duplicate output column %q for %q", col.Name, series.Symbol)
			}

			seen[col.Name] = struct{}{}

			table.Columns = append(table.Columns, col)
		}
	}

	return table, nil
}
