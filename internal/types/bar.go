package types

import (
	"time"

	"github.com/tickerlens/tickerlens/pkg/errors"
)

// PriceBar is a single daily OHLCV bar. Immutable once fetched.
type PriceBar struct {
	Date   time.Time `csv:"date"   yaml:"date"`
	Open   float64   `csv:"open"   yaml:"open"`
	High   float64   `csv:"high"   yaml:"high"`
	Low    float64   `csv:"low"    yaml:"low"`
	Close  float64   `csv:"close"  yaml:"close"`
	Volume int64     `csv:"volume" yaml:"volume"`
}

// PriceSeries is an ordered sequence of PriceBar for one symbol.
// Insertion order is chronological order; dates are strictly increasing.
// Gaps for non-trading days are acceptable and are not filled.
type PriceSeries struct {
	Symbol string
	Bars   []PriceBar
}

// Validate checks the series invariants. Each violation maps to a distinct
// error code so callers can tell the conditions apart.
func (s PriceSeries) Validate() error {
	if len(s.Bars) == 0 {
		return errors.Newf(errors.ErrCodeEmptySeries, "price series for %q is empty", s.Symbol)
	}

	for i, bar := range s.Bars {
		if bar.Volume < 0 {
			return errors.Newf(errors.ErrCodeNegativeVolume,
				"price series for %q has negative volume %d at %s",
				s.Symbol, bar.Volume, bar.Date.Format("2006-01-02"))
		}

		if i == 0 {
			continue
		}

		if !s.Bars[i-1].Date.Before(bar.Date) {
			return errors.Newf(errors.ErrCodeNonMonotonicDates,
				"price series for %q has non-increasing dates at index %d (%s >= %s)",
				s.Symbol, i,
				s.Bars[i-1].Date.Format("2006-01-02"), bar.Date.Format("2006-01-02"))
		}
	}

	return nil
}

// Closes returns the closing prices in chronological order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		closes[i] = bar.Close
	}

	return closes
}

// Len returns the number of bars in the series.
func (s PriceSeries) Len() int {
	return len(s.Bars)
}
