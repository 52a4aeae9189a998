package indicator

import (
	"math"
	"time"

	"github.com/tickerlens/tickerlens/internal/types"
)

// seriesFromCloses builds a daily series starting 2024-01-01 where only the
// close prices matter for the computation under test.
func seriesFromCloses(symbol string, closes ...float64) types.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.PriceBar, len(closes))

	for i, c := range closes {
		bars[i] = types.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: int64(1000 + i),
		}
	}

	return types.PriceSeries{Symbol: symbol, Bars: bars}
}

// constantSeries builds a series of n bars all closing at v.
func constantSeries(n int, v float64) types.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = v
	}

	return seriesFromCloses("CONST", closes...)
}

// increasingSeries builds a strictly increasing series of n bars.
func increasingSeries(n int) types.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	return seriesFromCloses("UP", closes...)
}

// nanCount returns the number of NaN values in the slice.
func nanCount(values []float64) int {
	count := 0

	for _, v := range values {
		if math.IsNaN(v) {
			count++
		}
	}

	return count
}

// firstDefined returns the index of the first non-NaN value, or -1.
func firstDefined(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}

	return -1
}
