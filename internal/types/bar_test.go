package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

type PriceSeriesTestSuite struct {
	suite.Suite
}

func TestPriceSeriesSuite(t *testing.T) {
	suite.Run(t, new(PriceSeriesTestSuite))
}

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func (suite *PriceSeriesTestSuite) TestValidateEmpty() {
	series := PriceSeries{Symbol: "AAPL"}
	err := series.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptySeries))
}

func (suite *PriceSeriesTestSuite) TestValidateOK() {
	series := PriceSeries{
		Symbol: "AAPL",
		Bars: []PriceBar{
			{Date: day(0), Close: 100, Volume: 10},
			{Date: day(1), Close: 101, Volume: 20},
			// Weekend gap: acceptable, gaps are not filled.
			{Date: day(4), Close: 99, Volume: 30},
		},
	}
	suite.NoError(series.Validate())
}

func (suite *PriceSeriesTestSuite) TestValidateNonMonotonic() {
	series := PriceSeries{
		Symbol: "AAPL",
		Bars: []PriceBar{
			{Date: day(1), Close: 100},
			{Date: day(0), Close: 101},
		},
	}
	err := series.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNonMonotonicDates))
}

func (suite *PriceSeriesTestSuite) TestValidateDuplicateDate() {
	series := PriceSeries{
		Symbol: "AAPL",
		Bars: []PriceBar{
			{Date: day(0), Close: 100},
			{Date: day(0), Close: 101},
		},
	}
	err := series.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNonMonotonicDates))
}

func (suite *PriceSeriesTestSuite) TestValidateNegativeVolume() {
	series := PriceSeries{
		Symbol: "AAPL",
		Bars: []PriceBar{
			{Date: day(0), Close: 100, Volume: -1},
		},
	}
	err := series.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNegativeVolume))
}

func (suite *PriceSeriesTestSuite) TestCloses() {
	series := PriceSeries{
		Symbol: "AAPL",
		Bars: []PriceBar{
			{Date: day(0), Close: 100},
			{Date: day(1), Close: 101.5},
		},
	}
	suite.Equal([]float64{100, 101.5}, series.Closes())
	suite.Equal(2, series.Len())
}

func (suite *PriceSeriesTestSuite) TestTableColumnLookup() {
	table := IndicatorTable{
		Symbol: "AAPL",
		Bars:   []PriceBar{{Date: day(0), Close: 100}},
		Columns: []IndicatorColumn{
			{Name: "rsi_14", Values: []float64{1}},
		},
	}

	col, ok := table.Column("rsi_14")
	suite.True(ok)
	suite.Equal("rsi_14", col.Name)

	_, ok = table.Column("missing")
	suite.False(ok)

	suite.Equal([]string{"rsi_14"}, table.ColumnNames())
	suite.Equal(1, table.Rows())
}
