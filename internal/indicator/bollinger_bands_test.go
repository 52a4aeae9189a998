package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

type BollingerBandsTestSuite struct {
	suite.Suite
}

func TestBollingerBandsSuite(t *testing.T) {
	suite.Run(t, new(BollingerBandsTestSuite))
}

func (suite *BollingerBandsTestSuite) TestNewBollingerBands() {
	bb := NewBollingerBands()
	suite.NotNil(bb)

	bbImpl := bb.(*BollingerBands)
	suite.Equal(20, bbImpl.window)
	suite.Equal(2.0, bbImpl.stdDev)
	suite.Equal(types.IndicatorTypeBollingerBands, bb.Name())
	suite.Equal([]string{"bb_upper", "bb_middle", "bb_lower"}, bb.Columns())
}

func (suite *BollingerBandsTestSuite) TestConfig() {
	bb := NewBollingerBands()
	suite.NoError(bb.Config(10, 1.5))

	bbImpl := bb.(*BollingerBands)
	suite.Equal(10, bbImpl.window)
	suite.Equal(1.5, bbImpl.stdDev)

	err := bb.Config(10)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	err = bb.Config(0, 2.0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	err = bb.Config(10, -2.0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidStdDevMultiplier))

	err = bb.Config(10, 2)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidType))
}

func (suite *BollingerBandsTestSuite) TestWidthIdentity() {
	const k = 2.0

	closes := []float64{
		100, 102, 101, 105, 103, 104, 99, 98, 101, 107,
		106, 104, 108, 110, 109, 111, 108, 112, 115, 113,
		114, 112, 116, 118, 117, 119, 121, 120, 122, 125,
	}
	bb := NewBollingerBands()
	suite.NoError(bb.Config(5, k))

	columns, err := bb.Compute(seriesFromCloses("AAPL", closes...))
	suite.NoError(err)

	upper, _ := find(columns, ColumnBBUpper)
	middle, _ := find(columns, ColumnBBMiddle)
	lower, _ := find(columns, ColumnBBLower)

	for i := 4; i < len(closes); i++ {
		// Population standard deviation over the window ending at i.
		var squaredDiffSum float64
		for j := i - 4; j <= i; j++ {
			diff := closes[j] - middle[i]
			squaredDiffSum += diff * diff
		}

		sd := math.Sqrt(squaredDiffSum / 5)
		suite.InDelta(2*k*sd, upper[i]-lower[i], 1e-9, "position %d", i)
		suite.InDelta(middle[i]+k*sd, upper[i], 1e-9, "position %d", i)
	}
}

func (suite *BollingerBandsTestSuite) TestConstantSeriesBandsCollapse() {
	bb := NewBollingerBands()
	suite.NoError(bb.Config(5, 2.0))

	columns, err := bb.Compute(constantSeries(10, 50))
	suite.NoError(err)

	upper, _ := find(columns, ColumnBBUpper)
	middle, _ := find(columns, ColumnBBMiddle)
	lower, _ := find(columns, ColumnBBLower)

	for i := 4; i < 10; i++ {
		suite.Equal(50.0, middle[i])
		suite.Equal(50.0, upper[i])
		suite.Equal(50.0, lower[i])
	}
}

func (suite *BollingerBandsTestSuite) TestLeadingUndefined() {
	bb := NewBollingerBands()
	suite.NoError(bb.Config(20, 2.0))

	columns, err := bb.Compute(increasingSeries(30))
	suite.NoError(err)

	for _, col := range columns {
		suite.Equal(19, nanCount(col.Values), col.Name)
	}
}

func (suite *BollingerBandsTestSuite) TestWindowLargerThanSeries() {
	bb := NewBollingerBands()
	suite.NoError(bb.Config(20, 2.0))

	columns, err := bb.Compute(seriesFromCloses("AAPL", 1, 2, 3))
	suite.NoError(err)

	for _, col := range columns {
		suite.Equal(3, nanCount(col.Values), col.Name)
	}
}

func (suite *BollingerBandsTestSuite) TestEmptySeries() {
	_, err := NewBollingerBands().Compute(types.PriceSeries{Symbol: "AAPL"})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptySeries))
}
