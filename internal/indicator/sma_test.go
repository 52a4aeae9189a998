package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

type SMATestSuite struct {
	suite.Suite
}

func TestSMASuite(t *testing.T) {
	suite.Run(t, new(SMATestSuite))
}

func (suite *SMATestSuite) TestNewSMA() {
	sma := NewSMA()
	suite.NotNil(sma)

	smaImpl := sma.(*SMA)
	suite.Equal(20, smaImpl.window)
}

func (suite *SMATestSuite) TestName() {
	suite.Equal(types.IndicatorTypeSMA, NewSMA().Name())
}

func (suite *SMATestSuite) TestConfigValid() {
	sma := NewSMA()
	smaImpl := sma.(*SMA)

	suite.NoError(sma.Config(5))
	suite.Equal(5, smaImpl.window)

	// Windows parsed out of config files arrive as float64.
	suite.NoError(sma.Config(50.0))
	suite.Equal(50, smaImpl.window)
}

func (suite *SMATestSuite) TestConfigInvalid() {
	sma := NewSMA()

	err := sma.Config()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	err = sma.Config("five")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidType))

	// A fractional window would silently change the column's meaning.
	err = sma.Config(20.7)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidType))

	err = sma.Config(0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	err = sma.Config(-5)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

func (suite *SMATestSuite) TestColumns() {
	sma := NewSMA()
	suite.Equal([]string{"sma_20"}, sma.Columns())

	suite.NoError(sma.Config(50))
	suite.Equal([]string{"sma_50"}, sma.Columns())
}

func (suite *SMATestSuite) TestConstantSeriesEqualsConstant() {
	sma := NewSMA()
	suite.NoError(sma.Config(7))

	columns, err := sma.Compute(constantSeries(30, 42.5))
	suite.NoError(err)
	suite.Len(columns, 1)

	values := columns[0].Values
	suite.Len(values, 30)
	suite.Equal(6, nanCount(values))

	for i := 6; i < len(values); i++ {
		suite.Equal(42.5, values[i])
	}
}

func (suite *SMATestSuite) TestWindowFiveScenario() {
	closes := []float64{100, 101, 99, 102, 98, 103, 97}
	sma := NewSMA()
	suite.NoError(sma.Config(5))

	columns, err := sma.Compute(seriesFromCloses("AAPL", closes...))
	suite.NoError(err)

	values := columns[0].Values
	for i := 0; i < 4; i++ {
		suite.True(math.IsNaN(values[i]), "position %d should be undefined", i)
	}

	suite.InDelta((100.0+101+99+102+98)/5, values[4], 1e-12)
	suite.InDelta((101.0+99+102+98+103)/5, values[5], 1e-12)
}

func (suite *SMATestSuite) TestWindowLargerThanSeries() {
	sma := NewSMA()
	suite.NoError(sma.Config(50))

	columns, err := sma.Compute(seriesFromCloses("AAPL", 100, 101, 102))
	suite.NoError(err)
	suite.Equal(3, nanCount(columns[0].Values))
}

func (suite *SMATestSuite) TestEmptySeries() {
	_, err := NewSMA().Compute(types.PriceSeries{Symbol: "AAPL"})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptySeries))
}
