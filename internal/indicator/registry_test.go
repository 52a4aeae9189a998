package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

type RegistryTestSuite struct {
	suite.Suite
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) TestRegisterAndNew() {
	registry := NewRegistry()

	suite.NoError(registry.RegisterIndicator(types.IndicatorTypeRSI, NewRSI))

	ind, err := registry.NewIndicator(types.IndicatorTypeRSI)
	suite.NoError(err)
	suite.Equal(types.IndicatorTypeRSI, ind.Name())
}

func (suite *RegistryTestSuite) TestRegisterDuplicate() {
	registry := NewRegistry()

	suite.NoError(registry.RegisterIndicator(types.IndicatorTypeRSI, NewRSI))

	err := registry.RegisterIndicator(types.IndicatorTypeRSI, NewRSI)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorAlreadyExists))
}

func (suite *RegistryTestSuite) TestNewMissing() {
	registry := NewRegistry()

	_, err := registry.NewIndicator(types.IndicatorTypeMACD)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorNotFound))
}

func (suite *RegistryTestSuite) TestNewIndicatorReturnsFreshInstances() {
	registry := NewDefaultRegistry()

	first, err := registry.NewIndicator(types.IndicatorTypeSMA)
	suite.Require().NoError(err)

	second, err := registry.NewIndicator(types.IndicatorTypeSMA)
	suite.Require().NoError(err)

	suite.NoError(first.Config(20))
	suite.NoError(second.Config(50))

	// Configuring one instance must not leak into the other.
	suite.Equal([]string{"sma_20"}, first.Columns())
	suite.Equal([]string{"sma_50"}, second.Columns())
}

func (suite *RegistryTestSuite) TestRemove() {
	registry := NewRegistry()
	suite.NoError(registry.RegisterIndicator(types.IndicatorTypeSMA, NewSMA))

	suite.NoError(registry.RemoveIndicator(types.IndicatorTypeSMA))

	err := registry.RemoveIndicator(types.IndicatorTypeSMA)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorNotFound))
}

func (suite *RegistryTestSuite) TestDefaultRegistry() {
	registry := NewDefaultRegistry()
	suite.ElementsMatch(
		[]types.IndicatorType{
			types.IndicatorTypeSMA,
			types.IndicatorTypeEMA,
			types.IndicatorTypeRSI,
			types.IndicatorTypeMACD,
			types.IndicatorTypeBollingerBands,
		},
		registry.ListIndicators(),
	)
}
