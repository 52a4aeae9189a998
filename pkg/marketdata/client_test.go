package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
	"github.com/tickerlens/tickerlens/pkg/marketdata/provider"
)

type ClientTestSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

// fakeProvider returns a canned series or error.
type fakeProvider struct {
	series types.PriceSeries
	err    error
}

func (f *fakeProvider) Name() provider.ProviderType {
	return provider.ProviderType("fake")
}

func (f *fakeProvider) FetchDailyBars(_ context.Context, _ string, _ time.Time, _ optional.Option[time.Time]) (types.PriceSeries, error) {
	return f.series, f.err
}

func validSeries() types.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	return types.PriceSeries{
		Symbol: "AAPL",
		Bars: []types.PriceBar{
			{Date: start, Close: 100, Volume: 10},
			{Date: start.AddDate(0, 0, 1), Close: 101, Volume: 20},
		},
	}
}

func (suite *ClientTestSuite) TestNewClientInvalidProvider() {
	_, err := NewClient(ClientConfig{ProviderType: "bloomberg"})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ClientTestSuite) TestNewClientMissingKey() {
	_, err := NewClient(ClientConfig{ProviderType: provider.ProviderAlphaVantage})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeProviderUnavailable))
}

func (suite *ClientTestSuite) TestFetchValidatesParams() {
	client := NewClientWithProvider(&fakeProvider{series: validSeries()})

	_, err := client.Fetch(context.Background(), FetchParams{Symbol: ""})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *ClientTestSuite) TestFetchReturnsSeries() {
	client := NewClientWithProvider(&fakeProvider{series: validSeries()})

	series, err := client.Fetch(context.Background(), FetchParams{
		Symbol: "AAPL",
		Start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:    optional.None[time.Time](),
	})
	suite.NoError(err)
	suite.Equal("AAPL", series.Symbol)
	suite.Len(series.Bars, 2)
}

func (suite *ClientTestSuite) TestFetchZeroStartMeansFullHistory() {
	client := NewClientWithProvider(&fakeProvider{series: validSeries()})

	series, err := client.Fetch(context.Background(), FetchParams{Symbol: "AAPL"})
	suite.NoError(err)
	suite.Len(series.Bars, 2)
}

func (suite *ClientTestSuite) TestFetchRejectsInvalidProviderSeries() {
	// Bars out of order: the provider broke the PriceSeries invariant.
	broken := validSeries()
	broken.Bars[0], broken.Bars[1] = broken.Bars[1], broken.Bars[0]

	client := NewClientWithProvider(&fakeProvider{series: broken})

	_, err := client.Fetch(context.Background(), FetchParams{
		Symbol: "AAPL",
		Start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMalformedProviderData))
}

func (suite *ClientTestSuite) TestFetchPropagatesProviderError() {
	providerErr := errors.New(errors.ErrCodeNoDataFound, "no bars")
	client := NewClientWithProvider(&fakeProvider{err: providerErr})

	_, err := client.Fetch(context.Background(), FetchParams{
		Symbol: "AAPL",
		Start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
}
