package provider

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

// PolygonClient fetches daily aggregates from Polygon.
type PolygonClient struct {
	client *polygon.Client
}

// NewPolygonClient creates a new Polygon provider.
func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeProviderUnavailable, "polygon provider requires an API key")
	}

	return &PolygonClient{
		client: polygon.New(apiKey),
	}, nil
}

// Name returns the provider type.
func (c *PolygonClient) Name() ProviderType {
	return ProviderPolygon
}

// FetchDailyBars downloads daily aggregates for the symbol between start and
// end.
func (c *PolygonClient) FetchDailyBars(ctx context.Context, symbol string, start time.Time, end optional.Option[time.Time]) (types.PriceSeries, error) {
	endDate := resolveEnd(end)

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(resolveStart(start)),
		To:         models.Millis(endDate),
	}.WithLimit(50000)

	iter := c.client.ListAggs(ctx, params)

	var bars []types.PriceBar

	for iter.Next() {
		agg := iter.Item()
		bars = append(bars, types.PriceBar{
			Date:   time.Time(agg.Timestamp).UTC(),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: int64(agg.Volume),
		})
	}

	if iter.Err() != nil {
		return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeFetchFailed, iter.Err(), "error iterating polygon aggregates for %s", symbol)
	}

	if len(bars) == 0 {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "polygon returned no daily bars for %s", symbol)
	}

	return types.PriceSeries{Symbol: symbol, Bars: bars}, nil
}
