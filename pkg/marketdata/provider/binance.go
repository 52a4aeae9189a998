package provider

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/moznion/go-optional"

	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

// Binance caps kline responses at this many records per request.
const binanceKlinePageSize = 500

// BinanceClient fetches daily klines from Binance. Historical klines need no
// API key.
type BinanceClient struct {
	client *binance.Client
}

// NewBinanceClient creates a new Binance provider.
func NewBinanceClient() (Provider, error) {
	return &BinanceClient{
		client: binance.NewClient("", ""),
	}, nil
}

// Name returns the provider type.
func (c *BinanceClient) Name() ProviderType {
	return ProviderBinance
}

// FetchDailyBars downloads daily klines for the symbol between start and end,
// paginating past the per-request limit.
func (c *BinanceClient) FetchDailyBars(ctx context.Context, symbol string, start time.Time, end optional.Option[time.Time]) (types.PriceSeries, error) {
	endMillis := resolveEnd(end).UnixMilli()
	currentStart := resolveStart(start).UnixMilli()

	var bars []types.PriceBar

	for {
		klines, err := c.client.NewKlinesService().
			Symbol(symbol).
			Interval("1d").
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binanceKlinePageSize).
			Do(ctx)
		if err != nil {
			return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to fetch klines from binance for %s", symbol)
		}

		pageBars, err := klinesToBars(klines)
		if err != nil {
			return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeMalformedProviderData, err, "binance returned malformed klines for %s", symbol)
		}

		bars = append(bars, pageBars...)

		// Last page: nothing left or a short page.
		if len(klines) < binanceKlinePageSize {
			break
		}

		// Advance past the close time of the last kline to avoid duplicates.
		currentStart = klines[len(klines)-1].CloseTime + 1
		if currentStart >= endMillis {
			break
		}
	}

	if len(bars) == 0 {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "binance returned no daily klines for %s", symbol)
	}

	return types.PriceSeries{Symbol: symbol, Bars: bars}, nil
}

// klinesToBars maps binance klines to PriceBars, using the kline open time as
// the bar date.
func klinesToBars(klines []*binance.Kline) ([]types.PriceBar, error) {
	bars := make([]types.PriceBar, 0, len(klines))

	for _, k := range klines {
		open, err := strconv.ParseFloat(k.Open, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMalformedProviderData, err, "invalid open %q", k.Open)
		}

		high, err := strconv.ParseFloat(k.High, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMalformedProviderData, err, "invalid high %q", k.High)
		}

		low, err := strconv.ParseFloat(k.Low, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMalformedProviderData, err, "invalid low %q", k.Low)
		}

		closePrice, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMalformedProviderData, err, "invalid close %q", k.Close)
		}

		volume, err := strconv.ParseFloat(k.Volume, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMalformedProviderData, err, "invalid volume %q", k.Volume)
		}

		bars = append(bars, types.PriceBar{
			Date:   time.UnixMilli(k.OpenTime).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: int64(volume),
		})
	}

	return bars, nil
}
