package provider

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"

	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// Alpha Vantage returns OHLCV fields as JSON string values under numbered
// keys inside "Time Series (Daily)".
type alphaVantageDailyResponse struct {
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
}

// AlphaVantageClient fetches daily bars from the Alpha Vantage
// TIME_SERIES_DAILY endpoint.
type AlphaVantageClient struct {
	client *resty.Client
	apiKey string
}

// NewAlphaVantageClient creates a new Alpha Vantage provider.
func NewAlphaVantageClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeProviderUnavailable, "alpha vantage provider requires an API key")
	}

	return &AlphaVantageClient{
		client: resty.New().SetBaseURL(alphaVantageBaseURL),
		apiKey: apiKey,
	}, nil
}

// Name returns the provider type.
func (c *AlphaVantageClient) Name() ProviderType {
	return ProviderAlphaVantage
}

// FetchDailyBars downloads the full daily history for the symbol and keeps
// the bars inside [start, end].
func (c *AlphaVantageClient) FetchDailyBars(ctx context.Context, symbol string, start time.Time, end optional.Option[time.Time]) (types.PriceSeries, error) {
	var result alphaVantageDailyResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":   "TIME_SERIES_DAILY",
			"symbol":     symbol,
			"outputsize": "full",
			"apikey":     c.apiKey,
		}).
		SetResult(&result).
		Get("")
	if err != nil {
		return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeFetchFailed, err, "alpha vantage request failed for %s", symbol)
	}

	if resp.IsError() {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeFetchFailed, "alpha vantage returned status %d for %s", resp.StatusCode(), symbol)
	}

	if result.ErrorMessage != "" {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "alpha vantage rejected symbol %s: %s", symbol, result.ErrorMessage)
	}

	if len(result.TimeSeries) == 0 {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "alpha vantage returned no daily bars for %s", symbol)
	}

	endDate := resolveEnd(end)
	bars := make([]types.PriceBar, 0, len(result.TimeSeries))

	for dateStr, fields := range result.TimeSeries {
		date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
		if err != nil {
			return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeMalformedProviderData, err, "alpha vantage returned unparseable date %q for %s", dateStr, symbol)
		}

		if date.Before(start) || date.After(endDate) {
			continue
		}

		bar, err := alphaVantageBar(date, fields)
		if err != nil {
			return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeMalformedProviderData, err, "alpha vantage returned malformed bar at %s for %s", dateStr, symbol)
		}

		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "alpha vantage has no bars for %s in the requested range", symbol)
	}

	// The response is keyed by date, newest first; the series must be
	// chronological.
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	return types.PriceSeries{Symbol: symbol, Bars: bars}, nil
}

// alphaVantageBar maps one raw record to a PriceBar. Prices arrive as
// strings; decimal parsing rejects anything non-numeric before the float
// conversion.
func alphaVantageBar(date time.Time, fields map[string]string) (types.PriceBar, error) {
	prices := make(map[string]float64, 4)

	for key, name := range map[string]string{
		"1. open":  "open",
		"2. high":  "high",
		"3. low":   "low",
		"4. close": "close",
	} {
		raw, ok := fields[key]
		if !ok {
			return types.PriceBar{}, errors.Newf(errors.ErrCodeMalformedProviderData, "missing field %q", key)
		}

		value, err := decimal.NewFromString(raw)
		if err != nil {
			return types.PriceBar{}, errors.Wrapf(errors.ErrCodeMalformedProviderData, err, "invalid %s value %q", name, raw)
		}

		prices[name] = value.InexactFloat64()
	}

	rawVolume, ok := fields["5. volume"]
	if !ok {
		return types.PriceBar{}, errors.New(errors.ErrCodeMalformedProviderData, `missing field "5. volume"`)
	}

	volume, err := strconv.ParseInt(rawVolume, 10, 64)
	if err != nil {
		return types.PriceBar{}, errors.Wrapf(errors.ErrCodeMalformedProviderData, err, "invalid volume value %q", rawVolume)
	}

	return types.PriceBar{
		Date:   date,
		Open:   prices["open"],
		High:   prices["high"],
		Low:    prices["low"],
		Close:  prices["close"],
		Volume: volume,
	}, nil
}
