// Package provider fetches daily price bars from external market data
// services and maps them to the internal PriceBar shape.
package provider

import (
	"context"
	"time"

	"github.com/moznion/go-optional"

	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderAlphaVantage ProviderType = "alphavantage"
	ProviderPolygon      ProviderType = "polygon"
	ProviderBinance      ProviderType = "binance"
)

// Provider fetches daily bars for one symbol. Implementations map the
// provider's record format to PriceBar and return bars in ascending date
// order. Cancel the context to abort an in-flight fetch.
type Provider interface {
	// Name returns the provider type.
	Name() ProviderType
	// FetchDailyBars downloads the daily bars for the symbol between start
	// and end. A None end date means "up to today".
	FetchDailyBars(ctx context.Context, symbol string, start time.Time, end optional.Option[time.Time]) (types.PriceSeries, error)
}

// NewProvider creates a new market data provider based on the provider type.
// apiKey is required by providers that authenticate requests.
func NewProvider(providerType ProviderType, apiKey string) (Provider, error) {
	switch providerType {
	case ProviderAlphaVantage:
		return NewAlphaVantageClient(apiKey)
	case ProviderPolygon:
		return NewPolygonClient(apiKey)
	case ProviderBinance:
		return NewBinanceClient()
	default:
		return nil, errors.Newf(errors.ErrCodeProviderUnavailable, "unsupported market data provider: %s", providerType)
	}
}

// resolveEnd turns an optional end date into a concrete one, defaulting to
// the current day.
func resolveEnd(end optional.Option[time.Time]) time.Time {
	return end.TakeOr(time.Now().UTC())
}

// resolveStart turns a zero start (full history) into the epoch, so providers
// that send millisecond timestamps get a valid lower bound.
func resolveStart(start time.Time) time.Time {
	if start.IsZero() {
		return time.Unix(0, 0).UTC()
	}

	return start
}
