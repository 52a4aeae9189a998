// Package marketdata wires a validated configuration to a concrete provider
// and checks fetched series against the PriceSeries invariants.
package marketdata

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"

	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
	"github.com/tickerlens/tickerlens/pkg/marketdata/provider"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType provider.ProviderType `validate:"required,oneof=alphavantage polygon binance"`
	APIKey       string
}

// FetchParams holds the parameters for one symbol fetch. A zero Start means
// the full available history.
type FetchParams struct {
	Symbol string `validate:"required"`
	Start  time.Time
	End    optional.Option[time.Time]
}

// Client is the market data client responsible for fetching daily bars from
// the configured provider.
type Client struct {
	provider provider.Provider
	validate *validator.Validate
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewProvider(config.ProviderType, config.APIKey)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider: marketProvider,
		validate: validate,
	}, nil
}

// NewClientWithProvider creates a client around an existing provider. Used in
// tests and by callers that construct providers themselves.
func NewClientWithProvider(p provider.Provider) *Client {
	return &Client{
		provider: p,
		validate: validator.New(),
	}
}

// Provider returns the underlying provider.
func (c *Client) Provider() provider.Provider {
	return c.provider
}

// Fetch downloads the daily bars for the given parameters and validates the
// resulting series, so downstream consumers can rely on the PriceSeries
// invariants.
func (c *Client) Fetch(ctx context.Context, params FetchParams) (types.PriceSeries, error) {
	if err := c.validate.Struct(params); err != nil {
		return types.PriceSeries{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid fetch parameters", err)
	}

	series, err := c.provider.FetchDailyBars(ctx, params.Symbol, params.Start, params.End)
	if err != nil {
		return types.PriceSeries{}, err
	}

	if err := series.Validate(); err != nil {
		return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeMalformedProviderData, err,
			"provider %s returned an invalid series for %s", c.provider.Name(), params.Symbol)
	}

	return series, nil
}
