// Package config loads and validates the run configuration.
package config

import (
	"encoding/json"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/tickerlens/tickerlens/internal/indicator"
	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

// IndicatorSettings holds the window/period parameters for the computed
// columns. Defaults mirror the conventional values: SMA 20/50, EMA 20,
// RSI 14, MACD 12/26/9, Bollinger 20/2.
type IndicatorSettings struct {
	SMAWindows      []int   `yaml:"sma_windows"      json:"sma_windows"      validate:"required,min=1,dive,gt=0"`
	EMAPeriod       int     `yaml:"ema_period"       json:"ema_period"       validate:"gt=0"`
	RSIPeriod       int     `yaml:"rsi_period"       json:"rsi_period"       validate:"gt=0"`
	MACDFast        int     `yaml:"macd_fast"        json:"macd_fast"        validate:"gt=0"`
	MACDSlow        int     `yaml:"macd_slow"        json:"macd_slow"        validate:"gt=0"`
	MACDSignal      int     `yaml:"macd_signal"      json:"macd_signal"      validate:"gt=0"`
	BollingerWindow int     `yaml:"bollinger_window" json:"bollinger_window" validate:"gt=0"`
	BollingerStdDev float64 `yaml:"bollinger_stddev" json:"bollinger_stddev" validate:"gt=0"`
}

// Config is the full run configuration, loadable from a YAML file.
type Config struct {
	Provider   string            `yaml:"provider"   json:"provider"   validate:"required,oneof=alphavantage polygon binance"`
	APIKey     string            `yaml:"api_key"    json:"api_key"`
	OutputDir  string            `yaml:"output_dir" json:"output_dir" validate:"required"`
	Combined   bool              `yaml:"combined"   json:"combined"`
	CacheDir   string            `yaml:"cache_dir"  json:"cache_dir"`
	UseCache   bool              `yaml:"use_cache"  json:"use_cache"`
	Indicators IndicatorSettings `yaml:"indicators" json:"indicators"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Provider:  "alphavantage",
		APIKey:    "",
		OutputDir: "output",
		Combined:  false,
		CacheDir:  "data",
		UseCache:  false,
		Indicators: IndicatorSettings{
			SMAWindows:      []int{20, 50},
			EMAPeriod:       20,
			RSIPeriod:       14,
			MACDFast:        12,
			MACDSlow:        26,
			MACDSignal:      9,
			BollingerWindow: 20,
			BollingerStdDev: 2.0,
		},
	}
}

// Load reads the YAML file at path on top of the defaults and validates the
// result. An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}

// GenerateSchema returns the JSON schema describing the config file format.
func (c Config) GenerateSchema() *jsonschema.Schema {
	return jsonschema.Reflect(c)
}

// GenerateSchemaJSON renders the config schema as indented JSON, suitable for
// yaml-language-server validation of config files.
func (c Config) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal config schema", err)
	}

	return string(schemaBytes), nil
}

// BuildEngine constructs the indicator engine described by the settings.
// Indicators are resolved through the registry, so every configured instance
// is minted fresh and independently parameterized.
func (c Config) BuildEngine() (*indicator.Engine, error) {
	registry := indicator.NewDefaultRegistry()
	indicators := make([]indicator.Indicator, 0, len(c.Indicators.SMAWindows)+4)

	for _, window := range c.Indicators.SMAWindows {
		sma, err := buildIndicator(registry, types.IndicatorTypeSMA, window)
		if err != nil {
			return nil, err
		}

		indicators = append(indicators, sma)
	}

	for _, spec := range []struct {
		name   types.IndicatorType
		params []any
	}{
		{types.IndicatorTypeEMA, []any{c.Indicators.EMAPeriod}},
		{types.IndicatorTypeRSI, []any{c.Indicators.RSIPeriod}},
		{types.IndicatorTypeMACD, []any{c.Indicators.MACDFast, c.Indicators.MACDSlow, c.Indicators.MACDSignal}},
		{types.IndicatorTypeBollingerBands, []any{c.Indicators.BollingerWindow, c.Indicators.BollingerStdDev}},
	} {
		ind, err := buildIndicator(registry, spec.name, spec.params...)
		if err != nil {
			return nil, err
		}

		indicators = append(indicators, ind)
	}

	return indicator.NewEngine(indicators...), nil
}

// buildIndicator resolves a fresh instance from the registry and applies the
// configured parameters.
func buildIndicator(registry indicator.Registry, name types.IndicatorType, params ...any) (indicator.Indicator, error) {
	ind, err := registry.NewIndicator(name)
	if err != nil {
		return nil, err
	}

	if err := ind.Config(params...); err != nil {
		return nil, err
	}

	return ind, nil
}
