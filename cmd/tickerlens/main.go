package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"github.com/urfave/cli/v3"

	"github.com/tickerlens/tickerlens/internal/config"
	"github.com/tickerlens/tickerlens/internal/export"
	"github.com/tickerlens/tickerlens/internal/logger"
	"github.com/tickerlens/tickerlens/internal/pipeline"
	"github.com/tickerlens/tickerlens/pkg/marketdata"
	"github.com/tickerlens/tickerlens/pkg/marketdata/provider"
	"github.com/tickerlens/tickerlens/pkg/marketdata/store"
)

// runAction is the core logic executed by the CLI command. It loads the
// configuration, applies flag overrides, and runs the pipeline over the
// requested symbols.
func runAction(ctx context.Context, cmd *cli.Command) error {
	symbols := cmd.Args().Slice()
	if len(symbols) == 0 {
		return fmt.Errorf("at least one ticker symbol is required")
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	// Flags win over the config file.
	if cmd.IsSet("provider") {
		cfg.Provider = cmd.String("provider")
	}

	if cmd.IsSet("output") {
		cfg.OutputDir = cmd.String("output")
	}

	if cmd.IsSet("combined") {
		cfg.Combined = cmd.Bool("combined")
	}

	if cmd.IsSet("cache") {
		cfg.UseCache = cmd.Bool("cache")
	}

	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFromEnv(cfg.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Printf("Fetching %d symbols from %s into %s...", len(symbols), cfg.Provider, cfg.OutputDir)

	result, err := run(ctx, cfg, symbols, cmd.Timestamp("start"), cmd.Timestamp("end"))
	if err != nil {
		return err
	}

	for _, failure := range result.Failed {
		log.Printf("WARNING: %s skipped: %v", failure.Symbol, failure.Err)
	}

	log.Printf("Done: %d symbols exported, %d failed. Summary at %s",
		len(result.Succeeded), len(result.Failed), result.SummaryPath)

	return nil
}

// run wires the pipeline collaborators from the resolved config and executes it.
func run(ctx context.Context, cfg config.Config, symbols []string, start, end time.Time) (pipeline.Result, error) {
	appLogger, err := logger.NewLogger()
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType: provider.ProviderType(cfg.Provider),
		APIKey:       cfg.APIKey,
	})
	if err != nil {
		return pipeline.Result{}, err
	}

	engine, err := cfg.BuildEngine()
	if err != nil {
		return pipeline.Result{}, err
	}

	writer, err := export.NewCSVWriter(cfg.OutputDir)
	if err != nil {
		return pipeline.Result{}, err
	}

	var cache *store.Store
	if cfg.UseCache {
		cache = store.NewStore(cfg.CacheDir)
	}

	p := pipeline.New(client, engine, cache, writer, appLogger)

	return p.Run(ctx, pipeline.Options{
		Symbols:  symbols,
		Start:    start,
		End:      optional.Some(end),
		Combined: cfg.Combined,
		UseCache: cfg.UseCache,
		Progress: true,
	})
}

// apiKeyFromEnv resolves the provider API key from the conventional
// environment variable. Binance daily klines need no key.
func apiKeyFromEnv(providerName string) string {
	switch provider.ProviderType(providerName) {
	case provider.ProviderAlphaVantage:
		return os.Getenv("ALPHAVANTAGE_API_KEY")
	case provider.ProviderPolygon:
		return os.Getenv("POLYGON_API_KEY")
	default:
		return ""
	}
}

func main() {
	cmd := &cli.Command{
		Name:      "tickerlens",
		Usage:     "Fetch daily bars and export technical indicator CSVs",
		ArgsUsage: "SYMBOL [SYMBOL...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format. Defaults to the full available history.",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage: fmt.Sprintf("Data provider to use (%s, %s, %s)",
					provider.ProviderAlphaVantage, provider.ProviderPolygon, provider.ProviderBinance),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for the generated CSV files",
			},
			&cli.BoolFlag{
				Name:  "combined",
				Usage: "Also write a combined CSV with a leading symbol column",
			},
			&cli.BoolFlag{
				Name:  "cache",
				Usage: "Cache fetched bars as parquet and reuse them on later runs",
			},
		},
		Action: runAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
