// Package pipeline runs the fetch -> compute -> export flow for a set of
// symbols, isolating per-symbol failures so one bad ticker never sinks the
// whole run.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/tickerlens/tickerlens/internal/export"
	"github.com/tickerlens/tickerlens/internal/indicator"
	"github.com/tickerlens/tickerlens/internal/logger"
	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
	"github.com/tickerlens/tickerlens/pkg/marketdata"
	"github.com/tickerlens/tickerlens/pkg/marketdata/store"
)

// Options selects what a run fetches and produces.
type Options struct {
	Symbols  []string
	Start    time.Time
	End      optional.Option[time.Time]
	Combined bool
	UseCache bool
	Progress bool
}

// SymbolResult records one successfully exported symbol.
type SymbolResult struct {
	Symbol string
	Path   string
	Rows   int
	Table  types.IndicatorTable
}

// SymbolError records one failed symbol and the reason.
type SymbolError struct {
	Symbol string
	Err    error
}

// Result is the outcome of a run. Succeeded and Failed partition the
// requested symbols; a run with any success still produces output files.
type Result struct {
	Succeeded    []SymbolResult
	Failed       []SymbolError
	CombinedPath string
	SummaryPath  string
}

// Pipeline owns the collaborators for a run. The engine and client are
// stateless across symbols, so one pipeline handles all of them concurrently.
type Pipeline struct {
	client *marketdata.Client
	engine *indicator.Engine
	cache  *store.Store
	writer *export.CSVWriter
	logger *logger.Logger
}

// New creates a pipeline. cache may be nil when local caching is disabled.
func New(client *marketdata.Client, engine *indicator.Engine, cache *store.Store, writer *export.CSVWriter, log *logger.Logger) *Pipeline {
	return &Pipeline{
		client: client,
		engine: engine,
		cache:  cache,
		writer: writer,
		logger: log,
	}
}

// Run processes every requested symbol concurrently and writes one CSV per
// success, plus the optional combined CSV and the run summary. It returns an
// error only when nothing could be produced at all; partial failures are
// reported in Result.Failed.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Result, error) {
	symbols := dedupe(opts.Symbols)
	if len(symbols) == 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidParameter, "no symbols to process")
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.Default(int64(len(symbols)), "processing symbols")
	}

	// Results are kept slot-per-symbol so output order follows request order
	// regardless of which goroutine finishes first.
	results := make([]*SymbolResult, len(symbols))
	failures := make([]*SymbolError, len(symbols))

	var wg sync.WaitGroup

	for i, symbol := range symbols {
		wg.Add(1)

		go func(i int, symbol string) {
			defer wg.Done()

			if bar != nil {
				defer bar.Add(1)
			}

			result, err := p.runSymbol(ctx, symbol, opts)
			if err != nil {
				p.logger.Warn("symbol failed", zap.String("symbol", symbol), zap.Error(err))
				failures[i] = &SymbolError{Symbol: symbol, Err: err}

				return
			}

			results[i] = result
		}(i, symbol)
	}

	wg.Wait()

	result := Result{}

	for i := range symbols {
		if results[i] != nil {
			result.Succeeded = append(result.Succeeded, *results[i])
		}

		if failures[i] != nil {
			result.Failed = append(result.Failed, *failures[i])
		}
	}

	if len(result.Succeeded) == 0 {
		return result, errors.Newf(errors.ErrCodeFetchFailed, "all %d symbols failed", len(symbols))
	}

	if opts.Combined {
		tables := make([]types.IndicatorTable, 0, len(result.Succeeded))
		for _, r := range result.Succeeded {
			tables = append(tables, r.Table)
		}

		path, err := p.writer.WriteCombined(tables)
		if err != nil {
			return result, err
		}

		result.CombinedPath = path
	}

	summaryPath, err := p.writer.WriteSummary(p.buildSummary(result))
	if err != nil {
		return result, err
	}

	result.SummaryPath = summaryPath

	p.logger.Info("run complete",
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)))

	return result, nil
}

// runSymbol fetches, computes, and exports a single symbol.
func (p *Pipeline) runSymbol(ctx context.Context, symbol string, opts Options) (*SymbolResult, error) {
	series, err := p.loadSeries(ctx, symbol, opts)
	if err != nil {
		return nil, err
	}

	table, err := p.engine.Compute(series)
	if err != nil {
		return nil, err
	}

	path, err := p.writer.WriteTable(table)
	if err != nil {
		return nil, err
	}

	p.logger.Info("exported symbol",
		zap.String("symbol", symbol),
		zap.Int("rows", len(table.Bars)),
		zap.String("path", path))

	return &SymbolResult{
		Symbol: symbol,
		Path:   path,
		Rows:   len(table.Bars),
		Table:  table,
	}, nil
}

// loadSeries returns the symbol's bars from the local cache when enabled and
// present, otherwise fetches from the provider and caches the result. A cache
// write failure downgrades to a warning since the fetched data is still good.
func (p *Pipeline) loadSeries(ctx context.Context, symbol string, opts Options) (types.PriceSeries, error) {
	if opts.UseCache && p.cache != nil && p.cache.Has(symbol) {
		series, err := p.cache.LoadSeries(symbol)
		if err == nil {
			p.logger.Info("loaded symbol from cache", zap.String("symbol", symbol))

			return series, nil
		}

		p.logger.Warn("cache read failed, refetching", zap.String("symbol", symbol), zap.Error(err))
	}

	series, err := p.client.Fetch(ctx, marketdata.FetchParams{
		Symbol: symbol,
		Start:  opts.Start,
		End:    opts.End,
	})
	if err != nil {
		return types.PriceSeries{}, err
	}

	if opts.UseCache && p.cache != nil {
		if _, err := p.cache.SaveSeries(series); err != nil {
			p.logger.Warn("cache write failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}

	return series, nil
}

func (p *Pipeline) buildSummary(result Result) export.RunSummary {
	summary := export.RunSummary{
		GeneratedAt:  time.Now().UTC(),
		Provider:     string(p.client.Provider().Name()),
		CombinedPath: result.CombinedPath,
	}

	for _, r := range result.Succeeded {
		summary.Symbols = append(summary.Symbols, export.SymbolSummary{
			Symbol: r.Symbol,
			Rows:   r.Rows,
			Path:   r.Path,
		})
	}

	for _, f := range result.Failed {
		summary.Failed = append(summary.Failed, export.FailureSummary{
			Symbol: f.Symbol,
			Error:  f.Err.Error(),
		})
	}

	return summary
}

// dedupe drops repeated symbols, keeping first-occurrence order.
func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))

	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}

		seen[s] = struct{}{}

		out = append(out, s)
	}

	return out
}
