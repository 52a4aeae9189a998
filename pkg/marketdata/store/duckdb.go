// Package store persists fetched daily bars as per-symbol Parquet files so
// repeated runs can reuse downloaded history instead of re-fetching it.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

// Store reads and writes per-symbol Parquet files through DuckDB.
type Store struct {
	dir string
	sq  squirrel.StatementBuilderType
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		dir: dir,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// Path returns the Parquet file path for a symbol.
func (s *Store) Path(symbol string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_daily.parquet", symbol))
}

// Has reports whether a cached series exists for the symbol.
func (s *Store) Has(symbol string) bool {
	_, err := os.Stat(s.Path(symbol))

	return err == nil
}

// SaveSeries writes the series to the symbol's Parquet file, replacing any
// previous version. All bars are inserted in one transaction before the COPY.
func (s *Store) SaveSeries(series types.PriceSeries) (path string, err error) {
	if err := series.Validate(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", errors.Wrapf(errors.ErrCodeStoreFailed, err, "failed to create store directory %s", s.dir)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreFailed, "failed to open duckdb connection", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS bars (
			id TEXT,
			date TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume BIGINT
		)
	`)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreFailed, "failed to create bars table", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreFailed, "failed to begin transaction", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO bars (id, date, symbol, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()

		return "", errors.Wrap(errors.ErrCodeStoreFailed, "failed to prepare insert statement", err)
	}
	defer stmt.Close()

	for _, bar := range series.Bars {
		_, err = stmt.Exec(
			uuid.New().String(),
			bar.Date,
			series.Symbol,
			bar.Open,
			bar.High,
			bar.Low,
			bar.Close,
			bar.Volume,
		)
		if err != nil {
			tx.Rollback()

			return "", errors.Wrapf(errors.ErrCodeStoreFailed, err, "failed to insert bar for %s", series.Symbol)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreFailed, "failed to commit transaction", err)
	}

	outputPath := s.Path(series.Symbol)

	_, err = db.Exec(fmt.Sprintf(`COPY bars TO '%s' (FORMAT PARQUET)`, outputPath))
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeStoreFailed, err, "failed to export parquet file for %s", series.Symbol)
	}

	return outputPath, nil
}

// LoadSeries reads the symbol's cached series back in chronological order.
func (s *Store) LoadSeries(symbol string) (types.PriceSeries, error) {
	path := s.Path(symbol)
	if !s.Has(symbol) {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "no cached series for %s at %s", symbol, path)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return types.PriceSeries{}, errors.Wrap(errors.ErrCodeStoreFailed, "failed to open duckdb connection", err)
	}
	defer db.Close()

	_, err = db.Exec(fmt.Sprintf(`CREATE VIEW bars AS SELECT * FROM read_parquet('%s')`, path))
	if err != nil {
		return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeStoreFailed, err, "failed to read parquet file %s", path)
	}

	query, args, err := s.sq.
		Select("date", "open", "high", "low", "close", "volume").
		From("bars").
		Where(squirrel.Eq{"symbol": symbol}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return types.PriceSeries{}, errors.Wrap(errors.ErrCodeStoreFailed, "failed to build query", err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return types.PriceSeries{}, errors.Wrapf(errors.ErrCodeStoreFailed, err, "failed to query cached series for %s", symbol)
	}
	defer rows.Close()

	var bars []types.PriceBar

	for rows.Next() {
		var (
			date                   time.Time
			open, high, low, close float64
			volume                 int64
		)

		if err := rows.Scan(&date, &open, &high, &low, &close, &volume); err != nil {
			return types.PriceSeries{}, errors.Wrap(errors.ErrCodeStoreFailed, "failed to scan row", err)
		}

		bars = append(bars, types.PriceBar{
			Date:   date.UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: volume,
		})
	}

	if err := rows.Err(); err != nil {
		return types.PriceSeries{}, errors.Wrap(errors.ErrCodeStoreFailed, "error iterating rows", err)
	}

	if len(bars) == 0 {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "cached file for %s contains no bars", symbol)
	}

	return types.PriceSeries{Symbol: symbol, Bars: bars}, nil
}
