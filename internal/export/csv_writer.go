// Package export serializes indicator tables into CSV files for the external
// visualization tool, plus a YAML run summary.
package export

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tickerlens/tickerlens/internal/types"
	"github.com/tickerlens/tickerlens/pkg/errors"
)

// dateLayout is the unambiguous ISO-8601 date format used in every CSV so
// the BI tool can bind the date column without locale guessing.
const dateLayout = "2006-01-02"

// CSVWriter writes one CSV file per symbol, and optionally a combined file
// with a leading symbol column.
type CSVWriter struct {
	outDir string
}

// NewCSVWriter creates a writer rooted at outDir, creating the directory if
// needed.
func NewCSVWriter(outDir string) (*CSVWriter, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to create output directory %s", outDir)
	}

	return &CSVWriter{outDir: outDir}, nil
}

// WriteTable writes the table to <symbol>.csv and returns the file path.
// Header order is date, the raw OHLCV fields, then the computed columns in
// table order. Undefined values become empty cells.
func (w *CSVWriter) WriteTable(table types.IndicatorTable) (string, error) {
	path := filepath.Join(w.outDir, table.Symbol+".csv")

	file, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to create %s", path)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := append([]string{"date", "open", "high", "low", "close", "volume"}, table.ColumnNames()...)
	if err := writer.Write(header); err != nil {
		return "", errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to write header to %s", path)
	}

	for i := range table.Bars {
		if err := writer.Write(tableRow(table, i, nil)); err != nil {
			return "", errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to write row %d to %s", i, path)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return "", errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to flush %s", path)
	}

	return path, nil
}

// WriteCombined writes all tables into combined.csv with a leading symbol
// column. Every table must carry the same computed column set, otherwise the
// BI tool could bind columns to the wrong fields.
func (w *CSVWriter) WriteCombined(tables []types.IndicatorTable) (string, error) {
	if len(tables) == 0 {
		return "", errors.New(errors.ErrCodeExportFailed, "no tables to combine")
	}

	names := tables[0].ColumnNames()

	for _, table := range tables[1:] {
		other := table.ColumnNames()
		if len(other) != len(names) {
			return "", errors.Newf(errors.ErrCodeExportFailed, "table for %s has a different column set", table.Symbol)
		}

		for i := range names {
			if other[i] != names[i] {
				return "", errors.Newf(errors.ErrCodeExportFailed, "table for %s has a different column set", table.Symbol)
			}
		}
	}

	path := filepath.Join(w.outDir, "combined.csv")

	file, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to create %s", path)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := append([]string{"symbol", "date", "open", "high", "low", "close", "volume"}, names...)
	if err := writer.Write(header); err != nil {
		return "", errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to write header to %s", path)
	}

	for _, table := range tables {
		for i := range table.Bars {
			if err := writer.Write(tableRow(table, i, []string{table.Symbol})); err != nil {
				return "", errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to write row for %s to %s", table.Symbol, path)
			}
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return "", errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to flush %s", path)
	}

	return path, nil
}

// tableRow renders row i of the table, prefixed with any extra cells.
func tableRow(table types.IndicatorTable, i int, prefix []string) []string {
	bar := table.Bars[i]

	row := append(prefix,
		bar.Date.Format(dateLayout),
		formatValue(bar.Open),
		formatValue(bar.High),
		formatValue(bar.Low),
		formatValue(bar.Close),
		strconv.FormatInt(bar.Volume, 10),
	)

	for _, col := range table.Columns {
		row = append(row, formatValue(col.Values[i]))
	}

	return row
}

// formatValue renders a float cell; NaN (undefined) becomes an empty cell.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SymbolSummary describes one successfully exported symbol.
type SymbolSummary struct {
	Symbol string `yaml:"symbol"`
	Rows   int    `yaml:"rows"`
	Path   string `yaml:"path"`
}

// FailureSummary describes one failed symbol.
type FailureSummary struct {
	Symbol string `yaml:"symbol"`
	Error  string `yaml:"error"`
}

// RunSummary is written next to the CSVs after every run.
type RunSummary struct {
	GeneratedAt  time.Time        `yaml:"generated_at"`
	Provider     string           `yaml:"provider"`
	Symbols      []SymbolSummary  `yaml:"symbols"`
	Failed       []FailureSummary `yaml:"failed,omitempty"`
	CombinedPath string           `yaml:"combined_path,omitempty"`
}

// WriteSummary marshals the run summary to run_summary.yaml.
func (w *CSVWriter) WriteSummary(summary RunSummary) (string, error) {
	path := filepath.Join(w.outDir, "run_summary.yaml")

	data, err := yaml.Marshal(summary)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, "failed to marshal run summary", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to write %s", path)
	}

	return path, nil
}
