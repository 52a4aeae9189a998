package types

// IndicatorColumn is one computed series, index-aligned with the input bars.
// Undefined leading values (insufficient history) are math.NaN(); that is the
// single undefined representation used throughout the engine and the export.
type IndicatorColumn struct {
	Name   string
	Values []float64
}

// IndicatorTable is the output artifact for one symbol: the input bars echoed
// back plus one column per computed indicator field, all the same length.
type IndicatorTable struct {
	Symbol  string
	Bars    []PriceBar
	Columns []IndicatorColumn
}

// Rows returns the number of rows in the table.
func (t IndicatorTable) Rows() int {
	return len(t.Bars)
}

// Column looks up a computed column by name. The second return value reports
// whether the column exists.
func (t IndicatorTable) Column(name string) (IndicatorColumn, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}

	return IndicatorColumn{}, false
}

// ColumnNames returns the computed column names in table order.
func (t IndicatorTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}

	return names
}
