package cleaner

import (
	"strconv"
	"strings"

	"powerplants/domain/table"
)

// DataCleaner normalizes a raw table: it drops the metadata row, rescales
// percentage columns, coerces comma-formatted numbers, fills missing cells and
// removes duplicate rows, in that order.
type DataCleaner struct {
	config CleaningConfig
}

// CleaningConfig defines the cleaning rules
type CleaningConfig struct {
	PercentMarker string  `json:"percent_marker"` // case-insensitive column-name substring
	NumericFill   float64 `json:"numeric_fill"`   // replacement for missing numeric cells
	StringFill    string  `json:"string_fill"`    // replacement for missing string cells
}

// DefaultCleaningConfig returns the rules used for the eGRID sheets
func DefaultCleaningConfig() CleaningConfig {
	return CleaningConfig{
		PercentMarker: "percent",
		NumericFill:   0,
		StringFill:    "Unknown",
	}
}

// Report counts what each cleaning step changed
type Report struct {
	InputRows          int      `json:"input_rows"`
	OutputRows         int      `json:"output_rows"`
	PercentageColumns  []string `json:"percentage_columns"`
	ConvertedColumns   []string `json:"converted_columns"`
	NumericCellsFilled int      `json:"numeric_cells_filled"`
	StringCellsFilled  int      `json:"string_cells_filled"`
	DuplicatesRemoved  int      `json:"duplicates_removed"`
}

// NewDataCleaner creates a cleaner with the given config
func NewDataCleaner(config CleaningConfig) *DataCleaner {
	return &DataCleaner{config: config}
}

// Clean returns a cleaned copy of raw. The input is not modified.
func (c *DataCleaner) Clean(raw *table.Table) *table.Table {
	cleaned, _ := c.CleanWithReport(raw)
	return cleaned
}

// CleanWithReport is Clean plus a summary of the changes made
func (c *DataCleaner) CleanWithReport(raw *table.Table) (*table.Table, Report) {
	data := raw.Clone()
	report := Report{InputRows: raw.Len()}

	c.removeMetadataRow(data)
	report.PercentageColumns = c.convertPercentages(data)
	report.ConvertedColumns = c.convertColumnsToNumerical(data)
	report.NumericCellsFilled, report.StringCellsFilled = c.fillMissingValues(data)
	report.DuplicatesRemoved = c.removeDuplicates(data)

	report.OutputRows = data.Len()
	return data, report
}

// PercentageColumns lists the columns whose name contains the percent marker
func (c *DataCleaner) PercentageColumns(t *table.Table) []string {
	marker := strings.ToLower(c.config.PercentMarker)
	var cols []string
	for _, name := range t.Columns {
		if strings.Contains(strings.ToLower(name), marker) {
			cols = append(cols, name)
		}
	}
	return cols
}

// removeMetadataRow drops the first row
func (c *DataCleaner) removeMetadataRow(t *table.Table) {
	if len(t.Rows) == 0 {
		return
	}
	t.Rows = append([]table.Row(nil), t.Rows[1:]...)
}

// convertPercentages turns "12.5%" into 0.125. Missing and unparseable cells become 0.
func (c *DataCleaner) convertPercentages(t *table.Table) []string {
	cols := c.PercentageColumns(t)
	for _, name := range cols {
		idx, _ := t.ColumnIndex(name)
		for _, row := range t.Rows {
			row[idx] = table.NewNumericValue(parsePercentage(row[idx]))
		}
	}
	return cols
}

func parsePercentage(v table.Value) float64 {
	switch {
	case v.IsNumeric():
		return v.AsFloat64() / 100
	case v.IsString():
		s := strings.TrimSpace(v.AsString())
		s = strings.TrimSpace(strings.TrimRight(s, "%"))
		f, ok := parseDecimal(s)
		if !ok {
			return 0
		}
		return f / 100
	default:
		return 0
	}
}

// convertColumnsToNumerical applies convertToNumerical to every column and
// returns the names of the columns it rewrote.
func (c *DataCleaner) convertColumnsToNumerical(t *table.Table) []string {
	var converted []string
	for idx, name := range t.Columns {
		col := make([]table.Value, len(t.Rows))
		for r, row := range t.Rows {
			col[r] = row[idx]
		}

		out, ok := convertToNumerical(col)
		if !ok {
			continue
		}
		changed := false
		for r, row := range t.Rows {
			if !row[idx].IsNumeric() && out[r].IsNumeric() {
				changed = true
			}
			row[idx] = out[r]
		}
		if changed {
			converted = append(converted, name)
		}
	}
	return converted
}

// convertToNumerical strips thousands separators and parses every string cell
// as a float. If any cell fails, the column is returned unchanged with ok=false.
func convertToNumerical(col []table.Value) ([]table.Value, bool) {
	out := make([]table.Value, len(col))
	for i, v := range col {
		if !v.IsString() {
			out[i] = v
			continue
		}
		s := strings.TrimSpace(strings.ReplaceAll(v.AsString(), ",", ""))
		f, ok := parseDecimal(s)
		if !ok {
			return col, false
		}
		out[i] = table.NewNumericValue(f)
	}
	return out, true
}

// parseDecimal parses a decimal float literal. Hex floats are rejected and an
// underscore is accepted only between two digits ("1_000").
func parseDecimal(s string) (float64, bool) {
	body := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		return 0, false
	}
	if strings.Contains(s, "_") {
		for i := 0; i < len(s); i++ {
			if s[i] != '_' {
				continue
			}
			if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
				return 0, false
			}
		}
		s = strings.ReplaceAll(s, "_", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// fillMissingValues replaces missing cells with NumericFill in numeric columns
// and StringFill in string columns.
func (c *DataCleaner) fillMissingValues(t *table.Table) (numericFilled, stringFilled int) {
	for idx := range t.Columns {
		kind := t.Kind(idx)
		for _, row := range t.Rows {
			if !row[idx].IsMissing() {
				continue
			}
			if kind == table.KindNumeric {
				row[idx] = table.NewNumericValue(c.config.NumericFill)
				numericFilled++
			} else {
				row[idx] = table.NewStringValue(c.config.StringFill)
				stringFilled++
			}
		}
	}
	return numericFilled, stringFilled
}

// removeDuplicates keeps the first occurrence of every distinct row
func (c *DataCleaner) removeDuplicates(t *table.Table) int {
	seen := make(map[string]struct{}, len(t.Rows))
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		key := row.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	removed := len(t.Rows) - len(kept)
	t.Rows = kept
	return removed
}
