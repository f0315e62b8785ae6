package excel

// RawRowData represents a row of raw sheet cells, ragged as excelize returns them
type RawRowData []string

// SheetData represents one sheet before it is turned into a table
type SheetData struct {
	Name    string       // Sheet name
	Headers []string     // Column headers, deduplicated
	Rows    []RawRowData // Data rows
}
