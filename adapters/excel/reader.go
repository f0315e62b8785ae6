package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"powerplants/domain/table"
	"powerplants/internal"
	"powerplants/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader reads named sheets from an .xlsx workbook, or from a directory
// holding one <sheet>.csv file per sheet.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader for a workbook path or a CSV directory
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	fileType := "xlsx"
	if info, err := os.Stat(filePath); err == nil && info.IsDir() {
		fileType = "csv"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger}
}

// ReadTable reads one sheet into a raw table
func (r *DataReader) ReadTable(ctx context.Context, sheet string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheetData, err := r.ReadSheet(sheet)
	if err != nil {
		return nil, err
	}
	return sheetData.Table()
}

// ReadSheet reads the raw cells of one sheet
func (r *DataReader) ReadSheet(sheet string) (*SheetData, error) {
	r.logger.Debug("[DataReader] Reading sheet %s from %s file: %s", sheet, r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.DataNotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSVSheet(sheet)
	case "xlsx":
		return r.readExcelSheet(sheet)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.fileType))
	}
}

// readExcelSheet reads formatted cell text, so "12.5%" and "1,234" arrive as
// the strings the cleaner expects.
func (r *DataReader) readExcelSheet(sheet string) (*SheetData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	data, err := ReadWorkbookSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	r.logger.Info("[DataReader] Sheet %s read in %.2fms (%d columns, %d rows)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(data.Headers), len(data.Rows))
	return data, nil
}

// ReadWorkbookSheet extracts a sheet from an already opened workbook
func ReadWorkbookSheet(f *excelize.File, sheet string) (*SheetData, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.DataNotFound(fmt.Sprintf("sheet %s", sheet))
	}

	// raw values, so number formats never round what the cleaner parses
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	return processRows(sheet, rows)
}

// ReadWorkbook opens a workbook from a stream and extracts a sheet
func ReadWorkbook(rd io.Reader, sheet string) (*SheetData, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel stream")
	}
	defer f.Close()
	return ReadWorkbookSheet(f, sheet)
}

// readCSVSheet reads <dir>/<sheet>.csv
func (r *DataReader) readCSVSheet(sheet string) (*SheetData, error) {
	path := filepath.Join(r.filePath, sheet+".csv")
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.DataNotFound(fmt.Sprintf("CSV file %s", path))
		}
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	r.logger.Info("[DataReader] CSV sheet %s read in %.2fms (%d rows)",
		sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return processRows(sheet, rows)
}

// processRows takes the first row as headers and keeps the rest as data
func processRows(sheet string, rows [][]string) (*SheetData, error) {
	if len(rows) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("sheet %s has no header row", sheet))
	}

	headers := uniqueHeaders(rows[0])
	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		dataRows = append(dataRows, RawRowData(row))
	}

	return &SheetData{Name: sheet, Headers: headers, Rows: dataRows}, nil
}

// uniqueHeaders trims header cells, names blank ones "Unnamed: <i>" and
// suffixes repeats with ".1", ".2", ...
func uniqueHeaders(headerRow []string) []string {
	headers := make([]string, len(headerRow))
	seen := make(map[string]int, len(headerRow))
	for i, header := range headerRow {
		name := strings.TrimSpace(header)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			candidate := fmt.Sprintf("%s.%d", name, n+1)
			for {
				if _, taken := seen[candidate]; !taken {
					break
				}
				seen[name]++
				candidate = fmt.Sprintf("%s.%d", name, seen[name])
			}
			name = candidate
		}
		seen[name] = 0
		headers[i] = name
	}
	return headers
}

// Table converts the sheet into a raw table. Rows wider than the header are
// truncated, shorter ones are padded with missing cells, and blank cells
// become missing values.
func (s *SheetData) Table() (*table.Table, error) {
	rows := make([]table.Row, len(s.Rows))
	for i, raw := range s.Rows {
		row := make(table.Row, len(s.Headers))
		for j := range s.Headers {
			if j < len(raw) && strings.TrimSpace(raw[j]) != "" {
				row[j] = table.NewStringValue(strings.TrimSpace(raw[j]))
			} else {
				row[j] = table.NewMissingValue()
			}
		}
		rows[i] = row
	}

	t, err := table.New(s.Headers, rows)
	if err != nil {
		return nil, errors.Wrapf(err, "sheet %s is not tabular", s.Name)
	}
	return t, nil
}
