package excel

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"powerplants/internal"
	"powerplants/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func quietLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

func newWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "PLNT21"))
	require.NoError(t, f.SetSheetRow("PLNT21", "A1", &[]interface{}{"Plant name", "Plant state abbreviation", "Plant annual net generation (MWh)", "Plant coal generation percent (resource mix)"}))
	require.NoError(t, f.SetSheetRow("PLNT21", "A2", &[]interface{}{"PNAME", "PSTATABB", "PLNGENAN", "PLCLPR"}))
	require.NoError(t, f.SetSheetRow("PLNT21", "A3", &[]interface{}{"Alpha", "CA", 1000, "12.5%"}))
	require.NoError(t, f.SetSheetRow("PLNT21", "A4", &[]interface{}{"Bravo", "", "2,000"}))

	_, err := f.NewSheet("ST21")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("ST21", "A1", &[]interface{}{"State abbreviation", "State annual net generation (MWh)"}))
	require.NoError(t, f.SetSheetRow("ST21", "A2", &[]interface{}{"PSTATABB", "STNGENAN"}))
	require.NoError(t, f.SetSheetRow("ST21", "A3", &[]interface{}{"CA", 10000}))
	return f
}

func saveWorkbook(t *testing.T) string {
	t.Helper()
	f := newWorkbook(t)
	defer f.Close()
	path := filepath.Join(t.TempDir(), "egrid.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadTableFromWorkbook(t *testing.T) {
	reader := NewDataReader(saveWorkbook(t), quietLogger())

	tbl, err := reader.ReadTable(context.Background(), "PLNT21")
	require.NoError(t, err)

	assert.Equal(t, []string{"Plant name", "Plant state abbreviation", "Plant annual net generation (MWh)", "Plant coal generation percent (resource mix)"}, tbl.Columns)
	require.Equal(t, 3, tbl.Len())

	// every cell is read as text for the cleaner to coerce
	assert.Equal(t, "PNAME", tbl.Rows[0][0].AsString())
	assert.Equal(t, "1000", tbl.Rows[1][2].AsString())
	assert.Equal(t, "12.5%", tbl.Rows[1][3].AsString())
	assert.Equal(t, "2,000", tbl.Rows[2][2].AsString())

	// blank and trailing cells are missing
	assert.True(t, tbl.Rows[2][1].IsMissing())
	assert.True(t, tbl.Rows[2][3].IsMissing())
}

func TestReadTableUnknownSheet(t *testing.T) {
	reader := NewDataReader(saveWorkbook(t), quietLogger())

	_, err := reader.ReadTable(context.Background(), "PLNT99")
	require.Error(t, err)
	assert.Equal(t, errors.CodeDataNotFound, errors.GetCode(err))
}

func TestReadTableMissingFile(t *testing.T) {
	reader := NewDataReader(filepath.Join(t.TempDir(), "missing.xlsx"), quietLogger())

	_, err := reader.ReadTable(context.Background(), "PLNT21")
	require.Error(t, err)
	assert.Equal(t, errors.CodeDataNotFound, errors.GetCode(err))
}

func TestReadTableCancelledContext(t *testing.T) {
	reader := NewDataReader(saveWorkbook(t), quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reader.ReadTable(ctx, "PLNT21")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadWorkbookFromStream(t *testing.T) {
	f := newWorkbook(t)
	defer f.Close()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	data, err := ReadWorkbook(bytes.NewReader(buf.Bytes()), "ST21")
	require.NoError(t, err)
	assert.Equal(t, "ST21", data.Name)
	assert.Equal(t, []string{"State abbreviation", "State annual net generation (MWh)"}, data.Headers)
	assert.Len(t, data.Rows, 2)
}

func TestReadWorkbookIgnoresNumberFormats(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Plant annual net generation (MWh)", "Plant coal generation percent (resource mix)"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{1234.5678, 0.125}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{0.4, 0.5}))

	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	require.NoError(t, err)
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A3", thousands))
	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "B3", percent))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	data, err := ReadWorkbook(bytes.NewReader(buf.Bytes()), "Sheet1")
	require.NoError(t, err)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, RawRowData{"1234.5678", "0.125"}, data.Rows[0])
	assert.Equal(t, RawRowData{"0.4", "0.5"}, data.Rows[1])
}

func TestReadTableFromCSVDirectory(t *testing.T) {
	dir := t.TempDir()
	content := "Plant name,,Plant name\nPNAME,X,PNAME2\nAlpha,,\"1,000\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PLNT21.csv"), []byte(content), 0o644))

	reader := NewDataReader(dir, quietLogger())
	tbl, err := reader.ReadTable(context.Background(), "PLNT21")
	require.NoError(t, err)

	assert.Equal(t, []string{"Plant name", "Unnamed: 1", "Plant name.1"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Rows[1][1].IsMissing())
	assert.Equal(t, "1,000", tbl.Rows[1][2].AsString())

	_, err = reader.ReadTable(context.Background(), "ST21")
	require.Error(t, err)
	assert.Equal(t, errors.CodeDataNotFound, errors.GetCode(err))
}

func TestUniqueHeaders(t *testing.T) {
	assert.Equal(t,
		[]string{"a", "a.1", "a.2", "Unnamed: 3", "b"},
		uniqueHeaders([]string{"a", " a ", "a", "", "b"}))
}

func TestSheetDataTablePadsAndTruncates(t *testing.T) {
	data := &SheetData{
		Name:    "s",
		Headers: []string{"x", "y"},
		Rows:    []RawRowData{{"1"}, {"1", "2", "3"}, {"  ", " z "}},
	}

	tbl, err := data.Table()
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())
	assert.True(t, tbl.Rows[0][1].IsMissing())
	assert.Len(t, tbl.Rows[1], 2)
	assert.True(t, tbl.Rows[2][0].IsMissing())
	assert.Equal(t, "z", tbl.Rows[2][1].AsString())
}
