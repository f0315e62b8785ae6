package excel

// ExcelConfig holds configuration for the workbook data source
type ExcelConfig struct {
	FilePath   string `json:"file_path"`
	PlantSheet string `json:"plant_sheet"`
	StateSheet string `json:"state_sheet"`
}

// DefaultExcelConfig returns the eGRID 2021 layout
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		FilePath:   "data/eGRID2021_data.xlsx",
		PlantSheet: "PLNT21",
		StateSheet: "ST21",
	}
}
