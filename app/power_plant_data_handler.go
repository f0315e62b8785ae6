package app

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"powerplants/adapters/datareadiness/cleaner"
	"powerplants/domain/core"
	"powerplants/domain/plant"
	"powerplants/domain/table"
	"powerplants/internal"
	"powerplants/internal/errors"
	"powerplants/internal/profiling"
	"powerplants/ports"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// PowerPlantDataHandler answers queries over the cleaned plant and state sheets.
// Both tables are read-only after construction, so every method is safe for
// concurrent use.
type PowerPlantDataHandler struct {
	plantData *table.Table
	stateData *table.Table

	plantNumeric map[string]bool
	stateNumeric map[string]bool

	plantReport cleaner.Report
	stateReport cleaner.Report
	info        plant.DatasetInfo

	analyzer *profiling.DistributionAnalyzer
}

// NewPowerPlantDataHandler cleans both raw tables and keeps only the cleaned copies
func NewPowerPlantDataHandler(plantRaw, stateRaw *table.Table) *PowerPlantDataHandler {
	dc := cleaner.NewDataCleaner(cleaner.DefaultCleaningConfig())
	plantData, plantReport := dc.CleanWithReport(plantRaw)
	stateData, stateReport := dc.CleanWithReport(stateRaw)

	return &PowerPlantDataHandler{
		plantData:    plantData,
		stateData:    stateData,
		plantNumeric: numericColumns(plantData),
		stateNumeric: numericColumns(stateData),
		plantReport:  plantReport,
		stateReport:  stateReport,
		info: plant.DatasetInfo{
			Fingerprint: fingerprint(plantData, stateData).String(),
			LoadedAt:    core.Now(),
			PlantRows:   plantData.Len(),
			StateRows:   stateData.Len(),
		},
		analyzer: profiling.NewDistributionAnalyzer(),
	}
}

// fingerprint hashes the cleaned tables, so two loads of the same workbook agree
func fingerprint(tables ...*table.Table) core.Hash {
	h := core.NewHasher()
	for _, t := range tables {
		h.Add(strconv.Itoa(len(t.Columns)))
		for _, col := range t.Columns {
			h.Add(col)
		}
		h.Add(strconv.Itoa(t.Len()))
		for _, row := range t.Rows {
			h.Add(row.Key())
		}
	}
	return h.Sum()
}

// LoadPowerPlantDataHandler reads both sheets concurrently and builds a handler.
// Either sheet failing aborts the load.
func LoadPowerPlantDataHandler(ctx context.Context, reader ports.TableReader, plantSheet, stateSheet string, logger *internal.Logger) (*PowerPlantDataHandler, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	var plantRaw, stateRaw *table.Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := reader.ReadTable(gctx, plantSheet)
		if err != nil {
			return errors.Wrapf(err, "failed to read plant sheet %q", plantSheet)
		}
		plantRaw = t
		return nil
	})
	g.Go(func() error {
		t, err := reader.ReadTable(gctx, stateSheet)
		if err != nil {
			return errors.Wrapf(err, "failed to read state sheet %q", stateSheet)
		}
		stateRaw = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := NewPowerPlantDataHandler(plantRaw, stateRaw)
	logReport(logger, plantSheet, h.plantReport)
	logReport(logger, stateSheet, h.stateReport)
	logger.Info("[DataHandler] dataset %s ready", core.Hash(h.info.Fingerprint).Short())
	return h, nil
}

func logReport(logger *internal.Logger, sheet string, r cleaner.Report) {
	logger.Info("[DataHandler] %s: %d -> %d rows, %d percentage columns, %d numeric columns, %d duplicates removed",
		sheet, r.InputRows, r.OutputRows, len(r.PercentageColumns), len(r.ConvertedColumns), r.DuplicatesRemoved)
	logger.Debug("[DataHandler] %s: filled %d numeric and %d string cells",
		sheet, r.NumericCellsFilled, r.StringCellsFilled)
}

// PlantReport returns what cleaning changed in the plant sheet
func (h *PowerPlantDataHandler) PlantReport() cleaner.Report {
	return h.plantReport
}

// StateReport returns what cleaning changed in the state sheet
func (h *PowerPlantDataHandler) StateReport() cleaner.Report {
	return h.stateReport
}

// DatasetInfo returns the fingerprint and size of the loaded tables
func (h *PowerPlantDataHandler) DatasetInfo() plant.DatasetInfo {
	return h.info
}

// TopNPlants ranks plants by metric, highest first. Ties keep table order and
// n larger than the table returns every plant.
func (h *PowerPlantDataHandler) TopNPlants(n int, metric string) (plant.TopPlantList, error) {
	if n <= 0 {
		return plant.TopPlantList{}, core.NewInvalidInputError("top_number", "must be greater than 0")
	}
	if err := h.checkPlantMetric(metric); err != nil {
		return plant.TopPlantList{}, err
	}
	nameCol, err := requireColumn(h.plantData, plant.ColumnPlantName)
	if err != nil {
		return plant.TopPlantList{}, err
	}
	stateCol, err := requireColumn(h.plantData, plant.ColumnPlantState)
	if err != nil {
		return plant.TopPlantList{}, err
	}
	metricCol, _ := h.plantData.ColumnIndex(metric)

	order := make([]int, h.plantData.Len())
	for i := range order {
		order[i] = i
	}
	rows := h.plantData.Rows
	sort.SliceStable(order, func(a, b int) bool {
		return descending(rows[order[a]][metricCol].AsFloat64(), rows[order[b]][metricCol].AsFloat64())
	})

	if n > len(order) {
		n = len(order)
	}
	plants := make([]plant.TopPlantEntry, 0, n)
	for _, i := range order[:n] {
		row := rows[i]
		plants = append(plants, plant.TopPlantEntry{
			Name:        cellText(row[nameCol]),
			State:       cellText(row[stateCol]),
			Metric:      metric,
			MetricValue: plant.Number(row[metricCol].AsFloat64()),
		})
	}
	return plant.TopPlantList{Plants: plants}, nil
}

// descending orders larger values first and NaN last
func descending(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	return a > b
}

// PlantMetricSummaryByState sums a plant metric per state together with each
// plant's share of the matching state-level metric. Plants whose state is not in
// the state sheet contribute their value to absolute_value and nothing to
// percentage; NaN shares (including 0/0) are skipped, ±Inf is kept.
func (h *PowerPlantDataHandler) PlantMetricSummaryByState(plantMetric string) (plant.StateSummary, error) {
	stateMetric := plant.StateMetricFor(plantMetric)

	switch {
	case !h.plantData.HasColumn(plantMetric):
		return plant.StateSummary{}, core.NewBadMetricError(plantMetric, core.ReasonMissing)
	case !h.stateData.HasColumn(stateMetric):
		return plant.StateSummary{}, core.NewBadMetricError(stateMetric, core.ReasonMissing)
	case !h.plantNumeric[plantMetric]:
		return plant.StateSummary{}, core.NewBadMetricError(plantMetric, core.ReasonNotNumeric)
	case !h.stateNumeric[stateMetric]:
		return plant.StateSummary{}, core.NewBadMetricError(stateMetric, core.ReasonNotNumeric)
	}

	plantStateCol, err := requireColumn(h.plantData, plant.ColumnPlantState)
	if err != nil {
		return plant.StateSummary{}, err
	}
	stateAbbrCol, err := requireColumn(h.stateData, plant.ColumnStateAbbreviation)
	if err != nil {
		return plant.StateSummary{}, err
	}
	plantMetricCol, _ := h.plantData.ColumnIndex(plantMetric)
	stateMetricCol, _ := h.stateData.ColumnIndex(stateMetric)

	stateTotals := make(map[string][]float64)
	for _, row := range h.stateData.Rows {
		key := joinKey(row[stateAbbrCol])
		stateTotals[key] = append(stateTotals[key], row[stateMetricCol].AsFloat64())
	}

	type group struct {
		abbreviation string
		values       []float64
		percentages  []float64
	}
	groups := make(map[string]*group)
	for _, row := range h.plantData.Rows {
		abbr := row[plantStateCol]
		g, ok := groups[joinKey(abbr)]
		if !ok {
			g = &group{abbreviation: cellText(abbr)}
			groups[joinKey(abbr)] = g
		}

		value := row[plantMetricCol].AsFloat64()
		totals, matched := stateTotals[joinKey(abbr)]
		if !matched {
			g.values = append(g.values, value)
			g.percentages = append(g.percentages, math.NaN())
			continue
		}
		// one joined row per matching state row
		for _, total := range totals {
			g.values = append(g.values, value)
			g.percentages = append(g.percentages, value/total*100)
		}
	}

	summary := make([]plant.StateSummaryEntry, 0, len(groups))
	for _, g := range groups {
		summary = append(summary, plant.StateSummaryEntry{
			PlantStateAbbreviation: g.abbreviation,
			Metric:                 plantMetric,
			AbsoluteValue:          plant.Number(floats.Sum(g.values)),
			Percentage:             plant.Number(sumSkipNaN(g.percentages)),
		})
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].PlantStateAbbreviation < summary[j].PlantStateAbbreviation
	})
	return plant.StateSummary{Summary: summary}, nil
}

// sumSkipNaN adds the non-NaN values; an all-NaN or empty slice sums to 0
func sumSkipNaN(values []float64) float64 {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	return floats.Sum(kept)
}

// DataByState returns every column of the plants located in state, in table order
func (h *PowerPlantDataHandler) DataByState(state string) (plant.StateData, error) {
	stateCol, err := requireColumn(h.plantData, plant.ColumnPlantState)
	if err != nil {
		return plant.StateData{}, err
	}

	var data []plant.PlantRow
	for _, row := range h.plantData.Rows {
		v := row[stateCol]
		if !v.IsString() || v.AsString() != state {
			continue
		}
		projected := make(plant.PlantRow, len(h.plantData.Columns))
		for i, col := range h.plantData.Columns {
			projected[i] = plant.Field{Column: col, Value: row[i]}
		}
		data = append(data, projected)
	}

	if len(data) == 0 {
		return plant.StateData{}, core.NewDataNotFoundError("No data found for state: %s", state)
	}
	return plant.StateData{Data: data}, nil
}

// NumericMetrics lists the numeric plant columns in column order
func (h *PowerPlantDataHandler) NumericMetrics() plant.MetricList {
	metrics := make([]string, 0, len(h.plantNumeric))
	for _, col := range h.plantData.Columns {
		if h.plantNumeric[col] {
			metrics = append(metrics, col)
		}
	}
	return plant.MetricList{Metrics: metrics}
}

// MetricProfile summarizes the distribution of a numeric plant column
func (h *PowerPlantDataHandler) MetricProfile(metric string) (plant.MetricProfile, error) {
	if err := h.checkPlantMetric(metric); err != nil {
		return plant.MetricProfile{}, err
	}
	if h.plantData.Len() == 0 {
		return plant.MetricProfile{}, core.NewDataNotFoundError("No plant data available for metric: %s", metric)
	}

	cells, _ := h.plantData.Column(metric)
	values := make([]float64, len(cells))
	for i, c := range cells {
		values[i] = c.AsFloat64()
	}

	profile, err := h.analyzer.Profile(metric, values)
	if err != nil {
		return plant.MetricProfile{}, core.NewDataNotFoundError("No numeric values for metric: %s", metric)
	}
	return profile, nil
}

func (h *PowerPlantDataHandler) checkPlantMetric(metric string) error {
	if !h.plantData.HasColumn(metric) {
		return core.NewBadMetricError(metric, core.ReasonMissing)
	}
	if !h.plantNumeric[metric] {
		return core.NewBadMetricError(metric, core.ReasonNotNumeric)
	}
	return nil
}

func numericColumns(t *table.Table) map[string]bool {
	numeric := make(map[string]bool, len(t.Columns))
	for i, col := range t.Columns {
		if t.Kind(i) == table.KindNumeric {
			numeric[col] = true
		}
	}
	return numeric
}

func requireColumn(t *table.Table, name string) (int, error) {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return 0, errors.ValidationError(fmt.Sprintf("required column %q is missing", name))
	}
	return i, nil
}

// joinKey separates string and numeric cells that print the same
func joinKey(v table.Value) string {
	return string(v.Type) + ":" + v.String()
}

func cellText(v table.Value) string {
	if v.IsMissing() {
		return ""
	}
	return v.String()
}
