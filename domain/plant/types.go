package plant

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"powerplants/domain/core"
	"powerplants/domain/table"
)

// Well-known eGRID column names the query layer depends on
const (
	ColumnPlantName         = "Plant name"
	ColumnPlantState        = "Plant state abbreviation"
	ColumnStateName         = "State name"
	ColumnStateAbbreviation = "State abbreviation"

	DefaultMetric = "Plant annual net generation (MWh)"
)

// StateMetricFor derives the state-sheet column that mirrors a plant metric by
// replacing every "Plant" with "State", e.g.
// "Plant annual net generation (MWh)" -> "State annual net generation (MWh)".
// It is a textual convention only; names that do not follow it will not match.
func StateMetricFor(plantMetric string) string {
	return strings.ReplaceAll(plantMetric, "Plant", "State")
}

// Number is a float64 that encodes NaN and ±Inf as JSON null
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// TopPlantEntry is one ranked plant
type TopPlantEntry struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	Metric      string `json:"metric"`
	MetricValue Number `json:"metric_value"`
}

// TopPlantList wraps a ranking
type TopPlantList struct {
	Plants []TopPlantEntry `json:"plants"`
}

// StateSummaryEntry aggregates one plant metric within one state.
// Percentage is the sum of each plant's share of the state total, not
// AbsoluteValue divided by that total.
type StateSummaryEntry struct {
	PlantStateAbbreviation string `json:"plant_state_abbreviation"`
	Metric                 string `json:"metric"`
	AbsoluteValue          Number `json:"absolute_value"`
	Percentage             Number `json:"percentage"`
}

// StateSummary wraps all per-state entries
type StateSummary struct {
	Summary []StateSummaryEntry `json:"summary"`
}

// Field is one column/value pair of a PlantRow
type Field struct {
	Column string
	Value  table.Value
}

// PlantRow is a full projection of a plant row that keeps column order when
// encoded as a JSON object.
type PlantRow []Field

// Get returns the value for a column
func (r PlantRow) Get(column string) (table.Value, bool) {
	for _, f := range r {
		if f.Column == column {
			return f.Value, true
		}
	}
	return table.Value{}, false
}

func (r PlantRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Column)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val []byte
		switch {
		case f.Value.IsNumeric():
			val, err = Number(f.Value.AsFloat64()).MarshalJSON()
		case f.Value.IsString():
			val, err = json.Marshal(f.Value.AsString())
		default:
			val = []byte("null")
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StateData wraps the rows of one state
type StateData struct {
	Data []PlantRow `json:"data"`
}

// MetricList names the numeric plant columns
type MetricList struct {
	Metrics []string `json:"metrics"`
}

// MetricProfile summarizes the distribution of one plant metric
type MetricProfile struct {
	Metric string `json:"metric"`
	Count  int    `json:"count"`
	Sum    Number `json:"sum"`
	Min    Number `json:"min"`
	Max    Number `json:"max"`
	Mean   Number `json:"mean"`
	Median Number `json:"median"`
	P25    Number `json:"p25"`
	P75    Number `json:"p75"`
	StdDev Number `json:"std_dev"`
}

// DatasetInfo identifies the loaded dataset
type DatasetInfo struct {
	Fingerprint string         `json:"fingerprint"`
	LoadedAt    core.Timestamp `json:"loaded_at"`
	PlantRows   int            `json:"plant_rows"`
	StateRows   int            `json:"state_rows"`
}
