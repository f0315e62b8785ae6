package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	plants := "Plant name,Plant state abbreviation,Plant annual net generation (MWh)\n" +
		"PNAME,PSTATABB,PLNGENAN\n" +
		"Alpha,CA,1000\n" +
		"Bravo,NY,2000\n"
	states := "State abbreviation,State annual net generation (MWh)\n" +
		"PSTATABB,STNGENAN\n" +
		"CA,10000\n" +
		"NY,20000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PLNT21.csv"), []byte(plants), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ST21.csv"), []byte(states), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTopCommand(t *testing.T) {
	dir := writeDataset(t)

	out, err := run(t, "top", "--file", dir, "--n", "1")
	require.NoError(t, err)

	var result struct {
		Plants []struct {
			Name  string  `json:"name"`
			Value float64 `json:"metric_value"`
		} `json:"plants"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Plants, 1)
	assert.Equal(t, "Bravo", result.Plants[0].Name)
	assert.Equal(t, 2000.0, result.Plants[0].Value)
}

func TestStatesCommand(t *testing.T) {
	dir := writeDataset(t)

	out, err := run(t, "states", "--file", dir, "--metric", "Plant annual net generation (MWh)")
	require.NoError(t, err)
	assert.Contains(t, out, `"plant_state_abbreviation": "CA"`)
	assert.Contains(t, out, `"percentage": 10`)

	_, err = run(t, "states", "--file", dir)
	assert.Error(t, err, "metric flag is required")
}

func TestStateCommand(t *testing.T) {
	dir := writeDataset(t)

	out, err := run(t, "state", "ny", "--file", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"Plant name": "Bravo"`)

	_, err = run(t, "state", "ZZ", "--file", dir)
	require.Error(t, err)
	assert.Equal(t, "No data found for state: ZZ", err.Error())

	_, err = run(t, "state", "New York", "--file", dir)
	assert.Error(t, err)
}

func TestMetricsCommandBadFile(t *testing.T) {
	_, err := run(t, "metrics", "--file", filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestTopCommandBadMetric(t *testing.T) {
	dir := writeDataset(t)

	_, err := run(t, "top", "--file", dir, "--metric", "Plant name")
	require.Error(t, err)
	assert.Equal(t, "The specified metric 'Plant name' is not numerical.", err.Error())
}
