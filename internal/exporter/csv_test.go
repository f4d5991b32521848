package exporter

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBIPM/check-bipm-data/pkg/contracts/domain"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Records: []domain.ClockRecord{
			{MJD: 59000, LabCode: 100, ClockCode: 1234, Value: 0.000123},
			{MJD: 59001, LabCode: 100, ClockCode: 1234, Value: 0.000125},
		},
		Jumps: []domain.JumpRecord{
			{MJD: 59000.5, LabCode: 100, LabAcronym: "OPMT", ClockCode: 1234, TimeStep: 0.0005, FreqStep: 0},
		},
		Clocks: []int{1234},
		Series: []domain.ClockSeries{
			{
				ClockCode: 1234,
				Kind:      domain.SeriesFirstDiff,
				Corrected: false,
				Points: []domain.SeriesPoint{
					{MJD: 59000, Valid: false},
					{MJD: 59001, Value: 0.000002, Valid: true},
				},
			},
		},
	}
}

func TestWriteDataset(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	writer := NewCSVWriter(dir, logger)

	require.NoError(t, writer.WriteDataset(testDataset()))

	records := readCSV(t, filepath.Join(dir, "clock_records.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"mjd", "lab_code", "clock_code", "value"}, records[0])
	assert.Equal(t, []string{"59000", "100", "1234", "0.000123"}, records[1])

	jumps := readCSV(t, filepath.Join(dir, "jump_records.csv"))
	require.Len(t, jumps, 2)
	assert.Equal(t, []string{"mjd", "lab_code", "lab_acronym", "clock_code", "time_step", "freq_step"}, jumps[0])
	assert.Equal(t, []string{"59000.5", "100", "OPMT", "1234", "0.0005", "0"}, jumps[1])

	series := readCSV(t, filepath.Join(dir, "series.csv"))
	require.Len(t, series, 3)
	assert.Equal(t, []string{"clock_code", "mjd", "kind", "corrected", "value"}, series[0])
	// Undefined points export an empty value cell.
	assert.Equal(t, []string{"1234", "59000", "1diff", "false", ""}, series[1])
	assert.Equal(t, []string{"1234", "59001", "1diff", "false", "2e-06"}, series[2])
}

func TestWriteDatasetCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	writer := NewCSVWriter(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, writer.WriteDataset(&domain.Dataset{}))

	_, err := os.Stat(filepath.Join(dir, "series.csv"))
	assert.NoError(t, err)
}
