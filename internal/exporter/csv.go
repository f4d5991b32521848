// Package exporter writes the checked dataset to CSV files for downstream
// plotting and inspection.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/TheBIPM/check-bipm-data/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality for one output directory.
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer targeting dir.
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger}
}

// WriteDataset writes the record collections and all derived series:
// clock_records.csv, jump_records.csv, series.csv. Undefined difference
// points are exported as empty value cells.
func (w *CSVWriter) WriteDataset(dataset *domain.Dataset) error {
	if err := w.writeClockRecords(dataset.Records); err != nil {
		return err
	}
	if err := w.writeJumpRecords(dataset.Jumps); err != nil {
		return err
	}
	return w.writeSeries(dataset.Series)
}

func (w *CSVWriter) writeClockRecords(records []domain.ClockRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.MJD),
			strconv.Itoa(r.LabCode),
			strconv.Itoa(r.ClockCode),
			formatFloat(r.Value),
		})
	}
	return w.writeCSV("clock_records.csv", []string{"mjd", "lab_code", "clock_code", "value"}, rows)
}

func (w *CSVWriter) writeJumpRecords(jumps []domain.JumpRecord) error {
	rows := make([][]string, 0, len(jumps))
	for _, j := range jumps {
		rows = append(rows, []string{
			formatFloat(j.MJD),
			strconv.Itoa(j.LabCode),
			j.LabAcronym,
			strconv.Itoa(j.ClockCode),
			formatFloat(j.TimeStep),
			formatFloat(j.FreqStep),
		})
	}
	return w.writeCSV("jump_records.csv", []string{"mjd", "lab_code", "lab_acronym", "clock_code", "time_step", "freq_step"}, rows)
}

func (w *CSVWriter) writeSeries(series []domain.ClockSeries) error {
	var rows [][]string
	for _, s := range series {
		for _, p := range s.Points {
			value := ""
			if p.Valid {
				value = formatFloat(p.Value)
			}
			rows = append(rows, []string{
				strconv.Itoa(s.ClockCode),
				formatFloat(p.MJD),
				s.Kind.String(),
				strconv.FormatBool(s.Corrected),
				value,
			})
		}
	}
	return w.writeCSV("series.csv", []string{"clock_code", "mjd", "kind", "corrected", "value"}, rows)
}

// writeCSV writes one CSV file with a header row into the output directory.
func (w *CSVWriter) writeCSV(name string, headers []string, rows [][]string) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(w.dir, name)

	w.logger.Info("writing CSV file",
		slog.String("path", path),
		slog.Int("rows", len(rows)))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
