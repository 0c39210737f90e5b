package yieldcurve

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Result artifact file names, stable across runs.
const (
	LoadingsFile        = "pca_loadings.csv"
	ScoresFile          = "pca_scores.csv"
	VarianceSummaryFile = "pca_variance_summary.csv"
)

// LoadYieldCSV reads a raw yield matrix from a CSV file with a Date column
// followed by one column per maturity label. Labels are matched against the
// canonical set case-insensitively; an unknown label is an error. Empty
// cells and "." mark missing observations. Rows are sorted by date.
func LoadYieldCSV(path string) (YieldMatrix, error) {
	file, err := os.Open(path)
	if err != nil {
		return YieldMatrix{}, fmt.Errorf("open yield CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return YieldMatrix{}, fmt.Errorf("read yield CSV: %w", err)
	}
	if len(rows) < 2 {
		return YieldMatrix{}, fmt.Errorf("yield CSV %s has no data rows", path)
	}

	header := rows[0]
	if len(header) < 2 || !strings.EqualFold(strings.TrimSpace(header[0]), "date") {
		return YieldMatrix{}, fmt.Errorf("yield CSV must start with a Date column, got %q", header)
	}

	maturities := make([]Maturity, 0, len(header)-1)
	for _, label := range header[1:] {
		m, err := ParseMaturity(label)
		if err != nil {
			return YieldMatrix{}, fmt.Errorf("parse header: %w", err)
		}
		maturities = append(maturities, m)
	}

	type record struct {
		date time.Time
		row  []float64
	}
	records := make([]record, 0, len(rows)-1)

	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return YieldMatrix{}, fmt.Errorf("row %d has %d cells, expected %d", i+2, len(row), len(header))
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
		if err != nil {
			return YieldMatrix{}, fmt.Errorf("parse date on row %d: %w", i+2, err)
		}
		values := make([]float64, len(maturities))
		for j, cell := range row[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" || cell == "." {
				values[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return YieldMatrix{}, fmt.Errorf("parse %s value on row %d: %w", maturities[j], i+2, err)
			}
			values[j] = v
		}
		records = append(records, record{date: date, row: values})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].date.Before(records[j].date)
	})

	matrix := YieldMatrix{
		Dates:      make([]time.Time, len(records)),
		Maturities: maturities,
		Values:     make([][]float64, len(records)),
	}
	for i, rec := range records {
		matrix.Dates[i] = rec.date
		matrix.Values[i] = rec.row
	}

	if err := matrix.Validate(); err != nil {
		return YieldMatrix{}, fmt.Errorf("validate loaded matrix: %w", err)
	}
	return matrix, nil
}

// SaveYieldCSV writes a raw yield matrix to a CSV file, missing cells as
// empty strings.
func SaveYieldCSV(matrix YieldMatrix, path string) error {
	headers := []string{"Date"}
	for _, m := range matrix.Maturities {
		headers = append(headers, string(m))
	}

	records := make([][]string, 0, matrix.Rows())
	for i, date := range matrix.Dates {
		record := []string{date.Format("2006-01-02")}
		for _, v := range matrix.Values[i] {
			if math.IsNaN(v) {
				record = append(record, "")
			} else {
				record = append(record, strconv.FormatFloat(v, 'f', 2, 64))
			}
		}
		records = append(records, record)
	}

	return writeCSV(path, headers, records)
}

// SaveResultCSVs writes the loadings, scores, and variance summary tables
// of a completed run into the given directory.
func SaveResultCSVs(result *AnalysisResult, dir string) error {
	loadingsHeader, loadingsRecords := result.LoadingsTable()
	if err := writeCSV(filepath.Join(dir, LoadingsFile), loadingsHeader, loadingsRecords); err != nil {
		return fmt.Errorf("save loadings: %w", err)
	}

	scoresHeader, scoresRecords := result.ScoresTable()
	if err := writeCSV(filepath.Join(dir, ScoresFile), scoresHeader, scoresRecords); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}

	varianceHeader, varianceRecords := result.VarianceSummaryTable()
	if err := writeCSV(filepath.Join(dir, VarianceSummaryFile), varianceHeader, varianceRecords); err != nil {
		return fmt.Errorf("save variance summary: %w", err)
	}

	return nil
}

func writeCSV(path string, headers []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV record %d: %w", i, err)
		}
	}
	return writer.Error()
}
