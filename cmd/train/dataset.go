package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// dataset is a labelled numeric table read from CSV.
type dataset struct {
	features []string
	x        [][]float64
	y        []int
}

// readCSV loads a CSV with a header row. labelColumn holds integer class
// labels; every other column is a numeric feature, kept in header order.
func readCSV(path, labelColumn string) (*dataset, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parseCSV(f, labelColumn)
}

func parseCSV(r io.Reader, labelColumn string) (*dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	labelIdx := -1
	ds := &dataset{}
	for i, col := range header {
		col = strings.TrimSpace(col)
		if col == labelColumn {
			labelIdx = i
			continue
		}
		ds.features = append(ds.features, col)
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("label column %q not found in header", labelColumn)
	}
	if len(ds.features) == 0 {
		return nil, errors.New("csv has no feature columns")
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		label, err := strconv.ParseFloat(strings.TrimSpace(rec[labelIdx]), 64)
		if err != nil || label != float64(int(label)) {
			return nil, fmt.Errorf("line %d: label %q is not an integer", line, rec[labelIdx])
		}

		row := make([]float64, 0, len(ds.features))
		for i, v := range rec {
			if i == labelIdx {
				continue
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, header[i], err)
			}
			row = append(row, f)
		}
		ds.x = append(ds.x, row)
		ds.y = append(ds.y, int(label))
	}

	if len(ds.x) == 0 {
		return nil, errors.New("csv has no data rows")
	}
	return ds, nil
}

// subset returns the rows at idx.
func (d *dataset) subset(idx []int) ([][]float64, []int) {
	x := make([][]float64, len(idx))
	y := make([]int, len(idx))
	for i, j := range idx {
		x[i] = d.x[j]
		y[i] = d.y[j]
	}
	return x, y
}
