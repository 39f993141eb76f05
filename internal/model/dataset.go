package model

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"modelops/internal/common/fsutil"
)

// Label column in the held-out reference dataset.
const labelColumn = "Class"

// Columns dropped before scoring. Models are trained without the raw
// transaction timestamp.
var droppedColumns = map[string]bool{"Time": true}

// Dataset is a held-out reference dataset loaded from CSV: one named float
// column per feature plus a binary label column.
type Dataset struct {
	Columns []string
	Rows    [][]float64
	Labels  []int
}

// LoadDataset reads a CSV file with a header row. The label column is
// required; dropped columns are removed from the feature set.
func LoadDataset(path string) (*Dataset, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if !fsutil.PathExists(p) {
		return nil, fmt.Errorf("dataset not found at %s", p)
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", p, err)
	}
	defer f.Close()
	return ReadDataset(f)
}

// ReadDataset parses CSV dataset content from r.
func ReadDataset(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset header: %w", err)
	}
	labelIdx := -1
	var cols []string
	var colIdx []int
	for i, name := range header {
		switch {
		case name == labelColumn:
			labelIdx = i
		case droppedColumns[name]:
			// skip
		default:
			cols = append(cols, name)
			colIdx = append(colIdx, i)
		}
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("dataset missing label column %q", labelColumn)
	}
	ds := &Dataset{Columns: cols}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset line %d: %w", line, err)
		}
		row := make([]float64, len(colIdx))
		for j, idx := range colIdx {
			v, err := strconv.ParseFloat(rec[idx], 64)
			if err != nil {
				return nil, fmt.Errorf("dataset line %d column %s: %w", line, header[idx], err)
			}
			row[j] = v
		}
		label, err := strconv.Atoi(rec[labelIdx])
		if err != nil {
			return nil, fmt.Errorf("dataset line %d label: %w", line, err)
		}
		ds.Rows = append(ds.Rows, row)
		ds.Labels = append(ds.Labels, label)
	}
	if len(ds.Rows) == 0 {
		return nil, fmt.Errorf("dataset has no rows")
	}
	return ds, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// Score runs the scorer over every row, aligning dataset columns to the
// scorer's feature schema by name. Fails if the scorer needs a feature the
// dataset does not carry.
func (d *Dataset) Score(s *Scorer) ([]float64, error) {
	byName := make(map[string]int, len(d.Columns))
	for i, c := range d.Columns {
		byName[c] = i
	}
	idx := make([]int, len(s.Features))
	for i, name := range s.Features {
		j, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("dataset missing feature %q", name)
		}
		idx[i] = j
	}
	out := make([]float64, len(d.Rows))
	row := make([]float64, len(idx))
	for i, r := range d.Rows {
		for k, j := range idx {
			row[k] = r[j]
		}
		out[i] = s.PredictRow(row)
	}
	return out, nil
}
