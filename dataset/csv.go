package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

var ErrMissingHeader = errors.New("csv has no header row")

// CSVOptions controls how a csv file is parsed into a Frame
type CSVOptions struct {
	// IndexColumn names a column holding observation labels. If empty, rows are labelled by
	// position.
	IndexColumn string `yaml:"index_column"`

	// Comma is the field delimiter. Defaults to ','.
	Comma rune `yaml:"-"`
}

// NewDefaultCSVOptions returns the default csv options
func NewDefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		Comma: ',',
	}
}

// ReadCSV parses a csv with a header row into a Frame. Empty cells and "NA" are read as NaN.
func ReadCSV(r io.Reader, opt *CSVOptions) (*Frame, error) {
	if opt == nil {
		opt = NewDefaultCSVOptions()
	}
	reader := csv.NewReader(r)
	if opt.Comma != 0 {
		reader.Comma = opt.Comma
	}
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read csv, %w", err)
	}
	if len(records) == 0 {
		return nil, ErrMissingHeader
	}
	header := records[0]
	rows := records[1:]
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	indexCol := -1
	names := make([]string, 0, len(header))
	for j, name := range header {
		name = strings.TrimSpace(name)
		if opt.IndexColumn != "" && name == opt.IndexColumn {
			indexCol = j
			continue
		}
		names = append(names, name)
	}
	if opt.IndexColumn != "" && indexCol < 0 {
		return nil, fmt.Errorf("index column %s, %w", opt.IndexColumn, ErrUnknownColumn)
	}

	var index []string
	if indexCol >= 0 {
		index = make([]string, len(rows))
	}
	cols := make([][]float64, len(names))
	for j := range cols {
		cols[j] = make([]float64, len(rows))
	}

	for i, row := range rows {
		c := 0
		for j, cell := range row {
			if j == indexCol {
				index[i] = strings.TrimSpace(cell)
				continue
			}
			val, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s, %w", i+1, names[c], err)
			}
			cols[c][i] = val
			c++
		}
	}

	f, err := New(index, names, cols)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded csv dataset", "rows", f.Len(), "columns", len(names))
	return f, nil
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "na", "nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}
