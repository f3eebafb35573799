package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"covid-visualizer/models"
)

// ErrEmptyInput is returned when a source has no header row.
var ErrEmptyInput = errors.New("storage: input has no header row")

// CSVSource reads a comma-delimited file with a header row.
type CSVSource struct {
	path string
	file *os.File
}

// OpenFile picks a source by file extension: .xlsx goes to XLSXSource,
// everything else is treated as CSV.
func OpenFile(path string) (RowSource, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return NewXLSXSource(path)
	}
	return NewCSVSource(path)
}

// NewCSVSource opens the file at path for reading.
func NewCSVSource(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	return &CSVSource{path: path, file: f}, nil
}

// ReadTable reads the whole file. Rows may have any number of fields; the
// ingestor decides what a short row means.
func (c *CSVSource) ReadTable(ctx context.Context) (*models.RawTable, error) {
	return readCSV(ctx, c.file)
}

func readCSV(ctx context.Context, src io.Reader) (*models.RawTable, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = false

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	table := &models.RawTable{Header: header}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}

		line, _ := r.FieldPos(0)
		table.Rows = append(table.Rows, models.RawRow{Line: line, Fields: record})
	}

	return table, nil
}

// Close closes the underlying file.
func (c *CSVSource) Close() error {
	return c.file.Close()
}
