package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"covid-visualizer/models"
)

// ExportDateLayout matches the input date format so an export can be read
// back by the ingestor.
const ExportDateLayout = "2006-01-02"

// CSVWriter writes the observations of one region to a CSV file in the same
// column layout as the input dataset. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "state", "cases", "deaths"}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{path: path, file: f, writer: w}, nil
}

// Path returns the file being written.
func (c *CSVWriter) Path() string {
	return c.path
}

// WriteStore appends every observation in store.
func (c *CSVWriter) WriteStore(store *models.RecordStore) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, o := range store.Observations {
		row := []string{
			o.Date.Format(ExportDateLayout),
			store.Region,
			strconv.Itoa(o.Cases),
			strconv.Itoa(o.Deaths),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
