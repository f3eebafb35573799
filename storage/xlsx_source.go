package storage

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"covid-visualizer/models"
)

// XLSXSource reads the first worksheet of an Excel workbook. The first row is
// the header, the same layout as the CSV export.
type XLSXSource struct {
	path string
	file *excelize.File
}

// NewXLSXSource opens the workbook at path.
func NewXLSXSource(path string) (*XLSXSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %q: %w", path, err)
	}
	return &XLSXSource{path: path, file: f}, nil
}

func (x *XLSXSource) ReadTable(ctx context.Context) (*models.RawTable, error) {
	sheets := x.file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx: %q has no sheets", x.path)
	}

	rows, err := x.file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx: read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	table := &models.RawTable{Header: rows[0]}
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Blank spreadsheet rows come back empty; CSV readers skip them too.
		if len(row) == 0 {
			continue
		}
		table.Rows = append(table.Rows, models.RawRow{Line: i + 2, Fields: row})
	}
	return table, nil
}

func (x *XLSXSource) Close() error {
	return x.file.Close()
}
