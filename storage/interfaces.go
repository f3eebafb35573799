package storage

import (
	"context"

	"covid-visualizer/models"
)

// RowSource is the interface any input backend must satisfy. It hands back
// the raw header and rows; interpretation happens in the ingestor.
type RowSource interface {
	ReadTable(ctx context.Context) (*models.RawTable, error)
	Close() error
}
