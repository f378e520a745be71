// Package parquetenc serializes state-vector batches into in-memory Parquet
// files ready for object storage upload.
package parquetenc

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/flightwatch/internal/model"
)

// Encode writes all state vectors in batch as a single Parquet file and
// returns its bytes. An empty batch still yields a valid, zero-row file.
func Encode(batch model.StateVectorBatch) ([]byte, error) {
	rows := make([]model.StateRow, 0, len(batch.States))
	for i := range batch.States {
		rows = append(rows, model.ToStateRow(&batch.States[i]))
	}

	var buf bytes.Buffer
	writer := parquet.NewGenericWriter[model.StateRow](&buf)

	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			return nil, fmt.Errorf("write rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}

	return buf.Bytes(), nil
}
