package parquetread

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// requiredColumns are the columns every state-vector file carries; files
// missing any of them were not written by this service.
var requiredColumns = []string{"icao24", "origin_country", "on_ground", "capture_time"}

// ValidateSchema checks that the Parquet schema matches the state-vector
// layout.
func ValidateSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	for _, col := range requiredColumns {
		if !columns[col] {
			return fmt.Errorf("missing required column: %s", col)
		}
	}
	return nil
}
