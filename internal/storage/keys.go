package storage

import (
	"fmt"
	"time"
)

// ObjectKey describes where one batch lands in the bucket. Keys are
// date-partitioned so downstream engines can prune by year/month/day.
type ObjectKey struct {
	Prefix    string
	Kind      string
	Timestamp time.Time
}

// String renders the full object key, e.g.
// raw/states/year=2026/month=08/day=30/20260830_120500.parquet
func (k ObjectKey) String() string {
	ts := k.Timestamp.UTC()
	return fmt.Sprintf("%s/%s/year=%04d/month=%02d/day=%02d/%s.parquet",
		k.Prefix, k.Kind,
		ts.Year(), int(ts.Month()), ts.Day(),
		ts.Format("20060102_150405"))
}
