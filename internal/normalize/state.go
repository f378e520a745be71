// Package normalize cleans fetched state vectors before they are persisted.
// The upstream feed occasionally carries junk: malformed transponder
// addresses, coordinates outside WGS84 bounds, and duplicate aircraft
// within one snapshot.
package normalize

import (
	"strings"

	"github.com/gyeh/flightwatch/internal/model"
)

// CleanBatch returns a copy of batch with invalid vectors dropped and the
// rest normalized. The input batch is not modified.
func CleanBatch(batch model.StateVectorBatch) model.StateVectorBatch {
	out := model.StateVectorBatch{
		Time:   batch.Time,
		States: make([]model.StateVector, 0, len(batch.States)),
	}

	seen := make(map[string]bool, len(batch.States))
	for _, sv := range batch.States {
		icao, ok := NormalizeICAO24(sv.ICAO24)
		if !ok {
			continue
		}
		if seen[icao] {
			continue
		}
		seen[icao] = true

		sv.ICAO24 = icao
		sv.Longitude = boundedCoord(sv.Longitude, -180, 180)
		sv.Latitude = boundedCoord(sv.Latitude, -90, 90)
		out.States = append(out.States, sv)
	}
	return out
}

// NormalizeICAO24 lowercases a transponder address and reports whether it is
// a valid 6-digit hex identifier.
func NormalizeICAO24(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 6 {
		return "", false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", false
		}
	}
	return s, true
}

// boundedCoord nulls coordinates outside [min, max] instead of persisting
// impossible positions.
func boundedCoord(v *float64, min, max float64) *float64 {
	if v == nil || *v < min || *v > max {
		return nil
	}
	return v
}
