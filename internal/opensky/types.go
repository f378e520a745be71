package opensky

import (
	"fmt"
	"strings"
	"time"

	"github.com/gyeh/flightwatch/internal/model"
)

// statesResponse is the raw /states/all payload. Each state vector arrives
// as a positional JSON array with mixed types and nulls, not an object.
type statesResponse struct {
	Time   int64   `json:"time"`
	States [][]any `json:"states"`
}

// Positional indexes into a raw state vector, per the OpenSky API docs.
const (
	idxICAO24 = iota
	idxCallsign
	idxOriginCountry
	idxTimePosition
	idxLastContact
	idxLongitude
	idxLatitude
	idxBaroAltitude
	idxOnGround
	idxVelocity
	idxTrueTrack
	idxVerticalRate

	minStateFields = idxVerticalRate + 1
)

func (r *statesResponse) toBatch() (model.StateVectorBatch, error) {
	batch := model.StateVectorBatch{
		Time:   time.Unix(r.Time, 0).UTC(),
		States: make([]model.StateVector, 0, len(r.States)),
	}

	for i, raw := range r.States {
		if len(raw) < minStateFields {
			return model.StateVectorBatch{}, fmt.Errorf("state vector %d has %d fields, want at least %d", i, len(raw), minStateFields)
		}
		icao, ok := raw[idxICAO24].(string)
		if !ok {
			return model.StateVectorBatch{}, fmt.Errorf("state vector %d: icao24 is not a string", i)
		}

		sv := model.StateVector{
			ICAO24:        icao,
			Callsign:      strAt(raw, idxCallsign),
			OriginCountry: strOr(raw, idxOriginCountry),
			Longitude:     floatAt(raw, idxLongitude),
			Latitude:      floatAt(raw, idxLatitude),
			BaroAltitude:  floatAt(raw, idxBaroAltitude),
			Velocity:      floatAt(raw, idxVelocity),
			TrueTrack:     floatAt(raw, idxTrueTrack),
			VerticalRate:  floatAt(raw, idxVerticalRate),
			OnGround:      boolAt(raw, idxOnGround),
			CaptureTime:   batch.Time,
		}
		batch.States = append(batch.States, sv)
	}

	return batch, nil
}

// strAt returns the trimmed string at i, or nil for null/blank values.
// Callsigns are space-padded to 8 characters by the API.
func strAt(raw []any, i int) *string {
	s, ok := raw[i].(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func strOr(raw []any, i int) string {
	if s, ok := raw[i].(string); ok {
		return s
	}
	return ""
}

// floatAt returns the float at i, or nil when the field is null.
func floatAt(raw []any, i int) *float64 {
	f, ok := raw[i].(float64)
	if !ok {
		return nil
	}
	return &f
}

func boolAt(raw []any, i int) bool {
	b, ok := raw[i].(bool)
	return ok && b
}
