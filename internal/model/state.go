package model

import "time"

// Region is a geographic bounding box in WGS84 degrees, used to limit the
// state-vector fetch to a service area.
type Region struct {
	LatMin float64 `yaml:"lamin"`
	LonMin float64 `yaml:"lomin"`
	LatMax float64 `yaml:"lamax"`
	LonMax float64 `yaml:"lomax"`
}

// Validate checks that the box is well-formed and within coordinate bounds.
func (r Region) Validate() error {
	switch {
	case r.LatMin < -90 || r.LatMax > 90:
		return errRegion("latitude out of range [-90, 90]")
	case r.LonMin < -180 || r.LonMax > 180:
		return errRegion("longitude out of range [-180, 180]")
	case r.LatMin >= r.LatMax:
		return errRegion("lamin must be less than lamax")
	case r.LonMin >= r.LonMax:
		return errRegion("lomin must be less than lomax")
	}
	return nil
}

type errRegion string

func (e errRegion) Error() string { return "invalid bounding region: " + string(e) }

// StateVector is one aircraft snapshot from the upstream API. Position and
// velocity fields are nil when the transponder did not report them.
type StateVector struct {
	ICAO24        string
	Callsign      *string
	OriginCountry string
	Longitude     *float64
	Latitude      *float64
	BaroAltitude  *float64
	Velocity      *float64
	TrueTrack     *float64
	VerticalRate  *float64
	OnGround      bool
	CaptureTime   time.Time
}

// StateVectorBatch is the payload of one fetch: the snapshot time reported by
// the API and all state vectors inside the requested region. It is consumed
// immediately by the storage writer and never persisted by this service.
type StateVectorBatch struct {
	Time   time.Time
	States []StateVector
}
