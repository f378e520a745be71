package model

// StateRow mirrors the Parquet schema for a single state vector. Nullable
// API fields map to optional columns; capture_time is unix seconds so the
// column stays a plain INT64 readable by any downstream engine.
type StateRow struct {
	ICAO24        string   `parquet:"icao24"`
	Callsign      *string  `parquet:"callsign,optional"`
	OriginCountry string   `parquet:"origin_country"`
	Longitude     *float64 `parquet:"longitude,optional"`
	Latitude      *float64 `parquet:"latitude,optional"`
	BaroAltitude  *float64 `parquet:"baro_altitude,optional"`
	Velocity      *float64 `parquet:"velocity,optional"`
	TrueTrack     *float64 `parquet:"true_track,optional"`
	VerticalRate  *float64 `parquet:"vertical_rate,optional"`
	OnGround      bool     `parquet:"on_ground"`
	CaptureTime   int64    `parquet:"capture_time"`
}

// ToStateRow converts a fetched StateVector into its Parquet representation.
func ToStateRow(v *StateVector) StateRow {
	return StateRow{
		ICAO24:        v.ICAO24,
		Callsign:      v.Callsign,
		OriginCountry: v.OriginCountry,
		Longitude:     v.Longitude,
		Latitude:      v.Latitude,
		BaroAltitude:  v.BaroAltitude,
		Velocity:      v.Velocity,
		TrueTrack:     v.TrueTrack,
		VerticalRate:  v.VerticalRate,
		OnGround:      v.OnGround,
		CaptureTime:   v.CaptureTime.Unix(),
	}
}
