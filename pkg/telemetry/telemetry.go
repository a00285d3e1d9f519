package telemetry

// Point represents a geographic coordinate.
type Point struct {
	Latitude  float64
	Longitude float64
}

// NewPoint creates a Point from a latitude and longitude.
func NewPoint(latitude, longitude float64) Point {
	return Point{
		Latitude:  latitude,
		Longitude: longitude,
	}
}

// Telemetry is a single geolocated, timestamped sample.
type Telemetry struct {
	Point     Point
	TimeStamp uint64
}

// NewTelemetry pairs a point with a timestamp.
func NewTelemetry(point Point, timeStamp uint64) Telemetry {
	return Telemetry{
		Point:     point,
		TimeStamp: timeStamp,
	}
}

// TimeRange matches timestamps in the closed interval [From, To].
type TimeRange struct {
	From uint64
	To   uint64
}

// NewTimeRange creates a new inclusive time range.
func NewTimeRange(from, to uint64) TimeRange {
	return TimeRange{From: from, To: to}
}

// Match returns true if ts lies within [From, To]. A range with From > To matches nothing.
func (r TimeRange) Match(ts uint64) bool {
	return ts >= r.From && ts <= r.To
}
