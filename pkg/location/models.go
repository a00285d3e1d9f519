package location

import "github.com/benmeehan/iot-track/pkg/telemetry"

// Location represents the geographical coordinates of a device
type Location struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

// Point returns the coordinate part of the location.
func (l Location) Point() telemetry.Point {
	return telemetry.NewPoint(l.Latitude, l.Longitude)
}
