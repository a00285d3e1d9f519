package models

import (
	"time"

	"github.com/benmeehan/iot-track/pkg/telemetry"
)

// PathRequest asks for the recorded samples with timestamps in [From, To].
type PathRequest struct {
	RequestID string `json:"request_id,omitempty"`
	From      uint64 `json:"from"`
	To        uint64 `json:"to"`
}

// PathResponse carries the extracted part of a device path, newest sample first.
type PathResponse struct {
	RequestID string         `json:"request_id"`
	DeviceID  string         `json:"device_id"`
	Timestamp time.Time      `json:"timestamp"`
	Found     bool           `json:"found"`
	Count     int            `json:"count"`
	Points    telemetry.List `json:"points"`
	Error     string         `json:"error,omitempty"`
}
