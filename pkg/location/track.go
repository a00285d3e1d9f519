package location

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/adrianmo/go-nmea"

	"github.com/benmeehan/iot-track/pkg/telemetry"
)

// TrackSummary describes what ReadTrack consumed.
type TrackSummary struct {
	Fixes     int // RMC sentences turned into samples
	NoFix     int // RMC sentences with a void status or missing date/time
	Malformed int // RMC sentences that failed to parse
}

// ReadTrack builds a path from an NMEA log. Every valid RMC sentence becomes a
// sample stamped with its UTC time in Unix seconds. Samples are prepended as they
// are read, so the returned head is the most recent fix. Other sentence types are
// ignored. A log without fixes yields a nil path and no error.
func ReadTrack(r io.Reader) (*telemetry.ListNode, TrackSummary, error) {
	var (
		head    *telemetry.ListNode
		summary TrackSummary
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "$") || !strings.Contains(line, "RMC,") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			summary.Malformed++
			continue
		}

		rmc, ok := sentence.(nmea.RMC)
		if !ok {
			continue
		}

		sample, ok := rmcTelemetry(rmc)
		if !ok {
			summary.NoFix++
			continue
		}

		head = telemetry.NewListNode(sample).WithNext(head)
		summary.Fixes++
	}

	if err := scanner.Err(); err != nil {
		return nil, summary, fmt.Errorf("failed to read NMEA track: %w", err)
	}

	return head, summary, nil
}

func rmcTelemetry(rmc nmea.RMC) (telemetry.Telemetry, bool) {
	if rmc.Validity != nmea.ValidRMC || !rmc.Date.Valid || !rmc.Time.Valid {
		return telemetry.Telemetry{}, false
	}

	ts := time.Date(
		2000+rmc.Date.YY, time.Month(rmc.Date.MM), rmc.Date.DD,
		rmc.Time.Hour, rmc.Time.Minute, rmc.Time.Second, rmc.Time.Millisecond*int(time.Millisecond),
		time.UTC,
	).Unix()
	if ts < 0 {
		return telemetry.Telemetry{}, false
	}

	return telemetry.NewTelemetry(telemetry.NewPoint(rmc.Latitude, rmc.Longitude), uint64(ts)), true
}
