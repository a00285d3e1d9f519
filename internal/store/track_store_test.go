package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/iot-track/pkg/telemetry"
)

func sample(ts uint64) telemetry.Telemetry {
	return telemetry.NewTelemetry(telemetry.NewPoint(float64(ts)/10, 0), ts)
}

func TestTrackStore_RecordBuildsNewestFirst(t *testing.T) {
	// Setup
	s := NewTrackStore(0, zerolog.Nop())

	// Execute
	for ts := uint64(100); ts <= 1000; ts += 100 {
		s.Record("dev-1", sample(ts))
	}

	// Assert
	path := s.Path("dev-1")
	require.NotNil(t, path)
	assert.Equal(t, 10, path.Len())
	assert.Equal(t, uint64(1000), path.Value().TimeStamp)

	part := s.Part("dev-1", 350, 750)
	require.NotNil(t, part)
	var got []uint64
	for _, v := range part.Values() {
		got = append(got, v.TimeStamp)
	}
	assert.Equal(t, []uint64{700, 600, 500, 400}, got)
}

func TestTrackStore_UnknownDevice(t *testing.T) {
	s := NewTrackStore(0, zerolog.Nop())

	assert.Nil(t, s.Path("missing"))
	assert.Nil(t, s.Part("missing", 0, 100))
	assert.Empty(t, s.Devices())
}

func TestTrackStore_SnapshotUnaffectedByLaterRecords(t *testing.T) {
	s := NewTrackStore(0, zerolog.Nop())
	s.Record("dev-1", sample(1))
	s.Record("dev-1", sample(2))

	snapshot := s.Path("dev-1")
	s.Record("dev-1", sample(3))

	assert.Equal(t, 2, snapshot.Len())
	assert.Equal(t, 3, s.Path("dev-1").Len())
}

func TestTrackStore_MaxPointsKeepsNewest(t *testing.T) {
	s := NewTrackStore(3, zerolog.Nop())
	for ts := uint64(1); ts <= 5; ts++ {
		s.Record("dev-1", sample(ts))
	}

	path := s.Path("dev-1")
	assert.Equal(t, 3, path.Len())
	assert.Equal(t, []telemetry.Telemetry{sample(5), sample(4), sample(3)}, path.Values())

	s.Load("dev-2", telemetry.NewList(sample(9), sample(8), sample(7), sample(6)))
	assert.Equal(t, 3, s.Path("dev-2").Len())
	assert.Equal(t, []string{"dev-1", "dev-2"}, s.Devices())
}

func TestTrackStore_ConcurrentRecord(t *testing.T) {
	s := NewTrackStore(0, zerolog.Nop())

	var wg sync.WaitGroup
	for d := 0; d < 4; d++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for ts := uint64(1); ts <= 50; ts++ {
				s.Record(id, sample(ts))
				_ = s.Part(id, 10, 20)
			}
		}(fmt.Sprintf("dev-%d", d))
	}
	wg.Wait()

	for _, id := range s.Devices() {
		assert.Equal(t, 50, s.Path(id).Len())
		assert.Equal(t, 11, s.Part(id, 10, 20).Len())
	}
}
