package store

import (
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"

	"github.com/benmeehan/iot-track/pkg/telemetry"
)

// TrackStore keeps the recorded path of every device, newest sample at the head.
// Paths are immutable, so a head returned by Path stays valid while new samples
// are prepended.
type TrackStore struct {
	paths     cmap.ConcurrentMap[string, *telemetry.ListNode]
	maxPoints int
	logger    zerolog.Logger
}

// NewTrackStore creates a store. maxPoints <= 0 keeps every sample.
func NewTrackStore(maxPoints int, logger zerolog.Logger) *TrackStore {
	return &TrackStore{
		paths:     cmap.New[*telemetry.ListNode](),
		maxPoints: maxPoints,
		logger:    logger,
	}
}

// Record prepends a sample to the device's path.
func (s *TrackStore) Record(deviceID string, sample telemetry.Telemetry) {
	s.paths.Upsert(deviceID, telemetry.NewListNode(sample), func(exist bool, head, leaf *telemetry.ListNode) *telemetry.ListNode {
		if !exist {
			return leaf
		}
		return s.capped(leaf.WithNext(head))
	})
}

// Load replaces the device's path, e.g. with a replayed NMEA log.
func (s *TrackStore) Load(deviceID string, head *telemetry.ListNode) {
	head = s.capped(head)
	s.paths.Set(deviceID, head)
	s.logger.Info().
		Str("device_id", deviceID).
		Int("points", head.Len()).
		Msg("Track loaded")
}

// Path returns the device's current path, or nil if nothing was recorded.
func (s *TrackStore) Path(deviceID string) *telemetry.ListNode {
	head, _ := s.paths.Get(deviceID)
	return head
}

// Part returns the samples of the device's path with timestamps in [from, to],
// in path order, or nil if none qualify.
func (s *TrackStore) Part(deviceID string, from, to uint64) *telemetry.ListNode {
	return s.Path(deviceID).GetPart(from, to)
}

// Devices returns the known device IDs in sorted order.
func (s *TrackStore) Devices() []string {
	keys := s.paths.Keys()
	sort.Strings(keys)
	return keys
}

// capped keeps at most maxPoints samples from the head.
func (s *TrackStore) capped(head *telemetry.ListNode) *telemetry.ListNode {
	if s.maxPoints <= 0 || head.Len() <= s.maxPoints {
		return head
	}
	return telemetry.NewList(head.Values()[:s.maxPoints]...)
}
