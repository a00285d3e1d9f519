package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/benmeehan/iot-track/internal/store"
	"github.com/benmeehan/iot-track/pkg/identity"
	"github.com/benmeehan/iot-track/pkg/location"
	"github.com/benmeehan/iot-track/pkg/telemetry"
)

// RecorderService samples the device location periodically and prepends each
// fix to the device's path in the track store.
type RecorderService struct {
	// Configuration fields
	interval time.Duration

	// Dependencies
	deviceInfo       identity.DeviceInfoInterface
	locationProvider location.Provider
	store            *store.TrackStore
	logger           zerolog.Logger
	now              func() time.Time

	// Internal state management
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRecorderService creates a new RecorderService instance with the provided configuration.
func NewRecorderService(interval time.Duration, deviceInfo identity.DeviceInfoInterface,
	locationProvider location.Provider, trackStore *store.TrackStore, logger zerolog.Logger) *RecorderService {
	return &RecorderService{
		interval:         interval,
		deviceInfo:       deviceInfo,
		locationProvider: locationProvider,
		store:            trackStore,
		logger:           logger,
		now:              time.Now,
	}
}

// Start launches the sampling loop in a separate goroutine.
func (r *RecorderService) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx != nil {
		r.logger.Warn().Msg("RecorderService is already running")
		return errors.New("recorder service is already running")
	}

	r.ctx, r.cancel = context.WithCancel(context.Background())

	r.wg.Add(1)
	go func(ctx context.Context) {
		defer r.wg.Done()
		r.runRecordLoop(ctx)
	}(r.ctx)

	r.logger.Info().
		Dur("interval", r.interval).
		Str("device_id", r.deviceInfo.GetDeviceID()).
		Msg("RecorderService started")
	return nil
}

// Stop gracefully stops the RecorderService and closes the location provider.
func (r *RecorderService) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx == nil {
		r.logger.Warn().Msg("RecorderService is not running")
		return errors.New("recorder service is not running")
	}

	r.cancel()
	r.wg.Wait()
	r.ctx = nil
	r.cancel = nil

	if err := r.locationProvider.Close(); err != nil {
		r.logger.Error().Err(err).Msg("Failed to close location provider")
		return err
	}

	r.logger.Info().Msg("RecorderService stopped")
	return nil
}

func (r *RecorderService) runRecordLoop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.RecordCurrentLocation(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error().Err(err).Msg("Failed to record current location")
			}
		case <-ctx.Done():
			r.logger.Info().Msg("RecorderService is stopping")
			return
		}
	}
}

// RecordCurrentLocation takes one fix from the provider and records it.
func (r *RecorderService) RecordCurrentLocation(ctx context.Context) error {
	loc, err := r.locationProvider.GetLocation(ctx)
	if err != nil {
		return err
	}

	ts := r.now().Unix()
	if ts < 0 {
		return errors.New("clock is before the Unix epoch")
	}

	deviceID := r.deviceInfo.GetDeviceID()
	r.store.Record(deviceID, telemetry.NewTelemetry(loc.Point(), uint64(ts)))

	r.logger.Debug().
		Str("device_id", deviceID).
		Float64("lat", loc.Latitude).
		Float64("lon", loc.Longitude).
		Float64("accuracy", loc.Accuracy).
		Int64("ts", ts).
		Msg("Location recorded")
	return nil
}
