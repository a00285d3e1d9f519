package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/benmeehan/iot-track/internal/constants"
	"github.com/benmeehan/iot-track/internal/models"
	"github.com/benmeehan/iot-track/internal/store"
	"github.com/benmeehan/iot-track/internal/utils"
	"github.com/benmeehan/iot-track/pkg/identity"
	"github.com/benmeehan/iot-track/pkg/mqtt"
	"github.com/benmeehan/iot-track/pkg/telemetry"
)

// PathQueryService answers time range requests received over MQTT with the
// matching part of the device's recorded path.
type PathQueryService struct {
	// Configuration Fields
	subTopic       string
	qos            int
	workers        int
	publishTimeout time.Duration

	// Dependencies
	mqttClient mqtt.MQTTClient
	deviceInfo identity.DeviceInfoInterface
	store      *store.TrackStore
	logger     zerolog.Logger
	now        func() time.Time

	// Internal state management
	mu   sync.Mutex
	pool *utils.WorkerPool
}

// NewPathQueryService initializes a new PathQueryService with given parameters.
func NewPathQueryService(subTopic string, qos, workers int, mqttClient mqtt.MQTTClient,
	deviceInfo identity.DeviceInfoInterface, trackStore *store.TrackStore, logger zerolog.Logger) *PathQueryService {
	if workers <= 0 {
		workers = constants.DefaultQueryWorkers
	}

	return &PathQueryService{
		subTopic:       subTopic,
		qos:            qos,
		workers:        workers,
		publishTimeout: constants.DefaultPublishTimeout,
		mqttClient:     mqttClient,
		deviceInfo:     deviceInfo,
		store:          trackStore,
		logger:         logger,
		now:            time.Now,
	}
}

func (ps *PathQueryService) requestTopic() string {
	return ps.subTopic + "/" + ps.deviceInfo.GetDeviceID()
}

func (ps *PathQueryService) responseTopic() string {
	return ps.requestTopic() + "/response"
}

// Start subscribes to the request topic and starts the extraction workers.
func (ps *PathQueryService) Start() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.pool != nil {
		ps.logger.Warn().Msg("PathQueryService is already running")
		return errors.New("path query service is already running")
	}

	topic := ps.requestTopic()
	ps.pool = utils.NewWorkerPool(ps.workers)

	token := ps.mqttClient.Subscribe(topic, byte(ps.qos), ps.HandleRequest)
	token.Wait()
	if err := token.Error(); err != nil {
		ps.pool.Shutdown()
		ps.pool = nil
		ps.logger.Error().Err(err).Str("topic", topic).Msg("Failed to subscribe to MQTT topic")
		return err
	}

	ps.logger.Info().Str("topic", topic).Int("workers", ps.workers).Msg("PathQueryService started")
	return nil
}

// Stop unsubscribes and waits for in-flight requests to be answered.
func (ps *PathQueryService) Stop() error {
	ps.mu.Lock()
	pool := ps.pool
	ps.pool = nil
	ps.mu.Unlock()

	if pool == nil {
		ps.logger.Warn().Msg("PathQueryService is not running")
		return errors.New("path query service is not running")
	}

	topic := ps.requestTopic()
	token := ps.mqttClient.Unsubscribe(topic)
	token.Wait()
	unsubErr := token.Error()

	pool.Shutdown()

	if unsubErr != nil {
		ps.logger.Error().Err(unsubErr).Str("topic", topic).Msg("Failed to unsubscribe from MQTT topic")
		return unsubErr
	}

	ps.logger.Info().Msg("PathQueryService stopped")
	return nil
}

// HandleRequest decodes a path request and queues its extraction.
func (ps *PathQueryService) HandleRequest(_ MQTT.Client, msg MQTT.Message) {
	ps.mu.Lock()
	pool := ps.pool
	ps.mu.Unlock()

	if pool == nil {
		ps.logger.Warn().Str("topic", msg.Topic()).Msg("Received path request but service is stopped, ignoring")
		return
	}

	var req models.PathRequest
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		ps.logger.Error().Err(err).Str("topic", msg.Topic()).Msg("Failed to decode path request")
		resp := ps.newResponse(uuid.NewString())
		resp.Error = fmt.Sprintf("%s: %v", constants.ErrMsgInvalidRequest, err)
		if err := ps.publish(resp); err != nil {
			ps.logger.Error().Err(err).Msg("Failed to publish path error response")
		}
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	submitted := pool.Submit(func() {
		if err := ps.publish(ps.Query(req)); err != nil {
			ps.logger.Error().Err(err).Str("request_id", req.RequestID).Msg("Failed to publish path response")
		}
	})
	if !submitted {
		ps.logger.Warn().Str("request_id", req.RequestID).Msg("Path request dropped, service is stopping")
	}
}

// Query extracts the part of the device path requested by req.
func (ps *PathQueryService) Query(req models.PathRequest) models.PathResponse {
	resp := ps.newResponse(req.RequestID)

	part := ps.store.Part(resp.DeviceID, req.From, req.To)
	resp.Points = telemetry.ToList(part)
	resp.Count = len(resp.Points)
	resp.Found = part != nil

	ps.logger.Debug().
		Str("request_id", req.RequestID).
		Uint64("from", req.From).
		Uint64("to", req.To).
		Int("count", resp.Count).
		Interface("path", resp.Points).
		Msg("Path extracted")
	return resp
}

func (ps *PathQueryService) newResponse(requestID string) models.PathResponse {
	return models.PathResponse{
		RequestID: requestID,
		DeviceID:  ps.deviceInfo.GetDeviceID(),
		Timestamp: ps.now().UTC(),
		Points:    telemetry.List{},
	}
}

func (ps *PathQueryService) publish(resp models.PathResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to serialize path response: %w", err)
	}

	topic := ps.responseTopic()
	token := ps.mqttClient.Publish(topic, byte(ps.qos), false, payload)
	if !token.WaitTimeout(ps.publishTimeout) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	if err := token.Error(); err != nil {
		return err
	}

	ps.logger.Info().
		Str("topic", topic).
		Str("request_id", resp.RequestID).
		Bool("found", resp.Found).
		Int("count", resp.Count).
		Msg("Path response published")
	return nil
}
