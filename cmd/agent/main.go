package main

import (
	"bytes"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/benmeehan/iot-track/internal/constants"
	"github.com/benmeehan/iot-track/internal/service_registry"
	"github.com/benmeehan/iot-track/internal/store"
	"github.com/benmeehan/iot-track/internal/utils"
	"github.com/benmeehan/iot-track/pkg/file"
	"github.com/benmeehan/iot-track/pkg/identity"
	"github.com/benmeehan/iot-track/pkg/location"
	"github.com/benmeehan/iot-track/pkg/mqtt"
)

func main() {
	configPath := flag.String("config", constants.DefaultConfigFile, "path to the agent configuration file")
	flag.Parse()

	// Bootstrap logger until the configured one is available
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	fileClient := file.NewFileService()

	config, err := utils.LoadConfig(*configPath, fileClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	configured, err := utils.NewLogger(config.Logging.Level, config.Logging.Pretty)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid logging configuration")
	}
	log = configured

	deviceInfo := identity.NewDeviceInfo(config.Identity.DeviceFile, config.Identity.DeviceID, fileClient)
	if err := deviceInfo.LoadDeviceInfo(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load device information")
	}
	log.Info().Str("device_id", deviceInfo.GetDeviceID()).Msg("Device identity loaded")

	trackStore := store.NewTrackStore(config.Services.PathQuery.MaxPoints, log)

	if replay := config.Services.Recorder.ReplayFile; replay != "" {
		if err := replayTrack(replay, deviceInfo.GetDeviceID(), fileClient, trackStore, log); err != nil {
			log.Fatal().Err(err).Str("file", replay).Msg("Failed to replay NMEA track")
		}
	}

	// Unique client ID per agent process
	config.MQTT.ClientID = config.MQTT.ClientID + "-" + uuid.New().String()
	log.Info().Str("client_id", config.MQTT.ClientID).Msg("Using MQTT Client ID")

	mqttClient := mqtt.NewMqttService(fileClient)
	if config.Services.PathQuery.Enabled {
		err = mqttClient.Initialize(config.MQTT.Broker, config.MQTT.ClientID, config.MQTT.CACertificate, config.MQTT.ConnectTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize MQTT connection")
		}
		defer mqttClient.Disconnect(250)
	}

	serviceRegistry := service_registry.NewServiceRegistry(mqttClient, trackStore, log)
	if err := serviceRegistry.RegisterServices(config, deviceInfo); err != nil {
		log.Fatal().Err(err).Msg("Failed to register services")
	}

	if err := serviceRegistry.StartServices(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start services")
	}
	log.Info().Msg("All services started successfully")

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down gracefully...")
	if err := serviceRegistry.StopServices(); err != nil {
		log.Error().Err(err).Msg("Some services failed to stop")
	}
}

// replayTrack seeds the device path from a recorded NMEA log.
func replayTrack(path, deviceID string, fileClient file.FileOperations, trackStore *store.TrackStore, log zerolog.Logger) error {
	raw, err := fileClient.ReadFileRaw(path)
	if err != nil {
		return err
	}

	head, summary, err := location.ReadTrack(bytes.NewReader(raw))
	if err != nil {
		return err
	}

	log.Info().
		Int("fixes", summary.Fixes).
		Int("no_fix", summary.NoFix).
		Int("malformed", summary.Malformed).
		Msg("NMEA track replayed")

	if head != nil {
		trackStore.Load(deviceID, head)
	}
	return nil
}
