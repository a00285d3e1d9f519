package utils

import (
	"fmt"
	"time"

	"github.com/benmeehan/iot-track/internal/constants"
	"github.com/benmeehan/iot-track/pkg/file"
)

// Config represents the structure of the configuration file.
type Config struct {
	MQTT struct {
		Broker         string        `yaml:"broker"`          // MQTT broker address
		ClientID       string        `yaml:"client_id"`       // MQTT client ID prefix
		CACertificate  string        `yaml:"ca_certificate"`  // Path to the CA certificate, empty disables TLS
		ConnectTimeout time.Duration `yaml:"connect_timeout"` // Time to wait for the broker to accept the connection
	} `yaml:"mqtt"`

	Identity struct {
		DeviceFile string `yaml:"device_file"` // Path to the device identity file
		DeviceID   string `yaml:"device_id"`   // Used when the identity file is absent
	} `yaml:"identity"`

	Services struct {
		Recorder struct {
			Enabled           bool          `yaml:"enabled"`         // Enable/disable location recording
			Interval          time.Duration `yaml:"interval"`        // Interval between location samples
			SensorBased       bool          `yaml:"sensor_based"`    // Use the GPS sensor instead of the geolocation api
			MapsAPIKey        string        `yaml:"maps_api_key"`    // Google maps API Key
			ModemIndex        int           `yaml:"modem_index"`     // ModemManager index used for cell lookups
			GPSDeviceBaudRate int           `yaml:"gps_baud_rate"`   // The Baud rate for GPS sensor
			GPSDevicePort     string        `yaml:"gps_device_port"` // UNIX Port where the GPS sensor is mounted
			ReplayFile        string        `yaml:"replay_file"`     // NMEA log loaded into the track at startup
		} `yaml:"recorder"`

		PathQuery struct {
			Enabled   bool   `yaml:"enabled"`    // Enable/disable the path query service
			Topic     string `yaml:"topic"`      // MQTT topic prefix for path requests
			QOS       int    `yaml:"qos"`        // MQTT QoS level for path messages
			Workers   int    `yaml:"workers"`    // Concurrent path extractions
			MaxPoints int    `yaml:"max_points"` // Samples kept per device, 0 keeps all
		} `yaml:"path_query"`
	} `yaml:"services"`

	Logging struct {
		Level  string `yaml:"level"`  // zerolog level name
		Pretty bool   `yaml:"pretty"` // Console output instead of JSON
	} `yaml:"logging"`
}

// LoadConfig loads the YAML configuration from the specified file and validates it.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	var config Config
	if err := fileClient.ReadYamlFile(filename, &config); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate fills defaults and rejects values the agent cannot run with.
func (c *Config) Validate() error {
	if c.MQTT.ConnectTimeout <= 0 {
		c.MQTT.ConnectTimeout = constants.DefaultConnectTimeout
	}

	rec := &c.Services.Recorder
	if rec.Interval <= 0 {
		rec.Interval = constants.DefaultRecorderInterval
	}
	if rec.Enabled && rec.SensorBased && rec.GPSDevicePort == "" {
		return fmt.Errorf("recorder: gps_device_port is required when sensor_based is set")
	}
	if rec.Enabled && !rec.SensorBased && rec.MapsAPIKey == "" {
		return fmt.Errorf("recorder: maps_api_key is required when sensor_based is unset")
	}

	pq := &c.Services.PathQuery
	if pq.Topic == "" {
		pq.Topic = constants.DefaultPathTopic
	}
	if pq.Workers <= 0 {
		pq.Workers = constants.DefaultQueryWorkers
	}
	if pq.QOS < 0 || pq.QOS > 2 {
		return fmt.Errorf("path_query: qos must be 0, 1 or 2, got %d", pq.QOS)
	}
	if pq.MaxPoints < 0 {
		return fmt.Errorf("path_query: max_points must not be negative, got %d", pq.MaxPoints)
	}
	if pq.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt: broker is required when path_query is enabled")
	}

	return nil
}
