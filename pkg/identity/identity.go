package identity

import (
	"errors"
	"os"

	"github.com/benmeehan/iot-track/pkg/file"
)

// ErrNoDeviceID is returned when the identity file carries no device ID.
var ErrNoDeviceID = errors.New("device identity has no device_id")

// Identity holds the device's unique identifier.
type Identity struct {
	ID   string `json:"device_id,omitempty"`
	Name string `json:"device_name,omitempty"`
}

// DeviceInfoInterface defines methods for reading device identity.
type DeviceInfoInterface interface {
	LoadDeviceInfo() error
	GetDeviceID() string
}

// DeviceInfo reads the device identity from a JSON file.
type DeviceInfo struct {
	DeviceInfoFile string
	Identity       Identity
	fallbackID     string
	fileOps        file.FileOperations
}

// NewDeviceInfo initializes a new DeviceInfo instance. fallbackID is used when
// the identity file does not exist.
func NewDeviceInfo(filePath, fallbackID string, fileOps file.FileOperations) *DeviceInfo {
	return &DeviceInfo{
		DeviceInfoFile: filePath,
		fallbackID:     fallbackID,
		fileOps:        fileOps,
	}
}

// LoadDeviceInfo reads the device information from the file and populates the Identity field.
func (d *DeviceInfo) LoadDeviceInfo() error {
	err := d.fileOps.ReadJsonFile(d.DeviceInfoFile, &d.Identity)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		d.Identity = Identity{ID: d.fallbackID}
	}

	if d.Identity.ID == "" {
		return ErrNoDeviceID
	}
	return nil
}

// GetDeviceID returns the current device ID.
func (d *DeviceInfo) GetDeviceID() string {
	return d.Identity.ID
}
