package constants

import "time"

const (
	DefaultRecorderInterval = 10 * time.Second
	DefaultQueryWorkers     = 4
	DefaultPathTopic        = "path"
	DefaultConnectTimeout   = 10 * time.Second
	DefaultPublishTimeout   = 5 * time.Second
	DefaultConfigFile       = "configs/config.yaml"
)

// Path query response errors
const (
	// ErrMsgInvalidRequest is reported when the request payload cannot be decoded
	ErrMsgInvalidRequest = "invalid path request"
)
