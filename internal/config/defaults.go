package config

import "time"

const defaultPort = 8080

var defaultAPI = API{
	BaseURL: "http://localhost:3000",
	Timeout: 5 * time.Second,
}

var defaultRetry = Retry{
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultNotify = Notify{
	PollInterval:  3 * time.Second,
	DispatchDelay: 3 * time.Second,
	BufferSize:    8,
}

var defaultKafka = Kafka{
	GroupID: "courier-agent",
	Topic:   "push-notifications",
}

// DefaultPort returns the default port.
func DefaultPort() int { return defaultPort }

// DefaultAPI returns the default backend client settings.
func DefaultAPI() API { return defaultAPI }

// DefaultRetry returns the default retrying gateway settings.
func DefaultRetry() Retry { return defaultRetry }

// DefaultNotify returns the default notification pipeline settings.
func DefaultNotify() Notify { return defaultNotify }

// DefaultKafka returns the default inbound push consumer settings.
func DefaultKafka() Kafka { return defaultKafka }
