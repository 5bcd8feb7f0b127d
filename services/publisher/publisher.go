package publisher

// AnomalyAlertKey is the stream field anomaly alerts are published under
const AnomalyAlertKey = "anomaly_alert"

// Publisher publishes messages for downstream consumers
type Publisher interface {
	// Publish publishes a message under key to one of the streams
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
