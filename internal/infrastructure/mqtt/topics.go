package mqtt

import "fmt"

// DefaultTopicPrefix is used when Topics has no prefix.
const DefaultTopicPrefix = "hearth"

// Topics builds Hearth MQTT topics under a configurable prefix.
//
//	topics := mqtt.NewTopics("hearth")
//	topics.DeviceState("4f1c...")  // "hearth/state/4f1c..."
//
// The zero value uses DefaultTopicPrefix.
type Topics struct {
	Prefix string
}

// NewTopics returns a builder for the given prefix.
func NewTopics(prefix string) Topics {
	return Topics{Prefix: prefix}
}

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return t.Prefix
}

// Alert returns the topic notifications are published on.
//
// Example: hearth/alert
func (t Topics) Alert() string {
	return fmt.Sprintf("%s/alert", t.prefix())
}

// DeviceState returns the retained state topic for one device.
//
// Example: hearth/state/4f1c2d7e-...
func (t Topics) DeviceState(deviceID string) string {
	return fmt.Sprintf("%s/state/%s", t.prefix(), deviceID)
}

// SystemStatus returns the online/offline status topic. It carries the LWT.
//
// Example: hearth/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.prefix())
}
