package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/hearth-core/internal/device"
	"github.com/nerrad567/hearth-core/internal/infrastructure/mqtt"
)

// Publisher sends MQTT messages. *mqtt.Client satisfies it.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Logger defines the logging interface used by the Notifier.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// statePayload is the retained device state message.
type statePayload struct {
	*device.Device
	UpdatedAt time.Time `json:"updated_at"`
}

// Notifier logs notifications and publishes them.
type Notifier struct {
	repo   Repository
	pub    Publisher
	topics mqtt.Topics
	qos    byte
	logger Logger
	now    func() time.Time
}

// NewNotifier creates a notifier.
//
// Parameters:
//   - repo: Where notifications are stored (required)
//   - pub: MQTT publisher, or nil when MQTT is disabled
//   - topics: Topic builder carrying the configured prefix
//   - qos: QoS for published messages
func NewNotifier(repo Repository, pub Publisher, topics mqtt.Topics, qos byte) *Notifier {
	return &Notifier{
		repo:   repo,
		pub:    pub,
		topics: topics,
		qos:    qos,
		logger: noopLogger{},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetLogger sets the logger for the notifier.
func (n *Notifier) SetLogger(logger Logger) {
	if logger == nil {
		n.logger = noopLogger{}
		return
	}
	n.logger = logger
}

// Send records a notification and publishes it on the alert topic.
func (n *Notifier) Send(ctx context.Context, level Level, message string) (*Notification, error) {
	return n.send(ctx, level, message, "")
}

// SendDevice is Send for a notification about one device.
func (n *Notifier) SendDevice(ctx context.Context, level Level, deviceID, message string) (*Notification, error) {
	return n.send(ctx, level, message, deviceID)
}

func (n *Notifier) send(ctx context.Context, level Level, message, deviceID string) (*Notification, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if !level.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, string(level))
	}

	note := &Notification{
		ID:        newID(),
		Level:     level,
		Message:   message,
		DeviceID:  deviceID,
		CreatedAt: n.now(),
	}
	if err := n.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("storing notification: %w", err)
	}

	n.logger.Info("notification", "level", string(level), "message", message, "device_id", deviceID)
	n.publish(n.topics.Alert(), note, false)
	return note, nil
}

// List returns up to limit notifications, newest first.
func (n *Notifier) List(ctx context.Context, limit int) ([]Notification, error) {
	notes, err := n.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return notes, nil
}

// PublishState publishes d's state as a retained message.
func (n *Notifier) PublishState(d *device.Device) {
	if d == nil {
		return
	}
	n.publish(n.topics.DeviceState(d.ID), statePayload{Device: d, UpdatedAt: n.now()}, true)
}

// ClearState removes the retained state of a deleted device.
func (n *Notifier) ClearState(deviceID string) {
	if n.pub == nil {
		return
	}
	// An empty retained payload deletes the retained message.
	if err := n.pub.Publish(n.topics.DeviceState(deviceID), nil, n.qos, true); err != nil {
		n.logger.Warn("clearing device state failed", "device_id", deviceID, "error", err)
	}
}

func (n *Notifier) publish(topic string, v any, retained bool) {
	if n.pub == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		n.logger.Error("encoding mqtt payload", "topic", topic, "error", err)
		return
	}
	if err := n.pub.Publish(topic, payload, n.qos, retained); err != nil {
		n.logger.Warn("mqtt publish failed", "topic", topic, "error", err)
	}
}
