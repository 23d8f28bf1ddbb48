package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a notification.
type Level string

// Notification levels.
const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelAlert   Level = "alert"
)

// IsValid reports whether l is a known level.
func (l Level) IsValid() bool {
	switch l {
	case LevelInfo, LevelWarning, LevelAlert:
		return true
	}
	return false
}

// Notification is one entry in the log.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	DeviceID  string    `json:"device_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// String formats the notification for the console.
func (n Notification) String() string {
	return fmt.Sprintf("[%s] %s %s", n.CreatedAt.Local().Format("2006-01-02 15:04:05"), n.Level, n.Message)
}

// newID returns a prefixed random identifier.
func newID() string {
	return "ntf-" + uuid.NewString()
}
