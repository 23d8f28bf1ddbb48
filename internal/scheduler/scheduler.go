package scheduler

import (
	"sort"
	"time"

	"github.com/nerrad567/hearth-core/internal/device"
)

// Logger defines the logging interface used by the Scheduler.
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

// Resolver looks devices up by ID. *home.Home satisfies it.
type Resolver interface {
	FindDevice(id string) (*device.Device, bool)
}

// DeviceRemovalNotifier is the hook Attach registers on.
// *home.Home satisfies it.
type DeviceRemovalNotifier interface {
	OnDeviceRemoved(fn func(deviceID string))
}

// Entry is one scheduled action.
type Entry struct {
	DeviceID string `json:"device_id"`
	At       Time   `json:"at"`
}

// Firing reports one action run by Tick.
type Firing struct {
	DeviceID string
	At       Time
	Report   string
}

type entry struct {
	at Time
	// lastFired is the minute (truncated wall-clock time) this entry last
	// ran, so repeated ticks inside one minute fire it once.
	lastFired time.Time
}

// Scheduler maps device IDs to a daily time of day.
//
// Not safe for concurrent use; the console drives it from one goroutine.
type Scheduler struct {
	resolver Resolver
	entries  map[string]*entry
	logger   Logger
}

// New creates an empty scheduler that resolves devices through resolver.
func New(resolver Resolver) *Scheduler {
	return &Scheduler{
		resolver: resolver,
		entries:  make(map[string]*entry),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the scheduler.
func (s *Scheduler) SetLogger(logger Logger) {
	if logger == nil {
		s.logger = noopLogger{}
		return
	}
	s.logger = logger
}

// Attach registers Remove on n's device-removed hook.
func (s *Scheduler) Attach(n DeviceRemovalNotifier) {
	n.OnDeviceRemoved(func(id string) {
		if s.Remove(id) {
			s.logger.Debug("schedule dropped with device", "device_id", id)
		}
	})
}

// Schedule sets the time for d, replacing any existing entry.
func (s *Scheduler) Schedule(d *device.Device, at Time) error {
	if d == nil {
		return ErrNilDevice
	}
	if _, err := NewTime(at.Hour, at.Minute); err != nil {
		return err
	}
	s.entries[d.ID] = &entry{at: at}
	s.logger.Info("device scheduled", "device_id", d.ID, "at", at.String())
	return nil
}

// Update changes the time of an existing entry.
// Returns false, without adding anything, when d has no entry.
func (s *Scheduler) Update(d *device.Device, at Time) (bool, error) {
	if d == nil {
		return false, ErrNilDevice
	}
	if _, err := NewTime(at.Hour, at.Minute); err != nil {
		return false, err
	}
	e, ok := s.entries[d.ID]
	if !ok {
		return false, nil
	}
	e.at = at
	e.lastFired = time.Time{}
	s.logger.Info("schedule updated", "device_id", d.ID, "at", at.String())
	return true, nil
}

// Unschedule removes the entry for d.
func (s *Scheduler) Unschedule(d *device.Device) bool {
	if d == nil {
		return false
	}
	return s.Remove(d.ID)
}

// Remove removes the entry for a device ID.
func (s *Scheduler) Remove(deviceID string) bool {
	if _, ok := s.entries[deviceID]; !ok {
		return false
	}
	delete(s.entries, deviceID)
	return true
}

// Get returns the scheduled time for d.
func (s *Scheduler) Get(d *device.Device) (Time, bool) {
	if d == nil {
		return Time{}, false
	}
	e, ok := s.entries[d.ID]
	if !ok {
		return Time{}, false
	}
	return e.at, true
}

// Entries returns all entries sorted by time, then device ID.
func (s *Scheduler) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for id, e := range s.entries {
		out = append(out, Entry{DeviceID: id, At: e.at})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].At != out[j].At {
			return out[i].At.Before(out[j].At)
		}
		return out[i].DeviceID < out[j].DeviceID
	})
	return out
}

// Clear removes every entry.
func (s *Scheduler) Clear() {
	s.entries = make(map[string]*entry)
}

// Len returns the number of entries.
func (s *Scheduler) Len() int { return len(s.entries) }

// Tick runs every entry whose time is the minute of now.
//
// Each matching device performs its action once per minute, however often
// Tick is called within it. Entries whose device no longer resolves are
// removed. Firings are returned in Entries order.
func (s *Scheduler) Tick(now time.Time) []Firing {
	current := TimeOf(now)
	minute := now.Truncate(time.Minute)

	var firings []Firing
	for _, en := range s.Entries() {
		d, ok := s.resolver.FindDevice(en.DeviceID)
		if !ok {
			s.Remove(en.DeviceID)
			s.logger.Warn("dropping schedule for missing device", "device_id", en.DeviceID)
			continue
		}
		if en.At != current {
			continue
		}

		e := s.entries[en.DeviceID]
		if e.lastFired.Equal(minute) {
			continue
		}
		e.lastFired = minute

		report := d.PerformAction()
		s.logger.Info("scheduled action ran", "device_id", d.ID, "at", en.At.String())
		firings = append(firings, Firing{DeviceID: d.ID, At: en.At, Report: report})
	}
	return firings
}
