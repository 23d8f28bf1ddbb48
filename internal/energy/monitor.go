package energy

import (
	"fmt"
	"math"
	"sort"

	"github.com/nerrad567/hearth-core/internal/device"
)

// DefaultThreshold is the household limit in kWh until SetThreshold is called.
const DefaultThreshold = 30.0

// Sink receives every recorded amount. *influxdb.Client satisfies it.
type Sink interface {
	WriteEnergyMetric(deviceID string, powerKW, energyKWh float64)
}

// Logger defines the logging interface used by the Monitor.
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

// Usage is one line of a report.
type Usage struct {
	DeviceID string  `json:"device_id"`
	KWh      float64 `json:"kwh"`
}

// Monitor accumulates energy use per device.
type Monitor struct {
	usage     map[string]float64
	threshold float64
	sink      Sink
	logger    Logger
}

// NewMonitor creates a monitor with DefaultThreshold and no sink.
func NewMonitor() *Monitor {
	return &Monitor{
		usage:     make(map[string]float64),
		threshold: DefaultThreshold,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the monitor.
func (m *Monitor) SetLogger(logger Logger) {
	if logger == nil {
		m.logger = noopLogger{}
		return
	}
	m.logger = logger
}

// SetSink sets where records are forwarded. nil disables forwarding.
func (m *Monitor) SetSink(sink Sink) {
	m.sink = sink
}

// Record adds the energy d uses over hours at its rated power.
//
// Returns:
//   - float64: The amount recorded in kWh
//   - error: ErrNegativeUsage for a negative or non-finite duration
func (m *Monitor) Record(d *device.Device, hours float64) (float64, error) {
	if hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, fmt.Errorf("%w: %g hours", ErrNegativeUsage, hours)
	}
	kwh := d.EnergyUsage(hours)
	m.add(d.ID, d.PowerConsumption, kwh)
	return kwh, nil
}

// RecordAmount adds a measured amount in kWh for a device ID.
func (m *Monitor) RecordAmount(deviceID string, kwh float64) error {
	if kwh < 0 || math.IsNaN(kwh) || math.IsInf(kwh, 0) {
		return fmt.Errorf("%w: %g kWh", ErrNegativeUsage, kwh)
	}
	m.add(deviceID, 0, kwh)
	return nil
}

func (m *Monitor) add(deviceID string, powerKW, kwh float64) {
	wasExceeded := m.Exceeded()
	m.usage[deviceID] += kwh

	if m.sink != nil {
		m.sink.WriteEnergyMetric(deviceID, powerKW, kwh)
	}

	m.logger.Debug("energy recorded", "device_id", deviceID, "kwh", kwh)
	if !wasExceeded && m.Exceeded() {
		m.logger.Warn("energy threshold exceeded", "total_kwh", m.Total(), "threshold_kwh", m.threshold)
	}
}

// Usage returns the total recorded for a device ID, zero if none.
func (m *Monitor) Usage(deviceID string) float64 {
	return m.usage[deviceID]
}

// Total returns the sum over all devices.
func (m *Monitor) Total() float64 {
	var total float64
	for _, kwh := range m.usage {
		total += kwh
	}
	return total
}

// Threshold returns the current limit in kWh.
func (m *Monitor) Threshold() float64 { return m.threshold }

// SetThreshold sets the limit in kWh.
func (m *Monitor) SetThreshold(kwh float64) error {
	if kwh < 0 || math.IsNaN(kwh) || math.IsInf(kwh, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidThreshold, kwh)
	}
	m.threshold = kwh
	return nil
}

// Exceeded reports whether the total is above the threshold.
func (m *Monitor) Exceeded() bool {
	return m.Total() > m.threshold
}

// Forget drops the usage recorded for a device.
func (m *Monitor) Forget(deviceID string) {
	delete(m.usage, deviceID)
}

// Report returns per-device usage sorted by device ID.
func (m *Monitor) Report() []Usage {
	out := make([]Usage, 0, len(m.usage))
	for id, kwh := range m.usage {
		out = append(out, Usage{DeviceID: id, KWh: kwh})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	return out
}
