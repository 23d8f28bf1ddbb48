package energy

import (
	"errors"
	"math"
	"testing"

	"github.com/nerrad567/hearth-core/internal/device"
)

type sinkCall struct {
	deviceID string
	powerKW  float64
	kwh      float64
}

type fakeSink struct {
	calls []sinkCall
}

func (f *fakeSink) WriteEnergyMetric(deviceID string, powerKW, energyKWh float64) {
	f.calls = append(f.calls, sinkCall{deviceID, powerKW, energyKWh})
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func newAC(t *testing.T) *device.Device {
	t.Helper()
	d, err := device.Restore(device.KindAirConditioner, "ac-1", "Split", "Lounge")
	if err != nil {
		t.Fatalf("device.Restore() error = %v", err)
	}
	return d
}

func TestMonitor_Record(t *testing.T) {
	m := NewMonitor()
	sink := &fakeSink{}
	m.SetSink(sink)
	d := newAC(t)

	kwh, err := m.Record(d, 4)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if !approx(kwh, 6) {
		t.Errorf("Record() = %g, want 6", kwh)
	}
	if _, err := m.Record(d, 2); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if !approx(m.Usage("ac-1"), 9) {
		t.Errorf("Usage() = %g, want 9", m.Usage("ac-1"))
	}
	if m.Usage("unknown") != 0 {
		t.Error("Usage(unknown) != 0")
	}
	if len(sink.calls) != 2 || sink.calls[0] != (sinkCall{"ac-1", 1.5, 6}) {
		t.Errorf("sink calls = %+v", sink.calls)
	}

	if _, err := m.Record(d, -1); !errors.Is(err, ErrNegativeUsage) {
		t.Errorf("Record(-1) error = %v, want ErrNegativeUsage", err)
	}
	if len(sink.calls) != 2 {
		t.Error("rejected record reached the sink")
	}
}

func TestMonitor_RecordAmount(t *testing.T) {
	m := NewMonitor()
	if err := m.RecordAmount("x", 2.5); err != nil {
		t.Fatalf("RecordAmount() error = %v", err)
	}
	if err := m.RecordAmount("y", 1); err != nil {
		t.Fatalf("RecordAmount() error = %v", err)
	}
	if !approx(m.Total(), 3.5) {
		t.Errorf("Total() = %g, want 3.5", m.Total())
	}

	for _, bad := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		if err := m.RecordAmount("x", bad); !errors.Is(err, ErrNegativeUsage) {
			t.Errorf("RecordAmount(%g) error = %v, want ErrNegativeUsage", bad, err)
		}
	}
}

func TestMonitor_Threshold(t *testing.T) {
	m := NewMonitor()
	if m.Threshold() != DefaultThreshold {
		t.Errorf("Threshold() = %g, want %g", m.Threshold(), DefaultThreshold)
	}

	_ = m.RecordAmount("x", 30)
	if m.Exceeded() {
		t.Error("Exceeded() = true at exactly the threshold")
	}
	_ = m.RecordAmount("x", 0.5)
	if !m.Exceeded() {
		t.Error("Exceeded() = false above the threshold")
	}

	if err := m.SetThreshold(100); err != nil {
		t.Fatalf("SetThreshold() error = %v", err)
	}
	if m.Exceeded() {
		t.Error("Exceeded() = true after raising threshold")
	}
	if err := m.SetThreshold(-5); !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("SetThreshold(-5) error = %v, want ErrInvalidThreshold", err)
	}
}

func TestMonitor_Report(t *testing.T) {
	m := NewMonitor()
	_ = m.RecordAmount("b", 2)
	_ = m.RecordAmount("a", 1)
	_ = m.RecordAmount("c", 3)
	m.Forget("c")

	got := m.Report()
	if len(got) != 2 || got[0].DeviceID != "a" || got[1].DeviceID != "b" {
		t.Errorf("Report() = %+v, want a then b", got)
	}
}
