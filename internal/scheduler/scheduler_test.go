package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/hearth-core/internal/device"
	"github.com/nerrad567/hearth-core/internal/home"
)

// fakeResolver is a map-backed Resolver.
type fakeResolver map[string]*device.Device

func (f fakeResolver) FindDevice(id string) (*device.Device, bool) {
	d, ok := f[id]
	return d, ok
}

func newThermostat(t *testing.T) *device.Device {
	t.Helper()
	d, err := device.New(device.KindThermostat, "Wall", "Hall")
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}
	d.Climate.CurrentTemp = 20
	return d
}

func at(hour, minute, second int) time.Time {
	return time.Date(2026, 10, 19, hour, minute, second, 0, time.UTC)
}

func mustTime(t *testing.T, hour, minute int) Time {
	t.Helper()
	tm, err := NewTime(hour, minute)
	if err != nil {
		t.Fatalf("NewTime(%d, %d) error = %v", hour, minute, err)
	}
	return tm
}

func TestNewTime(t *testing.T) {
	tests := []struct {
		hour, minute int
		wantErr      bool
	}{
		{0, 0, false},
		{23, 59, false},
		{7, 30, false},
		{24, 0, true},
		{-1, 0, true},
		{12, 60, true},
		{12, -1, true},
	}
	for _, tt := range tests {
		_, err := NewTime(tt.hour, tt.minute)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewTime(%d, %d) error = %v, wantErr %v", tt.hour, tt.minute, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidTime) {
			t.Errorf("NewTime(%d, %d) error = %v, want ErrInvalidTime", tt.hour, tt.minute, err)
		}
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in      string
		want    Time
		wantErr bool
	}{
		{"07:30", Time{7, 30}, false},
		{"7:30", Time{7, 30}, false},
		{"23:59", Time{23, 59}, false},
		{"00:00", Time{0, 0}, false},
		{"24:00", Time{}, true},
		{"07:3", Time{}, true},
		{"0730", Time{}, true},
		{"+7:30", Time{}, true},
		{"aa:bb", Time{}, true},
		{"", Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTime(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTime_String(t *testing.T) {
	if got := (Time{7, 5}).String(); got != "07:05" {
		t.Errorf("String() = %q, want 07:05", got)
	}
	if got := TimeOf(at(19, 45, 12)); got != (Time{19, 45}) {
		t.Errorf("TimeOf() = %v, want 19:45", got)
	}
}

func TestTick_FiresExactMinuteOnce(t *testing.T) {
	d := newThermostat(t)
	s := New(fakeResolver{d.ID: d})
	if err := s.Schedule(d, mustTime(t, 7, 30)); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	if got := s.Tick(at(7, 29, 59)); len(got) != 0 {
		t.Errorf("Tick(07:29) fired %d, want 0", len(got))
	}

	got := s.Tick(at(7, 30, 0))
	if len(got) != 1 {
		t.Fatalf("Tick(07:30) fired %d, want 1", len(got))
	}
	if got[0].DeviceID != d.ID || got[0].Report == "" {
		t.Errorf("Firing = %+v", got[0])
	}
	if d.Climate.CurrentTemp != 21 {
		t.Errorf("CurrentTemp = %g, want 21 after one action", d.Climate.CurrentTemp)
	}

	// Same minute again: no second action.
	if got := s.Tick(at(7, 30, 40)); len(got) != 0 {
		t.Errorf("second Tick(07:30) fired %d, want 0", len(got))
	}

	if got := s.Tick(at(7, 31, 0)); len(got) != 0 {
		t.Errorf("Tick(07:31) fired %d, want 0", len(got))
	}
	if d.Climate.CurrentTemp != 21 {
		t.Errorf("CurrentTemp = %g, want 21", d.Climate.CurrentTemp)
	}

	// Next day fires again.
	if got := s.Tick(at(7, 30, 0).AddDate(0, 0, 1)); len(got) != 1 {
		t.Errorf("Tick(next day 07:30) fired %d, want 1", len(got))
	}
}

func TestTick_DropsUnresolvable(t *testing.T) {
	d := newThermostat(t)
	res := fakeResolver{d.ID: d}
	s := New(res)
	_ = s.Schedule(d, mustTime(t, 8, 0))

	delete(res, d.ID)
	if got := s.Tick(at(9, 0, 0)); len(got) != 0 {
		t.Errorf("Tick() fired %d, want 0", len(got))
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after dropping missing device", s.Len())
	}
}

func TestScheduleUpsertAndUpdate(t *testing.T) {
	d := newThermostat(t)
	s := New(fakeResolver{d.ID: d})

	other, _ := device.New(device.KindLight, "Lamp", "Hall")
	if ok, err := s.Update(other, mustTime(t, 6, 0)); ok || err != nil {
		t.Errorf("Update(unscheduled) = %v, %v; want false, nil", ok, err)
	}
	if s.Len() != 0 {
		t.Error("Update() added an entry")
	}

	_ = s.Schedule(d, mustTime(t, 6, 0))
	_ = s.Schedule(d, mustTime(t, 6, 15))
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after re-scheduling", s.Len())
	}
	if got, _ := s.Get(d); got != (Time{6, 15}) {
		t.Errorf("Get() = %v, want 06:15", got)
	}

	if ok, err := s.Update(d, mustTime(t, 22, 0)); !ok || err != nil {
		t.Errorf("Update() = %v, %v; want true, nil", ok, err)
	}
	if got, _ := s.Get(d); got != (Time{22, 0}) {
		t.Errorf("Get() = %v, want 22:00", got)
	}

	if _, err := s.Update(d, Time{Hour: 25}); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("Update(25:00) error = %v, want ErrInvalidTime", err)
	}
	if err := s.Schedule(nil, Time{}); !errors.Is(err, ErrNilDevice) {
		t.Errorf("Schedule(nil) error = %v, want ErrNilDevice", err)
	}
}

func TestUnscheduleAndClear(t *testing.T) {
	a := newThermostat(t)
	b := newThermostat(t)
	s := New(fakeResolver{a.ID: a, b.ID: b})
	_ = s.Schedule(a, mustTime(t, 9, 0))
	_ = s.Schedule(b, mustTime(t, 8, 0))

	entries := s.Entries()
	if len(entries) != 2 || entries[0].DeviceID != b.ID {
		t.Errorf("Entries() = %v, want 08:00 entry first", entries)
	}

	if !s.Unschedule(a) {
		t.Error("Unschedule() = false, want true")
	}
	if s.Unschedule(a) {
		t.Error("second Unschedule() = true, want false")
	}
	if _, ok := s.Get(a); ok {
		t.Error("Get() found unscheduled device")
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear() = %d", s.Len())
	}
}

func TestAttach_RemovesWithDevice(t *testing.T) {
	h := home.New()
	u, err := h.Register("alice", "abcde1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	r, _ := home.NewRoom("Hall")
	u.AddRoom(r)
	d := newThermostat(t)
	r.AddDevice(d)

	s := New(h)
	s.Attach(h)
	_ = s.Schedule(d, mustTime(t, 7, 30))

	r.RemoveDevice(d.ID)
	if s.Len() != 0 {
		t.Errorf("Len() = %d after device removal, want 0", s.Len())
	}
}

func TestTick_ConvergesWithoutOvershoot(t *testing.T) {
	d := newThermostat(t)
	s := New(fakeResolver{d.ID: d})
	_ = s.Schedule(d, mustTime(t, 7, 30))

	day := at(7, 30, 0)
	for i := 0; i < 7; i++ {
		s.Tick(day.AddDate(0, 0, i))
	}
	if d.Climate.CurrentTemp != 25 {
		t.Errorf("CurrentTemp = %g, want 25", d.Climate.CurrentTemp)
	}
}
