package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/hearth-core/internal/device"
	"github.com/nerrad567/hearth-core/internal/home"
	"github.com/nerrad567/hearth-core/internal/scheduler"
)

type fakeSaver struct {
	saves int
	err   error
}

func (f *fakeSaver) Save(*home.Home) error {
	f.saves++
	return f.err
}

type testConsole struct {
	*Console
	buf   *bytes.Buffer
	saver *fakeSaver
}

func newTestConsole(t *testing.T) *testConsole {
	t.Helper()
	buf := &bytes.Buffer{}
	saver := &fakeSaver{}
	c, err := New(Options{Home: home.New(), Store: saver, Out: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return &testConsole{Console: c, buf: buf, saver: saver}
}

// exec runs one line and returns what it printed.
func (tc *testConsole) exec(line string) string {
	tc.buf.Reset()
	tc.Execute(context.Background(), line)
	return tc.buf.String()
}

// mustExec runs a line that is expected to succeed.
func (tc *testConsole) mustExec(t *testing.T, line string) string {
	t.Helper()
	out := tc.exec(line)
	if strings.Contains(out, "error:") {
		t.Fatalf("%q printed %q", line, out)
	}
	return out
}

// loggedIn returns a console with alice logged in and a Lounge room.
func loggedIn(t *testing.T) *testConsole {
	t.Helper()
	tc := newTestConsole(t)
	tc.mustExec(t, "register alice secret1")
	tc.mustExec(t, "login alice secret1")
	tc.mustExec(t, "addroom Lounge")
	return tc
}

func (tc *testConsole) device(t *testing.T, room, name string) *device.Device {
	t.Helper()
	r, ok := tc.User().Room(room)
	if !ok {
		t.Fatalf("room %s missing", room)
	}
	d, ok := r.FindByName(name)
	if !ok {
		t.Fatalf("device %s missing from %s", name, room)
	}
	return d
}

func TestNew_RequiresHome(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, ErrNilHome) {
		t.Errorf("New() error = %v, want ErrNilHome", err)
	}
}

func TestExecute_Errors(t *testing.T) {
	tc := newTestConsole(t)

	tests := []struct {
		line string
		want string
	}{
		{"frobnicate", "unknown command"},
		{"rooms", "not logged in"},
		{"login alice", "usage: login <username> <password>"},
		{"login alice secret1", "authentication failed"},
		{"register bob abc12", "policy violation"},
		{"register bob abcdef", "policy violation"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out := tc.exec(tt.line)
			if !strings.Contains(out, tt.want) {
				t.Errorf("%q printed %q, want mention of %q", tt.line, out, tt.want)
			}
		})
	}
	if tc.saver.saves != 0 {
		t.Errorf("failed commands saved %d times", tc.saver.saves)
	}
}

func TestExecute_BlankAndExit(t *testing.T) {
	tc := newTestConsole(t)
	if tc.Execute(context.Background(), "   ") {
		t.Error("blank line requested exit")
	}
	if !tc.Execute(context.Background(), "EXIT") {
		t.Error("exit did not request exit")
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	tc := newTestConsole(t)

	tc.mustExec(t, "register alice secret1")
	if tc.saver.saves != 1 {
		t.Errorf("register saved %d times, want 1", tc.saver.saves)
	}
	if out := tc.exec("register alice secret2"); !strings.Contains(out, "policy violation") {
		t.Errorf("duplicate register printed %q", out)
	}

	if out := tc.exec("login alice wrong12"); !strings.Contains(out, "authentication failed") {
		t.Errorf("bad login printed %q", out)
	}
	if tc.User() != nil {
		t.Fatal("user logged in after bad password")
	}

	tc.mustExec(t, "login alice secret1")
	if tc.User() == nil || tc.User().Username() != "alice" {
		t.Fatalf("User() = %v, want alice", tc.User())
	}

	tc.mustExec(t, "logout")
	if tc.User() != nil {
		t.Error("User() != nil after logout")
	}
}

func TestDeleteAccount(t *testing.T) {
	tc := loggedIn(t)
	tc.mustExec(t, "adddevice Lounge light Lamp")
	tc.mustExec(t, "schedule Lounge Lamp 07:30")

	if out := tc.exec("deleteaccount wrong12"); !strings.Contains(out, "authentication failed") {
		t.Errorf("deleteaccount with wrong password printed %q", out)
	}
	if tc.User() == nil {
		t.Fatal("user logged out after failed deleteaccount")
	}

	saves := tc.saver.saves
	tc.mustExec(t, "deleteaccount secret1")
	if tc.User() != nil {
		t.Error("User() != nil after deleteaccount")
	}
	if _, ok := tc.home.User("alice"); ok {
		t.Error("alice still registered")
	}
	if tc.sched.Len() != 0 {
		t.Errorf("scheduler has %d entries, want 0", tc.sched.Len())
	}
	if tc.saver.saves != saves+1 {
		t.Errorf("saves = %d, want %d", tc.saver.saves, saves+1)
	}
}

func TestRoomCommands(t *testing.T) {
	tc := loggedIn(t)

	if out := tc.exec("addroom Lounge"); !strings.Contains(out, "room already exists") {
		t.Errorf("duplicate addroom printed %q", out)
	}
	if out := tc.exec("devices Attic"); !strings.Contains(out, "room not found") {
		t.Errorf("devices Attic printed %q", out)
	}

	tc.mustExec(t, "adddevice Lounge light Lamp")
	tc.mustExec(t, "adddevice Lounge ac Split")
	out := tc.mustExec(t, "rooms")
	for _, want := range []string{"Lounge (2 devices)", "Lamp", "Light", "Split", "AirConditioner", "25°C, target 25°C"} {
		if !strings.Contains(out, want) {
			t.Errorf("rooms output missing %q:\n%s", want, out)
		}
	}

	tc.mustExec(t, "removeroom Lounge")
	if len(tc.User().Rooms()) != 0 {
		t.Error("room still present after removeroom")
	}
	if out := tc.exec("removeroom Lounge"); !strings.Contains(out, "room not found") {
		t.Errorf("second removeroom printed %q", out)
	}
}

func TestAddDevice_Rejects(t *testing.T) {
	tc := loggedIn(t)

	tests := []struct {
		line string
		want string
	}{
		{"adddevice Lounge toaster Bread", "invalid kind"},
		{"adddevice Attic light Lamp", "room not found"},
		{"adddevice Lounge light", "usage"},
	}
	for _, tt := range tests {
		if out := tc.exec(tt.line); !strings.Contains(out, tt.want) {
			t.Errorf("%q printed %q, want %q", tt.line, out, tt.want)
		}
	}
}

func TestDeviceCommands(t *testing.T) {
	tc := loggedIn(t)
	tc.mustExec(t, "adddevice Lounge light Lamp")
	tc.mustExec(t, "adddevice Lounge thermostat Heater")
	tc.mustExec(t, "adddevice Lounge camera Cam")
	tc.mustExec(t, "adddevice Lounge doorlock Door")

	tests := []struct {
		line  string
		check func(t *testing.T)
	}{
		{"on Lounge Lamp", func(t *testing.T) {
			if !tc.device(t, "Lounge", "Lamp").On {
				t.Error("lamp not on")
			}
		}},
		{"brightness Lounge Lamp 40", func(t *testing.T) {
			if got, _ := tc.device(t, "Lounge", "Lamp").Brightness(); got != 40 {
				t.Errorf("brightness = %g, want 40", got)
			}
		}},
		{"off Lounge Lamp", func(t *testing.T) {
			if tc.device(t, "Lounge", "Lamp").On {
				t.Error("lamp still on")
			}
		}},
		{"temp Lounge Heater 27", func(t *testing.T) {
			if _, target, _ := tc.device(t, "Lounge", "Heater").Temperatures(); target != 27 {
				t.Errorf("target = %g, want 27", target)
			}
		}},
		{"act Lounge Heater", func(t *testing.T) {
			if cur, _, _ := tc.device(t, "Lounge", "Heater").Temperatures(); cur != 26 {
				t.Errorf("current = %g, want 26", cur)
			}
		}},
		{"record Lounge Cam start", func(t *testing.T) {
			if !tc.device(t, "Lounge", "Cam").Camera.Recording {
				t.Error("camera not recording")
			}
		}},
		{"unlock Lounge Door", func(t *testing.T) {
			if locked, _ := tc.device(t, "Lounge", "Door").IsLocked(); locked {
				t.Error("door still locked")
			}
		}},
		{"lock Lounge Door", func(t *testing.T) {
			if locked, _ := tc.device(t, "Lounge", "Door").IsLocked(); !locked {
				t.Error("door not locked")
			}
		}},
		{"power Lounge Lamp 0.1", func(t *testing.T) {
			if got := tc.device(t, "Lounge", "Lamp").PowerConsumption; got != 0.1 {
				t.Errorf("power = %g, want 0.1", got)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			before := tc.saver.saves
			tc.mustExec(t, tt.line)
			tt.check(t)
			if tc.saver.saves != before+1 {
				t.Errorf("%q saved %d times, want 1", tt.line, tc.saver.saves-before)
			}
		})
	}
}

func TestDeviceCommands_Rejects(t *testing.T) {
	tc := loggedIn(t)
	tc.mustExec(t, "adddevice Lounge light Lamp")
	before := tc.saver.saves

	tests := []struct {
		line string
		want string
	}{
		{"brightness Lounge Lamp 120", "brightness out of range"},
		{"brightness Lounge Lamp bright", "must be a number"},
		{"temp Lounge Lamp 20", "operation not supported"},
		{"lock Lounge Lamp", "operation not supported"},
		{"record Lounge Lamp pause", "usage"},
		{"power Lounge Lamp -1", "negative power"},
		{"on Lounge Ghost", "device not found"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if out := tc.exec(tt.line); !strings.Contains(out, tt.want) {
				t.Errorf("%q printed %q, want %q", tt.line, out, tt.want)
			}
		})
	}
	if tc.saver.saves != before {
		t.Errorf("rejected commands saved %d times", tc.saver.saves-before)
	}
}

func TestOps(t *testing.T) {
	tc := loggedIn(t)
	tc.mustExec(t, "adddevice Lounge camera Cam")
	out := tc.mustExec(t, "ops Lounge Cam")
	if !strings.Contains(out, "on, off, action, recording, motion") {
		t.Errorf("ops printed %q", out)
	}
}

func TestMotionRaisesAlert(t *testing.T) {
	tc := loggedIn(t)
	tc.mustExec(t, "adddevice Lounge camera Cam")
	tc.mustExec(t, "motion Lounge Cam")

	cam := tc.device(t, "Lounge", "Cam")
	if !cam.Camera.MotionDetected || !cam.Camera.LastMotion.Equal(tc.now()) {
		t.Errorf("camera state = %+v", cam.Camera)
	}

	out := tc.mustExec(t, "alerts")
	if !strings.Contains(out, "alert Motion detected by Cam in Lounge") {
		t.Errorf("alerts printed %q", out)
	}
}

func TestScheduleCommands(t *testing.T) {
	tc := loggedIn(t)
	tc.mustExec(t, "adddevice Lounge thermostat Heater")
	tc.mustExec(t, "temp Lounge Heater 27")

	if out := tc.exec("reschedule Lounge Heater 08:00"); !strings.Contains(out, "no schedule") {
		t.Errorf("reschedule without schedule printed %q", out)
	}
	if out := tc.exec("schedule Lounge Heater 7:3"); !strings.Contains(out, "invalid") {
		t.Errorf("bad time printed %q", out)
	}

	tc.mustExec(t, "schedule Lounge Heater 07:30")
	if out := tc.mustExec(t, "schedules"); !strings.Contains(out, "07:30  Lounge/Heater (Thermostat)") {
		t.Errorf("schedules printed %q", out)
	}

	saves := tc.saver.saves
	tc.buf.Reset()
	if n := tc.tick(time.Date(2026, 10, 19, 7, 30, 5, 0, time.UTC)); n != 1 {
		t.Fatalf("tick fired %d, want 1", n)
	}
	if !strings.Contains(tc.buf.String(), "[07:30]") {
		t.Errorf("tick printed %q", tc.buf.String())
	}
	if tc.saver.saves != saves+1 {
		t.Error("firing did not save the home")
	}
	if n := tc.tick(time.Date(2026, 10, 19, 7, 30, 40, 0, time.UTC)); n != 0 {
		t.Errorf("second tick in the same minute fired %d", n)
	}
	if cur, _, _ := tc.device(t, "Lounge", "Heater").Temperatures(); cur != 26 {
		t.Errorf("current = %g, want 26", cur)
	}

	tc.mustExec(t, "reschedule Lounge Heater 08:15")
	if got, _ := tc.sched.Get(tc.device(t, "Lounge", "Heater")); got != (scheduler.Time{Hour: 8, Minute: 15}) {
		t.Errorf("scheduled at %v, want 08:15", got)
	}

	tc.mustExec(t, "unschedule Lounge Heater")
	if out := tc.exec("unschedule Lounge Heater"); !strings.Contains(out, "no schedule") {
		t.Errorf("second unschedule printed %q", out)
	}
	if out := tc.mustExec(t, "schedules"); !strings.Contains(out, "No schedules.") {
		t.Errorf("schedules printed %q", out)
	}
}

func TestClearSchedules_OnlyCurrentUser(t *testing.T) {
	tc := loggedIn(t)
	tc.mustExec(t, "adddevice Lounge light Lamp")
	tc.mustExec(t, "schedule Lounge Lamp 06:00")

	tc.mustExec(t, "logout")
	tc.mustExec(t, "register bob secret2")
	tc.mustExec(t, "login bob secret2")
	tc.mustExec(t, "addroom Den")
	tc.mustExec(t, "adddevice Den light Reading")
	tc.mustExec(t, "schedule Den Reading 22:00")

	if out := tc.mustExec(t, "clearschedules"); !strings.Contains(out, "Removed 1 schedules.") {
		t.Errorf("clearschedules printed %q", out)
	}
	if tc.sched.Len() != 1 {
		t.Errorf("Len() = %d, want alice's schedule kept", tc.sched.Len())
	}
}

func TestRemoveDeviceCleansUp(t *testing.T) {
	tc := loggedIn(t)
	tc.mustExec(t, "adddevice Lounge ac Split")
	d := tc.device(t, "Lounge", "Split")
	tc.mustExec(t, "schedule Lounge Split 18:00")
	tc.mustExec(t, "energy Lounge Split 2")

	tc.mustExec(t, "removedevice Lounge Split")
	if _, ok := tc.home.FindDevice(d.ID); ok {
		t.Error("device still in home")
	}
	if tc.sched.Len() != 0 {
		t.Error("schedule survived device removal")
	}
	if tc.energy.Usage(d.ID) != 0 {
		t.Error("energy usage survived device removal")
	}
}

func TestEnergyCommands(t *testing.T) {
	tc := loggedIn(t)
	tc.mustExec(t, "adddevice Lounge ac Split")

	if out := tc.mustExec(t, "threshold"); !strings.Contains(out, "Threshold is 30 kWh.") {
		t.Errorf("threshold printed %q", out)
	}
	tc.mustExec(t, "threshold 2")
	if out := tc.exec("threshold -1"); !strings.Contains(out, "invalid threshold") {
		t.Errorf("negative threshold printed %q", out)
	}

	out := tc.mustExec(t, "energy Lounge Split 2")
	if !strings.Contains(out, "Split used 3 kWh over 2 h.") || !strings.Contains(out, "exceeds the 2 kWh threshold") {
		t.Errorf("energy printed %q", out)
	}
	if out := tc.exec("energy Lounge Split -1"); !strings.Contains(out, "negative") {
		t.Errorf("negative hours printed %q", out)
	}

	out = tc.mustExec(t, "report")
	if !strings.Contains(out, "Lounge/Split") || !strings.Contains(out, "3.000 kWh") || !strings.Contains(out, "over the threshold") {
		t.Errorf("report printed %q", out)
	}

	if out := tc.mustExec(t, "alerts 1"); !strings.Contains(out, "warning Energy usage 3 kWh exceeds") {
		t.Errorf("alerts printed %q", out)
	}
	if out := tc.exec("alerts zero"); !strings.Contains(out, "usage") {
		t.Errorf("alerts zero printed %q", out)
	}
}

func TestPersistFailureWarnsOnce(t *testing.T) {
	tc := loggedIn(t)
	tc.saver.err = errors.New("disk full")

	first := tc.mustExec(t, "addroom Den")
	if !strings.Contains(first, "changes are not saved: disk full") {
		t.Errorf("first failure printed %q", first)
	}
	second := tc.mustExec(t, "addroom Hall")
	if strings.Contains(second, "not saved") {
		t.Errorf("repeated failure printed %q", second)
	}

	if out := tc.exec("save"); !strings.Contains(out, "saving home: disk full") {
		t.Errorf("save printed %q", out)
	}
	tc.saver.err = nil
	if out := tc.mustExec(t, "save"); !strings.Contains(out, "Saved.") {
		t.Errorf("save printed %q", out)
	}
}

func TestHelpListsCommands(t *testing.T) {
	tc := newTestConsole(t)
	out := tc.mustExec(t, "help")
	for _, cmd := range commandTable() {
		if !strings.Contains(out, cmd.usage()) {
			t.Errorf("help missing %q", cmd.usage())
		}
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "register carol secret3\nlogin carol secret3\naddroom Hall\nexit\nrooms\n"},
		{"end of input", "register carol secret3\nlogin carol secret3\naddroom Hall\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			h := home.New()
			c, err := New(Options{Home: h, In: strings.NewReader(tt.input), Out: out, Prompt: "> "})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := c.Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			select {
			case <-c.readerDone:
			case <-time.After(5 * time.Second):
				t.Fatal("input goroutine still running after Run returned")
			}

			u, ok := h.User("carol")
			if !ok || !u.HasRoom("Hall") {
				t.Errorf("home after Run lacks carol/Hall; output:\n%s", out.String())
			}
			if strings.Contains(out.String(), "error:") {
				t.Errorf("Run printed an error:\n%s", out.String())
			}
		})
	}
}

func TestRun_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	c, err := New(Options{Home: home.New(), In: pr, Out: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx); err != nil {
		t.Errorf("Run() error = %v, want nil on cancel", err)
	}
}
