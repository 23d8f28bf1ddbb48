package console

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nerrad567/hearth-core/internal/device"
	"github.com/nerrad567/hearth-core/internal/home"
	"github.com/nerrad567/hearth-core/internal/notify"
	"github.com/nerrad567/hearth-core/internal/scheduler"
)

// defaultAlertCount is how many notifications alerts shows without an argument.
const defaultAlertCount = 10

type command struct {
	name    string
	args    string
	help    string
	minArgs int
	maxArgs int
	auth    bool // requires a logged-in user
	mutates bool // saves the home afterwards
	run     func(ctx context.Context, c *Console, args []string) error
}

func (cmd *command) usage() string {
	if cmd.args == "" {
		return cmd.name
	}
	return cmd.name + " " + cmd.args
}

// commandTable lists commands in the order help shows them.
func commandTable() []command {
	return []command{
		{name: "register", args: "<username> <password>", help: "create an account", minArgs: 2, maxArgs: 2, mutates: true, run: cmdRegister},
		{name: "login", args: "<username> <password>", help: "log in", minArgs: 2, maxArgs: 2, run: cmdLogin},
		{name: "logout", help: "log out", auth: true, run: cmdLogout},
		{name: "deleteaccount", args: "<password>", help: "delete your account with its rooms and devices", minArgs: 1, maxArgs: 1, auth: true, mutates: true, run: cmdDeleteAccount},
		{name: "addroom", args: "<room>", help: "add a room", minArgs: 1, maxArgs: 1, auth: true, mutates: true, run: cmdAddRoom},
		{name: "removeroom", args: "<room>", help: "remove a room and its devices", minArgs: 1, maxArgs: 1, auth: true, mutates: true, run: cmdRemoveRoom},
		{name: "adddevice", args: "<room> <kind> <name>", help: "add a Light, Thermostat, AC, Camera or DoorLock", minArgs: 3, maxArgs: 3, auth: true, mutates: true, run: cmdAddDevice},
		{name: "removedevice", args: "<room> <device>", help: "remove a device", minArgs: 2, maxArgs: 2, auth: true, mutates: true, run: cmdRemoveDevice},
		{name: "rooms", help: "show every room and device", auth: true, run: cmdRooms},
		{name: "devices", args: "<room>", help: "show the devices in a room", minArgs: 1, maxArgs: 1, auth: true, run: cmdDevices},
		{name: "on", args: "<room> <device>", help: "turn a device on", minArgs: 2, maxArgs: 2, auth: true, mutates: true, run: cmdOn},
		{name: "off", args: "<room> <device>", help: "turn a device off", minArgs: 2, maxArgs: 2, auth: true, mutates: true, run: cmdOff},
		{name: "act", args: "<room> <device>", help: "run the device's action", minArgs: 2, maxArgs: 2, auth: true, mutates: true, run: cmdAct},
		{name: "brightness", args: "<room> <light> <0-100>", help: "set light brightness", minArgs: 3, maxArgs: 3, auth: true, mutates: true, run: cmdBrightness},
		{name: "temp", args: "<room> <device> <celsius>", help: "set target temperature", minArgs: 3, maxArgs: 3, auth: true, mutates: true, run: cmdTemp},
		{name: "record", args: "<room> <camera> start|stop", help: "start or stop recording", minArgs: 3, maxArgs: 3, auth: true, mutates: true, run: cmdRecord},
		{name: "motion", args: "<room> <camera>", help: "report motion on a camera", minArgs: 2, maxArgs: 2, auth: true, mutates: true, run: cmdMotion},
		{name: "lock", args: "<room> <lock>", help: "lock a door", minArgs: 2, maxArgs: 2, auth: true, mutates: true, run: cmdLock},
		{name: "unlock", args: "<room> <lock>", help: "unlock a door", minArgs: 2, maxArgs: 2, auth: true, mutates: true, run: cmdUnlock},
		{name: "ops", args: "<room> <device>", help: "list a device's operations", minArgs: 2, maxArgs: 2, auth: true, run: cmdOps},
		{name: "power", args: "<room> <device> <kW>", help: "set rated power", minArgs: 3, maxArgs: 3, auth: true, mutates: true, run: cmdPower},
		{name: "schedule", args: "<room> <device> <HH:MM>", help: "run the action daily at a time", minArgs: 3, maxArgs: 3, auth: true, run: cmdSchedule},
		{name: "reschedule", args: "<room> <device> <HH:MM>", help: "change a schedule", minArgs: 3, maxArgs: 3, auth: true, run: cmdReschedule},
		{name: "unschedule", args: "<room> <device>", help: "remove a schedule", minArgs: 2, maxArgs: 2, auth: true, run: cmdUnschedule},
		{name: "schedules", help: "list your schedules", auth: true, run: cmdSchedules},
		{name: "clearschedules", help: "remove all your schedules", auth: true, run: cmdClearSchedules},
		{name: "energy", args: "<room> <device> <hours>", help: "record usage at rated power", minArgs: 3, maxArgs: 3, auth: true, run: cmdEnergy},
		{name: "report", help: "show energy usage", auth: true, run: cmdReport},
		{name: "threshold", args: "[kWh]", help: "show or set the household limit", maxArgs: 1, auth: true, run: cmdThreshold},
		{name: "alerts", args: "[count]", help: "show recent notifications", maxArgs: 1, auth: true, run: cmdAlerts},
		{name: "save", help: "write the home to disk now", run: cmdSave},
		{name: "help", help: "show this list", run: cmdHelp},
	}
}

// parseNumber parses a finite float argument.
func parseNumber(what, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", ErrUsage, what, s)
	}
	return v, nil
}

func cmdRegister(_ context.Context, c *Console, args []string) error {
	u, err := c.home.Register(args[0], args[1])
	if err != nil {
		if errors.Is(err, home.ErrPolicyViolation) {
			return fmt.Errorf("%w (passwords need at least 6 characters and a digit; usernames must be new)", err)
		}
		return err
	}
	c.ok("Registered %s. Log in with: login %s <password>", u.Username(), u.Username())
	return nil
}

func cmdLogin(_ context.Context, c *Console, args []string) error {
	u, err := c.home.Authenticate(args[0], args[1])
	if err != nil {
		return err
	}
	c.user = u
	c.ok("Welcome, %s.", u.Username())
	return nil
}

func cmdLogout(_ context.Context, c *Console, _ []string) error {
	c.info("Logged out %s.", c.user.Username())
	c.user = nil
	return nil
}

func cmdDeleteAccount(_ context.Context, c *Console, args []string) error {
	if err := c.user.Authenticate(args[0]); err != nil {
		return err
	}
	name := c.user.Username()
	c.home.RemoveUser(name)
	c.user = nil
	c.logger.Info("account deleted", "username", name)
	c.ok("Deleted account %s.", name)
	return nil
}

func cmdAddRoom(_ context.Context, c *Console, args []string) error {
	r, err := home.NewRoom(args[0])
	if err != nil {
		return err
	}
	if !c.user.AddRoom(r) {
		return fmt.Errorf("%w: %q", ErrRoomExists, args[0])
	}
	c.ok("Added room %s.", r.Name())
	return nil
}

func cmdRemoveRoom(_ context.Context, c *Console, args []string) error {
	if !c.user.RemoveRoom(args[0]) {
		return fmt.Errorf("%w: %q", ErrRoomNotFound, args[0])
	}
	c.ok("Removed room %s.", args[0])
	return nil
}

func cmdAddDevice(_ context.Context, c *Console, args []string) error {
	r, err := c.room(args[0])
	if err != nil {
		return err
	}
	kind, err := device.ParseKind(args[1])
	if err != nil {
		return err
	}
	d, err := device.New(kind, args[2], r.Name())
	if err != nil {
		return err
	}
	r.AddDevice(d)
	c.notifier.PublishState(d)
	c.ok("Added %s %s to %s.", d.Kind, d.Name, r.Name())
	return nil
}

func cmdRemoveDevice(_ context.Context, c *Console, args []string) error {
	r, d, err := c.target(args)
	if err != nil {
		return err
	}
	r.RemoveDevice(d.ID)
	c.ok("Removed %s from %s.", d.Name, r.Name())
	return nil
}

func cmdRooms(_ context.Context, c *Console, _ []string) error {
	rooms := c.user.Rooms()
	if len(rooms) == 0 {
		c.info("No rooms yet. Add one with: addroom <room>")
		return nil
	}
	for _, r := range rooms {
		c.printRoom(r)
	}
	return nil
}

func cmdDevices(_ context.Context, c *Console, args []string) error {
	r, err := c.room(args[0])
	if err != nil {
		return err
	}
	c.printRoom(r)
	return nil
}

// deviceCommand wraps an operation on one device addressed by room and name.
// The new state is published when op succeeds.
func deviceCommand(c *Console, args []string, op func(d *device.Device) (string, error)) error {
	_, d, err := c.target(args)
	if err != nil {
		return err
	}
	msg, err := op(d)
	if err != nil {
		return err
	}
	c.notifier.PublishState(d)
	c.ok("%s", msg)
	return nil
}

func cmdOn(_ context.Context, c *Console, args []string) error {
	return deviceCommand(c, args, func(d *device.Device) (string, error) {
		d.TurnOn()
		return d.Name + " is on.", nil
	})
}

func cmdOff(_ context.Context, c *Console, args []string) error {
	return deviceCommand(c, args, func(d *device.Device) (string, error) {
		d.TurnOff()
		return d.Name + " is off.", nil
	})
}

func cmdAct(_ context.Context, c *Console, args []string) error {
	return deviceCommand(c, args, func(d *device.Device) (string, error) {
		return d.PerformAction(), nil
	})
}

func cmdBrightness(_ context.Context, c *Console, args []string) error {
	level, err := parseNumber("brightness", args[2])
	if err != nil {
		return err
	}
	return deviceCommand(c, args, func(d *device.Device) (string, error) {
		if err := d.SetBrightness(level); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s brightness set to %g%%.", d.Name, level), nil
	})
}

func cmdTemp(_ context.Context, c *Console, args []string) error {
	target, err := parseNumber("temperature", args[2])
	if err != nil {
		return err
	}
	return deviceCommand(c, args, func(d *device.Device) (string, error) {
		if err := d.SetTargetTemp(target); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s target set to %g°C.", d.Name, target), nil
	})
}

func cmdRecord(_ context.Context, c *Console, args []string) error {
	mode := strings.ToLower(args[2])
	if mode != "start" && mode != "stop" {
		return fmt.Errorf("%w: record <room> <camera> start|stop", ErrUsage)
	}
	return deviceCommand(c, args, func(d *device.Device) (string, error) {
		if mode == "start" {
			if err := d.StartRecording(); err != nil {
				return "", err
			}
			return d.Name + " is recording.", nil
		}
		if err := d.StopRecording(); err != nil {
			return "", err
		}
		return d.Name + " stopped recording.", nil
	})
}

func cmdMotion(ctx context.Context, c *Console, args []string) error {
	r, d, err := c.target(args)
	if err != nil {
		return err
	}
	if err := d.DetectMotion(c.now().UTC()); err != nil {
		return err
	}
	c.notifier.PublishState(d)
	c.notice("Motion detected by %s in %s.", d.Name, r.Name())

	msg := fmt.Sprintf("Motion detected by %s in %s", d.Name, r.Name())
	if _, err := c.notifier.SendDevice(ctx, notify.LevelAlert, d.ID, msg); err != nil {
		c.logger.Error("recording motion alert failed", "device_id", d.ID, "error", err)
		c.warn("alert not recorded: %v", err)
	}
	return nil
}

func cmdLock(_ context.Context, c *Console, args []string) error {
	return deviceCommand(c, args, func(d *device.Device) (string, error) {
		if err := d.LockDoor(); err != nil {
			return "", err
		}
		return d.Name + " is locked.", nil
	})
}

func cmdUnlock(_ context.Context, c *Console, args []string) error {
	return deviceCommand(c, args, func(d *device.Device) (string, error) {
		if err := d.UnlockDoor(); err != nil {
			return "", err
		}
		return d.Name + " is unlocked.", nil
	})
}

func cmdOps(_ context.Context, c *Console, args []string) error {
	_, d, err := c.target(args)
	if err != nil {
		return err
	}
	ops := device.OperationsFor(d.Kind)
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	c.info("%s (%s): %s", d.Name, d.Kind, strings.Join(names, ", "))
	return nil
}

func cmdPower(_ context.Context, c *Console, args []string) error {
	kw, err := parseNumber("power", args[2])
	if err != nil {
		return err
	}
	return deviceCommand(c, args, func(d *device.Device) (string, error) {
		if err := d.SetPowerConsumption(kw); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s rated at %g kW.", d.Name, kw), nil
	})
}

func cmdSchedule(_ context.Context, c *Console, args []string) error {
	_, d, err := c.target(args)
	if err != nil {
		return err
	}
	at, err := scheduler.ParseTime(args[2])
	if err != nil {
		return err
	}
	if err := c.sched.Schedule(d, at); err != nil {
		return err
	}
	c.ok("%s will run daily at %s.", d.Name, at)
	return nil
}

func cmdReschedule(_ context.Context, c *Console, args []string) error {
	_, d, err := c.target(args)
	if err != nil {
		return err
	}
	at, err := scheduler.ParseTime(args[2])
	if err != nil {
		return err
	}
	ok, err := c.sched.Update(d, at)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s (use schedule)", ErrNotScheduled, d.Name)
	}
	c.ok("%s now runs daily at %s.", d.Name, at)
	return nil
}

func cmdUnschedule(_ context.Context, c *Console, args []string) error {
	_, d, err := c.target(args)
	if err != nil {
		return err
	}
	if !c.sched.Unschedule(d) {
		return fmt.Errorf("%w: %s", ErrNotScheduled, d.Name)
	}
	c.ok("Removed the schedule for %s.", d.Name)
	return nil
}

func cmdSchedules(_ context.Context, c *Console, _ []string) error {
	n := 0
	for _, e := range c.sched.Entries() {
		r, d, ok := c.ownedBy(c.user, e.DeviceID)
		if !ok {
			continue
		}
		c.info("  %s  %s/%s (%s)", e.At, r.Name(), d.Name, d.Kind)
		n++
	}
	if n == 0 {
		c.info("No schedules.")
	}
	return nil
}

// cmdClearSchedules removes the current user's entries only; other users'
// schedules are left alone.
func cmdClearSchedules(_ context.Context, c *Console, _ []string) error {
	n := 0
	for _, e := range c.sched.Entries() {
		if _, _, ok := c.ownedBy(c.user, e.DeviceID); ok && c.sched.Remove(e.DeviceID) {
			n++
		}
	}
	c.ok("Removed %d schedules.", n)
	return nil
}

func cmdEnergy(ctx context.Context, c *Console, args []string) error {
	hours, err := parseNumber("hours", args[2])
	if err != nil {
		return err
	}
	_, d, err := c.target(args)
	if err != nil {
		return err
	}

	wasExceeded := c.energy.Exceeded()
	kwh, err := c.energy.Record(d, hours)
	if err != nil {
		return err
	}
	c.ok("%s used %g kWh over %g h.", d.Name, kwh, hours)

	if !wasExceeded && c.energy.Exceeded() {
		msg := fmt.Sprintf("Energy usage %g kWh exceeds the %g kWh threshold", c.energy.Total(), c.energy.Threshold())
		c.warn("%s.", msg)
		if _, err := c.notifier.Send(ctx, notify.LevelWarning, msg); err != nil {
			c.logger.Error("recording energy alert failed", "error", err)
		}
	}
	return nil
}

func cmdReport(_ context.Context, c *Console, _ []string) error {
	c.heading("Energy usage")
	for _, u := range c.energy.Report() {
		r, d, ok := c.ownedBy(c.user, u.DeviceID)
		if !ok {
			continue
		}
		c.info("  %-24s %10.3f kWh", r.Name()+"/"+d.Name, u.KWh)
	}

	total, limit := c.energy.Total(), c.energy.Threshold()
	line := fmt.Sprintf("Household total %.3f kWh of %g kWh", total, limit)
	if c.energy.Exceeded() {
		c.warn("%s (over the threshold)", line)
		return nil
	}
	c.info("%s", line)
	return nil
}

func cmdThreshold(_ context.Context, c *Console, args []string) error {
	if len(args) == 0 {
		c.info("Threshold is %g kWh.", c.energy.Threshold())
		return nil
	}
	kwh, err := parseNumber("threshold", args[0])
	if err != nil {
		return err
	}
	if err := c.energy.SetThreshold(kwh); err != nil {
		return err
	}
	c.ok("Threshold set to %g kWh.", kwh)
	return nil
}

func cmdAlerts(ctx context.Context, c *Console, args []string) error {
	count := defaultAlertCount
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: alerts [count], got %q", ErrUsage, args[0])
		}
		count = n
	}
	notes, err := c.notifier.List(ctx, count)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		c.info("No notifications.")
		return nil
	}
	for _, n := range notes {
		switch n.Level {
		case notify.LevelAlert:
			c.notice("%s", n)
		case notify.LevelWarning:
			warnColor.Fprintln(c.out, n.String())
		default:
			c.info("%s", n)
		}
	}
	return nil
}

func cmdSave(_ context.Context, c *Console, _ []string) error {
	if c.store == nil {
		c.info("Nothing to save to; the home is kept in memory.")
		return nil
	}
	if err := c.store.Save(c.home); err != nil {
		c.lastSaveErr = err
		return fmt.Errorf("saving home: %w", err)
	}
	c.lastSaveErr = nil
	c.ok("Saved.")
	return nil
}

func cmdHelp(_ context.Context, c *Console, _ []string) error {
	c.heading("Commands")
	for _, cmd := range c.commands {
		c.info("  %-40s %s", cmd.usage(), cmd.help)
	}
	c.info("  %-40s %s", "exit", "leave the console")
	return nil
}
