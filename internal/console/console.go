package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/nerrad567/hearth-core/internal/device"
	"github.com/nerrad567/hearth-core/internal/energy"
	"github.com/nerrad567/hearth-core/internal/home"
	"github.com/nerrad567/hearth-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/hearth-core/internal/notify"
	"github.com/nerrad567/hearth-core/internal/scheduler"
)

// DefaultPrompt is shown before each command when Options.Prompt is empty.
const DefaultPrompt = "hearth> "

// Saver persists the whole home. *store.File satisfies it.
type Saver interface {
	Save(h *home.Home) error
}

// Notifier records notifications and mirrors device state.
// *notify.Notifier satisfies it.
type Notifier interface {
	Send(ctx context.Context, level notify.Level, message string) (*notify.Notification, error)
	SendDevice(ctx context.Context, level notify.Level, deviceID, message string) (*notify.Notification, error)
	List(ctx context.Context, limit int) ([]notify.Notification, error)
	PublishState(d *device.Device)
	ClearState(deviceID string)
}

// Logger defines the logging interface used by the Console.
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

// Options configures a Console. Only Home is required.
type Options struct {
	Home *home.Home

	// Store is written after every mutating command. nil keeps the home in
	// memory only.
	Store Saver

	// Scheduler, Energy and Notifier default to fresh in-memory instances.
	Scheduler *scheduler.Scheduler
	Energy    *energy.Monitor
	Notifier  Notifier

	// In and Out default to stdin and stdout.
	In  io.Reader
	Out io.Writer

	Prompt string
	Color  bool

	// TickInterval also ticks the scheduler while waiting for input.
	// Zero ticks only after commands.
	TickInterval time.Duration

	Logger Logger
}

// Console runs commands against one home for one logged-in user at a time.
type Console struct {
	home        *home.Home
	store       Saver
	sched       *scheduler.Scheduler
	energy      *energy.Monitor
	notifier    Notifier
	in          io.Reader
	out         io.Writer
	prompt      string
	interval    time.Duration
	logger      Logger
	now         func() time.Time
	user        *home.User
	commands    []command
	byName      map[string]*command
	lastSaveErr error

	// readerDone is closed when the input goroutine of the last Run exits.
	readerDone chan struct{}
}

// New creates a console and attaches the scheduler, the energy monitor and
// the notifier to the home's device-removed hook.
func New(opts Options) (*Console, error) {
	if opts.Home == nil {
		return nil, ErrNilHome
	}

	c := &Console{
		home:     opts.Home,
		store:    opts.Store,
		sched:    opts.Scheduler,
		energy:   opts.Energy,
		notifier: opts.Notifier,
		in:       opts.In,
		out:      opts.Out,
		prompt:   opts.Prompt,
		interval: opts.TickInterval,
		logger:   opts.Logger,
		now:      time.Now,
	}
	if c.sched == nil {
		c.sched = scheduler.New(c.home)
	}
	if c.energy == nil {
		c.energy = energy.NewMonitor()
	}
	if c.notifier == nil {
		c.notifier = notify.NewNotifier(notify.NewMemoryRepository(), nil, mqtt.Topics{}, 0)
	}
	if c.in == nil {
		c.in = os.Stdin
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.prompt == "" {
		c.prompt = DefaultPrompt
	}
	if c.logger == nil {
		c.logger = noopLogger{}
	}
	if !opts.Color {
		color.NoColor = true
	}

	c.sched.Attach(c.home)
	c.home.OnDeviceRemoved(func(id string) {
		c.energy.Forget(id)
		c.notifier.ClearState(id)
	})

	c.commands = commandTable()
	c.byName = make(map[string]*command, len(c.commands))
	for i := range c.commands {
		c.byName[c.commands[i].name] = &c.commands[i]
	}
	return c, nil
}

// User returns the logged-in user, or nil.
func (c *Console) User() *home.User { return c.user }

// Run reads and executes commands until exit, end of input, or ctx is done.
//
// The input reader stops at the first line it reads after Run returns. A read
// already blocked on c.in ends only when that read does.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	readerDone := make(chan struct{})
	c.readerDone = readerDone
	go func() {
		defer close(readerDone)
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	var ticks <-chan time.Time
	if c.interval > 0 {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	c.printBanner()
	fmt.Fprint(c.out, c.prompt)
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case <-ticks:
			if c.tick(c.now()) > 0 {
				fmt.Fprint(c.out, c.prompt)
			}
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				// readErr is filled before lines closes, except on cancellation.
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("reading input: %w", err)
					}
				default:
				}
				return nil
			}
			quit := c.Execute(ctx, line)
			c.tick(c.now())
			if quit {
				return nil
			}
			fmt.Fprint(c.out, c.prompt)
		}
	}
}

// Execute runs one command line and reports whether the console should exit.
// Errors are printed, never returned.
func (c *Console) Execute(ctx context.Context, line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	if name == "exit" || name == "quit" {
		c.info("Goodbye.")
		return true
	}

	cmd, ok := c.byName[name]
	if !ok {
		c.fail(fmt.Errorf("%w: %q (type help for a list)", ErrUnknownCommand, name))
		return false
	}
	if len(args) < cmd.minArgs || len(args) > cmd.maxArgs {
		c.fail(fmt.Errorf("%w: %s", ErrUsage, cmd.usage()))
		return false
	}
	if cmd.auth && c.user == nil {
		c.fail(fmt.Errorf("%w: use login <username> <password>", ErrNotLoggedIn))
		return false
	}

	if err := cmd.run(ctx, c, args); err != nil {
		c.fail(err)
		return false
	}
	if cmd.mutates {
		c.persist()
	}
	return false
}

// tick runs due schedules and returns how many fired.
func (c *Console) tick(now time.Time) int {
	firings := c.sched.Tick(now)
	for _, f := range firings {
		c.notice("[%s] %s", f.At, f.Report)
		if d, ok := c.home.FindDevice(f.DeviceID); ok {
			c.notifier.PublishState(d)
		}
		c.logger.Info("scheduled action ran", "device_id", f.DeviceID, "at", f.At.String())
	}
	if len(firings) > 0 {
		c.persist()
	}
	return len(firings)
}

// persist writes the home through the store. A failure is reported once per
// streak so a broken disk does not flood the console.
func (c *Console) persist() {
	if c.store == nil {
		return
	}
	err := c.store.Save(c.home)
	if err != nil {
		c.logger.Error("saving home failed", "error", err)
		if c.lastSaveErr == nil {
			c.warn("changes are not saved: %v", err)
		}
	} else if c.lastSaveErr != nil {
		c.logger.Info("saving home recovered")
	}
	c.lastSaveErr = err
}

// room returns the current user's room by name.
func (c *Console) room(name string) (*home.Room, error) {
	r, ok := c.user.Room(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, name)
	}
	return r, nil
}

// target resolves "<room> <device>" arguments to a device.
func (c *Console) target(args []string) (*home.Room, *device.Device, error) {
	r, err := c.room(args[0])
	if err != nil {
		return nil, nil, err
	}
	d, ok := r.FindByName(args[1])
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q in %s", ErrDeviceNotFound, args[1], r.Name())
	}
	return r, d, nil
}

// ownedBy reports whether device id sits in one of u's rooms.
func (c *Console) ownedBy(u *home.User, id string) (*home.Room, *device.Device, bool) {
	owner, r, d, ok := c.home.Locate(id)
	if !ok || owner != u {
		return nil, nil, false
	}
	return r, d, true
}
