package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/nerrad567/hearth-core/internal/device"
	"github.com/nerrad567/hearth-core/internal/home"
)

var (
	okColor     = color.New(color.FgGreen)
	errColor    = color.New(color.FgRed)
	warnColor   = color.New(color.FgYellow)
	noticeColor = color.New(color.FgMagenta)
	headColor   = color.New(color.FgCyan, color.Bold)
	onSprint    = color.New(color.FgGreen, color.Bold).SprintFunc()
	offSprint   = color.New(color.Faint).SprintFunc()
)

func (c *Console) printBanner() {
	headColor.Fprintln(c.out, "Hearth smart home console")
	fmt.Fprintln(c.out, "Type help for a list of commands.")
}

func (c *Console) info(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) ok(format string, args ...any) {
	okColor.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) warn(format string, args ...any) {
	warnColor.Fprintf(c.out, "warning: "+format+"\n", args...)
}

func (c *Console) notice(format string, args ...any) {
	noticeColor.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) heading(format string, args ...any) {
	headColor.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) fail(err error) {
	errColor.Fprintf(c.out, "error: %v\n", err)
}

// onOff renders a power state padded to a fixed width before colouring, so
// escape codes do not break column alignment.
func onOff(on bool) string {
	if on {
		return onSprint("on ")
	}
	return offSprint("off")
}

// detail is the variant part of a device line.
func detail(d *device.Device) string {
	switch d.Kind {
	case device.KindLight:
		return fmt.Sprintf("brightness %g%%", d.Light.Brightness)
	case device.KindThermostat, device.KindAirConditioner:
		return fmt.Sprintf("%g°C, target %g°C", d.Climate.CurrentTemp, d.Climate.TargetTemp)
	case device.KindCamera:
		parts := []string{"idle"}
		if d.Camera.Recording {
			parts[0] = "recording"
		}
		if d.Camera.MotionDetected {
			parts = append(parts, "last motion "+d.Camera.LastMotion.Local().Format(time.DateTime))
		} else {
			parts = append(parts, "no motion")
		}
		return strings.Join(parts, ", ")
	case device.KindDoorLock:
		if d.Lock.Locked {
			return "locked"
		}
		return "unlocked"
	}
	return ""
}

func (c *Console) printDevice(d *device.Device) {
	fmt.Fprintf(c.out, "  %-16s %-14s %s %7g kW  %s\n", d.Name, d.Kind, onOff(d.On), d.PowerConsumption, detail(d))
}

func (c *Console) printRoom(r *home.Room) {
	c.heading("%s (%d devices)", r.Name(), r.Len())
	for _, d := range r.Devices() {
		c.printDevice(d)
	}
}
