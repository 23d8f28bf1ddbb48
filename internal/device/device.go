package device

import (
	"fmt"
	"math"
	"time"
)

// temperatureStep is how far a climate device moves toward its target per action.
const temperatureStep = 1.0

// Brightness bounds for lights, in percent.
const (
	minBrightness = 0
	maxBrightness = 100
)

// New creates a device of the given kind with a fresh ID and default state.
//
// Defaults per kind:
//   - Light: off, brightness 0
//   - Thermostat, AirConditioner: current and target 25
//   - Camera: not recording, no motion
//   - DoorLock: locked
//
// Parameters:
//   - kind: One of the five device kinds
//   - name: Display name, a single token
//   - location: Where the device sits, usually the room name
//
// Returns:
//   - *Device: The new device
//   - error: ErrInvalidKind, ErrInvalidName or ErrInvalidLocation
func New(kind Kind, name, location string) (*Device, error) {
	return Restore(kind, GenerateID(), name, location)
}

// Restore creates a device with a caller-supplied ID and default state.
// The codec uses it to rebuild devices from the data file before filling in
// the persisted fields.
func Restore(kind Kind, id, name, location string) (*Device, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateLocation(location); err != nil {
		return nil, err
	}

	d := &Device{
		ID:       id,
		Name:     name,
		Location: location,
		Kind:     kind,
	}

	switch kind {
	case KindLight:
		d.PowerConsumption = defaultLightPower
		d.Light = &LightState{}
	case KindThermostat:
		d.PowerConsumption = defaultThermostatPower
		d.Climate = &ClimateState{CurrentTemp: defaultTemperature, TargetTemp: defaultTemperature}
	case KindAirConditioner:
		d.PowerConsumption = defaultAirConditionerPower
		d.Climate = &ClimateState{CurrentTemp: defaultTemperature, TargetTemp: defaultTemperature}
	case KindCamera:
		d.PowerConsumption = defaultCameraPower
		d.Camera = &CameraState{}
	case KindDoorLock:
		d.PowerConsumption = defaultDoorLockPower
		d.Lock = &LockState{Locked: true}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, string(kind))
	}

	return d, nil
}

// TurnOn switches the device on.
func (d *Device) TurnOn() { d.On = true }

// TurnOff switches the device off.
func (d *Device) TurnOff() { d.On = false }

// EnergyUsage returns the energy in kWh the device uses over hoursUsed hours
// at its rated power. It does not change any state.
func (d *Device) EnergyUsage(hoursUsed float64) float64 {
	return d.PowerConsumption * hoursUsed
}

// SetPowerConsumption sets the rated power in kW.
func (d *Device) SetPowerConsumption(kw float64) error {
	if kw < 0 || math.IsNaN(kw) || math.IsInf(kw, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidPower, kw)
	}
	d.PowerConsumption = kw
	return nil
}

// PerformAction runs the kind-specific action and returns a report of it.
//
// Only climate devices change state: the current temperature moves one degree
// toward the target and stops exactly on it. An action with nothing to do is
// not an error.
func (d *Device) PerformAction() string {
	switch d.Kind {
	case KindLight:
		return fmt.Sprintf("Light (%s) at %g%% brightness.", d.Name, d.Light.Brightness)
	case KindThermostat, KindAirConditioner:
		d.Climate.adjust()
		verb := "regulating"
		if d.Kind == KindAirConditioner {
			verb = "cooling"
		}
		return fmt.Sprintf("%s (%s) %s to %g°C. Current: %g°C.",
			d.Kind, d.Name, verb, d.Climate.TargetTemp, d.Climate.CurrentTemp)
	case KindCamera:
		if d.Camera.MotionDetected {
			return fmt.Sprintf("Camera (%s) is monitoring the area. Last motion: %s.",
				d.Name, d.Camera.LastMotion.Format(time.RFC3339))
		}
		return fmt.Sprintf("Camera (%s) is monitoring the area. No motion detected.", d.Name)
	case KindDoorLock:
		state := "unlocked"
		if d.Lock.Locked {
			state = "locked"
		}
		return fmt.Sprintf("DoorLock (%s) is %s.", d.Name, state)
	}
	return fmt.Sprintf("Device (%s) has no action.", d.Name)
}

// adjust moves the current temperature one step toward the target.
func (c *ClimateState) adjust() {
	switch {
	case c.CurrentTemp < c.TargetTemp:
		c.CurrentTemp = math.Min(c.CurrentTemp+temperatureStep, c.TargetTemp)
	case c.CurrentTemp > c.TargetTemp:
		c.CurrentTemp = math.Max(c.CurrentTemp-temperatureStep, c.TargetTemp)
	}
}

// unsupported builds the error for an operation the kind does not offer.
func (d *Device) unsupported(op Operation) error {
	return fmt.Errorf("%w: %s has no %s operation", ErrUnsupportedOperation, d.Kind, op)
}

// SetBrightness sets a light's brightness in percent.
// Values outside 0-100 are rejected and leave the light unchanged.
func (d *Device) SetBrightness(level float64) error {
	if d.Light == nil {
		return d.unsupported(OpBrightness)
	}
	if level < minBrightness || level > maxBrightness || math.IsNaN(level) {
		return fmt.Errorf("%w: %g", ErrInvalidBrightness, level)
	}
	d.Light.Brightness = level
	return nil
}

// Brightness returns a light's brightness in percent.
func (d *Device) Brightness() (float64, error) {
	if d.Light == nil {
		return 0, d.unsupported(OpBrightness)
	}
	return d.Light.Brightness, nil
}

// SetTargetTemp sets the temperature a climate device works toward.
// The current temperature only changes on PerformAction.
func (d *Device) SetTargetTemp(target float64) error {
	if d.Climate == nil {
		return d.unsupported(OpTemperature)
	}
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidTemperature, target)
	}
	d.Climate.TargetTemp = target
	return nil
}

// Temperatures returns a climate device's current and target temperature.
func (d *Device) Temperatures() (current, target float64, err error) {
	if d.Climate == nil {
		return 0, 0, d.unsupported(OpTemperature)
	}
	return d.Climate.CurrentTemp, d.Climate.TargetTemp, nil
}

// StartRecording starts a camera recording.
func (d *Device) StartRecording() error {
	if d.Camera == nil {
		return d.unsupported(OpRecording)
	}
	d.Camera.Recording = true
	return nil
}

// StopRecording stops a camera recording.
func (d *Device) StopRecording() error {
	if d.Camera == nil {
		return d.unsupported(OpRecording)
	}
	d.Camera.Recording = false
	return nil
}

// DetectMotion records a motion event on a camera at the given time.
// This is the only way LastMotion changes.
func (d *Device) DetectMotion(at time.Time) error {
	if d.Camera == nil {
		return d.unsupported(OpMotion)
	}
	d.Camera.MotionDetected = true
	d.Camera.LastMotion = at
	return nil
}

// LockDoor locks a door lock.
func (d *Device) LockDoor() error {
	if d.Lock == nil {
		return d.unsupported(OpLock)
	}
	d.Lock.Locked = true
	return nil
}

// UnlockDoor unlocks a door lock.
func (d *Device) UnlockDoor() error {
	if d.Lock == nil {
		return d.unsupported(OpUnlock)
	}
	d.Lock.Locked = false
	return nil
}

// IsLocked reports whether a door lock is locked.
func (d *Device) IsLocked() (bool, error) {
	if d.Lock == nil {
		return false, d.unsupported(OpLock)
	}
	return d.Lock.Locked, nil
}

// String returns a multi-line summary for display.
func (d *Device) String() string {
	status := "Off"
	if d.On {
		status = "On"
	}
	return fmt.Sprintf("ID: %s\nName: %s\nType: %s\nLocation: %s\nStatus: %s\nPower: %g kW",
		d.ID, d.Name, d.Kind, d.Location, status, d.PowerConsumption)
}
