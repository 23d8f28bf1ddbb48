package device

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies one of the closed set of device variants.
// The string value is the tag written to the data file.
type Kind string

// Device kinds.
const (
	KindLight          Kind = "Light"
	KindThermostat     Kind = "Thermostat"
	KindAirConditioner Kind = "AirConditioner"
	KindCamera         Kind = "Camera"
	KindDoorLock       Kind = "DoorLock"
)

// kindAliases maps lower-cased spellings accepted from users to kinds.
// "ac" is kept because it is what people type at the console.
var kindAliases = map[string]Kind{
	"light":          KindLight,
	"thermostat":     KindThermostat,
	"airconditioner": KindAirConditioner,
	"ac":             KindAirConditioner,
	"camera":         KindCamera,
	"doorlock":       KindDoorLock,
}

// ParseKind converts a user- or file-supplied kind name to a Kind.
// Matching is case-insensitive. Returns ErrInvalidKind for anything else.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(s)]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// IsValid reports whether k is one of the five known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindLight, KindThermostat, KindAirConditioner, KindCamera, KindDoorLock:
		return true
	}
	return false
}

// Default power ratings in kW, used until SetPowerConsumption is called.
const (
	defaultLightPower          = 0.06
	defaultThermostatPower     = 0.01
	defaultAirConditionerPower = 1.5
	defaultCameraPower         = 0.005
	defaultDoorLockPower       = 0.002
)

// Default temperatures for climate devices, in degrees Celsius.
const defaultTemperature = 25.0

// Device is a single appliance owned by a room.
//
// Exactly one of Light, Climate, Camera or Lock is non-nil and it always
// matches Kind. Construct devices with New or Restore so that invariant holds.
type Device struct {
	// Identity
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Kind     Kind   `json:"kind"`

	// PowerConsumption is the draw in kW while the device is in use.
	PowerConsumption float64 `json:"power_consumption"`

	On bool `json:"on"`

	// Variant payloads
	Light   *LightState   `json:"light,omitempty"`
	Climate *ClimateState `json:"climate,omitempty"`
	Camera  *CameraState  `json:"camera,omitempty"`
	Lock    *LockState    `json:"lock,omitempty"`
}

// LightState is the payload of a Light.
type LightState struct {
	Brightness float64 `json:"brightness"` // 0-100
}

// ClimateState is the payload shared by Thermostat and AirConditioner.
type ClimateState struct {
	CurrentTemp float64 `json:"current_temp"`
	TargetTemp  float64 `json:"target_temp"`
}

// CameraState is the payload of a Camera.
type CameraState struct {
	Recording      bool      `json:"recording"`
	MotionDetected bool      `json:"motion_detected"`
	LastMotion     time.Time `json:"last_motion,omitempty"`
}

// LockState is the payload of a DoorLock.
type LockState struct {
	Locked bool `json:"locked"`
}
