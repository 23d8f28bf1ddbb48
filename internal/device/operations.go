package device

// Operation names one entry of a device's control menu.
type Operation string

// Operations offered by the console.
const (
	OpOn          Operation = "on"
	OpOff         Operation = "off"
	OpAction      Operation = "action"
	OpBrightness  Operation = "brightness"
	OpTemperature Operation = "temperature"
	OpRecording   Operation = "recording"
	OpMotion      Operation = "motion"
	OpLock        Operation = "lock"
	OpUnlock      Operation = "unlock"
)

// commonOperations are offered by every kind.
var commonOperations = []Operation{OpOn, OpOff, OpAction}

// OperationsFor returns the control menu for a kind: the common operations
// followed by the kind-specific ones. Unknown kinds get nil.
func OperationsFor(kind Kind) []Operation {
	var specific []Operation
	switch kind {
	case KindLight:
		specific = []Operation{OpBrightness}
	case KindThermostat, KindAirConditioner:
		specific = []Operation{OpTemperature}
	case KindCamera:
		specific = []Operation{OpRecording, OpMotion}
	case KindDoorLock:
		specific = []Operation{OpLock, OpUnlock}
	default:
		return nil
	}

	ops := make([]Operation, 0, len(commonOperations)+len(specific))
	ops = append(ops, commonOperations...)
	return append(ops, specific...)
}

// Supports reports whether op is on the device's control menu.
func (d *Device) Supports(op Operation) bool {
	for _, o := range OperationsFor(d.Kind) {
		if o == op {
			return true
		}
	}
	return false
}
