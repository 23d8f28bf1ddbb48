// Package device provides the device model for Hearth Core.
//
// A Device is one controllable appliance in a room. The set of device kinds
// is closed: Light, Thermostat, AirConditioner, Camera and DoorLock. Each
// kind carries its own state payload, and exactly one payload pointer on a
// Device is non-nil, selected by Kind:
//
//	Kind            Payload   State
//	Light           Light     brightness 0-100
//	Thermostat      Climate   current and target temperature
//	AirConditioner  Climate   current and target temperature
//	Camera          Camera    recording, motion detected, last motion time
//	DoorLock        Lock      locked
//
// Code that needs to branch on the kind switches on Kind and must cover all
// five cases. The codec and the console operation menu both do this.
//
// # Common Operations
//
// Every device can be switched with TurnOn/TurnOff, asked to PerformAction
// (which returns a report and, for climate devices, moves the current
// temperature one degree toward the target), and queried for EnergyUsage.
//
// # Usage
//
//	lamp, err := device.New(device.KindLight, "desk-lamp", "study")
//	if err != nil {
//	    return err
//	}
//	lamp.TurnOn()
//	if err := lamp.SetBrightness(60); err != nil {
//	    return err
//	}
//	fmt.Println(lamp.PerformAction())
//
// # Thread Safety
//
// Devices are not safe for concurrent use. The controller is single-threaded
// and callers that add concurrency must guard the whole home with one lock.
package device
