package home

import (
	"github.com/nerrad567/hearth-core/internal/device"
)

// Room is a named space that owns an ordered list of devices.
type Room struct {
	name    string
	devices []*device.Device

	// owner is set when the room is added to a user.
	owner *User
}

// NewRoom creates an empty room.
func NewRoom(name string) (*Room, error) {
	if err := validateToken(name); err != nil {
		return nil, wrapToken(ErrInvalidRoomName, err)
	}
	return &Room{name: name}, nil
}

// Name returns the room name.
func (r *Room) Name() string { return r.name }

// Owner returns the user the room belongs to, or nil if it is detached.
func (r *Room) Owner() *User { return r.owner }

// AddDevice appends a device to the room.
// Returns false without changing anything if a device with the same ID is
// already in the room or, once the room is attached, anywhere else in the
// owner's tree. A device belongs to exactly one room.
func (r *Room) AddDevice(d *device.Device) bool {
	if d == nil {
		return false
	}
	if _, ok := r.Device(d.ID); ok {
		return false
	}
	if r.owner != nil && r.owner.hasDevice(d.ID) {
		return false
	}
	r.devices = append(r.devices, d)
	return true
}

// RemoveDevice removes the device with the given ID.
// Returns false if no such device is in the room.
func (r *Room) RemoveDevice(id string) bool {
	for i, d := range r.devices {
		if d.ID != id {
			continue
		}
		r.devices = append(r.devices[:i], r.devices[i+1:]...)
		r.deviceRemoved(id)
		return true
	}
	return false
}

// Device returns the device with the given ID.
func (r *Room) Device(id string) (*device.Device, bool) {
	for _, d := range r.devices {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

// FindByName returns the first device with the given name, in insertion order.
// Names are not unique; later devices with the same name are shadowed.
func (r *Room) FindByName(name string) (*device.Device, bool) {
	for _, d := range r.devices {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Devices returns the room's devices in insertion order.
// The slice is a copy; the devices are shared.
func (r *Room) Devices() []*device.Device {
	out := make([]*device.Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// Len returns the number of devices in the room.
func (r *Room) Len() int { return len(r.devices) }

// deviceRemoved reports a removal up the tree.
func (r *Room) deviceRemoved(id string) {
	if r.owner != nil && r.owner.home != nil {
		r.owner.home.emitDeviceRemoved(id)
	}
}

// destroy removes every device, reporting each one.
func (r *Room) destroy() {
	devices := r.devices
	r.devices = nil
	for _, d := range devices {
		r.deviceRemoved(d.ID)
	}
	r.owner = nil
}
