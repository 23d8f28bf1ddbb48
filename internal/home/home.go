package home

import (
	"fmt"
	"sort"

	"github.com/nerrad567/hearth-core/internal/device"
)

// Home is the aggregate root: every user, room and device in one household.
type Home struct {
	users map[string]*User

	removedHooks []func(deviceID string)
}

// New creates an empty home.
func New() *Home {
	return &Home{users: make(map[string]*User)}
}

// Register creates a user and adds it to the home.
//
// Registering a username that already exists is rejected with
// ErrPolicyViolation and leaves the existing account untouched.
func (h *Home) Register(username, password string) (*User, error) {
	if _, exists := h.users[username]; exists {
		return nil, fmt.Errorf("%w: username %q is already registered", ErrPolicyViolation, username)
	}
	u, err := NewUser(username, password)
	if err != nil {
		return nil, err
	}
	if err := h.AddUser(u); err != nil {
		return nil, err
	}
	return u, nil
}

// AddUser adds an existing user to the home.
// A duplicate username is rejected with ErrPolicyViolation, and a user
// holding a device ID already in the home with ErrDuplicateDevice.
func (h *Home) AddUser(u *User) error {
	if u == nil {
		return fmt.Errorf("%w: nil user", ErrInvalidUsername)
	}
	if _, exists := h.users[u.username]; exists {
		return fmt.Errorf("%w: username %q is already registered", ErrPolicyViolation, u.username)
	}
	if u.home != nil {
		return fmt.Errorf("%w: user %q already belongs to a home", ErrPolicyViolation, u.username)
	}
	for _, r := range u.rooms {
		for _, d := range r.devices {
			if _, ok := h.FindDevice(d.ID); ok {
				return fmt.Errorf("%w: %q", ErrDuplicateDevice, d.ID)
			}
		}
	}
	u.home = h
	h.users[u.username] = u
	return nil
}

// User returns the user with the given username.
func (h *Home) User(username string) (*User, bool) {
	u, ok := h.users[username]
	return u, ok
}

// Users returns all users sorted by username.
func (h *Home) Users() []*User {
	users := make([]*User, 0, len(h.users))
	for _, u := range h.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].username < users[j].username })
	return users
}

// Len returns the number of users.
func (h *Home) Len() int { return len(h.users) }

// RemoveUser deletes a user with all their rooms and devices.
// Returns false if no such user exists.
func (h *Home) RemoveUser(username string) bool {
	u, ok := h.users[username]
	if !ok {
		return false
	}
	u.destroy()
	delete(h.users, username)
	return true
}

// Authenticate checks a username and password.
//
// The password policy is checked first, so a password that breaks it returns
// ErrPolicyViolation whether or not the user exists. An unknown user or a
// wrong password returns ErrAuthenticationFailed.
func (h *Home) Authenticate(username, password string) (*User, error) {
	if err := CheckPasswordPolicy(password); err != nil {
		return nil, err
	}
	u, ok := h.users[username]
	if !ok {
		return nil, fmt.Errorf("%w: unknown user %q", ErrAuthenticationFailed, username)
	}
	if err := u.Authenticate(password); err != nil {
		return nil, err
	}
	return u, nil
}

// FindDevice returns the device with the given ID anywhere in the home.
func (h *Home) FindDevice(id string) (*device.Device, bool) {
	_, _, d, ok := h.Locate(id)
	return d, ok
}

// Locate returns the device with the given ID together with its owner and room.
func (h *Home) Locate(id string) (*User, *Room, *device.Device, bool) {
	for _, u := range h.users {
		for _, r := range u.rooms {
			if d, ok := r.Device(id); ok {
				return u, r, d, true
			}
		}
	}
	return nil, nil, nil, false
}

// DeviceCount returns the number of devices across all users and rooms.
func (h *Home) DeviceCount() int {
	n := 0
	for _, u := range h.users {
		for _, r := range u.rooms {
			n += r.Len()
		}
	}
	return n
}

// OnDeviceRemoved registers a hook that runs with the ID of every device that
// leaves the tree, whether removed directly or with its room or user.
func (h *Home) OnDeviceRemoved(fn func(deviceID string)) {
	if fn != nil {
		h.removedHooks = append(h.removedHooks, fn)
	}
}

func (h *Home) emitDeviceRemoved(id string) {
	for _, fn := range h.removedHooks {
		fn(id)
	}
}
