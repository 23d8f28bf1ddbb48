package home

import (
	"fmt"
	"sort"

	"github.com/nerrad567/hearth-core/internal/device"
)

// User is an account that owns rooms.
type User struct {
	username   string
	credential string // Argon2id PHC string
	rooms      map[string]*Room

	// home is set when the user is added to a home.
	home *Home
}

// NewUser creates a user, enforcing the password policy and hashing the
// password.
//
// Returns:
//   - *User: The new user with no rooms
//   - error: ErrInvalidUsername, ErrPolicyViolation, or a hashing failure
func NewUser(username, password string) (*User, error) {
	if err := validateToken(username); err != nil {
		return nil, wrapToken(ErrInvalidUsername, err)
	}
	if err := CheckPasswordPolicy(password); err != nil {
		return nil, err
	}

	credential, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	return &User{
		username:   username,
		credential: credential,
		rooms:      make(map[string]*Room),
	}, nil
}

// RestoreUser recreates a user from a stored credential.
func RestoreUser(username, credential string) (*User, error) {
	if err := validateToken(username); err != nil {
		return nil, wrapToken(ErrInvalidUsername, err)
	}
	if err := ValidateCredential(credential); err != nil {
		return nil, err
	}
	return &User{
		username:   username,
		credential: credential,
		rooms:      make(map[string]*Room),
	}, nil
}

// Username returns the user's identity key.
func (u *User) Username() string { return u.username }

// Credential returns the stored password hash.
func (u *User) Credential() string { return u.credential }

// Login reports whether name and password both match exactly.
// Usernames are case-sensitive.
func (u *User) Login(name, password string) bool {
	if name != u.username {
		return false
	}
	ok, err := verifyPassword(password, u.credential)
	return err == nil && ok
}

// Authenticate checks a password against the policy and then the stored
// credential. A policy failure is reported as ErrPolicyViolation even when
// the password would not have matched.
func (u *User) Authenticate(password string) error {
	if err := CheckPasswordPolicy(password); err != nil {
		return err
	}
	ok, err := verifyPassword(password, u.credential)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}
	if !ok {
		return fmt.Errorf("%w: incorrect password", ErrAuthenticationFailed)
	}
	return nil
}

// AddRoom adds a room to the user.
// Returns false without changing anything if a room with that name already
// exists, the room already belongs to a user, or one of its devices is
// already in the user's tree.
func (u *User) AddRoom(r *Room) bool {
	if r == nil || r.owner != nil {
		return false
	}
	if _, exists := u.rooms[r.name]; exists {
		return false
	}
	for _, d := range r.devices {
		if u.hasDevice(d.ID) {
			return false
		}
	}
	r.owner = u
	u.rooms[r.name] = r
	return true
}

// RemoveRoom destroys the named room and all of its devices.
// Returns false if the user has no such room.
func (u *User) RemoveRoom(name string) bool {
	r, ok := u.rooms[name]
	if !ok {
		return false
	}
	delete(u.rooms, name)
	r.destroy()
	return true
}

// Room returns the named room.
func (u *User) Room(name string) (*Room, bool) {
	r, ok := u.rooms[name]
	return r, ok
}

// HasRoom reports whether the user has a room with that name.
func (u *User) HasRoom(name string) bool {
	_, ok := u.rooms[name]
	return ok
}

// Rooms returns the user's rooms sorted by name.
func (u *User) Rooms() []*Room {
	rooms := make([]*Room, 0, len(u.rooms))
	for _, r := range u.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].name < rooms[j].name })
	return rooms
}

// AddDeviceToRoom adds a device to the named room.
// Returns false if the room does not exist or already holds the device.
func (u *User) AddDeviceToRoom(roomName string, d *device.Device) bool {
	r, ok := u.rooms[roomName]
	if !ok {
		return false
	}
	return r.AddDevice(d)
}

// hasDevice reports whether id is in the home the user belongs to, or in
// one of the user's rooms while the user is detached.
func (u *User) hasDevice(id string) bool {
	if u.home != nil {
		_, ok := u.home.FindDevice(id)
		return ok
	}
	for _, r := range u.rooms {
		if _, ok := r.Device(id); ok {
			return true
		}
	}
	return false
}

// destroy removes every room, reporting every device.
func (u *User) destroy() {
	for name, r := range u.rooms {
		delete(u.rooms, name)
		r.destroy()
	}
	u.home = nil
}
