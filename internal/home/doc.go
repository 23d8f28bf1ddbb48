// Package home provides the ownership tree of Hearth Core.
//
// The tree has four levels, each owning the level below it exclusively:
//
//	Home ──▶ User (by username) ──▶ Room (by name) ──▶ Device (ordered)
//
// Home is the aggregate root and the unit of persistence. Destroying a
// container destroys everything under it: removing a room removes its
// devices, removing a user removes their rooms.
//
// # Parent Handles
//
// A Room knows the User it was added to and a User knows its Home. Removals
// anywhere in the tree walk up these handles and fire the hooks registered
// with Home.OnDeviceRemoved, which is how the scheduler drops entries for
// devices that no longer exist.
//
// # Lookups
//
// Lookups that can miss return (value, bool) rather than an error; not
// finding a room or device is ordinary control flow for the console.
// Room.FindByName returns the first device with the given name in insertion
// order. Device names are not unique within a room, so a second device with
// the same name can only be reached by ID.
//
// # Credentials
//
// Passwords are hashed with Argon2id when a user is created and only the
// PHC-format hash is kept. The hash contains no whitespace, so it can be
// written to the data file as a single token and restored unchanged.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. A concurrent front end
// must serialise all access to a Home behind a single lock.
package home
