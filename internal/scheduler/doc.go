// Package scheduler runs device actions at a time of day.
//
// A Scheduler holds at most one entry per device, keyed by device ID. Tick is
// called with the current wall-clock time (the console calls it once per
// command) and runs PerformAction on every device whose entry matches that
// minute. Entries are never matched against a minute that has already
// passed: a Tick that skips 07:30 never fires a 07:30 entry late.
//
// The scheduler does not hold device pointers. Each Tick resolves IDs
// through a Resolver (normally *home.Home), and an entry whose device no
// longer resolves is dropped. Attach wires the home's device-removed hook so
// entries disappear as soon as their device is removed.
//
// Entries live in memory only.
package scheduler
