// Package codec converts a home.Home to and from the Hearth data file format.
//
// The format is plain text, one record per line, fields separated by
// whitespace:
//
//	USER   <username> <credential>
//	ROOM   <roomName>
//	DEVICE <kind> <id> <name> <location> <on:0|1> <powerKW> <extra...>
//
// Nesting is implicit: a DEVICE belongs to the closest ROOM above it, and a
// ROOM to the closest USER above it. A USER record closes the open room, so a
// DEVICE that follows a USER line directly is an orphan.
//
// The extra fields depend on the kind:
//
//	Light           <brightness>
//	Thermostat      <currentTemp> <targetTemp>
//	AirConditioner  <currentTemp> <targetTemp>
//	Camera          <recording:0|1> <lastMotion|NoMotion>
//	DoorLock        <Locked|Unlocked>
//
// Camera motion times are RFC 3339 with nanoseconds in UTC. Numbers use the
// shortest decimal form that parses back to the same float64.
//
// # Ordering
//
// Encode writes users sorted by username, each user's rooms sorted by name,
// and each room's devices in insertion order, so encoding the same home twice
// produces identical bytes.
//
// # Decoding
//
// Decode first parses the whole input into an explicit user/room/device tree
// and only builds the Home once every line has been accepted. A bad line
// therefore never yields a partly loaded home. Errors carry the 1-based line
// number and wrap ErrFormat or ErrUnknownVariant. Empty input decodes to an
// empty Home.
package codec
