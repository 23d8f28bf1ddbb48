// Package console is the interactive line-command front end.
//
// A Console reads one command per line, applies it to the home, writes the
// home back through its Saver after every mutating command, and ticks the
// scheduler after every command and on an idle ticker. Rooms and devices are
// addressed by name within the logged-in user's rooms:
//
//	hearth> login alice secret1
//	hearth> adddevice Kitchen light Lamp
//	hearth> brightness Kitchen Lamp 40
//	hearth> schedule Lounge Heater 07:30
//
// Device names are not unique within a room; commands act on the first
// device with the name, in the order devices were added.
//
// All state is touched from the goroutine running Run. Input is read on a
// separate goroutine and handed over line by line.
package console
