package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nerrad567/hearth-core/internal/device"
	"github.com/nerrad567/hearth-core/internal/home"
)

// maxLineLength bounds a single record. Credentials are the longest field.
const maxLineLength = 64 * 1024

// userNode, roomNode and deviceNode form the intermediate tree built by the
// parser. Children point back at their parent; nothing is attached to a Home
// until the whole input has parsed.
type userNode struct {
	line  int
	user  *home.User
	rooms []*roomNode
}

type roomNode struct {
	line   int
	parent *userNode
	room   *home.Room
	devs   []*deviceNode
}

type deviceNode struct {
	line   int
	parent *roomNode
	dev    *device.Device
}

// parser holds the open scope while lines are read.
type parser struct {
	users     []*userNode
	usernames map[string]bool
	deviceIDs map[string]int

	curUser *userNode
	curRoom *roomNode
}

// Decode reads a home from r.
//
// Parameters:
//   - r: Source of the encoded home
//
// Returns:
//   - *home.Home: The decoded home, empty for empty input
//   - error: *FormatError, *UnknownVariantError, or a read error
func Decode(r io.Reader) (*home.Home, error) {
	p := &parser{
		usernames: make(map[string]bool),
		deviceIDs: make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := p.parseLine(line, fields); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading home data: %w", err)
	}

	return p.build()
}

// Unmarshal decodes a home from data.
func Unmarshal(data []byte) (*home.Home, error) {
	return Decode(bytes.NewReader(data))
}

func (p *parser) parseLine(line int, fields []string) error {
	switch fields[0] {
	case recordUser:
		return p.parseUser(line, fields)
	case recordRoom:
		return p.parseRoom(line, fields)
	case recordDevice:
		return p.parseDevice(line, fields)
	default:
		return formatErrorf(line, "unknown record %q", fields[0])
	}
}

func (p *parser) parseUser(line int, fields []string) error {
	if len(fields) != userFields {
		return formatErrorf(line, "USER record needs %d fields, got %d", userFields, len(fields))
	}
	username := fields[1]
	if p.usernames[username] {
		return formatErrorf(line, "duplicate user %q", username)
	}

	u, err := home.RestoreUser(username, fields[2])
	if err != nil {
		return formatErrorf(line, "user %q: %v", username, err)
	}

	node := &userNode{line: line, user: u}
	p.users = append(p.users, node)
	p.usernames[username] = true
	p.curUser = node
	p.curRoom = nil
	return nil
}

func (p *parser) parseRoom(line int, fields []string) error {
	if p.curUser == nil {
		return formatErrorf(line, "ROOM record before any USER")
	}
	if len(fields) != roomFields {
		return formatErrorf(line, "ROOM record needs %d fields, got %d", roomFields, len(fields))
	}
	name := fields[1]
	for _, rn := range p.curUser.rooms {
		if rn.room.Name() == name {
			return formatErrorf(line, "duplicate room %q for user %q (first on line %d)",
				name, p.curUser.user.Username(), rn.line)
		}
	}

	r, err := home.NewRoom(name)
	if err != nil {
		return formatErrorf(line, "room %q: %v", name, err)
	}

	node := &roomNode{line: line, parent: p.curUser, room: r}
	p.curUser.rooms = append(p.curUser.rooms, node)
	p.curRoom = node
	return nil
}

func (p *parser) parseDevice(line int, fields []string) error {
	if p.curRoom == nil {
		return formatErrorf(line, "DEVICE record outside a ROOM")
	}
	if len(fields) < 2 {
		return formatErrorf(line, "DEVICE record has no kind tag")
	}

	kind := device.Kind(fields[1])
	extra, ok := extraFields(kind)
	if !ok {
		return &UnknownVariantError{Line: line, Tag: fields[1]}
	}
	if want := deviceCommonFields + extra; len(fields) != want {
		return formatErrorf(line, "%s record needs %d fields, got %d", kind, want, len(fields))
	}

	id := fields[2]
	if first, dup := p.deviceIDs[id]; dup {
		return formatErrorf(line, "duplicate device id %q (first on line %d)", id, first)
	}

	d, err := device.Restore(kind, id, fields[3], fields[4])
	if err != nil {
		return formatErrorf(line, "device %q: %v", id, err)
	}

	on, err := parseBool(fields[5])
	if err != nil {
		return formatErrorf(line, "device %q on flag: %v", id, err)
	}
	d.On = on

	power, err := parseFloat(fields[6])
	if err != nil {
		return formatErrorf(line, "device %q power: %v", id, err)
	}
	if err := d.SetPowerConsumption(power); err != nil {
		return formatErrorf(line, "device %q: %v", id, err)
	}

	if err := applyExtras(d, fields[deviceCommonFields:]); err != nil {
		return formatErrorf(line, "device %q: %v", id, err)
	}

	node := &deviceNode{line: line, parent: p.curRoom, dev: d}
	p.curRoom.devs = append(p.curRoom.devs, node)
	p.deviceIDs[id] = line
	return nil
}

// applyExtras fills the kind-specific state. The field count has already
// been checked against extraFields.
func applyExtras(d *device.Device, extra []string) error {
	switch d.Kind {
	case device.KindLight:
		b, err := parseFloat(extra[0])
		if err != nil {
			return fmt.Errorf("brightness: %w", err)
		}
		return d.SetBrightness(b)

	case device.KindThermostat, device.KindAirConditioner:
		current, err := parseFloat(extra[0])
		if err != nil {
			return fmt.Errorf("current temperature: %w", err)
		}
		target, err := parseFloat(extra[1])
		if err != nil {
			return fmt.Errorf("target temperature: %w", err)
		}
		d.Climate.CurrentTemp = current
		d.Climate.TargetTemp = target
		return nil

	case device.KindCamera:
		recording, err := parseBool(extra[0])
		if err != nil {
			return fmt.Errorf("recording flag: %w", err)
		}
		d.Camera.Recording = recording
		if extra[1] == tokenNoMotion {
			return nil
		}
		at, err := time.Parse(motionTimeLayout, extra[1])
		if err != nil {
			return fmt.Errorf("last motion: %w", err)
		}
		return d.DetectMotion(at)

	case device.KindDoorLock:
		switch extra[0] {
		case tokenLocked:
			d.Lock.Locked = true
		case tokenUnlocked:
			d.Lock.Locked = false
		default:
			return fmt.Errorf("lock state %q is neither %s nor %s", extra[0], tokenLocked, tokenUnlocked)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownVariant, string(d.Kind))
}

// build attaches the parsed tree to a new Home.
func (p *parser) build() (*home.Home, error) {
	h := home.New()
	for _, un := range p.users {
		for _, rn := range un.rooms {
			for _, dn := range rn.devs {
				if !rn.room.AddDevice(dn.dev) {
					return nil, formatErrorf(dn.line, "device %q rejected by room %q", dn.dev.ID, rn.room.Name())
				}
			}
			if !un.user.AddRoom(rn.room) {
				return nil, formatErrorf(rn.line, "room %q rejected by user %q", rn.room.Name(), un.user.Username())
			}
		}
		if err := h.AddUser(un.user); err != nil {
			return nil, formatErrorf(un.line, "user %q: %v", un.user.Username(), err)
		}
	}
	return h, nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case tokenTrue:
		return true, nil
	case tokenFalse:
		return false, nil
	}
	return false, fmt.Errorf("%q is not %s or %s", s, tokenFalse, tokenTrue)
}

// parseFloat rejects NaN and infinities. Encode refuses to write them.
func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}
