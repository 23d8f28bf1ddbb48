package codec

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"

	"github.com/nerrad567/hearth-core/internal/device"
	"github.com/nerrad567/hearth-core/internal/home"
)

// Encode writes the whole home to w.
//
// The output is built in memory first; if any value cannot be encoded nothing
// is written and the error wraps ErrUnencodable.
//
// Parameters:
//   - w: Destination, normally a freshly truncated file
//   - h: Home to encode
//
// Returns:
//   - error: ErrUnencodable, ErrUnknownVariant, or a write error
func Encode(w io.Writer, h *home.Home) error {
	data, err := Marshal(h)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing encoded home: %w", err)
	}
	return nil
}

// Marshal returns the encoded form of the home.
func Marshal(h *home.Home) ([]byte, error) {
	var buf bytes.Buffer

	for _, u := range h.Users() {
		if err := writeRecord(&buf, recordUser, u.Username(), u.Credential()); err != nil {
			return nil, fmt.Errorf("user %q: %w", u.Username(), err)
		}

		for _, r := range u.Rooms() {
			if err := writeRecord(&buf, recordRoom, r.Name()); err != nil {
				return nil, fmt.Errorf("user %q room %q: %w", u.Username(), r.Name(), err)
			}

			for _, d := range r.Devices() {
				fields, err := deviceFields(d)
				if err != nil {
					return nil, fmt.Errorf("user %q room %q device %q: %w", u.Username(), r.Name(), d.ID, err)
				}
				if err := writeRecord(&buf, recordDevice, fields...); err != nil {
					return nil, fmt.Errorf("user %q room %q device %q: %w", u.Username(), r.Name(), d.ID, err)
				}
			}
		}
	}

	return buf.Bytes(), nil
}

// writeRecord appends one line after checking every field is a single token.
func writeRecord(buf *bytes.Buffer, keyword string, fields ...string) error {
	for _, f := range fields {
		if f == "" {
			return fmt.Errorf("%w: empty field in %s record", ErrUnencodable, keyword)
		}
		if strings.IndexFunc(f, unicode.IsSpace) >= 0 {
			return fmt.Errorf("%w: field %q contains whitespace", ErrUnencodable, f)
		}
	}

	buf.WriteString(keyword)
	for _, f := range fields {
		buf.WriteByte(' ')
		buf.WriteString(f)
	}
	buf.WriteByte('\n')
	return nil
}

// deviceFields returns the fields of a DEVICE record after the keyword.
//
// Every number must be finite: Decode rejects NaN and infinities, so writing
// one would produce a file that cannot be read back.
func deviceFields(d *device.Device) ([]string, error) {
	power, err := finiteField("power", d.PowerConsumption)
	if err != nil {
		return nil, err
	}
	fields := []string{
		string(d.Kind),
		d.ID,
		d.Name,
		d.Location,
		formatBool(d.On),
		power,
	}

	switch d.Kind {
	case device.KindLight:
		if d.Light == nil {
			return nil, missingPayload(d)
		}
		brightness, err := finiteField("brightness", d.Light.Brightness)
		if err != nil {
			return nil, err
		}
		fields = append(fields, brightness)
	case device.KindThermostat, device.KindAirConditioner:
		if d.Climate == nil {
			return nil, missingPayload(d)
		}
		current, err := finiteField("current temperature", d.Climate.CurrentTemp)
		if err != nil {
			return nil, err
		}
		target, err := finiteField("target temperature", d.Climate.TargetTemp)
		if err != nil {
			return nil, err
		}
		fields = append(fields, current, target)
	case device.KindCamera:
		if d.Camera == nil {
			return nil, missingPayload(d)
		}
		motion := tokenNoMotion
		if d.Camera.MotionDetected {
			motion = d.Camera.LastMotion.UTC().Format(motionTimeLayout)
		}
		fields = append(fields, formatBool(d.Camera.Recording), motion)
	case device.KindDoorLock:
		if d.Lock == nil {
			return nil, missingPayload(d)
		}
		lock := tokenUnlocked
		if d.Lock.Locked {
			lock = tokenLocked
		}
		fields = append(fields, lock)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, string(d.Kind))
	}

	return fields, nil
}

// finiteField formats f, or returns ErrUnencodable for NaN and infinities.
func finiteField(name string, f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %s %g is not a finite number", ErrUnencodable, name, f)
	}
	return formatFloat(f), nil
}

func missingPayload(d *device.Device) error {
	return fmt.Errorf("%w: %s device has no state payload", ErrUnencodable, d.Kind)
}
