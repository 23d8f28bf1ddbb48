package codec

import (
	"strconv"
	"time"

	"github.com/nerrad567/hearth-core/internal/device"
)

// Record keywords.
const (
	recordUser   = "USER"
	recordRoom   = "ROOM"
	recordDevice = "DEVICE"
)

// Variant tokens.
const (
	tokenNoMotion = "NoMotion"
	tokenLocked   = "Locked"
	tokenUnlocked = "Unlocked"
	tokenTrue     = "1"
	tokenFalse    = "0"
)

// Field counts. A DEVICE line has the keyword, six common fields and the
// kind-specific extras.
const (
	userFields         = 3
	roomFields         = 2
	deviceCommonFields = 7
)

// motionTimeLayout keeps sub-second precision so camera times round-trip.
const motionTimeLayout = time.RFC3339Nano

// extraFields returns how many kind-specific fields follow the common ones.
// ok is false for a kind the codec does not know.
func extraFields(kind device.Kind) (n int, ok bool) {
	switch kind {
	case device.KindLight:
		return 1, true
	case device.KindThermostat, device.KindAirConditioner:
		return 2, true
	case device.KindCamera:
		return 2, true
	case device.KindDoorLock:
		return 1, true
	}
	return 0, false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return tokenTrue
	}
	return tokenFalse
}
