package sound

import "math"

// ID identifies a sound registered with a Service.
// Zero is never a valid ID.
type ID uint32

// Uninitialized marks an ID that has not been assigned by a Service.
const Uninitialized ID = math.MaxUint32

// Sentinel IDs understood by every Service. They are not registered sounds
// and must never be disposed.
const (
	// SystemSoundFlashScreen flashes the screen when played as an alert.
	SystemSoundFlashScreen ID = 0x00000FFE
	// SystemSoundVibrate triggers device vibration where supported.
	SystemSoundVibrate ID = 0x00000FFF
	// SystemSoundUserPreferredAlert plays the user's preferred alert sound.
	SystemSoundUserPreferredAlert ID = 0x00001000
)

// IsSentinel reports whether id is one of the global trigger IDs.
func (id ID) IsSentinel() bool {
	switch id {
	case SystemSoundFlashScreen, SystemSoundVibrate, SystemSoundUserPreferredAlert:
		return true
	}
	return false
}

// Valid reports whether id could have been issued by a Service.
func (id ID) Valid() bool {
	return id != 0 && id != Uninitialized
}
