package sound

import "fmt"

// Property identifies a boolean property of a registered sound.
type Property uint32

const (
	// PropertyIsUISound makes the sound respect the user's sound-effects
	// setting. Defaults to true.
	PropertyIsUISound Property = 0x69737569 // 'isui'
	// PropertyCompletePlaybackIfAppDies lets playback finish after the
	// process exits. Defaults to false.
	PropertyCompletePlaybackIfAppDies Property = 0x69666469 // 'ifdi'
)

// PropertySize is the size in bytes of every supported property value.
const PropertySize = 4

// PropertyInfo describes a property's value size and writability.
type PropertyInfo struct {
	Size     uint32
	Writable bool
}

// Properties returns every supported property.
func Properties() []Property {
	return []Property{PropertyIsUISound, PropertyCompletePlaybackIfAppDies}
}

// ParseProperty returns the Property for a platform property code.
func ParseProperty(code uint32) (Property, bool) {
	switch p := Property(code); p {
	case PropertyIsUISound, PropertyCompletePlaybackIfAppDies:
		return p, true
	}
	return 0, false
}

// PropertyByName resolves a property from its command-line name.
func PropertyByName(name string) (Property, error) {
	for _, p := range Properties() {
		if p.Name() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown property %q", name)
}

// Name returns the property's command-line name.
func (p Property) Name() string {
	switch p {
	case PropertyIsUISound:
		return "is-ui-sound"
	case PropertyCompletePlaybackIfAppDies:
		return "complete-playback-if-app-dies"
	default:
		return fmt.Sprintf("property-%d", uint32(p))
	}
}

// String returns a short description of the property.
func (p Property) String() string {
	switch p {
	case PropertyIsUISound:
		return "Is UI Sound"
	case PropertyCompletePlaybackIfAppDies:
		return "Complete playback if App dies"
	default:
		if cc, ok := FourCC(uint32(p)); ok {
			return fmt.Sprintf("Unknown property '%s'", cc)
		}
		return fmt.Sprintf("Unknown property %d", uint32(p))
	}
}
