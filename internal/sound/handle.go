package sound

import "fmt"

// Handle binds an ID to the Service that issued it and carries every
// operation the service supports for that ID.
//
// A Handle is a small value; copies refer to the same registered sound.
// Using a Handle after Dispose is left to the Service to reject.
type Handle struct {
	svc Service
	id  ID
}

// Open registers the audio file at path with svc.
func Open(svc Service, path string) (Handle, error) {
	id, status := svc.CreateSoundID(path)
	if err := check(status, fmt.Sprintf("an error occurred while associating the sound file at %s with a sound ID", path)); err != nil {
		return Handle{}, err
	}
	if !id.Valid() {
		return Handle{}, NewError(StatusUnspecified,
			fmt.Sprintf("service returned invalid sound ID %d for %s", uint32(id), path))
	}
	return Handle{svc: svc, id: id}, nil
}

// HandleFor wraps an ID already issued by svc, such as a sentinel ID.
func HandleFor(svc Service, id ID) Handle {
	return Handle{svc: svc, id: id}
}

// ID returns the registered sound ID, or Uninitialized for a zero Handle.
func (h Handle) ID() ID {
	if h.svc == nil {
		return Uninitialized
	}
	return h.id
}

// Dispose releases the sound. Disposing twice returns the Service's error
// for an unknown ID.
func (h Handle) Dispose() error {
	if h.svc == nil {
		return NewError(StatusUnspecified, "cannot dispose an uninitialized sound ID")
	}
	return check(h.svc.DisposeSoundID(h.id), "an error occurred while disposing of the sound ID")
}

// Play plays the sound.
func (h Handle) Play() {
	if h.svc != nil {
		h.svc.PlaySystemSound(h.id)
	}
}

// PlayAsAlert plays the sound as an alert. Depending on the platform this
// may also vibrate the device or flash the screen.
func (h Handle) PlayAsAlert() {
	if h.svc != nil {
		h.svc.PlayAlertSound(h.id)
	}
}

// PropertyInfo returns the size and writability of p.
func (h Handle) PropertyInfo(p Property) (PropertyInfo, error) {
	if h.svc == nil {
		return PropertyInfo{}, NewError(StatusBadSpecifierSize, "uninitialized sound ID")
	}
	info, status := h.svc.GetPropertyInfo(p, h.id)
	if err := check(status, fmt.Sprintf("an error occurred while getting the property info for property '%s'", p)); err != nil {
		return PropertyInfo{}, err
	}
	return info, nil
}

// PropertySize returns the size in bytes of p's value.
func (h Handle) PropertySize(p Property) (uint32, error) {
	info, err := h.PropertyInfo(p)
	return info.Size, err
}

// PropertyIsWritable reports whether p can be set.
func (h Handle) PropertyIsWritable(p Property) (bool, error) {
	info, err := h.PropertyInfo(p)
	return info.Writable, err
}

// BoolProperty returns the value of p.
func (h Handle) BoolProperty(p Property) (bool, error) {
	if _, err := h.PropertySize(p); err != nil {
		return false, err
	}
	v, status := h.svc.GetProperty(p, h.id)
	if err := check(status, fmt.Sprintf("an error occurred while getting the '%s' property", p.Name())); err != nil {
		return false, err
	}
	return v == 1, nil
}

// SetBoolProperty sets p to value.
func (h Handle) SetBoolProperty(p Property, value bool) error {
	if _, err := h.PropertySize(p); err != nil {
		return err
	}
	var v uint32
	if value {
		v = 1
	}
	return check(h.svc.SetProperty(p, h.id, v),
		fmt.Sprintf("an error occurred while setting the '%s' property", p.Name()))
}

// IsUISound reports whether the sound respects the user's sound-effects
// setting and stays silent when sound effects are turned off.
func (h Handle) IsUISound() (bool, error) {
	return h.BoolProperty(PropertyIsUISound)
}

// SetUISound sets PropertyIsUISound.
func (h Handle) SetUISound(value bool) error {
	return h.SetBoolProperty(PropertyIsUISound, value)
}

// CompletePlaybackIfAppDies reports whether playback continues after the
// process exits.
func (h Handle) CompletePlaybackIfAppDies() (bool, error) {
	return h.BoolProperty(PropertyCompletePlaybackIfAppDies)
}

// SetCompletePlaybackIfAppDies sets PropertyCompletePlaybackIfAppDies.
func (h Handle) SetCompletePlaybackIfAppDies(value bool) error {
	return h.SetBoolProperty(PropertyCompletePlaybackIfAppDies, value)
}

// CompletionOption configures AddCompletion.
type CompletionOption func(*completionOptions)

type completionOptions struct {
	loop RunLoop
}

// OnRunLoop delivers the completion through loop instead of on the
// Service's own goroutine.
func OnRunLoop(loop RunLoop) CompletionOption {
	return func(o *completionOptions) {
		o.loop = loop
	}
}

// AddCompletion registers fn to run each time the sound finishes playing.
// Any completion already registered for the sound is removed first.
func (h Handle) AddCompletion(fn CompletionFunc, opts ...CompletionOption) error {
	if h.svc == nil {
		return NewError(StatusUnspecified, "cannot add a completion to an uninitialized sound ID")
	}
	var o completionOptions
	for _, opt := range opts {
		opt(&o)
	}

	h.RemoveCompletion()

	cb := fn
	if o.loop != nil {
		loop := o.loop
		cb = func(id ID) {
			loop.Post(func() { fn(id) })
		}
	}
	return check(h.svc.AddCompletion(h.id, cb),
		"an error occurred while adding a completion handler to the sound")
}

// RemoveCompletion unregisters the sound's completion, if any.
func (h Handle) RemoveCompletion() {
	if h.svc != nil {
		h.svc.RemoveCompletion(h.id)
	}
}

// Vibrate vibrates the device where the platform supports it.
func Vibrate(svc Service) {
	svc.PlaySystemSound(SystemSoundVibrate)
}

// PlaySystemAlert plays the user's preferred alert sound.
func PlaySystemAlert(svc Service) {
	svc.PlayAlertSound(SystemSoundUserPreferredAlert)
}

// FlashScreen flashes the screen.
func FlashScreen(svc Service) {
	svc.PlayAlertSound(SystemSoundFlashScreen)
}
