package sound

// CompletionFunc is invoked by a Service when a sound finishes playing.
type CompletionFunc func(id ID)

// Service is the platform system-sound service.
//
// Methods return the platform's raw Status; translation into *Error happens
// in Handle. A Service invokes completion functions on a goroutine or thread
// it controls and never while holding its own locks.
type Service interface {
	// CreateSoundID registers the audio file at path.
	CreateSoundID(path string) (ID, Status)
	// DisposeSoundID releases the resources held for id.
	DisposeSoundID(id ID) Status

	// PlaySystemSound plays id. Failures are not reported.
	PlaySystemSound(id ID)
	// PlayAlertSound plays id as an alert. Failures are not reported.
	PlayAlertSound(id ID)

	GetPropertyInfo(p Property, id ID) (PropertyInfo, Status)
	GetProperty(p Property, id ID) (uint32, Status)
	SetProperty(p Property, id ID, value uint32) Status

	// AddCompletion registers fn to run whenever id finishes playing.
	// At most one completion exists per id.
	AddCompletion(id ID, fn CompletionFunc) Status
	// RemoveCompletion unregisters the completion for id, if any.
	RemoveCompletion(id ID)
}
