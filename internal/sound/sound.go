package sound

import (
	"log/slog"
	"runtime"
	"sync"
)

// Delegate is notified when a Sound finishes playing.
type Delegate interface {
	DidFinishPlaying(s *Sound)
}

// DelegateFunc adapts a function to the Delegate interface.
type DelegateFunc func(s *Sound)

// DidFinishPlaying calls f(s).
func (f DelegateFunc) DidFinishPlaying(s *Sound) { f(s) }

// Option configures a Sound.
type Option func(*options)

type options struct {
	logger *slog.Logger
	loop   RunLoop
}

// WithLogger sets the logger used to report failures no caller can receive.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRunLoop delivers delegate callbacks through loop.
func WithRunLoop(loop RunLoop) Option {
	return func(o *options) {
		o.loop = loop
	}
}

// Sound owns one registered sound for its lifetime.
//
// The sound is disposed by Close. A Sound that is garbage collected without
// being closed is disposed by a cleanup and any failure is logged. While a
// delegate is set, the Service holds a reference to the Sound so it stays
// alive until the delegate is cleared or the Sound is closed.
type Sound struct {
	mu       sync.Mutex
	handle   Handle
	logger   *slog.Logger
	loop     RunLoop
	delegate Delegate
	closed   bool
	cleanup  runtime.Cleanup
}

// leaked is the state needed to dispose a Sound that was never closed.
type leaked struct {
	handle Handle
	logger *slog.Logger
}

// New registers the audio file at path with svc and returns a Sound that
// owns the resulting ID.
func New(svc Service, path string, opts ...Option) (*Sound, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	h, err := Open(svc, path)
	if err != nil {
		return nil, err
	}

	s := &Sound{
		handle: h,
		logger: o.logger,
		loop:   o.loop,
	}
	s.cleanup = runtime.AddCleanup(s, disposeLeaked, leaked{handle: h, logger: o.logger})

	o.logger.Debug("sound registered", "path", path, "id", uint32(h.ID()))
	return s, nil
}

func disposeLeaked(l leaked) {
	l.handle.RemoveCompletion()
	if err := l.handle.Dispose(); err != nil {
		l.logger.Warn("failed to dispose unclosed sound", "id", uint32(l.handle.ID()), "error", err)
	}
}

// ID returns the sound's ID, or Uninitialized after Close.
func (s *Sound) ID() ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Uninitialized
	}
	return s.handle.ID()
}

// live returns the handle unless the sound has been closed.
func (s *Sound) live() (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Handle{}, ErrClosed
	}
	return s.handle, nil
}

// Delegate returns the current delegate, or nil.
func (s *Sound) Delegate() Delegate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delegate
}

// SetDelegate replaces the delegate. The existing completion is always
// removed; a non-nil d installs a new one that calls d.DidFinishPlaying.
// If the completion cannot be installed the delegate stays nil.
func (s *Sound) SetDelegate(d Delegate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.handle.RemoveCompletion()
	s.delegate = nil
	if d == nil {
		return nil
	}

	var opts []CompletionOption
	if s.loop != nil {
		opts = append(opts, OnRunLoop(s.loop))
	}
	if err := s.handle.AddCompletion(s.finished, opts...); err != nil {
		s.logger.Warn("failed to install completion", "id", uint32(s.handle.ID()), "error", err)
		return err
	}
	s.delegate = d
	return nil
}

// finished is the completion registered with the Service.
func (s *Sound) finished(ID) {
	s.mu.Lock()
	d := s.delegate
	closed := s.closed
	s.mu.Unlock()

	if closed || d == nil {
		return
	}
	d.DidFinishPlaying(s)
}

// Play plays the sound. It does nothing after Close.
func (s *Sound) Play() {
	h, err := s.live()
	if err != nil {
		s.logger.Debug("play on closed sound ignored")
		return
	}
	h.Play()
}

// PlayAsAlert plays the sound as an alert. It does nothing after Close.
func (s *Sound) PlayAsAlert() {
	h, err := s.live()
	if err != nil {
		s.logger.Debug("alert on closed sound ignored")
		return
	}
	h.PlayAsAlert()
}

// PropertyInfo returns the size and writability of p.
func (s *Sound) PropertyInfo(p Property) (PropertyInfo, error) {
	h, err := s.live()
	if err != nil {
		return PropertyInfo{}, err
	}
	return h.PropertyInfo(p)
}

// PropertySize returns the size in bytes of p's value.
func (s *Sound) PropertySize(p Property) (uint32, error) {
	info, err := s.PropertyInfo(p)
	return info.Size, err
}

// PropertyIsWritable reports whether p can be set.
func (s *Sound) PropertyIsWritable(p Property) (bool, error) {
	info, err := s.PropertyInfo(p)
	return info.Writable, err
}

// BoolProperty returns the value of p.
func (s *Sound) BoolProperty(p Property) (bool, error) {
	h, err := s.live()
	if err != nil {
		return false, err
	}
	return h.BoolProperty(p)
}

// SetBoolProperty sets p to value.
func (s *Sound) SetBoolProperty(p Property, value bool) error {
	h, err := s.live()
	if err != nil {
		return err
	}
	return h.SetBoolProperty(p, value)
}

// IsUISound reports whether the sound respects the user's sound-effects
// setting. The default is true.
func (s *Sound) IsUISound() (bool, error) {
	return s.BoolProperty(PropertyIsUISound)
}

// SetUISound sets PropertyIsUISound.
func (s *Sound) SetUISound(value bool) error {
	return s.SetBoolProperty(PropertyIsUISound, value)
}

// CompletePlaybackIfAppDies reports whether playback continues after the
// process exits. The default is false.
func (s *Sound) CompletePlaybackIfAppDies() (bool, error) {
	return s.BoolProperty(PropertyCompletePlaybackIfAppDies)
}

// SetCompletePlaybackIfAppDies sets PropertyCompletePlaybackIfAppDies.
func (s *Sound) SetCompletePlaybackIfAppDies(value bool) error {
	return s.SetBoolProperty(PropertyCompletePlaybackIfAppDies, value)
}

// Close removes the completion, clears the delegate and disposes the sound.
// A failed disposal is logged and returned. Calling Close again returns nil.
func (s *Sound) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.delegate = nil
	h := s.handle
	s.mu.Unlock()

	s.cleanup.Stop()
	h.RemoveCompletion()
	if err := h.Dispose(); err != nil {
		s.logger.Warn("failed to dispose sound", "id", uint32(h.ID()), "error", err)
		return err
	}
	s.logger.Debug("sound disposed", "id", uint32(h.ID()))
	return nil
}
