package audio

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/gopxl/beep/v2"
	"github.com/mattn/go-isatty"

	"github.com/jmylchreest/syssound/internal/config"
	"github.com/jmylchreest/syssound/internal/dbus"
	"github.com/jmylchreest/syssound/internal/sound"
)

// firstID is the first ID handed out; lower values overlap the sentinels.
const firstID = sound.SystemSoundUserPreferredAlert + 1

// Notifier sends desktop notifications.
type Notifier interface {
	Notify(n dbus.Notification) (uint32, error)
}

// BeepFunc sounds the system beeper at freq Hz for duration milliseconds.
type BeepFunc func(freq float64, duration int) error

// Option configures a Service.
type Option func(*Service)

// WithSink replaces the speaker as the output device.
func WithSink(sink Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithNotifier replaces the D-Bus notification client used for flashes.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithTerminal sets where terminal flashes are written and whether it is a TTY.
func WithTerminal(w io.Writer, isTTY bool) Option {
	return func(s *Service) {
		s.term = w
		s.termIsTTY = isTTY
	}
}

// WithBeeper replaces the system beeper used when no alert sound is set.
func WithBeeper(fn BeepFunc) Option {
	return func(s *Service) {
		s.beeper = fn
	}
}

// Service implements sound.Service with in-process playback.
type Service struct {
	mu     sync.Mutex
	logger *slog.Logger
	audio  config.AudioConfig
	alert  config.AlertConfig

	sink      Sink
	notifier  Notifier
	term      io.Writer
	termIsTTY bool
	beeper    BeepFunc
	watcher   *Watcher

	nextID     sound.ID
	sounds     map[sound.ID]*entry
	alertSound *beep.Buffer

	// lingering counts plays of sounds flagged to complete if the app dies.
	lingering sync.WaitGroup
	// pending counts alert work still running, such as beeps and flash resets.
	pending sync.WaitGroup
	closed    bool
}

var _ sound.Service = (*Service)(nil)

// entry is a registered sound.
type entry struct {
	path             string
	buffer           *beep.Buffer
	uiSound          bool
	completePlayback bool
	completion       sound.CompletionFunc
}

// NewService creates a Service from cfg.
func NewService(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	s := &Service{
		logger:    logger,
		audio:     cfg.Audio,
		alert:     cfg.Alert,
		term:      os.Stderr,
		termIsTTY: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
		beeper:    beeep.Beep,
		nextID:    firstID,
		sounds:    make(map[sound.ID]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = NewSpeakerSink(logger)
	}
	if s.notifier == nil {
		s.notifier = dbus.NewClient(logger)
	}

	if cfg.Watch.Enabled {
		w, err := NewWatcher(s.reload, logger)
		if err != nil {
			return nil, err
		}
		if err := w.Start(context.Background()); err != nil {
			return nil, err
		}
		s.watcher = w
	}

	return s, nil
}

// CreateSoundID decodes the file at path and registers it.
func (s *Service) CreateSoundID(path string) (sound.ID, sound.Status) {
	path, err := filepath.Abs(config.ExpandPath(path))
	if err != nil {
		return sound.Uninitialized, sound.StatusUnspecified
	}

	buffer, err := decodeFile(path)
	if err != nil {
		s.logger.Debug("failed to register sound", "path", path, "error", err)
		return sound.Uninitialized, sound.StatusUnspecified
	}

	length := buffer.Format().SampleRate.D(buffer.Len())
	if limit := s.audio.MaxDuration.Duration(); limit > 0 && length > limit {
		s.logger.Debug("sound too long to register", "path", path, "length", length, "limit", limit)
		return sound.Uninitialized, sound.StatusUnspecified
	}

	if err := s.sink.Init(buffer.Format().SampleRate, s.audio.Buffer.Duration()); err != nil {
		s.logger.Warn("failed to initialize output", "error", err)
		return sound.Uninitialized, sound.StatusUnspecified
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return sound.Uninitialized, sound.StatusUnspecified
	}
	id := s.nextID
	s.nextID++
	s.sounds[id] = &entry{
		path:    path,
		buffer:  buffer,
		uiSound: true,
	}
	s.mu.Unlock()

	if s.watcher != nil {
		if err := s.watcher.Watch(path); err != nil {
			s.logger.Debug("failed to watch sound file", "path", path, "error", err)
		}
	}

	s.logger.Debug("sound registered", "id", uint32(id), "path", path, "length", length)
	return id, sound.StatusOK
}

// DisposeSoundID forgets id. Disposing an unknown or sentinel ID fails.
func (s *Service) DisposeSoundID(id sound.ID) sound.Status {
	s.mu.Lock()
	e, ok := s.sounds[id]
	if !ok {
		s.mu.Unlock()
		return sound.StatusUnspecified
	}
	delete(s.sounds, id)
	shared := false
	for _, other := range s.sounds {
		if other.path == e.path {
			shared = true
			break
		}
	}
	s.mu.Unlock()

	if s.watcher != nil && !shared {
		s.watcher.Unwatch(e.path)
	}

	s.logger.Debug("sound disposed", "id", uint32(id))
	return sound.StatusOK
}

// PlaySystemSound plays id, or runs the trigger for a sentinel ID.
func (s *Service) PlaySystemSound(id sound.ID) {
	switch id {
	case sound.SystemSoundVibrate:
		s.vibrate()
	case sound.SystemSoundUserPreferredAlert:
		s.systemAlert()
	case sound.SystemSoundFlashScreen:
		s.flash()
	default:
		s.play(id, false)
	}
}

// PlayAlertSound plays id and flashes, or runs the trigger for a sentinel ID.
func (s *Service) PlayAlertSound(id sound.ID) {
	switch id {
	case sound.SystemSoundVibrate:
		s.vibrate()
	case sound.SystemSoundUserPreferredAlert:
		s.systemAlert()
		s.flash()
	case sound.SystemSoundFlashScreen:
		s.flash()
	default:
		s.play(id, true)
	}
}

// play starts a registered sound. The completion is looked up when playback
// finishes, so removing it before then prevents delivery.
func (s *Service) play(id sound.ID, alert bool) {
	s.mu.Lock()
	e, ok := s.sounds[id]
	if !ok || s.closed {
		s.mu.Unlock()
		s.logger.Debug("play of unknown sound ignored", "id", uint32(id))
		return
	}
	buffer := e.buffer
	muted := s.audio.Muted && e.uiSound
	linger := e.completePlayback
	if linger {
		s.lingering.Add(1)
	}
	s.mu.Unlock()

	done := func() {
		if linger {
			s.lingering.Done()
		}
		// Callbacks run on the mixer goroutine; user code must not.
		go s.complete(id)
	}

	if muted {
		s.logger.Debug("ui sound muted", "id", uint32(id))
		done()
	} else {
		volume := float64(s.audio.Volume) / 100.0
		s.sink.Play(beep.Seq(bufferStreamer(buffer, s.sink.SampleRate(), volume), beep.Callback(done)))
	}

	if alert {
		s.flash()
	}
}

// complete invokes the completion registered for id, if any.
func (s *Service) complete(id sound.ID) {
	s.mu.Lock()
	var fn sound.CompletionFunc
	if e, ok := s.sounds[id]; ok {
		fn = e.completion
	}
	s.mu.Unlock()

	if fn != nil {
		fn(id)
	}
}

// GetPropertyInfo reports a 4-byte, writable value for both properties.
func (s *Service) GetPropertyInfo(p sound.Property, id sound.ID) (sound.PropertyInfo, sound.Status) {
	if _, ok := sound.ParseProperty(uint32(p)); !ok {
		return sound.PropertyInfo{}, sound.StatusUnsupportedProperty
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sounds[id]; !ok {
		return sound.PropertyInfo{}, sound.StatusUnspecified
	}
	return sound.PropertyInfo{Size: sound.PropertySize, Writable: true}, sound.StatusOK
}

// GetProperty reads a boolean property of id as 0 or 1.
func (s *Service) GetProperty(p sound.Property, id sound.ID) (uint32, sound.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sounds[id]
	if !ok {
		return 0, sound.StatusUnspecified
	}

	var v bool
	switch p {
	case sound.PropertyIsUISound:
		v = e.uiSound
	case sound.PropertyCompletePlaybackIfAppDies:
		v = e.completePlayback
	default:
		return 0, sound.StatusUnsupportedProperty
	}
	if v {
		return 1, sound.StatusOK
	}
	return 0, sound.StatusOK
}

// SetProperty sets a boolean property of id; any non-zero value is true.
func (s *Service) SetProperty(p sound.Property, id sound.ID, value uint32) sound.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sounds[id]
	if !ok {
		return sound.StatusUnspecified
	}

	switch p {
	case sound.PropertyIsUISound:
		e.uiSound = value != 0
	case sound.PropertyCompletePlaybackIfAppDies:
		e.completePlayback = value != 0
	default:
		return sound.StatusUnsupportedProperty
	}
	return sound.StatusOK
}

// AddCompletion replaces the completion for id.
func (s *Service) AddCompletion(id sound.ID, fn sound.CompletionFunc) sound.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sounds[id]
	if !ok {
		return sound.StatusUnspecified
	}
	e.completion = fn
	return sound.StatusOK
}

// RemoveCompletion clears the completion for id. Unknown IDs are ignored.
func (s *Service) RemoveCompletion(id sound.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sounds[id]; ok {
		e.completion = nil
	}
}

// reload re-decodes a registered file after it changed on disk. A file that
// fails to decode, for example while it is still being written, keeps its
// previous contents.
func (s *Service) reload(path string) {
	buffer, err := decodeFile(path)
	if err != nil {
		s.logger.Debug("changed sound not reloaded", "path", path, "error", err)
		return
	}

	s.mu.Lock()
	n := 0
	for _, e := range s.sounds {
		if e.path == path {
			e.buffer = buffer
			n++
		}
	}
	s.mu.Unlock()

	if n > 0 {
		s.logger.Info("sound reloaded", "path", path, "ids", n)
	}
}

// Close waits for sounds flagged to complete playback and for alert work
// already started, bounded by ctx, then releases the output device.
// Registered IDs become invalid.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.watcher != nil {
		s.watcher.Stop()
	}

	done := make(chan struct{})
	go func() {
		s.lingering.Wait()
		s.pending.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
		s.logger.Warn("gave up waiting for sounds to finish", "error", err)
	}

	s.sink.Close()
	if c, ok := s.notifier.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil {
			s.logger.Debug("failed to close notifier", "error", cerr)
		}
	}

	s.mu.Lock()
	s.sounds = make(map[sound.ID]*entry)
	s.mu.Unlock()

	s.logger.Debug("audio service closed")
	return err
}
