package audio

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/jmylchreest/syssound/internal/config"
	"github.com/jmylchreest/syssound/internal/sound"
)

// Manager keeps one registered Sound per file, resolving configured aliases.
// It works with any sound.Service.
type Manager struct {
	mu     sync.RWMutex
	logger *slog.Logger
	svc    sound.Service
	config *config.Config

	// Resolved path to registered sound
	sounds map[string]*managed
}

// managed pairs a registered Sound with the callers waiting on its plays.
// Completions carry no play identity, so each one releases the oldest
// outstanding play. Plays nobody waits on hold a nil entry.
type managed struct {
	sound *sound.Sound

	mu      sync.Mutex
	waiters []chan struct{}
}

// start plays the sound and queues done, which may be nil, to be closed
// when that play finishes.
func (e *managed) start(alert bool, done chan struct{}) {
	e.mu.Lock()
	e.waiters = append(e.waiters, done)
	e.mu.Unlock()

	if alert {
		e.sound.PlayAsAlert()
	} else {
		e.sound.Play()
	}
}

// DidFinishPlaying releases the oldest outstanding play.
func (e *managed) DidFinishPlaying(*sound.Sound) {
	e.mu.Lock()
	if len(e.waiters) == 0 {
		e.mu.Unlock()
		return
	}
	done := e.waiters[0]
	e.waiters[0] = nil
	e.waiters = e.waiters[1:]
	e.mu.Unlock()

	if done != nil {
		close(done)
	}
}

// NewManager creates a new sound manager.
func NewManager(svc sound.Service, cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Manager{
		logger: logger,
		svc:    svc,
		config: cfg,
		sounds: make(map[string]*managed),
	}
}

// Get returns the Sound for an alias or path, registering it on first use.
// The Manager owns the Sound's delegate; callers must not replace it.
func (m *Manager) Get(nameOrPath string) (*sound.Sound, error) {
	e, err := m.entry(nameOrPath)
	if err != nil {
		return nil, err
	}
	return e.sound, nil
}

func (m *Manager) entry(nameOrPath string) (*managed, error) {
	path := m.config.ResolveSound(nameOrPath)

	m.mu.RLock()
	e, ok := m.sounds[path]
	m.mu.RUnlock()
	if ok {
		return e, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sounds[path]; ok {
		return e, nil
	}

	s, err := sound.New(m.svc, path, sound.WithLogger(m.logger))
	if err != nil {
		return nil, err
	}
	e = &managed{sound: s}
	if err := s.SetDelegate(e); err != nil {
		_ = s.Close()
		return nil, err
	}
	m.sounds[path] = e
	return e, nil
}

// Aliases returns the configured alias names in sorted order.
func (m *Manager) Aliases() []string {
	names := make([]string, 0, len(m.config.Sounds))
	for name := range m.config.Sounds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preload registers every configured alias. Failures are logged and skipped.
func (m *Manager) Preload() int {
	loaded := 0
	for _, name := range m.Aliases() {
		if _, err := m.Get(name); err != nil {
			m.logger.Warn("failed to preload sound", "alias", name, "error", err)
			continue
		}
		loaded++
	}
	m.logger.Debug("sounds preloaded", "count", loaded)
	return loaded
}

// Play plays an alias or path without waiting for it to finish.
func (m *Manager) Play(nameOrPath string, alert bool) error {
	e, err := m.entry(nameOrPath)
	if err != nil {
		return err
	}
	e.start(alert, nil)
	return nil
}

// PlayAndWait plays an alias or path and blocks until that play finishes or
// ctx is done. Concurrent calls on the same sound each wait for their own
// play.
func (m *Manager) PlayAndWait(ctx context.Context, nameOrPath string, alert bool) error {
	e, err := m.entry(nameOrPath)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	e.start(alert, done)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disposes every registered sound.
func (m *Manager) Close() error {
	m.mu.Lock()
	sounds := m.sounds
	m.sounds = make(map[string]*managed)
	m.mu.Unlock()

	var errs []error
	for _, e := range sounds {
		if err := e.sound.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
