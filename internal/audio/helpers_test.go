package audio

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/syssound/internal/config"
	"github.com/jmylchreest/syssound/internal/dbus"
)

const testRate = beep.SampleRate(8000)

// writeWAV writes a silent mono WAV file of the given length.
func writeWAV(t *testing.T, path string, length time.Duration) string {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	format := beep.Format{SampleRate: testRate, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(testRate.N(length)), format))
	return path
}

// holdSink keeps played streamers until drain is called.
type holdSink struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	inits   int
	pending []beep.Streamer
	plays   int
	closed  bool
}

func (h *holdSink) Init(sr beep.SampleRate, _ time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inits == 0 {
		h.rate = sr
	}
	h.inits++
	return nil
}

func (h *holdSink) SampleRate() beep.SampleRate {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rate == 0 {
		return testRate
	}
	return h.rate
}

func (h *holdSink) Play(s beep.Streamer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = append(h.pending, s)
	h.plays++
}

func (h *holdSink) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}

func (h *holdSink) playCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.plays
}

// drain streams every pending streamer to the end.
func (h *holdSink) drain() {
	h.mu.Lock()
	pending := h.pending
	h.pending = nil
	h.mu.Unlock()

	samples := make([][2]float64, 512)
	for _, s := range pending {
		for {
			_, ok := s.Stream(samples)
			if !ok {
				break
			}
		}
	}
}

// drainOne streams the oldest pending streamer to the end.
func (h *holdSink) drainOne() {
	h.mu.Lock()
	if len(h.pending) == 0 {
		h.mu.Unlock()
		return
	}
	s := h.pending[0]
	h.pending = h.pending[1:]
	h.mu.Unlock()

	samples := make([][2]float64, 512)
	for {
		if _, ok := s.Stream(samples); !ok {
			return
		}
	}
}

// drainSink streams everything it is given on a goroutine.
type drainSink struct {
	holdSink
}

func (d *drainSink) Play(s beep.Streamer) {
	d.holdSink.Play(s)
	go d.drain()
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []dbus.Notification
}

func (r *recordingNotifier) Notify(n dbus.Notification) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return uint32(len(r.sent)), nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Watch.Enabled = false
	cfg.Alert.Flash = string(config.FlashNone)
	return cfg
}

// newTestService creates a Service with a holdSink and no real devices.
func newTestService(t *testing.T, cfg *config.Config, opts ...Option) (*Service, *holdSink) {
	t.Helper()
	sink := &holdSink{}
	return newTestServiceWithSink(t, cfg, sink, opts...), sink
}

func newTestServiceWithSink(t *testing.T, cfg *config.Config, sink Sink, opts ...Option) *Service {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	opts = append([]Option{
		WithSink(sink),
		WithNotifier(&recordingNotifier{}),
		WithTerminal(&syncBuffer{}, false),
		WithBeeper(func(float64, int) error { return nil }),
	}, opts...)

	s, err := NewService(cfg, nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		// Held sinks never finish, so bound the wait.
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		_ = s.Close(ctx)
	})
	return s
}

func tempSound(t *testing.T, name string, length time.Duration) string {
	t.Helper()
	return writeWAV(t, filepath.Join(t.TempDir(), name), length)
}
