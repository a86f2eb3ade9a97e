package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/syssound/internal/config"
	"github.com/jmylchreest/syssound/internal/sound"
)

func TestService_CreateSoundID(t *testing.T) {
	svc, sink := newTestService(t, nil)
	path := tempSound(t, "frog.wav", 200*time.Millisecond)

	id, status := svc.CreateSoundID(path)
	require.Equal(t, sound.StatusOK, status)
	assert.NotEqual(t, sound.Uninitialized, id)
	assert.False(t, id.IsSentinel())
	assert.Equal(t, 1, sink.inits)

	second, status := svc.CreateSoundID(path)
	require.Equal(t, sound.StatusOK, status)
	assert.NotEqual(t, id, second)
}

func TestService_CreateSoundID_Rejects(t *testing.T) {
	dir := t.TempDir()

	png := filepath.Join(dir, "cat.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n"), 0644))

	fake := filepath.Join(dir, "fake.wav")
	require.NoError(t, os.WriteFile(fake, []byte("not really a wav file"), 0644))

	cfg := testConfig()
	cfg.Audio.MaxDuration = config.Duration(100 * time.Millisecond)
	long := writeWAV(t, filepath.Join(dir, "long.wav"), time.Second)

	svc, _ := newTestService(t, cfg)

	tests := []struct {
		name string
		path string
	}{
		{"non-audio file", png},
		{"corrupt wav", fake},
		{"missing file", filepath.Join(dir, "missing.wav")},
		{"too long", long},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, status := svc.CreateSoundID(tt.path)
			assert.Equal(t, sound.StatusUnspecified, status)
			assert.Equal(t, sound.Uninitialized, id)
		})
	}
}

func TestService_DisposeTwice(t *testing.T) {
	svc, _ := newTestService(t, nil)

	h, err := sound.Open(svc, tempSound(t, "frog.wav", 50*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, h.Dispose())
	err = h.Dispose()
	assert.True(t, errors.Is(err, sound.ErrUnspecified))

	assert.Equal(t, sound.StatusUnspecified, svc.DisposeSoundID(sound.SystemSoundFlashScreen))
}

func TestService_Properties(t *testing.T) {
	svc, _ := newTestService(t, nil)

	h, err := sound.Open(svc, tempSound(t, "frog.wav", 50*time.Millisecond))
	require.NoError(t, err)

	for _, p := range sound.Properties() {
		info, err := h.PropertyInfo(p)
		require.NoError(t, err)
		assert.Equal(t, uint32(4), info.Size)
		assert.True(t, info.Writable)
	}

	ui, err := h.IsUISound()
	require.NoError(t, err)
	assert.True(t, ui)

	completes, err := h.CompletePlaybackIfAppDies()
	require.NoError(t, err)
	assert.False(t, completes)

	for _, p := range sound.Properties() {
		for _, v := range []bool{true, false} {
			require.NoError(t, h.SetBoolProperty(p, v))
			got, err := h.BoolProperty(p)
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
	}

	_, err = h.PropertyInfo(sound.Property(0x6e6f7065))
	assert.True(t, errors.Is(err, sound.ErrUnsupportedProperty))

	assert.Equal(t, sound.StatusUnsupportedProperty, svc.SetProperty(sound.Property(1), h.ID(), 1))
	_, status := svc.GetProperty(sound.Property(1), h.ID())
	assert.Equal(t, sound.StatusUnsupportedProperty, status)

	require.NoError(t, h.Dispose())
	_, err = h.PropertyInfo(sound.PropertyIsUISound)
	assert.True(t, errors.Is(err, sound.ErrUnspecified))
}

func TestService_CompletionFiresOnce(t *testing.T) {
	svc, sink := newTestService(t, nil)

	h, err := sound.Open(svc, tempSound(t, "frog.wav", 50*time.Millisecond))
	require.NoError(t, err)

	var calls atomic.Int32
	require.NoError(t, h.AddCompletion(func(id sound.ID) {
		assert.Equal(t, h.ID(), id)
		calls.Add(1)
	}))

	h.Play()
	assert.Equal(t, 1, sink.playCount())
	sink.drain()

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return calls.Load() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestService_RemoveCompletionBeforeFinish(t *testing.T) {
	svc, sink := newTestService(t, nil)

	h, err := sound.Open(svc, tempSound(t, "frog.wav", 50*time.Millisecond))
	require.NoError(t, err)

	var calls atomic.Int32
	require.NoError(t, h.AddCompletion(func(sound.ID) { calls.Add(1) }))

	h.Play()
	h.RemoveCompletion()
	sink.drain()

	assert.Never(t, func() bool { return calls.Load() > 0 }, 100*time.Millisecond, 5*time.Millisecond)
}

func TestService_MutedUISound(t *testing.T) {
	cfg := testConfig()
	cfg.Audio.Muted = true
	svc, sink := newTestService(t, cfg)

	h, err := sound.Open(svc, tempSound(t, "frog.wav", 50*time.Millisecond))
	require.NoError(t, err)

	done := make(chan struct{}, 1)
	require.NoError(t, h.AddCompletion(func(sound.ID) { done <- struct{}{} }))

	h.Play()
	assert.Equal(t, 0, sink.playCount(), "muted UI sound must not reach the sink")
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("completion not delivered for muted sound")
	}

	require.NoError(t, h.SetUISound(false))
	h.Play()
	assert.Equal(t, 1, sink.playCount())
}

func TestService_PlayUnknownIgnored(t *testing.T) {
	svc, sink := newTestService(t, nil)

	svc.PlaySystemSound(sound.ID(0xBEEF))
	svc.PlayAlertSound(sound.ID(0xBEEF))
	assert.Equal(t, 0, sink.playCount())
}

func TestService_SoundDelegate(t *testing.T) {
	svc := newTestServiceWithSink(t, nil, &drainSink{})

	s, err := sound.New(svc, tempSound(t, "frog.wav", 50*time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	var first, second atomic.Int32
	require.NoError(t, s.SetDelegate(sound.DelegateFunc(func(*sound.Sound) { first.Add(1) })))
	require.NoError(t, s.SetDelegate(sound.DelegateFunc(func(*sound.Sound) { second.Add(1) })))

	s.Play()

	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
}

func TestService_CloseWaitsForLingeringSounds(t *testing.T) {
	svc, sink := newTestService(t, nil)

	h, err := sound.Open(svc, tempSound(t, "frog.wav", 50*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, h.SetCompletePlaybackIfAppDies(true))

	h.Play()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = svc.Close(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, sink.closed)

	// A second Close is a no-op.
	assert.NoError(t, svc.Close(context.Background()))
}

func TestService_CloseAfterLingeringSoundsFinish(t *testing.T) {
	svc, sink := newTestService(t, nil)

	h, err := sound.Open(svc, tempSound(t, "frog.wav", 50*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, h.SetCompletePlaybackIfAppDies(true))

	h.Play()
	go func() {
		time.Sleep(20 * time.Millisecond)
		sink.drain()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, svc.Close(ctx))

	_, status := svc.CreateSoundID(tempSound(t, "late.wav", 50*time.Millisecond))
	assert.Equal(t, sound.StatusUnspecified, status)
}

func TestService_Reload(t *testing.T) {
	cfg := testConfig()
	cfg.Watch.Enabled = true
	svc, _ := newTestService(t, cfg)

	path := tempSound(t, "frog.wav", 50*time.Millisecond)
	id, status := svc.CreateSoundID(path)
	require.Equal(t, sound.StatusOK, status)

	length := func() int {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return svc.sounds[id].buffer.Len()
	}
	before := length()

	writeWAV(t, path, 200*time.Millisecond)

	assert.Eventually(t, func() bool { return length() > before }, 2*time.Second, 10*time.Millisecond)
}
