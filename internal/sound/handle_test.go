package sound

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	svc := newFakeService()

	h, err := Open(svc, "/sounds/frog.wav")
	require.NoError(t, err)
	assert.NotEqual(t, Uninitialized, h.ID())
	assert.True(t, h.ID().Valid())
}

func TestOpen_NonAudioFile(t *testing.T) {
	svc := newFakeService()

	h, err := Open(svc, "/pictures/cat.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnspecified))
	assert.Contains(t, err.Error(), "/pictures/cat.png")
	assert.Equal(t, Uninitialized, h.ID())
}

func TestHandle_PropertyInfo(t *testing.T) {
	svc := newFakeService()
	h, err := Open(svc, "frog.wav")
	require.NoError(t, err)

	for _, p := range Properties() {
		t.Run(p.Name(), func(t *testing.T) {
			info, err := h.PropertyInfo(p)
			require.NoError(t, err)
			assert.Equal(t, uint32(4), info.Size)
			assert.True(t, info.Writable)

			size, err := h.PropertySize(p)
			require.NoError(t, err)
			assert.Equal(t, uint32(4), size)

			writable, err := h.PropertyIsWritable(p)
			require.NoError(t, err)
			assert.True(t, writable)
		})
	}

	_, err = h.PropertyInfo(Property(fourCC("nope")))
	assert.True(t, errors.Is(err, ErrUnsupportedProperty))
}

func TestHandle_BoolPropertyRoundTrip(t *testing.T) {
	svc := newFakeService()
	h, err := Open(svc, "frog.wav")
	require.NoError(t, err)

	ui, err := h.IsUISound()
	require.NoError(t, err)
	assert.True(t, ui)

	completes, err := h.CompletePlaybackIfAppDies()
	require.NoError(t, err)
	assert.False(t, completes)

	for _, p := range Properties() {
		for _, v := range []bool{true, false, true} {
			require.NoError(t, h.SetBoolProperty(p, v))
			got, err := h.BoolProperty(p)
			require.NoError(t, err)
			assert.Equal(t, v, got, "%s", p)
		}
	}

	require.NoError(t, h.SetUISound(false))
	ui, err = h.IsUISound()
	require.NoError(t, err)
	assert.False(t, ui)

	require.NoError(t, h.SetCompletePlaybackIfAppDies(true))
	completes, err = h.CompletePlaybackIfAppDies()
	require.NoError(t, err)
	assert.True(t, completes)
}

func TestHandle_DisposeTwice(t *testing.T) {
	svc := newFakeService()
	h, err := Open(svc, "frog.wav")
	require.NoError(t, err)

	require.NoError(t, h.Dispose())
	assert.False(t, svc.registered(h.ID()))

	err = h.Dispose()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnspecified))
}

func TestHandle_ZeroValue(t *testing.T) {
	var h Handle

	assert.Equal(t, Uninitialized, h.ID())
	assert.Error(t, h.Dispose())
	_, err := h.PropertyInfo(PropertyIsUISound)
	assert.True(t, errors.Is(err, ErrBadSpecifierSize))
	_, err = h.BoolProperty(PropertyIsUISound)
	assert.Error(t, err)
	assert.Error(t, h.AddCompletion(func(ID) {}))

	// Fire-and-forget calls must not panic.
	h.Play()
	h.PlayAsAlert()
	h.RemoveCompletion()
}

func TestHandle_Completion(t *testing.T) {
	svc := newFakeService()
	h, err := Open(svc, "frog.wav")
	require.NoError(t, err)

	calls := 0
	require.NoError(t, h.AddCompletion(func(id ID) {
		assert.Equal(t, h.ID(), id)
		calls++
	}))

	h.Play()
	assert.Equal(t, 1, calls)

	h.RemoveCompletion()
	h.Play()
	assert.Equal(t, 1, calls)
}

func TestHandle_AddCompletionReplaces(t *testing.T) {
	svc := newFakeService()
	h, err := Open(svc, "frog.wav")
	require.NoError(t, err)

	var first, second int
	require.NoError(t, h.AddCompletion(func(ID) { first++ }))
	require.NoError(t, h.AddCompletion(func(ID) { second++ }))

	h.Play()
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestHandle_AddCompletionFailure(t *testing.T) {
	svc := newFakeService()
	h, err := Open(svc, "frog.wav")
	require.NoError(t, err)

	svc.addStatus = StatusClientTimedOut
	err = h.AddCompletion(func(ID) {})
	assert.True(t, errors.Is(err, ErrClientTimedOut))
}

func TestHandle_CompletionOnRunLoop(t *testing.T) {
	svc := newFakeService()
	h, err := Open(svc, "frog.wav")
	require.NoError(t, err)

	var posted []func()
	loop := RunLoopFunc(func(fn func()) { posted = append(posted, fn) })

	var mu sync.Mutex
	calls := 0
	require.NoError(t, h.AddCompletion(func(ID) {
		mu.Lock()
		calls++
		mu.Unlock()
	}, OnRunLoop(loop)))

	h.Play()
	require.Len(t, posted, 1)
	assert.Equal(t, 0, calls, "completion must wait for the run loop")

	posted[0]()
	assert.Equal(t, 1, calls)
}

func TestGlobalTriggers(t *testing.T) {
	svc := newFakeService()

	Vibrate(svc)
	PlaySystemAlert(svc)
	FlashScreen(svc)

	assert.Equal(t, []ID{SystemSoundVibrate}, svc.played)
	assert.Equal(t, []ID{SystemSoundUserPreferredAlert, SystemSoundFlashScreen}, svc.alerts)
}

func TestHandleFor(t *testing.T) {
	svc := newFakeService()
	h := HandleFor(svc, SystemSoundFlashScreen)

	h.PlayAsAlert()
	assert.Equal(t, []ID{SystemSoundFlashScreen}, svc.alerts)
}
