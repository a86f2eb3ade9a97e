//go:build darwin && cgo

package audiotoolbox

/*
#cgo LDFLAGS: -framework AudioToolbox -framework CoreFoundation
#include <stdlib.h>
#include "bridge_darwin.h"
*/
import "C"

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/jmylchreest/syssound/internal/config"
	"github.com/jmylchreest/syssound/internal/sound"
)

// completions maps a registered sound ID to its completion.
var completions = struct {
	sync.Mutex
	fns map[sound.ID]sound.CompletionFunc
}{fns: make(map[sound.ID]sound.CompletionFunc)}

//export goSoundFinished
func goSoundFinished(id C.SystemSoundID) {
	completions.Lock()
	fn := completions.fns[sound.ID(id)]
	completions.Unlock()

	if fn != nil {
		// Keep the run loop thread free for other sounds.
		go fn(sound.ID(id))
	}
}

// Service calls System Sound Services.
type Service struct {
	logger *slog.Logger
	loop   C.CFRunLoopRef
	done   chan struct{}
	once   sync.Once
}

var _ sound.Service = (*Service)(nil)

// NewService starts the run loop thread used for completions.
func NewService(logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		logger: logger,
		done:   make(chan struct{}),
	}

	ready := make(chan C.CFRunLoopRef)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(s.done)

		ready <- C.syssound_loop_prepare()
		C.syssound_loop_run()
	}()
	s.loop = <-ready

	logger.Debug("audiotoolbox run loop started")
	return s, nil
}

// CreateSoundID registers the audio file at path.
func (s *Service) CreateSoundID(path string) (sound.ID, sound.Status) {
	path, err := filepath.Abs(config.ExpandPath(path))
	if err != nil {
		return sound.Uninitialized, sound.StatusUnspecified
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var id C.SystemSoundID
	status := sound.Status(C.syssound_create(cpath, &id))
	if status != sound.StatusOK {
		s.logger.Debug("failed to register sound", "path", path, "status", status)
		return sound.Uninitialized, status
	}
	return sound.ID(id), status
}

// DisposeSoundID removes any completion and releases id.
func (s *Service) DisposeSoundID(id sound.ID) sound.Status {
	s.RemoveCompletion(id)
	return sound.Status(C.AudioServicesDisposeSystemSoundID(C.SystemSoundID(id)))
}

// PlaySystemSound plays id without vibration or flash.
func (s *Service) PlaySystemSound(id sound.ID) {
	C.AudioServicesPlaySystemSound(C.SystemSoundID(id))
}

// PlayAlertSound plays id as an alert.
func (s *Service) PlayAlertSound(id sound.ID) {
	C.AudioServicesPlayAlertSound(C.SystemSoundID(id))
}

// GetPropertyInfo reports the size and writability of a property.
func (s *Service) GetPropertyInfo(p sound.Property, id sound.ID) (sound.PropertyInfo, sound.Status) {
	var size C.UInt32
	var writable C.Boolean
	status := sound.Status(C.syssound_property_info(C.AudioServicesPropertyID(p), C.SystemSoundID(id), &size, &writable))
	if status != sound.StatusOK {
		return sound.PropertyInfo{}, status
	}
	return sound.PropertyInfo{Size: uint32(size), Writable: writable != 0}, status
}

// GetProperty reads a property of id.
func (s *Service) GetProperty(p sound.Property, id sound.ID) (uint32, sound.Status) {
	var value C.UInt32
	status := sound.Status(C.syssound_get_property(C.AudioServicesPropertyID(p), C.SystemSoundID(id), &value))
	return uint32(value), status
}

// SetProperty writes a property of id.
func (s *Service) SetProperty(p sound.Property, id sound.ID, value uint32) sound.Status {
	return sound.Status(C.syssound_set_property(C.AudioServicesPropertyID(p), C.SystemSoundID(id), C.UInt32(value)))
}

// AddCompletion registers fn on the service's run loop.
func (s *Service) AddCompletion(id sound.ID, fn sound.CompletionFunc) sound.Status {
	completions.Lock()
	completions.fns[id] = fn
	completions.Unlock()

	status := sound.Status(C.syssound_add_completion(C.SystemSoundID(id), s.loop))
	if status != sound.StatusOK {
		completions.Lock()
		delete(completions.fns, id)
		completions.Unlock()
	}
	return status
}

// RemoveCompletion unregisters the completion for id.
func (s *Service) RemoveCompletion(id sound.ID) {
	C.AudioServicesRemoveSystemSoundCompletion(C.SystemSoundID(id))

	completions.Lock()
	delete(completions.fns, id)
	completions.Unlock()
}

// Close stops the run loop thread. Sounds already playing are finished by
// the system.
func (s *Service) Close(ctx context.Context) error {
	s.once.Do(func() {
		C.syssound_loop_stop(s.loop)
	})

	select {
	case <-s.done:
		s.logger.Debug("audiotoolbox run loop stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
